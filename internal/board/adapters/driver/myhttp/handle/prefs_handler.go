package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"ride-admin/internal/board/core/ports"
	"ride-admin/internal/mylogger"
)

// PrefsHandler reads and writes the board's local UI preferences.
type PrefsHandler struct {
	prefs ports.IPrefsRepo
	mylog mylogger.Logger
}

func NewPrefsHandler(mylog mylogger.Logger, prefs ports.IPrefsRepo) *PrefsHandler {
	return &PrefsHandler{prefs: prefs, mylog: mylog}
}

func (h *PrefsHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.prefs.Preferences()
		if err != nil {
			jsonError(w, http.StatusInternalServerError, err)
			return
		}
		jsonResponse(w, http.StatusOK, p)
	}
}

func (h *PrefsHandler) Put() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p ports.Preferences
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("invalid preferences payload"))
			return
		}
		if p.Theme != "light" && p.Theme != "dark" {
			jsonError(w, http.StatusBadRequest, errors.New("theme must be light or dark"))
			return
		}
		if err := h.prefs.SavePreferences(p); err != nil {
			jsonError(w, http.StatusInternalServerError, err)
			return
		}
		jsonResponse(w, http.StatusOK, p)
	}
}
