package handle

import (
	"context"
	"net/http"
	"time"

	"ride-admin/internal/board/core/services"
	"ride-admin/internal/mylogger"
)

// BoardHandler serves the dashboard header: stats and the live-rides panel.
type BoardHandler struct {
	session *services.BoardSession
	mylog   mylogger.Logger
}

func NewBoardHandler(mylog mylogger.Logger, session *services.BoardSession) *BoardHandler {
	return &BoardHandler{session: session, mylog: mylog}
}

func (h *BoardHandler) GetStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		data, err := h.session.Queries().Get(ctx, services.GroupAdminStats)
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}

		resp := map[string]any{"stats": data}
		if inlineErr := h.session.Queries().LastError(services.GroupAdminStats); inlineErr != nil {
			resp["stale"] = true
			resp["error"] = inlineErr.Error()
		}
		jsonResponse(w, http.StatusOK, resp)
	}
}

func (h *BoardHandler) GetLiveRides() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		rides, err := h.session.LiveRides(ctx)
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{"rides": rides})
	}
}
