package handle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ride-admin/internal/board/core/domain/model"
	"ride-admin/internal/board/core/services"
	"ride-admin/internal/mylogger"
)

const defaultZoom = 12.0

// MapHandler serves the projected live-map layers.
type MapHandler struct {
	session *services.BoardSession
	mylog   mylogger.Logger
}

func NewMapHandler(mylog mylogger.Logger, session *services.BoardSession) *MapHandler {
	return &MapHandler{session: session, mylog: mylog}
}

func (h *MapHandler) GetMarkers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewport, err := parseViewport(r.URL.Query().Get("bbox"))
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		sets, err := h.session.Markers(ctx, viewport)
		if err != nil {
			// Degraded, not fatal: ship empty layers with the error inline.
			state, trust := h.session.Connection()
			jsonResponse(w, http.StatusOK, map[string]any{
				"available":  sets.Available,
				"engaged":    sets.Engaged,
				"connection": state.String(),
				"trust_live": trust,
				"error":      err.Error(),
			})
			return
		}

		state, trust := h.session.Connection()
		jsonResponse(w, http.StatusOK, map[string]any{
			"available":  sets.Available,
			"engaged":    sets.Engaged,
			"connection": state.String(),
			"trust_live": trust,
		})
	}
}

func (h *MapHandler) GetHeat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode := model.HeatMode(r.URL.Query().Get("mode"))
		if mode == "" {
			mode = model.HeatModeSupply
		}
		if mode != model.HeatModeSupply && mode != model.HeatModeDemand {
			jsonError(w, http.StatusBadRequest, fmt.Errorf("unknown heat mode %q", mode))
			return
		}

		zoom := defaultZoom
		if z := r.URL.Query().Get("zoom"); z != "" {
			parsed, err := strconv.ParseFloat(z, 64)
			if err != nil {
				jsonError(w, http.StatusBadRequest, fmt.Errorf("invalid zoom %q", z))
				return
			}
			zoom = parsed
		}

		viewport, err := parseViewport(r.URL.Query().Get("bbox"))
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		points, radius, err := h.session.Heat(ctx, mode, zoom, viewport)
		resp := map[string]any{
			"mode":   mode,
			"points": points,
			"radius": radius,
		}
		if err != nil {
			resp["error"] = err.Error()
		}
		jsonResponse(w, http.StatusOK, resp)
	}
}

func (h *MapHandler) GetConnection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, trust := h.session.Connection()
		jsonResponse(w, http.StatusOK, map[string]any{
			"state":      state.String(),
			"trust_live": trust,
		})
	}
}

// parseViewport reads "southLat,westLng,northLat,eastLng". Empty input means
// no clipping.
func parseViewport(bbox string) (*services.Viewport, error) {
	if bbox == "" {
		return nil, nil
	}
	parts := strings.Split(bbox, ",")
	if len(parts) != 4 {
		return nil, errors.New("bbox must be southLat,westLng,northLat,eastLng")
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bbox component %q", p)
		}
		vals[i] = v
	}
	v := services.NewViewport(vals[0], vals[1], vals[2], vals[3])
	return &v, nil
}
