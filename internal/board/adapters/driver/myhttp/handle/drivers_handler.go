package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ride-admin/internal/board/core/domain/dto"
	"ride-admin/internal/board/core/ports"
	"ride-admin/internal/board/core/services"
	"ride-admin/internal/mylogger"
)

// DriversHandler serves the review and directory views. Reads go through
// the query cache; mutations pass through to the API and invalidate the
// affected groups, the same groups the push bridge would touch, so the UI
// converges even with the push channel down.
type DriversHandler struct {
	api     ports.IAdminAPI
	session *services.BoardSession
	mylog   mylogger.Logger
}

func NewDriversHandler(mylog mylogger.Logger, api ports.IAdminAPI, session *services.BoardSession) *DriversHandler {
	return &DriversHandler{api: api, session: session, mylog: mylog}
}

func (h *DriversHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		data, err := h.session.Queries().Get(ctx, services.GroupDrivers)
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{"drivers": data})
	}
}

func (h *DriversHandler) Pending() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		data, err := h.session.Queries().Get(ctx, services.GroupPendingDrivers)
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{"pending": data})
	}
}

func (h *DriversHandler) Detail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		driver, err := h.session.DriverDetail(ctx, id)
		if errors.Is(err, services.ErrUnknownGroup) {
			// Detail view not watched; fetch directly.
			driver, err = h.api.Driver(ctx, id)
		}
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}
		jsonResponse(w, http.StatusOK, driver)
	}
}

// Watch mirrors a detail view mounting: per-driver query group plus push room.
func (h *DriversHandler) Watch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		h.session.OpenDriverDetail(id)
		jsonResponse(w, http.StatusOK, map[string]string{"watching": id})
	}
}

func (h *DriversHandler) Unwatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		h.session.CloseDriverDetail(id)
		jsonResponse(w, http.StatusOK, map[string]string{"unwatched": id})
	}
}

func (h *DriversHandler) Approve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		resp, err := h.api.ApproveDriver(ctx, id)
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}

		h.invalidateReviewGroups(id)
		h.mylog.Action("driver_approved").Info("driver approved", "driver_id", id)
		jsonResponse(w, http.StatusOK, resp)
	}
}

func (h *DriversHandler) Reject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var req dto.RejectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("invalid reject payload"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		resp, err := h.api.RejectDriver(ctx, id, req.Reason)
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}

		h.invalidateReviewGroups(id)
		h.mylog.Action("driver_rejected").Info("driver rejected", "driver_id", id, "reason", req.Reason)
		jsonResponse(w, http.StatusOK, resp)
	}
}

func (h *DriversHandler) invalidateReviewGroups(id string) {
	q := h.session.Queries()
	q.Invalidate(services.GroupPendingDrivers)
	q.Invalidate(services.GroupDrivers)
	q.Invalidate(services.GroupAdminStats)
	q.Invalidate(services.DriverGroup(id))
}
