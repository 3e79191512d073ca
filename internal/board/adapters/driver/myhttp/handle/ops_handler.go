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

// OpsHandler serves the remaining management views: vehicle change-requests,
// fleets, corporate accounts, promotions and admin grants. All of it is
// passthrough plumbing around the API plus group invalidation.
type OpsHandler struct {
	api     ports.IAdminAPI
	session *services.BoardSession
	mylog   mylogger.Logger
}

func NewOpsHandler(mylog mylogger.Logger, api ports.IAdminAPI, session *services.BoardSession) *OpsHandler {
	return &OpsHandler{api: api, session: session, mylog: mylog}
}

func (h *OpsHandler) listGroup(group string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		data, err := h.session.Queries().Get(ctx, group)
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{group: data})
	}
}

func (h *OpsHandler) ChangeRequests() http.HandlerFunc { return h.listGroup(services.GroupChangeRequests) }
func (h *OpsHandler) Fleets() http.HandlerFunc         { return h.listGroup(services.GroupFleets) }
func (h *OpsHandler) Corporates() http.HandlerFunc     { return h.listGroup(services.GroupCorporates) }
func (h *OpsHandler) Promotions() http.HandlerFunc     { return h.listGroup(services.GroupPromotions) }
func (h *OpsHandler) Admins() http.HandlerFunc         { return h.listGroup(services.GroupAdmins) }

func (h *OpsHandler) ApproveChangeRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		resp, err := h.api.ApproveChangeRequest(ctx, id)
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}
		h.session.Queries().Invalidate(services.GroupChangeRequests)
		jsonResponse(w, http.StatusOK, resp)
	}
}

func (h *OpsHandler) RejectChangeRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var req dto.RejectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("invalid reject payload"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		resp, err := h.api.RejectChangeRequest(ctx, id, req.Reason)
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}
		h.session.Queries().Invalidate(services.GroupChangeRequests)
		jsonResponse(w, http.StatusOK, resp)
	}
}

func (h *OpsHandler) CreateFleet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form dto.FleetForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("invalid fleet payload"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		fleet, err := h.api.CreateFleet(ctx, form)
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}
		h.session.Queries().Invalidate(services.GroupFleets)
		jsonResponse(w, http.StatusCreated, fleet)
	}
}

func (h *OpsHandler) CreateCorporate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form dto.CorporateForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("invalid corporate payload"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		corp, err := h.api.CreateCorporate(ctx, form)
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}
		h.session.Queries().Invalidate(services.GroupCorporates)
		jsonResponse(w, http.StatusCreated, corp)
	}
}

func (h *OpsHandler) CreatePromotion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form dto.PromotionForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("invalid promotion payload"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		promo, err := h.api.CreatePromotion(ctx, form)
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}
		h.session.Queries().Invalidate(services.GroupPromotions)
		jsonResponse(w, http.StatusCreated, promo)
	}
}

func (h *OpsHandler) SetPromotionActive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var req struct {
			Active bool `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("invalid payload"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		resp, err := h.api.SetPromotionActive(ctx, id, req.Active)
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}
		h.session.Queries().Invalidate(services.GroupPromotions)
		jsonResponse(w, http.StatusOK, resp)
	}
}

func (h *OpsHandler) GrantAdmin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
			jsonError(w, http.StatusBadRequest, errors.New("email is required"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		resp, err := h.api.GrantAdmin(ctx, req.Email)
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}
		h.session.Queries().Invalidate(services.GroupAdmins)
		h.mylog.Action("admin_granted").Info("admin access granted", "email", req.Email)
		jsonResponse(w, http.StatusOK, resp)
	}
}

func (h *OpsHandler) RevokeAdmin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		resp, err := h.api.RevokeAdmin(ctx, id)
		if err != nil {
			jsonError(w, http.StatusBadGateway, err)
			return
		}
		h.session.Queries().Invalidate(services.GroupAdmins)
		h.mylog.Action("admin_revoked").Info("admin access revoked", "user_id", id)
		jsonResponse(w, http.StatusOK, resp)
	}
}
