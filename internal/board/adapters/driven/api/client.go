package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ride-admin/internal/board/core/domain/dto"
	"ride-admin/internal/mylogger"
)

// TokenSource supplies the bearer credential for outgoing requests.
type TokenSource interface {
	Token() string
}

// Client talks to the platform REST API. It implements ports.IAdminAPI.
type Client struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	mylog   mylogger.Logger
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, mylog mylogger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
		mylog:   mylog,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyBytes []byte
	var err error

	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, truncate(data, 200))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response of %s %s: %w", method, path, err)
	}
	return nil
}

func truncate(data []byte, n int) string {
	if len(data) > n {
		return string(data[:n]) + "..."
	}
	return string(data)
}

func (c *Client) Drivers(ctx context.Context, page int, status string) (dto.DriverPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if status != "" {
		q.Set("status", status)
	}
	var out dto.DriverPage
	err := c.do(ctx, http.MethodGet, "/admin/drivers?"+q.Encode(), nil, &out)
	return out, err
}

func (c *Client) PendingDrivers(ctx context.Context) ([]dto.PendingDriverDTO, error) {
	var out []dto.PendingDriverDTO
	err := c.do(ctx, http.MethodGet, "/admin/drivers/pending", nil, &out)
	return out, err
}

func (c *Client) Driver(ctx context.Context, id string) (dto.DriverDTO, error) {
	var out dto.DriverDTO
	err := c.do(ctx, http.MethodGet, "/admin/drivers/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) ApproveDriver(ctx context.Context, id string) (dto.ActionResponse, error) {
	var out dto.ActionResponse
	err := c.do(ctx, http.MethodPost, "/admin/drivers/"+url.PathEscape(id)+"/approve", nil, &out)
	return out, err
}

func (c *Client) RejectDriver(ctx context.Context, id, reason string) (dto.ActionResponse, error) {
	var out dto.ActionResponse
	err := c.do(ctx, http.MethodPost, "/admin/drivers/"+url.PathEscape(id)+"/reject", dto.RejectRequest{Reason: reason}, &out)
	return out, err
}

func (c *Client) LiveRides(ctx context.Context, limit int) ([]dto.LiveRideDTO, error) {
	var out dto.LiveRidesResponse
	err := c.do(ctx, http.MethodGet, "/admin/rides/live?limit="+strconv.Itoa(limit), nil, &out)
	return out.Rides, err
}

func (c *Client) Stats(ctx context.Context) (dto.AdminStats, error) {
	var out dto.AdminStats
	err := c.do(ctx, http.MethodGet, "/admin/stats", nil, &out)
	return out, err
}

func (c *Client) ChangeRequests(ctx context.Context) ([]dto.ChangeRequestDTO, error) {
	var out []dto.ChangeRequestDTO
	err := c.do(ctx, http.MethodGet, "/admin/change-requests", nil, &out)
	return out, err
}

func (c *Client) ApproveChangeRequest(ctx context.Context, id string) (dto.ActionResponse, error) {
	var out dto.ActionResponse
	err := c.do(ctx, http.MethodPost, "/admin/change-requests/"+url.PathEscape(id)+"/approve", nil, &out)
	return out, err
}

func (c *Client) RejectChangeRequest(ctx context.Context, id, reason string) (dto.ActionResponse, error) {
	var out dto.ActionResponse
	err := c.do(ctx, http.MethodPost, "/admin/change-requests/"+url.PathEscape(id)+"/reject", dto.RejectRequest{Reason: reason}, &out)
	return out, err
}

func (c *Client) Fleets(ctx context.Context) ([]dto.FleetDTO, error) {
	var out []dto.FleetDTO
	err := c.do(ctx, http.MethodGet, "/admin/fleets", nil, &out)
	return out, err
}

func (c *Client) CreateFleet(ctx context.Context, form dto.FleetForm) (dto.FleetDTO, error) {
	var out dto.FleetDTO
	err := c.do(ctx, http.MethodPost, "/admin/fleets", form, &out)
	return out, err
}

func (c *Client) Corporates(ctx context.Context) ([]dto.CorporateDTO, error) {
	var out []dto.CorporateDTO
	err := c.do(ctx, http.MethodGet, "/admin/corporates", nil, &out)
	return out, err
}

func (c *Client) CreateCorporate(ctx context.Context, form dto.CorporateForm) (dto.CorporateDTO, error) {
	var out dto.CorporateDTO
	err := c.do(ctx, http.MethodPost, "/admin/corporates", form, &out)
	return out, err
}

func (c *Client) Promotions(ctx context.Context) ([]dto.PromotionDTO, error) {
	var out []dto.PromotionDTO
	err := c.do(ctx, http.MethodGet, "/admin/promotions", nil, &out)
	return out, err
}

func (c *Client) CreatePromotion(ctx context.Context, form dto.PromotionForm) (dto.PromotionDTO, error) {
	var out dto.PromotionDTO
	err := c.do(ctx, http.MethodPost, "/admin/promotions", form, &out)
	return out, err
}

func (c *Client) SetPromotionActive(ctx context.Context, id string, active bool) (dto.ActionResponse, error) {
	var out dto.ActionResponse
	err := c.do(ctx, http.MethodPost, "/admin/promotions/"+url.PathEscape(id)+"/active", map[string]bool{"active": active}, &out)
	return out, err
}

func (c *Client) Admins(ctx context.Context) ([]dto.AdminDTO, error) {
	var out []dto.AdminDTO
	err := c.do(ctx, http.MethodGet, "/admin/users", nil, &out)
	return out, err
}

func (c *Client) GrantAdmin(ctx context.Context, email string) (dto.ActionResponse, error) {
	var out dto.ActionResponse
	err := c.do(ctx, http.MethodPost, "/admin/users/grant", map[string]string{"email": email}, &out)
	return out, err
}

func (c *Client) RevokeAdmin(ctx context.Context, userID string) (dto.ActionResponse, error) {
	var out dto.ActionResponse
	err := c.do(ctx, http.MethodPost, "/admin/users/"+url.PathEscape(userID)+"/revoke", nil, &out)
	return out, err
}

func (c *Client) ImportDrivers(ctx context.Context, req dto.DriverImportRequest) (dto.DriverImportResponse, error) {
	var out dto.DriverImportResponse
	err := c.do(ctx, http.MethodPost, "/admin/drivers/import", req, &out)
	return out, err
}
