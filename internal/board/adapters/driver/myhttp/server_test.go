package myhttp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ride-admin/internal/board/core/domain/dto"
	"ride-admin/internal/board/core/domain/model"
	"ride-admin/internal/board/core/ports"
	"ride-admin/internal/board/core/services"
	"ride-admin/internal/config"
	"ride-admin/internal/mylogger"
)

// stubAPI serves canned data for the routes the tests hit.
type stubAPI struct {
	approved []string
}

func (s *stubAPI) Drivers(ctx context.Context, page int, status string) (dto.DriverPage, error) {
	return dto.DriverPage{Drivers: []dto.DriverDTO{
		{Driver_id: "D1", Name: "Aliya", Status: "online"},
		{Driver_id: "D2", Name: "Daniyar", Status: "busy"},
	}}, nil
}

func (s *stubAPI) PendingDrivers(ctx context.Context) ([]dto.PendingDriverDTO, error) {
	return []dto.PendingDriverDTO{{Driver_id: "P1", Name: "Marat"}}, nil
}

func (s *stubAPI) Driver(ctx context.Context, id string) (dto.DriverDTO, error) {
	return dto.DriverDTO{Driver_id: id}, nil
}

func (s *stubAPI) ApproveDriver(ctx context.Context, id string) (dto.ActionResponse, error) {
	s.approved = append(s.approved, id)
	return dto.ActionResponse{Status: "approved"}, nil
}

func (s *stubAPI) RejectDriver(ctx context.Context, id, reason string) (dto.ActionResponse, error) {
	return dto.ActionResponse{Status: "rejected"}, nil
}

func (s *stubAPI) LiveRides(ctx context.Context, limit int) ([]dto.LiveRideDTO, error) {
	return []dto.LiveRideDTO{{Ride_id: "R1", Origin_latitude: 43.1, Origin_longitude: 76.7}}, nil
}

func (s *stubAPI) Stats(ctx context.Context) (dto.AdminStats, error) {
	return dto.AdminStats{Active_rides: 3, Pending_drivers: 1}, nil
}

func (s *stubAPI) ChangeRequests(ctx context.Context) ([]dto.ChangeRequestDTO, error) {
	return nil, nil
}

func (s *stubAPI) ApproveChangeRequest(ctx context.Context, id string) (dto.ActionResponse, error) {
	return dto.ActionResponse{}, nil
}

func (s *stubAPI) RejectChangeRequest(ctx context.Context, id, reason string) (dto.ActionResponse, error) {
	return dto.ActionResponse{}, nil
}

func (s *stubAPI) Fleets(ctx context.Context) ([]dto.FleetDTO, error) { return nil, nil }

func (s *stubAPI) CreateFleet(ctx context.Context, form dto.FleetForm) (dto.FleetDTO, error) {
	return dto.FleetDTO{Fleet_id: "F1", Name: form.Name}, nil
}

func (s *stubAPI) Corporates(ctx context.Context) ([]dto.CorporateDTO, error) { return nil, nil }

func (s *stubAPI) CreateCorporate(ctx context.Context, form dto.CorporateForm) (dto.CorporateDTO, error) {
	return dto.CorporateDTO{}, nil
}

func (s *stubAPI) Promotions(ctx context.Context) ([]dto.PromotionDTO, error) { return nil, nil }

func (s *stubAPI) CreatePromotion(ctx context.Context, form dto.PromotionForm) (dto.PromotionDTO, error) {
	return dto.PromotionDTO{}, nil
}

func (s *stubAPI) SetPromotionActive(ctx context.Context, id string, active bool) (dto.ActionResponse, error) {
	return dto.ActionResponse{}, nil
}

func (s *stubAPI) Admins(ctx context.Context) ([]dto.AdminDTO, error) { return nil, nil }

func (s *stubAPI) GrantAdmin(ctx context.Context, email string) (dto.ActionResponse, error) {
	return dto.ActionResponse{}, nil
}

func (s *stubAPI) RevokeAdmin(ctx context.Context, userID string) (dto.ActionResponse, error) {
	return dto.ActionResponse{}, nil
}

func (s *stubAPI) ImportDrivers(ctx context.Context, req dto.DriverImportRequest) (dto.DriverImportResponse, error) {
	return dto.DriverImportResponse{Accepted: len(req.Drivers)}, nil
}

// stubPush is an inert push channel; tests feed the location cache through
// the bridge handlers it registers.
type stubPush struct {
	handlers map[string][]func(json.RawMessage)
}

type stubSub struct{}

func (stubSub) Close() {}

func (p *stubPush) Run(ctx context.Context) {}

func (p *stubPush) Subscribe(event string, fn func(json.RawMessage)) ports.ISubscription {
	if p.handlers == nil {
		p.handlers = make(map[string][]func(json.RawMessage))
	}
	p.handlers[event] = append(p.handlers[event], fn)
	return stubSub{}
}

func (p *stubPush) OnStateChange(fn func(model.ConnState)) {}
func (p *stubPush) JoinRoom(room string)                   {}
func (p *stubPush) LeaveRoom(room string)                  {}
func (p *stubPush) Close() error                           { return nil }

func (p *stubPush) emit(event, data string) {
	for _, fn := range p.handlers[event] {
		fn(json.RawMessage(data))
	}
}

type memPrefs struct {
	prefs ports.Preferences
	token string
}

func (m *memPrefs) Preferences() (ports.Preferences, error)   { return m.prefs, nil }
func (m *memPrefs) SavePreferences(p ports.Preferences) error { m.prefs = p; return nil }
func (m *memPrefs) CachedToken() (string, error)              { return m.token, nil }
func (m *memPrefs) SaveToken(token string) error              { m.token = token; return nil }
func (m *memPrefs) Close() error                              { return nil }

func newTestServer(t *testing.T) (*Server, *stubAPI, *stubPush) {
	t.Helper()

	mylog := mylogger.NewWithWriter(io.Discard, slog.LevelError, "test")
	cfg := &config.Config{
		Srv:  &config.ServerConfig{Port: 0},
		Push: &config.PushConfig{Room: "admin"},
		Poll: &config.PollConfig{RidesInterval: time.Hour, DriversInterval: time.Hour},
	}

	apiStub := &stubAPI{}
	pushStub := &stubPush{}

	session := services.NewBoardSession(apiStub, pushStub, cfg, mylog)
	session.Start(context.Background())
	t.Cleanup(session.Close)

	srv := NewServer(context.Background(), mylog, cfg, session, apiStub, &memPrefs{})
	srv.Configure()
	return srv, apiStub, pushStub
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("invalid JSON from %s %s: %v", method, target, err)
		}
	}
	return rec, out
}

func TestMarkersEndpoint(t *testing.T) {
	srv, _, pushStub := newTestServer(t)

	pushStub.emit(dto.EventDriverLocationUpdated, `{"driver_id":"D1","latitude":43.2,"longitude":76.8}`)
	pushStub.emit(dto.EventDriverLocationUpdated, `{"driver_id":"D2","latitude":43.3,"longitude":76.9}`)

	rec, out := doJSON(t, srv.Handler(), http.MethodGet, "/board/map/markers", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	available := out["available"].([]any)
	engaged := out["engaged"].([]any)
	if len(available) != 1 || len(engaged) != 1 {
		t.Errorf("available = %v engaged = %v", available, engaged)
	}
	if out["connection"] != "disconnected" {
		t.Errorf("connection = %v", out["connection"])
	}
}

func TestMarkersBboxClipping(t *testing.T) {
	srv, _, pushStub := newTestServer(t)

	pushStub.emit(dto.EventDriverLocationUpdated, `{"driver_id":"D1","latitude":43.2,"longitude":76.8}`)
	pushStub.emit(dto.EventDriverLocationUpdated, `{"driver_id":"D2","latitude":50.0,"longitude":80.0}`)

	_, out := doJSON(t, srv.Handler(), http.MethodGet, "/board/map/markers?bbox=43,76,44,77", "")

	if len(out["available"].([]any)) != 1 {
		t.Errorf("available = %v, want only in-viewport driver", out["available"])
	}
	if len(out["engaged"].([]any)) != 0 {
		t.Errorf("engaged = %v, want clipped out", out["engaged"])
	}
}

func TestHeatEndpointDemandMode(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec, out := doJSON(t, srv.Handler(), http.MethodGet, "/board/map/heat?mode=demand&zoom=15", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(out["points"].([]any)) != 1 {
		t.Errorf("points = %v", out["points"])
	}
	radius := out["radius"].(float64)
	if radius < services.HeatRadiusMin || radius > services.HeatRadiusMax {
		t.Errorf("radius = %v", radius)
	}
}

func TestHeatEndpointRejectsBadInput(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec, _ := doJSON(t, srv.Handler(), http.MethodGet, "/board/map/heat?mode=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad mode status = %d", rec.Code)
	}

	rec, _ = doJSON(t, srv.Handler(), http.MethodGet, "/board/map/heat?zoom=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad zoom status = %d", rec.Code)
	}

	rec, _ = doJSON(t, srv.Handler(), http.MethodGet, "/board/map/markers?bbox=1,2,3", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad bbox status = %d", rec.Code)
	}
}

func TestApproveInvalidatesAndCalls(t *testing.T) {
	srv, apiStub, _ := newTestServer(t)

	rec, out := doJSON(t, srv.Handler(), http.MethodPost, "/board/drivers/D9/approve", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if out["status"] != "approved" {
		t.Errorf("body = %v", out)
	}
	if len(apiStub.approved) != 1 || apiStub.approved[0] != "D9" {
		t.Errorf("approved = %v", apiStub.approved)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec, _ := doJSON(t, srv.Handler(), http.MethodPut, "/board/preferences", `{"theme":"dark","sidebar_collapsed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	_, out := doJSON(t, srv.Handler(), http.MethodGet, "/board/preferences", "")
	if out["theme"] != "dark" || out["sidebar_collapsed"] != true {
		t.Errorf("prefs = %v", out)
	}

	rec, _ = doJSON(t, srv.Handler(), http.MethodPut, "/board/preferences", `{"theme":"neon"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid theme status = %d", rec.Code)
	}
}

func TestImportTemplateDownload(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/board/imports/drivers/template", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "username,email,") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestImportDriversEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	csv := "username,email,phone,license_number,vehicle_type,vehicle_make,vehicle_model,vehicle_plate\n" +
		"aliya,aliya@example.com,+7701,KZ-1,ECONOMY,Toyota,Camry,1ABC\n"

	rec, out := doJSON(t, srv.Handler(), http.MethodPost, "/board/imports/drivers", csv)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if out["accepted"].(float64) != 1 {
		t.Errorf("report = %v", out)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec, out := doJSON(t, srv.Handler(), http.MethodGet, "/board/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	stats := out["stats"].(map[string]any)
	if stats["active_rides"].(float64) != 3 {
		t.Errorf("stats = %v", stats)
	}
}
