package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"ride-admin/internal/board/core/domain/dto"
	"ride-admin/internal/board/core/domain/model"
	"ride-admin/internal/board/core/ports"
	"ride-admin/internal/mylogger"
)

func testLogger() mylogger.Logger {
	return mylogger.NewWithWriter(io.Discard, slog.LevelError, "test")
}

// fakePush records subscriptions and room traffic and lets tests inject
// events and lifecycle transitions directly.
type fakePush struct {
	handlers map[string][]func(json.RawMessage)
	states   []func(model.ConnState)
	joined   []string
	left     []string
	closed   bool
}

func newFakePush() *fakePush {
	return &fakePush{handlers: make(map[string][]func(json.RawMessage))}
}

type fakeSub struct {
	release func()
}

func (s *fakeSub) Close() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

func (p *fakePush) Run(ctx context.Context) {}

func (p *fakePush) Subscribe(event string, fn func(json.RawMessage)) ports.ISubscription {
	p.handlers[event] = append(p.handlers[event], fn)
	idx := len(p.handlers[event]) - 1
	return &fakeSub{release: func() {
		p.handlers[event][idx] = nil
	}}
}

func (p *fakePush) OnStateChange(fn func(model.ConnState)) {
	p.states = append(p.states, fn)
}

func (p *fakePush) JoinRoom(room string)  { p.joined = append(p.joined, room) }
func (p *fakePush) LeaveRoom(room string) { p.left = append(p.left, room) }

func (p *fakePush) Close() error {
	p.closed = true
	return nil
}

func (p *fakePush) emit(event string, data string) {
	for _, fn := range p.handlers[event] {
		if fn != nil {
			fn(json.RawMessage(data))
		}
	}
}

// fakeAPI satisfies ports.IAdminAPI with overridable hooks; unset calls
// return zero values.
type fakeAPI struct {
	driversFn   func(ctx context.Context, page int, status string) (dto.DriverPage, error)
	liveRidesFn func(ctx context.Context, limit int) ([]dto.LiveRideDTO, error)
	importFn    func(ctx context.Context, req dto.DriverImportRequest) (dto.DriverImportResponse, error)
	statsCalls  int
}

func (f *fakeAPI) Drivers(ctx context.Context, page int, status string) (dto.DriverPage, error) {
	if f.driversFn != nil {
		return f.driversFn(ctx, page, status)
	}
	return dto.DriverPage{}, nil
}

func (f *fakeAPI) PendingDrivers(ctx context.Context) ([]dto.PendingDriverDTO, error) {
	return nil, nil
}

func (f *fakeAPI) Driver(ctx context.Context, id string) (dto.DriverDTO, error) {
	return dto.DriverDTO{Driver_id: id}, nil
}

func (f *fakeAPI) ApproveDriver(ctx context.Context, id string) (dto.ActionResponse, error) {
	return dto.ActionResponse{Status: "approved"}, nil
}

func (f *fakeAPI) RejectDriver(ctx context.Context, id, reason string) (dto.ActionResponse, error) {
	return dto.ActionResponse{Status: "rejected"}, nil
}

func (f *fakeAPI) LiveRides(ctx context.Context, limit int) ([]dto.LiveRideDTO, error) {
	if f.liveRidesFn != nil {
		return f.liveRidesFn(ctx, limit)
	}
	return nil, nil
}

func (f *fakeAPI) Stats(ctx context.Context) (dto.AdminStats, error) {
	f.statsCalls++
	return dto.AdminStats{}, nil
}

func (f *fakeAPI) ChangeRequests(ctx context.Context) ([]dto.ChangeRequestDTO, error) {
	return nil, nil
}

func (f *fakeAPI) ApproveChangeRequest(ctx context.Context, id string) (dto.ActionResponse, error) {
	return dto.ActionResponse{}, nil
}

func (f *fakeAPI) RejectChangeRequest(ctx context.Context, id, reason string) (dto.ActionResponse, error) {
	return dto.ActionResponse{}, nil
}

func (f *fakeAPI) Fleets(ctx context.Context) ([]dto.FleetDTO, error) { return nil, nil }

func (f *fakeAPI) CreateFleet(ctx context.Context, form dto.FleetForm) (dto.FleetDTO, error) {
	return dto.FleetDTO{}, nil
}

func (f *fakeAPI) Corporates(ctx context.Context) ([]dto.CorporateDTO, error) { return nil, nil }

func (f *fakeAPI) CreateCorporate(ctx context.Context, form dto.CorporateForm) (dto.CorporateDTO, error) {
	return dto.CorporateDTO{}, nil
}

func (f *fakeAPI) Promotions(ctx context.Context) ([]dto.PromotionDTO, error) { return nil, nil }

func (f *fakeAPI) CreatePromotion(ctx context.Context, form dto.PromotionForm) (dto.PromotionDTO, error) {
	return dto.PromotionDTO{}, nil
}

func (f *fakeAPI) SetPromotionActive(ctx context.Context, id string, active bool) (dto.ActionResponse, error) {
	return dto.ActionResponse{}, nil
}

func (f *fakeAPI) Admins(ctx context.Context) ([]dto.AdminDTO, error) { return nil, nil }

func (f *fakeAPI) GrantAdmin(ctx context.Context, email string) (dto.ActionResponse, error) {
	return dto.ActionResponse{}, nil
}

func (f *fakeAPI) RevokeAdmin(ctx context.Context, userID string) (dto.ActionResponse, error) {
	return dto.ActionResponse{}, nil
}

func (f *fakeAPI) ImportDrivers(ctx context.Context, req dto.DriverImportRequest) (dto.DriverImportResponse, error) {
	if f.importFn != nil {
		return f.importFn(ctx, req)
	}
	return dto.DriverImportResponse{Accepted: len(req.Drivers)}, nil
}
