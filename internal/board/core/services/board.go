package services

import (
	"context"
	"fmt"

	"ride-admin/internal/board/core/domain/dto"
	"ride-admin/internal/board/core/domain/model"
	"ride-admin/internal/board/core/ports"
	"ride-admin/internal/config"
	"ride-admin/internal/mylogger"
)

const liveRidesLimit = 50

// BoardSession owns the live-activity state for one running board: the
// location cache, the connection tracker, the query groups, the pollers and
// the push subscriptions. It is created on startup and torn down
// synchronously on shutdown; nothing outlives it.
type BoardSession struct {
	api     ports.IAdminAPI
	push    ports.IPushChannel
	queries *QueryCache
	cache   *LocationCache
	tracker *ConnStateTracker
	bridge  *InvalidationBridge
	poller  *Poller
	mylog   mylogger.Logger

	cancel context.CancelFunc
	room   string
}

func NewBoardSession(api ports.IAdminAPI, push ports.IPushChannel, cfg *config.Config, mylog mylogger.Logger) *BoardSession {
	queries := NewQueryCache(mylog)
	cache := NewLocationCache()
	tracker := NewConnStateTracker()

	s := &BoardSession{
		api:     api,
		push:    push,
		queries: queries,
		cache:   cache,
		tracker: tracker,
		bridge:  NewInvalidationBridge(push, queries, cache, mylog),
		mylog:   mylog,
		room:    cfg.Push.Room,
	}

	s.registerGroups()

	s.poller = NewPoller(queries, []PollTarget{
		{Group: GroupLiveRides, Interval: cfg.Poll.RidesInterval},
		{Group: GroupDrivers, Interval: cfg.Poll.DriversInterval},
		{Group: GroupAdminStats, Interval: cfg.Poll.DriversInterval},
	}, mylog)

	return s
}

// Start activates the bridge, joins the admin room and launches the push
// loop and the pollers.
func (s *BoardSession) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.push.OnStateChange(s.tracker.Transition)
	s.bridge.Activate()
	s.push.JoinRoom(s.room)

	go s.push.Run(ctx)
	s.poller.Start(ctx)

	s.mylog.Action("board_session_started").Info("live board session running", "room", s.room)
}

// Close tears the session down synchronously: pollers stopped, push
// subscriptions released, location cache discarded.
func (s *BoardSession) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.poller.Stop()
	s.bridge.Close()
	if err := s.push.Close(); err != nil {
		s.mylog.Action("push_close_failed").Warn("push channel close", "error", err.Error())
	}
	s.cache.Reset()

	s.mylog.Action("board_session_closed").Info("live board session closed")
}

// Queries exposes the query cache to the HTTP layer.
func (s *BoardSession) Queries() *QueryCache {
	return s.queries
}

// Connection returns the current push-channel state and whether live data
// is trustworthy.
func (s *BoardSession) Connection() (model.ConnState, bool) {
	return s.tracker.State(), s.tracker.TrustLive()
}

// Markers projects the current marker layers, optionally clipped to a
// viewport.
func (s *BoardSession) Markers(ctx context.Context, viewport *Viewport) (model.MarkerSets, error) {
	drivers, err := s.driverSnapshots(ctx)
	if err != nil {
		return model.MarkerSets{Available: []model.Marker{}, Engaged: []model.Marker{}}, err
	}

	sets := ProjectMarkers(drivers, s.cache)
	if viewport != nil {
		sets = ClipMarkers(sets, *viewport)
	}
	return sets, nil
}

// Heat projects the weighted point cloud for the given mode and zoom.
func (s *BoardSession) Heat(ctx context.Context, mode model.HeatMode, zoom float64, viewport *Viewport) ([]model.HeatPoint, float64, error) {
	radius := HeatRadius(zoom)

	var drivers []model.DriverSnapshot
	var rides []model.LiveRide
	var err error

	if mode == model.HeatModeDemand {
		rides, err = s.liveRides(ctx)
	} else {
		drivers, err = s.driverSnapshots(ctx)
	}
	if err != nil {
		return []model.HeatPoint{}, radius, err
	}

	points := ProjectHeat(mode, drivers, rides, s.cache)
	if viewport != nil {
		points = ClipHeat(points, *viewport)
	}
	return points, radius, nil
}

// LiveRides returns the polled live-rides snapshot.
func (s *BoardSession) LiveRides(ctx context.Context) ([]model.LiveRide, error) {
	return s.liveRides(ctx)
}

// OpenDriverDetail registers the per-driver query group and joins its push
// room. Mirrors a detail view mounting.
func (s *BoardSession) OpenDriverDetail(id string) {
	group := DriverGroup(id)
	s.queries.Register(group, func(ctx context.Context) (any, error) {
		return s.api.Driver(ctx, id)
	})
	s.push.JoinRoom(group)
}

// CloseDriverDetail drops the detail group and leaves the room.
func (s *BoardSession) CloseDriverDetail(id string) {
	group := DriverGroup(id)
	s.queries.Unregister(group)
	s.push.LeaveRoom(group)
}

// DriverDetail fetches the detail group for an open driver view.
func (s *BoardSession) DriverDetail(ctx context.Context, id string) (dto.DriverDTO, error) {
	data, err := s.queries.Get(ctx, DriverGroup(id))
	if err != nil {
		return dto.DriverDTO{}, err
	}
	d, ok := data.(dto.DriverDTO)
	if !ok {
		return dto.DriverDTO{}, fmt.Errorf("unexpected payload for %s", DriverGroup(id))
	}
	return d, nil
}

func (s *BoardSession) registerGroups() {
	s.queries.Register(GroupDrivers, func(ctx context.Context) (any, error) {
		page, err := s.api.Drivers(ctx, 1, "")
		if err != nil {
			return nil, err
		}
		return toDriverSnapshots(page.Drivers), nil
	})
	s.queries.Register(GroupLiveRides, func(ctx context.Context) (any, error) {
		rides, err := s.api.LiveRides(ctx, liveRidesLimit)
		if err != nil {
			return nil, err
		}
		return toLiveRides(rides), nil
	})
	s.queries.Register(GroupAdminStats, func(ctx context.Context) (any, error) {
		return s.api.Stats(ctx)
	})
	s.queries.Register(GroupPendingDrivers, func(ctx context.Context) (any, error) {
		return s.api.PendingDrivers(ctx)
	})
	s.queries.Register(GroupChangeRequests, func(ctx context.Context) (any, error) {
		return s.api.ChangeRequests(ctx)
	})
	s.queries.Register(GroupFleets, func(ctx context.Context) (any, error) {
		return s.api.Fleets(ctx)
	})
	s.queries.Register(GroupCorporates, func(ctx context.Context) (any, error) {
		return s.api.Corporates(ctx)
	})
	s.queries.Register(GroupPromotions, func(ctx context.Context) (any, error) {
		return s.api.Promotions(ctx)
	})
	s.queries.Register(GroupAdmins, func(ctx context.Context) (any, error) {
		return s.api.Admins(ctx)
	})
}

func (s *BoardSession) driverSnapshots(ctx context.Context) ([]model.DriverSnapshot, error) {
	data, err := s.queries.Get(ctx, GroupDrivers)
	if err != nil {
		return nil, err
	}
	drivers, ok := data.([]model.DriverSnapshot)
	if !ok {
		return nil, fmt.Errorf("unexpected payload for %s", GroupDrivers)
	}
	return drivers, nil
}

func (s *BoardSession) liveRides(ctx context.Context) ([]model.LiveRide, error) {
	data, err := s.queries.Get(ctx, GroupLiveRides)
	if err != nil {
		return nil, err
	}
	rides, ok := data.([]model.LiveRide)
	if !ok {
		return nil, fmt.Errorf("unexpected payload for %s", GroupLiveRides)
	}
	return rides, nil
}

func toDriverSnapshots(in []dto.DriverDTO) []model.DriverSnapshot {
	out := make([]model.DriverSnapshot, 0, len(in))
	for _, d := range in {
		name := d.Name
		if name == "" {
			name = "Unknown driver"
		}
		out = append(out, model.DriverSnapshot{
			Id:            d.Driver_id,
			Name:          name,
			Status:        d.Status,
			VehicleType:   d.Vehicle_type,
			Rating:        d.Rating,
			LicenseNumber: d.License_number,
		})
	}
	return out
}

func toLiveRides(in []dto.LiveRideDTO) []model.LiveRide {
	out := make([]model.LiveRide, 0, len(in))
	for _, r := range in {
		rider := r.Rider_name
		if rider == "" {
			rider = "Unknown rider"
		}
		out = append(out, model.LiveRide{
			Id:         r.Ride_id,
			OriginLat:  r.Origin_latitude,
			OriginLng:  r.Origin_longitude,
			Status:     r.Status,
			EtaMinutes: r.Eta_minutes,
			RiderName:  rider,
			DriverName: r.Driver_name,
		})
	}
	return out
}
