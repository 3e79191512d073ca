package services

import (
	"encoding/json"

	"ride-admin/internal/board/core/domain/dto"
	"ride-admin/internal/board/core/ports"
	"ride-admin/internal/mylogger"
)

// Query group names.
const (
	GroupPendingDrivers = "pendingDrivers"
	GroupDrivers        = "drivers"
	GroupAdminStats     = "adminStats"
	GroupLiveRides      = "liveRides"
	GroupChangeRequests = "changeRequests"
	GroupFleets         = "fleets"
	GroupCorporates     = "corporates"
	GroupPromotions     = "promotions"
	GroupAdmins         = "admins"
)

// DriverGroup names the per-driver detail group for an id.
func DriverGroup(id string) string {
	return "driver:" + id
}

// invalidations routes each push event to the query groups it marks stale.
// perDriver adds the driver:{id} detail group expanded from the payload.
var invalidations = map[string]struct {
	groups    []string
	perDriver bool
}{
	dto.EventDriverRegistered:    {groups: []string{GroupPendingDrivers, GroupAdminStats}},
	dto.EventDriverApproved:      {groups: []string{GroupPendingDrivers, GroupDrivers, GroupAdminStats}, perDriver: true},
	dto.EventDriverRejected:      {groups: []string{GroupPendingDrivers, GroupDrivers, GroupAdminStats}, perDriver: true},
	dto.EventDriverStatusChanged: {groups: []string{GroupDrivers, GroupAdminStats}, perDriver: true},
}

// InvalidationBridge wires push events to the query cache so list and
// detail views refetch, and routes location updates straight into the
// location cache: the payload fully represents a location, refetching for
// it would be wasteful.
type InvalidationBridge struct {
	push    ports.IPushChannel
	queries *QueryCache
	cache   *LocationCache
	mylog   mylogger.Logger
	subs    []ports.ISubscription
}

func NewInvalidationBridge(push ports.IPushChannel, queries *QueryCache, cache *LocationCache, mylog mylogger.Logger) *InvalidationBridge {
	return &InvalidationBridge{
		push:    push,
		queries: queries,
		cache:   cache,
		mylog:   mylog,
	}
}

// Activate registers all event subscriptions. If the push channel never
// connects the handlers simply never fire and polling stays the sole data
// source.
func (b *InvalidationBridge) Activate() {
	for event := range invalidations {
		ev := event
		b.subs = append(b.subs, b.push.Subscribe(ev, func(data json.RawMessage) {
			b.handleInvalidation(ev, data)
		}))
	}
	b.subs = append(b.subs, b.push.Subscribe(dto.EventDriverLocationUpdated, b.handleLocation))
}

// Close releases every subscription.
func (b *InvalidationBridge) Close() {
	for _, s := range b.subs {
		s.Close()
	}
	b.subs = nil
}

func (b *InvalidationBridge) handleInvalidation(event string, data json.RawMessage) {
	route := invalidations[event]
	for _, g := range route.groups {
		b.queries.Invalidate(g)
	}

	if route.perDriver {
		var payload dto.DriverEventPayload
		if err := json.Unmarshal(data, &payload); err != nil || payload.Driver_id == "" {
			b.mylog.Action("push_event_partial_payload").Warn("event without driver id", "event", event)
			return
		}
		b.queries.Invalidate(DriverGroup(payload.Driver_id))
	}
}

func (b *InvalidationBridge) handleLocation(data json.RawMessage) {
	var payload dto.LocationEventPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Driver_id == "" {
		b.mylog.Action("push_location_malformed").Warn("dropping location event")
		return
	}
	b.cache.Record(payload.Driver_id, payload.Latitude, payload.Longitude)
}
