package services

import (
	"ride-admin/internal/board/core/domain/model"

	"github.com/golang/geo/s2"
)

// Heat weights: engaged locations dominate the gradient so the map biases
// toward areas of active servicing over idle supply.
const (
	HeatWeightEngaged   = 1.0
	HeatWeightAvailable = 0.4
	HeatWeightRide      = 1.0
)

// Heat radius formula inputs. Radius shrinks linearly as the map zooms in
// and is clamped to [HeatRadiusMin, HeatRadiusMax].
const (
	HeatRadiusMin     = 10.0
	HeatRadiusMax     = 50.0
	heatRadiusBase    = 25.0
	heatReferenceZoom = 12.0
	heatZoomFactor    = 0.15
)

// ProjectMarkers derives the two disjoint marker layers from a driver
// snapshot and the location cache. A driver absent from the location stream
// is invisible even when the snapshot says online: no marker beats a stale
// marker. Pure with respect to its inputs.
func ProjectMarkers(drivers []model.DriverSnapshot, cache *LocationCache) model.MarkerSets {
	sets := model.MarkerSets{
		Available: []model.Marker{},
		Engaged:   []model.Marker{},
	}

	for _, d := range drivers {
		loc, ok := cache.Get(d.Id)
		if !ok {
			continue
		}
		m := model.Marker{Id: d.Id, Latitude: loc.Latitude, Longitude: loc.Longitude}
		switch {
		case d.Available():
			sets.Available = append(sets.Available, m)
		case d.Engaged():
			sets.Engaged = append(sets.Engaged, m)
		}
	}

	return sets
}

// ProjectHeat derives the weighted point cloud for the selected mode.
// Demand mode plots live-ride origins; supply mode plots driver locations
// weighted by engagement.
func ProjectHeat(mode model.HeatMode, drivers []model.DriverSnapshot, rides []model.LiveRide, cache *LocationCache) []model.HeatPoint {
	points := []model.HeatPoint{}

	if mode == model.HeatModeDemand {
		for _, r := range rides {
			if !r.HasOrigin() {
				continue
			}
			points = append(points, model.HeatPoint{
				Latitude:  r.OriginLat,
				Longitude: r.OriginLng,
				Weight:    HeatWeightRide,
			})
		}
		return points
	}

	for _, d := range drivers {
		loc, ok := cache.Get(d.Id)
		if !ok {
			continue
		}
		switch {
		case d.Engaged():
			points = append(points, model.HeatPoint{Latitude: loc.Latitude, Longitude: loc.Longitude, Weight: HeatWeightEngaged})
		case d.Available():
			points = append(points, model.HeatPoint{Latitude: loc.Latitude, Longitude: loc.Longitude, Weight: HeatWeightAvailable})
		}
	}
	return points
}

// HeatRadius computes the render radius for the current zoom level.
func HeatRadius(zoom float64) float64 {
	radius := heatRadiusBase * (1 + (heatReferenceZoom-zoom)*heatZoomFactor)
	if radius < HeatRadiusMin {
		return HeatRadiusMin
	}
	if radius > HeatRadiusMax {
		return HeatRadiusMax
	}
	return radius
}

// Viewport is a latitude/longitude bounding box used to trim layers to what
// the map actually shows.
type Viewport struct {
	rect s2.Rect
}

// NewViewport builds a viewport from two opposite corners.
func NewViewport(southLat, westLng, northLat, eastLng float64) Viewport {
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(southLat, westLng))
	rect = rect.AddPoint(s2.LatLngFromDegrees(northLat, eastLng))
	return Viewport{rect: rect}
}

// Contains reports whether a coordinate falls inside the viewport.
func (v Viewport) Contains(lat, lng float64) bool {
	return v.rect.ContainsLatLng(s2.LatLngFromDegrees(lat, lng))
}

// ClipMarkers returns only the markers inside the viewport.
func ClipMarkers(sets model.MarkerSets, v Viewport) model.MarkerSets {
	clip := func(in []model.Marker) []model.Marker {
		out := []model.Marker{}
		for _, m := range in {
			if v.Contains(m.Latitude, m.Longitude) {
				out = append(out, m)
			}
		}
		return out
	}
	return model.MarkerSets{
		Available: clip(sets.Available),
		Engaged:   clip(sets.Engaged),
	}
}

// ClipHeat returns only the heat points inside the viewport.
func ClipHeat(points []model.HeatPoint, v Viewport) []model.HeatPoint {
	out := []model.HeatPoint{}
	for _, p := range points {
		if v.Contains(p.Latitude, p.Longitude) {
			out = append(out, p)
		}
	}
	return out
}
