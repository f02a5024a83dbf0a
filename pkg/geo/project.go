package geo

import (
	"github.com/golang/geo/s2"
)

// ProjectPointToLineCoord project snap onto the segment pointA->pointB.
func ProjectPointToLineCoord(pointA, pointB, snap Coordinate) Coordinate {
	pointAS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(pointA.Lat, pointA.Lon))
	pointBS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(pointB.Lat, pointB.Lon))
	snapS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(snap.Lat, snap.Lon))
	projection := s2.Project(snapS2, pointAS2, pointBS2)
	projectLatLng := s2.LatLngFromPoint(projection)
	return NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// PointLinePerpendicularDistance distance (meter) from snap to the segment
// pointA->pointB.
func PointLinePerpendicularDistance(pointA, pointB, snap Coordinate) float64 {
	projectionPoint := ProjectPointToLineCoord(pointA, pointB, snap)

	dist := CalculateHaversineDistance(snap.GetLat(), snap.GetLon(),
		projectionPoint.GetLat(), projectionPoint.GetLon())

	return dist * 1000
}

// ProjectPercentAlong project snap onto the segment pointA->pointB and return
// the fraction of the segment length that lies before the projection, clamped
// to [0,1].
func ProjectPercentAlong(pointA, pointB, snap Coordinate) float64 {
	projection := ProjectPointToLineCoord(pointA, pointB, snap)

	segment := CalculateHaversineDistance(pointA.GetLat(), pointA.GetLon(),
		pointB.GetLat(), pointB.GetLon())
	if segment == 0 {
		return 0
	}
	along := CalculateHaversineDistance(pointA.GetLat(), pointA.GetLon(),
		projection.GetLat(), projection.GetLon())

	percent := along / segment
	if percent < 0 {
		return 0
	}
	if percent > 1 {
		return 1
	}
	return percent
}
