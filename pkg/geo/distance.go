package geo

import (
	"math"

	"github.com/lintang-b-s/tilematrix/pkg/util"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

const (
	earthRadiusKM = 6371.0
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

// CalculateHaversineDistance. calculate haversine distance in km
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = util.DegreeToRadians(latOne)
	longOne = util.DegreeToRadians(longOne)
	latTwo = util.DegreeToRadians(latTwo)
	longTwo = util.DegreeToRadians(longTwo)

	h := havFunction(latTwo-latOne) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longTwo-longOne)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}

// GetDestinationPoint. get the destination point given a start point, a bearing
// (in degrees) and a distance (in km).
func GetDestinationPoint(lat, lon, bearing, distance float64) (float64, float64) {
	latRad := util.DegreeToRadians(lat)
	lonRad := util.DegreeToRadians(lon)
	bearingRad := util.DegreeToRadians(bearing)

	angular := distance / earthRadiusKM

	destLat := math.Asin(math.Sin(latRad)*math.Cos(angular) +
		math.Cos(latRad)*math.Sin(angular)*math.Cos(bearingRad))
	destLon := lonRad + math.Atan2(math.Sin(bearingRad)*math.Sin(angular)*math.Cos(latRad),
		math.Cos(angular)-math.Sin(latRad)*math.Sin(destLat))

	return util.RadiansToDegree(destLat), util.RadiansToDegree(destLon)
}
