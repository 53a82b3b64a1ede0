package utils

import (
	"math"
	"math/rand"
)

// DistanceUnit selects the unit returned by CalculateDistance.
type DistanceUnit string

const (
	UnitMiles      DistanceUnit = "miles"
	UnitKilometers DistanceUnit = "kilometers"
)

const (
	earthRadiusMiles = 3958.8
	earthRadiusKm    = 6371.0

	// FeetPerDegreeLatitude is the flat-earth approximation used when
	// converting an obfuscation radius from feet to degrees. One degree of
	// longitude shrinks by cos(latitude); near the poles that factor
	// approaches zero and the longitude displacement blows up, which is
	// accepted for the populated latitudes this app serves.
	FeetPerDegreeLatitude = 364320.0

	// FeetPerMile converts obfuscation radii to the unit CalculateDistance
	// reports in.
	FeetPerMile = 5280.0
)

// CalculateDistance computes the great-circle distance between two points
// using the haversine formula. Identical points return 0.
func CalculateDistance(lat1, lon1, lat2, lon2 float64, unit DistanceUnit) float64 {
	lat1Rad := degreesToRadians(lat1)
	lat2Rad := degreesToRadians(lat2)
	deltaLat := degreesToRadians(lat2 - lat1)
	deltaLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	if unit == UnitKilometers {
		return earthRadiusKm * c
	}
	return earthRadiusMiles * c
}

// ObfuscateCoordinate displaces a true coordinate by a uniformly random
// bearing and a random distance in [0, radiusFeet], so other users never see
// an exact location. A radius of 0 returns the coordinate unchanged.
func ObfuscateCoordinate(lat, lon, radiusFeet float64) (float64, float64) {
	return obfuscate(lat, lon, radiusFeet, rand.Float64)
}

// ObfuscateCoordinateWithRand is ObfuscateCoordinate with an injected random
// source, for callers that need deterministic output.
func ObfuscateCoordinateWithRand(lat, lon, radiusFeet float64, rng *rand.Rand) (float64, float64) {
	return obfuscate(lat, lon, radiusFeet, rng.Float64)
}

func obfuscate(lat, lon, radiusFeet float64, randFloat func() float64) (float64, float64) {
	if radiusFeet <= 0 {
		return lat, lon
	}

	angle := randFloat() * 2 * math.Pi
	distanceFeet := randFloat() * radiusFeet

	deltaLat := distanceFeet * math.Cos(angle) / FeetPerDegreeLatitude
	deltaLon := distanceFeet * math.Sin(angle) / (FeetPerDegreeLatitude * math.Cos(degreesToRadians(lat)))

	return lat + deltaLat, lon + deltaLon
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
