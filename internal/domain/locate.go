package domain

import "math"

// EarthRadiusM is the mean Earth radius used for great-circle distances.
const EarthRadiusM = 6371000.0

// Match is the grid index closest to a query point, with the physical
// coordinates at that index and the distance to the query point.
type Match struct {
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	DistanceM float64 `json:"distance_m"`
}

// HaversineM returns the great-circle distance in meters between two
// points on a sphere of radius EarthRadiusM.
func HaversineM(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := Deg2Rad(lat1)
	phi2 := Deg2Rad(lat2)
	dPhi := Deg2Rad(lat2 - lat1)
	dLambda := Deg2Rad(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * EarthRadiusM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Locate scans the grid row-major and returns the cell with the minimum
// haversine distance to the query point. The strict less-than comparison
// keeps the first minimum encountered, so equidistant cells resolve
// deterministically in row-major order. Cells with non-finite coordinates
// produce NaN distances and are never selected.
//
// Locate does not validate that the query point lies inside the grid's
// bounds; callers check that before invoking it.
func Locate(g *GeolocationGrid, lat, lon float64) Match {
	best := Match{Row: -1, Col: -1, DistanceM: math.Inf(1)}
	for i := 0; i < g.Rows(); i++ {
		for j := 0; j < g.Cols(); j++ {
			d := HaversineM(lat, lon, g.Lat[i][j], g.Lon[i][j])
			if d < best.DistanceM {
				best = Match{Row: i, Col: j, Lat: g.Lat[i][j], Lon: g.Lon[i][j], DistanceM: d}
			}
		}
	}
	return best
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
