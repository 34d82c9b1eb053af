// Package geodesy provides the geodesic inverse solution and compass
// formatting used to compare embedded locations against refreshed ones.
// All functions are pure; coordinates are geom.Coord pairs in go-geom's
// lon/lat axis order on the WGS-84 ellipsoid.
package geodesy

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
)

// WGS-84 ellipsoid constants.
const (
	semiMajor  = 6378137.0
	flattening = 1.0 / 298.257223563
	semiMinor  = semiMajor * (1 - flattening)
)

const maxIterations = 200

// Inverse solves the geodesic inverse problem between a and b using
// Vincenty's formulae: the forward azimuth at a, the back azimuth at b, and
// the ellipsoidal surface distance in meters. Accuracy is well under a meter
// at the distances this tool deals with.
//
// Malformed coordinates (NaN, Inf, latitude outside ±90) are a contract
// violation and panic.
func Inverse(a, b geom.Coord) (fwdAz, revAz, distM float64) {
	checkCoord(a)
	checkCoord(b)

	lon1, lat1 := rad(a[0]), rad(a[1])
	lon2, lat2 := rad(b[0]), rad(b[1])

	if lon1 == lon2 && lat1 == lat2 {
		return 0, 0, 0
	}

	u1 := math.Atan((1 - flattening) * math.Tan(lat1))
	u2 := math.Atan((1 - flattening) * math.Tan(lat2))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)
	l := lon2 - lon1

	lambda := l
	var sinLambda, cosLambda, sinSigma, cosSigma, sigma, cosSqAlpha, cos2SigmaM float64
	for i := 0; i < maxIterations; i++ {
		sinLambda, cosLambda = math.Sincos(lambda)
		sinSigma = math.Hypot(
			cosU2*sinLambda,
			cosU1*sinU2-sinU1*cosU2*cosLambda,
		)
		if sinSigma == 0 {
			// Coincident after reduction.
			return 0, 0, 0
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha == 0 {
			// Equatorial line.
			cos2SigmaM = 0
		} else {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}
		c := flattening / 16 * cosSqAlpha * (4 + flattening*(4-3*cosSqAlpha))
		prev := lambda
		lambda = l + (1-c)*flattening*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-prev) < 1e-12 {
			break
		}
	}

	uSq := cosSqAlpha * (semiMajor*semiMajor - semiMinor*semiMinor) / (semiMinor * semiMinor)
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
		(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	distM = semiMinor * bigA * (sigma - deltaSigma)
	fwdAz = norm360(deg(math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)))
	revAz = norm360(deg(math.Atan2(cosU1*sinLambda, -sinU1*cosU2+cosU1*sinU2*cosLambda)) + 180)
	return fwdAz, revAz, distM
}

var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// FormatDirection maps an azimuth in degrees to the nearest of the 16
// standard compass points. Exact midpoints round to the clockwise-next
// label. Azimuths outside [0,360) are normalised first.
func FormatDirection(azDeg float64) string {
	if math.IsNaN(azDeg) || math.IsInf(azDeg, 0) {
		panic(fmt.Sprintf("geodesy: bad azimuth %v", azDeg))
	}
	az := norm360(azDeg)
	idx := int(math.Floor(az/22.5+0.5)) % len(compassPoints)
	return compassPoints[idx]
}

func checkCoord(c geom.Coord) {
	if len(c) < 2 {
		panic("geodesy: coordinate needs lon and lat")
	}
	lon, lat := c[0], c[1]
	if math.IsNaN(lon) || math.IsInf(lon, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
		panic(fmt.Sprintf("geodesy: non-finite coordinate (%v, %v)", lon, lat))
	}
	if lat < -90 || lat > 90 {
		panic(fmt.Sprintf("geodesy: latitude %v out of range", lat))
	}
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }

func norm360(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
