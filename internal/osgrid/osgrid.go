// Package osgrid converts Ordnance Survey national grid coordinates to
// WGS-84 and formats grid references. The conversion runs the inverse
// transverse Mercator projection on the Airy 1830 ellipsoid and then a
// seven-parameter Helmert transformation to WGS-84, which is accurate to a
// few meters — well inside the precision radii this tool compares against.
package osgrid

import (
	"fmt"
	"math"
)

// Airy 1830 ellipsoid and national grid projection constants.
const (
	airyA = 6377563.396
	airyB = 6356256.909

	scaleF0   = 0.9996012717
	originLat = 49.0 * math.Pi / 180
	originLon = -2.0 * math.Pi / 180
	originE   = 400000.0
	originN   = -100000.0
)

// WGS-84 (GRS80) ellipsoid.
const (
	wgsA = 6378137.0
	wgsB = 6356752.3141
)

// OSGB36 -> WGS84 Helmert parameters (inverse of the published
// WGS84 -> OSGB36 set).
const (
	helmertTX = 446.448
	helmertTY = -125.157
	helmertTZ = 542.060
	helmertS  = -20.4894e-6
	helmertRX = 0.1502 / 3600 * math.Pi / 180
	helmertRY = 0.2470 / 3600 * math.Pi / 180
	helmertRZ = 0.8421 / 3600 * math.Pi / 180
)

// ToWGS84 converts national grid eastings/northings (meters) to WGS-84
// latitude and longitude in decimal degrees.
func ToWGS84(eastings, northings int) (lat, lon float64) {
	phi, lambda := gridToOSGB36(float64(eastings), float64(northings))
	return osgb36ToWGS84(phi, lambda)
}

// gridToOSGB36 runs the inverse transverse Mercator projection, returning
// OSGB36 latitude and longitude in radians.
func gridToOSGB36(e, n float64) (phi, lambda float64) {
	e2 := 1 - (airyB*airyB)/(airyA*airyA)

	phi = originLat
	m := 0.0
	for {
		phi = (n-originN-m)/(airyA*scaleF0) + phi
		m = meridianArc(phi)
		if math.Abs(n-originN-m) < 1e-5 {
			break
		}
	}

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)
	tanPhi := sinPhi / cosPhi

	nu := airyA * scaleF0 / math.Sqrt(1-e2*sinPhi*sinPhi)
	rho := airyA * scaleF0 * (1 - e2) * math.Pow(1-e2*sinPhi*sinPhi, -1.5)
	eta2 := nu/rho - 1

	tan2 := tanPhi * tanPhi
	tan4 := tan2 * tan2
	sec := 1 / cosPhi

	vii := tanPhi / (2 * rho * nu)
	viii := tanPhi / (24 * rho * nu * nu * nu) * (5 + 3*tan2 + eta2 - 9*tan2*eta2)
	ix := tanPhi / (720 * rho * math.Pow(nu, 5)) * (61 + 90*tan2 + 45*tan4)
	x := sec / nu
	xi := sec / (6 * nu * nu * nu) * (nu/rho + 2*tan2)
	xii := sec / (120 * math.Pow(nu, 5)) * (5 + 28*tan2 + 24*tan4)
	xiia := sec / (5040 * math.Pow(nu, 7)) * (61 + 662*tan2 + 1320*tan4 + 720*tan4*tan2)

	de := e - originE
	de2 := de * de

	phi = phi - vii*de2 + viii*de2*de2 - ix*de2*de2*de2
	lambda = originLon + x*de - xi*de*de2 + xii*de*de2*de2 - xiia*de*de2*de2*de2
	return phi, lambda
}

// meridianArc computes the developed meridian arc from the projection origin
// to latitude phi on the Airy ellipsoid.
func meridianArc(phi float64) float64 {
	n := (airyA - airyB) / (airyA + airyB)
	n2 := n * n
	n3 := n2 * n

	dPhi := phi - originLat
	sPhi := phi + originLat

	return airyB * scaleF0 * ((1+n+1.25*n2+1.25*n3)*dPhi -
		(3*n+3*n2+21.0/8*n3)*math.Sin(dPhi)*math.Cos(sPhi) +
		(15.0/8*n2+15.0/8*n3)*math.Sin(2*dPhi)*math.Cos(2*sPhi) -
		35.0/24*n3*math.Sin(3*dPhi)*math.Cos(3*sPhi))
}

// osgb36ToWGS84 applies the Helmert datum transformation, returning WGS-84
// latitude and longitude in decimal degrees.
func osgb36ToWGS84(phi, lambda float64) (lat, lon float64) {
	// Geodetic -> cartesian on Airy.
	e2 := 1 - (airyB*airyB)/(airyA*airyA)
	sinPhi, cosPhi := math.Sincos(phi)
	nu := airyA / math.Sqrt(1-e2*sinPhi*sinPhi)
	x := nu * cosPhi * math.Cos(lambda)
	y := nu * cosPhi * math.Sin(lambda)
	z := nu * (1 - e2) * sinPhi

	// Helmert transform.
	x2 := helmertTX + (1+helmertS)*x - helmertRZ*y + helmertRY*z
	y2 := helmertTY + helmertRZ*x + (1+helmertS)*y - helmertRX*z
	z2 := helmertTZ - helmertRY*x + helmertRX*y + (1+helmertS)*z

	// Cartesian -> geodetic on WGS-84, iterating latitude.
	e2w := 1 - (wgsB*wgsB)/(wgsA*wgsA)
	p := math.Hypot(x2, y2)
	phi = math.Atan2(z2, p*(1-e2w))
	for i := 0; i < 10; i++ {
		sinP := math.Sin(phi)
		nu = wgsA / math.Sqrt(1-e2w*sinP*sinP)
		next := math.Atan2(z2+e2w*nu*sinP, p)
		if math.Abs(next-phi) < 1e-12 {
			phi = next
			break
		}
		phi = next
	}

	return phi * 180 / math.Pi, math.Atan2(y2, x2) * 180 / math.Pi
}

// gridLetters omits I, following national grid convention.
const gridLetters = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

// Format renders eastings/northings as a grid reference with the given
// figure count, e.g. Format(438713, 114863, 10) = "SU3871314863".
func Format(eastings, northings, figures int) (string, error) {
	if figures < 4 || figures > 10 || figures%2 != 0 {
		return "", fmt.Errorf("osgrid: bad figure count %d", figures)
	}
	e100 := eastings / 100000
	n100 := northings / 100000
	if eastings < 0 || northings < 0 || e100 > 6 || n100 > 12 {
		return "", fmt.Errorf("osgrid: coordinates (%d, %d) outside the grid", eastings, northings)
	}

	l1 := (19 - n100) - (19-n100)%5 + (e100+10)/5
	l2 := (19-n100)*5%25 + e100%5

	digits := figures / 2
	div := 1
	for i := 0; i < 5-digits; i++ {
		div *= 10
	}
	return fmt.Sprintf("%c%c%0*d%0*d",
		gridLetters[l1], gridLetters[l2],
		digits, (eastings%100000)/div,
		digits, (northings%100000)/div), nil
}

// Precision returns the positional uncertainty in meters implied by a grid
// reference's figure count: 4 figures = 1km squares down to 10 figures = 1m.
func Precision(figures int) int {
	switch figures {
	case 10:
		return 1
	case 8:
		return 10
	case 6:
		return 100
	default:
		return 1000
	}
}
