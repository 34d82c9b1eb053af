package geodesy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"
)

func TestInverseCoincident(t *testing.T) {
	pts := []geom.Coord{
		{0, 0},
		{-1.1, 52.1},
		{174.78, -41.29},
	}
	for _, p := range pts {
		fwd, rev, dist := Inverse(p, p)
		assert.Zero(t, dist)
		assert.Zero(t, fwd)
		assert.Zero(t, rev)
	}
}

func TestInverseMeridian(t *testing.T) {
	// 0.001 degrees of latitude at the equator is one meridian-arc
	// milli-degree: a(1-e^2) * pi/180 / 1000 = 110.574 m.
	fwd, rev, dist := Inverse(geom.Coord{0, 0}, geom.Coord{0, 0.001})
	assert.InDelta(t, 110.574, dist, 0.01)
	assert.InDelta(t, 0, fwd, 1e-9)
	assert.InDelta(t, 180, rev, 1e-9)

	// Southward: azimuths flip.
	fwd, rev, dist = Inverse(geom.Coord{0, 0.001}, geom.Coord{0, 0})
	assert.InDelta(t, 110.574, dist, 0.01)
	assert.InDelta(t, 180, fwd, 1e-9)
	assert.InDelta(t, 0, rev, 1e-9)
}

func TestInverseEquatorial(t *testing.T) {
	// One milli-degree of longitude on the equator: a * pi/180 / 1000.
	fwd, rev, dist := Inverse(geom.Coord{0, 0}, geom.Coord{0.001, 0})
	assert.InDelta(t, 111.319, dist, 0.01)
	assert.InDelta(t, 90, fwd, 1e-6)
	assert.InDelta(t, 270, rev, 1e-6)
}

func TestInverseSymmetric(t *testing.T) {
	a := geom.Coord{-1.0934, 52.1234}
	b := geom.Coord{-1.0876, 52.1269}
	fwdAB, revAB, distAB := Inverse(a, b)
	fwdBA, revBA, distBA := Inverse(b, a)

	assert.InDelta(t, distAB, distBA, 1e-6)
	// Each solution's back azimuth is the other's forward azimuth.
	assert.InDelta(t, revAB, fwdBA, 1e-6)
	assert.InDelta(t, revBA, fwdAB, 1e-6)
	// Roughly north-east of a.
	assert.Greater(t, fwdAB, 0.0)
	assert.Less(t, fwdAB, 90.0)
}

func TestInversePanicsOnBadInput(t *testing.T) {
	assert.Panics(t, func() { Inverse(geom.Coord{0, 91}, geom.Coord{0, 0}) })
	assert.Panics(t, func() { Inverse(geom.Coord{0}, geom.Coord{0, 0}) })
}

func TestFormatDirection(t *testing.T) {
	tests := []struct {
		az   float64
		want string
	}{
		{0, "N"},
		{360, "N"},
		{-45, "NW"},
		{11.24, "N"},
		{11.25, "NNE"}, // midpoint ties go clockwise
		{22.5, "NNE"},
		{45, "NE"},
		{67.5, "ENE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{348.74, "NNW"},
		{348.75, "N"},
		{359.9, "N"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDirection(tt.az), "azimuth %v", tt.az)
	}
}

func TestFormatDirectionTotal(t *testing.T) {
	valid := map[string]bool{}
	for _, p := range compassPoints {
		valid[p] = true
	}
	for az := 0.0; az < 360; az += 0.1 {
		assert.True(t, valid[FormatDirection(az)], "azimuth %v", az)
	}
}
