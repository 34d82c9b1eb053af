package model

import "time"

// GridimageRow is one row of the Geograph database for a single image,
// joined across gridimage_base, gridimage_geo and gridimage_extra. It is a
// read-only snapshot taken once per reconciliation attempt.
type GridimageRow struct {
	GridimageID      int64
	RealName         string // photographer's display name, used for credit lines
	Title            string
	ModerationStatus string

	// Subject position on the national grid. NatGRLen is the figure count
	// of the grid reference (4, 6, 8 or 10) and determines precision.
	NatEastings  int
	NatNorthings int
	NatGRLen     int

	// Viewpoint (camera) position. All three are zero when the
	// photographer's position was not recorded separately.
	ViewpointEastings  int
	ViewpointNorthings int
	ViewpointGRLen     int

	// ViewDirection is the camera bearing in degrees, -1 when not recorded.
	ViewDirection int

	// Subject WGS84 coordinates as computed by Geograph itself.
	WGS84Lat float64
	WGS84Lon float64

	// UpdTimestamp is the row's last-modified instant. The Geograph
	// database stores it as naive local time in Europe/London; geodb
	// attaches the zone on read.
	UpdTimestamp time.Time
}

// HasViewpoint reports whether the photographer's position was recorded
// separately from the subject position.
func (r *GridimageRow) HasViewpoint() bool {
	return r.ViewpointGRLen > 0
}
