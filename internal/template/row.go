package template

import (
	"fmt"
	"math"

	"github.com/commonsbots/geograph-sync/internal/model"
	"github.com/commonsbots/geograph-sync/internal/osgrid"
)

// CameraFromRow builds the refreshed camera location candidate from an
// authoritative row. Returns nil when the row has no separately recorded
// viewpoint or the viewpoint is only known to 1km — a kilometer-precision
// camera position adds nothing and existing ones get removed.
func CameraFromRow(row *model.GridimageRow) *model.Location {
	if !row.HasViewpoint() {
		return nil
	}
	prec := osgrid.Precision(row.ViewpointGRLen)
	if prec >= 1000 {
		return nil
	}
	gridref, err := osgrid.Format(row.ViewpointEastings, row.ViewpointNorthings, row.ViewpointGRLen)
	if err != nil {
		return nil
	}
	lat, lon := osgrid.ToWGS84(row.ViewpointEastings, row.ViewpointNorthings)

	loc := &model.Location{
		Lat:       round6(lat),
		Lon:       round6(lon),
		Precision: prec,
		Source:    "geograph-osgb36(" + gridref + ")",
	}
	if row.ViewDirection >= 0 {
		h := float64(row.ViewDirection)
		loc.Heading = &h
	}
	return loc
}

// ObjectFromRow builds the refreshed object location candidate. Returns nil
// for kilometer-precision subject positions, which are removed rather than
// refreshed.
func ObjectFromRow(row *model.GridimageRow) *model.Location {
	prec := osgrid.Precision(row.NatGRLen)
	if prec >= 1000 {
		return nil
	}
	gridref, err := osgrid.Format(row.NatEastings, row.NatNorthings, row.NatGRLen)
	if err != nil {
		return nil
	}

	lat, lon := row.WGS84Lat, row.WGS84Lon
	if lat == 0 && lon == 0 {
		lat, lon = osgrid.ToWGS84(row.NatEastings, row.NatNorthings)
	}
	return &model.Location{
		Lat:       round6(lat),
		Lon:       round6(lon),
		Precision: prec,
		Source:    "geograph-osgb36(" + gridref + ")",
	}
}

// CreditLineFromRow builds the attribution record for the row.
func CreditLineFromRow(row *model.GridimageRow) model.CreditLine {
	return model.CreditLine{Author: row.RealName, Title: row.Title}
}

// FormatRow renders the provenance descriptor cited in edit summaries.
func FormatRow(row *model.GridimageRow) string {
	return fmt.Sprintf("https://www.geograph.org.uk/photo/%d by %s", row.GridimageID, row.RealName)
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
