// Package model holds the value types shared across the reconciliation
// pipeline: embedded location records, credit lines, authoritative database
// rows, and the per-attempt decision flags.
package model

import (
	"regexp"
	"strings"

	"github.com/twpayne/go-geom"
)

// geographSource matches provenance written by the Geograph sync tooling:
// "geograph" alone or with a suffix such as "geograph-osgb36(NT2769973869)".
var geographSource = regexp.MustCompile(`^geograph(-|$)`)

// Location is one geocoded point attached to a slot (camera or object).
// Absence of a location is represented by a nil *Location, never by a
// zero-valued record.
type Location struct {
	Lat       float64
	Lon       float64
	Precision int      // stated uncertainty in meters, always > 0
	Source    string   // provenance tag, free text
	Region    string   // ISO 3166-2 region attribute, empty when unset
	Heading   *float64 // camera view direction in degrees, nil when unset
	Extra     bool     // template carried a fourth positional field
}

// Coord returns the point in go-geom's lon/lat axis order.
func (l *Location) Coord() geom.Coord {
	return geom.Coord{l.Lon, l.Lat}
}

// Equal reports value equality across all attributes. Both nil counts as
// equal; nil against non-nil does not.
func (l *Location) Equal(other *Location) bool {
	if l == nil || other == nil {
		return l == other
	}
	if l.Lat != other.Lat || l.Lon != other.Lon ||
		l.Precision != other.Precision || l.Source != other.Source ||
		l.Region != other.Region || l.Extra != other.Extra {
		return false
	}
	if (l.Heading == nil) != (other.Heading == nil) {
		return false
	}
	return l.Heading == nil || *l.Heading == *other.Heading
}

// FromGeograph reports whether the record's provenance belongs to the
// Geograph source-of-record. Anything else is externally curated and must
// never be overwritten.
func (l *Location) FromGeograph() bool {
	if l == nil {
		return false
	}
	return geographSource.MatchString(l.Source)
}

// GridrefSourced reports whether the provenance encoding carried a grid
// reference (the source tag contains a separator, e.g.
// "geograph-osgb36(NT2769973869)"). A bare "geograph" tag means the
// coordinates were written as a raw DMS pair with no grid reference.
func (l *Location) GridrefSourced() bool {
	if l == nil {
		return false
	}
	return strings.Contains(l.Source, "-")
}
