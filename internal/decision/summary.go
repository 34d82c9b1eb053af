package decision

import (
	"fmt"

	"github.com/commonsbots/geograph-sync/internal/model"
)

// SummaryInput is everything the summary synthesizer needs: the two slot
// outcomes, the rendered move descriptions for update branches, the
// provenance descriptor citing the authoritative row, and the credit-line
// and attribution flags.
type SummaryInput struct {
	Camera     model.Decision
	Object     model.Decision
	CameraMove string // from DescribeMove, only read on camera updates
	ObjectMove string // from DescribeMove, only read on object updates
	Descriptor string // e.g. "geograph.org.uk 1234567 by Jane Smith"
	CreditLine bool
	// Attribution marks that a third-party geocoding service was used
	// during this attempt; its requested credit is appended regardless of
	// which slots changed.
	Attribution bool
}

const (
	removedCamera = "Remove Geograph-derived camera location " +
		"(no longer on Geograph, or 1km precision)"
	removedObject = "Remove Geograph-derived 1km-precision object location"

	creditClause      = "add credit line with title from Geograph"
	attributionClause = " [powered by MapIt: http://global.mapit.mysociety.org]"
)

// Synthesize maps the decision outcome to one human-readable edit summary.
// It is a pure function of its input; an empty result means no edit should
// be described.
func Synthesize(in SummaryInput) string {
	s := baseSummary(in)

	if in.CreditLine {
		if s == "" {
			s = "Add credit line with title from Geograph"
		} else {
			s += "; " + creditClause
		}
	}
	if in.Attribution {
		s += attributionClause
	}
	return s
}

func baseSummary(in SummaryInput) string {
	switch in.Camera {
	case model.DecisionAdd:
		switch in.Object {
		case model.DecisionAdd:
			return fmt.Sprintf("Add camera and object locations from Geograph (%s)", in.Descriptor)
		case model.DecisionUpdate:
			return fmt.Sprintf("Add camera location and update object location (%s), both from Geograph (%s)",
				in.ObjectMove, in.Descriptor)
		case model.DecisionRemove:
			return fmt.Sprintf("Add camera location from Geograph (%s) and remove "+
				"Geograph-derived 1km-precision object location", in.Descriptor)
		}
		return fmt.Sprintf("Add camera location from Geograph (%s)", in.Descriptor)

	case model.DecisionUpdate:
		switch in.Object {
		case model.DecisionAdd:
			return fmt.Sprintf("Update camera location (%s) and add object location, both from Geograph (%s)",
				in.CameraMove, in.Descriptor)
		case model.DecisionUpdate:
			return fmt.Sprintf("Update camera and object locations (%s and %s, respectively) from Geograph (%s)",
				in.CameraMove, in.ObjectMove, in.Descriptor)
		case model.DecisionRemove:
			return fmt.Sprintf("Update camera location (%s) from Geograph (%s) and remove "+
				"Geograph-derived 1km-precision object location", in.CameraMove, in.Descriptor)
		}
		return fmt.Sprintf("Update camera location (%s) from Geograph (%s)", in.CameraMove, in.Descriptor)

	case model.DecisionRemove:
		switch in.Object {
		case model.DecisionAdd:
			return fmt.Sprintf("%s and add object location from Geograph (%s)", removedCamera, in.Descriptor)
		case model.DecisionUpdate:
			return fmt.Sprintf("%s and update object location (%s) from Geograph (%s)",
				removedCamera, in.ObjectMove, in.Descriptor)
		}
		return removedCamera
	}

	// Camera untouched.
	switch in.Object {
	case model.DecisionAdd:
		return fmt.Sprintf("Add object location from Geograph (%s)", in.Descriptor)
	case model.DecisionUpdate:
		return fmt.Sprintf("Update object location (%s) from Geograph (%s)", in.ObjectMove, in.Descriptor)
	case model.DecisionRemove:
		return removedObject
	}
	return ""
}
