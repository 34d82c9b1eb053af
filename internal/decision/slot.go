// Package decision implements the reconciliation decision engine: per-slot
// add/update/remove/none decisions, the credit-line gate, and the edit
// summary synthesis. Everything here is pure apart from diagnostic logging.
package decision

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/commonsbots/geograph-sync/internal/geodesy"
	"github.com/commonsbots/geograph-sync/internal/model"
)

// DecideSlot decides what to do with one location slot given the embedded
// record and the refreshed candidate from the authoritative row. Rules apply
// in order, first match wins; nil means the slot is empty.
//
// The slot name is only used for diagnostics ("camera" or "object").
func DecideSlot(old, cand *model.Location, slot string) model.Decision {
	log := zap.L().With(zap.String("component", "decision"), zap.String("slot", slot))

	// No change at all, including both absent.
	if old.Equal(cand) {
		return model.DecisionNone
	}

	// Never overwrite externally-curated geocoding.
	if old != nil && !old.FromGeograph() {
		log.Debug("existing location is not from Geograph: leaving alone",
			zap.String("source", old.Source))
		return model.DecisionNone
	}

	if old != nil && cand != nil && !old.GridrefSourced() {
		// A fourth positional field on a DMS-sourced template signals a
		// manual correction.
		if old.Extra {
			log.Debug("template is DMS with no gridref: not updating")
			return model.DecisionNone
		}
		// Movement within the candidate's stated precision is noise.
		_, _, dist := geodesy.Inverse(old.Coord(), cand.Coord())
		if dist < float64(cand.Precision) {
			log.Debug("moved within stated precision: not updating",
				zap.Float64("moved_m", dist),
				zap.Int("precision_m", cand.Precision))
			return model.DecisionNone
		}
	}

	// Identical provenance string means nothing changed at the source.
	if old != nil && cand != nil && old.Source == cand.Source {
		log.Debug("gridref unchanged: not updating")
		return model.DecisionNone
	}

	switch {
	case old == nil:
		return model.DecisionAdd
	case cand == nil:
		return model.DecisionRemove
	}
	return model.DecisionUpdate
}

// DescribeMove renders the distance and compass direction between the old
// and new positions for use in update summaries, e.g. "moved 36.2 m NNE".
func DescribeMove(old, cand *model.Location) string {
	fwd, _, dist := geodesy.Inverse(old.Coord(), cand.Coord())
	return fmt.Sprintf("moved %.1f m %s", dist, geodesy.FormatDirection(fwd))
}
