package decision

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/commonsbots/geograph-sync/internal/model"
)

// CanAddCreditLine reports whether the page text has room for the credit
// line: true only when no equivalent credit is already present.
func CanAddCreditLine(pageText string, cl model.CreditLine) bool {
	if strings.Contains(strings.ToLower(pageText), "{{credit line") {
		return false
	}
	// Some pages carry the attribution free-form rather than templated.
	if cl.Author != "" && strings.Contains(pageText, cl.Author) &&
		strings.Contains(pageText, "geograph.org.uk") {
		return false
	}
	return true
}

// FreshSinceUpload reports whether the authoritative row was last modified
// strictly before the page's first revision, i.e. the source record is
// unchanged since the page was created from it. Both arguments carry their
// own zones, so the comparison is between instants.
//
// A credit line derived from a row that changed after upload may describe
// content the page never had, so the orchestrator requires this to hold
// before adding one.
func FreshSinceUpload(rowUpdated, firstRevision time.Time) bool {
	fresh := rowUpdated.Before(firstRevision)
	zap.L().Debug("credit line freshness check",
		zap.String("component", "decision"),
		zap.Time("row_updated", rowUpdated.UTC()),
		zap.Time("first_revision", firstRevision.UTC()),
		zap.Bool("fresh", fresh))
	return fresh
}
