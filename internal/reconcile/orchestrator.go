// Package reconcile sequences a full reconciliation attempt for one media
// page: snapshot current state, decide per slot, synthesize the edit
// summary, re-validate the snapshot, and commit — restarting from scratch
// whenever the page changed underneath the attempt.
package reconcile

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/commonsbots/geograph-sync/internal/decision"
	"github.com/commonsbots/geograph-sync/internal/geodb"
	"github.com/commonsbots/geograph-sync/internal/model"
	"github.com/commonsbots/geograph-sync/internal/template"
)

// Overlay geocoding properties: coordinate location and point of view.
const (
	propObjectLocation = "P625"
	propCameraLocation = "P1259"
)

// Config holds the orchestrator's tunable policy.
type Config struct {
	// UpdateWithOverlay allows location edits on pages that already carry
	// overlay geocoding statements. Off by default: the overlay cannot be
	// updated here, and editing only the embedded text would desynchronise
	// the two representations.
	UpdateWithOverlay bool

	// MaxRestarts bounds how often a drifted attempt is redone. Zero means
	// unlimited; external rate limits are the practical bound.
	MaxRestarts int

	// DryRun decides and synthesizes the summary but never saves.
	DryRun bool
}

// Orchestrator runs reconciliation attempts against injected collaborators.
type Orchestrator struct {
	pages   PageService
	overlay OverlayService
	rows    RowSource
	regions RegionService // optional
	cfg     Config
	log     *zap.Logger
}

// New creates an Orchestrator. regions may be nil to disable region lookups.
func New(pages PageService, overlay OverlayService, rows RowSource, regions RegionService, cfg Config) *Orchestrator {
	return &Orchestrator{
		pages:   pages,
		overlay: overlay,
		rows:    rows,
		regions: regions,
		cfg:     cfg,
		log:     zap.L().With(zap.String("component", "reconcile")),
	}
}

// Result describes a finished reconciliation.
type Result struct {
	Summary   string
	Flags     model.Flags
	Committed bool
	Attempts  int
}

// ReconcileItem reconciles one page. Per-item failures come back as
// *ItemError with KindSkip or KindFatal; revision drift is retried
// internally and never surfaces as an error.
func (o *Orchestrator) ReconcileItem(ctx context.Context, title string) (*Result, error) {
	log := o.log.With(zap.String("page", title))

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, restart, err := o.attempt(ctx, log, title)
		if err != nil {
			return nil, err
		}
		if !restart {
			res.Attempts = attempt
			return res, nil
		}

		if o.cfg.MaxRestarts > 0 && attempt >= o.cfg.MaxRestarts {
			return nil, skipErr(eris.Errorf("reconcile: %s still drifting after %d attempts", title, attempt))
		}
		log.Info("page changed during attempt: restarting", zap.Int("attempt", attempt))
	}
}

// attempt runs one SNAPSHOT -> DECIDE -> SYNTHESIZE -> VALIDATE -> COMMIT
// pass. restart is true when the snapshot drifted and the caller should
// start over.
func (o *Orchestrator) attempt(ctx context.Context, log *zap.Logger, title string) (res *Result, restart bool, err error) {
	// SNAPSHOT.
	text, err := o.pages.Text(ctx, title)
	if err != nil {
		return nil, false, skipErr(eris.Wrap(err, "reconcile: read page"))
	}
	revID, err := o.pages.LatestRevisionID(ctx, title)
	if err != nil {
		return nil, false, skipErr(eris.Wrap(err, "reconcile: read revision id"))
	}
	firstRev, err := o.pages.FirstRevisionTime(ctx, title)
	if err != nil {
		return nil, false, skipErr(eris.Wrap(err, "reconcile: read first revision"))
	}

	gridimageID, err := template.GridimageID(text)
	if err != nil {
		return nil, false, skipErr(err)
	}
	log = log.With(zap.Int64("gridimage_id", gridimageID))

	row, err := o.rows.Lookup(ctx, gridimageID)
	if eris.Is(err, geodb.ErrNotFound) {
		return nil, false, skipErr(eris.Wrapf(err, "reconcile: gridimage %d", gridimageID))
	}
	if err != nil {
		return nil, false, fatalErr(eris.Wrap(err, "reconcile: authoritative lookup"))
	}

	oldCam, err := template.ParseLocation(text)
	if err != nil {
		return nil, false, skipErr(err)
	}
	oldObj, err := template.ParseObjectLocation(text)
	if err != nil {
		return nil, false, skipErr(err)
	}

	// DECIDE.
	candCam := template.CameraFromRow(row)
	candObj := template.ObjectFromRow(row)

	camDec := decision.DecideSlot(oldCam, candCam, "camera")
	objDec := decision.DecideSlot(oldObj, candObj, "object")

	if (camDec != model.DecisionNone || objDec != model.DecisionNone) && !o.cfg.UpdateWithOverlay {
		statements, err := o.overlay.Statements(ctx, title)
		if err != nil {
			return nil, false, skipErr(eris.Wrap(err, "reconcile: read overlay"))
		}
		if len(statements[propObjectLocation]) > 0 || len(statements[propCameraLocation]) > 0 {
			log.Info("page has overlay geocoding: not updating locations")
			camDec, objDec = model.DecisionNone, model.DecisionNone
		}
	}

	var flags model.Flags
	newText := text

	if camDec != model.DecisionNone {
		o.annotateRegion(ctx, candCam, &flags)
		newText = template.SetLocation(newText, candCam)
		flags.SetCamera(camDec)
	}
	if objDec != model.DecisionNone {
		o.annotateRegion(ctx, candObj, &flags)
		newText = template.SetObjectLocation(newText, candObj)
		flags.SetObject(objDec)
	}

	creditLine := template.CreditLineFromRow(row)
	if decision.CanAddCreditLine(newText, creditLine) &&
		decision.FreshSinceUpload(row.UpdTimestamp, firstRev) {
		newText = template.AddCreditLine(newText, creditLine)
		flags.CreditLineAdded = true
	} else {
		log.Debug("cannot add credit line")
	}

	// SYNTHESIZE. Identical text means nothing to do, whatever the
	// individual decisions computed.
	if newText == text {
		return &Result{Flags: model.Flags{}}, false, nil
	}

	in := decision.SummaryInput{
		Camera:      camDec,
		Object:      objDec,
		Descriptor:  template.FormatRow(row),
		CreditLine:  flags.CreditLineAdded,
		Attribution: flags.AttributionUsed,
	}
	if camDec == model.DecisionUpdate {
		in.CameraMove = decision.DescribeMove(oldCam, candCam)
	}
	if objDec == model.DecisionUpdate {
		in.ObjectMove = decision.DescribeMove(oldObj, candObj)
	}
	summary := decision.Synthesize(in)

	// VALIDATE. The parse and decisions above are only valid against the
	// revision we snapshotted.
	latest, err := o.pages.LatestRevisionID(ctx, title)
	if err != nil {
		return nil, false, skipErr(eris.Wrap(err, "reconcile: re-read revision id"))
	}
	if latest != revID {
		return nil, true, nil
	}

	// COMMIT.
	if o.cfg.DryRun {
		log.Info("dry run: would save", zap.String("summary", summary))
		return &Result{Summary: summary, Flags: flags}, false, nil
	}
	log.Info("saving", zap.String("summary", summary))
	if err := o.pages.Save(ctx, title, newText, summary, false); err != nil {
		return nil, false, skipErr(eris.Wrap(err, "reconcile: save"))
	}

	return &Result{Summary: summary, Flags: flags, Committed: true}, false, nil
}

// annotateRegion fills the candidate's region attribute from the optional
// region service. A successful lookup obligates the attribution notice.
func (o *Orchestrator) annotateRegion(ctx context.Context, loc *model.Location, flags *model.Flags) {
	if o.regions == nil || loc == nil {
		return
	}
	region, err := o.regions.Region(ctx, loc.Lat, loc.Lon)
	if err != nil {
		o.log.Debug("region lookup failed", zap.Error(err))
		return
	}
	if region != "" {
		loc.Region = region
		flags.AttributionUsed = true
	}
}
