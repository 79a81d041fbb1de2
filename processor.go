package tabgrid

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/tabgrid/config"
	"github.com/tsawler/tabgrid/correction"
	"github.com/tsawler/tabgrid/detect"
	"github.com/tsawler/tabgrid/model"
	"github.com/tsawler/tabgrid/page"
	"github.com/tsawler/tabgrid/reconcile"
	"github.com/tsawler/tabgrid/tables"
)

var (
	// ErrNoInput is returned when a Processor has neither a file nor snapshots
	ErrNoInput = errors.New("no input specified")

	// ErrNoTableRows is the warning cause for a region dropped because
	// correction found no table rows in it
	ErrNoTableRows = errors.New("region holds no table rows")
)

// ImageSource renders the page with the given number for the region
// detector.
type ImageSource func(ctx context.Context, number int) (image.Image, error)

// PageResult holds the tables reconstructed on one page
type PageResult struct {
	Page   int
	Tables []*model.Table

	// Classes[i] labels Tables[i]; nil when no classifier is configured
	Classes []detect.Classification
}

// Processor runs table reconstruction over a set of pages. Each
// configuration method returns a new Processor, so a configured Processor
// can be shared and reused.
type Processor struct {
	// Source
	filename  string
	snapshots []*page.Snapshot
	loaded    bool

	// Configuration
	options processOptions

	// Injected collaborators
	detector   detect.RegionDetector
	render     ImageSource
	classifier detect.ImageClassifier
	logger     *slog.Logger

	// Accumulated error (fail-fast)
	err error
}

func newProcessor() *Processor {
	return &Processor{
		options: defaultOptions(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// clone creates a shallow copy of the Processor with a deep copy of options
func (p *Processor) clone() *Processor {
	return &Processor{
		filename:   p.filename,
		snapshots:  p.snapshots,
		loaded:     p.loaded,
		options:    p.options.clone(),
		detector:   p.detector,
		render:     p.render,
		classifier: p.classifier,
		logger:     p.logger,
		err:        p.err,
	}
}

// Pages restricts processing to the given page numbers (1-based)
func (p *Processor) Pages(numbers ...int) *Processor {
	np := p.clone()
	np.options.pages = append([]int(nil), numbers...)
	return np
}

// Workers bounds the number of pages processed at once. Zero means one
// worker per CPU.
func (p *Processor) Workers(n int) *Processor {
	np := p.clone()
	if n < 0 {
		np.err = fmt.Errorf("workers %d: %w", n, config.ErrInvalidWorkers)
		return np
	}
	np.options.workers = n
	return np
}

// WithConfig replaces the calibration of every stage. An invalid file is
// reported by the terminal operation.
func (p *Processor) WithConfig(f config.File) *Processor {
	np := p.clone()
	if err := f.Validate(); err != nil {
		np.err = fmt.Errorf("invalid configuration: %w", err)
		return np
	}
	np.options.config = f
	if f.Workers > 0 {
		np.options.workers = f.Workers
	}
	return np
}

// WithDetector enables image proposals. render supplies the page image the
// detector looks at.
func (p *Processor) WithDetector(det detect.RegionDetector, render ImageSource) *Processor {
	np := p.clone()
	np.detector = det
	np.render = render
	return np
}

// WithClassifier labels every reconstructed table from its cropped image.
// It needs the ImageSource given to WithDetector.
func (p *Processor) WithClassifier(c detect.ImageClassifier) *Processor {
	np := p.clone()
	np.classifier = c
	return np
}

// WithLogger sets the logger every stage reports to
func (p *Processor) WithLogger(logger *slog.Logger) *Processor {
	np := p.clone()
	if logger != nil {
		np.logger = logger
	}
	return np
}

// ensureSnapshots loads the page file if it has not been read yet
func (p *Processor) ensureSnapshots() error {
	if p.loaded {
		return nil
	}
	if p.filename == "" {
		return ErrNoInput
	}
	snaps, err := page.LoadFile(p.filename)
	if err != nil {
		return fmt.Errorf("failed to load pages: %w", err)
	}
	p.snapshots = snaps
	p.loaded = true
	return nil
}

// Tables reconstructs the tables of every selected page. Results are in
// page order. Problems confined to a page or region are returned as
// warnings; the error is reserved for unusable input and cancellation.
func (p *Processor) Tables(ctx context.Context) ([]PageResult, []Warning, error) {
	if p.err != nil {
		return nil, nil, p.err
	}
	if err := p.ensureSnapshots(); err != nil {
		return nil, nil, err
	}

	var selected []*page.Snapshot
	for _, s := range p.snapshots {
		if p.options.wants(s.Number) {
			selected = append(selected, s)
		}
	}
	return p.ProcessPages(ctx, selected)
}

// ProcessPages runs ProcessPage over the snapshots in parallel. Pages share
// no state; the results keep the order of snaps.
func (p *Processor) ProcessPages(ctx context.Context, snaps []*page.Snapshot) ([]PageResult, []Warning, error) {
	workers := p.options.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p.logger.Info("processing pages", "pages", len(snaps), "workers", workers)
	start := time.Now()

	results := make([]PageResult, len(snaps))
	warnings := make([][]Warning, len(snaps))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, snap := range snaps {
		i, snap := i, snap
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i], warnings[i] = p.ProcessPage(ctx, snap)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var all []Warning
	for _, w := range warnings {
		all = append(all, w...)
	}
	p.logger.Info("pages processed", "pages", len(snaps), "warnings", len(all), "elapsed", time.Since(start))
	return results, all, nil
}

// stages holds the per-page instances of every pipeline stage
type stages struct {
	builder    *tables.Builder
	corrector  *correction.Corrector
	reconciler *reconcile.Reconciler
}

func (p *Processor) stages() stages {
	cfg := p.options.config
	return stages{
		builder:    tables.NewBuilderWithConfig(cfg.Tables).WithLogger(p.logger),
		corrector:  correction.NewCorrectorWithConfig(cfg.Correction).WithLogger(p.logger),
		reconciler: reconcile.NewReconcilerWithConfig(cfg.Reconcile).WithLogger(p.logger),
	}
}

// pageRun collects the warnings of a single page
type pageRun struct {
	*Processor
	snap     *page.Snapshot
	st       stages
	warnings []Warning
}

func (r *pageRun) warn(stage Stage, region model.Rect, err error) {
	r.logger.Warn("stage failed", "page", r.snap.Number, "stage", stage, "region", region, "error", err)
	r.warnings = append(r.warnings, Warning{
		Page:    r.snap.Number,
		Region:  region,
		Stage:   stage,
		Message: err.Error(),
	})
}

// ProcessPage reconstructs the tables of a single page:
//
//  1. ruling frames are built into line tables;
//  2. proposals are gathered from the detector, structure tags and hints;
//  3. proposals are reconciled with the line tables;
//  4. incomplete regions get their top and bottom edges corrected;
//  5. a table is built for every surviving region.
//
// A failing proposal source or region yields a warning and contributes
// nothing. ProcessPage is safe to call concurrently for different pages.
func (p *Processor) ProcessPage(ctx context.Context, snap *page.Snapshot) (PageResult, []Warning) {
	run := &pageRun{Processor: p, snap: snap, st: p.stages()}
	result := PageResult{Page: snap.Number}

	existing := run.frameTables()
	proposals := run.proposals(ctx)
	kept, accepted := run.st.reconciler.Regions(existing, proposals, snap)
	regions := run.correct(kept, accepted)

	latticeBounds := make([]model.Rect, 0, len(kept))
	for _, t := range kept {
		latticeBounds = append(latticeBounds, t.Bounds)
	}

	built := append([]*model.Table(nil), kept...)
	for _, region := range regions {
		t, err := run.build(region, latticeBounds)
		if err != nil {
			run.warn(StageBuild, region.Bounds, err)
			continue
		}
		if t != nil {
			built = append(built, t)
		}
	}

	sort.SliceStable(built, func(i, j int) bool {
		if built[i].Bounds.Top != built[j].Bounds.Top {
			return built[i].Bounds.Top < built[j].Bounds.Top
		}
		return built[i].Bounds.Left < built[j].Bounds.Left
	})
	result.Tables = built
	result.Classes = run.classify(ctx, built)

	p.logger.Debug("page done", "page", snap.Number, "tables", len(built), "warnings", len(run.warnings))
	return result, run.warnings
}

// frameTables builds a line table for every ruling frame on the page
func (r *pageRun) frameTables() []*model.Table {
	cfg := r.options.config.Tables
	var out []*model.Table
	for _, frame := range tables.FindFrames(r.snap.HorizontalRulings(), r.snap.VerticalRulings(), cfg) {
		h, v := r.snap.RulingsIn(frame.Bounds, cfg.RulingTouch)
		t, err := r.st.builder.BuildTable(tables.Input{
			Bounds:        frame.Bounds,
			Chunks:        r.snap.ChunksIn(frame.Bounds),
			Horizontal:    h,
			Vertical:      v,
			StructureRows: r.snap.StructureRows(frame.Bounds),
		})
		if err != nil {
			r.warn(StageFrames, frame.Bounds, err)
			continue
		}
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// proposals gathers region proposals from every configured source
func (r *pageRun) proposals(ctx context.Context) []model.TableRegion {
	var out []model.TableRegion
	if r.detector != nil {
		out = append(out, r.imageProposals(ctx)...)
	}
	out = append(out, detect.TagProposals(r.snap)...)
	out = append(out, detect.HintProposals(r.snap.Hints())...)
	return out
}

func (r *pageRun) imageProposals(ctx context.Context) []model.TableRegion {
	img, err := r.pageImage(ctx)
	if err != nil {
		r.warn(StageRender, model.Rect{}, err)
		return nil
	}
	props, err := detect.ImageProposals(ctx, r.detector, img, r.snap.Width, r.snap.Height, r.options.config.Image)
	if err != nil {
		r.warn(StageDetect, model.Rect{}, err)
		return nil
	}
	return props
}

func (r *pageRun) pageImage(ctx context.Context) (image.Image, error) {
	if r.render == nil {
		return nil, errors.New("no image source configured")
	}
	img, err := r.render(ctx, r.snap.Number)
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return img, nil
}

// correct adjusts the regions one at a time. Each region is fenced by the
// kept tables and the current bounds of every other region; a region that
// loses all its rows is dropped with a warning.
func (r *pageRun) correct(kept []*model.Table, regions []model.TableRegion) []model.TableRegion {
	regions = append([]model.TableRegion(nil), regions...)
	dropped := make([]bool, len(regions))

	for i := range regions {
		if regions[i].Complete {
			continue
		}

		fences := make([]model.Rect, 0, len(kept)+len(regions))
		for _, t := range kept {
			fences = append(fences, t.Bounds)
		}
		for j, o := range regions {
			if j != i && !dropped[j] {
				fences = append(fences, o.Bounds)
			}
		}

		fixed := r.st.corrector.Correct(regions[i].Bounds, r.snap, fences)
		if fixed == nil {
			r.warn(StageCorrect, regions[i].Bounds, ErrNoTableRows)
			dropped[i] = true
			continue
		}
		regions[i].Bounds = *fixed
	}

	out := regions[:0]
	for i, region := range regions {
		if !dropped[i] {
			out = append(out, region)
		}
	}
	return out
}

// build constructs the table of an accepted region
func (r *pageRun) build(region model.TableRegion, lattices []model.Rect) (*model.Table, error) {
	h, v := r.snap.RulingsIn(region.Bounds, r.options.config.Tables.RulingTouch)
	t, err := r.st.builder.BuildTable(tables.Input{
		Bounds:        region.Bounds,
		Chunks:        r.snap.ChunksIn(region.Bounds),
		Horizontal:    h,
		Vertical:      v,
		StructureRows: r.snap.StructureRows(region.Bounds),
		Lattices:      lattices,
	})
	if err != nil || t == nil {
		return nil, err
	}
	if region.Source != "" {
		t.Source = region.Source
	}
	return t, nil
}

// classify labels each table from its cropped page image
func (r *pageRun) classify(ctx context.Context, built []*model.Table) []detect.Classification {
	if r.classifier == nil || len(built) == 0 {
		return nil
	}
	img, err := r.pageImage(ctx)
	if err != nil {
		r.warn(StageRender, model.Rect{}, err)
		return nil
	}

	classes := make([]detect.Classification, len(built))
	for i, t := range built {
		crop := detect.Crop(img, t.Bounds, r.snap.Width, r.snap.Height)
		c, err := r.classifier.ClassifyTableImage(ctx, crop)
		if err != nil {
			r.warn(StageClassify, t.Bounds, fmt.Errorf("classifying table: %w", err))
			continue
		}
		classes[i] = c
	}
	return classes
}
