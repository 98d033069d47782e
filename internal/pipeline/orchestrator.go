package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sitegen_ai_server/internal/ai"
	"sitegen_ai_server/internal/assembler"
	"sitegen_ai_server/internal/catalog"
	"sitegen_ai_server/internal/logger"
	"sitegen_ai_server/internal/types"
)

// Stage names, used for progress events, provenance, logs and metrics.
const (
	StageNormalize      = "normalize"
	StageDesignStrategy = "design_strategy"
	StageLayout         = "layout"
	StageStyleSystem    = "style_system"
	StageImagePlan      = "image_plan"
	StageCopy           = "copy"
	StageTheme          = "theme"
	StageImageRender    = "image_render"
	StageAssemble       = "assemble"
)

const (
	defaultStageTimeout   = 20 * time.Second
	defaultRequestTimeout = 90 * time.Second
	defaultConcurrency    = 4
)

// ErrNoCatalog is returned by New when Options.Catalog is nil.
var ErrNoCatalog = errors.New("pipeline: an industry catalog is required")

// Observer receives one call per finished stage. errClass is empty when the stage did not
// recover from an error.
type Observer interface {
	ObserveStage(stage string, source types.Source, errClass string, elapsed time.Duration)
}

// ProgressFunc receives progress events in order. It is called from the goroutine running
// Generate.
type ProgressFunc func(types.ProgressEvent)

type Options struct {
	Completer ai.Completer
	Images    ai.ImageGenerator
	Catalog   *catalog.Catalog
	Logger    logger.Logger
	Observer  Observer

	StageTimeout       time.Duration
	RequestTimeout     time.Duration
	SectionConcurrency int

	AILayoutPlanning     bool
	AIStyleHarmonization bool
	RenderImages         bool
	ImageSize            string
	ImageQuality         string

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// Orchestrator drives one generation request through every stage. It holds no per-request
// state and is safe for concurrent use.
type Orchestrator struct {
	log            logger.Logger
	observer       Observer
	requestTimeout time.Duration
	now            func() time.Time
	newID          func() string

	strategy *DesignStrategyGenerator
	layout   *LayoutPlanner
	style    *StyleSystemResolver
	images   *ImagePlanner
	copy     *CopyGenerator
	theme    *ThemeHarmonizer
	render   *ImageRenderer
}

func New(opts Options) (*Orchestrator, error) {
	if opts.Catalog == nil {
		return nil, ErrNoCatalog
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.StageTimeout <= 0 {
		opts.StageTimeout = defaultStageTimeout
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.SectionConcurrency <= 0 {
		opts.SectionConcurrency = defaultConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	if opts.Completer == nil {
		opts.Completer = ai.CompleterFunc(func(context.Context, ai.CompletionRequest) (string, error) {
			return "", ai.ErrNoCredentials
		})
	}

	o := &Orchestrator{
		log:            opts.Logger,
		observer:       opts.Observer,
		requestTimeout: opts.RequestTimeout,
		now:            opts.Now,
		newID:          opts.NewID,
		strategy:       NewDesignStrategyGenerator(opts.Completer, opts.Catalog, opts.StageTimeout),
		layout:         NewLayoutPlanner(opts.Completer, opts.StageTimeout, opts.AILayoutPlanning),
		style:          NewStyleSystemResolver(opts.Completer, opts.Catalog, opts.StageTimeout, opts.AIStyleHarmonization),
		images:         NewImagePlanner(opts.Completer, opts.Catalog, opts.StageTimeout),
		copy:           NewCopyGenerator(opts.Completer, opts.Catalog, opts.StageTimeout, opts.SectionConcurrency),
		theme:          NewThemeHarmonizer(opts.Completer, opts.Catalog, opts.StageTimeout),
	}
	if opts.RenderImages && opts.Images != nil {
		o.render = NewImageRenderer(opts.Images, opts.ImageSize, opts.ImageQuality, opts.StageTimeout, opts.SectionConcurrency)
	}
	return o, nil
}

// run is the per-request state of one Generate call.
type run struct {
	o        *Orchestrator
	id       string
	log      logger.Logger
	progress ProgressFunc
	seq      int
	site     *types.GeneratedWebsite
}

func (r *run) emit(stage string, status types.ProgressStatus, source types.Source) {
	r.seq++
	if r.progress == nil {
		return
	}
	r.progress(types.ProgressEvent{GenerationID: r.id, Stage: stage, Status: status, Source: source, Seq: r.seq})
}

// finish records a completed stage: provenance, progress, log and metrics.
func (r *run) finish(stage string, source types.Source, err error, started time.Time) {
	elapsed := r.o.now().Sub(started)
	r.site.Provenance[stage] = source

	status := types.StatusCompleted
	if source == types.SourceFallback {
		status = types.StatusFallback
	}
	r.emit(stage, status, source)

	class := ""
	if err != nil {
		class = r.logRecovered(stage, err)
	}
	if r.o.observer != nil {
		r.o.observer.ObserveStage(stage, source, class, elapsed)
	}
	r.log.Info("Stage completed",
		logger.String("stage", stage),
		logger.String("source", string(source)),
		logger.Duration("duration", elapsed),
	)
}

// logRecovered logs every recovered error of a stage and returns the class of the first.
func (r *run) logRecovered(stage string, err error) string {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}
	for _, e := range errs {
		var partial *PartialSectionFailure
		if errors.As(e, &partial) {
			r.log.Warn("Section fell back",
				logger.String("stage", stage),
				logger.String("section", partial.SectionKey),
				logger.String("error_class", ErrorClass(partial.Cause)),
				logger.Error(partial.Cause),
			)
			continue
		}
		r.log.Warn("Stage fell back",
			logger.String("stage", stage),
			logger.String("error_class", ErrorClass(e)),
			logger.Error(e),
		)
	}
	var partial *PartialSectionFailure
	if errors.As(errs[0], &partial) {
		return ErrorClass(partial.Cause)
	}
	return ErrorClass(errs[0])
}

// Generate runs the whole pipeline. It returns a *ValidationError for unusable input and the
// context error when ctx is cancelled; every other failure is absorbed by a stage fallback.
func (o *Orchestrator) Generate(ctx context.Context, raw types.RawRequirements, progress ProgressFunc) (*types.GeneratedWebsite, error) {
	start := o.now()
	r := &run{
		o:        o,
		id:       o.newID(),
		progress: progress,
		site:     &types.GeneratedWebsite{Provenance: make(map[string]types.Source)},
	}
	r.log = o.log.With(logger.String("generation_id", r.id))
	r.site.ID = r.id
	r.site.CreatedAt = start.UTC()

	r.emit(StageNormalize, types.StatusStarted, "")
	cfg, err := NormalizeRequirements(raw)
	if err != nil {
		r.emit(StageNormalize, types.StatusFailed, "")
		r.log.Warn("Rejected project requirements", logger.Error(err))
		if o.observer != nil {
			o.observer.ObserveStage(StageNormalize, types.SourceDeterministic, ErrorClass(err), o.now().Sub(start))
		}
		return nil, err
	}
	r.site.Project = cfg
	r.finish(StageNormalize, types.SourceDeterministic, nil, start)
	r.log.Info("Generating website",
		logger.String("business", cfg.BusinessName),
		logger.String("industry", cfg.IndustryID),
	)

	// The aggregate deadline only makes remaining AI calls fail fast into their fallbacks;
	// cancellation by the caller is checked on ctx itself.
	runCtx, cancel := context.WithTimeout(ctx, o.requestTimeout)
	defer cancel()

	checkpoint := func(stage string) error {
		if err := ctx.Err(); err != nil {
			r.emit(stage, types.StatusFailed, "")
			r.log.Info("Generation cancelled", logger.String("stage", stage), logger.Error(err))
			return fmt.Errorf("generation %s cancelled before %s: %w", r.id, stage, err)
		}
		r.emit(stage, types.StatusStarted, "")
		return nil
	}

	if err := checkpoint(StageDesignStrategy); err != nil {
		return nil, err
	}
	t := o.now()
	dc := o.strategy.Generate(runCtx, cfg)
	r.site.Design = dc.Value
	r.finish(StageDesignStrategy, dc.Source, dc.Err, t)

	if err := checkpoint(StageLayout); err != nil {
		return nil, err
	}
	t = o.now()
	plan := o.layout.Plan(runCtx, dc.Value)
	r.site.Layout = plan.Value
	r.finish(StageLayout, plan.Source, plan.Err, t)

	if err := checkpoint(StageStyleSystem); err != nil {
		return nil, err
	}
	t = o.now()
	style := o.style.Resolve(runCtx, dc.Value)
	r.site.Style = style.Value
	r.finish(StageStyleSystem, style.Source, style.Err, t)

	if err := checkpoint(StageImagePlan); err != nil {
		return nil, err
	}
	t = o.now()
	images := o.images.Plan(runCtx, dc.Value, plan.Value, style.Value)
	r.site.Images = images.Value
	r.finish(StageImagePlan, images.Source, images.Err, t)

	if o.render != nil {
		if err := checkpoint(StageImageRender); err != nil {
			return nil, err
		}
		t = o.now()
		rendered := o.render.Render(runCtx, r.site.Images)
		r.site.Images = rendered.Value
		r.finish(StageImageRender, rendered.Source, rendered.Err, t)
	}

	if err := checkpoint(StageCopy); err != nil {
		return nil, err
	}
	t = o.now()
	copies := o.copy.Generate(runCtx, dc.Value, plan.Value)
	r.site.Copy = copies.Value
	r.finish(StageCopy, copies.Source, copies.Err, t)

	if err := checkpoint(StageTheme); err != nil {
		return nil, err
	}
	t = o.now()
	theme := o.theme.Harmonize(runCtx, dc.Value, style.Value, r.site.Images)
	r.site.Theme = theme.Value
	r.finish(StageTheme, theme.Source, theme.Err, t)

	if err := checkpoint(StageAssemble); err != nil {
		return nil, err
	}
	t = o.now()
	out, err := assembler.Assemble(assembler.Input{
		GenerationID: r.id,
		Title:        cfg.BusinessName,
		Layout:       r.site.Layout,
		Copy:         r.site.Copy,
		Images:       r.site.Images,
		Theme:        r.site.Theme,
	})
	if err != nil {
		r.emit(StageAssemble, types.StatusFailed, "")
		r.log.Error("Assembly failed", logger.Error(err))
		return nil, err
	}
	r.site.Markup = out.Markup
	r.site.Styles = out.Styles
	r.finish(StageAssemble, types.SourceDeterministic, nil, t)

	r.site.GeneratedIn = o.now().Sub(start)
	r.log.Info("Website generated",
		logger.Int("sections", len(r.site.Layout.Sections)),
		logger.Duration("duration", r.site.GeneratedIn),
	)
	return r.site, nil
}
