package simulation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/joelkehle/idea-simulation-engine/internal/apperr"
	"github.com/joelkehle/idea-simulation-engine/internal/enrich"
	"github.com/joelkehle/idea-simulation-engine/internal/knowledge"
	"github.com/joelkehle/idea-simulation-engine/internal/platform/logger"
)

const (
	StageClassify    = "classify"
	StagePersonas    = "personas"
	StageEnvironment = "environment"
	StageBlockers    = "blockers"
	StageCompetitors = "competitors"
	StageAssemble    = "assemble"
	StagePublish     = "publish"
)

const tracerName = "github.com/joelkehle/idea-simulation-engine/internal/simulation"

type StageProgressFn func(stage, message string)

// Publisher renders and stores the report for a finished run.
type Publisher interface {
	Publish(ctx context.Context, data ReportData) error
}

type Engine struct {
	kb        *knowledge.Base
	enricher  enrich.TextEnricher
	rng       RandomSource
	now       func() time.Time
	newRunID  func() string
	publisher Publisher
	log       *logger.Logger
	tracer    trace.Tracer
}

type Option func(*Engine)

func WithEnricher(e enrich.TextEnricher) Option { return func(en *Engine) { en.enricher = e } }
func WithRandom(r RandomSource) Option         { return func(en *Engine) { en.rng = r } }
func WithClock(now func() time.Time) Option    { return func(en *Engine) { en.now = now } }
func WithPublisher(p Publisher) Option         { return func(en *Engine) { en.publisher = p } }
func WithLogger(l *logger.Logger) Option       { return func(en *Engine) { en.log = l } }
func WithTracer(t trace.Tracer) Option         { return func(en *Engine) { en.tracer = t } }

func NewEngine(kb *knowledge.Base, opts ...Option) *Engine {
	if kb == nil {
		kb = &knowledge.Base{}
	}
	e := &Engine{
		kb:       kb,
		enricher: enrich.NewRegexEnricher(),
		rng:      NewRandomSource(0),
		now:      time.Now,
		newRunID: newRunID,
		log:      logger.Nop(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func (e *Engine) Run(ctx context.Context, idea string) (Result, error) {
	return e.RunWithProgress(ctx, idea, nil)
}

// RunWithProgress runs every stage in order. A publish failure does not fail
// the run: the result is returned with ReportError set.
func (e *Engine) RunWithProgress(ctx context.Context, idea string, progress StageProgressFn) (Result, error) {
	if strings.TrimSpace(idea) == "" {
		return Result{}, apperr.InvalidInput("No idea provided")
	}
	ctx, span := e.tracer.Start(ctx, "simulation.run")
	defer span.End()

	emit(progress, StageClassify, "Parsing idea DNA...")
	var dna IdeaDescriptor
	err := e.stage(ctx, StageClassify, func(ctx context.Context) error {
		var err error
		dna, err = Classify(ctx, idea, e.enricher, e.kb.Personas, e.log)
		return err
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	span.SetAttributes(attribute.String("idea.domain", string(dna.Domain)), attribute.Bool("idea.b2b", dna.IsB2B))

	emit(progress, StagePersonas, "Selecting personas...")
	var personas PersonaSelection
	e.span(ctx, StagePersonas, func() {
		personas = SelectPersonas(dna, e.kb.Personas)
	})

	emit(progress, StageEnvironment, "Scoring environment...")
	var env EnvironmentFactors
	e.span(ctx, StageEnvironment, func() {
		env = ScoreEnvironment(personas.Primary(), dna.Domain, e.rng)
	})

	emit(progress, StageBlockers, "Running 1000 adoption trials...")
	var blockers BlockerReport
	e.span(ctx, StageBlockers, func() {
		blockers = SimulateBlockers(env, e.rng)
	})

	emit(progress, StageCompetitors, "Mapping competitor weaknesses...")
	var competitors CompetitorMap
	e.span(ctx, StageCompetitors, func() {
		competitors = AnalyzeCompetitors(dna, e.kb.Competitors)
	})

	emit(progress, StageAssemble, "Assembling result...")
	now := e.now()
	primary := personas.Primary()
	res := Assemble(Assembly{
		DNA:               dna,
		Personas:          personas,
		Env:               env,
		Blockers:          blockers,
		Competitors:       competitors,
		ReportID:          NewReportID(now),
		RunID:             e.newRunID(),
		Now:               now,
		SpendCapINR:       e.kb.SpendCap(primary.IncomeLevel),
		Benchmark:         e.kb.Benchmarks[competitors.DomainKey],
		MitigationOptions: e.kb.Solutions[string(blockers.PrimaryBlocker.Type)],
		KnowledgeDegraded: e.kb.Degraded(),
	})
	span.SetAttributes(attribute.String("report.id", res.ReportID), attribute.String("run.id", res.RunID))

	if e.publisher != nil {
		emit(progress, StagePublish, "Rendering report...")
		if err := e.stage(ctx, StagePublish, func(ctx context.Context) error {
			return e.publisher.Publish(ctx, res.ReportData)
		}); err != nil {
			serr := &StageError{Stage: StagePublish, Err: err}
			e.log.Error("report publish failed", "report_id", res.ReportID, "error", serr)
			res.ReportError = serr.Error()
		}
	}

	e.log.Info("simulation complete",
		"report_id", res.ReportID,
		"run_id", res.RunID,
		"domain", dna.Domain,
		"target_user", dna.TargetUser,
		"primary_blocker", blockers.PrimaryBlocker.Type,
		"market_share_potential", competitors.MarketSharePotential,
	)
	return res, nil
}

func (e *Engine) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := e.tracer.Start(ctx, "simulation."+name)
	defer span.End()
	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// span traces a stage that cannot fail.
func (e *Engine) span(ctx context.Context, name string, fn func()) {
	_, span := e.tracer.Start(ctx, "simulation."+name)
	defer span.End()
	fn()
}

func emit(progress StageProgressFn, stage, message string) {
	if progress != nil {
		progress(stage, message)
	}
}
