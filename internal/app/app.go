package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/joelkehle/idea-simulation-engine/internal/config"
	"github.com/joelkehle/idea-simulation-engine/internal/enrich"
	"github.com/joelkehle/idea-simulation-engine/internal/knowledge"
	"github.com/joelkehle/idea-simulation-engine/internal/platform/logger"
	"github.com/joelkehle/idea-simulation-engine/internal/report"
	"github.com/joelkehle/idea-simulation-engine/internal/simulation"
	"github.com/joelkehle/idea-simulation-engine/internal/store"
)

// App holds the wired components shared by the server and the CLI.
type App struct {
	Knowledge *knowledge.Base
	Engine    *simulation.Engine
	Publisher *report.Publisher
	Store     store.Store

	closers []io.Closer
}

// New loads the knowledge base and wires the engine to the report publisher.
// A degraded knowledge base is logged, never fatal.
func New(cfg *config.Config, log *logger.Logger) (*App, error) {
	kb, err := knowledge.Load(cfg.Knowledge.Dir, log)
	if err != nil {
		var le *knowledge.LoadError
		if !errors.As(err, &le) {
			return nil, fmt.Errorf("load knowledge base: %w", err)
		}
		log.Warn("knowledge base degraded, continuing with defaults", "failed_tables", len(le.Failures))
	}

	a := &App{Knowledge: kb}
	st, err := NewStore(cfg.Reports)
	if err != nil {
		return nil, err
	}
	a.Store = st
	if c, ok := st.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	pub, err := report.NewPublisher(cfg.Reports.Dir, st,
		report.WithRenderer(report.NewChromiumPDFRenderer(cfg.Reports.ChromePath, cfg.Reports.RenderTimeout)),
		report.WithLogger(log),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Publisher = pub

	enricher, err := NewEnricher(cfg.Enricher, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Engine = simulation.NewEngine(kb,
		simulation.WithEnricher(enricher),
		simulation.WithRandom(simulation.NewRandomSource(cfg.Engine.Seed)),
		simulation.WithPublisher(pub),
		simulation.WithLogger(log),
	)
	return a, nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// NewEnricher picks the text enricher. In auto mode the Anthropic tagger is
// used when an API key is configured.
func NewEnricher(cfg config.EnricherConfig, log *logger.Logger) (enrich.TextEnricher, error) {
	switch cfg.Mode {
	case config.EnricherRegex:
		return enrich.NewRegexEnricher(), nil
	case config.EnricherAnthropic, config.EnricherAuto:
		if cfg.AnthropicAPIKey == "" {
			if cfg.Mode == config.EnricherAnthropic {
				return nil, errors.New("anthropic enricher requires ANTHROPIC_API_KEY")
			}
			log.Info("no ANTHROPIC_API_KEY, using regex enricher")
			return enrich.NewRegexEnricher(), nil
		}
		e, err := enrich.NewAnthropicEnricher(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown enricher %q", cfg.Mode)
	}
}

func NewStore(cfg config.ReportConfig) (store.Store, error) {
	switch cfg.Index {
	case config.ReportIndexSQLite:
		s, err := store.NewSQLiteStore(cfg.SQLiteDSN)
		if err != nil {
			return nil, fmt.Errorf("open report index: %w", err)
		}
		return s, nil
	case config.ReportIndexMemory, "":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown report index %q", cfg.Index)
	}
}
