package report

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joelkehle/idea-simulation-engine/internal/apperr"
	"github.com/joelkehle/idea-simulation-engine/internal/platform/logger"
	"github.com/joelkehle/idea-simulation-engine/internal/simulation"
	"github.com/joelkehle/idea-simulation-engine/internal/store"
)

// DocumentRenderer turns report markdown into a printable document.
type DocumentRenderer interface {
	Render(ctx context.Context, title, markdown string) ([]byte, error)
}

// Artifact is a rendered file ready to be served.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Publisher renders a report to disk and indexes it in a store. It
// implements simulation.Publisher.
type Publisher struct {
	dir      string
	renderer DocumentRenderer
	store    store.Store
	log      *logger.Logger
	now      func() time.Time
}

type PublisherOption func(*Publisher)

// WithRenderer sets the PDF renderer. Without one every report is written
// as HTML.
func WithRenderer(r DocumentRenderer) PublisherOption { return func(p *Publisher) { p.renderer = r } }
func WithLogger(l *logger.Logger) PublisherOption     { return func(p *Publisher) { p.log = l } }

func NewPublisher(dir string, st store.Store, opts ...PublisherOption) (*Publisher, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("report dir is required")
	}
	if st == nil {
		return nil, errors.New("report store is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	p := &Publisher{dir: dir, store: st, log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Publish renders the document and workbook concurrently. The caller's
// cancellation is ignored so an abandoned request still leaves a report
// behind; the renderer's own timeout bounds the work. A failed PDF render
// falls back to HTML and a failed workbook is logged and skipped.
func (p *Publisher) Publish(ctx context.Context, d simulation.ReportData) error {
	if missing := MissingFields(d); len(missing) > 0 {
		return apperr.InvalidInput("report data missing fields: " + strings.Join(missing, ", "))
	}
	ctx = context.WithoutCancel(ctx)
	log := p.log.With("report_id", d.ReportID)

	chart, err := RenderCompetitorChart(d.Competitors)
	if err != nil {
		log.Warn("competitor chart failed", "error", err)
	}
	md := BuildMarkdown(d, chart)
	title := "Idea Simulation Report " + d.ReportID

	rec := store.Record{ReportID: d.ReportID, CreatedAt: p.now().UTC()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		path, contentType, err := p.writeDocument(gctx, d.ReportID, title, md)
		if err != nil {
			return err
		}
		rec.DocumentPath, rec.DocumentType = path, contentType
		return nil
	})
	g.Go(func() error {
		path, err := p.writeWorkbook(d)
		if err != nil {
			log.Warn("workbook export failed", "error", err)
			return nil
		}
		rec.WorkbookPath = path
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := p.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("index report: %w", err)
	}
	log.Info("report published", "document", rec.DocumentPath, "content_type", rec.DocumentType, "workbook", rec.WorkbookPath)
	return nil
}

func (p *Publisher) writeDocument(ctx context.Context, reportID, title, md string) (string, string, error) {
	if p.renderer != nil {
		pdf, err := p.renderer.Render(ctx, title, md)
		if err == nil {
			path := p.path(reportID, ".pdf")
			if err := os.WriteFile(path, pdf, 0o644); err != nil {
				return "", "", fmt.Errorf("write pdf: %w", err)
			}
			return path, ContentTypePDF, nil
		}
		p.log.Warn("pdf render failed, falling back to html", "report_id", reportID, "error", err)
	}

	htmlDoc, err := BuildHTML(title, md)
	if err != nil {
		return "", "", err
	}
	path := p.path(reportID, ".html")
	if err := os.WriteFile(path, []byte(htmlDoc), 0o644); err != nil {
		return "", "", fmt.Errorf("write html: %w", err)
	}
	return path, ContentTypeHTML, nil
}

func (p *Publisher) writeWorkbook(d simulation.ReportData) (string, error) {
	data, err := BuildWorkbook(d)
	if err != nil {
		return "", err
	}
	path := p.path(d.ReportID, ".xlsx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write workbook: %w", err)
	}
	return path, nil
}

func (p *Publisher) path(reportID, ext string) string {
	return filepath.Join(p.dir, "Report_"+filepath.Base(reportID)+ext)
}

// Open returns the rendered document for a report id.
func (p *Publisher) Open(ctx context.Context, reportID string) (Artifact, error) {
	rec, err := p.store.Get(ctx, reportID)
	if err != nil {
		return Artifact{}, err
	}
	return readArtifact(rec.DocumentPath, rec.DocumentType)
}

// OpenWorkbook returns the XLSX export for a report id.
func (p *Publisher) OpenWorkbook(ctx context.Context, reportID string) (Artifact, error) {
	rec, err := p.store.Get(ctx, reportID)
	if err != nil {
		return Artifact{}, err
	}
	if rec.WorkbookPath == "" {
		return Artifact{}, fmt.Errorf("report %q: %w", reportID, apperr.NotFound("workbook"))
	}
	return readArtifact(rec.WorkbookPath, ContentTypeXLSX)
}

func readArtifact(path, contentType string) (Artifact, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Artifact{}, fmt.Errorf("%s: %w", filepath.Base(path), apperr.NotFound("report file"))
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return Artifact{Name: filepath.Base(path), ContentType: contentType, Data: data}, nil
}
