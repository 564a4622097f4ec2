package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joelkehle/idea-simulation-engine/internal/apperr"
)

// ErrNotFound matches simulation.ErrNotFound via errors.Is.
var ErrNotFound = apperr.ErrNotFound

// Record points at the rendered artifacts of one report.
type Record struct {
	ReportID     string    `db:"report_id" json:"report_id"`
	DocumentPath string    `db:"document_path" json:"document_path"`
	DocumentType string    `db:"document_type" json:"document_type"`
	WorkbookPath string    `db:"workbook_path" json:"workbook_path,omitempty"`
	CreatedAt    time.Time `db:"-" json:"created_at"`
}

// Store indexes reports by id. Implementations are safe for concurrent use
// and Put replaces any existing record with the same id.
type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, reportID string) (Record, error)
}

func validate(rec Record) error {
	if strings.TrimSpace(rec.ReportID) == "" {
		return apperr.InvalidInput("report_id is required")
	}
	if strings.TrimSpace(rec.DocumentPath) == "" {
		return apperr.InvalidInput("document_path is required")
	}
	return nil
}

func notFound(reportID string) error {
	return fmt.Errorf("report %q: %w", reportID, apperr.NotFound("report"))
}

// IsNotFound reports whether err means the report id is unknown.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
