package knowledge

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joelkehle/idea-simulation-engine/internal/apperr"
	"github.com/joelkehle/idea-simulation-engine/internal/platform/logger"
)

//go:embed data/*.yaml
var embeddedData embed.FS

const (
	SourceEmbedded = "embedded"
	SourceDefault  = "default"
)

var ErrDegraded = apperr.New(apperr.CodeDegraded, "knowledge base degraded")

type TableError struct {
	Table string
	Err   error
}

// LoadError lists every table that fell back to its default.
type LoadError struct {
	Failures []TableError
}

func (e *LoadError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Table, f.Err))
	}
	return "knowledge base degraded: " + strings.Join(parts, "; ")
}

func (e *LoadError) Unwrap() error { return ErrDegraded }

// Base is the in-memory knowledge base. It is read-only after Load.
type Base struct {
	Demographics   []DemographicSegment
	Benchmarks     map[string]IndustryBenchmark
	Infrastructure map[string]int
	Personas       []Persona
	Solutions      map[string][]string
	IncomeCaps     map[string]int
	Competitors    map[string][]CompetitorRecord
	Ideas          IdeaCatalog

	tables map[string]TableStatus
}

type TableStatus struct {
	Rows   int    `json:"rows"`
	Source string `json:"source"`
	Error  string `json:"error,omitempty"`
}

type Status struct {
	Degraded bool                   `json:"degraded"`
	Tables   map[string]TableStatus `json:"tables"`
}

// Load reads every table from dir, or from the embedded copies when dir is
// empty. The returned Base is never nil: tables that fail to load are replaced
// by their defaults and reported through a *LoadError.
func Load(dir string, log *logger.Logger) (*Base, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		sub, err := fs.Sub(embeddedData, "data")
		if err != nil {
			return LoadFS(nil, SourceEmbedded, log)
		}
		return LoadFS(sub, SourceEmbedded, log)
	}
	return LoadFS(os.DirFS(dir), dir, log)
}

func LoadFS(fsys fs.FS, source string, log *logger.Logger) (*Base, error) {
	if log == nil {
		log = logger.Nop()
	}
	l := &tableLoader{fsys: fsys, source: source, log: log, tables: map[string]TableStatus{}}

	b := &Base{}
	b.Demographics = loadTable(l, TableDemographics, nil, validateDemographics)
	b.Benchmarks = loadTable(l, TableBenchmarks, map[string]IndustryBenchmark{}, nil)
	b.Infrastructure = loadTable(l, TableInfrastructure, map[string]int{}, validateInfrastructure)
	b.Personas = loadTable(l, TablePersonas, nil, validatePersonas)
	b.Solutions = loadTable(l, TableSolutions, map[string][]string{}, nil)
	b.IncomeCaps = loadTable(l, TableIncomeCaps, defaultIncomeCaps(), validateIncomeCaps)
	b.Competitors = loadTable(l, TableCompetitors, map[string][]CompetitorRecord{}, validateCompetitors)
	b.Ideas = loadTable(l, TableIndustryIdeas, defaultIdeas(), validateIdeas)

	b.tables = l.tables
	for name, st := range b.tables {
		st.Rows = b.rows(name)
		b.tables[name] = st
	}
	if len(l.failures) > 0 {
		return b, &LoadError{Failures: l.failures}
	}
	log.Info("knowledge base loaded", "source", source, "personas", len(b.Personas), "competitor_domains", len(b.Competitors))
	return b, nil
}

func (b *Base) Degraded() bool {
	for _, st := range b.tables {
		if st.Source == SourceDefault {
			return true
		}
	}
	return false
}

func (b *Base) Status() Status {
	tables := make(map[string]TableStatus, len(b.tables))
	for k, v := range b.tables {
		tables[k] = v
	}
	return Status{Degraded: b.Degraded(), Tables: tables}
}

// CompetitorsFor returns the catalog entries for key, or nil.
func (b *Base) CompetitorsFor(key string) []CompetitorRecord {
	if b == nil {
		return nil
	}
	return b.Competitors[key]
}

// SpendCap looks up the monthly spend cap for an income label such as
// "Middle Class". Unknown labels use the middle_class cap when present.
func (b *Base) SpendCap(incomeLevel string) int {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(incomeLevel)), " ", "_")
	if v, ok := b.IncomeCaps[key]; ok {
		return v
	}
	return b.IncomeCaps["middle_class"]
}

func (b *Base) rows(table string) int {
	switch table {
	case TableDemographics:
		return len(b.Demographics)
	case TableBenchmarks:
		return len(b.Benchmarks)
	case TableInfrastructure:
		return len(b.Infrastructure)
	case TablePersonas:
		return len(b.Personas)
	case TableSolutions:
		return len(b.Solutions)
	case TableIncomeCaps:
		return len(b.IncomeCaps)
	case TableCompetitors:
		n := 0
		for _, recs := range b.Competitors {
			n += len(recs)
		}
		return n
	case TableIndustryIdeas:
		return len(b.Ideas)
	}
	return 0
}

type tableLoader struct {
	fsys     fs.FS
	source   string
	log      *logger.Logger
	tables   map[string]TableStatus
	failures []TableError
}

func loadTable[T any](l *tableLoader, table string, fallback T, validate func(T) error) T {
	var v T
	err := l.read(table, &v)
	if err == nil && validate != nil {
		err = validate(v)
	}
	if err != nil {
		l.failures = append(l.failures, TableError{Table: table, Err: err})
		l.tables[table] = TableStatus{Source: SourceDefault, Error: err.Error()}
		l.log.Warn("knowledge table degraded", "table", table, "source", l.source, "error", err)
		return fallback
	}
	l.tables[table] = TableStatus{Source: l.source}
	return v
}

var tableExtensions = []string{".yaml", ".yml", ".json"}

// read decodes the first of <table>.yaml, .yml or .json found. JSON is
// accepted because yaml.v3 parses it as a YAML document.
func (l *tableLoader) read(table string, out any) error {
	if l.fsys == nil {
		return fmt.Errorf("no knowledge source: %w", fs.ErrNotExist)
	}
	for _, ext := range tableExtensions {
		raw, err := fs.ReadFile(l.fsys, table+ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s%s: %w", table, ext, err)
		}
		if err := yaml.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("parse %s%s: %w", table, ext, err)
		}
		return nil
	}
	return fmt.Errorf("%s: %w", table, fs.ErrNotExist)
}

func validateDemographics(rows []DemographicSegment) error {
	for i, r := range rows {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("segment %d: missing name", i)
		}
		if r.UrbanShare < 0 || r.UrbanShare > 1 {
			return fmt.Errorf("segment %q: urban_share %.2f outside [0,1]", r.Name, r.UrbanShare)
		}
	}
	return nil
}

func validateInfrastructure(m map[string]int) error {
	for k, v := range m {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s: score %d outside [0,100]", k, v)
		}
	}
	return nil
}

func validatePersonas(rows []Persona) error {
	if len(rows) == 0 {
		return errors.New("persona library is empty")
	}
	seen := make(map[string]bool, len(rows))
	for i, p := range rows {
		if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Type) == "" {
			return fmt.Errorf("persona %d: id, name and type are required", i)
		}
		if strings.TrimSpace(p.IncomeLevel) == "" {
			return fmt.Errorf("persona %q: income_level is required", p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("persona %q: duplicate id", p.ID)
		}
		seen[p.ID] = true
		if p.DigitalLiteracy < 0 || p.DigitalLiteracy > 100 {
			return fmt.Errorf("persona %q: digital_literacy %d outside [0,100]", p.ID, p.DigitalLiteracy)
		}
	}
	return nil
}

func validateIncomeCaps(m map[string]int) error {
	if len(m) == 0 {
		return errors.New("no income caps")
	}
	for k, v := range m {
		if v <= 0 {
			return fmt.Errorf("%s: cap must be positive", k)
		}
	}
	return nil
}

func validateCompetitors(m map[string][]CompetitorRecord) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for i, rec := range m[k] {
			if strings.TrimSpace(rec.Name) == "" {
				return fmt.Errorf("%s[%d]: missing name", k, i)
			}
			for _, wk := range WeaknessKeys {
				if s := rec.Weaknesses.Get(wk).Score; s < 0 || s > 10 {
					return fmt.Errorf("%s/%s: %s score %d outside [0,10]", k, rec.Name, wk, s)
				}
			}
		}
	}
	return nil
}
