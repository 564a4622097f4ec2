package simulation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joelkehle/idea-simulation-engine/internal/enrich"
	"github.com/joelkehle/idea-simulation-engine/internal/knowledge"
)

// fixedSource returns intn (clamped to n-1) for every Intn call and cycles
// through floats for Float64.
type fixedSource struct {
	mu     sync.Mutex
	intn   int
	floats []float64
	i      int
}

func (f *fixedSource) Intn(n int) int {
	return min(f.intn, n-1)
}

func (f *fixedSource) Float64() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.floats) == 0 {
		return 0.999
	}
	v := f.floats[f.i%len(f.floats)]
	f.i++
	return v
}

func shippedKB(t *testing.T) *knowledge.Base {
	t.Helper()
	kb, err := knowledge.Load("", nil)
	require.NoError(t, err)
	return kb
}

type stubEnricher struct {
	out enrich.Enrichment
	err error
}

func (s stubEnricher) Name() string { return "stub" }

func (s stubEnricher) Enrich(context.Context, string) (enrich.Enrichment, error) {
	return s.out, s.err
}

var errEnricherDown = errors.New("enricher down")

func persona(id, name, typ, income string, literacy int) knowledge.Persona {
	return knowledge.Persona{ID: id, Name: name, Type: typ, IncomeLevel: income, DigitalLiteracy: literacy}
}

func competitor(name string, pricing, features, ux, coverage int) knowledge.CompetitorRecord {
	return knowledge.CompetitorRecord{
		Name: name,
		Weaknesses: knowledge.Weaknesses{
			Pricing:  knowledge.WeaknessDetail{Score: pricing},
			Features: knowledge.WeaknessDetail{Score: features},
			UX:       knowledge.WeaknessDetail{Score: ux},
			Coverage: knowledge.WeaknessDetail{Score: coverage},
		},
	}
}
