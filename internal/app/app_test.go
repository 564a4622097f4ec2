package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/idea-simulation-engine/internal/config"
	"github.com/joelkehle/idea-simulation-engine/internal/enrich"
	"github.com/joelkehle/idea-simulation-engine/internal/platform/logger"
	"github.com/joelkehle/idea-simulation-engine/internal/store"
)

func TestNewEnricherSelection(t *testing.T) {
	e, err := NewEnricher(config.EnricherConfig{Mode: config.EnricherAuto}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "regex", e.Name())

	e, err = NewEnricher(config.EnricherConfig{Mode: config.EnricherAuto, AnthropicAPIKey: "sk-test"}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &enrich.AnthropicEnricher{}, e)

	_, err = NewEnricher(config.EnricherConfig{Mode: config.EnricherAnthropic}, logger.Nop())
	assert.Error(t, err)

	_, err = NewEnricher(config.EnricherConfig{Mode: "spacy"}, logger.Nop())
	assert.Error(t, err)
}

func TestNewStoreSelection(t *testing.T) {
	s, err := NewStore(config.ReportConfig{Index: config.ReportIndexMemory})
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, s)

	s, err = NewStore(config.ReportConfig{Index: config.ReportIndexSQLite, SQLiteDSN: filepath.Join(t.TempDir(), "idx.db")})
	require.NoError(t, err)
	sq, ok := s.(*store.SQLiteStore)
	require.True(t, ok)
	require.NoError(t, sq.Close())

	_, err = NewStore(config.ReportConfig{Index: "redis"})
	assert.Error(t, err)
}

func TestNewWiresDegradedKnowledge(t *testing.T) {
	cfg := &config.Config{
		Knowledge: config.KnowledgeConfig{Dir: t.TempDir()},
		Reports: config.ReportConfig{
			Dir:       filepath.Join(t.TempDir(), "reports"),
			Index:     config.ReportIndexSQLite,
			SQLiteDSN: filepath.Join(t.TempDir(), "idx.db"),
		},
		Engine:   config.EngineConfig{Seed: 5},
		Enricher: config.EnricherConfig{Mode: config.EnricherRegex},
	}
	a, err := New(cfg, logger.Nop())
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Knowledge.Degraded())
	res, err := a.Engine.Run(context.Background(), "Shared tractors for farmers")
	require.NoError(t, err)
	assert.True(t, res.KnowledgeDegraded)
	assert.Equal(t, "Generic Incumbent", res.CompetitorMap.Competitors[0].Name)
}
