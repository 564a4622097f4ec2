package simulation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/idea-simulation-engine/internal/enrich"
	"github.com/joelkehle/idea-simulation-engine/internal/knowledge"
)

func TestClassifyRejectsBlankText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := Classify(context.Background(), text, nil, nil, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput), "text %q", text)
	}
}

func TestClassifyTelemedicineFallsBackToTechSaaS(t *testing.T) {
	kb := shippedKB(t)
	dna, err := Classify(context.Background(), "A vernacular telemedicine app connecting rural patients with city specialists", nil, kb.Personas, nil)
	require.NoError(t, err)
	assert.Equal(t, DomainTechSaaS, dna.Domain)
	assert.Equal(t, "General User", dna.TargetUser)
	assert.Equal(t, "enable", dna.Action)
	assert.False(t, dna.IsB2B)
	assert.Equal(t, "regex", dna.Enricher)
}

func TestClassifyDomainPriority(t *testing.T) {
	cases := map[string]Domain{
		"Healthy food boxes for offices":          DomainFood,
		"A health tracker for runners":            DomainHealth,
		"A retail shop locator":                   DomainRetail,
		"Personal finance coach":                  DomainFinTech,
		"Learn coding in Tamil":                   DomainEdTech,
		"An education marketplace":                DomainEdTech,
		"A remote work productivity suite":        DomainTechSaaS,
		"Finance and health for shop owners":      DomainHealth,
		"Food, finance and education, all-in-one": DomainFood,
	}
	for text, want := range cases {
		dna, err := Classify(context.Background(), text, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, want, dna.Domain, text)
	}
}

func TestClassifyKeywordOverrides(t *testing.T) {
	cases := []struct {
		text   string
		target string
		b2b    bool
	}{
		{"A cybersecurity compliance checker for Indian SMEs", "Small Business Owner", true},
		{"Crop insurance for every farmer in Vidarbha", "Farmer", false},
		{"Scheduling for doctor clinics", "Doctor", false},
		{"Notes sharing for students and businesses", "Student", true},
		{"Procurement analytics for enterprise buyers", "enterprise buyers", true},
		{"Pet food for cats", "cats", false},
		{"Shift planner for Nurses to swap rotas", "Nurses", false},
	}
	for _, tc := range cases {
		dna, err := Classify(context.Background(), tc.text, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.target, dna.TargetUser, tc.text)
		assert.Equal(t, tc.b2b, dna.IsB2B, tc.text)
	}
}

func TestClassifyPersonaCatalogOverride(t *testing.T) {
	personas := []knowledge.Persona{
		persona("p1", "", "", "Elite", 10),
		persona("p2", "Rajesh Gupta", "Small Business Owner", "Middle Class", 52),
		persona("p3", "Kavya Iyer", "Student", "Aspirers", 76),
	}

	byName, err := Classify(context.Background(), "An invoicing app Rajesh would use daily", nil, personas, nil)
	require.NoError(t, err)
	assert.Equal(t, "Small Business Owner", byName.TargetUser)
	assert.True(t, byName.IsB2B)

	byType, err := Classify(context.Background(), "Flashcards for every student", nil, personas, nil)
	require.NoError(t, err)
	assert.Equal(t, "Student", byType.TargetUser)
	assert.False(t, byType.IsB2B)
}

func TestClassifyUsesEnricherOnlyForActionAndTarget(t *testing.T) {
	text := "A diet planning app customized for Indian vegetarian cuisines"
	plain, err := Classify(context.Background(), text, nil, nil, nil)
	require.NoError(t, err)

	stub := stubEnricher{out: enrich.Enrichment{Action: "customize", TargetUser: "business people"}}
	enriched, err := Classify(context.Background(), text, stub, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "customize", enriched.Action)
	assert.Equal(t, "business people", enriched.TargetUser)
	assert.Equal(t, "stub", enriched.Enricher)
	assert.Equal(t, plain.Domain, enriched.Domain)
	assert.Equal(t, plain.IsB2B, enriched.IsB2B)
}

func TestClassifyFallsBackWhenEnricherFails(t *testing.T) {
	dna, err := Classify(context.Background(), "Meal kits for busy parents to cook faster", stubEnricher{err: errEnricherDown}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "regex", dna.Enricher)
	assert.Equal(t, "busy parents", dna.TargetUser)
	assert.Equal(t, "enable", dna.Action)
}

func TestClassifyAlwaysReturnsKnownDomain(t *testing.T) {
	kb := shippedKB(t)
	known := map[Domain]bool{}
	for d := range domainKeys {
		known[d] = true
	}
	for _, industry := range kb.Ideas.Industries() {
		ideas, err := kb.Ideas.Lookup(industry)
		require.NoError(t, err)
		for _, idea := range ideas {
			dna, err := Classify(context.Background(), idea, nil, kb.Personas, nil)
			require.NoError(t, err)
			assert.True(t, known[dna.Domain], idea)
		}
	}
}
