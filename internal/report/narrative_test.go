package report

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/idea-simulation-engine/internal/knowledge"
	"github.com/joelkehle/idea-simulation-engine/internal/simulation"
)

func runEngine(t *testing.T, kb *knowledge.Base, idea string) simulation.ReportData {
	t.Helper()
	res, err := simulation.NewEngine(kb, simulation.WithRandom(simulation.NewRandomSource(7))).Run(context.Background(), idea)
	require.NoError(t, err)
	return res.ReportData
}

func shippedKB(t *testing.T) *knowledge.Base {
	t.Helper()
	kb, err := knowledge.Load("", nil)
	require.NoError(t, err)
	return kb
}

func TestReportFieldsPresentOnEveryPath(t *testing.T) {
	empty, _ := knowledge.LoadFS(fstest.MapFS{}, "empty", nil)
	cases := []struct {
		name string
		kb   *knowledge.Base
		idea string
		b2b  bool
	}{
		{"b2b matched catalog", shippedKB(t), "A cybersecurity compliance checker for Indian SMEs", true},
		{"b2c matched persona", shippedKB(t), "Flashcards for every student", false},
		{"unmatched persona", shippedKB(t), "A vernacular telemedicine app connecting rural patients with city specialists", false},
		{"empty catalogs b2b", empty, "Payroll for small business owners", true},
		{"empty catalogs b2c", empty, "Shared tractors for farmers", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := runEngine(t, tc.kb, tc.idea)
			assert.Equal(t, tc.b2b, d.IsB2B)
			assert.Empty(t, MissingFields(d))

			md := BuildMarkdown(d, nil)
			for _, h := range []string{headingMethodology, headingFindings, headingCompetitors, headingRisk, headingMarket} {
				assert.Contains(t, md, "## "+h)
			}
			assert.Contains(t, md, d.ReportID)
			assert.Contains(t, md, d.Competitors[0].Name)
		})
	}
}

func TestMissingFieldsNamesEmptyFields(t *testing.T) {
	missing := MissingFields(simulation.ReportData{ReportID: "SIM_1"})
	assert.Contains(t, missing, "idea_title")
	assert.Contains(t, missing, "competitors")
	assert.Contains(t, missing, "mitigation_options")
	assert.NotContains(t, missing, "report_id")
}

func TestFindingsPaddedToMinimumLength(t *testing.T) {
	d := runEngine(t, shippedKB(t), "Pet food for cats")
	findings := Findings(d)
	assert.GreaterOrEqual(t, wordCount(findings), MinFindingsWords)
	assert.Contains(t, findings, "### Detailed Competitive Considerations")
	assert.Contains(t, findings, "Pet food for cats")
}

func TestBuildMarkdownActionCostsAndTable(t *testing.T) {
	d := runEngine(t, shippedKB(t), "A diet planning app customized for Indian vegetarian cuisines")
	d.Competitors[0].Name = "Pipe | Co"
	md := BuildMarkdown(d, []byte{0x89, 'P', 'N', 'G'})

	assert.Contains(t, md, "1. **Immediate (2 Weeks):** Launch Pilot Program (Cost: INR 50,000)")
	assert.Contains(t, md, "2. **Next Step (3 Months):** Scale Partnerships (Cost: INR 200,000)")
	assert.Contains(t, md, "| Pipe \\| Co |")
	assert.Contains(t, md, "![Competitor exploitability](data:image/png;base64,")
	assert.Contains(t, md, "Capture Potential: ")
}

func TestBuildMarkdownFlagsDegradedKnowledge(t *testing.T) {
	d := runEngine(t, shippedKB(t), "Pet food for cats")
	assert.NotContains(t, BuildMarkdown(d, nil), "failed to load")
	d.KnowledgeDegraded = true
	assert.Contains(t, BuildMarkdown(d, nil), "failed to load")
}

func TestFmtINR(t *testing.T) {
	cases := map[int64]string{
		0:          "0",
		999:        "999",
		1000:       "1,000",
		50000:      "50,000",
		40_000_000: "40,000,000",
		-1234567:   "-1,234,567",
	}
	for in, want := range cases {
		assert.Equal(t, want, fmtINR(in))
	}
}

func TestWeaknessLabel(t *testing.T) {
	assert.Equal(t, "UX", weaknessLabel(knowledge.WeaknessUX))
	assert.Equal(t, "Pricing", weaknessLabel(knowledge.WeaknessPricing))
	assert.Equal(t, "Unknown", weaknessLabel(""))
	assert.False(t, strings.Contains(sanitize("a\nb"), "\n"))
}
