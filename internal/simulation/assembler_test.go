package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/idea-simulation-engine/internal/knowledge"
)

func TestNewReportID(t *testing.T) {
	at := time.Unix(1700000000, 123456000)
	id := NewReportID(at)
	assert.Regexp(t, `^SIM_[0-9A-F]{8}$`, id)
	assert.Equal(t, id, NewReportID(at))
	assert.NotEqual(t, id, NewReportID(at.Add(time.Millisecond)))
}

func TestEstimateMarket(t *testing.T) {
	b2b := EstimateMarket(IdeaDescriptor{IsB2B: true, TargetUser: "Student"}, "Affluent", 40)
	assert.Equal(t, int64(8_000_000), b2b.TAM)
	assert.Equal(t, 1500, b2b.RPU)
	assert.Equal(t, int64(160_000), b2b.Users)

	student := EstimateMarket(IdeaDescriptor{TargetUser: "Student"}, "Deprived", 85)
	assert.Equal(t, int64(40_000_000), student.TAM)
	assert.Equal(t, 50, student.RPU)
	assert.Equal(t, int64(1_700_000), student.Users)

	base := EstimateMarket(IdeaDescriptor{TargetUser: "General User"}, "Middle Class", 13)
	assert.Equal(t, int64(50_000_000), base.TAM)
	assert.Equal(t, 500, base.RPU)
	assert.Equal(t, int64(325_000), base.Users)

	high := EstimateMarket(IdeaDescriptor{}, "High Income", 0)
	assert.Equal(t, 1500, high.RPU)
	assert.Zero(t, high.Users)
}

func TestAssembleKeepsNestedAndFlatInSync(t *testing.T) {
	primary := persona("p2", "Kavya Iyer", "Student", "Aspirers", 76)
	in := Assembly{
		DNA:      IdeaDescriptor{Action: "track", TargetUser: "Student", Domain: DomainEdTech, OriginalText: "Exam planner for students"},
		Personas: PersonaSelection{primary, persona("p1", "Aarav Mehta", "Early Adopter", "Affluent", 88)},
		Env:      EnvironmentFactors{Trust: 70, PriceFit: 30, Competition: 60, Infrastructure: 70, AvgScore: 59.75},
		Blockers: BlockerReport{
			PrimaryBlocker: BlockerAnalysis{Type: BlockerPriceMisfits, Severity: 7.1, AffectedPercent: 71, Description: "Value perception mismatch."},
			Tally:          []BlockerCount{{BlockerTrustCollisions, 300}, {BlockerAdoptionFriction, 0}, {BlockerPriceMisfits, 710}, {BlockerTimingMisfires, 0}},
			Trials:         1000,
			AffectedCI95:   [2]float64{68.1, 73.8},
		},
		Competitors: CompetitorMap{
			Competitors:          []CompetitorAnalysis{{Name: "BYJU'S", WeaknessScore: 6.3, Exploitability: 9.4, PrimaryWeakness: knowledge.WeaknessPricing}},
			MarketSharePotential: 24,
			PrimaryAttackVector:  "Disruptive Pricing Model (Undercut by 20%)",
			DomainKey:            "edtech",
		},
		ReportID:          "SIM_ABCDEF12",
		RunID:             "run-1",
		Now:               time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		SpendCapINR:       400,
		MitigationOptions: []string{"Introduce sachet pricing for single uses"},
	}
	res := Assemble(in)
	flat := res.ReportData

	assert.Equal(t, "Track solution for Student.", res.ValueProp)
	assert.Equal(t, res.ValueProp, flat.ValueProp)
	assert.Equal(t, "2025-01-02", flat.Date)
	assert.Equal(t, res.ReportID, flat.ReportID)
	assert.Equal(t, "Kavya Iyer", flat.TargetUserSegment)
	assert.Equal(t, "Aspirers", flat.IncomeLevel)
	assert.Equal(t, res.Market.TAM, flat.TAM)
	assert.Equal(t, int64(40_000_000*0.05*0.24), flat.Users)
	assert.Equal(t, 59, flat.FrictionScore)
	assert.Equal(t, "Price Misfits", flat.TopRisk)
	assert.Equal(t, flat.TopRisk, flat.PrimaryBlocker)
	assert.Equal(t, 7.1, flat.BlockerSeverity)
	assert.Equal(t, 71, flat.BlockerImpactPct)
	assert.Equal(t, 24, flat.CapturePotential)
	assert.Equal(t, flat.AttackVector, flat.MarketGap)
	assert.Equal(t, "N/A", flat.Revenue)
	assert.Equal(t, 12, flat.CompetitorCount)
	assert.Equal(t, 1000, flat.SimulationRuns)
	assert.Equal(t, Action{"Launch Pilot Program", 50000, 2}, flat.UrgentAction)
	assert.Equal(t, Action{"Scale Partnerships", 200000, 3}, flat.NextStep)
	assert.Equal(t, 400, res.Market.SpendCapINR)
	require.Len(t, flat.Personas, 2)

	// the flat record owns its slices
	flat.Competitors[0].Name = "changed"
	assert.Equal(t, "BYJU'S", res.CompetitorMap.Competitors[0].Name)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Enable", capitalize("enable"))
	assert.Equal(t, "Connect", capitalize("CONNECT"))
	assert.Equal(t, "", capitalize(""))
}
