package simulation

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/joelkehle/idea-simulation-engine/internal/knowledge"
)

const (
	tamB2B      int64 = 8_000_000
	tamStudent  int64 = 40_000_000
	tamBaseline int64 = 50_000_000

	rpuHigh     = 1500
	rpuDeprived = 50
	rpuDefault  = 500

	adoptionRate = 0.05

	notModelled = "N/A"
)

var (
	urgentAction = Action{Description: "Launch Pilot Program", CostINR: 50000, Complexity: 2}
	nextStep     = Action{Description: "Scale Partnerships", CostINR: 200000, Complexity: 3}
	northStar    = NorthStar{Metric: "Competitor Disruption Score", BadgeLevel: 5, Justification: "Market Share Velocity"}
)

// Assembly collects every stage output plus the run's identifiers and the
// knowledge lookups the report needs.
type Assembly struct {
	DNA         IdeaDescriptor
	Personas    PersonaSelection
	Env         EnvironmentFactors
	Blockers    BlockerReport
	Competitors CompetitorMap

	ReportID string
	RunID    string
	Now      time.Time

	SpendCapINR       int
	Benchmark         knowledge.IndustryBenchmark
	MitigationOptions []string
	KnowledgeDegraded bool
}

// NewReportID returns SIM_ plus the first 8 uppercase hex chars of an MD5 of
// the wall-clock time. Collisions are possible.
func NewReportID(t time.Time) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%.6f", float64(t.UnixNano())/1e9)))
	return "SIM_" + strings.ToUpper(hex.EncodeToString(sum[:])[:8])
}

func EstimateMarket(dna IdeaDescriptor, incomeLevel string, sharePotential int) MarketEstimate {
	tam := tamBaseline
	switch {
	case dna.IsB2B:
		tam = tamB2B
	case strings.Contains(dna.TargetUser, "Student"):
		tam = tamStudent
	}
	rpu := rpuDefault
	switch {
	case strings.Contains(incomeLevel, "High"), strings.Contains(incomeLevel, "Affluent"):
		rpu = rpuHigh
	case strings.Contains(incomeLevel, "Deprived"):
		rpu = rpuDeprived
	}
	users := int64(float64(tam) * adoptionRate * (float64(sharePotential) / 100))
	return MarketEstimate{TAM: tam, RPU: rpu, Users: users}
}

func Assemble(in Assembly) Result {
	primary := in.Personas.Primary()
	market := EstimateMarket(in.DNA, primary.IncomeLevel, in.Competitors.MarketSharePotential)
	market.SpendCapINR = in.SpendCapINR
	blocker := in.Blockers.PrimaryBlocker

	personas := make([]knowledge.Persona, len(in.Personas))
	copy(personas, in.Personas)
	competitors := make([]CompetitorAnalysis, len(in.Competitors.Competitors))
	copy(competitors, in.Competitors.Competitors)
	mitigations := append([]string{}, in.MitigationOptions...)
	tally := append([]BlockerCount{}, in.Blockers.Tally...)

	valueProp := fmt.Sprintf("%s solution for %s.", capitalize(in.DNA.Action), in.DNA.TargetUser)

	flat := ReportData{
		ReportID:            in.ReportID,
		Date:                in.Now.Format("2006-01-02"),
		IdeaTitle:           in.DNA.OriginalText,
		TargetUser:          in.DNA.TargetUser,
		TargetUserSegment:   primary.Name,
		TAM:                 market.TAM,
		Users:               market.Users,
		RPU:                 market.RPU,
		IncomeLevel:         primary.IncomeLevel,
		CompetitorCount:     12,
		SimulationRuns:      in.Blockers.Trials,
		BlockerImpactPct:    blocker.AffectedPercent,
		MarketTiming:        "Opportunistic",
		InfrastructureScore: in.Env.Infrastructure,
		CompetitionScore:    in.Env.Competition,
		CompetitionDensity:  "Fragmented",
		KeyGrowthDriver:     "Community Referrals",
		RiskCount:           3,
		TopRisk:             string(blocker.Type),
		TopRiskSeverity:     blocker.Severity,
		MitigationFocus:     "Trust & Transparency",
		Mitigation:          "Bite-sized trials and testimonials.",
		SpendAllocationPct:  15,
		FrictionScore:       int(in.Env.AvgScore),
		UrgentAction:        urgentAction,
		NextStep:            nextStep,
		Domain:              string(in.DNA.Domain),
		MarketGap:           in.Competitors.PrimaryAttackVector,
		Competitors:         competitors,
		CapturePotential:    in.Competitors.MarketSharePotential,
		AttackVector:        in.Competitors.PrimaryAttackVector,
		PrimaryBlocker:      string(blocker.Type),
		BlockerSeverity:     blocker.Severity,
		Revenue:             notModelled,
		ConservativeRevenue: notModelled,
		BlueSkyRevenue:      notModelled,

		ValueProp:         valueProp,
		IsB2B:             in.DNA.IsB2B,
		Personas:          personas,
		MitigationOptions: mitigations,
		SpendCapINR:       in.SpendCapINR,
		Benchmark:         in.Benchmark,
		BlockerCI95:       in.Blockers.AffectedCI95,
		BlockerTally:      tally,
		NorthStar:         northStar,
		KnowledgeDegraded: in.KnowledgeDegraded,
	}

	return Result{
		IdeaDNA:              in.DNA,
		Summary:              fmt.Sprintf("Competitive Analysis for %s in %s.", in.DNA.TargetUser, in.DNA.Domain),
		ValueProp:            valueProp,
		NorthStar:            northStar,
		EnvironmentalFactors: in.Env,
		BlockerAnalysis:      in.Blockers,
		CompetitorMap:        in.Competitors,
		UrgentAction:         urgentAction,
		NextStep:             nextStep,
		PersonaSnapshots:     in.Personas,
		Market:               market,
		ReportID:             in.ReportID,
		RunID:                in.RunID,
		KnowledgeDegraded:    in.KnowledgeDegraded,
		ReportData:           flat,
	}
}

func capitalize(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
