package simulation

import (
	"github.com/joelkehle/idea-simulation-engine/internal/knowledge"
)

type Domain string

const (
	DomainTechSaaS Domain = "Tech & SaaS"
	DomainFood     Domain = "Food & Hospitality"
	DomainHealth   Domain = "Health & Wellness"
	DomainRetail   Domain = "E-commerce & Retail"
	DomainFinTech  Domain = "FinTech"
	DomainEdTech   Domain = "EdTech"
)

// IdeaDescriptor is the classified "DNA" of an idea. It is not modified
// after classification.
type IdeaDescriptor struct {
	Action       string `json:"action"`
	TargetUser   string `json:"target_user"`
	Domain       Domain `json:"domain"`
	IsB2B        bool   `json:"is_b2b"`
	OriginalText string `json:"original_text"`
	Enricher     string `json:"enricher"`
}

// PersonaSelection is ordered primary, early adopter, economic buyer. The
// early adopter or economic buyer slot is absent when it equals the primary's type.
type PersonaSelection []knowledge.Persona

func (s PersonaSelection) Primary() knowledge.Persona {
	if len(s) == 0 {
		return knowledge.DefaultPersona
	}
	return s[0]
}

type EnvironmentFactors struct {
	Trust           int     `json:"trust"`
	PriceFit        int     `json:"price_fit"`
	MarketSize      int     `json:"market_size"`
	DigitalLiteracy int     `json:"digital_literacy"`
	Competition     int     `json:"competition"`
	Infrastructure  int     `json:"infrastructure"`
	AvgScore        float64 `json:"avg_score"`
}

type BlockerType string

const (
	BlockerTrustCollisions  BlockerType = "Trust Collisions"
	BlockerAdoptionFriction BlockerType = "Adoption Friction"
	BlockerPriceMisfits     BlockerType = "Price Misfits"
	BlockerTimingMisfires   BlockerType = "Timing Misfires"
)

// BlockerTypes is the enumeration order; the first maximum wins ties.
var BlockerTypes = []BlockerType{
	BlockerTrustCollisions,
	BlockerAdoptionFriction,
	BlockerPriceMisfits,
	BlockerTimingMisfires,
}

type BlockerAnalysis struct {
	Type            BlockerType `json:"type"`
	Severity        float64     `json:"severity"`
	AffectedPercent int         `json:"affected_percent"`
	Description     string      `json:"description"`
}

type BlockerCount struct {
	Type  BlockerType `json:"type"`
	Count int         `json:"count"`
}

type BlockerReport struct {
	PrimaryBlocker BlockerAnalysis `json:"primary_blocker"`
	Tally          []BlockerCount  `json:"tally"`
	Trials         int             `json:"trials"`
	// AffectedCI95 is the 95% Wilson interval of the primary blocker's hit
	// rate, in percent.
	AffectedCI95 [2]float64 `json:"affected_ci_95"`
}

type CompetitorAnalysis struct {
	Name            string                `json:"name"`
	WeaknessScore   float64               `json:"weakness_score"`
	Exploitability  float64               `json:"exploitability"`
	PrimaryWeakness knowledge.WeaknessKey `json:"primary_weakness"`
	Details         knowledge.Weaknesses  `json:"details"`
}

type CompetitorMap struct {
	Competitors           []CompetitorAnalysis `json:"competitors"`
	MarketSharePotential  int                  `json:"market_share_potential"`
	PrimaryAttackVector   string               `json:"primary_attack_vector"`
	TotalExploitableScore float64              `json:"total_exploitable_score"`
	DomainKey             string               `json:"domain_key"`
	Synthetic             bool                 `json:"synthetic"`
}

type Action struct {
	Description string `json:"description"`
	CostINR     int    `json:"cost_inr"`
	Complexity  int    `json:"complexity"`
}

type NorthStar struct {
	Metric        string `json:"metric"`
	BadgeLevel    int    `json:"badge_level"`
	Justification string `json:"justification"`
}

type MarketEstimate struct {
	TAM         int64 `json:"tam"`
	RPU         int   `json:"rpu"`
	Users       int64 `json:"users"`
	SpendCapINR int   `json:"spend_cap_inr"`
}

// Result is the full output of one simulation run.
type Result struct {
	IdeaDNA              IdeaDescriptor     `json:"idea_dna"`
	Summary              string             `json:"summary"`
	ValueProp            string             `json:"value_prop"`
	NorthStar            NorthStar          `json:"north_star"`
	EnvironmentalFactors EnvironmentFactors `json:"environmental_factors"`
	BlockerAnalysis      BlockerReport      `json:"blocker_analysis"`
	CompetitorMap        CompetitorMap      `json:"competitor_map"`
	UrgentAction         Action             `json:"urgent_action"`
	NextStep             Action             `json:"next_step"`
	PersonaSnapshots     PersonaSelection   `json:"persona_snapshots"`
	Market               MarketEstimate     `json:"market"`
	ReportID             string             `json:"report_id"`
	RunID                string             `json:"run_id"`
	KnowledgeDegraded    bool               `json:"knowledge_degraded"`
	ReportError          string             `json:"report_error,omitempty"`
	ReportData           ReportData         `json:"sim_data_flat"`
}

// ReportData is the flat record the report renderer reads. Every field is
// populated on every code path.
type ReportData struct {
	ReportID            string               `json:"report_id"`
	Date                string               `json:"date"`
	IdeaTitle           string               `json:"idea_title"`
	TargetUser          string               `json:"target_user"`
	TargetUserSegment   string               `json:"target_user_segment"`
	TAM                 int64                `json:"tam"`
	Users               int64                `json:"users"`
	RPU                 int                  `json:"rpu"`
	IncomeLevel         string               `json:"income_level"`
	CompetitorCount     int                  `json:"competitor_count"`
	SimulationRuns      int                  `json:"simulation_runs"`
	BlockerImpactPct    int                  `json:"blocker_impact_pct"`
	MarketTiming        string               `json:"market_timing"`
	InfrastructureScore int                  `json:"infrastructure_score"`
	CompetitionScore    int                  `json:"competition_score"`
	CompetitionDensity  string               `json:"competition_density"`
	KeyGrowthDriver     string               `json:"key_growth_driver"`
	RiskCount           int                  `json:"risk_count"`
	TopRisk             string               `json:"top_risk"`
	TopRiskSeverity     float64              `json:"top_risk_severity"`
	MitigationFocus     string               `json:"mitigation_focus"`
	Mitigation          string               `json:"mitigation"`
	SpendAllocationPct  int                  `json:"spend_allocation_pct"`
	FrictionScore       int                  `json:"friction_score"`
	UrgentAction        Action               `json:"urgent_action"`
	NextStep            Action               `json:"next_step"`
	Domain              string               `json:"domain"`
	MarketGap           string               `json:"market_gap"`
	Competitors         []CompetitorAnalysis `json:"competitors"`
	CapturePotential    int                  `json:"capture_potential"`
	AttackVector        string               `json:"attack_vector"`
	PrimaryBlocker      string               `json:"primary_blocker"`
	BlockerSeverity     float64              `json:"blocker_severity"`
	Revenue             string               `json:"revenue"`
	ConservativeRevenue string               `json:"conservative_revenue"`
	BlueSkyRevenue      string               `json:"blue_sky_revenue"`

	ValueProp         string                      `json:"value_prop"`
	IsB2B             bool                        `json:"is_b2b"`
	Personas          []knowledge.Persona         `json:"personas"`
	MitigationOptions []string                    `json:"mitigation_options"`
	SpendCapINR       int                         `json:"spend_cap_inr"`
	Benchmark         knowledge.IndustryBenchmark `json:"benchmark"`
	BlockerCI95       [2]float64                  `json:"blocker_ci_95"`
	BlockerTally      []BlockerCount              `json:"blocker_tally"`
	NorthStar         NorthStar                   `json:"north_star"`
	KnowledgeDegraded bool                        `json:"knowledge_degraded"`
}
