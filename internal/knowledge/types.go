package knowledge

// Persona is a canned archetype for a class of target user, buyer or early adopter.
type Persona struct {
	ID              string `yaml:"id" json:"id"`
	Name            string `yaml:"name" json:"name"`
	Type            string `yaml:"type" json:"type"`
	IncomeLevel     string `yaml:"income_level" json:"income_level"`
	DigitalLiteracy int    `yaml:"digital_literacy" json:"digital_literacy"`
	AgeBand         string `yaml:"age_band,omitempty" json:"age_band,omitempty"`
	Location        string `yaml:"location,omitempty" json:"location,omitempty"`
	Description     string `yaml:"description,omitempty" json:"description,omitempty"`
}

type WeaknessKey string

const (
	WeaknessPricing  WeaknessKey = "pricing"
	WeaknessFeatures WeaknessKey = "features"
	WeaknessUX       WeaknessKey = "ux"
	WeaknessCoverage WeaknessKey = "coverage"
)

// WeaknessKeys is the fixed iteration order used for every tie-break.
var WeaknessKeys = []WeaknessKey{WeaknessPricing, WeaknessFeatures, WeaknessUX, WeaknessCoverage}

type WeaknessDetail struct {
	Score       int    `yaml:"score" json:"score"`
	Description string `yaml:"desc" json:"desc"`
}

type Weaknesses struct {
	Pricing  WeaknessDetail `yaml:"pricing" json:"pricing"`
	Features WeaknessDetail `yaml:"features" json:"features"`
	UX       WeaknessDetail `yaml:"ux" json:"ux"`
	Coverage WeaknessDetail `yaml:"coverage" json:"coverage"`
}

func (w Weaknesses) Get(key WeaknessKey) WeaknessDetail {
	switch key {
	case WeaknessPricing:
		return w.Pricing
	case WeaknessFeatures:
		return w.Features
	case WeaknessUX:
		return w.UX
	case WeaknessCoverage:
		return w.Coverage
	default:
		return WeaknessDetail{}
	}
}

type CompetitorRecord struct {
	Name       string     `yaml:"name" json:"name"`
	Weaknesses Weaknesses `yaml:"weaknesses" json:"weaknesses"`
}

type DemographicSegment struct {
	Name        string  `yaml:"name" json:"name"`
	IncomeLevel string  `yaml:"income_level" json:"income_level"`
	Population  int64   `yaml:"population" json:"population"`
	UrbanShare  float64 `yaml:"urban_share" json:"urban_share"`
}

type IndustryBenchmark struct {
	AvgCACINR         int     `yaml:"avg_cac_inr" json:"avg_cac_inr"`
	ConversionRatePct float64 `yaml:"conversion_rate_pct" json:"conversion_rate_pct"`
	MonthlyChurnPct   float64 `yaml:"monthly_churn_pct" json:"monthly_churn_pct"`
}

// Table names double as file basenames under the knowledge directory.
const (
	TableDemographics   = "indian_demographics"
	TableBenchmarks     = "industry_benchmarks"
	TableInfrastructure = "infrastructure_readiness"
	TablePersonas       = "persona_library"
	TableSolutions      = "solution_templates"
	TableIncomeCaps     = "income_spend_caps"
	TableCompetitors    = "competitor_database"
	TableIndustryIdeas  = "industry_ideas"
)

var Tables = []string{
	TableDemographics,
	TableBenchmarks,
	TableInfrastructure,
	TablePersonas,
	TableSolutions,
	TableIncomeCaps,
	TableCompetitors,
	TableIndustryIdeas,
}
