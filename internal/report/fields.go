package report

import (
	"github.com/joelkehle/idea-simulation-engine/internal/simulation"
)

// MissingFields lists the report fields the narrative needs that are empty.
// Numeric fields are allowed to be zero.
func MissingFields(d simulation.ReportData) []string {
	var missing []string
	check := func(name, v string) {
		if v == "" {
			missing = append(missing, name)
		}
	}
	check("report_id", d.ReportID)
	check("date", d.Date)
	check("idea_title", d.IdeaTitle)
	check("target_user", d.TargetUser)
	check("target_user_segment", d.TargetUserSegment)
	check("income_level", d.IncomeLevel)
	check("market_timing", d.MarketTiming)
	check("competition_density", d.CompetitionDensity)
	check("key_growth_driver", d.KeyGrowthDriver)
	check("top_risk", d.TopRisk)
	check("mitigation_focus", d.MitigationFocus)
	check("mitigation", d.Mitigation)
	check("domain", d.Domain)
	check("market_gap", d.MarketGap)
	check("attack_vector", d.AttackVector)
	check("primary_blocker", d.PrimaryBlocker)
	check("revenue", d.Revenue)
	check("conservative_revenue", d.ConservativeRevenue)
	check("blue_sky_revenue", d.BlueSkyRevenue)
	check("value_prop", d.ValueProp)
	check("urgent_action.description", d.UrgentAction.Description)
	check("next_step.description", d.NextStep.Description)
	check("north_star.metric", d.NorthStar.Metric)
	if len(d.Competitors) == 0 {
		missing = append(missing, "competitors")
	}
	if d.MitigationOptions == nil {
		missing = append(missing, "mitigation_options")
	}
	return missing
}
