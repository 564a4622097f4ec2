package report

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/joelkehle/idea-simulation-engine/internal/knowledge"
	"github.com/joelkehle/idea-simulation-engine/internal/simulation"
)

// MinFindingsWords is the length the findings section is padded up to.
const MinFindingsWords = 600

const (
	headingMethodology = "Research Methodology"
	headingFindings    = "Detailed Analysis Findings"
	headingCompetitors = "Competitor Weakness Map"
	headingRisk        = "Risk Analysis & Action Plan"
	headingMarket      = "Market Context"
)

// BuildMarkdown renders the narrative report for one run. chartPNG is
// embedded as an image when non-empty.
func BuildMarkdown(d simulation.ReportData, chartPNG []byte) string {
	var b strings.Builder

	writeCover(&b, d)
	writeMethodology(&b, d)

	fmt.Fprintf(&b, "## %s\n\n", headingFindings)
	b.WriteString(Findings(d))
	b.WriteString("\n\n")

	writeCompetitorMap(&b, d, chartPNG)
	writeRiskPlan(&b, d)
	writeMarketContext(&b, d)
	return b.String()
}

func writeCover(b *strings.Builder, d simulation.ReportData) {
	b.WriteString("# IDEA SIMULATION ENGINE\n\n")
	b.WriteString("**COMPREHENSIVE ANALYSIS REPORT**\n\n")
	fmt.Fprintf(b, "- **Idea:** %s\n", sanitize(d.IdeaTitle))
	fmt.Fprintf(b, "- **Date:** %s\n", d.Date)
	fmt.Fprintf(b, "- **Report ID:** %s\n", d.ReportID)
	fmt.Fprintf(b, "- **Value Proposition:** %s\n", sanitize(d.ValueProp))
	if d.KnowledgeDegraded {
		b.WriteString("\n> Some knowledge tables failed to load. Figures marked as estimates use built-in defaults.\n")
	}
	b.WriteString("\n")
}

func writeMethodology(b *strings.Builder, d simulation.ReportData) {
	fmt.Fprintf(b, "## %s\n\n", headingMethodology)
	fmt.Fprintf(b, "- **Market Size:** census-style population segments put the addressable base at %s users.\n", fmtINR(d.TAM))
	fmt.Fprintf(b, "- **Pricing Logic:** %s price points, capped for the %s income band (INR %s per month).\n",
		d.Domain, d.IncomeLevel, fmtINR(int64(d.SpendCapINR)))
	fmt.Fprintf(b, "- **Adoption Modeling:** conversion between 0.05%% and 0.2%%, scaled by a friction score of %d/100.\n", d.FrictionScore)
	fmt.Fprintf(b, "- **Risk Simulation:** %s Monte Carlo trials locate the main failure point: %s.\n",
		fmtINR(int64(d.SimulationRuns)), d.PrimaryBlocker)
	b.WriteString("- **Financial Sanity:** revenue projections are withheld until real pilot data exists.\n\n")
}

// Findings returns the prose findings, padded with supporting sections until
// it reaches MinFindingsWords.
func Findings(d simulation.ReportData) string {
	lead := leadCompetitor(d)
	var b strings.Builder

	fmt.Fprintf(&b, "The concept \"%s\" targets the %s segment, represented here by %s. "+
		"The simulation puts the serviceable opportunity at roughly %s users once competition from about %d established players is accounted for. "+
		"The clearest opening is %s, which supports a capture potential of %d%% of the share held by current incumbents. "+
		"The recommended line of attack is %s.\n\n",
		sanitize(d.IdeaTitle), sanitize(d.TargetUser), sanitize(d.TargetUserSegment),
		fmtINR(d.Users), d.CompetitorCount, d.MarketGap, d.CapturePotential, d.AttackVector)

	fmt.Fprintf(&b, "Customers in the %s band are price sensitive and compare every subscription against what they already pay for. "+
		"Market timing is %s. Infrastructure readiness scores %d/100, so delivery and payments are unlikely to be the bottleneck, "+
		"while a competition score of %d/100 describes a %s field where no single player owns the customer relationship. "+
		"The most exposed incumbent, %s, is weakest on %s, and that gap can be turned into a positioning message from day one.\n\n",
		d.IncomeLevel, strings.ToLower(d.MarketTiming), d.InfrastructureScore, d.CompetitionScore,
		strings.ToLower(d.CompetitionDensity), lead.Name, weaknessLabel(lead.PrimaryWeakness))

	fmt.Fprintf(&b, "The adoption trials surfaced %d material risks. The most severe is %s at %s/10, "+
		"which blocks %d%% of simulated users before they reach a paid plan. "+
		"Mitigation should centre on %s, growth is expected to come mainly from %s, "+
		"and the first move is to %s, followed by an effort to %s once the pilot shows retention.\n",
		d.RiskCount, d.TopRisk, fmtScore(d.TopRiskSeverity), d.BlockerImpactPct,
		strings.ToLower(d.MitigationFocus), strings.ToLower(d.KeyGrowthDriver),
		strings.ToLower(d.UrgentAction.Description), strings.ToLower(d.NextStep.Description))

	for _, s := range paddingSections(d, lead) {
		if wordCount(b.String()) >= MinFindingsWords {
			break
		}
		fmt.Fprintf(&b, "\n### %s\n\n%s\n", s.title, s.body)
	}
	return strings.TrimSpace(b.String())
}

type section struct {
	title string
	body  string
}

func paddingSections(d simulation.ReportData, lead simulation.CompetitorAnalysis) []section {
	return []section{
		{"Detailed Competitive Considerations", fmt.Sprintf(
			"%s carries an exploitability rating of %s, which makes it the natural benchmark for messaging. "+
				"Incumbents in %s tend to respond to new entrants with discounts rather than product changes, "+
				"so differentiation should rest on experience and reach instead of price alone. "+
				"Tracking their release notes, pricing pages and app store reviews every month keeps the positioning current "+
				"and shows early when a competitor starts closing the gap.",
			lead.Name, fmtScore(lead.Exploitability), d.Domain)},
		{"Seasonal and Cultural Factors", "Demand in India moves with the festival calendar, exam seasons and harvest cycles. " +
			"Launch campaigns timed around these windows convert better, and vernacular content widens reach beyond metro audiences. " +
			"Family and community recommendations carry more weight than paid advertising in most segments, " +
			"which is why referral mechanics belong in the first release rather than a later growth phase. " +
			"Regional language support also signals commitment to customers who are used to being an afterthought."},
		{"Infrastructure and Logistics", fmt.Sprintf(
			"With infrastructure readiness at %d/100, UPI payments and smartphone access can be assumed for most of the target segment. "+
				"Tier-2 and tier-3 cities still see patchy connectivity, so the product should degrade gracefully on slow networks and support offline use where possible. "+
				"Low-end Android devices dominate outside the metros, which puts a premium on small install sizes and modest memory use. "+
				"Where physical fulfilment is involved, local partners usually beat national carriers on cost and reliability.",
			d.InfrastructureScore)},
		{"Regulatory Landscape", "The Digital Personal Data Protection Act sets consent and storage obligations for any product that handles personal data. " +
			"Sector regulators add their own rules for payments, health records and education services. " +
			"Budget for a compliance review before the pilot collects real user data, and keep a clear record of what is collected and why. " +
			"Early attention to consent flows also builds the trust that first-time digital users look for."},
		{"Capital Efficiency", fmt.Sprintf(
			"The immediate action needs about INR %s and the follow-on step about INR %s. "+
				"Keeping spend at roughly %d%% of the budget for acquisition until retention is proven protects runway, "+
				"and the typical acquisition cost in this sector (INR %s) is a useful ceiling for early experiments. "+
				"Customers in this segment can spend up to INR %s a month, so pricing above that cap should be treated as a premium tier rather than the default plan.",
			fmtINR(int64(d.UrgentAction.CostINR)), fmtINR(int64(d.NextStep.CostINR)), d.SpendAllocationPct,
			fmtINR(int64(d.Benchmark.AvgCACINR)), fmtINR(int64(d.SpendCapINR)))},
		{"Go-to-Market Sequencing", "Start with a single city or community where word of mouth travels quickly and support can be delivered in person. " +
			"Use the pilot to measure activation, weekly usage and the share of users who invite someone else. " +
			"Expand to neighbouring regions only once these numbers hold for two consecutive months, " +
			"and bring in distribution partners when the playbook is repeatable enough to hand over."},
		{"Strategic Outlook", fmt.Sprintf(
			"If the pilot addresses %s convincingly, the path to the projected %s users is open. "+
				"The north star to watch is %s, reviewed weekly against the pilot cohort, "+
				"with the first expansion decision taken only after three months of stable retention. "+
				"The figures in this report are simulated estimates and should be replaced with observed data as soon as the pilot produces it.",
			d.TopRisk, fmtINR(d.Users), d.NorthStar.Metric)},
	}
}

func writeCompetitorMap(b *strings.Builder, d simulation.ReportData, chartPNG []byte) {
	fmt.Fprintf(b, "## %s\n\n", headingCompetitors)
	fmt.Fprintf(b, "### Primary Attack Vector: %s\n\n", sanitize(d.MarketGap))
	fmt.Fprintf(b, "Capture Potential: %d%% of competitor market share.\n\n", d.CapturePotential)

	b.WriteString("| Competitor | Weakness Score | Primary Weakness | Exploitability |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, c := range d.Competitors {
		fmt.Fprintf(b, "| %s | %s/10 | %s | %s |\n",
			sanitizeCell(c.Name), fmtScore(c.WeaknessScore), weaknessLabel(c.PrimaryWeakness), fmtScore(c.Exploitability))
	}
	b.WriteString("\n")

	if len(chartPNG) > 0 {
		fmt.Fprintf(b, "![Competitor exploitability](data:image/png;base64,%s)\n\n", base64.StdEncoding.EncodeToString(chartPNG))
	}

	lead := leadCompetitor(d)
	b.WriteString("### Strategic Recommendation\n\n")
	fmt.Fprintf(b, "To exploit the gap in **%s**, position the product directly against %s. "+
		"Its weakness in %s is the entry point with the best return.\n\n",
		sanitize(d.AttackVector), lead.Name, strings.ToLower(weaknessLabel(lead.PrimaryWeakness)))
}

func writeRiskPlan(b *strings.Builder, d simulation.ReportData) {
	fmt.Fprintf(b, "## %s\n\n", headingRisk)
	fmt.Fprintf(b, "### Primary Risk: %s\n\n", d.TopRisk)
	fmt.Fprintf(b, "Severity: %s/10 | Impact: %d%% of funnel (95%% interval %s%% to %s%%).\n\n",
		fmtScore(d.TopRiskSeverity), d.BlockerImpactPct, fmtScore(d.BlockerCI95[0]), fmtScore(d.BlockerCI95[1]))
	fmt.Fprintf(b, "*Mitigation: %s*\n\n", sanitize(d.Mitigation))

	if len(d.MitigationOptions) > 0 {
		b.WriteString("Playbook options:\n\n")
		for _, opt := range d.MitigationOptions {
			fmt.Fprintf(b, "- %s\n", sanitize(opt))
		}
		b.WriteString("\n")
	}

	if len(d.BlockerTally) > 0 {
		b.WriteString("| Blocker | Trials Hit |\n|---|---|\n")
		for _, t := range d.BlockerTally {
			fmt.Fprintf(b, "| %s | %d |\n", t.Type, t.Count)
		}
		b.WriteString("\n")
	}

	b.WriteString("### Recommended Actions\n\n")
	fmt.Fprintf(b, "1. **Immediate (2 Weeks):** %s (Cost: INR %s)\n", d.UrgentAction.Description, fmtINR(int64(d.UrgentAction.CostINR)))
	fmt.Fprintf(b, "2. **Next Step (3 Months):** %s (Cost: INR %s)\n\n", d.NextStep.Description, fmtINR(int64(d.NextStep.CostINR)))
}

func writeMarketContext(b *strings.Builder, d simulation.ReportData) {
	fmt.Fprintf(b, "## %s\n\n", headingMarket)
	b.WriteString("| Measure | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| Total addressable market | %s |\n", fmtINR(d.TAM))
	fmt.Fprintf(b, "| Projected users | %s |\n", fmtINR(d.Users))
	fmt.Fprintf(b, "| Revenue per user (INR) | %s |\n", fmtINR(int64(d.RPU)))
	fmt.Fprintf(b, "| Monthly spend cap (INR) | %s |\n", fmtINR(int64(d.SpendCapINR)))
	fmt.Fprintf(b, "| Business model | %s |\n", businessModel(d.IsB2B))
	if d.Benchmark != (knowledge.IndustryBenchmark{}) {
		fmt.Fprintf(b, "| Sector CAC (INR) | %s |\n", fmtINR(int64(d.Benchmark.AvgCACINR)))
		fmt.Fprintf(b, "| Sector conversion | %s%% |\n", fmtScore(d.Benchmark.ConversionRatePct))
		fmt.Fprintf(b, "| Sector monthly churn | %s%% |\n", fmtScore(d.Benchmark.MonthlyChurnPct))
	}
	fmt.Fprintf(b, "| North star | %s (badge %d) |\n", sanitizeCell(d.NorthStar.Metric), d.NorthStar.BadgeLevel)
	b.WriteString("\n")

	if len(d.Personas) > 0 {
		b.WriteString("| Persona | Type | Income | Digital Literacy |\n|---|---|---|---|\n")
		for _, p := range d.Personas {
			fmt.Fprintf(b, "| %s | %s | %s | %d/100 |\n", sanitizeCell(p.Name), sanitizeCell(p.Type), sanitizeCell(p.IncomeLevel), p.DigitalLiteracy)
		}
		b.WriteString("\n")
	}
}

func leadCompetitor(d simulation.ReportData) simulation.CompetitorAnalysis {
	if len(d.Competitors) == 0 {
		return simulation.CompetitorAnalysis{Name: "the leading incumbent", PrimaryWeakness: knowledge.WeaknessPricing}
	}
	return d.Competitors[0]
}

func businessModel(b2b bool) string {
	if b2b {
		return "B2B"
	}
	return "B2C"
}

func weaknessLabel(k knowledge.WeaknessKey) string {
	switch k {
	case knowledge.WeaknessUX:
		return "UX"
	case "":
		return "Unknown"
	default:
		s := string(k)
		return strings.ToUpper(s[:1]) + s[1:]
	}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func sanitize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

// sanitizeCell also escapes pipes so the value cannot split a table column.
func sanitizeCell(s string) string {
	return strings.ReplaceAll(sanitize(s), "|", "\\|")
}

func fmtScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fmtINR groups digits in thousands (e.g. 40000000 → "40,000,000").
func fmtINR(n int64) string {
	if n < 0 {
		return "-" + fmtINR(-n)
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	rem := len(s) % 3
	if rem > 0 {
		b.WriteString(s[:rem])
	}
	for i := rem; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
