package simulation

import (
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/joelkehle/idea-simulation-engine/internal/knowledge"
)

const (
	fallbackDomainKey    = "tech_saas"
	maxCompetitors       = 3
	maxMarketShare       = 85
	shareScale           = 2.5
	studentPricingImpact = 1.5
	studentPricingFloor  = 6
)

var domainKeys = map[Domain]string{
	DomainTechSaaS: "tech_saas",
	DomainFood:     "food_hospitality",
	DomainEdTech:   "edtech",
	DomainFinTech:  "fintech",
	DomainHealth:   "health_wellness",
	DomainRetail:   "retail_ecommerce",
}

var attackVectors = map[knowledge.WeaknessKey]string{
	knowledge.WeaknessPricing:  "Disruptive Pricing Model (Undercut by 20%)",
	knowledge.WeaknessFeatures: "Niche Feature Specialization",
	knowledge.WeaknessUX:       "Radical Simplicity & Design First",
	knowledge.WeaknessCoverage: "Hyper-local / Vertical Focus",
}

func DomainKey(d Domain) string {
	if k, ok := domainKeys[d]; ok {
		return k
	}
	return fallbackDomainKey
}

// AnalyzeCompetitors scores up to three catalog competitors for the idea's
// domain, falling back to tech_saas and then to a synthetic incumbent.
func AnalyzeCompetitors(dna IdeaDescriptor, catalog map[string][]knowledge.CompetitorRecord) CompetitorMap {
	key := DomainKey(dna.Domain)
	records := catalog[key]
	if len(records) == 0 {
		records = catalog[fallbackDomainKey]
	}
	synthetic := false
	if len(records) == 0 {
		records = []knowledge.CompetitorRecord{knowledge.GenericIncumbent}
		synthetic = true
	}
	if len(records) > maxCompetitors {
		records = records[:maxCompetitors]
	}

	student := strings.Contains(dna.TargetUser, "Student")
	out := CompetitorMap{DomainKey: key, Synthetic: synthetic}
	var total float64
	votes := make(map[knowledge.WeaknessKey]int, len(knowledge.WeaknessKeys))
	for _, rec := range records {
		a := analyzeCompetitor(rec, student)
		total += a.Exploitability
		votes[a.PrimaryWeakness]++
		out.Competitors = append(out.Competitors, roundAnalysis(a))
	}

	share := int(math.Round(total * shareScale))
	out.MarketSharePotential = min(max(share, 0), maxMarketShare)
	out.TotalExploitableScore = round1(total)

	vector := knowledge.WeaknessKeys[0]
	for _, k := range knowledge.WeaknessKeys {
		if votes[k] > votes[vector] {
			vector = k
		}
	}
	out.PrimaryAttackVector = attackVectors[vector]
	return out
}

func analyzeCompetitor(rec knowledge.CompetitorRecord, student bool) CompetitorAnalysis {
	w := rec.Weaknesses
	scores := make(stats.Float64Data, 0, len(knowledge.WeaknessKeys))
	primary := knowledge.WeaknessKeys[0]
	for _, k := range knowledge.WeaknessKeys {
		s := w.Get(k).Score
		scores = append(scores, float64(s))
		if s > w.Get(primary).Score {
			primary = k
		}
	}
	avg, _ := stats.Mean(scores)

	impact := 1.0
	if student && w.Pricing.Score > studentPricingFloor {
		impact = studentPricingImpact
	}
	return CompetitorAnalysis{
		Name:            rec.Name,
		WeaknessScore:   avg,
		Exploitability:  avg * impact,
		PrimaryWeakness: primary,
		Details:         w,
	}
}

func roundAnalysis(a CompetitorAnalysis) CompetitorAnalysis {
	a.WeaknessScore = round1(a.WeaknessScore)
	a.Exploitability = round1(a.Exploitability)
	return a
}

// round1 rounds to one decimal with ties to even, so a 6.25 mean reports
// as 6.2 and a 6.75 mean as 6.8.
func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
