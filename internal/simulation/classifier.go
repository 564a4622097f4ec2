package simulation

import (
	"context"
	"strings"

	"github.com/joelkehle/idea-simulation-engine/internal/apperr"
	"github.com/joelkehle/idea-simulation-engine/internal/enrich"
	"github.com/joelkehle/idea-simulation-engine/internal/knowledge"
	"github.com/joelkehle/idea-simulation-engine/internal/platform/logger"
)

const (
	defaultAction     = "enable"
	defaultTargetUser = "General User"
)

var keywordTargets = []struct {
	keywords []string
	target   string
}{
	{[]string{"student"}, "Student"},
	{[]string{"business", "sme"}, "Small Business Owner"},
	{[]string{"farmer"}, "Farmer"},
	{[]string{"doctor"}, "Doctor"},
}

var b2bMarkers = []string{"business", "sme", "enterprise"}

var domainKeywords = []struct {
	keywords []string
	domain   Domain
}{
	{[]string{"food"}, DomainFood},
	{[]string{"health"}, DomainHealth},
	{[]string{"shop", "retail"}, DomainRetail},
	{[]string{"finance"}, DomainFinTech},
	{[]string{"education", "learn"}, DomainEdTech},
}

// Classify maps free text to an IdeaDescriptor. The enricher only seeds the
// action and target user; domain and B2B flag come from the text alone.
func Classify(ctx context.Context, text string, enricher enrich.TextEnricher, personas []knowledge.Persona, log *logger.Logger) (IdeaDescriptor, error) {
	if strings.TrimSpace(text) == "" {
		return IdeaDescriptor{}, apperr.InvalidInput("No idea provided")
	}
	if log == nil {
		log = logger.Nop()
	}
	if enricher == nil {
		enricher = enrich.NewRegexEnricher()
	}

	used := enricher.Name()
	en, err := enricher.Enrich(ctx, text)
	if err != nil {
		log.Warn("enrichment failed, using regex fallback", "enricher", used, "error", err)
		used = enrich.RegexEnricher{}.Name()
		en, _ = enrich.NewRegexEnricher().Enrich(ctx, text)
	}

	dna := IdeaDescriptor{
		Action:       defaultAction,
		TargetUser:   defaultTargetUser,
		Domain:       DomainTechSaaS,
		OriginalText: text,
		Enricher:     used,
	}
	if en.Action != "" {
		dna.Action = en.Action
	}
	if en.TargetUser != "" {
		dna.TargetUser = en.TargetUser
	}

	lower := strings.ToLower(text)
	override := ""
	if p, ok := matchPersona(lower, personas); ok {
		override = p.Type
	} else {
		for _, kt := range keywordTargets {
			if containsAny(lower, kt.keywords) {
				override = kt.target
				break
			}
		}
	}
	if override != "" {
		dna.TargetUser = override
	}

	// An enriched target is a phrase from the text, so checking the text and
	// the override keeps the flag independent of the enricher.
	dna.IsB2B = containsAny(lower, b2bMarkers) || containsAny(strings.ToLower(override), b2bMarkers)

	for _, dk := range domainKeywords {
		if containsAny(lower, dk.keywords) {
			dna.Domain = dk.domain
			break
		}
	}
	return dna, nil
}

func matchPersona(lowerText string, personas []knowledge.Persona) (knowledge.Persona, bool) {
	for _, p := range personas {
		if first := firstToken(p.Name); first != "" && strings.Contains(lowerText, first) {
			return p, true
		}
		if t := strings.ToLower(strings.TrimSpace(p.Type)); t != "" && strings.Contains(lowerText, t) {
			return p, true
		}
	}
	return knowledge.Persona{}, false
}

func firstToken(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
