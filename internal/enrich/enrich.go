package enrich

import (
	"context"
	"regexp"
	"strings"
)

// RoleKeywords mark a noun phrase as naming the target user.
var RoleKeywords = []string{"user", "people", "business", "student", "farmer", "doctor"}

// Enrichment is the initial guess at an idea's action and target user.
// Empty fields mean the strategy found nothing.
type Enrichment struct {
	Action      string   `json:"action,omitempty"`
	TargetUser  string   `json:"target_user,omitempty"`
	Verbs       []string `json:"verbs,omitempty"`
	NounPhrases []string `json:"noun_phrases,omitempty"`
}

type TextEnricher interface {
	Name() string
	Enrich(ctx context.Context, text string) (Enrichment, error)
}

var (
	punctRe     = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	targetForRe = regexp.MustCompile(`(?i)\bfor\s+([\p{L}\p{N}_\s]+?)(?:\s+to\b|\s*$)`)
)

// RegexEnricher extracts "for <phrase> (to|<end>)" as the target user. It
// never finds a verb.
type RegexEnricher struct{}

func NewRegexEnricher() RegexEnricher { return RegexEnricher{} }

func (RegexEnricher) Name() string { return "regex" }

func (RegexEnricher) Enrich(_ context.Context, text string) (Enrichment, error) {
	return Enrichment{TargetUser: TargetFromText(text)}, nil
}

// TargetFromText returns the phrase after "for", keeping the idea's own
// casing.
func TargetFromText(text string) string {
	m := targetForRe.FindStringSubmatch(punctRe.ReplaceAllString(text, ""))
	if len(m) < 2 {
		return ""
	}
	return strings.Join(strings.Fields(m[1]), " ")
}

// fromTags turns tagged verbs and noun phrases into an Enrichment: the first
// verb is the action and the first phrase naming a role is the target.
func fromTags(verbs, nounPhrases []string) Enrichment {
	e := Enrichment{Verbs: verbs, NounPhrases: nounPhrases}
	for _, v := range verbs {
		if v = strings.TrimSpace(v); v != "" {
			e.Action = strings.ToLower(v)
			break
		}
	}
	for _, np := range nounPhrases {
		if containsRole(np) {
			e.TargetUser = strings.TrimSpace(np)
			break
		}
	}
	return e
}

func containsRole(phrase string) bool {
	lower := strings.ToLower(phrase)
	for _, k := range RoleKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
