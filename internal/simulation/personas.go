package simulation

import (
	"strings"

	"github.com/joelkehle/idea-simulation-engine/internal/knowledge"
)

const (
	TypeEarlyAdopter  = "Early Adopter"
	TypeEconomicBuyer = "Economic Buyer"
)

const personaMatchScore = 5

// SelectPersonas ranks the catalog against the target user and fills the
// early adopter and economic buyer slots.
func SelectPersonas(dna IdeaDescriptor, catalog []knowledge.Persona) PersonaSelection {
	if len(catalog) == 0 {
		catalog = []knowledge.Persona{knowledge.DefaultPersona}
	}
	target := strings.ToLower(dna.TargetUser)

	primary := catalog[0]
	best := -1
	for _, p := range catalog {
		score := 0
		if strings.Contains(strings.ToLower(p.Name), target) || strings.Contains(strings.ToLower(p.Type), target) {
			score += personaMatchScore
		}
		if score > best {
			best = score
			primary = p
		}
	}

	sel := PersonaSelection{primary}
	for _, slot := range []string{TypeEarlyAdopter, TypeEconomicBuyer} {
		if slot == primary.Type {
			continue
		}
		sel = append(sel, firstOfType(catalog, slot, primary.ID))
	}
	return sel
}

func firstOfType(catalog []knowledge.Persona, typ, excludeID string) knowledge.Persona {
	for _, p := range catalog {
		if p.Type == typ && p.ID != excludeID {
			return p
		}
	}
	return catalog[0]
}
