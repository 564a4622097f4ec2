package knowledge

import "gopkg.in/yaml.v3"

// DefaultPersona stands in when the persona library is empty or failed to load.
var DefaultPersona = Persona{
	ID:              "default",
	Name:            "General User",
	Type:            "General User",
	IncomeLevel:     "Middle Class",
	DigitalLiteracy: 50,
}

// GenericIncumbent is the synthetic competitor used when neither the
// requested domain nor tech_saas has catalog entries.
var GenericIncumbent = CompetitorRecord{
	Name: "Generic Incumbent",
	Weaknesses: Weaknesses{
		Pricing:  WeaknessDetail{Score: 5, Description: "Standard market pricing"},
		Features: WeaknessDetail{Score: 5, Description: "Standard feature set"},
		UX:       WeaknessDetail{Score: 5, Description: "Average UX"},
		Coverage: WeaknessDetail{Score: 5, Description: "Average coverage"},
	},
}

func defaultIncomeCaps() map[string]int {
	return map[string]int{"middle_class": 800}
}

// defaultIdeas decodes the embedded industry catalog, so industry lookups
// keep working when a knowledge dir has no usable ideas table.
func defaultIdeas() IdeaCatalog {
	var c IdeaCatalog
	raw, err := embeddedData.ReadFile("data/" + TableIndustryIdeas + ".yaml")
	if err != nil {
		return IdeaCatalog{}
	}
	if err := yaml.Unmarshal(raw, &c); err != nil || validateIdeas(c) != nil {
		return IdeaCatalog{}
	}
	return c
}
