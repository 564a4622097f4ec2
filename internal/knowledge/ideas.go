package knowledge

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/joelkehle/idea-simulation-engine/internal/apperr"
)

var ErrUnknownIndustry = apperr.New(apperr.CodeNotFound, "Industry not found")

// IdeaCatalog maps an industry key (tech, retail, health, food) to example ideas.
type IdeaCatalog map[string][]string

// Lookup returns a copy of the ideas for industry so callers cannot mutate
// the catalog.
func (c IdeaCatalog) Lookup(industry string) ([]string, error) {
	ideas := c[industry]
	if len(ideas) == 0 {
		return nil, fmt.Errorf("%q: %w", industry, ErrUnknownIndustry)
	}
	out := make([]string, len(ideas))
	copy(out, ideas)
	return out, nil
}

func (c IdeaCatalog) Industries() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validateIdeas(c IdeaCatalog) error {
	if len(c) == 0 {
		return errors.New("no industries")
	}
	for k, ideas := range c {
		if strings.TrimSpace(k) == "" {
			return errors.New("empty industry key")
		}
		if len(ideas) == 0 {
			return fmt.Errorf("%s: no ideas", k)
		}
	}
	return nil
}
