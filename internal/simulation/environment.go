package simulation

import (
	"github.com/montanaflynn/stats"

	"github.com/joelkehle/idea-simulation-engine/internal/knowledge"
)

const (
	trustBaseMin      = 60
	trustBaseMax      = 90
	lowTrustPenalty   = 20
	marketSizeScore   = 75
	competitionScore  = 60
	infrastructureFit = 70
	defaultIncomeBand = 50
)

var incomeBand = map[string]int{
	"Deprived":     90,
	"Aspirers":     70,
	"Middle Class": 50,
	"Affluent":     30,
	"Elite":        10,
}

func IncomeBandValue(level string) int {
	if v, ok := incomeBand[level]; ok {
		return v
	}
	return defaultIncomeBand
}

// ScoreEnvironment draws trust and derives the remaining factors from the
// primary persona. Trust has no floor after the domain penalty.
func ScoreEnvironment(primary knowledge.Persona, domain Domain, rng RandomSource) EnvironmentFactors {
	trust := trustBaseMin + rng.Intn(trustBaseMax-trustBaseMin+1)
	if domain == DomainFinTech || domain == DomainHealth {
		trust -= lowTrustPenalty
	}
	priceFit := 100 - IncomeBandValue(primary.IncomeLevel)

	avg, err := stats.Mean(stats.Float64Data{
		float64(trust),
		float64(priceFit),
		float64(competitionScore),
		float64(primary.DigitalLiteracy),
	})
	if err != nil {
		avg = 0
	}
	return EnvironmentFactors{
		Trust:           trust,
		PriceFit:        priceFit,
		MarketSize:      marketSizeScore,
		DigitalLiteracy: primary.DigitalLiteracy,
		Competition:     competitionScore,
		Infrastructure:  infrastructureFit,
		AvgScore:        avg,
	}
}
