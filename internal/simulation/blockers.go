package simulation

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

const BlockerTrials = 1000

const genericBlockerDescription = "General Friction"

var blockerDescriptions = map[BlockerType]string{
	BlockerTrustCollisions: "Users unsure about data prop.",
	BlockerPriceMisfits:    "Value perception mismatch.",
}

func BlockerDescription(t BlockerType) string {
	if d, ok := blockerDescriptions[t]; ok {
		return d
	}
	return genericBlockerDescription
}

// SimulateBlockers runs BlockerTrials trials. Each trial draws once and tests
// that draw against both the trust and price thresholds, so the two counts
// are correlated. Adoption Friction and Timing Misfires are never incremented.
func SimulateBlockers(env EnvironmentFactors, rng RandomSource) BlockerReport {
	pTrust := float64(100-env.Trust) / 100
	pPrice := float64(100-env.PriceFit) / 100

	counts := make(map[BlockerType]int, len(BlockerTypes))
	for i := 0; i < BlockerTrials; i++ {
		r := rng.Float64()
		if r < pTrust {
			counts[BlockerTrustCollisions]++
		}
		if r < pPrice {
			counts[BlockerPriceMisfits]++
		}
	}

	tally := make([]BlockerCount, 0, len(BlockerTypes))
	top := BlockerTypes[0]
	for _, t := range BlockerTypes {
		tally = append(tally, BlockerCount{Type: t, Count: counts[t]})
		if counts[t] > counts[top] {
			top = t
		}
	}

	n := counts[top]
	share := float64(n) / BlockerTrials
	severity, _ := stats.Round(share*10, 1)
	return BlockerReport{
		PrimaryBlocker: BlockerAnalysis{
			Type:            top,
			Severity:        severity,
			AffectedPercent: int(share * 100),
			Description:     BlockerDescription(top),
		},
		Tally:        tally,
		Trials:       BlockerTrials,
		AffectedCI95: wilsonInterval(n, BlockerTrials),
	}
}

// wilsonInterval returns the 95% Wilson score interval for k hits in n
// trials, in percent rounded to one decimal.
func wilsonInterval(k, n int) [2]float64 {
	if n <= 0 {
		return [2]float64{}
	}
	z := distuv.UnitNormal.Quantile(0.975)
	nf := float64(n)
	p := float64(k) / nf
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom

	lo, _ := stats.Round(math.Max(0, center-half)*100, 1)
	hi, _ := stats.Round(math.Min(1, center+half)*100, 1)
	return [2]float64{lo, hi}
}
