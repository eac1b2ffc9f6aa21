package scoring

import (
	"math"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

// Compute runs the engine over a fully loaded deal context and returns the
// overall score, its tier, and the explainable breakdown.
func Compute(dctx *DealContext) (int, entities.HealthTier, *entities.ScoreBreakdown) {
	breakdown := &entities.ScoreBreakdown{
		Categories: make(map[entities.CategoryKey]entities.CategoryResult),
		Params:     make(map[entities.ParamKey]entities.ParameterResult),
		Signals:    make(map[entities.ParamKey]string),
	}

	weightedSum := 0
	totalWeight := 0
	for _, category := range entities.AllCategories {
		params := resolveCategory(category, dctx)
		if len(params) == 0 {
			// Every parameter disabled; the category sits out of the total
			continue
		}

		score := scoreCategory(params, dctx)
		weight := dctx.Config.Config.CategoryWeight(category)

		breakdown.Categories[category] = entities.CategoryResult{
			Score:  score,
			Weight: weight,
		}
		for _, p := range params {
			breakdown.Params[p.Key] = p
			if p.Source == entities.SourceAI {
				breakdown.Signals[p.Key] = p.Evidence
			}
		}

		weightedSum += score * weight
		totalWeight += weight
	}

	breakdown.TotalWeight = totalWeight
	total := 0
	if totalWeight > 0 {
		total = clamp(int(math.Round(float64(weightedSum) / float64(totalWeight))))
	}
	return total, tierFor(total, dctx.Config.Config), breakdown
}

func resolveCategory(category entities.CategoryKey, dctx *DealContext) []entities.ParameterResult {
	var results []entities.ParameterResult
	for _, key := range entities.ParamsByCategory[category] {
		if !dctx.Config.IsEnabled(key) {
			continue
		}
		result := resolveParam(key, category, dctx)
		result.Impact = impactOf(result, dctx)
		results = append(results, result)
	}
	return results
}

// scoreCategory turns resolved parameters into a 0..100 category score.
// Confirmed positives earn their share of the maximum positive weight;
// confirmed negatives subtract their magnitude as a flat penalty. Unknown and
// absent parameters contribute nothing. A category with only negative
// parameters starts at 100 and loses the penalties.
func scoreCategory(params []entities.ParameterResult, dctx *DealContext) int {
	maxPositive := 0
	earned := 0
	penalty := 0
	for _, p := range params {
		if p.Weight > 0 {
			maxPositive += p.Weight
			if p.State == entities.ParamConfirmed {
				earned += p.Impact
			}
		} else if p.Weight < 0 && p.State == entities.ParamConfirmed {
			penalty += -p.Impact
		}
	}

	if maxPositive == 0 {
		return clamp(100 - penalty)
	}
	base := int(math.Round(float64(earned) / float64(maxPositive) * 100))
	return clamp(base - penalty)
}

// impactOf is the signed contribution a parameter makes before normalization.
// Repeated close date pushes stack the penalty, capped so a chronically
// slipping deal is not wiped out by that one signal.
func impactOf(p entities.ParameterResult, dctx *DealContext) int {
	if p.State != entities.ParamConfirmed {
		return 0
	}
	if p.Key == entities.ParamCloseDateSlipped {
		pushes := dctx.Deal.CloseDatePushCount
		if pushes < 1 {
			pushes = 1
		}
		if pushes > entities.MaxCloseDatePushPenalty {
			pushes = entities.MaxCloseDatePushPenalty
		}
		return p.Weight * pushes
	}
	return p.Weight
}

func tierFor(score int, config *entities.ScoringConfig) entities.HealthTier {
	healthy := config.HealthyThreshold
	watch := config.WatchThreshold
	if healthy <= 0 {
		healthy = entities.DefaultHealthyThreshold
	}
	if watch <= 0 {
		watch = entities.DefaultWatchThreshold
	}
	switch {
	case score >= healthy:
		return entities.TierHealthy
	case score >= watch:
		return entities.TierWatch
	default:
		return entities.TierRisk
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
