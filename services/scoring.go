package services

import (
	"fmt"
	"sort"

	"github.com/atlascrm/atlas_backend/models"
)

// Clamp bounds a score to [0,100].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// WeightedOverall combines named sub-scores with named non-negative
// weights into one overall score normalized by total weight. A factor
// carrying weight but no sub-score contributes nothing. Zero total weight
// is rejected.
func WeightedOverall(scores map[string]float64, weights map[string]float64) (float64, error) {
	var sum, total float64
	for name, w := range weights {
		if w < 0 {
			return 0, fmt.Errorf("%w: negative weight for factor %q", ErrInvalidConfiguration, name)
		}
		s, ok := scores[name]
		if !ok {
			continue
		}
		sum += s * w
		total += w
	}
	if total == 0 {
		return 0, fmt.Errorf("%w: total weight is zero", ErrInvalidConfiguration)
	}
	return Clamp(sum / total), nil
}

// Band is one classifier threshold: scores strictly below Below get
// Status.
type Band struct {
	Below  float64
	Status string
}

// ClassifyBands walks the bands in order and returns the status of the
// first one the score falls under; fallback when none match. Callers must
// pass bands sorted by ascending Below.
func ClassifyBands(score float64, bands []Band, fallback string) string {
	for _, b := range bands {
		if score < b.Below {
			return b.Status
		}
	}
	return fallback
}

// Trend compares the new overall score against the previously persisted
// one. A missing prior record reads as stable.
func Trend(previous *float64, current float64) string {
	if previous == nil {
		return models.TrendStable
	}
	diff := current - *previous
	switch {
	case diff > 5:
		return models.TrendImproving
	case diff < -5:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// RiskTrend is Trend for scales where higher means worse: a risk score
// falling by more than the band reads as improving, rising as declining.
func RiskTrend(previous *float64, current float64) string {
	if previous == nil {
		return models.TrendStable
	}
	inverted := 100 - *previous
	return Trend(&inverted, 100-current)
}

// SelectAccelerator picks the multiplier for an achievement percentage:
// accelerators are evaluated in descending threshold order, first match
// wins, and no match means multiplier 1 (no acceleration, no penalty for
// being under target).
func SelectAccelerator(accelerators []models.Accelerator, achievementPct float64) float64 {
	sorted := make([]models.Accelerator, len(accelerators))
	copy(sorted, accelerators)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ThresholdPercentage > sorted[j].ThresholdPercentage
	})

	for _, acc := range sorted {
		if achievementPct >= acc.ThresholdPercentage {
			return acc.Multiplier
		}
	}
	return 1
}
