// Package riskscore computes the derived score of a risk entry.
package riskscore

import (
	"github.com/pmo-lab/projecthub/dao/model"
)

const defaultOrdinal = 3 // medium

var ordinals = map[model.RiskLevel]int{
	model.RiskVeryLow:  1,
	model.RiskLow:      2,
	model.RiskMedium:   3,
	model.RiskHigh:     4,
	model.RiskVeryHigh: 5,
}

// Ordinal maps a risk level to its 1-5 ordinal. Unrecognized levels fall back
// to medium; request binding rejects them upstream, this keeps historical
// rows with unknown values readable.
func Ordinal(level model.RiskLevel) int {
	if v, ok := ordinals[level]; ok {
		return v
	}
	return defaultOrdinal
}

// Score returns ordinal(probability) * ordinal(impact), range 1-25. It is
// recomputed on every risk write; a caller-supplied score is ignored.
func Score(probability, impact model.RiskLevel) int {
	return Ordinal(probability) * Ordinal(impact)
}
