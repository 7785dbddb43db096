package riskscore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pmo-lab/projecthub/dao/model"
)

func TestScore(t *testing.T) {
	assert.Equal(t, 1, Score(model.RiskVeryLow, model.RiskVeryLow))
	assert.Equal(t, 20, Score(model.RiskHigh, model.RiskVeryHigh))
	assert.Equal(t, 25, Score(model.RiskVeryHigh, model.RiskVeryHigh))
	assert.Equal(t, 9, Score(model.RiskMedium, model.RiskMedium))
}

func TestScoreIsSymmetric(t *testing.T) {
	levels := []model.RiskLevel{
		model.RiskVeryLow, model.RiskLow, model.RiskMedium,
		model.RiskHigh, model.RiskVeryHigh,
	}
	for _, p := range levels {
		for _, i := range levels {
			assert.Equal(t, Score(p, i), Score(i, p))
		}
	}
	assert.Equal(t, 8, Score(model.RiskHigh, model.RiskLow))
	assert.Equal(t, 8, Score(model.RiskLow, model.RiskHigh))
}

func TestUnknownLevelFallsBackToMedium(t *testing.T) {
	assert.Equal(t, 3, Ordinal(model.RiskLevel("bogus")))
	assert.Equal(t, 15, Score(model.RiskLevel("bogus"), model.RiskVeryHigh))
}
