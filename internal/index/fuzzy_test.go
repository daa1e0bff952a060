package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuzzyScore_IdenticalStringsScoreOne(t *testing.T) {
	assert.Equal(t, 1.0, fuzzyScore("parse_config", "parse_config"))
}

func TestFuzzyScore_EmptyInputsScoreZero(t *testing.T) {
	assert.Equal(t, 0.0, fuzzyScore("", "parse_config"))
	assert.Equal(t, 0.0, fuzzyScore("parse_config", ""))
}

func TestFuzzyScore_PrefixMatchOutranksArbitrarySubsequence(t *testing.T) {
	prefixScore := fuzzyScore("parse", "parse_config")
	subsequenceScore := fuzzyScore("config", "parse_config")
	assert.Greater(t, prefixScore, subsequenceScore)
}

func TestFuzzyScore_UnrelatedStringsBelowThreshold(t *testing.T) {
	assert.Less(t, fuzzyScore("parse_config", "xyz123"), fuzzyThreshold)
}
