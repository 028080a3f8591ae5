package reviews

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, mean(nil))
	assert.Equal(t, 0.0, mean([]int{}))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 4.0, mean([]int{4}))
	assert.Equal(t, 3.0, mean([]int{1, 5}))
	assert.InDelta(t, 3.6666666, mean([]int{2, 4, 5}), 1e-6)
}
