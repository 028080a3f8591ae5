package requests

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTarget(t *testing.T) {
	assert.True(t, ValidTarget("listing", "abc"))
	assert.True(t, ValidTarget("service", "abc"))
	assert.False(t, ValidTarget("listing", ""))
	assert.False(t, ValidTarget("order", "abc"))
	assert.False(t, ValidTarget("", ""))
}

func TestCanAdvance(t *testing.T) {
	assert.True(t, CanAdvance("pending", "accepted"))
	assert.True(t, CanAdvance("pending", "rejected"))
	assert.True(t, CanAdvance("accepted", "completed"))

	assert.False(t, CanAdvance("pending", "completed"))
	assert.False(t, CanAdvance("rejected", "accepted"))
	assert.False(t, CanAdvance("completed", "pending"))
	assert.False(t, CanAdvance("accepted", "rejected"))
}
