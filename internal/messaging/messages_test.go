package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOldestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	newest := []Message{
		{ID: "m3", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "m2", CreatedAt: base.Add(time.Minute)},
		{ID: "m1", CreatedAt: base},
	}

	got := oldestFirst(newest)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "m2", got[1].ID)
	assert.Equal(t, "m3", got[2].ID)
}

func TestOldestFirstSmallSlices(t *testing.T) {
	assert.Empty(t, oldestFirst(nil))
	one := []Message{{ID: "m1"}}
	assert.Equal(t, one, oldestFirst(one))
}
