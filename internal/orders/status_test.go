package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusShipped},
		{StatusConfirmed, StatusCancelled},
		{StatusShipped, StatusDelivered},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to string }{
		{StatusPending, StatusShipped},
		{StatusPending, StatusDelivered},
		{StatusConfirmed, StatusDelivered},
		{StatusShipped, StatusCancelled},
		{StatusShipped, StatusConfirmed},
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusPending},
		{StatusDelivered, StatusShipped},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatesHaveNoExit(t *testing.T) {
	for _, terminal := range []string{StatusDelivered, StatusCancelled} {
		for _, to := range []string{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled} {
			assert.False(t, CanTransition(terminal, to))
		}
	}
}

func TestCanUpdateStatus(t *testing.T) {
	assert.True(t, CanUpdateStatus("admin", false))
	assert.True(t, CanUpdateStatus("user", true))
	assert.True(t, CanUpdateStatus("admin", true))
	assert.False(t, CanUpdateStatus("user", false))
}

// A seller cancelling their own pending or confirmed order is both an
// authorized caller and a legal transition.
func TestSellerMayCancel(t *testing.T) {
	assert.True(t, CanUpdateStatus("user", true))
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusConfirmed, StatusCancelled))
}

func TestCanViewOrder(t *testing.T) {
	assert.True(t, canViewOrder("u1", "user", "u1", false))
	assert.True(t, canViewOrder("u2", "user", "u1", true))
	assert.True(t, canViewOrder("u3", "admin", "u1", false))
	assert.False(t, canViewOrder("u4", "user", "u1", false))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus("pending"))
	assert.True(t, ValidStatus("delivered"))
	assert.False(t, ValidStatus("refunded"))
	assert.False(t, ValidStatus(""))
}
