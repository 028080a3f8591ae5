package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Total(nil))
	assert.Equal(t, 0.0, Total([]Item{}))
}

// Missing and inactive listings read the same to the caller
func TestAddRejection(t *testing.T) {
	assert.Equal(t, "Listing is not available", addRejection(false, "", "", "b1"))
	assert.Equal(t, "Listing is not available", addRejection(true, "sold", "s1", "b1"))
	assert.Equal(t, "Listing is not available", addRejection(true, "rejected", "s1", "b1"))
	assert.Equal(t, "You cannot add your own listing to the cart", addRejection(true, "active", "b1", "b1"))
	assert.Equal(t, "", addRejection(true, "active", "s1", "b1"))
}

func TestTotalMultipliesQuantity(t *testing.T) {
	items := []Item{
		{ListingID: "a", Price: 250, Quantity: 2},
		{ListingID: "b", Price: 99.5, Quantity: 1},
	}
	assert.InDelta(t, 599.5, Total(items), 1e-9)
}
