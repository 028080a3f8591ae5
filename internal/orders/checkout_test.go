package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func floatp(f float64) *float64 { return &f }

func activeLine(id, title string, price float64, qty int, seller string) cartLine {
	return cartLine{
		ListingID: id,
		Quantity:  qty,
		Title:     strp(title),
		Price:     floatp(price),
		SellerID:  strp(seller),
		Status:    strp("active"),
	}
}

func TestSnapshotLines(t *testing.T) {
	lines := []cartLine{
		activeLine("l1", "Desk", 3500, 1, "s1"),
		activeLine("l2", "Cricket kit", 2200, 2, "s2"),
	}

	items, total, unavailable := snapshotLines(lines)
	require.Empty(t, unavailable)
	require.Len(t, items, 2)
	assert.InDelta(t, 7900.0, total, 1e-9)
	assert.Equal(t, "Desk", items[0].Title)
	assert.Equal(t, 2, items[1].Quantity)
}

func TestSnapshotLinesNamesInactiveItem(t *testing.T) {
	sold := activeLine("l2", "Cricket kit", 2200, 1, "s2")
	sold.Status = strp("sold")
	lines := []cartLine{activeLine("l1", "Desk", 3500, 1, "s1"), sold}

	items, _, unavailable := snapshotLines(lines)
	assert.Nil(t, items)
	assert.Equal(t, "Cricket kit", unavailable)
}

// A cart entry whose listing was deleted must abort the checkout, not be
// silently dropped from the order.
func TestSnapshotLinesRejectsDeletedListing(t *testing.T) {
	lines := []cartLine{
		activeLine("l1", "Desk", 3500, 1, "s1"),
		{ListingID: "l2", Quantity: 1},
	}

	items, total, unavailable := snapshotLines(lines)
	assert.Nil(t, items)
	assert.Equal(t, 0.0, total)
	assert.Equal(t, "Unknown", unavailable)
}
