package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingAddressFieldOrder(t *testing.T) {
	addr := ShippingAddress{}
	assert.Equal(t, "fullName", MissingAddressField(addr))

	addr.FullName = "Jane Doe"
	assert.Equal(t, "address", MissingAddressField(addr))

	addr.Address = "14 Elm Road"
	assert.Equal(t, "city", MissingAddressField(addr))

	addr.City = "Pune"
	assert.Equal(t, "state", MissingAddressField(addr))

	addr.State = "MH"
	assert.Equal(t, "pincode", MissingAddressField(addr))

	addr.Pincode = "411001"
	assert.Equal(t, "phone", MissingAddressField(addr))

	addr.Phone = "9876543210"
	assert.Equal(t, "", MissingAddressField(addr))
}

func TestSellerSlice(t *testing.T) {
	items := []OrderItem{
		{ListingID: "l1", Price: 100, Quantity: 2, SellerID: "s1"},
		{ListingID: "l2", Price: 50, Quantity: 1, SellerID: "s2"},
		{ListingID: "l3", Price: 25, Quantity: 4, SellerID: "s1"},
	}

	mine, subtotal := SellerSlice(items, "s1")
	assert.Len(t, mine, 2)
	assert.InDelta(t, 300.0, subtotal, 1e-9)

	none, zero := SellerSlice(items, "s3")
	assert.Empty(t, none)
	assert.Equal(t, 0.0, zero)
}
