package orders

// Order statuses. delivered and cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// ValidStatus reports whether s is a known order status
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether an order may move from one status to another
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanUpdateStatus reports whether a caller may change an order's status.
// Only an admin or a seller with items in the order qualifies; any legal
// transition, cancellation included, is then available to them.
func CanUpdateStatus(role string, isSeller bool) bool {
	return role == "admin" || isSeller
}

// canViewOrder reports whether a caller may read an order's detail
func canViewOrder(callerID, role, buyerID string, isSeller bool) bool {
	return callerID == buyerID || isSeller || role == "admin"
}
