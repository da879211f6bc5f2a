package domain

// Status is an order lifecycle state.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

var successor = map[Status]Status{
	StatusPending: StatusShipped,
	StatusShipped: StatusDelivered,
}

// ParseStatus validates a caller-supplied status value.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// Terminal reports whether no transition out of s is allowed.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order may move from current to next:
// the immediate successor in the forward sequence, or Cancelled from any
// non-terminal state. Skips and backward moves are rejected.
func CanTransition(current, next Status) bool {
	if next == StatusCancelled {
		return !current.Terminal()
	}
	return successor[current] == next
}
