package orders

// Status is the closed set of order lifecycle states. NEW is the only
// initial state; CANCELLED and RECEIVED are terminal.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusCancelled Status = "CANCELLED"
	StatusReceived  Status = "RECEIVED"
)

var validNext = map[Status]map[Status]bool{
	StatusNew:       {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:   {StatusReceived: true, StatusCancelled: true},
	StatusCancelled: {},
	StatusReceived:  {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusReceived
}

// ParseStatus validates free-form status text against the closed set.
// Boundary code must go through this before constructing a domain order.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusNew, StatusConfirmed, StatusShipped, StatusCancelled, StatusReceived:
		return Status(s), true
	}
	return "", false
}
