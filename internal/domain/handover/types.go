package handover

type Type string

const (
	TypePickup Type = "pickup"
	TypeReturn Type = "return"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	return t == TypePickup || t == TypeReturn
}

// RedeemedStatus is the terminal status a successful redemption produces
// for this handover type.
func (t Type) RedeemedStatus() Status {
	if t == TypeReturn {
		return StatusReturned
	}
	return StatusPickedUp
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusPickedUp  Status = "picked_up"
	StatusReturned  Status = "returned"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPickedUp, StatusReturned, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal: every status except pending is a one-way outcome of the
// redemption or cancellation; none of them is ever left.
func (s Status) IsTerminal() bool {
	return s != StatusPending
}
