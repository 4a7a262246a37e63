package object

// DeriveStatus is the single source of truth for an object's availability:
// an object is rented iff at least one reservation referencing it is active
// (confirmed or ongoing). Every writer of the status column goes through
// this function; nothing else may set rented/available directly.
func DeriveStatus(activeReservations int) Status {
	if activeReservations > 0 {
		return StatusRented
	}
	return StatusAvailable
}

// EffectiveStatus applies the derivation unless the owner has manually
// forced the object unavailable, which overrides it entirely.
func EffectiveStatus(current Status, activeReservations int) Status {
	if current == StatusUnavailable {
		return StatusUnavailable
	}
	return DeriveStatus(activeReservations)
}
