package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Object errors
	ErrObjectNotFound    = errors.New("object not found")
	ErrObjectUnavailable = errors.New("object is unavailable")
	ErrNotObjectOwner    = errors.New("caller does not own this object")

	// Reservation errors
	ErrReservationNotFound = errors.New("reservation not found")
	ErrBookingConflict     = errors.New("object already booked for this period")
	ErrIllegalTransition   = errors.New("illegal status transition")
	ErrNotParticipant      = errors.New("caller is not a party to this reservation")

	// Handover errors
	ErrHandoverNotFound   = errors.New("handover not found")
	ErrTokenNotFound      = errors.New("no handover matches this token")
	ErrAlreadyRedeemed    = errors.New("handover token already redeemed")
	ErrReturnBeforePickup = errors.New("return redeemed before pickup")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
