package handover

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewToken builds the single-use redemption credential carried in the QR
// code. The preimage combines the reservation id, the handover type, a
// nanosecond timestamp and 16 random bytes, so collisions across all
// handovers are negligible even for repeated issuance on one reservation.
func NewToken(reservationID uuid.UUID, typ Type, now time.Time) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate token nonce: %w", err)
	}

	preimage := fmt.Sprintf("%s:%s:%d:%s",
		reservationID, typ, now.UnixNano(), hex.EncodeToString(nonce))

	sum := sha256.Sum256([]byte(preimage))
	return hex.EncodeToString(sum[:]), nil
}
