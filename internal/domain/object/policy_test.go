//go:build unit

package object_test

import (
	"testing"

	"rentloop/internal/domain/object"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, object.StatusAvailable, object.DeriveStatus(0))
	assert.Equal(t, object.StatusRented, object.DeriveStatus(1))
	assert.Equal(t, object.StatusRented, object.DeriveStatus(3))
}

func TestEffectiveStatus(t *testing.T) {
	t.Run("derivation applies to non-overridden objects", func(t *testing.T) {
		assert.Equal(t, object.StatusRented, object.EffectiveStatus(object.StatusAvailable, 2))
		assert.Equal(t, object.StatusAvailable, object.EffectiveStatus(object.StatusRented, 0))
	})

	t.Run("manual override wins regardless of active count", func(t *testing.T) {
		assert.Equal(t, object.StatusUnavailable, object.EffectiveStatus(object.StatusUnavailable, 0))
		assert.Equal(t, object.StatusUnavailable, object.EffectiveStatus(object.StatusUnavailable, 5))
	})
}
