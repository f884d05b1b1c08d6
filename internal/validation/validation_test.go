package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Phone  string `validate:"required,phone"`
	Method string `validate:"oneof=card cash"`
}

func TestPhoneRule(t *testing.T) {
	v := New()
	for _, ok := range []string{"555-0100", "+1 (555) 010-0100", "5550100"} {
		assert.NoError(t, v.Struct(sample{Phone: ok, Method: "card"}), ok)
	}
	for _, bad := range []string{"abc", "12", "555-CALL-NOW"} {
		assert.Error(t, v.Struct(sample{Phone: bad, Method: "card"}), bad)
	}
}

func TestDescribe(t *testing.T) {
	err := New().Struct(sample{Method: "bitcoin"})
	require.Error(t, err)
	msg := Describe(err)
	assert.Contains(t, msg, "Phone is required")
	assert.Contains(t, msg, "Method must be one of: card cash")
}
