package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	v := ValidationError("Unknown provider '%s'", "nope")
	assert.Equal(t, "Unknown provider 'nope'", v.Error())
	assert.True(t, IsValidation(v))
	assert.False(t, IsTransport(v))

	cause := errors.New("dial tcp: connection refused")
	tr := TransportError("upstream down", cause)
	assert.True(t, IsTransport(tr))
	assert.False(t, IsValidation(tr))
	assert.ErrorIs(t, tr, cause)
}

func TestErrorKinds_Wrapped(t *testing.T) {
	err := fmt.Errorf("dispatch: %w", ValidationError("Model is required"))
	assert.True(t, IsValidation(err))
	assert.False(t, IsValidation(errors.New("plain")))
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "transport", KindTransport.String())
}
