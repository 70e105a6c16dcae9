package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		kind   Kind
	}{
		{"not found", NotFound("encounter %s not found", "abc"), ErrNotFound, KindNotFound},
		{"invalid state", InvalidState("bad state"), ErrInvalidState, KindInvalidState},
		{"conflict", Conflict("finalized"), ErrConflict, KindConflict},
		{"validation", Validation("text is required"), ErrValidation, KindValidation},
		{"provider", Provider("deepseek", errors.New("timeout")), ErrProvider, KindProvider},
		{"parse", Parse("not json", "oops", nil), ErrParse, KindParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.target)
			assert.Equal(t, tt.kind, KindOf(wrapped))
		})
	}
}

func TestErrorIsDoesNotCrossKinds(t *testing.T) {
	assert.False(t, errors.Is(Conflict("x"), ErrNotFound))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestProviderUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Provider("openai", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Error(), "openai")
}

func TestParseKeepsRawOutOfMessage(t *testing.T) {
	err := Parse("summary is not valid JSON", "{not json", errors.New("invalid character"))

	assert.Equal(t, "{not json", err.Raw)
	assert.NotContains(t, err.Error(), "{not json")
}
