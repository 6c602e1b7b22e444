package application

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", newError(KindConflict, "taken", cause))

	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "taken", MessageOf(err, "fallback"))
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, KindInternal, KindOf(cause))
	assert.Equal(t, "fallback", MessageOf(cause, "fallback"))
	assert.Equal(t, "not_found", KindNotFound.String())
}
