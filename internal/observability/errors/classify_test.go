package errors

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type quotaExceededError struct{}

func (quotaExceededError) Error() string { return "quota exceeded" }

func TestClassifyNil(t *testing.T) {
	assert.Equal(t, "none", Classify(nil))
}

func TestClassifyPlainError(t *testing.T) {
	assert.Equal(t, "unknown", Classify(errors.New("boom")))
}

func TestClassifyWrappedPlainError(t *testing.T) {
	err := fmt.Errorf("outer: %w", errors.New("boom"))
	assert.Equal(t, "unknown", Classify(err))
}

func TestClassifyTypedError(t *testing.T) {
	assert.Equal(t, "quotaexceedederror", Classify(quotaExceededError{}))
}

func TestClassifyUnwrapsToInnermost(t *testing.T) {
	inner := &net.AddrError{Err: "bad address", Addr: "127.0.0.1"}
	err := fmt.Errorf("dial: %w", fmt.Errorf("connect: %w", inner))
	assert.Equal(t, "addrerror", Classify(err))
}
