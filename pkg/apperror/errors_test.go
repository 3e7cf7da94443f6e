package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeString(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", CodeNotFound.String())
	assert.Equal(t, "UNKNOWN", CodeUnknown.String())
	assert.Equal(t, "UNKNOWN", Code(999).String())
}

func TestErrorMessage(t *testing.T) {
	err := NotFound("path %s has no metadata", "/a/b")
	assert.Equal(t, "NOT_FOUND: path /a/b has no metadata", err.Error())
	assert.Equal(t, CodeNotFound, err.Code)
}

func TestIs(t *testing.T) {
	err := PermissionDenied("denied")
	assert.True(t, errors.Is(err, PermissionDenied("different message")))
	assert.False(t, errors.Is(err, NotFound("nope")))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInvalidSize, CodeOf(InvalidSize("too big")))
	assert.Equal(t, CodeUnknown, CodeOf(fmt.Errorf("plain io error")))
	assert.Equal(t, Code(0), CodeOf(nil))
}
