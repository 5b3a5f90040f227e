package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCode(t *testing.T) {
	meta := MetadataFor(CodeNotFound)
	assert.Equal(t, http.StatusNotFound, meta.HTTPStatus)
	assert.False(t, meta.Retryable)
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "calling gateway")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, CodeDependency, err.Code())
	assert.Equal(t, "DEPENDENCY_ERROR: calling gateway", err.Error())
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeValidation, nil, "missing field")
	assert.Nil(t, err.Unwrap())
	assert.Equal(t, CodeValidation, err.Code())
}

func TestAsUnwrapsThroughFmtErrorf(t *testing.T) {
	inner := New(CodeForbidden, "no access")
	wrapped := fmt.Errorf("handler: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeForbidden, typed.Code())

	assert.Nil(t, As(stdErrors.New("untyped")))
	assert.Nil(t, As(nil))
}

func TestChain(t *testing.T) {
	root := stdErrors.New("root")
	err := Wrap(CodeInternal, root, "outer")

	chain := Chain(err)
	require.Len(t, chain, 2)
	assert.Equal(t, "INTERNAL_ERROR: outer", chain[0])
	assert.Equal(t, "root", chain[1])
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad").WithDetails(map[string]string{"name": "is required"})
	assert.NotNil(t, err.Details())
}
