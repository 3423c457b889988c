package mferr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	nf := NotFound("multicodec", "no codec named %q", "foo")
	inv := Invalid("varint", "non-minimal encoding")

	assert.True(t, IsNotFound(nf))
	assert.False(t, IsInvalid(nf))
	assert.True(t, IsInvalid(inv))
	assert.False(t, IsNotFound(inv))

	assert.Equal(t, `multicodec: no codec named "foo"`, nf.Error())
	assert.Equal(t, "varint: non-minimal encoding", inv.Error())
}

func TestWrappedKinds(t *testing.T) {
	base := Invalid("cid", "bad version")
	wrapped := fmt.Errorf("decode: %w", base)

	assert.True(t, errors.Is(wrapped, ErrInvalid))
	assert.True(t, errors.Is(wrapped, base))

	var e *Error
	assert.True(t, errors.As(wrapped, &e))
	assert.Equal(t, "cid", e.Module)
}

func TestEmptyModule(t *testing.T) {
	err := &Error{Kind: ErrNotFound, Msg: "missing"}
	assert.Equal(t, "missing", err.Error())
}
