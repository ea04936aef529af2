package errs

import (
	stderrors "errors"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicError(t *testing.T) {
	assert.NoError(t, WithPublicMessage(nil, "validation error"))

	err := WithPublicMessage(errors.Wrap(InvalidArgument, "bad outpoint"), "validation error")
	var public *PublicError
	require.True(t, errors.As(err, &public))
	assert.Equal(t, "validation error: bad outpoint: Invalid argument", public.Message())
	assert.ErrorIs(t, err, InvalidArgument)

	err = NewPublicError("'txHex' is required")
	require.True(t, errors.As(err, &public))
	assert.Equal(t, "'txHex' is required", public.Message())
}

type causeError struct{ code int }

func (e *causeError) Error() string { return "cause" }

func TestWithKind(t *testing.T) {
	assert.NoError(t, WithKind(nil, BuildFailed))

	cause := errors.New("insufficient funds")
	err := errors.Wrap(WithKind(cause, BuildFailed), "build issue transaction")
	assert.ErrorIs(t, err, BuildFailed)
	assert.ErrorIs(t, err, cause)
	assert.True(t, stderrors.Is(err, BuildFailed))
	assert.True(t, errors.Is(err, BuildFailed))
	assert.NotErrorIs(t, err, BroadcastFailed)
	assert.Equal(t, "build issue transaction: insufficient funds", err.Error())

	err = WithKind(errors.Wrap(&causeError{code: 500}, "broadcast"), BroadcastFailed)
	var target *causeError
	require.True(t, stderrors.As(err, &target))
	assert.Equal(t, 500, target.code)
	target = nil
	require.True(t, errors.As(err, &target))
	assert.Equal(t, 500, target.code)
}
