package flow

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func double(_ context.Context, in int) (int, error) {
	return in * 2, nil
}

func stringify(_ context.Context, in int) (string, error) {
	return strconv.Itoa(in), nil
}

func failInt(_ context.Context, _ int) (int, error) {
	return 0, errBoom
}

func TestChain2(t *testing.T) {
	out, err := Chain2(context.Background(), 21, double, stringify)
	require.NoError(t, err)
	assert.Equal(t, "42", out)
}

func TestChain2FirstStepFailureSkipsSecond(t *testing.T) {
	invoked := false
	out, err := Chain2(context.Background(), 1, failInt,
		func(_ context.Context, in int) (string, error) {
			invoked = true
			return stringify(nil, in)
		})
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, out)
	assert.False(t, invoked, "second step must not run after a failure")
}

func TestChain3(t *testing.T) {
	out, err := Chain3(context.Background(), 10, double, double, stringify)
	require.NoError(t, err)
	assert.Equal(t, "40", out)
}

func TestChain3MiddleFailureSkipsTail(t *testing.T) {
	invoked := false
	_, err := Chain3(context.Background(), 10, double, failInt,
		func(_ context.Context, in int) (string, error) {
			invoked = true
			return stringify(nil, in)
		})
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, invoked)
}

func TestChain2DeferredWaitsForInput(t *testing.T) {
	in := Go(func() (int, error) { return 3, nil })
	out, err := Chain2Deferred(context.Background(), in, double, stringify)
	require.NoError(t, err)
	assert.Equal(t, "6", out)
}

func TestChain2DeferredFailedInputSkipsAllSteps(t *testing.T) {
	in := Resolved(0, errBoom)
	invoked := false
	_, err := Chain2Deferred(context.Background(), in,
		func(_ context.Context, in int) (int, error) {
			invoked = true
			return in, nil
		}, stringify)
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, invoked, "no step may run when the input failed")
}

func TestChain3DeferredFailedInputSkipsAllSteps(t *testing.T) {
	in := Resolved(0, errBoom)
	_, err := Chain3Deferred(context.Background(), in, double, double, stringify)
	assert.ErrorIs(t, err, errBoom)
}
