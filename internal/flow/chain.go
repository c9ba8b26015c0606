// Package flow provides small primitives for composing dependent
// asynchronous steps: sequential chains that short-circuit on the first
// failure, and futures with join-all semantics for fan-in.
package flow

import "context"

// Step is one asynchronous stage of a chain. It receives the previous
// stage's output and produces the next stage's input.
type Step[A, B any] func(ctx context.Context, in A) (B, error)

// Chain2 runs two dependent steps in sequence. The second step runs only
// if the first one succeeds; the first failure is returned unmodified.
func Chain2[A, B, R any](ctx context.Context, in A, op1 Step[A, B], op2 Step[B, R]) (R, error) {
	var zero R
	b, err := op1(ctx, in)
	if err != nil {
		return zero, err
	}
	return op2(ctx, b)
}

// Chain3 runs three dependent steps in sequence with the same
// short-circuit rule as Chain2.
func Chain3[A, B, C, R any](ctx context.Context, in A, op1 Step[A, B], op2 Step[B, C], op3 Step[C, R]) (R, error) {
	var zero R
	b, err := op1(ctx, in)
	if err != nil {
		return zero, err
	}
	c, err := op2(ctx, b)
	if err != nil {
		return zero, err
	}
	return op3(ctx, c)
}

// Chain2Deferred waits for an asynchronous input before starting the
// chain. If the input resolves to a failure, no step runs and that
// failure is returned unmodified.
func Chain2Deferred[A, B, R any](ctx context.Context, in *Future[A], op1 Step[A, B], op2 Step[B, R]) (R, error) {
	a, err := in.Await(ctx)
	if err != nil {
		var zero R
		return zero, err
	}
	return Chain2(ctx, a, op1, op2)
}

// Chain3Deferred is Chain3 over an asynchronous input.
func Chain3Deferred[A, B, C, R any](ctx context.Context, in *Future[A], op1 Step[A, B], op2 Step[B, C], op3 Step[C, R]) (R, error) {
	a, err := in.Await(ctx)
	if err != nil {
		var zero R
		return zero, err
	}
	return Chain3(ctx, a, op1, op2, op3)
}
