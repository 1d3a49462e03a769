package domain

import "context"

// Driver is the opaque session capability (browser, remote UI client, ...).
// The engine never inspects it; it only threads it through to Conditions and Actions.
type Driver any

// Condition is a predicate over the current observable state of a session.
// Implementations must be safe to evaluate any number of times and must not
// mutate the session. A non-nil error is treated as a fault in caller code.
type Condition interface {
	Ready(ctx context.Context, d Driver) (bool, error)
}

// ConditionFunc adapts a plain function to the Condition interface.
type ConditionFunc func(ctx context.Context, d Driver) (bool, error)

// Ready implements Condition.
func (f ConditionFunc) Ready(ctx context.Context, d Driver) (bool, error) {
	return f(ctx, d)
}

// Evaluate reports whether c is ready. A nil Condition is trivially ready.
// Only an untyped nil counts as absent: a typed nil (a nil *T stored in the
// interface) is called like any other value. registry.AddState rejects such
// pages.
func Evaluate(ctx context.Context, c Condition, d Driver) (bool, error) {
	if c == nil {
		return true, nil
	}
	return c.Ready(ctx, d)
}

type allOf []Condition

// And returns a Condition that is ready iff every member is ready.
// Members are evaluated left to right and evaluation stops at the first false
// (or failing) member. Nothing is memoized between calls.
func And(conds ...Condition) Condition {
	return allOf(conds)
}

func (a allOf) Ready(ctx context.Context, d Driver) (bool, error) {
	for _, c := range a {
		ok, err := Evaluate(ctx, c, d)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

type anyOf []Condition

// Or returns a Condition that is ready iff at least one member is ready.
// Evaluation stops at the first true (or failing) member.
// An empty Or is never ready.
func Or(conds ...Condition) Condition {
	return anyOf(conds)
}

func (o anyOf) Ready(ctx context.Context, d Driver) (bool, error) {
	for _, c := range o {
		ok, err := Evaluate(ctx, c, d)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Not inverts c. Errors are passed through.
func Not(c Condition) Condition {
	return ConditionFunc(func(ctx context.Context, d Driver) (bool, error) {
		ok, err := Evaluate(ctx, c, d)
		if err != nil {
			return false, err
		}
		return !ok, nil
	})
}

// Always returns a Condition that is always ready.
func Always() Condition {
	return ConditionFunc(func(context.Context, Driver) (bool, error) {
		return true, nil
	})
}
