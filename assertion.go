package wpfs

import (
	"context"
)

// errorCarrier is implemented by result structs that report failure through
// an error field instead of an error return.
type errorCarrier interface {
	ResultError() string
}

// guard validates results for the guarded decorators. It consults the
// settings on every call so toggling guarded mode affects live instances.
type guard struct {
	env *Environment
}

func (g guard) enabled() bool {
	return g.env.settings().Guarded()
}

// truthy reports whether a successful result counts as success. Only a
// boolean false is falsy; empty strings and slices are valid answers.
func truthy(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// failure converts host error objects and error carriers to an *FSError.
func failure(op string, result any, err error) (*FSError, bool) {
	if he, ok := AsHostError(err); ok {
		return newFailure(op, he.Message), true
	}
	if c, ok := result.(errorCarrier); ok && c.ResultError() != "" {
		return newFailure(op, c.ResultError()), true
	}
	return nil, false
}

// validateResource checks the outcome of an operation on resource. A failed
// call is diagnosed by checking whether resource exists: if it does the
// failure is reported as a permission problem, otherwise as not found.
func validateResource[T any](ctx context.Context, g guard, op string, result T, err error, resource string) (T, error) {
	if !g.enabled() {
		return result, err
	}
	if fsErr, ok := failure(op, result, err); ok {
		return result, fsErr
	}
	if err == nil && truthy(result) {
		return result, nil
	}
	if g.env.Host.Exists(ctx, resource) {
		return result, newPermission(op, resource)
	}
	return result, newNotFound(op, resource)
}

// ensureSuccessful fails with a generic error on any unsuccessful outcome.
func ensureSuccessful[T any](g guard, op string, result T, err error) (T, error) {
	if !g.enabled() {
		return result, err
	}
	if fsErr, ok := failure(op, result, err); ok {
		return result, fsErr
	}
	if err != nil {
		return result, newFailure(op, err.Error())
	}
	if !truthy(result) {
		return result, newFailure(op, "")
	}
	return result, nil
}

// ensureExists is a precondition check for operations that assume resource
// is already there.
func (g guard) ensureExists(ctx context.Context, op, resource string) error {
	if g.enabled() && !g.env.Host.Exists(ctx, resource) {
		return newNotFound(op, resource)
	}
	return nil
}

// done turns an error-only outcome into a value the guards can inspect.
func done(err error) bool { return err == nil }
