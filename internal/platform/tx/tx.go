package tx

import "context"

// Manager runs fn inside one storage transaction. Stores that support it
// pick the transaction up from the context fn receives.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

// NoopManager runs fn directly, for stores without transactions.
type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
