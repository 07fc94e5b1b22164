package shared

import "context"

type accountIDContextKey struct{}

// ContextWithAccountID stores the authenticated account id in context.
func ContextWithAccountID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, accountIDContextKey{}, id)
}

// AccountIDFromContext extracts the authenticated account id from context.
func AccountIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(accountIDContextKey{}).(int64)
	return id, ok
}
