package httpapi

import "context"

func WithRequestIDForTest(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}
