package core

import "context"

type contextKey struct{}

// ClientInfo identifies who submitted an import, for the run record.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// WithClientInfo attaches client details to ctx.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, contextKey{}, info)
}

// ClientInfoFrom returns the client details on ctx, if any.
func ClientInfoFrom(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(contextKey{}).(ClientInfo)
	return info
}
