package web

import (
	"context"
	"net"
	"net/http"

	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/core"
)

// withClientInfo records the caller for the import run. RemoteAddr has
// already been rewritten by TrustedRealIP, but still carries the port when
// the request came straight from the peer.
func withClientInfo(ctx context.Context, r *http.Request) context.Context {
	return core.WithClientInfo(ctx, core.ClientInfo{
		IPAddress: clientIP(r.RemoteAddr),
		UserAgent: r.UserAgent(),
	})
}

// clientIP drops the port from addr. Values without one pass through.
func clientIP(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
