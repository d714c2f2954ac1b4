package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/familytree/internal/core"
)

type ctxKey int

const (
	ctxKeyTree ctxKey = iota
	ctxKeyViewer
)

// clientIP is the remote address without its port. TrustedRealIP has
// already replaced it with the forwarded address for trusted proxies.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func withTree(ctx context.Context, tree core.Tree, viewer core.Viewer) context.Context {
	ctx = context.WithValue(ctx, ctxKeyTree, tree)
	return context.WithValue(ctx, ctxKeyViewer, viewer)
}

// treeFromContext returns the tree and viewer set by the tree middleware.
func treeFromContext(ctx context.Context) (core.Tree, core.Viewer) {
	tree, _ := ctx.Value(ctxKeyTree).(core.Tree)
	viewer, _ := ctx.Value(ctxKeyViewer).(core.Viewer)
	return tree, viewer
}
