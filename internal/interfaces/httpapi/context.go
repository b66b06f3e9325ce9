package httpapi

import (
	"context"
)

type contextKey string

const requestInfoContextKey contextKey = "request_info"

// requestInfo is shared by pointer so inner handlers can report the matched
// route back to the outer logging middleware.
type requestInfo struct {
	requestID string
	route     string
}

func withRequestInfo(ctx context.Context, info *requestInfo) context.Context {
	return context.WithValue(ctx, requestInfoContextKey, info)
}

func requestInfoFromContext(ctx context.Context) (*requestInfo, bool) {
	info, ok := ctx.Value(requestInfoContextKey).(*requestInfo)
	return info, ok && info != nil
}

// RequestIDFromContext returns the id assigned by RequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	info, ok := requestInfoFromContext(ctx)
	if !ok {
		return ""
	}
	return info.requestID
}
