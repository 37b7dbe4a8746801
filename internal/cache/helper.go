package cache

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// startSpan opens a cache span when the request is traced. The result may be
// nil and is closed with finishSpan.
func startSpan(ctx context.Context, operation, key string) *sentry.Span {
	if sentry.TransactionFromContext(ctx) == nil {
		return nil
	}
	span := sentry.StartSpan(ctx, "cache.inmemory."+operation)
	span.Op = "cache"
	span.SetData("key", key)
	return span
}

func finishSpan(span *sentry.Span, hit bool) {
	if span == nil {
		return
	}
	span.SetData("hit", hit)
	span.Finish()
}
