package utils

import (
	"context"
	"testing"
)

func TestCorrelationIdContextRoundtrip(t *testing.T) {
	ctx := context.Background()

	if _, ok := GetCorrelationIdFromContext(ctx); ok {
		t.Fatalf("bare context should carry no correlation id")
	}

	ctx = SetCorrelationIdInContext(ctx, "abc-123")
	cid, ok := GetCorrelationIdFromContext(ctx)
	if !ok || cid != "abc-123" {
		t.Fatalf("expected abc-123, got %q (ok=%v)", cid, ok)
	}
}
