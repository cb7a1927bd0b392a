package shutdown

import (
	"context"
	"testing"
)

func TestContextCancelledByParent(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, stop := Context(parent)
	defer stop()

	cancelParent()
	<-ctx.Done()
	if ctx.Err() == nil {
		t.Error("expected context error after parent cancel")
	}
}
