package cli

import (
	"context"
	"syscall"
	"testing"
	"time"
)

func TestSetupSignalHandler(t *testing.T) {
	ctx, stop := SetupSignalHandler()
	defer stop()

	select {
	case <-ctx.Done():
		t.Error("context should not be canceled initially")
	default:
	}
}

func TestWithSignals_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := WithSignals(parent)
	defer stop()

	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context should follow its parent")
	}
}

func TestWithSignals_ReceivesSignal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping signal test in short mode")
	}

	ctx, stop := SetupSignalHandler()
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("send SIGTERM: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not canceled by SIGTERM")
	}
}
