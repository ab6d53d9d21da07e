package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestSimpleProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)

	p.Start(4)
	p.Done(true)
	p.Done(false)
	p.Done(true)
	p.Done(true)
	p.Finish()

	ok, failed := p.Counts()
	if ok != 3 || failed != 1 {
		t.Errorf("Counts() = %d, %d, want 3, 1", ok, failed)
	}

	out := buf.String()
	for _, want := range []string{"(2/4, 1 failed)", "100%", "3 succeeded, 1 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSimpleProgress_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)

	p.Start(0)
	p.Done(true)
	if strings.Contains(buf.String(), "[") {
		t.Errorf("no bar expected without a total, got %q", buf.String())
	}
}

func TestSimpleProgress_Restart(t *testing.T) {
	p := NewProgressReporter(&bytes.Buffer{})
	p.Start(2)
	p.Done(false)
	p.Start(2)
	if ok, failed := p.Counts(); ok != 0 || failed != 0 {
		t.Errorf("Start should reset counts, got %d, %d", ok, failed)
	}
}

var _ ProgressReporter = (*SimpleProgress)(nil)
