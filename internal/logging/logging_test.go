package logging

import "testing"

func TestNew(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		l, err := New(lvl)
		if err != nil {
			t.Errorf("level %s: %v", lvl, err)
			continue
		}
		_ = l.Sync()
	}

	if _, err := New("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected nop logger")
	}
	l := NewTestLogger(t)
	if OrNop(l) != l {
		t.Error("expected logger passthrough")
	}
}
