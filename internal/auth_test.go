package internal

import "testing"

func TestGuard_Disabled(t *testing.T) {
	g := NewGuard("")
	if g.Enabled() {
		t.Fatal("guard with empty token should be disabled")
	}
	for _, candidate := range []string{"", "anything", "secret"} {
		if !g.Authorize(candidate) {
			t.Errorf("disabled guard rejected %q", candidate)
		}
	}
}

func TestGuard_Enabled(t *testing.T) {
	g := NewGuard("secret")
	if !g.Enabled() {
		t.Fatal("guard with token should be enabled")
	}
	if !g.Authorize("secret") {
		t.Error("correct token rejected")
	}
	for _, candidate := range []string{"", "wrong", "secret ", "Secret", "secrets"} {
		if g.Authorize(candidate) {
			t.Errorf("guard accepted %q", candidate)
		}
	}
}
