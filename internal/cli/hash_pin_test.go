package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/terraincognita07/daybloom/internal/security"
)

func scriptedReader(lines ...string) func() ([]byte, error) {
	return func() ([]byte, error) {
		if len(lines) == 0 {
			return nil, errors.New("no more input")
		}
		next := lines[0]
		lines = lines[1:]
		return []byte(next), nil
	}
}

func TestPromptPINRequiresMatchingEntries(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	pin, err := promptPIN(&out, scriptedReader("2468", "2468"))
	if err != nil {
		t.Fatalf("promptPIN returned error: %v", err)
	}
	if pin != "2468" {
		t.Fatalf("promptPIN = %q, want 2468", pin)
	}
	if !strings.Contains(out.String(), "Repeat PIN: ") {
		t.Fatalf("expected confirmation prompt, got %q", out.String())
	}

	if _, err := promptPIN(&out, scriptedReader("2468", "1357")); !errors.Is(err, errPINMismatch) {
		t.Fatalf("expected errPINMismatch, got %v", err)
	}
}

func TestPromptPINRejectsInvalidPIN(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if _, err := promptPIN(&out, scriptedReader("12")); !errors.Is(err, security.ErrInvalidPIN) {
		t.Fatalf("expected ErrInvalidPIN, got %v", err)
	}
	if _, err := promptPIN(&out, scriptedReader()); err == nil {
		t.Fatal("expected read failure to be reported")
	}
}

func TestRunHashPINCommandGenerate(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := RunHashPINCommand(nil, &out, true); err != nil {
		t.Fatalf("RunHashPINCommand returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected pin and hash lines, got %q", out.String())
	}
	pin := strings.TrimPrefix(lines[0], "PIN: ")
	if len(pin) != generatedPINLength {
		t.Fatalf("generated pin %q has wrong length", pin)
	}
	hash := strings.TrimPrefix(lines[1], "LOCK_PIN_HASH=")
	if !security.CheckPIN(hash, pin) {
		t.Fatal("printed hash does not match printed pin")
	}
}
