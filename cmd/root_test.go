package cmd

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "srwatch dev") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestKeys_PrintsSessionKeysAndHash(t *testing.T) {
	out, err := run(t, "keys", "--password", "hunter2")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	for _, want := range []string{"export SESSION_HASH_KEY=", "export SESSION_BLOCK_KEY=", "export STATUS_PASSWORD_BCRYPT="} {
		if !strings.Contains(out, want) {
			t.Fatalf("keys output missing %q:\n%s", want, out)
		}
	}
	var hash string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "export STATUS_PASSWORD_BCRYPT=") {
			hash = strings.Trim(strings.TrimPrefix(line, "export STATUS_PASSWORD_BCRYPT="), "'")
		}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")); err != nil {
		t.Fatalf("printed hash does not match password: %v", err)
	}
}

func TestOnce_RejectsInvalidConfig(t *testing.T) {
	t.Setenv("VENUE", "v")
	t.Setenv("DATES_NEEDED", "not-a-date")
	t.Setenv("TIMES_NEEDED", "19:00")

	if _, err := run(t, "once"); err == nil || !strings.Contains(err.Error(), "DATES_NEEDED") {
		t.Fatalf("want DATES_NEEDED validation error, got %v", err)
	}
}

func TestNotifyTest_FailsWhenNothingDelivered(t *testing.T) {
	t.Setenv("VENUE", "v")
	t.Setenv("DATES_NEEDED", "2024-05-01")
	t.Setenv("TIMES_NEEDED", "19:00")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("ENABLE_EMAIL", "false")

	out, err := run(t, "notify-test")
	if err == nil || !strings.Contains(err.Error(), "no channel delivered") {
		t.Fatalf("want no-delivery error, got %v", err)
	}
	for _, want := range []string{"telegram: skipped", "email: skipped"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
