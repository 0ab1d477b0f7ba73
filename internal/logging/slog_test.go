package logging

import (
	"errors"
	"strings"
	"testing"
)

func TestAnonymizeSubject(t *testing.T) {
	if got := AnonymizeSubject(""); got != "" {
		t.Errorf("expected empty string for empty subject, got %q", got)
	}

	hashed := AnonymizeSubject("auth0|123")
	if !strings.HasPrefix(hashed, "sub:") {
		t.Errorf("expected sub: prefix, got %q", hashed)
	}
	if strings.Contains(hashed, "auth0|123") {
		t.Errorf("anonymized subject leaks raw value: %q", hashed)
	}

	// Same input must hash to the same value for log correlation.
	if AnonymizeSubject("auth0|123") != hashed {
		t.Error("expected deterministic hashing")
	}
	if AnonymizeSubject("auth0|456") == hashed {
		t.Error("expected different subjects to hash differently")
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken(""); got != "<empty>" {
		t.Errorf("expected <empty>, got %q", got)
	}

	token := "eyJhbGciOiJSUzI1NiJ9.payload.signature"
	got := SanitizeToken(token)
	if strings.Contains(got, "eyJ") {
		t.Errorf("sanitized token leaks content: %q", got)
	}
	if got != "[token:38 chars]" {
		t.Errorf("unexpected sanitized form: %q", got)
	}
}

func TestErrNilSafe(t *testing.T) {
	attr := Err(nil)
	if attr.Key != "" {
		t.Errorf("expected empty group for nil error, got key %q", attr.Key)
	}

	attr = Err(errors.New("boom"))
	if attr.Key != KeyError {
		t.Errorf("expected %q key, got %q", KeyError, attr.Key)
	}
	if attr.Value.String() != "boom" {
		t.Errorf("expected error message, got %q", attr.Value.String())
	}
}
