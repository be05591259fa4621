package main

import "testing"

func TestCanonicalConfigKey(t *testing.T) {
	cases := map[string]string{
		"max-retries":  "max_retries",
		"max_retries":  "max_retries",
		"backoff-base": "backoff_base",
		"backoff_base": "backoff_base",
		"custom-key":   "custom_key",
	}
	for in, want := range cases {
		if got := canonicalConfigKey(in); got != want {
			t.Errorf("canonicalConfigKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateConfigValue(t *testing.T) {
	if err := validateConfigValue("max_retries", "5"); err != nil {
		t.Fatalf("expected valid max_retries, got %v", err)
	}
	if err := validateConfigValue("max_retries", "nope"); err == nil {
		t.Fatal("expected error for non-integer max_retries")
	}
	if err := validateConfigValue("backoff_base", "2.5"); err != nil {
		t.Fatalf("expected valid backoff_base, got %v", err)
	}
	if err := validateConfigValue("backoff_base", "nope"); err == nil {
		t.Fatal("expected error for non-numeric backoff_base")
	}
	if err := validateConfigValue("unknown_key", "anything"); err != nil {
		t.Fatalf("expected no validation for unrecognized key, got %v", err)
	}
}
