package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("SUBMISSION_COOLDOWN", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected default model %q", cfg.GeminiModel)
	}
	if cfg.SubmissionCooldown != 10*time.Minute {
		t.Fatalf("expected 10m cooldown, got %v", cfg.SubmissionCooldown)
	}
}

func TestLoadCooldownOverride(t *testing.T) {
	t.Setenv("SUBMISSION_COOLDOWN", "90s")
	if got := Load().SubmissionCooldown; got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}

	t.Setenv("SUBMISSION_COOLDOWN", "soon")
	if got := Load().SubmissionCooldown; got != 10*time.Minute {
		t.Fatalf("invalid value should keep default, got %v", got)
	}
}
