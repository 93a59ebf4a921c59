package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("unexpected default port: %s", cfg.Port)
	}
	if cfg.SessionStore != SessionStoreFile {
		t.Fatalf("unexpected default session store: %s", cfg.SessionStore)
	}
	if cfg.SessionMaxAge != 86400 {
		t.Fatalf("unexpected default session max age: %d", cfg.SessionMaxAge)
	}
	if !cfg.UsesDefaultSecrets() {
		t.Fatal("expected fallback secrets to be reported")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_STORE", SessionStoreRedis)
	t.Setenv("SESSION_SECRET", "override-session")
	t.Setenv("COOKIE_SECRET", "override-cookie")
	t.Setenv("SESSION_MAX_AGE_SECONDS", "600")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Fatalf("unexpected port: %s", cfg.Port)
	}
	if cfg.SessionStore != SessionStoreRedis {
		t.Fatalf("unexpected session store: %s", cfg.SessionStore)
	}
	if cfg.SessionMaxAge != 600 {
		t.Fatalf("unexpected session max age: %d", cfg.SessionMaxAge)
	}
	if cfg.UsesDefaultSecrets() {
		t.Fatal("overridden secrets reported as defaults")
	}
}

func TestLoadIgnoresInvalidMaxAge(t *testing.T) {
	t.Setenv("SESSION_MAX_AGE_SECONDS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SessionMaxAge != 86400 {
		t.Fatalf("expected default max age, got %d", cfg.SessionMaxAge)
	}
}

func TestValidateRejectsUnknownStore(t *testing.T) {
	cfg := &Config{
		GinMode:       "debug",
		SessionStore:  "memcached",
		SessionMaxAge: 60,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown session store")
	}
}

func TestValidateReleaseRequiresSecrets(t *testing.T) {
	cfg := &Config{
		GinMode:       "release",
		SessionStore:  SessionStoreFile,
		SessionMaxAge: 60,
		SessionSecret: DefaultSessionSecret,
		CookieSecret:  "real-cookie-secret",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for fallback session secret in release mode")
	}

	cfg.SessionSecret = "real-session-secret"
	cfg.CookieSecret = DefaultCookieSecret
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for fallback cookie secret in release mode")
	}

	cfg.CookieSecret = "real-cookie-secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid release config, got %v", err)
	}
}
