package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_PATH", "PUZZLE_TZ", "PUZZLE_RNG", "PUZZLE_SALT", "MAX_GUESSES", "ANON_COOKIE_SECURE"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "5175" || cfg.Zone != "America/Los_Angeles" || cfg.RNG != "seedrandom" || cfg.MaxGuesses != 5 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.DBPath != "" || cfg.SecureCookie {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverridesAndValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(*Config) bool
	}{
		{
			name:  "overrides",
			env:   map[string]string{"PORT": "9000", "MAX_GUESSES": "6", "DB_PATH": "data/r.db", "ANON_COOKIE_SECURE": "true"},
			check: func(c *Config) bool { return c.Port == "9000" && c.MaxGuesses == 6 && c.DBPath == "data/r.db" && c.SecureCookie },
		},
		{name: "bad budget", env: map[string]string{"MAX_GUESSES": "zero"}, wantErr: true},
		{name: "negative budget", env: map[string]string{"MAX_GUESSES": "-1"}, wantErr: true},
		{name: "bad bool", env: map[string]string{"ANON_COOKIE_SECURE": "maybe"}, wantErr: true},
		{name: "hmac without salt", env: map[string]string{"PUZZLE_RNG": "hmac", "PUZZLE_SALT": ""}, wantErr: true},
		{
			name:  "hmac with salt",
			env:   map[string]string{"PUZZLE_RNG": "hmac", "PUZZLE_SALT": "s3cret"},
			check: func(c *Config) bool { return c.RNG == "hmac" && c.Salt == "s3cret" },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"PORT", "DB_PATH", "PUZZLE_RNG", "PUZZLE_SALT", "MAX_GUESSES", "ANON_COOKIE_SECURE"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("config = %+v", cfg)
			}
		})
	}
}
