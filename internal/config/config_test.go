package config

import "testing"

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]string{"--rom", "game.nes"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Scale != 2 || cfg.Fullscreen || cfg.Filter != "nearest" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if w, h := cfg.WindowSize(); w != 512 || h != 480 {
		t.Fatalf("WindowSize = %dx%d, want 512x480", w, h)
	}
}

func TestParseRequiresROM(t *testing.T) {
	if _, err := Parse([]string{}); err == nil {
		t.Fatal("expected error when --rom is missing")
	}
}

func TestParseRejectsUnknownFilter(t *testing.T) {
	if _, err := Parse([]string{"--rom", "game.nes", "--filter", "cubic"}); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}

func TestParseOverridesScale(t *testing.T) {
	cfg, err := Parse([]string{"--rom", "game.nes", "--scale", "3", "--fullscreen"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Scale != 3 || !cfg.Fullscreen {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}
