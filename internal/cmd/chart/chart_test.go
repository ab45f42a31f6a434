package chart

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("chart", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8090 {
		t.Fatalf("expected default port 8090, got %d", cfg.Port)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("ZIWEI_CHART_PORT", "9100")

	fs := flag.NewFlagSet("chart", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9100 {
		t.Fatalf("expected env port 9100, got %d", cfg.Port)
	}

	fs = flag.NewFlagSet("chart", flag.ContinueOnError)
	cfg, err = ParseConfig(fs, []string{"-port", "9200"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9200 {
		t.Fatalf("expected flag port 9200, got %d", cfg.Port)
	}
}
