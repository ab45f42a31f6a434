package config_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/louisbranch/ziwei/internal/platform/config"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err  error
		want int
	}{
		"nil":         {nil, 0},
		"failure":     {errors.New("boom"), 1},
		"interrupted": {fmt.Errorf("interpret chart: %w", context.Canceled), config.ExitInterrupted},
		"deadline":    {context.DeadlineExceeded, 1},
	}
	for name, tc := range tcs {
		if got := config.ExitCode(tc.err); got != tc.want {
			t.Errorf("%s: ExitCode = %d, want %d", name, got, tc.want)
		}
	}
}

// os.Exit cannot be intercepted in-process, so the test re-runs itself.
func TestExitWritesActionAndExits(t *testing.T) {
	if os.Getenv("ZIWEI_TEST_EXIT_SUBPROCESS") == "1" {
		config.Exit("chart", errors.New("bad port"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitWritesActionAndExits$")
	cmd.Env = append(os.Environ(), "ZIWEI_TEST_EXIT_SUBPROCESS=1")

	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %d", exitErr.ExitCode())
	}
	if !strings.Contains(string(out), "chart: bad port") {
		t.Fatalf("expected stderr to contain %q, got %q", "chart: bad port", string(out))
	}
}
