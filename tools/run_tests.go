package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"strings"
	"time"

	"github.com/sidekick-cli/sidekick/internal/fsops"
	"github.com/sidekick-cli/sidekick/internal/safety"
)

type RunTestsInput struct {
	Dir     string `json:"dir,omitempty" jsonschema_description:"Relative directory whose packages to test recursively (defaults to the whole workspace)."`
	Run     string `json:"run,omitempty" jsonschema_description:"Optional regexp passed to -run to select tests."`
	Verbose bool   `json:"verbose,omitempty" jsonschema_description:"Pass -v for per-test output."`
}

// testTimeout bounds one test run; a hung suite becomes a tool error
// instead of a hung turn.
const testTimeout = 30 * time.Second

var RunTestsDefinition = ToolDefinition{
	Name:        "run_tests",
	Description: "Run go test for packages under a relative directory within the workspace (recursive). Output is capped; runs are limited to 30 seconds.",
	InputSchema: RunTestsInputSchema,
	Function:    RunTests,
}

var RunTestsInputSchema = GenerateSchema[RunTestsInput]()

// RunTests shells out to go test under the workspace root. A failing suite
// is a successful tool call whose text reports the failure; only timeouts,
// policy violations, and a missing toolchain are handler errors.
func RunTests(input json.RawMessage) (string, error) {
	var in RunTestsInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}

	root, err := fsops.Root()
	if err != nil {
		return "", err
	}
	dir := in.Dir
	if dir == "" {
		dir = "."
	}
	if _, err := safety.ValidateRelPath(root, dir); err != nil {
		return "", err
	}

	args := []string{"test"}
	if in.Verbose {
		args = append(args, "-v")
	}
	if in.Run != "" {
		args = append(args, "-run", in.Run)
	}
	args = append(args, "./"+path.Join(path.Clean(dir), "..."))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = root

	out, runErr := cmd.CombinedOutput()
	text, _ := clampRunes(string(out), overallRuneCap)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("test run timed out after %s", testTimeout)
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return fmt.Sprintf("Tests failed (exit %d).\n\n%s", exitErr.ExitCode(), strings.TrimSpace(text)), nil
		}
		// go binary missing, permission trouble, and similar start failures
		return "", fmt.Errorf("run go test: %w", runErr)
	}
	return fmt.Sprintf("All tests passed.\n\n%s", strings.TrimSpace(text)), nil
}
