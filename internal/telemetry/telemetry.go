// Package telemetry appends JSONL event lines for offline inspection of a
// run. Emission is off unless SK_OBSERVE_JSON=1, so the journal costs
// nothing in normal use.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Enabled reports whether event emission is switched on.
func Enabled() bool {
	return os.Getenv("SK_OBSERVE_JSON") == "1"
}

// eventsPath resolves the journal location: SK_EVENTS_PATH wins, otherwise
// events.jsonl under the data dir (SK_DATA_DIR, default .sidekick).
func eventsPath() string {
	if p := os.Getenv("SK_EVENTS_PATH"); p != "" {
		return p
	}
	dir := os.Getenv("SK_DATA_DIR")
	if dir == "" {
		dir = ".sidekick"
	}
	return filepath.Join(dir, "events.jsonl")
}

// Emit writes one JSON line named by event. It augments fields with an
// RFC3339Nano "ts", the event name, and the turn ID carried in ctx when one
// is set. Failures are reported on stderr and never propagate: telemetry
// must not be able to break a turn.
func Emit(ctx context.Context, event string, fields map[string]any) {
	if !Enabled() {
		return
	}

	// Shallow copy so callers' maps aren't mutated.
	m := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		m[k] = v
	}
	m["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["event"] = event
	if id, ok := TurnIDFromContext(ctx); ok {
		m["turn_id"] = id
	}

	b, err := json.Marshal(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: marshal: %v\n", err)
		return
	}

	path := eventsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", filepath.Dir(path), err)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: open %s: %v\n", path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write %s: %v\n", path, err)
	}
}
