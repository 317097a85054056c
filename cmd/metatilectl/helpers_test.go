package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/metatilekit/internal/host"
	"github.com/joshuapare/metatilekit/internal/project"
	"github.com/joshuapare/metatilekit/internal/testutil"
)

// resetFlags restores every package-level flag to its default.
func resetFlags() {
	verbose = false
	quiet = false
	jsonOut = false
	noColor = true
	configPath = ""
	cfg = nil

	initPrimary, initSecondary = 512, 512
	initWidth, initHeight = 20, 20
	initName = ""
	initForce = false
	statsTop = 10
	paintCollision, paintElevation = -1, -1
	cleanupDryRun = false
	watchMetricsAddr = ""
}

// writeProject saves h as a project file in a temp dir and returns its path.
func writeProject(t *testing.T, h *host.Memory) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "route1.json")
	f := project.New("route1", h.NumPrimaryMetatiles(), h.NumSecondaryMetatiles(), h.Width(), h.Height())
	if err := f.Update(h); err != nil {
		t.Fatalf("update project: %v", err)
	}
	if err := project.Save(path, f); err != nil {
		t.Fatalf("save project: %v", err)
	}
	return path
}

// scenarioProject writes the merge scenario (slot 5 bottom, slot 9 top, map
// filled with slot 1) and returns its path.
func scenarioProject(t *testing.T, withComposite bool) string {
	t.Helper()
	return writeProject(t, testutil.SetupMergeScenario(t, withComposite))
}

// loadHost reads the project at path back into a host.
func loadHost(t *testing.T, path string) *host.Memory {
	t.Helper()
	f, err := project.Load(path)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	h, err := f.Host()
	if err != nil {
		t.Fatalf("build host: %v", err)
	}
	return h
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Drain concurrently so long outputs cannot fill the pipe
	var buf bytes.Buffer
	done := make(chan error, 1)
	go func() {
		_, err := buf.ReadFrom(r)
		done <- err
	}()

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	if err := <-done; err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
