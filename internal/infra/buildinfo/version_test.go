package buildinfo

import (
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	// Check that all fields are populated with at least default values
	if info.Version == "" {
		t.Error("Version should not be empty")
	}
	if info.Commit == "" {
		t.Error("Commit should not be empty")
	}
	if info.BuildTime == "" {
		t.Error("BuildTime should not be empty")
	}
	if info.GoVersion == "" {
		t.Error("GoVersion should not be empty")
	}

	// Check default values
	if info.Version != "dev" {
		t.Logf("Version is customized: %s", info.Version)
	}
}

func TestString(t *testing.T) {
	s := String()

	// Should contain version
	if s == "" {
		t.Error("String() should not return empty")
	}

	// Should contain "built at"
	if len(s) < 10 {
		t.Error("String() should return a meaningful string")
	}

	// Check format: "version (commit) built at time"
	expected := Version + " (" + Commit + ") built at " + BuildTime
	if s != expected {
		t.Errorf("String() = %q, want %q", s, expected)
	}
}

func TestInfo_Fields(t *testing.T) {
	info := Get()

	// Verify JSON tags are present by checking field accessibility
	tests := []struct {
		name  string
		value string
	}{
		{"Version", info.Version},
		{"Commit", info.Commit},
		{"BuildTime", info.BuildTime},
		{"GoVersion", info.GoVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Errorf("%s field should not be empty", tt.name)
			}
		})
	}
}

func TestDefaultValues(t *testing.T) {
	if Version != "dev" {
		t.Errorf("Version = %q, want %q as the unbuilt default", Version, "dev")
	}
	if Commit != "unknown" {
		t.Errorf("Commit = %q, want %q as the unbuilt default", Commit, "unknown")
	}
	if BuildTime != "unknown" {
		t.Errorf("BuildTime = %q, want %q as the unbuilt default", BuildTime, "unknown")
	}
	if GoVersion != "unknown" {
		t.Errorf("GoVersion = %q, want %q as the unbuilt default", GoVersion, "unknown")
	}
}

func TestInfo_LogFields(t *testing.T) {
	info := Get()
	fields := info.LogFields()

	if len(fields)%2 != 0 {
		t.Fatalf("LogFields() returned %d entries, want an even key/value count", len(fields))
	}

	want := map[string]string{
		"version":    info.Version,
		"commit":     info.Commit,
		"build_time": info.BuildTime,
		"go_version": info.GoVersion,
	}

	got := make(map[string]string, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			t.Fatalf("LogFields()[%d] = %v, want a string key", i, fields[i])
		}
		val, ok := fields[i+1].(string)
		if !ok {
			t.Fatalf("LogFields()[%d] = %v, want a string value", i+1, fields[i+1])
		}
		got[key] = val
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("LogFields()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
