package config

import (
	"bytes"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/banshee-data/occupancy/internal/testutil"
)

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()

	if cfg.Workers == nil || *cfg.Workers != 0 {
		t.Errorf("Expected Workers 0, got %v", cfg.Workers)
	}
	if cfg.GetWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("GetWorkers() = %d, want GOMAXPROCS %d", cfg.GetWorkers(), runtime.GOMAXPROCS(0))
	}
	if !cfg.GetMetricsEnabled() {
		t.Error("GetMetricsEnabled() = false, want true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEmptyTracingConfigGetters(t *testing.T) {
	cfg := EmptyTracingConfig()
	if cfg.GetWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("GetWorkers() = %d, want GOMAXPROCS", cfg.GetWorkers())
	}
	if !cfg.GetMetricsEnabled() {
		t.Error("GetMetricsEnabled() should default to true")
	}

	var stdout, stderr bytes.Buffer
	ops, diag, trace := cfg.LogWriters(&stdout, &stderr)
	if ops != &stderr {
		t.Errorf("ops writer should default to stderr")
	}
	if diag != nil || trace != nil {
		t.Errorf("diag and trace should default to off, got %v %v", diag, trace)
	}
}

func TestLoadTracingConfig(t *testing.T) {
	path := testutil.WriteFile(t, "tracing.json", `{
  "workers": 3,
  "ops_log": "off",
  "diag_log": "STDOUT",
  "trace_log": "stderr",
  "metrics_enabled": false
}`)

	cfg, err := LoadTracingConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GetWorkers() != 3 {
		t.Errorf("GetWorkers() = %d, want 3", cfg.GetWorkers())
	}
	if cfg.GetMetricsEnabled() {
		t.Error("GetMetricsEnabled() = true, want false")
	}

	var stdout, stderr bytes.Buffer
	ops, diag, trace := cfg.LogWriters(&stdout, &stderr)
	if ops != nil {
		t.Errorf("ops should be off")
	}
	if diag != &stdout {
		t.Errorf("diag should be stdout")
	}
	if trace != &stderr {
		t.Errorf("trace should be stderr")
	}
}

func TestLoadTracingConfigPartial(t *testing.T) {
	path := testutil.WriteFile(t, "partial.json", `{"workers": 2}`)
	cfg, err := LoadTracingConfig(path)
	testutil.AssertNoError(t, err)
	if cfg.GetWorkers() != 2 {
		t.Errorf("GetWorkers() = %d, want 2", cfg.GetWorkers())
	}
	if cfg.MetricsEnabled != nil {
		t.Errorf("MetricsEnabled should stay nil, got %v", *cfg.MetricsEnabled)
	}
	if !cfg.GetMetricsEnabled() {
		t.Error("GetMetricsEnabled() should fall back to true")
	}
}

func TestLoadTracingConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"wrong extension", "tracing.yaml", `{}`, ".json extension"},
		{"bad json", "bad.json", `{"workers": `, "failed to parse config JSON"},
		{"negative workers", "neg.json", `{"workers": -1}`, "workers must be non-negative"},
		{"unknown stream", "stream.json", `{"diag_log": "syslog"}`, "diag_log must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, tt.file, tt.body)
			_, err := LoadTracingConfig(path)
			testutil.AssertError(t, err)
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want to contain %q", err, tt.wantErr)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTracingConfig(filepath.Join(t.TempDir(), "missing.json"))
		if err == nil || !strings.Contains(err.Error(), "failed to stat config file") {
			t.Errorf("expected stat error, got %v", err)
		}
	})

	t.Run("too large", func(t *testing.T) {
		big := `{"workers": 1` + strings.Repeat(" ", 1024*1024) + `}`
		path := testutil.WriteFile(t, "big.json", big)
		_, err := LoadTracingConfig(path)
		if err == nil || !strings.Contains(err.Error(), "config file too large") {
			t.Errorf("expected size error, got %v", err)
		}
	})
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	want := DefaultTracingConfig()
	if *cfg.Workers != *want.Workers {
		t.Errorf("Workers = %d, want %d", *cfg.Workers, *want.Workers)
	}
	if *cfg.OpsLog != *want.OpsLog || *cfg.DiagLog != *want.DiagLog || *cfg.TraceLog != *want.TraceLog {
		t.Errorf("log streams differ from built-in defaults: %q %q %q", *cfg.OpsLog, *cfg.DiagLog, *cfg.TraceLog)
	}
	if *cfg.MetricsEnabled != *want.MetricsEnabled {
		t.Errorf("MetricsEnabled = %v, want %v", *cfg.MetricsEnabled, *want.MetricsEnabled)
	}
}
