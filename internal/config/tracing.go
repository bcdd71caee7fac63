package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultConfigPath is the path to the canonical tracing defaults file.
const DefaultConfigPath = "config/tracing.defaults.json"

// Log stream destinations accepted by the *_log fields.
const (
	LogStdout = "stdout"
	LogStderr = "stderr"
	LogOff    = "off"
)

// TracingConfig holds the runtime knobs for batch ray tracing. Every field
// is optional; the Get* methods supply defaults for anything left unset so
// partial files are safe.
type TracingConfig struct {
	// Workers caps the number of tracing goroutines per batch.
	// 0 means runtime.GOMAXPROCS(0).
	Workers *int `json:"workers,omitempty"`

	OpsLog   *string `json:"ops_log,omitempty"`   // "stdout", "stderr" or "off"
	DiagLog  *string `json:"diag_log,omitempty"`  // "stdout", "stderr" or "off"
	TraceLog *string `json:"trace_log,omitempty"` // "stdout", "stderr" or "off"

	MetricsEnabled *bool `json:"metrics_enabled,omitempty"`
}

func ptrInt(v int) *int          { return &v }
func ptrBool(v bool) *bool       { return &v }
func ptrString(v string) *string { return &v }

// EmptyTracingConfig returns a TracingConfig with all fields nil.
func EmptyTracingConfig() *TracingConfig {
	return &TracingConfig{}
}

// DefaultTracingConfig returns the built-in defaults with every field set.
// It matches config/tracing.defaults.json.
func DefaultTracingConfig() *TracingConfig {
	return &TracingConfig{
		Workers:        ptrInt(0),
		OpsLog:         ptrString(LogStderr),
		DiagLog:        ptrString(LogOff),
		TraceLog:       ptrString(LogOff),
		MetricsEnabled: ptrBool(true),
	}
}

// LoadTracingConfig loads a TracingConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadTracingConfig(path string) (*TracingConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTracingConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TracingConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/raytrace/raytracetest/
	}
	for _, path := range candidates {
		if cfg, err := LoadTracingConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TracingConfig) Validate() error {
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	for name, v := range map[string]*string{"ops_log": c.OpsLog, "diag_log": c.DiagLog, "trace_log": c.TraceLog} {
		if v == nil {
			continue
		}
		switch strings.ToLower(*v) {
		case "", LogStdout, LogStderr, LogOff:
		default:
			return fmt.Errorf("%s must be one of stdout, stderr, off; got %q", name, *v)
		}
	}
	return nil
}

// GetWorkers returns the effective worker cap, resolving 0 to GOMAXPROCS.
func (c *TracingConfig) GetWorkers() int {
	if c.Workers == nil || *c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return *c.Workers
}

// GetMetricsEnabled returns the metrics_enabled value or the default.
func (c *TracingConfig) GetMetricsEnabled() bool {
	if c.MetricsEnabled == nil {
		return true
	}
	return *c.MetricsEnabled
}

// LogWriters resolves the three stream settings to writers. Unset streams
// fall back to the defaults (ops on stderr, diag and trace off); "off"
// yields a nil writer.
func (c *TracingConfig) LogWriters(stdout, stderr io.Writer) (ops, diag, trace io.Writer) {
	pick := func(v *string, def string) io.Writer {
		dest := def
		if v != nil && *v != "" {
			dest = strings.ToLower(*v)
		}
		switch dest {
		case LogStdout:
			return stdout
		case LogStderr:
			return stderr
		default:
			return nil
		}
	}
	return pick(c.OpsLog, LogStderr), pick(c.DiagLog, LogOff), pick(c.TraceLog, LogOff)
}
