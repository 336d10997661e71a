package params

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Overrides carries the env-var and CLI overrides spec §4.1a allows on top
// of the parameter document, applied before validation and canonicalization.
type Overrides struct {
	MaxWorkers   *int
	LogLevel     *string
	StageTimeout *string
	Set          map[string]string // "key=value" flattened dotted-path overrides from --set
}

// OverridesFromEnv reads the only environment variables the core reads
// (spec §6): AUCS_MAX_WORKERS, AUCS_LOG_LEVEL, AUCS_STAGE_TIMEOUT.
func OverridesFromEnv() Overrides {
	var o Overrides
	if v := os.Getenv("AUCS_MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			o.MaxWorkers = &n
		}
	}
	if v := os.Getenv("AUCS_LOG_LEVEL"); v != "" {
		o.LogLevel = &v
	}
	if v := os.Getenv("AUCS_STAGE_TIMEOUT"); v != "" {
		o.StageTimeout = &v
	}
	return o
}

// Load reads a parameter document from path, applies overrides, validates,
// and canonicalizes. Any failure is fatal and wrapped with the offending
// field path per spec §4.1.
func Load(path string, overrides Overrides) (*Snapshot, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read parameter document %s: %w", path, err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse parameter document %s: %w", path, err)
	}

	applySetOverrides(&snap, overrides.Set)

	if errs := Validate(&snap); len(errs) > 0 {
		return nil, fmt.Errorf("parameter validation failed: %s", strings.Join(errs, "; "))
	}

	if err := Canonicalize(&snap); err != nil {
		return nil, fmt.Errorf("canonicalize parameters: %w", err)
	}

	return &snap, nil
}

// applySetOverrides resolves a small set of dotted "--set key=value" paths
// into their typed homes. Unknown keys are ignored at this layer; Validate
// still catches any structural problem the override introduces.
func applySetOverrides(snap *Snapshot, set map[string]string) {
	for key, val := range set {
		parts := strings.SplitN(key, ".", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "subscores":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				if snap.Subscores == nil {
					snap.Subscores = make(map[string]float64)
				}
				snap.Subscores[parts[1]] = f
			}
		case "quality":
			if parts[1] == "hours_blend_xi" {
				if f, err := strconv.ParseFloat(val, 64); err == nil {
					snap.Quality.HoursBlendXi = f
				}
			}
		}
	}
}
