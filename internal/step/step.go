// Package step defines the pipeline step contract and the built-in steps.
//
// A step separates planning from execution: PlanIO declares the files a step
// will read and write without touching the filesystem, so a whole pipeline's
// wiring can be validated before any work starts; Run performs the actual
// work against the plan.
package step

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/closekit-dev/closekit/internal/config"
)

// IOPlan declares the named input and output paths of one step instance.
type IOPlan struct {
	Inputs  map[string]string
	Outputs map[string]string
}

// RunResult is the outcome of executing one step.
type RunResult struct {
	OK          bool
	Artifacts   map[string]string // output name -> produced path
	Diagnostics []string
	Err         error
}

// Step is a unit of pipeline work. PlanIO must be pure: no side effects and
// callable before any file exists.
type Step interface {
	Name() string
	PlanIO() (IOPlan, error)
	Run(plan IOPlan) RunResult
}

// Factory creates a step instance bound to an environment.
type Factory func(env Env) (Step, error)

// Env is the merged configuration a step instance is constructed with:
// the shared config plus the step's own params, which override it.
type Env struct {
	Config *config.Config
	Params map[string]any
	Period string
}

// Folder returns the path configured for a logical folder role.
func (e Env) Folder(role string) (string, error) {
	dir, ok := e.Config.Folders[role]
	if !ok {
		return "", fmt.Errorf("no folder configured for role %q", role)
	}
	return dir, nil
}

// artifactFolder maps logical artifact names to the folder role they live in.
var artifactFolder = map[string]string{
	"master_tb":      "tb",
	"translated_tb":  "tb",
	"fx_rates":       "fx",
	"fx_adjustments": "fx",
	"support_doc":    "support",
}

// ArtifactPath resolves a logical artifact name to a concrete path using the
// folder and naming configuration, substituting {period}.
func (e Env) ArtifactPath(name string) (string, error) {
	role, ok := artifactFolder[name]
	if !ok {
		return "", fmt.Errorf("unknown artifact %q", name)
	}
	dir, err := e.Folder(role)
	if err != nil {
		return "", err
	}
	tmpl, ok := e.Config.Naming[name]
	if !ok {
		return "", fmt.Errorf("no naming template for artifact %q", name)
	}
	return filepath.Join(dir, Expand(tmpl, e.Period)), nil
}

// Expand substitutes the {period} placeholder in a naming template.
func Expand(tmpl, period string) string {
	return strings.ReplaceAll(tmpl, "{period}", period)
}

// FloatParam returns a per-step numeric param, or fallback.
func (e Env) FloatParam(key string, fallback float64) float64 {
	switch v := e.Params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}

// StringParam returns a per-step string param, or fallback.
func (e Env) StringParam(key, fallback string) string {
	if v, ok := e.Params[key].(string); ok {
		return v
	}
	return fallback
}

// StringsParam returns a per-step list-of-strings param.
func (e Env) StringsParam(key string) []string {
	raw, ok := e.Params[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
