// Package pipeline executes an ordered list of step specifications: it
// resolves each step through the registry, validates the declared I/O wiring
// before any step runs, then executes the steps sequentially.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/closekit-dev/closekit/internal/config"
	"github.com/closekit-dev/closekit/internal/step"
)

// State is the lifecycle state of one step within a run.
type State string

const (
	StatePending  State = "pending"
	StatePlanned  State = "planned"
	StateResolved State = "resolved"
	StateRan      State = "ran"
	StateFailed   State = "failed"
	StateSkipped  State = "skipped"
)

// StepOutcome is the final record of one step in a pipeline result.
type StepOutcome struct {
	Name   string
	State  State
	Plan   step.IOPlan
	Result step.RunResult
}

// Result aggregates every step outcome of one pipeline run.
type Result struct {
	RunID string
	OK    bool
	Steps []StepOutcome
}

// InputNotResolvedError reports a planned input that no earlier step
// produces and that does not exist on disk.
type InputNotResolvedError struct {
	Step  string
	Input string
	Path  string
}

func (e *InputNotResolvedError) Error() string {
	return fmt.Sprintf("step %s: input %q (%s) is not produced by an earlier step and does not exist", e.Step, e.Input, e.Path)
}

// Runner executes pipelines defined by a config against a step registry.
type Runner struct {
	registry *step.Registry
	cfg      *config.Config
}

// New creates a Runner. The registry must be fully populated; registration
// after this point is not supported.
func New(registry *step.Registry, cfg *config.Config) *Runner {
	return &Runner{registry: registry, cfg: cfg}
}

type stepExec struct {
	name  string
	st    step.Step
	plan  step.IOPlan
	state State
}

// prepare instantiates and plans every step, then verifies that each
// declared input is produced by an earlier step or already exists on disk.
// It performs no writes, so it doubles as the dry-run validation.
func (r *Runner) prepare() ([]*stepExec, error) {
	var execs []*stepExec
	for _, spec := range r.cfg.Steps {
		factory, err := r.registry.Resolve(spec.Step)
		if err != nil {
			return nil, err
		}
		env := step.Env{Config: r.cfg, Params: spec.Params, Period: r.cfg.Period}
		st, err := factory(env)
		if err != nil {
			return nil, fmt.Errorf("instantiating step %s: %w", spec.Step, err)
		}
		exec := &stepExec{name: spec.Step, st: st, state: StatePending}
		plan, err := st.PlanIO()
		if err != nil {
			return nil, fmt.Errorf("planning step %s: %w", spec.Step, err)
		}
		exec.plan = plan
		exec.state = StatePlanned
		execs = append(execs, exec)
	}

	produced := make(map[string]bool)
	for _, exec := range execs {
		for input, path := range exec.plan.Inputs {
			if produced[path] || pathExists(path) {
				continue
			}
			return nil, &InputNotResolvedError{Step: exec.name, Input: input, Path: path}
		}
		for _, path := range exec.plan.Outputs {
			produced[path] = true
		}
		exec.state = StateResolved
	}
	return execs, nil
}

// Plan validates the whole pipeline's wiring without executing anything.
func (r *Runner) Plan() (*Result, error) {
	execs, err := r.prepare()
	if err != nil {
		return nil, err
	}
	res := &Result{OK: true}
	for _, exec := range execs {
		res.Steps = append(res.Steps, StepOutcome{Name: exec.name, State: exec.state, Plan: exec.plan})
	}
	return res, nil
}

// Run validates the wiring, then executes every step in order. On a step
// failure the remaining pipeline is aborted, or — with on_failure:
// continue — only steps depending on the failed step's outputs are skipped.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	execs, err := r.prepare()
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.NewString(), OK: true}
	bestEffort := r.cfg.OnFailure == "continue"
	aborted := false
	tainted := make(map[string]bool) // outputs of failed or skipped steps

	var logEntries []LogEntry
	for _, exec := range execs {
		switch {
		case ctx.Err() != nil:
			exec.state = StateSkipped
		case aborted:
			exec.state = StateSkipped
		case dependsOnTainted(exec.plan, tainted):
			exec.state = StateSkipped
		default:
			slog.Info("running step", "step", exec.name, "run_id", res.RunID)
			result := exec.st.Run(exec.plan)
			if result.OK {
				exec.state = StateRan
			} else {
				exec.state = StateFailed
				res.OK = false
				if !bestEffort {
					aborted = true
				}
			}
			for _, d := range result.Diagnostics {
				slog.Warn("step diagnostic", "step", exec.name, "message", d)
			}
			res.Steps = append(res.Steps, StepOutcome{Name: exec.name, State: exec.state, Plan: exec.plan, Result: result})
			logEntries = append(logEntries, newLogEntry(res.RunID, r.cfg.Period, exec, result))
			if exec.state == StateFailed {
				taint(exec.plan, tainted)
			}
			continue
		}

		// Skipped without running.
		taint(exec.plan, tainted)
		res.Steps = append(res.Steps, StepOutcome{Name: exec.name, State: exec.state, Plan: exec.plan})
		logEntries = append(logEntries, newLogEntry(res.RunID, r.cfg.Period, exec, step.RunResult{}))
	}

	if dir, ok := r.cfg.Folders["logs"]; ok {
		if err := AppendLog(dir, logEntries); err != nil {
			slog.Warn("writing run log", "error", err)
		}
	}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	return res, nil
}

func dependsOnTainted(plan step.IOPlan, tainted map[string]bool) bool {
	for _, path := range plan.Inputs {
		if tainted[path] {
			return true
		}
	}
	return false
}

func taint(plan step.IOPlan, tainted map[string]bool) {
	for _, path := range plan.Outputs {
		tainted[path] = true
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
