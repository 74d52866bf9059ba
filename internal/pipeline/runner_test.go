package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closekit-dev/closekit/internal/config"
	"github.com/closekit-dev/closekit/internal/step"
)

// fakeStep declares fixed inputs/outputs and records whether it ran.
type fakeStep struct {
	name    string
	inputs  map[string]string
	outputs map[string]string
	fail    bool
	ran     *bool
}

func (s *fakeStep) Name() string { return s.name }

func (s *fakeStep) PlanIO() (step.IOPlan, error) {
	return step.IOPlan{Inputs: s.inputs, Outputs: s.outputs}, nil
}

func (s *fakeStep) Run(plan step.IOPlan) step.RunResult {
	*s.ran = true
	if s.fail {
		return step.RunResult{Err: errors.New("boom")}
	}
	return step.RunResult{OK: true, Artifacts: plan.Outputs}
}

type fakeSpec struct {
	name    string
	inputs  map[string]string
	outputs map[string]string
	fail    bool
}

// buildRunner registers one fake step type per spec and returns the runner
// plus per-step ran flags.
func buildRunner(t *testing.T, dir, onFailure string, specs []fakeSpec) (*Runner, map[string]*bool) {
	t.Helper()
	reg := step.NewRegistry()
	cfg := config.Default("202301")
	cfg.OnFailure = onFailure
	cfg.Folders = map[string]string{"logs": filepath.Join(dir, "logs")}
	cfg.Steps = nil

	ran := make(map[string]*bool)
	for _, spec := range specs {
		spec := spec
		flag := new(bool)
		ran[spec.name] = flag
		err := reg.Register(spec.name, func(env step.Env) (step.Step, error) {
			return &fakeStep{
				name:    spec.name,
				inputs:  spec.inputs,
				outputs: spec.outputs,
				fail:    spec.fail,
				ran:     flag,
			}, nil
		})
		require.NoError(t, err)
		cfg.Steps = append(cfg.Steps, config.StepSpec{Step: spec.name})
	}
	return New(reg, cfg), ran
}

func TestRun_ChainedOutputsResolve(t *testing.T) {
	dir := t.TempDir()
	master := filepath.Join(dir, "master.csv")
	translated := filepath.Join(dir, "translated.csv")
	runner, ran := buildRunner(t, dir, "abort", []fakeSpec{
		{name: "Collect", outputs: map[string]string{"master_tb": master}},
		{name: "Translate", inputs: map[string]string{"master_tb": master}, outputs: map[string]string{"translated_tb": translated}},
	})

	res, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.True(t, *ran["Collect"])
	assert.True(t, *ran["Translate"])
	require.Len(t, res.Steps, 2)
	assert.Equal(t, StateRan, res.Steps[0].State)
	assert.Equal(t, StateRan, res.Steps[1].State)
}

func TestRun_UnresolvedInputDetectedBeforeAnyRun(t *testing.T) {
	dir := t.TempDir()
	runner, ran := buildRunner(t, dir, "abort", []fakeSpec{
		{name: "Collect", outputs: map[string]string{}},
		{name: "Translate", inputs: map[string]string{"master_tb": filepath.Join(dir, "master.csv")}},
	})

	_, err := runner.Run(context.Background())
	var ierr *InputNotResolvedError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "Translate", ierr.Step)
	assert.Equal(t, "master_tb", ierr.Input)
	assert.False(t, *ran["Collect"], "no step may run when wiring validation fails")
	assert.False(t, *ran["Translate"])
}

func TestRun_ExternalFileSatisfiesInput(t *testing.T) {
	dir := t.TempDir()
	rates := filepath.Join(dir, "rates.csv")
	require.NoError(t, os.WriteFile(rates, []byte("x"), 0o644))

	runner, _ := buildRunner(t, dir, "abort", []fakeSpec{
		{name: "Translate", inputs: map[string]string{"fx_rates": rates}},
	})

	res, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestRun_AbortStopsRemainingSteps(t *testing.T) {
	dir := t.TempDir()
	runner, ran := buildRunner(t, dir, "abort", []fakeSpec{
		{name: "Collect", outputs: map[string]string{"m": filepath.Join(dir, "m.csv")}, fail: true},
		{name: "Unrelated", outputs: map[string]string{"u": filepath.Join(dir, "u.csv")}},
	})

	res, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, StateFailed, res.Steps[0].State)
	assert.Equal(t, StateSkipped, res.Steps[1].State)
	assert.False(t, *ran["Unrelated"])
}

func TestRun_ContinueSkipsOnlyDependents(t *testing.T) {
	dir := t.TempDir()
	master := filepath.Join(dir, "m.csv")
	runner, ran := buildRunner(t, dir, "continue", []fakeSpec{
		{name: "Collect", outputs: map[string]string{"m": master}, fail: true},
		{name: "Translate", inputs: map[string]string{"m": master}, outputs: map[string]string{"tr": filepath.Join(dir, "tr.csv")}},
		{name: "Report", inputs: map[string]string{"tr": filepath.Join(dir, "tr.csv")}},
		{name: "Unrelated", outputs: map[string]string{"u": filepath.Join(dir, "u.csv")}},
	})

	res, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, StateFailed, res.Steps[0].State)
	assert.Equal(t, StateSkipped, res.Steps[1].State)
	// Transitive dependency through the skipped step's output.
	assert.Equal(t, StateSkipped, res.Steps[2].State)
	assert.Equal(t, StateRan, res.Steps[3].State)
	assert.False(t, *ran["Translate"])
	assert.True(t, *ran["Unrelated"])
}

func TestPlan_DoesNotRun(t *testing.T) {
	dir := t.TempDir()
	runner, ran := buildRunner(t, dir, "abort", []fakeSpec{
		{name: "Collect", outputs: map[string]string{"m": filepath.Join(dir, "m.csv")}},
	})

	res, err := runner.Plan()
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, StateResolved, res.Steps[0].State)
	assert.False(t, *ran["Collect"])

	// Dry run writes nothing, not even the run log.
	_, statErr := os.Stat(filepath.Join(dir, "logs"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_UnknownStep(t *testing.T) {
	dir := t.TempDir()
	reg := step.NewRegistry()
	cfg := config.Default("202301")
	cfg.Folders = map[string]string{"logs": filepath.Join(dir, "logs")}
	cfg.Steps = []config.StepSpec{{Step: "Nope"}}

	_, err := New(reg, cfg).Run(context.Background())
	var uerr *step.UnknownStepError
	require.ErrorAs(t, err, &uerr)
}

func TestRun_WritesRunLog(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "m.csv")
	runner, _ := buildRunner(t, dir, "abort", []fakeSpec{
		{name: "Collect", outputs: map[string]string{"m": out}},
		{name: "Fail", fail: true},
	})

	res, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.RunID)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "Automation_Log.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3) // header + one row per attempted step
	assert.Contains(t, lines[0], "run_id")
	assert.Contains(t, lines[1], res.RunID)
	assert.Contains(t, lines[1], "Collect")
	assert.Contains(t, lines[2], "failed")
}
