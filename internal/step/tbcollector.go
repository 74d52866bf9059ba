package step

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/closekit-dev/closekit/internal/ledger"
	"github.com/closekit-dev/closekit/internal/normalize"
	"github.com/closekit-dev/closekit/internal/table"
)

// TBCollector loads every per-entity trial-balance file for the period,
// normalizes each against the canonical schema, merges them into the master
// ledger and writes it out.
type TBCollector struct {
	env Env
}

// NewTBCollector is the TBCollector factory.
func NewTBCollector(env Env) (Step, error) {
	return &TBCollector{env: env}, nil
}

// Name returns the registered step name.
func (s *TBCollector) Name() string { return "TBCollector" }

// PlanIO declares the trial-balance folder as input and the master table as
// output.
func (s *TBCollector) PlanIO() (IOPlan, error) {
	tbDir, err := s.env.Folder("tb")
	if err != nil {
		return IOPlan{}, err
	}
	master, err := s.env.ArtifactPath("master_tb")
	if err != nil {
		return IOPlan{}, err
	}
	return IOPlan{
		Inputs:  map[string]string{"tb_folder": tbDir},
		Outputs: map[string]string{"master_tb": master},
	}, nil
}

// Run collects, normalizes, merges and writes the master trial balance.
func (s *TBCollector) Run(plan IOPlan) RunResult {
	cfg := s.env.Config
	schema := normalize.Schema{
		Required: cfg.Schema.Required,
		Optional: cfg.Schema.Optional,
		Numeric:  cfg.Schema.Numeric,
	}
	opts := normalize.Options{
		Threshold: s.env.FloatParam("threshold", cfg.Match.Threshold),
		Aliases:   normalize.DefaultAliases,
	}

	files, err := table.ScanTrialBalances(plan.Inputs["tb_folder"], s.env.Period)
	if err != nil {
		return RunResult{Err: err}
	}

	var diags []string
	var tables []table.NormalizedTable
	for _, f := range files {
		raw, err := table.Read(f.Path)
		if err != nil {
			return RunResult{Diagnostics: diags, Err: err}
		}
		normalized, fileDiags, err := normalize.Normalize(raw, schema, opts)
		if err != nil {
			return RunResult{Diagnostics: diags, Err: err}
		}
		diags = append(diags, fileDiags...)
		tables = append(tables, normalized)
		slog.Info("collected trial balance", "file", f.Name, "entity", f.Entity, "rows", len(normalized.Rows))
	}

	mergeOpts := ledger.Options{
		Policy:    ledger.MergePolicy(s.env.StringParam("policy", cfg.Merge.Policy)),
		Tolerance: decimal.NewFromFloat(s.env.FloatParam("tolerance", cfg.Merge.Tolerance)),
	}
	ml, err := ledger.Merge(tables, s.env.Period, mergeOpts)
	if err != nil {
		return RunResult{Diagnostics: diags, Err: err}
	}

	out := plan.Outputs["master_tb"]
	if err := table.Write(out, masterColumns, ledgerRows(ml)); err != nil {
		return RunResult{Diagnostics: diags, Err: err}
	}

	diags = append(diags, fmt.Sprintf("merged %d files into %d ledger rows", len(files), ml.Len()))
	return RunResult{
		OK:          true,
		Artifacts:   map[string]string{"master_tb": out},
		Diagnostics: diags,
	}
}
