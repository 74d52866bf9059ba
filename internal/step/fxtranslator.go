package step

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/closekit-dev/closekit/internal/fx"
	"github.com/closekit-dev/closekit/internal/model"
	"github.com/closekit-dev/closekit/internal/normalize"
	"github.com/closekit-dev/closekit/internal/table"
)

// FXTranslator converts the master ledger into the reporting currency and
// writes the translated table plus a per-account FX adjustment report.
type FXTranslator struct {
	env Env
}

// NewFXTranslator is the FXTranslator factory.
func NewFXTranslator(env Env) (Step, error) {
	return &FXTranslator{env: env}, nil
}

// Name returns the registered step name.
func (s *FXTranslator) Name() string { return "FXTranslator" }

// PlanIO declares the master table (and, for file sources, the rate table)
// as inputs, and the translated table and adjustment report as outputs.
func (s *FXTranslator) PlanIO() (IOPlan, error) {
	master, err := s.env.ArtifactPath("master_tb")
	if err != nil {
		return IOPlan{}, err
	}
	translated, err := s.env.ArtifactPath("translated_tb")
	if err != nil {
		return IOPlan{}, err
	}
	adjustments, err := s.env.ArtifactPath("fx_adjustments")
	if err != nil {
		return IOPlan{}, err
	}

	inputs := map[string]string{"master_tb": master}
	if s.env.StringParam("source", s.env.Config.FX.Source) == "file" {
		rates, err := s.env.ArtifactPath("fx_rates")
		if err != nil {
			return IOPlan{}, err
		}
		inputs["fx_rates"] = rates
	}
	return IOPlan{
		Inputs: inputs,
		Outputs: map[string]string{
			"translated_tb":  translated,
			"fx_adjustments": adjustments,
		},
	}, nil
}

// Run loads rates, translates the ledger and writes both outputs.
func (s *FXTranslator) Run(plan IOPlan) RunResult {
	cfg := s.env.Config
	opts := normalize.Options{
		Threshold: s.env.FloatParam("threshold", cfg.Match.Threshold),
		Aliases:   normalize.DefaultAliases,
	}

	ml, err := readMasterLedger(plan.Inputs["master_tb"], s.env.Period, opts)
	if err != nil {
		return RunResult{Err: err}
	}

	rates, diags, err := s.loadRates(plan, opts)
	if err != nil {
		return RunResult{Err: err}
	}

	reporting := s.env.StringParam("reporting_currency", cfg.FX.ReportingCurrency)
	rounding := fx.RoundingMode(s.env.StringParam("rounding", cfg.FX.Rounding))
	translated, err := fx.Translate(ml, rates, reporting, fx.Options{Rounding: rounding})
	if err != nil {
		return RunResult{Diagnostics: diags, Err: err}
	}
	slog.Info("translated ledger",
		"rows", len(translated.Entries),
		"adjustments", len(translated.Adjustments),
		"currency", reporting)

	if err := table.Write(plan.Outputs["translated_tb"], masterColumns, translatedRows(translated)); err != nil {
		return RunResult{Diagnostics: diags, Err: err}
	}
	if err := table.Write(plan.Outputs["fx_adjustments"], adjustmentColumns, adjustmentRows(translated)); err != nil {
		return RunResult{Diagnostics: diags, Err: err}
	}

	diags = append(diags, fmt.Sprintf("translated %d rows, %d rounding adjustments", len(translated.Entries), len(translated.Adjustments)))
	return RunResult{
		OK: true,
		Artifacts: map[string]string{
			"translated_tb":  plan.Outputs["translated_tb"],
			"fx_adjustments": plan.Outputs["fx_adjustments"],
		},
		Diagnostics: diags,
	}
}

func (s *FXTranslator) loadRates(plan IOPlan, opts normalize.Options) (*model.FxRateTable, []string, error) {
	source := s.env.StringParam("source", s.env.Config.FX.Source)
	if source == "http" {
		url := s.env.StringParam("rates_url", s.env.Config.FX.RatesURL)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		rates, err := fx.FetchRates(ctx, http.DefaultClient, url, s.env.Period)
		return rates, nil, err
	}
	return fx.LoadRatesFile(plan.Inputs["fx_rates"], s.env.Period, opts)
}

// fxAdjustmentAccount marks the synthetic rounding rows in the translated
// table.
const fxAdjustmentAccount = "FXADJ"

var adjustmentColumns = []string{
	"EntityCode", "AccountCode", "LocalAmount",
	"FXRate", "ReportingCurrencyAmount", "Period",
}

func translatedRows(t *model.TranslatedLedger) [][]string {
	rows := make([][]string, 0, len(t.Entries)+len(t.Adjustments))
	for _, e := range t.Entries {
		rows = append(rows, []string{
			e.Entity, e.Account, e.AccountName,
			e.Debit.StringFixed(2), e.Credit.StringFixed(2),
			e.Currency, e.Period,
		})
	}
	for _, a := range t.Adjustments {
		rows = append(rows, []string{
			a.Entity, fxAdjustmentAccount, "FX rounding adjustment",
			a.Debit.StringFixed(2), a.Credit.StringFixed(2),
			a.Currency, a.Period,
		})
	}
	return rows
}

func adjustmentRows(t *model.TranslatedLedger) [][]string {
	rows := make([][]string, 0, len(t.Entries)+len(t.Adjustments))
	for _, e := range t.Entries {
		local := e.LocalDebit.Sub(e.LocalCredit)
		reporting := e.Debit.Sub(e.Credit)
		rows = append(rows, []string{
			e.Entity, e.Account, local.StringFixed(2),
			e.Rate.String(), reporting.StringFixed(2), e.Period,
		})
	}
	for _, a := range t.Adjustments {
		rows = append(rows, []string{
			a.Entity, fxAdjustmentAccount, "0.00",
			"", a.Debit.Sub(a.Credit).StringFixed(2), a.Period,
		})
	}
	return rows
}
