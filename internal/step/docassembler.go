package step

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	md "github.com/nao1215/markdown"

	"github.com/closekit-dev/closekit/internal/table"
)

// DocAssembler renders the configured tables into one markdown support
// document for the period. Converting that document to PDF is the concern of
// an external renderer, not of this pipeline.
type DocAssembler struct {
	env Env
}

// NewDocAssembler is the DocAssembler factory.
func NewDocAssembler(env Env) (Step, error) {
	return &DocAssembler{env: env}, nil
}

// Name returns the registered step name.
func (s *DocAssembler) Name() string { return "DocAssembler" }

// PlanIO declares each included artifact as an input and the support
// document as output. The include list comes from the step params.
func (s *DocAssembler) PlanIO() (IOPlan, error) {
	include := s.env.StringsParam("include")
	if len(include) == 0 {
		return IOPlan{}, fmt.Errorf("DocAssembler: params.include lists no artifacts")
	}

	inputs := make(map[string]string, len(include))
	for _, name := range include {
		path, err := s.env.ArtifactPath(name)
		if err != nil {
			return IOPlan{}, err
		}
		inputs[name] = path
	}
	out, err := s.env.ArtifactPath("support_doc")
	if err != nil {
		return IOPlan{}, err
	}
	return IOPlan{
		Inputs:  inputs,
		Outputs: map[string]string{"support_doc": out},
	}, nil
}

// Run renders every input table into one markdown document.
func (s *DocAssembler) Run(plan IOPlan) RunResult {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Consolidation Support %s", s.env.Period))

	for _, name := range s.env.StringsParam("include") {
		raw, err := table.Read(plan.Inputs[name])
		if err != nil {
			return RunResult{Err: err}
		}
		doc.H2(raw.Source)
		// Keep the canonical column names verbatim; the default table
		// renderer reformats headers ("EntityCode" -> "ENTITY CODE").
		doc.CustomTable(md.TableSet{Header: raw.Headers, Rows: raw.Rows}, md.TableOptions{
			AutoWrapText:      false,
			AutoFormatHeaders: false,
		})
	}

	out := plan.Outputs["support_doc"]
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return RunResult{Err: fmt.Errorf("creating support dir: %w", err)}
	}
	if err := os.WriteFile(out, []byte(doc.String()), 0o644); err != nil {
		return RunResult{Err: fmt.Errorf("writing support doc: %w", err)}
	}

	return RunResult{
		OK:        true,
		Artifacts: map[string]string{"support_doc": out},
		Diagnostics: []string{
			fmt.Sprintf("assembled %d tables into %s", len(plan.Inputs), filepath.Base(out)),
		},
	}
}
