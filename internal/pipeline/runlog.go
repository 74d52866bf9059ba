package pipeline

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/closekit-dev/closekit/internal/step"
)

// LogEntry is one row of the automation run log.
type LogEntry struct {
	Timestamp    time.Time
	RunID        string
	Step         string
	Period       string
	Status       string
	Messages     string
	InputHashes  string
	OutputHashes string
}

// logHeader is the CSV header for the automation log.
const logHeader = "timestamp,run_id,step,period,status,messages,input_hashes,output_hashes"

const logFile = "Automation_Log.csv"

func newLogEntry(runID, period string, exec *stepExec, result step.RunResult) LogEntry {
	messages := strings.Join(result.Diagnostics, "; ")
	if result.Err != nil {
		messages = strings.TrimPrefix(messages+"; error: "+result.Err.Error(), "; ")
	}
	return LogEntry{
		Timestamp:    time.Now().UTC(),
		RunID:        runID,
		Step:         exec.name,
		Period:       period,
		Status:       string(exec.state),
		Messages:     messages,
		InputHashes:  hashSet(exec.plan.Inputs),
		OutputHashes: hashSet(exec.plan.Outputs),
	}
}

// AppendLog writes entries to <dir>/Automation_Log.csv, creating the file
// and header if needed.
func AppendLog(dir string, entries []LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	path := filepath.Join(dir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(logHeader, ",")); err != nil {
			return fmt.Errorf("writing log header: %w", err)
		}
	}
	for _, e := range entries {
		row := []string{
			e.Timestamp.Format(time.RFC3339),
			e.RunID,
			e.Step,
			e.Period,
			e.Status,
			e.Messages,
			e.InputHashes,
			e.OutputHashes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing log row: %w", err)
		}
	}
	return cw.Error()
}

// hashSet renders "name=sha256hex" pairs for every artifact that exists,
// sorted by name. Missing files are omitted.
func hashSet(artifacts map[string]string) string {
	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		sum := hashFile(artifacts[name])
		if sum == "" {
			continue
		}
		parts = append(parts, name+"="+sum)
	}
	return strings.Join(parts, ";")
}

func hashFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))
}
