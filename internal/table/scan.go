package table

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// FileInfo describes one trial-balance file found in the collection folder.
type FileInfo struct {
	Name   string
	Path   string
	Entity string
	Period string
}

// tbFilePattern matches trial-balance file names like TB_DE01_202301.xlsx.
var tbFilePattern = regexp.MustCompile(`(?i)^TB_([^_.]+)_(\d{6})\.(xlsx|csv)$`)

var periodPattern = regexp.MustCompile(`(20\d{2})(0[1-9]|1[0-2])`)

// ScanTrialBalances returns the trial-balance files in dir for one period,
// sorted by name. A missing directory yields no files, not an error.
func ScanTrialBalances(dir, period string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading trial-balance dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := tbFilePattern.FindStringSubmatch(e.Name())
		if m == nil || m[2] != period {
			continue
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Entity: m[1],
			Period: m[2],
		})
	}
	return files, nil
}

// InferPeriod extracts a YYYYMM period from a file name, if present.
func InferPeriod(path string) (string, bool) {
	m := periodPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", false
	}
	return m[1] + m[2], true
}

// InferEntity extracts the entity code from a TB_<entity>_... file name.
func InferEntity(path string) (string, bool) {
	name := filepath.Base(path)
	if !strings.HasPrefix(strings.ToUpper(name), "TB_") {
		return "", false
	}
	rest := name[3:]
	end := strings.IndexAny(rest, "_.")
	if end <= 0 {
		return "", false
	}
	return rest[:end], true
}
