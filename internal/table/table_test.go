package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWrite_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	headers := []string{"EntityCode", "Debit"}
	rows := [][]string{{"E1", "100.00"}, {"E2", "50.00"}}

	require.NoError(t, Write(path, headers, rows))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, headers, got.Headers)
	assert.Equal(t, rows, got.Rows)
	assert.Equal(t, "out.csv", got.Source)
}

func TestReadWrite_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	headers := []string{"EntityCode", "Debit"}
	rows := [][]string{{"E1", "100.00"}}

	require.NoError(t, Write(path, headers, rows))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, headers, got.Headers)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "E1", got.Rows[0][0])
}

func TestRead_UnsupportedExtension(t *testing.T) {
	_, err := Read("ledger.parquet")
	require.Error(t, err)
}

func TestRead_ShortRowsPadded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("A,B,C\n1,2\n"), 0o644))

	got, err := Read(path)
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, []string{"1", "2", ""}, got.Rows[0])
}

func TestScanTrialBalances(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"TB_E1_202301.csv",
		"TB_E2_202301.xlsx",
		"TB_E3_202212.csv", // other period
		"Master_TB_202301.csv",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	files, err := ScanTrialBalances(dir, "202301")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "E1", files[0].Entity)
	assert.Equal(t, "202301", files[0].Period)
	assert.Equal(t, "E2", files[1].Entity)
}

func TestScanTrialBalances_MissingDir(t *testing.T) {
	files, err := ScanTrialBalances(filepath.Join(t.TempDir(), "nope"), "202301")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestInferPeriod(t *testing.T) {
	period, ok := InferPeriod("/data/TB_E1_202301.xlsx")
	require.True(t, ok)
	assert.Equal(t, "202301", period)

	_, ok = InferPeriod("TB_E1.xlsx")
	assert.False(t, ok)
}

func TestInferEntity(t *testing.T) {
	entity, ok := InferEntity("TB_DE01_202301.xlsx")
	require.True(t, ok)
	assert.Equal(t, "DE01", entity)

	_, ok = InferEntity("Rates_202301.xlsx")
	assert.False(t, ok)
}
