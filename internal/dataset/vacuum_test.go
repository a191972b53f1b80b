package dataset

import (
	"bytes"
	"compress/gzip"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// locpotText has planar averages 2.5, 5.3456, 2.5 along c, so the vacuum
// level rounds to 5.346.
const locpotText = `Mg O test cell
1.0
  3.0 0.0 0.0
  0.0 3.0 0.0
  0.0 0.0 10.0
Mg O
1 1
Direct
  0.0 0.0 0.0
  0.5 0.5 0.5

  2 2 3
  1.0 2.0 3.0 4.0 5.3456
  5.3456 5.3456 5.3456 2.0 2.0
  3.0 3.0
`

const potentialCSV = `index,planar,macroscopic
0, 4.5 ,9.9
1,7.1254,9.9
2,,9.9
3,2.0,9.9
`

func writeGzip(t *testing.T, path, content string) {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestVacuum_CSVFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "pot.csv", potentialCSV)

	got, err := Vacuum(path)
	require.NoError(t, err)
	assert.InDelta(t, 7.125, got, 1e-12)
}

func TestVacuum_CSVRoundsTiesToEven(t *testing.T) {
	dir := t.TempDir()
	// 0.0625 is exactly representable; a half-away rounding would give 0.063
	path := writeTemp(t, dir, "pot.csv", "index,planar\n0,0.0625\n1,0.01\n")

	got, err := Vacuum(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.062, got, 1e-12)
}

func TestVacuum_CSVNoPlanarColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "pot.csv", "index,macroscopic\n0,9.9\n")

	_, err := Vacuum(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoPlanarColumn))
}

func TestVacuum_CSVMissingFile(t *testing.T) {
	_, err := Vacuum(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestVacuum_LocpotFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "LOCPOT", locpotText)

	got, err := Vacuum(path)
	require.NoError(t, err)
	assert.InDelta(t, 5.346, got, 1e-12)
}

func TestVacuum_LocpotGzFallback(t *testing.T) {
	dir := t.TempDir()
	writeGzip(t, filepath.Join(dir, "LOCPOT.gz"), locpotText)

	// the plain name is asked for, only the .gz exists
	got, err := Vacuum(filepath.Join(dir, "LOCPOT"))
	require.NoError(t, err)
	assert.InDelta(t, 5.346, got, 1e-12)
}

func TestVacuum_DirProbeOrder(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeTemp(t, dir, "potential.csv", potentialCSV)
	locpotPath := writeTemp(t, dir, "LOCPOT", locpotText)

	// potential.csv beats LOCPOT
	got, err := Vacuum(dir)
	require.NoError(t, err)
	assert.InDelta(t, 7.125, got, 1e-12)

	// then the plain LOCPOT
	require.NoError(t, os.Remove(csvPath))
	got, err = Vacuum(dir)
	require.NoError(t, err)
	assert.InDelta(t, 5.346, got, 1e-12)

	// then the gzipped one
	require.NoError(t, os.Remove(locpotPath))
	writeGzip(t, filepath.Join(dir, "LOCPOT.gz"), locpotText)
	got, err = Vacuum(dir)
	require.NoError(t, err)
	assert.InDelta(t, 5.346, got, 1e-12)
}

func TestVacuum_NoSourcesWarnsOnce(t *testing.T) {
	dir := t.TempDir()

	var warn bytes.Buffer
	got, err := vacuumTo(&warn, dir)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))

	out := warn.String()
	assert.Equal(t, 1, strings.Count(out, "warning:"))
	assert.Contains(t, out, dir)
	assert.Contains(t, out, "potential.csv")
	assert.Contains(t, out, "LOCPOT")
}

func TestVacuum_CorruptLocpotIsFatal(t *testing.T) {
	dir := t.TempDir()
	cut := locpotText[:strings.Index(locpotText, "  3.0 3.0")]
	writeTemp(t, dir, "LOCPOT", cut)

	_, err := Vacuum(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}
