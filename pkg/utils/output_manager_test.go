package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOutputPath(t *testing.T) {
	base := t.TempDir()
	om := NewOutputManager(base)

	path, err := om.RunOutputPath("run-1", "result.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "run-1", "result.csv"), path)

	info, err := os.Stat(filepath.Join(base, "run-1"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRunOutputPathStripsDirectories(t *testing.T) {
	om := NewOutputManager(t.TempDir())

	path, err := om.RunOutputPath("run-1", "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "passwd", filepath.Base(path))
	assert.Contains(t, path, filepath.Join("run-1", "passwd"))
}

func TestFileType(t *testing.T) {
	om := NewOutputManager("exports")
	assert.Equal(t, "csv", om.FileType("result.csv"))
	assert.Equal(t, "json", om.FileType("Result.JSON"))
	assert.Equal(t, "unknown", om.FileType("result.parquet"))
}
