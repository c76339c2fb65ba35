package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileScanner(t *testing.T) {
	s := NewFileScanner("/tmp/test")
	assert.Equal(t, "/tmp/test", s.baseDir)
	assert.True(t, s.extensions[".tlm"])
	assert.True(t, s.extensions[".txt"])
	assert.True(t, s.extensions[".log"])

	custom := NewFileScanner("/tmp/test", "CSV", ".dat")
	assert.Len(t, custom.extensions, 2)
	assert.True(t, custom.extensions[".csv"])
	assert.True(t, custom.extensions[".dat"])
}

func TestFileScannerScanEmptyDirectory(t *testing.T) {
	files, err := NewFileScanner(t.TempDir()).Scan()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileScannerScanNonExistentDirectory(t *testing.T) {
	files, err := NewFileScanner("/path/that/does/not/exist").Scan()
	require.NoError(t, err, "missing directories are skipped, not fatal")
	assert.Empty(t, files)
}

func TestFileScannerScanRecordings(t *testing.T) {
	tempDir := t.TempDir()

	testFiles := []struct {
		path        string
		isRecording bool
	}{
		{"flight1.tlm", true},
		{"flight2.TLM", true},
		{"serial-capture.txt", true},
		{"sub/launch.log", true},
		{"notes.md", false},
		{"data.json", false},
		{".cache/old.tlm", false},
	}

	var expected []string
	for _, f := range testFiles {
		full := filepath.Join(tempDir, f.path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("0;101325;20;0;0;"), 0644))
		if f.isRecording {
			expected = append(expected, full)
		}
	}

	files, err := NewFileScanner(tempDir).Scan()
	require.NoError(t, err)
	assert.ElementsMatch(t, expected, files)
	assert.IsIncreasing(t, files)
}
