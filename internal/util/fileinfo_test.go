package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFileInfoAndFingerprint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flight.tlm")
	require.NoError(t, os.WriteFile(path, []byte("0;101325;293.15;0;0;9.8;0;0;0;\n"), 0644))

	info, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.Equal(t, int64(31), info.Size)
	assert.True(t, info.SameRevision(info))

	fp1, err := CalculateFileFingerprint(path)
	require.NoError(t, err)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("1;101300;293.15;0;0;9.8;0;0;0;\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	fp2, err := CalculateFileFingerprint(path)
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp2)

	grown, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.False(t, info.SameRevision(grown))
}

func TestGetFileInfoErrors(t *testing.T) {
	_, err := GetFileInfo(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	_, err = GetFileInfo(t.TempDir())
	assert.Error(t, err)

	var nilInfo *FileInfo
	assert.False(t, nilInfo.SameRevision(&FileInfo{}))
}

func TestFingerprintEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.tlm")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	fp, err := CalculateFileFingerprint(path)
	require.NoError(t, err)
	assert.Equal(t, "00000000-0", fp)
}
