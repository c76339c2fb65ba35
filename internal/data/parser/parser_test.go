package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecording(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewParser(t *testing.T) {
	p := NewParser(4)
	assert.Equal(t, 4, p.concurrency)
	assert.NotNil(t, p.cache)

	assert.Equal(t, 1, NewParser(0).concurrency)
}

func TestParserParseFileSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeRecording(t, dir, "flight.tlm", "0;101325;20;0;0;9.8;0;0;0;\n"+
		"garbage\n"+
		"\n"+
		"1;101300;20;0;0;9.9;0;0;0;\n"+
		"2;abc;20;0;0;0\n"+
		"3;101250;20;0;0;10.1\n")

	rec, err := NewParser(1).ParseFile(path)

	require.NoError(t, err)
	assert.Equal(t, 5, rec.Lines)
	assert.Equal(t, 2, rec.Malformed)
	require.Len(t, rec.Samples, 3)
	assert.Equal(t, 0.0, rec.Samples[0].Time)
	assert.Equal(t, 101300.0, rec.Samples[1].Pressure)
	assert.Equal(t, 10.1, rec.Samples[2].Accel.Z)
}

func TestParserParseFileEmpty(t *testing.T) {
	path := writeRecording(t, t.TempDir(), "empty.tlm", "")

	rec, err := NewParser(1).ParseFile(path)

	require.NoError(t, err)
	assert.Empty(t, rec.Samples)
	assert.Equal(t, 0, rec.Lines)
}

func TestParserParseFileMissing(t *testing.T) {
	_, err := NewParser(1).ParseFile(filepath.Join(t.TempDir(), "missing.tlm"))
	assert.Error(t, err)
}

func TestParserParseFileCaches(t *testing.T) {
	dir := t.TempDir()
	path := writeRecording(t, dir, "flight.tlm", "0;101325;20;0;0\n")
	p := NewParser(1)

	first, err := p.ParseFile(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("0;101325;20;0;0\n1;101300;20;0;0\n"), 0644))
	second, err := p.ParseFile(path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, second.Samples, 1)
}

func TestParserParseFiles(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeRecording(t, dir, "a.tlm", "0;101325;20;0;0\n"),
		writeRecording(t, dir, "b.tlm", "0;101325;20;0;0\n1;101300;20;0;0\n"),
		filepath.Join(dir, "missing.tlm"),
	}

	results := make(map[string]ParseResult)
	for r := range NewParser(2).ParseFiles(files) {
		results[r.File] = r
	}

	require.Len(t, results, 3)
	assert.NoError(t, results[files[0]].Error)
	assert.Len(t, results[files[0]].Recording.Samples, 1)
	assert.Len(t, results[files[1]].Recording.Samples, 2)
	assert.Error(t, results[files[2]].Error)
	assert.Nil(t, results[files[2]].Recording)
}
