package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/cpu"
)

func nullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeImage(t *testing.T, path string, image []int64) {
	inf, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer inf.Close()

	err = cpu.FormatImage(inf, image)
	if err != nil {
		t.Fatal(err)
	}
}

func TestManifest(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "amp.txt"), ringA)

	path := filepath.Join(dir, "amp.toml")
	err := os.WriteFile(path, []byte(`
program = "amp.txt"
phases = [9, 8, 7, 6, 5]
input = [0]
feedback = true
link_capacity = 4
`), 0o644)
	assert.NoError(err)

	mf, err := LoadManifest(path)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(dir, mf.Dir)
	assert.Equal([]int64{9, 8, 7, 6, 5}, mf.Phases)
	assert.True(mf.Feedback)

	p, err := mf.Pipeline()
	if !assert.NoError(err) {
		return
	}
	assert.Equal(4, p.Config.LinkCapacity)

	p.Config.Logger = nullLogger()
	result, err := p.Run(context.Background(), mf.Input...)
	assert.NoError(err)
	assert.Equal(int64(139629729), result)
}

func TestManifestPrograms(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "double.txt"), []int64{3, 9, 1002, 9, 2, 9, 4, 9, 99, 0})
	writeImage(t, filepath.Join(dir, "echo.txt"), echo)

	mf, err := ParseManifest(`
programs = ["double.txt", "echo.txt", "double.txt"]
input = [3]
`, dir)
	if !assert.NoError(err) {
		return
	}

	p, err := mf.Pipeline()
	if !assert.NoError(err) {
		return
	}
	assert.Equal(3, p.Len())
	assert.False(p.Feedback)

	result, err := p.Run(context.Background(), mf.Input...)
	assert.NoError(err)
	assert.Equal(int64(12), result)
}

func TestManifestErrors(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	_, err := ParseManifest("bogus = 1\n", dir)
	assert.ErrorIs(err, ErrManifestKey("bogus"))

	_, err = ParseManifest("phases = [\n", dir)
	assert.Error(err)

	mf, err := ParseManifest("phases = [1, 2]\n", dir)
	assert.NoError(err)
	_, err = mf.Pipeline()
	assert.ErrorIs(err, ErrProgramEmpty)

	mf, err = ParseManifest("program = \"missing.txt\"\n", dir)
	assert.NoError(err)
	_, err = mf.Pipeline()
	assert.ErrorIs(err, os.ErrNotExist)

	_, err = LoadManifest(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(err, os.ErrNotExist)
}
