package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	ioutils "github.com/handiism/vocaloid-birthday/internal/io"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction("os/signal.loop"))
}

func writeConfig(t *testing.T, endpoint, outputDir string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "endpoint: " + endpoint + "\nrequest_delay: 0s\noutput_dir: " + outputDir + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, opts *options, args ...string) (string, error) {
	t.Helper()
	if opts.logger == nil {
		opts.logger = zap.NewNop()
	}
	cmd := newRootCmdWith(opts)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRun_CollectsAndSaves(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"meta":{"status":200},"data":[{"contentId":"sm1"},{"contentId":"sm2"}]}`))
	}))
	defer srv.Close()

	outDir := filepath.Join(t.TempDir(), "data")
	cfg := writeConfig(t, srv.URL, outDir)

	out, err := execute(t, &options{}, "--config", cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(366), calls.Load())
	assert.Contains(t, out, "Collection complete: 366 days, 732 songs")
	assert.Contains(t, out, "All tasks completed successfully!")

	snap, err := ioutils.LoadSnapshot(filepath.Join(outDir, "vocaloid_birthday_songs.json"))
	require.NoError(t, err)
	assert.Equal(t, 366, snap.Metadata.TotalDays)
	assert.Equal(t, 732, snap.Metadata.TotalSongs)
	assert.Len(t, snap.Data["02-29"], 2)
}

func TestRun_AllRequestsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	outDir := t.TempDir()
	cfg := writeConfig(t, srv.URL, outDir)

	out, err := execute(t, &options{}, "--config", cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "01/01: API error (status 500)")
	assert.Contains(t, out, "02/29: API error (status 500)")
	assert.Contains(t, out, "366 days failed and were skipped")
	assert.NotContains(t, out, "no songs")

	snap, err := ioutils.LoadSnapshot(filepath.Join(outDir, "vocaloid_birthday_songs.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Metadata.TotalDays)
	assert.Equal(t, 0, snap.Metadata.TotalSongs)
	assert.Empty(t, snap.Data)
}

func TestRun_InterruptSavesNothing(t *testing.T) {
	signals := make(chan os.Signal, 1)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 3 {
			signals <- os.Interrupt
		}
		_, _ = w.Write([]byte(`{"data":[{"contentId":"sm1"}]}`))
	}))
	defer srv.Close()

	outDir := filepath.Join(t.TempDir(), "data")
	cfg := writeConfig(t, srv.URL, outDir)

	out, err := execute(t, &options{signals: signals}, "--config", cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "Interrupted by user")
	assert.Less(t, calls.Load(), int32(366))
	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr), "output directory should not be created")
}

func TestRun_OutputFlagOverridesConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	cfg := writeConfig(t, srv.URL, filepath.Join(t.TempDir(), "ignored"))
	outDir := filepath.Join(t.TempDir(), "flag")

	_, err := execute(t, &options{}, "--config", cfg, "--output", outDir)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(outDir, "vocaloid_birthday_songs.json"))
	assert.NoError(t, statErr)
}

func TestRun_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limit_per_day: -1\n"), 0644))

	_, err := execute(t, &options{}, "--config", path)
	assert.Error(t, err)
}

func TestRun_RejectsArguments(t *testing.T) {
	_, err := execute(t, &options{}, "extra")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	original := version
	version = "test-1.0.0"
	defer func() { version = original }()

	out, err := execute(t, &options{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "birthday-collect version test-1.0.0")
}
