package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, defaultSnapshotFilename, cfg.SnapshotPath)
	require.Len(t, cfg.Listeners, 1)
	assert.Equal(t, ":5050", cfg.RawListeners[0])

	policy, preflight, err := cfg.routing()
	require.NoError(t, err)
	assert.EqualValues(t, 1000, policy.UnknownFeePPM)
	assert.Equal(t, 3, preflight.Attempts)
	assert.Equal(t, 500*time.Millisecond, preflight.InitialBackoff)
	assert.Equal(t, 6, cfg.Router.MaxHops)
}

func TestParseConfigFlags(t *testing.T) {
	cfg, err := parseConfig([]string{
		"--listen=127.0.0.1:6000",
		"--router.maxhops=4",
		"--router.unknownbasefee=7",
		"--preflight.attempts=1",
		"--preflight.initialbackoff=50ms",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:6000", cfg.Listeners[0].String())
	assert.Equal(t, 4, cfg.Router.MaxHops)

	policy, preflight, err := cfg.routing()
	require.NoError(t, err)
	assert.Equal(t, "7", policy.UnknownBaseFee.String())
	assert.Equal(t, 1, preflight.Attempts)
	assert.Equal(t, 50*time.Millisecond, preflight.InitialBackoff)
}

func TestParseConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routed.conf")
	require.NoError(t, os.WriteFile(path, []byte(`
[Application Options]
debug = true

[Router]
router.maxhops = 3
router.unknownfeeppm = 2000
`), 0600))

	cfg, err := parseConfig([]string{"--configfile=" + path, "--router.maxhops=5"})
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 5, cfg.Router.MaxHops)
	assert.EqualValues(t, 2000, cfg.Router.UnknownFeePPM)
}

func TestParseConfigRejectsBadPolicy(t *testing.T) {
	_, err := parseConfig([]string{"--router.unknownbasefee=lots"})
	assert.Error(t, err)

	_, err = parseConfig([]string{"--router.unknownfeeppm=1000000"})
	assert.Error(t, err)

	_, err = parseConfig([]string{"--router.surchargemax=50"})
	assert.Error(t, err)
}

func TestCleanAndExpandPath(t *testing.T) {
	assert.Equal(t, "", cleanAndExpandPath(""))
	assert.Equal(t, "/tmp/routed", cleanAndExpandPath("/tmp//routed/"))

	t.Setenv("ROUTED_TEST_DIR", "/var/lib")
	assert.Equal(t, "/var/lib/snapshot.yaml", cleanAndExpandPath("$ROUTED_TEST_DIR/snapshot.yaml"))
}
