package election

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig(strings.NewReader("candidate_fee: 5\nresults_gate: ended\nadmin_only_end: true\n"))
	require.NoError(t, err)
	require.Equal(t, uint64(5), cfg.CandidateFee)
	require.Equal(t, GateEnded, cfg.ResultsGate)
	require.True(t, cfg.AdminOnlyEnd)
	require.Equal(t, 64, cfg.MaxIDAttempts)

	_, err = LoadConfig(strings.NewReader("unknown: 1\n"))
	require.Error(t, err)
	require.Regexp(t, "^failed to decode config: ", err.Error())

	_, err = LoadConfig(strings.NewReader("results_gate: sometimes\n"))
	require.EqualError(t, err, "invalid config: unknown results_gate 'sometimes'")

	_, err = LoadConfig(strings.NewReader("max_id_attempts: 0\n"))
	require.EqualError(t, err, "invalid config: max_id_attempts must be positive: 0")

	_, err = LoadConfig(strings.NewReader("verification_min_length: -1\n"))
	require.EqualError(t, err, "invalid config: verification_min_length must not be negative: -1")
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("candidate_fee: 3\n"), 0600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, uint64(3), cfg.CandidateFee)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Regexp(t, "^failed to open config: ", err.Error())
}
