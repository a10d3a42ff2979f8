package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    Config
		wantErr bool
	}{
		{"empty", "", Default(), false},
		{"full", "log_level: debug\nloop_count: 0\nallow_setup_change: true\nverify_integrity: true\nmax_events: 25\n",
			Config{LogLevel: "debug", LoopCount: 0, AllowSetupChange: true, VerifyIntegrity: true, MaxEvents: 25}, false},
		{"partial", "max_events: 3\n", Config{LogLevel: "warn", LoopCount: 1, MaxEvents: 3}, false},
		{"unknown key", "loops: 2\n", Config{}, true},
		{"bad level", "log_level: loud\n", Config{}, true},
		{"negative loops", "loop_count: -1\n", Config{}, true},
		{"negative max", "max_events: -5\n", Config{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.yaml))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "griffdump.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: info\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
