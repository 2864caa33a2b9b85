package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://127.0.0.1:8000/api/v1", "-d", "x.db", "-t", "3", "-l", "debug"},
			expected: &Config{
				APIBaseURL:     "http://127.0.0.1:8000/api/v1",
				DatabasePath:   "x.db",
				RequestTimeout: 3 * time.Second,
				LogLevel:       "debug",
			},
		},
		{
			name:     "unrelated flags are ignored",
			args:     []string{"-c", "conf.json", "-t", "7"},
			expected: &Config{RequestTimeout: 7 * time.Second},
		},
		{name: "non numeric timeout", args: []string{"-t", "abc"}, wantErr: true},
		{name: "zero timeout", args: []string{"-t", "0"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{RequestTimeout: time.Second}

			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
