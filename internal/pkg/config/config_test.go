//go:build unit

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang-pingcompare/internal/adapter/infrastructure/file"
	"golang-pingcompare/internal/adapter/scanner"
	"golang-pingcompare/internal/mock"
	"golang-pingcompare/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("ValidConfig", func(t *testing.T) {
		configContent := `logging:
  level: debug
  format: simple

networks:
  - 192.168.1.0/24
  - 192.168.2.0/24

exclude: ["0", "255"]

probe:
  method: ping
  timeout: 1500ms
  attempts: 3
  route_check: true

scan:
  max_concurrency: 32
  timeout: 2m

report:
  path: /tmp/report.json
  format: json
`
		configFile := filepath.Join(tempDir, "valid.yml")
		err := os.WriteFile(configFile, []byte(configContent), 0644)
		require.NoError(t, err)

		config, err := Load(file.NewManagerAdapter(), configFile)
		require.NoError(t, err)
		assert.Equal(t, "debug", config.Logging.Level)
		assert.Equal(t, "simple", config.Logging.Format)
		assert.Equal(t, []string{"192.168.1.0/24", "192.168.2.0/24"}, config.Networks)
		assert.Equal(t, []string{"0", "255"}, config.Exclude)
		assert.Equal(t, MethodPing, config.Probe.Method)
		assert.Equal(t, 1500*time.Millisecond, config.Probe.Timeout)
		assert.Equal(t, 3, config.Probe.Attempts)
		assert.True(t, config.Probe.RouteCheck)
		assert.False(t, config.Probe.Privileged)
		assert.Equal(t, 32, config.Scan.MaxConcurrency)
		assert.Equal(t, 2*time.Minute, config.Scan.Timeout)
		assert.Equal(t, "/tmp/report.json", config.Report.Path)
		assert.Equal(t, FormatJSON, config.Report.Format)
		assert.NoError(t, config.Validate())
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		configContent := `networks: [10.0.0.0/24, 10.0.1.0/24]
`
		configFile := filepath.Join(tempDir, "minimal.yml")
		require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

		config, err := Load(file.NewManagerAdapter(), configFile)
		require.NoError(t, err)
		assert.Equal(t, "info", config.Logging.Level)
		assert.Equal(t, "compact", config.Logging.Format)
		assert.Equal(t, MethodICMP, config.Probe.Method)
		assert.Equal(t, DefaultProbeTimeout, config.Probe.Timeout)
		assert.Equal(t, DefaultAttempts, config.Probe.Attempts)
		assert.Equal(t, DefaultMaxConcurrency, config.Scan.MaxConcurrency)
		assert.Equal(t, time.Duration(0), config.Scan.Timeout)
		assert.Equal(t, FormatYAML, config.Report.Format)
		assert.NoError(t, config.Validate())
	})

	t.Run("NonExistentFile", func(t *testing.T) {
		_, err := Load(file.NewManagerAdapter(), "/nonexistent/config.yml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		configContent := `invalid: yaml: content: [
`
		configFile := filepath.Join(tempDir, "invalid.yml")
		err := os.WriteFile(configFile, []byte(configContent), 0644)
		require.NoError(t, err)

		_, err = Load(file.NewManagerAdapter(), configFile)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestDefault_MatchesScanner(t *testing.T) {
	cfg := Default()
	assert.Equal(t, scanner.DefaultAttempts, cfg.Probe.Attempts)
	assert.Equal(t, 1, cfg.Probe.Attempts)
	assert.Equal(t, scanner.DefaultProbeTimeout, cfg.Probe.Timeout)
	assert.Equal(t, scanner.DefaultMaxConcurrency, cfg.Scan.MaxConcurrency)
}

func TestLoad_FileManager(t *testing.T) {
	t.Run("ReadsThroughPort", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fileMgr := mock.NewMockFileManager(ctrl)
		fileMgr.EXPECT().FileExists("/etc/pingcompare.yml").Return(true)
		fileMgr.EXPECT().ReadFile("/etc/pingcompare.yml").Return([]byte("networks: [10.0.0.0/30, 10.0.1.0/30]\n"), nil)

		config, err := Load(fileMgr, "/etc/pingcompare.yml")
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.0/30", "10.0.1.0/30"}, config.Networks)
		assert.Equal(t, 1, config.Probe.Attempts)
	})

	t.Run("MissingFileIsNotRead", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fileMgr := mock.NewMockFileManager(ctrl)
		fileMgr.EXPECT().FileExists("/etc/pingcompare.yml").Return(false)

		_, err := Load(fileMgr, "/etc/pingcompare.yml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "file does not exist")
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Networks = []string{"192.168.1.0/24", "192.168.2.0/24"}
		cfg.Exclude = []string{"0", "255"}
		return cfg
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
		wantIs  error
	}{
		{
			name:    "OneNetwork",
			mutate:  func(c *Config) { c.Networks = c.Networks[:1] },
			wantErr: "exactly two networks are required, got 1",
		},
		{
			name:   "InvalidNetwork",
			mutate: func(c *Config) { c.Networks[1] = "192.168.2.0/99" },
			wantIs: types.ErrInvalidNetwork,
		},
		{
			name:   "InvalidExclusion",
			mutate: func(c *Config) { c.Exclude = []string{"zero"} },
			wantIs: types.ErrInvalidExclusion,
		},
		{
			name:    "UnknownMethod",
			mutate:  func(c *Config) { c.Probe.Method = "arp" },
			wantErr: "unknown probe method",
		},
		{
			name:    "NegativeProbeTimeout",
			mutate:  func(c *Config) { c.Probe.Timeout = -time.Second },
			wantErr: "probe timeout must be positive",
		},
		{
			name:    "ZeroAttempts",
			mutate:  func(c *Config) { c.Probe.Attempts = -1 },
			wantErr: "probe attempts must be at least 1",
		},
		{
			name:    "ZeroConcurrency",
			mutate:  func(c *Config) { c.Scan.MaxConcurrency = -4 },
			wantErr: "scan max_concurrency must be at least 1",
		},
		{
			name:    "NegativeScanTimeout",
			mutate:  func(c *Config) { c.Scan.Timeout = -time.Minute },
			wantErr: "scan timeout must not be negative",
		},
		{
			name:    "UnknownReportFormat",
			mutate:  func(c *Config) { c.Report.Format = "xml" },
			wantErr: "unknown report format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}
