package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "https://api.github.com/graphql", cfg.GitHub.Endpoint)
	assert.Equal(t, "TOKEN", cfg.GitHub.TokenEnv)
	assert.Equal(t, 2011, cfg.Scan.CutoffYear)
	assert.NotSame(t, cfg, DefaultConfig())
}

func TestLoadConfig(t *testing.T) {
	testCases := []struct {
		name           string
		content        string
		expected       *Config
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "full file",
			content: `github:
  endpoint: https://ghe.example.com/api/graphql
  token_env: GHE_TOKEN
scan:
  cutoff_year: 2009
`,
			expected: &Config{
				GitHub: GitHubConfig{Endpoint: "https://ghe.example.com/api/graphql", TokenEnv: "GHE_TOKEN"},
				Scan:   ScanConfig{CutoffYear: 2009},
			},
		},
		{
			name:    "partial file keeps defaults",
			content: "scan:\n  cutoff_year: 2012\n",
			expected: &Config{
				GitHub: GitHubConfig{Endpoint: DefaultEndpoint, TokenEnv: DefaultTokenEnv},
				Scan:   ScanConfig{CutoffYear: 2012},
			},
		},
		{
			name:    "empty values fall back to defaults",
			content: "github:\n  endpoint: \"\"\nscan:\n  cutoff_year: 0\n",
			expected: &Config{
				GitHub: GitHubConfig{Endpoint: DefaultEndpoint, TokenEnv: DefaultTokenEnv},
				Scan:   ScanConfig{CutoffYear: 2011},
			},
		},
		{
			name:           "invalid yaml",
			content:        "github: [unterminated",
			expectError:    true,
			expectedErrMsg: "failed to unmarshal config",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "config.yaml", tc.content)

			cfg, err := LoadConfig(path)

			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("GITHUB_DORMANT_ENDPOINT", "http://localhost:9999/graphql")
	t.Setenv("GHE_TOKEN", "secret")

	cfg := DefaultConfig()
	cfg.GitHub.TokenEnv = "GHE_TOKEN"
	ApplyEnvOverrides(cfg)

	assert.Equal(t, "http://localhost:9999/graphql", cfg.GitHub.Endpoint)
	assert.Equal(t, "secret", cfg.GitHub.Token)
}

func TestApplyEnvOverrides_MissingTokenIsNotAnError(t *testing.T) {
	t.Setenv("TOKEN", "")

	cfg := DefaultConfig()
	ApplyEnvOverrides(cfg)

	assert.Empty(t, cfg.GitHub.Token)
	assert.Equal(t, DefaultEndpoint, cfg.GitHub.Endpoint)
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("DORMANT_TEST_PRESET", "from-env")
	path := writeFile(t, ".env", "DORMANT_TEST_FROM_FILE=from-file\nDORMANT_TEST_PRESET=from-file\n")
	t.Cleanup(func() { os.Unsetenv("DORMANT_TEST_FROM_FILE") })

	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "from-file", os.Getenv("DORMANT_TEST_FROM_FILE"))
	assert.Equal(t, "from-env", os.Getenv("DORMANT_TEST_PRESET"), "existing variables must win")
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoad(t *testing.T) {
	t.Setenv("GITHUB_DORMANT_ENDPOINT", "")
	t.Setenv("CUSTOM_TOKEN", "abc")
	path := writeFile(t, "config.yaml", "github:\n  token_env: CUSTOM_TOKEN\n  endpoint: https://example.com/graphql\n")

	cfg, err := Load(path, filepath.Join(t.TempDir(), ".env"))

	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.GitHub.Token)
	assert.Equal(t, "https://example.com/graphql", cfg.GitHub.Endpoint)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	t.Setenv("GITHUB_DORMANT_ENDPOINT", "http://override/graphql")
	path := writeFile(t, "config.yaml", "github:\n  endpoint: https://example.com/graphql\n")

	cfg, err := Load(path, filepath.Join(t.TempDir(), ".env"))

	require.NoError(t, err)
	assert.Equal(t, "http://override/graphql", cfg.GitHub.Endpoint)
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("GITHUB_DORMANT_ENDPOINT", "")
	t.Setenv("TOKEN", "tok")

	cfg, err := Load("", filepath.Join(t.TempDir(), ".env"))

	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, cfg.GitHub.Endpoint)
	assert.Equal(t, "tok", cfg.GitHub.Token)
}
