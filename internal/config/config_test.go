package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config_test_*.yml")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(tmpFile.Name()) })

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	_ = tmpFile.Close()
	return tmpFile.Name()
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "de", cfg.Render.Locale)
	assert.False(t, cfg.Cast.Strict)
	assert.Equal(t, DefaultMaxDepth, cfg.JSON.MaxDepth)
	assert.Equal(t, KeyStyleNone, cfg.JSON.KeyStyle)
	assert.NotNil(t, cfg.JSON.KeyMappings)
	assert.False(t, cfg.Objects.StrictTake)
	assert.False(t, cfg.Dev.Debug)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromYAML(t *testing.T) {
	path := writeTempConfig(t, `
render:
  locale: en
cast:
  strict: true
json:
  max_depth: 64
  key_style: snake
  key_mappings:
    "ID": "identifier"
objects:
  strict_take: true
dev:
  debug: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "en", cfg.Render.Locale)
	assert.True(t, cfg.Cast.Strict)
	assert.Equal(t, 64, cfg.JSON.MaxDepth)
	assert.Equal(t, KeyStyleSnake, cfg.JSON.KeyStyle)
	assert.Equal(t, "identifier", cfg.JSON.KeyMappings["ID"])
	assert.True(t, cfg.Objects.StrictTake)
	assert.True(t, cfg.Dev.Debug)

	r, err := cfg.Renderer()
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestConfig_PartialYAMLKeepsDefaults(t *testing.T) {
	path := writeTempConfig(t, "cast:\n  strict: true\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Cast.Strict)
	assert.Equal(t, "de", cfg.Render.Locale)
	assert.Equal(t, DefaultMaxDepth, cfg.JSON.MaxDepth)
	assert.NotNil(t, cfg.JSON.KeyMappings)
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	path := writeTempConfig(t, `
render:
  locale: [unclosed array
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad locale", func(c *Config) { c.Render.Locale = "fr" }, "unsupported render locale"},
		{"zero depth", func(c *Config) { c.JSON.MaxDepth = 0 }, "max_depth must be positive"},
		{"depth beyond decoder", func(c *Config) { c.JSON.MaxDepth = 20000 }, "must not exceed 10000"},
		{"bad key style", func(c *Config) { c.JSON.KeyStyle = "screaming" }, "unsupported json.key_style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	cfg := NewConfig()
	cfg.JSON.MaxDepth = 10000
	require.NoError(t, cfg.Validate())

	cfg.JSON.KeyStyle = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, KeyStyleNone, cfg.JSON.KeyStyle)
}

func TestConfig_LoadRejectsInvalidValues(t *testing.T) {
	path := writeTempConfig(t, "json:\n  max_depth: -1\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config file")
}

func TestConfig_FindConfigFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config_search_test")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(tmpDir) }()

	nestedDir := filepath.Join(tmpDir, "project", "subdir")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	configPath := filepath.Join(tmpDir, "project", ".anyrt.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("render:\n  locale: en\n"), 0o644))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()
	require.NoError(t, os.Chdir(nestedDir))

	foundPath := FindConfigFile()
	require.NotEmpty(t, foundPath, "Should find config file")

	foundContent, err := os.ReadFile(foundPath)
	require.NoError(t, err)
	assert.Contains(t, string(foundContent), "locale: en")
}

func TestConfig_KeyName(t *testing.T) {
	tests := []struct {
		style KeyStyle
		in    string
		want  string
	}{
		{KeyStyleNone, "userName", "userName"},
		{KeyStyleSnake, "userName", "user_name"},
		{KeyStyleCamel, "user_name", "UserName"},
		{KeyStyleLowerCamel, "user_name", "userName"},
		{KeyStyleKebab, "user_name", "user-name"},
	}

	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			cfg := NewConfig()
			cfg.JSON.KeyStyle = tt.style
			assert.Equal(t, tt.want, cfg.KeyName(tt.in))
		})
	}

	cfg := NewConfig()
	cfg.JSON.KeyStyle = KeyStyleSnake
	cfg.JSON.KeyMappings["userID"] = "uid"
	assert.Equal(t, "uid", cfg.KeyName("userID"), "mappings take precedence over the key style")
}

func TestLoadConfigWithCLI(t *testing.T) {
	path := writeTempConfig(t, "render:\n  locale: en\ncast:\n  strict: true\n")

	cfg, err := LoadConfigWithCLI(path, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Render.Locale)
	assert.True(t, cfg.Cast.Strict)

	locale := "de"
	strict := false
	depth := 5
	style := "snake"
	debug := true
	cfg, err = LoadConfigWithCLI(path, Overrides{
		Locale:   &locale,
		Strict:   &strict,
		MaxDepth: &depth,
		KeyStyle: &style,
		Debug:    &debug,
	})
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.Render.Locale)
	assert.False(t, cfg.Cast.Strict, "CLI flags override the config file")
	assert.Equal(t, 5, cfg.JSON.MaxDepth)
	assert.Equal(t, KeyStyleSnake, cfg.JSON.KeyStyle)
	assert.True(t, cfg.Dev.Debug)

	bad := "xx"
	_, err = LoadConfigWithCLI(path, Overrides{Locale: &bad})
	assert.Error(t, err)
}
