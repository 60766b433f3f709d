package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/anyrt/internal/parser"
	"github.com/mcncl/anyrt/internal/types"
)

// DefaultMaxDepth bounds the nesting depth the JSON bridge accepts. The
// configured limit may not exceed parser.MaxNesting.
const DefaultMaxDepth = 1000

// Config represents the complete configuration for anyrt
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Cast    CastConfig    `yaml:"cast"`
	JSON    JSONConfig    `yaml:"json"`
	Objects ObjectsConfig `yaml:"objects"`
	Dev     DevConfig     `yaml:"dev"`
}

// RenderConfig controls how type names appear in diagnostics
type RenderConfig struct {
	Locale string `yaml:"locale"`
}

// CastConfig controls runtime cast validation
type CastConfig struct {
	Strict bool `yaml:"strict"`
}

// KeyStyle names a case convention applied to JSON object keys
type KeyStyle string

const (
	KeyStyleNone       KeyStyle = "none"
	KeyStyleSnake      KeyStyle = "snake"
	KeyStyleCamel      KeyStyle = "camel"
	KeyStyleLowerCamel KeyStyle = "lower_camel"
	KeyStyleKebab      KeyStyle = "kebab"
)

// JSONConfig controls the JSON bridge
type JSONConfig struct {
	MaxDepth    int               `yaml:"max_depth"`
	KeyStyle    KeyStyle          `yaml:"key_style"`
	KeyMappings map[string]string `yaml:"key_mappings"`
}

// ObjectsConfig controls dynamic object access from the CLI
type ObjectsConfig struct {
	StrictTake bool `yaml:"strict_take"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Locale: string(types.DefaultLocale),
		},
		Cast: CastConfig{
			Strict: false,
		},
		JSON: JSONConfig{
			MaxDepth:    DefaultMaxDepth,
			KeyStyle:    KeyStyleNone,
			KeyMappings: make(map[string]string),
		},
		Objects: ObjectsConfig{
			StrictTake: false,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.JSON.KeyMappings == nil {
		cfg.JSON.KeyMappings = make(map[string]string)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".anyrt.yml", ".anyrt.yaml", "anyrt.yml", "anyrt.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that every option holds a supported value
func (c *Config) Validate() error {
	if !types.SupportedLocale(types.Locale(c.Render.Locale)) {
		return fmt.Errorf("unsupported render locale '%s'", c.Render.Locale)
	}
	if c.JSON.MaxDepth <= 0 {
		return fmt.Errorf("json.max_depth must be positive, got %d", c.JSON.MaxDepth)
	}
	if c.JSON.MaxDepth > parser.MaxNesting {
		return fmt.Errorf("json.max_depth must not exceed %d, got %d", parser.MaxNesting, c.JSON.MaxDepth)
	}
	switch c.JSON.KeyStyle {
	case KeyStyleNone, KeyStyleSnake, KeyStyleCamel, KeyStyleLowerCamel, KeyStyleKebab:
	case "":
		c.JSON.KeyStyle = KeyStyleNone
	default:
		return fmt.Errorf("unsupported json.key_style '%s'", c.JSON.KeyStyle)
	}
	return nil
}

// Renderer returns the type renderer for the configured locale
func (c *Config) Renderer() (*types.Renderer, error) {
	return types.NewRenderer(types.Locale(c.Render.Locale))
}

// KeyName returns the key under which a JSON object member is stored.
// Exact mappings win over the key style.
func (c *Config) KeyName(jsonKey string) string {
	if mapped, exists := c.JSON.KeyMappings[jsonKey]; exists {
		return mapped
	}

	switch c.JSON.KeyStyle {
	case KeyStyleSnake:
		return strcase.ToSnake(jsonKey)
	case KeyStyleCamel:
		return strcase.ToCamel(jsonKey)
	case KeyStyleLowerCamel:
		return strcase.ToLowerCamel(jsonKey)
	case KeyStyleKebab:
		return strcase.ToKebab(jsonKey)
	default:
		return jsonKey
	}
}

// Overrides carries CLI flags. Nil fields were not given on the command line.
type Overrides struct {
	Locale     *string
	Strict     *bool
	MaxDepth   *int
	KeyStyle   *string
	StrictTake *bool
	Debug      *bool
}

// LoadConfigWithCLI loads the config file (explicit path, else discovered,
// else defaults) and applies CLI overrides on top.
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if o.Locale != nil {
		cfg.Render.Locale = *o.Locale
	}
	if o.Strict != nil {
		cfg.Cast.Strict = *o.Strict
	}
	if o.MaxDepth != nil {
		cfg.JSON.MaxDepth = *o.MaxDepth
	}
	if o.KeyStyle != nil {
		cfg.JSON.KeyStyle = KeyStyle(*o.KeyStyle)
	}
	if o.StrictTake != nil {
		cfg.Objects.StrictTake = *o.StrictTake
	}
	if o.Debug != nil {
		cfg.Dev.Debug = *o.Debug
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
