package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/isocomply/pkg/engine"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
}

// Paths locates the pipeline inputs and the output directory.
type Paths struct {
	Controls     string `yaml:"controls"`
	Rules        string `yaml:"rules"`
	Policies     string `yaml:"policies"`
	Evidence     string `yaml:"evidence"`
	Assets       string `yaml:"assets,omitempty"`
	RiskRegister string `yaml:"risk_register,omitempty"`
	Output       string `yaml:"output"`
}

// Output file names inside Paths.Output.
const (
	MappingsJSON = "mappings.json"
	MappingsCSV  = "mappings.csv"
	ResultsJSON  = "results.json"
	GapsCSV      = "gaps.csv"
	SummaryJSON  = "summary.json"
	ReportMD     = "report.md"
)

// OutputFile joins name onto the output directory.
func (p Paths) OutputFile(name string) string {
	return filepath.Join(p.Output, name)
}

// Scoring tunes the evaluation engine.
type Scoring struct {
	PolicyMatch      string              `yaml:"policy_match"` // loose or strict
	EvidenceGuidance string              `yaml:"evidence_guidance,omitempty"`
	PolicyGuidance   string              `yaml:"policy_guidance,omitempty"`
	WeightRules      []engine.WeightRule `yaml:"weight_rules,omitempty"`
	DefaultWeight    *float64            `yaml:"default_weight,omitempty"`
}

type Config struct {
	SelectedProvider string                    `yaml:"selected_provider"`
	SelectedModel    string                    `yaml:"selected_model"`
	Providers        map[string]ProviderConfig `yaml:"providers"`
	Paths            Paths                     `yaml:"paths"`
	Scoring          Scoring                   `yaml:"scoring"`
}

// Default returns the configuration used when no file exists. Paths mirror
// the conventional project layout (data/ and policies/ under the working directory).
func Default() *Config {
	return &Config{
		SelectedProvider: "gemini",
		SelectedModel:    "gemini-pro",
		Providers:        make(map[string]ProviderConfig),
		Paths: Paths{
			Controls:     filepath.Join("data", "iso27001_annexA.json"),
			Rules:        filepath.Join("data", "control_requirements.json"),
			Policies:     "policies",
			Evidence:     filepath.Join("data", "evidence_index.json"),
			Assets:       filepath.Join("data", "assets.csv"),
			RiskRegister: filepath.Join("data", "risk_register.csv"),
			Output:       "data",
		},
		Scoring: Scoring{PolicyMatch: "loose"},
	}
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".isocomply")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

func resolve(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return GetConfigPath()
}

// LoadConfig reads the config at path, or the default location when path
// is empty. A missing file yields Default(). Unset fields keep their defaults.
func LoadConfig(path string) (*Config, error) {
	path, err := resolve(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	path, err := resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// 0600 permissions for security (api keys)
	return os.WriteFile(path, data, 0600)
}

// Validate checks the scoring section by building the engine options from it.
func (c *Config) Validate() error {
	_, err := c.EngineOptions()
	return err
}

// EngineOptions converts the scoring section into engine options.
func (c *Config) EngineOptions() ([]engine.Option, error) {
	mode, err := engine.ParseMatchMode(c.Scoring.PolicyMatch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	guidance, err := engine.NewGuidance(c.Scoring.EvidenceGuidance, c.Scoring.PolicyGuidance)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	opts := []engine.Option{
		engine.WithMatchMode(mode),
		engine.WithGuidance(guidance),
	}

	if len(c.Scoring.WeightRules) > 0 || c.Scoring.DefaultWeight != nil {
		rules := c.Scoring.WeightRules
		if len(rules) == 0 {
			rules = engine.DefaultWeightRules
		}
		def := engine.DefaultWeight
		if c.Scoring.DefaultWeight != nil {
			def = *c.Scoring.DefaultWeight
		}
		w, err := engine.NewWeigher(rules, def)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		opts = append(opts, engine.WithWeigher(w))
	}
	return opts, nil
}

func (c *Config) SetAPIKey(provider, key string) {
	p := c.Providers[provider]
	p.APIKey = key
	c.Providers[provider] = p
}

func (c *Config) GetAPIKey(provider string) string {
	return c.Providers[provider].APIKey
}
