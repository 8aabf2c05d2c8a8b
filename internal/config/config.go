package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"kgram/internal/boundary"
	kerrors "kgram/internal/errors"
)

// KGramConfig holds the core vectorization parameters.
type KGramConfig struct {
	K int `yaml:"k"`
	// SampleSize caps each document's k-gram set; nil keeps everything.
	SampleSize *int `yaml:"sample_size,omitempty"`
	// Seed fixes the sampling random stream; 0 draws a fresh seed per run.
	Seed uint64 `yaml:"seed"`
}

// InputConfig controls which files of an input directory become documents.
type InputConfig struct {
	ExcludeNames []string `yaml:"exclude_names"`
	// Extensions restricts inputs to these suffixes; empty accepts any file.
	Extensions []string `yaml:"extensions,omitempty"`
}

// OutputConfig names the matrix and name files.
type OutputConfig struct {
	Prefix string `yaml:"prefix"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	SQLite *SQLiteConfig `yaml:"sqlite,omitempty"`
}

// SQLiteConfig locates the SQLite database holding vectorization runs.
type SQLiteConfig struct {
	Path  string `yaml:"path"`
	RunID string `yaml:"run_id,omitempty"`
}

// SummaryConfig configures the corpus summary.
type SummaryConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

// ClusterConfig configures Lloyd clustering of a vectorized corpus.
type ClusterConfig struct {
	Clusters int    `yaml:"clusters"`
	Restarts int    `yaml:"restarts"`
	Init     string `yaml:"init"`
	Seed     uint64 `yaml:"seed"`
}

// Error policies for per-document failures.
const (
	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"
)

// AppConfig is the root application configuration structure.
type AppConfig struct {
	KGram       KGramConfig       `yaml:"kgram"`
	Boundary    boundary.Markers  `yaml:"boundary"`
	Input       InputConfig       `yaml:"input"`
	Output      OutputConfig      `yaml:"output"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Summary     SummaryConfig     `yaml:"summary"`
	Cluster     ClusterConfig     `yaml:"cluster"`
	OnError     string            `yaml:"on_error"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	// Decode over the defaults so keys present in the file, zeros included,
	// reach Validate unchanged.
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(cfg)
	return cfg, nil
}

// LoadDefault tries ./kgram.yaml first, then ~/.config/kgram/config.yaml.
// If neither exists, it writes defaults to ~/.config/kgram/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "kgram.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ApplyEnv overrides settings from KGRAM_* environment variables.
func ApplyEnv(cfg *AppConfig) error {
	if v, ok := os.LookupEnv("KGRAM_K"); ok {
		k, err := strconv.Atoi(v)
		if err != nil {
			return kerrors.NewConfigurationError("KGRAM_K", v, "must be a positive integer")
		}
		cfg.KGram.K = k
	}
	if v, ok := os.LookupEnv("KGRAM_SAMPLE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return kerrors.NewConfigurationError("KGRAM_SAMPLE_SIZE", v, "must be a non-negative integer")
		}
		cfg.KGram.SampleSize = &n
	}
	if v, ok := os.LookupEnv("KGRAM_SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return kerrors.NewConfigurationError("KGRAM_SEED", v, "must be an unsigned integer")
		}
		cfg.KGram.Seed = seed
	}
	if v, ok := os.LookupEnv("KGRAM_ON_ERROR"); ok {
		cfg.OnError = v
	}
	if v, ok := os.LookupEnv("KGRAM_SQLITE_PATH"); ok && v != "" {
		cfg.VectorStore.Type = "sqlite"
		if cfg.VectorStore.SQLite == nil {
			cfg.VectorStore.SQLite = &SQLiteConfig{}
		}
		cfg.VectorStore.SQLite.Path = v
	}
	return nil
}

// Validate checks the ranges the pipeline depends on.
func (c *AppConfig) Validate() error {
	if c.KGram.K < 1 {
		return kerrors.NewConfigurationError("kgram.k", strconv.Itoa(c.KGram.K), "must be a positive integer")
	}
	if c.KGram.SampleSize != nil && *c.KGram.SampleSize < 0 {
		return kerrors.NewConfigurationError("kgram.sample_size", strconv.Itoa(*c.KGram.SampleSize), "must be a non-negative integer")
	}
	if len(c.Boundary.HeaderEnd) == 0 {
		return kerrors.NewConfigurationError("boundary.header_markers", "", "must not be empty")
	}
	switch c.OnError {
	case OnErrorAbort, OnErrorSkip:
	default:
		return kerrors.NewConfigurationError("on_error", c.OnError, "must be abort or skip")
	}
	switch c.VectorStore.Type {
	case "memory":
	case "sqlite":
		if c.VectorStore.SQLite == nil || c.VectorStore.SQLite.Path == "" {
			return kerrors.NewConfigurationError("vector_store.sqlite.path", "", "is required for the sqlite store")
		}
	default:
		return kerrors.NewConfigurationError("vector_store.type", c.VectorStore.Type, "must be memory or sqlite")
	}
	return nil
}

// EffectiveSampleSize returns the per-document cap, unlimited when unset.
func (c *AppConfig) EffectiveSampleSize() int {
	if c.KGram.SampleSize == nil {
		return math.MaxInt
	}
	return *c.KGram.SampleSize
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "kgram", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		KGram:       KGramConfig{K: 3},
		Boundary:    boundary.DefaultMarkers(),
		Input:       InputConfig{ExcludeNames: defaultExcludes()},
		Output:      OutputConfig{Prefix: "kgrams"},
		VectorStore: VectorStoreConfig{Type: "memory"},
		Summary:     SummaryConfig{MaxEntries: 5},
		Cluster:     ClusterConfig{Clusters: 3, Restarts: 5, Init: "plusplus"},
		OnError:     OnErrorAbort,
	}
	return cfg
}

func defaultExcludes() []string {
	return []string{".DS_Store", "Thumbs.db", "desktop.ini"}
}

func applyConfigDefaults(cfg *AppConfig) {
	if len(cfg.Boundary.HeaderEnd) == 0 && len(cfg.Boundary.FooterStart) == 0 {
		cfg.Boundary = boundary.DefaultMarkers()
	}
	if cfg.Input.ExcludeNames == nil {
		cfg.Input.ExcludeNames = defaultExcludes()
	}
	if cfg.Output.Prefix == "" {
		cfg.Output.Prefix = "kgrams"
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.Summary.MaxEntries == 0 {
		cfg.Summary.MaxEntries = 5
	}
	if cfg.Cluster.Clusters == 0 {
		cfg.Cluster.Clusters = 3
	}
	if cfg.Cluster.Restarts == 0 {
		cfg.Cluster.Restarts = 5
	}
	if cfg.Cluster.Init == "" {
		cfg.Cluster.Init = "plusplus"
	}
	if cfg.OnError == "" {
		cfg.OnError = OnErrorAbort
	}
}
