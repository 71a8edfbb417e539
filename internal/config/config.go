package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/sleuth/internal/constants"
	"github.com/Paintersrp/sleuth/internal/pathutil"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	LangKorean  = "ko"
	LangEnglish = "en"

	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	SourceChrome   = "chrome"
	SourceNetscape = "netscape"
	SourceMarkdown = "markdown"
	SourcePostgres = "postgres"

	DefaultHistoryLimit = 5
	MaxHistoryLimit     = 50
	DefaultDebounce     = 300 * time.Millisecond
	DefaultQueryTimeout = 2 * time.Second
	DefaultRedisPrefix  = "sleuth:"
	DefaultLogLevel     = "info"
)

var (
	ValidThemes    = []string{ThemeDark, ThemeLight}
	ValidLanguages = []string{LangKorean, LangEnglish}
	ValidBackends  = []string{BackendFile, BackendRedis, BackendMemory}
	ValidSources   = []string{SourceChrome, SourceNetscape, SourceMarkdown, SourcePostgres}
	ValidLogLevels = []string{"debug", "info", "warn", "error", "disabled"}
)

type SourceConfig struct {
	Name    string `yaml:"name"              json:"name"`
	Type    string `yaml:"type"              json:"type"`
	Path    string `yaml:"path,omitempty"    json:"path,omitempty"`
	Browser string `yaml:"browser,omitempty" json:"browser,omitempty"`
	DSN     string `yaml:"dsn,omitempty"     json:"dsn,omitempty"`
	Table   string `yaml:"table,omitempty"   json:"table,omitempty"`
}

type HistoryConfig struct {
	Limit int `yaml:"limit" json:"limit"`
}

type SearchConfig struct {
	Debounce     time.Duration `yaml:"debounce"      json:"debounce"`
	QueryTimeout time.Duration `yaml:"query_timeout" json:"query_timeout"`
	MaxParallel  int           `yaml:"max_parallel"  json:"max_parallel"`
	MaxResults   int           `yaml:"max_results"   json:"max_results"`
}

type StoreConfig struct {
	Backend       string `yaml:"backend"                  json:"backend"`
	Path          string `yaml:"path,omitempty"           json:"path,omitempty"`
	RedisAddr     string `yaml:"redis_addr,omitempty"     json:"redis_addr,omitempty"`
	RedisDB       int    `yaml:"redis_db,omitempty"       json:"redis_db,omitempty"`
	RedisPassword string `yaml:"redis_password,omitempty" json:"-"`
	Prefix        string `yaml:"prefix,omitempty"         json:"prefix,omitempty"`
}

type SyncConfig struct {
	Bucket    string `yaml:"bucket,omitempty"     json:"bucket,omitempty"`
	Key       string `yaml:"key,omitempty"        json:"key,omitempty"`
	Region    string `yaml:"region,omitempty"     json:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"   json:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty" json:"-"`
	SecretKey string `yaml:"secret_key,omitempty" json:"-"`
}

type LogConfig struct {
	Level string `yaml:"level"          json:"level"`
	File  string `yaml:"file,omitempty" json:"file,omitempty"`
}

type Config struct {
	Sources  []SourceConfig `yaml:"sources"  json:"sources"`
	Theme    string         `yaml:"theme"    json:"theme"`
	Language string         `yaml:"language" json:"language"`
	History  HistoryConfig  `yaml:"history"  json:"history"`
	Search   SearchConfig   `yaml:"search"   json:"search"`
	Store    StoreConfig    `yaml:"store"    json:"store"`
	Sync     SyncConfig     `yaml:"sync"     json:"sync"`
	Log      LogConfig      `yaml:"log"      json:"log"`

	path string `yaml:"-"`
	home string `yaml:"-"`
}

// Default returns the configuration used when the file is empty.
func Default(home string) *Config {
	cfg := &Config{home: home, path: GetConfigPath(home)}
	cfg.applyDefaults()
	return cfg
}

// Load reads ~/.sleuth/cfg.yaml.
func Load(home string) (*Config, error) {
	return FromFile(GetConfigPath(home), home)
}

// FromFile reads the config at path. An empty file yields the defaults.
func FromFile(path, home string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	cfg.path = path
	cfg.home = home
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.syncViper()
	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	if cfg.Theme == "" {
		cfg.Theme = ThemeDark
	}
	cfg.Language = strings.ToLower(strings.TrimSpace(cfg.Language))
	if cfg.Language == "" {
		cfg.Language = LangEnglish
	}
	if cfg.History.Limit == 0 {
		cfg.History.Limit = DefaultHistoryLimit
	}
	if cfg.Search.Debounce == 0 {
		cfg.Search.Debounce = DefaultDebounce
	}
	if cfg.Search.QueryTimeout == 0 {
		cfg.Search.QueryTimeout = DefaultQueryTimeout
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendFile
	}
	if cfg.Store.Path == "" && cfg.home != "" {
		cfg.Store.Path = filepath.Join(GetConfigDir(cfg.home), constants.StateFile)
	}
	if cfg.Store.Prefix == "" {
		cfg.Store.Prefix = DefaultRedisPrefix
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.File == "" && cfg.home != "" {
		cfg.Log.File = filepath.Join(GetConfigDir(cfg.home), constants.LogFile)
	}
	if cfg.Sources == nil {
		cfg.Sources = []SourceConfig{}
	}
	for i := range cfg.Sources {
		src := &cfg.Sources[i]
		src.Type = strings.ToLower(strings.TrimSpace(src.Type))
		if src.Name == "" {
			src.Name = src.Type
		}
		if src.Path != "" && cfg.home != "" {
			src.Path = pathutil.ExpandHome(src.Path, cfg.home)
		}
	}
}

// Validate checks every enumerated field and the per-source requirements.
func (cfg *Config) Validate() error {
	if !oneOf(cfg.Theme, ValidThemes) {
		return &ValidationError{Field: "theme", Value: cfg.Theme, Allow: quoteList(ValidThemes)}
	}
	if !oneOf(cfg.Language, ValidLanguages) {
		return &ValidationError{Field: "language", Value: cfg.Language, Allow: quoteList(ValidLanguages)}
	}
	if cfg.History.Limit < 1 || cfg.History.Limit > MaxHistoryLimit {
		return &ValidationError{Field: "history.limit", Value: cfg.History.Limit, Allow: fmt.Sprintf("1 to %d", MaxHistoryLimit)}
	}
	if cfg.Search.Debounce < 0 || cfg.Search.QueryTimeout < 0 {
		return &ValidationError{Field: "search durations", Value: "negative"}
	}
	if cfg.Search.MaxParallel < 0 || cfg.Search.MaxResults < 0 {
		return &ValidationError{Field: "search limits", Value: "negative"}
	}
	if !oneOf(cfg.Store.Backend, ValidBackends) {
		return &ValidationError{Field: "store.backend", Value: cfg.Store.Backend, Allow: quoteList(ValidBackends)}
	}
	if cfg.Store.Backend == BackendRedis && strings.TrimSpace(cfg.Store.RedisAddr) == "" {
		return &ValidationError{Field: "store.redis_addr", Value: `""`}
	}
	if !oneOf(strings.ToLower(cfg.Log.Level), ValidLogLevels) {
		return &ValidationError{Field: "log.level", Value: cfg.Log.Level, Allow: quoteList(ValidLogLevels)}
	}

	seen := make(map[string]struct{}, len(cfg.Sources))
	for _, src := range cfg.Sources {
		if err := src.Validate(); err != nil {
			return err
		}
		if _, dup := seen[src.Name]; dup {
			return &ValidationError{Field: "sources.name", Value: src.Name, Allow: "unique names"}
		}
		seen[src.Name] = struct{}{}
	}
	return nil
}

func (src SourceConfig) Validate() error {
	field := fmt.Sprintf("sources[%s]", src.Name)
	switch src.Type {
	case SourceChrome:
		if src.Path == "" && src.Browser == "" {
			return &ValidationError{Field: field + ".path", Value: `""`, Allow: "a path or a browser name"}
		}
	case SourceNetscape, SourceMarkdown:
		if src.Path == "" {
			return &ValidationError{Field: field + ".path", Value: `""`}
		}
	case SourcePostgres:
		if src.DSN == "" {
			return &ValidationError{Field: field + ".dsn", Value: `""`}
		}
	default:
		return &ValidationError{Field: field + ".type", Value: src.Type, Allow: quoteList(ValidSources)}
	}
	return nil
}

func (cfg *Config) Path() string { return cfg.path }

func (cfg *Config) Home() string { return cfg.home }

// SetTheme validates and stores the default theme.
func (cfg *Config) SetTheme(theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if !oneOf(theme, ValidThemes) {
		return &ValidationError{Field: "theme", Value: theme, Allow: quoteList(ValidThemes)}
	}
	cfg.Theme = theme
	return cfg.Save()
}

// SetLanguage validates and stores the default language.
func (cfg *Config) SetLanguage(lang string) error {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !oneOf(lang, ValidLanguages) {
		return &ValidationError{Field: "language", Value: lang, Allow: quoteList(ValidLanguages)}
	}
	cfg.Language = lang
	return cfg.Save()
}

// AddSource appends a source and saves the file.
func (cfg *Config) AddSource(src SourceConfig) error {
	src.Type = strings.ToLower(strings.TrimSpace(src.Type))
	if src.Name == "" {
		src.Name = src.Type
	}
	if err := src.Validate(); err != nil {
		return err
	}
	for _, existing := range cfg.Sources {
		if existing.Name == src.Name {
			return fmt.Errorf("source %q already exists", src.Name)
		}
	}
	cfg.Sources = append(cfg.Sources, src)
	return cfg.Save()
}

func (cfg *Config) Save() error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	cfg.syncViper()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.path
	if configPath == "" {
		return fmt.Errorf("config has no file path")
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// syncViper publishes the loaded values as viper defaults so flags and
// SLEUTH_* environment variables bound by the commands take precedence.
func (cfg *Config) syncViper() {
	viper.SetDefault("theme", cfg.Theme)
	viper.SetDefault("language", cfg.Language)
	viper.SetDefault("history.limit", cfg.History.Limit)
	viper.SetDefault("search.debounce", cfg.Search.Debounce)
	viper.SetDefault("search.query_timeout", cfg.Search.QueryTimeout)
	viper.SetDefault("search.max_parallel", cfg.Search.MaxParallel)
	viper.SetDefault("search.max_results", cfg.Search.MaxResults)
	viper.SetDefault("store.backend", cfg.Store.Backend)
	viper.SetDefault("store.redis_addr", cfg.Store.RedisAddr)
	viper.SetDefault("log.level", cfg.Log.Level)
}

// ApplyOverrides copies flag and environment overrides resolved by viper
// back into the config without saving.
func (cfg *Config) ApplyOverrides(v *viper.Viper) error {
	if v == nil {
		v = viper.GetViper()
	}
	if theme := v.GetString("theme"); theme != "" {
		cfg.Theme = strings.ToLower(theme)
	}
	if lang := v.GetString("language"); lang != "" {
		cfg.Language = strings.ToLower(lang)
	}
	if backend := v.GetString("store.backend"); backend != "" {
		cfg.Store.Backend = backend
	}
	if addr := v.GetString("store.redis_addr"); addr != "" {
		cfg.Store.RedisAddr = addr
	}
	if bucket := v.GetString("sync.bucket"); bucket != "" {
		cfg.Sync.Bucket = bucket
	}
	if endpoint := v.GetString("sync.endpoint"); endpoint != "" {
		cfg.Sync.Endpoint = endpoint
	}
	if level := v.GetString("log.level"); level != "" {
		cfg.Log.Level = level
	}
	if limit := v.GetInt("history.limit"); limit != 0 {
		cfg.History.Limit = limit
	}
	if d := v.GetDuration("search.query_timeout"); d != 0 {
		cfg.Search.QueryTimeout = d
	}
	return cfg.Validate()
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
