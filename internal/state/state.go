package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Paintersrp/sleuth/internal/bookmark"
	"github.com/Paintersrp/sleuth/internal/bookmark/sources"
	"github.com/Paintersrp/sleuth/internal/config"
	"github.com/Paintersrp/sleuth/internal/constants"
	"github.com/Paintersrp/sleuth/internal/history"
	"github.com/Paintersrp/sleuth/internal/i18n"
	"github.com/Paintersrp/sleuth/internal/logging"
	"github.com/Paintersrp/sleuth/internal/prefs"
	"github.com/Paintersrp/sleuth/internal/query"
	indexsvc "github.com/Paintersrp/sleuth/internal/services/index"
	"github.com/Paintersrp/sleuth/internal/store"
	"github.com/Paintersrp/sleuth/internal/templater"
	"github.com/Paintersrp/sleuth/internal/watcher"
)

// Options tune how NewState assembles the application.
type Options struct {
	// Home overrides the user's home directory.
	Home string
	// ConfigPath reads the config from a file other than ~/.sleuth/cfg.yaml.
	ConfigPath string
	// Viper carries flag and environment overrides.
	Viper *viper.Viper
	// Verbose mirrors logs to Stderr.
	Verbose bool
	Stderr  io.Writer
	// Since hides bookmarks added before it.
	Since time.Time
	// Watch reloads the index when a bookmark file changes.
	Watch bool
}

// State owns every long-lived component. Commands build one per invocation
// and close it on exit; nothing lives in package globals.
type State struct {
	Config     *config.Config
	Home       string
	Logger     zerolog.Logger
	Store      store.KV
	History    *history.Store
	Prefs      *prefs.Prefs
	Sources    []bookmark.Source
	Index      IndexService
	Dispatcher *query.Dispatcher
	Engine     *query.Engine
	Templater  *templater.Templater
	Watcher    *watcher.Watcher
	Status     *StatusLine

	logCloser io.Closer
}

// IndexService exposes the shared bookmark index.
type IndexService interface {
	Warm(ctx context.Context) error
	Search(ctx context.Context, text string) ([]bookmark.Record, error)
	All(ctx context.Context) ([]bookmark.Record, error)
	Titles(ctx context.Context) ([]string, error)
	QueueReload(path string)
	Stats() indexsvc.Stats
	Close() error
}

func NewState(ctx context.Context, opts Options) (s *State, err error) {
	home := opts.Home
	if home == "" {
		if home, err = GetHomeDir(); err != nil {
			return nil, err
		}
	}

	cfg, err := LoadConfig(home, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Viper != nil {
		if err := cfg.ApplyOverrides(opts.Viper); err != nil {
			return nil, err
		}
	}

	logger, logCloser, err := logging.New(cfg.Log, opts.Verbose, opts.Stderr)
	if err != nil {
		return nil, err
	}

	s = &State{
		Config:    cfg,
		Home:      home,
		Logger:    logger,
		Status:    &StatusLine{},
		logCloser: logCloser,
	}
	defer func() {
		if err != nil {
			_ = s.Close()
			s = nil
		}
	}()

	if s.Store, err = store.Open(cfg.Store, logger); err != nil {
		return s, err
	}
	if s.History, err = history.Load(ctx, s.Store, cfg.History.Limit, logger); err != nil {
		return s, err
	}
	s.Prefs, err = prefs.Load(ctx, s.Store, prefs.Defaults{Theme: cfg.Theme, Language: cfg.Language}, logger)
	if err != nil {
		return s, err
	}
	if err = applyPreferenceFlags(ctx, s.Prefs, opts.Viper); err != nil {
		return s, err
	}

	if s.Sources, err = sources.FromConfig(home, cfg.Sources); err != nil {
		return s, err
	}

	index := indexsvc.NewService(s.Sources, indexsvc.Options{Since: opts.Since, Logger: logger})
	s.Index = index

	s.Dispatcher = query.NewDispatcher(index.Search)
	s.Dispatcher.Timeout = cfg.Search.QueryTimeout
	s.Dispatcher.Limit = cfg.Search.MaxParallel
	s.Dispatcher.Logger = logger

	s.Engine = query.NewEngine(s.Dispatcher,
		query.WithHistory(s.History),
		query.WithLanguage(s.Prefs.Language),
		query.WithMaxResults(cfg.Search.MaxResults),
		query.WithLogger(logger),
	)

	tmplDir := filepath.Join(config.GetConfigDir(home), "templates")
	if s.Templater, err = templater.NewTemplater(tmplDir); err != nil {
		return s, fmt.Errorf("failed to create templater: %w", err)
	}

	if opts.Watch {
		s.Watcher = newWatcher(sources.Paths(s.Sources), index, logger)
	}

	return s, nil
}

// A missing or unwatchable bookmark file only disables live reloads.
func newWatcher(paths []string, index IndexService, logger zerolog.Logger) *watcher.Watcher {
	if len(paths) == 0 {
		return nil
	}
	w, err := watcher.New(paths)
	if err != nil {
		logger.Warn().Err(err).Strs("paths", paths).Msg("bookmark watcher disabled")
		return nil
	}
	w.OnChange(func(path string) {
		logger.Debug().Str("path", path).Msg("bookmark file changed")
		index.QueueReload(path)
	})
	return w
}

// Explicit --theme and --lang flags are persisted like a toggle.
func applyPreferenceFlags(ctx context.Context, p *prefs.Prefs, v *viper.Viper) error {
	if v == nil {
		return nil
	}
	if v.IsSet("theme_flag") {
		if err := p.SetTheme(ctx, v.GetString("theme_flag")); err != nil {
			return err
		}
	}
	if v.IsSet("lang_flag") {
		if err := p.SetLanguage(ctx, v.GetString("lang_flag")); err != nil {
			return err
		}
	}
	return nil
}

// Messages returns the catalog for the active language.
func (s *State) Messages() i18n.Messages {
	if s == nil || s.Prefs == nil {
		return i18n.For(config.LangEnglish)
	}
	return i18n.For(s.Prefs.Language())
}

// StatePath is the file pushed and pulled by state sync. It is only
// meaningful for the file backend.
func (s *State) StatePath() string {
	return s.Config.Store.Path
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

// LoadConfig ensures ~/.sleuth/cfg.yaml exists and loads it, or loads path
// when one is given.
func LoadConfig(home, path string) (*config.Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
		_ = viper.ReadInConfig()
		return config.FromFile(path, home)
	}

	viper.AddConfigPath(filepath.Join(home, constants.ConfigDir))
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	_ = viper.ReadInConfig()

	if err := config.EnsureConfigExists(home); err != nil {
		return nil, err
	}

	return config.Load(home)
}

// Close releases the watcher, index, store and log file.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Watcher != nil {
		if err := s.Watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Watcher = nil
	}
	if s.Index != nil {
		if err := s.Index.Close(); err != nil && !errors.Is(err, indexsvc.ErrClosed) {
			errs = append(errs, err)
		}
		s.Index = nil
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil && !errors.Is(err, store.ErrClosed) {
			errs = append(errs, err)
		}
		s.Store = nil
	}
	if s.logCloser != nil {
		if err := s.logCloser.Close(); err != nil {
			errs = append(errs, err)
		}
		s.logCloser = nil
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
