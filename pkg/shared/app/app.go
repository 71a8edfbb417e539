// Package app carries what every command needs: IO streams, the viper
// instance holding flag and environment overrides, and the lazily built
// application state.
package app

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Paintersrp/sleuth/internal/config"
	"github.com/Paintersrp/sleuth/internal/constants"
	"github.com/Paintersrp/sleuth/internal/state"
)

type App struct {
	In    io.Reader
	Out   io.Writer
	Err   io.Writer
	Viper *viper.Viper
	// Home overrides the user's home directory.
	Home string

	state *state.State
}

// Option adjusts how the state is built for one command.
type Option func(*state.Options)

func WithWatch() Option {
	return func(o *state.Options) { o.Watch = true }
}

func WithSince(t time.Time) Option {
	return func(o *state.Options) { o.Since = t }
}

func New() *App {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &App{
		In:    os.Stdin,
		Out:   os.Stdout,
		Err:   os.Stderr,
		Viper: v,
	}
}

// BindPersistentFlags registers --config, --lang, --theme and --verbose on
// root and binds them to the app's viper instance.
func (a *App) BindPersistentFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default ~/.sleuth/cfg.yaml)")
	pf.String("lang", "", "interface and keyword language: ko or en (saved)")
	pf.String("theme", "", "popup theme: dark or light (saved)")
	pf.BoolP("verbose", "v", false, "also log to stderr")

	_ = a.Viper.BindPFlag("config", pf.Lookup("config"))
	_ = a.Viper.BindPFlag("lang_flag", pf.Lookup("lang"))
	_ = a.Viper.BindPFlag("theme_flag", pf.Lookup("theme"))
	_ = a.Viper.BindPFlag("verbose", pf.Lookup("verbose"))
}

// State builds the application state on first use. Later calls return the
// same state and ignore opts.
func (a *App) State(ctx context.Context, opts ...Option) (*state.State, error) {
	if a.state != nil {
		return a.state, nil
	}

	o := state.Options{
		Home:       a.Home,
		ConfigPath: a.Viper.GetString("config"),
		Viper:      a.Viper,
		Verbose:    a.Viper.GetBool("verbose"),
		Stderr:     a.Err,
	}
	for _, opt := range opts {
		opt(&o)
	}

	st, err := state.NewState(ctx, o)
	if err != nil {
		return nil, err
	}
	a.state = st
	return st, nil
}

// Config loads the configuration with flag and environment overrides applied,
// without building the rest of the state.
func (a *App) Config() (*config.Config, error) {
	if a.state != nil {
		return a.state.Config, nil
	}
	home, err := a.HomeDir()
	if err != nil {
		return nil, err
	}
	cfg, err := state.LoadConfig(home, a.Viper.GetString("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(a.Viper); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HomeDir resolves the home directory used for config discovery.
func (a *App) HomeDir() (string, error) {
	if a.Home != "" {
		return a.Home, nil
	}
	return state.GetHomeDir()
}

// OutIsTerminal reports whether Out is an interactive terminal.
func (a *App) OutIsTerminal() bool {
	f, ok := a.Out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// InIsTerminal reports whether In is an interactive terminal.
func (a *App) InIsTerminal() bool {
	f, ok := a.In.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *App) Close() error {
	if a.state == nil {
		return nil
	}
	err := a.state.Close()
	a.state = nil
	return err
}
