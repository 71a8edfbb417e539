// Package prefs holds the theme and language toggles shown in the popup.
package prefs

import (
	"context"
	"fmt"
	"sync"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/Paintersrp/sleuth/internal/store"
)

const (
	ThemeKey    = "theme"
	LanguageKey = "language"

	Dark  = "dark"
	Light = "light"

	Korean  = "ko"
	English = "en"
)

// Defaults are used when the store holds nothing usable.
type Defaults struct {
	Theme    string
	Language string
}

type Prefs struct {
	kv     store.KV
	logger zerolog.Logger

	mu       sync.RWMutex
	theme    string
	language string
}

// Load reads both preferences. Unknown stored values are ignored in favour of
// the defaults.
func Load(ctx context.Context, kv store.KV, defaults Defaults, logger zerolog.Logger) (*Prefs, error) {
	p := &Prefs{kv: kv, logger: logger, theme: Dark, language: English}
	if validTheme(defaults.Theme) {
		p.theme = defaults.Theme
	}
	if validLanguage(defaults.Language) {
		p.language = defaults.Language
	}

	theme, ok, err := kv.Get(ctx, ThemeKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme: %w", err)
	}
	if ok {
		if validTheme(theme) {
			p.theme = theme
		} else {
			logger.Warn().Str("value", theme).Msg("ignoring stored theme")
		}
	}

	lang, ok, err := kv.Get(ctx, LanguageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read language: %w", err)
	}
	if ok {
		if validLanguage(lang) {
			p.language = lang
		} else {
			logger.Warn().Str("value", lang).Msg("ignoring stored language")
		}
	}

	return p, nil
}

// DetectTheme guesses a theme from the terminal background.
func DetectTheme() string {
	if termenv.HasDarkBackground() {
		return Dark
	}
	return Light
}

func (p *Prefs) Theme() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

func (p *Prefs) Language() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.language
}

func (p *Prefs) SetTheme(ctx context.Context, theme string) error {
	if !validTheme(theme) {
		return fmt.Errorf("invalid theme %q", theme)
	}
	if err := p.kv.Set(ctx, ThemeKey, theme); err != nil {
		return err
	}
	p.mu.Lock()
	p.theme = theme
	p.mu.Unlock()
	return nil
}

func (p *Prefs) SetLanguage(ctx context.Context, lang string) error {
	if !validLanguage(lang) {
		return fmt.Errorf("invalid language %q", lang)
	}
	if err := p.kv.Set(ctx, LanguageKey, lang); err != nil {
		return err
	}
	p.mu.Lock()
	p.language = lang
	p.mu.Unlock()
	return nil
}

// ToggleTheme flips dark and light and returns the new value.
func (p *Prefs) ToggleTheme(ctx context.Context) (string, error) {
	next := Dark
	if p.Theme() == Dark {
		next = Light
	}
	return next, p.SetTheme(ctx, next)
}

// ToggleLanguage flips Korean and English and returns the new value.
func (p *Prefs) ToggleLanguage(ctx context.Context) (string, error) {
	next := Korean
	if p.Language() == Korean {
		next = English
	}
	return next, p.SetLanguage(ctx, next)
}

func validTheme(t string) bool { return t == Dark || t == Light }

func validLanguage(l string) bool { return l == Korean || l == English }
