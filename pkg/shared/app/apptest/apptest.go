// Package apptest builds an App over a throwaway home directory for command
// tests.
package apptest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/sleuth/internal/config"
	"github.com/Paintersrp/sleuth/pkg/shared/app"
)

// Links is written to ~/links.md in every test home.
const Links = `# Dev

- [파일 업로드 가이드](https://example.com/upload)
- [File API reference](https://example.com/file-api)

## News

- [Weekly news](https://news.example.com)
`

// Config reads Links through a markdown source and keeps state in a file.
const Config = `
sources:
  - name: notes
    type: markdown
    path: ~/links.md
language: en
theme: dark
store:
  backend: file
log:
  level: disabled
`

// Env is an App wired to buffers instead of the terminal.
type Env struct {
	App  *app.App
	Home string
	Out  *bytes.Buffer
	Err  *bytes.Buffer
}

// New writes cfg (Config when empty) and Links into a temp home and returns
// an App rooted there. The app is closed when the test ends.
func New(t testing.TB, cfg string) *Env {
	t.Helper()

	if cfg == "" {
		cfg = Config
	}

	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, "links.md"), []byte(Links), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(config.GetConfigDir(home), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(config.GetConfigPath(home), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	env := &Env{App: app.New(), Home: home, Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}
	env.App.Home = home
	env.App.In = strings.NewReader("")
	env.App.Out = env.Out
	env.App.Err = env.Err
	t.Cleanup(func() { _ = env.App.Close() })
	return env
}
