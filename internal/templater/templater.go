// Package templater renders search results for the command line.
package templater

import (
	"bytes"
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/Paintersrp/sleuth/internal/bookmark"
	"github.com/Paintersrp/sleuth/internal/i18n"
	"github.com/Paintersrp/sleuth/internal/search"
)

//go:embed templates
var embeddedTemplates embed.FS

var ErrTemplateNotFound = errors.New("template not found")

var funcs = template.FuncMap{
	"join":   strings.Join,
	"strong": strong,
}

// strong emboldens every case-insensitive occurrence of query in text.
func strong(text, query string) string {
	return search.Highlight(text, query, func(s string) string { return "**" + s + "**" }, nil)
}

type SingleTemplate struct {
	FilePath string
	Content  string
}

type TemplateMap map[string]SingleTemplate

// Templater manages a collection of templates.
type Templater struct {
	templates TemplateMap
}

// ResultView is one result as templates see it.
type ResultView struct {
	Index  int
	Title  string
	URL    string
	Host   string
	Folder string
	Source string
	Added  string
}

// TemplateData is passed to every output template.
type TemplateData struct {
	Heading     string
	Query       string
	Expanded    []string
	Results     []ResultView
	Partial     bool
	PartialNote string
	Elapsed     time.Duration
}

// NewTemplater loads templates from dir (usually ~/.sleuth/templates) and
// then the built-in ones. Files in dir take precedence.
func NewTemplater(dir string) (*Templater, error) {
	tmplMap := make(TemplateMap)

	if dir != "" {
		if _, err := os.Stat(dir); err == nil {
			if err := tmplMap.loadTemplates(dir); err != nil {
				return nil, err
			}
		}
	}

	if err := tmplMap.loadEmbeddedTemplates(embeddedTemplates); err != nil {
		return nil, err
	}

	return &Templater{templates: tmplMap}, nil
}

// Names lists the available template names.
func (t *Templater) Names() []string {
	names := make([]string, 0, len(t.templates))
	for name := range t.templates {
		names = append(names, name)
	}
	return names
}

func (t *Templater) Has(name string) bool {
	_, ok := t.templates[name]
	return ok
}

// Execute finds the template by name and renders it with data.
func (t *Templater) Execute(templateName string, data any) (string, error) {
	tmplData, ok := t.templates[templateName]
	if !ok {
		return "", ErrTemplateNotFound
	}

	tmpl, err := template.New(templateName).
		Funcs(funcs).
		Parse(tmplData.Content)
	if err != nil {
		return "", err
	}

	var renderedTemplate bytes.Buffer
	if err := tmpl.Execute(&renderedTemplate, data); err != nil {
		return "", err
	}

	return renderedTemplate.String(), nil
}

// NewTemplateData converts results to their template form using the
// messages of the active language.
func NewTemplateData(
	msgs i18n.Messages,
	query string,
	expanded []string,
	results []bookmark.Record,
	partial bool,
	elapsed time.Duration,
) TemplateData {
	views := make([]ResultView, len(results))
	for i, rec := range results {
		added := ""
		if !rec.AddedAt.IsZero() {
			added = rec.AddedAt.Local().Format("2006-01-02")
		}
		views[i] = ResultView{
			Index:  i + 1,
			Title:  msgs.TitleOr(rec.Title),
			URL:    rec.URL,
			Host:   rec.Host(),
			Folder: rec.Folder,
			Source: rec.Source,
			Added:  added,
		}
	}

	return TemplateData{
		Heading:     "🕵️ " + msgs.Title + ": " + query,
		Query:       query,
		Expanded:    expanded,
		Results:     views,
		Partial:     partial,
		PartialNote: msgs.Partial,
		Elapsed:     elapsed,
	}
}

func (m TemplateMap) loadEmbeddedTemplates(embeddedFS embed.FS) error {
	return fs.WalkDir(
		embeddedFS,
		"templates",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				return nil
			}

			name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
			if _, exists := m[name]; exists {
				return nil
			}

			data, err := fs.ReadFile(embeddedFS, path)
			if err != nil {
				return err
			}
			m[name] = SingleTemplate{FilePath: path, Content: string(data)}
			return nil
		},
	)
}

func (m TemplateMap) loadTemplates(dirPath string) error {
	return filepath.WalkDir(
		dirPath,
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() || filepath.Ext(path) != ".tmpl" {
				return nil
			}

			name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
			if _, exists := m[name]; exists {
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			m[name] = SingleTemplate{FilePath: path, Content: string(data)}
			return nil
		},
	)
}
