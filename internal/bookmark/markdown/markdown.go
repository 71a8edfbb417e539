// Package markdown treats markdown files as bookmark lists: every inline link
// is a bookmark and the headings above it form its folder.
package markdown

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/Paintersrp/sleuth/internal/bookmark"
)

type Source struct {
	name string
	path string
}

func New(name, path string) *Source {
	if name == "" {
		name = "markdown"
	}
	return &Source{name: name, path: path}
}

func (s *Source) Name() string { return s.name }

func (s *Source) Path() string { return s.path }

func (s *Source) Load(ctx context.Context) ([]bookmark.Record, error) {
	source, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("markdown: reading %s: %w", s.path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Parse(source, s.name)
}

// Parse walks the markdown document collecting links.
func Parse(source []byte, name string) ([]bookmark.Record, error) {
	parser := goldmark.DefaultParser()
	document := parser.Parse(text.NewReader(source))

	var (
		records  []bookmark.Record
		headings []string
	)

	add := func(title, url string) {
		url = strings.TrimSpace(url)
		if url == "" {
			return
		}
		title = strings.TrimSpace(title)
		if title == "" {
			title = url
		}
		records = append(records, bookmark.Record{
			ID:     strconv.Itoa(len(records) + 1),
			Title:  title,
			URL:    url,
			Folder: strings.Join(headings, "/"),
			Source: name,
		})
	}

	err := ast.Walk(
		document,
		func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}

			switch node := n.(type) {
			case *ast.Heading:
				level := node.Level
				if level-1 < len(headings) {
					headings = headings[:level-1]
				}
				for len(headings) < level-1 {
					headings = append(headings, "")
				}
				headings = append(headings, strings.TrimSpace(string(node.Text(source))))
				return ast.WalkSkipChildren, nil
			case *ast.Link:
				add(string(node.Text(source)), string(node.Destination))
				return ast.WalkSkipChildren, nil
			case *ast.AutoLink:
				if node.AutoLinkType == ast.AutoLinkURL {
					url := string(node.URL(source))
					add(url, url)
				}
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("markdown: walking document: %w", err)
	}

	for i := range records {
		records[i].Folder = strings.Trim(strings.ReplaceAll(records[i].Folder, "//", "/"), "/")
	}
	return records, nil
}
