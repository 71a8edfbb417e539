package popup

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/sleuth/internal/query"
)

type debounceMsg struct {
	id   int
	text string
}

type searchDoneMsg struct {
	outcome   query.Outcome
	err       error
	submitted bool
}

type titlesMsg struct {
	titles []string
	err    error
}

func debounceCmd(id int, text string, wait time.Duration) tea.Cmd {
	return tea.Tick(wait, func(time.Time) tea.Msg {
		return debounceMsg{id: id, text: text}
	})
}

func searchCmd(ctx context.Context, engine *query.Engine, text string, submit bool) tea.Cmd {
	return func() tea.Msg {
		var (
			out query.Outcome
			err error
		)
		if submit {
			out, err = engine.Submit(ctx, text)
		} else {
			out, err = engine.Preview(ctx, text)
		}
		return searchDoneMsg{outcome: out, err: err, submitted: submit}
	}
}

func loadTitlesCmd(ctx context.Context, load func(context.Context) ([]string, error)) tea.Cmd {
	if load == nil {
		return nil
	}
	return func() tea.Msg {
		titles, err := load(ctx)
		return titlesMsg{titles: titles, err: err}
	}
}
