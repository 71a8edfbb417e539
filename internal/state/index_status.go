package state

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// IndexStatsMsg notifies subscribers that the status line was refreshed
// from the latest index statistics.
type IndexStatsMsg struct {
	Line string
}

// StatusLine holds the last rendered index summary.
type StatusLine struct {
	mu   sync.RWMutex
	line string
}

func (l *StatusLine) Set(line string) {
	l.mu.Lock()
	l.line = line
	l.mu.Unlock()
}

func (l *StatusLine) Value() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.line
}

// IndexHeartbeatCmd reads the index statistics, updates the shared status
// line and returns a message consumers can use to rerender.
func (s *State) IndexHeartbeatCmd() tea.Cmd {
	if s == nil {
		return nil
	}

	return func() tea.Msg {
		line := formatIndexStatus(s.Index)
		if s.Status != nil {
			s.Status.Set(line)
		}
		return IndexStatsMsg{Line: line}
	}
}

func formatIndexStatus(svc IndexService) string {
	if svc == nil {
		return ""
	}

	stats := svc.Stats()
	parts := []string{fmt.Sprintf("%d bookmarks", stats.Records)}
	if stats.Pending > 0 {
		parts = append(parts, fmt.Sprintf("pending %d", stats.Pending))
	}
	if !stats.LastRebuild.IsZero() {
		parts = append(parts, fmt.Sprintf("loaded %s", formatRebuildTime(stats.LastRebuild)))
	}
	if len(stats.Errors) > 0 {
		failed := make([]string, 0, len(stats.Errors))
		for name := range stats.Errors {
			failed = append(failed, name)
		}
		sort.Strings(failed)
		parts = append(parts, "unreadable: "+strings.Join(failed, ", "))
	}

	return strings.Join(parts, " · ")
}

func formatRebuildTime(t time.Time) string {
	return t.Local().Format("15:04")
}
