// Package watcher reports changes to bookmark files on disk.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/Paintersrp/sleuth/internal/pathutil"
)

type BookmarksChangedMsg struct {
	Path string
}

type WatcherErrMsg struct {
	Err error
}

// Watcher watches the directories holding bookmark files. Browsers replace
// their bookmark file by renaming a temp file over it, so the parent directory
// is watched and events are filtered by file name.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	done     chan struct{}
	once     sync.Once
	mu       sync.Mutex
	onChange func(string)
	onClose  func()
}

// New watches every path. Paths whose directory does not exist are skipped.
func New(paths []string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no bookmark files to watch")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		files:   make(map[string]struct{}, len(paths)),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs := pathutil.Abs(p)
		if abs == "" {
			continue
		}
		watcher.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	added := 0
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			continue
		}
		added++
	}
	if added == 0 {
		_ = w.Close()
		return nil, errors.New("none of the bookmark directories could be watched")
	}

	return watcher, nil
}

// Start returns a command that blocks until the next relevant change and
// reports it. Callers re-issue the command after each message.
func (w *Watcher) Start() tea.Cmd {
	if w == nil {
		return nil
	}

	return func() tea.Msg {
		for {
			select {
			case <-w.done:
				return nil
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				path, relevant := w.relevant(event)
				if !relevant {
					continue
				}

				w.mu.Lock()
				fn := w.onChange
				w.mu.Unlock()
				if fn != nil {
					fn(path)
				}
				return BookmarksChangedMsg{Path: path}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					return WatcherErrMsg{Err: err}
				}
			}
		}
	}
}

// Run delivers changes to the OnChange callback until Close is called. It is
// used outside the TUI, where no tea program drives Start.
func (w *Watcher) Run() {
	cmd := w.Start()
	for {
		select {
		case <-w.done:
			return
		default:
		}
		if msg := cmd(); msg == nil {
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return "", false
	}
	abs := pathutil.Abs(event.Name)
	_, ok := w.files[abs]
	return abs, ok
}

func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
		w.mu.Lock()
		fn := w.onClose
		w.mu.Unlock()
		if fn != nil {
			fn()
		}
	})

	return closeErr
}

// OnChange registers a callback that receives the absolute path of every
// changed bookmark file.
func (w *Watcher) OnChange(fn func(string)) {
	if w == nil {
		return
	}
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// OnClose registers a callback that is invoked exactly once when the watcher
// shuts down.
func (w *Watcher) OnClose(fn func()) {
	if w == nil {
		return
	}
	w.mu.Lock()
	w.onClose = fn
	w.mu.Unlock()
}
