package ui

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/yildizm/ResumeLens/internal/document"
	"github.com/yildizm/ResumeLens/internal/emoji"
	"github.com/yildizm/ResumeLens/internal/ui/components"
)

type pickerEntry struct {
	name string
	path string
	dir  bool
	size int64
}

type dirListedMsg struct {
	instance int
	dir      string
	entries  []pickerEntry
	err      error
}

type dirChangedMsg struct {
	instance int
	dir      string
}

type watchErrorMsg struct {
	instance int
	err      error
}

// Picker browses directories and offers PDF files for selection. The
// current directory is watched so new files show up without a refresh.
type Picker struct {
	instance int
	dir      string
	entries  []pickerEntry
	list     *components.List
	watcher  *fsnotify.Watcher
	err      string
	logger   *slog.Logger
}

func newPicker(instance int, dir string, logger *slog.Logger) *Picker {
	if dir == "" {
		dir = "."
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	list := components.NewList("", 60, 10)
	list.ShowNumbers = false
	list.EmptyText = "No PDF files in this directory"

	return &Picker{
		instance: instance,
		dir:      dir,
		list:     list,
		logger:   logger,
	}
}

// Init lists the start directory and begins watching it.
func (p *Picker) Init() tea.Cmd {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Warn("directory watch unavailable", slog.String("error", err.Error()))
		return p.listCmd()
	}
	p.watcher = watcher
	p.watchDir("")
	return tea.Batch(p.listCmd(), p.waitCmd())
}

// Close stops the directory watcher
func (p *Picker) Close() {
	if p.watcher == nil {
		return
	}
	if err := p.watcher.Close(); err != nil {
		p.logger.Debug("failed to close watcher", slog.String("error", err.Error()))
	}
	p.watcher = nil
}

// Dir is the directory being browsed
func (p *Picker) Dir() string {
	return p.dir
}

// SetSize sizes the file list
func (p *Picker) SetSize(width, height int) {
	p.list.SetSize(width, height)
}

func (p *Picker) listCmd() tea.Cmd {
	instance, dir := p.instance, p.dir
	return func() tea.Msg {
		entries, err := listDir(dir)
		return dirListedMsg{instance: instance, dir: dir, entries: entries, err: err}
	}
}

// waitCmd blocks until the watcher reports a change. Exactly one wait is
// outstanding at a time; it is re-armed after each message.
func (p *Picker) waitCmd() tea.Cmd {
	if p.watcher == nil {
		return nil
	}
	w, instance := p.watcher, p.instance
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
					return dirChangedMsg{instance: instance, dir: filepath.Dir(ev.Name)}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				return watchErrorMsg{instance: instance, err: err}
			}
		}
	}
}

func (p *Picker) watchDir(previous string) {
	if p.watcher == nil {
		return
	}
	if previous != "" {
		_ = p.watcher.Remove(previous)
	}
	if err := p.watcher.Add(p.dir); err != nil {
		p.logger.Debug("failed to watch directory", slog.String("dir", p.dir), slog.String("error", err.Error()))
	}
}

// Update handles listing and watch messages addressed to this picker.
func (p *Picker) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dirListedMsg:
		if msg.instance != p.instance || msg.dir != p.dir {
			return nil
		}
		if msg.err != nil {
			p.err = msg.err.Error()
			return nil
		}
		p.err = ""
		p.setEntries(msg.entries)
	case dirChangedMsg:
		if msg.instance != p.instance {
			return nil
		}
		if msg.dir == p.dir {
			return tea.Batch(p.listCmd(), p.waitCmd())
		}
		return p.waitCmd()
	case watchErrorMsg:
		if msg.instance != p.instance {
			return nil
		}
		p.logger.Debug("directory watch error", slog.String("error", msg.err.Error()))
		return p.waitCmd()
	}
	return nil
}

// HandleKey moves through entries. It returns the inspected document when
// a PDF was chosen, or an error when it cannot be used.
func (p *Picker) HandleKey(key string) (*document.Document, tea.Cmd, error) {
	switch key {
	case "up", "k":
		p.list.MoveUp()
	case "down", "j":
		p.list.MoveDown()
	case "backspace", "left", "h":
		return nil, p.enter(filepath.Dir(p.dir)), nil
	case "r":
		return nil, p.listCmd(), nil
	case "enter", " ":
		i := p.list.SelectedIndex()
		if i < 0 || i >= len(p.entries) {
			return nil, nil, nil
		}
		entry := p.entries[i]
		if entry.dir {
			return nil, p.enter(entry.path), nil
		}
		doc, err := document.Inspect(entry.path)
		return doc, nil, err
	}
	return nil, nil, nil
}

func (p *Picker) enter(dir string) tea.Cmd {
	if dir == p.dir {
		return nil
	}
	previous := p.dir
	p.dir = dir
	p.watchDir(previous)
	return p.listCmd()
}

func (p *Picker) setEntries(entries []pickerEntry) {
	selected := ""
	if item := p.list.GetSelectedItem(); item != nil {
		selected = item.ID
	}

	p.entries = entries
	items := make([]components.ListItem, 0, len(entries))
	for _, e := range entries {
		item := components.ListItem{ID: e.path, Title: e.name}
		if e.dir {
			item.Icon = emoji.GetEmoji("folder")
			item.Description = "directory"
		} else {
			item.Icon = emoji.GetEmoji("document")
			item.Description = document.FormatSize(e.size)
			item.Action = "enter: select"
		}
		items = append(items, item)
	}
	p.list.SetItems(items)

	// keep the cursor on the same entry across refreshes
	for i := range items {
		if items[i].ID == selected {
			for j := 0; j < i; j++ {
				p.list.MoveDown()
			}
			break
		}
	}
}

// View renders the directory and its entries
func (p *Picker) View() string {
	header := emoji.GetEmoji("folder") + " " + p.dir
	if p.err != "" {
		return header + "\n" + p.err
	}
	return header + "\n" + p.list.Render()
}

// listDir returns subdirectories and PDF files of dir, directories first.
// Hidden entries are skipped.
func listDir(dir string) ([]pickerEntry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs, files []pickerEntry
	for _, item := range items {
		name := item.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		if item.IsDir() {
			dirs = append(dirs, pickerEntry{name: name + "/", path: path, dir: true})
			continue
		}
		if !document.IsPDF(name) {
			continue
		}
		info, err := item.Info()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		files = append(files, pickerEntry{name: name, path: path, size: info.Size()})
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].name < dirs[j].name })
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })

	entries := make([]pickerEntry, 0, len(dirs)+len(files)+1)
	if parent := filepath.Dir(dir); parent != dir {
		entries = append(entries, pickerEntry{name: "../", path: parent, dir: true})
	}
	entries = append(entries, dirs...)
	return append(entries, files...), nil
}
