package tui

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pelhamlabs/dropkit/engine"
	"github.com/pelhamlabs/dropkit/types"
	"github.com/pelhamlabs/dropkit/validate"
)

// Variant selects the presentation mode. All variants share one engine.
type Variant string

// Presentation variants.
const (
	VariantButton   Variant = "button"
	VariantDropzone Variant = "dropzone"
	VariantGallery  Variant = "gallery"
	VariantManager  Variant = "manager"
)

// SupportedVariants lists the selectable presentation modes.
func SupportedVariants() []string {
	return []string{
		string(VariantButton),
		string(VariantDropzone),
		string(VariantGallery),
		string(VariantManager),
	}
}

// refreshInterval paces snapshot re-renders while an upload pass runs.
const refreshInterval = 120 * time.Millisecond

type (
	tickMsg       struct{}
	uploadDoneMsg struct{ err error }
)

// keyMap defines key bindings shared by all variants.
type keyMap struct {
	Browse  key.Binding
	Upload  key.Binding
	Retry   key.Binding
	Remove  key.Binding
	Clear   key.Binding
	Dismiss key.Binding
	Up      key.Binding
	Down    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Browse:  key.NewBinding(key.WithKeys("enter", "b"), key.WithHelp("enter", "browse")),
	Upload:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
	Retry:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry failed")),
	Remove:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
	Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear all")),
	Dismiss: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dismiss errors")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "prev")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "next")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the Bubble Tea model for the upload widget.
type Model struct {
	engine  *engine.Engine
	variant Variant
	theme   Theme

	picker   filepicker.Model
	bar      progress.Model
	spin     spinner.Model
	picking  bool
	cursor   int
	width    int
	height   int
	announce string
	quitting bool
}

// New creates a widget model over an injected engine.
func New(eng *engine.Engine, variant Variant) Model {
	picker := filepicker.New()
	picker.CurrentDirectory, _ = os.Getwd()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		engine:  eng,
		variant: variant,
		theme:   NewTheme(eng.Config().Theme),
		picker:  picker,
		bar:     progress.New(progress.WithDefaultGradient()),
		spin:    spin,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(msg.Width-20, 50)
		return m, nil

	case tickMsg:
		m.drainAnnouncements()
		if m.engine.Snapshot().IsUploading {
			return m, tick()
		}
		return m, nil

	case uploadDoneMsg:
		m.drainAnnouncements()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.picking {
		return m.updatePicker(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picking {
		if key.Matches(msg, keys.Quit) {
			m.picking = false
			return m, nil
		}
		return m.updatePicker(msg)
	}

	snap := m.engine.Snapshot()

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Browse):
		m.picking = true
		return m, m.picker.Init()

	case key.Matches(msg, keys.Upload):
		return m, tea.Batch(m.uploadCmd(), tick())

	case key.Matches(msg, keys.Retry):
		if m.engine.Config().Features.RetryEnabled {
			_, skipped := m.engine.RetryFailed()
			if len(skipped) > 0 {
				m.announce = fmt.Sprintf("%d file(s) reached the retry limit", len(skipped))
			}
			return m, tea.Batch(m.uploadCmd(), tick())
		}
		return m, nil

	case key.Matches(msg, keys.Remove):
		if m.cursor < len(snap.Files) {
			m.engine.Remove(snap.Files[m.cursor].ID)
			if m.cursor > 0 {
				m.cursor--
			}
		}
		return m, nil

	case key.Matches(msg, keys.Clear):
		m.engine.ClearAll()
		m.cursor = 0
		return m, nil

	case key.Matches(msg, keys.Dismiss):
		m.engine.DismissAllErrors()
		m.announce = ""
		return m, nil

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(snap.Files)-1 {
			m.cursor++
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.picking = false
		info, err := FileInfoFromPath(path)
		if err != nil {
			m.announce = fmt.Sprintf("cannot read %s", filepath.Base(path))
			return m, cmd
		}
		m.engine.Admit(context.Background(), []types.FileInfo{info})
		m.drainAnnouncements()
		if m.engine.Config().Features.AutoUpload {
			return m, tea.Batch(cmd, m.uploadCmd(), tick())
		}
	}
	return m, cmd
}

// uploadCmd starts an upload pass on its own goroutine. A pass already in
// flight is reported, not queued.
func (m Model) uploadCmd() tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		err := eng.Upload(context.Background())
		return uploadDoneMsg{err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// drainAnnouncements surfaces the latest queued assistive announcement.
func (m *Model) drainAnnouncements() {
	queued := m.engine.DrainAnnouncements()
	if len(queued) > 0 {
		m.announce = queued[len(queued)-1]
	}
}

// FileInfoFromPath builds a candidate FileInfo from a filesystem path.
// The MIME type comes from the extension, falling back to content sniffing.
func FileInfoFromPath(path string) (types.FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return types.FileInfo{}, err
	}

	info := types.FileInfo{
		Name:         filepath.Base(path),
		Size:         stat.Size(),
		LastModified: stat.ModTime(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}

	info.MIME = strings.Split(mime.TypeByExtension(filepath.Ext(path)), ";")[0]
	if info.MIME == "" {
		if sniffed, err := validate.DetectMIME(info); err == nil {
			info.MIME = sniffed
		}
	}
	return info, nil
}
