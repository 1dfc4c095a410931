package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pelhamlabs/dropkit/engine"
	"github.com/pelhamlabs/dropkit/types"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.picking {
		return m.theme.Title.Render("Select a file") + "\n" + m.picker.View()
	}

	snap := m.engine.Snapshot()

	var content string
	switch m.variant {
	case VariantButton:
		content = m.renderButton(snap)
	case VariantDropzone:
		content = m.renderDropzone(snap)
	case VariantGallery:
		content = m.renderGallery(snap)
	case VariantManager:
		content = m.renderManager(snap)
	default:
		content = fmt.Sprintf("Unknown variant: %s", m.variant)
	}

	var b strings.Builder
	b.WriteString(content)

	if snap.GlobalError != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.Error.Render(snap.GlobalError))
	}
	if m.announce != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.Announcement.Render(m.announce))
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render(m.helpLine()))
	return b.String()
}

func (m Model) helpLine() string {
	parts := []string{"enter: browse", "u: upload"}
	if m.engine.Config().Features.RetryEnabled {
		parts = append(parts, "r: retry failed")
	}
	parts = append(parts, "x: remove", "c: clear", "d: dismiss", "q: quit")
	return strings.Join(parts, " · ")
}

// renderButton is the minimal variant: one action line plus a count.
func (m Model) renderButton(snap engine.State) string {
	labels := m.engine.Config().Labels

	var b strings.Builder
	b.WriteString(m.theme.Selected.Render("[ " + labels.Browse + " ]"))
	b.WriteString("\n")
	if n := len(snap.Files); n > 0 {
		b.WriteString(m.theme.Muted.Render(fmt.Sprintf("%d file(s) selected", n)))
		b.WriteString("\n")
		b.WriteString(m.renderOverall(snap))
	}
	return b.String()
}

// renderDropzone is the drop-target variant.
func (m Model) renderDropzone(snap engine.State) string {
	labels := m.engine.Config().Labels

	var b strings.Builder
	prompt := labels.DropPrompt
	if !m.engine.Config().Features.DragAndDrop {
		prompt = labels.Browse
	}
	b.WriteString(m.theme.Dropzone.Render(prompt))
	b.WriteString("\n")
	if len(snap.Files) > 0 {
		b.WriteString(m.renderFileLines(snap, false))
		b.WriteString(m.renderOverall(snap))
	}
	return b.String()
}

// renderGallery lists files with their preview URLs once uploaded.
func (m Model) renderGallery(snap engine.State) string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Gallery"))
	b.WriteString("\n")

	if len(snap.Files) == 0 {
		b.WriteString(m.theme.Muted.Render("No files yet"))
		return m.theme.Box.Render(b.String())
	}

	for _, f := range snap.Files {
		style := m.theme.StatusStyle(f.Status)
		b.WriteString(fmt.Sprintf("%s %s\n",
			style.Render(statusIcon(f.Status)),
			m.theme.Value.Render(f.File.Name)))
		if f.ThumbnailURL != "" {
			b.WriteString(m.theme.Muted.Render("  " + f.ThumbnailURL))
			b.WriteString("\n")
		}
	}
	b.WriteString(m.renderOverall(snap))
	return m.theme.Box.Render(b.String())
}

// renderManager is the full multi-file variant with per-file progress.
func (m Model) renderManager(snap engine.State) string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Uploads"))
	b.WriteString("\n")

	if len(snap.Files) == 0 {
		b.WriteString(m.theme.Muted.Render("Nothing selected yet"))
		return m.theme.Box.Render(b.String())
	}

	b.WriteString(m.renderFileLines(snap, true))

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n",
		m.theme.Label.Render("Done:"),
		m.theme.Success.Render(fmt.Sprintf("%d", len(snap.CompletedIDs)))))
	b.WriteString(fmt.Sprintf("%s %s\n",
		m.theme.Label.Render("Failed:"),
		m.theme.Error.Render(fmt.Sprintf("%d", len(snap.FailedIDs)))))
	b.WriteString(fmt.Sprintf("%s %s\n",
		m.theme.Label.Render("Queued:"),
		m.theme.Value.Render(fmt.Sprintf("%d", len(snap.QueuedIDs)))))
	b.WriteString(m.renderOverall(snap))

	return m.theme.Box.Render(b.String())
}

// renderFileLines renders one line per file; detailed mode adds sizes,
// progress bars, and stored error messages.
func (m Model) renderFileLines(snap engine.State, detailed bool) string {
	var b strings.Builder
	for i, f := range snap.Files {
		style := m.theme.StatusStyle(f.Status)
		name := f.File.Name
		if detailed && i == m.cursor {
			name = m.theme.Selected.Render(name)
		} else {
			name = m.theme.Value.Render(name)
		}

		line := fmt.Sprintf("%s %s", style.Render(statusIcon(f.Status)), name)
		if detailed {
			line += m.theme.Muted.Render(fmt.Sprintf("  %s", humanize.IBytes(uint64(f.File.Size))))
		}
		b.WriteString(line)
		b.WriteString("\n")

		if detailed {
			switch f.Status {
			case types.StatusUploading:
				b.WriteString(fmt.Sprintf("  %s %s\n", m.spin.View(), m.bar.ViewAs(float64(f.Progress)/100)))
			case types.StatusError:
				if f.Error != "" {
					b.WriteString(m.theme.Error.Render("  " + f.Error))
					b.WriteString("\n")
				}
				if f.RetryCount > 0 {
					b.WriteString(m.theme.Muted.Render(fmt.Sprintf("  retry %d of %d", f.RetryCount, f.MaxRetries)))
					b.WriteString("\n")
				}
			}
		}
	}
	return b.String()
}

// renderOverall renders the aggregate progress line while a pass runs.
func (m Model) renderOverall(snap engine.State) string {
	if !snap.IsUploading && snap.OverallProgress == 0 {
		return ""
	}
	label := "Overall"
	if snap.IsUploading {
		label = "Uploading"
	}
	return fmt.Sprintf("%s %s\n",
		m.theme.Muted.Render(label),
		m.bar.ViewAs(float64(snap.OverallProgress)/100))
}
