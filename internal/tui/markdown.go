package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/hylla/lyst/internal/domain"
)

// ChecklistMarkdown renders a list and its items as a GitHub-style task list.
func ChecklistMarkdown(list domain.List, items []domain.Item) string {
	var b strings.Builder
	b.WriteString("# " + list.Title + "\n")
	if len(items) == 0 {
		return b.String()
	}
	b.WriteString("\n")
	for _, item := range items {
		box := "- [ ] "
		if item.Checked {
			box = "- [x] "
		}
		b.WriteString(box + item.Text + "\n")
	}
	return b.String()
}

// RenderChecklist converts a list into ANSI-styled terminal text for one-shot output.
func RenderChecklist(list domain.List, items []domain.Item, width int) string {
	r := &markdownRenderer{}
	rendered := r.render(ChecklistMarkdown(list, items), width)
	if rendered == "" {
		return list.Title
	}
	return rendered
}

// markdownRenderer renders markdown for terminal views and recreates the renderer when wrap width changes.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render converts markdown input into ANSI-styled terminal text with the requested wrap width.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrapWidth := width
	if wrapWidth < 24 {
		wrapWidth = 24
	}

	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}
