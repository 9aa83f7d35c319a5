package ui

import (
	"fmt"
	"strings"

	"codemailx/internal/campaign"
	"codemailx/internal/template"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// TemplatesPage browses the template directory with a body preview.
type TemplatesPage struct {
	styles Styles
	width  int
	height int

	items    []campaign.Template
	filtered []campaign.Template
	cursor   int

	filter    textinput.Model
	filtering bool

	preview viewport.Model
}

// NewTemplatesPage creates the template directory page.
func NewTemplatesPage(styles Styles) TemplatesPage {
	filter := textinput.New()
	filter.Placeholder = "Filter by name or subject..."
	filter.CharLimit = 80

	vp := viewport.New(76, 12)

	return TemplatesPage{
		styles:  styles,
		filter:  filter,
		preview: vp,
		width:   100,
		height:  30,
	}
}

// SetSize updates the page dimensions.
func (p *TemplatesPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.filter.Width = min(50, w-10)
	p.preview.Width = min(76, w-6)
	p.preview.Height = max(h-16, 6)
}

// SetItems installs the template list and refreshes the preview.
func (p *TemplatesPage) SetItems(items []campaign.Template) {
	p.items = items
	p.applyFilter()
}

// Items returns the full (unfiltered) directory.
func (p TemplatesPage) Items() []campaign.Template { return p.items }

// CapturesInput reports whether the filter input is focused.
func (p TemplatesPage) CapturesInput() bool { return p.filtering }

func (p *TemplatesPage) applyFilter() {
	p.filtered = campaign.FilterTemplates(p.items, p.filter.Value())
	if p.cursor >= len(p.filtered) {
		p.cursor = max(len(p.filtered)-1, 0)
	}
	p.refreshPreview()
}

func (p *TemplatesPage) refreshPreview() {
	if p.cursor >= len(p.filtered) {
		p.preview.SetContent("")
		return
	}
	tpl := p.filtered[p.cursor]
	keys := tpl.Placeholders
	if len(keys) == 0 {
		keys = template.ExtractKeys(tpl.Subject + "\n" + tpl.Body)
	}
	var sb strings.Builder
	sb.WriteString(p.styles.Bold.Render("Subject: ") + tpl.Subject + "\n")
	if len(keys) > 0 {
		sb.WriteString(p.styles.Muted.Render("Placeholders: "+strings.Join(keys, ", ")) + "\n")
	}
	sb.WriteString("\n" + tpl.Body)
	p.preview.SetContent(sb.String())
	p.preview.GotoTop()
}

// Update handles a key press.
func (p TemplatesPage) Update(msg tea.KeyMsg) (TemplatesPage, tea.Cmd) {
	if p.filtering {
		switch msg.String() {
		case "enter", "esc":
			p.filtering = false
			p.filter.Blur()
			return p, nil
		}
		var cmd tea.Cmd
		p.filter, cmd = p.filter.Update(msg)
		p.applyFilter()
		return p, cmd
	}

	switch msg.String() {
	case "/":
		p.filtering = true
		p.filter.Focus()
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
			p.refreshPreview()
		}
	case "down", "j":
		if p.cursor < len(p.filtered)-1 {
			p.cursor++
			p.refreshPreview()
		}
	case "pgup":
		p.preview.HalfViewUp()
	case "pgdown":
		p.preview.HalfViewDown()
	}
	return p, nil
}

// View renders the page.
func (p TemplatesPage) View() string {
	var sb strings.Builder

	if p.filtering || p.filter.Value() != "" {
		sb.WriteString(p.filter.View() + "\n\n")
	}

	sb.WriteString(p.styles.Title.Render(fmt.Sprintf("Templates (%d)", len(p.filtered))) + "\n")
	if len(p.filtered) == 0 {
		sb.WriteString(p.styles.Muted.Render("No templates match.") + "\n")
	}
	for i, tpl := range p.filtered {
		cursor := "  "
		style := p.styles.Body
		if i == p.cursor {
			cursor = "> "
			style = p.styles.Selected
		}
		sb.WriteString(cursor + style.Render(Truncate(tpl.Name, 40)) + "\n")
	}

	if len(p.filtered) > 0 {
		sb.WriteString("\n" + p.styles.Card.Render(p.preview.View()) + "\n")
	}

	sb.WriteString("\n" + p.styles.Muted.Render("/ filter • pgup/pgdn scroll preview"))
	return sb.String()
}
