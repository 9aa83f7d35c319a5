package ui

import (
	"fmt"
	"strings"

	"codemailx/internal/campaign"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var scopeLabels = map[campaign.HRScope]string{
	campaign.ScopeAll:    "All",
	campaign.ScopeGlobal: "Global",
	campaign.ScopeUser:   "Mine",
}

var verifiedLabels = map[campaign.VerifiedFilter]string{
	campaign.VerifiedAny:    "Any",
	campaign.VerifiedOnly:   "Verified",
	campaign.UnverifiedOnly: "Unverified",
}

// HRPage browses the contact directory with scope and verification filters.
type HRPage struct {
	styles Styles
	width  int
	height int

	items    []campaign.HRContact
	filtered []campaign.HRContact
	cursor   int

	filter    textinput.Model
	filtering bool
	scope     campaign.HRScope
	verified  campaign.VerifiedFilter
}

// NewHRPage creates the HR directory page.
func NewHRPage(styles Styles) HRPage {
	filter := textinput.New()
	filter.Placeholder = "Search name, email or company..."
	filter.CharLimit = 80

	return HRPage{
		styles: styles,
		filter: filter,
		width:  100,
		height: 30,
	}
}

// SetSize updates the page dimensions.
func (p *HRPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.filter.Width = min(50, w-10)
}

// SetItems installs the directory and re-applies the filters.
func (p *HRPage) SetItems(items []campaign.HRContact) {
	p.items = items
	p.applyFilter()
}

// CapturesInput reports whether the search input is focused.
func (p HRPage) CapturesInput() bool { return p.filtering }

func (p *HRPage) applyFilter() {
	p.filtered = campaign.FilterHRs(p.items, p.filter.Value(), p.verified, p.scope)
	if p.cursor >= len(p.filtered) {
		p.cursor = max(len(p.filtered)-1, 0)
	}
}

// Update handles a key press. The second return value requests a refetch.
func (p HRPage) Update(msg tea.KeyMsg) (HRPage, bool, tea.Cmd) {
	if p.filtering {
		switch msg.String() {
		case "enter", "esc":
			p.filtering = false
			p.filter.Blur()
			return p, false, nil
		}
		var cmd tea.Cmd
		p.filter, cmd = p.filter.Update(msg)
		p.applyFilter()
		return p, false, cmd
	}

	switch msg.String() {
	case "/":
		p.filtering = true
		p.filter.Focus()
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.filtered)-1 {
			p.cursor++
		}
	case "g":
		p.scope = (p.scope + 1) % 3
		p.applyFilter()
	case "v":
		p.verified = (p.verified + 1) % 3
		p.applyFilter()
	case "r":
		return p, true, nil
	}
	return p, false, nil
}

// View renders the directory.
func (p HRPage) View() string {
	var sb strings.Builder

	if p.filtering || p.filter.Value() != "" {
		sb.WriteString(p.filter.View() + "\n\n")
	}

	filters := fmt.Sprintf("Scope: %s   Verified: %s", scopeLabels[p.scope], verifiedLabels[p.verified])
	sb.WriteString(p.styles.Subtitle.Render(filters) + "\n\n")

	table := NewSimpleTable(fmt.Sprintf("HR Directory (%d)", len(p.filtered)),
		[]string{"Name", "Email", "Company", "Pool", ""})
	table.Empty = "No contacts match the current filters."

	// Window the rows around the cursor so long directories stay readable.
	visible := max(p.height-14, 5)
	start := 0
	if p.cursor >= visible {
		start = p.cursor - visible + 1
	}
	end := min(start+visible, len(p.filtered))

	for i := start; i < end; i++ {
		hr := p.filtered[i]
		name := Truncate(hr.Name, 24)
		if i == p.cursor && !p.filtering {
			name = "> " + name
		} else {
			name = "  " + name
		}
		pool := "mine"
		if hr.IsGlobal {
			pool = "global"
		}
		check := ""
		if hr.IsVerified {
			check = "✓"
		}
		table.AddRow(name, Truncate(hr.Email, 30), Truncate(hr.Company, 20), pool, check)
	}
	sb.WriteString(table.View(p.styles))

	if end < len(p.filtered) || start > 0 {
		sb.WriteString(p.styles.Muted.Render(fmt.Sprintf("showing %d-%d of %d", start+1, end, len(p.filtered))) + "\n")
	}

	sb.WriteString("\n" + p.styles.Muted.Render("/ search • g scope • v verified • r refresh"))
	return sb.String()
}
