package ui

import (
	"fmt"
	"strings"

	"codemailx/internal/campaign"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// CampaignsOutcome tells the app what a campaigns-page update wants done.
type CampaignsOutcome struct {
	Edit     *campaign.Campaign // open the wizard in edit mode
	SendID   string             // dispatch this campaign
	QuotaErr error              // send blocked client-side
	Refresh  bool
	Cmd      tea.Cmd
}

// CampaignsPage lists saved campaigns with filtering, editing and a
// quota-gated standalone send.
type CampaignsPage struct {
	styles Styles
	width  int
	height int

	items    []campaign.Campaign
	filtered []campaign.Campaign
	cursor   int

	filter    textinput.Model
	filtering bool

	limit   *campaign.EmailLimit
	sending string // id in flight, empty otherwise
}

// NewCampaignsPage creates the campaigns list page.
func NewCampaignsPage(styles Styles) CampaignsPage {
	filter := textinput.New()
	filter.Placeholder = "Filter by name, company or template..."
	filter.CharLimit = 80

	return CampaignsPage{
		styles: styles,
		filter: filter,
		width:  100,
		height: 30,
	}
}

// SetSize updates the page dimensions.
func (p *CampaignsPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.filter.Width = min(50, w-10)
}

// SetItems installs the campaign list and re-applies the filter.
func (p *CampaignsPage) SetItems(items []campaign.Campaign) {
	p.items = items
	p.applyFilter()
}

// SetLimit installs the quota snapshot used by the send gate.
func (p *CampaignsPage) SetLimit(limit *campaign.EmailLimit) {
	p.limit = limit
}

// CapturesInput reports whether the filter input is focused.
func (p CampaignsPage) CapturesInput() bool { return p.filtering }

// CompleteSend applies a standalone send result. Success flips the row to
// Sent in place; failure restores the row for retry.
func (p *CampaignsPage) CompleteSend(id string, err error) {
	p.sending = ""
	if err != nil {
		return
	}
	for i := range p.items {
		if p.items[i].ID == id {
			p.items[i].Status = campaign.StatusSent
		}
	}
	p.applyFilter()
}

func (p *CampaignsPage) applyFilter() {
	p.filtered = campaign.FilterCampaigns(p.items, p.filter.Value())
	if p.cursor >= len(p.filtered) {
		p.cursor = max(len(p.filtered)-1, 0)
	}
}

// Update handles a key press.
func (p CampaignsPage) Update(msg tea.KeyMsg) (CampaignsPage, CampaignsOutcome) {
	if p.filtering {
		switch msg.String() {
		case "enter", "esc":
			p.filtering = false
			p.filter.Blur()
			return p, CampaignsOutcome{}
		}
		var cmd tea.Cmd
		p.filter, cmd = p.filter.Update(msg)
		p.applyFilter()
		return p, CampaignsOutcome{Cmd: cmd}
	}

	switch msg.String() {
	case "/":
		p.filtering = true
		p.filter.Focus()
		return p, CampaignsOutcome{}
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.filtered)-1 {
			p.cursor++
		}
	case "r":
		return p, CampaignsOutcome{Refresh: true}
	case "e", "enter":
		if c := p.selected(); c != nil {
			edit := *c
			return p, CampaignsOutcome{Edit: &edit}
		}
	case "s":
		return p.beginSend()
	}
	return p, CampaignsOutcome{}
}

func (p *CampaignsPage) selected() *campaign.Campaign {
	if p.cursor < len(p.filtered) {
		return &p.filtered[p.cursor]
	}
	return nil
}

// beginSend gates the standalone send on the quota before any network call.
func (p CampaignsPage) beginSend() (CampaignsPage, CampaignsOutcome) {
	c := p.selected()
	if c == nil || p.sending != "" {
		return p, CampaignsOutcome{}
	}
	if c.Status == campaign.StatusSent {
		return p, CampaignsOutcome{}
	}
	if campaign.ExceedsLimit(len(c.HRList), p.limit) {
		return p, CampaignsOutcome{QuotaErr: &campaign.QuotaError{Remaining: p.limit.RemainingLimit}}
	}
	p.sending = c.ID
	return p, CampaignsOutcome{SendID: c.ID}
}

// View renders the campaigns list.
func (p CampaignsPage) View() string {
	var sb strings.Builder

	if p.filtering || p.filter.Value() != "" {
		sb.WriteString(p.filter.View() + "\n\n")
	}

	table := NewSimpleTable("Your Campaigns", []string{"Name", "Company", "Template", "Recipients", "Status"})
	table.Empty = "No campaigns yet. Press n to create one."
	for i, c := range p.filtered {
		name := Truncate(c.CampaignName, 28)
		if i == p.cursor && !p.filtering {
			name = "> " + name
		} else {
			name = "  " + name
		}
		status := string(c.Status)
		if c.ID == p.sending {
			status = "Sending..."
		}
		table.AddStyledRow(
			p.styles.StatusStyle(c.Status).Copy().Bold(false),
			name,
			Truncate(c.Company, 20),
			Truncate(c.TemplateName(), 20),
			fmt.Sprintf("%d", len(c.HRList)),
			status,
		)
	}
	sb.WriteString(table.View(p.styles))

	if p.limit != nil {
		sb.WriteString("\n" + p.styles.Info.Render(
			fmt.Sprintf("Daily quota: %d of %d remaining", p.limit.RemainingLimit, p.limit.MaxLimit)) + "\n")
	}

	sb.WriteString("\n" + p.styles.Muted.Render("/ filter • e edit • s send • r refresh"))
	return sb.String()
}
