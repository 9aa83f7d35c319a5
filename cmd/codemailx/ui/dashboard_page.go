package ui

import (
	"fmt"
	"strings"

	"codemailx/internal/campaign"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DashboardPage shows the account metrics overview.
type DashboardPage struct {
	styles   Styles
	width    int
	height   int
	progress progress.Model

	data  *campaign.Dashboard
	stale bool // data came from the snapshot, not the server
	limit *campaign.EmailLimit
}

// NewDashboardPage creates the dashboard page.
func NewDashboardPage(styles Styles) DashboardPage {
	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40
	return DashboardPage{
		styles:   styles,
		progress: p,
		width:    100,
		height:   30,
	}
}

// SetSize updates the page dimensions.
func (p *DashboardPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.progress.Width = max(min(50, w-30), 1)
}

// SetData installs the dashboard payload. stale marks cached data that a
// live fetch has not yet replaced.
func (p *DashboardPage) SetData(data *campaign.Dashboard, stale bool) {
	if data == nil {
		return
	}
	if stale && p.data != nil && !p.stale {
		return
	}
	p.data = data
	p.stale = stale
}

// SetLimit installs the quota snapshot for the quota bar.
func (p *DashboardPage) SetLimit(limit *campaign.EmailLimit) {
	p.limit = limit
}

// Update handles key presses; the dashboard is read-only.
func (p DashboardPage) Update(msg tea.KeyMsg) (DashboardPage, tea.Cmd) {
	return p, nil
}

// View renders the dashboard.
func (p DashboardPage) View() string {
	if p.data == nil {
		return p.styles.Muted.Render("Loading dashboard...")
	}
	d := p.data

	var sb strings.Builder
	if p.stale {
		sb.WriteString(p.styles.Warning.Render("Showing cached data; refreshing...") + "\n\n")
	}

	// Stat cards
	cards := []string{
		p.statCard("Campaigns", fmt.Sprintf("%d", d.Campaigns.Total),
			fmt.Sprintf("%d sent, %d failed", d.Campaigns.Successful, d.Campaigns.Failed)),
		p.statCard("Emails Sent", fmt.Sprintf("%d", d.EmailsSent),
			fmt.Sprintf("%d today", d.EmailsSentToday)),
		p.statCard("Global Contacts", fmt.Sprintf("%d", d.GlobalHRCount), p.badgeLine(d.GlobalHRCount)),
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n\n")

	// Quota bar
	if p.limit != nil && p.limit.MaxLimit > 0 {
		used := float64(p.limit.MaxLimit-p.limit.RemainingLimit) / float64(p.limit.MaxLimit)
		sb.WriteString(p.styles.Bold.Render("Daily Quota") + "\n")
		sb.WriteString(p.progress.ViewAs(used))
		sb.WriteString(p.styles.Muted.Render(fmt.Sprintf("  %d of %d remaining", p.limit.RemainingLimit, p.limit.MaxLimit)) + "\n\n")
	}

	// Last 5 days
	if len(d.EmailsSentLast5Days) > 0 {
		sb.WriteString(p.styles.Bold.Render("Emails Sent, Last 5 Days") + "\n")
		sb.WriteString(p.renderHistory(d.EmailsSentLast5Days) + "\n")
	}

	// Top companies
	if len(d.TopCompanies) > 0 {
		sb.WriteString(p.styles.Bold.Render("Top Companies by HR Count") + "\n")
		sb.WriteString(p.renderTopCompanies(d.TopCompanies) + "\n")
	}

	// Recent campaigns
	if len(d.RecentCampaigns) > 0 {
		table := NewSimpleTable("Recent Campaigns", []string{"Name", "Company", "Status"})
		for _, c := range d.RecentCampaigns {
			table.AddRow(Truncate(c.CampaignName, 28), Truncate(c.Company, 20), string(c.Status))
		}
		sb.WriteString(table.View(p.styles))
	}

	if d.SMTP != nil && d.SMTP.Email != "" {
		sb.WriteString(p.styles.Muted.Render("Sender: "+d.SMTP.Email) + "\n")
	}

	return sb.String()
}

func (p DashboardPage) statCard(title, value, sub string) string {
	content := p.styles.Subtitle.Render(title) + "\n" +
		p.styles.Title.Render(value) + "\n" +
		p.styles.Muted.Render(sub)
	return p.styles.Card.Width(26).Render(content)
}

// badgeLine shows the contributor tier and progress to the next one.
func (p DashboardPage) badgeLine(count int) string {
	tier, next := campaign.BadgeFor(count)
	if tier == campaign.BadgeNone {
		return fmt.Sprintf("%d to Bronze", next-count)
	}
	line := p.styles.TierStyle(tier).Render(string(tier))
	if next > 0 {
		line += fmt.Sprintf(" • %d to next", next-count)
	}
	return line
}

// renderHistory draws a unicode bar per day, scaled to the busiest day.
func (p DashboardPage) renderHistory(days []campaign.DailyEmailCount) string {
	maxCount := 1
	for _, day := range days {
		if day.Count > maxCount {
			maxCount = day.Count
		}
	}
	barWidth := max(min(40, p.width-30), 1)

	var sb strings.Builder
	for _, day := range days {
		n := day.Count * barWidth / maxCount
		bar := strings.Repeat("█", max(n, 0))
		sb.WriteString(fmt.Sprintf("  %-12s %s %d\n", day.Date, p.styles.Info.Render(bar), day.Count))
	}
	return sb.String()
}

// renderTopCompanies draws proportional bars, strongest pools first.
func (p DashboardPage) renderTopCompanies(companies []campaign.CompanyHRCount) string {
	maxCount := 1
	if companies[0].HRCount > 0 {
		maxCount = companies[0].HRCount
	}
	barWidth := min(30, p.width-40)

	var sb strings.Builder
	for _, c := range companies {
		n := c.HRCount * barWidth / maxCount
		bar := strings.Repeat("▆", max(n, 1))
		sb.WriteString(fmt.Sprintf("  %-20s %s %d\n", Truncate(c.Company, 20), p.styles.Selected.Render(bar), c.HRCount))
	}
	return sb.String()
}
