package ui

import (
	"strings"
	"testing"

	"codemailx/internal/campaign"

	tea "github.com/charmbracelet/bubbletea"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeString(p *WizardPage, s string) {
	for _, r := range s {
		p.Update(keyRune(r))
	}
}

var testTemplates = []campaign.Template{
	{ID: "t1", Name: "Referral Ask", Subject: "Referral for {{position}}", Body: "Dear {{name}}, I am applying for {{position}}.", Placeholders: []string{"position", "name"}},
	{ID: "t2", Name: "Intro", Subject: "Hello", Body: "Hi there.", Placeholders: nil},
}

var testHRs = []campaign.HRContact{
	{ID: "h1", Name: "Dana", Email: "dana@acme.com", Company: "Acme", IsVerified: true, IsGlobal: true},
	{ID: "h2", Name: "Rene", Email: "rene@acme.com", Company: "Acme", IsGlobal: false},
}

func TestWizardPageCreateFlow(t *testing.T) {
	p := NewWizardPage(DefaultStyles())
	p.SetLimit(&campaign.EmailLimit{RemainingLimit: 5, MaxLimit: 10})
	p.SetCompanies([]campaign.Company{{Name: "Acme"}, {Name: "Globex"}})
	p.SetTemplates(testTemplates)

	// Step 0: name, company, recipients
	typeString(p, "Q4 Outreach")
	p.Update(tea.KeyMsg{Type: tea.KeyEnter}) // -> company zone
	out := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if out.FetchCompany != "Acme" {
		t.Fatalf("expected company fetch for Acme, got %q", out.FetchCompany)
	}
	p.SetCompanyHRs("Acme", testHRs)
	p.Update(tea.KeyMsg{Type: tea.KeySpace}) // select Dana

	out = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.wiz.Step() != campaign.StepTemplate {
		t.Fatalf("expected template step, got %d (notice %q)", p.wiz.Step(), out.Notice)
	}

	// Step 1: choose the first template
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.wiz.Step() != campaign.StepPlaceholders {
		t.Fatalf("expected placeholder step, got %d", p.wiz.Step())
	}
	if len(p.phKeys) != 2 {
		t.Fatalf("expected 2 placeholder inputs, got %d", len(p.phKeys))
	}

	// Step 2: fill both placeholders
	typeString(p, "Backend Engineer")
	p.Update(tea.KeyMsg{Type: tea.KeyEnter}) // -> second field
	typeString(p, "Dana")
	p.Update(tea.KeyMsg{Type: tea.KeyEnter}) // -> review
	if p.wiz.Step() != campaign.StepReview {
		t.Fatalf("expected review step, got %d", p.wiz.Step())
	}

	view := p.View()
	if !strings.Contains(view, "Backend Engineer") {
		t.Fatalf("expected substituted preview in review")
	}

	// Review: save
	out = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if out.Save == nil {
		t.Fatalf("expected save request, notice %q", out.Notice)
	}
	if out.Save.Payload.CampaignName != "Q4 Outreach" {
		t.Fatalf("unexpected payload name %q", out.Save.Payload.CampaignName)
	}

	p.CompleteSave(campaign.Campaign{ID: "c1"}, nil)
	if p.wiz.State() != campaign.StateSendPrompt {
		t.Fatalf("expected send prompt, got %v", p.wiz.State())
	}

	// Send now
	out = p.Update(keyRune('y'))
	if out.SendID != "c1" {
		t.Fatalf("expected send of c1, got %q", out.SendID)
	}
	p.CompleteSend(nil)

	out = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !out.Closed {
		t.Fatalf("expected wizard closed after send")
	}
}

func TestWizardQuotaBlocksSaveBeforeNetwork(t *testing.T) {
	p := NewWizardPage(DefaultStyles())
	p.SetLimit(&campaign.EmailLimit{RemainingLimit: 0, MaxLimit: 10})
	p.SetCompanies([]campaign.Company{{Name: "Acme"}})
	p.SetTemplates(testTemplates)

	typeString(p, "Blocked")
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p.SetCompanyHRs("Acme", testHRs)
	p.Update(tea.KeyMsg{Type: tea.KeySpace})
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p.Update(tea.KeyMsg{Type: tea.KeyEnter}) // template
	typeString(p, "X")
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeString(p, "Y")
	p.Update(tea.KeyMsg{Type: tea.KeyEnter}) // review

	out := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if out.Save != nil {
		t.Fatalf("quota-exceeded save must not reach the gateway")
	}
	if !strings.Contains(out.Notice, "You can only send") {
		t.Fatalf("expected quota message, got %q", out.Notice)
	}
}

func TestWizardEscStepsBackThenCancels(t *testing.T) {
	p := NewWizardPage(DefaultStyles())
	p.SetCompanies([]campaign.Company{{Name: "Acme"}})
	p.SetTemplates(testTemplates)

	typeString(p, "n")
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p.SetCompanyHRs("Acme", testHRs)
	p.Update(tea.KeyMsg{Type: tea.KeySpace})
	p.Update(tea.KeyMsg{Type: tea.KeyEnter}) // -> template step

	p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.wiz.Step() != campaign.StepDetails {
		t.Fatalf("expected esc to step back, got %d", p.wiz.Step())
	}
	if !p.wiz.StepCompleted(campaign.StepDetails) {
		t.Fatalf("going back must keep the completion marker")
	}

	out := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !out.Closed {
		t.Fatalf("expected esc on step 0 to cancel")
	}
}

func TestCampaignsPageQuotaGate(t *testing.T) {
	p := NewCampaignsPage(DefaultStyles())
	p.SetItems([]campaign.Campaign{
		{ID: "c1", CampaignName: "Push", Company: "Acme", HRList: []string{"h1", "h2", "h3"}, Status: campaign.StatusPending},
	})

	p.SetLimit(&campaign.EmailLimit{RemainingLimit: 2, MaxLimit: 10})
	p, out := p.Update(keyRune('s'))
	if out.SendID != "" {
		t.Fatalf("send must be blocked by quota")
	}
	if out.QuotaErr == nil {
		t.Fatalf("expected quota error")
	}

	p.SetLimit(&campaign.EmailLimit{RemainingLimit: 3, MaxLimit: 10})
	p, out = p.Update(keyRune('s'))
	if out.SendID != "c1" {
		t.Fatalf("expected send of c1, got %q", out.SendID)
	}

	p.CompleteSend("c1", nil)
	if p.items[0].Status != campaign.StatusSent {
		t.Fatalf("expected row marked Sent in place")
	}
}

func TestCampaignsPageFilterAndEdit(t *testing.T) {
	p := NewCampaignsPage(DefaultStyles())
	p.SetItems([]campaign.Campaign{
		{ID: "c1", CampaignName: "Autumn Push", Company: "Acme"},
		{ID: "c2", CampaignName: "Spring Ping", Company: "Globex"},
	})

	p, _ = p.Update(keyRune('/'))
	if !p.CapturesInput() {
		t.Fatalf("expected filter to capture input")
	}
	p, _ = p.Update(keyRune('g'))
	p, _ = p.Update(keyRune('l'))
	p, _ = p.Update(keyRune('o'))
	if len(p.filtered) != 1 || p.filtered[0].ID != "c2" {
		t.Fatalf("expected filter to narrow to c2")
	}
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter}) // leave filter

	_, out := p.Update(keyRune('e'))
	if out.Edit == nil || out.Edit.ID != "c2" {
		t.Fatalf("expected edit of filtered selection")
	}
}

func TestHRPageScopeAndVerifiedCycling(t *testing.T) {
	p := NewHRPage(DefaultStyles())
	p.SetItems(testHRs)

	if len(p.filtered) != 2 {
		t.Fatalf("expected both contacts visible")
	}
	p, _, _ = p.Update(keyRune('g')) // Global only
	if len(p.filtered) != 1 || p.filtered[0].ID != "h1" {
		t.Fatalf("expected global scope to keep h1")
	}
	p, _, _ = p.Update(keyRune('g')) // Mine only
	if len(p.filtered) != 1 || p.filtered[0].ID != "h2" {
		t.Fatalf("expected user scope to keep h2")
	}
	p, _, _ = p.Update(keyRune('g')) // back to All
	p, _, _ = p.Update(keyRune('v')) // Verified only
	if len(p.filtered) != 1 || !p.filtered[0].IsVerified {
		t.Fatalf("expected verified filter to keep the verified contact")
	}

	_, refresh, _ := p.Update(keyRune('r'))
	if !refresh {
		t.Fatalf("expected r to request a refetch")
	}
}

func TestTemplatesPagePreview(t *testing.T) {
	p := NewTemplatesPage(DefaultStyles())
	p.SetSize(100, 30)
	p.SetItems(testTemplates)

	view := p.View()
	if !strings.Contains(view, "Referral Ask") {
		t.Fatalf("expected template name in view")
	}
	if !strings.Contains(view, "position, name") {
		t.Fatalf("expected placeholder list in preview")
	}

	p, _ = p.Update(keyRune('j'))
	view = p.View()
	if !strings.Contains(view, "Hi there.") {
		t.Fatalf("expected second template body after moving down")
	}
}

func TestDashboardPageView(t *testing.T) {
	p := NewDashboardPage(DefaultStyles())
	p.SetSize(100, 30)

	if !strings.Contains(p.View(), "Loading dashboard") {
		t.Fatalf("expected loading state before data")
	}

	p.SetData(&campaign.Dashboard{
		Campaigns:       campaign.CampaignStats{Total: 7, Successful: 5, Failed: 1},
		EmailsSent:      150,
		EmailsSentToday: 3,
		EmailsSentLast5Days: []campaign.DailyEmailCount{
			{Date: "2026-08-28", Count: 12},
			{Date: "2026-08-29", Count: 4},
		},
		GlobalHRCount: 120,
		TopCompanies:  []campaign.CompanyHRCount{{Company: "Acme", HRCount: 40}},
		RecentCampaigns: []campaign.Campaign{
			{CampaignName: "Push", Company: "Acme", Status: campaign.StatusSent},
		},
	}, false)
	p.SetLimit(&campaign.EmailLimit{RemainingLimit: 4, MaxLimit: 10})

	view := p.View()
	for _, want := range []string{"7", "150", "Silver", "Acme", "Daily Quota", "2026-08-28"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in dashboard view", want)
		}
	}
}

func TestDashboardPageNarrowWidth(t *testing.T) {
	p := NewDashboardPage(DefaultStyles())
	p.SetSize(20, 30)
	p.SetData(&campaign.Dashboard{
		EmailsSentLast5Days: []campaign.DailyEmailCount{{Date: "2026-08-28", Count: 12}},
		TopCompanies:        []campaign.CompanyHRCount{{Company: "Acme", HRCount: 40}},
	}, false)
	p.SetLimit(&campaign.EmailLimit{RemainingLimit: 4, MaxLimit: 10})

	view := p.View()
	if !strings.Contains(view, "2026-08-28") {
		t.Fatalf("expected history rendered at narrow width")
	}
}

func TestDashboardStaleDataDoesNotOverwriteLive(t *testing.T) {
	p := NewDashboardPage(DefaultStyles())
	p.SetData(&campaign.Dashboard{EmailsSent: 100}, false)
	p.SetData(&campaign.Dashboard{EmailsSent: 1}, true)
	if p.data.EmailsSent != 100 {
		t.Fatalf("cached data must not replace live data")
	}
}

func TestSimpleTableRendering(t *testing.T) {
	table := NewSimpleTable("People", []string{"Name", "Email"})
	table.Empty = "nobody here"
	styles := DefaultStyles()

	view := table.View(styles)
	if !strings.Contains(view, "nobody here") {
		t.Fatalf("expected empty message")
	}

	table.AddRow("Dana", "dana@acme.com")
	view = table.View(styles)
	if !strings.Contains(view, "Dana") || !strings.Contains(view, "dana@acme.com") {
		t.Fatalf("expected row content in view")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Fatalf("short strings must pass through, got %q", got)
	}
	if got := Truncate("hello world", 6); got != "hello…" {
		t.Fatalf("expected ellipsis truncation, got %q", got)
	}
}
