package ui

import (
	"context"
	"time"

	"codemailx/internal/cache"
	"codemailx/internal/campaign"
	"codemailx/internal/logging"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Gateway is the slice of the backend client the interface needs. *api.Client
// satisfies it; tests substitute a fake.
type Gateway interface {
	EmailLimit(ctx context.Context) (*campaign.EmailLimit, error)
	ListCampaigns(ctx context.Context) ([]campaign.Campaign, error)
	CreateCampaign(ctx context.Context, p campaign.Payload) (campaign.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, p campaign.Payload) (campaign.Campaign, error)
	SendCampaign(ctx context.Context, id string) error
	ListTemplates(ctx context.Context) ([]campaign.Template, error)
	HRsByCompany(ctx context.Context, company string) ([]campaign.HRContact, error)
	Companies(ctx context.Context) ([]campaign.Company, error)
	ListHRs(ctx context.Context) ([]campaign.HRContact, error)
	Dashboard(ctx context.Context) (*campaign.Dashboard, error)
}

// Page identifies the active screen.
type Page int

const (
	PageDashboard Page = iota
	PageCampaigns
	PageTemplates
	PageHRs
	PageWizard
	PageHelp
)

func (p Page) String() string {
	switch p {
	case PageDashboard:
		return "Dashboard"
	case PageCampaigns:
		return "Campaigns"
	case PageTemplates:
		return "Templates"
	case PageHRs:
		return "HR Directory"
	case PageWizard:
		return "Campaign Wizard"
	case PageHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// Fetch result messages. Each carries its error so failures surface as a
// notice instead of killing the program.
type (
	campaignsMsg  struct{ items []campaign.Campaign; err error }
	templatesMsg  struct{ items []campaign.Template; err error }
	hrsMsg        struct{ items []campaign.HRContact; err error }
	companiesMsg  struct{ items []campaign.Company; err error }
	limitMsg      struct{ limit *campaign.EmailLimit; err error }
	dashboardMsg  struct{ dash *campaign.Dashboard; err error }
	companyHRsMsg struct {
		company string
		items   []campaign.HRContact
		err     error
	}
	savedMsg struct {
		saved campaign.Campaign
		err   error
	}
	sentMsg struct {
		id  string
		err error
	}
	noticeExpireMsg struct{ seq int }
)

// App is the root model: it owns page switching, shared data fetching and
// the transient notice line.
type App struct {
	gw      Gateway
	store   *cache.Store
	styles  Styles
	timeout time.Duration

	width  int
	height int

	page    Page
	spinner spinner.Model
	loading int

	notice      string
	noticeErr   bool
	noticeSeq   int
	noticeTTL   time.Duration

	limit *campaign.EmailLimit

	dashboard DashboardPage
	campaigns CampaignsPage
	templates TemplatesPage
	hrs       HRPage
	wizard    *WizardPage
	help      HelpPage

	quitting bool
}

// Option configures the App.
type Option func(*App)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *App) { a.timeout = d }
}

// WithNoticeTTL sets how long notices stay visible.
func WithNoticeTTL(d time.Duration) Option {
	return func(a *App) { a.noticeTTL = d }
}

// WithStyles overrides the auto-detected theme.
func WithStyles(s Styles) Option {
	return func(a *App) { a.styles = s }
}

// NewApp creates the root model. The snapshot store may be nil to disable
// the startup cache.
func NewApp(gw Gateway, store *cache.Store, opts ...Option) *App {
	styles := DefaultStyles()
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.Spinner

	a := &App{
		gw:        gw,
		store:     store,
		styles:    styles,
		timeout:   30 * time.Second,
		noticeTTL: 4 * time.Second,
		page:      PageDashboard,
		spinner:   sp,
		width:     100,
		height:    30,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.dashboard = NewDashboardPage(a.styles)
	a.campaigns = NewCampaignsPage(a.styles)
	a.templates = NewTemplatesPage(a.styles)
	a.hrs = NewHRPage(a.styles)
	a.help = NewHelpPage(a.styles)

	// Seed screens from the snapshot so the first frame is not empty.
	if store != nil {
		snap := store.Get()
		a.campaigns.SetItems(snap.Campaigns)
		a.templates.SetItems(snap.Templates)
		a.hrs.SetItems(snap.HRs)
		if snap.Dashboard != nil {
			a.dashboard.SetData(snap.Dashboard, true)
		}
	}
	return a
}

// Init kicks off the initial fetches.
func (a *App) Init() tea.Cmd {
	a.loading = 4
	return tea.Batch(
		a.spinner.Tick,
		a.fetchDashboard(),
		a.fetchCampaigns(),
		a.fetchTemplates(),
		a.fetchLimit(),
	)
}

func (a *App) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.timeout)
}

func (a *App) fetchCampaigns() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		items, err := a.gw.ListCampaigns(ctx)
		return campaignsMsg{items: items, err: err}
	}
}

func (a *App) fetchTemplates() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		items, err := a.gw.ListTemplates(ctx)
		return templatesMsg{items: items, err: err}
	}
}

func (a *App) fetchHRs() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		items, err := a.gw.ListHRs(ctx)
		return hrsMsg{items: items, err: err}
	}
}

func (a *App) fetchCompanies() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		items, err := a.gw.Companies(ctx)
		return companiesMsg{items: items, err: err}
	}
}

func (a *App) fetchCompanyHRs(company string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		items, err := a.gw.HRsByCompany(ctx, company)
		return companyHRsMsg{company: company, items: items, err: err}
	}
}

func (a *App) fetchLimit() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		limit, err := a.gw.EmailLimit(ctx)
		return limitMsg{limit: limit, err: err}
	}
}

func (a *App) fetchDashboard() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		dash, err := a.gw.Dashboard(ctx)
		return dashboardMsg{dash: dash, err: err}
	}
}

func (a *App) saveCampaign(req campaign.SaveRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		var saved campaign.Campaign
		var err error
		if req.Editing {
			saved, err = a.gw.UpdateCampaign(ctx, req.CampaignID, req.Payload)
		} else {
			saved, err = a.gw.CreateCampaign(ctx, req.Payload)
		}
		return savedMsg{saved: saved, err: err}
	}
}

func (a *App) sendCampaign(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		err := a.gw.SendCampaign(ctx, id)
		return sentMsg{id: id, err: err}
	}
}

// setNotice shows a transient line below the header.
func (a *App) setNotice(text string, isErr bool) tea.Cmd {
	a.notice = text
	a.noticeErr = isErr
	a.noticeSeq++
	seq := a.noticeSeq
	ttl := a.noticeTTL
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return noticeExpireMsg{seq: seq}
	})
}

func (a *App) doneLoading() {
	if a.loading > 0 {
		a.loading--
	}
}

// openWizard starts a fresh wizard session, or an edit session when c is
// non-nil.
func (a *App) openWizard(c *campaign.Campaign) tea.Cmd {
	var w *WizardPage
	if c != nil {
		w = NewEditWizardPage(a.styles, *c)
	} else {
		w = NewWizardPage(a.styles)
	}
	w.SetSize(a.width, a.height)
	w.SetLimit(a.limit)
	w.SetTemplates(a.templates.Items())
	a.wizard = w
	a.page = PageWizard
	logging.UI("wizard opened: editing=%v", c != nil)
	return tea.Batch(a.fetchCompanies(), a.fetchLimit(), a.fetchTemplates())
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(msg.Width, msg.Height)
		a.campaigns.SetSize(msg.Width, msg.Height)
		a.templates.SetSize(msg.Width, msg.Height)
		a.hrs.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		if a.wizard != nil {
			a.wizard.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		if a.loading > 0 {
			return a, cmd
		}
		return a, nil

	case noticeExpireMsg:
		if msg.seq == a.noticeSeq {
			a.notice = ""
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case campaignsMsg:
		a.doneLoading()
		if msg.err != nil {
			return a, a.setNotice("Failed to load campaigns: "+msg.err.Error(), true)
		}
		a.campaigns.SetItems(msg.items)
		a.snapshot(func(s *cache.Snapshot) { s.Campaigns = msg.items })
		return a, nil

	case templatesMsg:
		a.doneLoading()
		if msg.err != nil {
			return a, a.setNotice("Failed to load templates: "+msg.err.Error(), true)
		}
		a.templates.SetItems(msg.items)
		a.snapshot(func(s *cache.Snapshot) { s.Templates = msg.items })
		if a.wizard != nil {
			a.wizard.SetTemplates(msg.items)
		}
		return a, nil

	case hrsMsg:
		a.doneLoading()
		if msg.err != nil {
			return a, a.setNotice("Failed to load HR directory: "+msg.err.Error(), true)
		}
		a.hrs.SetItems(msg.items)
		a.snapshot(func(s *cache.Snapshot) { s.HRs = msg.items })
		return a, nil

	case companiesMsg:
		if msg.err != nil {
			return a, a.setNotice("Failed to load companies: "+msg.err.Error(), true)
		}
		a.snapshot(func(s *cache.Snapshot) { s.Companies = msg.items })
		if a.wizard != nil {
			a.wizard.SetCompanies(msg.items)
		}
		return a, nil

	case companyHRsMsg:
		if msg.err != nil {
			return a, a.setNotice("Failed to load contacts: "+msg.err.Error(), true)
		}
		if a.wizard != nil {
			a.wizard.SetCompanyHRs(msg.company, msg.items)
		}
		return a, nil

	case limitMsg:
		a.doneLoading()
		// A failed quota fetch leaves the limit unknown; unknown never blocks.
		if msg.err == nil {
			a.limit = msg.limit
			if a.wizard != nil {
				a.wizard.SetLimit(msg.limit)
			}
			a.campaigns.SetLimit(msg.limit)
			a.dashboard.SetLimit(msg.limit)
		}
		return a, nil

	case dashboardMsg:
		a.doneLoading()
		if msg.err != nil {
			return a, a.setNotice("Failed to load dashboard: "+msg.err.Error(), true)
		}
		a.dashboard.SetData(msg.dash, false)
		a.snapshot(func(s *cache.Snapshot) { s.Dashboard = msg.dash })
		return a, nil

	case savedMsg:
		if a.wizard != nil {
			a.wizard.CompleteSave(msg.saved, msg.err)
			if msg.err == nil {
				cmds = append(cmds, a.fetchCampaigns())
			}
		}
		return a, tea.Batch(cmds...)

	case sentMsg:
		if a.wizard != nil && a.page == PageWizard {
			a.wizard.CompleteSend(msg.err)
		} else {
			a.campaigns.CompleteSend(msg.id, msg.err)
		}
		if msg.err != nil {
			cmds = append(cmds, a.setNotice("Send failed: "+msg.err.Error(), true))
		} else {
			cmds = append(cmds, a.setNotice("Campaign sent.", false), a.fetchLimit(), a.fetchCampaigns(), a.fetchDashboard())
		}
		return a, tea.Batch(cmds...)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.quitting = true
		return a, tea.Quit
	}

	// Pages with a focused input swallow every other key.
	capturing := false
	switch a.page {
	case PageWizard:
		capturing = a.wizard != nil
	case PageCampaigns:
		capturing = a.campaigns.CapturesInput()
	case PageTemplates:
		capturing = a.templates.CapturesInput()
	case PageHRs:
		capturing = a.hrs.CapturesInput()
	}

	if !capturing {
		switch msg.String() {
		case "q":
			a.quitting = true
			return a, tea.Quit
		case "d", "1":
			a.page = PageDashboard
			return a, a.fetchDashboard()
		case "c", "2":
			a.page = PageCampaigns
			return a, tea.Batch(a.fetchCampaigns(), a.fetchLimit())
		case "t", "3":
			a.page = PageTemplates
			return a, a.fetchTemplates()
		case "h", "4":
			a.page = PageHRs
			return a, a.fetchHRs()
		case "n", "5":
			return a, a.openWizard(nil)
		case "?":
			a.page = PageHelp
			return a, nil
		}
	}

	return a.routeKey(msg)
}

// routeKey forwards a key to the active page and applies its outcome.
func (a *App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.page {
	case PageDashboard:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd

	case PageCampaigns:
		page, out := a.campaigns.Update(msg)
		a.campaigns = page
		switch {
		case out.Edit != nil:
			return a, a.openWizard(out.Edit)
		case out.SendID != "":
			return a, a.sendCampaign(out.SendID)
		case out.QuotaErr != nil:
			return a, a.setNotice(out.QuotaErr.Error(), true)
		case out.Refresh:
			return a, tea.Batch(a.fetchCampaigns(), a.fetchLimit())
		}
		return a, out.Cmd

	case PageTemplates:
		var cmd tea.Cmd
		a.templates, cmd = a.templates.Update(msg)
		return a, cmd

	case PageHRs:
		page, refresh, cmd := a.hrs.Update(msg)
		a.hrs = page
		if refresh {
			return a, tea.Batch(a.fetchHRs(), cmd)
		}
		return a, cmd

	case PageWizard:
		if a.wizard == nil {
			a.page = PageCampaigns
			return a, nil
		}
		out := a.wizard.Update(msg)
		var cmds []tea.Cmd
		if out.FetchCompany != "" {
			cmds = append(cmds, a.fetchCompanyHRs(out.FetchCompany))
		}
		if out.Save != nil {
			cmds = append(cmds, a.saveCampaign(*out.Save))
		}
		if out.SendID != "" {
			cmds = append(cmds, a.sendCampaign(out.SendID))
		}
		if out.Notice != "" {
			cmds = append(cmds, a.setNotice(out.Notice, out.NoticeErr))
		}
		if out.Closed {
			a.wizard = nil
			a.page = PageCampaigns
			cmds = append(cmds, a.fetchCampaigns(), a.fetchDashboard())
		}
		if out.Cmd != nil {
			cmds = append(cmds, out.Cmd)
		}
		return a, tea.Batch(cmds...)

	case PageHelp:
		switch msg.String() {
		case "esc", "q":
			a.page = PageDashboard
		}
		return a, nil
	}
	return a, nil
}

func (a *App) snapshot(fn func(*cache.Snapshot)) {
	if a.store == nil {
		return
	}
	if err := a.store.Update(fn); err != nil {
		logging.CacheError("snapshot update: %v", err)
	}
}

// View renders the active page inside the shared chrome.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	tabs := a.renderTabs()
	header := lipgloss.JoinHorizontal(lipgloss.Center, a.styles.Header.Render(" codeMAILX "), " ", tabs)
	if a.loading > 0 {
		header = lipgloss.JoinHorizontal(lipgloss.Center, header, " ", a.spinner.View())
	}

	var body string
	switch a.page {
	case PageDashboard:
		body = a.dashboard.View()
	case PageCampaigns:
		body = a.campaigns.View()
	case PageTemplates:
		body = a.templates.View()
	case PageHRs:
		body = a.hrs.View()
	case PageWizard:
		if a.wizard != nil {
			body = a.wizard.View()
		}
	case PageHelp:
		body = a.help.View()
	}

	notice := ""
	if a.notice != "" {
		style := a.styles.Info
		if a.noticeErr {
			style = a.styles.Error
		}
		notice = style.Render(a.notice)
	}

	footer := a.styles.Footer.Render("d dashboard • c campaigns • t templates • h directory • n new campaign • ? help • q quit")

	parts := []string{header}
	if notice != "" {
		parts = append(parts, notice)
	}
	parts = append(parts, a.styles.Content.Render(body), footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) renderTabs() string {
	pages := []Page{PageDashboard, PageCampaigns, PageTemplates, PageHRs}
	var rendered []string
	for _, p := range pages {
		if p == a.page {
			rendered = append(rendered, a.styles.TabOn.Render(p.String()))
		} else {
			rendered = append(rendered, a.styles.TabOff.Render(p.String()))
		}
	}
	if a.page == PageWizard || a.page == PageHelp {
		rendered = append(rendered, a.styles.TabOn.Render(a.page.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, rendered...)
}
