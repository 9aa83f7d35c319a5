package ui

import (
	"fmt"
	"strings"

	"codemailx/internal/campaign"
	"codemailx/internal/logging"
	"codemailx/internal/template"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Step 0 focus zones.
const (
	zoneName = iota
	zoneCompany
	zoneRecipients
	zoneCount
)

var stepTitles = [campaign.StepCount]string{
	"Campaign Details",
	"Choose Template",
	"Fill Placeholders",
	"Review & Save",
}

// WizardOutcome tells the app what an update wants done. Zero value means
// nothing beyond the page's own state changed.
type WizardOutcome struct {
	FetchCompany string                // load contacts for this company
	Save         *campaign.SaveRequest // persist the draft
	SendID       string                // dispatch this campaign
	Notice       string
	NoticeErr    bool
	Closed       bool
	Cmd          tea.Cmd
}

// WizardPage drives one campaign build/edit session. All state transitions
// live in campaign.Wizard; the page only renders and translates keys.
type WizardPage struct {
	styles Styles
	width  int
	height int

	wiz *campaign.Wizard

	// Step 0
	nameInput  textinput.Model
	zone       int
	companies  []campaign.Company
	companyIdx int
	hrs        []campaign.HRContact
	hrIdx      int

	// Step 1
	templateIdx int

	// Step 2
	phKeys   []string
	phInputs []textinput.Model
	phIdx    int

	errText string
}

// NewWizardPage opens a page over a fresh wizard.
func NewWizardPage(styles Styles) *WizardPage {
	return newWizardPage(styles, campaign.NewWizard())
}

// NewEditWizardPage opens a page editing an existing campaign.
func NewEditWizardPage(styles Styles, c campaign.Campaign) *WizardPage {
	p := newWizardPage(styles, campaign.NewEditWizard(c))
	p.nameInput.SetValue(c.CampaignName)
	p.rebuildPlaceholderInputs()
	return p
}

func newWizardPage(styles Styles, wiz *campaign.Wizard) *WizardPage {
	name := textinput.New()
	name.Placeholder = "Campaign name..."
	name.CharLimit = 120
	name.Focus()

	return &WizardPage{
		styles:    styles,
		wiz:       wiz,
		nameInput: name,
		width:     100,
		height:    30,
	}
}

// SetSize updates the page dimensions.
func (p *WizardPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.nameInput.Width = min(60, w-10)
}

// SetLimit installs the fetched quota snapshot.
func (p *WizardPage) SetLimit(limit *campaign.EmailLimit) {
	p.wiz.SetLimit(limit)
}

// SetTemplates installs the template directory.
func (p *WizardPage) SetTemplates(templates []campaign.Template) {
	p.wiz.Draft().SetTemplates(templates)
	if p.templateIdx >= len(templates) {
		p.templateIdx = 0
	}
	p.rebuildPlaceholderInputs()
}

// SetCompanies installs the company directory.
func (p *WizardPage) SetCompanies(companies []campaign.Company) {
	p.companies = companies
	if p.companyIdx >= len(companies) {
		p.companyIdx = 0
	}
}

// SetCompanyHRs installs the contacts for the selected company. Stale
// responses for a company no longer selected are dropped.
func (p *WizardPage) SetCompanyHRs(company string, hrs []campaign.HRContact) {
	if company != p.wiz.Draft().Company {
		return
	}
	p.hrs = hrs
	p.hrIdx = 0
}

// CompleteSave applies the persistence result.
func (p *WizardPage) CompleteSave(saved campaign.Campaign, err error) {
	p.wiz.CompleteFinish(saved.ID, err)
	if err != nil {
		p.errText = "Save failed: " + err.Error()
	} else {
		p.errText = ""
	}
}

// CompleteSend applies the dispatch result.
func (p *WizardPage) CompleteSend(err error) {
	p.wiz.CompleteSend(err)
	if err != nil {
		p.errText = "Send failed: " + err.Error()
	}
}

// rebuildPlaceholderInputs re-creates the step 2 inputs from the selected
// template's declared keys, carrying over current values.
func (p *WizardPage) rebuildPlaceholderInputs() {
	tpl := p.wiz.Draft().SelectedTemplate()
	if tpl == nil {
		p.phKeys = nil
		p.phInputs = nil
		return
	}
	keys := tpl.Placeholders
	if len(keys) == 0 {
		// Templates without a declared list still get inputs for every
		// token found in the text.
		keys = template.ExtractKeys(tpl.Subject + "\n" + tpl.Body)
	}
	p.phKeys = keys
	p.phInputs = make([]textinput.Model, len(keys))
	for i, key := range keys {
		ti := textinput.New()
		ti.Placeholder = key
		ti.CharLimit = 200
		ti.Width = min(50, p.width-20)
		ti.SetValue(p.wiz.Draft().PlaceholderValues[key])
		p.phInputs[i] = ti
	}
	p.phIdx = 0
	if len(p.phInputs) > 0 {
		p.phInputs[0].Focus()
	}
}

// Update translates a key press into wizard transitions.
func (p *WizardPage) Update(msg tea.KeyMsg) WizardOutcome {
	switch p.wiz.State() {
	case campaign.StateSaving, campaign.StateSending:
		// In flight; ignore keys until the completion message lands.
		return WizardOutcome{}
	case campaign.StateSendPrompt:
		return p.updateSendPrompt(msg)
	case campaign.StateDone, campaign.StateCanceled:
		return WizardOutcome{Closed: true}
	}

	switch p.wiz.Step() {
	case campaign.StepDetails:
		return p.updateDetails(msg)
	case campaign.StepTemplate:
		return p.updateTemplate(msg)
	case campaign.StepPlaceholders:
		return p.updatePlaceholders(msg)
	case campaign.StepReview:
		return p.updateReview(msg)
	}
	return WizardOutcome{}
}

func (p *WizardPage) cancel() WizardOutcome {
	if err := p.wiz.Cancel(); err != nil {
		return WizardOutcome{Notice: err.Error(), NoticeErr: true}
	}
	return WizardOutcome{Closed: true}
}

func (p *WizardPage) next() WizardOutcome {
	if !p.wiz.Next() {
		return WizardOutcome{Notice: "Complete this step before continuing.", NoticeErr: true}
	}
	p.errText = ""
	if p.wiz.Step() == campaign.StepPlaceholders {
		p.rebuildPlaceholderInputs()
	}
	return WizardOutcome{}
}

func (p *WizardPage) updateDetails(msg tea.KeyMsg) WizardOutcome {
	draft := p.wiz.Draft()

	switch msg.String() {
	case "esc":
		return p.cancel()
	case "tab":
		p.zone = (p.zone + 1) % zoneCount
		p.syncNameFocus()
		return WizardOutcome{}
	case "shift+tab":
		p.zone = (p.zone + zoneCount - 1) % zoneCount
		p.syncNameFocus()
		return WizardOutcome{}
	case "ctrl+right":
		return p.next()
	}

	switch p.zone {
	case zoneName:
		if msg.String() == "enter" {
			p.zone = zoneCompany
			p.syncNameFocus()
			return WizardOutcome{}
		}
		var cmd tea.Cmd
		p.nameInput, cmd = p.nameInput.Update(msg)
		draft.CampaignName = p.nameInput.Value()
		return WizardOutcome{Cmd: cmd}

	case zoneCompany:
		switch msg.String() {
		case "up", "k":
			if p.companyIdx > 0 {
				p.companyIdx--
			}
		case "down", "j":
			if p.companyIdx < len(p.companies)-1 {
				p.companyIdx++
			}
		case "enter", " ":
			if p.companyIdx < len(p.companies) {
				name := p.companies[p.companyIdx].Name
				draft.SetCompany(name)
				p.hrs = nil
				p.zone = zoneRecipients
				logging.UI("wizard: company selected %q", name)
				return WizardOutcome{FetchCompany: name}
			}
		}
		return WizardOutcome{}

	case zoneRecipients:
		switch msg.String() {
		case "up", "k":
			if p.hrIdx > 0 {
				p.hrIdx--
			}
		case "down", "j":
			if p.hrIdx < len(p.hrs)-1 {
				p.hrIdx++
			}
		case " ":
			if p.hrIdx < len(p.hrs) {
				id := p.hrs[p.hrIdx].ID
				if p.isSelected(id) {
					draft.RemoveRecipient(id)
				} else {
					draft.AddRecipient(id)
				}
			}
		case "a":
			for _, hr := range p.hrs {
				draft.AddRecipient(hr.ID)
			}
		case "x":
			draft.ClearRecipients()
		case "enter":
			return p.next()
		}
		return WizardOutcome{}
	}
	return WizardOutcome{}
}

func (p *WizardPage) syncNameFocus() {
	if p.zone == zoneName {
		p.nameInput.Focus()
	} else {
		p.nameInput.Blur()
	}
}

func (p *WizardPage) isSelected(id string) bool {
	for _, sel := range p.wiz.Draft().HRListIDs {
		if sel == id {
			return true
		}
	}
	return false
}

func (p *WizardPage) updateTemplate(msg tea.KeyMsg) WizardOutcome {
	templates := p.wiz.Draft().Templates()

	switch msg.String() {
	case "esc":
		p.wiz.Prev()
		return WizardOutcome{}
	case "up", "k":
		if p.templateIdx > 0 {
			p.templateIdx--
		}
	case "down", "j":
		if p.templateIdx < len(templates)-1 {
			p.templateIdx++
		}
	case " ":
		if p.templateIdx < len(templates) {
			p.wiz.Draft().SetTemplate(templates[p.templateIdx].ID)
		}
	case "enter":
		if p.templateIdx < len(templates) {
			p.wiz.Draft().SetTemplate(templates[p.templateIdx].ID)
		}
		out := p.next()
		return out
	}
	return WizardOutcome{}
}

func (p *WizardPage) updatePlaceholders(msg tea.KeyMsg) WizardOutcome {
	draft := p.wiz.Draft()

	switch msg.String() {
	case "esc":
		p.wiz.Prev()
		return WizardOutcome{}
	case "tab", "down":
		p.focusPlaceholder((p.phIdx + 1) % max(len(p.phInputs), 1))
		return WizardOutcome{}
	case "shift+tab", "up":
		p.focusPlaceholder((p.phIdx + max(len(p.phInputs), 1) - 1) % max(len(p.phInputs), 1))
		return WizardOutcome{}
	case "enter":
		if p.phIdx < len(p.phInputs)-1 {
			p.focusPlaceholder(p.phIdx + 1)
			return WizardOutcome{}
		}
		return p.next()
	}

	if p.phIdx < len(p.phInputs) {
		var cmd tea.Cmd
		p.phInputs[p.phIdx], cmd = p.phInputs[p.phIdx].Update(msg)
		draft.SetPlaceholder(p.phKeys[p.phIdx], p.phInputs[p.phIdx].Value())
		return WizardOutcome{Cmd: cmd}
	}
	return WizardOutcome{}
}

func (p *WizardPage) focusPlaceholder(idx int) {
	if len(p.phInputs) == 0 {
		return
	}
	p.phInputs[p.phIdx].Blur()
	p.phIdx = idx
	p.phInputs[p.phIdx].Focus()
}

func (p *WizardPage) updateReview(msg tea.KeyMsg) WizardOutcome {
	switch msg.String() {
	case "esc":
		p.wiz.Prev()
		return WizardOutcome{}
	case "enter", "s":
		req, err := p.wiz.BeginFinish()
		if err != nil {
			p.errText = err.Error()
			return WizardOutcome{Notice: err.Error(), NoticeErr: true}
		}
		return WizardOutcome{Save: &req}
	}
	return WizardOutcome{}
}

func (p *WizardPage) updateSendPrompt(msg tea.KeyMsg) WizardOutcome {
	switch msg.String() {
	case "y", "enter":
		if !p.wiz.CanSendNow() {
			return WizardOutcome{Notice: "Sending is unavailable: quota exceeded.", NoticeErr: true}
		}
		id, err := p.wiz.BeginSend()
		if err != nil {
			return WizardOutcome{Notice: err.Error(), NoticeErr: true}
		}
		return WizardOutcome{SendID: id}
	case "l", "esc":
		if err := p.wiz.Defer(); err != nil {
			return WizardOutcome{Notice: err.Error(), NoticeErr: true}
		}
		return WizardOutcome{Closed: true, Notice: "Campaign saved. It stays Pending until sent.", NoticeErr: false}
	}
	return WizardOutcome{}
}

// View renders the wizard page.
func (p *WizardPage) View() string {
	var sb strings.Builder

	sb.WriteString(p.renderStepIndicator() + "\n\n")

	switch p.wiz.State() {
	case campaign.StateSaving:
		sb.WriteString(p.styles.Info.Render("Saving campaign..."))
		return sb.String()
	case campaign.StateSending:
		sb.WriteString(p.styles.Info.Render("Sending emails..."))
		return sb.String()
	case campaign.StateSendPrompt:
		sb.WriteString(p.renderSendPrompt())
		return sb.String()
	case campaign.StateDone:
		if p.wiz.Sent() {
			sb.WriteString(p.styles.Success.Render("Campaign sent.") + "\n\n")
		} else {
			sb.WriteString(p.styles.Success.Render("Campaign saved.") + "\n\n")
		}
		sb.WriteString(p.styles.Muted.Render("press any key to return"))
		return sb.String()
	case campaign.StateCanceled:
		sb.WriteString(p.styles.Muted.Render("Campaign discarded."))
		return sb.String()
	}

	switch p.wiz.Step() {
	case campaign.StepDetails:
		sb.WriteString(p.renderDetails())
	case campaign.StepTemplate:
		sb.WriteString(p.renderTemplates())
	case campaign.StepPlaceholders:
		sb.WriteString(p.renderPlaceholders())
	case campaign.StepReview:
		sb.WriteString(p.renderReview())
	}

	if p.errText != "" {
		sb.WriteString("\n" + p.styles.Error.Render(p.errText))
	}
	return sb.String()
}

// renderStepIndicator shows the four steps with completion markers.
func (p *WizardPage) renderStepIndicator() string {
	var parts []string
	current := p.wiz.Step()
	for i := 0; i < campaign.StepCount; i++ {
		label := fmt.Sprintf("%d. %s", i+1, stepTitles[i])
		switch {
		case i == current:
			parts = append(parts, p.styles.Selected.Render("▶ "+label))
		case p.wiz.StepCompleted(i):
			parts = append(parts, p.styles.Checked.Render("✓ "+label))
		default:
			parts = append(parts, p.styles.Muted.Render("○ "+label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(parts, p.styles.Muted.Render("  ─  ")))
}

func (p *WizardPage) renderDetails() string {
	draft := p.wiz.Draft()
	var sb strings.Builder

	zoneTitle := func(zone int, title string) string {
		if p.zone == zone {
			return p.styles.Selected.Render("» " + title)
		}
		return p.styles.Bold.Render("  " + title)
	}

	sb.WriteString(zoneTitle(zoneName, "Name") + "\n")
	sb.WriteString("  " + p.nameInput.View() + "\n\n")

	sb.WriteString(zoneTitle(zoneCompany, "Company") + "\n")
	if len(p.companies) == 0 {
		sb.WriteString("  " + p.styles.Muted.Render("Loading companies...") + "\n")
	}
	for i, c := range p.companies {
		cursor := "  "
		style := p.styles.Body
		if p.zone == zoneCompany && i == p.companyIdx {
			cursor = "> "
			style = p.styles.Selected
		}
		marker := " "
		if c.Name == draft.Company {
			marker = "●"
		}
		sb.WriteString(fmt.Sprintf("  %s%s %s\n", cursor, marker, style.Render(c.Name)))
	}
	sb.WriteString("\n")

	sb.WriteString(zoneTitle(zoneRecipients, fmt.Sprintf("Recipients (%d selected)", len(draft.HRListIDs))) + "\n")
	if draft.Company == "" {
		sb.WriteString("  " + p.styles.Muted.Render("Pick a company first.") + "\n")
	} else if len(p.hrs) == 0 {
		sb.WriteString("  " + p.styles.Muted.Render("No contacts for "+draft.Company+" yet.") + "\n")
	}
	for i, hr := range p.hrs {
		cursor := "  "
		style := p.styles.Body
		if p.zone == zoneRecipients && i == p.hrIdx {
			cursor = "> "
			style = p.styles.Selected
		}
		check := "[ ]"
		if p.isSelected(hr.ID) {
			check = "[x]"
		}
		verified := ""
		if hr.IsVerified {
			verified = p.styles.Checked.Render(" ✓")
		}
		sb.WriteString(fmt.Sprintf("  %s%s %s <%s>%s\n", cursor, check, style.Render(hr.Name), hr.Email, verified))
	}

	sb.WriteString("\n" + p.styles.Muted.Render("tab switch section • space toggle • a all • x clear • enter next • esc cancel"))
	return sb.String()
}

func (p *WizardPage) renderTemplates() string {
	draft := p.wiz.Draft()
	templates := draft.Templates()
	var sb strings.Builder

	if len(templates) == 0 {
		sb.WriteString(p.styles.Muted.Render("Loading templates..."))
		return sb.String()
	}

	for i, tpl := range templates {
		cursor := "  "
		style := p.styles.Body
		if i == p.templateIdx {
			cursor = "> "
			style = p.styles.Selected
		}
		marker := " "
		if tpl.ID == draft.TemplateID {
			marker = "●"
		}
		sb.WriteString(fmt.Sprintf("%s%s %s\n", cursor, marker, style.Render(tpl.Name)))
		sb.WriteString("     " + p.styles.Muted.Render(Truncate(tpl.Subject, p.width-10)) + "\n")
	}

	if tpl := draft.SelectedTemplate(); tpl != nil {
		sb.WriteString("\n" + p.styles.Bold.Render("Preview") + "\n")
		sb.WriteString(p.styles.Card.Width(min(72, p.width-6)).Render(Truncate(tpl.Body, 600)) + "\n")
	}

	sb.WriteString("\n" + p.styles.Muted.Render("enter choose • space mark • esc back"))
	return sb.String()
}

func (p *WizardPage) renderPlaceholders() string {
	draft := p.wiz.Draft()
	var sb strings.Builder

	tpl := draft.SelectedTemplate()
	if tpl == nil {
		return p.styles.Muted.Render("No template selected.")
	}
	if len(p.phKeys) == 0 {
		sb.WriteString(p.styles.Muted.Render("This template declares no placeholders.") + "\n")
	}
	for i, key := range p.phKeys {
		label := p.styles.Bold.Render(key)
		if i == p.phIdx {
			label = p.styles.Selected.Render(key)
		}
		sb.WriteString(label + "\n  " + p.phInputs[i].View() + "\n\n")
	}

	// Live preview with current values; unfilled keys stay visible as tokens.
	subject, body := template.Fill(tpl.Subject, tpl.Body, draft.PlaceholderValues)
	sb.WriteString(p.styles.Bold.Render("Subject: ") + subject + "\n")
	sb.WriteString(p.styles.Card.Width(min(72, p.width-6)).Render(Truncate(body, 600)) + "\n")

	sb.WriteString("\n" + p.styles.Muted.Render("tab next field • enter continue • esc back"))
	return sb.String()
}

func (p *WizardPage) renderReview() string {
	draft := p.wiz.Draft()
	var sb strings.Builder

	rows := [][2]string{
		{"Name", draft.CampaignName},
		{"Company", draft.Company},
		{"Recipients", fmt.Sprintf("%d selected", len(draft.HRListIDs))},
	}
	if tpl := draft.SelectedTemplate(); tpl != nil {
		rows = append(rows, [2]string{"Template", tpl.Name})
	}
	for _, row := range rows {
		sb.WriteString(p.styles.Bold.Render(fmt.Sprintf("%-12s", row[0])) + row[1] + "\n")
	}

	if tpl := draft.SelectedTemplate(); tpl != nil {
		subject, body := template.Fill(tpl.Subject, tpl.Body, draft.PlaceholderValues)
		sb.WriteString("\n" + p.styles.Bold.Render("Subject: ") + subject + "\n")
		sb.WriteString(p.styles.Card.Width(min(72, p.width-6)).Render(body) + "\n")
	}

	if limit := p.wiz.Limit(); limit != nil {
		line := fmt.Sprintf("Daily quota: %d of %d remaining", limit.RemainingLimit, limit.MaxLimit)
		style := p.styles.Info
		if campaign.ExceedsLimit(len(draft.HRListIDs), limit) {
			style = p.styles.Error
			line += "  (selection exceeds quota)"
		}
		sb.WriteString("\n" + style.Render(line) + "\n")
	}

	action := "save"
	if p.wiz.Editing() {
		action = "update"
	}
	sb.WriteString("\n" + p.styles.Muted.Render("enter "+action+" • esc back"))
	return sb.String()
}

func (p *WizardPage) renderSendPrompt() string {
	var sb strings.Builder
	sb.WriteString(p.styles.Success.Render("Campaign saved.") + "\n\n")
	sb.WriteString(p.styles.Body.Render("Send it now, or keep it Pending and send later from the campaigns list?") + "\n\n")
	if !p.wiz.CanSendNow() {
		sb.WriteString(p.styles.Error.Render("Send Now is unavailable: the selection exceeds today's quota.") + "\n\n")
	}
	sb.WriteString(p.styles.Muted.Render("y send now • l later"))
	return sb.String()
}
