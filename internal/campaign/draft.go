package campaign

import (
	"sort"
	"strings"
)

// Wizard step indices.
const (
	StepDetails      = 0
	StepTemplate     = 1
	StepPlaceholders = 2
	StepReview       = 3

	StepCount = 4
)

// Draft is a campaign under construction or edit. It is mutated only through
// its setters; validity is always derived, never stored.
//
// The selected template is not stored on the draft: it is computed from
// (TemplateID, templates) on demand, so there is no denormalized copy to keep
// in sync.
type Draft struct {
	CampaignName      string
	Company           string
	HRListIDs         []string
	TemplateID        string
	PlaceholderValues map[string]string

	// templates is the last-loaded template directory, used to resolve
	// TemplateID. Set via SetTemplates.
	templates []Template
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{PlaceholderValues: map[string]string{}}
}

// Hydrate fills a draft from an existing campaign for edit mode.
func Hydrate(c Campaign) *Draft {
	d := NewDraft()
	d.CampaignName = c.CampaignName
	d.Company = c.Company
	d.HRListIDs = append([]string(nil), c.HRList...)
	if c.Template != nil {
		d.TemplateID = c.Template.ID
		d.templates = []Template{*c.Template}
	}
	for _, kv := range c.Placeholders {
		d.PlaceholderValues[kv.Key] = kv.Value
	}
	return d
}

// SetTemplates installs the loaded template directory and re-syncs the
// placeholder values against the (possibly now resolvable) selection.
func (d *Draft) SetTemplates(templates []Template) {
	d.templates = templates
	d.syncPlaceholders()
}

// Templates returns the installed template directory.
func (d *Draft) Templates() []Template {
	return d.templates
}

// SelectedTemplate resolves TemplateID against the loaded templates.
// Returns nil when nothing is selected or the directory has not loaded yet.
func (d *Draft) SelectedTemplate() *Template {
	if strings.TrimSpace(d.TemplateID) == "" {
		return nil
	}
	for i := range d.templates {
		if d.templates[i].ID == d.TemplateID {
			return &d.templates[i]
		}
	}
	return nil
}

// SetTemplate changes the selected template. Placeholder values survive when
// the new template declares exactly the same key set; otherwise every declared
// key resets to the empty string, to be filled by the user.
func (d *Draft) SetTemplate(id string) {
	d.TemplateID = id
	d.syncPlaceholders()
}

func (d *Draft) syncPlaceholders() {
	tpl := d.SelectedTemplate()
	if tpl == nil {
		return
	}

	if sameKeySet(tpl.Placeholders, d.PlaceholderValues) {
		return
	}

	reset := make(map[string]string, len(tpl.Placeholders))
	for _, key := range tpl.Placeholders {
		reset[key] = ""
	}
	d.PlaceholderValues = reset
}

// sameKeySet reports whether keys and the map's key set are identical.
func sameKeySet(keys []string, values map[string]string) bool {
	if len(keys) != len(values) {
		return false
	}
	for _, k := range keys {
		if _, ok := values[k]; !ok {
			return false
		}
	}
	return true
}

// SetPlaceholder assigns one placeholder value.
func (d *Draft) SetPlaceholder(key, value string) {
	if d.PlaceholderValues == nil {
		d.PlaceholderValues = map[string]string{}
	}
	d.PlaceholderValues[key] = value
}

// SetCompany changes the recipient pool selector. Previously selected
// recipients are intentionally NOT cleared: the available list simply
// re-filters, matching the shipped behavior.
func (d *Draft) SetCompany(company string) {
	d.Company = company
}

// AddRecipient appends an id, preserving set semantics and order.
func (d *Draft) AddRecipient(id string) {
	for _, existing := range d.HRListIDs {
		if existing == id {
			return
		}
	}
	d.HRListIDs = append(d.HRListIDs, id)
}

// RemoveRecipient drops an id, preserving order of the rest.
func (d *Draft) RemoveRecipient(id string) {
	out := d.HRListIDs[:0]
	for _, existing := range d.HRListIDs {
		if existing != id {
			out = append(out, existing)
		}
	}
	d.HRListIDs = out
}

// ClearRecipients empties the recipient selection.
func (d *Draft) ClearRecipients() {
	d.HRListIDs = nil
}

// IsStepValid reports whether the given wizard step is complete. Pure: no
// hidden mutation, stable across repeated calls.
func (d *Draft) IsStepValid(step int) bool {
	switch step {
	case StepDetails:
		return strings.TrimSpace(d.CampaignName) != "" &&
			strings.TrimSpace(d.Company) != "" &&
			len(d.HRListIDs) > 0
	case StepTemplate:
		return strings.TrimSpace(d.TemplateID) != ""
	case StepPlaceholders:
		tpl := d.SelectedTemplate()
		if tpl == nil {
			return false
		}
		for _, key := range tpl.Placeholders {
			if strings.TrimSpace(d.PlaceholderValues[key]) == "" {
				return false
			}
		}
		return true
	default:
		// Review never blocks.
		return true
	}
}

// Payload flattens the draft into the create/update request body. Placeholder
// pairs follow the template's declared key order; keys outside the declaration
// (possible only transiently) come last, sorted for determinism.
func (d *Draft) Payload() Payload {
	var pairs []KV
	seen := make(map[string]bool, len(d.PlaceholderValues))

	if tpl := d.SelectedTemplate(); tpl != nil {
		for _, key := range tpl.Placeholders {
			if v, ok := d.PlaceholderValues[key]; ok {
				pairs = append(pairs, KV{Key: key, Value: v})
				seen[key] = true
			}
		}
	}

	var rest []string
	for key := range d.PlaceholderValues {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		pairs = append(pairs, KV{Key: key, Value: d.PlaceholderValues[key]})
	}

	return Payload{
		CampaignName: d.CampaignName,
		Company:      d.Company,
		HRList:       append([]string(nil), d.HRListIDs...),
		Template:     d.TemplateID,
		Placeholders: pairs,
	}
}
