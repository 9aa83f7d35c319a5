package campaign

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tplWithKeys(id string, keys ...string) Template {
	return Template{ID: id, Name: "tpl-" + id, Subject: "s", Body: "b", Placeholders: keys}
}

func TestIsStepValidDetails(t *testing.T) {
	d := NewDraft()
	assert.False(t, d.IsStepValid(StepDetails))

	d.CampaignName = "Outreach Q3"
	assert.False(t, d.IsStepValid(StepDetails))

	d.SetCompany("Acme")
	assert.False(t, d.IsStepValid(StepDetails))

	d.AddRecipient("hr-1")
	assert.True(t, d.IsStepValid(StepDetails))

	// Whitespace-only fields do not count.
	d.CampaignName = "   "
	assert.False(t, d.IsStepValid(StepDetails))
}

func TestIsStepValidTemplate(t *testing.T) {
	d := NewDraft()
	assert.False(t, d.IsStepValid(StepTemplate))
	d.TemplateID = "  "
	assert.False(t, d.IsStepValid(StepTemplate))
	d.TemplateID = "t1"
	assert.True(t, d.IsStepValid(StepTemplate))
}

func TestIsStepValidPlaceholders(t *testing.T) {
	d := NewDraft()
	d.SetTemplates([]Template{tplWithKeys("t1", "a", "b")})

	// No template selected yet.
	assert.False(t, d.IsStepValid(StepPlaceholders))

	d.SetTemplate("t1")
	d.SetPlaceholder("a", "x")
	assert.False(t, d.IsStepValid(StepPlaceholders), "missing key b must invalidate")

	d.SetPlaceholder("b", "y")
	assert.True(t, d.IsStepValid(StepPlaceholders))

	// Whitespace-only values do not count as filled.
	d.SetPlaceholder("b", "   ")
	assert.False(t, d.IsStepValid(StepPlaceholders))
}

func TestIsStepValidPlaceholdersEmptyDeclaration(t *testing.T) {
	d := NewDraft()
	d.SetTemplates([]Template{tplWithKeys("t1")})
	d.SetTemplate("t1")
	assert.True(t, d.IsStepValid(StepPlaceholders))
}

func TestIsStepValidReviewAlwaysTrue(t *testing.T) {
	d := NewDraft()
	assert.True(t, d.IsStepValid(StepReview))
}

func TestIsStepValidIdempotent(t *testing.T) {
	d := NewDraft()
	d.CampaignName = "c"
	d.SetCompany("co")
	d.AddRecipient("hr-1")

	for step := 0; step < StepCount; step++ {
		first := d.IsStepValid(step)
		second := d.IsStepValid(step)
		assert.Equal(t, first, second, "step %d validity changed between calls", step)
	}
}

func TestSetTemplatePreservesValuesOnIdenticalKeySet(t *testing.T) {
	d := NewDraft()
	d.SetTemplates([]Template{tplWithKeys("t1", "a"), tplWithKeys("t2", "a"), tplWithKeys("t3", "b")})

	d.SetTemplate("t1")
	d.SetPlaceholder("a", "kept")

	// Same key set: values survive.
	d.SetTemplate("t2")
	assert.Equal(t, "kept", d.PlaceholderValues["a"])

	// Different key set: reset to empty strings for the new declaration.
	d.SetTemplate("t3")
	if diff := cmp.Diff(map[string]string{"b": ""}, d.PlaceholderValues); diff != "" {
		t.Errorf("placeholder reset mismatch (-want +got):\n%s", diff)
	}
}

func TestSetTemplatesResyncsHydratedValues(t *testing.T) {
	// Edit mode: the draft carries values before the directory loads.
	c := Campaign{
		ID:           "c1",
		CampaignName: "Edit me",
		Company:      "Acme",
		HRList:       []string{"hr-1"},
		Template:     &Template{ID: "t1", Placeholders: []string{"a"}},
		Placeholders: []KV{{Key: "a", Value: "prior"}},
	}
	d := Hydrate(c)
	require.NotNil(t, d.SelectedTemplate())

	// Directory load with an unchanged key set keeps the prior values.
	d.SetTemplates([]Template{tplWithKeys("t1", "a"), tplWithKeys("t2", "x")})
	assert.Equal(t, "prior", d.PlaceholderValues["a"])
}

func TestSetCompanyDoesNotClearRecipients(t *testing.T) {
	// Deliberately shipped behavior: switching company re-filters the visible
	// pool but leaves already-selected ids in place.
	d := NewDraft()
	d.SetCompany("Acme")
	d.AddRecipient("hr-1")
	d.AddRecipient("hr-2")

	d.SetCompany("Globex")
	assert.Equal(t, []string{"hr-1", "hr-2"}, d.HRListIDs)
}

func TestRecipientSetSemantics(t *testing.T) {
	d := NewDraft()
	d.AddRecipient("a")
	d.AddRecipient("b")
	d.AddRecipient("a") // duplicate ignored
	assert.Equal(t, []string{"a", "b"}, d.HRListIDs)

	d.RemoveRecipient("a")
	assert.Equal(t, []string{"b"}, d.HRListIDs)

	d.ClearRecipients()
	assert.Empty(t, d.HRListIDs)
}

func TestPayloadFlattensPlaceholdersInDeclaredOrder(t *testing.T) {
	d := NewDraft()
	d.CampaignName = "Outreach Q3"
	d.SetCompany("Acme")
	d.AddRecipient("hr-1")
	d.SetTemplates([]Template{tplWithKeys("t1", "name", "position")})
	d.SetTemplate("t1")
	d.SetPlaceholder("position", "SRE")
	d.SetPlaceholder("name", "Ana")

	p := d.Payload()
	assert.Equal(t, "Outreach Q3", p.CampaignName)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, []string{"hr-1"}, p.HRList)
	assert.Equal(t, "t1", p.Template)
	require.Len(t, p.Placeholders, 2)
	assert.Equal(t, KV{Key: "name", Value: "Ana"}, p.Placeholders[0])
	assert.Equal(t, KV{Key: "position", Value: "SRE"}, p.Placeholders[1])
}

func TestPayloadCopiesRecipientSlice(t *testing.T) {
	d := NewDraft()
	d.AddRecipient("hr-1")
	p := d.Payload()
	d.AddRecipient("hr-2")
	assert.Equal(t, []string{"hr-1"}, p.HRList, "payload must not alias the draft slice")
}

func TestHydrate(t *testing.T) {
	c := Campaign{
		ID:           "c9",
		CampaignName: "Existing",
		Company:      "Initech",
		HRList:       []string{"h1", "h2"},
		Template:     &Template{ID: "t1", Name: "Intro", Placeholders: []string{"name"}},
		Placeholders: []KV{{Key: "name", Value: "Bob"}},
	}
	d := Hydrate(c)

	assert.Equal(t, "Existing", d.CampaignName)
	assert.Equal(t, "Initech", d.Company)
	assert.Equal(t, []string{"h1", "h2"}, d.HRListIDs)
	assert.Equal(t, "t1", d.TemplateID)
	assert.Equal(t, "Bob", d.PlaceholderValues["name"])

	// The embedded template resolves before the directory loads.
	require.NotNil(t, d.SelectedTemplate())
	assert.Equal(t, "Intro", d.SelectedTemplate().Name)

	// All four steps validate immediately.
	for step := 0; step < StepCount; step++ {
		assert.True(t, d.IsStepValid(step), "step %d of a hydrated draft", step)
	}
}
