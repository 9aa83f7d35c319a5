// Package campaign holds the outreach campaign domain: fetched entities,
// the in-progress draft, the wizard state machine and the send-quota gate.
package campaign

import (
	"encoding/json"
	"time"
)

// Status is the server-owned lifecycle state of a persisted campaign.
type Status string

const (
	StatusPending Status = "Pending"
	StatusSent    Status = "Sent"
	StatusFailed  Status = "Failed"
)

// Template is a reusable email template fetched from the backend.
// Subject and Body may contain {{key}} tokens; Placeholders lists the
// declared keys in order (may be empty).
type Template struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	Subject      string   `json:"subject"`
	Body         string   `json:"body"`
	Placeholders []string `json:"placeholders"`
}

// HRContact is a recipient record. Global contacts are shared across all
// accounts; user-added ones belong to the account referenced by AddedBy.
type HRContact struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Company    string `json:"company"`
	IsVerified bool   `json:"isVerified"`
	IsGlobal   bool   `json:"isGlobal"`
	AddedBy    string `json:"addedBy,omitempty"`
}

// KV is one flattened placeholder assignment in the create/update payload.
type KV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// HRRefList holds the recipient ids of a campaign. The backend returns the
// entries either as plain id strings or as populated contact objects;
// decoding normalizes both forms to the id.
type HRRefList []string

func (l *HRRefList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(HRRefList, 0, len(raw))
	for _, item := range raw {
		var id string
		if err := json.Unmarshal(item, &id); err == nil {
			out = append(out, id)
			continue
		}
		var ref struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(item, &ref); err != nil {
			return err
		}
		out = append(out, ref.ID)
	}
	*l = out
	return nil
}

// Campaign is the persisted, server-owned entity.
type Campaign struct {
	ID           string    `json:"_id"`
	CampaignName string    `json:"campaignName"`
	Company      string    `json:"company"`
	HRList       HRRefList `json:"hrList"`
	Template     *Template `json:"template,omitempty"`
	Placeholders []KV      `json:"placeholders,omitempty"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// TemplateName returns the denormalized template name, empty when absent.
func (c Campaign) TemplateName() string {
	if c.Template == nil {
		return ""
	}
	return c.Template.Name
}

// Payload is the create/update request body.
type Payload struct {
	CampaignName string   `json:"campaignName"`
	Company      string   `json:"company"`
	HRList       []string `json:"hrList"`
	Template     string   `json:"template"`
	Placeholders []KV     `json:"placeholders"`
}

// EmailLimit is the daily send quota fetched from the backend.
// RemainingLimit <= MaxLimit always holds server-side.
type EmailLimit struct {
	RemainingLimit int `json:"remainingLimit"`
	MaxLimit       int `json:"maxLimit"`
}

// Company is an entry of the company directory.
type Company struct {
	Name string `json:"name"`
}
