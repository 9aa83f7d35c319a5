package campaign

import "fmt"

// ExceedsLimit reports whether sending to recipientCount addresses would go
// over the daily quota. An unknown (nil) limit never blocks: the server stays
// the final authority and may still reject the send.
//
// Every quota decision in the client goes through this predicate: the wizard
// pre-save check, the post-save send confirmation, and the standalone send
// action on the campaign list.
func ExceedsLimit(recipientCount int, limit *EmailLimit) bool {
	return limit != nil && recipientCount > limit.RemainingLimit
}

// QuotaError is the user-facing quota rejection.
type QuotaError struct {
	Remaining int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("You can only send %d more emails today. Please choose fewer HRs.", e.Remaining)
}
