package domain

import "time"

const (
	// IntentStatusSucceeded is the gateway status for a captured payment.
	IntentStatusSucceeded = "succeeded"

	// IntentStatusUnknown stands in for a reference the gateway does not recognise.
	IntentStatusUnknown = "unknown"

	// MetadataUserIDKey tags an intent with the buyer that created it.
	MetadataUserIDKey = "userId"
)

// PaymentIntent is the gateway's view of a payment. It is never persisted.
type PaymentIntent struct {
	ExternalRef         string
	ClientSecret        string
	Status              string
	AmountMinor         int64
	CapturedAmountMinor int64
	Currency            string
	Metadata            map[string]string
}

func (p *PaymentIntent) Succeeded() bool {
	return p.Status == IntentStatusSucceeded
}

// PaymentDiscrepancy is an entry in the manual reconciliation queue, written
// when a captured amount does not match the order total.
type PaymentDiscrepancy struct {
	ID            int64
	ExternalRef   string
	UserID        int64
	ExpectedMinor int64
	CapturedMinor int64
	DetectedAt    time.Time
	ResolvedAt    *time.Time
	Resolution    *string
}

func (d *PaymentDiscrepancy) IsResolved() bool {
	return d.ResolvedAt != nil
}
