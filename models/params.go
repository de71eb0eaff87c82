package models

// CaptureParams captures a previously authorized charge. Amount is in
// minor units.
type CaptureParams struct {
	Amount int64 `json:"amount"`
}

// RefundCard identifies a card on file for a direct credit when no
// charge id is available.
type RefundCard struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
}

// RefundParams drives the refund branch selection: a ChargeID refunds or
// voids an existing transaction depending on its settlement status, a
// Card without a ChargeID credits the card directly. Amount is in minor
// units.
type RefundParams struct {
	ChargeID string      `json:"charge"`
	Amount   int64       `json:"amount"`
	Card     *RefundCard `json:"card,omitempty"`
}

// VerifySourceParams runs a gateway validation against a stored payment
// profile. ValidationMode defaults to testMode when empty.
type VerifySourceParams struct {
	CVC            string `json:"cvc,omitempty"`
	ValidationMode string `json:"validation_mode,omitempty"`
}
