package valueobjects

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusFailed    PurchaseStatus = "failed"
)

func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusCompleted, PurchaseStatusFailed:
		return true
	default:
		return false
	}
}

func (s PurchaseStatus) IsCompleted() bool {
	return s == PurchaseStatusCompleted
}

func (s PurchaseStatus) IsPending() bool {
	return s == PurchaseStatusPending
}

// IsFinal reports whether the status is terminal. Completed and failed
// purchases never transition again.
func (s PurchaseStatus) IsFinal() bool {
	return s == PurchaseStatusCompleted || s == PurchaseStatusFailed
}

func (s PurchaseStatus) String() string {
	return string(s)
}
