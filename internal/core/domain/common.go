package domain

import "time"

// AuditFields records who created and last changed a stored entity. The
// user is the subject of the operator token.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// NewAuditFields stamps a new entity created by userID at now.
func NewAuditFields(userID string, now time.Time) AuditFields {
	return AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
}
