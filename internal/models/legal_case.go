package models

import (
	"time"

	"github.com/google/uuid"
)

// LegalCase represents a legal proceeding tied to a lease (collection,
// dispute, repossession).
type LegalCase struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Reference   uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"reference"`
	LeaseID     uint       `gorm:"not null;index" json:"lease_id"`
	CaseNumber  string     `gorm:"uniqueIndex;not null" json:"case_number"`
	CaseType    string     `gorm:"not null" json:"case_type"`
	Status      string     `gorm:"default:open;not null;index" json:"status"`
	OpenedAt    time.Time  `gorm:"type:date;not null" json:"opened_at"`
	ClosedAt    *time.Time `json:"closed_at"`
	Description *string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Lease Lease `gorm:"foreignKey:LeaseID" json:"lease,omitempty"`
}

// TableName specifies the table name for LegalCase
func (LegalCase) TableName() string {
	return "legal_cases"
}

// Legal case status constants
const (
	CaseStatusOpen      = "open"
	CaseStatusInCourt   = "in_court"
	CaseStatusSettled   = "settled"
	CaseStatusClosed    = "closed"
	CaseStatusDismissed = "dismissed"
)

// Legal case type constants
const (
	CaseTypeCollection   = "collection"
	CaseTypeDispute      = "dispute"
	CaseTypeRepossession = "repossession"
)

var caseStatuses = map[string]bool{
	CaseStatusOpen:      true,
	CaseStatusInCourt:   true,
	CaseStatusSettled:   true,
	CaseStatusClosed:    true,
	CaseStatusDismissed: true,
}

var caseTypes = map[string]bool{
	CaseTypeCollection:   true,
	CaseTypeDispute:      true,
	CaseTypeRepossession: true,
}

// ValidCaseStatus reports whether s belongs to the closed status set.
func ValidCaseStatus(s string) bool {
	return caseStatuses[s]
}

// ValidCaseType reports whether s belongs to the closed type set.
func ValidCaseType(s string) bool {
	return caseTypes[s]
}
