package types

import "errors"

var (
	ErrGrievanceNotFound     = errors.New("grievance not found")
	ErrMemberRequestNotFound = errors.New("member request not found")
)

type SubmissionStatus string

const (
	StatusOpen       SubmissionStatus = "Open"
	StatusPending    SubmissionStatus = "Pending"
	StatusRegistered SubmissionStatus = "Registered"
	StatusInProgress SubmissionStatus = "In Progress"
	StatusResolved   SubmissionStatus = "Resolved"
)

type SubmissionType string

const (
	TypeGrievance     SubmissionType = "Grievance"
	TypePhotoEvidence SubmissionType = "Photo Evidence"
	TypeSuggestion    SubmissionType = "Suggestion"
	TypeVolunteer     SubmissionType = "Volunteer"
)

// Reference id prefixes, one per submission family.
const (
	RefPrefixGrievance  = "GRV"
	RefPrefixSuggestion = "SUG"
	RefPrefixVolunteer  = "VOL"
	RefPrefixPhoto      = "PHT"
)

// Grievance holds reported local issues. Photo evidence shares the table
// with a distinct type tag.
type Grievance struct {
	ReferenceID string           `db:"reference_id"`
	Phone       string           `db:"phone"`
	Name        string           `db:"name"`
	Booth       string           `db:"booth"`
	Epic        *string          `db:"epic"`
	Category    string           `db:"category"`
	Description string           `db:"description"`
	Status      SubmissionStatus `db:"status"`
	Latitude    *float64         `db:"latitude"`
	Longitude   *float64         `db:"longitude"`
	PhotoRef    *string          `db:"photo_ref"`
	Type        SubmissionType   `db:"type"`
	SubmittedOn string           `db:"submitted_on"`
}

// MemberRequest holds suggestions and volunteer signups.
type MemberRequest struct {
	ReferenceID string           `db:"reference_id"`
	Phone       string           `db:"phone"`
	Name        string           `db:"name"`
	Booth       string           `db:"booth"`
	Epic        *string          `db:"epic"`
	Suggestion  string           `db:"suggestion"`
	Role        string           `db:"role"`
	Status      SubmissionStatus `db:"status"`
	Latitude    *float64         `db:"latitude"`
	Longitude   *float64         `db:"longitude"`
	Type        SubmissionType   `db:"type"`
	SubmittedOn string           `db:"submitted_on"`
}

// StatusReport is the unified view returned by reference lookup,
// regardless of which family the id resolved to.
type StatusReport struct {
	ReferenceID string
	Type        SubmissionType
	Category    string
	Description string
	Booth       string
	SubmittedOn string
	Status      SubmissionStatus
}
