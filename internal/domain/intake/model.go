package intake

import (
	"time"

	"github.com/google/uuid"
)

// Issue types a patient can select on the intake form.
const (
	IssueWorkInjury  = "work_injury"
	IssueMVA         = "mva"
	IssueSports      = "sports"
	IssueChronicPain = "chronic_pain"
	IssueOther       = "other"
)

// Clinic locations.
const (
	LocationMainHub = "edmonton-main-hub"
	LocationWest    = "edmonton-west"
)

var validIssueTypes = map[string]bool{
	IssueWorkInjury: true, IssueMVA: true, IssueSports: true,
	IssueChronicPain: true, IssueOther: true,
}

var validLocations = map[string]bool{
	LocationMainHub: true, LocationWest: true,
}

// Draft is the mutable, unsubmitted state of one intake form fill.
type Draft struct {
	FullName             string `json:"full_name"`
	Phone                string `json:"phone"`
	IssueType            string `json:"issue_type"`
	Location             string `json:"location"`
	ConsentPrivacy       bool   `json:"consent_privacy"`
	ConsentCommunication bool   `json:"consent_communication"`
}

// NewDraft returns a draft with the defaults the form opens with: work
// injury at the main hub, both consent boxes pre-checked.
func NewDraft() Draft {
	return Draft{
		IssueType:            IssueWorkInjury,
		Location:             LocationMainHub,
		ConsentPrivacy:       true,
		ConsentCommunication: true,
	}
}

// PatientData is the name/contact section of the submission payload.
type PatientData struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// InjuryData carries the selected issue type.
type InjuryData struct {
	InjuryType string `json:"injury_type"`
}

// InsuranceData carries the insurance stream derived from the issue type.
type InsuranceData struct {
	InsuranceType string `json:"insurance_type"`
}

// ConsentData mirrors the consent flags the backend expects. Treatment
// consent is collected later in the clinic, never on this form.
type ConsentData struct {
	PrivacyConsent       bool `json:"privacy_consent"`
	TreatmentConsent     bool `json:"treatment_consent"`
	CommunicationConsent bool `json:"communication_consent"`
}

// Payload is the backend-shaped request body sent on submit. It is built
// once per submit attempt from a validated draft and never mutated.
type Payload struct {
	SessionID      string        `json:"session_id"`
	PatientData    PatientData   `json:"patient_data"`
	InjuryData     InjuryData    `json:"injury_data"`
	InsuranceData  InsuranceData `json:"insurance_data"`
	MedicalHistory struct{}      `json:"medical_history"`
	ConsentData    ConsentData   `json:"consent_data"`
	Status         string        `json:"status"`
}

// Submission maps to the intake_submission table: the local record kept for
// every intake successfully forwarded to the save endpoint.
type Submission struct {
	ID            uuid.UUID `db:"id" json:"id"`
	SessionID     string    `db:"session_id" json:"session_id"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	Phone         string    `db:"phone" json:"phone"`
	IssueType     string    `db:"issue_type" json:"issue_type"`
	Location      string    `db:"location" json:"location"`
	InsuranceType string    `db:"insurance_type" json:"insurance_type"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Options is the reference data the form UI renders selectors from.
type Options struct {
	IssueTypes []string `json:"issue_types"`
	Locations  []string `json:"locations"`
}

// FormOptions returns the issue-type and location enumerations in display
// order.
func FormOptions() Options {
	return Options{
		IssueTypes: []string{IssueWorkInjury, IssueMVA, IssueSports, IssueChronicPain, IssueOther},
		Locations:  []string{LocationMainHub, LocationWest},
	}
}
