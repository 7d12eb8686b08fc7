package intake

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Common errors returned by the intake service.
var (
	// ErrValidation is deliberately generic: the form shows one message for
	// every unmet field constraint rather than per-field detail.
	ErrValidation = errors.New("please complete all required fields")

	// ErrMissingSession means the tracking session was never established
	// (or is unknown to us); the visitor should refresh and retry.
	ErrMissingSession = errors.New("missing session, refresh and retry")
)

// SubmissionError reports a failed hand-off to the intake save endpoint.
// The message carries a fallback phone number because the visitor has no
// self-service recovery path.
type SubmissionError struct {
	FallbackPhone string
	Err           error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("we could not submit your request; please call us at %s (%v)", e.FallbackPhone, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// strict strips all HTML from free-text inputs.
var strict = bluemonday.StrictPolicy()

const (
	minNameLen  = 3
	minPhoneLen = 10
)

// Validate checks the draft against the intake schema and returns a
// normalized copy (trimmed, HTML-stripped) on success. Order matters: trim,
// enum membership, length, consents. Any violation yields ErrValidation.
func (d Draft) Validate() (Draft, error) {
	// Sanitize strips markup but entity-escapes its output; unescape so
	// plain-text names with apostrophes or ampersands survive intact.
	d.FullName = strings.TrimSpace(html.UnescapeString(strict.Sanitize(d.FullName)))
	d.Phone = strings.TrimSpace(d.Phone)

	if !validIssueTypes[d.IssueType] || !validLocations[d.Location] {
		return Draft{}, ErrValidation
	}
	if utf8.RuneCountInString(d.FullName) < minNameLen || utf8.RuneCountInString(d.Phone) < minPhoneLen {
		return Draft{}, ErrValidation
	}
	if !d.ConsentPrivacy || !d.ConsentCommunication {
		return Draft{}, ErrValidation
	}
	return d, nil
}

// InsuranceFor maps an issue type to the insurance stream the clinic bills
// under: WCB for workplace injuries, MVA coverage for collisions, private
// for everything else.
func InsuranceFor(issueType string) string {
	switch issueType {
	case IssueWorkInjury:
		return "wcb"
	case IssueMVA:
		return "mva"
	default:
		return "private"
	}
}

// SplitName splits a full name on whitespace: the first token is the first
// name, any remaining tokens joined with single spaces form the last name.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// BuildPayload constructs the backend-shaped request body from a validated
// draft. Privacy and communication consent are hardcoded true here: the
// draft cannot pass Validate without them, and the backend contract expects
// the literals rather than the checkbox values. Treatment consent is always
// false at this stage.
func BuildPayload(d Draft, sessionID string) Payload {
	first, last := SplitName(d.FullName)
	return Payload{
		SessionID: sessionID,
		PatientData: PatientData{
			FirstName: first,
			LastName:  last,
			Phone:     d.Phone,
		},
		InjuryData:    InjuryData{InjuryType: d.IssueType},
		InsuranceData: InsuranceData{InsuranceType: InsuranceFor(d.IssueType)},
		ConsentData: ConsentData{
			PrivacyConsent:       true,
			TreatmentConsent:     false,
			CommunicationConsent: true,
		},
		Status: "submitted",
	}
}
