package types

import (
	"fmt"
	"time"
)

// DateOfBirth is the document holder's date of birth as plain calendar
// fields, matching what the circuit consumes.
type DateOfBirth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// IdentityData is the raw identity payload provided by the caller for a
// registration. The SecretSalt is a user-held blinding factor: it must never
// be logged or persisted.
type IdentityData struct {
	Name         string      `json:"name"`
	DOB          DateOfBirth `json:"dob"`
	Gender       int         `json:"gender"`
	DocType      int         `json:"docType"`
	DocID        string      `json:"docId"`
	SecretSalt   string      `json:"secretSalt"`
	CurrentYear  int         `json:"currentYear,omitempty"`
	CurrentMonth int         `json:"currentMonth,omitempty"`
	CurrentDay   int         `json:"currentDay,omitempty"`
	MinAge       int         `json:"minAge,omitempty"`
	GenderFilter int         `json:"genderFilter,omitempty"`
}

// Validate checks the required fields of the identity payload. The
// current-date fields are optional here (a fixed fallback is applied at
// derivation time) but production callers are expected to supply them.
func (d *IdentityData) Validate() error {
	switch {
	case d == nil:
		return fmt.Errorf("missing identity data")
	case d.Name == "":
		return fmt.Errorf("missing name")
	case d.DocID == "":
		return fmt.Errorf("missing docId")
	case d.SecretSalt == "":
		return fmt.Errorf("missing secretSalt")
	case d.DOB.Year == 0 || d.DOB.Month == 0 || d.DOB.Day == 0:
		return fmt.Errorf("missing or incomplete dob")
	case !ValidDocumentType(d.DocType):
		return fmt.Errorf("invalid docType %d", d.DocType)
	case !ValidGender(d.Gender):
		return fmt.Errorf("invalid gender %d", d.Gender)
	}
	return nil
}

// VerifiedAttributes is the typed view of what a registration proved on
// chain. DocumentType is always resolved from the local table, never taken
// from the contract.
type VerifiedAttributes struct {
	AgeOver18        bool      `json:"ageOver18"`
	AgeOver21        bool      `json:"ageOver21"`
	DocumentTypeCode int       `json:"documentTypeCode"`
	DocumentType     string    `json:"documentType"`
	GenderVerified   bool      `json:"genderVerified"`
	VerificationDate time.Time `json:"verificationDate"`
}

// AttributesFromRequest builds the attributes a registration request will
// prove. The minimum-age requirement is monotonic, so proving 21 implies 18.
func AttributesFromRequest(minAge, docType, genderFilter int) VerifiedAttributes {
	if minAge == 0 {
		minAge = 18
	}
	return VerifiedAttributes{
		AgeOver18:        minAge >= 18,
		AgeOver21:        minAge >= 21,
		DocumentTypeCode: docType,
		DocumentType:     DocumentTypeName(docType),
		GenderVerified:   genderFilter != GenderUnspecified,
	}
}

// IdentityDocument is one registered document, owned by the ledger and read
// back through contract calls.
type IdentityDocument struct {
	Index          int                 `json:"index"`
	CommitmentHash HexBytes            `json:"commitmentHash,omitempty"`
	Timestamp      time.Time           `json:"timestamp"`
	Attributes     *VerifiedAttributes `json:"attributes,omitempty"`
}

// UserAccount is the computed on-chain view of a user. It is never stored
// locally; every field is derived from fresh contract reads.
type UserAccount struct {
	Address        string              `json:"address"`
	Verified       bool                `json:"verified"`
	DocCount       int                 `json:"docCount"`
	PrepaidCredits int                 `json:"prepaidCredits"`
	CommitmentHash HexBytes            `json:"commitmentHash,omitempty"`
	Timestamp      time.Time           `json:"timestamp"`
	Attributes     *VerifiedAttributes `json:"attributes,omitempty"`
	Documents      []IdentityDocument  `json:"documents"`
}
