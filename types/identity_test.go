package types

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func validIdentity() *IdentityData {
	return &IdentityData{
		Name:       "Jane Example",
		DOB:        DateOfBirth{Year: 1990, Month: 7, Day: 14},
		Gender:     GenderFemale,
		DocType:    DocTypePassport,
		DocID:      "P1234567",
		SecretSalt: "123456789",
	}
}

func TestIdentityDataValidate(t *testing.T) {
	c := qt.New(t)

	c.Assert(validIdentity().Validate(), qt.IsNil)

	var nilData *IdentityData
	c.Assert(nilData.Validate(), qt.IsNotNil)

	d := validIdentity()
	d.Name = ""
	c.Assert(d.Validate(), qt.ErrorMatches, "missing name")

	d = validIdentity()
	d.DocID = ""
	c.Assert(d.Validate(), qt.ErrorMatches, "missing docId")

	d = validIdentity()
	d.SecretSalt = ""
	c.Assert(d.Validate(), qt.ErrorMatches, "missing secretSalt")

	d = validIdentity()
	d.DOB.Month = 0
	c.Assert(d.Validate(), qt.ErrorMatches, "missing or incomplete dob")

	d = validIdentity()
	d.DocType = 42
	c.Assert(d.Validate(), qt.ErrorMatches, "invalid docType 42")

	d = validIdentity()
	d.Gender = -1
	c.Assert(d.Validate(), qt.ErrorMatches, "invalid gender -1")
}

func TestAttributesFromRequest(t *testing.T) {
	c := qt.New(t)

	// the zero minimum age defaults to adulthood
	attrs := AttributesFromRequest(0, DocTypePassport, GenderUnspecified)
	c.Assert(attrs.AgeOver18, qt.IsTrue)
	c.Assert(attrs.AgeOver21, qt.IsFalse)
	c.Assert(attrs.GenderVerified, qt.IsFalse)
	c.Assert(attrs.DocumentType, qt.Equals, "Passport")
	c.Assert(attrs.DocumentTypeCode, qt.Equals, DocTypePassport)

	// proving 21 implies 18
	attrs = AttributesFromRequest(21, DocTypeAadhaarCard, GenderMale)
	c.Assert(attrs.AgeOver18, qt.IsTrue)
	c.Assert(attrs.AgeOver21, qt.IsTrue)
	c.Assert(attrs.GenderVerified, qt.IsTrue)
	c.Assert(attrs.DocumentType, qt.Equals, "Aadhaar Card")
}

func TestDocumentTypeTable(t *testing.T) {
	c := qt.New(t)

	c.Assert(DocumentTypeName(DocTypePassport), qt.Equals, "Passport")
	c.Assert(DocumentTypeName(DocTypePANCard), qt.Equals, "PAN Card")
	c.Assert(DocumentTypeName(99), qt.Equals, "Unknown")
	c.Assert(DocumentTypeCode("Driver's License"), qt.Equals, DocTypeDriverLicense)
	c.Assert(DocumentTypeCode("does not exist"), qt.Equals, 0)
	c.Assert(ValidDocumentType(DocTypeOtherID), qt.IsTrue)
	c.Assert(ValidDocumentType(0), qt.IsFalse)
	c.Assert(ValidDocumentType(6), qt.IsFalse)
}
