package types

// Document type codes, as encoded by the identity verifier contract. The
// names are resolved locally with DocumentTypeName; the contract is never
// trusted for naming.
const (
	DocTypePassport      = 1
	DocTypePANCard       = 2
	DocTypeDriverLicense = 3
	DocTypeAadhaarCard   = 4
	DocTypeOtherID       = 5
)

// Gender codes used by the circuit inputs and the gender_filter field.
const (
	GenderUnspecified = 0
	GenderMale        = 1
	GenderFemale      = 2
)

// documentTypeNames mirrors the contract's document type encoding exactly.
// A mismatch here corrupts displayed (but not on-chain) data.
var documentTypeNames = map[int]string{
	DocTypePassport:      "Passport",
	DocTypePANCard:       "PAN Card",
	DocTypeDriverLicense: "Driver's License",
	DocTypeAadhaarCard:   "Aadhaar Card",
	DocTypeOtherID:       "Other ID",
}

var documentTypeCodes = map[string]int{}

func init() {
	for code, name := range documentTypeNames {
		documentTypeCodes[name] = code
	}
}

// DocumentTypeName maps a document type code to its display name. Unknown
// codes resolve to "Unknown".
func DocumentTypeName(code int) string {
	if name, ok := documentTypeNames[code]; ok {
		return name
	}
	return "Unknown"
}

// DocumentTypeCode is the inverse of DocumentTypeName. It returns 0 for
// unknown names.
func DocumentTypeCode(name string) int {
	return documentTypeCodes[name]
}

// ValidDocumentType reports whether the code is one of the contract's
// document type codes.
func ValidDocumentType(code int) bool {
	_, ok := documentTypeNames[code]
	return ok
}

// ValidGender reports whether the code is a known gender code.
func ValidGender(code int) bool {
	return code == GenderUnspecified || code == GenderMale || code == GenderFemale
}
