package partner

import (
	"regexp"
	"strings"

	"github.com/jewelerp/backend/internal/domain/shared"
)

// gstinPattern follows the published GSTIN layout: 2-digit state code,
// 10-character PAN, entity number, default 'Z', checksum character.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// stateCodeNames maps GST state codes to state names as used on returns.
var stateCodeNames = map[string]string{
	"01": "Jammu and Kashmir",
	"02": "Himachal Pradesh",
	"03": "Punjab",
	"04": "Chandigarh",
	"05": "Uttarakhand",
	"06": "Haryana",
	"07": "Delhi",
	"08": "Rajasthan",
	"09": "Uttar Pradesh",
	"10": "Bihar",
	"11": "Sikkim",
	"12": "Arunachal Pradesh",
	"13": "Nagaland",
	"14": "Manipur",
	"15": "Mizoram",
	"16": "Tripura",
	"17": "Meghalaya",
	"18": "Assam",
	"19": "West Bengal",
	"20": "Jharkhand",
	"21": "Odisha",
	"22": "Chhattisgarh",
	"23": "Madhya Pradesh",
	"24": "Gujarat",
	"26": "Dadra and Nagar Haveli and Daman and Diu",
	"27": "Maharashtra",
	"29": "Karnataka",
	"30": "Goa",
	"31": "Lakshadweep",
	"32": "Kerala",
	"33": "Tamil Nadu",
	"34": "Puducherry",
	"35": "Andaman and Nicobar Islands",
	"36": "Telangana",
	"37": "Andhra Pradesh",
	"38": "Ladakh",
}

// GSTIN is a validated Goods and Services Tax Identification Number.
type GSTIN string

// ParseGSTIN validates and normalizes a GSTIN string.
func ParseGSTIN(raw string) (GSTIN, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if !gstinPattern.MatchString(normalized) {
		return "", shared.NewValidationError("Invalid GSTIN format: " + raw)
	}
	return GSTIN(normalized), nil
}

// String returns the GSTIN as a string
func (g GSTIN) String() string {
	return string(g)
}

// IsZero reports whether the GSTIN is unset
func (g GSTIN) IsZero() bool {
	return g == ""
}

// StateCode returns the two-digit GST state code prefix.
func (g GSTIN) StateCode() string {
	if len(g) < 2 {
		return ""
	}
	return string(g[:2])
}

// StateName resolves the state code to the name used on GST returns.
func (g GSTIN) StateName() string {
	return stateCodeNames[g.StateCode()]
}

// SameState reports whether both GSTINs carry the same state code.
// The place of supply it implies decides CGST+SGST versus IGST.
func (g GSTIN) SameState(other GSTIN) bool {
	return !g.IsZero() && !other.IsZero() && g.StateCode() == other.StateCode()
}

// IsKnownStateCode reports whether the code appears in the GST state list.
func IsKnownStateCode(code string) bool {
	_, ok := stateCodeNames[code]
	return ok
}

// StateNameFor resolves a GST state code to the state name, or "" when
// the code is unknown.
func StateNameFor(code string) string {
	return stateCodeNames[code]
}
