package entreprise

import "regexp"

var postalCodeRe = regexp.MustCompile(`\b(\d{5})\b`)

// PostalCodeFromAddress returns the first 5-digit postal code found in a
// free-text address, or "".
func PostalCodeFromAddress(address string) string {
	matches := postalCodeRe.FindStringSubmatch(address)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// DepartmentFromAddress returns the department code derived from the postal
// code of address, or "".
func DepartmentFromAddress(address string) string {
	cp := PostalCodeFromAddress(address)
	if cp == "" {
		return ""
	}

	// Corsica postal codes start with 20 but the departments are 2A and 2B.
	if cp[:2] == "20" {
		if cp < "20200" {
			return "2A"
		}

		return "2B"
	}

	// Overseas departments use three digits.
	if cp[:2] == "97" || cp[:2] == "98" {
		return cp[:3]
	}

	return cp[:2]
}
