// Package ai wraps the Gemini API behind typed extraction and estimation
// operations: BOM proposals for the customer estimator, invoice and expense
// extraction for staff intake, and narrative advice.
package ai

import "strings"

// Canonical units for estimator BOM lines.
var allowedUnits = map[string]struct{}{
	"m3": {}, "m": {}, "kg": {}, "bag": {}, "sheet": {}, "pcs": {}, "gal": {}, "lb": {},
}

// Staff purchase and receipt lines additionally allow cubic yards, the unit
// the yard actually sells aggregates in.
var allowedUnitsStaff = map[string]struct{}{
	"yd3": {}, "m3": {}, "m": {}, "kg": {}, "bag": {}, "sheet": {}, "pcs": {}, "gal": {}, "lb": {},
}

// NormalizeUnit maps free-form unit strings onto the canonical token set.
// Unrecognized units pass through lowercased for the caller to reject.
func NormalizeUnit(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	switch u {
	case "meter", "meters", "metre", "metres":
		return "m"
	case "m^3", "m³", "cubic meter", "cubic meters", "cubic metre", "cubic metres":
		return "m3"
	case "bags":
		return "bag"
	case "sheets":
		return "sheet"
	case "pieces", "piece":
		return "pcs"
	case "gallon", "gallons":
		return "gal"
	case "pound", "pounds":
		return "lb"
	}
	return u
}

// NormalizeUnitStaff is NormalizeUnit plus the cubic-yard synonyms staff use.
func NormalizeUnitStaff(u string) string {
	switch strings.ToLower(strings.TrimSpace(u)) {
	case "yd", "yds", "yard", "yards", "yd^3", "yd³", "cubic yard", "cubic yards":
		return "yd3"
	}
	return NormalizeUnit(u)
}

// ValidUnit reports whether the unit is canonical for estimator lines.
func ValidUnit(u string) bool {
	_, ok := allowedUnits[u]
	return ok
}

// ValidStaffUnit reports whether the unit is canonical for staff lines.
func ValidStaffUnit(u string) bool {
	_, ok := allowedUnitsStaff[u]
	return ok
}
