// Package pricing loads the supplier's CSV price catalogs into a normalized
// key/price table and prices AI-proposed bills of materials against it.
package pricing

import (
	"regexp"
	"strconv"
	"strings"
)

const ftToM = 0.3048

// defaultStickLengthM is a 19 ft rebar stick in meters, the supplier's stock
// length when a listing names no length.
const defaultStickLengthM = 19 * ftToM

// kgPerM approximates rebar weight per meter by diameter, for converting
// per-kg listings to per-meter prices.
var kgPerM = map[string]float64{
	"3/8": 0.560,
	"1/2": 0.994,
	"5/8": 1.550,
	"3/4": 2.260,
}

var (
	numberRe    = regexp.MustCompile(`[\d.]+`)
	formulaRe   = regexp.MustCompile(`^[\d.\s/*+-]+$`)
	keyNormRe   = regexp.MustCompile(`[^a-z0-9]+`)
	metersRe    = regexp.MustCompile(`(\d+(\.\d+)?)\s*(M|METERS|METRES)\b`)
	feetRe      = regexp.MustCompile(`(\d+(\.\d+)?)\s*(FT|FEET|FOOT)\b`)
	implicitRe  = regexp.MustCompile(`X\s*(\d+(\.\d+)?)\b`)
	metricSufRe = regexp.MustCompile(`^\s*(MM|CM|M)\b`)
)

// ParsePrice parses supplier price cells like "1,090.00", "$350", "TTD 95"
// or simple formulas such as "390*1.308". It returns false when no numeric
// value can be recovered.
func ParsePrice(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.NewReplacer(",", "", "$", "", "TTD", "").Replace(raw))
	if s == "" {
		return 0, false
	}
	if strings.ContainsAny(s, "/*+-") && formulaRe.MatchString(s) {
		if v, ok := evalFormula(s); ok {
			return v, true
		}
	}
	matches := numberRe.FindAllString(s, -1)
	if len(matches) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(matches[len(matches)-1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// evalFormula evaluates a flat arithmetic expression with standard operator
// precedence and no parentheses. Catalog cells never use more than that.
func evalFormula(s string) (float64, bool) {
	terms := splitKeepingSign(s)
	sum := 0.0
	for _, term := range terms {
		v, ok := evalTerm(term)
		if !ok {
			return 0, false
		}
		sum += v
	}
	return sum, true
}

// splitKeepingSign splits on + and - at the top level, keeping each term's
// sign attached.
func splitKeepingSign(s string) []string {
	var terms []string
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c == '+' || c == '-') && i > start {
			prev := strings.TrimSpace(s[start:i])
			if prev != "" && !strings.HasSuffix(prev, "*") && !strings.HasSuffix(prev, "/") {
				terms = append(terms, s[start:i])
				start = i
			}
		}
	}
	terms = append(terms, s[start:])
	return terms
}

func evalTerm(term string) (float64, bool) {
	term = strings.TrimSpace(term)
	neg := false
	for strings.HasPrefix(term, "+") || strings.HasPrefix(term, "-") {
		if term[0] == '-' {
			neg = !neg
		}
		term = strings.TrimSpace(term[1:])
	}
	result := 1.0
	divide := false
	for _, part := range splitMulDiv(term) {
		if part == "*" {
			divide = false
			continue
		}
		if part == "/" {
			divide = true
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, false
		}
		if divide {
			if v == 0 {
				return 0, false
			}
			result /= v
		} else {
			result *= v
		}
	}
	if neg {
		result = -result
	}
	return result, true
}

func splitMulDiv(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '*' || s[i] == '/' {
			parts = append(parts, s[start:i], string(s[i]))
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// normKey lowercases and strips non-alphanumerics so "Item Name" and
// "itemname" address the same column.
func normKey(k string) string {
	return keyNormRe.ReplaceAllString(strings.ToLower(k), "")
}

// ParseLength detects lengths like "20FT", "6 M", or an implicit trailing
// "x20" (feet) as in "Z PURLIN 2x4x20". Unit is "ft" or "m"; ok is false
// when no length is present.
func ParseLength(text string) (value float64, unit string, ok bool) {
	up := strings.ReplaceAll(strings.ToUpper(text), "×", "X")
	if m := metersRe.FindStringSubmatch(up); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return v, "m", true
	}
	if m := feetRe.FindStringSubmatch(up); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return v, "ft", true
	}
	// Implicit last "xNN" means feet (2x4x20 -> 20 ft), but not "x20mm".
	for _, loc := range implicitRe.FindAllStringSubmatchIndex(up, -1) {
		numStr := up[loc[2]:loc[3]]
		rest := up[loc[1]:]
		if metricSufRe.MatchString(rest) {
			continue
		}
		v, _ := strconv.ParseFloat(numStr, 64)
		if v >= 5 && v <= 40 {
			return v, "ft", true
		}
	}
	return 0, "", false
}

// SteelSize identifies a rebar diameter from listing text ("1/2", "12MM").
func SteelSize(text string) string {
	up := strings.ReplaceAll(strings.ToUpper(text), " ", "")
	switch {
	case strings.Contains(up, "3/8") || strings.Contains(up, "10MM"):
		return "3/8"
	case strings.Contains(up, "1/2") || strings.Contains(up, "12MM"):
		return "1/2"
	case strings.Contains(up, "5/8") || strings.Contains(up, "16MM"):
		return "5/8"
	case strings.Contains(up, "3/4") || strings.Contains(up, "20MM"):
		return "3/4"
	}
	return ""
}

// SteelGrade identifies rebar grade from listing text, defaulting to
// corrugated when unmarked.
func SteelGrade(text string) string {
	up := strings.ToUpper(text)
	switch {
	case strings.Contains(up, "CORR"), strings.Contains(up, "DEFORM"),
		strings.Contains(up, "RIB"), strings.Contains(up, "TENS"):
		return "corrugated"
	case strings.Contains(up, "MILD"), strings.Contains(up, "SMOOTH"),
		strings.Contains(up, " MS "), strings.HasPrefix(up, "MS "), strings.HasSuffix(up, " MS"):
		return "mild"
	}
	return "corrugated"
}

// perMeter converts a listed price (per stick, per ft, per m, or per kg)
// into a per-meter price.
func perMeter(price float64, lengthValue float64, lengthUnit, sizeIn, nameUp string) float64 {
	if lengthValue > 0 && lengthUnit != "" {
		switch {
		case strings.HasPrefix(strings.ToLower(lengthUnit), "m"):
			return price / lengthValue
		case strings.HasPrefix(strings.ToLower(lengthUnit), "f"):
			return price / (lengthValue * ftToM)
		}
	}
	if strings.Contains(nameUp, " KG") || strings.Contains(nameUp, "PER KG") {
		if kgpm, ok := kgPerM[sizeIn]; ok {
			return price * kgpm
		}
	}
	return price / defaultStickLengthM
}
