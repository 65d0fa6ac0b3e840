// Package plural maps between Android's CLDR quantity keywords and
// gettext's indexed plural forms.
//
// Android references plural variants by keyword (zero/one/two/few/many/other),
// gettext by a numeric index computed from a per-language C expression. For
// each supported language this package records the ordered list of keywords
// the language actually distinguishes, where the position of a keyword in
// that list is its gettext plural index, together with the matching
// expression for the Plural-Forms catalog header.
package plural

import (
	"fmt"
	"sort"
	"strings"
)

// CLDR quantity keywords, as used in <plurals> items.
const (
	Zero  = "zero"
	One   = "one"
	Two   = "two"
	Few   = "few"
	Many  = "many"
	Other = "other"
)

// Rule describes the plural system of one language.
type Rule struct {
	// Forms lists the quantity keywords the language distinguishes,
	// ordered by gettext plural index. The last form is always "other".
	Forms []string
	// Expr is the gettext plural expression selecting an index in Forms
	// for a count n.
	Expr string
}

// NPlurals returns the number of gettext plural slots.
func (r Rule) NPlurals() int { return len(r.Forms) }

// Header returns the value for the Plural-Forms catalog header.
func (r Rule) Header() string {
	return fmt.Sprintf("nplurals=%d; plural=%s;", len(r.Forms), r.Expr)
}

// IndexOf returns the gettext plural index for a quantity keyword,
// or -1 if the language does not distinguish it.
func (r Rule) IndexOf(keyword string) int {
	for i, f := range r.Forms {
		if f == keyword {
			return i
		}
	}
	return -1
}

// IncompleteError is returned by FromQuantities when a plural definition
// lacks forms the language requires.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("incomplete plural: missing quantity %s",
		strings.Join(e.Missing, ", "))
}

// FromQuantities converts an Android quantity→text map into the ordered
// list of texts for gettext slots. Keywords the language does not
// distinguish are dropped and returned in ignored (sorted) so the caller
// can warn about them. If any required form is missing, an
// *IncompleteError naming the absent keywords is returned.
func (r Rule) FromQuantities(quantities map[string]string) (texts []string, ignored []string, err error) {
	texts = make([]string, len(r.Forms))
	seen := make([]bool, len(r.Forms))

	for keyword, text := range quantities {
		idx := r.IndexOf(keyword)
		if idx < 0 {
			ignored = append(ignored, keyword)
			continue
		}
		texts[idx] = text
		seen[idx] = true
	}
	sort.Strings(ignored)

	var missing []string
	for i, ok := range seen {
		if !ok {
			missing = append(missing, r.Forms[i])
		}
	}
	if len(missing) > 0 {
		return nil, ignored, &IncompleteError{Missing: missing}
	}
	return texts, ignored, nil
}

// ToQuantities converts gettext-indexed texts back into an Android
// quantity→text map. Slots beyond len(texts) become empty strings; the
// caller is expected to compare len(texts) against NPlurals and warn on
// mismatch. Surplus texts are dropped.
func (r Rule) ToQuantities(texts []string) map[string]string {
	quantities := make(map[string]string, len(r.Forms))
	for i, keyword := range r.Forms {
		if i < len(texts) {
			quantities[keyword] = texts[i]
		} else {
			quantities[keyword] = ""
		}
	}
	return quantities
}

// Translated reports whether at least one slot carries text.
func Translated(texts []string) bool {
	for _, t := range texts {
		if t != "" {
			return true
		}
	}
	return false
}

// Common rule groups. Expressions follow the usual gettext formulas; the
// form order always matches the expression's index assignment.
var (
	ruleOneForm = Rule{
		Forms: []string{Other},
		Expr:  "0",
	}
	ruleTwoForms = Rule{
		Forms: []string{One, Other},
		Expr:  "(n != 1)",
	}
	ruleTwoFormsFrench = Rule{
		Forms: []string{One, Other},
		Expr:  "(n > 1)",
	}
	ruleRomanian = Rule{
		Forms: []string{One, Few, Other},
		Expr:  "(n == 1 ? 0 : n == 0 || (n % 100 >= 1 && n % 100 <= 19) ? 1 : 2)",
	}
	ruleCzech = Rule{
		Forms: []string{One, Few, Other},
		Expr:  "(n == 1 ? 0 : n >= 2 && n <= 4 ? 1 : 2)",
	}
	ruleLithuanian = Rule{
		Forms: []string{One, Few, Other},
		Expr:  "(n % 10 == 1 && n % 100 != 11 ? 0 : n % 10 >= 2 && (n % 100 < 10 || n % 100 >= 20) ? 1 : 2)",
	}
	ruleLatvian = Rule{
		Forms: []string{Zero, One, Other},
		Expr:  "(n % 10 == 0 || (n % 100 >= 11 && n % 100 <= 19) ? 0 : n % 10 == 1 && n % 100 != 11 ? 1 : 2)",
	}
	ruleSlavic = Rule{
		Forms: []string{One, Few, Many, Other},
		Expr: "(n % 10 == 1 && n % 100 != 11 ? 0 : " +
			"n % 10 >= 2 && n % 10 <= 4 && (n % 100 < 12 || n % 100 > 14) ? 1 : " +
			"n % 10 == 0 || (n % 10 >= 5 && n % 10 <= 9) || (n % 100 >= 11 && n % 100 <= 14) ? 2 : 3)",
	}
	rulePolish = Rule{
		Forms: []string{One, Few, Many, Other},
		Expr: "(n == 1 ? 0 : " +
			"n % 10 >= 2 && n % 10 <= 4 && (n % 100 < 12 || n % 100 > 14) ? 1 : " +
			"n != 1 && (n % 10 == 0 || n % 10 == 1 || (n % 10 >= 5 && n % 10 <= 9) || (n % 100 >= 12 && n % 100 <= 14)) ? 2 : 3)",
	}
	ruleSlovenian = Rule{
		Forms: []string{One, Two, Few, Other},
		Expr:  "(n % 100 == 1 ? 0 : n % 100 == 2 ? 1 : n % 100 == 3 || n % 100 == 4 ? 2 : 3)",
	}
	ruleIrish = Rule{
		Forms: []string{One, Two, Few, Many, Other},
		Expr:  "(n == 1 ? 0 : n == 2 ? 1 : n >= 3 && n <= 6 ? 2 : n >= 7 && n <= 10 ? 3 : 4)",
	}
	ruleWelsh = Rule{
		Forms: []string{Zero, One, Two, Few, Many, Other},
		Expr:  "(n == 0 ? 0 : n == 1 ? 1 : n == 2 ? 2 : n == 3 ? 3 : n == 6 ? 4 : 5)",
	}
	ruleArabic = Rule{
		Forms: []string{Zero, One, Two, Few, Many, Other},
		Expr: "(n == 0 ? 0 : n == 1 ? 1 : n == 2 ? 2 : " +
			"n % 100 >= 3 && n % 100 <= 10 ? 3 : n % 100 >= 11 ? 4 : 5)",
	}
	ruleHebrew = Rule{
		Forms: []string{One, Two, Other},
		Expr:  "(n == 1 ? 0 : n == 2 ? 1 : 2)",
	}
	ruleMacedonian = Rule{
		Forms: []string{One, Other},
		Expr:  "(n % 10 == 1 && n % 100 != 11 ? 0 : 1)",
	}
)

// rules maps a language code (base language, lowercased; region variants
// are resolved in RuleFor) to its plural rule.
var rules = map[string]Rule{
	// No plural distinction
	"id": ruleOneForm,
	"ja": ruleOneForm,
	"km": ruleOneForm,
	"ko": ruleOneForm,
	"lo": ruleOneForm,
	"ms": ruleOneForm,
	"my": ruleOneForm,
	"th": ruleOneForm,
	"vi": ruleOneForm,
	"zh": ruleOneForm,

	// Germanic/Romance style: singular for exactly 1
	"az": ruleTwoForms,
	"bg": ruleTwoForms,
	"ca": ruleTwoForms,
	"da": ruleTwoForms,
	"de": ruleTwoForms,
	"el": ruleTwoForms,
	"en": ruleTwoForms,
	"es": ruleTwoForms,
	"et": ruleTwoForms,
	"eu": ruleTwoForms,
	"fi": ruleTwoForms,
	"gl": ruleTwoForms,
	"hu": ruleTwoForms,
	"it": ruleTwoForms,
	"ka": ruleTwoForms,
	"nb": ruleTwoForms,
	"nl": ruleTwoForms,
	"nn": ruleTwoForms,
	"no": ruleTwoForms,
	"sq": ruleTwoForms,
	"sv": ruleTwoForms,
	"tr": ruleTwoForms,
	"ur": ruleTwoForms,

	// Singular covers 0 and 1
	"am": ruleTwoFormsFrench,
	"fa": ruleTwoFormsFrench,
	"fr": ruleTwoFormsFrench,
	"hi": ruleTwoFormsFrench,
	"pt": ruleTwoFormsFrench,

	"ro": ruleRomanian,
	"cs": ruleCzech,
	"sk": ruleCzech,
	"lt": ruleLithuanian,
	"lv": ruleLatvian,

	"be": ruleSlavic,
	"bs": ruleSlavic,
	"hr": ruleSlavic,
	"ru": ruleSlavic,
	"sh": ruleSlavic,
	"sr": ruleSlavic,
	"uk": ruleSlavic,
	"pl": rulePolish,

	"sl": ruleSlovenian,
	"ga": ruleIrish,
	"cy": ruleWelsh,
	"ar": ruleArabic,
	"he": ruleHebrew,
	"iw": ruleHebrew, // legacy Android code for Hebrew
	"mk": ruleMacedonian,
}

// RuleFor returns the plural rule for a language code. Region variants
// (pt_BR, pt-BR) fall back to the base language. Unknown languages get
// the common two-form rule; ok is false in that case.
func RuleFor(code string) (Rule, bool) {
	base := strings.ToLower(strings.TrimSpace(code))
	if idx := strings.IndexAny(base, "-_"); idx > 0 {
		base = base[:idx]
	}
	if r, ok := rules[base]; ok {
		return r, true
	}
	return ruleTwoForms, false
}
