// Package langmeta provides a language metadata registry (native names)
// used by the status output and catalog headers.
package langmeta

import (
	"strings"

	"golang.org/x/text/language"
)

// Meta describes language display metadata.
type Meta struct {
	// Name is the language's native name.
	Name string
}

// Registry contains canonical language metadata, keyed by BCP-47 tag.
// Variants are resolved in Resolve via canonicalization and base fallback.
var Registry = map[string]Meta{
	"ar":    {Name: "العربية"},
	"az":    {Name: "Azərbaycanca"},
	"be":    {Name: "Беларуская"},
	"bg":    {Name: "Български"},
	"bs":    {Name: "Bosanski"},
	"ca":    {Name: "Català"},
	"cs":    {Name: "Čeština"},
	"cy":    {Name: "Cymraeg"},
	"da":    {Name: "Dansk"},
	"de":    {Name: "Deutsch"},
	"el":    {Name: "Ελληνικά"},
	"en":    {Name: "English"},
	"en-GB": {Name: "English (UK)"},
	"en-US": {Name: "English (US)"},
	"es":    {Name: "Español"},
	"et":    {Name: "Eesti"},
	"eu":    {Name: "Euskara"},
	"fa":    {Name: "فارسی"},
	"fi":    {Name: "Suomi"},
	"fr":    {Name: "Français"},
	"ga":    {Name: "Gaeilge"},
	"gl":    {Name: "Galego"},
	"he":    {Name: "עברית"},
	"hi":    {Name: "हिन्दी"},
	"hr":    {Name: "Hrvatski"},
	"hu":    {Name: "Magyar"},
	"id":    {Name: "Bahasa Indonesia"},
	"it":    {Name: "Italiano"},
	"ja":    {Name: "日本語"},
	"ka":    {Name: "ქართული"},
	"km":    {Name: "ខ្មែរ"},
	"ko":    {Name: "한국어"},
	"lo":    {Name: "ລາວ"},
	"lt":    {Name: "Lietuvių"},
	"lv":    {Name: "Latviešu"},
	"mk":    {Name: "Македонски"},
	"ms":    {Name: "Bahasa Melayu"},
	"my":    {Name: "မြန်မာ"},
	"nb":    {Name: "Norsk bokmål"},
	"nl":    {Name: "Nederlands"},
	"nn":    {Name: "Norsk nynorsk"},
	"no":    {Name: "Norsk"},
	"pl":    {Name: "Polski"},
	"pt":    {Name: "Português"},
	"pt-BR": {Name: "Português (Brasil)"},
	"pt-PT": {Name: "Português (Portugal)"},
	"ro":    {Name: "Română"},
	"ru":    {Name: "Русский"},
	"sk":    {Name: "Slovenčina"},
	"sl":    {Name: "Slovenščina"},
	"sq":    {Name: "Shqip"},
	"sr":    {Name: "Српски"},
	"sv":    {Name: "Svenska"},
	"th":    {Name: "ไทย"},
	"tr":    {Name: "Türkçe"},
	"uk":    {Name: "Українська"},
	"ur":    {Name: "اردو"},
	"vi":    {Name: "Tiếng Việt"},
	"zh":    {Name: "中文"},
	"zh-CN": {Name: "简体中文"},
	"zh-TW": {Name: "繁體中文"},
}

// canonicalize normalizes a language code (gettext pt_BR, Android
// pt-rBR leftovers, case variants) to a BCP-47 tag.
func canonicalize(code string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if normalized == "" {
		return ""
	}
	if tag, err := language.Parse(normalized); err == nil {
		return tag.String()
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort metadata for a language code, falling back
// from the full tag to the base language, and finally to the code itself.
func Resolve(code string) Meta {
	if m, ok := Registry[code]; ok {
		return m
	}
	normalized := canonicalize(code)
	if m, ok := Registry[normalized]; ok {
		return m
	}
	if base, _, found := strings.Cut(normalized, "-"); found {
		if m, ok := Registry[base]; ok {
			return m
		}
	}
	return Meta{Name: code}
}
