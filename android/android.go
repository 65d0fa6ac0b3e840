// Package android implements reading and writing of Android strings.xml
// resource files.
//
// Supported resource types:
//   - <string>        — simple key/value string
//   - <string-array>  — ordered list of strings
//   - <plurals>       — quantity-keyed plural forms (zero/one/two/few/many/other)
//
// Text content is normalized on parse according to the aapt processing
// rules (quoting, escapes, whitespace collapsing; see DecodeText) and
// re-encoded on Marshal. Resources with translatable="false" are parsed
// but excluded from translation accessors.
package android

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// EntryKind identifies the type of a resource entry.
type EntryKind int

const (
	// KindString is a plain <string> resource.
	KindString EntryKind = iota
	// KindStringArray is a <string-array> resource.
	KindStringArray
	// KindPlurals is a <plurals> resource.
	KindPlurals
	// KindComment is an XML comment (not a resource).
	KindComment
)

// Entry represents a single item in a strings.xml file.
type Entry struct {
	// Kind is the resource type.
	Kind EntryKind

	// Name is the resource name (attribute name="…"). Empty for comments.
	Name string
	// Translatable reflects the translatable="…" attribute. Defaults to true.
	Translatable bool

	// Value is the decoded text of a KindString entry.
	Value string

	// Items holds the decoded <item> values of a KindStringArray entry
	// in document order.
	Items []string

	// Plurals maps quantity keyword (zero/one/two/few/many/other) to
	// decoded text for a KindPlurals entry.
	Plurals map[string]string
	// PluralOrder preserves the order of quantity keywords in the file.
	PluralOrder []string

	// Comment is the raw comment text (without <!-- -->) of a KindComment.
	Comment string
}

// IsComment reports whether this entry is an XML comment.
func (e *Entry) IsComment() bool { return e.Kind == KindComment }

// IsTranslatable reports whether this resource should be translated.
func (e *Entry) IsTranslatable() bool {
	return e.Kind != KindComment && e.Translatable
}

// SetPlural records a plural form, keeping keyword order stable.
func (e *Entry) SetPlural(keyword, text string) {
	if e.Plurals == nil {
		e.Plurals = make(map[string]string)
	}
	if _, ok := e.Plurals[keyword]; !ok {
		e.PluralOrder = append(e.PluralOrder, keyword)
	}
	e.Plurals[keyword] = text
}

// File represents a parsed (or generated) Android strings.xml file.
type File struct {
	// Entries in document order (resources + comments).
	Entries []*Entry
	// Duplicates lists resource names that appeared more than once in the
	// source; only the first occurrence is kept.
	Duplicates []string

	byName map[string]int
}

// NewFile returns an empty resource file, ready for AddEntry.
func NewFile() *File {
	return &File{byName: make(map[string]int)}
}

// AddEntry appends an entry. A named entry whose name is already present
// is dropped and recorded in Duplicates.
func (f *File) AddEntry(e *Entry) {
	if f.byName == nil {
		f.byName = make(map[string]int)
	}
	if e.Name != "" {
		if _, exists := f.byName[e.Name]; exists {
			f.Duplicates = append(f.Duplicates, e.Name)
			return
		}
		f.byName[e.Name] = len(f.Entries)
	}
	f.Entries = append(f.Entries, e)
}

// GetEntry returns the entry for a resource name, or nil if not found.
func (f *File) GetEntry(name string) *Entry {
	idx, ok := f.byName[name]
	if !ok {
		return nil
	}
	return f.Entries[idx]
}

// Get returns the string value for a KindString entry.
func (f *File) Get(name string) (string, bool) {
	e := f.GetEntry(name)
	if e == nil || e.Kind != KindString {
		return "", false
	}
	return e.Value, true
}

// Keys returns all translatable resource names in document order.
func (f *File) Keys() []string {
	var keys []string
	for _, e := range f.Entries {
		if e.IsTranslatable() {
			keys = append(keys, e.Name)
		}
	}
	return keys
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses an Android strings.xml file.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Parse parses strings.xml data. Malformed XML is a fatal error; unknown
// elements inside <resources> are skipped.
func Parse(data []byte) (*File, error) {
	f := NewFile()

	dec := xml.NewDecoder(strings.NewReader(string(data)))
	inResources := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "resources" && !inResources {
				inResources = true
				continue
			}
			if !inResources {
				continue
			}

			switch t.Name.Local {
			case "string":
				e, err := parseStringElement(dec, t)
				if err != nil {
					return nil, err
				}
				f.AddEntry(e)

			case "string-array":
				e, err := parseStringArrayElement(dec, t)
				if err != nil {
					return nil, err
				}
				f.AddEntry(e)

			case "plurals":
				e, err := parsePluralsElement(dec, t)
				if err != nil {
					return nil, err
				}
				f.AddEntry(e)

			default:
				dec.Skip()
			}

		case xml.Comment:
			if inResources {
				comment := strings.TrimSpace(string(t))
				if comment != "" {
					f.Entries = append(f.Entries, &Entry{
						Kind:    KindComment,
						Comment: comment,
					})
				}
			}

		case xml.EndElement:
			if t.Name.Local == "resources" {
				inResources = false
			}
		}
	}

	return f, nil
}

// parseAttrs extracts name and translatable from a start element.
func parseAttrs(elem xml.StartElement) (name string, translatable bool) {
	translatable = true
	for _, attr := range elem.Attr {
		switch attr.Name.Local {
		case "name":
			name = attr.Value
		case "translatable":
			if strings.EqualFold(attr.Value, "false") {
				translatable = false
			}
		}
	}
	return
}

func parseStringElement(dec *xml.Decoder, elem xml.StartElement) (*Entry, error) {
	name, translatable := parseAttrs(elem)
	value, err := readElementContent(dec)
	if err != nil {
		return nil, fmt.Errorf("reading <string name=%q>: %w", name, err)
	}
	return &Entry{
		Kind:         KindString,
		Name:         name,
		Translatable: translatable,
		Value:        value,
	}, nil
}

func parseStringArrayElement(dec *xml.Decoder, elem xml.StartElement) (*Entry, error) {
	name, translatable := parseAttrs(elem)
	e := &Entry{
		Kind:         KindStringArray,
		Name:         name,
		Translatable: translatable,
	}

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading <string-array name=%q>: %w", name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "item" && depth == 1 {
				value, err := readElementContent(dec)
				if err != nil {
					return nil, fmt.Errorf("reading <item> in <string-array name=%q>: %w", name, err)
				}
				e.Items = append(e.Items, value)
			} else {
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	return e, nil
}

func parsePluralsElement(dec *xml.Decoder, elem xml.StartElement) (*Entry, error) {
	name, translatable := parseAttrs(elem)
	e := &Entry{
		Kind:         KindPlurals,
		Name:         name,
		Translatable: translatable,
		Plurals:      make(map[string]string),
	}

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading <plurals name=%q>: %w", name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "item" && depth == 1 {
				var quantity string
				for _, attr := range t.Attr {
					if attr.Name.Local == "quantity" {
						quantity = attr.Value
						break
					}
				}
				value, err := readElementContent(dec)
				if err != nil {
					return nil, fmt.Errorf("reading <item quantity=%q> in <plurals name=%q>: %w", quantity, name, err)
				}
				if quantity != "" {
					e.SetPlural(quantity, value)
				}
			} else {
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	return e, nil
}

// readElementContent reads the full inner content of an element until its
// matching close tag. Inline child elements (e.g. <b>, <xliff:g>) are
// reconstructed as raw text and pass through decoding untouched; plain
// text runs through DecodeText. Leading and trailing whitespace is
// stripped only when the element has no child tags, so that quoting can
// still protect it.
func readElementContent(dec *xml.Decoder) (string, error) {
	type segment struct {
		text  string
		isTag bool
	}
	var segs []segment
	hasTags := false

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			segs = append(segs, segment{text: string(t)})
		case xml.StartElement:
			depth++
			hasTags = true
			var b strings.Builder
			b.WriteString("<")
			b.WriteString(tagName(t.Name))
			for _, attr := range t.Attr {
				fmt.Fprintf(&b, ` %s="%s"`, tagName(attr.Name), xmlEscape(attr.Value))
			}
			b.WriteString(">")
			segs = append(segs, segment{text: b.String(), isTag: true})
		case xml.EndElement:
			depth--
			if depth > 0 {
				segs = append(segs, segment{text: "</" + tagName(t.Name) + ">", isTag: true})
			}
		}
	}

	if !hasTags {
		var raw strings.Builder
		for _, s := range segs {
			raw.WriteString(s.text)
		}
		return DecodeText(strings.Trim(raw.String(), whitespace)), nil
	}

	var out strings.Builder
	for _, s := range segs {
		if s.isTag {
			out.WriteString(s.text)
		} else {
			out.WriteString(DecodeText(s.text))
		}
	}
	return out.String(), nil
}

func tagName(name xml.Name) string {
	if name.Space != "" {
		return name.Space + ":" + name.Local
	}
	return name.Local
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// WriteFile writes the strings.xml file to disk, creating parent
// directories as needed.
func (f *File) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return os.WriteFile(path, f.Marshal(), 0644)
}

// Marshal produces the XML output in Android strings.xml format.
func (f *File) Marshal() []byte {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	b.WriteString("<resources>\n")

	for _, e := range f.Entries {
		switch e.Kind {
		case KindComment:
			fmt.Fprintf(&b, "    <!-- %s -->\n", e.Comment)

		case KindString:
			fmt.Fprintf(&b, "    <string %s>%s</string>\n",
				e.attrs(), EncodeText(e.Value))

		case KindStringArray:
			fmt.Fprintf(&b, "    <string-array %s>\n", e.attrs())
			for _, item := range e.Items {
				fmt.Fprintf(&b, "        <item>%s</item>\n", EncodeText(item))
			}
			b.WriteString("    </string-array>\n")

		case KindPlurals:
			fmt.Fprintf(&b, "    <plurals %s>\n", e.attrs())
			for _, q := range e.PluralOrder {
				fmt.Fprintf(&b, "        <item quantity=\"%s\">%s</item>\n",
					q, EncodeText(e.Plurals[q]))
			}
			b.WriteString("    </plurals>\n")
		}
	}

	b.WriteString("</resources>\n")
	return []byte(b.String())
}

func (e *Entry) attrs() string {
	s := fmt.Sprintf(`name="%s"`, e.Name)
	if !e.Translatable {
		s += ` translatable="false"`
	}
	return s
}

// ---------------------------------------------------------------------------
// Resource directory layout
// ---------------------------------------------------------------------------

// LocaleDirName converts a gettext language code to an Android values
// directory name (e.g. "pt_BR" -> "values-pt-rBR", "ru" -> "values-ru").
func LocaleDirName(code string) string {
	parts := strings.SplitN(strings.ReplaceAll(code, "-", "_"), "_", 2)
	if len(parts) == 2 && parts[1] != "" {
		return "values-" + parts[0] + "-r" + parts[1]
	}
	return "values-" + parts[0]
}

// DirNameToCode converts an Android values directory name to a gettext
// language code (e.g. "values-pt-rBR" -> "pt_BR"). ok is false for
// directory names that do not designate a locale; the default "values"
// directory yields ("", true).
func DirNameToCode(dir string) (code string, ok bool) {
	if dir == "values" {
		return "", true
	}
	rest, found := strings.CutPrefix(dir, "values-")
	if !found || rest == "" {
		return "", false
	}
	lang, region, hasRegion := strings.Cut(rest, "-r")
	if !isAlpha(lang, 2, 3) {
		return "", false
	}
	lang = strings.ToLower(lang)
	if hasRegion {
		if !isAlpha(region, 2, 3) {
			return "", false
		}
		return lang + "_" + strings.ToUpper(region), true
	}
	return lang, true
}

func isAlpha(s string, min, max int) bool {
	if len(s) < min || len(s) > max {
		return false
	}
	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// StringsPath returns the path to strings.xml for a language code.
func StringsPath(resourceDir, code string) string {
	return filepath.Join(resourceDir, LocaleDirName(code), "strings.xml")
}

// DefaultStringsPath returns the path to the default (source) strings.xml.
func DefaultStringsPath(resourceDir string) string {
	return filepath.Join(resourceDir, "values", "strings.xml")
}
