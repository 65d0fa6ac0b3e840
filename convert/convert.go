// Package convert implements the two structural conversions between
// Android string resources and gettext catalogs: XML2PO for the export
// direction and PO2XML for the import direction.
//
// The gettext msgctxt carries the Android resource name, which is what
// allows duplicate texts and lossless reassembly. String-array items use
// the context "name:index". Plural resources map between quantity
// keywords and gettext plural indices through the plural package.
package convert

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/miracle2k/android2po/android"
	"github.com/miracle2k/android2po/plural"
	"github.com/miracle2k/android2po/pofile"
)

// WarnFunc receives non-fatal diagnostics from a conversion. A nil
// WarnFunc discards them.
type WarnFunc func(format string, args ...any)

func noopWarn(string, ...any) {}

// XML2PO converts a default strings.xml into a gettext catalog. When
// trans is non-nil its values are matched up as translations and the
// names present in trans but not in def are returned as unmatched; lang
// is the translation's language code and drives plural reconciliation.
//
// For a template conversion pass trans == nil and lang == "".
func XML2PO(def, trans *android.File, lang string, warn WarnFunc) (cat *pofile.File, unmatched []string, err error) {
	if warn == nil {
		warn = noopWarn
	}
	cat = pofile.NewFile()

	for _, name := range def.Duplicates {
		warn("duplicate resource id found: %s, ignoring", name)
	}
	if trans != nil {
		for _, name := range trans.Duplicates {
			warn("duplicate resource id found: %s, ignoring", name)
		}
	}

	var comments []string
	matched := make(map[string]bool)

	for _, e := range def.Entries {
		if e.IsComment() {
			comments = append(comments, e.Comment)
			continue
		}
		if !e.IsTranslatable() {
			comments = nil
			continue
		}

		var transEntry *android.Entry
		if trans != nil {
			transEntry = trans.GetEntry(e.Name)
			if transEntry != nil {
				matched[e.Name] = true
			}
		}

		switch e.Kind {
		case android.KindString:
			entry := &pofile.Entry{
				ExtractedComments: comments,
				MsgCtxt:           e.Name,
				MsgID:             e.Value,
			}
			if transEntry != nil && transEntry.Kind == android.KindString {
				entry.MsgStr = transEntry.Value
			}
			cat.Entries = append(cat.Entries, entry)

		case android.KindStringArray:
			if len(e.Items) == 0 {
				warn("string-array %q is empty, skipping", e.Name)
				break
			}
			var transItems []string
			if transEntry != nil {
				if transEntry.Kind != android.KindStringArray {
					warn("%q is a string-array in the default file, but not in the translation", e.Name)
				} else {
					transItems = transEntry.Items
				}
			}
			for i, item := range e.Items {
				entry := &pofile.Entry{
					ExtractedComments: comments,
					MsgCtxt:           fmt.Sprintf("%s:%d", e.Name, i),
					MsgID:             item,
				}
				if i < len(transItems) {
					entry.MsgStr = transItems[i]
				}
				cat.Entries = append(cat.Entries, entry)
			}

		case android.KindPlurals:
			entry, err := pluralEntry(e, transEntry, lang, warn)
			if err != nil {
				return nil, nil, err
			}
			entry.ExtractedComments = comments
			cat.Entries = append(cat.Entries, entry)
		}
		comments = nil
	}

	if trans != nil {
		for _, e := range trans.Entries {
			if e.IsTranslatable() && !matched[e.Name] {
				unmatched = append(unmatched, e.Name)
			}
		}
	}
	return cat, unmatched, nil
}

// pluralEntry builds the catalog entry for a <plurals> resource. The
// msgid/msgid_plural pair comes from the default file's "one" and
// "other" forms; the translated forms are reconciled into indexed slots
// for the target language.
func pluralEntry(def, trans *android.Entry, lang string, warn WarnFunc) (*pofile.Entry, error) {
	other, ok := def.Plurals[plural.Other]
	if !ok {
		return nil, &IncompletePluralError{Name: def.Name, Missing: []string{plural.Other}}
	}
	singular := other
	if one, ok := def.Plurals[plural.One]; ok {
		singular = one
	}

	entry := &pofile.Entry{
		MsgCtxt:      def.Name,
		MsgID:        singular,
		MsgIDPlural:  other,
		MsgStrPlural: make(map[int]string),
	}

	if trans == nil || len(trans.Plurals) == 0 {
		return entry, nil
	}
	if trans.Kind != android.KindPlurals {
		warn("%q is a plurals resource in the default file, but not in the translation", def.Name)
		return entry, nil
	}

	rule, known := plural.RuleFor(lang)
	if !known {
		warn("unknown plural rules for language %q, assuming two forms", lang)
	}
	texts, ignored, err := rule.FromQuantities(trans.Plurals)
	for _, keyword := range ignored {
		warn("plural %q uses quantity %q, which is not supported by language %q; ignoring",
			def.Name, keyword, lang)
	}
	if err != nil {
		return nil, fmt.Errorf("plural %q in language %q: %w", def.Name, lang, err)
	}
	for i, text := range texts {
		entry.MsgStrPlural[i] = text
	}
	return entry, nil
}

// IncompletePluralError reports a <plurals> resource in the default file
// that lacks the forms required to build a msgid/msgid_plural pair.
type IncompletePluralError struct {
	Name    string
	Missing []string
}

func (e *IncompletePluralError) Error() string {
	return fmt.Sprintf("plurals resource %q is missing quantity %s",
		e.Name, strings.Join(e.Missing, ", "))
}

// PO2XML converts a gettext catalog back into an Android resource file
// for the given language. Untranslated messages are skipped unless
// withUntranslated is set, in which case the source text is written
// instead. Untranslated plurals are skipped either way; their forms would
// only shadow the default resources.
func PO2XML(cat *pofile.File, lang string, withUntranslated bool, warn WarnFunc) *android.File {
	if warn == nil {
		warn = noopWarn
	}
	xml := android.NewFile()
	rule, _ := plural.RuleFor(lang)

	// Array items may arrive in any order; collect them per array and
	// reassemble by index afterwards.
	arrayItems := make(map[string]map[int]string)

	for _, e := range cat.Entries {
		if e.MsgID == "" || e.Obsolete {
			continue
		}
		if !e.HasContext() {
			warn("ignoring message %q: it has no context; this catalog was "+
				"probably not generated by this tool", e.MsgID)
			continue
		}

		if e.IsPlural() {
			texts := e.PluralStrings()
			if !plural.Translated(texts) {
				continue
			}
			if len(texts) != rule.NPlurals() {
				warn("plural %q contains %d forms, we expect %d for language %q",
					e.MsgCtxt, len(texts), rule.NPlurals(), lang)
			}
			entry := &android.Entry{
				Kind:         android.KindPlurals,
				Name:         e.MsgCtxt,
				Translatable: true,
			}
			quantities := rule.ToQuantities(texts)
			for _, keyword := range rule.Forms {
				entry.SetPlural(keyword, quantities[keyword])
			}
			xml.AddEntry(entry)
			continue
		}

		if e.MsgStr == "" && !withUntranslated {
			continue
		}
		value := e.MsgStr
		if value == "" {
			value = e.MsgID
		}

		if name, idxStr, isArray := splitArrayContext(e.MsgCtxt); isArray {
			idx, err := strconv.Atoi(idxStr)
			if err != nil || idx < 0 {
				warn("invalid array index %q in context %q; ignoring", idxStr, e.MsgCtxt)
				continue
			}
			items, ok := arrayItems[name]
			if !ok {
				items = make(map[int]string)
				arrayItems[name] = items
				// Reserve the array's position in document order now.
				xml.AddEntry(&android.Entry{
					Kind:         android.KindStringArray,
					Name:         name,
					Translatable: true,
				})
			}
			if _, dup := items[idx]; dup {
				warn("duplicate index %d in array %q; ignoring the message; "+
					"the catalog has possibly been corrupted", idx, name)
				continue
			}
			items[idx] = value
			continue
		}

		xml.AddEntry(&android.Entry{
			Kind:         android.KindString,
			Name:         e.MsgCtxt,
			Translatable: true,
			Value:        value,
		})
	}

	// Fill the reserved arrays, densely from 0 to the highest index.
	for name, items := range arrayItems {
		entry := xml.GetEntry(name)
		indices := make([]int, 0, len(items))
		for idx := range items {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		max := indices[len(indices)-1]
		entry.Items = make([]string, max+1)
		for idx, value := range items {
			entry.Items[idx] = value
		}
	}

	return xml
}

// splitArrayContext splits an "name:index" array context. A context
// without a colon is a plain resource name.
func splitArrayContext(ctxt string) (name, index string, isArray bool) {
	idx := strings.LastIndex(ctxt, ":")
	if idx < 0 {
		return ctxt, "", false
	}
	return ctxt[:idx], ctxt[idx+1:], true
}
