// Package merge implements msgmerge-style merging of a POT template
// into an existing PO catalog.
package merge

import (
	"github.com/miracle2k/android2po/pofile"
)

// Merge updates a PO catalog with entries from a POT template:
//
//   - new template entries are added with empty translations;
//   - existing entries still present in the template keep their
//     translation; an entry whose msgid changed for the same context is
//     marked fuzzy and remembers the previous msgid;
//   - entries no longer in the template are kept as obsolete ("#~").
//
// Entries are matched by msgctxt, which carries the Android resource
// name and therefore survives text edits.
func Merge(po, pot *pofile.File) *pofile.File {
	result := pofile.NewFile()

	// Keep the catalog's own header, refresh the template creation date.
	result.Header = po.Header
	if pot.Header != nil {
		if date := pot.HeaderField("POT-Creation-Date"); date != "" {
			result.SetHeaderField("POT-Creation-Date", date)
		}
	}

	existing := make(map[string]*pofile.Entry)
	for _, e := range po.Entries {
		if !e.Obsolete && e.HasContext() {
			existing[e.MsgCtxt] = e
		}
	}

	matched := make(map[string]bool)

	for _, tmpl := range pot.Entries {
		if tmpl.MsgID == "" {
			continue
		}

		old, ok := existing[tmpl.MsgCtxt]
		if !ok {
			result.Entries = append(result.Entries, &pofile.Entry{
				ExtractedComments: tmpl.ExtractedComments,
				References:        tmpl.References,
				Flags:             append([]string(nil), tmpl.Flags...),
				MsgCtxt:           tmpl.MsgCtxt,
				MsgID:             tmpl.MsgID,
				MsgIDPlural:       tmpl.MsgIDPlural,
				MsgStrPlural:      make(map[int]string),
			})
			continue
		}
		matched[tmpl.MsgCtxt] = true

		merged := &pofile.Entry{
			TranslatorComments: old.TranslatorComments,
			ExtractedComments:  tmpl.ExtractedComments,
			References:         tmpl.References,
			Flags:              mergeFlags(old.Flags, tmpl.Flags),
			MsgCtxt:            tmpl.MsgCtxt,
			MsgID:              tmpl.MsgID,
			MsgIDPlural:        tmpl.MsgIDPlural,
			MsgStr:             old.MsgStr,
			MsgStrPlural:       old.MsgStrPlural,
			PreviousMsgID:      old.PreviousMsgID,
		}
		if merged.MsgStrPlural == nil {
			merged.MsgStrPlural = make(map[int]string)
		}
		if old.MsgID != tmpl.MsgID && old.IsTranslated() {
			merged.SetFuzzy(true)
			merged.PreviousMsgID = old.MsgID
		}
		result.Entries = append(result.Entries, merged)
	}

	for _, e := range po.Entries {
		if e.MsgID == "" || e.Obsolete || matched[e.MsgCtxt] {
			continue
		}
		obsolete := *e
		obsolete.Obsolete = true
		obsolete.References = nil
		result.Entries = append(result.Entries, &obsolete)
	}

	return result
}

// mergeFlags combines catalog and template flags, keeping
// catalog-specific ones like "fuzzy" first.
func mergeFlags(poFlags, potFlags []string) []string {
	set := make(map[string]bool)
	for _, f := range poFlags {
		set[f] = true
	}
	for _, f := range potFlags {
		set[f] = true
	}

	var result []string
	if set["fuzzy"] {
		result = append(result, "fuzzy")
	}
	for _, f := range append(poFlags, potFlags...) {
		if f != "fuzzy" && set[f] {
			result = append(result, f)
			set[f] = false
		}
	}
	return result
}
