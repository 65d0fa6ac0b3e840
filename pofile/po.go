// Package pofile implements reading and writing of PO/POT catalogs
// following the GNU gettext format specification.
package pofile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// Entry represents a single translatable message in a PO file.
type Entry struct {
	// TranslatorComments are lines starting with "# ".
	TranslatorComments []string
	// ExtractedComments are lines starting with "#." (automatic comments).
	ExtractedComments []string
	// References are source locations, lines starting with "#:".
	References []string
	// Flags are format flags, lines starting with "#,".
	Flags []string
	// PreviousMsgID stores the previous msgid of fuzzy entries ("#|" lines).
	PreviousMsgID string

	// MsgCtxt is the message context (msgctxt). The converter stores the
	// Android resource name here, or "name:index" for array items.
	MsgCtxt string
	// MsgID is the untranslated string.
	MsgID string
	// MsgIDPlural is the untranslated plural string.
	MsgIDPlural string
	// MsgStr is the translated string (singular or the only form).
	MsgStr string
	// MsgStrPlural maps plural form index to translated string.
	MsgStrPlural map[int]string

	// Obsolete marks entries prefixed with "#~".
	Obsolete bool
}

// HasContext reports whether the entry carries a msgctxt.
func (e *Entry) HasContext() bool { return e.MsgCtxt != "" }

// IsPlural reports whether the entry is a plural message.
func (e *Entry) IsPlural() bool { return e.MsgIDPlural != "" }

// PluralStrings returns the msgstr[N] values as a dense slice, in index
// order, up to the highest index present.
func (e *Entry) PluralStrings() []string {
	if len(e.MsgStrPlural) == 0 {
		return nil
	}
	max := -1
	for idx := range e.MsgStrPlural {
		if idx > max {
			max = idx
		}
	}
	texts := make([]string, max+1)
	for idx, s := range e.MsgStrPlural {
		texts[idx] = s
	}
	return texts
}

// IsTranslated reports whether the entry has a non-empty translation.
// Plural entries count as translated when every present form is non-empty.
func (e *Entry) IsTranslated() bool {
	if e.MsgID == "" {
		return false // header entry
	}
	if e.IsFuzzy() {
		return false
	}
	if e.IsPlural() {
		if len(e.MsgStrPlural) == 0 {
			return false
		}
		for _, v := range e.MsgStrPlural {
			if v == "" {
				return false
			}
		}
		return true
	}
	return e.MsgStr != ""
}

// IsFuzzy reports whether the entry is marked fuzzy.
func (e *Entry) IsFuzzy() bool { return e.HasFlag("fuzzy") }

// SetFuzzy adds or removes the fuzzy flag.
func (e *Entry) SetFuzzy(fuzzy bool) {
	if fuzzy && !e.IsFuzzy() {
		e.Flags = append(e.Flags, "fuzzy")
		return
	}
	if !fuzzy {
		filtered := e.Flags[:0]
		for _, f := range e.Flags {
			if f != "fuzzy" {
				filtered = append(filtered, f)
			}
		}
		e.Flags = filtered
	}
}

// HasFlag checks whether a specific flag is present.
func (e *Entry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// File represents a parsed PO/POT catalog.
type File struct {
	// Header is the metadata entry (msgid "").
	Header *Entry
	// Entries are the translatable message entries.
	Entries []*Entry
}

// NewFile creates a new empty catalog.
func NewFile() *File {
	return &File{
		Header:  &Entry{},
		Entries: make([]*Entry, 0),
	}
}

// HeaderField returns a header field value by (case-insensitive) name.
func (f *File) HeaderField(name string) string {
	if f.Header == nil {
		return ""
	}
	for _, line := range strings.Split(f.Header.MsgStr, "\n") {
		if idx := strings.Index(line, ":"); idx > 0 {
			if strings.EqualFold(strings.TrimSpace(line[:idx]), name) {
				return strings.TrimSpace(line[idx+1:])
			}
		}
	}
	return ""
}

// SetHeaderField sets a header field value, appending the field if absent.
func (f *File) SetHeaderField(name, value string) {
	if f.Header == nil {
		f.Header = &Entry{}
	}

	lines := strings.Split(f.Header.MsgStr, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, ":"); idx > 0 {
			if strings.EqualFold(strings.TrimSpace(line[:idx]), name) {
				lines[i] = name + ": " + value
				f.Header.MsgStr = strings.Join(lines, "\n")
				return
			}
		}
	}
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = append(lines[:len(lines)-1], name+": "+value, "")
	} else {
		lines = append(lines, name+": "+value)
	}
	f.Header.MsgStr = strings.Join(lines, "\n")
}

// Language returns the Language header field.
func (f *File) Language() string { return f.HeaderField("Language") }

// ByContext finds a non-obsolete entry by its msgctxt.
func (f *File) ByContext(ctxt string) *Entry {
	for _, e := range f.Entries {
		if e.MsgCtxt == ctxt && !e.Obsolete {
			return e
		}
	}
	return nil
}

// ByMsgID finds a non-obsolete entry by its msgid.
func (f *File) ByMsgID(msgid string) *Entry {
	for _, e := range f.Entries {
		if e.MsgID == msgid && !e.Obsolete {
			return e
		}
	}
	return nil
}

// Stats returns translation statistics over non-obsolete entries.
func (f *File) Stats() (total, translated, fuzzy, untranslated int) {
	for _, e := range f.Entries {
		if e.MsgID == "" || e.Obsolete {
			continue
		}
		total++
		switch {
		case e.IsFuzzy():
			fuzzy++
		case e.IsTranslated():
			translated++
		default:
			untranslated++
		}
	}
	return
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// Parse reads a PO/POT catalog from a reader.
func Parse(r io.Reader) (*File, error) {
	f := NewFile()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current *Entry
	var lastField string // the last msgid/msgstr/… keyword, for continuations
	lineNum := 0

	flush := func() {
		if current == nil {
			return
		}
		if current.MsgID == "" && !current.Obsolete {
			f.Header = current
		} else {
			f.Entries = append(f.Entries, current)
		}
		current = nil
		lastField = ""
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			current = &Entry{MsgStrPlural: make(map[int]string)}
		}

		if strings.HasPrefix(line, "#~ ") {
			current.Obsolete = true
			line = line[3:]
		}

		if strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "#~") {
			parseCommentLine(current, line)
			continue
		}

		keyword, rest, isQuoted := splitKeyword(line)
		switch {
		case keyword == "msgctxt":
			current.MsgCtxt = unquote(rest)
			lastField = keyword
		case keyword == "msgid_plural":
			current.MsgIDPlural = unquote(rest)
			lastField = keyword
		case keyword == "msgid":
			current.MsgID = unquote(rest)
			lastField = keyword
		case keyword == "msgstr":
			current.MsgStr = unquote(rest)
			lastField = keyword
		case strings.HasPrefix(keyword, "msgstr["):
			var idx int
			if n, err := fmt.Sscanf(keyword, "msgstr[%d]", &idx); err != nil || n != 1 {
				return nil, fmt.Errorf("line %d: invalid msgstr index: %s", lineNum, line)
			}
			current.MsgStrPlural[idx] = unquote(rest)
			lastField = keyword
		case isQuoted:
			// Continuation line for the previous field.
			val := unquote(line)
			switch {
			case lastField == "msgctxt":
				current.MsgCtxt += val
			case lastField == "msgid":
				current.MsgID += val
			case lastField == "msgid_plural":
				current.MsgIDPlural += val
			case lastField == "msgstr":
				current.MsgStr += val
			case strings.HasPrefix(lastField, "msgstr["):
				var idx int
				fmt.Sscanf(lastField, "msgstr[%d]", &idx)
				current.MsgStrPlural[idx] += val
			default:
				return nil, fmt.Errorf("line %d: unexpected continuation: %s", lineNum, line)
			}
		default:
			return nil, fmt.Errorf("line %d: unrecognized line: %s", lineNum, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading PO data: %w", err)
	}
	return f, nil
}

// splitKeyword splits "msgid \"...\"" into keyword and remainder. isQuoted
// reports a bare continuation line (starts with a quote).
func splitKeyword(line string) (keyword, rest string, isQuoted bool) {
	if strings.HasPrefix(line, "\"") {
		return "", "", true
	}
	if idx := strings.IndexAny(line, " \t"); idx > 0 {
		return line[:idx], strings.TrimSpace(line[idx+1:]), false
	}
	return line, "", false
}

func parseCommentLine(e *Entry, line string) {
	switch {
	case strings.HasPrefix(line, "#:"):
		e.References = append(e.References, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#,"):
		for _, flag := range strings.Split(line[2:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				e.Flags = append(e.Flags, flag)
			}
		}
	case strings.HasPrefix(line, "#."):
		e.ExtractedComments = append(e.ExtractedComments, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#|"):
		prev := strings.TrimSpace(line[2:])
		if strings.HasPrefix(prev, "msgid ") {
			e.PreviousMsgID = unquote(strings.TrimPrefix(prev, "msgid "))
		}
	default:
		comment := strings.TrimPrefix(line[1:], " ")
		e.TranslatorComments = append(e.TranslatorComments, comment)
	}
}

// ParseFile reads a PO/POT catalog from disk.
func ParseFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	f, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// Write writes the catalog to a writer.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if f.Header != nil {
		writeEntry(bw, f.Header)
	}
	for _, e := range f.Entries {
		fmt.Fprintln(bw)
		writeEntry(bw, e)
	}
	return bw.Flush()
}

// WriteFile writes the catalog to disk.
func (f *File) WriteFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return f.Write(out)
}

func writeEntry(w *bufio.Writer, e *Entry) {
	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}

	for _, c := range e.TranslatorComments {
		fmt.Fprintf(w, "# %s\n", c)
	}
	for _, c := range e.ExtractedComments {
		fmt.Fprintf(w, "#. %s\n", c)
	}
	for _, ref := range e.References {
		fmt.Fprintf(w, "#: %s\n", ref)
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ", "))
	}
	if e.PreviousMsgID != "" {
		fmt.Fprintf(w, "#| msgid %s\n", quote(e.PreviousMsgID))
	}

	if e.MsgCtxt != "" {
		writeField(w, prefix+"msgctxt", e.MsgCtxt)
	}
	writeField(w, prefix+"msgid", e.MsgID)

	if e.IsPlural() {
		writeField(w, prefix+"msgid_plural", e.MsgIDPlural)
		indices := make([]int, 0, len(e.MsgStrPlural))
		for idx := range e.MsgStrPlural {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		if len(indices) == 0 {
			indices = []int{0, 1}
		}
		for _, idx := range indices {
			writeField(w, fmt.Sprintf("%smsgstr[%d]", prefix, idx), e.MsgStrPlural[idx])
		}
	} else {
		writeField(w, prefix+"msgstr", e.MsgStr)
	}
}

// writeField writes a PO field with multiline quoting where needed.
func writeField(w *bufio.Writer, field, value string) {
	if !strings.Contains(value, "\n") {
		fmt.Fprintf(w, "%s %s\n", field, quote(value))
		return
	}

	fmt.Fprintf(w, "%s \"\"\n", field)
	parts := strings.Split(value, "\n")
	for i, part := range parts {
		if i < len(parts)-1 {
			fmt.Fprintf(w, "%s\n", quote(part+"\n"))
		} else if part != "" {
			fmt.Fprintf(w, "%s\n", quote(part))
		}
	}
}

// quote produces a PO-style quoted string.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return `"` + s + `"`
}

// unquote removes PO-style quoting from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]

	var result strings.Builder
	result.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				result.WriteByte('\n')
				i++
			case 't':
				result.WriteByte('\t')
				i++
			case '\\':
				result.WriteByte('\\')
				i++
			case '"':
				result.WriteByte('"')
				i++
			default:
				result.WriteByte(s[i])
			}
		} else {
			result.WriteByte(s[i])
		}
	}
	return result.String()
}

// ---------------------------------------------------------------------------
// Headers
// ---------------------------------------------------------------------------

// MakeHeader creates a standard PO/POT header entry. For templates pass
// language and pluralForms as empty strings: placeholder values are
// emitted instead, the way xgettext does.
func MakeHeader(projectName, projectVersion, language, pluralForms string) *Entry {
	now := time.Now().UTC().Format("2006-01-02 15:04+0000")

	if pluralForms == "" {
		pluralForms = "nplurals=INTEGER; plural=EXPRESSION;"
	}

	headerStr := fmt.Sprintf(
		"Project-Id-Version: %s %s\n"+
			"Report-Msgid-Bugs-To: \n"+
			"POT-Creation-Date: %s\n"+
			"PO-Revision-Date: %s\n"+
			"Last-Translator: \n"+
			"Language-Team: \n"+
			"Language: %s\n"+
			"MIME-Version: 1.0\n"+
			"Content-Type: text/plain; charset=UTF-8\n"+
			"Content-Transfer-Encoding: 8bit\n"+
			"Plural-Forms: %s\n",
		projectName, projectVersion, now, now, language, pluralForms,
	)

	return &Entry{
		TranslatorComments: []string{
			fmt.Sprintf("Translations for %s.", projectName),
			"This file is distributed under the same license as the " + projectName + " package.",
		},
		MsgID:  "",
		MsgStr: headerStr,
	}
}
