package android

import (
	"strings"
)

// Whitespace characters that Android collapses in resource text.
const whitespace = " \n\t"

func isSpace(c rune) bool { return c == ' ' || c == '\n' || c == '\t' }

// DecodeText converts raw Android resource text into the plain form stored
// in gettext catalogs. It applies the aapt processing rules:
//
//   - runs of whitespace collapse to a single space, except inside "..."
//     quoting; a run still pending at the end of the string collapses
//     even when a quote was left open;
//   - a single newline or tab becomes a plain space, so that insignificant
//     whitespace does not turn significant on import;
//   - quote characters toggle protection and are removed;
//   - \n, \t, \', \" and \\ escapes are resolved, unknown escapes are kept;
//   - literal '<' and '>' become &lt; and &gt;, distinguishing them from
//     actual inline markup tags which pass through as-is.
func DecodeText(s string) string {
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")

	var out []rune
	var run []rune // pending whitespace run
	inQuote := false
	escaped := false

	flush := func(eof bool) {
		switch {
		case len(run) == 0:
		case len(run) > 1 && inQuote && !eof:
			out = append(out, run...)
		default:
			out = append(out, ' ')
		}
		run = run[:0]
	}

	for _, c := range s {
		if isSpace(c) && !escaped {
			run = append(run, c)
			continue
		}
		flush(false)

		if escaped {
			switch c {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '\'', '"':
				out = append(out, c)
			case '\\':
				out = append(out, '\\')
			default:
				out = append(out, '\\', c)
			}
			escaped = false
			continue
		}

		switch c {
		case '\\':
			escaped = true
		case '"':
			inQuote = !inQuote
		default:
			out = append(out, c)
		}
	}
	flush(true)
	if escaped {
		out = append(out, '\\')
	}
	return string(out)
}

// EncodeText converts plain catalog text back into Android resource form:
// special characters are backslash-escaped, segments whose whitespace would
// be collapsed by aapt are wrapped in quotes, literal angle brackets stay
// entities while inline markup tags pass through untouched.
//
// Escaping and quoting are applied per text segment between tags, the same
// way aapt treats text and tail of nested elements separately.
func EncodeText(s string) string {
	// Entity-encode ampersands first, then restore the two entities we
	// deliberately emit on decode so round-trips stay stable.
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "&amp;lt;", "&lt;")
	s = strings.ReplaceAll(s, "&amp;gt;", "&gt;")

	var out strings.Builder
	for len(s) > 0 {
		i := strings.IndexByte(s, '<')
		if i < 0 {
			out.WriteString(quoteSegment(escapeSegment(s)))
			break
		}
		out.WriteString(quoteSegment(escapeSegment(s[:i])))
		j := strings.IndexByte(s[i:], '>')
		if j < 0 {
			// Dangling bracket; emit verbatim rather than guess.
			out.WriteString(s[i:])
			break
		}
		out.WriteString(s[i : i+j+1])
		s = s[i+j+1:]
	}
	return out.String()
}

// escapeSegment backslash-escapes the characters Android requires escaped
// inside resource text.
func escapeSegment(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// quoteSegment wraps a segment in quotes when aapt would otherwise collapse
// its whitespace: leading or trailing whitespace, or two adjacent
// whitespace characters anywhere.
func quoteSegment(s string) string {
	if s == "" {
		return s
	}
	if strings.Trim(s, whitespace) != s {
		return `"` + s + `"`
	}
	spaceRun := 0
	for _, c := range s {
		if isSpace(c) {
			spaceRun++
			if spaceRun >= 2 {
				return `"` + s + `"`
			}
		} else {
			spaceRun = 0
		}
	}
	return s
}

// xmlEscape escapes text for inclusion in an XML document. Values produced
// by EncodeText already carry their angle brackets as entities or as
// deliberate markup, so only bare ampersands would remain; EncodeText has
// handled those too. This is used for attribute values and comments.
func xmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
