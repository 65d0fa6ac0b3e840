package convert

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/miracle2k/android2po/android"
	"github.com/miracle2k/android2po/pofile"
)

// collectWarnings returns a WarnFunc appending formatted messages to a slice.
func collectWarnings(warnings *[]string) WarnFunc {
	return func(format string, args ...any) {
		*warnings = append(*warnings, fmt.Sprintf(format, args...))
	}
}

func mustParseXML(t *testing.T, data string) *android.File {
	t.Helper()
	f, err := android.Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse XML: %v", err)
	}
	return f
}

const defaultXML = `<resources>
    <!-- The greeting -->
    <string name="hello">Hello World</string>
    <string name="secret" translatable="false">hidden</string>
    <string-array name="colors">
        <item>red</item>
        <item>green</item>
    </string-array>
    <plurals name="dogs">
        <item quantity="one">%d dog</item>
        <item quantity="other">%d dogs</item>
    </plurals>
</resources>`

func TestXML2POTemplate(t *testing.T) {
	def := mustParseXML(t, defaultXML)

	cat, unmatched, err := XML2PO(def, nil, "", nil)
	if err != nil {
		t.Fatalf("XML2PO error: %v", err)
	}
	if unmatched != nil {
		t.Fatalf("unmatched = %v for template conversion", unmatched)
	}

	// hello, colors:0, colors:1, dogs; the non-translatable string is out.
	if len(cat.Entries) != 4 {
		t.Fatalf("entries len = %d, want 4", len(cat.Entries))
	}

	hello := cat.ByContext("hello")
	if hello == nil || hello.MsgID != "Hello World" || hello.MsgStr != "" {
		t.Fatalf("hello entry = %#v", hello)
	}
	if !reflect.DeepEqual(hello.ExtractedComments, []string{"The greeting"}) {
		t.Fatalf("hello comments = %v", hello.ExtractedComments)
	}

	if cat.ByContext("secret") != nil {
		t.Fatal("non-translatable resource should not be exported")
	}

	if e := cat.ByContext("colors:0"); e == nil || e.MsgID != "red" {
		t.Fatalf("colors:0 = %#v", e)
	}
	if e := cat.ByContext("colors:1"); e == nil || e.MsgID != "green" {
		t.Fatalf("colors:1 = %#v", e)
	}

	dogs := cat.ByContext("dogs")
	if dogs == nil || !dogs.IsPlural() {
		t.Fatalf("dogs = %#v", dogs)
	}
	if dogs.MsgID != "%d dog" || dogs.MsgIDPlural != "%d dogs" {
		t.Fatalf("dogs msgid pair = %q / %q", dogs.MsgID, dogs.MsgIDPlural)
	}
}

func TestXML2POWithTranslations(t *testing.T) {
	def := mustParseXML(t, defaultXML)
	trans := mustParseXML(t, `<resources>
		<string name="hello">Hallo Welt</string>
		<string name="extra">not in default</string>
		<string-array name="colors">
			<item>rot</item>
		</string-array>
	</resources>`)

	cat, unmatched, err := XML2PO(def, trans, "de", nil)
	if err != nil {
		t.Fatalf("XML2PO error: %v", err)
	}

	if got := cat.ByContext("hello").MsgStr; got != "Hallo Welt" {
		t.Fatalf("hello msgstr = %q", got)
	}
	// Only the first array item has a translation.
	if got := cat.ByContext("colors:0").MsgStr; got != "rot" {
		t.Fatalf("colors:0 msgstr = %q", got)
	}
	if got := cat.ByContext("colors:1").MsgStr; got != "" {
		t.Fatalf("colors:1 msgstr = %q, want empty", got)
	}

	if !reflect.DeepEqual(unmatched, []string{"extra"}) {
		t.Fatalf("unmatched = %v, want [extra]", unmatched)
	}
}

func TestXML2POWarnings(t *testing.T) {
	def := mustParseXML(t, `<resources>
		<string name="dup">first</string>
		<string name="dup">second</string>
		<string-array name="empty"></string-array>
	</resources>`)

	var warnings []string
	cat, _, err := XML2PO(def, nil, "", collectWarnings(&warnings))
	if err != nil {
		t.Fatalf("XML2PO error: %v", err)
	}
	if len(cat.Entries) != 1 {
		t.Fatalf("entries len = %d, want 1", len(cat.Entries))
	}

	joined := strings.Join(warnings, "\n")
	if !strings.Contains(joined, "duplicate resource id found: dup") {
		t.Fatalf("missing duplicate warning in: %v", warnings)
	}
	if !strings.Contains(joined, `string-array "empty" is empty, skipping`) {
		t.Fatalf("missing empty-array warning in: %v", warnings)
	}
}

func TestXML2POPluralReconciliation(t *testing.T) {
	def := mustParseXML(t, `<resources>
		<plurals name="dogs">
			<item quantity="one">%d dog</item>
			<item quantity="other">%d dogs</item>
		</plurals>
	</resources>`)

	// Romanian uses three forms; the "many" quantity does not exist there
	// and is dropped with a warning.
	trans := mustParseXML(t, `<resources>
		<plurals name="dogs">
			<item quantity="one">%d caine</item>
			<item quantity="few">%d caini</item>
			<item quantity="many">%d de caini</item>
			<item quantity="other">%d de caini</item>
		</plurals>
	</resources>`)

	var warnings []string
	cat, _, err := XML2PO(def, trans, "ro", collectWarnings(&warnings))
	if err != nil {
		t.Fatalf("XML2PO error: %v", err)
	}

	dogs := cat.ByContext("dogs")
	want := map[int]string{0: "%d caine", 1: "%d caini", 2: "%d de caini"}
	if !reflect.DeepEqual(dogs.MsgStrPlural, want) {
		t.Fatalf("dogs forms = %v, want %v", dogs.MsgStrPlural, want)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], `quantity "many"`) {
		t.Fatalf("warnings = %v", warnings)
	}
}

func TestXML2POPluralErrors(t *testing.T) {
	// A default <plurals> without "other" cannot form a msgid pair.
	def := mustParseXML(t, `<resources>
		<plurals name="dogs">
			<item quantity="one">%d dog</item>
		</plurals>
	</resources>`)
	_, _, err := XML2PO(def, nil, "", nil)
	var incomplete *IncompletePluralError
	if !errors.As(err, &incomplete) || incomplete.Name != "dogs" {
		t.Fatalf("err = %v, want IncompletePluralError for dogs", err)
	}

	// A translation missing a required form is fatal too.
	def = mustParseXML(t, `<resources>
		<plurals name="dogs">
			<item quantity="one">%d dog</item>
			<item quantity="other">%d dogs</item>
		</plurals>
	</resources>`)
	trans := mustParseXML(t, `<resources>
		<plurals name="dogs">
			<item quantity="one">%d Hund</item>
		</plurals>
	</resources>`)
	if _, _, err := XML2PO(def, trans, "de", nil); err == nil {
		t.Fatal("missing required plural form should be an error")
	}
}

func TestPO2XML(t *testing.T) {
	cat := pofile.NewFile()
	cat.Entries = []*pofile.Entry{
		{MsgCtxt: "hello", MsgID: "Hello World", MsgStr: "Hallo Welt"},
		{MsgCtxt: "untranslated", MsgID: "Source"},
		{MsgCtxt: "colors:1", MsgID: "green", MsgStr: "gruen"},
		{MsgCtxt: "colors:0", MsgID: "red", MsgStr: "rot"},
		{MsgCtxt: "gone", MsgID: "Removed", MsgStr: "Weg", Obsolete: true},
		{
			MsgCtxt: "dogs", MsgID: "%d dog", MsgIDPlural: "%d dogs",
			MsgStrPlural: map[int]string{0: "%d Hund", 1: "%d Hunde"},
		},
	}

	xml := PO2XML(cat, "de", false, nil)

	if v, _ := xml.Get("hello"); v != "Hallo Welt" {
		t.Fatalf("hello = %q", v)
	}
	if xml.GetEntry("untranslated") != nil {
		t.Fatal("untranslated message should be skipped")
	}
	if xml.GetEntry("gone") != nil {
		t.Fatal("obsolete message should be skipped")
	}

	colors := xml.GetEntry("colors")
	if colors == nil || !reflect.DeepEqual(colors.Items, []string{"rot", "gruen"}) {
		t.Fatalf("colors = %#v", colors)
	}

	dogs := xml.GetEntry("dogs")
	if dogs == nil || dogs.Kind != android.KindPlurals {
		t.Fatalf("dogs = %#v", dogs)
	}
	want := map[string]string{"one": "%d Hund", "other": "%d Hunde"}
	if !reflect.DeepEqual(dogs.Plurals, want) {
		t.Fatalf("dogs plurals = %v, want %v", dogs.Plurals, want)
	}
}

func TestPO2XMLWithUntranslated(t *testing.T) {
	cat := pofile.NewFile()
	cat.Entries = []*pofile.Entry{
		{MsgCtxt: "hello", MsgID: "Hello World"},
		{MsgCtxt: "dogs", MsgID: "%d dog", MsgIDPlural: "%d dogs",
			MsgStrPlural: map[int]string{}},
	}

	xml := PO2XML(cat, "de", true, nil)

	// Untranslated strings fall back to the source text...
	if v, _ := xml.Get("hello"); v != "Hello World" {
		t.Fatalf("hello = %q", v)
	}
	// ...but untranslated plurals are never written: they would only
	// shadow the default resources with the wrong language's forms.
	if xml.GetEntry("dogs") != nil {
		t.Fatal("untranslated plural should be skipped even with untranslated output")
	}
}

func TestPO2XMLWarnings(t *testing.T) {
	cat := pofile.NewFile()
	cat.Entries = []*pofile.Entry{
		{MsgID: "no context", MsgStr: "x"},
		{MsgCtxt: "dogs", MsgID: "%d dog", MsgIDPlural: "%d dogs",
			MsgStrPlural: map[int]string{0: "un caine", 1: "niste caini"}},
	}

	var warnings []string
	xml := PO2XML(cat, "ro", false, collectWarnings(&warnings))

	joined := strings.Join(warnings, "\n")
	if !strings.Contains(joined, "it has no context") {
		t.Fatalf("missing no-context warning in: %v", warnings)
	}
	// Romanian expects 3 forms; two were provided. The entry is still
	// written, with the missing slot empty.
	if !strings.Contains(joined, `contains 2 forms, we expect 3`) {
		t.Fatalf("missing form-count warning in: %v", warnings)
	}
	dogs := xml.GetEntry("dogs")
	want := map[string]string{"one": "un caine", "few": "niste caini", "other": ""}
	if !reflect.DeepEqual(dogs.Plurals, want) {
		t.Fatalf("dogs plurals = %v, want %v", dogs.Plurals, want)
	}
}

// Export followed by import must reproduce the translation file.
func TestRoundTrip(t *testing.T) {
	def := mustParseXML(t, defaultXML)
	trans := mustParseXML(t, `<resources>
		<string name="hello">Hallo Welt</string>
		<string-array name="colors">
			<item>rot</item>
			<item>gruen</item>
		</string-array>
		<plurals name="dogs">
			<item quantity="one">%d Hund</item>
			<item quantity="other">%d Hunde</item>
		</plurals>
	</resources>`)

	cat, _, err := XML2PO(def, trans, "de", nil)
	if err != nil {
		t.Fatalf("XML2PO error: %v", err)
	}
	round := PO2XML(cat, "de", false, nil)

	for _, name := range trans.Keys() {
		a, b := trans.GetEntry(name), round.GetEntry(name)
		if b == nil {
			t.Fatalf("%s lost in round trip", name)
		}
		if a.Value != b.Value {
			t.Errorf("%s: value %q -> %q", name, a.Value, b.Value)
		}
		if !reflect.DeepEqual(a.Items, b.Items) {
			t.Errorf("%s: items %v -> %v", name, a.Items, b.Items)
		}
		if !reflect.DeepEqual(a.Plurals, b.Plurals) {
			t.Errorf("%s: plurals %v -> %v", name, a.Plurals, b.Plurals)
		}
	}
}
