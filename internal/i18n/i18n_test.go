package i18n

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/voxgate/voxgate/internal/message"
)

func testInput(lang string) *message.Input {
	return message.NewInput(message.Envelope{
		UserID:    "u1",
		SessionID: "s1",
		Platform:  "webchat",
		Language:  lang,
	})
}

func testTable(t *testing.T, doc string) Table {
	t.Helper()
	table, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return table
}

func TestParseScalarAndList(t *testing.T) {
	table := testTable(t, `
en:
  GREETING: ["Hi", "Hello"]
  BYE: Bye
de:
  BYE: "Tschüss"
`)
	if got := len(table["en"]["GREETING"]); got != 2 {
		t.Errorf("GREETING variants = %d, want 2", got)
	}
	if got := table["en"]["BYE"]; len(got) != 1 || got[0] != "Bye" {
		t.Errorf("BYE = %v", got)
	}
	if got := table["de"]["BYE"]; len(got) != 1 || got[0] != "Tschüss" {
		t.Errorf("de BYE = %v", got)
	}
}

func TestParseRejectsEmptyVariantList(t *testing.T) {
	_, err := Parse([]byte(`{en: {EMPTY: []}}`))
	if err == nil {
		t.Fatal("expected parse error for empty variant list")
	}
	if !strings.Contains(err.Error(), "empty list") {
		t.Errorf("error = %v", err)
	}
}

func TestEmptyVariantListIsMiss(t *testing.T) {
	// Hand-built tables can still carry empty variant lists; resolution
	// must treat them as absent instead of choosing from zero variants.
	table := Table{"en": {"EMPTY": Templates{}}}
	r := NewResolver(table)
	in := testInput("en")

	if r.Has(in, "EMPTY") {
		t.Error("Has must report false for an empty variant list")
	}
	if got := r.DisplayText(in, "EMPTY"); got != "" {
		t.Errorf("DisplayText = %q, want empty", got)
	}
	if m := r.Message(in, "EMPTY"); m != nil {
		t.Errorf("Message = %+v, want nil", m)
	}
	if _, err := r.Strict(in, "EMPTY"); err == nil {
		t.Error("Strict must fail for an empty variant list")
	}
}

func TestVariantSelection(t *testing.T) {
	table := testTable(t, `
en:
  GREETING: ["Hi", "Hello"]
`)
	r := NewResolver(table, WithRandom(rand.NewSource(42)))
	in := testInput("en")

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		got := r.DisplayText(in, "GREETING")
		if got != "Hi" && got != "Hello" {
			t.Fatalf("unexpected variant %q", got)
		}
		seen[got] = true
	}
	if !seen["Hi"] || !seen["Hello"] {
		t.Errorf("expected both variants over many trials, saw %v", seen)
	}
}

func TestVariantSelectionDeterministic(t *testing.T) {
	table := testTable(t, `
en:
  GREETING: ["Hi", "Hello"]
`)
	in := testInput("en")

	var first, second []string
	for run := 0; run < 2; run++ {
		r := NewResolver(table, WithRandom(rand.NewSource(7)))
		var got []string
		for i := 0; i < 20; i++ {
			got = append(got, r.DisplayText(in, "GREETING"))
		}
		if run == 0 {
			first = got
		} else {
			second = got
		}
	}
	if strings.Join(first, ",") != strings.Join(second, ",") {
		t.Error("same seed produced different variant sequences")
	}
}

func TestDisplayTextSubstitution(t *testing.T) {
	table := testTable(t, `
en:
  COUNT: "You have %d new %s"
`)
	r := NewResolver(table)
	got := r.DisplayText(testInput("en-US"), "COUNT", 3, "messages")
	if got != "You have 3 new messages" {
		t.Errorf("got %q", got)
	}
}

func TestDisplayTextMissingIsEmpty(t *testing.T) {
	r := NewResolver(testTable(t, `{en: {BYE: Bye}}`))
	if got := r.DisplayText(testInput("en"), "MISSING"); got != "" {
		t.Errorf("missing key = %q, want empty", got)
	}
	if got := r.DisplayText(testInput("fr"), "BYE"); got != "" {
		t.Errorf("missing language = %q, want empty", got)
	}
}

func TestLanguageNormalizedBeforeLookup(t *testing.T) {
	r := NewResolver(testTable(t, `{en: {BYE: Bye}}`))
	if got := r.DisplayText(testInput("en-AU"), "BYE"); got != "Bye" {
		t.Errorf("got %q, want Bye", got)
	}
}

func TestSSMLSingleEnvelope(t *testing.T) {
	r := NewResolver(testTable(t, `{en: {HI: Hi}}`))
	got := r.SSML(testInput("en"), "HI")
	if got != "<speak>Hi</speak>" {
		t.Errorf("got %q", got)
	}
}

func TestNestedMessageComposition(t *testing.T) {
	table := testTable(t, `
en:
  NAME: "Alice"
  WELCOME: "Welcome, %s!"
`)
	r := NewResolver(table)
	in := testInput("en")

	inner := r.Message(in, "NAME")
	if inner == nil {
		t.Fatal("inner message resolution failed")
	}
	if inner.SSML != "<speak>Alice</speak>" {
		t.Fatalf("inner SSML = %q", inner.SSML)
	}

	composite := r.Message(in, "WELCOME", inner)
	if composite.DisplayText != "Welcome, Alice!" {
		t.Errorf("display = %q", composite.DisplayText)
	}
	// The inner envelope must be stripped: exactly one root envelope.
	if composite.SSML != "<speak>Welcome, Alice!</speak>" {
		t.Errorf("SSML = %q", composite.SSML)
	}
	if strings.Count(composite.SSML, "<speak>") != 1 {
		t.Errorf("nested envelope not stripped: %q", composite.SSML)
	}
}

func TestMessageOrLiteralFallback(t *testing.T) {
	r := NewResolver(testTable(t, `{en: {BYE: Bye}}`))
	in := testInput("en")

	m := r.MessageOrLiteral(in, "Nice to meet you, %s", "Bob")
	if m.DisplayText != "Nice to meet you, Bob" {
		t.Errorf("display = %q", m.DisplayText)
	}
	if m.SSML != "<speak>Nice to meet you, Bob</speak>" {
		t.Errorf("SSML = %q", m.SSML)
	}

	// Without args, placeholders in the literal are preserved verbatim.
	m = r.MessageOrLiteral(in, "Hello %s")
	if m.DisplayText != "Hello %s" {
		t.Errorf("display = %q, want placeholders preserved", m.DisplayText)
	}
}

func TestStrictNamesMissingKey(t *testing.T) {
	r := NewResolver(testTable(t, `{en: {BYE: Bye}}`))
	_, err := r.Strict(testInput("en"), "MISSING_KEY")
	if err == nil {
		t.Fatal("expected error")
	}
	var missing *MissingKeyError
	if !errors.As(err, &missing) {
		t.Fatalf("error type = %T", err)
	}
	if missing.Key != "MISSING_KEY" {
		t.Errorf("key = %q", missing.Key)
	}
	if !strings.Contains(err.Error(), "MISSING_KEY") {
		t.Errorf("error does not name the key: %v", err)
	}
}

func TestHas(t *testing.T) {
	r := NewResolver(testTable(t, `{en: {BYE: Bye}}`))
	if !r.Has(testInput("en"), "BYE") {
		t.Error("expected Has = true")
	}
	if r.Has(testInput("en"), "NOPE") || r.Has(testInput("de"), "BYE") {
		t.Error("expected Has = false")
	}
}
