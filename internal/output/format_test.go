package output

import (
	"bytes"
	"strings"
	"testing"

	"todo/internal/config"
	"todo/internal/store"
)

func TestFormatTask(t *testing.T) {
	var buf bytes.Buffer
	st := NewStyles(&buf, config.DefaultSettings().Output)

	FormatTask(&buf, st, 1, store.Task{Name: "buy milk"})
	FormatTask(&buf, st, 12, store.Task{Name: "call mom", Checked: true})

	want := "   1  [ ] buy milk\n  12  [x] call mom\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatTaskIndented(t *testing.T) {
	var buf bytes.Buffer
	FormatTaskIndented(&buf, PlainStyles(), 3, store.Task{Name: "line\nbreak"})

	want := "       3  [ ] line break\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatListHeader(t *testing.T) {
	var buf bytes.Buffer
	FormatListHeader(&buf, PlainStyles(), "work", true)

	want := ListSeparator + "\nwork [default]\n" + ListSeparator + "\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatListName(t *testing.T) {
	var buf bytes.Buffer
	FormatListName(&buf, PlainStyles(), "home", false)
	FormatListName(&buf, PlainStyles(), "  ", false)

	if buf.String() != "home\n(untitled)\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestErrorf(t *testing.T) {
	var buf bytes.Buffer
	st := NewStyles(&buf, config.DefaultSettings().Output)
	Errorf(&buf, st, "list not found: %s", "work")

	if buf.String() != "error: list not found: work\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestEncode(t *testing.T) {
	v := []store.Task{{Name: "a", Checked: true}}

	var j bytes.Buffer
	if err := Encode(&j, FormatJSON, v); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(j.String(), `"name": "a"`) || !strings.Contains(j.String(), `"checked": true`) {
		t.Errorf("unexpected json %q", j.String())
	}

	var y bytes.Buffer
	if err := Encode(&y, FormatYAML, v); err != nil {
		t.Fatal(err)
	}
	if y.String() != "- name: a\n  checked: true\n" {
		t.Errorf("unexpected yaml %q", y.String())
	}

	if err := Encode(&bytes.Buffer{}, "xml", v); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"text", "json", "yaml"} {
		if !ValidFormat(f) {
			t.Errorf("%s should be valid", f)
		}
	}
	if ValidFormat("csv") {
		t.Error("csv should be invalid")
	}
}
