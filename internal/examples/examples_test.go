package examples_test

import (
	"testing"

	"github.com/valpere/codetran/internal/examples"
	"github.com/valpere/codetran/internal/language"
)

func TestAll_LanguagesAreRegistered(t *testing.T) {
	for _, p := range examples.All() {
		if _, ok := language.Lookup(p.Language); !ok {
			t.Errorf("example %q uses unregistered language %q", p.Title, p.Language)
		}
		if p.Code == "" {
			t.Errorf("example %q has no code", p.Title)
		}
	}
}

func TestGet_Bounds(t *testing.T) {
	if _, ok := examples.Get(-1); ok {
		t.Error("expected negative index to fail")
	}
	if _, ok := examples.Get(len(examples.All())); ok {
		t.Error("expected out-of-range index to fail")
	}
	p, ok := examples.Get(0)
	if !ok {
		t.Fatal("expected first example")
	}
	if p.Language != "java" {
		t.Errorf("expected first example in java, got %q", p.Language)
	}
}
