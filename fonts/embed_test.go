package fonts

import (
	"bytes"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadAcceptsPrefixes(t *testing.T) {
	for _, name := range []string{"goregular", "builtin:goregular", "embed:GoRegular.ttf"} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if !bytes.Equal(data, goregular.TTF) {
			t.Fatalf("Load(%q) returned the wrong font", name)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("builtin:comic-sans"); err == nil {
		t.Fatalf("expected error for unknown font")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != 5 || names[0] != "gobold" || names[4] != "goregular" {
		t.Fatalf("unexpected names %v", names)
	}
}
