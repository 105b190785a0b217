package binding

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var data any
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return data
}

func TestInterpolateNestedPaths(t *testing.T) {
	data := decode(t, `{"user":{"name":"Ada","tags":["a","b"]},"count":3}`)
	got := Interpolate("Hi ${user.name} (${user.tags[1]}) x${count}", data)
	if want := "Hi Ada (b) x3"; got != want {
		t.Fatalf("Interpolate = %q, want %q", got, want)
	}
}

func TestResolveReportsMissing(t *testing.T) {
	data := decode(t, `{"user":{"name":"Ada"}}`)
	res := Resolve("${user.name} ${user.age} ${items[4]}", data)
	if res.Text != "Ada ${user.age} ${items[4]}" {
		t.Fatalf("unexpected text %q", res.Text)
	}
	if diff := cmp.Diff([]string{"user.age", "items[4]"}, res.Missing); diff != "" {
		t.Fatalf("missing paths mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpolateWithoutData(t *testing.T) {
	if got := Interpolate("keep ${x}", nil); got != "keep ${x}" {
		t.Fatalf("expected placeholder kept, got %q", got)
	}
}
