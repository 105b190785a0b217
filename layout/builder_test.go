package layout

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/textnode/dsl"
)

func buildDocument(t *testing.T, text string, data any) *Input {
	t.Helper()
	doc, err := dsl.Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("解析文档失败: %v", err)
	}
	in, err := Build(doc, data, BuildOptions{})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	return in
}

const builderDoc = `node Card {
  resources {
    font Body { src: "builtin:goregular" size: 12pt }
    font Title { src: "builtin:gobold" size: 5mm style: "bold" }
    color Accent = #0F62FE
  }
  layout {
    width: 240
    height: 1in
    max-lines: 2
    truncate: start
    selected: true
    background: #fff
    cutout top-right 40pt 30pt
  }
  text {
    span Title color Accent selected-color #ffffff { "Hi ${user.name}. " }
    span Body size 10pt { "Welcome back" }
    " and more"
  }
}`

func TestBuildMapsLayoutSection(t *testing.T) {
	in := buildDocument(t, builderDoc, nil)
	want := Constraints{
		MaxLines:   2,
		Truncation: TruncateStart,
		Size:       Size{Width: 240, Height: 72},
		Cutout:     &Cutout{Position: TopRight, Size: Size{Width: 40, Height: 30}},
		Selected:   true,
	}
	if !in.Constraints.Equal(want) {
		t.Fatalf("constraints mismatch:\n%s", cmp.Diff(want, in.Constraints))
	}
	if in.Background == nil || *in.Background != (Color{R: 255, G: 255, B: 255}) {
		t.Fatalf("unexpected background %+v", in.Background)
	}
	if in.Name != "Card" {
		t.Fatalf("unexpected name %q", in.Name)
	}
}

func TestBuildStyledRuns(t *testing.T) {
	var data any
	if err := json.Unmarshal([]byte(`{"user":{"name":"Ada"}}`), &data); err != nil {
		t.Fatal(err)
	}
	in := buildDocument(t, builderDoc, data)
	runs := in.Text.Runs()
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].Text != "Hi Ada. " {
		t.Fatalf("binding not applied: %q", runs[0].Text)
	}
	title := runs[0].Attrs
	if title.Font == nil || title.Font.Src != "builtin:gobold" || title.Font.Style != "bold" {
		t.Fatalf("unexpected title font %+v", title.Font)
	}
	if diff := title.Font.Size - 5*MmToPt; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("title size %g, want %g", title.Font.Size, 5*MmToPt)
	}
	if *title.Foreground != (Color{R: 0x0F, G: 0x62, B: 0xFE}) || *title.SelectedColor != (Color{R: 255, G: 255, B: 255}) {
		t.Fatalf("unexpected colors %+v / %+v", title.Foreground, title.SelectedColor)
	}
	if body := runs[1].Attrs.Font; body == nil || body.Name != "Body" || body.Size != 10 {
		t.Fatalf("span size override not applied: %+v", body)
	}
	if runs[2].Attrs.Font != nil || runs[2].Text != " and more" {
		t.Fatalf("bare literal should carry no attributes: %+v", runs[2])
	}
	if in.Text.String() != "Hi Ada. Welcome back and more" {
		t.Fatalf("unexpected text %q", in.Text.String())
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown font":  `node N { text { span Missing { "x" } } }`,
		"bad truncate":  `node N { layout { truncate: sideways } }`,
		"bad max-lines": `node N { layout { max-lines: many } }`,
		"bad cutout":    `node N { layout { cutout bottom 4 4 } }`,
	}
	for name, src := range cases {
		doc, err := dsl.ParseString(src)
		if err != nil {
			t.Fatalf("%s: parse failed: %v", name, err)
		}
		if _, err := Build(doc, nil, BuildOptions{}); err == nil {
			t.Fatalf("%s: expected build error", name)
		}
	}
	if _, err := Build(nil, nil, BuildOptions{}); err == nil {
		t.Fatalf("nil document should fail")
	}
}

func TestBuildWithoutTextYieldsNilText(t *testing.T) {
	in := buildDocument(t, `node Empty { layout { width: 10 } }`, nil)
	if in.Text != nil {
		t.Fatalf("expected nil text, got %q", in.Text.String())
	}
}
