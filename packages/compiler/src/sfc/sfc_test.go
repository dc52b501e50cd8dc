package sfc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const componentSource = `<template>
  <div :style="{ color }">{{ msg }}</div>
</template>

<script setup lang="ts">
import Foo from './Foo.vue'
const msg = 'hi'
</script>

<style scoped>
  .a { color: v-bind(color); }
  /* .b { color: v-bind(ignored); } */
  .c { font-size: v-bind('theme.size'); }
  .d { color: v-bind(color); }
</style>
`

// addBlock finds the first <tag ...> of the source and registers its
// content span as a block.
func addBlock(t *testing.T, d *Descriptor, tag string, attrs ...BlockAttr) *Block {
	t.Helper()
	open := strings.Index(d.Source, "<"+tag)
	require.GreaterOrEqual(t, open, 0)
	start := open + strings.Index(d.Source[open:], ">") + 1
	end := start + strings.Index(d.Source[start:], "</"+tag+">")
	b := NewBlock(tag, attrs, start, end)
	d.FillContent(b, ParseOptions{})
	d.AddBlock(b)
	return b
}

func TestNewBlock(t *testing.T) {
	b := NewBlock("style", []BlockAttr{
		{Name: "lang", Value: "scss"},
		{Name: "scoped"},
		{Name: "module", Value: "classes"},
		{Name: "src", Value: "./a.scss"},
	}, 10, 20)
	require.Equal(t, "scss", b.Lang)
	require.True(t, b.Scoped)
	require.Equal(t, &ModuleRef{Name: "classes"}, b.Module)
	require.Equal(t, "./a.scss", b.Src)
	require.Equal(t, TrueAttr, b.Attrs["scoped"])
	require.Equal(t, StringAttr("scss"), b.Attrs["lang"])

	bare := NewBlock("style", []BlockAttr{{Name: "module"}}, 0, 0)
	require.True(t, bare.Module.Default)

	custom := NewBlock("i18n", []BlockAttr{{Name: "lang", Value: "json"}}, 0, 0)
	require.Empty(t, custom.Lang, "custom blocks keep lang only in attrs")
	require.Equal(t, StringAttr("json"), custom.Attrs["lang"])
}

func TestAddBlock(t *testing.T) {
	d := NewDescriptor("", componentSource)
	require.Equal(t, DefaultFilename, d.Filename)

	addBlock(t, d, "template")
	addBlock(t, d, "script", BlockAttr{Name: "setup"}, BlockAttr{Name: "lang", Value: "ts"})
	addBlock(t, d, "style", BlockAttr{Name: "scoped"})
	d.AddBlock(NewBlock("docs", nil, 0, 0))

	require.NotNil(t, d.Template)
	require.Equal(t, "<div :style=\"{ color }\">{{ msg }}</div>\n", strings.TrimPrefix(d.Template.Content, "\n"))
	require.Nil(t, d.Script)
	require.NotNil(t, d.ScriptSetup)
	require.Equal(t, TrueAttr, *d.ScriptSetup.Setup)
	require.Equal(t, "ts", d.ScriptSetup.Lang)
	require.Len(t, d.Styles, 1)
	require.Len(t, d.CustomBlocks, 1)
	require.Equal(t, "docs", d.CustomBlocks[0].Type)
	require.Empty(t, d.Errors)

	second := NewBlock("TEMPLATE", nil, 3, 9)
	d.AddBlock(second)
	d.AddBlock(NewBlock("script", []BlockAttr{{Name: "setup"}}, 1, 2))
	require.Same(t, second, d.Template)
	require.Len(t, d.Errors, 2)
	require.Equal(t, "Single file component can contain only one <template> element", d.Errors[0].Msg)
	require.Equal(t, 3, *d.Errors[0].Start)
	require.Equal(t, "Single file component can contain only one <script setup> element", d.Errors[1].Msg)
}

func TestFillContent(t *testing.T) {
	src := "<template>\n  <p/>\n</template>\n<script>\n  export default {}\n</script>"
	d := NewDescriptor("A.vue", src)
	start := strings.Index(src, "<script>") + len("<script>")
	end := strings.Index(src, "</script>")

	tests := []struct {
		name string
		opts ParseOptions
		lang string
		want string
	}{
		{name: "deindent", want: "\nexport default {}\n"},
		{name: "pad line", opts: ParseOptions{Pad: PadLine}, want: "//\n//\n//\n\nexport default {}\n"},
		{name: "pad line ts", opts: ParseOptions{Pad: PadLine}, lang: "ts", want: "\n\n\n\nexport default {}\n"},
		{name: "pad space", opts: ParseOptions{Pad: PadSpace}, want: strings.Repeat(" ", 10) + "\n" + strings.Repeat(" ", 6) + "\n" + strings.Repeat(" ", 11) + "\n" + strings.Repeat(" ", 8) + "\nexport default {}\n"},
		{name: "no deindent", opts: ParseOptions{Deindent: new(bool)}, want: "\n  export default {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBlock("script", nil, start, end)
			b.Lang = tt.lang
			d.FillContent(b, tt.opts)
			if diff := cmp.Diff(tt.want, b.Content); diff != "" {
				t.Errorf("Content mismatch (-want +got):\n%s", diff)
			}
		})
	}

	tmpl := NewBlock("template", []BlockAttr{{Name: "lang", Value: "pug"}}, 10, 18)
	d.FillContent(tmpl, ParseOptions{Pad: PadLine})
	require.Equal(t, "\n  <p/>\n", tmpl.Content, "non-HTML templates keep indentation and are never padded")
}

func TestDeindent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "no indent\n  x", want: "no indent\n  x"},
		{in: "\n    a\n      b\n\n    c", want: "\na\n  b\n\nc"},
		{in: "\t\ta\n\tb", want: "\ta\nb"},
		{in: "  a\r\n  b", want: "a\nb"},
		{in: "  \n  ", want: "\n"},
	}
	for _, tt := range tests {
		if got := Deindent(tt.in); got != tt.want {
			t.Errorf("Deindent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseCSSVars(t *testing.T) {
	d := NewDescriptor("App.vue", componentSource)
	addBlock(t, d, "style")
	d.AddBlock(&Block{CustomBlock: CustomBlock{Type: "style", Content: `.e { width: v-bind("calc(a + (b))"); } .f { color: v-bind ( 'x' ) } .g { v-bind(unclosed`}})

	got := d.ResolveCSSVars()
	want := []string{"color", "theme.size", "calc(a + (b))", "x"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseCSSVars() mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, want, d.CSSVars)

	require.Empty(t, ParseCSSVars(NewDescriptor("", "")))
	require.Equal(t, "7ba5bd90-theme_size", CSSVarName("7ba5bd90", "theme.size"))
}

func TestNormalizeExpression(t *testing.T) {
	tests := map[string]string{
		" color ": "color",
		`'a b'`:   "a b",
		`"q"`:     "q",
		`'`:       "",
		`'mixed"`: `'mixed"`,
		"":        "",
		"fn('x')": "fn('x')",
	}
	for in, want := range tests {
		if got := normalizeExpression(in); got != want {
			t.Errorf("normalizeExpression(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestShouldForceReload(t *testing.T) {
	newDescriptor := func(lang string, used bool) *Descriptor {
		d := NewDescriptor("App.vue", "")
		setup := TrueAttr
		d.ScriptSetup = &ScriptBlock{
			Block:   Block{CustomBlock: CustomBlock{Type: "script"}, Lang: lang},
			Setup:   &setup,
			Imports: map[string]ImportBinding{"Foo": {Imported: "default", Source: "./Foo.vue", IsFromSetup: true, IsUsedInTemplate: used}},
		}
		return d
	}
	unused := map[string]ImportBinding{"Foo": {Imported: "default", Source: "./Foo.vue", IsFromSetup: true}}
	used := map[string]ImportBinding{"Foo": {Imported: "default", Source: "./Foo.vue", IsFromSetup: true, IsUsedInTemplate: true}}

	tests := []struct {
		name string
		next *Descriptor
		prev map[string]ImportBinding
		want bool
	}{
		{name: "newly used in ts", next: newDescriptor("ts", true), prev: unused, want: true},
		{name: "newly used in tsx", next: newDescriptor("tsx", true), prev: unused, want: true},
		{name: "still unused", next: newDescriptor("ts", false), prev: unused},
		{name: "already used", next: newDescriptor("ts", true), prev: used},
		{name: "plain js", next: newDescriptor("", true), prev: unused},
		{name: "no script setup", next: NewDescriptor("App.vue", ""), prev: unused},
		{name: "unknown import", next: newDescriptor("ts", true), prev: map[string]ImportBinding{"Bar": {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.next.ShouldForceReload(tt.prev); got != tt.want {
				t.Errorf("ShouldForceReload() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTemplateTextUsageResolver(t *testing.T) {
	d := NewDescriptor("App.vue", "")
	d.Template = &Block{CustomBlock: CustomBlock{Type: "template", Content: `<my-button :label="labelText" /><span>{{ $t('x') }}</span>`}}

	require.True(t, TemplateTextUsageResolver.IsImportUsed("MyButton", d))
	require.True(t, TemplateTextUsageResolver.IsImportUsed("labelText", d))
	require.False(t, TemplateTextUsageResolver.IsImportUsed("Text", d))
	require.False(t, TemplateTextUsageResolver.IsImportUsed("t", d))
	require.False(t, TemplateTextUsageResolver.IsImportUsed("Other", d))

	setup := TrueAttr
	d.ScriptSetup = &ScriptBlock{Block: Block{Lang: "ts"}, Setup: &setup}
	d.UsageResolver = TemplateTextUsageResolver
	require.True(t, d.ShouldForceReload(map[string]ImportBinding{"MyButton": {}}))
}

func TestDescriptorJSON(t *testing.T) {
	raw := `{
  "source": "<template><p/></template>\n<style module>\n  .a { color: v-bind(c) }\n</style>",
  "filename": "",
  "template": {"type": "template", "content": "<p/>", "attrs": {}, "start": 10, "end": 14},
  "script": null,
  "scriptSetup": {"type": "script", "content": "", "attrs": {"setup": true, "lang": "ts"}, "start": 0, "end": 0,
    "lang": "ts", "setup": true, "bindings": {"c": "setup-const", "__isScriptSetup": true},
    "imports": {"Foo": {"isType": false, "imported": "default", "source": "./Foo.vue", "isFromSetup": true, "isUsedInTemplate": false}}},
  "styles": [{"type": "style", "content": "", "attrs": {"module": true}, "start": 40, "end": 67, "module": true}],
  "customBlocks": [],
  "cssVars": [],
  "errors": ["plain error", {"msg": "ranged", "start": 1, "end": 2}]
}`
	d, err := DecodeDescriptor(strings.NewReader(raw), ParseOptions{})
	require.NoError(t, err)
	require.Equal(t, DefaultFilename, d.Filename)
	require.Equal(t, "<p/>", d.Template.Content)
	require.Equal(t, TrueAttr, *d.ScriptSetup.Setup)
	require.True(t, d.ScriptSetup.Bindings.IsScriptSetup)
	require.Equal(t, "./Foo.vue", d.ScriptSetup.Imports["Foo"].Source)
	require.Equal(t, &ModuleRef{Default: true}, d.Styles[0].Module)
	require.Equal(t, "\n.a { color: v-bind(c) }\n", d.Styles[0].Content)
	require.Equal(t, []string{"c"}, d.ResolveCSSVars())
	require.Len(t, d.Errors, 2)
	require.False(t, d.Errors[0].HasRange())

	out, err := json.Marshal(d.Styles[0])
	require.NoError(t, err)
	require.Contains(t, string(out), `"module":true`)
	require.Contains(t, string(out), `"attrs":{"module":true}`)

	path := filepath.Join(t.TempDir(), "App.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	loaded, err := LoadDescriptor(path, ParseOptions{})
	require.NoError(t, err)
	require.Equal(t, d.Source, loaded.Source)

	_, err = LoadDescriptor(filepath.Join(t.TempDir(), "missing.json"), ParseOptions{})
	require.Error(t, err)
	_, err = DecodeDescriptor(strings.NewReader(`{"styles":[{"attrs":{"scoped":false}}]}`), ParseOptions{})
	require.Error(t, err)
}

func TestDecodeCustomBlocks(t *testing.T) {
	src := "<p/>\n<i18n>\n  {\"en\": {}}\n</i18n>\n<docs>kept</docs>"
	start := strings.Index(src, "<i18n>") + len("<i18n>")
	end := strings.Index(src, "</i18n>")
	raw, err := json.Marshal(map[string]any{
		"source": src,
		"customBlocks": []map[string]any{
			{"type": "i18n", "attrs": map[string]any{}, "start": start, "end": end},
			{"type": "docs", "content": "given", "attrs": map[string]any{}, "start": 0, "end": 4},
		},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		opts ParseOptions
		want string
	}{
		{name: "deindent", want: "\n{\"en\": {}}\n"},
		{name: "pad line", opts: ParseOptions{Pad: PadLine}, want: "\n\n{\"en\": {}}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DecodeDescriptor(strings.NewReader(string(raw)), tt.opts)
			require.NoError(t, err)
			require.Len(t, d.CustomBlocks, 2)
			require.Equal(t, tt.want, d.CustomBlocks[0].Content)
			require.Equal(t, "given", d.CustomBlocks[1].Content, "existing content is not overwritten")
		})
	}
}

func TestPadJSON(t *testing.T) {
	var opts ParseOptions
	require.NoError(t, json.Unmarshal([]byte(`{"pad":true}`), &opts))
	require.Equal(t, PadLine, opts.Pad)
	require.NoError(t, json.Unmarshal([]byte(`{"pad":"space","deindent":false}`), &opts))
	require.Equal(t, PadSpace, opts.Pad)
	require.False(t, *opts.Deindent)
	require.Error(t, json.Unmarshal([]byte(`{"pad":"tab"}`), &opts))
}
