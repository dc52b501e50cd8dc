package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"vtc-go/packages/compiler/src/ast"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--color=off"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeTree(t *testing.T, path string, root *ast.Element, format ast.Format) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, ast.Encode(f, root, format))
}

func el(tag string, children ...ast.Node) *ast.Element {
	e := ast.NewElement(tag, nil, nil, nil)
	e.Plain = true
	for _, c := range children {
		e.AppendChild(c)
	}
	return e
}

// sampleTree is <div><ul><li>a</li><li>b</li></ul><p>{{ msg }}</p></div>.
func sampleTree() *ast.Element {
	return el("div",
		el("ul", el("li", ast.NewText("a")), el("li", ast.NewText("b"))),
		el("p", ast.NewExpression("_s(msg)", "{{ msg }}", []any{ast.Binding("msg")})),
	)
}

func TestTagsCmd(t *testing.T) {
	out, err := run(t, "tags", "--format", "json", "div", "svg", "my-comp")
	require.NoError(t, err)
	var infos []tagInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 3)

	require.True(t, infos[0].NonPhrasing)
	require.True(t, infos[0].Reserved)
	require.Equal(t, "svg", infos[1].Namespace)
	require.False(t, infos[2].Reserved)
	require.Nil(t, infos[2].ClosesParent)

	out, err = run(t, "tags", "--parent", "p", "div", "span")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "closes <p>")
	require.NotContains(t, lines[1], "closes <p>")
}

func TestOptionsCmd(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "vtc.toml", `
[compiler]
whitespace = "condense"
delimiters = ["${", "}"]
comments = true

[bindings]
script_setup = true

[bindings.types]
count = "setup-ref"
`)

	out, err := run(t, "--config", cfg, "options", "--format", "json")
	require.NoError(t, err)
	var view optionsView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Equal(t, cfg, view.Config)
	require.Equal(t, "web", view.Platform)
	require.Equal(t, "condense", view.Whitespace)
	require.False(t, view.PreserveWhitespace)
	require.True(t, view.Optimize)
	require.Equal(t, [2]string{"${", "}"}, view.Delimiters)
	require.True(t, view.Comments)
	require.True(t, view.ExpectHTML)
	require.Equal(t, "staticClass,staticStyle", view.StaticKeys)
	require.Equal(t, []string{"html", "text"}, view.Directives)
	require.NotNil(t, view.Bindings)
	require.True(t, view.Bindings.IsScriptSetup)

	out, err = run(t, "--config", cfg, "options")
	require.NoError(t, err)
	require.Contains(t, out, "delimiters:         ${ }")
	require.Contains(t, out, "count: setup-ref")
}

func TestOptionsCmdErrors(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "vtc.toml", "")

	_, err := run(t, "--config", empty, "--platform", "weex", "options")
	require.ErrorContains(t, err, "unknown platform")

	bad := writeFile(t, dir, "bad.toml", "[compiler]\nwhitespace = \"squash\"\n")
	_, err = run(t, "--config", bad, "options")
	require.Error(t, err)

	_, err = run(t, "--color", "rainbow", "tags", "div")
	require.ErrorContains(t, err, "invalid --color value")
}

func TestASTCmds(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tree.json")
	writeTree(t, in, sampleTree(), ast.FormatJSON)
	bin := filepath.Join(dir, "tree.msgpack")

	_, err := run(t, "ast", "convert", in, bin)
	require.NoError(t, err)

	out, err := run(t, "ast", "dump", bin)
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"<div> type=1",
		"  <ul> type=1",
		"    <li> type=1",
		`      "a" type=3`,
		"    <li> type=1",
		`      "b" type=3`,
		"  <p> type=1",
		"    {{ msg }} type=2",
	}, "\n")+"\n", out)

	_, err = run(t, "ast", "dump", filepath.Join(dir, "tree.yaml"))
	require.ErrorContains(t, err, "unknown AST format")
}

func TestOptimizeCmd(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "vtc.toml", "")
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.msgpack")
	writeTree(t, a, sampleTree(), ast.FormatJSON)
	writeTree(t, b, sampleTree(), ast.FormatMsgpack)

	out, err := run(t, "--config", cfg, "--jobs", "2", "optimize", "--write", a, b)
	require.NoError(t, err)
	require.Contains(t, out, "== "+a)
	require.Contains(t, out, "== "+b)
	require.Equal(t, 2, strings.Count(out, "<ul> type=1 static static-root"))

	out, err = run(t, "ast", "dump", a)
	require.NoError(t, err)
	require.Contains(t, out, "<ul> type=1 static static-root", "--write must persist the markers")

	out, err = run(t, "--config", cfg, "optimize", "--ssr", filepath.Join(dir, "missing.json"), a)
	require.Error(t, err)
	require.Contains(t, out, "<div> type=1", "the readable file is still printed")
	require.Contains(t, out, "ssr=")
}

const prevDescriptor = `{
  "source": "",
  "filename": "App.vue",
  "template": {"type": "template", "content": "<div></div>", "attrs": {}, "start": 10, "end": 21},
  "scriptSetup": {
    "type": "script", "content": "import Foo from './Foo.vue'", "attrs": {"setup": true, "lang": "ts"},
    "start": 50, "end": 77, "lang": "ts", "setup": true,
    "imports": {"Foo": {"isType": false, "imported": "default", "source": "./Foo.vue", "isFromSetup": true, "isUsedInTemplate": false}}
  },
  "styles": [{"type": "style", "content": ".a { color: v-bind(color); width: v-bind('size.w') }", "attrs": {}, "start": 100, "end": 150}]
}`

const nextDescriptor = `{
  "source": "",
  "filename": "App.vue",
  "template": {"type": "template", "content": "<div><Foo /></div>", "attrs": {}, "start": 10, "end": 28},
  "scriptSetup": {
    "type": "script", "content": "import Foo from './Foo.vue'", "attrs": {"setup": true, "lang": "ts"},
    "start": 57, "end": 84, "lang": "ts", "setup": true,
    "imports": {"Foo": {"isType": false, "imported": "default", "source": "./Foo.vue", "isFromSetup": true, "isUsedInTemplate": true}}
  },
  "styles": []
}`

func TestSFCCmds(t *testing.T) {
	dir := t.TempDir()
	prev := writeFile(t, dir, "prev.json", prevDescriptor)
	next := writeFile(t, dir, "next.json", nextDescriptor)

	out, err := run(t, "sfc", "cssvars", "--format", "json", prev, next)
	require.NoError(t, err)
	var results []cssVarsResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Equal(t, []cssVarsResult{
		{File: prev, CSSVars: []string{"color", "size.w"}},
		{File: next, CSSVars: []string{}},
	}, results)

	out, err = run(t, "sfc", "cssvars", "--scope-id", "7ba5bd90", prev)
	require.NoError(t, err)
	require.Contains(t, out, "color -> --7ba5bd90-color")
	require.Contains(t, out, "size.w -> --7ba5bd90-size_w")

	out, err = run(t, "sfc", "reload", prev, next)
	require.NoError(t, err)
	require.Equal(t, "reload\n", out)

	out, err = run(t, "sfc", "reload", "--resolver", "template", next, next)
	require.NoError(t, err)
	require.Equal(t, "rerender\n", out)

	_, err = run(t, "sfc", "reload", "--resolver", "ast", prev, next)
	require.ErrorContains(t, err, "unknown resolver")
}

func TestValidateCmd(t *testing.T) {
	out, err := run(t, "validate", "my-comp", "MyButton")
	require.NoError(t, err)
	require.Contains(t, out, "ok my-comp (<my-comp>, MyComp)")
	require.Contains(t, out, "ok MyButton (<my-button>, MyButton)")

	out, err = run(t, "validate", "div", "1abc", "slot")
	require.ErrorContains(t, err, "3 of 3 component names are invalid")
	require.Equal(t, 3, strings.Count(out, "error:"))
	require.Contains(t, out, "1  |  1abc")
}

func TestOffendingRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
	}{
		{name: "1abc", start: 0, end: 1},
		{name: "ab cd", start: 2, end: 3},
		{name: "a€", start: 0, end: 4},
		{name: "éa", start: 0, end: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := offendingRange(tt.name)
			require.Equal(t, tt.start, start)
			require.Equal(t, tt.end, end)
		})
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version", "--format", "json", "--full")
	require.NoError(t, err)
	var p versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	require.Equal(t, "vtc-go", p.Tool)
	require.Equal(t, versionString(), p.Version)
	require.Equal(t, "unknown", p.GitCommit)

	out, err = run(t, "version")
	require.NoError(t, err)
	require.Equal(t, "vtc-go "+versionString()+"\n", out)
}
