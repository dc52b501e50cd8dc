package config

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vtc-go/packages/compiler/src/ast"
	"vtc-go/packages/compiler/src/util"
)

func TestNewNormalizes(t *testing.T) {
	o := New()
	if o.IsUnaryTag("br") || o.CanBeLeftOpenTag("p") || o.IsReservedTag("div") || o.IsPreTag("pre") {
		t.Error("default classifiers must answer false")
	}
	if o.MustUseProp("input", "checkbox", "checked") {
		t.Error("default MustUseProp must answer false")
	}
	if ns := o.GetTagNamespace("svg"); ns != "" {
		t.Errorf("default GetTagNamespace() = %q, want empty", ns)
	}
	o.Warn(util.NewWarning("ignored"), false)
	if !o.ShouldOptimize() {
		t.Error("optimize must default to true")
	}
	if !o.ShouldPreserveWhitespace() {
		t.Error("preserveWhitespace must default to true")
	}
	if diff := cmp.Diff([2]string{"{{", "}}"}, o.DelimitersOrDefault()); diff != "" {
		t.Errorf("DelimitersOrDefault() mismatch (-want +got):\n%s", diff)
	}
}

func TestOptions(t *testing.T) {
	isPre := util.MakeMap("pre", true)
	o := New(
		WithOptimize(false),
		WithWhitespace(WhitespaceCondense),
		WithDelimiters("${", "}"),
		WithComments(true),
		WithScopeID("data-v-1"),
		WithIsPreTag(isPre),
		WithStaticKeys("staticClass"),
	)
	if o.ShouldOptimize() {
		t.Error("ShouldOptimize() = true after WithOptimize(false)")
	}
	if o.ShouldPreserveWhitespace() {
		t.Error("condense must imply no preserveWhitespace")
	}
	if !o.IsPreTag("PRE") {
		t.Error("IsPreTag not installed")
	}
	if o.DelimitersOrDefault() != [2]string{"${", "}"} {
		t.Errorf("DelimitersOrDefault() = %v", o.DelimitersOrDefault())
	}
	if !o.Comments || o.ScopeID != "data-v-1" || o.StaticKeys != "staticClass" {
		t.Errorf("options not applied: %+v", o)
	}

	explicit := New(WithWhitespace(WhitespaceCondense), WithPreserveWhitespace(true))
	if !explicit.ShouldPreserveWhitespace() {
		t.Error("explicit preserveWhitespace must win")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{name: "defaults", opts: nil},
		{name: "preserve", opts: []Option{WithWhitespace(WhitespacePreserve)}},
		{name: "unknown whitespace", opts: []Option{WithWhitespace("squash")}, wantErr: true},
		{name: "empty delimiter", opts: []Option{WithDelimiters("", "}}")}, wantErr: true},
		{name: "nil module", opts: []Option{WithModules(nil)}, wantErr: true},
		{
			name:    "bad binding",
			opts:    []Option{WithBindings(&BindingMetadata{Bindings: map[string]BindingTypes{"x": "weird"}})},
			wantErr: true,
		},
		{
			name: "good binding",
			opts: []Option{WithBindings(&BindingMetadata{Bindings: map[string]BindingTypes{"x": BindingSetupRef}})},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.opts...).Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOption) {
					t.Errorf("Validate() = %v, want ErrInvalidOption", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	m1 := &ModuleOptions{StaticKeys: []string{"staticClass"}}
	m2 := &ModuleOptions{StaticKeys: []string{"staticStyle"}}
	baseDir := func(*ast.Element, *ast.Directive, WarnFunc) bool { return true }
	overrideDir := func(*ast.Element, *ast.Directive, WarnFunc) bool { return false }

	base := New(
		WithModules(m1),
		WithDirective("model", baseDir),
		WithDirective("html", baseDir),
		WithExpectHTML(true),
		WithIsReservedTag(util.MakeMap("div", false)),
	)
	override := &CompilerOptions{
		Modules:    []*ModuleOptions{m2},
		Directives: map[string]DirectiveFunc{"model": overrideDir},
		Whitespace: WhitespaceCondense,
		Comments:   true,
	}
	merged := Merge(base, override)

	if len(merged.Modules) != 2 || merged.Modules[0] != m1 || merged.Modules[1] != m2 {
		t.Errorf("Modules = %v, want base then override", merged.Modules)
	}
	if merged.Directives["model"](nil, nil, nil) {
		t.Error("override directive must win")
	}
	if !merged.Directives["html"](nil, nil, nil) {
		t.Error("base directive must be kept")
	}
	if merged.Whitespace != WhitespaceCondense || !merged.Comments || !merged.ExpectHTML {
		t.Errorf("flags not merged: %+v", merged)
	}
	if !merged.IsReservedTag("div") {
		t.Error("base classifier must be kept when override leaves it unset")
	}
	if len(base.Modules) != 1 || len(base.Directives) != 2 {
		t.Error("Merge() modified base")
	}
	if got := GenStaticKeys(merged.Modules); got != "staticClass,staticStyle" {
		t.Errorf("GenStaticKeys() = %q", got)
	}

	if got := Merge(nil, nil); got == nil {
		t.Error("Merge(nil, nil) = nil")
	}
}

func TestBindingMetadata(t *testing.T) {
	b := &BindingMetadata{Bindings: map[string]BindingTypes{"count": BindingSetupRef, "msg": BindingProps}, IsScriptSetup: true}
	if typ, ok := b.Lookup("count"); !ok || typ != BindingSetupRef {
		t.Errorf("Lookup(count) = %q, %v", typ, ok)
	}
	if _, ok := b.Lookup("missing"); ok {
		t.Error("Lookup(missing) = ok")
	}
	var nilMeta *BindingMetadata
	if _, ok := nilMeta.Lookup("count"); ok {
		t.Error("nil Lookup() = ok")
	}
	if !BindingSetupRef.IsSetup() || BindingProps.IsSetup() {
		t.Error("IsSetup() mismatch")
	}
	err := (&BindingMetadata{Bindings: map[string]BindingTypes{"x": "ref"}}).Validate()
	if !errors.Is(err, ErrUnknownBindingType) {
		t.Errorf("Validate() = %v, want ErrUnknownBindingType", err)
	}
}

func TestBindingMetadataJSON(t *testing.T) {
	var b BindingMetadata
	if err := json.Unmarshal([]byte(`{"count":"setup-ref","msg":"props","__isScriptSetup":true}`), &b); err != nil {
		t.Fatalf("Unmarshal() = %v", err)
	}
	want := BindingMetadata{Bindings: map[string]BindingTypes{"count": BindingSetupRef, "msg": BindingProps}, IsScriptSetup: true}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}
	out, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal() = %v", err)
	}
	if string(out) != `{"__isScriptSetup":true,"count":"setup-ref","msg":"props"}` {
		t.Errorf("Marshal() = %s", out)
	}
	if err := json.Unmarshal([]byte(`{"x":1}`), &b); err == nil {
		t.Error("Unmarshal() accepted a non-string binding type")
	}
}

func TestOverridesKeepBaseCallbacks(t *testing.T) {
	base := New(WithIsReservedTag(util.MakeMap("div", false)))
	o := Overrides(WithComments(true))
	if o.IsReservedTag != nil || o.Warn != nil {
		t.Fatal("Overrides() must not normalize")
	}
	merged := Merge(base, o)
	if !merged.IsReservedTag("div") || !merged.Comments {
		t.Errorf("Merge(base, Overrides()) = %+v", merged)
	}
}
