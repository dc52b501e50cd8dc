package compiler

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vtc-go/packages/compiler/src/ast"
	"vtc-go/packages/compiler/src/config"
	"vtc-go/packages/compiler/src/schema"
	"vtc-go/packages/compiler/src/sfc"
	"vtc-go/packages/compiler/src/util"
)

func el(tag string, children ...ast.Node) *ast.Element {
	e := ast.NewElement(tag, nil, nil, nil)
	e.Plain = true
	for _, c := range children {
		e.AppendChild(c)
	}
	return e
}

// fakeParse builds <ul><li>a</li><li>b</li></ul> for any non-empty
// template, warning at every "oops" and tipping at every "hint".
func fakeParse(seen *string) ParseFunc {
	return func(template string, opts *config.CompilerOptions) *ast.Element {
		*seen = template
		if template == "" {
			return nil
		}
		if i := strings.Index(template, "oops"); i >= 0 {
			opts.Warn(util.NewRangedWarning("oops found", i, i+4), false)
		}
		if strings.Contains(template, "hint") {
			opts.Warn(util.NewWarning("consider something"), true)
		}
		return el("ul", el("li", ast.NewText("a")), el("li", ast.NewText("b")))
	}
}

func fakeGenerate(root *ast.Element, _ *config.CompilerOptions) Generated {
	if root == nil {
		return Generated{Render: `with(this){return _c("div")}`}
	}
	g := Generated{Render: "with(this){return _c('" + root.Tag + "')}"}
	if root.StaticRoot {
		g.StaticRenderFns = []string{"with(this){return _m(0)}"}
	}
	return g
}

func webOptions() *config.CompilerOptions {
	return config.New(schema.WebOptions()...)
}

func TestBaseCompile(t *testing.T) {
	var seen string
	base := NewBaseCompile(fakeParse(&seen), fakeGenerate)

	t.Run("optimizes by default", func(t *testing.T) {
		res := base("  <ul/>\n", webOptions())
		if seen != "<ul/>" {
			t.Errorf("parse got %q, want trimmed template", seen)
		}
		if !res.AST.StaticRoot {
			t.Error("root must be marked as static root")
		}
		got := *res
		got.AST = nil
		want := CompiledResult{
			Render:          "with(this){return _c('ul')}",
			StaticRenderFns: []string{"with(this){return _m(0)}"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("optimize disabled", func(t *testing.T) {
		opts := webOptions()
		config.WithOptimize(false)(opts)
		res := base("<ul/>", opts)
		if res.AST.Static || res.AST.StaticRoot {
			t.Error("optimizer ran with optimize disabled")
		}
	})

	t.Run("empty template", func(t *testing.T) {
		res := base("   ", nil)
		if res.AST != nil {
			t.Errorf("AST = %v, want nil", res.AST)
		}
		if res.Render == "" {
			t.Error("generate must still run for an empty template")
		}
	})
}

func TestSSRBaseCompile(t *testing.T) {
	var seen string
	res := NewSSRBaseCompile(fakeParse(&seen), fakeGenerate)("<ul/>", webOptions())
	if res.AST.SSROptimizability == nil {
		t.Fatal("SSR optimizer did not run")
	}
	if res.AST.StaticRoot {
		t.Error("client optimizer ran for SSR")
	}
}

func TestCompilerCollectsWarnings(t *testing.T) {
	var seen string
	c := CreateCompiler(NewBaseCompile(fakeParse(&seen), fakeGenerate), webOptions())
	template := "  \n<div>oops hint</div>"

	t.Run("without source range", func(t *testing.T) {
		res := c.Compile(template, nil)
		if diff := cmp.Diff([]util.WarningMessage{util.NewRangedWarning("oops found", 5, 9)}, res.Errors); diff != "" {
			t.Errorf("Errors mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]util.WarningMessage{util.NewWarning("consider something")}, res.Tips); diff != "" {
			t.Errorf("Tips mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("with source range", func(t *testing.T) {
		res := c.Compile(template, config.Overrides(config.WithOutputSourceRange(true)))
		if diff := cmp.Diff([]util.WarningMessage{util.NewRangedWarning("oops found", 8, 12)}, res.Errors); diff != "" {
			t.Errorf("Errors mismatch (-want +got):\n%s", diff)
		}
		if got := res.Errors[0].ContextualMessage(template); !strings.Contains(got, "oops") {
			t.Errorf("shifted range does not point into the template:\n%s", got)
		}
		if diff := cmp.Diff([]util.WarningMessage{util.NewWarning("consider something")}, res.Tips); diff != "" {
			t.Errorf("Tips mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("calls are independent", func(t *testing.T) {
		res := c.Compile("<ul/>", nil)
		if len(res.Errors) != 0 || len(res.Tips) != 0 {
			t.Errorf("warnings leaked between calls: %v %v", res.Errors, res.Tips)
		}
	})
}

func TestCompilerMergesOptions(t *testing.T) {
	var got *config.CompilerOptions
	base := func(template string, opts *config.CompilerOptions) *CompiledResult {
		got = opts
		return nil
	}
	baseOptions := webOptions()
	c := CreateCompiler(base, baseOptions)

	res := c.Compile("<div/>", config.Overrides(config.WithDelimiters("${", "}"), config.WithModules(&config.ModuleOptions{})))
	if res == nil {
		t.Fatal("Compile() returned nil for a nil base result")
	}
	if got.DelimitersOrDefault() != [2]string{"${", "}"} {
		t.Errorf("delimiters = %v", got.DelimitersOrDefault())
	}
	if !got.ExpectHTML || !got.IsReservedTag("div") {
		t.Error("base options were not kept")
	}
	if len(got.Modules) != len(baseOptions.Modules)+1 {
		t.Errorf("modules = %d, want base plus one", len(got.Modules))
	}
	if len(c.BaseOptions().Modules) != len(baseOptions.Modules) {
		t.Error("Compile() modified the base options")
	}
}

func TestCompilerSSRAndComponents(t *testing.T) {
	var seen string
	parse := fakeParse(&seen)
	c := CreateCompiler(NewBaseCompile(parse, fakeGenerate), webOptions())
	if res := c.SSRCompile("<ul/>", nil); res.AST.SSROptimizability != nil {
		t.Error("SSRCompile without an SSR base must fall back to Compile")
	}
	d := c.ParseComponent("<template><div/></template>", sfc.ParseOptions{})
	if d.Filename != sfc.DefaultFilename || d.Template != nil {
		t.Errorf("default ParseComponent() = %+v", d)
	}

	c = CreateCompiler(NewBaseCompile(parse, fakeGenerate), webOptions(),
		WithSSR(NewSSRBaseCompile(parse, fakeGenerate)),
		WithComponentParser(func(source string, _ sfc.ParseOptions) *sfc.Descriptor {
			d := sfc.NewDescriptor("App.vue", source)
			d.AddBlock(sfc.NewBlock("template", nil, 10, 16))
			return d
		}),
	)
	if res := c.SSRCompile("<ul/>", nil); res.AST.SSROptimizability == nil {
		t.Error("SSRCompile did not use the SSR base")
	}
	if d := c.ParseComponent("<template><div/></template>", sfc.ParseOptions{}); d.Template == nil {
		t.Error("component parser not used")
	}
}

func TestCompileCache(t *testing.T) {
	var calls atomic.Int32
	cache := NewCompileCache(func(template string, _ *config.CompilerOptions) *CompiledResult {
		calls.Add(1)
		return &CompiledResult{Render: template}
	})

	first := cache.Compile("<div/>", nil)
	if again := cache.Compile("<div/>", config.New()); again != first {
		t.Error("cached result not reused")
	}
	if calls.Load() != 1 {
		t.Errorf("compile calls = %d, want 1", calls.Load())
	}
	if other := cache.Compile("<div/>", config.New(config.WithDelimiters("${", "}"))); other == first {
		t.Error("delimiters must be part of the key")
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Compile("<p/>", nil)
		}()
	}
	wg.Wait()
	if calls.Load() != 3 {
		t.Errorf("compile calls = %d, want 3", calls.Load())
	}
	if cache.Len() != 3 {
		t.Errorf("Len() = %d, want 3", cache.Len())
	}
	cache.Reset()
	if cache.Len() != 0 {
		t.Errorf("Len() after Reset() = %d", cache.Len())
	}
}
