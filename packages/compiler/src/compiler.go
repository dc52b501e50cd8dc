package compiler

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/sync/singleflight"

	"vtc-go/packages/compiler/src/ast"
	"vtc-go/packages/compiler/src/config"
	"vtc-go/packages/compiler/src/optimizer"
	"vtc-go/packages/compiler/src/sfc"
	"vtc-go/packages/compiler/src/util"
)

// CompiledResult is the output of compiling one template.
type CompiledResult struct {
	AST             *ast.Element          `json:"ast"`
	Render          string                `json:"render"`
	StaticRenderFns []string              `json:"staticRenderFns"`
	StringRenderFns []string              `json:"stringRenderFns,omitempty"`
	Errors          []util.WarningMessage `json:"errors,omitempty"`
	Tips            []util.WarningMessage `json:"tips,omitempty"`
}

// TemplateCompiler is the surface a template compiler exposes to build
// tools.
type TemplateCompiler interface {
	ParseComponent(source string, opts sfc.ParseOptions) *sfc.Descriptor
	Compile(template string, opts *config.CompilerOptions) *CompiledResult
	SSRCompile(template string, opts *config.CompilerOptions) *CompiledResult
}

// ParseFunc turns a template into its AST. It reports problems through
// opts.Warn and returns nil for an empty template.
type ParseFunc func(template string, opts *config.CompilerOptions) *ast.Element

// Generated is the code produced for an AST.
type Generated struct {
	Render          string
	StaticRenderFns []string
	StringRenderFns []string
}

// GenerateFunc produces render code for an AST, which may be nil.
type GenerateFunc func(root *ast.Element, opts *config.CompilerOptions) Generated

// BaseCompile compiles a template with fully resolved options.
type BaseCompile func(template string, opts *config.CompilerOptions) *CompiledResult

// ComponentParseFunc splits a single file component into its blocks.
type ComponentParseFunc func(source string, opts sfc.ParseOptions) *sfc.Descriptor

// NewBaseCompile chains parse, the static optimizer and generate.
func NewBaseCompile(parse ParseFunc, generate GenerateFunc) BaseCompile {
	return newBaseCompile(parse, generate, optimizer.Optimize)
}

// NewSSRBaseCompile is NewBaseCompile with the server-side optimizer.
func NewSSRBaseCompile(parse ParseFunc, generate GenerateFunc) BaseCompile {
	return newBaseCompile(parse, generate, optimizer.OptimizeSSR)
}

func newBaseCompile(parse ParseFunc, generate GenerateFunc, optimize func(*ast.Element, *config.CompilerOptions)) BaseCompile {
	return func(template string, opts *config.CompilerOptions) *CompiledResult {
		if opts == nil {
			opts = config.New()
		}
		root := parse(strings.TrimSpace(template), opts)
		if root != nil && opts.ShouldOptimize() {
			optimize(root, opts)
		}
		code := generate(root, opts)
		return &CompiledResult{
			AST:             root,
			Render:          code.Render,
			StaticRenderFns: code.StaticRenderFns,
			StringRenderFns: code.StringRenderFns,
		}
	}
}

// Compiler compiles templates against a fixed set of base options.
type Compiler struct {
	base           BaseCompile
	ssrBase        BaseCompile
	parseComponent ComponentParseFunc
	baseOptions    *config.CompilerOptions
}

var _ TemplateCompiler = (*Compiler)(nil)

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithSSR sets the base compile used by SSRCompile.
func WithSSR(base BaseCompile) CompilerOption {
	return func(c *Compiler) {
		c.ssrBase = base
	}
}

// WithComponentParser sets the parser used by ParseComponent.
func WithComponentParser(fn ComponentParseFunc) CompilerOption {
	return func(c *Compiler) {
		c.parseComponent = fn
	}
}

// CreateCompiler returns a Compiler that layers per-call options over
// baseOptions before running base.
func CreateCompiler(base BaseCompile, baseOptions *config.CompilerOptions, opts ...CompilerOption) *Compiler {
	if baseOptions == nil {
		baseOptions = config.New()
	}
	c := &Compiler{base: base, baseOptions: baseOptions}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseOptions returns a copy of the options every compilation starts from.
func (c *Compiler) BaseOptions() *config.CompilerOptions {
	return c.baseOptions.Clone()
}

// Compile compiles template. Warnings raised during compilation are
// collected into the result's Errors, or Tips when flagged as tips. When
// OutputSourceRange is set their ranges are relative to the untrimmed
// template.
func (c *Compiler) Compile(template string, opts *config.CompilerOptions) *CompiledResult {
	return c.compile(c.base, template, opts)
}

// SSRCompile compiles template for server rendering. Without an SSR base
// it falls back to Compile.
func (c *Compiler) SSRCompile(template string, opts *config.CompilerOptions) *CompiledResult {
	if c.ssrBase == nil {
		return c.Compile(template, opts)
	}
	return c.compile(c.ssrBase, template, opts)
}

// ParseComponent splits source into a descriptor. Without a component
// parser the descriptor is empty apart from its source.
func (c *Compiler) ParseComponent(source string, opts sfc.ParseOptions) *sfc.Descriptor {
	if c.parseComponent == nil {
		return sfc.NewDescriptor("", source)
	}
	return c.parseComponent(source, opts)
}

func (c *Compiler) compile(base BaseCompile, template string, opts *config.CompilerOptions) *CompiledResult {
	final := config.Merge(c.baseOptions, opts)
	final.Normalize()

	var errs, tips []util.WarningMessage
	leading := 0
	if final.OutputSourceRange {
		leading = len(template) - len(strings.TrimLeftFunc(template, unicode.IsSpace))
	}
	final.Warn = func(msg util.WarningMessage, tip bool) {
		if leading > 0 {
			msg = msg.Shift(leading)
		}
		if tip {
			tips = append(tips, msg)
		} else {
			errs = append(errs, msg)
		}
	}

	res := base(strings.TrimSpace(template), final)
	if res == nil {
		res = &CompiledResult{}
	}
	res.Errors = append(res.Errors, errs...)
	res.Tips = append(res.Tips, tips...)
	return res
}

// CompileCache memoizes compilation results. Entries are keyed by the
// delimiters in effect and the template text. Concurrent requests for the
// same key compile once.
type CompileCache struct {
	compile func(string, *config.CompilerOptions) *CompiledResult

	mu      sync.RWMutex
	entries map[string]*CompiledResult
	group   singleflight.Group
}

// NewCompileCache caches the results of compile, typically a Compiler's
// Compile or SSRCompile method.
func NewCompileCache(compile func(string, *config.CompilerOptions) *CompiledResult) *CompileCache {
	return &CompileCache{
		compile: compile,
		entries: make(map[string]*CompiledResult),
	}
}

func cacheKey(template string, opts *config.CompilerOptions) string {
	if opts == nil || opts.Delimiters == nil {
		return template
	}
	return opts.Delimiters[0] + "," + opts.Delimiters[1] + template
}

// Compile returns the cached result for template, compiling it on a miss.
// Results are shared between callers and must not be modified.
func (c *CompileCache) Compile(template string, opts *config.CompilerOptions) *CompiledResult {
	key := cacheKey(template, opts)
	c.mu.RLock()
	res, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return res
	}
	v, _, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		res, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return res, nil
		}
		res = c.compile(template, opts)
		c.mu.Lock()
		c.entries[key] = res
		c.mu.Unlock()
		return res, nil
	})
	return v.(*CompiledResult)
}

// Len returns the number of cached entries.
func (c *CompileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every cached entry.
func (c *CompileCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
