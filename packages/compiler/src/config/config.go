// Package config holds the options a template compiler accepts: flags,
// platform classifier callbacks and the module plugin chain.
package config

import (
	"errors"
	"fmt"
	"maps"

	"vtc-go/packages/compiler/src/ast"
	"vtc-go/packages/compiler/src/util"
)

// ErrInvalidOption is wrapped by every Validate error.
var ErrInvalidOption = errors.New("invalid compiler option")

// Whitespace is the whitespace handling strategy.
type Whitespace string

const (
	WhitespacePreserve Whitespace = "preserve"
	WhitespaceCondense Whitespace = "condense"
)

// DefaultDelimiters are the interpolation delimiters used when none are set.
var DefaultDelimiters = [2]string{"{{", "}}"}

// WarnFunc receives a diagnostic. tip marks hints that are not errors.
type WarnFunc func(msg util.WarningMessage, tip bool)

// DirectiveFunc generates code for a custom directive. It reports whether
// the directive also needs a runtime counterpart.
type DirectiveFunc func(el *ast.Element, dir *ast.Directive, warn WarnFunc) bool

// MustUsePropFunc reports whether an attribute must be bound as a DOM
// property. typ is the element's type attribute, empty when absent.
type MustUsePropFunc func(tag, typ, name string) bool

// NamespaceFunc resolves the namespace of a tag, empty for none.
type NamespaceFunc func(tag string) string

// CompilerOptions configures a compilation.
type CompilerOptions struct {
	Warn       WarnFunc
	Modules    []*ModuleOptions
	Directives map[string]DirectiveFunc
	// StaticKeys is a comma-separated list of AST properties to be
	// considered static.
	StaticKeys string

	IsUnaryTag       util.TagPredicate
	CanBeLeftOpenTag util.TagPredicate
	IsReservedTag    util.TagPredicate

	// Deprecated: use Whitespace.
	PreserveWhitespace *bool
	Whitespace         Whitespace
	Optimize           *bool

	MustUseProp                 MustUsePropFunc
	IsPreTag                    util.TagPredicate
	GetTagNamespace             NamespaceFunc
	ExpectHTML                  bool
	IsFromDOM                   bool
	ShouldDecodeTags            bool
	ShouldDecodeNewlines        bool
	ShouldDecodeNewlinesForHref bool
	OutputSourceRange           bool
	ShouldKeepComment           bool

	Delimiters *[2]string
	Comments   bool

	ScopeID string

	Bindings *BindingMetadata
}

// Option configures CompilerOptions.
type Option func(*CompilerOptions)

// New creates CompilerOptions from opts and normalizes them.
func New(opts ...Option) *CompilerOptions {
	o := &CompilerOptions{}
	for _, opt := range opts {
		opt(o)
	}
	o.Normalize()
	return o
}

// Overrides creates CompilerOptions from opts without normalizing them, so
// that callbacks left unset stay nil and do not replace the base value in
// Merge.
func Overrides(opts ...Option) *CompilerOptions {
	o := &CompilerOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithWarn sets the diagnostic callback.
func WithWarn(warn WarnFunc) Option {
	return func(o *CompilerOptions) {
		o.Warn = warn
	}
}

// WithModules appends modules to the plugin chain.
func WithModules(modules ...*ModuleOptions) Option {
	return func(o *CompilerOptions) {
		o.Modules = append(o.Modules, modules...)
	}
}

// WithDirective registers a custom directive generator.
func WithDirective(name string, fn DirectiveFunc) Option {
	return func(o *CompilerOptions) {
		if o.Directives == nil {
			o.Directives = make(map[string]DirectiveFunc)
		}
		o.Directives[name] = fn
	}
}

// WithStaticKeys sets the comma-separated static key list.
func WithStaticKeys(keys string) Option {
	return func(o *CompilerOptions) {
		o.StaticKeys = keys
	}
}

// WithWhitespace sets the whitespace strategy.
func WithWhitespace(ws Whitespace) Option {
	return func(o *CompilerOptions) {
		o.Whitespace = ws
	}
}

// WithPreserveWhitespace sets the deprecated preserveWhitespace flag.
func WithPreserveWhitespace(preserve bool) Option {
	return func(o *CompilerOptions) {
		o.PreserveWhitespace = &preserve
	}
}

// WithOptimize enables or disables static tree marking.
func WithOptimize(optimize bool) Option {
	return func(o *CompilerOptions) {
		o.Optimize = &optimize
	}
}

// WithDelimiters overrides the interpolation delimiters.
func WithDelimiters(open, close string) Option {
	return func(o *CompilerOptions) {
		o.Delimiters = &[2]string{open, close}
	}
}

// WithComments keeps template comments.
func WithComments(keep bool) Option {
	return func(o *CompilerOptions) {
		o.Comments = keep
	}
}

// WithOutputSourceRange records source offsets on nodes and diagnostics.
func WithOutputSourceRange(enabled bool) Option {
	return func(o *CompilerOptions) {
		o.OutputSourceRange = enabled
	}
}

// WithExpectHTML enables HTML-specific parsing rules.
func WithExpectHTML(expect bool) Option {
	return func(o *CompilerOptions) {
		o.ExpectHTML = expect
	}
}

// WithScopeID sets the CSS scoping id used by SSR optimization.
func WithScopeID(id string) Option {
	return func(o *CompilerOptions) {
		o.ScopeID = id
	}
}

// WithBindings sets the script analysis results.
func WithBindings(b *BindingMetadata) Option {
	return func(o *CompilerOptions) {
		o.Bindings = b
	}
}

// WithIsUnaryTag sets the unary tag classifier.
func WithIsUnaryTag(fn util.TagPredicate) Option {
	return func(o *CompilerOptions) {
		o.IsUnaryTag = fn
	}
}

// WithCanBeLeftOpenTag sets the classifier for tags that close implicitly.
func WithCanBeLeftOpenTag(fn util.TagPredicate) Option {
	return func(o *CompilerOptions) {
		o.CanBeLeftOpenTag = fn
	}
}

// WithIsReservedTag sets the platform tag classifier.
func WithIsReservedTag(fn util.TagPredicate) Option {
	return func(o *CompilerOptions) {
		o.IsReservedTag = fn
	}
}

// WithIsPreTag sets the classifier for whitespace-preserving tags.
func WithIsPreTag(fn util.TagPredicate) Option {
	return func(o *CompilerOptions) {
		o.IsPreTag = fn
	}
}

// WithMustUseProp sets the property binding classifier.
func WithMustUseProp(fn MustUsePropFunc) Option {
	return func(o *CompilerOptions) {
		o.MustUseProp = fn
	}
}

// WithGetTagNamespace sets the namespace resolver.
func WithGetTagNamespace(fn NamespaceFunc) Option {
	return func(o *CompilerOptions) {
		o.GetTagNamespace = fn
	}
}

// NoMustUseProp is the default MustUseProp.
func NoMustUseProp(_, _, _ string) bool {
	return false
}

// NoNamespace is the default GetTagNamespace.
func NoNamespace(string) string {
	return ""
}

// NoWarn discards diagnostics.
func NoWarn(util.WarningMessage, bool) {}

// Normalize fills every unset callback with its always-false (or no-op)
// default so callers never need a nil check.
func (o *CompilerOptions) Normalize() {
	if o.Warn == nil {
		o.Warn = NoWarn
	}
	if o.IsUnaryTag == nil {
		o.IsUnaryTag = util.NoTag
	}
	if o.CanBeLeftOpenTag == nil {
		o.CanBeLeftOpenTag = util.NoTag
	}
	if o.IsReservedTag == nil {
		o.IsReservedTag = util.NoTag
	}
	if o.IsPreTag == nil {
		o.IsPreTag = util.NoTag
	}
	if o.MustUseProp == nil {
		o.MustUseProp = NoMustUseProp
	}
	if o.GetTagNamespace == nil {
		o.GetTagNamespace = NoNamespace
	}
}

// Validate checks the enumerated and structured options.
func (o *CompilerOptions) Validate() error {
	switch o.Whitespace {
	case "", WhitespacePreserve, WhitespaceCondense:
	default:
		return fmt.Errorf("%w: whitespace must be %q or %q, got %q", ErrInvalidOption, WhitespacePreserve, WhitespaceCondense, o.Whitespace)
	}
	if o.Delimiters != nil && (o.Delimiters[0] == "" || o.Delimiters[1] == "") {
		return fmt.Errorf("%w: delimiters must both be non-empty, got %q", ErrInvalidOption, *o.Delimiters)
	}
	for i, m := range o.Modules {
		if m == nil {
			return fmt.Errorf("%w: module %d is nil", ErrInvalidOption, i)
		}
	}
	if o.Bindings != nil {
		if err := o.Bindings.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOption, err)
		}
	}
	return nil
}

// ShouldOptimize reports whether static trees are marked. Optimization is
// on unless explicitly disabled.
func (o *CompilerOptions) ShouldOptimize() bool {
	return o.Optimize == nil || *o.Optimize
}

// ShouldPreserveWhitespace resolves the deprecated flag. Whitespace between
// elements is kept unless disabled explicitly or by the condense strategy.
func (o *CompilerOptions) ShouldPreserveWhitespace() bool {
	if o.PreserveWhitespace != nil {
		return *o.PreserveWhitespace
	}
	return o.Whitespace != WhitespaceCondense
}

// DelimitersOrDefault returns the configured delimiters or "{{ }}".
func (o *CompilerOptions) DelimitersOrDefault() [2]string {
	if o.Delimiters != nil {
		return *o.Delimiters
	}
	return DefaultDelimiters
}

// Clone returns a shallow copy with its own module slice and directive map.
func (o *CompilerOptions) Clone() *CompilerOptions {
	c := *o
	c.Modules = append([]*ModuleOptions(nil), o.Modules...)
	if o.Directives != nil {
		c.Directives = maps.Clone(o.Directives)
	}
	return &c
}

// Merge layers override on top of base without modifying either. Modules
// are concatenated base first, directives are merged with override
// winning, and every other field set in override replaces base. Boolean
// flags can only be switched on by override.
func Merge(base, override *CompilerOptions) *CompilerOptions {
	if base == nil {
		base = &CompilerOptions{}
	}
	out := base.Clone()
	if override == nil {
		return out
	}
	out.Modules = append(out.Modules, override.Modules...)
	if len(override.Directives) > 0 {
		if out.Directives == nil {
			out.Directives = make(map[string]DirectiveFunc, len(override.Directives))
		}
		maps.Copy(out.Directives, override.Directives)
	}
	if override.Warn != nil {
		out.Warn = override.Warn
	}
	if override.StaticKeys != "" {
		out.StaticKeys = override.StaticKeys
	}
	if override.IsUnaryTag != nil {
		out.IsUnaryTag = override.IsUnaryTag
	}
	if override.CanBeLeftOpenTag != nil {
		out.CanBeLeftOpenTag = override.CanBeLeftOpenTag
	}
	if override.IsReservedTag != nil {
		out.IsReservedTag = override.IsReservedTag
	}
	if override.PreserveWhitespace != nil {
		out.PreserveWhitespace = override.PreserveWhitespace
	}
	if override.Whitespace != "" {
		out.Whitespace = override.Whitespace
	}
	if override.Optimize != nil {
		out.Optimize = override.Optimize
	}
	if override.MustUseProp != nil {
		out.MustUseProp = override.MustUseProp
	}
	if override.IsPreTag != nil {
		out.IsPreTag = override.IsPreTag
	}
	if override.GetTagNamespace != nil {
		out.GetTagNamespace = override.GetTagNamespace
	}
	out.ExpectHTML = out.ExpectHTML || override.ExpectHTML
	out.IsFromDOM = out.IsFromDOM || override.IsFromDOM
	out.ShouldDecodeTags = out.ShouldDecodeTags || override.ShouldDecodeTags
	out.ShouldDecodeNewlines = out.ShouldDecodeNewlines || override.ShouldDecodeNewlines
	out.ShouldDecodeNewlinesForHref = out.ShouldDecodeNewlinesForHref || override.ShouldDecodeNewlinesForHref
	out.OutputSourceRange = out.OutputSourceRange || override.OutputSourceRange
	out.ShouldKeepComment = out.ShouldKeepComment || override.ShouldKeepComment
	out.Comments = out.Comments || override.Comments
	if override.Delimiters != nil {
		out.Delimiters = override.Delimiters
	}
	if override.ScopeID != "" {
		out.ScopeID = override.ScopeID
	}
	if override.Bindings != nil {
		out.Bindings = override.Bindings
	}
	return out
}
