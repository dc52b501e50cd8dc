// Package sfc models single file components: the descriptor with its
// blocks, CSS variable collection and the hot-reload decision.
package sfc

import (
	"encoding/json"
	"fmt"

	"vtc-go/packages/compiler/src/config"
	"vtc-go/packages/compiler/src/util"
)

// DefaultFilename is used when a descriptor has no file name.
const DefaultFilename = "anonymous.vue"

// ImportBinding is an import of <script setup> as seen by script analysis.
type ImportBinding struct {
	IsType           bool   `json:"isType"`
	Imported         string `json:"imported"`
	Source           string `json:"source"`
	IsFromSetup      bool   `json:"isFromSetup"`
	IsUsedInTemplate bool   `json:"isUsedInTemplate"`
}

// AttrValue is a block attribute value: a string, or true for an attribute
// written without a value.
type AttrValue struct {
	String string
	Bool   bool
}

// StringAttr returns a string attribute value.
func StringAttr(s string) AttrValue {
	return AttrValue{String: s}
}

// TrueAttr is the value of an attribute written without a value.
var TrueAttr = AttrValue{Bool: true}

// IsString reports whether v holds a string.
func (v AttrValue) IsString() bool {
	return !v.Bool
}

// MarshalJSON implements json.Marshaler.
func (v AttrValue) MarshalJSON() ([]byte, error) {
	if v.Bool {
		return []byte("true"), nil
	}
	return json.Marshal(v.String)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *AttrValue) UnmarshalJSON(b []byte) error {
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	switch x := x.(type) {
	case string:
		*v = StringAttr(x)
	case bool:
		if !x {
			return fmt.Errorf("attribute value must be a string or true, got false")
		}
		*v = TrueAttr
	default:
		return fmt.Errorf("attribute value must be a string or true, got %s", b)
	}
	return nil
}

// ModuleRef is the value of a style block's module attribute: a module
// name, or Default for a bare module attribute.
type ModuleRef struct {
	Name    string
	Default bool
}

// MarshalJSON implements json.Marshaler.
func (m ModuleRef) MarshalJSON() ([]byte, error) {
	if m.Name == "" {
		return json.Marshal(m.Default)
	}
	return json.Marshal(m.Name)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *ModuleRef) UnmarshalJSON(b []byte) error {
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	switch x := x.(type) {
	case string:
		*m = ModuleRef{Name: x}
	case bool:
		*m = ModuleRef{Default: x}
	default:
		return fmt.Errorf("module must be a string or boolean, got %s", b)
	}
	return nil
}

// StartOfSourceMap holds the optional header fields of a source map.
type StartOfSourceMap struct {
	File       string `json:"file,omitempty"`
	SourceRoot string `json:"sourceRoot,omitempty"`
}

// RawSourceMap is a version 3 source map.
type RawSourceMap struct {
	StartOfSourceMap
	Version        string   `json:"version"`
	Sources        []string `json:"sources"`
	Names          []string `json:"names"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Mappings       string   `json:"mappings"`
}

// CustomBlock is a top-level block of a component file. Start and End are
// the byte offsets of its content.
type CustomBlock struct {
	Type    string               `json:"type"`
	Content string               `json:"content"`
	Attrs   map[string]AttrValue `json:"attrs"`
	Start   int                  `json:"start"`
	End     int                  `json:"end"`
	Src     string               `json:"src,omitempty"`
	Map     *RawSourceMap        `json:"map,omitempty"`
}

// Block is a template, script or style block.
type Block struct {
	CustomBlock
	Lang   string     `json:"lang,omitempty"`
	Scoped bool       `json:"scoped,omitempty"`
	Module *ModuleRef `json:"module,omitempty"`
}

// ScriptBlock is a <script> or <script setup> block.
type ScriptBlock struct {
	Block
	Setup          *AttrValue               `json:"setup,omitempty"`
	Bindings       *config.BindingMetadata  `json:"bindings,omitempty"`
	Imports        map[string]ImportBinding `json:"imports,omitempty"`
	ScriptAST      []any                    `json:"scriptAst,omitempty"`
	ScriptSetupAST []any                    `json:"scriptSetupAst,omitempty"`
}

// Descriptor is a parsed single file component.
type Descriptor struct {
	Source       string                `json:"source"`
	Filename     string                `json:"filename"`
	Template     *Block                `json:"template"`
	Script       *ScriptBlock          `json:"script"`
	ScriptSetup  *ScriptBlock          `json:"scriptSetup"`
	Styles       []*Block              `json:"styles"`
	CustomBlocks []*CustomBlock        `json:"customBlocks"`
	CSSVars      []string              `json:"cssVars"`
	Errors       []util.WarningMessage `json:"errors"`

	// UsageResolver decides template usage for ShouldForceReload. Nil
	// selects ImportsUsageResolver.
	UsageResolver UsageResolver `json:"-"`
}

// NewDescriptor returns an empty descriptor for source.
func NewDescriptor(filename, source string) *Descriptor {
	if filename == "" {
		filename = DefaultFilename
	}
	return &Descriptor{
		Source:       source,
		Filename:     filename,
		Styles:       []*Block{},
		CustomBlocks: []*CustomBlock{},
		CSSVars:      []string{},
		Errors:       []util.WarningMessage{},
	}
}

// Pad selects how block content is padded to keep line numbers.
type Pad string

const (
	PadNone  Pad = ""
	PadLine  Pad = "line"
	PadSpace Pad = "space"
)

// UnmarshalJSON accepts "line", "space" or a boolean, true meaning "line".
func (p *Pad) UnmarshalJSON(b []byte) error {
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	switch x := x.(type) {
	case string:
		switch Pad(x) {
		case PadLine, PadSpace:
			*p = Pad(x)
			return nil
		}
	case bool:
		*p = PadNone
		if x {
			*p = PadLine
		}
		return nil
	}
	return fmt.Errorf("pad must be \"line\", \"space\" or a boolean, got %s", b)
}

// ParseOptions controls how block content is extracted.
type ParseOptions struct {
	Pad Pad `json:"pad,omitempty"`
	// Deindent forces (true) or disables (false) removal of common
	// indentation. By default it applies to every block except templates in
	// a non-HTML language.
	Deindent          *bool `json:"deindent,omitempty"`
	OutputSourceRange bool  `json:"outputSourceRange,omitempty"`
}
