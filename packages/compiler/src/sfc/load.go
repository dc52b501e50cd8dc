package sfc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"vtc-go/packages/compiler/src/util"
)

// DecodeDescriptor reads a JSON descriptor. Blocks given only by offsets,
// custom blocks included, get their content extracted from Source with opts.
func DecodeDescriptor(r io.Reader, opts ParseOptions) (*Descriptor, error) {
	d := &Descriptor{}
	if err := json.NewDecoder(r).Decode(d); err != nil {
		return nil, fmt.Errorf("failed to decode descriptor: %w", err)
	}
	if d.Filename == "" {
		d.Filename = DefaultFilename
	}
	if d.Styles == nil {
		d.Styles = []*Block{}
	}
	if d.CustomBlocks == nil {
		d.CustomBlocks = []*CustomBlock{}
	}
	if d.CSSVars == nil {
		d.CSSVars = []string{}
	}
	if d.Errors == nil {
		d.Errors = []util.WarningMessage{}
	}
	for _, b := range d.blocks() {
		if b.Content == "" && b.End > b.Start && d.Source != "" {
			d.FillContent(b, opts)
		}
	}
	for _, b := range d.CustomBlocks {
		if b.Content == "" && b.End > b.Start && d.Source != "" {
			d.FillCustomContent(b, opts)
		}
	}
	return d, nil
}

// LoadDescriptor reads a JSON descriptor from path.
func LoadDescriptor(path string, opts ParseOptions) (*Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open descriptor: %w", err)
	}
	defer f.Close()
	d, err := DecodeDescriptor(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// blocks returns the template, script, script setup and style blocks.
func (d *Descriptor) blocks() []*Block {
	var out []*Block
	if d.Template != nil {
		out = append(out, d.Template)
	}
	if d.Script != nil {
		out = append(out, &d.Script.Block)
	}
	if d.ScriptSetup != nil {
		out = append(out, &d.ScriptSetup.Block)
	}
	return append(out, d.Styles...)
}
