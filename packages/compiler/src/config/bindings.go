package config

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownBindingType is returned for a binding type outside BindingTypes.
var ErrUnknownBindingType = errors.New("unknown binding type")

// BindingTypes describes how a name used in a template was declared by the
// component script.
type BindingTypes string

const (
	// BindingData is returned from data().
	BindingData BindingTypes = "data"
	// BindingProps is a declared prop.
	BindingProps BindingTypes = "props"
	// BindingPropsAliased is a destructured prop with a local alias.
	BindingPropsAliased BindingTypes = "props-aliased"
	// BindingSetupLet is a let binding that may or may not be a ref.
	BindingSetupLet BindingTypes = "setup-let"
	// BindingSetupConst is a const binding that never needs ref unwrapping.
	BindingSetupConst BindingTypes = "setup-const"
	// BindingSetupReactiveConst is a const binding of a reactive() value.
	BindingSetupReactiveConst BindingTypes = "setup-reactive-const"
	// BindingSetupMaybeRef is a const binding that may be a ref.
	BindingSetupMaybeRef BindingTypes = "setup-maybe-ref"
	// BindingSetupRef is a binding that is guaranteed to be a ref.
	BindingSetupRef BindingTypes = "setup-ref"
	// BindingOptions is declared by other options such as computed or methods.
	BindingOptions BindingTypes = "options"
)

var bindingTypes = map[BindingTypes]struct{}{
	BindingData:               {},
	BindingProps:              {},
	BindingPropsAliased:       {},
	BindingSetupLet:           {},
	BindingSetupConst:         {},
	BindingSetupReactiveConst: {},
	BindingSetupMaybeRef:      {},
	BindingSetupRef:           {},
	BindingOptions:            {},
}

// Valid reports whether t is a known binding type.
func (t BindingTypes) Valid() bool {
	_, ok := bindingTypes[t]
	return ok
}

// IsSetup reports whether the binding comes from <script setup>.
func (t BindingTypes) IsSetup() bool {
	switch t {
	case BindingSetupLet, BindingSetupConst, BindingSetupReactiveConst, BindingSetupMaybeRef, BindingSetupRef:
		return true
	}
	return false
}

const isScriptSetupKey = "__isScriptSetup"

// BindingMetadata maps names to their binding types. In JSON it is a flat
// object of name/type pairs plus an optional "__isScriptSetup" flag.
type BindingMetadata struct {
	Bindings      map[string]BindingTypes `toml:"types"`
	IsScriptSetup bool                    `toml:"script_setup"`
}

// MarshalJSON implements json.Marshaler.
func (b BindingMetadata) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(b.Bindings)+1)
	for name, t := range b.Bindings {
		m[name] = t
	}
	if b.IsScriptSetup {
		m[isScriptSetupKey] = true
	}
	return json.Marshal(m)
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *BindingMetadata) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = BindingMetadata{Bindings: make(map[string]BindingTypes, len(raw))}
	for name, v := range raw {
		if name == isScriptSetupKey {
			if err := json.Unmarshal(v, &b.IsScriptSetup); err != nil {
				return fmt.Errorf("%s: %w", isScriptSetupKey, err)
			}
			continue
		}
		var t BindingTypes
		if err := json.Unmarshal(v, &t); err != nil {
			return fmt.Errorf("binding %q: %w", name, err)
		}
		b.Bindings[name] = t
	}
	return nil
}

// Lookup returns the binding type of name.
func (b *BindingMetadata) Lookup(name string) (BindingTypes, bool) {
	if b == nil {
		return "", false
	}
	t, ok := b.Bindings[name]
	return t, ok
}

// Validate checks that every binding has a known type.
func (b *BindingMetadata) Validate() error {
	for name, t := range b.Bindings {
		if !t.Valid() {
			return fmt.Errorf("binding %q: %w %q", name, ErrUnknownBindingType, t)
		}
	}
	return nil
}
