package schema

import (
	"errors"
	"fmt"

	"vtc-go/packages/compiler/src/config"
)

// ErrUnknownPlatform is returned by PlatformOptions for an unknown name.
var ErrUnknownPlatform = errors.New("unknown platform")

// WebModules returns the modules of the web platform.
func WebModules() []*config.ModuleOptions {
	return []*config.ModuleOptions{ClassModule, StyleModule}
}

// WebOptions wires the web tag tables, modules and directives into
// compiler options.
func WebOptions() []config.Option {
	modules := WebModules()
	return []config.Option{
		config.WithExpectHTML(true),
		config.WithModules(modules...),
		config.WithDirective("text", TextDirective),
		config.WithDirective("html", HTMLDirective),
		config.WithIsPreTag(IsPreTag),
		config.WithIsUnaryTag(IsUnaryTag),
		config.WithMustUseProp(MustUseProp),
		config.WithCanBeLeftOpenTag(CanBeLeftOpenTag),
		config.WithIsReservedTag(IsReservedTag),
		config.WithGetTagNamespace(GetTagNamespace),
		config.WithStaticKeys(config.GenStaticKeys(modules)),
	}
}

// PlatformOptions returns the options of the named platform. The empty
// name selects no platform.
func PlatformOptions(name string) ([]config.Option, error) {
	switch name {
	case "":
		return nil, nil
	case "web":
		return WebOptions(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
	}
}
