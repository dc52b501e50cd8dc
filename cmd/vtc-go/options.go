package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"vtc-go/packages/compiler/src/config"
	"vtc-go/packages/compiler/src/schema"
)

// resolved is the effective configuration of a command.
type resolved struct {
	Path     string
	Platform string
	Options  *config.CompilerOptions
}

// loadOptions resolves the compiler options from the platform flag and the
// config file, either given with --config or found by searching upwards.
func (a *app) loadOptions() (*resolved, error) {
	path := a.configPath
	if path == "" {
		found, ok, err := config.FindConfigFile(".")
		if err != nil {
			return nil, err
		}
		if ok {
			path = found
		}
	}

	r := &resolved{Path: path, Platform: a.platform}
	var fileOpts []config.Option
	if path != "" {
		f, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		a.log.Debug("loaded config", "path", path)
		if f.Compiler.Platform != "" {
			r.Platform = f.Compiler.Platform
		}
		fileOpts = f.Options()
	}

	platform := r.Platform
	if platform == "none" {
		platform = ""
	}
	platformOpts, err := schema.PlatformOptions(platform)
	if err != nil {
		return nil, fmt.Errorf("failed to select platform: %w", err)
	}
	r.Options = config.New(append(platformOpts, fileOpts...)...)
	if err := r.Options.Validate(); err != nil {
		return nil, err
	}
	a.log.Debug("resolved options", "platform", r.Platform, "modules", len(r.Options.Modules))
	return r, nil
}

// optionsView is the printable part of CompilerOptions.
type optionsView struct {
	Config             string                  `json:"config,omitempty"`
	Platform           string                  `json:"platform"`
	Whitespace         string                  `json:"whitespace"`
	PreserveWhitespace bool                    `json:"preserveWhitespace"`
	Optimize           bool                    `json:"optimize"`
	Delimiters         [2]string               `json:"delimiters"`
	Comments           bool                    `json:"comments"`
	OutputSourceRange  bool                    `json:"outputSourceRange"`
	ExpectHTML         bool                    `json:"expectHTML"`
	StaticKeys         string                  `json:"staticKeys"`
	ScopeID            string                  `json:"scopeId,omitempty"`
	Modules            int                     `json:"modules"`
	Directives         []string                `json:"directives"`
	Bindings           *config.BindingMetadata `json:"bindings,omitempty"`
}

func newOptionsView(r *resolved) optionsView {
	o := r.Options
	ws := string(o.Whitespace)
	if ws == "" {
		ws = string(config.WhitespacePreserve)
	}
	return optionsView{
		Config:             r.Path,
		Platform:           r.Platform,
		Whitespace:         ws,
		PreserveWhitespace: o.ShouldPreserveWhitespace(),
		Optimize:           o.ShouldOptimize(),
		Delimiters:         o.DelimitersOrDefault(),
		Comments:           o.Comments,
		OutputSourceRange:  o.OutputSourceRange,
		ExpectHTML:         o.ExpectHTML,
		StaticKeys:         o.StaticKeys,
		ScopeID:            o.ScopeID,
		Modules:            len(o.Modules),
		Directives:         slices.Sorted(maps.Keys(o.Directives)),
		Bindings:           o.Bindings,
	}
}

func (a *app) optionsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Print the resolved compiler options",
		Long:  `Load ` + config.FileName + ` and the platform tables and print the options every compilation starts from`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.loadOptions()
			if err != nil {
				return err
			}
			view := newOptionsView(r)
			switch format {
			case "pretty":
				renderOptionsPretty(cmd.OutOrStdout(), view)
				return nil
			case "json":
				return writeJSON(cmd.OutOrStdout(), view)
			default:
				return fmt.Errorf("unknown format: %s", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}

func renderOptionsPretty(w io.Writer, v optionsView) {
	cfg := v.Config
	if cfg == "" {
		cfg = dimColor.Sprint("(none)")
	}
	fmt.Fprintf(w, "config:             %s\n", cfg)
	fmt.Fprintf(w, "platform:           %s\n", v.Platform)
	fmt.Fprintf(w, "whitespace:         %s\n", v.Whitespace)
	fmt.Fprintf(w, "preserveWhitespace: %t\n", v.PreserveWhitespace)
	fmt.Fprintf(w, "optimize:           %t\n", v.Optimize)
	fmt.Fprintf(w, "delimiters:         %s %s\n", v.Delimiters[0], v.Delimiters[1])
	fmt.Fprintf(w, "comments:           %t\n", v.Comments)
	fmt.Fprintf(w, "outputSourceRange:  %t\n", v.OutputSourceRange)
	fmt.Fprintf(w, "expectHTML:         %t\n", v.ExpectHTML)
	fmt.Fprintf(w, "staticKeys:         %s\n", v.StaticKeys)
	if v.ScopeID != "" {
		fmt.Fprintf(w, "scopeId:            %s\n", v.ScopeID)
	}
	fmt.Fprintf(w, "modules:            %d\n", v.Modules)
	fmt.Fprintf(w, "directives:         %s\n", strings.Join(v.Directives, ", "))
	if v.Bindings != nil {
		names := slices.Sorted(maps.Keys(v.Bindings.Bindings))
		fmt.Fprintf(w, "bindings:           %d (script setup: %t)\n", len(names), v.Bindings.IsScriptSetup)
		for _, name := range names {
			fmt.Fprintf(w, "  %s: %s\n", name, v.Bindings.Bindings[name])
		}
	}
}
