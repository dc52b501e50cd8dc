package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"vtc-go/packages/compiler/src/sfc"
)

func (a *app) sfcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sfc",
		Short: "Inspect single file component descriptors",
		Long:  `Commands reading descriptors serialized as JSON; blocks given only by offsets get their content from the descriptor source`,
	}
	cmd.AddCommand(a.sfcCSSVarsCmd(), a.sfcReloadCmd())
	return cmd
}

func (a *app) loadDescriptor(path string) (*sfc.Descriptor, error) {
	d, err := sfc.LoadDescriptor(path, sfc.ParseOptions{})
	if err != nil {
		return nil, err
	}
	a.log.Debug("loaded descriptor", "file", path, "filename", d.Filename, "styles", len(d.Styles))
	return d, nil
}

type cssVarsResult struct {
	File    string   `json:"file"`
	CSSVars []string `json:"cssVars"`
}

func (a *app) sfcCSSVarsCmd() *cobra.Command {
	var format string
	var scopeID string
	cmd := &cobra.Command{
		Use:   "cssvars <descriptor.json>...",
		Short: "List the v-bind() expressions used in style blocks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "pretty" && format != "json" {
				return fmt.Errorf("unknown format: %s", format)
			}
			results := make([]cssVarsResult, len(args))
			descs := make([]*sfc.Descriptor, len(args))
			errs := make([]error, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(a.workers(len(args)))
			for i, path := range args {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					d, err := a.loadDescriptor(path)
					if err != nil {
						errs[i] = err
						return nil
					}
					descs[i] = d
					results[i] = cssVarsResult{File: path, CSSVars: d.ResolveCSSVars()}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var ok []cssVarsResult
			for i, path := range args {
				if errs[i] != nil {
					continue
				}
				printDiagnostics(cmd.ErrOrStderr(), path, descs[i].Source, descs[i].Errors, errorColor, "error")
				ok = append(ok, results[i])
			}
			if format == "json" {
				if err := writeJSON(out, ok); err != nil {
					return err
				}
				return errors.Join(errs...)
			}
			for _, r := range ok {
				fmt.Fprintf(out, "%s:", r.File)
				if len(r.CSSVars) == 0 {
					fmt.Fprintf(out, " %s\n", dimColor.Sprint("(none)"))
					continue
				}
				fmt.Fprintln(out)
				for _, v := range r.CSSVars {
					if scopeID != "" {
						fmt.Fprintf(out, "  %s -> --%s\n", v, sfc.CSSVarName(scopeID, v))
					} else {
						fmt.Fprintf(out, "  %s\n", v)
					}
				}
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().StringVar(&scopeID, "scope-id", "", "also print the custom property name generated for this scope id")
	return cmd
}

func (a *app) sfcReloadCmd() *cobra.Command {
	var resolver string
	cmd := &cobra.Command{
		Use:   "reload <prev.json> <next.json>",
		Short: "Decide whether a hot update must reload the component",
		Long: `Reload compares the <script setup> imports of two versions of a component and prints "reload" when
an import unused by the previous template is used by the next one, and "rerender" otherwise`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prev, err := a.loadDescriptor(args[0])
			if err != nil {
				return err
			}
			next, err := a.loadDescriptor(args[1])
			if err != nil {
				return err
			}
			switch strings.ToLower(resolver) {
			case "imports":
				next.UsageResolver = sfc.ImportsUsageResolver
			case "template":
				next.UsageResolver = sfc.TemplateTextUsageResolver
			default:
				return fmt.Errorf("unknown resolver %q (expected imports|template)", resolver)
			}
			var prevImports map[string]sfc.ImportBinding
			if prev.ScriptSetup != nil {
				prevImports = prev.ScriptSetup.Imports
			}
			if next.ShouldForceReload(prevImports) {
				fmt.Fprintln(cmd.OutOrStdout(), warnColor.Sprint("reload"))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), okColor.Sprint("rerender"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&resolver, "resolver", "imports", "template usage resolver (imports|template)")
	return cmd
}
