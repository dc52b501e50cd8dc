package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"vtc-go/packages/compiler/src/ast"
	"vtc-go/packages/compiler/src/optimizer"
)

func (a *app) optimizeCmd() *cobra.Command {
	var ssr, write bool
	cmd := &cobra.Command{
		Use:   "optimize <file>...",
		Short: "Mark static subtrees of serialized ASTs",
		Long:  `Optimize decodes each AST, runs the static optimizer (or the server-side one with --ssr) and prints the marked tree`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.loadOptions()
			if err != nil {
				return err
			}
			optimize := optimizer.Optimize
			if ssr {
				optimize = optimizer.OptimizeSSR
			}

			outputs := make([]string, len(args))
			errs := make([]error, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(a.workers(len(args)))
			for i, path := range args {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					a.log.Debug("optimizing", "file", path, "ssr", ssr)
					root, err := readAST(path)
					if err != nil {
						errs[i] = err
						return nil
					}
					optimize(root, r.Options)
					if err := ast.CheckParents(root); err != nil {
						errs[i] = fmt.Errorf("%s: %w", path, err)
						return nil
					}
					if write {
						if err := writeAST(path, root); err != nil {
							errs[i] = err
							return nil
						}
					}
					var buf bytes.Buffer
					dumpTree(&buf, root)
					outputs[i] = buf.String()
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, path := range args {
				if errs[i] != nil {
					continue
				}
				if len(args) > 1 {
					fmt.Fprintf(out, "%s\n", warnColor.Sprint("== "+path))
				}
				fmt.Fprint(out, outputs[i])
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().BoolVar(&ssr, "ssr", false, "run the server-side optimizer")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the optimized AST back to its file")
	return cmd
}
