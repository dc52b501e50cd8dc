package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vtc-go/packages/compiler/src/ast"
)

// formatFor picks the AST wire format from the file extension.
func formatFor(path string) (ast.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ast.FormatJSON, nil
	case ".msgpack", ".mpk", ".mp":
		return ast.FormatMsgpack, nil
	default:
		return 0, fmt.Errorf("%s: unknown AST format (use .json or .msgpack)", path)
	}
}

func readAST(path string) (*ast.Element, error) {
	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open AST: %w", err)
	}
	defer f.Close()
	root, err := ast.DecodeElement(bufio.NewReader(f), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

func writeAST(path string, root *ast.Element) (err error) {
	format, err := formatFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create AST file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	w := bufio.NewWriter(f)
	if err := ast.Encode(w, root, format); err != nil {
		return fmt.Errorf("%s: failed to encode AST: %w", path, err)
	}
	return w.Flush()
}

func (a *app) astCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast",
		Short: "Convert and inspect serialized template ASTs",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "convert <in> <out>",
			Short: "Convert an AST between JSON and MessagePack",
			Long:  `Convert reads <in> and writes <out>; the formats follow the file extensions (.json, .msgpack)`,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				root, err := readAST(args[0])
				if err != nil {
					return err
				}
				if err := ast.CheckParents(root); err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				a.log.Debug("converting AST", "in", args[0], "out", args[1])
				return writeAST(args[1], root)
			},
		},
		&cobra.Command{
			Use:   "dump <file>",
			Short: "Print an AST as an indented tree",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				root, err := readAST(args[0])
				if err != nil {
					return err
				}
				dumpTree(cmd.OutOrStdout(), root)
				return nil
			},
		},
	)
	return cmd
}

// dumpTree prints one line per node with its type discriminant and the
// markers set by the optimizers.
func dumpTree(w io.Writer, root *ast.Element) {
	dumpNode(w, root, 0, "")
}

func dumpNode(w io.Writer, n ast.Node, depth int, label string) {
	indent := strings.Repeat("  ", depth)
	var desc string
	var ssr *int
	switch n := n.(type) {
	case *ast.Element:
		desc = "<" + n.Tag + ">"
		if n.If != "" {
			desc += " v-if=" + strconv.Quote(n.If)
		}
		if n.ElseIf != "" {
			desc += " v-else-if=" + strconv.Quote(n.ElseIf)
		}
		if n.Else {
			desc += " v-else"
		}
		if n.For != "" {
			desc += " v-for=" + strconv.Quote(n.For)
		}
		ssr = n.SSROptimizability
	case *ast.Text:
		if n.IsComment {
			desc = "<!--" + n.Text + "-->"
		} else {
			desc = strconv.Quote(n.Text)
		}
		ssr = n.SSROptimizability
	case *ast.Expression:
		desc = n.Text
		ssr = n.SSROptimizability
	}
	if label != "" {
		desc = label + " " + desc
	}
	fmt.Fprintf(w, "%s%s %s%s\n", indent, desc, dimColor.Sprintf("type=%d", int(n.Type())), markers(n, ssr))

	el, ok := n.(*ast.Element)
	if !ok {
		return
	}
	for _, c := range el.Children {
		dumpNode(w, c, depth+1, "")
	}
	if len(el.IfConditions) > 1 {
		for _, cond := range el.IfConditions[1:] {
			if cond.Block != nil {
				dumpNode(w, cond.Block, depth, "|")
			}
		}
	}
}

func markers(n ast.Node, ssr *int) string {
	var out []string
	if n.IsStatic() {
		out = append(out, okColor.Sprint("static"))
	}
	if el, ok := n.(*ast.Element); ok {
		if el.StaticRoot {
			out = append(out, okColor.Sprint("static-root"))
		}
		if el.StaticInFor {
			out = append(out, warnColor.Sprint("in-for"))
		}
	}
	if ssr != nil {
		out = append(out, fmt.Sprintf("ssr=%d", *ssr))
	}
	if len(out) == 0 {
		return ""
	}
	return " " + strings.Join(out, " ")
}
