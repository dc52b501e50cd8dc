package main

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"vtc-go/packages/compiler/src/core"
	"vtc-go/packages/compiler/src/schema"
	"vtc-go/packages/compiler/src/util"
)

// offendingRange returns the byte range of the first character that makes
// name invalid, or the whole name when no single character is at fault.
func offendingRange(name string) (start, end int) {
	for i, r := range name {
		size := utf8.RuneLen(r)
		if i == 0 {
			if r >= utf8.RuneSelf || !core.IsAsciiLetter(int(r)) {
				return 0, size
			}
			continue
		}
		if !util.IsNameChar(r) {
			return i, i + size
		}
	}
	return 0, len(name)
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <name>...",
		Short: "Check component names",
		Long:  `Validate checks that each name is a valid custom element name and not a built-in or reserved tag`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			invalid := 0
			for _, name := range args {
				err := util.ValidateComponentName(name, schema.IsReservedTag)
				if err == nil {
					fmt.Fprintf(out, "%s %s %s\n", okColor.Sprint("ok"), name,
						dimColor.Sprintf("(<%s>, %s)", util.Hyphenate(name), util.Capitalize(util.Camelize(name))))
					continue
				}
				invalid++
				start, end := 0, len(name)
				if errors.Is(err, util.ErrInvalidComponentName) {
					start, end = offendingRange(name)
				}
				w := util.NewRangedWarning(err.Error(), start, end)
				printDiagnostics(out, name, name, []util.WarningMessage{w}, errorColor, "error")
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d component names are invalid", invalid, len(args))
			}
			return nil
		},
	}
}
