package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"vtc-go/packages/compiler/src/util"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
	okColor    = color.New(color.FgGreen)
	frameColor = color.New(color.FgCyan)
	dimColor   = color.New(color.Faint)
)

// printDiagnostics writes msgs for the file at path. Ranged messages are
// followed by a code frame of source.
func printDiagnostics(w io.Writer, path, source string, msgs []util.WarningMessage, severity *color.Color, label string) {
	for _, m := range msgs {
		loc := path
		if m.HasRange() && source != "" {
			loc = m.Location(util.NewParseSourceFile(source, path)).String()
		}
		fmt.Fprintf(w, "%s %s: %s\n", severity.Sprint(label+":"), loc, m.Msg)
		if m.HasRange() && source != "" {
			end := *m.Start
			if m.End != nil {
				end = *m.End
			}
			printFrame(w, util.GenerateCodeFrame(source, *m.Start, end))
		}
	}
}

func printFrame(w io.Writer, frame string) {
	if frame == "" {
		return
	}
	for _, line := range strings.Split(frame, "\n") {
		if strings.HasPrefix(line, "   |") {
			fmt.Fprintln(w, frameColor.Sprint(line))
			continue
		}
		fmt.Fprintln(w, line)
	}
}
