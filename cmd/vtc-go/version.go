package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vtc-go/packages/compiler/src/core"
)

// Build metadata, overridable with -ldflags.
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func versionString() string {
	v := strings.TrimSpace(Version)
	if v == "" {
		return "dev"
	}
	return v
}

// coloredVersion paints the major, minor and patch components.
func coloredVersion(full string) string {
	v := core.NewVersion(full)
	if !v.Complete() {
		return full
	}
	out := versionMajorColor.Sprint(v.Major) + "." +
		versionMinorColor.Sprint(v.Minor) + "." +
		versionPatchColor.Sprint(v.Patch)
	if v.Prerelease != "" {
		out += "-" + v.Prerelease
	}
	return out
}

func (a *app) versionCmd() *cobra.Command {
	var format string
	var full bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload := versionPayload{Tool: "vtc-go", Version: versionString()}
			if full {
				payload.GitCommit = valueOrUnknown(GitCommit)
				payload.BuildDate = valueOrUnknown(BuildDate)
				if info, ok := debug.ReadBuildInfo(); ok {
					payload.GoVersion = info.GoVersion
				}
			}
			switch strings.ToLower(format) {
			case "pretty":
				renderVersionPretty(cmd.OutOrStdout(), payload)
				return nil
			case "json":
				return writeJSON(cmd.OutOrStdout(), payload)
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&full, "full", false, "include commit, build date and Go version")
	return cmd
}

func renderVersionPretty(out io.Writer, p versionPayload) {
	fmt.Fprintf(out, "%s %s\n", p.Tool, coloredVersion(p.Version))
	if p.GitCommit != "" {
		fmt.Fprintf(out, "commit: %s\n", p.GitCommit)
	}
	if p.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s\n", p.BuildDate)
	}
	if p.GoVersion != "" {
		fmt.Fprintf(out, "go:     %s\n", p.GoVersion)
	}
}

func valueOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
