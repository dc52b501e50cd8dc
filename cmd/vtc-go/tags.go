package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vtc-go/packages/compiler/src/schema"
	"vtc-go/packages/compiler/src/util"
)

type tagInfo struct {
	Tag           string `json:"tag"`
	NonPhrasing   bool   `json:"nonPhrasing"`
	Reserved      bool   `json:"reserved"`
	HTML          bool   `json:"html"`
	SVG           bool   `json:"svg"`
	Unary         bool   `json:"unary"`
	CanBeLeftOpen bool   `json:"canBeLeftOpen"`
	Pre           bool   `json:"pre"`
	BuiltIn       bool   `json:"builtIn"`
	Namespace     string `json:"namespace,omitempty"`
	ClosesParent  *bool  `json:"closesParent,omitempty"`
}

func classifyTag(tag, parent string) tagInfo {
	info := tagInfo{
		Tag:           tag,
		NonPhrasing:   util.IsNonPhrasingTag(tag),
		Reserved:      schema.IsReservedTag(tag),
		HTML:          schema.IsHTMLTag(tag),
		SVG:           schema.IsSVG(tag),
		Unary:         schema.IsUnaryTag(tag),
		CanBeLeftOpen: schema.CanBeLeftOpenTag(tag),
		Pre:           schema.IsPreTag(tag),
		BuiltIn:       util.IsBuiltInTag(tag),
		Namespace:     schema.GetTagNamespace(tag),
	}
	if parent != "" {
		closes := schema.ImplicitlyClosedBy(parent, tag)
		info.ClosesParent = &closes
	}
	return info
}

func (a *app) tagsCmd() *cobra.Command {
	var format, parent string
	cmd := &cobra.Command{
		Use:   "tags <tag>...",
		Short: "Classify tags against the web platform tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := make([]tagInfo, len(args))
			for i, tag := range args {
				infos[i] = classifyTag(tag, parent)
			}
			switch format {
			case "pretty":
				return renderTagsPretty(cmd.OutOrStdout(), infos, parent)
			case "json":
				return writeJSON(cmd.OutOrStdout(), infos)
			default:
				return fmt.Errorf("unknown format: %s", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().StringVar(&parent, "parent", "", "also report whether each tag implicitly closes an open <parent>")
	return cmd
}

func renderTagsPretty(w io.Writer, infos []tagInfo, parent string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, info := range infos {
		var traits []string
		add := func(ok bool, name string) {
			if ok {
				traits = append(traits, name)
			}
		}
		add(info.NonPhrasing, "non-phrasing")
		add(info.Reserved, "reserved")
		add(info.SVG, "svg")
		add(info.Unary, "unary")
		add(info.CanBeLeftOpen, "left-open")
		add(info.Pre, "pre")
		add(info.BuiltIn, "built-in")
		if info.Namespace != "" {
			traits = append(traits, "ns="+info.Namespace)
		}
		if info.ClosesParent != nil && *info.ClosesParent {
			traits = append(traits, "closes <"+parent+">")
		}
		desc := dimColor.Sprint("component")
		if len(traits) > 0 {
			desc = okColor.Sprint(strings.Join(traits, " "))
		}
		fmt.Fprintf(tw, "%s\t%s\n", info.Tag, desc)
	}
	return tw.Flush()
}
