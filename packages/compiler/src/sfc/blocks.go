package sfc

import (
	"regexp"
	"strings"

	"vtc-go/packages/compiler/src/util"
)

var isSpecialTag = util.MakeMap("script,style,template", true)

// BlockAttr is an attribute of a block's start tag. An empty Value stands
// for an attribute written without a value.
type BlockAttr struct {
	Name  string
	Value string
}

// NewBlock creates a block of type typ whose content spans [start, end) of
// the component source. For special blocks the lang, scoped and module
// attributes are interpreted; every block records src.
func NewBlock(typ string, attrs []BlockAttr, start, end int) *Block {
	b := &Block{CustomBlock: CustomBlock{
		Type:  typ,
		Attrs: make(map[string]AttrValue, len(attrs)),
		Start: start,
		End:   end,
	}}
	for _, a := range attrs {
		if a.Value == "" {
			b.Attrs[a.Name] = TrueAttr
		} else {
			b.Attrs[a.Name] = StringAttr(a.Value)
		}
	}
	if src, ok := b.Attrs["src"]; ok && src.IsString() {
		b.Src = src.String
	}
	if isSpecialTag(typ) {
		for _, a := range attrs {
			switch a.Name {
			case "lang":
				b.Lang = a.Value
			case "scoped":
				b.Scoped = true
			case "module":
				if a.Value == "" {
					b.Module = &ModuleRef{Default: true}
				} else {
					b.Module = &ModuleRef{Name: a.Value}
				}
			}
		}
	}
	return b
}

// AddBlock stores b in the descriptor. Template, script and script setup
// are singletons: a second one is reported in Errors and replaces the
// first. Styles and custom blocks are appended in order. Script blocks are
// copied into a ScriptBlock, so later changes to b are not seen.
func (d *Descriptor) AddBlock(b *Block) {
	if !isSpecialTag(b.Type) {
		d.CustomBlocks = append(d.CustomBlocks, &b.CustomBlock)
		return
	}
	switch strings.ToLower(b.Type) {
	case "template":
		if d.Template != nil {
			d.duplicateBlock(b, "template")
		}
		d.Template = b
	case "style":
		d.Styles = append(d.Styles, b)
	case "script":
		sb := &ScriptBlock{Block: *b}
		if setup, ok := b.Attrs["setup"]; ok {
			sb.Setup = &setup
			if d.ScriptSetup != nil {
				d.duplicateBlock(b, "script setup")
			}
			d.ScriptSetup = sb
			return
		}
		if d.Script != nil {
			d.duplicateBlock(b, "script")
		}
		d.Script = sb
	}
}

func (d *Descriptor) duplicateBlock(b *Block, name string) {
	d.Errors = append(d.Errors, util.NewRangedWarning(
		"Single file component can contain only one <"+name+"> element",
		b.Start, b.End,
	))
}

// FillContent sets b.Content from the descriptor source. Content is
// de-indented unless disabled, and blocks other than the template are
// padded so line numbers in the content match the file.
func (d *Descriptor) FillContent(b *Block, opts ParseOptions) {
	d.fillContent(&b.CustomBlock, b.Lang, opts)
}

// FillCustomContent is FillContent for a custom block.
func (d *Descriptor) FillCustomContent(b *CustomBlock, opts ParseOptions) {
	d.fillContent(b, "", opts)
}

func (d *Descriptor) fillContent(b *CustomBlock, lang string, opts ParseOptions) {
	start, end := b.Start, b.End
	if start < 0 {
		start = 0
	}
	if end > len(d.Source) {
		end = len(d.Source)
	}
	if start > end {
		start = end
	}
	text := d.Source[start:end]
	deindent := b.Type != "template" || lang == "" || lang == "html"
	if opts.Deindent != nil {
		deindent = *opts.Deindent
	}
	if deindent {
		text = Deindent(text)
	}
	if b.Type != "template" && opts.Pad != PadNone {
		text = d.padContent(b.Type, lang, start, opts.Pad) + text
	}
	b.Content = text
}

var (
	splitRE   = regexp.MustCompile(`\r?\n`)
	replaceRE = regexp.MustCompile(`[^\n\r\x{2028}\x{2029}]`)
	needFixRE = regexp.MustCompile(`^(\r?\n)*[\t\s]`)
	emptyLnRE = regexp.MustCompile(`^\s*$`)
)

func (d *Descriptor) padContent(typ, lang string, start int, pad Pad) string {
	prefix := d.Source[:start]
	if pad == PadSpace {
		return replaceRE.ReplaceAllString(prefix, " ")
	}
	offset := len(splitRE.Split(prefix, -1))
	padChar := "\n"
	if typ == "script" && lang == "" {
		padChar = "//\n"
	}
	return strings.Repeat(padChar, offset-1)
}

// Deindent removes the indentation shared by all non-blank lines. The
// indentation character is taken from the first non-blank line; text whose
// first non-blank line is not indented is returned unchanged.
func Deindent(str string) string {
	if !needFixRE.MatchString(str) {
		return str
	}
	lines := splitRE.Split(str, -1)
	minIndent := -1
	var indent byte
	for _, line := range lines {
		if emptyLnRE.MatchString(line) {
			continue
		}
		if indent == 0 {
			c := line[0]
			if c != ' ' && c != '\t' {
				return str
			}
			indent = c
		}
		n := countLeading(line, indent)
		if minIndent < 0 || n < minIndent {
			minIndent = n
		}
	}
	if minIndent == 0 {
		return strings.Join(lines, "\n")
	}
	for i, line := range lines {
		if minIndent < 0 {
			lines[i] = ""
			continue
		}
		if len(line) > minIndent {
			lines[i] = line[minIndent:]
		} else {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

func countLeading(line string, c byte) int {
	i := 0
	for i < len(line) && line[i] == c {
		i++
	}
	return i
}
