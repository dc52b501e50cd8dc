package schema

import (
	"strings"
	"sync"

	"vtc-go/packages/compiler/src/util"
)

// TagDefinition describes how an HTML element interacts with its
// neighbours when closing tags are omitted.
type TagDefinition struct {
	closedByChildren map[string]bool
	// ClosedByParent is set when the element ends with its parent.
	ClosedByParent bool
	// IsVoid is set for elements that cannot have children.
	IsVoid bool
	// IgnoreFirstLF drops a newline directly after the start tag.
	IgnoreFirstLF bool
	// ImplicitNamespace is the namespace the element opens, if any.
	ImplicitNamespace string
}

type tagDefinitionOptions struct {
	closedByChildren  []string
	closedByParent    bool
	isVoid            bool
	ignoreFirstLF     bool
	implicitNamespace string
}

func newTagDefinition(opts tagDefinitionOptions) *TagDefinition {
	closedByChildren := make(map[string]bool, len(opts.closedByChildren))
	for _, tagName := range opts.closedByChildren {
		closedByChildren[tagName] = true
	}
	return &TagDefinition{
		closedByChildren:  closedByChildren,
		ClosedByParent:    opts.closedByParent || opts.isVoid,
		IsVoid:            opts.isVoid,
		IgnoreFirstLF:     opts.ignoreFirstLF,
		ImplicitNamespace: opts.implicitNamespace,
	}
}

// IsClosedByChild reports whether a child start tag name ends this element.
func (d *TagDefinition) IsClosedByChild(name string) bool {
	return d.IsVoid || d.closedByChildren[strings.ToLower(name)]
}

var (
	tagDefinitionsOnce   sync.Once
	defaultTagDefinition *TagDefinition
	tagDefinitions       map[string]*TagDefinition
)

// GetTagDefinition returns the definition of tagName, or a default one
// for elements without special rules. The lookup is case-insensitive.
func GetTagDefinition(tagName string) *TagDefinition {
	tagDefinitionsOnce.Do(initTagDefinitions)
	if def, ok := tagDefinitions[tagName]; ok {
		return def
	}
	if def, ok := tagDefinitions[strings.ToLower(tagName)]; ok {
		return def
	}
	return defaultTagDefinition
}

// ImplicitlyClosedBy reports whether an open parent element is ended by the
// start tag of child. A <p> is closed by any non-phrasing element, an
// element that may be left open is closed by a sibling of the same name,
// and the table, list, ruby and select rules of the tag definitions apply
// to every other parent.
func ImplicitlyClosedBy(parent, child string) bool {
	if CanBeLeftOpenTag(child) && parent == child {
		return true
	}
	if parent == "p" {
		return util.IsNonPhrasingTag(child)
	}
	return GetTagDefinition(parent).IsClosedByChild(child)
}

func initTagDefinitions() {
	defaultTagDefinition = newTagDefinition(tagDefinitionOptions{})
	tagDefinitions = make(map[string]*TagDefinition)

	for _, tag := range []string{"base", "meta", "area", "embed", "link", "img", "input", "param", "hr", "br", "source", "track", "wbr", "col"} {
		tagDefinitions[tag] = newTagDefinition(tagDefinitionOptions{isVoid: true})
	}

	tagDefinitions["p"] = newTagDefinition(tagDefinitionOptions{closedByParent: true})

	tagDefinitions["thead"] = newTagDefinition(tagDefinitionOptions{closedByChildren: []string{"tbody", "tfoot"}})
	tagDefinitions["tbody"] = newTagDefinition(tagDefinitionOptions{closedByChildren: []string{"tbody", "tfoot"}, closedByParent: true})
	tagDefinitions["tfoot"] = newTagDefinition(tagDefinitionOptions{closedByChildren: []string{"tbody"}, closedByParent: true})
	tagDefinitions["tr"] = newTagDefinition(tagDefinitionOptions{closedByChildren: []string{"tr"}, closedByParent: true})
	tagDefinitions["td"] = newTagDefinition(tagDefinitionOptions{closedByChildren: []string{"td", "th"}, closedByParent: true})
	tagDefinitions["th"] = newTagDefinition(tagDefinitionOptions{closedByChildren: []string{"td", "th"}, closedByParent: true})

	tagDefinitions["svg"] = newTagDefinition(tagDefinitionOptions{implicitNamespace: "svg"})
	tagDefinitions["math"] = newTagDefinition(tagDefinitionOptions{implicitNamespace: "math"})

	tagDefinitions["li"] = newTagDefinition(tagDefinitionOptions{closedByChildren: []string{"li"}, closedByParent: true})
	tagDefinitions["dt"] = newTagDefinition(tagDefinitionOptions{closedByChildren: []string{"dt", "dd"}})
	tagDefinitions["dd"] = newTagDefinition(tagDefinitionOptions{closedByChildren: []string{"dt", "dd"}, closedByParent: true})

	rubyClosers := []string{"rb", "rt", "rtc", "rp"}
	tagDefinitions["rb"] = newTagDefinition(tagDefinitionOptions{closedByChildren: rubyClosers, closedByParent: true})
	tagDefinitions["rt"] = newTagDefinition(tagDefinitionOptions{closedByChildren: rubyClosers, closedByParent: true})
	tagDefinitions["rtc"] = newTagDefinition(tagDefinitionOptions{closedByChildren: []string{"rb", "rtc", "rp"}, closedByParent: true})
	tagDefinitions["rp"] = newTagDefinition(tagDefinitionOptions{closedByChildren: rubyClosers, closedByParent: true})

	tagDefinitions["optgroup"] = newTagDefinition(tagDefinitionOptions{closedByChildren: []string{"optgroup"}, closedByParent: true})
	tagDefinitions["option"] = newTagDefinition(tagDefinitionOptions{closedByChildren: []string{"option", "optgroup"}, closedByParent: true})

	tagDefinitions["pre"] = newTagDefinition(tagDefinitionOptions{ignoreFirstLF: true})
	tagDefinitions["listing"] = newTagDefinition(tagDefinitionOptions{ignoreFirstLF: true})
	tagDefinitions["textarea"] = newTagDefinition(tagDefinitionOptions{ignoreFirstLF: true})
}
