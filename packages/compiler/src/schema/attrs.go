package schema

import (
	"vtc-go/packages/compiler/src/util"
)

// XlinkNS is the namespace of xlink:* attributes.
const XlinkNS = "http://www.w3.org/1999/xlink"

// IsReservedAttr matches attributes handled by dedicated modules.
var IsReservedAttr = util.MakeMap("style,class", false)

var acceptValue = util.MakeMap("input,textarea,option,select,progress", false)

// MustUseProp reports whether attr must be bound as a DOM property rather
// than an attribute. typ is the element's type attribute, empty when absent.
func MustUseProp(tag, typ, attr string) bool {
	return (attr == "value" && acceptValue(tag) && typ != "button") ||
		(attr == "selected" && tag == "option") ||
		(attr == "checked" && tag == "input") ||
		(attr == "muted" && tag == "video")
}

// IsEnumeratedAttr matches attributes taking a fixed set of string values.
var IsEnumeratedAttr = util.MakeMap("contenteditable,draggable,spellcheck", false)

var isValidContentEditableValue = util.MakeMap("events,caret,typing,plaintext-only", false)

// ConvertEnumeratedValue normalizes the value of an enumerated attribute.
// A nil or false value and the string "false" become "false".
func ConvertEnumeratedValue(key string, value any) string {
	if IsFalsyAttrValue(value) || value == "false" {
		return "false"
	}
	if s, ok := value.(string); ok && key == "contenteditable" && isValidContentEditableValue(s) {
		return s
	}
	return "true"
}

// IsBooleanAttr matches attributes whose presence means true.
var IsBooleanAttr = util.MakeMap(
	"allowfullscreen,async,autofocus,autoplay,checked,compact,controls,declare,"+
		"default,defaultchecked,defaultmuted,defaultselected,defer,disabled,"+
		"enabled,formnovalidate,hidden,indeterminate,inert,ismap,itemscope,loop,multiple,"+
		"muted,nohref,noresize,noshade,novalidate,nowrap,open,pauseonexit,readonly,"+
		"required,reversed,scoped,seamless,selected,sortable,"+
		"truespeed,typemustmatch,visible",
	false,
)

// IsXlink reports whether name is an xlink:* attribute.
func IsXlink(name string) bool {
	return len(name) > 5 && name[5] == ':' && name[:5] == "xlink"
}

// GetXlinkProp returns the local part of an xlink:* attribute.
func GetXlinkProp(name string) string {
	if IsXlink(name) {
		return name[6:]
	}
	return ""
}

// IsFalsyAttrValue reports whether value removes a bound attribute.
func IsFalsyAttrValue(value any) bool {
	return value == nil || value == false
}
