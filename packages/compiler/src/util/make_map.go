package util

import (
	"strings"
	"sync"
)

// TagPredicate classifies a tag name.
type TagPredicate func(tag string) bool

// Set is an immutable membership table built from a comma-separated list.
// Lookups only ever see explicitly inserted keys.
type Set struct {
	keys      map[string]struct{}
	lowerCase bool
}

// NewSet splits str on commas and inserts every token, the empty token
// included. When expectsLowerCase is set, Has lower-cases its argument
// before the lookup; the tokens themselves are stored verbatim.
func NewSet(str string, expectsLowerCase bool) *Set {
	list := strings.Split(str, ",")
	keys := make(map[string]struct{}, len(list))
	for _, k := range list {
		keys[k] = struct{}{}
	}
	return &Set{keys: keys, lowerCase: expectsLowerCase}
}

// Has reports whether key is a member of the set.
func (s *Set) Has(key string) bool {
	if s.lowerCase {
		key = strings.ToLower(key)
	}
	_, ok := s.keys[key]
	return ok
}

// Len returns the number of distinct keys.
func (s *Set) Len() int {
	return len(s.keys)
}

// Keys returns the members in unspecified order.
func (s *Set) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	return out
}

// MakeMap makes a map and returns a function for checking if a key is in
// that map.
//
// A missing key yields false. There is no separate "undefined" result:
// callers only ever need the member / not-member distinction.
func MakeMap(str string, expectsLowerCase bool) TagPredicate {
	return NewSet(str, expectsLowerCase).Has
}

// No always returns false.
func No(_ ...any) bool {
	return false
}

// NoTag is No for single tag-name classifier slots.
func NoTag(string) bool {
	return false
}

// IsNonPhrasingTag reports whether tag is outside phrasing content.
//
// HTML5 tags https://html.spec.whatwg.org/multipage/indices.html#elements-3
// Phrasing Content https://html.spec.whatwg.org/multipage/dom.html#phrasing-content
var IsNonPhrasingTag = MakeMap(
	"address,article,aside,base,blockquote,body,caption,col,colgroup,dd,"+
		"details,dialog,div,dl,dt,fieldset,figcaption,figure,footer,form,"+
		"h1,h2,h3,h4,h5,h6,head,header,hgroup,hr,html,legend,li,menuitem,meta,"+
		"optgroup,option,param,rp,rt,source,style,summary,tbody,td,tfoot,th,thead,"+
		"title,tr,track",
	false,
)

// IsBuiltInTag matches the framework's own built-in components.
var IsBuiltInTag = MakeMap("slot,component", true)

// Cached memoises a string function. The returned function is safe for
// concurrent use.
func Cached[T any](fn func(string) T) func(string) T {
	var mu sync.Mutex
	cache := make(map[string]T)
	return func(s string) T {
		mu.Lock()
		defer mu.Unlock()
		if v, ok := cache[s]; ok {
			return v
		}
		v := fn(s)
		cache[s] = v
		return v
	}
}
