package sfc

import (
	"regexp"

	"vtc-go/packages/compiler/src/util"
)

// UsageResolver reports whether the import bound to local is used by the
// template of d.
type UsageResolver interface {
	IsImportUsed(local string, d *Descriptor) bool
}

// UsageResolverFunc adapts a function to UsageResolver.
type UsageResolverFunc func(local string, d *Descriptor) bool

// IsImportUsed implements UsageResolver.
func (f UsageResolverFunc) IsImportUsed(local string, d *Descriptor) bool {
	return f(local, d)
}

// ImportsUsageResolver trusts the IsUsedInTemplate flags that script
// analysis stored on the <script setup> imports.
var ImportsUsageResolver UsageResolver = UsageResolverFunc(func(local string, d *Descriptor) bool {
	if d.ScriptSetup == nil {
		return false
	}
	imp, ok := d.ScriptSetup.Imports[local]
	return ok && imp.IsUsedInTemplate
})

// TemplateTextUsageResolver looks for local in the template source as a
// whole word, or in its kebab-case form for component tags.
var TemplateTextUsageResolver UsageResolver = UsageResolverFunc(func(local string, d *Descriptor) bool {
	if d.Template == nil || local == "" {
		return false
	}
	content := d.Template.Content
	if wordRE(local).MatchString(content) {
		return true
	}
	if kebab := util.Hyphenate(local); kebab != local {
		return regexp.MustCompile(`<` + regexp.QuoteMeta(kebab) + `[\s/>]`).MatchString(content)
	}
	return false
})

func wordRE(word string) *regexp.Regexp {
	return regexp.MustCompile(`(^|[^\w$])` + regexp.QuoteMeta(word) + `($|[^\w$])`)
}

// ShouldForceReload compares the imports of the previous version of the
// component with d to decide whether hot reload must reload the component
// instead of re-rendering it. It assumes both script versions are
// identical and only detects the case where <script setup lang="ts">
// import pruning changes because the template now uses an import it did
// not use before.
func (d *Descriptor) ShouldForceReload(prevImports map[string]ImportBinding) bool {
	return hmrShouldReload(prevImports, d)
}

func hmrShouldReload(prevImports map[string]ImportBinding, next *Descriptor) bool {
	if next.ScriptSetup == nil || (next.ScriptSetup.Lang != "ts" && next.ScriptSetup.Lang != "tsx") {
		return false
	}
	resolver := next.UsageResolver
	if resolver == nil {
		resolver = ImportsUsageResolver
	}
	for key, prev := range prevImports {
		if !prev.IsUsedInTemplate && resolver.IsImportUsed(key, next) {
			return true
		}
	}
	return false
}
