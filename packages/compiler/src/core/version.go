package core

import "strings"

// Version is a semantic version split into its parts. Prerelease holds
// what follows the first '-' of the patch component.
type Version struct {
	Full       string
	Major      string
	Minor      string
	Patch      string
	Prerelease string
}

// NewVersion splits full into major, minor and patch. Missing parts are
// left empty.
func NewVersion(full string) *Version {
	v := &Version{Full: full}
	base, pre, _ := strings.Cut(full, "-")
	v.Prerelease = pre
	parts := strings.SplitN(base, ".", 3)
	if len(parts) > 0 {
		v.Major = parts[0]
	}
	if len(parts) > 1 {
		v.Minor = parts[1]
	}
	if len(parts) > 2 {
		v.Patch = parts[2]
	}
	return v
}

// Complete reports whether major, minor and patch are all present.
func (v *Version) Complete() bool {
	return v.Major != "" && v.Minor != "" && v.Patch != ""
}
