// Package odoo knows how to recognize Odoo version identifiers and derive
// them from repository contents.
package odoo

import (
	"regexp"
	"strings"
)

// Version is an Odoo series identifier such as "17.0" or "saas~16.4".
type Version string

func (v Version) String() string { return string(v) }

// seriesPattern matches the leading series of a manifest version string.
var seriesPattern = regexp.MustCompile(`^(saas~)?(\d+)\.(\d+)`)

// ParseVersion extracts the Odoo series from a raw version string.
// Full module versions ("17.0.1.0.3") collapse to their series ("17.0").
// Returns the empty Version when raw does not look like an Odoo version.
func ParseVersion(raw string) Version {
	raw = strings.TrimSpace(raw)
	m := seriesPattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return Version(m[1] + m[2] + "." + m[3])
}
