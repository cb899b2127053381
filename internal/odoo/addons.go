package odoo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrNoVersion is returned when no addon in the repository declares an Odoo
// version.
var ErrNoVersion = errors.New("no Odoo version found in addons")

// Manifest file names marking an addon directory, newest first.
var manifestNames = []string{"__manifest__.py", "__openerp__.py"}

var manifestVersionPattern = regexp.MustCompile(`["']version["']\s*:\s*["']([^"']+)["']`)

// VersionFromAddons walks the repository at root and derives the Odoo series
// from the version declared in addon manifests. Manifest versions without a
// series prefix (fewer than four dotted components, e.g. a bare "1.2") are
// ignored as addon-local versions. When addons disagree, the series declared
// by the most addons wins.
func VersionFromAddons(root string) (Version, error) {
	counts := make(map[Version]int)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Dot directories (.git most importantly) never contain addons.
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isManifestName(d.Name()) {
			return nil
		}

		version, ok := versionFromManifest(path)
		if ok {
			counts[version]++
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan addons in %s: %w", root, err)
	}

	if len(counts) == 0 {
		return "", ErrNoVersion
	}
	return majority(counts), nil
}

func isManifestName(name string) bool {
	for _, m := range manifestNames {
		if name == m {
			return true
		}
	}
	return false
}

// versionFromManifest extracts the series from a single manifest file.
func versionFromManifest(path string) (Version, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	m := manifestVersionPattern.FindSubmatch(data)
	if m == nil {
		return "", false
	}

	raw := string(m[1])
	// A series-prefixed module version has at least four dotted components
	// ("17.0.1.0.0"); anything shorter is the addon's own version.
	if strings.Count(raw, ".") < 3 {
		return "", false
	}
	version := ParseVersion(raw)
	return version, version != ""
}

// majority returns the most frequent series, highest series winning ties.
func majority(counts map[Version]int) Version {
	versions := make([]Version, 0, len(counts))
	for v := range counts {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool {
		if counts[versions[i]] != counts[versions[j]] {
			return counts[versions[i]] > counts[versions[j]]
		}
		return versions[i] > versions[j]
	})
	return versions[0]
}
