// Package manifest reads the project manifest that accompanies a Veridian
// source tree. The manifest names the project and pins the language
// version range the sources were written for, so the compiler can refuse
// input it is too old or too new to understand.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Filename is the manifest file name looked up next to the sources.
const Filename = "veridian.mod"

// LanguageVersion is the language version this compiler implements.
const LanguageVersion = "1.0.0"

// Manifest is the parsed project manifest.
type Manifest struct {
	Name    string
	Version string
	// Language is the accepted language version range, as a semver
	// constraint. Empty means any version.
	Language string
}

// Parse reads a manifest from its textual form: one `key = value` pair
// per line, with `#` comments.
func Parse(content string) (*Manifest, error) {
	m := &Manifest{}
	for lineNum, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("manifest line %d: expected `key = value`, found %q", lineNum+1, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)

		switch key {
		case "name":
			m.Name = value
		case "version":
			m.Version = value
		case "language":
			m.Language = value
		default:
			return nil, fmt.Errorf("manifest line %d: unknown key %q", lineNum+1, key)
		}
	}

	if m.Name == "" {
		return nil, fmt.Errorf("manifest: missing required key %q", "name")
	}
	if m.Version != "" {
		if _, err := semver.NewVersion(m.Version); err != nil {
			return nil, fmt.Errorf("manifest: invalid version %q: %w", m.Version, err)
		}
	}
	if m.Language != "" {
		if _, err := semver.NewConstraint(m.Language); err != nil {
			return nil, fmt.Errorf("manifest: invalid language constraint %q: %w", m.Language, err)
		}
	}
	return m, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(content))
}

// CheckLanguage verifies that the compiler's language version satisfies
// the manifest's constraint.
func (m *Manifest) CheckLanguage() error {
	return m.checkLanguageAgainst(LanguageVersion)
}

func (m *Manifest) checkLanguageAgainst(version string) error {
	if m.Language == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(m.Language)
	if err != nil {
		return fmt.Errorf("manifest: invalid language constraint %q: %w", m.Language, err)
	}
	current, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("manifest: invalid compiler version %q: %w", version, err)
	}
	if !constraint.Check(current) {
		return fmt.Errorf("manifest: project %q requires language %s, compiler implements %s",
			m.Name, m.Language, version)
	}
	return nil
}
