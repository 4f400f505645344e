package version

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var (
	ErrVersionNotFound = errors.New("could not find version")
	ErrVersionWrite    = errors.New("failed to update version")
	ErrUnknownPart     = errors.New("unknown bump type")
)

// DefaultManifest is the file bumped when no path is given.
const DefaultManifest = "pyproject.toml"

// Part selects the semantic version component to increment.
type Part string

const (
	Major Part = "major"
	Minor Part = "minor"
	Patch Part = "patch"
)

// ParsePart validates a bump type name. Names are lower case only.
func ParsePart(s string) (Part, error) {
	switch p := Part(s); p {
	case Major, Minor, Patch:
		return p, nil
	}
	return "", fmt.Errorf("%w: %s (valid: major, minor, patch)", ErrUnknownPart, s)
}

// versionLine keeps trailing blanks and a CR in group 2 so Replace can
// preserve line endings.
var versionLine = regexp.MustCompile(`(?m)^version[ \t]*=[ \t]*"(\d+\.\d+\.\d+)"([ \t]*\r?)$`)

// Read returns the first `version = "X.Y.Z"` value in text.
func Read(text string) (string, error) {
	m := versionLine.FindStringSubmatch(text)
	if m == nil {
		return "", ErrVersionNotFound
	}
	return m[1], nil
}

// Bump increments part of version and zeroes the lower components.
func Bump(version string, part Part) (string, error) {
	fields := strings.Split(version, ".")
	if len(fields) != 3 {
		return "", fmt.Errorf("invalid version %q", version)
	}
	nums := make([]int, 3)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return "", fmt.Errorf("invalid version %q", version)
		}
		nums[i] = n
	}

	switch part {
	case Major:
		nums[0]++
		nums[1], nums[2] = 0, 0
	case Minor:
		nums[1]++
		nums[2] = 0
	case Patch:
		nums[2]++
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownPart, part)
	}
	return fmt.Sprintf("%d.%d.%d", nums[0], nums[1], nums[2]), nil
}

// Replace rewrites the first version line of text to newVersion.
func Replace(text, newVersion string) (string, error) {
	loc := versionLine.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", ErrVersionWrite
	}
	return text[:loc[0]] + fmt.Sprintf("version = %q", newVersion) + text[loc[4]:], nil
}

// ReadFile returns the current version stored in path.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	v, err := Read(string(data))
	if err != nil {
		return "", fmt.Errorf("%w in %s", err, filepath.Base(path))
	}
	return v, nil
}

// Write replaces exactly one version line in path. TOML manifests must
// still parse after the edit.
func Write(path, newVersion string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVersionWrite, err)
	}

	updated, err := Replace(string(data), newVersion)
	if err != nil {
		return fmt.Errorf("%w in %s", err, filepath.Base(path))
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var doc map[string]interface{}
		if err := toml.Unmarshal([]byte(updated), &doc); err != nil {
			return fmt.Errorf("%w: %s no longer parses: %v", ErrVersionWrite, filepath.Base(path), err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVersionWrite, err)
	}
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("%w: %v", ErrVersionWrite, err)
	}
	return nil
}

// BumpFile reads, bumps and writes the version in path, returning the new
// version.
func BumpFile(path string, part Part) (string, error) {
	current, err := ReadFile(path)
	if err != nil {
		return "", err
	}
	next, err := Bump(current, part)
	if err != nil {
		return "", err
	}
	if err := Write(path, next); err != nil {
		return "", err
	}
	return next, nil
}
