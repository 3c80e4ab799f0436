/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package specifier parses the dependency strings written in import,
// require, define and @import statements.
package specifier

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Kind indicates the shape of a specifier.
type Kind int

const (
	// KindEmpty is a missing or blank specifier.
	KindEmpty Kind = iota
	// KindRelative starts with "./" or "../", or is "." or "..".
	KindRelative
	// KindAbsolute is an absolute filesystem path.
	KindAbsolute
	// KindPackage is a bare package name, optionally with a subpath.
	KindPackage
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRelative:
		return "relative"
	case KindAbsolute:
		return "absolute"
	case KindPackage:
		return "package"
	default:
		return "empty"
	}
}

// Specifier represents a parsed dependency specifier.
type Specifier struct {
	// Kind is the shape of the request (relative, absolute, package).
	Kind Kind

	// Loader is the bundler loader chain, without the trailing "!".
	// Empty when the specifier has no loader prefix.
	Loader string

	// Request is the specifier with any loader prefix removed.
	Request string

	// Package is the package name for KindPackage (e.g., "@scope/pkg" or "pkg").
	Package string

	// Subpath is the path inside the package, without a leading slash.
	Subpath string

	// Raw is the original specifier string.
	Raw string
}

// packagePattern matches @scope/pkg/path, pkg/path, or bare pkg
var packagePattern = regexp.MustCompile(`^(@[^/]+/[^/]+|[^/@][^/]*)(?:/(.*))?$`)

// Parse parses a specifier string into a Specifier struct.
func Parse(raw string) *Specifier {
	loader, request := SplitLoader(raw)
	s := &Specifier{
		Loader:  loader,
		Request: request,
		Raw:     raw,
	}

	switch {
	case strings.TrimSpace(request) == "":
		s.Kind = KindEmpty
	case IsRelative(request):
		s.Kind = KindRelative
	case filepath.IsAbs(request):
		s.Kind = KindAbsolute
	default:
		s.Kind = KindPackage
		if matches := packagePattern.FindStringSubmatch(request); matches != nil {
			s.Package = matches[1]
			s.Subpath = matches[2]
		} else {
			s.Package = request
		}
	}

	return s
}

// IsRelative returns true for specifiers resolved against the referencing file's directory.
func IsRelative(s string) bool {
	return s == "." || s == ".." ||
		strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../")
}

// IsBare returns true for package-style specifiers: neither relative nor absolute.
func IsBare(s string) bool {
	return s != "" && !IsRelative(s) && !filepath.IsAbs(s)
}

// SplitLoader separates a bundler loader chain from the resource it applies to.
// Loaders chain left to right ("style!css!./file.css"), so the resource is
// everything after the last "!".
func SplitLoader(s string) (loader, request string) {
	i := strings.LastIndexByte(s, '!')
	if i == -1 {
		return "", s
	}
	return strings.TrimRight(s[:i], "!"), s[i+1:]
}

// StripLoader returns the resource part of a loader-prefixed specifier.
func StripLoader(s string) string {
	_, request := SplitLoader(s)
	return request
}

// IsRelative returns true if this is a relative specifier.
func (s *Specifier) IsRelative() bool {
	return s.Kind == KindRelative
}

// IsPackage returns true if this is a bare package specifier.
func (s *Specifier) IsPackage() bool {
	return s.Kind == KindPackage
}

// IsEmpty returns true if there is nothing to resolve.
func (s *Specifier) IsEmpty() bool {
	return s.Kind == KindEmpty
}
