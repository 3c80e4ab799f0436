/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package typescript

import (
	"strings"
)

// matchPaths returns the substitutions for the paths pattern that matches
// partial. An exact pattern wins; otherwise the wildcard pattern with the
// longest prefix is used and its "*" captures the rest of the partial.
func matchPaths(partial string, paths map[string][]string) []string {
	if substitutions, ok := paths[partial]; ok {
		return substitutions
	}

	var (
		bestPattern string
		bestPrefix  = -1
		bestSuffix  = -1
		captured    string
	)
	for pattern := range paths {
		prefix, suffix, ok := strings.Cut(pattern, "*")
		if !ok {
			continue
		}
		if len(partial) < len(prefix)+len(suffix) ||
			!strings.HasPrefix(partial, prefix) ||
			!strings.HasSuffix(partial, suffix) {
			continue
		}
		if !betterMatch(len(prefix), len(suffix), pattern, bestPrefix, bestSuffix, bestPattern) {
			continue
		}
		bestPattern = pattern
		bestPrefix = len(prefix)
		bestSuffix = len(suffix)
		captured = partial[len(prefix) : len(partial)-len(suffix)]
	}
	if bestPrefix < 0 {
		return nil
	}

	substitutions := paths[bestPattern]
	result := make([]string, 0, len(substitutions))
	for _, s := range substitutions {
		result = append(result, strings.Replace(s, "*", captured, 1))
	}
	return result
}

// betterMatch prefers the longer prefix, then the longer suffix. Map
// iteration order is random, so remaining ties break on the pattern text.
func betterMatch(prefix, suffix int, pattern string, bestPrefix, bestSuffix int, bestPattern string) bool {
	if prefix != bestPrefix {
		return prefix > bestPrefix
	}
	if suffix != bestSuffix {
		return suffix > bestSuffix
	}
	return pattern < bestPattern
}
