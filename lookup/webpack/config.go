/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package webpack

import (
	"fmt"
	"sort"
	"strings"

	cabfs "bennypowers.dev/filing-cabinet/fs"
	"bennypowers.dev/filing-cabinet/internal/jsvalue"
	"bennypowers.dev/filing-cabinet/lookup"
)

// DefaultExtensions are tried when the config names none.
var DefaultExtensions = []string{".js", ".json", ".node"}

// Alias replaces the start of a request.
type Alias struct {
	// Name is matched against the request. With OnlyModule it must match
	// the whole request; otherwise it may also be followed by "/".
	Name string

	// Target replaces Name. Empty means the module is ignored.
	Target string

	OnlyModule bool
}

// ResolveConfig is the resolve section of a webpack config.
type ResolveConfig struct {
	// Modules are searched for bare requests. Relative names are looked up
	// in every ancestor of the context directory; absolute ones directly.
	Modules []string

	// Alias entries, longest name first.
	Alias []Alias

	Extensions []string

	MainFields []string
}

// LoadConfig statically evaluates a webpack config file and returns its
// resolve section. A config exporting an array contributes its first entry;
// one exporting a function contributes the function's return value.
func LoadConfig(fsys cabfs.FileSystem, path string) (*ResolveConfig, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", lookup.ErrConfigLoad, path, err)
	}

	exported, err := jsvalue.ModuleExports(data, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", lookup.ErrConfigLoad, err)
	}

	if configs, ok := exported.([]any); ok {
		if len(configs) == 0 {
			return nil, fmt.Errorf("%w: %s exports an empty array", lookup.ErrConfigLoad, path)
		}
		exported = configs[0]
	}

	cfg, ok := exported.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s does not export a config object", lookup.ErrConfigLoad, path)
	}
	return ConfigFromMap(cfg), nil
}

// ConfigFromMap reads the resolve section of an evaluated webpack config.
// The legacy root and modulesDirectories options become modules when
// modules itself is absent.
func ConfigFromMap(cfg map[string]any) *ResolveConfig {
	resolve, _ := cfg["resolve"].(map[string]any)

	rc := &ResolveConfig{
		Modules:    stringList(resolve["modules"]),
		Extensions: stringList(resolve["extensions"]),
		MainFields: stringList(resolve["mainFields"]),
		Alias:      aliases(resolve["alias"]),
	}

	if rc.Modules == nil {
		root := stringList(resolve["root"])
		legacy := stringList(resolve["modulesDirectories"])
		if root != nil || legacy != nil {
			rc.Modules = append(append([]string{}, root...), legacy...)
		}
	}
	if rc.Modules == nil {
		rc.Modules = []string{"node_modules"}
	}

	// webpack 1 listed "" to allow requests that already carry an extension
	var extensions []string
	for _, ext := range rc.Extensions {
		if ext != "" {
			extensions = append(extensions, ext)
		}
	}
	rc.Extensions = extensions
	if len(rc.Extensions) == 0 {
		rc.Extensions = DefaultExtensions
	}

	if len(rc.MainFields) == 0 {
		rc.MainFields = []string{"main"}
	}
	return rc
}

func aliases(v any) []Alias {
	var list []Alias
	switch v := v.(type) {
	case map[string]any:
		for name, target := range v {
			alias := Alias{Name: name}
			if exact, ok := strings.CutSuffix(name, "$"); ok {
				alias.Name = exact
				alias.OnlyModule = true
			}
			switch target := target.(type) {
			case string:
				alias.Target = target
			case []any:
				if targets := stringList(target); len(targets) > 0 {
					alias.Target = targets[0]
				}
			}
			list = append(list, alias)
		}
	case []any:
		for _, entry := range v {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			alias := Alias{}
			alias.Name, _ = m["name"].(string)
			alias.Target, _ = m["alias"].(string)
			alias.OnlyModule, _ = m["onlyModule"].(bool)
			if alias.Name != "" {
				list = append(list, alias)
			}
		}
	}

	sort.SliceStable(list, func(i, j int) bool {
		if len(list[i].Name) != len(list[j].Name) {
			return len(list[i].Name) > len(list[j].Name)
		}
		return list[i].Name < list[j].Name
	})
	return list
}

// stringList reads a string or an array of strings.
func stringList(v any) []string {
	switch v := v.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// apply rewrites request with the first matching alias. ignored reports an
// alias that maps the module to nothing.
func (rc *ResolveConfig) apply(request string) (rewritten string, ignored bool) {
	for _, alias := range rc.Alias {
		rest, ok := strings.CutPrefix(request, alias.Name)
		if !ok {
			continue
		}
		if rest != "" && (alias.OnlyModule || !strings.HasPrefix(rest, "/")) {
			continue
		}
		if alias.Target == "" {
			return "", true
		}
		return alias.Target + rest, false
	}
	return request, false
}
