/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package moduletype classifies JavaScript sources by the module system they use.
package moduletype

import "fmt"

// Type is the module system a file declares its dependencies with.
type Type int

const (
	// None means no module syntax was found. Only the analyzer reports it;
	// the dispatcher treats it as ES6.
	None Type = iota

	// AMD is define()/require([...]) style, resolved through a RequireJS config.
	AMD

	// CommonJS is require()/module.exports style.
	CommonJS

	// ES6 is import/export style.
	ES6

	// Webpack means the file is built by a bundler whose config drives resolution.
	Webpack
)

// String returns the conventional name of the module type.
func (t Type) String() string {
	switch t {
	case AMD:
		return "amd"
	case CommonJS:
		return "commonjs"
	case ES6:
		return "es6"
	case Webpack:
		return "webpack"
	default:
		return "none"
	}
}

// FromString returns the module type for its conventional name.
func FromString(s string) (Type, error) {
	switch s {
	case "amd":
		return AMD, nil
	case "commonjs", "cjs":
		return CommonJS, nil
	case "es6", "esm", "es2015":
		return ES6, nil
	case "webpack":
		return Webpack, nil
	case "none", "":
		return None, nil
	default:
		return None, fmt.Errorf("unrecognized module type: %s", s)
	}
}
