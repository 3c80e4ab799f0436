/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package cabinet

import (
	"bennypowers.dev/filing-cabinet/internal/logger"
	"bennypowers.dev/filing-cabinet/moduletype"
)

// ModuleType decides how a JavaScript file's partials are resolved.
//
// A RequireJS config means AMD and a webpack config means Webpack, whatever
// the file contains. Otherwise the file's syntax decides, from opts.AST when
// given or else from the file itself. Files with no module syntax, and files
// that cannot be read, are treated as ES6.
func (c *Cabinet) ModuleType(opts Options) moduletype.Type {
	if present(opts.Config) {
		return moduletype.AMD
	}
	if present(opts.WebpackConfig) {
		return moduletype.Webpack
	}

	var detected moduletype.Type
	if opts.AST != nil {
		logger.Debug("reusing the given ast")
		detected = moduletype.Detect(opts.AST)
	} else {
		logger.Debug("using the filename to find the module type")
		t, err := moduletype.DetectFile(c.fileSystem(opts), opts.Filename)
		if err != nil {
			logger.Debug("could not read %s, assuming es6: %v", opts.Filename, err)
		}
		detected = t
	}

	if detected == moduletype.None {
		return moduletype.ES6
	}
	return detected
}
