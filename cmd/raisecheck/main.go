// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command raisecheck checks packages for unwind frames that keep running
// after a failure.
//
//	raisecheck ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"code.hybscloud.com/unwind/internal/raisecheck"
)

func main() {
	singlechecker.Main(raisecheck.Analyzer)
}
