// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package raisecheck defines an analyzer for the unwind calling convention.
//
// Raising and catching in unwind are ordinary calls: nothing stops a
// function from carrying on after a failure. raisecheck reports the
// mistakes that make a failing frame keep running:
//
//   - a call to unwind.Raise that is not followed by a return statement,
//     unless it ends the body of a function without results;
//   - a call to unwind.RaiseReturn whose result is dropped;
//   - an ok result of Catch, Catch1, Catch2, Guarded, Guarded1 or Guarded2
//     assigned to the blank identifier.
//
// Run it standalone with cmd/raisecheck.
package raisecheck
