// Package testingx provides testing helpers and fakes for bootforge modules.
//
// # Overview
//
// testingx contains small utilities to speed up unit tests: a mock logger
// with capture capabilities, a helper to build contexts carrying a
// generation run, error code assertions, and assertions over generated text.
//
// # Features
//
//   - MockLogger with in-memory capture and assertions
//   - Run context helper
//   - Error assertion helpers for core/errors codes
//   - Content and line-subsequence assertions for rendered files
//
// # Usage
//
//	logger := testingx.NewMockLogger(t)
//	ctx := testingx.NewRunContext(t, "shop")
//	testingx.AssertError(t, err, errors.CodeFailedPrecondition)
//
// # Layer
//
// testingx is an auxiliary package for tests only and depends on core.
package testingx
