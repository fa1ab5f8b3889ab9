// Package testutil provides the shared fixtures for qcd tests.
//
// Key components:
//   - TestEnvironment: isolated HOME, XDG dirs and QCD_RS_* variables
//   - OpenDB: a real sqlite database in a temp dir, closed on cleanup
//   - Clock: a settable clock for stack expiry tests
//
// Tests run against real sqlite files; the database is small and fast
// enough that no mock store is needed.
package testutil
