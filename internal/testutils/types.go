package testutils

// TestingT is the part of *testing.T the golden and query helpers use.
type TestingT interface {
	Helper()
	Logf(format string, args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
}
