package api

// Dialect names the callee identifiers that define suites and tests.
type Dialect struct {
	// Suites are the suite-defining functions (describe, context).
	Suites []string `json:"suites"`
	// Tests are the test-defining functions (it, specify).
	Tests []string `json:"tests"`
	// Skip marks a call as pending, e.g. it.skip.
	Skip string `json:"skip"`
	// Only is accepted and ignored, e.g. describe.only.
	Only string `json:"only"`
}

// DefaultDialect covers Mocha and Cypress.
func DefaultDialect() Dialect {
	return Dialect{
		Suites: []string{"describe", "context"},
		Tests:  []string{"it", "specify"},
		Skip:   "skip",
		Only:   "only",
	}
}
