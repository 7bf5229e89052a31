package rules

// init populates the process-wide Default registry. Registration happens
// once, at program startup, before any Engine.Run call — after that the
// registry is read-only, per the spec's "process-wide immutable" contract.
func init() {
	registerSecurityRules(Default)
	registerDeterminismRules(Default)
	registerIdempotencyRules(Default)
	registerBashBestPracticeRules(Default)
	registerShellCheckRules(Default)
}
