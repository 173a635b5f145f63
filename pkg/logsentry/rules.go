package logsentry

import "github.com/hejijunhao/logsentry/internal/detector"

// Rule describes one kind of finding the detector can emit.
type Rule struct {
	Type           string
	Severity       int
	Recommendation string
}

// Rules returns the built-in finding catalog. This is read-only; consumers
// can inspect it but not modify it.
func Rules() []Rule {
	rules := detector.DefaultRules()
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule(r)
	}
	return out
}
