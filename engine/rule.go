/*
rule.go - Rule model and registry

PURPOSE:
  Declares what a compliance rule is and how rules are cataloged.
  A rule is a pure predicate over an EvaluationContext tagged with the
  age bands it is relevant to. The registry is an explicitly constructed,
  immutable list - no global mutable state - so test suites can run in
  parallel with different rule sets, and one registry can be shared by
  all concurrent checks without locking.

APPLICABILITY:
  A rule runs only if at least one date of the week falls in a band the
  rule declares relevance to. An empty AppliesTo means always relevant.

SEE ALSO:
  - evaluator.go: Filters and runs the registry
  - rules/: The concrete catalog
*/
package engine

// Category groups rules by the kind of restriction they enforce.
type Category string

const (
	CategoryDocumentation Category = "documentation"
	CategoryHours         Category = "hours"
	CategoryTimeWindow    Category = "time_window"
	CategoryTask          Category = "task"
	CategoryBreak         Category = "break"
)

// Rule is one compliance rule. Implementations must be pure: no I/O,
// no blocking, no mutable state closed over.
type Rule interface {
	// ID is the stable identifier used in audit records.
	ID() string

	// Name is the human-readable rule name.
	Name() string

	// Category classifies the restriction.
	Category() Category

	// AppliesTo lists the age bands the rule is relevant to.
	// Empty means the rule always applies.
	AppliesTo() []AgeBand

	// Evaluate runs the rule against a context. It must fill in
	// RuleID/RuleName/Category on the result it returns.
	Evaluate(ctx *EvaluationContext) RuleResult
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry is an ordered, immutable-after-construction rule catalog.
// Evaluation order is registration order; with stop-on-first-failure
// that order is observable, so registration order is part of the
// registry's contract.
type Registry struct {
	rules []Rule
}

// NewRegistry builds a registry from rules in evaluation order.
func NewRegistry(rules ...Rule) *Registry {
	r := &Registry{rules: make([]Rule, len(rules))}
	copy(r.rules, rules)
	return r
}

// Rules returns the catalog in registration order.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Len returns the number of registered rules.
func (r *Registry) Len() int { return len(r.rules) }

// Applicable filters the catalog to rules whose declared bands intersect
// the bands present in the context, preserving registration order.
func (r *Registry) Applicable(ctx *EvaluationContext) []Rule {
	var applicable []Rule
	for _, rule := range r.rules {
		if RuleApplies(rule, ctx.Bands) {
			applicable = append(applicable, rule)
		}
	}
	return applicable
}

// RuleApplies reports whether a rule's declared bands intersect the
// given band set. An empty declaration always applies.
func RuleApplies(rule Rule, bands map[AgeBand]bool) bool {
	declared := rule.AppliesTo()
	if len(declared) == 0 {
		return true
	}
	for _, band := range declared {
		if bands[band] {
			return true
		}
	}
	return false
}
