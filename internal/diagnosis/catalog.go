package diagnosis

// Group clusters related rules for listing.
type Group string

const (
	GroupTrig       Group = "trigonometric"
	GroupPower      Group = "power"
	GroupStructure  Group = "chain-product-quotient"
	GroupSign       Group = "sign"
	GroupImplicit   Group = "implicit"
	GroupParametric Group = "parametric"
	GroupExpLog     Group = "exp-log"
	GroupMistake    Group = "common-mistake"
)

// Groups lists every group in listing order.
var Groups = []Group{GroupTrig, GroupPower, GroupStructure, GroupSign, GroupImplicit, GroupParametric, GroupExpLog, GroupMistake}

// Rule is a named differentiation rule or a common mistake, with the
// textbook statement shown to the learner.
type Rule struct {
	ID    string `json:"id"`
	Group Group  `json:"group"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Rule IDs referenced by the detectors.
const (
	RuleCos                    = "cos_rule"
	RuleSin                    = "sin_rule"
	RuleTan                    = "tan_rule"
	RuleSec                    = "sec_rule"
	RuleCsc                    = "csc_rule"
	RuleCot                    = "cot_rule"
	RulePower                  = "power_rule"
	RuleConstant               = "constant_rule"
	RuleChain                  = "chain_rule"
	RuleProduct                = "product_rule"
	RuleQuotient               = "quotient_rule"
	RuleMissingNegative        = "missing_negative"
	RuleImplicitDyDx           = "implicit_dydx"
	RuleImplicitMissingChain   = "implicit_missing_chain"
	RuleParametric             = "parametric_rule"
	RuleParametricMissingChain = "parametric_missing_chain"
	RuleExp                    = "exp_rule"
	RuleLn                     = "ln_rule"
	RuleForgotChain            = "forgot_chain"
	RuleForgotProduct          = "forgot_product"
	RuleForgotQuotient         = "forgot_quotient"
)

// registry is the package-level rule catalog, keyed by ID.
var registry map[string]*Rule

// order holds the catalog in listing order.
var order []*Rule

func init() {
	registry = make(map[string]*Rule, len(seedRules))
	order = make([]*Rule, 0, len(seedRules))
	for i := range seedRules {
		r := &seedRules[i]
		registry[r.ID] = r
		order = append(order, r)
	}
}

// GetRule returns a rule by ID, or nil if not found.
func GetRule(id string) *Rule {
	return registry[id]
}

// AllRules returns every rule in listing order.
func AllRules() []*Rule {
	return append([]*Rule(nil), order...)
}

// RulesByGroup returns the rules of one group in listing order.
func RulesByGroup(g Group) []*Rule {
	var out []*Rule
	for _, r := range order {
		if r.Group == g {
			out = append(out, r)
		}
	}
	return out
}

// rank is the listing position of a rule, used to order rule sets.
func rank(id string) int {
	for i, r := range order {
		if r.ID == id {
			return i
		}
	}
	return len(order)
}
