package diagnosis

import "testing"

func TestCatalogIntegrity(t *testing.T) {
	all := AllRules()
	if len(all) != 21 {
		t.Fatalf("catalog has %d rules, want 21", len(all))
	}

	seen := make(map[string]bool)
	for _, r := range all {
		if r.ID == "" || r.Title == "" || r.Text == "" || r.Group == "" {
			t.Errorf("incomplete rule: %+v", r)
		}
		if seen[r.ID] {
			t.Errorf("duplicate rule ID %q", r.ID)
		}
		seen[r.ID] = true
	}

	for _, id := range []string{
		RuleCos, RuleSin, RuleTan, RuleSec, RuleCsc, RuleCot,
		RulePower, RuleConstant, RuleChain, RuleProduct, RuleQuotient,
		RuleMissingNegative, RuleImplicitDyDx, RuleImplicitMissingChain,
		RuleParametric, RuleParametricMissingChain, RuleExp, RuleLn,
		RuleForgotChain, RuleForgotProduct, RuleForgotQuotient,
	} {
		if GetRule(id) == nil {
			t.Errorf("GetRule(%q) = nil", id)
		}
	}
	if GetRule("l_hopital") != nil {
		t.Error("unknown ID should not resolve")
	}
}

func TestAllRulesReturnsCopy(t *testing.T) {
	a := AllRules()
	a[0] = nil
	if AllRules()[0] == nil {
		t.Error("AllRules exposed the internal slice")
	}
}

func TestRulesByGroup(t *testing.T) {
	trig := RulesByGroup(GroupTrig)
	if len(trig) != 6 {
		t.Fatalf("trig rules = %d, want 6", len(trig))
	}
	if trig[0].ID != RuleCos {
		t.Errorf("first trig rule = %q, want %q", trig[0].ID, RuleCos)
	}
	total := 0
	for _, g := range Groups {
		total += len(RulesByGroup(g))
	}
	if total != 21 {
		t.Errorf("groups cover %d rules, want 21", total)
	}
}
