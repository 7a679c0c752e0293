package diagnosis

// seedRules is the rule catalog: 21 entries, trig first, mistakes last.
var seedRules = []Rule{
	// Basic trig rules (6)
	{
		ID:    RuleCos,
		Group: GroupTrig,
		Title: "Derivative of cos(x)",
		Text:  "d/dx [cos(x)] = −sin(x)",
	},
	{
		ID:    RuleSin,
		Group: GroupTrig,
		Title: "Derivative of sin(x)",
		Text:  "d/dx [sin(x)] = cos(x)",
	},
	{
		ID:    RuleTan,
		Group: GroupTrig,
		Title: "Derivative of tan(x)",
		Text:  "d/dx [tan(x)] = sec²(x)",
	},
	{
		ID:    RuleSec,
		Group: GroupTrig,
		Title: "Derivative of sec(x)",
		Text:  "d/dx [sec(x)] = sec(x)·tan(x)",
	},
	{
		ID:    RuleCsc,
		Group: GroupTrig,
		Title: "Derivative of csc(x)",
		Text:  "d/dx [csc(x)] = −csc(x)·cot(x)",
	},
	{
		ID:    RuleCot,
		Group: GroupTrig,
		Title: "Derivative of cot(x)",
		Text:  "d/dx [cot(x)] = −csc²(x)",
	},

	// Power and polynomial rules (2)
	{
		ID:    RulePower,
		Group: GroupPower,
		Title: "Power Rule",
		Text:  "d/dx [xⁿ] = n·xⁿ⁻¹",
	},
	{
		ID:    RuleConstant,
		Group: GroupPower,
		Title: "Derivative of a Constant",
		Text:  "d/dx [c] = 0",
	},

	// Chain, product and quotient (3)
	{
		ID:    RuleChain,
		Group: GroupStructure,
		Title: "Chain Rule",
		Text:  "If y = f(g(x)), then dy/dx = f′(g(x)) · g′(x)",
	},
	{
		ID:    RuleProduct,
		Group: GroupStructure,
		Title: "Product Rule",
		Text:  "d/dx [u·v] = u′·v + u·v′",
	},
	{
		ID:    RuleQuotient,
		Group: GroupStructure,
		Title: "Quotient Rule",
		Text:  "d/dx [u/v] = (u′·v − u·v′)/v²",
	},

	// Signs (1)
	{
		ID:    RuleMissingNegative,
		Group: GroupSign,
		Title: "Missing Negative Sign",
		Text:  "Check your derivative: d/dx [cos(x)] = −sin(x), d/dx [cot(x)] = −csc²(x)",
	},

	// Implicit differentiation (2)
	{
		ID:    RuleImplicitDyDx,
		Group: GroupImplicit,
		Title: "Implicit Differentiation",
		Text:  "When differentiating y with respect to x, include dy/dx: d/dx [yⁿ] = n·yⁿ⁻¹ · dy/dx",
	},
	{
		ID:    RuleImplicitMissingChain,
		Group: GroupImplicit,
		Title: "Chain Rule in Implicit Differentiation",
		Text:  "Remember: if y is a function of x, any term with y requires multiplying by dy/dx",
	},

	// Parametric differentiation (2)
	{
		ID:    RuleParametric,
		Group: GroupParametric,
		Title: "Parametric Differentiation",
		Text:  "dy/dx = (dy/dt) / (dx/dt)",
	},
	{
		ID:    RuleParametricMissingChain,
		Group: GroupParametric,
		Title: "Chain Rule in Parametric Differentiation",
		Text:  "When differentiating y(t) or x(t), apply the chain rule: d/dt [y(t)] contributes to dy/dx",
	},

	// Exponentials and logarithms (2)
	{
		ID:    RuleExp,
		Group: GroupExpLog,
		Title: "Derivative of Exponential",
		Text:  "d/dx [e^x] = e^x",
	},
	{
		ID:    RuleLn,
		Group: GroupExpLog,
		Title: "Derivative of ln(x)",
		Text:  "d/dx [ln(x)] = 1/x",
	},

	// Common mistakes (3)
	{
		ID:    RuleForgotChain,
		Group: GroupMistake,
		Title: "Forgot Chain Rule",
		Text:  "Check if you missed multiplying by the derivative of the inner function",
	},
	{
		ID:    RuleForgotProduct,
		Group: GroupMistake,
		Title: "Forgot Product Rule",
		Text:  "Check if you differentiated each factor separately and added: (u·v)' = u'·v + u·v'",
	},
	{
		ID:    RuleForgotQuotient,
		Group: GroupMistake,
		Title: "Forgot Quotient Rule",
		Text:  "Check: (u/v)' = (u'·v − u·v') / v²",
	},
}
