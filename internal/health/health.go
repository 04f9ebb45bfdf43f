package health

import (
	"strings"

	"github.com/warroomhq/warroom/internal/domain"
)

// RuleViolation pairs a violated rule with the value it was compared to.
type RuleViolation struct {
	Rule   domain.HealthRule
	Actual float64
}

// Result is the computed campaign health. Graded is false when the
// blueprint configures no rules; absence of rules is not a passing grade.
type Result struct {
	ExecutionPct   float64
	PerformancePct float64
	RAG            domain.RAGLevel
	Graded         bool
	Violations     []RuleViolation
}

// Compute evaluates campaign health: execution% (done checklist items over
// all checklist items across moves), performance% (primary KPI current over
// target), and the blueprint health rules folded into a RAG grade.
func Compute(c *domain.Campaign, moves []*domain.Move) Result {
	var res Result

	var done, total int
	for _, m := range moves {
		d, t := m.ChecklistProgress()
		done += d
		total += t
	}
	if total > 0 {
		res.ExecutionPct = float64(done) / float64(total) * 100
	}

	if c.KPIs.Primary.Target != 0 {
		res.PerformancePct = c.KPIs.Primary.Current / c.KPIs.Primary.Target * 100
	}

	rules := c.Blueprint.KPITree.HealthRules
	if len(rules) == 0 {
		res.RAG = domain.RAGNone
		return res
	}
	res.Graded = true

	for _, rule := range rules {
		actual := metricValue(c, res, rule.Metric)
		if violated(rule, actual) {
			res.Violations = append(res.Violations, RuleViolation{Rule: rule, Actual: actual})
		}
	}

	res.RAG = domain.RAGGreen
	for _, v := range res.Violations {
		if v.Rule.Severity == domain.SeverityFail {
			res.RAG = domain.RAGRed
			break
		}
		res.RAG = domain.RAGAmber
	}
	return res
}

// metricValue resolves a rule's metric key to a computed percentage.
// Unrecognized keys resolve to 0 rather than erroring; a rule against a
// typo'd metric therefore compares against zero.
func metricValue(c *domain.Campaign, res Result, metric string) float64 {
	switch strings.ToLower(strings.TrimSpace(metric)) {
	case "execution":
		return res.ExecutionPct
	case "performance", "primary":
		return res.PerformancePct
	case "reach":
		return targetPct(c.KPIs.Reach)
	case "click":
		return targetPct(c.KPIs.Click)
	case "convert":
		return targetPct(c.KPIs.Convert)
	default:
		return 0
	}
}

func targetPct(k domain.KPI) float64 {
	if k.Target == 0 {
		return 0
	}
	return k.Current / k.Target * 100
}

// violated reports whether the rule's comparison fails for the value.
// Operators other than ">=" and "<=" are ignored (rule passes).
func violated(rule domain.HealthRule, actual float64) bool {
	switch rule.Operator {
	case ">=":
		return actual < rule.Threshold
	case "<=":
		return actual > rule.Threshold
	default:
		return false
	}
}
