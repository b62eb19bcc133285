package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"nyayamitra-backend/models"
)

// Risk levels reported by BuildBrief.
const (
	RiskHigh   = "HIGH"
	RiskNormal = "NORMAL"
)

// Brief is the rule-based case assessment shown on the lawyer dashboard.
type Brief struct {
	RiskLevel   string `json:"riskLevel"`
	Strategy    string `json:"strategy"`
	Complexity  string `json:"complexity"`
	AgeAnalysis string `json:"ageAnalysis"`
}

// BuildBrief assesses a case from its first snapshot row and the number of
// hearing rows recorded for it.
func BuildBrief(rec *models.CaseRecord, hearings int, t Thresholds) Brief {
	age := ParseCaseAge(rec.CaseAge)

	risk := RiskNormal
	if age > t.RiskCaseAgeYears || hearings > t.BriefHighRiskHearings {
		risk = RiskHigh
	}

	var strategy string
	switch {
	case rec.Disposed():
		strategy = "Case concluded. Review final decree for compliance or appeal grounds."
	case strings.Contains(strings.ToLower(rec.CaseStages), "evidence"):
		strategy = "Critical Stage: Ensure all witnesses are served and exhibits are marked."
	default:
		strategy = "Procedural Stage: Monitor for delaying tactics from the opposition."
	}

	complexity := "Standard Procedural"
	if age > t.ComplexCaseAgeYears {
		complexity = "Complex/High Stakes"
	}

	return Brief{
		RiskLevel:  risk,
		Strategy:   strategy,
		Complexity: complexity,
		AgeAnalysis: fmt.Sprintf("This matter has been pending for %s years across %d hearings.",
			strconv.FormatFloat(age, 'f', -1, 64), hearings),
	}
}

// ParseCaseAge reads the free-text case age column. Anything unparsable is zero.
func ParseCaseAge(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
