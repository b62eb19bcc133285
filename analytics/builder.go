// Package analytics computes the per-case rollups stored in case_insights
// and the small aggregations the dashboards chart.
package analytics

import (
	"slices"
	"time"

	"nyayamitra-backend/models"
)

// NoStage is the last stage recorded for a case without hearings.
const NoStage = "N/A"

// NoAdvocate is recorded when a case has no hearing naming an advocate.
const NoAdvocate = "N/A"

// Thresholds drive the delay flag and the rule-based brief. A value is
// compared with strict greater-than.
type Thresholds struct {
	DelayHearings         int
	DelayPendencyDays     int
	RiskCaseAgeYears      float64
	BriefHighRiskHearings int
	ComplexCaseAgeYears   float64
}

// DefaultThresholds returns the thresholds the court dashboards were tuned with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DelayHearings:         7,
		DelayPendencyDays:     365,
		RiskCaseAgeYears:      2,
		BriefHighRiskHearings: 10,
		ComplexCaseAgeYears:   5,
	}
}

// HearingOrder compares two hearings. The last hearing under the order
// supplies lastStage and nextHearingDate.
type HearingOrder func(a, b models.Hearing) int

// ByBusinessDate orders hearings by business-on date, undated first.
func ByBusinessDate(a, b models.Hearing) int {
	switch {
	case a.BusinessOnDate == nil && b.BusinessOnDate == nil:
		return 0
	case a.BusinessOnDate == nil:
		return -1
	case b.BusinessOnDate == nil:
		return 1
	default:
		return a.BusinessOnDate.Compare(*b.BusinessOnDate)
	}
}

// Options configures Build.
type Options struct {
	Thresholds Thresholds
	Order      HearingOrder
}

func (o Options) withDefaults() Options {
	if o.Thresholds == (Thresholds{}) {
		o.Thresholds = DefaultThresholds()
	}
	if o.Order == nil {
		o.Order = ByBusinessDate
	}
	return o
}

// Build derives one insight per case. hearings is keyed by CNR; cases
// without hearings still produce an insight. now is the run timestamp and
// is the only clock Build reads, so equal inputs give equal outputs.
func Build(cases []models.Case, hearings map[string][]models.Hearing, now time.Time, opts Options) []models.CaseInsight {
	opts = opts.withDefaults()
	out := make([]models.CaseInsight, 0, len(cases))
	for _, c := range cases {
		out = append(out, derive(c, hearings[c.CNRNumber], now, opts))
	}
	return out
}

// Derive computes the insight for a single case.
func Derive(c models.Case, hearings []models.Hearing, now time.Time, opts Options) models.CaseInsight {
	return derive(c, hearings, now, opts.withDefaults())
}

func derive(c models.Case, hearings []models.Hearing, now time.Time, opts Options) models.CaseInsight {
	ordered := slices.Clone(hearings)
	slices.SortStableFunc(ordered, opts.Order)

	insight := models.CaseInsight{
		Case:               c,
		PetitionerAdvocate: NoAdvocate,
		RespondentAdvocate: NoAdvocate,
		TotalHearings:      len(ordered),
		LastStage:          NoStage,
		PendencyDays:       PendencyDays(c.DateFiled, now),
		LastCalculated:     now,
	}

	if len(ordered) > 0 {
		first := ordered[0]
		last := ordered[len(ordered)-1]
		if first.PetitionerAdvocate != "" {
			insight.PetitionerAdvocate = first.PetitionerAdvocate
		}
		if first.RespondentAdvocate != "" {
			insight.RespondentAdvocate = first.RespondentAdvocate
		}
		if last.RemappedStages != "" {
			insight.LastStage = last.RemappedStages
		}
		insight.NextHearingDate = last.NextHearingDate
	}

	insight.IsDelayed = IsDelayed(insight.TotalHearings, insight.PendencyDays, opts.Thresholds)
	return insight
}

// PendencyDays is the number of whole days between filing and now. Missing
// or future filing dates count as zero.
func PendencyDays(filed *time.Time, now time.Time) int {
	if filed == nil || !filed.Before(now) {
		return 0
	}
	return int(now.Sub(*filed) / (24 * time.Hour))
}

// IsDelayed reports whether either the hearing count or the pendency
// exceeds its threshold.
func IsDelayed(totalHearings, pendencyDays int, t Thresholds) bool {
	return totalHearings > t.DelayHearings || pendencyDays > t.DelayPendencyDays
}

// GroupHearings indexes hearings by CNR, keeping input order within a CNR.
func GroupHearings(hearings []models.Hearing) map[string][]models.Hearing {
	grouped := make(map[string][]models.Hearing)
	for _, h := range hearings {
		grouped[h.CNRNumber] = append(grouped[h.CNRNumber], h)
	}
	return grouped
}
