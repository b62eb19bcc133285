package importer

import (
	"errors"
	"time"

	"nyayamitra-backend/analytics"
	"nyayamitra-backend/models"
)

var ErrMissingCNR = errors.New("row has no CNR number")

// Mapping is an explicit column to field table for one record type.
type Mapping[T any] struct {
	Columns map[string]setter[T]
	// Extra receives columns not in Columns. Nil drops them.
	Extra func(rec *T, column, value string)
	// Finalize runs after all cells are set and may reject the row.
	Finalize func(rec *T) error
}

// DefaultStage is the last stage recorded for imported rows with no stage.
const DefaultStage = "Pending"

// FinalRecordMapping maps the combined cases and hearings register. Initial
// derived values follow the import rules: one hearing per row, the row's
// stage (or Pending) as last stage, and delayed when the case age exceeds
// the risk threshold in years.
func FinalRecordMapping(t analytics.Thresholds) Mapping[models.CaseRecord] {
	type R = models.CaseRecord
	s := func(f func(*R) *string) setter[R] { return text(f) }
	d := func(f func(*R) **time.Time) setter[R] { return date(f) }

	return Mapping[R]{
		Columns: map[string]setter[R]{
			"CNR_NUMBER":                 s(func(r *R) *string { return &r.CNRNumber }),
			"CASE_NUMBER":                s(func(r *R) *string { return &r.CaseNumber }),
			"CASE_TYPE_OLD":              s(func(r *R) *string { return &r.CaseTypeOld }),
			"COMBINED_CASE_NUMBER":       s(func(r *R) *string { return &r.CombinedCaseNumber }),
			"COURT_NAME":                 s(func(r *R) *string { return &r.CourtName }),
			"COURT_NUMBER":               s(func(r *R) *string { return &r.CourtNumber }),
			"NAME_OF_HIGH_COURT":         s(func(r *R) *string { return &r.NameOfHighCourt }),
			"CURRENT_STATUS-OLD":         s(func(r *R) *string { return &r.CurrentStatusOld }),
			"DATE_FILED":                 d(func(r *R) **time.Time { return &r.DateFiled }),
			"DECISION_DATE":              d(func(r *R) **time.Time { return &r.DecisionDate }),
			"FILING_NUMBER":              s(func(r *R) *string { return &r.FilingNumber }),
			"NATURE_OF_DISPOSAL":         s(func(r *R) *string { return &r.NatureOfDisposal }),
			"NATURE_OF_DISPOSAL_OUTCOME": s(func(r *R) *string { return &r.NatureOfDisposalOutcome }),
			"NJDG_JUDGE_NAME":            s(func(r *R) *string { return &r.NJDGJudgeName }),
			"REGISTRATION_DATE":          d(func(r *R) **time.Time { return &r.RegistrationDate }),
			"REGISTRATION_NUMBER":        s(func(r *R) *string { return &r.RegistrationNumber }),
			"UNDER_ACTS":                 s(func(r *R) *string { return &r.UnderActs }),
			"UNDER_SECTIONS":             s(func(r *R) *string { return &r.UnderSections }),
			"YEAR":                       s(func(r *R) *string { return &r.Year }),
			"NATURE_OF_DISPOSAL_BINARY":  s(func(r *R) *string { return &r.NatureOfDisposalBinary }),
			"DISPOSAL_YEAR":              s(func(r *R) *string { return &r.DisposalYear }),
			"DISPOSALTIME_ADJ":           s(func(r *R) *string { return &r.DisposalTimeAdj }),
			"CASE_DURATION_DAYS":         number(func(r *R) *float64 { return &r.CaseDurationDays }),
			"FILED_YEAR":                 s(func(r *R) *string { return &r.FiledYear }),
			"FILED_MONTH":                s(func(r *R) *string { return &r.FiledMonth }),
			"FILED_QUARTER":              s(func(r *R) *string { return &r.FiledQuarter }),
			"DECISION_YEAR":              s(func(r *R) *string { return &r.DecisionYear }),
			"DECISION_MONTH":             s(func(r *R) *string { return &r.DecisionMonth }),
			"DECISION_QUARTER":           s(func(r *R) *string { return &r.DecisionQuarter }),
			"PetitionerAdvocate":         s(func(r *R) *string { return &r.PetitionerAdvocate }),
			"RespondentAdvocate":         s(func(r *R) *string { return &r.RespondentAdvocate }),
			"BeforeHonourableJudges":     s(func(r *R) *string { return &r.BeforeHonourableJudges }),
			"BeforeHonourableJudgeTwo":   s(func(r *R) *string { return &r.BeforeHonourableJudgeTwo }),
			"NextHearingDate":            d(func(r *R) **time.Time { return &r.NextHearingDate }),
			"CombinedCaseNumber":         s(func(r *R) *string { return &r.CombinedCaseNumberAlt }),
			"DateofAppearance":           d(func(r *R) **time.Time { return &r.DateOfAppearance }),
			"PurposeOfHearing":           s(func(r *R) *string { return &r.PurposeOfHearing }),
			"CourtName":                  s(func(r *R) *string { return &r.CourtNameAlt }),
			"ParsingYear":                s(func(r *R) *string { return &r.ParsingYear }),
			"CourtType":                  s(func(r *R) *string { return &r.CourtType }),
			"CourtSate":                  s(func(r *R) *string { return &r.CourtState }),
			"CourtHallNumber":            s(func(r *R) *string { return &r.CourtHallNumber }),
			"Full_Identifier":            s(func(r *R) *string { return &r.FullIdentifier }),
			"CaseUniqueValue":            s(func(r *R) *string { return &r.CaseUniqueValue }),
			"PreviousHearing":            s(func(r *R) *string { return &r.PreviousHearing }),
			"Hearing_ID":                 s(func(r *R) *string { return &r.HearingID }),
			"Case_Stages":                s(func(r *R) *string { return &r.CaseStages }),
			"CaseYear":                   s(func(r *R) *string { return &r.CaseYear }),
			"HearingDate":                d(func(r *R) **time.Time { return &r.HearingDate }),
			"HearingSequence":            s(func(r *R) *string { return &r.HearingSequence }),
			"HearingGap_Days":            number(func(r *R) *float64 { return &r.HearingGapDays }),
			"IsLastHearing":              s(func(r *R) *string { return &r.IsLastHearing }),
			"NextHearingLabel":           s(func(r *R) *string { return &r.NextHearingLabel }),
			"Client Names":               s(func(r *R) *string { return &r.ClientNames }),
			"Case Type":                  s(func(r *R) *string { return &r.CaseType }),
			"Case Age":                   s(func(r *R) *string { return &r.CaseAge }),
			"New_Case_status":            s(func(r *R) *string { return &r.NewCaseStatus }),
		},
		Extra: func(r *R, column, value string) {
			if IsBlank(value) {
				return
			}
			if r.Extra == nil {
				r.Extra = make(models.Extra)
			}
			r.Extra[column] = value
		},
		Finalize: func(r *R) error {
			if r.CNRNumber == "" {
				return ErrMissingCNR
			}
			r.TotalHearings = 1
			r.LastStage = r.CaseStages
			if r.LastStage == "" {
				r.LastStage = DefaultStage
			}
			r.IsDelayed = analytics.ParseCaseAge(r.CaseAge) > t.RiskCaseAgeYears
			r.Reminders = models.Reminders{}
			return nil
		},
	}
}

// CaseMapping maps the case register, one row per CNR.
func CaseMapping() Mapping[models.Case] {
	type C = models.Case
	s := func(f func(*C) *string) setter[C] { return text(f) }
	d := func(f func(*C) **time.Time) setter[C] { return date(f) }

	return Mapping[C]{
		Columns: map[string]setter[C]{
			"CNR_NUMBER":                s(func(c *C) *string { return &c.CNRNumber }),
			"CASE_NUMBER":               s(func(c *C) *string { return &c.CaseNumber }),
			"CASE_TYPE":                 s(func(c *C) *string { return &c.CaseType }),
			"COMBINED_CASE_NUMBER":      s(func(c *C) *string { return &c.CombinedCaseNumber }),
			"COURT_NAME":                s(func(c *C) *string { return &c.CourtName }),
			"COURT_NUMBER":              s(func(c *C) *string { return &c.CourtNumber }),
			"NAME_OF_HIGH_COURT":        s(func(c *C) *string { return &c.NameOfHighCourt }),
			"CURRENT_STATUS":            s(func(c *C) *string { return &c.CurrentStatus }),
			"DATE_FILED":                d(func(c *C) **time.Time { return &c.DateFiled }),
			"DECISION_DATE":             d(func(c *C) **time.Time { return &c.DecisionDate }),
			"FILING_NUMBER":             s(func(c *C) *string { return &c.FilingNumber }),
			"LAST_SYNC_TIME":            s(func(c *C) *string { return &c.LastSyncTime }),
			"NATURE_OF_DISPOSAL":        s(func(c *C) *string { return &c.NatureOfDisposal }),
			"POLICE_STATION":            s(func(c *C) *string { return &c.PoliceStation }),
			"REGISTRATION_NUMBER":       s(func(c *C) *string { return &c.RegistrationNumber }),
			"REGISTRATIO_DATE":          d(func(c *C) **time.Time { return &c.RegistrationDate }),
			"REGISTRATION_DATE":         d(func(c *C) **time.Time { return &c.RegistrationDate }),
			"UNDER_ACTS":                s(func(c *C) *string { return &c.UnderActs }),
			"UNDER_SECTIONS":            s(func(c *C) *string { return &c.UnderSections }),
			"YEAR":                      optionalInt(func(c *C) **int { return &c.Year }),
			"DISPOSAL_YEAR":             optionalInt(func(c *C) **int { return &c.DisposalYear }),
			"DISPOSALTIME_ADJ":          optionalNumber(func(c *C) **float64 { return &c.DisposalTime }),
			"NATURE_OF_DISPOSAL_BINARY": s(func(c *C) *string { return &c.DisposalBinary }),
			"NJDG_JUDGE_NAME":           s(func(c *C) *string { return &c.JudgeName }),
		},
		Finalize: requireCNR(func(c *C) string { return c.CNRNumber }),
	}
}

// HearingMapping maps the hearing register, many rows per CNR.
func HearingMapping() Mapping[models.Hearing] {
	type H = models.Hearing
	s := func(f func(*H) *string) setter[H] { return text(f) }
	d := func(f func(*H) **time.Time) setter[H] { return date(f) }

	return Mapping[H]{
		Columns: map[string]setter[H]{
			"CNR_NUMBER":                 s(func(h *H) *string { return &h.CNRNumber }),
			"Hearing_ID":                 s(func(h *H) *string { return &h.HearingID }),
			"CaseUniqueValue":            s(func(h *H) *string { return &h.CaseUniqueValue }),
			"Full_Identifier":            s(func(h *H) *string { return &h.FullIdentifier }),
			"Combined_Case_Number":       s(func(h *H) *string { return &h.CombinedCaseNumber }),
			"casetype":                   s(func(h *H) *string { return &h.CaseType }),
			"PetitionerAdvocate":         s(func(h *H) *string { return &h.PetitionerAdvocate }),
			"RespondentAdvocate":         s(func(h *H) *string { return &h.RespondentAdvocate }),
			"CurrentStage":               s(func(h *H) *string { return &h.CurrentStage }),
			"Remappedstages":             s(func(h *H) *string { return &h.RemappedStages }),
			"LastActionTaken":            s(func(h *H) *string { return &h.LastActionTaken }),
			"PurposeOfHearing":           s(func(h *H) *string { return &h.PurposeOfHearing }),
			"BeforeHonourableJudges":     s(func(h *H) *string { return &h.BeforeHonourableJudges }),
			"BeforeHonourableJudgeOne":   s(func(h *H) *string { return &h.BeforeHonourableJudgeOne }),
			"BeforeHonourableJudgeTwo":   s(func(h *H) *string { return &h.BeforeHonourableJudgeTwo }),
			"BeforeHonourableJudgeThree": s(func(h *H) *string { return &h.BeforeHonourableJudgeThree }),
			"BeforeHonourableJudgeFour":  s(func(h *H) *string { return &h.BeforeHonourableJudgeFour }),
			"BeforeHonourableJudgeFive":  s(func(h *H) *string { return &h.BeforeHonourableJudgeFive }),
			"Njdg_Judge_Name":            s(func(h *H) *string { return &h.NJDGJudgeName }),
			"BusinessOnDate":             d(func(h *H) **time.Time { return &h.BusinessOnDate }),
			"NextHearingDate":            d(func(h *H) **time.Time { return &h.NextHearingDate }),
			"AppearanceDate":             d(func(h *H) **time.Time { return &h.AppearanceDate }),
			"SyncDate":                   d(func(h *H) **time.Time { return &h.SyncDate }),
			"PreviousHearing":            s(func(h *H) *string { return &h.PreviousHearing }),
			"CourtName":                  s(func(h *H) *string { return &h.CourtName }),
			"CourtCode":                  s(func(h *H) *string { return &h.CourtCode }),
			"CourtType":                  s(func(h *H) *string { return &h.CourtType }),
			"CourtSate":                  s(func(h *H) *string { return &h.CourtState }),
			"CourtHallNumber":            s(func(h *H) *string { return &h.CourtHallNumber }),
			"BoardSrNo":                  s(func(h *H) *string { return &h.BoardSrNo }),
			"ParsingYear":                s(func(h *H) *string { return &h.ParsingYear }),
		},
		Finalize: requireCNR(func(h *H) string { return h.CNRNumber }),
	}
}

func requireCNR[T any](cnr func(*T) string) func(*T) error {
	return func(rec *T) error {
		if cnr(rec) == "" {
			return ErrMissingCNR
		}
		return nil
	}
}
