package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CaseRecord is one denormalized case/hearing snapshot row. A CNR usually
// has many rows, one per hearing.
type CaseRecord struct {
	ID uuid.UUID `json:"id" db:"id"`

	// Identifiers
	CNRNumber             string `json:"cnrNumber" db:"cnr_number"`
	CaseNumber            string `json:"caseNumber" db:"case_number"`
	CaseTypeOld           string `json:"caseTypeOld" db:"case_type_old"`
	CombinedCaseNumber    string `json:"combinedCaseNumber" db:"combined_case_number"`
	CombinedCaseNumberAlt string `json:"combinedCaseNumberAlt" db:"combined_case_number_alt"`
	FullIdentifier        string `json:"fullIdentifier" db:"full_identifier"`
	CaseUniqueValue       string `json:"caseUniqueValue" db:"case_unique_value"`
	HearingID             string `json:"hearingId" db:"hearing_id"`

	// Court
	CourtName                string `json:"courtName" db:"court_name"`
	CourtNameAlt             string `json:"courtNameAlt" db:"court_name_alt"`
	CourtNumber              string `json:"courtNumber" db:"court_number"`
	NameOfHighCourt          string `json:"nameOfHighCourt" db:"name_of_high_court"`
	NJDGJudgeName            string `json:"njdgJudgeName" db:"njdg_judge_name"`
	BeforeHonourableJudges   string `json:"beforeHonourableJudges" db:"before_honourable_judges"`
	BeforeHonourableJudgeTwo string `json:"beforeHonourableJudgeTwo" db:"before_honourable_judge_two"`
	CourtType                string `json:"courtType" db:"court_type"`
	CourtState               string `json:"courtState" db:"court_state"`
	CourtHallNumber          string `json:"courtHallNumber" db:"court_hall_number"`

	// Parties
	PetitionerAdvocate string `json:"petitionerAdvocate" db:"petitioner_advocate"`
	RespondentAdvocate string `json:"respondentAdvocate" db:"respondent_advocate"`
	ClientNames        string `json:"clientNames" db:"client_names"`

	// Legal context
	UnderActs     string `json:"underActs" db:"under_acts"`
	UnderSections string `json:"underSections" db:"under_sections"`
	CaseType      string `json:"caseType" db:"case_type"`
	Year          string `json:"year" db:"year"`
	CaseYear      string `json:"caseYear" db:"case_year"`
	ParsingYear   string `json:"parsingYear" db:"parsing_year"`

	// Status
	CurrentStatusOld string `json:"currentStatusOld" db:"current_status_old"`
	NewCaseStatus    string `json:"newCaseStatus" db:"new_case_status"`
	CaseStages       string `json:"caseStages" db:"case_stages"`
	CaseAge          string `json:"caseAge" db:"case_age"`

	// Filing and decision
	DateFiled          *time.Time `json:"dateFiled" db:"date_filed"`
	RegistrationDate   *time.Time `json:"registrationDate" db:"registration_date"`
	DecisionDate       *time.Time `json:"decisionDate" db:"decision_date"`
	RegistrationNumber string     `json:"registrationNumber" db:"registration_number"`
	FilingNumber       string     `json:"filingNumber" db:"filing_number"`
	FiledYear          string     `json:"filedYear" db:"filed_year"`
	FiledMonth         string     `json:"filedMonth" db:"filed_month"`
	FiledQuarter       string     `json:"filedQuarter" db:"filed_quarter"`
	DecisionYear       string     `json:"decisionYear" db:"decision_year"`
	DecisionMonth      string     `json:"decisionMonth" db:"decision_month"`
	DecisionQuarter    string     `json:"decisionQuarter" db:"decision_quarter"`

	// Hearing
	NextHearingDate  *time.Time `json:"nextHearingDate" db:"next_hearing_date"`
	DateOfAppearance *time.Time `json:"dateOfAppearance" db:"date_of_appearance"`
	PurposeOfHearing string     `json:"purposeOfHearing" db:"purpose_of_hearing"`
	PreviousHearing  string     `json:"previousHearing" db:"previous_hearing"`
	HearingDate      *time.Time `json:"hearingDate" db:"hearing_date"`
	HearingSequence  string     `json:"hearingSequence" db:"hearing_sequence"`
	HearingGapDays   float64    `json:"hearingGapDays" db:"hearing_gap_days"`
	IsLastHearing    string     `json:"isLastHearing" db:"is_last_hearing"`
	NextHearingLabel string     `json:"nextHearingLabel" db:"next_hearing_label"`

	// Disposal
	NatureOfDisposal        string  `json:"natureOfDisposal" db:"nature_of_disposal"`
	NatureOfDisposalOutcome string  `json:"natureOfDisposalOutcome" db:"nature_of_disposal_outcome"`
	NatureOfDisposalBinary  string  `json:"natureOfDisposalBinary" db:"nature_of_disposal_binary"`
	DisposalYear            string  `json:"disposalYear" db:"disposal_year"`
	DisposalTimeAdj         string  `json:"disposalTimeAdj" db:"disposal_time_adj"`
	CaseDurationDays        float64 `json:"caseDurationDays" db:"case_duration_days"`

	// Derived
	TotalHearings int    `json:"totalHearings" db:"total_hearings"`
	LastStage     string `json:"lastStage" db:"last_stage"`
	PendencyDays  int    `json:"pendencyDays" db:"pendency_days"`
	IsDelayed     bool   `json:"isDelayed" db:"is_delayed"`

	// Owned by the lawyer, never touched by imports or rebuilds
	PrivateNotes string    `json:"privateNotes" db:"private_notes"`
	Reminders    Reminders `json:"reminders" db:"reminders"`

	// Columns the import tables do not know about
	Extra Extra `json:"extra,omitempty" db:"extra"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Disposed reports whether a disposal nature was recorded.
func (r *CaseRecord) Disposed() bool {
	return r.NatureOfDisposal != ""
}

// Extra holds unmapped import columns as JSONB.
type Extra map[string]string

// Value implements driver.Valuer for JSONB
func (e Extra) Value() (driver.Value, error) {
	if e == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner for JSONB
func (e *Extra) Scan(value interface{}) error {
	*e = make(Extra)
	b, ok := jsonBytes(value)
	if !ok || len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, e)
}

// jsonBytes normalizes the representations pgx hands to sql.Scanner for JSONB.
func jsonBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
