package models

import "time"

// Case is a raw case row, one per CNR, as imported from the case register.
type Case struct {
	CNRNumber          string     `json:"cnrNumber" db:"cnr_number"`
	CaseNumber         string     `json:"caseNumber" db:"case_number"`
	CombinedCaseNumber string     `json:"combinedCaseNumber" db:"combined_case_number"`
	FilingNumber       string     `json:"filingNumber" db:"filing_number"`
	RegistrationNumber string     `json:"registrationNumber" db:"registration_number"`
	CaseType           string     `json:"caseType" db:"case_type"`
	CurrentStatus      string     `json:"currentStatus" db:"current_status"`
	NatureOfDisposal   string     `json:"natureOfDisposal" db:"nature_of_disposal"`
	UnderActs          string     `json:"underActs" db:"under_acts"`
	UnderSections      string     `json:"underSections" db:"under_sections"`
	Year               *int       `json:"year" db:"year"`
	CourtName          string     `json:"courtName" db:"court_name"`
	CourtNumber        string     `json:"courtNumber" db:"court_number"`
	NameOfHighCourt    string     `json:"nameOfHighCourt" db:"name_of_high_court"`
	JudgeName          string     `json:"judgeName" db:"judge_name"`
	PoliceStation      string     `json:"policeStation" db:"police_station"`
	DateFiled          *time.Time `json:"dateFiled" db:"date_filed"`
	DecisionDate       *time.Time `json:"decisionDate" db:"decision_date"`
	RegistrationDate   *time.Time `json:"registrationDate" db:"registration_date"`
	LastSyncTime       string     `json:"lastSyncTime" db:"last_sync_time"`
	DisposalYear       *int       `json:"disposalYear" db:"disposal_year"`
	DisposalTime       *float64   `json:"disposalTime" db:"disposal_time"`
	DisposalBinary     string     `json:"disposalBinary" db:"disposal_binary"`
}

// Hearing is one hearing event for a CNR.
type Hearing struct {
	CNRNumber                  string     `json:"cnrNumber" db:"cnr_number"`
	HearingID                  string     `json:"hearingId" db:"hearing_id"`
	CaseUniqueValue            string     `json:"caseUniqueValue" db:"case_unique_value"`
	FullIdentifier             string     `json:"fullIdentifier" db:"full_identifier"`
	CombinedCaseNumber         string     `json:"combinedCaseNumber" db:"combined_case_number"`
	CaseType                   string     `json:"caseType" db:"case_type"`
	PetitionerAdvocate         string     `json:"petitionerAdvocate" db:"petitioner_advocate"`
	RespondentAdvocate         string     `json:"respondentAdvocate" db:"respondent_advocate"`
	CurrentStage               string     `json:"currentStage" db:"current_stage"`
	RemappedStages             string     `json:"remappedStages" db:"remapped_stages"`
	LastActionTaken            string     `json:"lastActionTaken" db:"last_action_taken"`
	PurposeOfHearing           string     `json:"purposeOfHearing" db:"purpose_of_hearing"`
	BeforeHonourableJudges     string     `json:"beforeHonourableJudges" db:"before_honourable_judges"`
	BeforeHonourableJudgeOne   string     `json:"beforeHonourableJudgeOne" db:"before_honourable_judge_one"`
	BeforeHonourableJudgeTwo   string     `json:"beforeHonourableJudgeTwo" db:"before_honourable_judge_two"`
	BeforeHonourableJudgeThree string     `json:"beforeHonourableJudgeThree" db:"before_honourable_judge_three"`
	BeforeHonourableJudgeFour  string     `json:"beforeHonourableJudgeFour" db:"before_honourable_judge_four"`
	BeforeHonourableJudgeFive  string     `json:"beforeHonourableJudgeFive" db:"before_honourable_judge_five"`
	NJDGJudgeName              string     `json:"njdgJudgeName" db:"njdg_judge_name"`
	BusinessOnDate             *time.Time `json:"businessOnDate" db:"business_on_date"`
	NextHearingDate            *time.Time `json:"nextHearingDate" db:"next_hearing_date"`
	AppearanceDate             *time.Time `json:"appearanceDate" db:"appearance_date"`
	SyncDate                   *time.Time `json:"syncDate" db:"sync_date"`
	PreviousHearing            string     `json:"previousHearing" db:"previous_hearing"`
	CourtName                  string     `json:"courtName" db:"court_name"`
	CourtCode                  string     `json:"courtCode" db:"court_code"`
	CourtType                  string     `json:"courtType" db:"court_type"`
	CourtState                 string     `json:"courtState" db:"court_state"`
	CourtHallNumber            string     `json:"courtHallNumber" db:"court_hall_number"`
	BoardSrNo                  string     `json:"boardSrNo" db:"board_sr_no"`
	ParsingYear                string     `json:"parsingYear" db:"parsing_year"`
}

// CaseInsight is the analytics builder output for one CNR: the case row,
// rollups over its hearings, and the lawyer-owned fields which rebuilds
// leave alone.
type CaseInsight struct {
	Case

	PetitionerAdvocate string     `json:"petitionerAdvocate" db:"petitioner_advocate"`
	RespondentAdvocate string     `json:"respondentAdvocate" db:"respondent_advocate"`
	TotalHearings      int        `json:"totalHearings" db:"total_hearings"`
	LastStage          string     `json:"lastStage" db:"last_stage"`
	NextHearingDate    *time.Time `json:"nextHearingDate" db:"next_hearing_date"`
	PendencyDays       int        `json:"pendencyDays" db:"pendency_days"`
	IsDelayed          bool       `json:"isDelayed" db:"is_delayed"`
	LastCalculated     time.Time  `json:"lastCalculated" db:"last_calculated"`

	PrivateNotes string    `json:"privateNotes" db:"private_notes"`
	Reminders    Reminders `json:"reminders" db:"reminders"`
}
