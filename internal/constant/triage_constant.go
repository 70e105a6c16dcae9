package constant

// Encounter states. Transitions only move forward:
// IN_PROGRESS -> AWAITING_REVIEW -> COMPLETED.
const (
	EncounterStateInProgress     = "IN_PROGRESS"
	EncounterStateAwaitingReview = "AWAITING_REVIEW"
	EncounterStateCompleted      = "COMPLETED"
)

// Turn origins.
const (
	TurnOriginSystem   = "SYSTEM"  // system-generated (AI)
	TurnOriginPatient  = "PATIENT" // external party
	TurnOriginOperator = "NURSE"   // human operator
)

// Risk levels used by summaries.
const (
	RiskScoreHigh   = "HIGH"
	RiskScoreMedium = "MEDIUM"
	RiskScoreLow    = "LOW"
)

// Caller roles carried in the access token.
const (
	RoleNurse  = "nurse"
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"
)

const (
	InterviewCompleteSentinel = "[INTERVIEW_COMPLETE]"
	InterviewCompleteNotice   = "The interview is now complete. Generating clinical summary..."

	DefaultComplaint      = "unspecified symptoms"
	UnknownContextValue   = "unknown"
	UnspecifiedComplaint  = "unspecified"
	ChatRoleUser          = "user"
	ChatRoleAssistant     = "assistant"
	ChatRoleSystem        = "system"
	TranscriptLineFormat  = "%s: %s"
	TranscriptLineDivider = "\n"
)

// Redaction placeholders written by the sanitizer.
const (
	PlaceholderName    = "[NAME_REDACTED]"
	PlaceholderNIC     = "[NIC_REDACTED]"
	PlaceholderPhone   = "[PHONE_REDACTED]"
	PlaceholderEmail   = "[EMAIL_REDACTED]"
	PlaceholderAddress = "[ADDRESS_REDACTED]"
)

// Lifecycle event types.
const (
	EventInterviewStarted   = "INTERVIEW_STARTED"
	EventTurnProcessed      = "TURN_PROCESSED"
	EventInterviewCompleted = "INTERVIEW_COMPLETED"
	EventSummaryRevised     = "SUMMARY_REVISED"
	EventSummaryFinalized   = "SUMMARY_FINALIZED"
	EventSanitizerPathUsed  = "SANITIZER_PATH_USED"
)

const TriageEventsTopic = "TRIAGE_EVENTS"
