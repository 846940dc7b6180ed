package bot

// State identifies the session's position in the conversation machine.
// Values are stored verbatim on the session, so renaming one invalidates
// live sessions.
type State string

const (
	StateAskHasEpic State = "ASK_HAS_EPIC"
	StateAskEpic    State = "ASK_EPIC"
	StateMainMenu   State = "MAIN_MENU"

	StateFlow1Cat   State = "FLOW1_CAT"
	StateFlow1Desc  State = "FLOW1_DESC"
	StateFlow1Photo State = "FLOW1_PHOTO"
	StateFlow1Loc   State = "FLOW1_LOC"

	StateFlow2Sugg State = "FLOW2_SUGG"
	StateFlow2Loc  State = "FLOW2_LOC"

	StateFlow3Mode State = "FLOW3_MODE"
	StateFlow3Loc  State = "FLOW3_LOC"

	StateFlow4Loc State = "FLOW4_LOC"

	StateFlow5Ref State = "FLOW5_REF"

	StateFlow7Poll State = "FLOW7_POLL"

	StateFlow8Cat   State = "FLOW8_CAT"
	StateFlow8Photo State = "FLOW8_PHOTO"
	StateFlow8Loc   State = "FLOW8_LOC"

	StateFlow9Networks State = "FLOW9_NETWORKS"

	StatePostFlowEpic State = "POST_FLOW_EPIC"

	StateLoopPrompt State = "LOOP_PROMPT"

	// StateDone is vestigial; reaching it re-issues the loop prompt.
	StateDone State = "DONE"
)

// Wizard tags stored on a pending continuation.
const (
	FlowGrievance  = "FLOW1"
	FlowSuggestion = "FLOW2"
	FlowVolunteer  = "FLOW3"
	FlowUpdates    = "FLOW4"
	FlowPhoto      = "FLOW8"
)

// locStates maps each location-or-skip state to its wizard tag.
var locStates = map[State]string{
	StateFlow1Loc: FlowGrievance,
	StateFlow2Loc: FlowSuggestion,
	StateFlow3Loc: FlowVolunteer,
	StateFlow4Loc: FlowUpdates,
	StateFlow8Loc: FlowPhoto,
}
