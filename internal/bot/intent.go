package bot

import "strings"

// Action is the canonical intent a raw input resolves to for the current
// state. Selection states (categories, roles, poll options) use the
// option id itself as the action value.
type Action string

const (
	ActionNone Action = ""

	ActionAffirm Action = "affirm"
	ActionDeny   Action = "deny"
	ActionSkip   Action = "skip"

	ActionMainMenu Action = "main_menu"

	ActionMenuIssue       Action = "menu_issue"
	ActionMenuIdeas       Action = "menu_ideas"
	ActionMenuParticipate Action = "menu_participate"
	ActionMenuInformed    Action = "menu_informed"
	ActionMenuTrack       Action = "menu_track"
	ActionMenuActivity    Action = "menu_activity"
	ActionMenuPulse       Action = "menu_pulse"
	ActionMenuPhoto       Action = "menu_photo"
	ActionMenuNetworks    Action = "menu_networks"
	ActionMenuWard        Action = "menu_ward"
	ActionMenuInvite      Action = "menu_invite"

	ActionNetworkFamily Action = "network_family"
	ActionNetworkWing   Action = "network_wing"
	ActionNetworkInvite Action = "network_invite"
)

// resetKeywords force a session reset from any state. The whole trimmed
// message must equal one of them.
var resetKeywords = []string{"hi", "hello", "start", "menu", "reset", "vanakkam"}

// IsReset reports whether the text is a global reset keyword.
func IsReset(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, kw := range resetKeywords {
		if lower == kw {
			return true
		}
	}
	return false
}

// rule maps structured tokens (exact match) and free-text keywords
// (substring match) to one canonical action.
type rule struct {
	action   Action
	tokens   []string
	keywords []string
}

// grammars holds the per-state intent tables. Rule order is the
// ambiguity-resolution order: within a pass, the first matching rule
// wins, so reordering entries changes behavior.
var grammars = map[State][]rule{
	StateAskHasEpic: {
		{action: ActionAffirm, tokens: []string{"btn_have_epic"}, keywords: []string{"have", "yes"}},
		{action: ActionDeny, tokens: []string{"btn_no_epic"}, keywords: []string{"don", "no"}},
	},

	// Ward connect is evaluated first so "ward" in free text is never
	// shadowed by the broader report-an-issue keywords.
	StateMainMenu: {
		{action: ActionMenuWard, tokens: []string{"menu_10", "10"}, keywords: []string{"ward", "connect"}},
		{action: ActionMenuIssue, tokens: []string{"menu_1", "1"}, keywords: []string{"issue", "report"}},
		{action: ActionMenuIdeas, tokens: []string{"menu_2", "2"}, keywords: []string{"idea", "improve"}},
		{action: ActionMenuParticipate, tokens: []string{"menu_3", "3"}, keywords: []string{"participate", "volunteer"}},
		{action: ActionMenuInformed, tokens: []string{"menu_4", "4"}, keywords: []string{"informed", "update"}},
		{action: ActionMenuTrack, tokens: []string{"menu_5", "5"}, keywords: []string{"track"}},
		{action: ActionMenuActivity, tokens: []string{"menu_6", "6"}, keywords: []string{"activity"}},
		{action: ActionMenuPulse, tokens: []string{"menu_7", "7"}, keywords: []string{"pulse", "poll"}},
		{action: ActionMenuPhoto, tokens: []string{"menu_8", "8"}, keywords: []string{"photo"}},
		{action: ActionMenuNetworks, tokens: []string{"menu_9", "9"}, keywords: []string{"network"}},
		{action: ActionMenuInvite, tokens: []string{"menu_11", "11"}, keywords: []string{"invite"}},
	},

	StateFlow1Cat: {
		{action: "cat_1", tokens: []string{"cat_1"}, keywords: []string{"water", "drain"}},
		{action: "cat_2", tokens: []string{"cat_2"}, keywords: []string{"road", "infra"}},
		{action: "cat_3", tokens: []string{"cat_3"}, keywords: []string{"electr", "power"}},
		{action: "cat_4", tokens: []string{"cat_4"}, keywords: []string{"transport", "bus"}},
		{action: "cat_5", tokens: []string{"cat_5"}, keywords: []string{"educat", "school"}},
		{action: "cat_6", tokens: []string{"cat_6"}, keywords: []string{"health", "hospital"}},
		{action: "cat_7", tokens: []string{"cat_7"}, keywords: []string{"agri", "farmer"}},
		{action: "cat_8", tokens: []string{"cat_8"}, keywords: []string{"women", "safety"}},
		{action: "cat_9", tokens: []string{"cat_9"}, keywords: []string{"sport", "youth"}},
		{action: "cat_10", tokens: []string{"cat_10"}, keywords: []string{"other"}},
	},

	StateFlow1Desc: {
		{action: ActionSkip, tokens: []string{"skip_desc"}, keywords: []string{"skip"}},
	},

	StateFlow1Photo: {
		{action: ActionSkip, tokens: []string{"skip_photo"}, keywords: []string{"skip"}},
	},

	StateFlow3Mode: {
		{action: "vol_1", tokens: []string{"vol_1"}, keywords: []string{"booth"}},
		{action: "vol_2", tokens: []string{"vol_2"}, keywords: []string{"meeting", "organis"}},
		{action: "vol_3", tokens: []string{"vol_3"}, keywords: []string{"spread", "inform"}},
		{action: "vol_4", tokens: []string{"vol_4"}, keywords: []string{"future", "coordinat"}},
	},

	StateFlow7Poll: {
		{action: "poll_1", tokens: []string{"poll_1"}, keywords: []string{"water"}},
		{action: "poll_2", tokens: []string{"poll_2"}, keywords: []string{"road"}},
		{action: "poll_3", tokens: []string{"poll_3"}, keywords: []string{"electr"}},
		{action: "poll_4", tokens: []string{"poll_4"}, keywords: []string{"educat"}},
	},

	StateFlow8Cat: {
		{action: "pcat_1", tokens: []string{"pcat_1"}, keywords: []string{"water", "drain"}},
		{action: "pcat_2", tokens: []string{"pcat_2"}, keywords: []string{"road", "infra"}},
		{action: "pcat_3", tokens: []string{"pcat_3"}, keywords: []string{"electr", "power"}},
		{action: "pcat_4", tokens: []string{"pcat_4"}, keywords: []string{"garbage", "sanit"}},
		{action: "pcat_5", tokens: []string{"pcat_5"}, keywords: []string{"property", "damage"}},
		{action: "pcat_6", tokens: []string{"pcat_6"}, keywords: []string{"other"}},
	},

	StateFlow8Photo: {
		{action: ActionSkip, tokens: []string{"skip_photo"}, keywords: []string{"skip"}},
	},

	StateFlow9Networks: {
		{action: ActionNetworkFamily, tokens: []string{"btn_family_hub"}, keywords: []string{"family", "hub"}},
		{action: ActionNetworkWing, tokens: []string{"btn_digital_wing"}, keywords: []string{"wing", "digital"}},
		{action: ActionNetworkInvite, tokens: []string{"btn_invite"}, keywords: []string{"invite"}},
		{action: ActionMainMenu, tokens: []string{"btn_main_menu"}},
	},

	StatePostFlowEpic: {
		{action: ActionSkip, tokens: []string{"skip_post_epic"}, keywords: []string{"skip"}},
	},

	StateLoopPrompt: {
		{action: ActionMainMenu, tokens: []string{"btn_main_menu"}},
		{action: ActionMenuWard, keywords: []string{"ward", "connect"}},
		{action: ActionNetworkFamily, tokens: []string{"btn_family_hub"}, keywords: []string{"family", "hub"}},
		{action: ActionNetworkWing, tokens: []string{"btn_digital_wing"}, keywords: []string{"wing", "digital"}},
		{action: ActionNetworkInvite, tokens: []string{"btn_invite"}, keywords: []string{"invite"}},
	},
}

// locGrammar is shared by every location-or-skip state.
var locGrammar = []rule{
	{action: ActionSkip, tokens: []string{"skip_loc"}, keywords: []string{"skip"}},
}

func init() {
	for state := range locStates {
		grammars[state] = locGrammar
	}
}

// Classify resolves raw input against the state's grammar. Structured
// tokens are tried first across all rules (exact, case-insensitive),
// then free-text keywords in table order. Unmatched input is ActionNone,
// which handlers must answer by re-prompting, never by transitioning.
func Classify(state State, input string) Action {
	lower := strings.ToLower(strings.TrimSpace(input))
	if lower == "" {
		return ActionNone
	}

	rules := grammars[state]

	for _, r := range rules {
		for _, token := range r.tokens {
			if lower == token {
				return r.action
			}
		}
	}

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.action
			}
		}
	}

	return ActionNone
}
