package bot

import (
	"fmt"
	"strings"

	"boothvoice/internal/session"
	"boothvoice/pkg/types"
)

// Symbolic asset keys carried on image directives. The outbound sender
// owns the mapping to real URLs.
const (
	imgWelcomeBanner     = "welcome_banner"
	imgDescBanner        = "desc_banner"
	imgPhotoBanner       = "photo_banner"
	imgLocBanner         = "loc_banner"
	imgThankYou          = "thank_you"
	imgSuccess           = "success"
	imgWardConnect       = "ward_connect"
	imgEpicNotFound      = "epic_not_found"
	imgInvite1           = "invite_1"
	imgInvite2           = "invite_2"
	imgInvite3           = "invite_3"
	imgBoothResults      = "booth_results"
	imgBoothCooldown     = "booth_cooldown"
	imgTrackSubmission   = "track_submission"
	imgStatusReport      = "status_report"
	imgInvalidRef        = "invalid_ref"
	imgEngagementSummary = "engagement_summary"
)

// categoryLabels maps selection tokens to display labels, shared by the
// wizards, the activity summary, and the dashboard.
var categoryLabels = map[string]string{
	"cat_1": "Water & Drainage", "cat_2": "Roads & Infra", "cat_3": "Electricity",
	"cat_4": "Public Transport", "cat_5": "Education", "cat_6": "Healthcare",
	"cat_7": "Agriculture & Farmers", "cat_8": "Women Safety", "cat_9": "Sports & Youth", "cat_10": "Others",
	"pcat_1": "Water & Drainage", "pcat_2": "Roads & Infra", "pcat_3": "Electricity",
	"pcat_4": "Garbage & Sanitation", "pcat_5": "Public Property Damage", "pcat_6": "Others",
	"vol_1": "Volunteer @ Booth", "vol_2": "Organise Meetings", "vol_3": "Spread Information", "vol_4": "Future Coordination",
}

// CategoryLabel returns the display label for a selection token, or the
// raw value when it is not a known token.
func CategoryLabel(raw string) string {
	if label, ok := categoryLabels[raw]; ok {
		return label
	}
	return raw
}

func (e *Engine) welcome() []types.Directive {
	msg := fmt.Sprintf(`Vanakkam 🙏

This is the official WhatsApp of %s, Candidate – %s.

We are building a structured, booth-level understanding of issues in this constituency so that future priorities are based on real voter input.

*Do you already have a Voter ID (EPIC number)?*`,
		e.profile.CandidateName, e.profile.Constituency)

	return []types.Directive{types.ButtonsDirective(msg, imgWelcomeBanner,
		types.Button{ID: "btn_have_epic", Label: "✅ Have Voter ID"},
		types.Button{ID: "btn_no_epic", Label: "❌ Don't Have"},
	)}
}

func (e *Engine) mainMenu(sess *session.Session) types.Directive {
	name := sess.Name
	if name == "" {
		name = "Citizen"
	}

	var text string
	switch {
	case sess.Epic != "" && name != guestName && name != "Citizen":
		text = fmt.Sprintf(`Thank you, *%s*

We have identified you as a voter from:
📍 *Booth:* %s  🏛️ *Assembly:* %s
🏛️ *Parliament:* %s

We are documenting concerns booth-wise so that real priorities are shaped by people like you.
This system is designed to ensure that each booth's voice is heard clearly and documented responsibly.

*How would you like to engage today?*`, name, sess.Booth, e.profile.Constituency, e.profile.Parliament)
	case sess.Epic != "":
		text = fmt.Sprintf(`Thank you!

We have recorded your Voter ID: *%s*.
Your exact booth assignment is currently pending verification in our system.

We are documenting concerns booth-wise so that real priorities are shaped by people like you.

*How would you like to engage today?*`, sess.Epic)
	default:
		text = fmt.Sprintf(`Welcome!

While your Voter ID is pending, you can still participate! Every voice in %s matters.

We are documenting concerns so that future priorities are shaped by real people like you.

*How would you like to engage today?*`, e.profile.Constituency)
	}

	sections := []types.ListSection{
		{
			Title: "Core Services",
			Rows: []types.ListRow{
				{ID: "menu_1", Title: "🔴 Report Local Issue"},
				{ID: "menu_2", Title: "💡 Ideas & Improvements"},
				{ID: "menu_3", Title: "🤝 Participate"},
				{ID: "menu_4", Title: "📢 Stay Informed"},
			},
		},
		{
			Title: "My Account",
			Rows: []types.ListRow{
				{ID: "menu_5", Title: "🔍 Track My Issue"},
				{ID: "menu_6", Title: "📋 My Activity"},
			},
		},
		{
			Title: "Community",
			Rows: []types.ListRow{
				{ID: "menu_7", Title: "📊 Booth Pulse"},
				{ID: "menu_8", Title: "📸 Photo Evidence"},
				{ID: "menu_9", Title: "🌐 Movement Networks"},
				{ID: "menu_10", Title: "📞 Ward Connect"},
				{ID: "menu_11", Title: "🗣️ Invite a Voter"},
			},
		},
	}

	return types.ListDirective(text, "Select Option", "", sections)
}

func grievanceCategoryPrompt(name string) types.Directive {
	sections := []types.ListSection{{Title: "Categories", Rows: []types.ListRow{
		{ID: "cat_1", Title: "Water & Drainage"},
		{ID: "cat_2", Title: "Roads & Infra"},
		{ID: "cat_3", Title: "Electricity"},
		{ID: "cat_4", Title: "Public Transport"},
		{ID: "cat_5", Title: "Education"},
		{ID: "cat_6", Title: "Healthcare"},
		{ID: "cat_7", Title: "Agriculture & Farmers"},
		{ID: "cat_8", Title: "Women Safety"},
		{ID: "cat_9", Title: "Sports & Youth"},
		{ID: "cat_10", Title: "Others"},
	}}}

	msg := fmt.Sprintf("Thank you, %s.\nPlease select the area where you are facing a concern:", name)
	return types.ListDirective(msg, "Select Category", "📝 Report an Issue", sections)
}

func volunteerModePrompt(name string) types.Directive {
	sections := []types.ListSection{{Title: "Roles", Rows: []types.ListRow{
		{ID: "vol_1", Title: "Volunteer @ Booth"},
		{ID: "vol_2", Title: "Organise Meetings"},
		{ID: "vol_3", Title: "Spread Information"},
		{ID: "vol_4", Title: "Future Coordination"},
	}}}

	msg := fmt.Sprintf("🤝 Participate\n\nThat's encouraging to hear, %s.\nHow would you like to participate?", name)
	return types.ListDirective(msg, "Select Mode", "", sections)
}

func photoCategoryPrompt() types.Directive {
	sections := []types.ListSection{{Title: "Categories", Rows: []types.ListRow{
		{ID: "pcat_1", Title: "Water & Drainage"},
		{ID: "pcat_2", Title: "Roads & Infra"},
		{ID: "pcat_3", Title: "Electricity"},
		{ID: "pcat_4", Title: "Garbage & Sanitation"},
		{ID: "pcat_5", Title: "Public Property Damage"},
		{ID: "pcat_6", Title: "Others"},
	}}}

	msg := "📸 Submit Photo Evidence\n\nYou can send a photo of any local issue — broken road, garbage dump, water leakage, damaged public property, etc.\n\nFirst, select the category:"
	return types.ListDirective(msg, "Select Category", "", sections)
}

func pollPrompt() types.Directive {
	sections := []types.ListSection{{Title: "Options", Rows: []types.ListRow{
		{ID: "poll_1", Title: "Water & Drainage", Description: "💧 Water & Drainage"},
		{ID: "poll_2", Title: "Roads & Infra", Description: "🛣️ Roads & Infrastructure"},
		{ID: "poll_3", Title: "Electricity", Description: "⚡ Electricity & Power Cuts"},
		{ID: "poll_4", Title: "Education", Description: "🏫 Education & Schools"},
	}}}

	msg := "📊 Booth Pulse — Quick Poll\n\nHelp us understand the biggest concern in your area right now.\nWhat is the #1 issue affecting your daily life?"
	return types.ListDirective(msg, "Vote Now", "", sections)
}

func locationPrompt(body string) types.Directive {
	return types.ButtonsDirective(body, imgLocBanner, types.Button{ID: "skip_loc", Label: "SKIP"})
}

func (e *Engine) wardConnect(booth string) types.Directive {
	msg := fmt.Sprintf(`📞 *Ward Connect — Booth %s*

Our movement is growing! There are currently *47 active participants* in your booth.

Your designated Ward Coordinator is available for immediate support and coordination:

👤 *Name:* %s
🏛️ *Booth:* %s
📍 *Area:* %s, %s

*Direct WhatsApp Call:*
https://wa.me/%s

_Click the link above to start a voice call or chat._`,
		booth, e.profile.CoordinatorName, booth, e.profile.CoordinatorArea, e.profile.Constituency,
		strings.TrimPrefix(e.profile.CoordinatorPhone, "+"))

	return types.ImageDirective(imgWardConnect, msg)
}

func (e *Engine) networksPrompt() types.Directive {
	msg := "🌐 *Movement Networks & Portals*\n\nExplore our digital initiatives or invite others to join the movement:"
	return types.ButtonsDirective(msg, imgWelcomeBanner,
		types.Button{ID: "btn_family_hub", Label: "🌐 Supporters Hub"},
		types.Button{ID: "btn_digital_wing", Label: "💻 Digital Wing"},
		types.Button{ID: "btn_main_menu", Label: "🏠 Main Menu"},
	)
}

func (e *Engine) inviteMessages(sess *session.Session) []types.Directive {
	name := displayName(sess)
	forward := fmt.Sprintf(`────────────────────
🗳️ %s — Voter Engagement Platform

Your constituency. Your voice. Your future.
Join %s's official WhatsApp platform to:
✅ Report local issues directly
✅ Share ideas for development
✅ Volunteer and participate
✅ Get official campaign updates
✅ Track your submitted issues

👉 Send Hi to %s on WhatsApp to get started.

Every voter's voice matters. Be heard.
────────────────────`, e.profile.Constituency, e.profile.CandidateName, e.profile.InviteNumber)

	stats := fmt.Sprintf("Your Referral Stats:\n\n👥 You have invited 3 voters so far.\n🏛️ Booth %s total participants: 47\n\nThank you for growing this movement, %s.",
		boothOrUnknown(sess), name)

	return []types.Directive{
		types.ImageDirective(imgInvite1, "👥 Spread the Word!\n\nHelp us build a stronger, more connected constituency. Forward the message below to your friends, family, and neighbours:"),
		types.ImageDirective(imgInvite2, forward),
		types.ImageDirective(imgInvite3, stats),
	}
}

func displayName(sess *session.Session) string {
	if sess.Name == "" {
		return "Anonymous"
	}
	return sess.Name
}

func boothOrUnknown(sess *session.Session) string {
	if sess.Booth == "" {
		return "Unknown"
	}
	return sess.Booth
}
