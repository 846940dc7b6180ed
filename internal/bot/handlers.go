package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"boothvoice/internal/session"
	"boothvoice/pkg/types"
)

func (e *Engine) handleAskHasEpic(sess *session.Session, ev types.Event) []types.Directive {
	switch Classify(StateAskHasEpic, ev.Text) {
	case ActionAffirm:
		sess.State = string(StateAskEpic)
		msg := "Please enter your EPIC number (Voter ID number).\n\nExample: ABC123456"
		return []types.Directive{types.ImageDirective(imgWelcomeBanner, msg)}
	case ActionDeny:
		sess.State = string(StateMainMenu)
		sess.Name = "Citizen"
		sess.Booth = "Not provided yet"
		sess.Epic = ""
		return []types.Directive{e.mainMenu(sess)}
	default:
		return []types.Directive{types.TextDirective("Please select an option using the buttons.")}
	}
}

func (e *Engine) handleAskEpic(ctx context.Context, sess *session.Session, ev types.Event) ([]types.Directive, error) {
	epic := normalizeEpic(ev.Text)

	if !validEpicShape(epic) {
		msg := "We could not locate this EPIC number in our constituency records.\n\nPlease verify and enter a valid formatted EPIC. If you believe this is an error, you may contact your booth-level representative."
		return []types.Directive{types.ImageDirective(imgEpicNotFound, msg)}, nil
	}

	voter, _, err := e.resolveVoter(ctx, epic, ev.From)
	if err != nil {
		return nil, err
	}

	sess.State = string(StateMainMenu)
	sess.Name = voter.Name
	sess.Booth = voter.PartNumber
	sess.Epic = epic
	return []types.Directive{e.mainMenu(sess)}, nil
}

func (e *Engine) handleMainMenu(ctx context.Context, sess *session.Session, ev types.Event) ([]types.Directive, error) {
	switch Classify(StateMainMenu, ev.Text) {
	case ActionMenuWard:
		sess.State = string(StateLoopPrompt)
		return []types.Directive{
			e.wardConnect(boothOrUnknown(sess)),
			types.ButtonsDirective("Would you like to explore other options?", "",
				types.Button{ID: "btn_main_menu", Label: "🏠 Main Menu"}),
		}, nil

	case ActionMenuIssue:
		sess.State = string(StateFlow1Cat)
		return []types.Directive{grievanceCategoryPrompt(displayName(sess))}, nil

	case ActionMenuIdeas:
		sess.State = string(StateFlow2Sugg)
		msg := "We believe strong constituencies are built not just by solving issues, but by listening to constructive ideas.\n\nPlease share your suggestion in up to 250 characters."
		return []types.Directive{types.ImageDirective(imgDescBanner, msg)}, nil

	case ActionMenuParticipate:
		sess.State = string(StateFlow3Mode)
		return []types.Directive{volunteerModePrompt(displayName(sess))}, nil

	case ActionMenuInformed:
		sess.State = string(StateFlow4Loc)
		body := "Please share your location (Pin or Live Location) to receive updates specific to your area.\n\nYou may also type SKIP or use the button below."
		return []types.Directive{locationPrompt(body)}, nil

	case ActionMenuTrack:
		sess.State = string(StateFlow5Ref)
		msg := "🔍 Track Your Submission\n\nPlease enter your Reference ID to check the current status.\nYour Reference ID was shared when you first submitted.\n\nExamples: GRV12345, SUG67890, VOL11223"
		return []types.Directive{types.ImageDirective(imgTrackSubmission, msg)}, nil

	case ActionMenuActivity:
		return e.activitySummary(ctx, sess, ev.From)

	case ActionMenuPulse:
		sess.State = string(StateFlow7Poll)
		return []types.Directive{pollPrompt()}, nil

	case ActionMenuPhoto:
		sess.State = string(StateFlow8Cat)
		return []types.Directive{photoCategoryPrompt()}, nil

	case ActionMenuNetworks:
		sess.State = string(StateFlow9Networks)
		return []types.Directive{e.networksPrompt()}, nil

	case ActionMenuInvite:
		out := e.inviteMessages(sess)
		return append(out, e.loopPrompt(sess)...), nil

	default:
		return []types.Directive{types.TextDirective("Please select a valid option from the menu.")}, nil
	}
}

func (e *Engine) activitySummary(ctx context.Context, sess *session.Session, phone string) ([]types.Directive, error) {
	raised, err := e.grievances.CountByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("count grievances: %w", err)
	}

	open, err := e.grievances.CountByPhoneAndStatus(ctx, phone, types.StatusOpen)
	if err != nil {
		return nil, fmt.Errorf("count open grievances: %w", err)
	}

	inProgress, err := e.grievances.CountByPhoneAndStatus(ctx, phone, types.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("count in-progress grievances: %w", err)
	}

	resolved, err := e.grievances.CountByPhoneAndStatus(ctx, phone, types.StatusResolved)
	if err != nil {
		return nil, fmt.Errorf("count resolved grievances: %w", err)
	}

	suggestions, err := e.members.CountByPhoneAndType(ctx, phone, types.TypeSuggestion)
	if err != nil {
		return nil, fmt.Errorf("count suggestions: %w", err)
	}

	volStatus, volRole := "None", "N/A"
	volunteer, err := e.members.VolunteerByPhone(ctx, phone)
	if err != nil && !errors.Is(err, types.ErrMemberRequestNotFound) {
		return nil, fmt.Errorf("lookup volunteer: %w", err)
	}
	if volunteer != nil {
		volStatus = "Registered"
		volRole = CategoryLabel(volunteer.Role)
	}

	msg := fmt.Sprintf(`📋 Your Engagement Summary

👤 %s | Booth %s | %s
───────────────
🔴 Issues Raised: %d
├ Open: %d
├ In Progress: %d
└ Resolved: %d

💡 Suggestions: %d

🤝 Volunteer: %s
└ Role: %s

📢 Updates: Subscribed

📊 Booth Pulse: Voted
───────────────
Thank you for being an active voice in shaping %s.`,
		displayName(sess), boothOrUnknown(sess), e.profile.Constituency,
		raised, open, inProgress, resolved, suggestions, volStatus, volRole,
		e.profile.Constituency)

	out := []types.Directive{types.ImageDirective(imgEngagementSummary, msg)}
	return append(out, e.loopPrompt(sess)...), nil
}

func (e *Engine) handleGrievanceCategory(sess *session.Session, ev types.Event) []types.Directive {
	action := Classify(StateFlow1Cat, ev.Text)
	if action == ActionNone {
		return []types.Directive{types.TextDirective("Please select a category from the list above.")}
	}

	sess.Category = string(action)
	sess.State = string(StateFlow1Desc)
	body := "Please describe the situation briefly (up to 250 characters).\n\nSpecific details help us understand recurring patterns in your booth."
	return []types.Directive{types.ButtonsDirective(body, imgDescBanner, types.Button{ID: "skip_desc", Label: "SKIP"})}
}

func (e *Engine) handleGrievanceDescription(sess *session.Session, ev types.Event) []types.Directive {
	if Classify(StateFlow1Desc, ev.Text) != ActionSkip {
		sess.Description = ev.Text
	}

	sess.State = string(StateFlow1Photo)
	body := "Thank you for the information. Now, please share a photo of the issue if possible.\n\nVisual evidence helps our team assess the situation faster."
	return []types.Directive{types.ButtonsDirective(body, imgPhotoBanner, types.Button{ID: "skip_photo", Label: "SKIP"})}
}

func (e *Engine) handleGrievancePhoto(sess *session.Session, ev types.Event) []types.Directive {
	var out []types.Directive

	isSkip := Classify(StateFlow1Photo, ev.Text) == ActionSkip
	switch {
	case ev.MediaRef != "":
		sess.PhotoRef = ev.MediaRef
		out = append(out, types.TextDirective("Thank you! This image is very helpful for our analysis."))
	case !isSkip && ev.Text != "":
		out = append(out, types.TextDirective("Thank you for the update!"))
	}

	sess.State = string(StateFlow1Loc)
	body := "To help us identify the exact spot and resolve it faster, please share the location of the issue (Pin or Live Location)."
	return append(out, locationPrompt(body))
}

func (e *Engine) handleSuggestionText(sess *session.Session, ev types.Event) []types.Directive {
	if strings.TrimSpace(ev.Text) == "" {
		return []types.Directive{types.TextDirective("Please share your suggestion as a short message.")}
	}

	sess.Suggestion = ev.Text
	sess.State = string(StateFlow2Loc)
	body := "Please share the location related to your suggestion (Pin or Live Location) so we can understand the context better.\n\nYou may also type SKIP or use the button below."
	return []types.Directive{locationPrompt(body)}
}

func (e *Engine) handleVolunteerMode(sess *session.Session, ev types.Event) []types.Directive {
	action := Classify(StateFlow3Mode, ev.Text)
	if action == ActionNone {
		return []types.Directive{types.TextDirective("Please select a role from the list above.")}
	}

	sess.VolunteerRole = string(action)
	sess.State = string(StateFlow3Loc)
	body := "Please share your location (Pin or Live Location) so our local organiser can reach you easily.\n\nYou may also type SKIP or use the button below."
	return []types.Directive{locationPrompt(body)}
}

func (e *Engine) handleTrackReference(ctx context.Context, sess *session.Session, ev types.Event) ([]types.Directive, error) {
	ref := strings.ToUpper(strings.TrimSpace(ev.Text))

	if !validReferenceShape(ref) {
		msg := "Please enter a valid Reference ID starting with GRV, SUG, VOL, or PHT.\nExample: GRV12345"
		return []types.Directive{types.ImageDirective(imgInvalidRef, msg)}, nil
	}

	report, err := e.lookupReference(ctx, ref, boothOrUnknown(sess))
	if err != nil {
		return nil, err
	}

	var out []types.Directive
	if report == nil {
		out = append(out, types.TextDirective(fmt.Sprintf("We could not find any record matching %s.\n\nPlease double-check your Reference ID and try again.", ref)))
	} else {
		desc := report.Description
		if len(desc) > 50 {
			desc = desc[:50] + "..."
		}

		msg := fmt.Sprintf(`📋 Status Report

───────────────
🔖 Reference: %s
📁 Type: %s
🏷️ Category: %s
📝 Issue: %s
🏛️ Booth: %s
📅 Submitted: %s
───────────────

⏳ Status: %s

Your submission is on file. Our team will follow up as needed.`,
			report.ReferenceID, report.Type, report.Category, desc, report.Booth, report.SubmittedOn, report.Status)
		out = append(out, types.ImageDirective(imgStatusReport, msg))
	}

	return append(out, e.loopPrompt(sess)...), nil
}

func validReferenceShape(ref string) bool {
	for _, prefix := range []string{
		types.RefPrefixGrievance,
		types.RefPrefixSuggestion,
		types.RefPrefixVolunteer,
		types.RefPrefixPhoto,
	} {
		if strings.HasPrefix(ref, prefix) {
			return true
		}
	}
	return false
}

// lookupReference dispatches a reference id to its record family by
// prefix. A missing record is a normal nil result, not an error.
func (e *Engine) lookupReference(ctx context.Context, ref, fallbackBooth string) (*types.StatusReport, error) {
	switch {
	case strings.HasPrefix(ref, types.RefPrefixGrievance), strings.HasPrefix(ref, types.RefPrefixPhoto):
		grievance, err := e.grievances.ByReference(ctx, ref)
		if err != nil {
			if errors.Is(err, types.ErrGrievanceNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("lookup grievance %s: %w", ref, err)
		}

		booth := grievance.Booth
		if booth == "" {
			booth = fallbackBooth
		}

		return &types.StatusReport{
			ReferenceID: grievance.ReferenceID,
			Type:        grievance.Type,
			Category:    CategoryLabel(grievance.Category),
			Description: grievance.Description,
			Booth:       booth,
			SubmittedOn: grievance.SubmittedOn,
			Status:      grievance.Status,
		}, nil

	default:
		request, err := e.members.ByReference(ctx, ref)
		if err != nil {
			if errors.Is(err, types.ErrMemberRequestNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("lookup member request %s: %w", ref, err)
		}

		category := request.Suggestion
		if request.Type == types.TypeVolunteer {
			category = CategoryLabel(request.Role)
		}

		booth := request.Booth
		if booth == "" {
			booth = fallbackBooth
		}

		return &types.StatusReport{
			ReferenceID: request.ReferenceID,
			Type:        request.Type,
			Category:    category,
			Booth:       booth,
			SubmittedOn: request.SubmittedOn,
			Status:      request.Status,
		}, nil
	}
}

func (e *Engine) handlePhotoCategory(sess *session.Session, ev types.Event) []types.Directive {
	action := Classify(StateFlow8Cat, ev.Text)
	if action == ActionNone {
		return []types.Directive{types.TextDirective("Please select a category from the list above.")}
	}

	sess.PhotoCategory = string(action)
	sess.State = string(StateFlow8Photo)
	body := "Now please send a photo of the issue.\nYou can add a caption describing the problem along with the photo."
	return []types.Directive{types.ButtonsDirective(body, imgPhotoBanner, types.Button{ID: "skip_photo", Label: "SKIP Photo"})}
}

func (e *Engine) handlePhotoCapture(sess *session.Session, ev types.Event) []types.Directive {
	if ev.MediaRef != "" {
		sess.PhotoRef = ev.MediaRef
	}
	if Classify(StateFlow8Photo, ev.Text) != ActionSkip {
		sess.PhotoDescription = ev.Text
	}

	sess.State = string(StateFlow8Loc)
	body := "Photo received. Now please share the location of this issue (Pin or Live Location)."
	return []types.Directive{locationPrompt(body)}
}

func (e *Engine) handleNetworks(sess *session.Session, ev types.Event) []types.Directive {
	return e.networkAction(sess, Classify(StateFlow9Networks, ev.Text))
}

func (e *Engine) networkAction(sess *session.Session, action Action) []types.Directive {
	switch action {
	case ActionNetworkFamily:
		msg := fmt.Sprintf("👨‍👩‍👧‍👦 *Supporters Hub*\n\nJoin our digital family and connect with fellow supporters across the globe!\n\nClick here to join 👉 %s", e.profile.FamilyHubURL)
		out := []types.Directive{types.ImageDirective(imgWelcomeBanner, msg)}
		return append(out, e.loopPrompt(sess)...)

	case ActionNetworkWing:
		msg := fmt.Sprintf("💻 *Digital Wing*\n\nBe part of the digital vanguard leading the change! Join the Digital Wing today.\n\nClick here to explore 👉 %s", e.profile.DigitalWingURL)
		out := []types.Directive{types.ImageDirective(imgWelcomeBanner, msg)}
		return append(out, e.loopPrompt(sess)...)

	case ActionNetworkInvite:
		out := e.inviteMessages(sess)
		return append(out, e.loopPrompt(sess)...)

	case ActionMainMenu:
		sess.State = string(StateMainMenu)
		return []types.Directive{e.mainMenu(sess)}

	default:
		return []types.Directive{types.ButtonsDirective("Please select an option.", "",
			types.Button{ID: "btn_family_hub", Label: "🌐 Supporters Hub"},
			types.Button{ID: "btn_digital_wing", Label: "💻 Digital Wing"},
			types.Button{ID: "btn_main_menu", Label: "🏠 Main Menu"},
		)}
	}
}

func (e *Engine) handleLocationOrSkip(ctx context.Context, sess *session.Session, ev types.Event, flow string) ([]types.Directive, error) {
	// Anything without coordinates counts as a skip, whether or not the
	// skip button was used.
	skipped := Classify(State(sess.State), ev.Text) == ActionSkip ||
		(ev.Latitude == nil && ev.Longitude == nil)

	// Guest interception: defer finalization until the identity prompt
	// has been answered once.
	if sess.Epic == "" && !sess.PostFlowSkipped {
		sess.Pending = &session.Continuation{
			Flow:      flow,
			Latitude:  ev.Latitude,
			Longitude: ev.Longitude,
			Skipped:   skipped,
		}
		sess.State = string(StatePostFlowEpic)

		msg := "Thank you for providing the details!\n\nTo officially link this request to your profile, please enter your Voter ID (EPIC number) below.\n\nIf you still don't have it, you can skip this step and we will generate the ticket anyway."
		return []types.Directive{types.ButtonsDirective(msg, imgDescBanner, types.Button{ID: "skip_post_epic", Label: "⏭️ Skip"})}, nil
	}

	return e.finalizeFlow(ctx, sess, ev.From, flow, ev.Latitude, ev.Longitude, skipped)
}

func (e *Engine) handlePostFlowEpic(ctx context.Context, sess *session.Session, ev types.Event) ([]types.Directive, error) {
	var out []types.Directive

	skipped := Classify(StatePostFlowEpic, ev.Text) == ActionSkip

	if !skipped && strings.TrimSpace(ev.Text) != "" {
		epic := normalizeEpic(ev.Text)
		voter, found, err := e.resolveVoter(ctx, epic, ev.From)
		if err != nil {
			return nil, err
		}

		if found {
			sess.Name = voter.Name
			sess.Booth = voter.PartNumber
			sess.Epic = epic
		} else {
			sess.EpicUnverified = epic
			out = append(out, types.TextDirective("We recorded your input. Continuing to log your request..."))
		}
	}

	sess.PostFlowSkipped = true

	pending := sess.Pending
	if pending == nil {
		// Nothing to resume; fall back to the menu.
		sess.State = string(StateMainMenu)
		return append(out, e.mainMenu(sess)), nil
	}
	sess.Pending = nil

	directives, err := e.finalizeFlow(ctx, sess, ev.From, pending.Flow, pending.Latitude, pending.Longitude, pending.Skipped)
	if err != nil {
		return nil, err
	}

	return append(out, directives...), nil
}

func (e *Engine) handleLoopPrompt(ctx context.Context, sess *session.Session, ev types.Event) ([]types.Directive, error) {
	switch action := Classify(StateLoopPrompt, ev.Text); action {
	case ActionMenuWard:
		sess.State = string(StateLoopPrompt)
		return []types.Directive{
			e.wardConnect(boothOrUnknown(sess)),
			types.ButtonsDirective("Would you like to explore other options?", "",
				types.Button{ID: "btn_main_menu", Label: "🏠 Main Menu"}),
		}, nil

	case ActionNetworkFamily, ActionNetworkWing, ActionNetworkInvite:
		return e.networkAction(sess, action), nil

	default:
		// btn_main_menu and anything unrecognized both land on the menu.
		sess.State = string(StateMainMenu)
		return []types.Directive{e.mainMenu(sess)}, nil
	}
}

// loopPrompt closes out an interaction with one of three follow-up
// calls-to-action, chosen uniformly. The pause keeps the prompt from
// overtaking the message before it; honoring it is the sender's job.
func (e *Engine) loopPrompt(sess *session.Session) []types.Directive {
	sess.State = string(StateLoopPrompt)

	var d types.Directive
	switch e.pick(3) {
	case 0:
		d = types.ButtonsDirective(
			fmt.Sprintf("📞 *Ward Connect — Booth %s*\n\nYour designated Ward Coordinator is available for support:\n\n👤 %s\n📍 %s, %s\n\nDirect Call: https://wa.me/%s",
				boothOrUnknown(sess), e.profile.CoordinatorName, e.profile.CoordinatorArea, e.profile.Constituency,
				strings.TrimPrefix(e.profile.CoordinatorPhone, "+")),
			imgWardConnect,
			types.Button{ID: "btn_main_menu", Label: "🏠 Main Menu"},
		)
	case 1:
		d = types.ButtonsDirective(
			"🌐 *Movement Networks*\n\nExplore our digital initiatives:",
			imgWelcomeBanner,
			types.Button{ID: "btn_family_hub", Label: "🌐 Supporters Hub"},
			types.Button{ID: "btn_digital_wing", Label: "💻 Digital Wing"},
		)
	default:
		d = types.ButtonsDirective(
			fmt.Sprintf("👥 *Join the Movement*\n\nHelp us build a stronger, more connected %s. Invite your friends and family to join %s's official WhatsApp platform!",
				e.profile.Constituency, e.profile.CandidateName),
			imgInvite1,
			types.Button{ID: "btn_invite", Label: "👥 Invite a Voter"},
			types.Button{ID: "btn_main_menu", Label: "🏠 Main Menu"},
		)
	}

	d.Pause = loopPromptPause
	return []types.Directive{d}
}
