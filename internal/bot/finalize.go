package bot

import (
	"context"
	"fmt"

	"boothvoice/internal/session"
	"boothvoice/internal/utils"
	"boothvoice/pkg/types"
)

// finalizeFlow writes the record for a completed wizard and returns the
// confirmation followed by the loop prompt. lat/lon/skipped are the
// location-step outcome, possibly replayed from a stashed continuation.
// On storage failure nothing is sent and the session is not advanced.
func (e *Engine) finalizeFlow(ctx context.Context, sess *session.Session, phone, flow string, lat, lon *float64, skipped bool) ([]types.Directive, error) {
	if skipped {
		lat, lon = nil, nil
	}

	var out []types.Directive

	switch flow {
	case FlowGrievance:
		ref := utils.RefID(types.RefPrefixGrievance)
		grievance := &types.Grievance{
			ReferenceID: ref,
			Phone:       phone,
			Name:        displayName(sess),
			Booth:       boothOrUnknown(sess),
			Epic:        e.epicOnRecord(sess),
			Category:    sess.Category,
			Description: sess.Description,
			Status:      types.StatusOpen,
			Latitude:    lat,
			Longitude:   lon,
			PhotoRef:    optional(sess.PhotoRef),
			Type:        types.TypeGrievance,
			SubmittedOn: e.today(),
		}

		if err := e.grievances.Create(ctx, grievance); err != nil {
			return nil, fmt.Errorf("create grievance: %w", err)
		}

		msg := fmt.Sprintf(`✅ Your concern has been registered.

🔖 Reference ID: %s
🏷️ Category: %s
🏛️ Booth: %s

Our booth-level team will review it shortly. You can track its status anytime from the main menu using your Reference ID.`,
			ref, CategoryLabel(sess.Category), boothOrUnknown(sess))
		if skipped {
			msg += "\n\n📍 Note: recorded without an exact location. Sharing one later helps our team act faster."
		}
		out = append(out, types.ImageDirective(imgSuccess, msg))

	case FlowSuggestion:
		ref := utils.RefID(types.RefPrefixSuggestion)
		request := &types.MemberRequest{
			ReferenceID: ref,
			Phone:       phone,
			Name:        displayName(sess),
			Booth:       boothOrUnknown(sess),
			Epic:        e.epicOnRecord(sess),
			Suggestion:  sess.Suggestion,
			Status:      types.StatusPending,
			Latitude:    lat,
			Longitude:   lon,
			Type:        types.TypeSuggestion,
			SubmittedOn: e.today(),
		}

		if err := e.members.Create(ctx, request); err != nil {
			return nil, fmt.Errorf("create suggestion: %w", err)
		}

		msg := fmt.Sprintf(`🙏 Thank you, %s!

Your suggestion has been recorded and will be reviewed by our planning team.

🔖 Reference ID: %s

Good ideas shape good constituencies.`, displayName(sess), ref)
		out = append(out, types.ImageDirective(imgThankYou, msg))

	case FlowVolunteer:
		ref := utils.RefID(types.RefPrefixVolunteer)
		request := &types.MemberRequest{
			ReferenceID: ref,
			Phone:       phone,
			Name:        displayName(sess),
			Booth:       boothOrUnknown(sess),
			Epic:        e.epicOnRecord(sess),
			Role:        sess.VolunteerRole,
			Status:      types.StatusRegistered,
			Latitude:    lat,
			Longitude:   lon,
			Type:        types.TypeVolunteer,
			SubmittedOn: e.today(),
		}

		if err := e.members.Create(ctx, request); err != nil {
			return nil, fmt.Errorf("create volunteer signup: %w", err)
		}

		msg := fmt.Sprintf(`🤝 Welcome aboard, %s!

You are now registered as: *%s*

🔖 Reference ID: %s

Our local organiser for booth %s will reach out to you soon. Thank you for stepping up for %s.`,
			displayName(sess), CategoryLabel(sess.VolunteerRole), ref, boothOrUnknown(sess), e.profile.Constituency)
		out = append(out, types.ImageDirective(imgSuccess, msg))

	case FlowUpdates:
		// Subscription only; no stored record.
		msg := "📢 You're in!\n\nYou will now receive official updates and announcements relevant to your area on WhatsApp."
		if skipped {
			msg = "📢 You're in!\n\nYou will now receive official constituency-wide updates on WhatsApp. Share your location anytime to get area-specific news."
		}
		out = append(out, types.ImageDirective(imgThankYou, msg))

	case FlowPhoto:
		ref := utils.RefID(types.RefPrefixPhoto)
		grievance := &types.Grievance{
			ReferenceID: ref,
			Phone:       phone,
			Name:        displayName(sess),
			Booth:       boothOrUnknown(sess),
			Epic:        e.epicOnRecord(sess),
			Category:    sess.PhotoCategory,
			Description: sess.PhotoDescription,
			Status:      types.StatusOpen,
			Latitude:    lat,
			Longitude:   lon,
			PhotoRef:    optional(sess.PhotoRef),
			Type:        types.TypePhotoEvidence,
			SubmittedOn: e.today(),
		}

		if err := e.grievances.Create(ctx, grievance); err != nil {
			return nil, fmt.Errorf("create photo evidence: %w", err)
		}

		msg := fmt.Sprintf(`📸 Photo evidence submitted!

🔖 Reference ID: %s
🏷️ Category: %s
🏛️ Booth: %s

Visual reports like yours make it much harder for problems to stay invisible. Thank you.`,
			ref, CategoryLabel(sess.PhotoCategory), boothOrUnknown(sess))
		if skipped {
			msg += "\n\n📍 Note: recorded without an exact location."
		}
		out = append(out, types.ImageDirective(imgSuccess, msg))

	default:
		e.logger.WithField("flow", flow).Warn("unknown wizard tag at finalization")
		sess.State = string(StateMainMenu)
		return []types.Directive{e.mainMenu(sess)}, nil
	}

	clearWizardScratch(sess)
	return append(out, e.loopPrompt(sess)...), nil
}

func (e *Engine) epicOnRecord(sess *session.Session) *string {
	if sess.Epic != "" {
		return utils.StringPtr(sess.Epic)
	}
	if sess.EpicUnverified != "" {
		return utils.StringPtr(sess.EpicUnverified)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return utils.StringPtr(s)
}

// clearWizardScratch drops single-wizard fields so one submission's
// details never bleed into the next.
func clearWizardScratch(sess *session.Session) {
	sess.Category = ""
	sess.Description = ""
	sess.PhotoRef = ""
	sess.Suggestion = ""
	sess.VolunteerRole = ""
	sess.PhotoCategory = ""
	sess.PhotoDescription = ""
}
