package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReset(t *testing.T) {
	for _, text := range []string{"hi", "Hello", "  START  ", "menu", "reset", "Vanakkam"} {
		assert.True(t, IsReset(text), "expected %q to reset", text)
	}

	for _, text := range []string{"hi there", "I said hello yesterday", "restart", ""} {
		assert.False(t, IsReset(text), "expected %q not to reset", text)
	}
}

func TestClassify_TokensBeforeKeywords(t *testing.T) {
	// A structured selection and its free-text equivalent resolve to the
	// same action.
	assert.Equal(t, Action("poll_1"), Classify(StateFlow7Poll, "poll_1"))
	assert.Equal(t, Action("poll_1"), Classify(StateFlow7Poll, "the water situation is terrible"))

	assert.Equal(t, Action("cat_3"), Classify(StateFlow1Cat, "cat_3"))
	assert.Equal(t, Action("cat_3"), Classify(StateFlow1Cat, "no power since morning"))
}

func TestClassify_MenuDigitsAreExact(t *testing.T) {
	// "10" must select ward connect, not report-an-issue.
	assert.Equal(t, ActionMenuWard, Classify(StateMainMenu, "10"))
	assert.Equal(t, ActionMenuIssue, Classify(StateMainMenu, "1"))
	assert.Equal(t, ActionMenuInvite, Classify(StateMainMenu, "11"))

	// A digit embedded in a sentence is not a selection.
	assert.Equal(t, ActionNone, Classify(StateMainMenu, "give me 10 minutes"))
}

func TestClassify_TableOrderResolvesAmbiguity(t *testing.T) {
	// "ward" appears before the issue keywords, so free text mentioning
	// both resolves to ward connect.
	assert.Equal(t, ActionMenuWard, Classify(StateMainMenu, "report to ward"))
}

func TestClassify_UnmatchedIsNone(t *testing.T) {
	assert.Equal(t, ActionNone, Classify(StateAskHasEpic, "maybe"))
	assert.Equal(t, ActionNone, Classify(StateFlow7Poll, "something else entirely"))
	assert.Equal(t, ActionNone, Classify(StateFlow7Poll, ""))
	assert.Equal(t, ActionNone, Classify(StateFlow7Poll, "   "))
}

func TestClassify_SkipVariants(t *testing.T) {
	assert.Equal(t, ActionSkip, Classify(StateFlow1Loc, "skip_loc"))
	assert.Equal(t, ActionSkip, Classify(StateFlow1Loc, "SKIP"))
	assert.Equal(t, ActionSkip, Classify(StatePostFlowEpic, "skip_post_epic"))
	assert.Equal(t, ActionSkip, Classify(StateFlow1Desc, "skip_desc"))
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.Equal(t, ActionAffirm, Classify(StateAskHasEpic, "BTN_HAVE_EPIC"))
	assert.Equal(t, ActionMenuPulse, Classify(StateMainMenu, "Booth POLL please"))
}
