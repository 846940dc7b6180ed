package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"boothvoice/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerifyService() *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Service{
		logger: logger,
		config: &types.Config{WhatsAppVerifyToken: "expected-token"},
	}
}

func TestHandleVerifyWebhook(t *testing.T) {
	s := newVerifyService()

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid subscription",
			query:      "hub.mode=subscribe&hub.verify_token=expected-token&hub.challenge=12345",
			wantStatus: http.StatusOK,
			wantBody:   "12345",
		},
		{
			name:       "wrong token",
			query:      "hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "wrong mode",
			query:      "hub.mode=unsubscribe&hub.verify_token=expected-token&hub.challenge=12345",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing params",
			query:      "",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/webhook?"+tt.query, nil)
			rec := httptest.NewRecorder()

			s.handleVerifyWebhook(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func parseMessage(t *testing.T, raw string) webhookMessage {
	t.Helper()
	var msg webhookMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))
	return msg
}

func TestToEvent_Text(t *testing.T) {
	msg := parseMessage(t, `{"from":"919876543210","type":"text","text":{"body":"hi"}}`)

	ev, ok := toEvent(msg)
	require.True(t, ok)
	assert.Equal(t, "919876543210", ev.From)
	assert.Equal(t, "hi", ev.Text)
	assert.Nil(t, ev.Latitude)
	assert.Empty(t, ev.MediaRef)
}

func TestToEvent_ButtonAndListRepliesCarryTheID(t *testing.T) {
	button := parseMessage(t, `{"from":"919876543210","type":"interactive","interactive":{"type":"button_reply","button_reply":{"id":"btn_have_epic","title":"✅ Have Voter ID"}}}`)
	ev, ok := toEvent(button)
	require.True(t, ok)
	assert.Equal(t, "btn_have_epic", ev.Text)

	list := parseMessage(t, `{"from":"919876543210","type":"interactive","interactive":{"type":"list_reply","list_reply":{"id":"menu_7","title":"📊 Booth Pulse"}}}`)
	ev, ok = toEvent(list)
	require.True(t, ok)
	assert.Equal(t, "menu_7", ev.Text)
}

func TestToEvent_Location(t *testing.T) {
	msg := parseMessage(t, `{"from":"919876543210","type":"location","location":{"latitude":9.9252,"longitude":78.1198}}`)

	ev, ok := toEvent(msg)
	require.True(t, ok)
	assert.Empty(t, ev.Text)
	require.NotNil(t, ev.Latitude)
	require.NotNil(t, ev.Longitude)
	assert.Equal(t, 9.9252, *ev.Latitude)
	assert.Equal(t, 78.1198, *ev.Longitude)
}

func TestToEvent_Image(t *testing.T) {
	withCaption := parseMessage(t, `{"from":"919876543210","type":"image","image":{"id":"media-1","caption":"broken pipe"}}`)
	ev, ok := toEvent(withCaption)
	require.True(t, ok)
	assert.Equal(t, "media-1", ev.MediaRef)
	assert.Equal(t, "broken pipe", ev.Text)

	noCaption := parseMessage(t, `{"from":"919876543210","type":"image","image":{"id":"media-2"}}`)
	ev, ok = toEvent(noCaption)
	require.True(t, ok)
	assert.Equal(t, "IMAGE", ev.Text)
}

func TestToEvent_UnsupportedTypesAreDropped(t *testing.T) {
	for _, raw := range []string{
		`{"from":"919876543210","type":"audio"}`,
		`{"from":"919876543210","type":"sticker"}`,
		`{"from":"","type":"text","text":{"body":"hi"}}`,
	} {
		_, ok := toEvent(parseMessage(t, raw))
		assert.False(t, ok, "expected %s to be dropped", raw)
	}
}

func TestWebhookPayloadDecoding(t *testing.T) {
	raw := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"changes": [{
				"value": {
					"messages": [
						{"from":"911111111111","type":"text","text":{"body":"menu"}},
						{"from":"922222222222","type":"interactive","interactive":{"type":"list_reply","list_reply":{"id":"cat_1"}}}
					]
				}
			}]
		}]
	}`

	var payload webhookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	assert.Equal(t, "whatsapp_business_account", payload.Object)
	require.Len(t, payload.Entry, 1)
	require.Len(t, payload.Entry[0].Changes, 1)
	require.Len(t, payload.Entry[0].Changes[0].Value.Messages, 2)
}
