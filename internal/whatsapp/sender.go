package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"boothvoice/pkg/types"

	"github.com/sirupsen/logrus"
)

const graphAPIBase = "https://graph.facebook.com/v17.0"

// Sender delivers outbound directives through the WhatsApp Cloud API.
type Sender struct {
	logger *logrus.Logger
	client *http.Client

	token        string
	messagesURL  string
	assetBaseURL string
}

func NewSender(logger *logrus.Logger, config *types.Config) *Sender {
	return &Sender{
		logger:       logger,
		client:       &http.Client{Timeout: 15 * time.Second},
		token:        config.WhatsAppToken,
		messagesURL:  fmt.Sprintf("%s/%s/messages", graphAPIBase, config.WhatsAppPhoneNumberID),
		assetBaseURL: config.AssetBaseURL,
	}
}

// Deliver sends each directive in order, honoring per-directive pauses.
// A single failed send is logged and skipped so the rest of the batch
// still goes out.
func (s *Sender) Deliver(ctx context.Context, to string, directives []types.Directive) {
	for _, d := range directives {
		if d.Pause > 0 {
			select {
			case <-time.After(d.Pause):
			case <-ctx.Done():
				return
			}
		}

		if err := s.send(ctx, to, d); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"to":   to,
				"kind": d.Kind,
			}).Error("failed to deliver whatsapp message")
		}
	}
}

// SendText sends a single plain text message, used by dashboard status
// notifications.
func (s *Sender) SendText(ctx context.Context, to, text string) error {
	return s.send(ctx, to, types.TextDirective(text))
}

func (s *Sender) send(ctx context.Context, to string, d types.Directive) error {
	switch d.Kind {
	case types.DirectiveText:
		return s.post(ctx, map[string]any{
			"messaging_product": "whatsapp",
			"to":                to,
			"type":              "text",
			"text":              map[string]any{"preview_url": false, "body": d.Body},
		})

	case types.DirectiveImage:
		return s.post(ctx, map[string]any{
			"messaging_product": "whatsapp",
			"to":                to,
			"type":              "image",
			"image": map[string]any{
				"link":    s.assetURL(d.Image),
				"caption": d.Body,
			},
		})

	case types.DirectiveButtons:
		buttons := make([]map[string]any, 0, len(d.Buttons))
		for _, b := range d.Buttons {
			buttons = append(buttons, map[string]any{
				"type":  "reply",
				"reply": map[string]string{"id": b.ID, "title": b.Label},
			})
		}

		interactive := map[string]any{
			"type":   "button",
			"body":   map[string]string{"text": d.Body},
			"action": map[string]any{"buttons": buttons},
		}
		if d.Image != "" {
			interactive["header"] = map[string]any{
				"type":  "image",
				"image": map[string]string{"link": s.assetURL(d.Image)},
			}
		}

		return s.post(ctx, map[string]any{
			"messaging_product": "whatsapp",
			"to":                to,
			"type":              "interactive",
			"interactive":       interactive,
		})

	case types.DirectiveList:
		sections := make([]map[string]any, 0, len(d.List.Sections))
		for _, sec := range d.List.Sections {
			rows := make([]map[string]string, 0, len(sec.Rows))
			for _, row := range sec.Rows {
				r := map[string]string{"id": row.ID, "title": row.Title}
				if row.Description != "" {
					r["description"] = row.Description
				}
				rows = append(rows, r)
			}
			sections = append(sections, map[string]any{"title": sec.Title, "rows": rows})
		}

		interactive := map[string]any{
			"type": "list",
			"body": map[string]string{"text": d.Body},
			"action": map[string]any{
				"button":   d.List.ButtonLabel,
				"sections": sections,
			},
		}
		if d.List.Header != "" {
			interactive["header"] = map[string]string{"type": "text", "text": d.List.Header}
		}

		return s.post(ctx, map[string]any{
			"messaging_product": "whatsapp",
			"to":                to,
			"type":              "interactive",
			"interactive":       interactive,
		})

	default:
		return fmt.Errorf("unknown directive kind %q", d.Kind)
	}
}

func (s *Sender) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.messagesURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return fmt.Errorf("whatsapp api error %d: %s", res.StatusCode, detail)
	}

	return nil
}

// assetURL maps a symbolic asset key to a public URL under the
// configured asset host.
func (s *Sender) assetURL(key string) string {
	return fmt.Sprintf("%s/assets/%s.jpg", s.assetBaseURL, key)
}
