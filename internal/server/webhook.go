package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"boothvoice/pkg/types"

	"github.com/sirupsen/logrus"
)

// eventTimeout bounds one inbound message's full processing, including
// outbound delivery with its pacing pauses.
const eventTimeout = 60 * time.Second

type verifyParams struct {
	Mode      string `form:"hub.mode"`
	Token     string `form:"hub.verify_token"`
	Challenge string `form:"hub.challenge"`
}

func (s *Service) handleVerifyWebhook(w http.ResponseWriter, r *http.Request) {
	var params verifyParams
	if err := decoder.Decode(&params, r.URL.Query()); err != nil {
		s.logger.WithError(err).Error("failed to decode webhook verification params")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if params.Mode == "" || params.Token == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if params.Mode != "subscribe" || params.Token != s.config.WhatsAppVerifyToken {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(params.Challenge))
}

// webhookPayload mirrors the Cloud API notification envelope, down to
// the parts this service reads.
type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Value struct {
				Messages []webhookMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type webhookMessage struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID string `json:"id"`
		} `json:"button_reply"`
		ListReply *struct {
			ID string `json:"id"`
		} `json:"list_reply"`
	} `json:"interactive"`
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Image *struct {
		ID      string `json:"id"`
		Caption string `json:"caption"`
	} `json:"image"`
}

func (s *Service) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.logger.WithError(err).Error("failed to decode webhook payload")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if payload.Object != "whatsapp_business_account" {
		s.respondJSON(w, http.StatusNotFound, map[string]string{"status": "not_found"})
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, message := range change.Value.Messages {
				ev, ok := toEvent(message)
				if !ok {
					continue
				}
				go s.processEvent(ev)
			}
		}
	}

	// Ack immediately; processing continues in the background so the
	// provider never retries a slow event.
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toEvent(message webhookMessage) (types.Event, bool) {
	ev := types.Event{From: message.From}

	switch message.Type {
	case "text":
		if message.Text != nil {
			ev.Text = message.Text.Body
		}
	case "interactive":
		if message.Interactive == nil {
			return ev, false
		}
		switch {
		case message.Interactive.ButtonReply != nil:
			ev.Text = message.Interactive.ButtonReply.ID
		case message.Interactive.ListReply != nil:
			ev.Text = message.Interactive.ListReply.ID
		default:
			return ev, false
		}
	case "location":
		if message.Location == nil {
			return ev, false
		}
		lat, lon := message.Location.Latitude, message.Location.Longitude
		ev.Latitude, ev.Longitude = &lat, &lon
	case "image":
		if message.Image == nil {
			return ev, false
		}
		ev.MediaRef = message.Image.ID
		ev.Text = message.Image.Caption
		if ev.Text == "" {
			ev.Text = "IMAGE"
		}
	default:
		return ev, false
	}

	return ev, ev.From != ""
}

func (s *Service) processEvent(ev types.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	if ev.MediaRef != "" {
		key, err := s.archiver.Archive(ctx, ev.MediaRef)
		if err != nil {
			// Keep the provider id as the stored reference; the
			// submission still goes through.
			s.logger.WithError(err).WithField("media_id", ev.MediaRef).Error("failed to archive media")
		} else {
			ev.MediaRef = key
		}
	}

	directives, err := s.engine.Handle(ctx, ev)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"from": ev.From,
		}).Error("failed to handle inbound event")
		return
	}

	s.sender.Deliver(ctx, ev.From, directives)
}
