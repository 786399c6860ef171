// Package whatsapp implements the inbound WhatsApp Business webhook: payload
// decoding, redelivery suppression, message classification, and the outbound
// Graph API client used to fetch media and send status messages.
package whatsapp

import "encoding/json"

// Message kinds as declared by the transport. Anything else is treated as
// unknown and answered with the generic help notice.
const (
	KindImage = "image"
	KindText  = "text"
)

const expectedObject = "whatsapp_business_account"

// WebhookPayload is the top-level webhook body. Payloads declaring a
// different object kind are acknowledged and ignored.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry groups change records for one business account.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change is one change record; only field "messages" carries messages.
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue may carry delivery statuses, inbound messages, or both.
// Status-only records are filtered without side effects.
type ChangeValue struct {
	Statuses []Status  `json:"statuses,omitempty"`
	Messages []Message `json:"messages,omitempty"`
	Contacts []Contact `json:"contacts,omitempty"`
}

// Status is a delivery/read receipt for an outbound message.
type Status struct {
	Status      string `json:"status"`
	RecipientID string `json:"recipient_id"`
}

// Contact carries the canonical sender address.
type Contact struct {
	WaID string `json:"wa_id"`
}

// Message is one inbound message. Image stays raw because the transport has
// been observed sending both an object with an id and a bare string.
type Message struct {
	ID        string          `json:"id"`
	From      string          `json:"from"`
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	Image     json.RawMessage `json:"image,omitempty"`
	Media     *MediaRef       `json:"media,omitempty"`
	Text      *TextBody       `json:"text,omitempty"`
}

// MediaRef is a nested media object holding an opaque media identifier.
type MediaRef struct {
	ID string `json:"id"`
}

// TextBody is the body of a text message.
type TextBody struct {
	Body string `json:"body"`
}

// ImageID extracts the media identifier from whichever payload shape the
// message uses: image object, bare string, or nested media object. Returns ""
// when no recognizable image reference exists.
func (m *Message) ImageID() string {
	if len(m.Image) > 0 {
		var obj MediaRef
		if err := json.Unmarshal(m.Image, &obj); err == nil && obj.ID != "" {
			return obj.ID
		}
		var s string
		if err := json.Unmarshal(m.Image, &s); err == nil && s != "" {
			return s
		}
	}
	if m.Media != nil && m.Media.ID != "" {
		return m.Media.ID
	}
	return ""
}

// senderAddress returns the canonical address for a message: the matching
// contact's wa_id when present, else the message's own from field.
func senderAddress(contacts []Contact, m *Message) string {
	for _, c := range contacts {
		if c.WaID == m.From {
			return c.WaID
		}
	}
	return m.From
}
