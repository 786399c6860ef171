package whatsapp

import (
	"context"

	"github.com/rs/zerolog"
)

// TextSender sends one text message to a channel address.
type TextSender interface {
	SendText(ctx context.Context, to, body string) error
}

// Dispatcher delivers user-facing status messages. Sends are best-effort:
// a failed notification is logged and never escalated, since it must not
// roll back a committed transaction or block webhook acknowledgment.
type Dispatcher struct {
	sender TextSender
	log    zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given transport.
func NewDispatcher(sender TextSender, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, log: log}
}

// Send delivers body to the address, logging any transport failure.
func (d *Dispatcher) Send(ctx context.Context, to, body string) {
	if to == "" {
		return
	}
	if err := d.sender.SendText(ctx, to, body); err != nil {
		d.log.Error().Err(err).Str("to", to).Msg("Failed to send WhatsApp message")
	}
}
