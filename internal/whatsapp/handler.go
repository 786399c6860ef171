package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/ocr"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/pipeline"
)

// AccountResolver maps a raw channel address to a registered account.
type AccountResolver interface {
	Resolve(ctx context.Context, rawAddress string) (*domain.Account, error)
}

// MediaFetcher downloads media bytes by their opaque identifier.
type MediaFetcher interface {
	DownloadMedia(ctx context.Context, mediaID string) ([]byte, string, error)
}

// TransactionProcessor commits one extraction candidate for an account.
type TransactionProcessor interface {
	Process(ctx context.Context, userID string, cand domain.ExtractedTransaction) (pipeline.Outcome, error)
}

// MediaArchiver stores a copy of an inbound screenshot. Optional; archiving
// failures never affect the pipeline.
type MediaArchiver interface {
	Archive(ctx context.Context, sender string, image []byte, mimeType string) error
}

// Handler is the inbound webhook endpoint. It owns the per-message state
// machine: redelivery suppression, sender resolution, media download,
// extraction, and handing the candidate to the processor, with a user-facing
// notice for every terminal state.
type Handler struct {
	verifyToken string

	resolver   AccountResolver
	media      MediaFetcher
	extractor  ocr.Extractor
	processor  TransactionProcessor
	dispatcher *Dispatcher
	archiver   MediaArchiver

	seen *ProcessedSet
	now  func() time.Time
	log  zerolog.Logger
}

// HandlerConfig collects the handler's collaborators. Archiver may be nil.
type HandlerConfig struct {
	VerifyToken string
	Resolver    AccountResolver
	Media       MediaFetcher
	Extractor   ocr.Extractor
	Processor   TransactionProcessor
	Dispatcher  *Dispatcher
	Archiver    MediaArchiver
	Logger      zerolog.Logger
}

// NewHandler creates a webhook handler with a fresh processed-message set.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		verifyToken: cfg.VerifyToken,
		resolver:    cfg.Resolver,
		media:       cfg.Media,
		extractor:   cfg.Extractor,
		processor:   cfg.Processor,
		dispatcher:  cfg.Dispatcher,
		archiver:    cfg.Archiver,
		seen:        NewProcessedSet(DefaultSeenCap),
		now:         time.Now,
		log:         cfg.Logger,
	}
}

// HandleVerification answers the transport's GET subscription handshake. On a
// subscribe request carrying the configured token, the challenge is echoed
// back verbatim; anything else is refused.
func (h *Handler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		h.log.Info().Msg("Webhook verified")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	h.log.Warn().Str("mode", mode).Msg("Webhook verification refused")
	writeJSON(w, http.StatusForbidden, map[string]string{"error": "Verification failed"})
}

// HandleWebhook processes one POST delivery. Per-message failures are
// reported to the sender and never to the transport: once the payload
// decodes, the response is always a success acknowledgment, since a non-2xx
// only triggers redelivery of a payload that would fail identically.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var payload WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.log.Error().Err(err).Msg("Webhook payload decode failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Webhook processing failed"})
		return
	}

	if payload.Object == expectedObject {
		h.processPayload(r.Context(), &payload)
	} else {
		h.log.Debug().Str("object", payload.Object).Msg("Ignoring non-account webhook object")
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *Handler) processPayload(ctx context.Context, payload *WebhookPayload) {
	for i := range payload.Entry {
		for j := range payload.Entry[i].Changes {
			change := &payload.Entry[i].Changes[j]
			if change.Field != "messages" {
				continue
			}
			// Status-only change records carry no messages.
			if len(change.Value.Messages) == 0 {
				continue
			}
			for k := range change.Value.Messages {
				h.processMessage(ctx, change.Value.Contacts, &change.Value.Messages[k])
			}
		}
	}
}

func (h *Handler) processMessage(ctx context.Context, contacts []Contact, msg *Message) {
	if msg.ID != "" && !h.seen.MarkIfNew(msg.ID) {
		h.log.Info().Str("message_id", msg.ID).Msg("Skipping already-processed message")
		return
	}

	sender := senderAddress(contacts, msg)

	switch msg.Type {
	case KindImage:
		h.handleImage(ctx, sender, msg)
	case KindText:
		h.handleText(ctx, sender, msg)
	default:
		h.log.Info().Str("type", msg.Type).Str("from", sender).Msg("Unsupported message type")
		h.dispatcher.Send(ctx, sender, genericHelpMessage())
	}
}

func (h *Handler) handleImage(ctx context.Context, sender string, msg *Message) {
	// Second suppression layer: redelivered screenshots can arrive under
	// fresh message identifiers, so images are also keyed per sender on a
	// coarse time bucket.
	if !h.seen.MarkIfNew(imageSuppressionKey(sender, h.now())) {
		h.log.Info().Str("from", sender).Msg("Suppressing near-duplicate image delivery")
		return
	}

	acct, err := h.resolver.Resolve(ctx, sender)
	if err != nil {
		h.log.Info().Str("from", sender).Msg("Image from unregistered sender")
		h.dispatcher.Send(ctx, sender, registrationNeededMessage(sender))
		return
	}

	h.dispatcher.Send(ctx, sender, processingStartedMessage())

	imageID := msg.ImageID()
	if imageID == "" {
		h.log.Warn().Str("from", sender).Msg("Image message without media reference")
		h.dispatcher.Send(ctx, sender, noImageFoundMessage())
		return
	}

	image, mimeType, err := h.media.DownloadMedia(ctx, imageID)
	if err != nil {
		h.log.Error().Err(err).Str("media_id", imageID).Msg("Media download failed")
		h.dispatcher.Send(ctx, sender, processingErrorMessage())
		return
	}

	if h.archiver != nil {
		if err := h.archiver.Archive(ctx, sender, image, mimeType); err != nil {
			h.log.Warn().Err(err).Str("from", sender).Msg("Screenshot archive failed")
		}
	}

	res := h.extractor.Extract(ctx, image, mimeType)
	if res.Degraded {
		h.log.Warn().Err(res.Err).Str("from", sender).Msg("Extraction degraded to fallback")
	}

	outcome, err := h.processor.Process(ctx, acct.UserID, res.Transaction)
	switch outcome {
	case pipeline.OutcomeSaved:
		h.dispatcher.Send(ctx, sender, successMessage(res.Transaction))
	case pipeline.OutcomeDuplicate:
		h.dispatcher.Send(ctx, sender, duplicateMessage(res.Transaction))
	case pipeline.OutcomeInvalid:
		h.dispatcher.Send(ctx, sender, extractionFailedMessage())
	case pipeline.OutcomeFailed:
		h.log.Error().Err(err).Str("user_id", acct.UserID).Msg("Transaction commit failed")
		h.dispatcher.Send(ctx, sender, saveFailedMessage())
	}
}

func (h *Handler) handleText(ctx context.Context, sender string, msg *Message) {
	body := ""
	if msg.Text != nil {
		body = msg.Text.Body
	}
	lower := strings.ToLower(body)

	switch {
	case strings.Contains(lower, "help"):
		h.dispatcher.Send(ctx, sender, helpMessage())
	case strings.Contains(lower, "status"):
		acct, err := h.resolver.Resolve(ctx, sender)
		if err != nil {
			h.dispatcher.Send(ctx, sender, statusUnregisteredMessage(sender))
			return
		}
		h.dispatcher.Send(ctx, sender, statusRegisteredMessage(acct))
	case strings.Contains(lower, "test"):
		h.dispatcher.Send(ctx, sender, testReplyMessage(sender, body))
	default:
		h.dispatcher.Send(ctx, sender, unrecognizedCommandMessage())
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
