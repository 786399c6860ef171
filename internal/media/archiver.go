// Package media archives inbound transaction screenshots to Cloud Storage so
// a saved ledger row can be traced back to the image it came from.
package media

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const uploadTimeout = 2 * time.Minute

// Archiver writes screenshot copies into a GCS bucket. Assumes Application
// Default Credentials are configured.
type Archiver struct {
	client *storage.Client
	bucket string
	now    func() time.Time
	log    zerolog.Logger
}

// NewArchiver creates an archiver over the given bucket.
func NewArchiver(ctx context.Context, bucket string, log zerolog.Logger) (*Archiver, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("media: create storage client: %w", err)
	}
	return &Archiver{client: client, bucket: bucket, now: time.Now, log: log}, nil
}

// Archive stores one screenshot under whatsapp/<sender>/<date>/<id> with its
// original content type. The object name embeds a fresh id because one sender
// can submit several screenshots on the same day.
func (a *Archiver) Archive(ctx context.Context, sender string, image []byte, mimeType string) error {
	name := fmt.Sprintf("whatsapp/%s/%s/%s%s",
		sender, a.now().UTC().Format("2006-01-02"), uuid.NewString(), extensionFor(mimeType))

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(name).NewWriter(ctx)
	w.ContentType = mimeType
	if _, err := w.Write(image); err != nil {
		w.Close()
		return fmt.Errorf("media: write object %q: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("media: finalize object %q: %w", name, err)
	}

	a.log.Info().Str("object", name).Int("bytes", len(image)).Msg("Screenshot archived")
	return nil
}

// Close releases the underlying storage client.
func (a *Archiver) Close() error {
	return a.client.Close()
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
