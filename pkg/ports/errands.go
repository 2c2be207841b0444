package ports

import (
	"context"
	"image"

	"github.com/aretw0/errand/pkg/domain"
)

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, email domain.Email) (domain.Receipt, error)
}

// Messenger sends an SMS or WhatsApp message.
type Messenger interface {
	SendText(ctx context.Context, msg domain.TextMessage) (domain.Receipt, error)
}

// Caller places an outbound voice call.
type Caller interface {
	Call(ctx context.Context, call domain.VoiceCall) (domain.Receipt, error)
}

// MemoryReader reads a snapshot of virtual memory.
type MemoryReader interface {
	ReadMemory(ctx context.Context) (domain.MemoryStats, error)
}

// Searcher runs a web search and returns at most limit result URLs, best first.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// FaceDetector returns face bounding boxes found in img, most confident first.
type FaceDetector interface {
	Detect(img image.Image) ([]domain.Box, error)
}
