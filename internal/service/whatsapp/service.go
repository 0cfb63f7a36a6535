package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
	client "github.com/mamadbah2/herdhealth/pkg/clients/whatsapp"
)

// ErrMessagingDisabled is returned when no WhatsApp credentials are configured.
var ErrMessagingDisabled = errors.New("whatsapp messaging is not configured")

// MessagingService pushes text notifications to farm contacts.
type MessagingService interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	client client.Client
	limit  int
	logger *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance. A nil client disables sending.
func NewMetaWhatsAppService(c client.Client, logger *zap.Logger) *MetaWhatsAppService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetaWhatsAppService{client: c, limit: client.MaxBodyLength, logger: logger}
}

// SendOutbound delivers req.Message, split into several messages when it is
// longer than the API allows. Parts are sent in order and sending stops at
// the first failure.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	if s.client == nil {
		return ErrMessagingDisabled
	}
	if strings.TrimSpace(req.To) == "" {
		return &models.ValidationError{Field: "to", Message: "is required"}
	}

	parts := splitMessage(req.Message, s.limit)
	for i, part := range parts {
		ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
		_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{To: req.To, Body: part})
		cancel()
		if err != nil {
			return fmt.Errorf("send part %d/%d: %w", i+1, len(parts), err)
		}
	}

	s.logger.Debug("outbound message sent", zap.String("to", req.To), zap.Int("parts", len(parts)))
	return nil
}

// splitMessage cuts body into chunks of at most limit bytes, preferring line
// breaks. Lines longer than limit are cut hard on a rune boundary.
func splitMessage(body string, limit int) []string {
	if len(body) <= limit {
		return []string{body}
	}

	var parts []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for _, line := range strings.Split(body, "\n") {
		for len(line) > limit {
			flush()
			cut := runeCut(line, limit)
			parts = append(parts, line[:cut])
			line = line[cut:]
		}

		needed := len(line)
		if current.Len() > 0 {
			needed++
		}
		if current.Len()+needed > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	flush()

	return parts
}

// runeCut returns the largest index <= limit that starts a rune in s. A first
// rune wider than limit is kept whole.
func runeCut(s string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		_, cut = utf8.DecodeRuneInString(s)
	}
	return cut
}
