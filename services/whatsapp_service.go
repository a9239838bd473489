package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/conserv-tt/conserv-backend/config"
	"github.com/conserv-tt/conserv-backend/internal/notification"
	"github.com/conserv-tt/conserv-backend/logger"
	"github.com/conserv-tt/conserv-backend/types"
)

// WADispatcher notifies the dispatch crew about a new receipt. The concrete
// implementation talks WhatsApp; tests use fakes.
type WADispatcher interface {
	// DispatchReceipt sends the receipt summary. It always returns a status,
	// never an error: a failed message must not fail the receipt.
	DispatchReceipt(ctx context.Context, receipt *types.Receipt) *types.WADispatchStatus
}

// WhatsAppService formats receipt summaries and sends them through the
// messaging gateway.
type WhatsAppService struct {
	client   *notification.Client
	number   string
	currency string
	enabled  bool
}

var _ WADispatcher = (*WhatsAppService)(nil)

// NewWhatsAppService builds the dispatcher from configuration. A disabled
// configuration still yields a working service that reports "disabled".
func NewWhatsAppService(cfg config.WhatsAppConfig, currency string) *WhatsAppService {
	var client *notification.Client
	if cfg.Enabled {
		client = notification.NewClient(cfg.APIUrl, cfg.APIKey,
			notification.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}
	return &WhatsAppService{
		client:   client,
		number:   cfg.DispatchNumber,
		currency: currency,
		enabled:  cfg.Enabled,
	}
}

// DispatchReceipt sends the receipt text, then queues a location share when
// the receipt carries customer coordinates.
func (s *WhatsAppService) DispatchReceipt(ctx context.Context, receipt *types.Receipt) *types.WADispatchStatus {
	log := logger.GetLogger()

	if !s.enabled {
		return &types.WADispatchStatus{Error: "whatsapp dispatch is disabled"}
	}

	if err := s.client.SendText(ctx, s.number, formatReceiptMessage(receipt, s.currency)); err != nil {
		log.Errorw("WhatsApp dispatch failed",
			"receiptID", receipt.ID,
			"to", logger.MaskPhone(s.number),
			"error", err,
		)
		return &types.WADispatchStatus{Error: err.Error()}
	}

	status := &types.WADispatchStatus{SentText: true}
	if receipt.Location != nil {
		queued, err := s.client.QueueLocation(ctx, s.number, receipt.Location.Lat, receipt.Location.Lng)
		if err != nil {
			// The text already went out; a failed location share downgrades
			// the status but is not an overall failure.
			log.Warnw("WhatsApp location share failed", "receiptID", receipt.ID, "error", err)
		}
		status.SentLocationQueued = queued
	}
	return status
}

// formatReceiptMessage renders the dispatch text for a receipt.
func formatReceiptMessage(receipt *types.Receipt, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New receipt #%d\n", receipt.ID)
	if receipt.CustomerName != nil && *receipt.CustomerName != "" {
		fmt.Fprintf(&b, "Customer: %s\n", *receipt.CustomerName)
	}
	if receipt.CustomerPhone != nil && *receipt.CustomerPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", *receipt.CustomerPhone)
	}
	if receipt.CustomerAddress != nil && *receipt.CustomerAddress != "" {
		fmt.Fprintf(&b, "Address: %s\n", *receipt.CustomerAddress)
	}
	for _, l := range receipt.Lines {
		fmt.Fprintf(&b, "- %s x%.2f @ %.2f\n", l.ItemName, l.Quantity, l.UnitPrice)
	}
	fmt.Fprintf(&b, "Total: %s %.2f", currency, receipt.Subtotal)
	if receipt.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", receipt.Notes)
	}
	return b.String()
}
