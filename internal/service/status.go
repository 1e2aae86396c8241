package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sereenat7/DISHA-sub001/internal/domain"
)

// RecordDeliveryStatus records a provider delivery callback against the
// session whose call it reports on.
func (s *Service) RecordDeliveryStatus(ctx context.Context, sessionID string, status *domain.DeliveryStatus) error {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return ErrSessionNotFound
	}

	log.Printf("Delivery status for %s: call=%s to=%s status=%s", sessionID, status.ProviderCallID, status.To, status.Status)

	s.Emit(ctx, sessionID, domain.EventTypeDeliveryStatus, domain.DeliveryStatusPayload{
		ProviderCallID: status.ProviderCallID,
		To:             status.To,
		Status:         status.Status,
	})
	return nil
}

// Health reports service liveness and whether the provider has the
// credentials it needs to place real calls.
func (s *Service) Health() map[string]interface{} {
	status := "healthy"
	if !s.config.ProviderConfigured() {
		status = "configuration_incomplete"
	}
	return map[string]interface{}{
		"status":              status,
		"provider_mode":       s.config.ProviderMode,
		"provider_configured": s.config.ProviderConfigured(),
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
	}
}
