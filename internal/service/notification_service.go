package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/EdersonPinheiro/desafio-flugo/internal/config"
	"github.com/EdersonPinheiro/desafio-flugo/internal/events"
)

// NotificationService handles emitting notifications for coordinator events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventDepartmentSaved, n.handleDepartmentSaved)
	n.dispatcher.Subscribe(events.EventDepartmentDeleted, n.handleDepartmentDeleted)
	n.dispatcher.Subscribe(events.EventCollaboratorSaved, n.handleCollaboratorSaved)
	n.dispatcher.Subscribe(events.EventCollaboratorDeleted, n.handleCollaboratorDeleted)
	n.dispatcher.Subscribe(events.EventCollaboratorsBulkDelete, n.handleBulkDelete)
	n.dispatcher.Subscribe(events.EventMembershipRelinked, n.handleMembershipRelinked)
}

func (n *NotificationService) handleDepartmentSaved(ctx context.Context, event events.Event) error {
	n.logger.Info("DepartmentSaved", zap.String("department_id", event.EntityID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleDepartmentDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("DepartmentDeleted", zap.String("department_id", event.EntityID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCollaboratorSaved(ctx context.Context, event events.Event) error {
	n.logger.Info("CollaboratorSaved", zap.String("collaborator_id", event.EntityID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleCollaboratorDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("CollaboratorDeleted", zap.String("collaborator_id", event.EntityID))
	return nil
}

func (n *NotificationService) handleMembershipRelinked(ctx context.Context, event events.Event) error {
	n.logger.Debug("MembershipRelinked", zap.String("collaborator_id", event.EntityID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleBulkDelete(ctx context.Context, event events.Event) error {
	n.logger.Info("CollaboratorsBulkDeleted", zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("entity_id", event.EntityID),
		zap.String("event_type", string(event.Type)))
}
