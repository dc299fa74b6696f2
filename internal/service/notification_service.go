package service

import (
	"school_hub_backend/internal/event"
	"school_hub_backend/pkg/logger"

	"go.uber.org/zap"
)

// NotificationService 监听奖励类事件并下发站内通知。
// 当前仅记录结构化日志，推送渠道接入后在 notify 中扩展。
type NotificationService struct {
	Bus *event.Bus
}

func NewNotificationService(bus *event.Bus) *NotificationService {
	return &NotificationService{Bus: bus}
}

func (s *NotificationService) RegisterHooks() {
	s.Bus.Subscribe(event.BadgeAwarded, s.onBadgeAwarded)
}

func (s *NotificationService) onBadgeAwarded(evt event.Event) {
	logger.Log.Info("badge notification dispatched",
		zap.Uint("studentId", evt.StudentID),
		zap.Uint("badgeId", evt.SourceID),
		zap.Time("awardedAt", evt.OccurredAt),
	)
}
