package service

import (
	"school_hub_backend/internal/event"
	"school_hub_backend/internal/model"
	"school_hub_backend/internal/repository"
	"school_hub_backend/pkg/logger"
	"school_hub_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// BadgeCatalog 徽章目录与授予的只读+授予接口
type BadgeCatalog interface {
	ListActiveByTrigger(triggers ...model.BadgeTrigger) ([]model.Badge, error)
	Award(studentID, badgeID uint) (bool, error)
}

// CounterSource 学生聚合计数的只读来源
type CounterSource interface {
	CountersFor(studentID uint) (repository.StudentCounters, error)
}

// 事件类别 → 需要重新评估的触发器
var triggersByEvent = map[event.Type][]model.BadgeTrigger{
	event.StudentLogin:    {model.TriggerFirstLogin, model.TriggerLoginStreak},
	event.LessonCompleted: {model.TriggerFirstLesson, model.TriggerLessonsCompleted, model.TriggerCoursesFinished},
	event.ExercisePassed:  {model.TriggerFirstExercise, model.TriggerExercisesPassed},
	event.QuizPassed:      {model.TriggerFirstQuiz},
	event.SandboxCreated:  {model.TriggerFirstSandbox},
	event.XPAwarded:       {model.TriggerXPEarned, model.TriggerLevelReached},
}

// BadgeService 徽章触发评估。通过事件总线挂接在各变更操作之后，
// 触发逻辑集中在这一处，调用点不感知。
type BadgeService struct {
	Catalog  BadgeCatalog
	Counters CounterSource
	Bus      *event.Bus
}

func NewBadgeService(catalog BadgeCatalog, counters CounterSource, bus *event.Bus) *BadgeService {
	return &BadgeService{Catalog: catalog, Counters: counters, Bus: bus}
}

// RegisterHooks 订阅所有会影响徽章的学生动作事件
func (s *BadgeService) RegisterHooks() {
	for evtType := range triggersByEvent {
		t := evtType
		s.Bus.Subscribe(t, func(e event.Event) {
			if err := s.Evaluate(e.StudentID, t); err != nil {
				logger.Log.Error("badge evaluation failed",
					zap.Uint("studentId", e.StudentID),
					zap.String("event", string(t)),
					zap.Error(err),
				)
			}
		})
	}
}

// Evaluate 按动作类别重查该学生的聚合计数并评估对应徽章。
// 授予依赖 (student_id, badge_id) 唯一索引，重复评估不会二次授出。
func (s *BadgeService) Evaluate(studentID uint, evtType event.Type) error {
	triggers, ok := triggersByEvent[evtType]
	if !ok {
		return nil
	}

	badges, err := s.Catalog.ListActiveByTrigger(triggers...)
	if err != nil {
		return err
	}
	if len(badges) == 0 {
		return nil
	}

	counters, err := s.Counters.CountersFor(studentID)
	if err != nil {
		return err
	}

	for _, badge := range badges {
		if !eligible(badge, counters) {
			continue
		}
		awarded, err := s.Catalog.Award(studentID, badge.ID)
		if err != nil {
			return err
		}
		if !awarded {
			continue // 已持有，良性无操作
		}
		monitoring.BadgesAwardedTotal.WithLabelValues(string(badge.TriggerType)).Inc()
		logger.Log.Info("badge awarded",
			zap.Uint("studentId", studentID),
			zap.Uint("badgeId", badge.ID),
			zap.String("badge", badge.Name),
		)
		// 通知投递由订阅方（外部协作者）处理
		s.Bus.Publish(event.Event{Type: event.BadgeAwarded, StudentID: studentID, SourceID: badge.ID})
	}
	return nil
}

// eligible 阈值类比对计数；首次类在触发动作发生时即满足，
// 幂等性由唯一索引兜底。
func eligible(badge model.Badge, counters repository.StudentCounters) bool {
	switch badge.TriggerType {
	case model.TriggerFirstLogin, model.TriggerFirstSandbox:
		return true
	case model.TriggerFirstLesson:
		return counters.LessonsCompleted >= 1
	case model.TriggerFirstExercise:
		return counters.ExercisesPassed >= 1
	case model.TriggerFirstQuiz:
		return counters.QuizzesPassed >= 1
	case model.TriggerLessonsCompleted:
		return counters.LessonsCompleted >= int64(badge.TriggerValue)
	case model.TriggerExercisesPassed:
		return counters.ExercisesPassed >= int64(badge.TriggerValue)
	case model.TriggerCoursesFinished:
		return counters.CoursesFinished >= int64(badge.TriggerValue)
	case model.TriggerLoginStreak:
		return counters.LoginStreak >= badge.TriggerValue
	case model.TriggerXPEarned:
		return counters.TotalXP >= badge.TriggerValue
	case model.TriggerLevelReached:
		return counters.CurrentLevel >= badge.TriggerValue
	}
	return false
}
