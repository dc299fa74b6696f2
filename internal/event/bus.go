package event

import (
	"sync"
	"time"

	"school_hub_backend/pkg/logger"

	"go.uber.org/zap"
)

type Type string

const (
	XPAwarded         Type = "xp_awarded"
	LessonStarted     Type = "lesson_started"
	LessonCompleted   Type = "lesson_completed"
	ExerciseSubmitted Type = "exercise_submitted"
	ExercisePassed    Type = "exercise_passed"
	QuizSubmitted     Type = "quiz_submitted"
	QuizPassed        Type = "quiz_passed"
	StudentLogin      Type = "student_login"
	SandboxCreated    Type = "sandbox_created"
	BadgeAwarded      Type = "badge_awarded"
)

// Event 学生动作事件，徽章评估等横切逻辑通过订阅消费，不内联在各调用点
type Event struct {
	Type       Type
	StudentID  uint
	SourceID   uint // 关联实体(课时/练习/测验/徽章)的ID，无则为0
	Amount     int  // XP 数额，仅 XPAwarded 使用
	OccurredAt time.Time
}

type Handler func(Event)

// Bus 进程内同步事件总线。处理器按注册顺序执行，panic 被捕获并记录，
// 不影响发布方的主流程。
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Type][]Handler)}
}

func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

func (b *Bus) Publish(e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	b.mu.RLock()
	handlers := b.handlers[e.Type]
	b.mu.RUnlock()

	for _, h := range handlers {
		b.dispatch(e, h)
	}
}

func (b *Bus) dispatch(e Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("event handler panic",
				zap.String("event", string(e.Type)),
				zap.Uint("studentId", e.StudentID),
				zap.Any("panic", r),
			)
		}
	}()
	h(e)
}
