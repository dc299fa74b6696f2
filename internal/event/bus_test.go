package event

import (
	"testing"
	"time"

	"school_hub_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	m.Run()
}

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var calls []string
	bus.Subscribe(XPAwarded, func(Event) { calls = append(calls, "first") })
	bus.Subscribe(XPAwarded, func(Event) { calls = append(calls, "second") })

	bus.Publish(Event{Type: XPAwarded, StudentID: 1, Amount: 10})

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestPublishOnlyMatchingType(t *testing.T) {
	bus := NewBus()
	var got []Type
	bus.Subscribe(LessonCompleted, func(e Event) { got = append(got, e.Type) })

	bus.Publish(Event{Type: QuizPassed, StudentID: 1})
	bus.Publish(Event{Type: LessonCompleted, StudentID: 1, SourceID: 7})

	assert.Equal(t, []Type{LessonCompleted}, got)
}

func TestPublishFillsOccurredAt(t *testing.T) {
	bus := NewBus()
	var seen Event
	bus.Subscribe(StudentLogin, func(e Event) { seen = e })

	before := time.Now()
	bus.Publish(Event{Type: StudentLogin, StudentID: 3})

	assert.False(t, seen.OccurredAt.Before(before))

	// 显式时间戳不被覆盖
	explicit := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	bus.Publish(Event{Type: StudentLogin, StudentID: 3, OccurredAt: explicit})
	assert.Equal(t, explicit, seen.OccurredAt)
}

func TestHandlerPanicDoesNotStopOthers(t *testing.T) {
	bus := NewBus()
	var delivered bool
	bus.Subscribe(ExercisePassed, func(Event) { panic("boom") })
	bus.Subscribe(ExercisePassed, func(Event) { delivered = true })

	assert.NotPanics(t, func() {
		bus.Publish(Event{Type: ExercisePassed, StudentID: 2, SourceID: 5})
	})
	assert.True(t, delivered, "后续处理器不受影响")
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(Event{Type: SandboxCreated, StudentID: 9})
	})
}
