package service

import (
	"errors"
	"testing"

	"school_hub_backend/internal/event"
	"school_hub_backend/internal/model"
	"school_hub_backend/internal/repository"
	"school_hub_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	m.Run()
}

type fakeCatalog struct {
	badges  []model.Badge
	held    map[uint]bool
	awarded []uint
	listErr error
}

func (f *fakeCatalog) ListActiveByTrigger(triggers ...model.BadgeTrigger) ([]model.Badge, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Badge
	for _, b := range f.badges {
		for _, t := range triggers {
			if b.TriggerType == t {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

func (f *fakeCatalog) Award(studentID, badgeID uint) (bool, error) {
	if f.held == nil {
		f.held = map[uint]bool{}
	}
	if f.held[badgeID] {
		return false, nil
	}
	f.held[badgeID] = true
	f.awarded = append(f.awarded, badgeID)
	return true, nil
}

type fakeCounters struct {
	counters repository.StudentCounters
}

func (f *fakeCounters) CountersFor(studentID uint) (repository.StudentCounters, error) {
	return f.counters, nil
}

func badge(id uint, trigger model.BadgeTrigger, value int) model.Badge {
	b := model.Badge{TriggerType: trigger, TriggerValue: value, Active: true}
	b.ID = id
	return b
}

func TestEvaluateAwardsThresholdBadge(t *testing.T) {
	catalog := &fakeCatalog{badges: []model.Badge{
		badge(1, model.TriggerLessonsCompleted, 10),
		badge(2, model.TriggerFirstLesson, 0),
	}}
	counters := &fakeCounters{counters: repository.StudentCounters{LessonsCompleted: 10}}
	svc := NewBadgeService(catalog, counters, event.NewBus())

	require.NoError(t, svc.Evaluate(7, event.LessonCompleted))
	assert.ElementsMatch(t, []uint{1, 2}, catalog.awarded)
}

func TestEvaluateBelowThresholdNoAward(t *testing.T) {
	catalog := &fakeCatalog{badges: []model.Badge{
		badge(1, model.TriggerLessonsCompleted, 10),
	}}
	counters := &fakeCounters{counters: repository.StudentCounters{LessonsCompleted: 9}}
	svc := NewBadgeService(catalog, counters, event.NewBus())

	require.NoError(t, svc.Evaluate(7, event.LessonCompleted))
	assert.Empty(t, catalog.awarded)
}

func TestEvaluateRepeatedIsNoop(t *testing.T) {
	catalog := &fakeCatalog{badges: []model.Badge{
		badge(1, model.TriggerFirstQuiz, 0),
	}}
	counters := &fakeCounters{counters: repository.StudentCounters{QuizzesPassed: 1}}
	svc := NewBadgeService(catalog, counters, event.NewBus())

	require.NoError(t, svc.Evaluate(7, event.QuizPassed))
	require.NoError(t, svc.Evaluate(7, event.QuizPassed))
	assert.Equal(t, []uint{1}, catalog.awarded, "重复评估只授出一次")
}

func TestEvaluateOnlyRelevantTriggers(t *testing.T) {
	catalog := &fakeCatalog{badges: []model.Badge{
		badge(1, model.TriggerFirstLesson, 0),
		badge(2, model.TriggerFirstSandbox, 0),
	}}
	counters := &fakeCounters{counters: repository.StudentCounters{LessonsCompleted: 1}}
	svc := NewBadgeService(catalog, counters, event.NewBus())

	require.NoError(t, svc.Evaluate(7, event.LessonCompleted))
	assert.Equal(t, []uint{1}, catalog.awarded, "沙盒类徽章不在课时事件里评估")
}

func TestEvaluateUnknownEventIsNoop(t *testing.T) {
	catalog := &fakeCatalog{listErr: errors.New("must not be called")}
	svc := NewBadgeService(catalog, &fakeCounters{}, event.NewBus())
	assert.NoError(t, svc.Evaluate(7, event.BadgeAwarded))
}

func TestRegisterHooksEvaluatesOnPublish(t *testing.T) {
	bus := event.NewBus()
	catalog := &fakeCatalog{badges: []model.Badge{
		badge(1, model.TriggerLoginStreak, 7),
	}}
	counters := &fakeCounters{counters: repository.StudentCounters{LoginStreak: 7}}
	svc := NewBadgeService(catalog, counters, bus)
	svc.RegisterHooks()

	bus.Publish(event.Event{Type: event.StudentLogin, StudentID: 7})
	assert.Equal(t, []uint{1}, catalog.awarded)
}

func TestEligibleXPAndLevel(t *testing.T) {
	counters := repository.StudentCounters{TotalXP: 1000, CurrentLevel: 4}

	assert.True(t, eligible(badge(1, model.TriggerXPEarned, 1000), counters))
	assert.False(t, eligible(badge(2, model.TriggerXPEarned, 1001), counters))
	assert.True(t, eligible(badge(3, model.TriggerLevelReached, 4), counters))
	assert.False(t, eligible(badge(4, model.TriggerLevelReached, 5), counters))
}
