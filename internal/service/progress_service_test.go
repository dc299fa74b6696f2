package service

import (
	"errors"
	"testing"
	"time"

	"school_hub_backend/internal/event"
	"school_hub_backend/internal/model"
	"school_hub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLessonCatalog struct {
	lessons map[uint]*model.Lesson
}

func (f *fakeLessonCatalog) FindLesson(id uint) (*model.Lesson, error) {
	if l, ok := f.lessons[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLessonCatalog) FindByID(id uint) (*model.Course, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLessonCatalog) CountPublishedLessons(courseID uint) (int64, error) {
	return 0, nil
}

type progressKey struct {
	studentID, lessonID uint
}

type fakeProgressStore struct {
	records map[progressKey]*model.LessonProgress
	markTx  *gorm.DB
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{records: map[progressKey]*model.LessonProgress{}}
}

func (f *fakeProgressStore) FindByStudentAndLesson(studentID, lessonID uint) (*model.LessonProgress, error) {
	if rec, ok := f.records[progressKey{studentID, lessonID}]; ok {
		snapshot := *rec
		return &snapshot, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProgressStore) CreateIfAbsent(tx *gorm.DB, progress *model.LessonProgress) (*model.LessonProgress, bool, error) {
	key := progressKey{progress.StudentID, progress.LessonID}
	if existing, ok := f.records[key]; ok {
		snapshot := *existing
		return &snapshot, false, nil
	}
	f.records[key] = progress
	return progress, true, nil
}

func (f *fakeProgressStore) MarkCompleted(tx *gorm.DB, studentID, lessonID uint, xpEarned int, at time.Time) (bool, error) {
	f.markTx = tx
	rec, ok := f.records[progressKey{studentID, lessonID}]
	if !ok || rec.Status == model.LessonCompleted {
		return false, nil
	}
	rec.Status = model.LessonCompleted
	rec.CompletedAt = &at
	rec.XPEarned = xpEarned
	return true, nil
}

func (f *fakeProgressStore) AddTimeSpent(studentID, lessonID uint, deltaSeconds int) error {
	rec, ok := f.records[progressKey{studentID, lessonID}]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	rec.TimeSpentSeconds += deltaSeconds
	return nil
}

func (f *fakeProgressStore) CountCompletedInCourse(studentID, courseID uint) (int64, error) {
	return 0, nil
}

func (f *fakeProgressStore) ListByStudentAndCourse(studentID, courseID uint) ([]model.LessonProgress, error) {
	return nil, nil
}

func lessonFixture(id uint, xpReward int) *model.Lesson {
	l := &model.Lesson{XPReward: xpReward, Published: true}
	l.ID = id
	return l
}

func newProgressFixture(lessons ...*model.Lesson) (*ProgressService, *fakeProgressStore, *fakeProfileStore, *fakeLedgerStore, *fakeTxRunner) {
	catalog := &fakeLessonCatalog{lessons: map[uint]*model.Lesson{}}
	for _, l := range lessons {
		catalog.lessons[l.ID] = l
	}
	store := newFakeProgressStore()
	profiles := &fakeProfileStore{profile: studentWithXP(1, 0)}
	ledger := &fakeLedgerStore{}
	runner := &fakeTxRunner{tx: &gorm.DB{}}
	bus := event.NewBus()
	xp := NewXpService(profiles, ledger, bus, runner)
	return NewProgressService(catalog, store, xp, bus, runner), store, profiles, ledger, runner
}

func TestStartLessonIdempotent(t *testing.T) {
	svc, store, profiles, _, _ := newProgressFixture(lessonFixture(7, 10))

	first, err := svc.StartLesson(7, 1)
	require.NoError(t, err)
	assert.Equal(t, model.LessonInProgress, first.Status)

	second, err := svc.StartLesson(7, 1)
	require.NoError(t, err)
	assert.Equal(t, first.StartedAt, second.StartedAt)
	assert.Len(t, store.records, 1)
	// 开始课时推进最近活跃
	assert.NotNil(t, profiles.profile.LastActivityDate)
}

func TestStartLessonUnknownLesson(t *testing.T) {
	svc, _, _, _, _ := newProgressFixture()
	_, err := svc.StartLesson(99, 1)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestCompleteLessonAwardsOnce(t *testing.T) {
	svc, _, profiles, ledger, _ := newProgressFixture(lessonFixture(7, 10))

	_, err := svc.StartLesson(7, 1)
	require.NoError(t, err)

	first, err := svc.CompleteLesson(7, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, first.XPEarned)
	assert.Equal(t, model.LessonCompleted, first.Progress.Status)
	assert.Equal(t, 10, profiles.profile.TotalXP)
	require.Len(t, ledger.rows, 1)

	second, err := svc.CompleteLesson(7, 1)
	require.NoError(t, err)
	assert.Zero(t, second.XPEarned)
	assert.Equal(t, model.LessonCompleted, second.Progress.Status)
	assert.Equal(t, 10, profiles.profile.TotalXP)
	assert.Len(t, ledger.rows, 1)
}

func TestCompleteLessonWithoutStartCreatesCompleted(t *testing.T) {
	svc, store, profiles, _, _ := newProgressFixture(lessonFixture(7, 10))

	result, err := svc.CompleteLesson(7, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, result.XPEarned)
	assert.Equal(t, 10, profiles.profile.TotalXP)

	rec := store.records[progressKey{1, 7}]
	require.NotNil(t, rec)
	assert.Equal(t, model.LessonCompleted, rec.Status)
	assert.NotNil(t, rec.CompletedAt)
}

func TestCompleteLessonTransitionAndAwardShareTransaction(t *testing.T) {
	svc, store, _, ledger, runner := newProgressFixture(lessonFixture(7, 10))

	_, err := svc.StartLesson(7, 1)
	require.NoError(t, err)
	runner.calls = 0

	_, err = svc.CompleteLesson(7, 1)
	require.NoError(t, err)

	// 状态转移与账本追加同一次事务、同一个句柄
	assert.Equal(t, 1, runner.calls)
	assert.Same(t, runner.tx, store.markTx)
	assert.Same(t, runner.tx, ledger.appendTx)
}

func TestCompleteLessonAwardFailureSurfaces(t *testing.T) {
	svc, _, _, ledger, _ := newProgressFixture(lessonFixture(7, 10))
	ledger.appendErr = errors.New("ledger unavailable")

	_, err := svc.CompleteLesson(7, 1)
	assert.Error(t, err)
}

func TestCompleteLessonUnknownLesson(t *testing.T) {
	svc, _, _, _, _ := newProgressFixture()
	_, err := svc.CompleteLesson(99, 1)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestUpdateTimeSpentAccumulates(t *testing.T) {
	svc, store, _, _, _ := newProgressFixture(lessonFixture(7, 10))

	_, err := svc.StartLesson(7, 1)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateTimeSpent(7, 1, 120))
	require.NoError(t, svc.UpdateTimeSpent(7, 1, 60))
	require.NoError(t, svc.UpdateTimeSpent(7, 1, 0))

	assert.Equal(t, 180, store.records[progressKey{1, 7}].TimeSpentSeconds)
}

func TestUpdateTimeSpentWithoutRecord(t *testing.T) {
	svc, _, _, _, _ := newProgressFixture(lessonFixture(7, 10))
	err := svc.UpdateTimeSpent(7, 1, 60)
	assert.ErrorIs(t, err, util.ErrProgressNotFound)
}

func TestGetLessonProgressSynthesizesNotStarted(t *testing.T) {
	svc, _, _, _, _ := newProgressFixture(lessonFixture(7, 10))

	progress, err := svc.GetLessonProgress(7, 1)
	require.NoError(t, err)
	assert.Equal(t, model.LessonNotStarted, progress.Status)
	assert.Zero(t, progress.XPEarned)
}
