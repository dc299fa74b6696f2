package service

import (
	"testing"

	"school_hub_backend/internal/event"
	"school_hub_backend/internal/model"
	"school_hub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeExerciseCatalog struct {
	exercises map[uint]*model.Exercise
}

func (f *fakeExerciseCatalog) FindByID(id uint) (*model.Exercise, error) {
	if e, ok := f.exercises[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeQuizCatalog struct {
	quizzes map[uint]*model.Quiz
}

func (f *fakeQuizCatalog) FindByID(id uint) (*model.Quiz, error) {
	if q, ok := f.quizzes[id]; ok {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeExerciseSubs struct {
	rows []model.ExerciseSubmission
}

func (f *fakeExerciseSubs) HasPassed(studentID, exerciseID uint) (bool, error) {
	for _, r := range f.rows {
		if r.StudentID == studentID && r.ExerciseID == exerciseID && r.Passed {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeExerciseSubs) Create(sub *model.ExerciseSubmission) error {
	f.rows = append(f.rows, *sub)
	return nil
}

func (f *fakeExerciseSubs) ListByStudentAndExercise(studentID, exerciseID uint) ([]model.ExerciseSubmission, error) {
	var out []model.ExerciseSubmission
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].StudentID == studentID && f.rows[i].ExerciseID == exerciseID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

type fakeQuizSubs struct {
	rows []model.QuizSubmission
}

func (f *fakeQuizSubs) HasPassed(studentID, quizID uint) (bool, error) {
	for _, r := range f.rows {
		if r.StudentID == studentID && r.QuizID == quizID && r.Passed {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeQuizSubs) Create(sub *model.QuizSubmission) error {
	f.rows = append(f.rows, *sub)
	return nil
}

func (f *fakeQuizSubs) ListByStudentAndQuiz(studentID, quizID uint) ([]model.QuizSubmission, error) {
	var out []model.QuizSubmission
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].StudentID == studentID && f.rows[i].QuizID == quizID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func exerciseFixture(id uint, xpReward int) *model.Exercise {
	e := &model.Exercise{Title: "Hello World", XPReward: xpReward, Published: true}
	e.ID = id
	return e
}

func quizFixture(id uint, xpReward, questionCount int) *model.Quiz {
	q := &model.Quiz{Title: "章节测验", XPReward: xpReward, Published: true}
	q.ID = id
	q.Questions = questions(questionCount)
	return q
}

func newGradingFixture(exercise *model.Exercise, quiz *model.Quiz) (*GradingService, *fakeExerciseSubs, *fakeQuizSubs, *fakeProfileStore) {
	exercises := &fakeExerciseCatalog{exercises: map[uint]*model.Exercise{}}
	if exercise != nil {
		exercises.exercises[exercise.ID] = exercise
	}
	quizzes := &fakeQuizCatalog{quizzes: map[uint]*model.Quiz{}}
	if quiz != nil {
		quizzes.quizzes[quiz.ID] = quiz
	}
	exSubs := &fakeExerciseSubs{}
	quizSubs := &fakeQuizSubs{}
	profiles := &fakeProfileStore{profile: studentWithXP(1, 0)}
	bus := event.NewBus()
	xp := NewXpService(profiles, &fakeLedgerStore{}, bus, &fakeTxRunner{tx: &gorm.DB{}})
	svc := NewGradingService(exercises, exSubs, quizzes, quizSubs, xp, bus)
	return svc, exSubs, quizSubs, profiles
}

func failingResults() []model.TestResult {
	return []model.TestResult{
		{Name: "prints greeting", Passed: true},
		{Name: "handles empty input", Passed: false},
	}
}

func passingResults() []model.TestResult {
	return []model.TestResult{
		{Name: "prints greeting", Passed: true},
		{Name: "handles empty input", Passed: true},
	}
}

func TestSubmitExerciseFirstPassOnlyAwardsOnce(t *testing.T) {
	svc, subs, _, profiles := newGradingFixture(exerciseFixture(3, 15), nil)

	failed, err := svc.SubmitExercise(1, 3, "print('hi')", failingResults())
	require.NoError(t, err)
	assert.False(t, failed.Passed)
	assert.Zero(t, failed.XPEarned)
	assert.Zero(t, profiles.profile.TotalXP)

	passed, err := svc.SubmitExercise(1, 3, "print('hello')", passingResults())
	require.NoError(t, err)
	assert.True(t, passed.Passed)
	assert.Equal(t, 15, passed.XPEarned)
	assert.Equal(t, 15, profiles.profile.TotalXP)

	// 重复通过：提交照常入库，不再发 XP
	again, err := svc.SubmitExercise(1, 3, "print('hello')", passingResults())
	require.NoError(t, err)
	assert.True(t, again.Passed)
	assert.Zero(t, again.XPEarned)
	assert.Equal(t, 15, profiles.profile.TotalXP)
	assert.Len(t, subs.rows, 3)
}

func TestSubmitExercisePublishesEvents(t *testing.T) {
	svc, _, _, _ := newGradingFixture(exerciseFixture(3, 15), nil)

	var types []event.Type
	svc.Bus.Subscribe(event.ExerciseSubmitted, func(e event.Event) { types = append(types, e.Type) })
	svc.Bus.Subscribe(event.ExercisePassed, func(e event.Event) { types = append(types, e.Type) })

	_, err := svc.SubmitExercise(1, 3, "x", failingResults())
	require.NoError(t, err)
	assert.Equal(t, []event.Type{event.ExerciseSubmitted}, types)

	types = nil
	_, err = svc.SubmitExercise(1, 3, "y", passingResults())
	require.NoError(t, err)
	assert.Equal(t, []event.Type{event.ExerciseSubmitted, event.ExercisePassed}, types)
}

func TestSubmitExerciseUnknownExercise(t *testing.T) {
	svc, _, _, _ := newGradingFixture(nil, nil)
	_, err := svc.SubmitExercise(1, 99, "x", passingResults())
	assert.ErrorIs(t, err, util.ErrExerciseNotFound)
}

func TestSubmitQuizFirstPassOnlyAwardsOnce(t *testing.T) {
	quiz := quizFixture(5, 20, 4)
	svc, _, subs, profiles := newGradingFixture(nil, quiz)

	// 4 题通过线为 3：答对 2 题不过
	wrong := map[uint]int{quiz.Questions[0].ID: 1, quiz.Questions[1].ID: 1, quiz.Questions[2].ID: 0, quiz.Questions[3].ID: 0}
	failed, err := svc.SubmitQuiz(1, 5, wrong)
	require.NoError(t, err)
	assert.False(t, failed.Passed)
	assert.Equal(t, 2, failed.Score)
	assert.Zero(t, profiles.profile.TotalXP)

	right := map[uint]int{quiz.Questions[0].ID: 1, quiz.Questions[1].ID: 1, quiz.Questions[2].ID: 1, quiz.Questions[3].ID: 1}
	passed, err := svc.SubmitQuiz(1, 5, right)
	require.NoError(t, err)
	assert.True(t, passed.Passed)
	assert.Equal(t, 20, passed.XPEarned)
	assert.Equal(t, 20, profiles.profile.TotalXP)

	again, err := svc.SubmitQuiz(1, 5, right)
	require.NoError(t, err)
	assert.True(t, again.Passed)
	assert.Zero(t, again.XPEarned)
	assert.Equal(t, 20, profiles.profile.TotalXP)
	assert.Len(t, subs.rows, 3)
}

func TestSubmitQuizUnknownQuiz(t *testing.T) {
	svc, _, _, _ := newGradingFixture(nil, nil)
	_, err := svc.SubmitQuiz(1, 99, nil)
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestListExerciseSubmissionsNewestFirst(t *testing.T) {
	svc, _, _, _ := newGradingFixture(exerciseFixture(3, 15), nil)

	_, err := svc.SubmitExercise(1, 3, "first", failingResults())
	require.NoError(t, err)
	_, err = svc.SubmitExercise(1, 3, "second", passingResults())
	require.NoError(t, err)

	history, err := svc.ListExerciseSubmissions(1, 3)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Code)
	assert.Equal(t, "first", history[1].Code)
}
