package service

import (
	"database/sql"
	"testing"
	"time"

	"school_hub_backend/internal/event"
	"school_hub_backend/internal/model"
	"school_hub_backend/internal/repository"
	"school_hub_backend/pkg/monitoring"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeTxRunner 把传入的哨兵 *gorm.DB 透传给回调，记录事务开启次数，
// 用于断言多个写入共享同一个事务句柄
type fakeTxRunner struct {
	tx    *gorm.DB
	calls int
}

func (f *fakeTxRunner) Transaction(fc func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	f.calls++
	return fc(f.tx)
}

type fakeProfileStore struct {
	profile      model.StudentProfile
	lockTx       *gorm.DB
	streakCalled bool
}

func (f *fakeProfileStore) LockByStudent(tx *gorm.DB, studentID uint) (*model.StudentProfile, error) {
	if studentID != f.profile.UserID {
		return nil, gorm.ErrRecordNotFound
	}
	f.lockTx = tx
	snapshot := f.profile
	return &snapshot, nil
}

func (f *fakeProfileStore) AddXP(tx *gorm.DB, studentID uint, amount, newLevel int) error {
	f.profile.TotalXP += amount
	f.profile.CurrentLevel = newLevel
	return nil
}

func (f *fakeProfileStore) AddCurrency(tx *gorm.DB, studentID uint, amount int) error {
	f.profile.CurrencyBalance += amount
	return nil
}

func (f *fakeProfileStore) UpdateStreak(tx *gorm.DB, studentID uint, current, longest int, at time.Time) error {
	f.streakCalled = true
	f.profile.CurrentStreakDays = current
	f.profile.LongestStreak = longest
	f.profile.LastActivityDate = &at
	return nil
}

type fakeLedgerStore struct {
	rows      []model.XpTransaction
	appendTx  *gorm.DB
	appendErr error
}

func (f *fakeLedgerStore) Append(tx *gorm.DB, txn *model.XpTransaction) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appendTx = tx
	f.rows = append(f.rows, *txn)
	return nil
}

func (f *fakeLedgerStore) Trim(tx *gorm.DB, studentID uint) error {
	if over := len(f.rows) - repository.XPHistoryLimit; over > 0 {
		f.rows = f.rows[over:]
	}
	return nil
}

func studentWithXP(studentID uint, totalXP int) model.StudentProfile {
	return model.StudentProfile{
		UserID:       studentID,
		TotalXP:      totalXP,
		CurrentLevel: LevelForXP(totalXP),
	}
}

func newXpFixture(profile model.StudentProfile) (*XpService, *fakeProfileStore, *fakeLedgerStore, *fakeTxRunner) {
	profiles := &fakeProfileStore{profile: profile}
	ledger := &fakeLedgerStore{}
	runner := &fakeTxRunner{tx: &gorm.DB{}}
	return NewXpService(profiles, ledger, event.NewBus(), runner), profiles, ledger, runner
}

func TestAwardXPAppendsLedgerAndRaisesTotals(t *testing.T) {
	svc, profiles, ledger, _ := newXpFixture(studentWithXP(1, 0))

	var got event.Event
	svc.Bus.Subscribe(event.XPAwarded, func(e event.Event) { got = e })

	require.NoError(t, svc.AwardXP(1, 150, model.XPSourceLesson, nil))

	assert.Equal(t, 150, profiles.profile.TotalXP)
	assert.Equal(t, 2, profiles.profile.CurrentLevel)
	require.Len(t, ledger.rows, 1)
	assert.Equal(t, 150, ledger.rows[0].Amount)
	assert.Equal(t, model.XPSourceLesson, ledger.rows[0].Source)
	assert.Equal(t, event.XPAwarded, got.Type)
	assert.Equal(t, 150, got.Amount)
}

func TestAwardXPNonPositiveIsNoop(t *testing.T) {
	svc, profiles, ledger, runner := newXpFixture(studentWithXP(1, 200))

	require.NoError(t, svc.AwardXP(1, 0, model.XPSourceManual, nil))
	require.NoError(t, svc.AwardXP(1, -5, model.XPSourceManual, nil))

	assert.Equal(t, 200, profiles.profile.TotalXP)
	assert.Empty(t, ledger.rows)
	assert.Zero(t, runner.calls)
}

func TestAwardXPUnknownStudent(t *testing.T) {
	svc, _, _, _ := newXpFixture(studentWithXP(1, 0))
	assert.Error(t, svc.AwardXP(42, 10, model.XPSourceLesson, nil))
}

func TestAwardXPLevelUpGrantsCurrency(t *testing.T) {
	// 90 XP 为 1 级；+310 到 400 XP 跨到 3 级，两级货币奖励
	svc, profiles, _, _ := newXpFixture(studentWithXP(1, 90))

	require.NoError(t, svc.AwardXP(1, 310, model.XPSourceQuiz, nil))

	assert.Equal(t, 3, profiles.profile.CurrentLevel)
	assert.Equal(t, 2*levelUpCoins, profiles.profile.CurrencyBalance)
}

func TestAwardXPNoActivityLeavesStreak(t *testing.T) {
	svc, profiles, _, _ := newXpFixture(studentWithXP(1, 0))

	require.NoError(t, svc.AwardXPNoActivity(1, 25, model.XPSourceManual+": 补发", nil))

	assert.False(t, profiles.streakCalled)
	assert.Equal(t, 25, profiles.profile.TotalXP)
}

func TestAwardXPHistoryKeepsNewestHundred(t *testing.T) {
	svc, _, ledger, _ := newXpFixture(studentWithXP(1, 0))

	for i := 0; i < 105; i++ {
		sourceID := uint(i + 1)
		require.NoError(t, svc.AwardXP(1, 10, model.XPSourceExercise, &sourceID))
	}

	require.Len(t, ledger.rows, repository.XPHistoryLimit)
	// 淘汰最旧：第 6 次发放成为最早保留的条目
	assert.Equal(t, uint(6), *ledger.rows[0].SourceID)
	assert.Equal(t, uint(105), *ledger.rows[99].SourceID)
}

func TestAwardXPMetricLabelIsBoundedCategory(t *testing.T) {
	svc, _, _, _ := newXpFixture(studentWithXP(1, 0))

	freeText := model.XPSourceExercise + ": Hello World 第一关"
	before := testutil.ToFloat64(monitoring.XPAwardsTotal.WithLabelValues(model.XPSourceExercise))

	require.NoError(t, svc.AwardXP(1, 15, freeText, nil))

	after := testutil.ToFloat64(monitoring.XPAwardsTotal.WithLabelValues(model.XPSourceExercise))
	assert.Equal(t, before+1, after)
	// 自由文本不能成为标签值，否则标签基数随题目数量无限增长
	assert.Zero(t, testutil.ToFloat64(monitoring.XPAwardsTotal.WithLabelValues(freeText)))
}

func TestSourceCategory(t *testing.T) {
	assert.Equal(t, "exercise", sourceCategory("exercise: Hello World"))
	assert.Equal(t, "manual", sourceCategory("manual: 教师补发"))
	assert.Equal(t, "lesson", sourceCategory("lesson"))
}

func TestTouchActivityAdvancesStreak(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	profile := studentWithXP(1, 0)
	profile.CurrentStreakDays = 3
	profile.LongestStreak = 3
	profile.LastActivityDate = &yesterday
	svc, profiles, _, _ := newXpFixture(profile)

	require.NoError(t, svc.TouchActivity(1))

	assert.Equal(t, 4, profiles.profile.CurrentStreakDays)
	assert.Equal(t, 4, profiles.profile.LongestStreak)
}
