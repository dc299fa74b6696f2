package service

import (
	"database/sql"
	"strings"
	"time"

	"school_hub_backend/internal/event"
	"school_hub_backend/internal/model"
	"school_hub_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// 账本与档案的窄接口，发放路径可脱离数据库测试
type ProfileStore interface {
	LockByStudent(tx *gorm.DB, studentID uint) (*model.StudentProfile, error)
	AddXP(tx *gorm.DB, studentID uint, amount, newLevel int) error
	AddCurrency(tx *gorm.DB, studentID uint, amount int) error
	UpdateStreak(tx *gorm.DB, studentID uint, current, longest int, at time.Time) error
}

type LedgerStore interface {
	Append(tx *gorm.DB, txn *model.XpTransaction) error
	Trim(tx *gorm.DB, studentID uint) error
}

// TxRunner *gorm.DB 满足该接口
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// XpService XP 账本。所有经验发放都经过 AwardXP，保证总账单调递增、
// 每笔发放可追溯，且并发发放下不丢更新。
type XpService struct {
	ProfileRepo ProfileStore
	LedgerRepo  LedgerStore
	Bus         *event.Bus
	DB          TxRunner
}

func NewXpService(
	profileRepo ProfileStore,
	ledgerRepo LedgerStore,
	bus *event.Bus,
	db TxRunner,
) *XpService {
	return &XpService{
		ProfileRepo: profileRepo,
		LedgerRepo:  ledgerRepo,
		Bus:         bus,
		DB:          db,
	}
}

// AwardXP 发放经验并推进最近活跃/连续天数。amount <= 0 时静默跳过。
func (s *XpService) AwardXP(studentID uint, amount int, source string, sourceID *uint) error {
	return s.awardXP(studentID, amount, source, sourceID, true)
}

// AwardXPNoActivity 发放经验但不触碰 lastActivityDate（补发、后台任务用）
func (s *XpService) AwardXPNoActivity(studentID uint, amount int, source string, sourceID *uint) error {
	return s.awardXP(studentID, amount, source, sourceID, false)
}

func (s *XpService) awardXP(studentID uint, amount int, source string, sourceID *uint, touchActivity bool) error {
	if amount <= 0 {
		return nil
	}

	now := time.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.awardInTx(tx, studentID, amount, source, sourceID, touchActivity, now)
	})
	if err != nil {
		return err
	}

	s.noteAward(studentID, amount, source, now)
	return nil
}

// awardInTx 账本写入，调用方负责事务边界；提交后再调 noteAward
func (s *XpService) awardInTx(tx *gorm.DB, studentID uint, amount int, source string, sourceID *uint, touchActivity bool, now time.Time) error {
	// 行锁下读旧值：连续天数要对比覆盖前的 lastActivityDate
	profile, err := s.ProfileRepo.LockByStudent(tx, studentID)
	if err != nil {
		return err
	}

	txn := &model.XpTransaction{
		StudentID: studentID,
		Amount:    amount,
		Source:    source,
		SourceID:  sourceID,
		EarnedAt:  now,
	}
	if err := s.LedgerRepo.Append(tx, txn); err != nil {
		return err
	}
	if err := s.LedgerRepo.Trim(tx, studentID); err != nil {
		return err
	}

	newLevel := LevelForXP(profile.TotalXP + amount)
	if err := s.ProfileRepo.AddXP(tx, studentID, amount, newLevel); err != nil {
		return err
	}
	// 升级发放货币奖励，跨级时按级数累计
	if newLevel > profile.CurrentLevel {
		coins := (newLevel - profile.CurrentLevel) * levelUpCoins
		if err := s.ProfileRepo.AddCurrency(tx, studentID, coins); err != nil {
			return err
		}
	}

	if touchActivity {
		current, longest := nextStreak(profile.LastActivityDate, now,
			profile.CurrentStreakDays, profile.LongestStreak)
		if err := s.ProfileRepo.UpdateStreak(tx, studentID, current, longest, now); err != nil {
			return err
		}
	}
	return nil
}

// noteAward 指标与事件，事务提交后发布
func (s *XpService) noteAward(studentID uint, amount int, source string, at time.Time) {
	monitoring.XPAwardsTotal.WithLabelValues(sourceCategory(source)).Inc()
	s.Bus.Publish(event.Event{
		Type:       event.XPAwarded,
		StudentID:  studentID,
		Amount:     amount,
		OccurredAt: at,
	})
}

// sourceCategory 指标标签只用有界的来源类别（lesson/exercise/quiz/manual...），
// 标题、事由等自由文本只进账本，不进时间序列
func sourceCategory(source string) string {
	if i := strings.IndexByte(source, ':'); i >= 0 {
		return source[:i]
	}
	return source
}

// TouchActivity 只推进最近活跃与连续天数，不发经验（登录、开始课时等）
func (s *XpService) TouchActivity(studentID uint) error {
	now := time.Now()
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.touchInTx(tx, studentID, now)
	})
}

func (s *XpService) touchInTx(tx *gorm.DB, studentID uint, now time.Time) error {
	profile, err := s.ProfileRepo.LockByStudent(tx, studentID)
	if err != nil {
		return err
	}
	current, longest := nextStreak(profile.LastActivityDate, now,
		profile.CurrentStreakDays, profile.LongestStreak)
	return s.ProfileRepo.UpdateStreak(tx, studentID, current, longest, now)
}
