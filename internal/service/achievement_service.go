package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"school_hub_backend/internal/model"
	"school_hub_backend/internal/repository"
	"school_hub_backend/internal/util"
	"school_hub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 排行榜缓存时长。榜单容忍短暂滞后，换取热点查询不打到数据库。
const leaderboardTTL = time.Minute

type AchievementService struct {
	ProfileRepo *repository.StudentProfileRepository
	BadgeRepo   *repository.BadgeRepository
	LedgerRepo  *repository.XpTransactionRepository
	UserRepo    *repository.UserRepository
	Redis       *redis.Client
}

func NewAchievementService(
	profileRepo *repository.StudentProfileRepository,
	badgeRepo *repository.BadgeRepository,
	ledgerRepo *repository.XpTransactionRepository,
	userRepo *repository.UserRepository,
	rdb *redis.Client,
) *AchievementService {
	return &AchievementService{
		ProfileRepo: profileRepo,
		BadgeRepo:   badgeRepo,
		LedgerRepo:  ledgerRepo,
		UserRepo:    userRepo,
		Redis:       rdb,
	}
}

// StudentAchievements 成就页快照：徽章 + XP 历史 + 等级/连续天数
type StudentAchievements struct {
	TotalXP           int                   `json:"totalXp"`
	CurrentLevel      int                   `json:"currentLevel"`
	NextLevelXP       int                   `json:"nextLevelXp"`
	CurrentStreakDays int                   `json:"currentStreakDays"`
	LongestStreak     int                   `json:"longestStreak"`
	Badges            []model.StudentBadge  `json:"badges"`
	XPHistory         []model.XpTransaction `json:"xpHistory"`
}

type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	Student string `json:"student"`
	XP      int    `json:"xp"`
	Level   int    `json:"level"`
	Avatar  string `json:"avatar,omitempty"`
}

func (s *AchievementService) GetStudentAchievements(studentID uint) (*StudentAchievements, error) {
	profile, err := s.ProfileRepo.FindByStudent(studentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	badges, err := s.BadgeRepo.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}

	history, err := s.LedgerRepo.ListRecent(studentID, repository.XPHistoryLimit)
	if err != nil {
		return nil, err
	}

	return &StudentAchievements{
		TotalXP:           profile.TotalXP,
		CurrentLevel:      profile.CurrentLevel,
		NextLevelXP:       XPForLevel(profile.CurrentLevel + 1),
		CurrentStreakDays: profile.CurrentStreakDays,
		LongestStreak:     profile.LongestStreak,
		Badges:            badges,
		XPHistory:         history,
	}, nil
}

// GetLeaderboard XP 排行榜，Redis 缓存一分钟
func (s *AchievementService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("leaderboard:xp:%d", limit)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var entries []LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	profiles, err := s.ProfileRepo.FindTopByXP(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(profiles))
	for i, profile := range profiles {
		entry := LeaderboardEntry{
			Rank:  i + 1,
			XP:    profile.TotalXP,
			Level: profile.CurrentLevel,
		}
		if user, err := s.UserRepo.FindByID(profile.UserID); err == nil {
			entry.Student = user.Name
			entry.Avatar = user.Avatar
		}
		entries = append(entries, entry)
	}

	if s.Redis != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, leaderboardTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}
	return entries, nil
}
