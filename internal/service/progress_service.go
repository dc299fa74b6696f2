package service

import (
	"math"
	"time"

	"school_hub_backend/internal/event"
	"school_hub_backend/internal/model"
	"school_hub_backend/internal/repository"
	"school_hub_backend/internal/util"

	"gorm.io/gorm"
)

// 课程目录与进度存储的窄接口，状态机可脱离数据库测试
type LessonCatalog interface {
	FindLesson(id uint) (*model.Lesson, error)
	FindByID(id uint) (*model.Course, error)
	CountPublishedLessons(courseID uint) (int64, error)
}

type ProgressStore interface {
	FindByStudentAndLesson(studentID, lessonID uint) (*model.LessonProgress, error)
	CreateIfAbsent(tx *gorm.DB, progress *model.LessonProgress) (*model.LessonProgress, bool, error)
	MarkCompleted(tx *gorm.DB, studentID, lessonID uint, xpEarned int, at time.Time) (bool, error)
	AddTimeSpent(studentID, lessonID uint, deltaSeconds int) error
	CountCompletedInCourse(studentID, courseID uint) (int64, error)
	ListByStudentAndCourse(studentID, courseID uint) ([]model.LessonProgress, error)
}

// ProgressService 课时进度状态机：无记录 → in_progress → completed（终态）。
// completed 之后不回退，XP 不重复发放。
type ProgressService struct {
	CourseRepo   LessonCatalog
	ProgressRepo ProgressStore
	Xp           *XpService
	Bus          *event.Bus
	DB           TxRunner
}

func NewProgressService(
	courseRepo LessonCatalog,
	progressRepo ProgressStore,
	xp *XpService,
	bus *event.Bus,
	db TxRunner,
) *ProgressService {
	return &ProgressService{
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		Xp:           xp,
		Bus:          bus,
		DB:           db,
	}
}

// CompleteLessonResult completeLesson 的返回，XPEarned 为本次实际发放数额
type CompleteLessonResult struct {
	Progress *model.LessonProgress `json:"progress"`
	XPEarned int                   `json:"xpEarned"`
}

// StartLesson 幂等：已有记录时原样返回，否则创建 in_progress 记录。
// 副作用：推进学生最近活跃时间。
func (s *ProgressService) StartLesson(lessonID, studentID uint) (*model.LessonProgress, error) {
	if _, err := s.CourseRepo.FindLesson(lessonID); err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	var progress *model.LessonProgress
	var created bool
	now := time.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		progress, created, err = s.ProgressRepo.CreateIfAbsent(tx, &model.LessonProgress{
			StudentID: studentID,
			LessonID:  lessonID,
			Status:    model.LessonInProgress,
			StartedAt: now,
		})
		if err != nil {
			return err
		}
		return s.Xp.touchInTx(tx, studentID, now)
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.Bus.Publish(event.Event{Type: event.LessonStarted, StudentID: studentID, SourceID: lessonID})
	}
	return progress, nil
}

// CompleteLesson 完成课时。重复调用不再发 XP，第二次起返回 XPEarned = 0。
// 状态转移与账本写入在同一事务内：发放失败时课时不会停在已完成未计账的状态。
func (s *ProgressService) CompleteLesson(lessonID, studentID uint) (*CompleteLessonResult, error) {
	lesson, err := s.CourseRepo.FindLesson(lessonID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	now := time.Now()
	xpEarned := 0
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		transitioned, err := s.ProgressRepo.MarkCompleted(tx, studentID, lessonID, lesson.XPReward, now)
		if err != nil {
			return err
		}

		if !transitioned {
			// 要么已 completed（无操作），要么记录不存在（直接以完成态创建）
			_, err := s.ProgressRepo.FindByStudentAndLesson(studentID, lessonID)
			if err == nil {
				return nil
			}
			if !repository.IsNotFound(err) {
				return err
			}

			created, fresh, err := s.ProgressRepo.CreateIfAbsent(tx, &model.LessonProgress{
				StudentID:   studentID,
				LessonID:    lessonID,
				Status:      model.LessonCompleted,
				StartedAt:   now,
				CompletedAt: &now,
				XPEarned:    lesson.XPReward,
			})
			if err != nil {
				return err
			}
			if !fresh && created.Status != model.LessonCompleted {
				// 输掉创建竞争且对方还在 in_progress，重走条件更新
				transitioned, err = s.ProgressRepo.MarkCompleted(tx, studentID, lessonID, lesson.XPReward, now)
				if err != nil {
					return err
				}
				if !transitioned {
					return nil
				}
			}
		}

		xpEarned = lesson.XPReward
		sourceID := lesson.ID
		return s.Xp.awardInTx(tx, studentID, lesson.XPReward, model.XPSourceLesson, &sourceID, true, now)
	})
	if err != nil {
		return nil, err
	}

	if xpEarned > 0 {
		s.Xp.noteAward(studentID, xpEarned, model.XPSourceLesson, now)
		s.Bus.Publish(event.Event{Type: event.LessonCompleted, StudentID: studentID, SourceID: lessonID})
	}

	progress, err := s.ProgressRepo.FindByStudentAndLesson(studentID, lessonID)
	if err != nil {
		return nil, err
	}
	return &CompleteLessonResult{Progress: progress, XPEarned: xpEarned}, nil
}

// UpdateTimeSpent 累加学习时长。没有进度记录时返回 NotFound。
func (s *ProgressService) UpdateTimeSpent(lessonID, studentID uint, deltaSeconds int) error {
	if deltaSeconds <= 0 {
		return nil
	}
	err := s.ProgressRepo.AddTimeSpent(studentID, lessonID, deltaSeconds)
	if repository.IsNotFound(err) {
		return util.ErrProgressNotFound
	}
	return err
}

// GetLessonProgress 无记录时合成 not_started 视图而不是报错
func (s *ProgressService) GetLessonProgress(lessonID, studentID uint) (*model.LessonProgress, error) {
	progress, err := s.ProgressRepo.FindByStudentAndLesson(studentID, lessonID)
	if err == nil {
		return progress, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}
	if _, err := s.CourseRepo.FindLesson(lessonID); err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return &model.LessonProgress{
		StudentID: studentID,
		LessonID:  lessonID,
		Status:    model.LessonNotStarted,
	}, nil
}

// GetStudentCourseProgress 学生在某课程的完成百分比。
// 课程没有已发布课时时返回 0，不除零。
func (s *ProgressService) GetStudentCourseProgress(studentID, courseID uint) (int, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if repository.IsNotFound(err) {
			return 0, util.ErrCourseNotFound
		}
		return 0, err
	}

	total, err := s.CourseRepo.CountPublishedLessons(courseID)
	if err != nil {
		return 0, err
	}
	completed, err := s.ProgressRepo.CountCompletedInCourse(studentID, courseID)
	if err != nil {
		return 0, err
	}
	return coursePercent(completed, total), nil
}

// CourseProgressDetail 课程维度进度：总百分比 + 每课时的进度记录
type CourseProgressDetail struct {
	CourseID uint                   `json:"courseId"`
	Percent  int                    `json:"percent"`
	Lessons  []model.LessonProgress `json:"lessons"`
}

// GetStudentCourseProgressDetail 含课时明细的课程进度
func (s *ProgressService) GetStudentCourseProgressDetail(studentID, courseID uint) (*CourseProgressDetail, error) {
	percent, err := s.GetStudentCourseProgress(studentID, courseID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.ProgressRepo.ListByStudentAndCourse(studentID, courseID)
	if err != nil {
		return nil, err
	}
	return &CourseProgressDetail{CourseID: courseID, Percent: percent, Lessons: lessons}, nil
}

// coursePercent completed/total 取整百分比，分母为零时为 0
func coursePercent(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
