package repository

import (
	"school_hub_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type LessonProgressRepository struct {
	DB *gorm.DB
}

func NewLessonProgressRepository(db *gorm.DB) *LessonProgressRepository {
	return &LessonProgressRepository{DB: db}
}

func (r *LessonProgressRepository) FindByStudentAndLesson(studentID, lessonID uint) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := r.DB.Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// CreateIfAbsent 并发下两个 startLesson 同时到达时，输掉唯一索引竞争的一方
// 改为返回已存在的记录。
func (r *LessonProgressRepository) CreateIfAbsent(tx *gorm.DB, progress *model.LessonProgress) (*model.LessonProgress, bool, error) {
	err := tx.Create(progress).Error
	if err == nil {
		return progress, true, nil
	}
	if !isDuplicateKey(err) {
		return nil, false, err
	}
	var existing model.LessonProgress
	err = tx.Where("student_id = ? AND lesson_id = ?", progress.StudentID, progress.LessonID).
		First(&existing).Error
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

// MarkCompleted 条件更新：仅当记录尚未 completed 时生效。返回是否真的发生了
// 状态转移——两个并发 completeLesson 只有一个拿到 true，XP 只发一次。
func (r *LessonProgressRepository) MarkCompleted(tx *gorm.DB, studentID, lessonID uint, xpEarned int, at time.Time) (bool, error) {
	res := tx.Model(&model.LessonProgress{}).
		Where("student_id = ? AND lesson_id = ? AND status <> ?", studentID, lessonID, model.LessonCompleted).
		Updates(map[string]interface{}{
			"status":       model.LessonCompleted,
			"completed_at": at,
			"xp_earned":    xpEarned,
		})
	return res.RowsAffected > 0, res.Error
}

// AddTimeSpent 原子累加。记录不存在时返回 gorm.ErrRecordNotFound。
func (r *LessonProgressRepository) AddTimeSpent(studentID, lessonID uint, deltaSeconds int) error {
	res := r.DB.Model(&model.LessonProgress{}).
		Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		Update("time_spent_seconds", gorm.Expr("time_spent_seconds + ?", deltaSeconds))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LessonProgressRepository) CountCompletedByStudent(studentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonProgress{}).
		Where("student_id = ? AND status = ?", studentID, model.LessonCompleted).
		Count(&count).Error
	return count, err
}

// CountCompletedInCourse 课程进度分子，只统计已发布课时
func (r *LessonProgressRepository) CountCompletedInCourse(studentID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Where("lesson_progresses.student_id = ? AND lesson_progresses.status = ?", studentID, model.LessonCompleted).
		Where("lessons.course_id = ? AND lessons.published = ?", courseID, true).
		Count(&count).Error
	return count, err
}

func (r *LessonProgressRepository) ListByStudentAndCourse(studentID, courseID uint) ([]model.LessonProgress, error) {
	var progresses []model.LessonProgress
	err := r.DB.
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Where("lesson_progresses.student_id = ? AND lessons.course_id = ?", studentID, courseID).
		Find(&progresses).Error
	return progresses, err
}

// SumTimeSpentByStudent 学生累计学习时长（秒）
func (r *LessonProgressRepository) SumTimeSpentByStudent(studentID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.LessonProgress{}).
		Where("student_id = ?", studentID).
		Select("COALESCE(SUM(time_spent_seconds), 0)").
		Scan(&total).Error
	return total, err
}
