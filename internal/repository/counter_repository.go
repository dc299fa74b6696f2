package repository

import (
	"school_hub_backend/internal/model"

	"gorm.io/gorm"
)

// StudentCounters 徽章阈值评估用的聚合计数快照
type StudentCounters struct {
	LessonsCompleted int64
	ExercisesPassed  int64
	QuizzesPassed    int64
	CoursesFinished  int64
	LoginStreak      int
	TotalXP          int
	CurrentLevel     int
}

// CounterRepository 汇总各进度表，为徽章评估提供只读计数
type CounterRepository struct {
	DB *gorm.DB
}

func NewCounterRepository(db *gorm.DB) *CounterRepository {
	return &CounterRepository{DB: db}
}

func (r *CounterRepository) CountersFor(studentID uint) (StudentCounters, error) {
	var counters StudentCounters

	var profile model.StudentProfile
	if err := r.DB.Where("user_id = ?", studentID).First(&profile).Error; err != nil {
		return counters, err
	}
	counters.LoginStreak = profile.CurrentStreakDays
	counters.TotalXP = profile.TotalXP
	counters.CurrentLevel = profile.CurrentLevel

	if err := r.DB.Model(&model.LessonProgress{}).
		Where("student_id = ? AND status = ?", studentID, model.LessonCompleted).
		Count(&counters.LessonsCompleted).Error; err != nil {
		return counters, err
	}

	if err := r.DB.Model(&model.ExerciseSubmission{}).
		Where("student_id = ? AND passed = ?", studentID, true).
		Distinct("exercise_id").
		Count(&counters.ExercisesPassed).Error; err != nil {
		return counters, err
	}

	if err := r.DB.Model(&model.QuizSubmission{}).
		Where("student_id = ? AND passed = ?", studentID, true).
		Distinct("quiz_id").
		Count(&counters.QuizzesPassed).Error; err != nil {
		return counters, err
	}

	finished, err := r.countFinishedCourses(studentID)
	if err != nil {
		return counters, err
	}
	counters.CoursesFinished = finished

	return counters, nil
}

// countFinishedCourses 已发布课时全部完成的课程数。没有已发布课时的课程
// 不计为完成。
func (r *CounterRepository) countFinishedCourses(studentID uint) (int64, error) {
	var count int64
	err := r.DB.Raw(`
		SELECT COUNT(*) FROM (
			SELECT l.course_id
			FROM lessons l
			LEFT JOIN lesson_progresses lp
				ON lp.lesson_id = l.id AND lp.student_id = ? AND lp.status = ?
			WHERE l.published = 1 AND l.deleted_at IS NULL
			GROUP BY l.course_id
			HAVING COUNT(*) = COUNT(lp.id)
		) finished`, studentID, model.LessonCompleted).
		Scan(&count).Error
	return count, err
}
