package service

import (
	"math"
	"time"

	"school_hub_backend/internal/model"
	"school_hub_backend/internal/repository"
	"school_hub_backend/internal/util"
)

// 出勤率统计的滚动窗口
const attendanceWindowDays = 30

// NoActivity 班级内所有学生都没有活跃记录时的占位值
const NoActivity = "No activity"

// 聚合只依赖只读仓库接口，避免跨模块环依赖，也便于测试
type ClassReader interface {
	FindByID(id uint) (*model.Class, error)
	ListCourses(classID uint) ([]model.Course, error)
}

type ProfileReader interface {
	FindByStudent(studentID uint) (*model.StudentProfile, error)
	ListByClass(classID uint) ([]model.StudentProfile, error)
}

type AttendanceReader interface {
	CountByClassSince(classID uint, since time.Time) (repository.StatusCounts, error)
}

type LessonReader interface {
	CountPublishedLessons(courseID uint) (int64, error)
}

type ProgressReader interface {
	CountCompletedInCourse(studentID, courseID uint) (int64, error)
	CountCompletedByStudent(studentID uint) (int64, error)
	SumTimeSpentByStudent(studentID uint) (int64, error)
}

// StatsService 班级/课程维度的进度汇总。所有输出在数据缺失时退化为
// 零值默认（0 / "No activity"），不报错——空班级的仪表盘也要能渲染。
type StatsService struct {
	Classes    ClassReader
	Profiles   ProfileReader
	Attendance AttendanceReader
	Lessons    LessonReader
	Progress   ProgressReader
}

func NewStatsService(
	classes ClassReader,
	profiles ProfileReader,
	attendance AttendanceReader,
	lessons LessonReader,
	progress ProgressReader,
) *StatsService {
	return &StatsService{
		Classes:    classes,
		Profiles:   profiles,
		Attendance: attendance,
		Lessons:    lessons,
		Progress:   progress,
	}
}

// ClassStats 班级仪表盘数据
type ClassStats struct {
	ClassID         uint   `json:"classId"`
	StudentCount    int    `json:"studentCount"`
	AverageProgress int    `json:"averageProgress"` // 百分比
	AttendanceRate  int    `json:"attendanceRate"`  // 百分比，近30天
	AverageXP       int    `json:"averageXp"`
	LastActivity    string `json:"lastActivity"`
}

// CourseProgress 单课程的完成度
type CourseProgress struct {
	Course   model.Course `json:"course"`
	Progress int          `json:"progress"` // 百分比
}

// StudentProgressSummary 学生维度的进度总览
type StudentProgressSummary struct {
	StudentID         uint             `json:"studentId"`
	TotalXP           int              `json:"totalXp"`
	CurrentLevel      int              `json:"currentLevel"`
	NextLevelXP       int              `json:"nextLevelXp"`
	ProgressToNext    int              `json:"progressToNext"`
	CurrentStreakDays int              `json:"currentStreakDays"`
	LongestStreak     int              `json:"longestStreak"`
	LessonsCompleted  int64            `json:"lessonsCompleted"`
	TimeSpentSeconds  int64            `json:"timeSpentSeconds"`
	Courses           []CourseProgress `json:"courses"`
}

// ComputeClassStats 汇总班级进度、出勤率与最近活跃。
// 读的是最终一致的快照，与写入方并发执行不加锁。
func (s *StatsService) ComputeClassStats(classID uint) (*ClassStats, error) {
	class, err := s.Classes.FindByID(classID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}

	stats := &ClassStats{ClassID: class.ID, LastActivity: NoActivity}

	students, err := s.Profiles.ListByClass(classID)
	if err != nil {
		return nil, err
	}
	stats.StudentCount = len(students)

	if len(students) > 0 {
		courses, err := s.Classes.ListCourses(classID)
		if err != nil {
			return nil, err
		}

		totalPct := 0
		totalXP := 0
		var lastActivity *time.Time
		for _, student := range students {
			pct, err := s.studentAverageAcrossCourses(student.UserID, courses)
			if err != nil {
				return nil, err
			}
			totalPct += pct
			totalXP += student.TotalXP
			if student.LastActivityDate != nil &&
				(lastActivity == nil || student.LastActivityDate.After(*lastActivity)) {
				lastActivity = student.LastActivityDate
			}
		}
		stats.AverageProgress = int(math.Round(float64(totalPct) / float64(len(students))))
		stats.AverageXP = int(math.Round(float64(totalXP) / float64(len(students))))
		if lastActivity != nil {
			stats.LastActivity = lastActivity.Format(time.RFC3339)
		}
	}

	since := time.Now().AddDate(0, 0, -attendanceWindowDays)
	counts, err := s.Attendance.CountByClassSince(classID, since)
	if err != nil {
		return nil, err
	}
	stats.AttendanceRate = attendanceRate(counts)

	return stats, nil
}

// GetClassCoursesWithProgress 班级课程列表，每门课附全班平均完成度
func (s *StatsService) GetClassCoursesWithProgress(classID uint) ([]CourseProgress, error) {
	if _, err := s.Classes.FindByID(classID); err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}

	courses, err := s.Classes.ListCourses(classID)
	if err != nil {
		return nil, err
	}
	students, err := s.Profiles.ListByClass(classID)
	if err != nil {
		return nil, err
	}

	result := make([]CourseProgress, 0, len(courses))
	for _, course := range courses {
		pct := 0
		if len(students) > 0 {
			sum := 0
			for _, student := range students {
				p, err := s.studentCoursePercent(student.UserID, course.ID)
				if err != nil {
					return nil, err
				}
				sum += p
			}
			pct = int(math.Round(float64(sum) / float64(len(students))))
		}
		result = append(result, CourseProgress{Course: course, Progress: pct})
	}
	return result, nil
}

// GetStudentProgressSummary 学生进度总览（个人仪表盘）
func (s *StatsService) GetStudentProgressSummary(studentID uint) (*StudentProgressSummary, error) {
	profile, err := s.Profiles.FindByStudent(studentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	summary := &StudentProgressSummary{
		StudentID:         studentID,
		TotalXP:           profile.TotalXP,
		CurrentLevel:      profile.CurrentLevel,
		NextLevelXP:       XPForLevel(profile.CurrentLevel + 1),
		ProgressToNext:    ProgressToNextLevel(profile.TotalXP),
		CurrentStreakDays: profile.CurrentStreakDays,
		LongestStreak:     profile.LongestStreak,
		Courses:           []CourseProgress{},
	}

	summary.LessonsCompleted, err = s.Progress.CountCompletedByStudent(studentID)
	if err != nil {
		return nil, err
	}
	summary.TimeSpentSeconds, err = s.Progress.SumTimeSpentByStudent(studentID)
	if err != nil {
		return nil, err
	}

	if profile.ClassID != nil {
		courses, err := s.Classes.ListCourses(*profile.ClassID)
		if err != nil {
			return nil, err
		}
		for _, course := range courses {
			pct, err := s.studentCoursePercent(studentID, course.ID)
			if err != nil {
				return nil, err
			}
			summary.Courses = append(summary.Courses, CourseProgress{Course: course, Progress: pct})
		}
	}

	return summary, nil
}

func (s *StatsService) studentCoursePercent(studentID, courseID uint) (int, error) {
	total, err := s.Lessons.CountPublishedLessons(courseID)
	if err != nil {
		return 0, err
	}
	completed, err := s.Progress.CountCompletedInCourse(studentID, courseID)
	if err != nil {
		return 0, err
	}
	return coursePercent(completed, total), nil
}

// studentAverageAcrossCourses 学生在班级全部课程上的平均完成度，无课程为 0
func (s *StatsService) studentAverageAcrossCourses(studentID uint, courses []model.Course) (int, error) {
	if len(courses) == 0 {
		return 0, nil
	}
	sum := 0
	for _, course := range courses {
		pct, err := s.studentCoursePercent(studentID, course.ID)
		if err != nil {
			return 0, err
		}
		sum += pct
	}
	return int(math.Round(float64(sum) / float64(len(courses)))), nil
}

// attendanceRate (present + late) / 全部记录，窗口内无记录时为 0
func attendanceRate(counts repository.StatusCounts) int {
	total := counts.Total()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(counts.Present+counts.Late) / float64(total) * 100))
}
