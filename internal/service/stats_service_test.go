package service

import (
	"testing"
	"time"

	"school_hub_backend/internal/model"
	"school_hub_backend/internal/repository"
	"school_hub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeClasses struct {
	classes map[uint]*model.Class
	courses map[uint][]model.Course
}

func (f *fakeClasses) FindByID(id uint) (*model.Class, error) {
	if c, ok := f.classes[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClasses) ListCourses(classID uint) ([]model.Course, error) {
	return f.courses[classID], nil
}

type fakeProfiles struct {
	byStudent map[uint]*model.StudentProfile
	byClass   map[uint][]model.StudentProfile
}

func (f *fakeProfiles) FindByStudent(studentID uint) (*model.StudentProfile, error) {
	if p, ok := f.byStudent[studentID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfiles) ListByClass(classID uint) ([]model.StudentProfile, error) {
	return f.byClass[classID], nil
}

type fakeAttendance struct {
	counts repository.StatusCounts
}

func (f *fakeAttendance) CountByClassSince(classID uint, since time.Time) (repository.StatusCounts, error) {
	return f.counts, nil
}

type fakeLessons struct {
	published map[uint]int64
}

func (f *fakeLessons) CountPublishedLessons(courseID uint) (int64, error) {
	return f.published[courseID], nil
}

type fakeProgress struct {
	completedInCourse map[[2]uint]int64 // [studentID, courseID]
	completedTotal    map[uint]int64
	timeSpent         map[uint]int64
}

func (f *fakeProgress) CountCompletedInCourse(studentID, courseID uint) (int64, error) {
	return f.completedInCourse[[2]uint{studentID, courseID}], nil
}

func (f *fakeProgress) CountCompletedByStudent(studentID uint) (int64, error) {
	return f.completedTotal[studentID], nil
}

func (f *fakeProgress) SumTimeSpentByStudent(studentID uint) (int64, error) {
	return f.timeSpent[studentID], nil
}

func newClass(id uint) *model.Class {
	c := &model.Class{Name: "test"}
	c.ID = id
	return c
}

func newCourse(id uint) model.Course {
	c := model.Course{Title: "course"}
	c.ID = id
	return c
}

func profileFor(studentID uint, xp int, lastActivity *time.Time) model.StudentProfile {
	return model.StudentProfile{UserID: studentID, TotalXP: xp, LastActivityDate: lastActivity}
}

func TestComputeClassStatsEmptyClassDefaults(t *testing.T) {
	svc := NewStatsService(
		&fakeClasses{classes: map[uint]*model.Class{1: newClass(1)}},
		&fakeProfiles{},
		&fakeAttendance{},
		&fakeLessons{},
		&fakeProgress{},
	)

	stats, err := svc.ComputeClassStats(1)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.StudentCount)
	assert.Equal(t, 0, stats.AverageProgress)
	assert.Equal(t, 0, stats.AttendanceRate)
	assert.Equal(t, NoActivity, stats.LastActivity)
}

func TestComputeClassStatsAverages(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-48 * time.Hour)

	svc := NewStatsService(
		&fakeClasses{
			classes: map[uint]*model.Class{1: newClass(1)},
			courses: map[uint][]model.Course{1: {newCourse(10)}},
		},
		&fakeProfiles{byClass: map[uint][]model.StudentProfile{1: {
			profileFor(100, 200, &earlier),
			profileFor(101, 400, &now),
		}}},
		&fakeAttendance{counts: repository.StatusCounts{Present: 7, Late: 1, Absent: 2}},
		&fakeLessons{published: map[uint]int64{10: 4}},
		&fakeProgress{completedInCourse: map[[2]uint]int64{
			{100, 10}: 4, // 100%
			{101, 10}: 2, // 50%
		}},
	)

	stats, err := svc.ComputeClassStats(1)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.StudentCount)
	assert.Equal(t, 75, stats.AverageProgress)
	assert.Equal(t, 300, stats.AverageXP)
	assert.Equal(t, 80, stats.AttendanceRate, "(7+1)/10")
	assert.Equal(t, now.Format(time.RFC3339), stats.LastActivity)
}

func TestComputeClassStatsUnknownClass(t *testing.T) {
	svc := NewStatsService(&fakeClasses{}, &fakeProfiles{}, &fakeAttendance{}, &fakeLessons{}, &fakeProgress{})
	_, err := svc.ComputeClassStats(42)
	assert.ErrorIs(t, err, util.ErrClassNotFound)
}

func TestGetClassCoursesWithProgress(t *testing.T) {
	svc := NewStatsService(
		&fakeClasses{
			classes: map[uint]*model.Class{1: newClass(1)},
			courses: map[uint][]model.Course{1: {newCourse(10), newCourse(11)}},
		},
		&fakeProfiles{byClass: map[uint][]model.StudentProfile{1: {
			profileFor(100, 0, nil),
			profileFor(101, 0, nil),
		}}},
		&fakeAttendance{},
		&fakeLessons{published: map[uint]int64{10: 2, 11: 0}},
		&fakeProgress{completedInCourse: map[[2]uint]int64{
			{100, 10}: 2,
			{101, 10}: 0,
		}},
	)

	courses, err := svc.GetClassCoursesWithProgress(1)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, 50, courses[0].Progress)
	assert.Equal(t, 0, courses[1].Progress, "无已发布课时的课程进度为0")
}

func TestGetStudentProgressSummary(t *testing.T) {
	classID := uint(1)
	svc := NewStatsService(
		&fakeClasses{
			classes: map[uint]*model.Class{1: newClass(1)},
			courses: map[uint][]model.Course{1: {newCourse(10)}},
		},
		&fakeProfiles{byStudent: map[uint]*model.StudentProfile{100: {
			UserID:            100,
			ClassID:           &classID,
			TotalXP:           250,
			CurrentLevel:      2,
			CurrentStreakDays: 3,
			LongestStreak:     5,
		}}},
		&fakeAttendance{},
		&fakeLessons{published: map[uint]int64{10: 4}},
		&fakeProgress{
			completedInCourse: map[[2]uint]int64{{100, 10}: 1},
			completedTotal:    map[uint]int64{100: 6},
			timeSpent:         map[uint]int64{100: 5400},
		},
	)

	summary, err := svc.GetStudentProgressSummary(100)
	require.NoError(t, err)
	assert.Equal(t, 250, summary.TotalXP)
	assert.Equal(t, 2, summary.CurrentLevel)
	assert.Equal(t, 400, summary.NextLevelXP)
	assert.Equal(t, int64(6), summary.LessonsCompleted)
	assert.Equal(t, int64(5400), summary.TimeSpentSeconds)
	require.Len(t, summary.Courses, 1)
	assert.Equal(t, 25, summary.Courses[0].Progress)
}

func TestGetStudentProgressSummaryUnknownStudent(t *testing.T) {
	svc := NewStatsService(&fakeClasses{}, &fakeProfiles{}, &fakeAttendance{}, &fakeLessons{}, &fakeProgress{})
	_, err := svc.GetStudentProgressSummary(9)
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestAttendanceRate(t *testing.T) {
	assert.Equal(t, 0, attendanceRate(repository.StatusCounts{}), "窗口内无记录时为0")
	assert.Equal(t, 100, attendanceRate(repository.StatusCounts{Present: 5}))
	assert.Equal(t, 75, attendanceRate(repository.StatusCounts{Present: 2, Late: 1, Absent: 1}))
	assert.Equal(t, 50, attendanceRate(repository.StatusCounts{Present: 1, Excused: 1}))
}
