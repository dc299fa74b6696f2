package repository

import (
	"school_hub_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) CreateSection(section *model.Section) error {
	return r.DB.Create(section).Error
}

func (r *CourseRepository) FindSection(id uint) (*model.Section, error) {
	var section model.Section
	err := r.DB.First(&section, id).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *CourseRepository) CreateLesson(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *CourseRepository) FindLesson(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *CourseRepository) ListSections(courseID uint) ([]model.Section, error) {
	var sections []model.Section
	err := r.DB.Where("course_id = ?", courseID).
		Order("`order` ASC").Find(&sections).Error
	return sections, err
}

func (r *CourseRepository) ListLessonsBySection(sectionID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("section_id = ? AND published = ?", sectionID, true).
		Order("`order` ASC").Find(&lessons).Error
	return lessons, err
}

// CountPublishedLessons 课程进度分母，进度计算只统计已发布课时
func (r *CourseRepository) CountPublishedLessons(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).
		Where("course_id = ? AND published = ?", courseID, true).
		Count(&count).Error
	return count, err
}

func (r *CourseRepository) ListPublished() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("published = ?", true).Order("`order` ASC").Find(&courses).Error
	return courses, err
}
