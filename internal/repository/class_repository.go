package repository

import (
	"school_hub_backend/internal/model"

	"gorm.io/gorm"
)

type ClassRepository struct {
	DB *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{DB: db}
}

func (r *ClassRepository) Create(class *model.Class) error {
	return r.DB.Create(class).Error
}

func (r *ClassRepository) FindByID(id uint) (*model.Class, error) {
	var class model.Class
	err := r.DB.First(&class, id).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

// AssignCourse 班级绑定课程，重复绑定视为无操作
func (r *ClassRepository) AssignCourse(classID, courseID uint) error {
	cc := &model.ClassCourse{ClassID: classID, CourseID: courseID}
	err := r.DB.Create(cc).Error
	if err != nil && isDuplicateKey(err) {
		return nil
	}
	return err
}

func (r *ClassRepository) ListCourses(classID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Joins("JOIN class_courses ON class_courses.course_id = courses.id").
		Where("class_courses.class_id = ?", classID).
		Find(&courses).Error
	return courses, err
}
