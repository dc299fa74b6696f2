package database

import (
	"fmt"
	"log"
	"school_hub_backend/internal/config"
	"school_hub_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.ParentLink{},
		&model.StudentProfile{},
		&model.XpTransaction{},
		&model.Course{},
		&model.Section{},
		&model.Lesson{},
		&model.LessonProgress{},
		&model.Exercise{},
		&model.ExerciseSubmission{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizSubmission{},
		&model.Badge{},
		&model.StudentBadge{},
		&model.Class{},
		&model.ClassCourse{},
		&model.Attendance{},
		&model.SandboxProject{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认徽章目录（首次启动时写入）
	var badgeCount int64
	db.Model(&model.Badge{}).Count(&badgeCount)
	if badgeCount == 0 {
		defaultBadges := []model.Badge{
			{Name: "初来乍到", Description: "首次登录平台", Icon: "badge-login.svg", TriggerType: model.TriggerFirstLogin, Active: true},
			{Name: "开课啦", Description: "完成第一节课", Icon: "badge-lesson.svg", TriggerType: model.TriggerFirstLesson, Active: true},
			{Name: "初试身手", Description: "通过第一道练习", Icon: "badge-exercise.svg", TriggerType: model.TriggerFirstExercise, Active: true},
			{Name: "测验新星", Description: "通过第一次测验", Icon: "badge-quiz.svg", TriggerType: model.TriggerFirstQuiz, Active: true},
			{Name: "创意工坊", Description: "创建第一个沙盒项目", Icon: "badge-sandbox.svg", TriggerType: model.TriggerFirstSandbox, Active: true},
			{Name: "勤学十课", Description: "累计完成 10 节课", Icon: "badge-lessons-10.svg", TriggerType: model.TriggerLessonsCompleted, TriggerValue: 10, Active: true},
			{Name: "练习达人", Description: "累计通过 25 道练习", Icon: "badge-exercises-25.svg", TriggerType: model.TriggerExercisesPassed, TriggerValue: 25, Active: true},
			{Name: "课程毕业生", Description: "完成第一门完整课程", Icon: "badge-course.svg", TriggerType: model.TriggerCoursesFinished, TriggerValue: 1, Active: true},
			{Name: "七日坚持", Description: "连续学习 7 天", Icon: "badge-streak-7.svg", TriggerType: model.TriggerLoginStreak, TriggerValue: 7, Active: true},
			{Name: "三十日传奇", Description: "连续学习 30 天", Icon: "badge-streak-30.svg", TriggerType: model.TriggerLoginStreak, TriggerValue: 30, Active: true},
			{Name: "千分经验", Description: "累计获得 1000 XP", Icon: "badge-xp-1000.svg", TriggerType: model.TriggerXPEarned, TriggerValue: 1000, Active: true},
			{Name: "五级学者", Description: "达到 5 级", Icon: "badge-level-5.svg", TriggerType: model.TriggerLevelReached, TriggerValue: 5, Active: true},
		}
		for _, b := range defaultBadges {
			db.Create(&b)
		}
	}

	return db, nil
}
