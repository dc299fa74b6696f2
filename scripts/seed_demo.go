// 演示数据初始化脚本
//
// 建库迁移与默认徽章目录由主应用启动时完成；此脚本在其之上写入
// 一套演示用的课程/班级/账号，用于本地联调和前端演示环境。
//
// 用法: go run scripts/seed_demo.go

package main

import (
	"encoding/json"
	"log"
	"os"

	"school_hub_backend/internal/config"
	"school_hub_backend/internal/model"
	"school_hub_backend/pkg/database"
	"school_hub_backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	var count int64
	db.Model(&model.Course{}).Count(&count)
	if count > 0 {
		log.Println("已存在课程数据，跳过演示数据写入")
		return
	}

	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	teacher := &model.User{Name: "演示教师", Email: "teacher@example.com", Password: string(password), Role: model.Teacher}
	db.Create(teacher)

	student := &model.User{Name: "演示学生", Email: "student@example.com", Password: string(password), Role: model.Student}
	db.Create(student)
	db.Create(&model.StudentProfile{UserID: student.ID, CurrentLevel: 1})

	class := &model.Class{Name: "三年级一班", Grade: "3", TeacherID: teacher.ID}
	db.Create(class)
	db.Model(&model.StudentProfile{}).Where("user_id = ?", student.ID).Update("class_id", class.ID)

	course := &model.Course{Title: "Python 入门", Description: "从零开始的编程课", Published: true}
	db.Create(course)
	db.Create(&model.ClassCourse{ClassID: class.ID, CourseID: course.ID})

	section := &model.Section{CourseID: course.ID, Title: "第一章 认识程序", Order: 1}
	db.Create(section)

	lessons := []model.Lesson{
		{SectionID: section.ID, CourseID: course.ID, Title: "什么是程序", XPReward: 10, Published: true, Order: 1},
		{SectionID: section.ID, CourseID: course.ID, Title: "第一行代码", XPReward: 10, Published: true, Order: 2},
		{SectionID: section.ID, CourseID: course.ID, Title: "变量与赋值", XPReward: 15, Published: true, Order: 3},
	}
	for i := range lessons {
		db.Create(&lessons[i])
	}

	db.Create(&model.Exercise{
		CourseID:  course.ID,
		LessonID:  &lessons[1].ID,
		Title:     "打印你好",
		Prompt:    "编写程序输出 Hello, world!",
		XPReward:  15,
		Published: true,
	})

	options, _ := json.Marshal([]string{"一组指令", "一台机器", "一张图片", "一个文件夹"})
	quiz := &model.Quiz{
		CourseID:  course.ID,
		LessonID:  &lessons[0].ID,
		Title:     "第一章小测",
		XPReward:  20,
		Published: true,
		Questions: []model.QuizQuestion{
			{Text: "程序是什么？", Options: options, CorrectOption: 0, Order: 0},
		},
	}
	db.Create(quiz)

	log.Println("演示数据写入完成")
}
