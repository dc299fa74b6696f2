package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrInvalidCredentials  = errors.New("邮箱或密码错误")
	ErrUserDisabled        = errors.New("account disabled")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrStudentNotFound     = errors.New("student profile not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrProgressNotFound    = errors.New("lesson progress not found")
	ErrExerciseNotFound    = errors.New("exercise not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrBadgeNotFound       = errors.New("badge not found")
	ErrClassNotFound       = errors.New("class not found")
	ErrInvalidDate         = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrSandboxLimitReached = errors.New("sandbox project limit reached")
)
