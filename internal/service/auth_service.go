package service

import (
	"school_hub_backend/internal/config"
	"school_hub_backend/internal/event"
	"school_hub_backend/internal/model"
	"school_hub_backend/internal/repository"
	"school_hub_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	UserRepo    *repository.UserRepository
	ProfileRepo *repository.StudentProfileRepository
	Xp          *XpService
	Bus         *event.Bus
	Config      *config.Config
}

func NewAuthService(
	userRepo *repository.UserRepository,
	profileRepo *repository.StudentProfileRepository,
	xp *XpService,
	bus *event.Bus,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		UserRepo:    userRepo,
		ProfileRepo: profileRepo,
		Xp:          xp,
		Bus:         bus,
		Config:      cfg,
	}
}

type RegisterRequest struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=6"`
	Role     model.UserRole `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register 创建用户。学生用户同时创建档案（档案随学生创建，从不删除）。
func (s *AuthService) Register(req RegisterRequest) (*model.User, error) {
	if _, err := s.UserRepo.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.Student
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}

	if role == model.Student {
		if err := s.ProfileRepo.Create(&model.StudentProfile{UserID: user.ID, CurrentLevel: 1}); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Login 校验口令并签发 JWT。学生登录记为一次活动：推进连续天数，
// 并发布登录事件供 first_login / login_streak 类徽章评估。
func (s *AuthService) Login(req LoginRequest) (*LoginResponse, error) {
	user, err := s.UserRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, util.ErrInvalidCredentials
	}
	if user.Disabled {
		return nil, util.ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		return nil, err
	}

	if user.Role == model.Student {
		if err := s.Xp.TouchActivity(user.ID); err != nil {
			return nil, err
		}
		s.Bus.Publish(event.Event{Type: event.StudentLogin, StudentID: user.ID})
	}

	return &LoginResponse{Token: token, User: user}, nil
}
