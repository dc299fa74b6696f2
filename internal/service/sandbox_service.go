package service

import (
	"time"

	"school_hub_backend/internal/event"
	"school_hub_backend/internal/model"
	"school_hub_backend/internal/repository"
	"school_hub_backend/internal/util"
)

// 每个学生的沙盒项目上限
const maxSandboxProjects = 20

type SandboxService struct {
	SandboxRepo *repository.SandboxRepository
	Bus         *event.Bus
}

func NewSandboxService(sandboxRepo *repository.SandboxRepository, bus *event.Bus) *SandboxService {
	return &SandboxService{SandboxRepo: sandboxRepo, Bus: bus}
}

type SandboxRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Code string `json:"code"`
}

func (s *SandboxService) Create(studentID uint, req SandboxRequest) (*model.SandboxProject, error) {
	count, err := s.SandboxRepo.CountByStudent(studentID)
	if err != nil {
		return nil, err
	}
	if count >= maxSandboxProjects {
		return nil, util.ErrSandboxLimitReached
	}

	project := &model.SandboxProject{
		StudentID:  studentID,
		Name:       req.Name,
		Code:       req.Code,
		ShareToken: model.GenerateUUID(),
	}
	if err := s.SandboxRepo.Create(project); err != nil {
		return nil, err
	}

	s.Bus.Publish(event.Event{
		Type:       event.SandboxCreated,
		StudentID:  studentID,
		SourceID:   project.ID,
		OccurredAt: time.Now(),
	})
	return project, nil
}

func (s *SandboxService) List(studentID uint) ([]model.SandboxProject, error) {
	return s.SandboxRepo.ListByStudent(studentID)
}
