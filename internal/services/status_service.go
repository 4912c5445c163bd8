package services

import (
	"errors"
	"fmt"

	"github.com/nattawatc/study-planner-api/internal/models"
	"github.com/nattawatc/study-planner-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrStatusNotFound      = errors.New("status not found")
	ErrDoneStatusExists    = errors.New("project already has a done status")
	ErrDoneStatusImmutable = errors.New("the done status cannot be moved or deleted")
	ErrInvalidPosition     = errors.New("position is out of range or would pass the done status")
	ErrStatusNameRequired  = errors.New("status name is required")
)

// StatusService maintains the ordered board columns of a project. All
// position mutations go through single-transaction repository operations
// so the 1..N dense ordering survives concurrent board edits.
type StatusService struct {
	statusRepo  repository.StatusRepository
	projectRepo repository.ProjectRepository
}

// NewStatusService creates a new StatusService
func NewStatusService(statusRepo repository.StatusRepository, projectRepo repository.ProjectRepository) *StatusService {
	return &StatusService{
		statusRepo:  statusRepo,
		projectRepo: projectRepo,
	}
}

// CreateStatusInput represents input for creating a board column
type CreateStatusInput struct {
	ProjectID uint64
	Name      string
	Color     string
	IsDone    bool
}

// CreateStatus appends a new column to the project board. A done column
// always takes the last position; creating a second done column is a
// conflict.
func (s *StatusService) CreateStatus(input CreateStatusInput) (*models.Status, error) {
	if input.Name == "" {
		return nil, ErrStatusNameRequired
	}

	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	status := &models.Status{
		ProjectID: input.ProjectID,
		Name:      input.Name,
		Color:     input.Color,
		IsDone:    input.IsDone,
	}

	if err := s.statusRepo.CreateOrdered(status); err != nil {
		if errors.Is(err, repository.ErrDoneStatusExists) {
			return nil, ErrDoneStatusExists
		}
		return nil, fmt.Errorf("failed to create status: %w", err)
	}

	return status, nil
}

// UpdateStatus changes the name and color of a column
func (s *StatusService) UpdateStatus(statusID uint64, name, color string) (*models.Status, error) {
	status, err := s.statusRepo.FindByID(statusID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("failed to find status: %w", err)
	}

	if name != "" {
		status.Name = name
	}
	if color != "" {
		status.Color = color
	}

	if err := s.statusRepo.Update(status); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return status, nil
}

// DeleteStatus removes a column and renumbers the columns above it. The
// done column is undeletable.
func (s *StatusService) DeleteStatus(statusID uint64) error {
	if err := s.statusRepo.DeleteOrdered(statusID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrStatusNotFound
		case errors.Is(err, repository.ErrStatusIsDone):
			return ErrDoneStatusImmutable
		}
		return fmt.Errorf("failed to delete status: %w", err)
	}
	return nil
}

// MoveStatus moves a column to newPosition within its project. Moving to
// the current position succeeds without touching any other column.
func (s *StatusService) MoveStatus(statusID, projectID uint64, newPosition int) error {
	if err := s.statusRepo.MoveOrdered(statusID, projectID, newPosition); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrStatusNotFound
		case errors.Is(err, repository.ErrStatusIsDone):
			return ErrDoneStatusImmutable
		case errors.Is(err, repository.ErrPositionOutOfRange),
			errors.Is(err, repository.ErrPositionBeyondDone):
			return ErrInvalidPosition
		}
		return fmt.Errorf("failed to move status: %w", err)
	}
	return nil
}

// ListStatuses returns the project's columns in board order
func (s *StatusService) ListStatuses(projectID uint64) ([]models.Status, error) {
	statuses, err := s.statusRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	return statuses, nil
}
