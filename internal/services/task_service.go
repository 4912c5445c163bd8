package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/nattawatc/study-planner-api/internal/models"
	"github.com/nattawatc/study-planner-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskNameRequired  = errors.New("task name is required")
	ErrNoUserIDsProvided = errors.New("at least one user ID is required")
	ErrInvalidAssignee   = errors.New("one or more users are not members of the project")
	ErrRoleNotInProject  = errors.New("role does not belong to the task's project")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	statusRepo  repository.StatusRepository
	projectRepo repository.ProjectRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, statusRepo repository.StatusRepository, projectRepo repository.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		statusRepo:  statusRepo,
		projectRepo: projectRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	StatusID  uint64
	Name      string
	Detail    string
	Tag       string
	Priority  int
	Color     string
	StartDate *time.Time
	DueDate   *time.Time
	RoleID    *string
	ActorID   uint64
}

// CreateTask creates a task in a board column
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Name == "" {
		return nil, ErrTaskNameRequired
	}

	status, err := s.statusRepo.FindByID(input.StatusID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("failed to find status: %w", err)
	}

	if err := s.ensureMember(status.ProjectID, input.ActorID); err != nil {
		return nil, err
	}
	if err := s.validateRole(status.ProjectID, input.RoleID); err != nil {
		return nil, err
	}

	if input.Priority < 1 {
		input.Priority = 1
	}

	task := &models.Task{
		StatusID:  input.StatusID,
		Name:      input.Name,
		Detail:    input.Detail,
		Tag:       input.Tag,
		Priority:  input.Priority,
		Color:     input.Color,
		StartDate: input.StartDate,
		DueDate:   input.DueDate,
		RoleID:    input.RoleID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Status", "Role", "Assignments.User")
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Status", "Role", "Assignments.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	StatusID     *uint64
	Name         *string
	Detail       *string
	Tag          *string
	Priority     *int
	Color        *string
	StartDate    *time.Time
	DueDate      *time.Time
	ClearDueDate bool
	RoleID       *string
	ClearRole    bool
}

// UpdateTask updates an existing task. Changing StatusID moves the task
// to another column of the same project.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Status")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.StatusID != nil && *input.StatusID != task.StatusID {
		target, err := s.statusRepo.FindByID(*input.StatusID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStatusNotFound
			}
			return nil, fmt.Errorf("failed to find status: %w", err)
		}
		if target.ProjectID != task.Status.ProjectID {
			return nil, ErrStatusNotFound
		}
		task.StatusID = target.ID
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrTaskNameRequired
		}
		task.Name = *input.Name
	}
	if input.Detail != nil {
		task.Detail = *input.Detail
	}
	if input.Tag != nil {
		task.Tag = *input.Tag
	}
	if input.Priority != nil && *input.Priority >= 1 {
		task.Priority = *input.Priority
	}
	if input.Color != nil {
		task.Color = *input.Color
	}
	if input.StartDate != nil {
		task.StartDate = input.StartDate
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearRole {
		task.RoleID = nil
	} else if input.RoleID != nil {
		if err := s.validateRole(task.Status.ProjectID, input.RoleID); err != nil {
			return nil, err
		}
		task.RoleID = input.RoleID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Status", "Role", "Assignments.User")
}

// DeleteTask deletes a task if the actor is a member of its project
func (s *TaskService) DeleteTask(taskID, actorID uint64) error {
	task, err := s.taskRepo.FindByID(taskID, "Status")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.ensureMember(task.Status.ProjectID, actorID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AssignUsers assigns project members to a task
func (s *TaskService) AssignUsers(taskID, actorID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return ErrNoUserIDsProvided
	}

	task, err := s.taskRepo.FindByID(taskID, "Status")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.ensureMember(task.Status.ProjectID, actorID); err != nil {
		return err
	}

	unique := uniqueUint64(userIDs)

	count, err := s.taskRepo.CountMembersByIDs(unique, task.Status.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to verify users: %w", err)
	}
	if int(count) != len(unique) {
		return ErrInvalidAssignee
	}

	if err := s.taskRepo.AssignUsers(task.ID, unique); err != nil {
		return fmt.Errorf("failed to assign users: %w", err)
	}

	return nil
}

// UnassignUsers removes user assignments from a task
func (s *TaskService) UnassignUsers(taskID, actorID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return ErrNoUserIDsProvided
	}

	task, err := s.taskRepo.FindByID(taskID, "Status")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.ensureMember(task.Status.ProjectID, actorID); err != nil {
		return err
	}

	if err := s.taskRepo.UnassignUsers(taskID, uniqueUint64(userIDs)); err != nil {
		return fmt.Errorf("failed to unassign users: %w", err)
	}

	return nil
}

func (s *TaskService) ensureMember(projectID, userID uint64) error {
	if _, err := s.projectRepo.FindMember(projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotProjectMember
		}
		return fmt.Errorf("failed to verify project membership: %w", err)
	}
	return nil
}

func (s *TaskService) validateRole(projectID uint64, roleID *string) error {
	if roleID == nil {
		return nil
	}
	role, err := s.projectRepo.FindRole(*roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotInProject
		}
		return fmt.Errorf("failed to find role: %w", err)
	}
	if role.ProjectID != projectID {
		return ErrRoleNotInProject
	}
	return nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
