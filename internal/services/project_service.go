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
	ErrNotProjectMember = errors.New("user is not a member of the project")
	ErrNotProjectOwner  = errors.New("only the project owner can perform this action")
	ErrRoleNotFound     = errors.New("project role not found")
	ErrAlreadyMember    = errors.New("user is already a member of the project")
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	statusRepo  repository.StatusRepository
	taskRepo    repository.TaskRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, statusRepo repository.StatusRepository, taskRepo repository.TaskRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		statusRepo:  statusRepo,
		taskRepo:    taskRepo,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name      string
	StartDate *time.Time
	DueDate   *time.Time
	OwnerID   uint64
}

// CreateProject creates a project with its default role and owner membership
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	project := &models.Project{
		Name:      input.Name,
		StartDate: input.StartDate,
		DueDate:   input.DueDate,
	}

	if err := s.projectRepo.CreateWithDefaults(project, input.OwnerID); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "Members", "Roles")
}

// ProjectWithProgress pairs a project with its completion percentage
type ProjectWithProgress struct {
	models.Project
	Progress int `json:"progress"`
}

// ListProjects returns the user's projects, each with a priority-weighted
// progress: the share of task weight sitting in the done column.
func (s *ProjectService) ListProjects(userID uint64) ([]ProjectWithProgress, error) {
	projects, err := s.projectRepo.ListByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	result := make([]ProjectWithProgress, 0, len(projects))
	for _, project := range projects {
		progress, err := s.computeProgress(project.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, ProjectWithProgress{Project: project, Progress: progress})
	}

	return result, nil
}

func (s *ProjectService) computeProgress(projectID uint64) (int, error) {
	statuses, err := s.statusRepo.ListByProject(projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to list statuses: %w", err)
	}

	var doneStatusID uint64
	statusIDs := make([]uint64, 0, len(statuses))
	for _, status := range statuses {
		statusIDs = append(statusIDs, status.ID)
		if status.IsDone {
			doneStatusID = status.ID
		}
	}

	tasks, err := s.taskRepo.ListByStatusIDs(statusIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	totalWeight := 0
	completedWeight := 0
	for _, task := range tasks {
		priority := task.Priority
		if priority < 1 {
			priority = 1
		}
		totalWeight += priority
		if doneStatusID != 0 && task.StatusID == doneStatusID {
			completedWeight += priority
		}
	}

	if totalWeight == 0 {
		return 0, nil
	}
	return int(float64(completedWeight)/float64(totalWeight)*100 + 0.5), nil
}

// ProjectBoard is the full board view: the project, its columns in order
// and their tasks.
type ProjectBoard struct {
	Project  models.Project  `json:"project"`
	Statuses []models.Status `json:"statuses"`
	Tasks    []models.Task   `json:"tasks"`
}

// GetBoard loads the board view of a project
func (s *ProjectService) GetBoard(projectID uint64) (*ProjectBoard, error) {
	project, err := s.projectRepo.FindByID(projectID, "Members.User", "Roles")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	statuses, err := s.statusRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}

	statusIDs := make([]uint64, len(statuses))
	for i, status := range statuses {
		statusIDs[i] = status.ID
	}

	tasks, err := s.taskRepo.ListByStatusIDs(statusIDs, "Assignments.User", "Role")
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &ProjectBoard{Project: *project, Statuses: statuses, Tasks: tasks}, nil
}

// UpdateProjectInput represents input for updating a project
type UpdateProjectInput struct {
	Name      *string
	StartDate *time.Time
	DueDate   *time.Time
}

// UpdateProject updates project fields
func (s *ProjectService) UpdateProject(projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Name != nil && *input.Name != "" {
		project.Name = *input.Name
	}
	if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.DueDate != nil {
		project.DueDate = input.DueDate
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project if the actor owns it
func (s *ProjectService) DeleteProject(projectID, actorID uint64) error {
	if err := s.ensureOwner(projectID, actorID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AddMember adds a user to a project
func (s *ProjectService) AddMember(projectID, userID uint64, role models.MemberRole, projectRoleID *string) (*models.ProjectMember, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if _, err := s.projectRepo.FindMember(projectID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	if role == "" {
		role = models.MemberRoleMember
	}

	member := &models.ProjectMember{
		ProjectID:     projectID,
		UserID:        userID,
		Role:          role,
		ProjectRoleID: projectRoleID,
		JoinedAt:      time.Now(),
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// EnsureMember verifies the user belongs to the project
func (s *ProjectService) EnsureMember(projectID, userID uint64) error {
	if _, err := s.projectRepo.FindMember(projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotProjectMember
		}
		return fmt.Errorf("failed to verify project membership: %w", err)
	}
	return nil
}

func (s *ProjectService) ensureOwner(projectID, userID uint64) error {
	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotProjectMember
		}
		return fmt.Errorf("failed to verify project membership: %w", err)
	}
	if member.Role != models.MemberRoleOwner {
		return ErrNotProjectOwner
	}
	return nil
}

// AddRole adds a project role
func (s *ProjectService) AddRole(projectID uint64, name, color string) (*models.ProjectRole, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	role := &models.ProjectRole{
		ProjectID: projectID,
		Name:      name,
		Color:     color,
	}
	if err := s.projectRepo.AddRole(role); err != nil {
		return nil, fmt.Errorf("failed to add role: %w", err)
	}

	return role, nil
}

// UpdateRole updates a project role's name and color
func (s *ProjectService) UpdateRole(projectID uint64, roleID, name, color string) (*models.ProjectRole, error) {
	role, err := s.projectRepo.FindRole(roleID)
	if err != nil || role.ProjectID != projectID {
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}

	if name != "" {
		role.Name = name
	}
	if color != "" {
		role.Color = color
	}

	if err := s.projectRepo.UpdateRole(role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return role, nil
}

// DeleteRole removes a project role
func (s *ProjectService) DeleteRole(projectID uint64, roleID string) error {
	role, err := s.projectRepo.FindRole(roleID)
	if err != nil || role.ProjectID != projectID {
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("failed to find role: %w", err)
	}

	if err := s.projectRepo.DeleteRole(projectID, roleID); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}
