package services

import (
	"testing"
	"time"

	"github.com/nattawatc/study-planner-api/internal/models"
	"github.com/nattawatc/study-planner-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type taskTestEnv struct {
	db      *gorm.DB
	service *TaskService
	owner   models.User
	project models.Project
	role    models.ProjectRole
	doing   models.Status
	done    models.Status
}

func setupTaskTestEnv(t *testing.T) taskTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectRole{},
		&models.ProjectMember{},
		&models.Status{},
		&models.Task{},
		&models.TaskAssignment{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	owner := models.User{Name: "anna", Email: "anna@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&owner).Error)

	project := models.Project{Name: "Senior project"}
	require.NoError(t, db.Create(&project).Error)
	require.NoError(t, db.Create(&models.ProjectMember{
		ProjectID: project.ID, UserID: owner.ID,
		Role: models.MemberRoleOwner, JoinedAt: time.Now(),
	}).Error)

	role := models.ProjectRole{ProjectID: project.ID, Name: "Backend"}
	require.NoError(t, db.Create(&role).Error)

	doing := models.Status{ProjectID: project.ID, Name: "Doing", Position: 1}
	done := models.Status{ProjectID: project.ID, Name: "Done", Position: 2, IsDone: true}
	require.NoError(t, db.Create(&doing).Error)
	require.NoError(t, db.Create(&done).Error)

	service := NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewStatusRepository(db),
		repository.NewProjectRepository(db),
	)

	return taskTestEnv{
		db: db, service: service, owner: owner,
		project: project, role: role, doing: doing, done: done,
	}
}

func TestTaskService_CreateTask(t *testing.T) {
	env := setupTaskTestEnv(t)

	due := time.Now().Add(48 * time.Hour)
	task, err := env.service.CreateTask(CreateTaskInput{
		StatusID: env.doing.ID,
		Name:     "Ship the API",
		Priority: 3,
		DueDate:  &due,
		RoleID:   &env.role.ID,
		ActorID:  env.owner.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Ship the API", task.Name)
	require.Equal(t, 3, task.Priority)
	require.Equal(t, env.role.ID, *task.RoleID)
	require.Equal(t, env.doing.ID, task.StatusID)
}

func TestTaskService_CreateTask_Validation(t *testing.T) {
	env := setupTaskTestEnv(t)

	_, err := env.service.CreateTask(CreateTaskInput{StatusID: env.doing.ID, ActorID: env.owner.ID})
	require.ErrorIs(t, err, ErrTaskNameRequired)

	_, err = env.service.CreateTask(CreateTaskInput{StatusID: 9999, Name: "x", ActorID: env.owner.ID})
	require.ErrorIs(t, err, ErrStatusNotFound)

	outsider := models.User{Name: "beam", Email: "beam@example.com", PasswordHash: "x"}
	require.NoError(t, env.db.Create(&outsider).Error)
	_, err = env.service.CreateTask(CreateTaskInput{StatusID: env.doing.ID, Name: "x", ActorID: outsider.ID})
	require.ErrorIs(t, err, ErrNotProjectMember)

	// Roles from another project are rejected.
	other := models.Project{Name: "Other"}
	require.NoError(t, env.db.Create(&other).Error)
	foreignRole := models.ProjectRole{ProjectID: other.ID, Name: "Frontend"}
	require.NoError(t, env.db.Create(&foreignRole).Error)

	_, err = env.service.CreateTask(CreateTaskInput{
		StatusID: env.doing.ID, Name: "x", RoleID: &foreignRole.ID, ActorID: env.owner.ID,
	})
	require.ErrorIs(t, err, ErrRoleNotInProject)
}

func TestTaskService_UpdateTask_MoveBetweenColumns(t *testing.T) {
	env := setupTaskTestEnv(t)

	task, err := env.service.CreateTask(CreateTaskInput{
		StatusID: env.doing.ID, Name: "Ship the API", ActorID: env.owner.ID,
	})
	require.NoError(t, err)

	updated, err := env.service.UpdateTask(task.ID, UpdateTaskInput{StatusID: &env.done.ID})
	require.NoError(t, err)
	require.Equal(t, env.done.ID, updated.StatusID)

	// Columns of a different project are unreachable.
	other := models.Project{Name: "Other"}
	require.NoError(t, env.db.Create(&other).Error)
	foreign := models.Status{ProjectID: other.ID, Name: "Doing", Position: 1}
	require.NoError(t, env.db.Create(&foreign).Error)

	_, err = env.service.UpdateTask(task.ID, UpdateTaskInput{StatusID: &foreign.ID})
	require.ErrorIs(t, err, ErrStatusNotFound)
}

func TestTaskService_UpdateTask_ClearFields(t *testing.T) {
	env := setupTaskTestEnv(t)

	due := time.Now().Add(48 * time.Hour)
	task, err := env.service.CreateTask(CreateTaskInput{
		StatusID: env.doing.ID, Name: "Ship the API",
		DueDate: &due, RoleID: &env.role.ID, ActorID: env.owner.ID,
	})
	require.NoError(t, err)

	updated, err := env.service.UpdateTask(task.ID, UpdateTaskInput{
		ClearDueDate: true,
		ClearRole:    true,
	})
	require.NoError(t, err)
	require.Nil(t, updated.DueDate)
	require.Nil(t, updated.RoleID)
}

func TestTaskService_AssignUsers(t *testing.T) {
	env := setupTaskTestEnv(t)

	task, err := env.service.CreateTask(CreateTaskInput{
		StatusID: env.doing.ID, Name: "Ship the API", ActorID: env.owner.ID,
	})
	require.NoError(t, err)

	require.ErrorIs(t, env.service.AssignUsers(task.ID, env.owner.ID, nil), ErrNoUserIDsProvided)

	outsider := models.User{Name: "beam", Email: "beam@example.com", PasswordHash: "x"}
	require.NoError(t, env.db.Create(&outsider).Error)
	err = env.service.AssignUsers(task.ID, env.owner.ID, []uint64{outsider.ID})
	require.ErrorIs(t, err, ErrInvalidAssignee)

	// Duplicate IDs collapse to one assignment.
	require.NoError(t, env.service.AssignUsers(task.ID, env.owner.ID, []uint64{env.owner.ID, env.owner.ID}))

	var count int64
	require.NoError(t, env.db.Model(&models.TaskAssignment{}).
		Where("task_id = ?", task.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)

	// Re-assigning after unassign revives the soft-deleted row.
	require.NoError(t, env.service.UnassignUsers(task.ID, env.owner.ID, []uint64{env.owner.ID}))
	require.NoError(t, env.service.AssignUsers(task.ID, env.owner.ID, []uint64{env.owner.ID}))
	require.NoError(t, env.db.Model(&models.TaskAssignment{}).
		Where("task_id = ?", task.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestTaskService_DeleteTask(t *testing.T) {
	env := setupTaskTestEnv(t)

	task, err := env.service.CreateTask(CreateTaskInput{
		StatusID: env.doing.ID, Name: "Ship the API", ActorID: env.owner.ID,
	})
	require.NoError(t, err)

	outsider := models.User{Name: "beam", Email: "beam@example.com", PasswordHash: "x"}
	require.NoError(t, env.db.Create(&outsider).Error)
	require.ErrorIs(t, env.service.DeleteTask(task.ID, outsider.ID), ErrNotProjectMember)

	require.NoError(t, env.service.DeleteTask(task.ID, env.owner.ID))
	_, err = env.service.GetTask(task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}
