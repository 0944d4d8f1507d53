package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectly/internal/factory"
	"connectly/internal/model"
	"connectly/internal/policy"
	"connectly/internal/queue"
	"connectly/internal/repository"
)

// TaskService handles tasks. Access to a task follows its assignee.
type TaskService struct {
	factory   *factory.Factory
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	publisher queue.Publisher
	logger    *slog.Logger
}

func NewTaskService(
	f *factory.Factory,
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	publisher queue.Publisher,
	logger *slog.Logger,
) *TaskService {
	return &TaskService{
		factory:   f,
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Create creates a task. It is assigned to the caller unless req names
// another existing user.
func (s *TaskService) Create(ctx context.Context, actor model.Identity, req model.CreateTaskRequest) (*model.Task, error) {
	if err := policy.Authorize(actor, actor.Authenticated(), nil); err != nil {
		return nil, err
	}

	assigneeID := actor.UserID
	if req.AssignedTo != nil {
		assigneeID = *req.AssignedTo
	}
	assignee, err := s.userRepo.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewNotFound("Assigned user not found.")
		}
		return nil, err
	}

	taskType := model.TaskType(req.TaskType)
	if taskType == "" {
		taskType = model.TaskTypeRegular
	}

	task, err := s.factory.CreateTask(ctx, taskType, req.Title, req.Description, assignee, req.Metadata)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, queue.NewTaskCreatedEvent(task.ID, actor.UserID, assignee.ID))
	return task, nil
}

// Get returns a task assigned to actor.
func (s *TaskService) Get(ctx context.Context, actor model.Identity, taskID int64) (*model.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.CanAccessTask(actor, task), model.ErrNotTaskOwner); err != nil {
		return nil, err
	}
	return task, nil
}

// List returns a page of the tasks assigned to actor, newest first.
func (s *TaskService) List(ctx context.Context, actor model.Identity, cursor *string, limit int) (*model.TaskListResponse, error) {
	if err := policy.Authorize(actor, actor.Authenticated(), nil); err != nil {
		return nil, err
	}

	tasks, nextCursor, err := s.taskRepo.ListByAssignee(ctx, actor.UserID, cursor, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	return &model.TaskListResponse{
		Tasks:      tasks,
		NextCursor: nextCursor,
		HasMore:    nextCursor != nil,
	}, nil
}

// Update applies a partial update and re-validates the task.
func (s *TaskService) Update(ctx context.Context, actor model.Identity, taskID int64, req model.UpdateTaskRequest) (*model.Task, error) {
	task, err := s.Get(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	if req.TaskType != nil {
		task.TaskType = model.TaskType(*req.TaskType)
	}
	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Metadata != nil {
		task.Metadata = req.Metadata.Clone()
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if _, err := s.factory.ValidateTask(task); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, actor model.Identity, taskID int64) error {
	if _, err := s.Get(ctx, actor, taskID); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, taskID)
}
