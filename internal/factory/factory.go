// Package factory is the single validated entry point for constructing posts
// and tasks. Nothing is written unless every rule for the entity's type holds.
package factory

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"connectly/internal/model"
)

// PostInserter persists a validated post, filling in its ID and timestamps.
type PostInserter interface {
	InsertPost(ctx context.Context, post *model.Post) error
}

// TaskInserter persists a validated task, filling in its ID and timestamps.
type TaskInserter interface {
	InsertTask(ctx context.Context, task *model.Task) error
}

// Config holds the limits the factory enforces.
type Config struct {
	MaxTitleLength int
	DefaultTitle   string
}

// DefaultConfig returns the limits of the posts and tasks tables.
func DefaultConfig() Config {
	return Config{
		MaxTitleLength: model.MaxPostTitleLength,
		DefaultTitle:   model.DefaultPostTitle,
	}
}

// Factory validates and creates posts and tasks.
type Factory struct {
	cfg   Config
	posts PostInserter
	tasks TaskInserter
}

func New(cfg Config, posts PostInserter, tasks TaskInserter) *Factory {
	if cfg.MaxTitleLength <= 0 {
		cfg.MaxTitleLength = model.MaxPostTitleLength
	}
	if cfg.DefaultTitle == "" {
		cfg.DefaultTitle = model.DefaultPostTitle
	}
	return &Factory{cfg: cfg, posts: posts, tasks: tasks}
}

// CreatePost validates and inserts a post. A nil author creates an
// authorless post. Metadata is copied, so later changes to the caller's
// map do not leak into the stored entity.
func (f *Factory) CreatePost(ctx context.Context, postType model.PostType, title, content string, metadata model.Metadata, author *model.User) (*model.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = f.cfg.DefaultTitle
	}

	post := &model.Post{
		Title:    title,
		Content:  content,
		PostType: postType,
		Metadata: metadata.Clone(),
	}
	if author != nil {
		id := author.ID
		post.AuthorID = &id
	}

	if _, err := f.ValidatePost(post); err != nil {
		return nil, err
	}

	if err := f.posts.InsertPost(ctx, post); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	if author != nil {
		post.Author = author.Summary()
	}
	return post, nil
}

// ValidatePost runs the creation rules against an already-formed post and
// returns its typed metadata. Updates go through here too.
func (f *Factory) ValidatePost(post *model.Post) (model.PostMetadata, error) {
	if !post.PostType.Valid() {
		return nil, model.NewInvalidType("post", model.PostTypeNames())
	}
	if post.Metadata == nil {
		post.Metadata = model.Metadata{}
	}
	details, err := model.ParsePostMetadata(post.PostType, post.Metadata)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(post.Title) == "" {
		return nil, model.NewInvalidField("title", "Title is required.")
	}
	if err := f.checkTitle(post.Title); err != nil {
		return nil, err
	}
	post.Metadata.ApplyPost(details)
	return details, nil
}

// CreateTask validates and inserts a task assigned to assignedTo.
func (f *Factory) CreateTask(ctx context.Context, taskType model.TaskType, title, description string, assignedTo *model.User, metadata model.Metadata) (*model.Task, error) {
	task := &model.Task{
		Title:       title,
		Description: description,
		TaskType:    taskType,
		Metadata:    metadata.Clone(),
	}
	if assignedTo != nil {
		task.AssignedTo = assignedTo.ID
	}

	if _, err := f.ValidateTask(task); err != nil {
		return nil, err
	}

	if err := f.tasks.InsertTask(ctx, task); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

// CreateRegularTask creates a task with no type-specific metadata.
func (f *Factory) CreateRegularTask(ctx context.Context, title, description string, assignedTo *model.User) (*model.Task, error) {
	return f.CreateTask(ctx, model.TaskTypeRegular, title, description, assignedTo, nil)
}

// CreatePriorityTask creates a priority task at the given level.
func (f *Factory) CreatePriorityTask(ctx context.Context, title, description string, assignedTo *model.User, priorityLevel any) (*model.Task, error) {
	return f.CreateTask(ctx, model.TaskTypePriority, title, description, assignedTo, model.Metadata{"priority_level": priorityLevel})
}

// CreateRecurringTask creates a recurring task with the given frequency.
func (f *Factory) CreateRecurringTask(ctx context.Context, title, description string, assignedTo *model.User, frequency any) (*model.Task, error) {
	return f.CreateTask(ctx, model.TaskTypeRecurring, title, description, assignedTo, model.Metadata{"frequency": frequency})
}

// ValidateTask runs the creation rules against an already-formed task.
func (f *Factory) ValidateTask(task *model.Task) (model.TaskMetadata, error) {
	if !task.TaskType.Valid() {
		return nil, model.NewInvalidType("task", model.TaskTypeNames())
	}
	if task.Metadata == nil {
		task.Metadata = model.Metadata{}
	}
	details, err := model.ParseTaskMetadata(task.TaskType, task.Metadata)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(task.Title) == "" {
		return nil, model.NewInvalidField("title", "Task title is required.")
	}
	if err := f.checkTitle(task.Title); err != nil {
		return nil, err
	}
	if task.AssignedTo == 0 {
		return nil, model.ErrAssigneeNotSet
	}
	task.Metadata.ApplyTask(details)
	return details, nil
}

func (f *Factory) checkTitle(title string) error {
	if utf8.RuneCountInString(title) > f.cfg.MaxTitleLength {
		return model.NewInvalidField("title", fmt.Sprintf("Title must be at most %d characters.", f.cfg.MaxTitleLength))
	}
	return nil
}

// CleanCommentText trims surrounding whitespace and rejects empty or
// oversized comments. The returned text is what gets stored.
func CleanCommentText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", model.ErrCommentEmpty
	}
	if utf8.RuneCountInString(trimmed) > model.MaxCommentLength {
		return "", model.ErrCommentTooLong
	}
	return trimmed, nil
}
