package model

import (
	"strings"
	"time"
)

// TaskType is the scheduling flavor of a task.
type TaskType string

const (
	TaskTypeRegular   TaskType = "regular"
	TaskTypePriority  TaskType = "priority"
	TaskTypeRecurring TaskType = "recurring"
)

// TaskTypes lists the valid task types in display order.
var TaskTypes = []TaskType{TaskTypeRegular, TaskTypePriority, TaskTypeRecurring}

func (t TaskType) Valid() bool {
	for _, v := range TaskTypes {
		if v == t {
			return true
		}
	}
	return false
}

func TaskTypeNames() []string {
	names := make([]string, len(TaskTypes))
	for i, t := range TaskTypes {
		names[i] = string(t)
	}
	return names
}

// Task is a unit of work assigned to a user.
type Task struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	AssignedTo  int64     `db:"assigned_to" json:"assigned_to"`
	TaskType    TaskType  `db:"task_type" json:"task_type"`
	Metadata    Metadata  `db:"metadata" json:"metadata"`
	Completed   bool      `db:"completed" json:"completed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// String mirrors the admin display name, e.g. "Priority Task: Backup".
func (t *Task) String() string {
	name := string(t.TaskType)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return name + " Task: " + t.Title
}

// CreateTaskRequest is the request body for creating a task.
// AssignedTo defaults to the caller.
type CreateTaskRequest struct {
	TaskType    string   `json:"task_type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AssignedTo  *int64   `json:"assigned_to"`
	Metadata    Metadata `json:"metadata"`
}

// UpdateTaskRequest is the request body for a partial task update.
type UpdateTaskRequest struct {
	TaskType    *string  `json:"task_type"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Metadata    Metadata `json:"metadata"`
	Completed   *bool    `json:"completed"`
}

// TaskListResponse is the paginated task list response.
type TaskListResponse struct {
	Tasks      []Task  `json:"tasks"`
	NextCursor *string `json:"next_cursor,omitempty"`
	HasMore    bool    `json:"has_more"`
}

// Task constraints
const (
	MaxTaskTitleLength = 255
)

// Task errors
var (
	ErrTaskNotFound   = NewNotFound("Task not found.")
	ErrNotTaskOwner   = NewForbidden("You can only modify tasks assigned to you.")
	ErrAssigneeNotSet = NewInvalidField("assigned_to", "Tasks must be assigned to a user.")
)
