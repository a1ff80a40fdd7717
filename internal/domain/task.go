package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the state of a task. The set is open; any non-empty value is
// accepted, and the constants below are the values the UI offers.
type TaskStatus string

// Well-known task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// MaxTaskStatusLength matches the width of tasks.status.
const MaxTaskStatusLength = 32

// DeadlineLayout is the calendar-date format used for deadlines on the wire.
const DeadlineLayout = "2006-01-02"

// Common validation errors for Task
var (
	ErrEmptyTaskID       = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrEmptyDescription  = errors.New("task description cannot be empty")
	ErrEmptyAssignee     = errors.New("task assignee cannot be empty")
	ErrEmptyDeadline     = errors.New("task deadline cannot be empty")
	ErrInvalidDeadline   = errors.New("task deadline must be a YYYY-MM-DD date")
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// ParseTaskStatus trims s and checks it is a storable status.
func ParseTaskStatus(s string) (TaskStatus, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > MaxTaskStatusLength {
		return "", ErrInvalidTaskStatus
	}
	return TaskStatus(s), nil
}

// ParseDeadline parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDeadline(s string) (time.Time, error) {
	d, err := time.Parse(DeadlineLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDeadline
	}
	return d, nil
}

// Task is a unit of work assigned to exactly one user.
type Task struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	AssignedTo      uuid.UUID  `json:"assigned_to"`
	Status          TaskStatus `json:"status"`
	Deadline        time.Time  `json:"deadline"`
	StatusUpdatedAt time.Time  `json:"status_updated_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewTask creates a pending Task. StatusUpdatedAt starts at the creation time.
func NewTask(title, description string, assignedTo uuid.UUID, deadline time.Time) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:              uuid.New(),
		Title:           strings.TrimSpace(title),
		Description:     strings.TrimSpace(description),
		AssignedTo:      assignedTo,
		Status:          TaskStatusPending,
		Deadline:        deadline,
		StatusUpdatedAt: now,
		CreatedAt:       now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	if t.Description == "" {
		return ErrEmptyDescription
	}
	if t.AssignedTo == uuid.Nil {
		return ErrEmptyAssignee
	}
	if t.Deadline.IsZero() {
		return ErrEmptyDeadline
	}
	if _, err := ParseTaskStatus(string(t.Status)); err != nil {
		return err
	}
	return nil
}

// TaskView is a task joined with its assignee's display name.
type TaskView struct {
	Task
	AssignedUser string `json:"assigned_user"`
}
