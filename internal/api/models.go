package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/service"
)

// LoginRequest defines the payload for POST /login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// LoginResponse is returned to JSON clients after a successful login.
type LoginResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Role   string    `json:"role"`
	// Token is the session token for Authorization: Bearer use.
	// Browser clients rely on the cookie instead.
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// AssignResponse reports an assignment outcome.
type AssignResponse struct {
	Status  string        `json:"status"`
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Fields  []string      `json:"fields,omitempty"`
	Task    *TaskResponse `json:"task,omitempty"`
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	AssignedTo      uuid.UUID `json:"assigned_to"`
	AssignedUser    string    `json:"assigned_user,omitempty"`
	Status          string    `json:"status"`
	Deadline        string    `json:"deadline"`
	StatusUpdatedAt time.Time `json:"status_updated_at"`
}

// UserResponse is the wire form of a user in the assignee picker.
type UserResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role"`
}

func assignResultToResponse(result service.AssignmentResult) AssignResponse {
	resp := AssignResponse{
		Status:  result.Outcome.WireStatus(),
		Code:    string(result.Outcome),
		Message: result.Message,
		Fields:  result.Fields,
	}
	if result.Task != nil {
		task := taskToResponse(*result.Task, "")
		resp.Task = &task
	}
	return resp
}

func taskToResponse(task domain.Task, assignedUser string) TaskResponse {
	return TaskResponse{
		ID:              task.ID,
		Title:           task.Title,
		Description:     task.Description,
		AssignedTo:      task.AssignedTo,
		AssignedUser:    assignedUser,
		Status:          string(task.Status),
		Deadline:        task.Deadline.Format(domain.DeadlineLayout),
		StatusUpdatedAt: task.StatusUpdatedAt,
	}
}

func taskViewsToResponse(views []domain.TaskView) []TaskResponse {
	resp := make([]TaskResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, taskToResponse(v.Task, v.AssignedUser))
	}
	return resp
}

func usersToResponse(users []domain.User) []UserResponse {
	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, UserResponse{ID: u.ID, Name: u.Name, Role: u.Role.String()})
	}
	return resp
}
