package domain

import "time"

type Task struct {
	ID               int64     `json:"task_id"`
	UserID           int64     `json:"user_id"`
	Name             string    `json:"task_name"`
	Description      string    `json:"task_description"`
	ExpValue         int64     `json:"exp_value"`
	DueDate          Date      `json:"due_date"`
	IsCompleted      bool      `json:"is_completed"`
	PredefinedTaskID *int64    `json:"predefined_task_id,omitempty"`
	IsDaily          bool      `json:"is_daily"`
	CreatedAt        time.Time `json:"created_at"`
}

// PredefinedTask is a catalog entry supplying a default name and exp value.
type PredefinedTask struct {
	ID              int64  `json:"predefined_task_id" yaml:"-"`
	Name            string `json:"task_name" yaml:"task_name"`
	DefaultExpValue int64  `json:"default_exp_value" yaml:"default_exp_value"`
	Category        string `json:"category" yaml:"category"`
	IsDefault       bool   `json:"is_default" yaml:"is_default"`
}

// DailyTemplate marks a task whose content is regenerated on every daily refresh.
// Joined with the source task's content for the recurrence engine.
type DailyTemplate struct {
	UserID           int64
	TaskID           int64
	Name             string
	Description      string
	ExpValue         int64
	DueDate          Date
	PredefinedTaskID *int64
}

// TaskRequest is a user suggestion for a new catalog entry, queued for review.
type TaskRequest struct {
	ID                int64     `json:"request_id"`
	UserID            int64     `json:"user_id"`
	Name              string    `json:"task_name"`
	SuggestedExpValue int64     `json:"suggested_exp_value"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

const TaskRequestPending = "pending"
