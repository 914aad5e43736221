package domain

import "time"

// Task is the single tracked work item exposed by the API.
type Task struct {
	ID            int64     `json:"id"`
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	DueDate       Date      `json:"due_date"`
	Status        *string   `json:"status"`
	EstimatedTime *Hours    `json:"estimated_time"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TaskFields holds the client-writable part of a Task.
type TaskFields struct {
	Title         *string
	Description   *string
	DueDate       Date
	Status        *string
	EstimatedTime *Hours
}

// Fields returns a copy of the writable fields of t.
func (t *Task) Fields() TaskFields {
	if t == nil {
		return TaskFields{}
	}
	return TaskFields{
		Title:         cloneString(t.Title),
		Description:   cloneString(t.Description),
		DueDate:       t.DueDate,
		Status:        cloneString(t.Status),
		EstimatedTime: cloneHours(t.EstimatedTime),
	}
}

// Apply overwrites the writable fields of t with f.
func (t *Task) Apply(f TaskFields) {
	t.Title = cloneString(f.Title)
	t.Description = cloneString(f.Description)
	t.DueDate = f.DueDate
	t.Status = cloneString(f.Status)
	t.EstimatedTime = cloneHours(f.EstimatedTime)
}

// Clone returns a deep copy so stores never share pointers with callers.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	out := *t
	out.Apply(t.Fields())
	return &out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneHours(h *Hours) *Hours {
	if h == nil {
		return nil
	}
	v := *h
	return &v
}
