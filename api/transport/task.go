package transport

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fastygo/tasks/domain"
)

// TaskResponse is the wire form of a task. Optional values render as null.
type TaskResponse struct {
	ID            int64     `json:"id"`
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	DueDate       string    `json:"due_date"`
	Status        *string   `json:"status"`
	EstimatedTime *string   `json:"estimated_time"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// textLimits mirrors the column sizes of the tasks table.
type textLimits struct {
	Title  *string `json:"title" validate:"omitempty,max=255"`
	Status *string `json:"status" validate:"omitempty,max=30"`
}

// TaskSerializer converts between request bodies, domain.Task and TaskResponse.
type TaskSerializer struct {
	now      func() time.Time
	validate *validator.Validate
}

// NewTaskSerializer builds a serializer. now supplies the default due date on
// create and falls back to time.Now.
func NewTaskSerializer(now func() time.Time) *TaskSerializer {
	if now == nil {
		now = time.Now
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &TaskSerializer{now: now, validate: v}
}

// ParseCreate validates a create body. due_date defaults to today.
func (s *TaskSerializer) ParseCreate(body []byte) (domain.TaskFields, error) {
	return s.parse(body, domain.TaskFields{DueDate: domain.DateOf(s.now())})
}

// ParseUpdate validates an update body and merges it onto existing: keys
// present in the body replace the stored value, absent keys keep it, and an
// explicit null clears a nullable field.
func (s *TaskSerializer) ParseUpdate(body []byte, existing domain.Task) (domain.TaskFields, error) {
	return s.parse(body, existing.Fields())
}

func (s *TaskSerializer) parse(body []byte, fields domain.TaskFields) (domain.TaskFields, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return domain.TaskFields{}, err
	}

	verr := domain.NewValidationError()
	if v, ok := raw["title"]; ok {
		fields.Title = readString(verr, "title", v)
	}
	if v, ok := raw["description"]; ok {
		fields.Description = readString(verr, "description", v)
	}
	if v, ok := raw["due_date"]; ok {
		if d, ok := readDate(verr, "due_date", v); ok {
			fields.DueDate = d
		}
	}
	if v, ok := raw["status"]; ok {
		fields.Status = readString(verr, "status", v)
	}
	if v, ok := raw["estimated_time"]; ok {
		fields.EstimatedTime = readHours(verr, "estimated_time", v)
	}
	s.checkLimits(verr, fields)

	if err := verr.OrNil(); err != nil {
		return domain.TaskFields{}, err
	}
	return fields, nil
}

func (s *TaskSerializer) checkLimits(verr *domain.ValidationError, fields domain.TaskFields) {
	err := s.validate.Struct(textLimits{Title: fields.Title, Status: fields.Status})
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add(domain.NonFieldErrors, err.Error())
		return
	}
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "max":
			verr.Add(fe.Field(), fmt.Sprintf(msgMaxLength, fe.Param()))
		default:
			verr.Add(fe.Field(), fe.Error())
		}
	}
}

// Render converts a task into its wire form.
func (s *TaskSerializer) Render(task domain.Task) TaskResponse {
	out := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate.String(),
		Status:      task.Status,
		CreatedAt:   task.CreatedAt.UTC(),
		UpdatedAt:   task.UpdatedAt.UTC(),
	}
	if task.EstimatedTime != nil {
		v := task.EstimatedTime.String()
		out.EstimatedTime = &v
	}
	return out
}

// RenderList converts tasks, always returning a non-nil slice.
func (s *TaskSerializer) RenderList(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, s.Render(task))
	}
	return out
}
