package postgres

import "github.com/fastygo/tasks/domain"

func cents(h *domain.Hours) *int64 {
	if h == nil {
		return nil
	}
	v := h.Cents()
	return &v
}

func dueDate(d domain.Date) interface{} {
	if d.IsZero() {
		return nil
	}
	return d.Time()
}
