package domain

import "time"

// Todo is a single task record. Storage assigns ID on insert.
// Does not depend on gin, pgx or redis.
type Todo struct {
	ID        int64
	Text      string
	Completed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoPatch is a partial update: nil fields are left as they are.
type TodoPatch struct {
	Text      *string
	Completed *bool
}

// Apply overwrites the fields present in p and always sets UpdatedAt to now,
// even when p is empty.
func (p TodoPatch) Apply(t Todo, now time.Time) Todo {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.UpdatedAt = now
	return t
}
