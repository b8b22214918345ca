package services

import "encoding/json"

// PatchField distinguishes the three states of a field in a partial
// update: absent (leave untouched), explicit null (clear it), and a
// concrete value.
type PatchField[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (field *PatchField[T]) UnmarshalJSON(data []byte) error {
	field.Set = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &field.Value); err != nil {
		return err
	}
	field.Valid = true
	return nil
}

// TaskPatch is the sparse field set accepted by task updates. Dates travel
// as YYYY-MM-DD strings, completed_at as RFC3339.
type TaskPatch struct {
	Title          PatchField[string]  `json:"title"`
	Description    PatchField[string]  `json:"description"`
	Area           PatchField[string]  `json:"area"`
	AssignedTo     PatchField[uint]    `json:"assigned_to"`
	Status         PatchField[string]  `json:"status"`
	Priority       PatchField[string]  `json:"priority"`
	DueDate        PatchField[string]  `json:"due_date"`
	CompletedAt    PatchField[string]  `json:"completed_at"`
	EstimatedHours PatchField[float64] `json:"estimated_hours"`
	Notes          PatchField[string]  `json:"notes"`
}

// Empty reports whether no field was provided at all.
func (patch TaskPatch) Empty() bool {
	return !patch.Title.Set &&
		!patch.Description.Set &&
		!patch.Area.Set &&
		!patch.AssignedTo.Set &&
		!patch.Status.Set &&
		!patch.Priority.Set &&
		!patch.DueDate.Set &&
		!patch.CompletedAt.Set &&
		!patch.EstimatedHours.Set &&
		!patch.Notes.Set
}
