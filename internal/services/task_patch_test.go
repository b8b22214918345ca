package services

import (
	"encoding/json"
	"testing"

	"github.com/doviland/gestionale/internal/models"
)

func TestTaskPatchThreeStates(t *testing.T) {
	var patch TaskPatch
	payload := `{"title":"Rewrite intro","due_date":null,"estimated_hours":12.5}`
	if err := json.Unmarshal([]byte(payload), &patch); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !patch.Title.Set || !patch.Title.Valid || patch.Title.Value != "Rewrite intro" {
		t.Fatalf("expected title present with value, got %+v", patch.Title)
	}
	if !patch.DueDate.Set || patch.DueDate.Valid {
		t.Fatalf("expected due_date present as null, got %+v", patch.DueDate)
	}
	if !patch.EstimatedHours.Set || patch.EstimatedHours.Value != 12.5 {
		t.Fatalf("expected estimated_hours 12.5, got %+v", patch.EstimatedHours)
	}
	if patch.Status.Set {
		t.Fatalf("expected absent status to stay unset, got %+v", patch.Status)
	}
	if patch.Empty() {
		t.Fatal("patch with fields must not be empty")
	}

	var empty TaskPatch
	if err := json.Unmarshal([]byte(`{}`), &empty); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !empty.Empty() {
		t.Fatal("empty payload must produce an empty patch")
	}
}

func TestAllowedAreas(t *testing.T) {
	if areas := AllowedAreas(adminUser()); areas != nil {
		t.Fatalf("expected nil (unrestricted) for admin, got %v", areas)
	}

	areas := AllowedAreas(copywritingUser())
	if len(areas) != 1 || areas[0] != "copywriting" {
		t.Fatalf("expected single copywriting area, got %v", areas)
	}

	nobody := AllowedAreas(&models.User{ID: 9, Role: models.RoleCollaborator})
	if nobody == nil || len(nobody) != 0 {
		t.Fatalf("expected empty non-nil set for a user without flags, got %v", nobody)
	}
}
