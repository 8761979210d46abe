package templates

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/grandparser/backend/internal/database/dbtest"
	"github.com/grandparser/backend/internal/models"
)

func TestVisibilityScoping(t *testing.T) {
	db := dbtest.Open(t, &models.User{}, &models.Template{})
	ctx := context.Background()
	svc := NewService(db)

	alice := &models.User{SubjectID: "subj_alice", Email: "alice@example.com"}
	bob := &models.User{SubjectID: "subj_bob", Email: "bob@example.com"}
	for _, u := range []*models.User{alice, bob} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	t.Run("empty registry is an empty array", func(t *testing.T) {
		out, err := svc.ListVisible(ctx, alice)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if out == nil {
			t.Fatal("empty registry returned a nil slice")
		}
		b, err := json.Marshal(out)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(b) != "[]" {
			t.Errorf("empty registry marshals as %s, want []", b)
		}
	})

	private, err := svc.Create(ctx, bob, CreateRequest{
		Name:           "Bob receipts",
		Description:    "Receipts only Bob should see",
		LevelOfDetails: "detailed",
	})
	if err != nil {
		t.Fatalf("create private template: %v", err)
	}

	public := models.Template{Name: "Invoices", IsPublic: true}
	if err := db.Create(&public).Error; err != nil {
		t.Fatalf("seed public template: %v", err)
	}

	t.Run("private templates stay hidden", func(t *testing.T) {
		out, err := svc.ListVisible(ctx, alice)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(out) != 1 || out[0].ID != public.ID {
			t.Errorf("alice sees %d templates, want only the public one", len(out))
		}

		if _, err := svc.Get(ctx, private.ID, alice); !errors.Is(err, ErrNotFound) {
			t.Errorf("get of another user's private template = %v, want ErrNotFound", err)
		}
	})

	t.Run("owner sees public and own, public first", func(t *testing.T) {
		out, err := svc.ListVisible(ctx, bob)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("bob sees %d templates, want 2", len(out))
		}
		if out[0].ID != public.ID || out[1].ID != private.ID {
			t.Error("public template not ordered first")
		}

		got, err := svc.Get(ctx, private.ID, bob)
		if err != nil {
			t.Fatalf("get own template: %v", err)
		}
		if got.CreatedBy == nil || *got.CreatedBy != bob.ID {
			t.Errorf("created_by = %v, want %q", got.CreatedBy, bob.ID)
		}
	})
}

// Validation runs before any database access, so a nil-DB service is
// enough to exercise the rejection paths.
func TestCreateValidation(t *testing.T) {
	svc := NewService(nil)

	tests := []struct {
		name    string
		req     CreateRequest
		wantMsg string
	}{
		{
			name:    "missing name",
			req:     CreateRequest{Description: "d", LevelOfDetails: "basic"},
			wantMsg: "Template name is required",
		},
		{
			name:    "missing description",
			req:     CreateRequest{Name: "Invoices", LevelOfDetails: "basic"},
			wantMsg: "Description is required",
		},
		{
			name:    "missing level of details",
			req:     CreateRequest{Name: "Invoices", Description: "d"},
			wantMsg: "Level of details is required",
		},
		{
			name: "name too long",
			req: CreateRequest{
				Name:           strings.Repeat("x", 101),
				Description:    "d",
				LevelOfDetails: "basic",
			},
			wantMsg: "Template name must be at most 100 characters",
		},
		{
			name: "description too long",
			req: CreateRequest{
				Name:           "Invoices",
				Description:    strings.Repeat("x", 501),
				LevelOfDetails: "basic",
			},
			wantMsg: "Description must be at most 500 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), nil, tt.req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if verr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", verr.Message, tt.wantMsg)
			}
		})
	}
}
