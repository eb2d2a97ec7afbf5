package task

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MrJusticeShai/odd-handyman-api/internal/apperr"
	"github.com/MrJusticeShai/odd-handyman-api/internal/auth"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&auth.User{}, &Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func seedTask(t *testing.T, db *gorm.DB, customerID uuid.UUID, status Status, assignee *uuid.UUID) Task {
	t.Helper()
	tk := Task{
		ID:                 uuid.New(),
		Title:              "paint the fence",
		Budget:             150,
		Status:             status,
		CustomerID:         customerID,
		AssignedHandymanID: assignee,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	if err := db.Create(&tk).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return tk
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewTaskService(NewRepository(db), nil)

	customerID := uuid.New()
	deadline := time.Now().Add(72 * time.Hour)

	t.Run("success", func(t *testing.T) {
		tk, err := svc.CreateTask(ctx, customerID, auth.RoleCustomer, "fix the sink", "leaking", "12 Main St", 100, deadline)
		if err != nil {
			t.Fatalf("CreateTask() error = %v", err)
		}
		if tk.Status != StatusPending {
			t.Errorf("expected PENDING, got %s", tk.Status)
		}
		if tk.AssignedHandymanID != nil {
			t.Errorf("new task must not have an assignee")
		}
		if tk.CustomerID != customerID {
			t.Errorf("customer not recorded")
		}
	})

	t.Run("only customers can create", func(t *testing.T) {
		_, err := svc.CreateTask(ctx, uuid.New(), auth.RoleHandyman, "fix the sink", "", "", 100, deadline)
		if !apperr.IsKind(err, apperr.KindForbidden) {
			t.Errorf("expected Forbidden, got %v", err)
		}
	})

	t.Run("title required", func(t *testing.T) {
		_, err := svc.CreateTask(ctx, customerID, auth.RoleCustomer, "   ", "", "", 100, deadline)
		if !apperr.IsKind(err, apperr.KindInvalidArgument) {
			t.Errorf("expected InvalidArgument, got %v", err)
		}
	})

	t.Run("budget must be non-negative", func(t *testing.T) {
		_, err := svc.CreateTask(ctx, customerID, auth.RoleCustomer, "fix the sink", "", "", -5, deadline)
		if !apperr.IsKind(err, apperr.KindInvalidArgument) {
			t.Errorf("expected InvalidArgument, got %v", err)
		}
	})
}

func TestCompleteTask(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewTaskService(NewRepository(db), nil)

	customerID := uuid.New()
	handymanID := uuid.New()

	t.Run("assigned handyman completes", func(t *testing.T) {
		tk := seedTask(t, db, customerID, StatusAssigned, &handymanID)
		got, err := svc.CompleteTask(ctx, tk.ID, handymanID)
		if err != nil {
			t.Fatalf("CompleteTask() error = %v", err)
		}
		if got.Status != StatusCompleted {
			t.Errorf("expected COMPLETED, got %s", got.Status)
		}

		var reloaded Task
		if err := db.First(&reloaded, "id = ?", tk.ID).Error; err != nil {
			t.Fatalf("reload task: %v", err)
		}
		if reloaded.Status != StatusCompleted {
			t.Errorf("persisted status = %s, want COMPLETED", reloaded.Status)
		}
		if reloaded.AssignedHandymanID == nil || *reloaded.AssignedHandymanID != handymanID {
			t.Errorf("assignee must survive completion")
		}
	})

	t.Run("someone else is forbidden", func(t *testing.T) {
		tk := seedTask(t, db, customerID, StatusAssigned, &handymanID)
		_, err := svc.CompleteTask(ctx, tk.ID, uuid.New())
		if !apperr.IsKind(err, apperr.KindForbidden) {
			t.Errorf("expected Forbidden, got %v", err)
		}
	})

	t.Run("unassigned task is forbidden for everyone", func(t *testing.T) {
		tk := seedTask(t, db, customerID, StatusPending, nil)
		_, err := svc.CompleteTask(ctx, tk.ID, handymanID)
		if !apperr.IsKind(err, apperr.KindForbidden) {
			t.Errorf("expected Forbidden, got %v", err)
		}
	})

	t.Run("task not found", func(t *testing.T) {
		_, err := svc.CompleteTask(ctx, uuid.New(), handymanID)
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestCancelTask(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewTaskService(NewRepository(db), nil)

	customerID := uuid.New()

	t.Run("customer cancels a pending task", func(t *testing.T) {
		tk := seedTask(t, db, customerID, StatusPending, nil)
		got, err := svc.CancelTask(ctx, tk.ID, customerID)
		if err != nil {
			t.Fatalf("CancelTask() error = %v", err)
		}
		if got.Status != StatusCancelled {
			t.Errorf("expected CANCELLED, got %s", got.Status)
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		tk := seedTask(t, db, customerID, StatusPending, nil)
		_, err := svc.CancelTask(ctx, tk.ID, uuid.New())
		if !apperr.IsKind(err, apperr.KindForbidden) {
			t.Errorf("expected Forbidden, got %v", err)
		}
	})

	t.Run("assigned task cannot be cancelled", func(t *testing.T) {
		assignee := uuid.New()
		tk := seedTask(t, db, customerID, StatusAssigned, &assignee)
		_, err := svc.CancelTask(ctx, tk.ID, customerID)
		if !apperr.IsKind(err, apperr.KindInvalidState) {
			t.Errorf("expected InvalidState, got %v", err)
		}
	})
}

func TestTasksForUser(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewTaskService(NewRepository(db), nil)

	customerID := uuid.New()
	otherCustomerID := uuid.New()
	handymanID := uuid.New()

	mine := seedTask(t, db, customerID, StatusPending, nil)
	open := seedTask(t, db, otherCustomerID, StatusPending, nil)
	assigned := seedTask(t, db, otherCustomerID, StatusAssigned, &handymanID)
	completed := seedTask(t, db, otherCustomerID, StatusCompleted, &handymanID)
	otherAssignee := uuid.New()
	seedTask(t, db, otherCustomerID, StatusAssigned, &otherAssignee)

	t.Run("customer sees own tasks", func(t *testing.T) {
		tasks, err := svc.TasksForUser(ctx, customerID, auth.RoleCustomer)
		if err != nil {
			t.Fatalf("TasksForUser() error = %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != mine.ID {
			t.Errorf("expected only the customer's task, got %d tasks", len(tasks))
		}
	})

	t.Run("handyman sees open plus own assigned and completed", func(t *testing.T) {
		tasks, err := svc.TasksForUser(ctx, handymanID, auth.RoleHandyman)
		if err != nil {
			t.Fatalf("TasksForUser() error = %v", err)
		}
		want := map[uuid.UUID]bool{mine.ID: true, open.ID: true, assigned.ID: true, completed.ID: true}
		if len(tasks) != len(want) {
			t.Fatalf("expected %d tasks, got %d", len(want), len(tasks))
		}
		for _, tk := range tasks {
			if !want[tk.ID] {
				t.Errorf("unexpected task %s in handyman listing", tk.ID)
			}
		}
	})
}
