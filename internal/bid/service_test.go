package bid

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
	"github.com/MrJusticeShai/odd-handyman-api/internal/task"
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

	if err := db.AutoMigrate(&auth.User{}, &task.Task{}, &Bid{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newService(db *gorm.DB) BidService {
	return NewBidService(db, NewRepository(db), task.NewRepository(db), auth.NewRepository(db), nil)
}

func createUser(t *testing.T, db *gorm.DB, role auth.Role) auth.User {
	t.Helper()
	u := auth.User{
		ID:           uuid.New(),
		Name:         "user " + uuid.NewString()[:8],
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

func createTask(t *testing.T, db *gorm.DB, customerID uuid.UUID, status task.Status) task.Task {
	t.Helper()
	tk := task.Task{
		ID:         uuid.New(),
		Title:      "fix the sink",
		Budget:     100,
		Status:     status,
		CustomerID: customerID,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := db.Create(&tk).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return tk
}

func TestPlaceBid(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(db)

	customer := createUser(t, db, auth.RoleCustomer)
	handyman := createUser(t, db, auth.RoleHandyman)

	t.Run("success", func(t *testing.T) {
		tk := createTask(t, db, customer.ID, task.StatusPending)

		b, err := svc.PlaceBid(ctx, tk.ID, handyman.ID, 80)
		if err != nil {
			t.Fatalf("PlaceBid() error = %v", err)
		}
		if b.Status != StatusPending {
			t.Errorf("expected status PENDING, got %s", b.Status)
		}
		if b.TaskID != tk.ID || b.HandymanID != handyman.ID {
			t.Errorf("bid references wrong task or handyman")
		}
	})

	t.Run("task not found", func(t *testing.T) {
		_, err := svc.PlaceBid(ctx, uuid.New(), handyman.ID, 80)
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("handyman not found", func(t *testing.T) {
		tk := createTask(t, db, customer.ID, task.StatusPending)
		_, err := svc.PlaceBid(ctx, tk.ID, uuid.New(), 80)
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("negative amount", func(t *testing.T) {
		tk := createTask(t, db, customer.ID, task.StatusPending)
		_, err := svc.PlaceBid(ctx, tk.ID, handyman.ID, -1)
		if !apperr.IsKind(err, apperr.KindInvalidArgument) {
			t.Errorf("expected InvalidArgument, got %v", err)
		}
	})

	t.Run("non-pending task", func(t *testing.T) {
		for _, status := range []task.Status{task.StatusAssigned, task.StatusCompleted, task.StatusCancelled} {
			tk := createTask(t, db, customer.ID, status)
			_, err := svc.PlaceBid(ctx, tk.ID, handyman.ID, 80)
			if !apperr.IsKind(err, apperr.KindInvalidState) {
				t.Errorf("status %s: expected InvalidState, got %v", status, err)
			}
		}
	})

	t.Run("same handyman may bid twice", func(t *testing.T) {
		tk := createTask(t, db, customer.ID, task.StatusPending)
		if _, err := svc.PlaceBid(ctx, tk.ID, handyman.ID, 80); err != nil {
			t.Fatalf("first bid: %v", err)
		}
		if _, err := svc.PlaceBid(ctx, tk.ID, handyman.ID, 70); err != nil {
			t.Fatalf("second bid: %v", err)
		}
	})
}

func TestListBidsForTask(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(db)

	customer := createUser(t, db, auth.RoleCustomer)
	h1 := createUser(t, db, auth.RoleHandyman)
	h2 := createUser(t, db, auth.RoleHandyman)
	tk := createTask(t, db, customer.ID, task.StatusPending)

	first, err := svc.PlaceBid(ctx, tk.ID, h1.ID, 100)
	if err != nil {
		t.Fatalf("PlaceBid() error = %v", err)
	}
	// Spread creation times so ordering is observable
	if err := db.Model(&Bid{}).Where("id = ?", first.ID).
		Update("created_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("failed to backdate bid: %v", err)
	}
	second, err := svc.PlaceBid(ctx, tk.ID, h2.ID, 80)
	if err != nil {
		t.Fatalf("PlaceBid() error = %v", err)
	}

	bids, err := svc.ListBidsForTask(ctx, tk.ID)
	if err != nil {
		t.Fatalf("ListBidsForTask() error = %v", err)
	}
	if len(bids) != 2 {
		t.Fatalf("expected 2 bids, got %d", len(bids))
	}
	if bids[0].ID != first.ID || bids[1].ID != second.ID {
		t.Errorf("bids not in creation order")
	}

	t.Run("task not found", func(t *testing.T) {
		_, err := svc.ListBidsForTask(ctx, uuid.New())
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestAcceptBid(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(db)

	customer := createUser(t, db, auth.RoleCustomer)
	h1 := createUser(t, db, auth.RoleHandyman)
	h2 := createUser(t, db, auth.RoleHandyman)
	h3 := createUser(t, db, auth.RoleHandyman)

	t.Run("accept rejects pending siblings and assigns the task", func(t *testing.T) {
		tk := createTask(t, db, customer.ID, task.StatusPending)
		b1, _ := svc.PlaceBid(ctx, tk.ID, h1.ID, 100)
		b2, _ := svc.PlaceBid(ctx, tk.ID, h2.ID, 80)
		b3, _ := svc.PlaceBid(ctx, tk.ID, h3.ID, 90)

		// b3 already out of the running
		if _, err := svc.RejectBid(ctx, b3.ID); err != nil {
			t.Fatalf("RejectBid() error = %v", err)
		}

		accepted, err := svc.AcceptBid(ctx, b2.ID)
		if err != nil {
			t.Fatalf("AcceptBid() error = %v", err)
		}
		if accepted.Status != StatusAccepted {
			t.Errorf("expected ACCEPTED, got %s", accepted.Status)
		}

		var got Bid
		if err := db.First(&got, "id = ?", b1.ID).Error; err != nil {
			t.Fatalf("load sibling: %v", err)
		}
		if got.Status != StatusRejected {
			t.Errorf("sibling expected REJECTED, got %s", got.Status)
		}

		// Fresh destination: got already carries b1's primary key, which
		// GORM would add as an extra query condition.
		var got3 Bid
		if err := db.First(&got3, "id = ?", b3.ID).Error; err != nil {
			t.Fatalf("load rejected sibling: %v", err)
		}
		if got3.Status != StatusRejected {
			t.Errorf("pre-rejected sibling expected REJECTED, got %s", got3.Status)
		}

		var gotTask task.Task
		if err := db.First(&gotTask, "id = ?", tk.ID).Error; err != nil {
			t.Fatalf("load task: %v", err)
		}
		if gotTask.Status != task.StatusAssigned {
			t.Errorf("task expected ASSIGNED, got %s", gotTask.Status)
		}
		if gotTask.AssignedHandymanID == nil || *gotTask.AssignedHandymanID != h2.ID {
			t.Errorf("task not assigned to accepted bidder")
		}

		var acceptedCount int64
		if err := db.Model(&Bid{}).Where("task_id = ? AND status = ?", tk.ID, StatusAccepted).Count(&acceptedCount).Error; err != nil {
			t.Fatalf("count accepted: %v", err)
		}
		if acceptedCount != 1 {
			t.Errorf("expected exactly 1 accepted bid, got %d", acceptedCount)
		}
	})

	t.Run("bid not found", func(t *testing.T) {
		_, err := svc.AcceptBid(ctx, uuid.New())
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("second accept on the same task fails", func(t *testing.T) {
		tk := createTask(t, db, customer.ID, task.StatusPending)
		b1, _ := svc.PlaceBid(ctx, tk.ID, h1.ID, 100)
		b2, _ := svc.PlaceBid(ctx, tk.ID, h2.ID, 80)

		if _, err := svc.AcceptBid(ctx, b1.ID); err != nil {
			t.Fatalf("first accept: %v", err)
		}
		_, err := svc.AcceptBid(ctx, b2.ID)
		if !apperr.IsKind(err, apperr.KindInvalidState) {
			t.Errorf("expected InvalidState, got %v", err)
		}

		// The loser's transaction must not have clobbered anything
		var gotTask task.Task
		if err := db.First(&gotTask, "id = ?", tk.ID).Error; err != nil {
			t.Fatalf("load task: %v", err)
		}
		if gotTask.AssignedHandymanID == nil || *gotTask.AssignedHandymanID != h1.ID {
			t.Errorf("assignment changed by failed accept")
		}
		var gotBid Bid
		if err := db.First(&gotBid, "id = ?", b2.ID).Error; err != nil {
			t.Fatalf("load bid: %v", err)
		}
		if gotBid.Status != StatusRejected {
			t.Errorf("losing bid expected REJECTED, got %s", gotBid.Status)
		}
	})
}

func TestRejectBid(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(db)

	customer := createUser(t, db, auth.RoleCustomer)
	handyman := createUser(t, db, auth.RoleHandyman)
	tk := createTask(t, db, customer.ID, task.StatusPending)

	t.Run("reject pending bid", func(t *testing.T) {
		b, _ := svc.PlaceBid(ctx, tk.ID, handyman.ID, 50)
		rejected, err := svc.RejectBid(ctx, b.ID)
		if err != nil {
			t.Fatalf("RejectBid() error = %v", err)
		}
		if rejected.Status != StatusRejected {
			t.Errorf("expected REJECTED, got %s", rejected.Status)
		}
	})

	t.Run("reject is unconditional, even on an accepted bid", func(t *testing.T) {
		b, _ := svc.PlaceBid(ctx, tk.ID, handyman.ID, 60)
		if _, err := svc.AcceptBid(ctx, b.ID); err != nil {
			t.Fatalf("AcceptBid() error = %v", err)
		}
		rejected, err := svc.RejectBid(ctx, b.ID)
		if err != nil {
			t.Fatalf("RejectBid() error = %v", err)
		}
		if rejected.Status != StatusRejected {
			t.Errorf("expected REJECTED, got %s", rejected.Status)
		}
	})

	t.Run("bid not found", func(t *testing.T) {
		_, err := svc.RejectBid(ctx, uuid.New())
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}
