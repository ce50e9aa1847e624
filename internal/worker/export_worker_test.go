package worker

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/joaovitorrios/gerenciador-gastos/internal/amqp"
	"github.com/joaovitorrios/gerenciador-gastos/internal/core"
	"github.com/joaovitorrios/gerenciador-gastos/internal/storage"
)

type fakeAppender struct {
	rows []struct {
		tx    core.Transaction
		email string
	}
	err error
}

func (f *fakeAppender) AppendTransaction(ctx context.Context, tx core.Transaction, userEmail string) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, struct {
		tx    core.Transaction
		email string
	}{tx, userEmail})
	return nil
}

func setup(t *testing.T) (*storage.SQLiteRepository, *fakeAppender, *ExportWorker) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	appender := &fakeAppender{}
	return repo, appender, NewExportWorker(repo, appender)
}

func TestExportWorker_HandleCreatedEvent(t *testing.T) {
	repo, appender, w := setup(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "maria@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	tx, err := repo.CreateTransaction(ctx, core.Transaction{
		UserID:      user.ID,
		Description: "Aluguel",
		Amount:      core.Money{Cents: 120000},
		Date:        core.NewDate(2023, 6, 5),
		Category:    "Moradia",
		Type:        core.Expense,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	event := amqp.NewTransactionEvent(amqp.ActionCreated, tx.ID, user.ID)
	if err := w.HandleEvent(ctx, event); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	if len(appender.rows) != 1 {
		t.Fatalf("appended rows = %d, want 1", len(appender.rows))
	}
	if appender.rows[0].tx.Description != "Aluguel" || appender.rows[0].email != "maria@example.com" {
		t.Errorf("appended row = %+v", appender.rows[0])
	}
}

func TestExportWorker_SkipsNonCreateEvents(t *testing.T) {
	_, appender, w := setup(t)
	ctx := context.Background()

	for _, action := range []string{amqp.ActionUpdated, amqp.ActionDeleted} {
		event := amqp.NewTransactionEvent(action, "tx-1", "user-1")
		if err := w.HandleEvent(ctx, event); err != nil {
			t.Errorf("HandleEvent(%s) error = %v", action, err)
		}
	}
	if len(appender.rows) != 0 {
		t.Errorf("appended rows = %d, want 0", len(appender.rows))
	}
}

func TestExportWorker_MissingTransactionIsNotAnError(t *testing.T) {
	repo, appender, w := setup(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "maria@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	// Event for a record already deleted from storage
	event := amqp.NewTransactionEvent(amqp.ActionCreated, "gone", user.ID)
	if err := w.HandleEvent(ctx, event); err != nil {
		t.Fatalf("HandleEvent() error = %v, want nil for vanished record", err)
	}
	if len(appender.rows) != 0 {
		t.Errorf("appended rows = %d, want 0", len(appender.rows))
	}
}
