package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joaovitorrios/gerenciador-gastos/internal/amqp"
	"github.com/joaovitorrios/gerenciador-gastos/internal/core"
	"github.com/joaovitorrios/gerenciador-gastos/internal/sheets"
	"github.com/joaovitorrios/gerenciador-gastos/internal/storage"
)

// ExportWorker mirrors created transactions into a spreadsheet. It consumes
// transaction events, loads the current record from SQLite and appends a row.
type ExportWorker struct {
	storage  *storage.SQLiteRepository
	appender sheets.TransactionAppender
}

func NewExportWorker(storage *storage.SQLiteRepository, appender sheets.TransactionAppender) *ExportWorker {
	return &ExportWorker{
		storage:  storage,
		appender: appender,
	}
}

// HandleEvent processes a single transaction event. Deleted and updated
// records are logged and skipped, the export sheet is append-only.
func (w *ExportWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"action", event.Action,
		"id", event.ID,
		"user_id", event.UserID)

	if event.Action != amqp.ActionCreated {
		slog.InfoContext(ctx, "Skipping non-create event", "action", event.Action, "id", event.ID)
		return nil
	}

	tx, err := w.storage.GetTransaction(ctx, event.ID, event.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Record was deleted before the event was consumed
			slog.WarnContext(ctx, "Transaction gone before export", "id", event.ID)
			return nil
		}
		return fmt.Errorf("load transaction: %w", err)
	}

	user, err := w.storage.GetUserByID(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("load transaction owner: %w", err)
	}

	if err := w.appender.AppendTransaction(ctx, tx, user.Email); err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction exported",
		"id", tx.ID,
		"description", tx.Description,
		"amount_cents", tx.Amount.Cents)

	return nil
}
