package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joaovitorrios/gerenciador-gastos/internal/amqp"
	"github.com/joaovitorrios/gerenciador-gastos/internal/cache"
	"github.com/joaovitorrios/gerenciador-gastos/internal/core"
	"github.com/joaovitorrios/gerenciador-gastos/internal/storage"
)

const (
	summaryCacheSize = 1024
	summaryCacheTTL  = 30 * time.Second
)

// TransactionService orchestrates transaction operations across SQLite and AMQP.
// The AMQP client is optional, without it events are simply skipped.
// Dashboard summaries are cached per user and invalidated on every write.
type TransactionService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	summaries  *cache.LRUCache[core.Summary]
}

func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *TransactionService {
	summaries := cache.NewLRUCache[core.Summary](summaryCacheSize, summaryCacheTTL)
	summaries.StartJanitor(time.Minute)
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
		summaries:  summaries,
	}
}

// Create validates and saves a transaction, then publishes a change event.
// Event publishing is best effort, a broker failure never fails the request.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.storage.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.summaries.Delete(created.UserID)
	s.publishEvent(ctx, amqp.ActionCreated, created.ID, created.UserID)

	return created, nil
}

func (s *TransactionService) List(ctx context.Context, userID string, filter core.TransactionFilter) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx, userID, filter)
}

func (s *TransactionService) Get(ctx context.Context, id, userID string) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, id, userID)
}

func (s *TransactionService) Update(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	updated, err := s.storage.UpdateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, err
	}

	s.summaries.Delete(updated.UserID)
	s.publishEvent(ctx, amqp.ActionUpdated, updated.ID, updated.UserID)

	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, id, userID string) error {
	if err := s.storage.DeleteTransaction(ctx, id, userID); err != nil {
		return err
	}

	s.summaries.Delete(userID)
	s.publishEvent(ctx, amqp.ActionDeleted, id, userID)

	return nil
}

// Dashboard aggregates every transaction of the user into a summary.
// Summaries are served from cache when a recent one exists.
func (s *TransactionService) Dashboard(ctx context.Context, userID string) (core.Summary, error) {
	if summary, ok := s.summaries.Get(userID); ok {
		return summary, nil
	}

	transactions, err := s.storage.ListTransactions(ctx, userID, core.TransactionFilter{})
	if err != nil {
		return core.Summary{}, fmt.Errorf("list transactions for dashboard: %w", err)
	}

	summary := core.Summarize(transactions)
	// A write between the list and this Set can reinstate a stale summary;
	// the TTL bounds how long it survives.
	s.summaries.Set(userID, summary)
	return summary, nil
}

func (s *TransactionService) publishEvent(ctx context.Context, action, id, userID string) {
	if s.amqpClient == nil {
		return
	}

	if err := s.amqpClient.PublishTransactionEvent(ctx, action, id, userID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"action", action, "id", id, "error", err)
		// Don't fail the request, the transaction is saved locally
	}
}

// Close closes both storage and AMQP connections
func (s *TransactionService) Close() error {
	var errs []error

	if s.summaries != nil {
		s.summaries.Stop()
	}

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}
