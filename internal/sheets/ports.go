package sheets

import (
	"context"

	"github.com/joaovitorrios/gerenciador-gastos/internal/core"
)

// TransactionAppender writes transaction rows to an external sheet.
type TransactionAppender interface {
	AppendTransaction(ctx context.Context, tx core.Transaction, userEmail string) error
}
