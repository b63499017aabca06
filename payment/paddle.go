package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
	"github.com/PaddleHQ/paddle-go-sdk/v4/pkg/paddleerr"
)

// PaddleConfig holds configuration for the Paddle provider client.
type PaddleConfig struct {
	APIKey      string `env:"PADDLE_API_KEY,required"`
	Environment string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
}

// PaddleProvider implements Provider against the Paddle API.
type PaddleProvider struct {
	client *paddle.SDK
}

// NewPaddleProvider creates a Paddle-backed Provider.
func NewPaddleProvider(cfg PaddleConfig) (*PaddleProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	var client *paddle.SDK
	var err error

	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		client, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("invalid paddle environment: %s", cfg.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle client: %w", err)
	}

	return &PaddleProvider{client: client}, nil
}

// ListCompletedTransactions pages through completed Paddle transactions and
// keeps those whose completion timestamp falls inside [from, to). The lower
// bound is pushed down as a billed_at filter so the listing does not walk the
// whole ledger history; the client-side check stays authoritative for both
// bounds.
func (p *PaddleProvider) ListCompletedTransactions(ctx context.Context, from, to time.Time) ([]Transaction, error) {
	res, err := p.client.TransactionsClient.ListTransactions(ctx, &paddle.ListTransactionsRequest{
		Status:   []string{string(paddle.TransactionStatusCompleted)},
		BilledAt: paddle.PtrTo(billedAtFilter(from)),
	})
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}

	var out []Transaction
	err = res.Iter(ctx, func(txn *paddle.Transaction) (bool, error) {
		tx := fromPaddleTransaction(txn)
		if tx.CompletedAt.Before(from) || !tx.CompletedAt.Before(to) {
			return true, nil
		}
		out = append(out, tx)
		return true, nil
	})
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}

	return out, nil
}

// GetTransaction fetches a single transaction by id.
func (p *PaddleProvider) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	txn, err := p.client.TransactionsClient.GetTransaction(ctx, &paddle.GetTransactionRequest{
		TransactionID: id,
	})
	if err != nil {
		return nil, mapTransactionError(err, id)
	}

	tx := fromPaddleTransaction(txn)
	return &tx, nil
}

// mapTransactionError translates provider API failures into the engine's
// taxonomy: request-level rejections mean the id does not resolve to a
// transaction, everything else is the provider being unreachable.
func mapTransactionError(err error, id string) error {
	var apiErr *paddleerr.Error
	if errors.As(err, &apiErr) && apiErr.Type == paddleerr.ErrorTypeRequestError {
		return fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
	}
	return errors.Join(ErrProviderUnavailable, err)
}

// billedAtFilter is the listing's lower-bound filter value in the provider's
// comparator syntax.
func billedAtFilter(from time.Time) string {
	return "[GTE]" + from.UTC().Format(time.RFC3339)
}

// fromPaddleTransaction maps the SDK transaction into the engine's read-only
// record. Missing totals or timestamps produce zero values rather than
// errors; downstream validation decides what is usable.
func fromPaddleTransaction(txn *paddle.Transaction) Transaction {
	tx := Transaction{
		ID:       txn.ID,
		Status:   TransactionStatus(txn.Status),
		Metadata: stringMetadata(txn.CustomData),
	}

	tx.Currency = string(txn.Details.Totals.CurrencyCode)
	if raw := txn.Details.Totals.GrandTotal; raw != "" {
		if amount, err := strconv.ParseInt(raw, 10, 64); err == nil {
			tx.Amount = amount
		}
	}

	if txn.BilledAt != nil {
		if at, err := time.Parse(time.RFC3339, *txn.BilledAt); err == nil {
			tx.CompletedAt = at
		}
	}

	return tx
}
