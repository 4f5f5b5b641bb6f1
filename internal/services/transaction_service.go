package services

import (
	"context"
	"fmt"

	"director/internal/amqp"
	"director/internal/core"
	"director/internal/log"
	"director/internal/records"
)

type TransactionStore interface {
	records.TransactionLister
	records.TransactionWriter
}

type TransactionService struct {
	store TransactionStore
	notifier
}

// NewTransactionService wires the store with optional publisher and cache
// invalidator; either may be nil.
func NewTransactionService(store TransactionStore, pub Publisher, inv Invalidator) *TransactionService {
	return &TransactionService{
		store: store,
		notifier: notifier{
			publisher:   pub,
			invalidator: inv,
			logger:      log.Default().WithComponent(log.ComponentLedger),
		},
	}
}

func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Create validates and stores tx; the returned value carries the new ID.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	saved, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction created",
		log.NewFields().WithTransaction(saved.ID, string(saved.Type), saved.Amount.String(), saved.Category).ToSlice()...)
	s.changed(ctx, amqp.TransactionCreated, saved.ID)
	return saved, nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldRecordID, id)
	s.changed(ctx, amqp.TransactionDeleted, id)
	return nil
}
