package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"
	apperrors "villa/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	transientTransactionLabel = "TransientTransactionError"
	maxCommitTime             = 5 * time.Second
)

type TransactionFunc func(ctx mongo.SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
	opts   *options.TransactionOptions
}

// NewTransactionManager runs callbacks in snapshot reads with majority
// writes, so an availability check and the write it guards commit together.
func NewTransactionManager(client *mongo.Client) TransactionManager {
	commit := maxCommitTime
	return &mongoTransactionManager{
		client: client,
		opts: options.Transaction().
			SetReadConcern(readconcern.Snapshot()).
			SetWriteConcern(writeconcern.Majority()).
			SetMaxCommitTime(&commit),
	}
}

func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	}, m.opts)
	return classifyTransactionError(err)
}

// classifyTransactionError keeps AppErrors raised by the callback and turns a
// write conflict the driver gave up retrying into a CONFLICT.
func classifyTransactionError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case IsTransientTransactionError(err):
		return apperrors.Wrap(err, apperrors.CodeConflict, "The booking calendar changed while saving, please retry")
	default:
		return fmt.Errorf("transaction failed: %w", err)
	}
}

func IsTransientTransactionError(err error) bool {
	var labeled interface{ HasErrorLabel(string) bool }
	return errors.As(err, &labeled) && labeled.HasErrorLabel(transientTransactionLabel)
}
