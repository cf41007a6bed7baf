package mongo

import (
	"context"
	"fmt"

	apperrors "studio/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// TransactionFunc runs inside a transaction. The context carries the session;
// every store call made with it joins the transaction.
type TransactionFunc func(ctx context.Context) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
	policy RetryPolicy
}

func NewTransactionManager(client *mongo.Client, policy RetryPolicy) TransactionManager {
	return &mongoTransactionManager{
		client: client,
		policy: policy,
	}
}

// InTransaction reports whether ctx belongs to an open session.
func InTransaction(ctx context.Context) bool {
	return mongo.SessionFromContext(ctx) != nil
}

func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	err := m.policy.Run(ctx, func(ctx context.Context) error {
		return m.runOnce(ctx, fn)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func (m *mongoTransactionManager) runOnce(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(context.WithoutCancel(ctx))

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	return mongo.WithSession(ctx, session, func(sessCtx mongo.SessionContext) error {
		if err := session.StartTransaction(txnOpts); err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}

		if err := fn(sessCtx); err != nil {
			_ = session.AbortTransaction(context.WithoutCancel(sessCtx))
			return err
		}

		return m.commit(sessCtx, session)
	})
}

// commit retries only the commit while its outcome is unknown.
func (m *mongoTransactionManager) commit(ctx context.Context, session mongo.Session) error {
	var err error
	for n := 0; n < max(m.policy.MaxAttempts, 1); n++ {
		err = session.CommitTransaction(ctx)
		if err == nil || !hasErrorLabel(err, labelUnknownCommitResult) || ctx.Err() != nil {
			return err
		}
	}
	return err
}
