// Package txn runs multi-document work in a MongoDB transaction, falling
// back to plain execution when the server cannot do transactions (standalone
// dev instances). The achievement grant path depends on this: all four grant
// effects must commit together wherever transactions are available.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"
)

// WithTransaction runs fn inside a session transaction with majority
// read/write concerns. If the server rejects transactions outright, fn is
// re-run once outside a transaction; that loses atomicity, so it is logged
// loudly rather than hidden.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			zap.L().Warn("mongo sessions unavailable; running multi-document update without a transaction")
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	opts := options.Transaction().
		SetReadConcern(readconcern.Majority()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, opts)
	if err != nil && IsNotSupported(err) {
		zap.L().Warn("mongo transactions unsupported; running multi-document update without a transaction",
			zap.Error(err))
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err indicates the server cannot run
// transactions at all (as opposed to a transient or application error).
// Covers the command error codes Mongo returns on standalone deployments
// plus the message shapes older servers and DocumentDB emit.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263: // IllegalOperation variants for txns outside replica sets
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	has := func(s string) bool { return strings.Contains(msg, s) }
	if has("transaction") && (has("replica set") || has("session") || has("illegal operation")) {
		return true
	}
	if has("session") && has("not supported") {
		return true
	}
	return false
}
