// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lib/pq"
)

var (
	pingMaxElapsedTime  = 30 * time.Second
	pingInitialInterval = 500 * time.Millisecond
	pingMaxInterval     = 5 * time.Second
	pingMaxRetries      = uint64(8)
)

// isRetryable reports whether a connection error may go away on its own,
// such as a PostgreSQL server that is still starting.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code.Class() == "08": // connection_exception
			return true
		case pqErr.Code == "57P03": // cannot_connect_now
			return true
		}
		return false
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// pingWithRetry pings the database, backing off exponentially while the
// error is retryable.
func pingWithRetry(ctx context.Context, conn *sql.DB) error {
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(pingMaxElapsedTime),
		backoff.WithInitialInterval(pingInitialInterval),
		backoff.WithMaxInterval(pingMaxInterval),
	), pingMaxRetries)

	return backoff.Retry(func() error {
		err := conn.PingContext(ctx)
		if err != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx))
}
