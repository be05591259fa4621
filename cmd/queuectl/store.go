package main

import (
	"context"

	"github.com/ad1ttyya/queuectl/store"
)

// openStore opens the store at dbPath, applying pending migrations, and
// returns it alongside a close function. Every control-surface command
// is a short-lived process, so each Action opens its own handle rather
// than sharing one across invocations.
func openStore(ctx context.Context) (*store.Store, func() error, error) {
	db, err := store.Open(ctx, dbPath())
	if err != nil {
		return nil, nil, err
	}
	return store.New(db), db.Close, nil
}
