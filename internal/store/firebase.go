package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"portal/internal/config"
)

// App bundles the clients built from one Firebase credential set. The set is
// assembled once at process start and the handles are reused, read-only, for
// the life of the process.
type App struct {
	RTDB      *RTDB
	Messaging *messaging.Client
	Firestore *firestore.Client
}

// NewApp initializes the Firebase SDK and the database, messaging and
// Firestore clients.
func NewApp(ctx context.Context, cfg config.App) (*App, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:   cfg.ProjectID,
		DatabaseURL: cfg.DatabaseURL,
	}, option.WithCredentialsJSON(cfg.ServiceAccountJSON()))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	database, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("init realtime database client: %w", err)
	}
	msg, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init messaging client: %w", err)
	}
	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firestore client: %w", err)
	}

	return &App{
		RTDB:      &RTDB{client: database},
		Messaging: msg,
		Firestore: fs,
	}, nil
}

// Close releases the clients that hold network resources.
func (a *App) Close() error {
	if a == nil || a.Firestore == nil {
		return nil
	}
	return a.Firestore.Close()
}

// RTDB adapts the Realtime Database client to the Store interface.
type RTDB struct {
	client *db.Client
}

func (s *RTDB) Get(ctx context.Context, path string, dest any) error {
	return s.client.NewRef(path).Get(ctx, dest)
}

func (s *RTDB) Set(ctx context.Context, path string, value any) error {
	return s.client.NewRef(path).Set(ctx, value)
}

func (s *RTDB) Update(ctx context.Context, path string, fields map[string]any) error {
	// The SDK rejects empty update maps, while a no-op is fine for callers.
	if len(fields) == 0 {
		return nil
	}
	return s.client.NewRef(path).Update(ctx, fields)
}

func (s *RTDB) Remove(ctx context.Context, path string) error {
	return s.client.NewRef(path).Delete(ctx)
}

func (s *RTDB) Exists(ctx context.Context, path string) (bool, error) {
	var node any
	if err := s.client.NewRef(path).Get(ctx, &node); err != nil {
		return false, err
	}
	return node != nil, nil
}
