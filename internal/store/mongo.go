package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo wraps a connected client and the application database.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// systemDatabases are never dropped by DropDatabasesExcept.
var systemDatabases = []string{"admin", "config", "local"}

// NewMongo connects and pings with a bounded timeout.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Mongo{Client: client, DB: client.Database(database)}, nil
}

// Healthy verifies mongo connectivity.
func (m *Mongo) Healthy(ctx context.Context) bool {
	if m == nil || m.Client == nil {
		return false
	}
	return m.Client.Ping(ctx, nil) == nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}

// DropDatabasesExcept drops every database that is not a system database, the
// application database or listed in keep. It returns the dropped names. With
// dryRun set nothing is dropped.
func (m *Mongo) DropDatabasesExcept(ctx context.Context, keep []string, dryRun bool) ([]string, error) {
	names, err := m.Client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	var dropped []string
	for _, name := range StrayDatabases(names, m.DB.Name(), keep) {
		if !dryRun {
			if err := m.Client.Database(name).Drop(ctx); err != nil {
				return dropped, fmt.Errorf("drop %s: %w", name, err)
			}
		}
		dropped = append(dropped, name)
	}
	return dropped, nil
}

// StrayDatabases filters names down to the ones cleanup may drop.
func StrayDatabases(names []string, current string, keep []string) []string {
	var out []string
	for _, name := range names {
		if name == current || slices.Contains(systemDatabases, name) || slices.Contains(keep, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}
