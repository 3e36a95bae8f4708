package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Database holds the MongoDB client and the handle on the application database.
type Database struct {
	Client *mongo.Client
	*mongo.Database
}

// New connects to MongoDB and verifies connectivity.
// It returns an error if connecting or pinging the server fails.
func New(ctx context.Context, uri, name string) (*Database, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}
	if name == "" {
		return nil, errors.New("mongo database name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// verify connectivity
	if err := client.Ping(ctx, nil); err != nil {
		// disconnect before returning the ping error
		if dErr := client.Disconnect(context.Background()); dErr != nil {
			return nil, dErr
		}
		return nil, err
	}

	return &Database{Client: client, Database: client.Database(name)}, nil
}

func (d *Database) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}
