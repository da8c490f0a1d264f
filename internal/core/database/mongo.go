package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type MongoOpts struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// NewMongo connects and pings the primary. Callers own Disconnect on the client.
func NewMongo(ctx context.Context, o MongoOpts) (*mongo.Client, *mongo.Database, error) {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	client, err := mongo.Connect(options.Client().ApplyURI(o.URI).SetTimeout(o.Timeout))
	if err != nil {
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, client.Database(o.Database), nil
}
