package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

const connectTimeout = 10 * time.Second

// Client connects lazily on first use. Concurrent first callers share one
// in-flight connect; a failed connect is retried by the next caller.
type Client struct {
	uri    string
	dbName string

	group singleflight.Group
	mu    sync.RWMutex
	raw   *mongo.Client

	connect func(ctx context.Context, uri string) (*mongo.Client, error)
}

func NewClient(uri, dbName string) (*Client, error) {
	if uri == "" {
		return nil, errors.New("MONGO_URI is empty")
	}
	if dbName == "" {
		return nil, errors.New("mongo database name is empty")
	}
	return &Client{uri: uri, dbName: dbName, connect: dial}, nil
}

func dial(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, err
	}
	return c, nil
}

// DB returns the database handle, connecting if needed
func (c *Client) DB(ctx context.Context) (*mongo.Database, error) {
	raw, err := c.rawClient(ctx)
	if err != nil {
		return nil, err
	}
	return raw.Database(c.dbName), nil
}

func (c *Client) rawClient(ctx context.Context) (*mongo.Client, error) {
	c.mu.RLock()
	raw := c.raw
	c.mu.RUnlock()
	if raw != nil {
		return raw, nil
	}

	v, err, _ := c.group.Do("connect", func() (interface{}, error) {
		c.mu.RLock()
		existing := c.raw
		c.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		// detached so one caller's cancellation does not fail the others
		fresh, err := c.connect(context.WithoutCancel(ctx), c.uri)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}

		c.mu.Lock()
		c.raw = fresh
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*mongo.Client), nil
}

func (c *Client) Ping(ctx context.Context) error {
	raw, err := c.rawClient(ctx)
	if err != nil {
		return err
	}
	return raw.Ping(ctx, nil)
}

func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	raw := c.raw
	c.raw = nil
	c.mu.Unlock()
	if raw == nil {
		return nil
	}
	return raw.Disconnect(ctx)
}
