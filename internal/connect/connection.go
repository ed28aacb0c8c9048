package connect

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

const (
	connectTimeout         = 10 * time.Second
	serverSelectionTimeout = 10 * time.Second
	socketTimeout          = 45 * time.Second
	maxPoolSize            = 10
	minPoolSize            = 2
)

// DialFunc opens and verifies a MongoDB client.
type DialFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// MongoProvider lazily establishes one process-wide MongoDB client.
// Concurrent first callers share a single in-flight attempt; a failed
// attempt is not remembered so the next caller retries.
type MongoProvider struct {
	uri  string
	dial DialFunc

	mu     sync.RWMutex
	client *mongo.Client
	group  singleflight.Group
}

func NewMongoProvider(uri string, dial DialFunc) *MongoProvider {
	if dial == nil {
		dial = MongoDBDial
	}
	return &MongoProvider{uri: uri, dial: dial}
}

// Client returns the shared client, connecting on first use. ctx bounds how
// long this caller waits; the shared attempt itself is bounded by connectTimeout.
func (p *MongoProvider) Client(ctx context.Context) (*mongo.Client, error) {
	if c := p.cached(); c != nil {
		return c, nil
	}

	ch := p.group.DoChan("mongo", func() (interface{}, error) {
		if c := p.cached(); c != nil {
			return c, nil
		}
		dialCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		client, err := p.dial(dialCtx, p.uri)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.client = client
		p.mu.Unlock()
		return client, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", res.Err)
		}
		return res.Val.(*mongo.Client), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *MongoProvider) cached() *mongo.Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}

// Disconnect closes the shared client if one was established.
func (p *MongoProvider) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	client := p.client
	p.client = nil
	p.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	return nil
}

// MongoDBDial connects with bounded pool and timeouts and pings the primary.
func MongoDBDial(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPoolSize).
		SetMinPoolSize(minPoolSize).
		SetServerSelectionTimeout(serverSelectionTimeout).
		SetSocketTimeout(socketTimeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

func CloudinaryCredentials(cloudName, apiKey, apiSecret string) (*cloudinary.Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return cld, nil
}

// RedisConnect returns nil when addr is empty or the server does not answer,
// in which case callers run without a cache.
func RedisConnect(addr, password string, db int, useTLS bool) *redis.Client {
	if addr == "" {
		return nil
	}
	var tlsConf *tls.Config
	if useTLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  password,
		DB:        db,
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
