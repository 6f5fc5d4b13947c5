/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/suparena/docstore/config"
	"github.com/suparena/docstore/datastore"
	"github.com/suparena/docstore/registry"
)

// API is the subset of the DynamoDB client used by Client.
type API interface {
	ExecuteStatement(ctx context.Context, params *sdk.ExecuteStatementInput, optFns ...func(*sdk.Options)) (*sdk.ExecuteStatementOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	DescribeTable(ctx context.Context, params *sdk.DescribeTableInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error)
}

// Client implements datastore.AsyncClient on DynamoDB. Each collection maps to
// the table of the same name; the database segment of a link is not used.
type Client struct {
	api      API
	schemas  *registry.KeySchemaRegistry
	endpoint string
	logger   *zap.Logger
	closed   *atomic.Bool
}

// Option configures a Client.
type Option func(*Client)

// WithKeySchemas sets the key attributes of each table.
func WithKeySchemas(schemas *registry.KeySchemaRegistry) Option {
	return func(c *Client) {
		c.schemas = schemas
	}
}

// WithEndpoint sets the endpoint reported by Endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New wraps an existing DynamoDB API.
func New(api API, opts ...Option) *Client {
	c := &Client{
		api:      api,
		schemas:  registry.NewKeySchemaRegistry(),
		endpoint: "dynamodb",
		logger:   zap.NewNop(),
		closed:   atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDynamoDBClient initializes a DynamoDB client from cfg. Static credentials are
// used when configured, the default AWS credential chain otherwise. Throttled
// requests are retried by the SDK with cfg.RetryAttempts and cfg.RetryMaxWait.
func NewDynamoDBClient(ctx context.Context, cfg config.Config) (*sdk.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithRetryer(func() aws.Retryer {
			return retry.NewStandard(func(o *retry.StandardOptions) {
				o.MaxAttempts = cfg.RetryAttempts
				if cfg.RetryMaxWait > 0 {
					o.MaxBackoff = cfg.RetryMaxWait
				}
			})
		}),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// Open connects to DynamoDB and waits until every configured collection's table is ACTIVE.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	schemas, err := cfg.KeySchemas()
	if err != nil {
		return nil, err
	}

	api, err := NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://dynamodb.%s.amazonaws.com", cfg.Region)
	}

	c := New(api, WithKeySchemas(schemas), WithEndpoint(endpoint), WithLogger(logger))
	for _, table := range schemas.Collections() {
		if err := c.WaitForTable(ctx, table, 2*time.Minute); err != nil {
			return nil, err
		}
	}

	logger.Info("DynamoDB client initialized",
		zap.String("endpoint", endpoint),
		zap.String("region", cfg.Region),
		zap.Strings("tables", schemas.Collections()))
	return c, nil
}

// WaitForTable polls DescribeTable with exponential backoff until the table is
// ACTIVE or maxWait elapses. A missing table fails immediately.
func (c *Client) WaitForTable(ctx context.Context, table string, maxWait time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = maxWait

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		out, err := c.api.DescribeTable(ctx, &sdk.DescribeTableInput{TableName: aws.String(table)})
		if err != nil {
			var notFound *types.ResourceNotFoundException
			if errors.As(err, &notFound) {
				return backoff.Permanent(fmt.Errorf("table %s does not exist: %w", table, err))
			}
			return err
		}
		if out.Table == nil || out.Table.TableStatus != types.TableStatusActive {
			c.logger.Debug("table not active yet", zap.String("table", table), zap.Int("attempt", attempt))
			return fmt.Errorf("table %s is not active", table)
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return fmt.Errorf("wait for table %s: %w", table, err)
	}
	return nil
}

// Endpoint identifies the DynamoDB endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Close marks the client closed. The SDK client holds no resources to release.
func (c *Client) Close() error {
	c.closed.Store(true)
	return nil
}

func (c *Client) checkOpen() error {
	if c.closed.Load() {
		return errors.New("dynamodb client is closed")
	}
	return nil
}

var _ datastore.AsyncClient = (*Client)(nil)
