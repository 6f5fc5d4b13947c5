/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/suparena/docstore/datastore"
	"github.com/suparena/docstore/storagemodels"
)

type feedResult = storagemodels.StreamResult[storagemodels.FeedResponse]

// QueryDocuments runs the query as a PartiQL statement against the collection's
// table. DynamoDB pages are re-cut so that every emitted page except the last
// holds exactly opts.PageSize documents; a query matching nothing emits one
// empty page.
func (c *Client) QueryDocuments(ctx context.Context, collectionLink string, spec storagemodels.QuerySpec, opts storagemodels.FeedOptions) <-chan feedResult {
	bufferSize := opts.BufferSize
	if bufferSize < 1 {
		bufferSize = 1
	}
	out := make(chan feedResult, bufferSize)

	go c.feedWorker(ctx, collectionLink, spec, opts, out)

	return out
}

// feedWorker handles the actual paging logic
func (c *Client) feedWorker(ctx context.Context, collectionLink string, spec storagemodels.QuerySpec, opts storagemodels.FeedOptions, out chan<- feedResult) {
	defer close(out)

	var (
		pending []storagemodels.NativeDocument
		charge  float64
		index   int64
		page    int
	)

	fail := func(err error) {
		select {
		case <-ctx.Done():
		case out <- feedResult{Error: err, Meta: storagemodels.StreamMeta{Index: index, PageNumber: page, Timestamp: time.Now()}}:
		}
	}

	flush := func(token string) bool {
		page++
		res := feedResult{
			Item: storagemodels.FeedResponse{
				Documents:         pending,
				RequestCharge:     charge,
				ContinuationToken: token,
			},
			Meta: storagemodels.StreamMeta{Index: index, PageNumber: page, Timestamp: time.Now()},
		}
		index += int64(len(pending))
		pending, charge = nil, 0

		select {
		case <-ctx.Done():
			return false
		case out <- res:
			return true
		}
	}

	if err := c.checkOpen(); err != nil {
		fail(err)
		return
	}
	_, table, err := datastore.ParseCollectionLink(collectionLink)
	if err != nil {
		fail(err)
		return
	}
	if opts.PartitionKey == nil && !opts.EnableCrossPartition {
		fail(fmt.Errorf("query against %s spans partitions but cross-partition queries are disabled", collectionLink))
		return
	}

	schema := c.schemas.Lookup(table)
	statement, params, err := toPartiQL(table, spec, schema.PartitionKey, opts.PartitionKey)
	if err != nil {
		fail(err)
		return
	}
	c.logger.Debug("executing statement", zap.String("statement", statement), zap.Int("params", len(params)))

	input := &sdk.ExecuteStatementInput{
		Statement:              aws.String(statement),
		Parameters:             params,
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	}
	if !opts.Unbounded() && opts.PageSize > 0 {
		input.Limit = aws.Int32(int32(opts.PageSize))
	}

	for {
		if ctx.Err() != nil {
			return
		}

		resp, err := c.api.ExecuteStatement(ctx, input)
		if err != nil {
			fail(fmt.Errorf("execute statement on %s: %w", table, err))
			return
		}
		charge += consumed(resp.ConsumedCapacity)

		for i, av := range resp.Items {
			item, err := newItem(collectionLink, schema, av)
			if err != nil {
				fail(err)
				return
			}
			pending = append(pending, item)

			if opts.Unbounded() || len(pending) < opts.PageSize {
				continue
			}
			token := aws.ToString(resp.NextToken)
			if token == "" && i < len(resp.Items)-1 {
				token = fmt.Sprintf("offset:%d", index+int64(len(pending)))
			}
			if !flush(token) {
				return
			}
		}

		if resp.NextToken == nil {
			break
		}
		input.NextToken = resp.NextToken
	}

	if len(pending) > 0 || page == 0 {
		flush("")
	}
}

func consumed(cc *types.ConsumedCapacity) float64 {
	if cc == nil {
		return 0
	}
	return aws.ToFloat64(cc.CapacityUnits)
}
