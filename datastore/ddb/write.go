/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/docstore/datastore"
	storeerrors "github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

type resourceResult = storagemodels.StreamResult[storagemodels.ResourceResponse]

// UpsertDocument stores body as an item of the collection's table, replacing
// any item with the same key.
func (c *Client) UpsertDocument(ctx context.Context, collectionLink string, body []byte) <-chan resourceResult {
	return c.single(ctx, func() (storagemodels.ResourceResponse, error) {
		return c.put(ctx, collectionLink, body)
	})
}

// DeleteDocument removes the item addressed by selfLink. Deleting an item that
// does not exist yields a NotFoundError.
func (c *Client) DeleteDocument(ctx context.Context, selfLink string) <-chan resourceResult {
	return c.single(ctx, func() (storagemodels.ResourceResponse, error) {
		return c.delete(ctx, selfLink)
	})
}

func (c *Client) single(ctx context.Context, op func() (storagemodels.ResourceResponse, error)) <-chan resourceResult {
	out := make(chan resourceResult, 1)
	go func() {
		defer close(out)
		if ctx.Err() != nil {
			return
		}
		resp, err := op()
		res := resourceResult{Item: resp, Error: err, Meta: storagemodels.StreamMeta{Timestamp: time.Now()}}
		select {
		case <-ctx.Done():
		case out <- res:
		}
	}()
	return out
}

func (c *Client) put(ctx context.Context, collectionLink string, body []byte) (storagemodels.ResourceResponse, error) {
	if err := c.checkOpen(); err != nil {
		return storagemodels.ResourceResponse{}, err
	}
	_, table, err := datastore.ParseCollectionLink(collectionLink)
	if err != nil {
		return storagemodels.ResourceResponse{}, err
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return storagemodels.ResourceResponse{}, fmt.Errorf("request body is not a JSON object: %w", err)
	}
	delete(fields, selfAttr)

	schema := c.schemas.Lookup(table)
	if _, ok := keyValues(schema, fields); !ok {
		return storagemodels.ResourceResponse{}, fmt.Errorf("document has no string value for key attributes %v of table %s", schema.Attributes(), table)
	}

	av, err := attributevalue.MarshalMap(fields)
	if err != nil {
		return storagemodels.ResourceResponse{}, fmt.Errorf("failed to marshal document: %w", err)
	}

	out, err := c.api.PutItem(ctx, &sdk.PutItemInput{
		TableName:              aws.String(table),
		Item:                   av,
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return storagemodels.ResourceResponse{}, fmt.Errorf("PutItem failed: %w", err)
	}

	item, err := newItem(collectionLink, schema, av)
	if err != nil {
		return storagemodels.ResourceResponse{}, err
	}
	return storagemodels.ResourceResponse{Resource: item, RequestCharge: consumed(out.ConsumedCapacity)}, nil
}

func (c *Client) delete(ctx context.Context, selfLink string) (storagemodels.ResourceResponse, error) {
	if err := c.checkOpen(); err != nil {
		return storagemodels.ResourceResponse{}, err
	}
	collectionLink, keys, err := datastore.ParseSelfLink(selfLink)
	if err != nil {
		return storagemodels.ResourceResponse{}, err
	}
	_, table, err := datastore.ParseCollectionLink(collectionLink)
	if err != nil {
		return storagemodels.ResourceResponse{}, err
	}

	schema := c.schemas.Lookup(table)
	key, err := keyFromSelfLink(schema, keys)
	if err != nil {
		return storagemodels.ResourceResponse{}, err
	}

	out, err := c.api.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:                aws.String(table),
		Key:                      key,
		ConditionExpression:      aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": schema.PartitionKey},
		ReturnConsumedCapacity:   types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return storagemodels.ResourceResponse{}, storeerrors.NewNotFoundError("document", selfLink)
		}
		return storagemodels.ResourceResponse{}, fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return storagemodels.ResourceResponse{RequestCharge: consumed(out.ConsumedCapacity)}, nil
}
