/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/docstore/storagemodels"
)

func TestToPartiQL(t *testing.T) {
	category := "tools"

	tests := []struct {
		name      string
		spec      storagemodels.QuerySpec
		partition *string
		want      string
		params    []types.AttributeValue
	}{
		{
			name: "select all",
			spec: storagemodels.QuerySpec{Text: "SELECT * FROM p"},
			want: `SELECT * FROM "product"`,
		},
		{
			name: "named parameter",
			spec: storagemodels.QuerySpec{
				Text:   "SELECT * FROM Product WHERE Product.id = @id",
				Params: []storagemodels.Param{{Name: "@id", Value: "record_1"}},
			},
			want:   `SELECT * FROM "product" WHERE "id" = ?`,
			params: []types.AttributeValue{&types.AttributeValueMemberS{Value: "record_1"}},
		},
		{
			name: "parameters follow appearance order",
			spec: storagemodels.QuerySpec{
				Text: "SELECT * FROM p WHERE p.price > @min AND p.name = @name AND p.stock > @min",
				Params: []storagemodels.Param{
					{Name: "@name", Value: "bolt"},
					{Name: "@min", Value: 3},
				},
			},
			want: `SELECT * FROM "product" WHERE "price" > ? AND "name" = ? AND "stock" > ?`,
			params: []types.AttributeValue{
				&types.AttributeValueMemberN{Value: "3"},
				&types.AttributeValueMemberS{Value: "bolt"},
				&types.AttributeValueMemberN{Value: "3"},
			},
		},
		{
			name: "at sign inside string literal",
			spec: storagemodels.QuerySpec{Text: "SELECT * FROM p WHERE p.email = 'a@b.com'"},
			want: `SELECT * FROM "product" WHERE "email" = 'a@b.com'`,
		},
		{
			name:      "partition without where",
			spec:      storagemodels.QuerySpec{Text: "SELECT * FROM p ORDER BY p.id"},
			partition: &category,
			want:      `SELECT * FROM "product" WHERE "category" = ? ORDER BY "id"`,
			params:    []types.AttributeValue{&types.AttributeValueMemberS{Value: "tools"}},
		},
		{
			name: "partition with where",
			spec: storagemodels.QuerySpec{
				Text:   "SELECT * FROM p WHERE p.a = @a OR p.b = @a",
				Params: []storagemodels.Param{{Name: "@a", Value: true}},
			},
			partition: &category,
			want:      `SELECT * FROM "product" WHERE ("a" = ? OR "b" = ?) AND "category" = ?`,
			params: []types.AttributeValue{
				&types.AttributeValueMemberBOOL{Value: true},
				&types.AttributeValueMemberBOOL{Value: true},
				&types.AttributeValueMemberS{Value: "tools"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, params, err := toPartiQL("product", tt.spec, "category", tt.partition)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.params == nil {
				assert.Empty(t, params)
			} else {
				assert.Equal(t, tt.params, params)
			}
		})
	}
}

func TestToPartiQLErrors(t *testing.T) {
	_, _, err := toPartiQL("product", storagemodels.QuerySpec{Text: "SELECT 1"}, "id", nil)
	assert.ErrorContains(t, err, "FROM")

	_, _, err = toPartiQL("product", storagemodels.QuerySpec{Text: "SELECT * FROM p WHERE p.id = @id"}, "id", nil)
	assert.ErrorContains(t, err, "@id")
}
