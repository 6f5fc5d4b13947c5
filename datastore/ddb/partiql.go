/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/docstore/storagemodels"
)

var (
	fromPattern  = regexp.MustCompile(`(?i)\bFROM\s+(\w+)`)
	wherePattern = regexp.MustCompile(`(?i)\bWHERE\b`)
	orderPattern = regexp.MustCompile(`(?i)\bORDER\s+BY\b`)
)

// toPartiQL rewrites a SQL-like document query into a PartiQL statement on table:
//
//	SELECT * FROM p WHERE p.id = @id   ->   SELECT * FROM "product" WHERE "id" = ?
//
// Named parameters become positional in order of appearance. When partitionKey
// is set the statement is narrowed to that partition on partitionAttr.
func toPartiQL(table string, spec storagemodels.QuerySpec, partitionAttr string, partitionKey *string) (string, []types.AttributeValue, error) {
	loc := fromPattern.FindStringSubmatchIndex(spec.Text)
	if loc == nil {
		return "", nil, fmt.Errorf("query %q has no FROM clause", spec.Text)
	}
	alias := spec.Text[loc[2]:loc[3]]
	text := spec.Text[:loc[0]] + fmt.Sprintf("FROM %q", table) + spec.Text[loc[1]:]

	aliasRef := regexp.MustCompile(`\b` + regexp.QuoteMeta(alias) + `\.(\w+)`)
	text = aliasRef.ReplaceAllString(text, `"$1"`)

	text, names := positionalParams(text)

	bound := make(map[string]any, len(spec.Params))
	for _, p := range spec.Params {
		bound[p.Name] = p.Value
	}

	params := make([]types.AttributeValue, 0, len(names)+1)
	for _, name := range names {
		v, ok := bound[name]
		if !ok {
			return "", nil, fmt.Errorf("parameter %s is not bound", name)
		}
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return "", nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		params = append(params, av)
	}

	if partitionKey != nil {
		text = narrowToPartition(text, partitionAttr)
		params = append(params, &types.AttributeValueMemberS{Value: *partitionKey})
	}

	return strings.TrimSpace(text), params, nil
}

// positionalParams replaces @name tokens outside string literals with '?'.
func positionalParams(text string) (string, []string) {
	var b strings.Builder
	var names []string
	inString := false

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch == '\'' {
			inString = !inString
		}
		if ch == '@' && !inString {
			j := i + 1
			for j < len(text) && isWordByte(text[j]) {
				j++
			}
			if j > i+1 {
				names = append(names, text[i:j])
				b.WriteByte('?')
				i = j - 1
				continue
			}
		}
		b.WriteByte(ch)
	}
	return b.String(), names
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// narrowToPartition adds an equality on attr, ahead of any ORDER BY.
func narrowToPartition(text, attr string) string {
	clause := fmt.Sprintf("%q = ?", attr)

	head, tail := text, ""
	if loc := orderPattern.FindStringIndex(text); loc != nil {
		head, tail = text[:loc[0]], " "+text[loc[0]:]
	}
	head = strings.TrimSpace(head)

	if loc := wherePattern.FindStringIndex(head); loc != nil {
		cond := strings.TrimSpace(head[loc[1]:])
		return head[:loc[1]] + " (" + cond + ") AND " + clause + tail
	}
	return head + " WHERE " + clause + tail
}
