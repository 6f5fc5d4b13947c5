/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/suparena/docstore/storagemodels"
)

// The in-memory store understands a deliberately small dialect:
//
//	SELECT * FROM <alias> [WHERE [<alias>.]<field> = <value> [AND ...]]
//
// where <value> is a named parameter, a quoted string, a number, true, false or null.
var (
	selectPattern    = regexp.MustCompile(`(?is)^\s*SELECT\s+\*\s+FROM\s+(\w+)(?:\s+WHERE\s+(.+?))?\s*$`)
	andPattern       = regexp.MustCompile(`(?i)\s+AND\s+`)
	conditionPattern = regexp.MustCompile(`^\s*(?:(\w+)\.)?(\w+)\s*=\s*(@\w+|'[^']*'|"[^"]*"|-?\d+(?:\.\d+)?|true|false|null)\s*$`)
)

type condition struct {
	field string
	value any
}

type compiledQuery struct {
	alias      string
	conditions []condition
}

func compileQuery(spec storagemodels.QuerySpec) (*compiledQuery, error) {
	m := selectPattern.FindStringSubmatch(spec.Text)
	if m == nil {
		return nil, fmt.Errorf("unsupported query %q", spec.Text)
	}

	params := make(map[string]any, len(spec.Params))
	for _, p := range spec.Params {
		params[p.Name] = p.Value
	}

	q := &compiledQuery{alias: m[1]}
	if m[2] == "" {
		return q, nil
	}

	for _, clause := range andPattern.Split(m[2], -1) {
		cm := conditionPattern.FindStringSubmatch(clause)
		if cm == nil {
			return nil, fmt.Errorf("unsupported condition %q in query %q", clause, spec.Text)
		}
		if cm[1] != "" && !strings.EqualFold(cm[1], q.alias) {
			return nil, fmt.Errorf("unknown alias %q in query %q", cm[1], spec.Text)
		}

		value, err := literal(cm[3], params)
		if err != nil {
			return nil, err
		}
		q.conditions = append(q.conditions, condition{field: cm[2], value: value})
	}
	return q, nil
}

func literal(token string, params map[string]any) (any, error) {
	switch {
	case strings.HasPrefix(token, "@"):
		v, ok := params[token]
		if !ok {
			return nil, fmt.Errorf("parameter %s is not bound", token)
		}
		return normalize(v)
	case strings.HasPrefix(token, "'"), strings.HasPrefix(token, `"`):
		return token[1 : len(token)-1], nil
	case token == "true":
		return true, nil
	case token == "false":
		return false, nil
	case token == "null":
		return nil, nil
	default:
		return strconv.ParseFloat(token, 64)
	}
}

// normalize maps a Go value onto what encoding/json would decode it to, so that
// parameters compare equal to stored fields regardless of their numeric type.
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("parameter value %v: %w", v, err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (q *compiledQuery) matches(body map[string]any) bool {
	for _, c := range q.conditions {
		v, ok := body[c.field]
		if !ok {
			return false
		}
		if !reflect.DeepEqual(v, c.value) {
			return false
		}
	}
	return true
}
