/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/docstore/document"
)

const (
	paramFlag        = "param"
	pageSizeFlag     = "page-size"
	partitionKeyFlag = "partition-key"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Run a query and print matching documents, one JSON object per line",
		Example: `  docstore query -t product "SELECT * FROM p WHERE p.category = @c" --param @c=tools
  docstore query -t product "SELECT * FROM p" --page-size 10 --partition-key tools`,
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().StringArrayP(paramFlag, "p", nil, "bind a parameter as @name=value; JSON values keep their type")
	cmd.Flags().Int(pageSizeFlag, 0, "maximum documents per page, negative for unbounded (default from config)")
	cmd.Flags().String(partitionKeyFlag, "", "restrict the query to one partition")
	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	q := s.conn.GenerateQuery(args[0]).SetBlocking(true)

	params, err := cmd.Flags().GetStringArray(paramFlag)
	if err != nil {
		return fmt.Errorf("get param flag: %w", err)
	}
	for _, p := range params {
		name, value, err := parseParam(p)
		if err != nil {
			return err
		}
		q.AddParam(name, value)
	}

	if cmd.Flags().Changed(pageSizeFlag) {
		n, err := cmd.Flags().GetInt(pageSizeFlag)
		if err != nil {
			return fmt.Errorf("get page-size flag: %w", err)
		}
		q.SetMaxResultsPageSize(n)
	}
	if cmd.Flags().Changed(partitionKeyFlag) {
		key, err := cmd.Flags().GetString(partitionKeyFlag)
		if err != nil {
			return fmt.Errorf("get partition-key flag: %w", err)
		}
		q.SetPartitionKey(key)
	}

	out := cmd.OutOrStdout()
	pages, documents := 0, 0
	var failure error

	err = q.Execute(cmd.Context(),
		func(page []document.Document) {
			pages++
			for _, doc := range page {
				documents++
				fmt.Fprintln(out, doc.JSON())
			}
		},
		func(err error) { failure = err },
		func() {
			s.logger.Info("query finished", zap.Int("pages", pages), zap.Int("documents", documents))
		})
	if err != nil {
		return err
	}
	return failure
}

// parseParam splits "@name=value". The value is decoded as JSON when it is
// valid JSON and used as a plain string otherwise.
func parseParam(p string) (string, any, error) {
	name, raw, ok := strings.Cut(p, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("parameter %q is not in @name=value form", p)
	}
	if !strings.HasPrefix(name, "@") {
		name = "@" + name
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return name, raw, nil
	}
	return name, value, nil
}
