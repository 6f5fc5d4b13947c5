/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/docstore"
	"github.com/suparena/docstore/document"
)

const concurrencyFlag = "concurrency"

func newUpsertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upsert <file|->",
		Short: "Create or replace documents from a JSON object or array",
		Long: `Reads a JSON object, or an array of objects, from a file or stdin and upserts it.
Objects without an "id" get a generated UUID. Stored documents are printed one per line.`,
		Args: cobra.ExactArgs(1),
		RunE: runUpsert,
	}
	cmd.Flags().Int(concurrencyFlag, 0, "maximum writes in flight for an array (0 = all at once)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete documents by id",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDelete,
	}
}

func runUpsert(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	docs, err := decodeDocuments(data)
	if err != nil {
		return err
	}

	concurrency, err := cmd.Flags().GetInt(concurrencyFlag)
	if err != nil {
		return fmt.Errorf("get concurrency flag: %w", err)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	var failure error

	stmt := s.conn.GenerateStatement().
		SetBlocking(true).
		SetMaxConcurrency(concurrency).
		SetCostReporter(func(r docstore.CostReport) {
			s.logger.Info("write cost",
				zap.String("operation", r.Operation),
				zap.Int("documents", r.Documents),
				zap.Float64("total_charge", r.TotalCharge),
				zap.Float64("average_charge", r.Average()))
		})
	onResult := func(doc *document.Document) {
		if doc != nil {
			fmt.Fprintln(out, doc.JSON())
		}
	}
	onError := func(err error) { failure = err }

	if len(docs) == 1 {
		err = stmt.Upsert(cmd.Context(), docs[0], onResult, onError, nil)
	} else {
		err = stmt.MultiUpsert(cmd.Context(), docs, onResult, onError, nil)
	}
	if err != nil {
		return err
	}
	return failure
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	repo := docstore.NewRepository[map[string]any](s.conn, "SELECT * FROM c")
	for _, id := range args {
		if err := repo.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// decodeDocuments accepts one JSON object or an array of them and fills in
// missing ids.
func decodeDocuments(data []byte) ([]any, error) {
	data = bytes.TrimSpace(data)

	var objects []map[string]any
	if bytes.HasPrefix(data, []byte("[")) {
		if err := json.Unmarshal(data, &objects); err != nil {
			return nil, fmt.Errorf("decode document array: %w", err)
		}
	} else {
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		objects = append(objects, obj)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("no documents in input")
	}

	docs := make([]any, len(objects))
	for i, obj := range objects {
		if obj == nil {
			return nil, fmt.Errorf("document %d is null", i)
		}
		if _, ok := obj["id"]; !ok {
			obj["id"] = uuid.NewString()
		}
		docs[i] = obj
	}
	return docs, nil
}
