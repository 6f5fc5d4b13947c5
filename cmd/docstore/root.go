/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/docstore"
	"github.com/suparena/docstore/config"
)

const (
	configFlag     = "config"
	envFileFlag    = "env-file"
	backendFlag    = "backend"
	endpointFlag   = "endpoint"
	regionFlag     = "region"
	databaseFlag   = "database"
	collectionFlag = "collection"
	logLevelFlag   = "log-level"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "docstore",
		Short:         "Query and write documents in a document store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringP(configFlag, "c", "", "path to a YAML config file")
	flags.StringSlice(envFileFlag, nil, "env files to load (default .env)")
	flags.String(backendFlag, "", "backend to use: dynamodb or memory")
	flags.String(endpointFlag, "", "override the store endpoint")
	flags.String(regionFlag, "", "AWS region")
	flags.StringP(databaseFlag, "d", "docstore", "database name")
	flags.StringP(collectionFlag, "t", "", "collection to operate on")
	flags.String(logLevelFlag, "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newQueryCmd(), newUpsertCmd(), newDeleteCmd(), newVersionCmd())
	return cmd
}

// session is an opened client bound to the collection named on the command line.
type session struct {
	client *docstore.Client
	conn   *docstore.Connection
	logger *zap.Logger
}

func (s *session) Close() {
	if err := s.client.Close(); err != nil {
		s.logger.Warn("close client", zap.Error(err))
	}
	_ = s.logger.Sync()
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	path, err := flags.GetString(configFlag)
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}
	envFiles, err := flags.GetStringSlice(envFileFlag)
	if err != nil {
		return nil, fmt.Errorf("get env-file flag: %w", err)
	}

	cfg, err := config.Load(path, envFiles...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	overrides := map[string]*string{
		backendFlag:  &cfg.Backend,
		endpointFlag: &cfg.Endpoint,
		regionFlag:   &cfg.Region,
		logLevelFlag: &cfg.LogLevel,
	}
	for name, dst := range overrides {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetString(name); err != nil {
			return nil, fmt.Errorf("get %s flag: %w", name, err)
		}
	}
	return cfg, nil
}

func openSession(cmd *cobra.Command) (*session, error) {
	collection, err := cmd.Flags().GetString(collectionFlag)
	if err != nil {
		return nil, fmt.Errorf("get collection flag: %w", err)
	}
	if collection == "" {
		return nil, fmt.Errorf("--%s is required", collectionFlag)
	}
	database, err := cmd.Flags().GetString(databaseFlag)
	if err != nil {
		return nil, fmt.Errorf("get database flag: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := docstore.NewDefaultLogger(cfg.Level())
	if err != nil {
		return nil, err
	}

	client, err := docstore.Open(cmd.Context(), *cfg, docstore.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}

	return &session{
		client: client,
		conn:   client.Connection(database, collection),
		logger: logger,
	}, nil
}
