/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/suparena/docstore"
)

const outputFlag = "output"

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version of current build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString(outputFlag)
			if err != nil {
				return fmt.Errorf("get output flag: %w", err)
			}

			info := docstore.GetVersionInfo()
			var out []byte
			switch format {
			case "yaml":
				out, err = yaml.Marshal(info)
			case "json":
				out, err = json.MarshalIndent(info, "", "  ")
				out = append(out, '\n')
			default:
				return fmt.Errorf("unknown output format %q", format)
			}
			if err != nil {
				return fmt.Errorf("marshal version info: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringP(outputFlag, "o", "yaml", "output format: yaml or json")
	return cmd
}
