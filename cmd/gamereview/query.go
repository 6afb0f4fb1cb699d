package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vvakame/gamereview/internal/gqlfun"
	"github.com/vvakame/gamereview/server"
)

var errQueryFailed = errors.New("operation finished with errors")

func newQueryCmd() *cobra.Command {
	var variablesJSON string
	var operationName string

	cmd := &cobra.Command{
		Use:   "query QUERY",
		Short: "Run one GraphQL operation against a fresh store and print the response",
		Long:  "Run one GraphQL operation against a fresh store and print the response.\nQUERY \"-\" reads the operation from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			query := args[0]
			if query == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return errors.Wrap(err, "reading query from stdin")
				}
				query = string(b)
			}

			variables := map[string]interface{}{}
			if variablesJSON != "" {
				dec := json.NewDecoder(strings.NewReader(variablesJSON))
				dec.UseNumber()
				if err := dec.Decode(&variables); err != nil {
					return errors.Wrap(err, "decoding variables")
				}
			}

			es, err := server.NewExecutableSchema(ctx, &server.Config{
				Dataset: cfg.DatasetSource(),
			})
			if err != nil {
				return err
			}

			resp := gqlfun.Execute(ctx, es, query, variables, operationName)

			b, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return errors.Wrap(err, "encoding response")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			if err != nil {
				return err
			}

			if len(resp.Errors) != 0 {
				return errQueryFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&variablesJSON, "variables", "", "Variables as a JSON object.")
	cmd.Flags().StringVar(&operationName, "operation", "", "Name of the operation to run.")

	return cmd
}
