package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/apigate/pkg/logger"
	"github.com/dmitrymomot/apigate/pkg/validator"
)

func validateCmd() *cobra.Command {
	var (
		schemaPath string
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "validate --schema schema.yaml [payload.json]",
		Short: "Validate a JSON payload against a schema file",
		Long: `Validate a JSON payload offline with the built-in rules.
The payload is read from the given file, or from stdin when omitted.
Async rules are not available offline and are reported as unknown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runValidate(cmd, schemaPath, in, strict)
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema file (yaml or json)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on rules missing from the registry")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func runValidate(cmd *cobra.Command, schemaPath string, in io.Reader, strict bool) error {
	schema, err := validator.LoadSchemaFile(schemaPath)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}
	payload, err := validator.DecodeJSON(data)
	if err != nil {
		return err
	}

	opts := []validator.Option{
		validator.WithLogger(logger.New(logger.WithOutput(cmd.ErrOrStderr()), logger.WithFormat(logger.FormatText))),
	}
	if strict {
		opts = append(opts, validator.WithStrictMode())
	}
	res, err := validator.New(opts...).ValidateAsync(cmd.Context(), payload, schema)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if !res.Valid {
		return errInvalidPayload{count: len(res.Errors)}
	}
	return nil
}
