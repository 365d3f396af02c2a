package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/medflow/idscan-service/internal/aamva"
)

// Exit codes.
const (
	exitOK         = 0
	exitError      = 1
	exitNotLicense = 2
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// errNotLicense marks a run whose input was not a license payload.
var errNotLicense = errors.New("input is not a driver's license or ID card payload")

func newRootCmd(stdin io.Reader) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dlparse [file]",
		Short: "Parse AAMVA driver's license barcode text",
		Long: `Reads the text decoded from a PDF417 barcode or magnetic stripe, from a file
or standard input, and prints the extracted name, address, license number and
date of birth.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != formatJSON && output != formatYAML {
				return fmt.Errorf("unsupported output format %q (want %s or %s)", output, formatJSON, formatYAML)
			}

			input, err := readInput(stdin, args)
			if err != nil {
				return err
			}

			rec, err := aamva.ParseBytes(input)
			if errors.Is(err, aamva.ErrNotLicensePayload) {
				return errNotLicense
			}
			if err != nil {
				return err
			}
			return writeRecord(cmd.OutOrStdout(), rec, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatJSON, "Output format: json or yaml")
	return cmd
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, nil
}

func writeRecord(w io.Writer, rec *aamva.Record, format string) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// run executes the command and maps the outcome to an exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errNotLicense):
		fmt.Fprintln(stderr, "dlparse:", err)
		return exitNotLicense
	default:
		fmt.Fprintln(stderr, "dlparse:", err)
		return exitError
	}
}
