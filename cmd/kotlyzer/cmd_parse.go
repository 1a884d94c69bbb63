package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhamidi/kotlyzer/format"
	"github.com/dhamidi/kotlyzer/kotlin/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .kt file and dump the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			ext := filepath.Ext(filename)
			if ext != ".kt" && ext != ".kts" {
				return fmt.Errorf("unsupported file extension: %s (expected .kt or .kts)", ext)
			}

			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read kotlin file: %w", err)
			}

			file, err := parser.NewParser(string(data)).Parse()
			if err != nil {
				return fmt.Errorf("parse %s: %w", filename, err)
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			case "ast":
				encoder = format.NewASTJSONEncoder(os.Stdout)
			case "kotlin":
				encoder = format.NewKotlinEncoder(os.Stdout)
			case "lines":
				encoder = format.NewLineEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(file); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if outputFormat == "json" || outputFormat == "ast" {
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, ast, kotlin, lines)")

	return cmd
}
