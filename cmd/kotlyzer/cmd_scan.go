package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dhamidi/kotlyzer/kotlin/parser"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "Scan a directory for Kotlin sources and report parse results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			return runScan(path, timeout)
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "timeout per file")

	return cmd
}

func runScan(path string, timeout time.Duration) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	var files []string
	var errors []string

	if info.IsDir() {
		walkErr := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				errors = append(errors, fmt.Sprintf("walk %s: %v", p, err))
				return nil
			}
			if !info.IsDir() {
				ext := filepath.Ext(p)
				if ext == ".kt" || ext == ".kts" {
					files = append(files, p)
				}
			}
			return nil
		})
		if walkErr != nil {
			errors = append(errors, fmt.Sprintf("walk %s: %v", path, walkErr))
		}
	} else {
		ext := filepath.Ext(path)
		if ext != ".kt" && ext != ".kts" {
			return fmt.Errorf("unsupported file type: %s", ext)
		}
		files = []string{path}
	}

	fmt.Printf("Found %d files to scan\n", len(files))

	declarations := 0
	for i, file := range files {
		fmt.Printf("[%d/%d] ", i+1, len(files))
		count, fileErrors := scanSingleFile(file, timeout)
		declarations += count
		errors = append(errors, fileErrors...)
	}

	fmt.Printf("\n=== SCAN COMPLETE ===\n")
	fmt.Printf("Declarations found: %d\n", declarations)
	fmt.Printf("Errors: %d\n", len(errors))
	for _, e := range errors {
		fmt.Printf("  - %s\n", e)
	}
	return nil
}

func scanSingleFile(path string, timeout time.Duration) (int, []string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("[ERROR] read %s: %v\n", path, err)
		return 0, []string{fmt.Sprintf("read %s: %v", path, err)}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan struct{})
	var count int
	var parseErr error

	go func() {
		defer close(done)
		if filepath.Ext(path) == ".kts" {
			script, err := parser.NewParser(string(data)).ParseScript()
			if err != nil {
				parseErr = err
				return
			}
			count = len(script.Statements)
			return
		}
		file, err := parser.NewParser(string(data)).Parse()
		if err != nil {
			parseErr = err
			return
		}
		count = len(file.Declarations)
	}()

	select {
	case <-done:
		if parseErr != nil {
			fmt.Printf("[ERROR] %s: %v\n", path, parseErr)
			return 0, []string{fmt.Sprintf("parse %s: %v", path, parseErr)}
		}
		fmt.Printf("[OK] %s (%d declarations)\n", path, count)
		return count, nil
	case <-ctx.Done():
		fmt.Printf("[TIMEOUT] %s\n", path)
		return 0, []string{fmt.Sprintf("timeout parsing %s", path)}
	}
}
