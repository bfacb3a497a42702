// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/sandhi"
	"github.com/poiesic/sandhi/batch"
	"github.com/poiesic/sandhi/core"
	"github.com/poiesic/sandhi/dcs"
	"github.com/poiesic/sandhi/importer"
	"github.com/poiesic/sandhi/rulefile"
	"github.com/poiesic/sandhi/rules"
	"github.com/poiesic/sandhi/split"
	"github.com/urfave/cli/v2"
)

func main() {
	// Flag defaults may come from a .env file; a missing one is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal(err)
	}

	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdin io.Reader, stdout io.Writer) *cli.App {
	return &cli.App{
		Name:      "sandhi",
		Usage:     "Enumerate candidate sandhi splits of Sanskrit text",
		ArgsUsage: "TEXT",
		Reader:    stdin,
		Writer:    stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			rulesFlag(),
			dbFlag(),
			legacyWindowFlag(),
			trailingFlag(),
			preserveFormFlag(),
		},
		Before: setupLogger,
		Action: splitCommand,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import a rule file into the rule store",
				Action: importCommand,
				Flags: []cli.Flag{
					rulesFlag(),
					dbFlag(),
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Re-import even if the store already holds these rules",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of rules written per transaction",
						Value: 500,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N rules",
						Value: 1000,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for conflicting writes",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 50 * time.Millisecond,
					},
				},
			},
			{
				Name:   "batch",
				Usage:  "Split every line read from stdin",
				Action: batchCommand,
				Flags: []cli.Flag{
					rulesFlag(),
					dbFlag(),
					legacyWindowFlag(),
					trailingFlag(),
					preserveFormFlag(),
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Worker pool size (0 uses half the CPUs)",
					},
				},
			},
			{
				Name:      "lookup",
				Usage:     "Print the decompositions of a combined form",
				ArgsUsage: "KEY",
				Action:    lookupCommand,
				Flags:     []cli.Flag{rulesFlag(), dbFlag()},
			},
			{
				Name:   "export",
				Usage:  "Write the stored rules as a rule file to stdout",
				Action: exportCommand,
				Flags:  []cli.Flag{dbFlag()},
			},
			{
				Name:   "dcs",
				Usage:  "Standardize DCS CoNLL-U tokens read from stdin",
				Action: dcsCommand,
			},
		},
	}
}

// Each command gets its own flag instances so flags can follow the command name.

func rulesFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "rules",
		Aliases: []string{"r"},
		Usage:   "Path to the tab-separated sandhi rule file",
		Value:   rulefile.DefaultPath,
		EnvVars: []string{"SANDHI_RULES"},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "Path to BadgerDB rule store (overrides --rules when set)",
		EnvVars: []string{"SANDHI_DB"},
	}
}

func legacyWindowFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "legacy-window",
		Usage: "Probe window lengths 0..L-1 instead of 1..L",
	}
}

func trailingFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "trailing",
		Usage: "Also emit the split after the last character",
	}
}

func preserveFormFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "preserve-form",
		Usage: "Split input as given instead of NFC-normalizing it",
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// splitOptions maps the enumeration flags onto splitter options.
func splitOptions(c *cli.Context) []split.Option {
	bound := split.WindowInclusive
	if c.Bool("legacy-window") {
		bound = split.WindowLegacy
	}
	return []split.Option{
		split.WithWindowBound(bound),
		split.WithTrailingPosition(c.Bool("trailing")),
		split.WithPreserveForm(c.Bool("preserve-form")),
	}
}

// loadTable returns the rule table from the store named by --db, or from
// the rule file named by --rules.
func loadTable(ctx context.Context, c *cli.Context) (*rules.Table, error) {
	if dbPath := c.String("db"); dbPath != "" {
		engine, err := sandhi.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open rule store: %w", err)
		}
		defer engine.Close()
		return engine.Table(ctx)
	}
	return rulefile.Load(c.String("rules"))
}

func splitCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one TEXT argument, got %d", c.NArg())
	}

	table, err := loadTable(c.Context, c)
	if err != nil {
		return err
	}

	splitter, err := split.New(table, splitOptions(c)...)
	if err != nil {
		return err
	}

	// Probes are traced at debug level.
	candidates, err := splitter.SplitWithMonitor(c.Args().First(), split.LogMonitor(slog.Default()))
	if err != nil {
		return err
	}

	for _, candidate := range candidates {
		fmt.Fprintln(c.App.Writer, candidate.String())
	}
	return nil
}

func importCommand(c *cli.Context) error {
	dbPath := c.String("db")
	if dbPath == "" {
		return fmt.Errorf("database path is required")
	}

	config := &importer.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Force:          c.Bool("force"),
	}
	if err := config.Validate(); err != nil {
		return err
	}

	engine, err := sandhi.Open(dbPath, sandhi.WithImportConfig(config), sandhi.WithProgress(os.Stderr))
	if err != nil {
		return fmt.Errorf("failed to open rule store: %w", err)
	}
	defer engine.Close()

	rulesPath := c.String("rules")
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	fmt.Fprintf(os.Stderr, "Rules: %s\n", rulesPath)

	result, err := engine.ImportFile(c.Context, rulesPath)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if result.Skipped {
		fmt.Fprintf(c.App.Writer, "%s unchanged, %d rules already imported\n", rulesPath, result.RuleCount)
		return nil
	}
	fmt.Fprintf(c.App.Writer, "Imported %d rules from %s in %s\n", result.RuleCount, rulesPath, result.Elapsed)
	return nil
}

func batchCommand(c *cli.Context) error {
	table, err := loadTable(c.Context, c)
	if err != nil {
		return err
	}

	var inputs []string
	scanner := bufio.NewScanner(c.App.Reader)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line != "" {
			inputs = append(inputs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading inputs: %w", err)
	}

	opts := []batch.Option{batch.WithSplitOptions(splitOptions(c)...)}
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, batch.WithPoolSize(workers))
	}
	runner, err := batch.NewRunner(table, opts...)
	if err != nil {
		return err
	}
	defer runner.Release()

	results, err := runner.Run(c.Context, inputs)
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			slog.Error("failed to split input", "input", result.Input, "err", result.Err)
			failed++
			continue
		}
		for _, candidate := range result.Candidates {
			fmt.Fprintf(c.App.Writer, "%s\t%s\n", result.Input, candidate)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(results))
	}
	return nil
}

func lookupCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one KEY argument, got %d", c.NArg())
	}
	key := c.Args().First()

	var pairs []core.Pair
	if dbPath := c.String("db"); dbPath != "" {
		engine, err := sandhi.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open rule store: %w", err)
		}
		defer engine.Close()
		if pairs, err = engine.Lookup(c.Context, key); err != nil {
			return err
		}
	} else {
		table, err := rulefile.Load(c.String("rules"))
		if err != nil {
			return err
		}
		pairs = table.Lookup(key)
	}

	for _, pair := range pairs {
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", pair.Left, pair.Right)
	}
	return nil
}

func exportCommand(c *cli.Context) error {
	dbPath := c.String("db")
	if dbPath == "" {
		return fmt.Errorf("database path is required")
	}

	engine, err := sandhi.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open rule store: %w", err)
	}
	defer engine.Close()

	table, err := engine.Table(c.Context)
	if err != nil {
		return err
	}
	return rulefile.Write(c.App.Writer, table.Rules())
}

func dcsCommand(c *cli.Context) error {
	scanner := bufio.NewScanner(c.App.Reader)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		token, err := dcs.ParseToken(line)
		if err != nil {
			return err
		}
		// Multiword and empty-node lines carry no analysis.
		if id, _, _ := strings.Cut(line, "\t"); strings.ContainsAny(id, "-.") {
			continue
		}

		word, err := dcs.Standardize(token)
		if err != nil {
			return fmt.Errorf("token %q: %w", token.Form, err)
		}
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%+v\n", token.Form, word.Text, word.Semantics)
	}
	return scanner.Err()
}
