package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"nyayamitra-backend/config"
	"nyayamitra-backend/importer"
	"nyayamitra-backend/repository"
	"nyayamitra-backend/service"
	"nyayamitra-backend/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
)

// env holds what every database command needs.
type env struct {
	cfg  *config.Config
	pool *pgxpool.Pool
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &env{cfg: cfg, pool: pool}, nil
}

func (e *env) store(ctx context.Context) (storage.Store, error) {
	return storage.New(ctx, storage.Config{
		Type:         storage.Type(e.cfg.Storage.Type),
		LocalPath:    e.cfg.Storage.LocalPath,
		S3Bucket:     e.cfg.Storage.S3Bucket,
		S3Region:     e.cfg.Storage.S3Region,
		AWSAccessKey: e.cfg.Storage.AWSAccessKey,
		AWSSecretKey: e.cfg.Storage.AWSSecretKey,
	})
}

func newCreateSchemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-schema",
		Usage: "Create the case tables and indexes if they do not exist",
		Action: func(c *cli.Context) error {
			e, err := openEnv(c.Context)
			if err != nil {
				return err
			}
			defer e.pool.Close()

			if err := repository.EnsureSchema(c.Context, e.pool); err != nil {
				return err
			}
			log.Println("✓ Schema is up to date")
			return nil
		},
	}
}

func newResetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Delete every imported row and derived insight",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Usage: "skip the confirmation prompt"},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("yes") && !confirm(c.App.Reader, c.App.Writer, "This deletes all case data. Continue?") {
				fmt.Fprintln(c.App.Writer, "Aborted.")
				return nil
			}

			e, err := openEnv(c.Context)
			if err != nil {
				return err
			}
			defer e.pool.Close()

			if err := repository.ResetData(c.Context, e.pool); err != nil {
				return err
			}
			log.Println("✓ Case data cleared")
			return nil
		},
	}
}

type importFunc func(ctx context.Context, e *env, rows importer.RowReader, opts ...importer.Option) (*importer.Result, error)

func importFinal(ctx context.Context, e *env, rows importer.RowReader, opts ...importer.Option) (*importer.Result, error) {
	mapping := importer.FinalRecordMapping(e.cfg.Analytics.Thresholds())
	return importer.New(mapping, repository.NewCaseRecordRepository(e.pool), opts...).Run(ctx, rows)
}

func importCases(ctx context.Context, e *env, rows importer.RowReader, opts ...importer.Option) (*importer.Result, error) {
	return importer.New(importer.CaseMapping(), repository.NewCaseRepository(e.pool), opts...).Run(ctx, rows)
}

func importHearings(ctx context.Context, e *env, rows importer.RowReader, opts ...importer.Option) (*importer.Result, error) {
	return importer.New(importer.HearingMapping(), repository.NewHearingRepository(e.pool), opts...).Run(ctx, rows)
}

// newImportCommand builds an import command that loads rows into table.
// With --replace the table is emptied first, so a rerun does not duplicate
// rows.
func newImportCommand(name, usage, table string, run importFunc) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "local .csv or .xlsx file"},
			&cli.StringFlag{Name: "object", Usage: "storage key of a staged .csv or .xlsx file"},
			&cli.IntFlag{Name: "batch-size", Value: importer.DefaultBatchSize, Usage: "rows per insert batch"},
			&cli.BoolFlag{Name: "replace", Usage: "empty " + table + " before importing"},
		},
		Action: func(c *cli.Context) error {
			file, object := c.String("file"), c.String("object")
			if (file == "") == (object == "") {
				return errors.New("exactly one of --file or --object is required")
			}

			e, err := openEnv(c.Context)
			if err != nil {
				return err
			}
			defer e.pool.Close()

			name, src, err := openSource(c.Context, e, file, object)
			if err != nil {
				return err
			}
			defer src.Close()

			rows, err := importer.Open(name, src)
			if err != nil {
				return err
			}
			defer rows.Close()

			if c.Bool("replace") {
				if err := repository.ClearTable(c.Context, e.pool, table); err != nil {
					return err
				}
				log.Printf("Cleared %s", table)
			}

			res, err := run(c.Context, e, rows,
				importer.WithBatchSize(c.Int("batch-size")),
				importer.WithLogger(slog.Default()),
			)
			if res != nil {
				printImportResult(c.App.Writer, name, res)
			}
			return err
		},
	}
}

func openSource(ctx context.Context, e *env, file, object string) (string, io.ReadCloser, error) {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return "", nil, fmt.Errorf("failed to open %s: %w", file, err)
		}
		return file, f, nil
	}

	store, err := e.store(ctx)
	if err != nil {
		return "", nil, err
	}
	rc, err := store.Open(ctx, object)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open object %s: %w", object, err)
	}
	return object, rc, nil
}

func printImportResult(w io.Writer, name string, res *importer.Result) {
	fmt.Fprintf(w, "%s: read %d, inserted %d, skipped %d\n", name, res.Read, res.Inserted, res.Skipped)
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "  ⚠ %s\n", warn)
	}
}

func newStageFileCommand() *cli.Command {
	return &cli.Command{
		Name:      "stage-file",
		Usage:     "Upload a register file to storage for a later import",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("file path is required")
			}
			path := c.Args().First()
			switch strings.ToLower(filepath.Ext(path)) {
			case ".csv", ".xlsx", ".xlsm":
			default:
				return fmt.Errorf("%w: %s", importer.ErrUnsupportedFormat, path)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := (&env{cfg: cfg}).store(c.Context)
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			key, err := store.Put(c.Context, storage.NamespaceImports, uuid.New(), filepath.Base(path), f)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, key)
			return nil
		},
	}
}

func newBuildAnalyticsCommand() *cli.Command {
	return &cli.Command{
		Name:  "build-analytics",
		Usage: "Recompute case insights from the cases and hearings tables",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "batch-size", Usage: "cases per page (defaults to ANALYTICS_BATCH_SIZE)"},
		},
		Action: func(c *cli.Context) error {
			e, err := openEnv(c.Context)
			if err != nil {
				return err
			}
			defer e.pool.Close()

			batchSize := e.cfg.Analytics.BatchSize
			if c.IsSet("batch-size") {
				batchSize = c.Int("batch-size")
			}

			svc := service.NewAnalyticsService(
				service.AnalyticsWithCases(repository.NewCaseRepository(e.pool)),
				service.AnalyticsWithHearings(repository.NewHearingRepository(e.pool)),
				service.AnalyticsWithInsights(repository.NewInsightRepository(e.pool)),
				service.AnalyticsWithThresholds(e.cfg.Analytics.Thresholds()),
				service.AnalyticsWithBatchSize(batchSize),
				service.AnalyticsWithLogger(slog.Default()),
			)

			n, err := svc.Rebuild(c.Context, func(processed int) {
				log.Printf("Processed %d cases", processed)
			})
			if err != nil {
				return err
			}
			log.Printf("✓ Built insights for %d cases", n)
			return nil
		},
	}
}

func newHashAdminKeyCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-admin-key",
		Usage:     "Print the bcrypt hash to set as ADMIN_KEY_HASH",
		ArgsUsage: "[key]",
		Action: func(c *cli.Context) error {
			key := c.Args().First()
			if key == "" {
				line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				key = strings.TrimSpace(line)
			}
			if key == "" {
				return errors.New("admin key is required")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, string(hash))
			return nil
		},
	}
}

func confirm(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", prompt)
	line, _ := bufio.NewReader(r).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
