package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/entrypoint"
	"github.com/mrlokans/catalog/internal/logger"
	"github.com/mrlokans/catalog/internal/seed"
)

// SeedCommand loads a JSON fixture into the configured document store.
type SeedCommand struct {
	FixturePath string
	Driver      string
	DryRun      bool
	Verbose     bool

	// loadConfig is replaced in tests.
	loadConfig func() *config.Config
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{loadConfig: config.NewConfig}
}

// Command binds the seed flags to a cobra command.
func (sc *SeedCommand) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed --file <path>",
		Short: "Load books, libraries and creators from a JSON fixture",
		Long: `Load books, libraries and creators from a JSON fixture of the form
{"books": [...], "libraries": [...], "creators": [...]}.

Records are validated before anything is written. Store settings come from
the same environment variables as the server.`,
		Example: `  catalog seed --file fixtures/dune.json
  STORE_DRIVER=sqlite catalog seed --file fixtures/dune.json --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sc.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&sc.FixturePath, "file", "f", "", "Path to the JSON fixture (required)")
	cmd.Flags().StringVar(&sc.Driver, "driver", "", "Override STORE_DRIVER (mongo, sqlite, postgres; memory only with --dry-run)")
	cmd.Flags().BoolVar(&sc.DryRun, "dry-run", false, "Validate the fixture without writing")
	cmd.Flags().BoolVarP(&sc.Verbose, "verbose", "v", false, "Enable debug logging")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (sc *SeedCommand) Run(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := sc.loadConfig()
	if driver := strings.ToLower(strings.TrimSpace(sc.Driver)); driver != "" {
		cfg.Store.Driver = driver
	}
	if cfg.Store.Driver == config.StoreDriverMemory && !sc.DryRun {
		return fmt.Errorf("the %s store does not outlive the seed command; use --dry-run or another driver", config.StoreDriverMemory)
	}
	level := cfg.Log.Level
	if sc.Verbose {
		level = "debug"
	}
	logger.Configure(level, cfg.Log.Format)

	fixture, err := seed.LoadFile(sc.FixturePath)
	if err != nil {
		return err
	}
	if err := fixture.Validate(); err != nil {
		return fmt.Errorf("invalid fixture: %w", err)
	}

	if sc.DryRun {
		fmt.Fprintf(out, "Fixture OK: %d books, %d libraries, %d creators (dry run, nothing written)\n",
			len(fixture.Books), len(fixture.Libraries), len(fixture.Creators))
		return nil
	}

	cat, client, err := entrypoint.OpenCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close(context.Background())

	result, err := seed.Apply(ctx, cat, fixture)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Seeded %s into the %s store\n", result, cfg.Store.Driver)
	return nil
}
