// Package cmd - CLI command: play-price update
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"play-price/adapters/csvfile"
	"play-price/adapters/play"
	"play-price/core/batch"
	"play-price/core/catalog"
	"play-price/core/currency"
	"play-price/core/diff"
	"play-price/core/migrate"
	"play-price/core/output"
	"play-price/core/reconcile"
	"play-price/core/types"
	"play-price/internal/config"
	"play-price/internal/errors"
	"play-price/internal/logging"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Reconcile and update regional prices from a CSV file",
	Long: `Reconcile desired regional prices against the pricing service's
per-region constraints and report the changes.

The default is a dry run: reconcile, diff against the current remote
configuration, and render the report without mutating anything. Pass
--apply to write the reconciled prices in batches.`,
	RunE: runUpdate,
}

var (
	updateCSV             string
	updatePackageName     string
	updateProductID       string
	updateBasePlanID      string
	updateRegionsVersion  string
	updateServiceAccount  string
	updateApply           bool
	updateFixCurrency     bool
	updateConvertCurrency bool
	updateUseRecommended  bool
	updateBatchSize       int
	updateAvailability    bool
	updateMigrateCutoff   string
	updateMigrateIncrease string
	updateTimeout         time.Duration
)

func init() {
	updateCmd.Flags().StringVar(&updateCSV, "csv", "", "path to the price CSV (default from config)")
	updateCmd.Flags().StringVar(&updatePackageName, "package-name", "", "app package name")
	updateCmd.Flags().StringVar(&updateProductID, "product-id", "", "subscription product ID")
	updateCmd.Flags().StringVar(&updateBasePlanID, "base-plan-id", "", "base plan ID")
	updateCmd.Flags().StringVar(&updateRegionsVersion, "regions-version", "", "region catalog version")
	updateCmd.Flags().StringVar(&updateServiceAccount, "service-account", "", "path to service account key")
	updateCmd.Flags().BoolVar(&updateApply, "apply", false, "apply changes (otherwise dry run)")
	updateCmd.Flags().BoolVar(&updateFixCurrency, "fix-currency", false, "replace mismatched currencies with the required currency")
	updateCmd.Flags().BoolVar(&updateConvertCurrency, "convert-currency", false, "also convert the amount when fixing the currency")
	updateCmd.Flags().BoolVar(&updateUseRecommended, "use-recommended", false, "override CSV amounts with recommended per-region prices")
	updateCmd.Flags().IntVar(&updateBatchSize, "batch-size", 0, "apply prices in chunks of this size (0 = single write)")
	updateCmd.Flags().BoolVar(&updateAvailability, "enable-availability", false, "also make updated regions purchasable by new subscribers")
	updateCmd.Flags().StringVar(&updateMigrateCutoff, "migrate-cutoff", "", "RFC 3339 cutoff for migrating existing subscribers")
	updateCmd.Flags().StringVar(&updateMigrateIncrease, "migrate-increase-type", "opt_in", "price increase type (opt_in, opt_out)")
	updateCmd.Flags().DurationVar(&updateTimeout, "timeout", 10*time.Minute, "timeout for the whole run")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	run, csvPath, serviceAccountPath, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}

	// The migration directive is validated before anything touches the
	// network: bad migration input must block the run entirely.
	var directive *migrate.Directive
	if updateMigrateCutoff != "" {
		directive, err = migrate.Build(updateMigrateCutoff, updateMigrateIncrease)
		if err != nil {
			return err
		}
	}

	parsed, err := csvfile.ReadFile(csvPath)
	if err != nil {
		return err
	}
	for _, warning := range parsed.Warnings {
		logging.Warn("skipped CSV row",
			zap.Int("row", warning.Row), zap.String("reason", warning.Message))
	}
	logging.Info("read price rows",
		zap.String("csv", csvPath), zap.Int("rows", len(parsed.Entries)))

	httpClient, err := play.NewAuthenticatedClient(ctx, serviceAccountPath)
	if err != nil {
		return err
	}
	client := play.NewClient(run, httpClient)

	constraints, err := client.ListRegionCatalog(ctx, run.RegionsVersion)
	if err != nil {
		return err
	}
	cat := catalog.New(run.RegionsVersion, constraints)
	logging.Info("loaded region catalog",
		zap.String("version", run.RegionsVersion), zap.Int("regions", cat.Len()))

	rates, err := client.ExchangeRates(ctx)
	if err != nil {
		return err
	}
	converter := currency.NewConverter(rates)

	reconciled := reconcile.New(cat, converter).Reconcile(parsed.Entries, run.Flags)
	output.RenderWarnings(os.Stdout, reconciled.Warnings)
	if len(reconciled.Prices) == 0 {
		return errors.Input("no billable regions left after reconciliation")
	}

	current, err := client.CurrentRegionalConfig(ctx, run.ProductID, run.BasePlanID)
	if err != nil {
		return err
	}

	changes := diff.Diff(reconciled.Prices, current, run.Flags)
	output.RenderDiff(os.Stdout, changes)

	if !updateApply {
		fmt.Println("Dry run: no changes applied. Use --apply to perform the update.")
		return nil
	}

	batches := batch.Partition(reconciled.Prices, run.Flags.BatchSize)
	write := func(ctx context.Context, b batch.Batch, d *migrate.Directive) error {
		return client.UpdateRegionalConfig(ctx, run.ProductID, run.BasePlanID, b.Prices, d)
	}
	report := batch.Apply(ctx, batches, write, directive)
	output.RenderApply(os.Stdout, report)

	if !report.Succeeded() {
		if fatal := report.FatalErr(); fatal != nil {
			return fatal
		}
		return errors.Newf(errors.TypeRemote, "%d of %d batches failed",
			report.Failed, len(report.Results))
	}
	return nil
}

// buildRunConfig merges the config file with CLI overrides. Flags only
// override when explicitly set, so config-file defaults survive.
func buildRunConfig(cmd *cobra.Command) (types.RunConfig, string, string, error) {
	cfg := config.Get()

	if updatePackageName != "" {
		cfg.PackageName = updatePackageName
	}
	if updateProductID != "" {
		cfg.ProductID = updateProductID
	}
	if updateBasePlanID != "" {
		cfg.BasePlanID = updateBasePlanID
	}
	if updateRegionsVersion != "" {
		cfg.RegionsVersion = updateRegionsVersion
	}

	flags := cmd.Flags()
	if flags.Changed("fix-currency") {
		cfg.Defaults.FixCurrency = updateFixCurrency
	}
	if flags.Changed("convert-currency") {
		cfg.Defaults.ConvertCurrency = updateConvertCurrency
	}
	if flags.Changed("use-recommended") {
		cfg.Defaults.UseRecommended = updateUseRecommended
	}
	if flags.Changed("batch-size") {
		cfg.Defaults.BatchSize = updateBatchSize
	}
	if flags.Changed("enable-availability") {
		cfg.Defaults.EnableAvailability = updateAvailability
	}

	csvPath := cfg.CSVPath
	if updateCSV != "" {
		csvPath = updateCSV
	}
	serviceAccountPath := cfg.ServiceAccountPath
	if updateServiceAccount != "" {
		serviceAccountPath = updateServiceAccount
	}

	run, err := cfg.Run()
	if err != nil {
		return types.RunConfig{}, "", "", err
	}
	return run, csvPath, serviceAccountPath, nil
}
