package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"lead-reconciler/core/config"
	"lead-reconciler/core/logger"
	"lead-reconciler/core/storage"
	"lead-reconciler/feature/crm"
	"lead-reconciler/feature/ingest"
	"lead-reconciler/feature/leads"
	"lead-reconciler/feature/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile command
	remoteEndpoint string
	batchObject    string
	batchBucket    string
	workerCount    int
)

// reconcileCmd reconciles a CSV lead batch against the remote CRM.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile [file.csv]",
	Short: "Reconcile a CSV lead batch against the remote CRM",
	Long: `Reconcile reads a lead batch from a CSV file (or an object in
configured storage), validates every record, skips in-batch duplicates,
and creates or updates each remaining lead in the remote CRM.

Examples:
  # Reconcile a local file
  reconcile leads.csv

  # Reconcile against a specific CRM endpoint
  reconcile leads.csv --endpoint https://crm.example.com

  # Reconcile an object from the configured bucket
  reconcile --object exports/leads.csv

  # Reconcile with 8 concurrent workers
  reconcile leads.csv --workers 8`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&remoteEndpoint, "endpoint", "", "Remote CRM endpoint (overrides configuration)")
	reconcileCmd.Flags().StringVar(&batchObject, "object", "", "Read the batch from this object in storage instead of a local file")
	reconcileCmd.Flags().StringVar(&batchBucket, "bucket", "", "Bucket holding the batch object (overrides configuration)")
	reconcileCmd.Flags().IntVar(&workerCount, "workers", 0, "Number of concurrent workers (0 = sequential)")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)

	if remoteEndpoint != "" {
		cfg.Remote.Endpoint = remoteEndpoint
	}

	// Load the batch from a local file or from storage
	batch, err := loadBatch(ctx, cfg, args)
	if err != nil {
		return err
	}
	l.Info("Loaded lead batch", zap.Int("records", len(batch)))

	client, err := crm.NewHTTPClient(cfg.Remote, l)
	if err != nil {
		return fmt.Errorf("failed to create CRM client: %w", err)
	}

	var opts []reconcile.Option
	if workerCount > 0 {
		opts = append(opts, reconcile.WithWorkers(workerCount))
	}
	engine := reconcile.NewEngine(client, l, opts...)

	outcomes, summary := engine.Run(ctx, batch)

	printOutcomes(outcomes)
	printSummary(summary)

	if summary.Errors > 0 {
		return fmt.Errorf("%d of %d records errored", summary.Errors, summary.Total)
	}
	return nil
}

// loadBatch picks the batch source: a local CSV path argument, or the
// --object flag pointing into configured storage. Exactly one is required.
func loadBatch(ctx context.Context, cfg *config.Config, args []string) ([]leads.Lead, error) {
	switch {
	case len(args) == 1 && batchObject != "":
		return nil, fmt.Errorf("pass either a file argument or --object, not both")
	case len(args) == 1:
		return ingest.Load(args[0])
	case batchObject != "":
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		bucket := cfg.Storage.Bucket
		if batchBucket != "" {
			bucket = batchBucket
		}
		return ingest.LoadObject(ctx, client, bucket, batchObject)
	default:
		return nil, fmt.Errorf("a CSV file argument or --object is required")
	}
}

// printOutcomes writes the per-record outcome table to stdout.
func printOutcomes(outcomes []reconcile.Outcome) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tACTION\tDETAILS")
	for _, o := range outcomes {
		details := ""
		if len(o.Details) > 0 {
			details = o.Details[0]
			for _, d := range o.Details[1:] {
				details += "; " + d
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", o.Lead.Email, o.Action, details)
	}
	w.Flush()
}

// printSummary writes the aggregate counters to stdout.
func printSummary(s reconcile.Summary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total\t%d\n", s.Total)
	fmt.Fprintf(w, "Created\t%d\n", s.Created)
	fmt.Fprintf(w, "Updated\t%d\n", s.Updated)
	fmt.Fprintf(w, "Skipped\t%d\n", s.Skipped)
	fmt.Fprintf(w, "Rejected\t%d\n", s.Rejected)
	fmt.Fprintf(w, "Errors\t%d\n", s.Errors)
	w.Flush()
}
