package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-export/internal/batch"
	"github.com/pdiddy/pubmed-export/internal/entrez"
	"github.com/pdiddy/pubmed-export/internal/export"
	"github.com/pdiddy/pubmed-export/internal/fetch"
	"github.com/pdiddy/pubmed-export/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "pubmed-export/0.1"
	toolName         = "pubmed-export"
)

var runCmd = &cobra.Command{
	Use:   "run <input-file>",
	Short: "Fetch metadata for a file of PubMed IDs and export CSV + XLSX",
	Long: `Run checks connectivity with a canary fetch, normalizes the identifiers in
the input file, fetches metadata for each sequentially, and writes
` + export.CSVName + ` and ` + export.XLSXName + `
to the input file's directory. A run that retrieves zero records completes
successfully and writes no output files.

With --debug, run performs only the connectivity check plus a single canary
fetch and prints the fetched record as YAML.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			return nil
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runRun,
}

func init() {
	runCmd.Flags().Bool("debug", false, "run only the connectivity check and a canary fetch")
	runCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	runCmd.Flags().Duration("progress-every", 0, "interval between progress summaries (default 10s)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	client := entrez.New(entrezConfig(cmd), logger)

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		return runDebug(cmd.Context(), client, logger)
	}

	inputPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving input path: %w", err)
	}

	runner := batch.NewRunner(client, logger)
	runner.ProgressEvery, _ = cmd.Flags().GetDuration("progress-every")
	if runner.ProgressEvery == 0 {
		runner.ProgressEvery = viper.GetDuration("run.progress_every")
	}

	result, err := runner.Run(cmd.Context(), inputPath)
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		logger.Warn("no metadata retrieved, nothing to export")
		return nil
	}

	outDir := filepath.Dir(inputPath)
	csvPath := filepath.Join(outDir, export.CSVName)
	xlsxPath := filepath.Join(outDir, export.XLSXName)

	if err := export.WriteCSV(csvPath, result.Records); err != nil {
		return err
	}
	if err := export.WriteXLSX(xlsxPath, result.Records); err != nil {
		return err
	}

	logger.Info("exported metadata", "records", len(result.Records), "csv", csvPath, "xlsx", xlsxPath)
	return nil
}

// runDebug performs the connectivity check and one canary fetch,
// printing the record so the response shape can be inspected.
func runDebug(ctx context.Context, client *entrez.Client, logger *log.Logger) error {
	if err := client.Verify(ctx); err != nil {
		return err
	}
	logger.Info("connectivity check passed", "pmid", entrez.CanaryPMID)

	outcome := fetch.New(client, logger).Fetch(ctx, entrez.CanaryPMID)
	if outcome.Status != fetch.StatusFound {
		return fmt.Errorf("canary fetch for PMID %s: %s", entrez.CanaryPMID, outcome.Status)
	}

	data, err := yaml.Marshal(outcome.Record)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

// entrezConfig assembles the client configuration from flags, the viper
// config file, and the secrets directory, in that precedence.
func entrezConfig(cmd *cobra.Command) types.EntrezConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("entrez.timeout")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	userAgent := viper.GetString("entrez.user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return types.EntrezConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: userAgent,
		},
		Email:  secretDefault("entrez-email", viper.GetString("entrez.email")),
		APIKey: secretDefault("ncbi-api-key", viper.GetString("entrez.api_key")),
		Tool:   toolName,
	}
}
