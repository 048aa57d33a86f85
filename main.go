package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"sheetxml/internal/app"
	"sheetxml/internal/converter"
	"sheetxml/internal/deployment"
	"sheetxml/internal/sheets"
	"sheetxml/internal/workbook"

	"github.com/rs/zerolog/log"
)

// options holds the parsed command line flags
type options struct {
	mode          string
	spreadsheetID string
	ranges        string
	xlsxPath      string
	inPath        string
	outPath       string
	name          string
	folderID      string
	deploy        bool
}

func main() {
	app.SetupEnvironment()

	// Parse command line flags
	var opts options
	flag.StringVar(&opts.mode, "mode", "export", "Operation to run: export or import")
	flag.StringVar(&opts.spreadsheetID, "spreadsheet", "", "Spreadsheet to export")
	flag.StringVar(&opts.ranges, "ranges", "", "Comma-separated ranges to export (e.g. Sheet1!A1:D10)")
	flag.StringVar(&opts.xlsxPath, "xlsx", "", "Export a local .xlsx workbook instead of a remote spreadsheet")
	flag.StringVar(&opts.inPath, "in", "-", "XML document to import (- for stdin)")
	flag.StringVar(&opts.outPath, "out", "-", "Where to write the exported XML (- for stdout)")
	flag.StringVar(&opts.name, "name", "", "Name of the imported spreadsheet (default: Create Test <time>)")
	flag.StringVar(&opts.folderID, "folder", "", "Drive folder for the imported spreadsheet (default: DRIVE_FOLDER_ID)")
	flag.BoolVar(&opts.deploy, "deploy", false, "Publish the exported XML to DEPLOY_URL")
	flag.Parse()

	log.Info().
		Str("mode", opts.mode).
		Msg("Starting sheetxml")

	// Load configuration
	config, err := app.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// run returns before exiting so its deferred cleanup always happens
	if err := run(context.Background(), config, opts); err != nil {
		log.Fatal().Err(err).Str("mode", opts.mode).Msg("sheetxml failed")
	}
}

func run(ctx context.Context, config *app.Config, opts options) error {
	switch opts.mode {
	case "export":
		return runExport(ctx, config, opts)
	case "import":
		return runImport(ctx, config, opts)
	default:
		return fmt.Errorf("unknown mode %q, expected export or import", opts.mode)
	}
}

func runExport(ctx context.Context, config *app.Config, opts options) error {
	var source converter.SpreadsheetSource
	id := opts.spreadsheetID
	if opts.xlsxPath != "" {
		source = workbook.NewSource()
		id = opts.xlsxPath
	} else {
		if id == "" {
			return errors.New("-spreadsheet or -xlsx is required for export")
		}
		client, err := sheets.NewClient(ctx, config.CredentialsFile, config.Resilience)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		defer logAPICalls(client)
		source = client
	}

	var publisher converter.Publisher
	if opts.deploy {
		if config.DeployURL == "" {
			return errors.New("-deploy requires DEPLOY_URL to be set")
		}
		deployer := deployment.NewSSHDeployer(config.DeployURL, config.DeployKeyFile)
		defer func() {
			if err := deployer.Disconnect(); err != nil {
				log.Warn().Err(err).Msg("Failed to close SSH connection")
			}
		}()
		publisher = deployer
	}

	doc, err := converter.NewExporter(source, publisher).Export(ctx, id, splitRanges(opts.ranges))
	if err != nil {
		return fmt.Errorf("failed to export spreadsheet %s: %w", id, err)
	}

	if err := writeOutput(opts.outPath, doc.Data); err != nil {
		return fmt.Errorf("failed to write exported document: %w", err)
	}
	return nil
}

func runImport(ctx context.Context, config *app.Config, opts options) error {
	data, err := readInput(opts.inPath)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	folder := opts.folderID
	if folder == "" {
		folder = config.DriveFolderID
	}

	client, err := sheets.NewClient(ctx, config.CredentialsFile, config.Resilience)
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}
	defer logAPICalls(client)

	newID, err := converter.NewImporter(client).Import(ctx, data, opts.name, folder)
	if err != nil {
		if newID != "" {
			return fmt.Errorf("spreadsheet %s was created but not filled: %w", newID, err)
		}
		return fmt.Errorf("failed to import document: %w", err)
	}

	fmt.Println(newID)
	return nil
}

func logAPICalls(client *sheets.Client) {
	log.Info().
		Int64("api_calls", client.GetAPICallCount()).
		Msg("Completed Google API calls")
}

func splitRanges(raw string) []string {
	var ranges []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			ranges = append(ranges, r)
		}
	}
	return ranges
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
