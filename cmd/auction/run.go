package main

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudx-io/siteauction/auctionapi"
	"github.com/cloudx-io/siteauction/core"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve a batch of auctions",
	Long: `Reads a batch of auctions and writes one winner list per auction, in input order.

Examples:
  # Read from stdin, write JSON to stdout
  auction run < input.json

  # Files, strict admission policy
  auction run --input input.json --output winners.json --policy any_of

  # CBOR in and out
  auction run --format cbor --input input.cbor --output winners.cbor`,
	RunE: runAuctions,
}

func init() {
	f := runCmd.Flags()
	f.String("input", "", "batch input file (default: stdin)")
	f.String("output", "", "results output file (default: stdout)")
	f.String("format", "json", "input/output format: json or cbor")
	f.String("policy", "", "bid admission policy: all_of or any_of (overrides config)")

	rootCmd.AddCommand(runCmd)
}

func runAuctions(cmd *cobra.Command, _ []string) error {
	log := zap.L().With(
		zap.String("command", "run"),
		zap.String("run_id", uuid.NewString()),
	)

	f := cmd.Flags()
	inputPath, _ := f.GetString("input")
	outputPath, _ := f.GetString("output")
	formatName, _ := f.GetString("format")
	policyName, _ := f.GetString("policy")

	format, err := auctionapi.ParseFormat(formatName)
	if err != nil {
		return eris.Wrap(err, "run: --format")
	}

	policy := cfg.Policy()
	if policyName != "" {
		if policy, err = core.ParseAdmissionPolicy(policyName); err != nil {
			return eris.Wrap(err, "run: --policy")
		}
	}

	roster, err := loadRoster()
	if err != nil {
		return err
	}
	log = log.With(zap.String("roster", core.ComputeRosterFingerprint(roster)))

	in, closeIn, err := openInput(cmd, inputPath)
	if err != nil {
		return err
	}
	defer closeIn()

	batch, err := auctionapi.DecodeBatch(in, format)
	if err != nil {
		return eris.Wrap(err, "run: read batch")
	}

	processor := core.NewProcessor(roster, policy).WithLogger(log)
	results := processor.Process(batch.Auctions)

	out, closeOut, err := openOutput(cmd, outputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	if err := batch.EncodeResults(out, format, results); err != nil {
		return eris.Wrap(err, "run: write results")
	}

	return nil
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "run: open input %s", path)
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "run: create output %s", path)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			zap.L().Error("failed to close output", zap.String("path", path), zap.Error(err))
		}
	}, nil
}
