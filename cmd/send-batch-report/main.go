package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/sornidev/weighbridge_backend/config"
	"bitbucket.org/sornidev/weighbridge_backend/workflow"
)

// One-shot ops tool: re-dispatch the report for a batch from the
// command line (when a send failed halfway, or for a dry run against a
// fake transport).
func main() {
	batchID := flag.String("batch-id", "", "Required: upload batch id (uuid)")
	dryRun := flag.Bool("dry-run", false, "Print reports to stdout instead of pushing")
	flag.Parse()

	if strings.TrimSpace(*batchID) == "" {
		fmt.Fprintln(os.Stderr, "--batch-id is required")
		os.Exit(1)
	}

	ctx := context.Background()
	logger := config.GetLogger()

	config.ConnectDatabaseWithRetry()
	if !*dryRun {
		config.ConnectLine()
	}

	var pusher workflow.MessagePusher = workflow.LinePusher{}
	if *dryRun {
		pusher = stdoutPusher{}
	}

	summary, err := workflow.DispatchBatchReports(ctx, logger, pusher, strings.TrimSpace(*batchID))
	if err != nil {
		fmt.Fprintf(os.Stderr, "dispatch failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(summary.String())
}

type stdoutPusher struct{}

func (stdoutPusher) Push(_ context.Context, to string, text string) error {
	fmt.Printf("--- to %s ---\n%s\n", to, text)
	return nil
}
