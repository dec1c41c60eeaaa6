package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/sornidev/weighbridge_backend/config"
	"bitbucket.org/sornidev/weighbridge_backend/workflow"
)

// One-shot digest run for external schedulers (Cloud Scheduler, cron).
// The API server can also schedule this internally via DAILY_DIGEST_CRON.
func main() {
	ctx := context.Background()
	logger := config.GetLogger()

	config.ConnectDatabaseWithRetry()
	config.ConnectLine()

	summary, err := workflow.RunDailyDigest(ctx, logger, workflow.LinePusher{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "daily digest failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(summary.String())
}
