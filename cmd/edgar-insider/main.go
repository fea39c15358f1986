package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	insider "github.com/RxDataLab/edgar-insider"
)

func main() {
	cfg, err := insider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var delayMS int
	flag.StringVar(&cfg.Email, "email", cfg.Email, "Email for SEC User-Agent header (or use SEC_EMAIL env var)")
	flag.IntVar(&cfg.Form4DaysBack, "days", cfg.Form4DaysBack, "Trailing days of daily indexes to scan for Form 4 filings")
	flag.IntVar(&cfg.Form4MaxFilings, "max", cfg.Form4MaxFilings, "Maximum Form 4 filings to process per run (-1 for unlimited)")
	flag.IntVar(&cfg.Sched13DaysBack, "sched13-days", cfg.Sched13DaysBack, "Trailing days to scan for Schedule 13D/13G filings")
	flag.IntVar(&cfg.Sched13MaxFilings, "sched13-max", cfg.Sched13MaxFilings, "Maximum Schedule 13D/13G filings to process per run (-1 for unlimited)")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory for generated JSON datasets")
	flag.IntVar(&delayMS, "delay", int(cfg.RequestDelay/time.Millisecond), "Delay between SEC requests, in milliseconds")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: edgar-insider [options]\n\n")
		fmt.Fprintf(os.Stderr, "Collect insider transactions and large-holder filings from SEC EDGAR.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  SEC_EMAIL            Email for SEC User-Agent header (required)\n")
		fmt.Fprintf(os.Stderr, "  FORM4_DAYS_BACK      Same as -days\n")
		fmt.Fprintf(os.Stderr, "  FORM4_MAX_FILINGS    Same as -max\n")
		fmt.Fprintf(os.Stderr, "  SCHED13_DAYS_BACK    Same as -sched13-days\n")
		fmt.Fprintf(os.Stderr, "  SCHED13_MAX_FILINGS  Same as -sched13-max\n")
		fmt.Fprintf(os.Stderr, "  OUTPUT_DIR           Same as -out\n")
	}
	flag.Parse()
	cfg.RequestDelay = time.Duration(delayMS) * time.Millisecond

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *insider.Config) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()

	client, err := insider.NewClient(cfg.Email, insider.WithDelay(cfg.RequestDelay))
	if err != nil {
		return err
	}

	collector := insider.NewCollector(client, logger)
	sink := insider.FileSink{Dir: cfg.OutputDir}
	ctx := context.Background()

	txs, summary, err := collector.CollectForm4Transactions(ctx, cfg.Form4DaysBack, cfg.Form4MaxFilings)
	if err != nil {
		return fmt.Errorf("collect insider transactions: %w", err)
	}
	logger.Info("form 4 run complete",
		zap.Int("days_fetched", summary.DaysFetched),
		zap.Int("filings_parsed", summary.FilingsParsed),
		zap.Int("filings_skipped", summary.FilingsSkipped),
		zap.Int("rows", summary.Rows))
	if err := sink.Write("form4_transactions", insider.NewDataset("SEC EDGAR (Form 4 XML + daily index)", txs)); err != nil {
		return err
	}

	holders, summary, err := collector.CollectSchedule13Filings(ctx, cfg.Sched13DaysBack, cfg.Sched13MaxFilings)
	if err != nil {
		return fmt.Errorf("collect large-holder filings: %w", err)
	}
	logger.Info("schedule 13 run complete",
		zap.Int("days_fetched", summary.DaysFetched),
		zap.Int("filings_parsed", summary.FilingsParsed),
		zap.Int("filings_skipped", summary.FilingsSkipped),
		zap.Int("rows", summary.Rows))
	if err := sink.Write("schedule_13d13g", insider.NewDataset("SEC EDGAR (Schedule 13D/13G + daily index)", holders)); err != nil {
		return err
	}

	return nil
}
