package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"datapulse.api/internal/client"
	"datapulse.api/internal/core/domain"
	"datapulse.api/internal/core/logger"
)

const usage = `usage: datapulse <command> [arg]

commands:
  stats               dashboard statistics
  scrapers            scraper status list
  products            tracked products
  prices <id>         30 day price history of a product
  trends              trending social topics
  sentiment <topic>   hourly sentiment of a topic
  news                news feed
  crypto              crypto prices
  weather <city>      current weather and forecast
  runs <scraper-id>   recent runs of a scraper
  watch <scraper-id>  start a scraper and stream its progress

DATAPULSE_API sets the server (default http://localhost:8081).`

var errUsage = errors.New(usage)

func main() {
	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.InitWriter(os.Stderr, slog.LevelDebug, "text")
	}

	baseURL := os.Getenv("DATAPULSE_API")
	if baseURL == "" {
		baseURL = "http://localhost:8081"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, baseURL, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		log.Fatalf("datapulse: %v", err)
	}
}

func run(ctx context.Context, baseURL string, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	c, err := client.New(baseURL)
	if err != nil {
		return err
	}

	cmd, arg := args[0], ""
	if len(args) > 1 {
		arg = args[1]
	}
	needArg := func() error {
		if arg == "" {
			return fmt.Errorf("%s needs an argument: %w", cmd, errUsage)
		}
		return nil
	}

	var result any
	switch cmd {
	case "stats":
		result, err = c.DashboardStats(ctx)
	case "scrapers":
		result, err = c.ScraperStatuses(ctx)
	case "products":
		result, err = c.Products(ctx)
	case "prices":
		if err = needArg(); err == nil {
			result, err = c.PriceHistory(ctx, arg)
		}
	case "trends":
		result, err = c.SocialTrends(ctx)
	case "sentiment":
		if err = needArg(); err == nil {
			result, err = c.Sentiment(ctx, arg)
		}
	case "news":
		result, err = c.NewsFeed(ctx)
	case "crypto":
		result, err = c.CryptoPrices(ctx)
	case "weather":
		if err = needArg(); err == nil {
			result, err = c.Weather(ctx, arg)
		}
	case "runs":
		if err = needArg(); err == nil {
			result, err = c.ScraperRuns(ctx, arg)
		}
	case "watch":
		if err = needArg(); err != nil {
			return err
		}
		return watch(ctx, c, arg, out)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// watch prints one line per progress step until the run completes or fails.
func watch(ctx context.Context, c *client.Client, scraperID string, out io.Writer) error {
	done := make(chan error, 1)
	dispose := c.WatchScraper(ctx, scraperID, func(p domain.ScraperProgress) {
		fmt.Fprintf(out, "[%2d/%d] %3.0f%%  %-40s records=%d\n", p.Step, p.TotalSteps, p.ProgressPercent, p.Message, p.RecordsFound)
		if p.Done() {
			select {
			case done <- nil:
			default:
			}
		}
	}, func(err error) {
		select {
		case done <- err:
		default:
		}
	})
	defer dispose()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
