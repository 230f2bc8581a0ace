package client

import (
	"context"
	"net/url"

	"datapulse.api/internal/core/domain"
)

func (c *Client) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	return Fetch[domain.DashboardStats](ctx, c, "/api/dashboard/stats")
}

func (c *Client) ScraperStatuses(ctx context.Context) (domain.ScraperStatuses, error) {
	return Fetch[domain.ScraperStatuses](ctx, c, "/api/scrapers/status")
}

func (c *Client) ScraperRuns(ctx context.Context, scraperID string) ([]domain.ScraperRun, error) {
	return Fetch[[]domain.ScraperRun](ctx, c, "/api/scrapers/"+url.PathEscape(scraperID)+"/runs")
}

func (c *Client) Products(ctx context.Context) (domain.ProductList, error) {
	return Fetch[domain.ProductList](ctx, c, "/api/ecommerce/products")
}

func (c *Client) PriceHistory(ctx context.Context, productID string) (domain.PriceHistory, error) {
	return Fetch[domain.PriceHistory](ctx, c, "/api/ecommerce/prices/"+url.PathEscape(productID))
}

func (c *Client) SocialTrends(ctx context.Context) (domain.TrendList, error) {
	return Fetch[domain.TrendList](ctx, c, "/api/social/trends")
}

func (c *Client) Sentiment(ctx context.Context, topic string) (domain.SentimentSeries, error) {
	return Fetch[domain.SentimentSeries](ctx, c, "/api/social/sentiment/"+url.PathEscape(topic))
}

func (c *Client) NewsFeed(ctx context.Context) (domain.NewsFeed, error) {
	return Fetch[domain.NewsFeed](ctx, c, "/api/news/feed")
}

func (c *Client) CryptoPrices(ctx context.Context) (domain.CryptoPrices, error) {
	return Fetch[domain.CryptoPrices](ctx, c, "/api/crypto/prices")
}

func (c *Client) Weather(ctx context.Context, city string) (domain.WeatherData, error) {
	return Fetch[domain.WeatherData](ctx, c, "/api/weather/"+url.PathEscape(city))
}

// WatchScraper starts scraperID and streams its progress until the run
// completes, ctx is cancelled or the stream fails. Malformed progress payloads
// are reported to onError without closing the stream.
func (c *Client) WatchScraper(ctx context.Context, scraperID string, onProgress func(domain.ScraperProgress), onError func(error)) (dispose func()) {
	var stop func()
	ready := make(chan struct{})
	stop = c.Stream(ctx, "/api/scrapers/"+url.PathEscape(scraperID)+"/start", func(data string) {
		p, err := DecodeEvent[domain.ScraperProgress](data)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onProgress(p)
		if p.Done() {
			<-ready
			stop()
		}
	}, onError)
	close(ready)
	return stop
}
