package services

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"datapulse.api/internal/core/domain"
)

// Catalog generates the synthetic records served by the demo API. Every call
// re-rolls the jitter around fixed base values.
type Catalog struct {
	mu      sync.Mutex
	rng     *rand.Rand
	now     func() time.Time
	started time.Time
}

func NewCatalog(rng *rand.Rand, now func() time.Time) *Catalog {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if now == nil {
		now = time.Now
	}
	return &Catalog{rng: rng, now: now, started: now()}
}

type scraperSeed struct {
	id, name    string
	state       domain.ScraperState
	dataPoints  int64
	successRate float64
	category    string
	schedule    string
	avgSecs     int
}

var scraperSeeds = []scraperSeed{
	{"scraper-001", "E-Commerce Price Tracker", domain.ScraperStateRunning, 45_230, 99.2, "ecommerce", "Every 6h", 180},
	{"scraper-002", "Social Media Trends", domain.ScraperStateRunning, 128_400, 97.8, "social", "Every 1h", 45},
	{"scraper-003", "News Aggregator", domain.ScraperStateRunning, 67_890, 99.5, "news", "Every 30m", 30},
	{"scraper-004", "Crypto Market Data", domain.ScraperStateRunning, 312_000, 99.9, "crypto", "Every 5m", 8},
	{"scraper-005", "Weather Data Collector", domain.ScraperStateRunning, 89_100, 98.7, "weather", "Every 1h", 20},
	{"scraper-006", "Job Listings Monitor", domain.ScraperStatePaused, 23_450, 96.3, "jobs", "Every 12h", 300},
	{"scraper-007", "Real Estate Tracker", domain.ScraperStatePaused, 15_670, 94.1, "realestate", "Every 24h", 600},
	{"scraper-008", "Flight Price Monitor", domain.ScraperStateError, 8_900, 87.5, "travel", "Every 3h", 120},
}

// ScraperName resolves a scraper id to its display name.
func ScraperName(id string) (string, bool) {
	for _, s := range scraperSeeds {
		if s.id == id {
			return s.name, true
		}
	}
	return "Unknown Scraper", false
}

func (c *Catalog) ScraperStatuses() domain.ScraperStatuses {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	out := make(domain.ScraperStatuses, 0, len(scraperSeeds))
	for _, s := range scraperSeeds {
		rate := round1(s.successRate + c.uniform(-0.5, 0.5))
		out = append(out, domain.ScraperStatus{
			ID:              s.id,
			Name:            s.name,
			Status:          s.state,
			LastRun:         now.Add(-time.Duration(c.rng.IntN(12)) * time.Hour),
			SuccessRate:     math.Min(rate, 100),
			DataPoints:      int64(float64(s.dataPoints) * c.uniform(0.98, 1.02)),
			Category:        s.category,
			Schedule:        s.schedule,
			AvgDurationSecs: s.avgSecs,
		})
	}
	return out
}

func (c *Catalog) DashboardStats() domain.DashboardStats {
	scrapers := c.ScraperStatuses()

	c.mu.Lock()
	defer c.mu.Unlock()

	stats := domain.DashboardStats{
		TotalScrapers:     len(scrapers),
		UptimePercent:     99.7,
		RequestsToday:     4_821 + int64(c.rng.IntN(200)),
		AvgResponseTimeMS: 120 + c.rng.IntN(45),
		LastUpdated:       c.now().UTC(),
		Uptime:            int64(c.now().Sub(c.started).Seconds()),
		Scrapers:          scrapers,
	}
	for _, s := range scrapers {
		if s.Status == domain.ScraperStateRunning {
			stats.ActiveScrapers++
		}
		stats.DataPoints += s.DataPoints
	}
	return stats
}

type productSeed struct {
	id, name, category string
	basePrice          float64
	source             string
	rating             float64
	reviews            int
}

var productSeeds = []productSeed{
	{"elec-001", "Samsung Galaxy S24 Ultra", "Electronics", 42999, "Trendyol", 4.8, 3421},
	{"elec-002", "Apple MacBook Air M3", "Electronics", 54999, "Hepsiburada", 4.9, 1876},
	{"elec-003", "Sony WH-1000XM5 Headphones", "Electronics", 11499, "Trendyol", 4.7, 2103},
	{"elec-004", `iPad Pro 12.9" M2`, "Electronics", 38999, "Hepsiburada", 4.8, 945},
	{"elec-005", `LG C3 65" OLED TV`, "Electronics", 64999, "Trendyol", 4.9, 567},
	{"elec-006", "Dyson V15 Detect Vacuum", "Electronics", 24999, "Hepsiburada", 4.6, 832},
	{"elec-007", "Logitech MX Master 3S", "Electronics", 3299, "Trendyol", 4.7, 4521},
	{"elec-008", "PlayStation 5 Slim", "Electronics", 18499, "Hepsiburada", 4.8, 6712},
	{"elec-009", "Anker 737 Power Bank", "Electronics", 2799, "Trendyol", 4.5, 1543},
	{"elec-010", "Bose QuietComfort Ultra", "Electronics", 13999, "Hepsiburada", 4.6, 987},
	{"cloth-001", "Nike Air Max 270", "Clothing", 4299, "Trendyol", 4.5, 8934},
	{"cloth-002", "Adidas Ultraboost 23", "Clothing", 5199, "Hepsiburada", 4.6, 3210},
	{"cloth-003", "Levi's 501 Original Jeans", "Clothing", 2499, "Trendyol", 4.4, 5678},
	{"cloth-004", "The North Face Thermoball Jacket", "Clothing", 7999, "Hepsiburada", 4.7, 1234},
	{"cloth-005", "Zara Wool Blend Overcoat", "Clothing", 3999, "Trendyol", 4.3, 2456},
	{"cloth-006", "H&M Regular Fit Oxford Shirt", "Clothing", 799, "Hepsiburada", 4.2, 7890},
	{"cloth-007", "Puma RS-X Sneakers", "Clothing", 3599, "Trendyol", 4.4, 1567},
	{"cloth-008", "Columbia Hiking Boots", "Clothing", 4799, "Hepsiburada", 4.6, 2890},
	{"cloth-009", "Mango Knit Sweater", "Clothing", 1299, "Trendyol", 4.1, 3456},
	{"cloth-010", "Tommy Hilfiger Polo Shirt", "Clothing", 1899, "Hepsiburada", 4.5, 4123},
}

const priceHistoryDays = 30

func (c *Catalog) Products() domain.ProductList {
	c.mu.Lock()
	defer c.mu.Unlock()

	products := make([]domain.Product, 0, len(productSeeds))
	for _, p := range productSeeds {
		price := round2(p.basePrice * (1 + c.uniform(-0.02, 0.02)))

		history := make([]float64, priceHistoryDays)
		for i := range history {
			history[i] = round2(p.basePrice * (1 + c.uniform(-0.05, 0.05)))
		}
		prev := history[len(history)-1]

		products = append(products, domain.Product{
			ID:           p.id,
			Name:         p.name,
			Category:     p.category,
			Source:       p.source,
			Price:        price,
			Currency:     "TRY",
			Change24h:    round2((price - prev) / prev * 100),
			Rating:       math.Min(round1(p.rating+c.uniform(-0.1, 0.1)), 5),
			ReviewCount:  int(float64(p.reviews) * (1 + c.uniform(-0.05, 0.05))),
			InStock:      c.rng.Float64() < 0.85,
			URL:          fmt.Sprintf("https://%s.com/p/%s", strings.ToLower(p.source), p.id),
			PriceHistory: history,
		})
	}
	return domain.ProductList{Count: len(products), Products: products}
}

// PriceHistory returns one price per day for the last 30 days, oldest first.
// Unknown products get a base price of 1000.
func (c *Catalog) PriceHistory(productID string) domain.PriceHistory {
	base := 1000.0
	for _, p := range productSeeds {
		if p.id == productID {
			base = p.basePrice
			break
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	points := make([]domain.PricePoint, priceHistoryDays)
	for i := range points {
		day := now.AddDate(0, 0, -(priceHistoryDays - 1 - i))
		points[i] = domain.PricePoint{
			Date:  day.Format(time.DateOnly),
			Price: round2(base * (1 + c.uniform(-0.05, 0.05))),
		}
	}
	return domain.PriceHistory{ProductID: productID, DataPoints: len(points), History: points}
}

type topicSeed struct {
	id, topic         string
	mentions          int64
	pos, neg, neu     float64
	platform, hashtag string
}

var topicSeeds = []topicSeed{
	{"tech-ai", "AI Regulation", 124500, 42, 28, 30, "Twitter", "#AIRegulation"},
	{"tech-quantum", "Quantum Computing", 89200, 61, 12, 27, "Twitter", "#QuantumComputing"},
	{"sports-ucl", "Champions League", 312000, 55, 20, 25, "Twitter", "#UCL"},
	{"gaming-gta", "GTA VI Trailer", 567000, 72, 8, 20, "Reddit", "#GTAVI"},
	{"music-grammy", "Grammy Awards 2026", 234000, 48, 32, 20, "Instagram", "#Grammys"},
	{"finance-btc", "Bitcoin Rally", 178000, 65, 18, 17, "Twitter", "#Bitcoin"},
	{"health-mental", "Mental Health Awareness", 91200, 58, 15, 27, "Instagram", "#MentalHealth"},
	{"climate-cop", "COP31 Summit", 67800, 35, 40, 25, "Twitter", "#COP31"},
	{"food-vegan", "Veganuary Results", 45600, 52, 22, 26, "Instagram", "#Veganuary"},
	{"space-mars", "Mars Mission Update", 156000, 78, 5, 17, "Reddit", "#MarsUpdate"},
	{"fashion-week", "Paris Fashion Week", 203000, 62, 14, 24, "Instagram", "#PFW"},
	{"politics-election", "EU Policy Reform", 134000, 30, 45, 25, "Twitter", "#EUReform"},
	{"education-remote", "Remote Learning Stats", 56700, 40, 35, 25, "Reddit", "#RemoteLearning"},
	{"auto-ev", "EV Battery Breakthrough", 98400, 70, 10, 20, "Twitter", "#EVBattery"},
	{"social-threads", "Threads vs Twitter", 189000, 38, 34, 28, "Reddit", "#ThreadsVsTwitter"},
}

func (c *Catalog) Trends() domain.TrendList {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	trends := make([]domain.SocialTrend, 0, len(topicSeeds))
	for i, t := range topicSeeds {
		trends = append(trends, domain.SocialTrend{
			ID:       t.id,
			Topic:    t.topic,
			Mentions: int64(float64(t.mentions) * c.uniform(0.9, 1.1)),
			Sentiment: domain.Sentiment{
				Positive: clampPercent(t.pos + c.uniform(-3, 3)),
				Negative: clampPercent(t.neg + c.uniform(-3, 3)),
				Neutral:  clampPercent(t.neu + c.uniform(-3, 3)),
			},
			Platform:      t.platform,
			Hashtag:       t.hashtag,
			PeakHour:      fmt.Sprintf("%02d:00 UTC", (10+i*2)%24),
			TrendingSince: now.Add(-time.Duration(2+c.rng.IntN(46)) * time.Hour),
		})
	}
	return domain.TrendList{Count: len(trends), Trends: trends}
}

// Sentiment returns 24 hourly sentiment samples for topic, oldest first.
func (c *Catalog) Sentiment(topic string) domain.SentimentSeries {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	basePos := c.uniform(35, 65)
	baseNeg := c.uniform(10, 35)
	baseNeu := 100 - basePos - baseNeg

	series := domain.SentimentSeries{
		Topic:      topic,
		DataPoints: make([]domain.SentimentPoint, 24),
		Overall: domain.Sentiment{
			Positive: round1(basePos),
			Negative: round1(baseNeg),
			Neutral:  round1(baseNeu),
		},
	}
	for i := range series.DataPoints {
		p := domain.SentimentPoint{
			Timestamp:    now.Add(-time.Duration(23-i) * time.Hour),
			Positive:     clampPercent(basePos + c.uniform(-8, 8)),
			Negative:     clampPercent(baseNeg + c.uniform(-5, 5)),
			Neutral:      clampPercent(baseNeu + c.uniform(-5, 5)),
			MentionCount: int64(500 + c.rng.IntN(4500)),
		}
		series.DataPoints[i] = p
		series.TotalMentions += p.MentionCount
	}
	return series
}

type articleSeed struct {
	title, source, category, summary, author string
}

var articleSeeds = []articleSeed{
	{
		title:    "Global AI Summit Concludes with Landmark Safety Agreement",
		source:   "Reuters",
		category: "Technology",
		summary:  "World leaders reached consensus on AI safety protocols at the Geneva summit, establishing binding guidelines for frontier model development.",
		author:   "Dr. Sarah Mitchell",
	},
	{
		title:    "European Central Bank Holds Rates Steady Amid Inflation Concerns",
		source:   "Financial Times",
		category: "Finance",
		summary:  "The ECB maintained its benchmark rate at 3.25%, citing persistent core inflation despite softening energy prices across the eurozone.",
		author:   "James Crawford",
	},
	{
		title:    "SpaceX Successfully Launches First Commercial Mars Cargo Mission",
		source:   "Space.com",
		category: "Science",
		summary:  "The Starship Heavy lifted off from Boca Chica carrying 50 tonnes of pre-positioned supplies for the planned 2028 crewed Mars mission.",
		author:   "Emily Zhang",
	},
	{
		title:    "Breakthrough Battery Technology Promises 1000-Mile EV Range",
		source:   "Ars Technica",
		category: "Technology",
		summary:  "Researchers at Stanford unveiled a solid-state lithium-sulfur battery achieving 950 Wh/kg energy density, potentially revolutionizing electric vehicle range.",
		author:   "Marcus Rivera",
	},
	{
		title:    "Champions League Quarter-Final Draw Produces Dream Matchups",
		source:   "ESPN",
		category: "Sports",
		summary:  "The UEFA Champions League draw paired Real Madrid against Manchester City and Bayern Munich against Barcelona in highly anticipated quarter-final ties.",
		author:   "David O'Brien",
	},
	{
		title:    "Major Cybersecurity Vulnerability Found in IoT Devices Worldwide",
		source:   "Wired",
		category: "Technology",
		summary:  "Security researchers disclosed a critical flaw affecting an estimated 2 billion connected devices, prompting emergency patches from major manufacturers.",
		author:   "Alex Kowalski",
	},
	{
		title:    "UN Climate Report Warns of Accelerating Arctic Ice Loss",
		source:   "BBC News",
		category: "Environment",
		summary:  "New satellite data reveals Arctic sea ice is declining 15% faster than previous models predicted, with potential ice-free summers by 2035.",
		author:   "Dr. Rachel Green",
	},
	{
		title:    "Tokyo Stock Exchange Reaches All-Time High",
		source:   "Bloomberg",
		category: "Finance",
		summary:  "The Nikkei 225 surged past 45,000 for the first time, driven by strong semiconductor earnings and a weakening yen boosting export competitiveness.",
		author:   "Kenji Tanaka",
	},
	{
		title:    "WHO Declares New Pandemic Preparedness Framework",
		source:   "The Guardian",
		category: "Health",
		summary:  "The World Health Organization launched a comprehensive early-warning system integrating genomic surveillance across 180 member nations.",
		author:   "Lisa Andersen",
	},
	{
		title:    "Quantum Computing Milestone: First Error-Corrected Calculation",
		source:   "Nature",
		category: "Science",
		summary:  "Google DeepMind achieved the first fully error-corrected quantum computation using 1,000 physical qubits, marking a pivotal step toward practical quantum advantage.",
		author:   "Prof. Michael Chen",
	},
	{
		title:    "Global Shipping Disruptions Ease as Red Sea Tensions Subside",
		source:   "CNBC",
		category: "Business",
		summary:  "Container shipping rates dropped 30% as major carriers resumed Red Sea transit routes following diplomatic breakthroughs in the region.",
		author:   "Hannah Brooks",
	},
	{
		title:    "India Surpasses China as World's Most Populous Nation by UN Metrics",
		source:   "Al Jazeera",
		category: "World",
		summary:  "Updated census data confirms India's population at 1.44 billion, with demographic shifts expected to reshape global economic dynamics over the coming decades.",
		author:   "Priya Sharma",
	},
	{
		title:    "New CRISPR Therapy Shows Promise for Sickle Cell Disease",
		source:   "STAT News",
		category: "Health",
		summary:  "Phase III clinical trial results demonstrated 94% efficacy in eliminating pain crises for sickle cell patients using a single-dose gene editing treatment.",
		author:   "Dr. Thomas Wright",
	},
	{
		title:    "Renewable Energy Surpasses Fossil Fuels in EU Power Generation",
		source:   "Euronews",
		category: "Environment",
		summary:  "For the first time, wind and solar generated more electricity than coal and gas combined across the European Union in a full calendar year.",
		author:   "Marie Dubois",
	},
	{
		title:    "Hollywood Actors Ratify New AI Likeness Protection Agreement",
		source:   "Variety",
		category: "Entertainment",
		summary:  "SAG-AFTRA members overwhelmingly approved a contract establishing strict consent and compensation frameworks for AI-generated performances.",
		author:   "Jordan Hayes",
	},
	{
		title:    "Central African Mining Deal Sparks International Resource Debate",
		source:   "The Economist",
		category: "Business",
		summary:  "A $12 billion rare-earth mining agreement between the DRC and a consortium of Asian firms reignited discussions about resource sovereignty.",
		author:   "Robert Okafor",
	},
	{
		title:    "Self-Driving Taxi Services Expand to 15 New US Cities",
		source:   "TechCrunch",
		category: "Technology",
		summary:  "Waymo and Cruise announced simultaneous expansions, bringing autonomous ride-hailing to medium-sized cities following updated federal safety frameworks.",
		author:   "Sophia Martinez",
	},
	{
		title:    "Global Wheat Prices Surge After Australian Drought Worsens",
		source:   "AgriPulse",
		category: "Finance",
		summary:  "Commodity markets reacted sharply as Australia's Bureau of Meteorology downgraded harvest projections by 40%, threatening global food supply chains.",
		author:   "Peter Hennessy",
	},
	{
		title:    "Ancient Roman City Discovered Beneath Istanbul Construction Site",
		source:   "National Geographic",
		category: "Culture",
		summary:  "Archaeologists uncovered a remarkably preserved Roman settlement dating to the 3rd century AD during metro expansion excavations near the Golden Horn.",
		author:   "Dr. Elif Yilmaz",
	},
	{
		title:    "World's Largest Offshore Wind Farm Begins Operations in North Sea",
		source:   "Energy Monitor",
		category: "Environment",
		summary:  "The 4.1 GW Dogger Bank wind farm achieved full operational capacity, capable of powering 6 million UK homes with clean energy.",
		author:   "Oliver Walsh",
	},
	{
		title:    "Federal Reserve Signals Potential Rate Cuts in Q2 2026",
		source:   "Wall Street Journal",
		category: "Finance",
		summary:  "Fed Chair's testimony indicated growing confidence in inflation trends, with markets now pricing in three 25-basis-point cuts beginning in April.",
		author:   "Catherine Blake",
	},
	{
		title:    "Major Social Media Platforms Implement Age Verification Systems",
		source:   "The Verge",
		category: "Technology",
		summary:  "Meta, TikTok, and X rolled out mandatory identity verification for users under 18, complying with new EU and US digital safety regulations.",
		author:   "Tyler Kim",
	},
	{
		title:    "Olympic Committee Announces Esports Exhibition Events for 2028 LA Games",
		source:   "Polygon",
		category: "Sports",
		summary:  "Five competitive gaming titles will be featured as exhibition events at the 2028 Los Angeles Olympics, marking a historic step for competitive gaming.",
		author:   "Ryan Patel",
	},
	{
		title:    "Global Microchip Shortage Finally Easing, Industry Reports Show",
		source:   "Semiconductor Weekly",
		category: "Technology",
		summary:  "Leading foundries reported utilization rates returning to normal levels as new fabrication facilities in the US, Japan, and EU reach production capacity.",
		author:   "Dr. Hiro Nakamura",
	},
	{
		title:    "Record-Breaking Coral Reef Recovery Observed in Great Barrier Reef",
		source:   "ABC Australia",
		category: "Environment",
		summary:  "Marine biologists documented unprecedented coral growth across 60% of surveyed sites, attributed to coordinated conservation efforts and cooler-than-expected water temperatures.",
		author:   "Dr. Claire Bennett",
	},
}

var readTimes = []int{3, 4, 5, 6, 7, 8}

// NewsFeed returns every article, newest first.
func (c *Catalog) NewsFeed() domain.NewsFeed {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	articles := make([]domain.NewsArticle, 0, len(articleSeeds))
	for i, a := range articleSeeds {
		articles = append(articles, domain.NewsArticle{
			ID:              fmt.Sprintf("news-%03d", i+1),
			Title:           a.title,
			Source:          a.source,
			Published:       now.Add(-time.Duration(1+c.rng.IntN(71)) * time.Hour),
			Category:        a.category,
			Summary:         a.summary,
			URL:             fmt.Sprintf("https://%s.com/articles/%s", strings.ToLower(strings.ReplaceAll(a.source, " ", "")), slug(a.title)),
			Author:          a.author,
			ReadTimeMinutes: readTimes[c.rng.IntN(len(readTimes))],
			ImageURL:        fmt.Sprintf("https://picsum.photos/seed/%d/800/400", i+100),
		})
	}
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Published.After(articles[j].Published)
	})
	return domain.NewsFeed{Count: len(articles), Articles: articles}
}

type coinSeed struct {
	id, symbol, name string
	basePrice        float64
	rank             int
	marketCap        int64
	volume           int64
}

var coinSeeds = []coinSeed{
	{"bitcoin", "BTC", "Bitcoin", 97_450, 1, 1_910_000_000_000, 42_300_000_000},
	{"ethereum", "ETH", "Ethereum", 3_280, 2, 394_000_000_000, 18_700_000_000},
	{"solana", "SOL", "Solana", 198.50, 3, 91_200_000_000, 5_400_000_000},
	{"bnb", "BNB", "BNB", 625, 4, 93_800_000_000, 2_100_000_000},
	{"xrp", "XRP", "XRP", 2.48, 5, 135_000_000_000, 8_900_000_000},
	{"cardano", "ADA", "Cardano", 0.92, 6, 32_600_000_000, 1_200_000_000},
	{"avalanche", "AVAX", "Avalanche", 38.75, 7, 15_800_000_000, 890_000_000},
	{"polkadot", "DOT", "Polkadot", 7.82, 8, 10_900_000_000, 420_000_000},
	{"chainlink", "LINK", "Chainlink", 19.45, 9, 12_300_000_000, 780_000_000},
	{"polygon", "MATIC", "Polygon", 0.87, 10, 8_100_000_000, 560_000_000},
}

const sparklinePoints = 24

func (c *Catalog) CryptoPrices() domain.CryptoPrices {
	c.mu.Lock()
	defer c.mu.Unlock()

	prices := make([]domain.CryptoPrice, 0, len(coinSeeds))
	for _, coin := range coinSeeds {
		price := round2(coin.basePrice * (1 + c.uniform(-0.005, 0.005)))
		changePct := round2(c.uniform(-5, 5))

		spark := make([]float64, sparklinePoints)
		for i := range spark {
			spark[i] = round2(coin.basePrice * (1 + c.uniform(-0.03, 0.03)))
		}

		prices = append(prices, domain.CryptoPrice{
			ID:               coin.id,
			Symbol:           coin.symbol,
			Name:             coin.name,
			Price:            price,
			Currency:         "USD",
			Change24h:        round2(price * changePct / 100),
			Change24hPercent: changePct,
			Change7dPercent:  round2(c.uniform(-12, 12)),
			MarketCap:        int64(float64(coin.marketCap) * c.uniform(0.95, 1.05)),
			Volume24h:        int64(float64(coin.volume) * c.uniform(0.8, 1.2)),
			Sparkline:        spark,
			Rank:             coin.rank,
		})
	}
	return domain.CryptoPrices{Count: len(prices), Currency: "USD", Prices: prices}
}

type citySeed struct {
	name, country string
	baseTemp      float64
	humidity      int
	condition     string
}

var citySeeds = map[string]citySeed{
	"london":   {"London", "United Kingdom", 8, 75, "Overcast"},
	"new york": {"New York", "United States", 2, 55, "Partly Cloudy"},
	"newyork":  {"New York", "United States", 2, 55, "Partly Cloudy"},
	"tokyo":    {"Tokyo", "Japan", 10, 50, "Clear"},
	"paris":    {"Paris", "France", 7, 70, "Light Rain"},
	"berlin":   {"Berlin", "Germany", 3, 65, "Cloudy"},
	"sydney":   {"Sydney", "Australia", 26, 60, "Sunny"},
	"dubai":    {"Dubai", "UAE", 24, 40, "Sunny"},
	"moscow":   {"Moscow", "Russia", -5, 80, "Snow"},
	"mumbai":   {"Mumbai", "India", 30, 65, "Haze"},
	"ankara":   {"Ankara", "Turkey", 2, 60, "Partly Cloudy"},
}

var defaultCity = citySeed{"Istanbul", "Turkey", 9, 68, "Partly Cloudy"}

var (
	windDirections     = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	forecastConditions = []string{"Sunny", "Partly Cloudy", "Cloudy", "Overcast", "Light Rain", "Rain", "Clear"}
)

// Weather returns current conditions and a five day forecast. Unknown cities
// fall back to Istanbul.
func (c *Catalog) Weather(city string) domain.WeatherData {
	seed, ok := citySeeds[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		seed = defaultCity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	temp := math.Round(seed.baseTemp + c.uniform(-2, 2))

	forecast := make([]domain.WeatherForecast, 5)
	for i := range forecast {
		dayVar := c.uniform(-3, 3)
		cond := forecastConditions[c.rng.IntN(len(forecastConditions))]
		forecast[i] = domain.WeatherForecast{
			Date:          now.AddDate(0, 0, i+1).Format(time.DateOnly),
			TempHigh:      math.Round(seed.baseTemp + dayVar + c.uniform(2, 6)),
			TempLow:       math.Round(seed.baseTemp + dayVar - c.uniform(2, 5)),
			Condition:     cond,
			Icon:          weatherIcon(cond),
			Precipitation: c.rng.IntN(80),
			Humidity:      clampInt(seed.humidity+c.rng.IntN(30)-15, 20, 95),
			WindSpeed:     round1(c.uniform(3, 35)),
		}
	}

	return domain.WeatherData{
		City:    seed.name,
		Country: seed.country,
		Current: domain.CurrentConditions{
			Temp:          temp,
			FeelsLike:     math.Round(temp - c.uniform(1, 4)),
			Humidity:      clampInt(seed.humidity+c.rng.IntN(20)-10, 20, 95),
			WindSpeed:     round1(c.uniform(5, 30)),
			WindDirection: windDirections[c.rng.IntN(len(windDirections))],
			Condition:     seed.condition,
			Icon:          weatherIcon(seed.condition),
			UVIndex:       1 + c.rng.IntN(9),
			VisibilityKM:  round1(c.uniform(5, 20)),
			PressureHPA:   1005 + c.rng.IntN(20),
		},
		Forecast:    forecast,
		LastUpdated: now,
	}
}

func weatherIcon(condition string) string {
	switch condition {
	case "Sunny", "Clear":
		return "sun"
	case "Partly Cloudy":
		return "cloud-sun"
	case "Cloudy", "Overcast":
		return "cloud"
	case "Light Rain", "Rain":
		return "cloud-rain"
	case "Snow":
		return "snowflake"
	case "Haze":
		return "haze"
	default:
		return "cloud"
	}
}

// uniform returns a value in [lo, hi). Callers must hold c.mu.
func (c *Catalog) uniform(lo, hi float64) float64 {
	return lo + c.rng.Float64()*(hi-lo)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func slug(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, "-")
}
