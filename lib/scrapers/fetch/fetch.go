package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"ssl-dataset/lib/restyutil"
	"ssl-dataset/lib/telemetry"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("ssl-dataset.lib.scrapers.fetch")
var meter = telemetry.Meter("ssl-dataset.lib.scrapers.fetch")
var pagesFetched, _ = meter.Int64Counter("pages_fetched")

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Fetcher returns the raw contents of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type FetchError struct {
	URL string
	// zero when the request never got a response
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Err.Error())
	}
	return fmt.Sprintf("fetch %s: unexpected status %s", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Options struct {
	// one of these is slept before every request, empty means no delay
	Delays []time.Duration
	// zero means requests never time out
	Timeout   time.Duration
	UserAgent string
	// if set, every request/response pair is dumped to it
	Output restyutil.InstrumentOutput
}

type Client struct {
	http   *resty.Client
	delays []time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewClient(opts Options) *Client {
	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client.SetHeader("user-agent", userAgent)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	restyutil.InstrumentClient(client, tracer, opts.Output)

	return &Client{
		http:   client,
		delays: opts.Delays,
		sleep:  sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Delay picks one of the configured delays uniformly at random.
func (c *Client) Delay() time.Duration {
	if len(c.delays) == 0 {
		return 0
	}
	return c.delays[rand.IntN(len(c.delays))]
}

func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	delay := c.Delay()
	if delay > 0 {
		slog.DebugContext(ctx, "waiting before request", "url", url, "delay", delay)
		err := c.sleep(ctx, delay)
		if err != nil {
			return nil, err
		}
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		return nil, &FetchError{URL: url, Err: err}
	}
	if !res.IsSuccess() {
		return nil, &FetchError{
			URL:        url,
			StatusCode: res.StatusCode(),
			Status:     res.Status(),
		}
	}

	pagesFetched.Add(ctx, 1, metric.WithAttributes(attribute.String("host", res.RawResponse.Request.URL.Hostname())))
	return res.Body(), nil
}
