package webhook

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
	"github.com/adimehta/auction-tracker/internal/platform/logging"
	"github.com/adimehta/auction-tracker/internal/platform/resilience"
	"github.com/adimehta/auction-tracker/internal/usecase"
)

var errWebhookTransient = crerr.New("webhook transient failure")

const deliverTimeoutSlack = 2 * time.Second

type NotifierConfig struct {
	Enabled        bool
	URL            string
	Secret         string
	Timeout        time.Duration
	MaxRetries     int
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Notifier delivers auction events to a configured endpoint. Delivery is
// best-effort and asynchronous; the originating mutation never waits on it.
type Notifier struct {
	client         *fasthttp.Client
	enabled        bool
	url            string
	secret         string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewNotifier(cfg NotifierConfig, logger *logging.Logger) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Notifier{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		enabled:        cfg.Enabled,
		url:            strings.TrimSpace(cfg.URL),
		secret:         strings.TrimSpace(cfg.Secret),
		timeout:        timeout,
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type eventPayload struct {
	Event      string   `json:"event"`
	PlayerID   int64    `json:"player_id"`
	PlayerName string   `json:"player_name"`
	Role       string   `json:"role"`
	SoldCr     *float64 `json:"sold_amount_cr,omitempty"`
	TeamID     *int64   `json:"team_id,omitempty"`
	TeamName   string   `json:"team_name,omitempty"`
	OccurredAt string   `json:"occurred_at"`
}

// Publish hands the event to a delivery goroutine and returns immediately.
func (n *Notifier) Publish(ctx context.Context, event usecase.AuctionEvent) {
	if !n.enabled || n.url == "" {
		return
	}

	payload := buildEventPayload(event, time.Now().UTC())
	// The request outlives the caller's context; only the trace link is kept.
	deliverCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout+deliverTimeoutSlack)
	go func() {
		defer cancel()
		if err := n.deliver(deliverCtx, payload); err != nil {
			n.logger.WarnContext(deliverCtx, "webhook delivery failed", "event", payload.Event, "player_id", payload.PlayerID, "error", err.Error())
		}
	}()
}

func (n *Notifier) deliver(ctx context.Context, payload eventPayload) error {
	if n.circuitEnabled {
		if err := n.breaker.Allow(); err != nil {
			return fmt.Errorf("webhook is temporarily unavailable: %w", err)
		}
	}

	endpoint, err := validateWebhookURL(n.url)
	if err != nil {
		return crerr.Wrap(err, "invalid WEBHOOK_URL")
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal webhook payload")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("webhook.url", endpoint),
			attribute.String("webhook.event", payload.Event),
			attribute.String("webhook.request_preview", buildRequestPreview(endpoint, body, n.secret != "")),
		)
	}

	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				n.recordCircuitResult(lastErr)
				return crerr.Wrap(ctx.Err(), "webhook delivery cancelled")
			case <-time.After(time.Duration(attempt) * 250 * time.Millisecond):
			}
		}

		lastErr = n.post(endpoint, body)
		if lastErr == nil {
			n.logger.InfoContext(ctx, "webhook delivered", "event", payload.Event, "player_id", payload.PlayerID, "attempt", attempt+1)
			n.recordCircuitResult(nil)
			return nil
		}
		if !crerr.Is(lastErr, errWebhookTransient) {
			break
		}
	}

	n.recordCircuitResult(lastErr)
	return lastErr
}

func (n *Notifier) post(endpoint string, body []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if n.secret != "" {
		req.Header.Set("X-Webhook-Secret", n.secret)
	}
	req.SetBody(body)

	if err := n.client.DoTimeout(req, resp, n.timeout); err != nil {
		return crerr.Wrapf(errWebhookTransient, "post webhook url=%s: %v", endpoint, err)
	}

	status := resp.StatusCode()
	if status/100 == 2 {
		return nil
	}
	raw := strings.TrimSpace(string(resp.Body()))
	if len(raw) > 512 {
		raw = raw[:512]
	}
	if isRetryableStatus(status) {
		return crerr.Wrapf(errWebhookTransient, "post webhook status=%d url=%s body=%s", status, endpoint, raw)
	}

	return crerr.Newf("post webhook status=%d url=%s body=%s", status, endpoint, raw)
}

func (n *Notifier) recordCircuitResult(err error) {
	if !n.circuitEnabled {
		return
	}
	if err != nil && crerr.Is(err, errWebhookTransient) {
		n.breaker.RecordFailure()
		return
	}
	if err == nil {
		n.breaker.RecordSuccess()
	}
}

func buildEventPayload(event usecase.AuctionEvent, now time.Time) eventPayload {
	p := event.Player
	out := eventPayload{
		Event:      string(event.Kind),
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Role:       string(p.Role),
		TeamName:   p.TeamName,
		OccurredAt: now.Format(time.RFC3339),
	}
	if !p.IsUnsold && p.TeamID != nil {
		soldCr := auction.CrFromLakh(p.SoldAmount)
		out.SoldCr = &soldCr
		out.TeamID = p.TeamID
	}

	return out
}

func validateWebhookURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return candidate, nil
}

func buildRequestPreview(endpoint string, body []byte, withSecret bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("POST ")
	_, _ = buf.WriteString(endpoint)
	_, _ = buf.WriteString(" Content-Type: application/json")
	if withSecret {
		_, _ = buf.WriteString(" X-Webhook-Secret: ***")
	}
	_, _ = buf.WriteString(" body=")
	if len(body) > 2048 {
		_, _ = buf.Write(body[:2048])
		_, _ = buf.WriteString("...")
	} else {
		_, _ = buf.Write(body)
	}

	return buf.String()
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status/100 == 5
}
