package sitecache

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kickoffhq/clubsite/internal/platform/logging"
	"github.com/kickoffhq/clubsite/internal/platform/resilience"
)

var errPurgeTransient = crerr.New("site cache transient failure")

type PurgerConfig struct {
	BaseURL        string
	Token          string
	Retries        int
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Purger notifies the static-site cache that a club's rendered pages are
// stale. Calls are best-effort: the caller logs and swallows failures, so the
// purger only has to fail fast and keep the circuit honest.
type Purger struct {
	client         *fasthttp.Client
	baseURL        string
	token          string
	retries        int
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewPurger(cfg PurgerConfig, logger *logging.Logger) *Purger {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Purger{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		retries:        cfg.Retries,
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// PurgeClub posts a purge request for every cached page of one club.
func (p *Purger) PurgeClub(ctx context.Context, clubID string) error {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return crerr.New("club id is required")
	}

	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "site cache circuit breaker rejected request", "state", p.breaker.State())
			return crerr.Wrap(err, "site cache is temporarily unavailable")
		}
	}

	purgeURL, err := p.purgeURL(clubID)
	if err != nil {
		return err
	}

	body, err := sonic.Marshal(map[string]string{"club_id": clubID})
	if err != nil {
		return crerr.Wrap(err, "marshal purge payload")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("sitecache.purge_url", purgeURL),
			attribute.String("sitecache.club_id", clubID),
		)
	}

	callErr := p.send(purgeURL, body)
	for attempt := 0; callErr != nil && attempt < p.retries && isPurgeTransient(callErr); attempt++ {
		p.logger.WarnContext(ctx, "site cache purge retry", "club_id", clubID, "attempt", attempt+1, "error", callErr)
		callErr = p.send(purgeURL, body)
	}

	p.recordCircuitResult(callErr)
	if callErr != nil {
		return callErr
	}

	p.logger.DebugContext(ctx, "site cache purged", "club_id", clubID)
	return nil
}

func (p *Purger) send(purgeURL string, body []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(purgeURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
	req.SetBody(body)

	if err := p.client.DoTimeout(req, resp, p.timeout); err != nil {
		return crerr.Wrapf(errPurgeTransient, "post purge url=%s: %v", purgeURL, err)
	}

	status := resp.StatusCode()
	if status/100 == 2 {
		return nil
	}

	detail := truncateForLog(string(resp.Body()), 2048)
	if isRetryableStatus(status) {
		return crerr.Wrapf(errPurgeTransient, "purge status=%d url=%s body=%s", status, purgeURL, detail)
	}
	return crerr.Newf("purge status=%d url=%s body=%s", status, purgeURL, detail)
}

func (p *Purger) purgeURL(clubID string) (string, error) {
	if p.baseURL == "" {
		return "", crerr.New("SITECACHE_BASE_URL is empty")
	}
	if !strings.HasPrefix(p.baseURL, "http://") && !strings.HasPrefix(p.baseURL, "https://") {
		return "", crerr.Newf("%q uses unsupported scheme; expected http or https", p.baseURL)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(p.baseURL)
	_, _ = buf.WriteString("/v1/purge/clubs/")
	_, _ = buf.WriteString(clubID)

	return buf.String(), nil
}

func (p *Purger) recordCircuitResult(err error) {
	if !p.circuitEnabled || p.breaker == nil {
		return
	}
	if err == nil {
		p.breaker.RecordSuccess()
		return
	}
	if isPurgeTransient(err) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

func isPurgeTransient(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errPurgeTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
