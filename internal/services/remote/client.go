package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"
	"time"

	"CoinPulse/internal/domain/fault"
	"CoinPulse/internal/domain/models"
	domrepo "CoinPulse/internal/domain/repository"
	xhttp "CoinPulse/pkg/http"
	applogger "CoinPulse/pkg/logger"
)

// UnitConfig locates one computation unit.
type UnitConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Config maps each strategy family to the unit that computes it.
type Config struct {
	Technical  UnitConfig
	Prediction UnitConfig
	Onchain    UnitConfig
}

type unit struct {
	url    string
	client *xhttp.Client
}

// Client forwards analysis requests to their computation units. Every forward
// is a single bounded attempt: the unit answers within its timeout or the call
// fails as upstream_unavailable. Units are never retried.
type Client struct {
	units   map[models.AnalysisKind]unit
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func New(cfg Config, metrics domrepo.Metrics) *Client {
	c := &Client{units: map[models.AnalysisKind]unit{}, metrics: metrics}
	c.add(models.KindTechnical, cfg.Technical)
	c.add(models.KindPrediction, cfg.Prediction)
	c.add(models.KindOnchain, cfg.Onchain)
	return c
}

func (c *Client) add(kind models.AnalysisKind, uc UnitConfig) {
	if uc.BaseURL == "" {
		return
	}
	timeout := uc.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c.units[kind] = unit{
		url:    strings.TrimRight(uc.BaseURL, "/") + "/api/v1/" + string(kind),
		client: xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

// envelope mirrors the unit response body far enough to split payload from
// error list without re-marshaling the payload.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Forward sends one GET to the unit owning kind and returns the success
// payload unchanged. A parsed error envelope comes back as a typed fault
// carrying the unit's own code and message; transport failures and unreadable
// replies become upstream faults.
func (c *Client) Forward(ctx context.Context, kind models.AnalysisKind, query url.Values) (json.RawMessage, error) {
	start := time.Now()
	u, ok := c.units[kind]
	if !ok {
		return nil, fault.Internal("no unit configured for %s", kind)
	}

	resp, err := u.client.SendRequest(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         u.url,
		QueryParams: query,
	})
	if err != nil {
		c.metrics.RecordForward(string(kind), "unreachable")
		if c.l != nil {
			c.l.Error("unit forward failed",
				applogger.String("unit", string(kind)),
				applogger.String("url", u.url),
				applogger.Error(err),
			)
		}
		return nil, fault.Upstream("%s unit unavailable", kind).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordForward(string(kind), "unreadable")
		return nil, fault.Upstream("%s unit reply could not be read", kind).WithCause(err)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.metrics.RecordForward(string(kind), "unreadable")
		return nil, fault.Upstream("%s unit returned a malformed reply", kind).WithCause(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.metrics.RecordForward(string(kind), "ok")
		if c.l != nil {
			c.l.Info("unit forward ok",
				applogger.String("unit", string(kind)),
				applogger.Duration("duration_ms", time.Since(start)),
			)
		}
		return env.Data, nil
	}

	var errs []envelopeError
	if err := json.Unmarshal(env.Data, &errs); err != nil || len(errs) == 0 || errs[0].Code == "" {
		c.metrics.RecordForward(string(kind), "unreadable")
		return nil, fault.Upstream("%s unit answered %d without a readable error", kind, resp.StatusCode)
	}
	c.metrics.RecordForward(string(kind), "relayed_error")
	if c.l != nil {
		c.l.Info("unit forward relayed error",
			applogger.String("unit", string(kind)),
			applogger.String("code", errs[0].Code),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil, &fault.Error{Kind: fault.KindFromCode(errs[0].Code), Message: errs[0].Message}
}
