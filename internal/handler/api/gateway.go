package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"CoinPulse/internal/domain/fault"
	models "CoinPulse/internal/domain/models"
	domrepo "CoinPulse/internal/domain/repository"
	icache "CoinPulse/internal/service/cache"
	"CoinPulse/internal/service/metrics"
	"CoinPulse/internal/service/ratelimit"
	"CoinPulse/internal/services/remote"
	"CoinPulse/internal/usecase"
	pkgcache "CoinPulse/pkg/cache"
	xhttp "CoinPulse/pkg/http"
	applogger "CoinPulse/pkg/logger"
	"CoinPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// GatewayConfig bounds the gateway's own behavior. Unit routing lives in the
// forward client config.
type GatewayConfig struct {
	ListingTTL   time.Duration
	RateCapacity float64
	RateRefill   float64
}

func (c GatewayConfig) withDefaults() GatewayConfig {
	if c.ListingTTL <= 0 {
		c.ListingTTL = 15 * time.Second
	}
	if c.RateCapacity <= 0 {
		c.RateCapacity = 5
	}
	if c.RateRefill <= 0 {
		c.RateRefill = 2
	}
	return c
}

// GatewayHandler is the public entry point. Catalog and compare reads are
// served locally; analysis requests are forwarded to the owning computation
// unit under a per-IP token bucket.
type GatewayHandler struct {
	logger  *applogger.Logger
	catalog *usecase.CatalogUseCase
	compare *usecase.CompareUseCase
	fwd     *remote.Client
	store   domrepo.BarStore
	cache   icache.BytesCache
	rl      *ratelimit.Limiter
	cfg     GatewayConfig
}

func NewGatewayHandler(catalog *usecase.CatalogUseCase, compare *usecase.CompareUseCase, fwd *remote.Client, store domrepo.BarStore, cfg GatewayConfig) *GatewayHandler {
	metrics.Register()
	return &GatewayHandler{
		catalog: catalog,
		compare: compare,
		fwd:     fwd,
		store:   store,
		rl:      ratelimit.New(),
		cfg:     cfg.withDefaults(),
	}
}

// SetCache injects the listing byte cache.
func (h *GatewayHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetLogger injects a structured logger.
func (h *GatewayHandler) SetLogger(l *applogger.Logger) { h.logger = l }

func (h *GatewayHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/assets", h.ListAssets)
	g.GET("/assets/:symbol", h.AssetDetail)
	g.GET("/assets/:symbol/history", h.History)
	g.GET("/analysis/:type", h.Analysis)
	g.GET("/compare", h.Compare)
	e.GET("/health", h.Health)
}

func (h *GatewayHandler) ListAssets(c echo.Context) error {
	req := &models.ListAssetsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := pkgcache.GenerateKeyWithParams("assets", req.Limit)
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(key); err != nil {
			if h.logger != nil {
				h.logger.Warn("listing cache get error", applogger.Error(err))
			}
		} else if ok {
			metrics.ResponseCache.WithLabelValues("assets", "hit").Inc()
			return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, b)
		} else {
			metrics.ResponseCache.WithLabelValues("assets", "miss").Inc()
		}
	}

	rows, err := h.catalog.ListAssets(c.Request().Context(), req.Limit)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("listing error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErrorFromFault(err))
	}

	body, err := json.Marshal(xhttp.APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    rows,
	})
	if err != nil {
		if h.logger != nil {
			h.logger.Error("listing marshal error", applogger.Error(err))
		}
		return xhttp.InternalServerErrorResponse(c)
	}
	if h.cache != nil {
		if err := h.cache.SetBytes(key, body, h.cfg.ListingTTL); err != nil && h.logger != nil {
			h.logger.Warn("listing cache set error", applogger.Error(err))
		}
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
}

func (h *GatewayHandler) AssetDetail(c echo.Context) error {
	req := &models.AssetDetailRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.catalog.AssetDetail(c.Request().Context(), req.Symbol)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("asset detail error", applogger.String("symbol", req.Symbol), applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErrorFromFault(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *GatewayHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var (
		res *models.History
		err error
	)
	if req.Ranged() {
		res, err = h.historyRange(c, req)
	} else {
		res, err = h.catalog.History(c.Request().Context(), req.Symbol, req.Days)
	}
	if err != nil {
		if h.logger != nil {
			h.logger.Error("history error", applogger.String("symbol", req.Symbol), applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErrorFromFault(err))
	}
	return xhttp.SuccessResponse(c, res)
}

// historyRange resolves the explicit from/to pair. Day formats are already
// validated by the request tags; a lone from or to is still rejected here.
func (h *GatewayHandler) historyRange(c echo.Context, req *models.HistoryRequest) (*models.History, error) {
	if req.From == "" || req.To == "" {
		return nil, fault.InvalidParameters("from and to must be provided together")
	}
	from, err := util.ParseDay(req.From)
	if err != nil {
		return nil, fault.InvalidParameters("invalid from day")
	}
	to, err := util.ParseDay(req.To)
	if err != nil {
		return nil, fault.InvalidParameters("invalid to day")
	}
	return h.catalog.HistoryRange(c.Request().Context(), req.Symbol, from, to)
}

// Analysis relays a single-asset analytics request to the unit that owns the
// strategy. The unit's fault code and message pass through unchanged.
func (h *GatewayHandler) Analysis(c echo.Context) error {
	req := &models.ForwardAnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if !h.rl.Allow(c.RealIP()+":analysis", h.cfg.RateCapacity, h.cfg.RateRefill) {
		if h.logger != nil {
			h.logger.Warn("analysis rate limited",
				applogger.String("remote", c.RealIP()),
				applogger.String("type", req.Type),
			)
		}
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_RATE_LIMITED", "", "rate limited", http.StatusTooManyRequests))
	}

	q := url.Values{}
	q.Set("symbol", req.Symbol)
	if req.Timeframe != "" {
		q.Set("timeframe", req.Timeframe)
	}
	if req.Lookback != "" {
		q.Set("lookback", req.Lookback)
	}
	if req.Epochs != "" {
		q.Set("epochs", req.Epochs)
	}
	if req.UseCache != "" {
		q.Set("use_cache", req.UseCache)
	}

	payload, err := h.fwd.Forward(c.Request().Context(), models.AnalysisKind(req.Type), q)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("analysis forward error",
				applogger.String("type", req.Type),
				applogger.String("symbol", req.Symbol),
				applogger.Error(err),
			)
		}
		return xhttp.AppErrorResponse(c, appErrorFromFault(err))
	}
	return xhttp.SuccessResponse(c, payload)
}

func (h *GatewayHandler) Compare(c echo.Context) error {
	req := &models.CompareRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.compare.Compare(c.Request().Context(), req.Base, req.Quote, req.Days)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("compare error",
				applogger.String("base", req.Base),
				applogger.String("quote", req.Quote),
				applogger.Error(err),
			)
		}
		return xhttp.AppErrorResponse(c, appErrorFromFault(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *GatewayHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		if h.logger != nil {
			h.logger.Error("health check failed", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_UNHEALTHY", "", "bar store unreachable", http.StatusServiceUnavailable))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
