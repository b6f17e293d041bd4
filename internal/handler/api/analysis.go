package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	models "CoinPulse/internal/domain/models"
	domrepo "CoinPulse/internal/domain/repository"
	icache "CoinPulse/internal/service/cache"
	"CoinPulse/internal/service/metrics"
	"CoinPulse/internal/services/analytics"
	pkgcache "CoinPulse/pkg/cache"
	xhttp "CoinPulse/pkg/http"
	applogger "CoinPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler exposes the analytics strategies a unit binary hosts. Each
// unit registers only its own kinds, so the same handler serves the technical,
// prediction and onchain deployments.
type AnalysisHandler struct {
	logger *applogger.Logger
	facade *analytics.Facade
	store  domrepo.BarStore
	cache  icache.BytesCache
	ttl    time.Duration
	kinds  []models.AnalysisKind
}

func NewAnalysisHandler(facade *analytics.Facade, store domrepo.BarStore, kinds []models.AnalysisKind, ttl time.Duration) *AnalysisHandler {
	metrics.Register()
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AnalysisHandler{facade: facade, store: store, ttl: ttl, kinds: kinds}
}

// SetCache injects the response byte cache. Prediction responses are never
// byte-cached; reuse there is handled by the model cache inside the strategy.
func (h *AnalysisHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetLogger injects a structured logger.
func (h *AnalysisHandler) SetLogger(l *applogger.Logger) { h.logger = l }

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	for _, k := range h.kinds {
		switch k {
		case models.KindTechnical:
			g.GET("/technical", h.Technical)
		case models.KindPrediction:
			g.GET("/prediction", h.Prediction)
		case models.KindOnchain:
			g.GET("/onchain", h.Onchain)
		}
	}
	e.GET("/health", h.Health)
}

func (h *AnalysisHandler) Technical(c echo.Context) error {
	req := &models.TechnicalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := pkgcache.GenerateKeyWithParams("technical", strings.ToUpper(strings.TrimSpace(req.Symbol)), req.Timeframe)
	if ok, err := h.serveCached(c, "technical", key); ok {
		return err
	}

	res, err := h.facade.Technical(c.Request().Context(), req.Symbol, req.Timeframe)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("technical handler error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErrorFromFault(err))
	}
	return h.respondCached(c, "technical", key, res)
}

func (h *AnalysisHandler) Prediction(c echo.Context) error {
	req := &models.PredictionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.facade.Prediction(c.Request().Context(), req.Symbol, req.Lookback, req.Epochs, req.Cache())
	if err != nil {
		if h.logger != nil {
			h.logger.Error("prediction handler error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErrorFromFault(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) Onchain(c echo.Context) error {
	req := &models.OnchainRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := pkgcache.GenerateKey("onchain", strings.ToUpper(strings.TrimSpace(req.Symbol)))
	if ok, err := h.serveCached(c, "onchain", key); ok {
		return err
	}

	res, err := h.facade.OnchainSentiment(c.Request().Context(), req.Symbol)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("onchain handler error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErrorFromFault(err))
	}
	return h.respondCached(c, "onchain", key, res)
}

func (h *AnalysisHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		if h.logger != nil {
			h.logger.Error("health check failed", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_UNHEALTHY", "", "bar store unreachable", http.StatusServiceUnavailable))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// serveCached writes the cached envelope bytes when present. The bool reports
// whether the request was served.
func (h *AnalysisHandler) serveCached(c echo.Context, endpoint, key string) (bool, error) {
	if h.cache == nil {
		return false, nil
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("response cache get error", applogger.String("key", key), applogger.Error(err))
		}
		return false, nil
	}
	if !ok {
		metrics.ResponseCache.WithLabelValues(endpoint, "miss").Inc()
		return false, nil
	}
	metrics.ResponseCache.WithLabelValues(endpoint, "hit").Inc()
	if h.logger != nil {
		h.logger.Debug("response cache hit", applogger.String("key", key))
	}
	return true, c.Blob(http.StatusOK, echo.MIMEApplicationJSON, b)
}

// respondCached marshals the success envelope once, stores the bytes, and
// writes them. Cache hits then replay the exact same body.
func (h *AnalysisHandler) respondCached(c echo.Context, endpoint, key string, data interface{}) error {
	body, err := json.Marshal(xhttp.APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    data,
	})
	if err != nil {
		if h.logger != nil {
			h.logger.Error(endpoint+" marshal error", applogger.Error(err))
		}
		return xhttp.InternalServerErrorResponse(c)
	}
	if h.cache != nil {
		if err := h.cache.SetBytes(key, body, h.ttl); err != nil && h.logger != nil {
			h.logger.Warn("response cache set error", applogger.String("key", key), applogger.Error(err))
		}
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
}
