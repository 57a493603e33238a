package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"DebtSentinel/internal/calculator"
	"DebtSentinel/internal/model"
	"DebtSentinel/internal/provider"
	"DebtSentinel/internal/render"
)

// Server exposes the debt dashboard and its JSON API.
type Server struct {
	provider   *provider.Provider
	windowDays int
	httpSrv    *http.Server
}

// NewServer wires routes onto a gin engine.
func NewServer(p *provider.Provider, listenAddr string, windowDays int) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.SetHTMLTemplate(dashboardTemplate)

	s := &Server{
		provider:   p,
		windowDays: windowDays,
		httpSrv: &http.Server{
			Addr:    listenAddr,
			Handler: router,
		},
	}
	s.registerRoutes(router)
	return s
}

func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/", s.Dashboard)
	router.GET("/healthz", s.Health)

	api := router.Group("/api/v1/debt")
	{
		api.GET("/series", s.GetSeries)
		api.GET("/latest", s.GetLatest)
	}
}

// Run starts serving. Blocks until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	logrus.WithField("addr", s.httpSrv.Addr).Info("http server listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

type observationJSON struct {
	Date      string `json:"date"`
	TotalDebt string `json:"total_debt"`
}

type seriesResponse struct {
	WindowDays   int               `json:"window_days"`
	Observations []observationJSON `json:"observations"`
}

type latestResponse struct {
	Current          string `json:"current"`
	CurrentFormatted string `json:"current_formatted"`
	CurrentDate      string `json:"current_date"`
	Previous         string `json:"previous,omitempty"`
	PreviousDate     string `json:"previous_date,omitempty"`
	Delta            string `json:"delta,omitempty"`
	DeltaFormatted   string `json:"delta_formatted,omitempty"`
	DeltaUnfavorable bool   `json:"delta_unfavorable"`
}

// Dashboard renders the single-page dashboard shell; the page pulls its data
// from the JSON API.
func (s *Server) Dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard", gin.H{
		"WindowDays": s.window(c),
	})
}

// Health is a liveness probe.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetSeries returns the full retrieved window as JSON.
func (s *Server) GetSeries(c *gin.Context) {
	days := s.window(c)
	series, err := s.provider.GetSeries(c.Request.Context(), days)
	if err != nil {
		s.renderError(c, err)
		return
	}

	out := seriesResponse{WindowDays: days, Observations: make([]observationJSON, len(series))}
	for i, o := range series {
		out.Observations[i] = observationJSON{
			Date:      o.Date.Format("2006-01-02"),
			TotalDebt: o.TotalDebt.String(),
		}
	}
	c.JSON(http.StatusOK, out)
}

// GetLatest returns the current figure and, when two observations exist, the
// day-over-day delta. A single-observation series degrades to metric-only.
func (s *Server) GetLatest(c *gin.Context) {
	series, err := s.provider.GetSeries(c.Request.Context(), s.window(c))
	if err != nil {
		s.renderError(c, err)
		return
	}

	latest, ok := series.Latest()
	if !ok {
		c.JSON(http.StatusBadGateway, gin.H{"error": "no observations available"})
		return
	}

	resp := latestResponse{
		Current:          latest.TotalDebt.String(),
		CurrentFormatted: render.Currency(latest.TotalDebt),
		CurrentDate:      latest.Date.Format("2006-01-02"),
	}
	if change := latestChangeOrNil(series); change != nil {
		resp.Previous = change.Previous.String()
		resp.PreviousDate = change.PreviousDate.Format("2006-01-02")
		resp.Delta = change.Delta.String()
		resp.DeltaFormatted = render.SignedCurrency(change.Delta)
		resp.DeltaUnfavorable = change.Delta.Sign() > 0
	}
	c.JSON(http.StatusOK, resp)
}

func latestChangeOrNil(series model.DebtSeries) *model.DebtChange {
	change, err := calculator.LatestChange(series)
	if err != nil {
		var insufficient *provider.InsufficientDataError
		if !errors.As(err, &insufficient) {
			logrus.WithError(err).Error("latest change")
		}
		return nil
	}
	return change
}

func (s *Server) window(c *gin.Context) int {
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return s.windowDays
}

// renderError maps provider errors onto HTTP statuses, preserving the
// underlying cause for diagnostic display.
func (s *Server) renderError(c *gin.Context, err error) {
	var netErr *provider.NetworkError
	var parseErr *provider.ParseError
	switch {
	case errors.As(err, &netErr):
		logrus.WithError(err).Error("fetch debt data")
		c.JSON(http.StatusBadGateway, gin.H{"error": "error fetching data from Treasury API", "detail": err.Error()})
	case errors.As(err, &parseErr):
		logrus.WithError(err).Error("parse debt data")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Treasury API returned unexpected format", "detail": err.Error()})
	default:
		logrus.WithError(err).Error("get debt series")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("http request")
	}
}
