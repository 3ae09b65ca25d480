// Package server is the HTTP surface: a pass-through JSON-RPC proxy so
// browsers never talk to the ledger RPC directly, and read-only endpoints
// over listings and settlement history.
package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dotandev/rltmarket/internal/ledgerevents"
	"github.com/dotandev/rltmarket/internal/logger"
	"github.com/dotandev/rltmarket/internal/market"
)

const (
	defaultPageSize    = 10
	maxPageSize        = 50
	settlementPageSize = 100
)

// ListingReader reads listing state.
type ListingReader interface {
	GetListing(ctx context.Context, session market.Session, id uint32) market.ListingView
	ListListings(ctx context.Context, session market.Session, start uint32, count int) market.ListingPage
}

// SettlementReader reads persisted settlement history.
type SettlementReader interface {
	Settlements(ctx context.Context, contractID string, limit int) ([]ledgerevents.SettlementRecord, error)
}

// Server routes the proxy and API endpoints.
type Server struct {
	engine      *gin.Engine
	rpcURL      string
	client      *http.Client
	listings    ListingReader
	settlements SettlementReader
	contractID  string
}

// New wires the routes. settlements may be nil when no store is configured.
func New(rpcURL string, listings ListingReader, settlements SettlementReader, contractID string) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		engine:      gin.New(),
		rpcURL:      rpcURL,
		client:      &http.Client{Timeout: 30 * time.Second},
		listings:    listings,
		settlements: settlements,
		contractID:  contractID,
	}
	s.engine.Use(gin.Recovery())
	s.engine.POST("/rpc", s.proxyRPC)
	s.engine.GET("/api/listings", s.listListings)
	s.engine.GET("/api/listings/:id", s.getListing)
	s.engine.GET("/api/settlements", s.listSettlements)
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	logger.Logger.Info("serving", "addr", addr, "rpc", s.rpcURL)
	return s.engine.Run(addr)
}

// proxyRPC forwards an arbitrary JSON-RPC body to the ledger endpoint and
// returns the raw response. Any local failure collapses to a generic error;
// the proxy never interprets the payload.
func (s *Server) proxyRPC(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.proxyError(c, err)
		return
	}
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, s.rpcURL, bytes.NewReader(body))
	if err != nil {
		s.proxyError(c, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.proxyError(c, err)
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		s.proxyError(c, err)
		return
	}
	c.Data(resp.StatusCode, "application/json", data)
}

func (s *Server) proxyError(c *gin.Context, err error) {
	logger.Logger.Warn("rpc proxy failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "RPC failed"})
}

func (s *Server) getListing(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return
	}
	session := market.Session{Address: c.Query("address")}
	c.JSON(http.StatusOK, s.listings.GetListing(c.Request.Context(), session, uint32(id)))
}

func (s *Server) listListings(c *gin.Context) {
	start, err := strconv.ParseUint(c.DefaultQuery("start", "1"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start"})
		return
	}
	count, err := strconv.Atoi(c.DefaultQuery("count", strconv.Itoa(defaultPageSize)))
	if err != nil || count < 1 || count > maxPageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid count"})
		return
	}
	session := market.Session{Address: c.Query("address")}
	c.JSON(http.StatusOK, s.listings.ListListings(c.Request.Context(), session, uint32(start), count))
}

func (s *Server) listSettlements(c *gin.Context) {
	if s.settlements == nil {
		c.JSON(http.StatusOK, gin.H{"settlements": []ledgerevents.SettlementRecord{}})
		return
	}
	records, err := s.settlements.Settlements(c.Request.Context(), s.contractID, settlementPageSize)
	if err != nil {
		logger.Logger.Warn("settlement read failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement history unavailable"})
		return
	}
	if records == nil {
		records = []ledgerevents.SettlementRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"settlements": records})
}
