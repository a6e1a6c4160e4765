package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// DefaultAddr is used when no listen address is configured
const DefaultAddr = ":8080"

// Governance is the registry surface exposed over HTTP. Ballots, proposals
// and registrations need a caller identity, so they stay on the CLI; execute
// and finalize are permissionless.
type Governance interface {
	Refresh(ctx context.Context) error
	Genesis() config.Genesis
	GetProposal(id uint64) (*models.Proposal, error)
	ListProposals(filter domain.ProposalFilter) []*models.Proposal
	Votes(id uint64) ([]*models.Vote, error)
	Member(addr common.Address) (models.Member, bool)
	ListMembers() []models.Member
	MemberCount() uint64
	Execute(ctx context.Context, id uint64) (*models.Proposal, error)
	Finalize(ctx context.Context, id uint64) (*models.Proposal, error)
}

// Server is the JSON API consumed by the association frontend
type Server struct {
	gov     Governance
	engine  *gin.Engine
	addr    string
	log     *slog.Logger
	started time.Time
}

// NewServer builds the router. metrics may be nil.
func NewServer(cfg *config.RuntimeConfig, gov Governance, metrics http.Handler, log *slog.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := cfg.HTTP.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	s := &Server{
		gov:     gov,
		engine:  gin.New(),
		addr:    addr,
		log:     log.With("component", "http"),
		started: time.Now().UTC(),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())

	origins := cfg.HTTP.AllowedOrigins
	if len(origins) > 0 {
		s.engine.Use(cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	s.routes(metrics)
	return s
}

func (s *Server) routes(metrics http.Handler) {
	s.engine.GET("/healthz", s.health)
	if metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(metrics))
	}

	api := s.engine.Group("/api/v1")
	api.Use(s.refresh())
	{
		api.GET("/association", s.association)

		proposals := api.Group("/proposals")
		{
			proposals.GET("", s.listProposals)
			proposals.GET("/:id", s.getProposal)
			proposals.GET("/:id/votes", s.listVotes)
			proposals.POST("/:id/execute", s.executeProposal)
			proposals.POST("/:id/finalize", s.finalizeProposal)
		}

		members := api.Group("/members")
		{
			members.GET("", s.listMembers)
			members.GET("/:address", s.getMember)
		}
	}
}

// Handler returns the router for embedding or tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr is the listen address
func (s *Server) Addr() string {
	return s.addr
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server forced to shutdown: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

// refresh reloads the ledger before each API request so writes made by CLI
// processes sharing the data directory are visible.
func (s *Server) refresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.gov.Refresh(c.Request.Context()); err != nil {
			s.fail(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
