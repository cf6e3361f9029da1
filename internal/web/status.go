package web

import (
	"context"
	"encoding/json"
	"time"

	"github.com/belmegatron/onehead/internal/config"
	"github.com/belmegatron/onehead/internal/constants"
	"github.com/belmegatron/onehead/internal/repository"
	"github.com/belmegatron/onehead/internal/service"
	"github.com/belmegatron/onehead/internal/signup"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Server is the operator-facing status endpoint: health, signup count, and
// the current leaderboard as JSON. The players never see this; the chat
// surface is the real interface.
type Server struct {
	srv     *fasthttp.Server
	addr    string
	players *service.PlayerService
	matches *repository.MatchRepository
	pool    *signup.Pool
	logger  zerolog.Logger
}

func NewServer(
	cfg *config.Config,
	players *service.PlayerService,
	matches *repository.MatchRepository,
	pool *signup.Pool,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		addr:    cfg.StatusAddr,
		players: players,
		matches: matches,
		pool:    pool,
		logger:  logger,
	}
	s.srv = &fasthttp.Server{Handler: s.handle}
	return s
}

// Start begins listening; it returns once the listener fails or shuts down.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.addr).Msg("status server listening")
	return s.srv.ListenAndServe(s.addr)
}

// Stop shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

func (s *Server) handle(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/healthz":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	case "/signups":
		s.writeJSON(ctx, map[string]any{"count": s.pool.Len(), "players": s.pool.Snapshot()})
	case "/leaderboard":
		s.handleLeaderboard(ctx)
	case "/matches":
		s.handleMatches(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

type leaderboardRow struct {
	Name        string `json:"name"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	MMR         int    `json:"mmr"`
	Rating      int    `json:"rating"`
	AdjustedMMR int    `json:"adjusted_mmr"`
}

func (s *Server) handleLeaderboard(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	entries, err := s.players.Leaderboard(reqCtx, constants.LeaderboardLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load leaderboard")
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	rows := make([]leaderboardRow, len(entries))
	for i, e := range entries {
		rows[i] = leaderboardRow{
			Name:        e.Player.Name,
			Wins:        e.Player.Wins,
			Losses:      e.Player.Losses,
			MMR:         e.Player.MMR,
			Rating:      e.Rating,
			AdjustedMMR: e.AdjustedMMR,
		}
	}
	s.writeJSON(ctx, rows)
}

type matchRow struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	Winner    string    `json:"winner,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

func (s *Server) handleMatches(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	records, err := s.matches.Recent(reqCtx, constants.RecentMatchLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load recent matches")
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	rows := make([]matchRow, len(records))
	for i, rec := range records {
		rows[i] = matchRow{ID: rec.ID, Mode: rec.Mode, StartedAt: rec.StartedAt}
		if rec.Winner != nil {
			rows[i].Winner = string(*rec.Winner)
		}
	}
	s.writeJSON(ctx, rows)
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}
