package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/belmegatron/onehead/internal/config"
	"github.com/belmegatron/onehead/internal/constants"
	"github.com/belmegatron/onehead/internal/domain"
	"github.com/belmegatron/onehead/internal/service"
	"github.com/belmegatron/onehead/internal/signup"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Bot is the chat surface: it parses prefix commands out of guild messages
// and forwards them to the services. All game logic lives below it.
type Bot struct {
	session *discordgo.Session
	cfg     *config.Config
	players *service.PlayerService
	matches *service.MatchService
	pool    *signup.Pool
	logger  zerolog.Logger
}

func New(
	cfg *config.Config,
	players *service.PlayerService,
	matches *service.MatchService,
	pool *signup.Pool,
	logger zerolog.Logger,
) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	b := &Bot{
		session: session,
		cfg:     cfg,
		players: players,
		matches: matches,
		pool:    pool,
		logger:  logger,
	}
	session.AddHandler(b.onMessage)
	return b, nil
}

// Start opens the gateway connection.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	b.logger.Info().Msg("discord session open")
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, b.cfg.CommandPrefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, b.cfg.CommandPrefix))
	if len(fields) == 0 {
		return
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	caller := m.Author.Username

	b.logger.Debug().Str("command", cmd).Str("caller", caller).Msg("command received")

	ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
	defer cancel()

	switch cmd {
	case "register":
		b.handleRegister(ctx, m, caller, args)
	case "deregister":
		b.handleDeregister(ctx, m, caller)
	case "signup", "su":
		b.handleSignup(ctx, m, caller)
	case "signout", "so":
		b.handleSignout(m, caller)
	case "who":
		b.handleWho(m)
	case "start":
		b.handleStart(m, args)
	case "result":
		b.handleResult(ctx, m, args)
	case "nominate":
		b.handleNominate(m, caller, args)
	case "pick":
		b.handlePick(m, caller, args)
	case "leaderboard", "lb":
		b.handleLeaderboard(ctx, m)
	}
}

func (b *Bot) handleRegister(ctx context.Context, m *discordgo.MessageCreate, caller string, args []string) {
	if len(args) != 1 {
		b.reply(m, fmt.Sprintf("usage: %sregister <mmr>", b.cfg.CommandPrefix))
		return
	}
	mmr, err := strconv.Atoi(args[0])
	if err != nil || mmr <= 0 {
		b.reply(m, "mmr must be a positive number")
		return
	}

	if _, err := b.players.Register(ctx, caller, mmr); err != nil {
		if err == domain.ErrAlreadyRegistered {
			b.reply(m, fmt.Sprintf("%s is already registered.", caller))
			return
		}
		b.fail(m, err, "registration failed")
		return
	}
	b.reply(m, fmt.Sprintf("%s registered with %d MMR.", caller, mmr))
}

func (b *Bot) handleDeregister(ctx context.Context, m *discordgo.MessageCreate, caller string) {
	if err := b.players.Deregister(ctx, caller); err != nil {
		if err == domain.ErrNotFound {
			b.reply(m, fmt.Sprintf("%s is not registered.", caller))
			return
		}
		b.fail(m, err, "deregistration failed")
		return
	}
	b.pool.Remove(caller)
	b.reply(m, fmt.Sprintf("%s has been removed from the league.", caller))
}

func (b *Bot) handleSignup(ctx context.Context, m *discordgo.MessageCreate, caller string) {
	if _, err := b.players.Lookup(ctx, caller); err != nil {
		if err == domain.ErrNotFound {
			b.reply(m, fmt.Sprintf("%s, register first with %sregister <mmr>.", caller, b.cfg.CommandPrefix))
			return
		}
		b.fail(m, err, "signup failed")
		return
	}

	if !b.pool.Add(caller) {
		b.reply(m, fmt.Sprintf("%s is already signed up.", caller))
		return
	}
	b.reply(m, fmt.Sprintf("%s signed up. %d players have signed up.", caller, b.pool.Len()))
}

func (b *Bot) handleSignout(m *discordgo.MessageCreate, caller string) {
	if !b.pool.Remove(caller) {
		b.reply(m, fmt.Sprintf("%s was not signed up.", caller))
		return
	}
	b.reply(m, fmt.Sprintf("%s signed out. %d players remain.", caller, b.pool.Len()))
}

func (b *Bot) handleWho(m *discordgo.MessageCreate) {
	names := b.pool.Snapshot()
	if len(names) == 0 {
		b.reply(m, "Nobody has signed up yet.")
		return
	}
	b.reply(m, fmt.Sprintf("%d signed up: %s", len(names), strings.Join(names, ", ")))
}

// handleStart kicks off a match. The draft variant spans minutes of wall
// clock, so it runs on its own goroutine fed by nominate/pick commands.
func (b *Bot) handleStart(m *discordgo.MessageCreate, args []string) {
	notifier := b.notifierFor(m.ChannelID)

	captains := len(args) > 0 && strings.EqualFold(args[0], "captains")
	if !captains {
		if _, err := b.matches.StartBalanced(context.Background(), notifier); err != nil {
			b.fail(m, err, "could not start the match")
		}
		return
	}

	go func() {
		if _, err := b.matches.StartDraft(context.Background(), notifier); err != nil {
			b.fail(m, err, "the draft could not be completed")
		}
	}()
}

func (b *Bot) handleResult(ctx context.Context, m *discordgo.MessageCreate, args []string) {
	if len(args) != 1 {
		b.reply(m, fmt.Sprintf("usage: %sresult <radiant|dire>", b.cfg.CommandPrefix))
		return
	}

	var winner domain.Side
	switch strings.ToLower(args[0]) {
	case string(domain.SideRadiant):
		winner = domain.SideRadiant
	case string(domain.SideDire):
		winner = domain.SideDire
	default:
		b.reply(m, fmt.Sprintf("usage: %sresult <radiant|dire>", b.cfg.CommandPrefix))
		return
	}

	if err := b.matches.ReportResult(ctx, winner); err != nil {
		b.fail(m, err, "could not record the result")
		return
	}
	b.reply(m, fmt.Sprintf("%s win. Ratings updated.", strings.ToUpper(string(winner)[:1])+string(winner)[1:]))
}

func (b *Bot) handleNominate(m *discordgo.MessageCreate, caller string, args []string) {
	if len(args) != 1 {
		b.reply(m, fmt.Sprintf("usage: %snominate <player>", b.cfg.CommandPrefix))
		return
	}
	msg, err := b.matches.Nominate(caller, args[0])
	if err != nil {
		b.fail(m, err, "nomination failed")
		return
	}
	b.reply(m, msg)
}

func (b *Bot) handlePick(m *discordgo.MessageCreate, caller string, args []string) {
	if len(args) != 1 {
		b.reply(m, fmt.Sprintf("usage: %spick <player>", b.cfg.CommandPrefix))
		return
	}
	msg, err := b.matches.Pick(caller, args[0])
	if err != nil {
		b.fail(m, err, "pick failed")
		return
	}
	b.reply(m, msg)
}

func (b *Bot) handleLeaderboard(ctx context.Context, m *discordgo.MessageCreate) {
	entries, err := b.players.Leaderboard(ctx, constants.LeaderboardLimit)
	if err != nil {
		b.fail(m, err, "could not load the leaderboard")
		return
	}
	if len(entries) == 0 {
		b.reply(m, "Nobody has registered yet.")
		return
	}

	var sb strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. %s | rating %d (%dW-%dL, adjusted %d)\n",
			i+1, e.Player.Name, e.Rating, e.Player.Wins, e.Player.Losses, e.AdjustedMMR)
	}
	b.reply(m, sb.String())
}

func (b *Bot) reply(m *discordgo.MessageCreate, text string) {
	if _, err := b.session.ChannelMessageSend(m.ChannelID, text); err != nil {
		b.logger.Error().Err(err).Str("channel_id", m.ChannelID).Msg("failed to send message")
	}
}

func (b *Bot) fail(m *discordgo.MessageCreate, err error, text string) {
	b.logger.Error().Err(err).Msg(text)
	b.reply(m, fmt.Sprintf("%s: %v", text, err))
}

func (b *Bot) notifierFor(channelID string) service.Notifier {
	return &channelNotifier{session: b.session, channelID: channelID, logger: b.logger}
}

// channelNotifier relays progress lines from the balancer and draft into
// the channel the match was started from.
type channelNotifier struct {
	session   *discordgo.Session
	channelID string
	logger    zerolog.Logger
}

func (n *channelNotifier) Notify(msg string) {
	if _, err := n.session.ChannelMessageSend(n.channelID, msg); err != nil {
		n.logger.Error().Err(err).Str("channel_id", n.channelID).Msg("failed to send notification")
	}
}
