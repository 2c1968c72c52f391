package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/magefree/hexduel-server-go/internal/config"
	"github.com/magefree/hexduel-server-go/internal/game/board"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/effects"
	"github.com/magefree/hexduel-server-go/internal/game/rules"
	"github.com/magefree/hexduel-server-go/internal/game/watchers"
	"go.uber.org/zap"
)

// PlayerCount is the number of seats in a match.
const PlayerCount = 2

// Team identifies a side. Player 0 plays for TeamA, player 1 for TeamB.
type Team uint8

const (
	TeamNone Team = iota
	TeamA
	TeamB
)

func (t Team) String() string {
	switch t {
	case TeamA:
		return "TEAM_A"
	case TeamB:
		return "TEAM_B"
	default:
		return "NONE"
	}
}

// Settings are the per-match rule values.
type Settings struct {
	InitialHandSize   int
	MaxHandSize       int
	MaxActionsPerTurn int
	InitialHealth     int
	Seed              uint32
}

// DefaultSettings returns the standard rules.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.DefaultGameConfig())
}

// SettingsFromConfig reads rule values from a key-value game config.
func SettingsFromConfig(cfg *config.GameConfig) Settings {
	if cfg == nil {
		cfg = config.DefaultGameConfig()
	}
	return Settings{
		InitialHandSize:   int(cfg.GetUint8(config.KeyInitialHandSize, 5)),
		MaxHandSize:       int(cfg.GetUint8(config.KeyMaxHandSize, 7)),
		MaxActionsPerTurn: int(cfg.GetUint8(config.KeyMaxActionsPerTurn, 3)),
		InitialHealth:     int(cfg.GetUint8(config.KeyInitialHealth, 20)),
		Seed:              uint32(cfg.GetInt(config.KeyRandomSeed, 0)),
	}
}

// Player is one seat. Deck order is draw order; the back of the deck is the
// top card.
type Player struct {
	ID               cards.PlayerID
	Team             Team
	Name             string
	MaxHandSize      int
	MaxActions       int
	ActionsRemaining int
	Health           int

	deck    []cards.ID
	hand    []cards.ID
	discard []cards.ID
	legend  cards.ID
}

// Hand returns a copy of the hand in order.
func (p *Player) Hand() []cards.ID { return append([]cards.ID(nil), p.hand...) }

// Deck returns a copy of the deck, bottom first.
func (p *Player) Deck() []cards.ID { return append([]cards.ID(nil), p.deck...) }

// Discard returns a copy of the discard pile.
func (p *Player) Discard() []cards.ID { return append([]cards.ID(nil), p.discard...) }

// LegendID returns the player's legend, or "" once it is gone.
func (p *Player) LegendID() cards.ID { return p.legend }

// GameState is one match: the board, both players, the effect stack and the
// turn state machine. It is not safe for concurrent use; Engine serializes
// access.
type GameState struct {
	settings Settings
	logger   *zap.Logger
	rng      *RNG

	arena    *cards.Arena
	board    *board.Board
	stack    *rules.EffectStack
	factory  *effects.Factory
	turns    *rules.TurnManager
	legality *rules.LegalityChecker
	events   *rules.EventBus
	watchers *rules.WatcherRegistry
	tallies  watchers.Set

	players   [PlayerCount]*Player
	templates map[cards.ID]cards.Template
}

// Option configures a GameState before setup runs.
type Option func(*GameState)

// WithListener subscribes l to the match events before setup, so l also
// receives the legend placements, opening draws and MATCH_STARTED.
func WithListener(l rules.Listener) Option {
	return func(g *GameState) {
		g.events.Subscribe(l)
	}
}

// NewGameState builds a match from one deck per player and runs setup: decks
// are shuffled, legends go to their spawn cells and opening hands are drawn.
// A nil rng is seeded from settings.
func NewGameState(settings Settings, decks [][]cards.Template, rng *RNG, logger *zap.Logger, opts ...Option) (*GameState, error) {
	if len(decks) != PlayerCount {
		return nil, fmt.Errorf("need %d decks, got %d", PlayerCount, len(decks))
	}
	if rng == nil {
		rng = NewRNG(settings.Seed)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	arena := cards.NewArena()
	g := &GameState{
		settings:  settings,
		logger:    logger,
		rng:       rng,
		arena:     arena,
		board:     board.New(arena),
		stack:     rules.NewEffectStack(logger),
		factory:   effects.NewFactory(logger),
		turns:     rules.NewTurnManager(PlayerCount),
		events:    rules.NewEventBus(),
		watchers:  rules.NewWatcherRegistry(),
		templates: make(map[cards.ID]cards.Template),
	}
	g.legality = rules.NewLegalityChecker(g)
	g.tallies = watchers.RegisterDefault(g.watchers)
	g.events.Subscribe(g.watchers.NotifyWatchers)
	for _, opt := range opts {
		opt(g)
	}

	for i := range g.players {
		g.players[i] = &Player{
			ID:               cards.PlayerID(i),
			Team:             Team(i + 1),
			Name:             fmt.Sprintf("Player %d", i+1),
			MaxHandSize:      settings.MaxHandSize,
			MaxActions:       settings.MaxActionsPerTurn,
			ActionsRemaining: settings.MaxActionsPerTurn,
			Health:           settings.InitialHealth,
		}
	}

	if err := g.setup(decks); err != nil {
		return nil, err
	}
	return g, nil
}

// cardID derives a stable id from the match seed, the owner and the deck
// slot. Slot -1 is the emergency legend.
func (g *GameState) cardID(owner cards.PlayerID, slot int) cards.ID {
	name := fmt.Sprintf("%d/%d/%d", g.rng.SeedValue(), owner, slot)
	return cards.ID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String())
}

func (g *GameState) setup(decks [][]cards.Template) error {
	for i, p := range g.players {
		deck := make([]*cards.Card, 0, len(decks[i]))
		for slot, tmpl := range decks[i] {
			id := g.cardID(p.ID, slot)
			g.templates[id] = tmpl
			deck = append(deck, tmpl.Instantiate(id, p.ID))
		}
		Shuffle(g.rng, deck)

		var legend *cards.Card
		for _, c := range deck {
			if c.IsLegend() {
				if legend == nil {
					legend = c
				}
				continue
			}
			if err := g.arena.Add(c, cards.ZoneDeck); err != nil {
				return fmt.Errorf("setup player %d: %w", p.ID, err)
			}
			p.deck = append(p.deck, c.ID)
		}

		if legend == nil {
			tmpl := cards.EmergencyLegend(p.ID)
			id := g.cardID(p.ID, -1)
			g.templates[id] = tmpl
			legend = tmpl.Instantiate(id, p.ID)
			g.logger.Warn("deck has no legend, using emergency legend",
				zap.Int("player", int(p.ID)),
				zap.String("legend", legend.Name),
			)
		}
		if err := g.arena.Add(legend, cards.ZoneNone); err != nil {
			return fmt.Errorf("setup player %d legend: %w", p.ID, err)
		}

		spawn := g.board.Spawn(p.ID)
		if !g.board.Place(legend, spawn) {
			return fmt.Errorf("spawn cell for player %d is unavailable", p.ID)
		}
		p.legend = legend.ID
		g.resolveOnPlay(legend, spawn)

		ev := rules.NewEvent(rules.EventLegendPlaced, p.ID)
		ev.CardID, ev.CardName, ev.To = legend.ID, legend.Name, spawn.Pos()
		g.publish(ev)
	}

	for _, p := range g.players {
		g.draw(p, g.settings.InitialHandSize)
		p.ActionsRemaining = p.MaxActions
	}

	g.turns.Begin()
	g.publish(rules.NewEvent(rules.EventMatchStarted, 0))
	g.logger.Info("match set up",
		zap.Uint32("seed", g.rng.SeedValue()),
		zap.Int("p0_deck", len(g.players[0].deck)),
		zap.Int("p1_deck", len(g.players[1].deck)),
	)
	g.checkLegendStatus()
	return nil
}

func (g *GameState) publish(ev rules.Event) {
	ev.Turn = g.turns.TurnNumber()
	g.events.Publish(ev)
}

// registerAbilities builds the card's effects and adds each to the stack
// category of its trigger.
func (g *GameState) registerAbilities(card *cards.Card) int {
	n := 0
	for _, e := range g.factory.BuildAll(card) {
		if g.stack.Add(e, e.Category()) != 0 {
			n++
		}
	}
	return n
}

// resolveOnPlay registers a freshly placed unit's abilities and runs the
// on-play pass. On-play abilities resolve once and are then dropped.
func (g *GameState) resolveOnPlay(card *cards.Card, cell *board.Cell) {
	if g.registerAbilities(card) == 0 {
		return
	}
	applied := g.stack.ProcessOnPlay(g.board, cell)
	g.stack.RemoveFrom(rules.CategoryOnPlay, card.ID)
	g.effectsResolved(card, rules.CategoryOnPlay, applied)
}

func (g *GameState) effectsResolved(card *cards.Card, category rules.Category, applied int) {
	if applied == 0 {
		return
	}
	ev := rules.NewEvent(rules.EventEffectsResolved, card.Owner)
	ev.CardID, ev.CardName, ev.Amount, ev.Data = card.ID, card.Name, applied, category.String()
	g.publish(ev)
}

func (g *GameState) player(id cards.PlayerID) (*Player, bool) {
	if int(id) >= PlayerCount {
		return nil, false
	}
	return g.players[id], true
}

func (g *GameState) card(id cards.ID) *cards.Card {
	c, _ := g.arena.Get(id)
	return c
}

func (g *GameState) legendOf(p *Player) *cards.Card {
	if p.legend == "" {
		return nil
	}
	return g.card(p.legend)
}

// draw moves up to count cards from the back of the deck into the hand.
// Draws stop at the hand limit. An empty deck is refilled from the discard
// pile first.
func (g *GameState) draw(p *Player, count int) int {
	drawn := 0
	for i := 0; i < count; i++ {
		if len(p.hand) >= p.MaxHandSize {
			break
		}
		if len(p.deck) == 0 && !g.recycleDiscard(p) {
			break
		}
		top := len(p.deck) - 1
		id := p.deck[top]
		p.deck = p.deck[:top]
		p.hand = append(p.hand, id)
		g.arena.Relocate(id, cards.ZoneHand)
		drawn++

		ev := rules.NewEvent(rules.EventCardDrawn, p.ID)
		ev.CardID = id
		if c := g.card(id); c != nil {
			ev.CardName = c.Name
		}
		g.publish(ev)
		g.stack.Process(rules.CategoryOnDraw, g.board, nil)
	}
	if drawn > 0 {
		g.reapDead()
	}
	return drawn
}

// recycleDiscard shuffles the discard pile back into an empty deck. Legends
// stay in the discard pile.
func (g *GameState) recycleDiscard(p *Player) bool {
	var legends []cards.ID
	for _, id := range p.discard {
		if c := g.card(id); c != nil && c.IsLegend() {
			legends = append(legends, id)
			continue
		}
		p.deck = append(p.deck, id)
		g.arena.Relocate(id, cards.ZoneDeck)
	}
	p.discard = legends
	if len(p.deck) == 0 {
		return false
	}
	Shuffle(g.rng, p.deck)

	ev := rules.NewEvent(rules.EventDeckRecycled, p.ID)
	ev.Amount = len(p.deck)
	g.publish(ev)
	return true
}

// returnToDeck puts a non-legend card back into its owner's deck with its
// printed stats and reshuffles.
func (g *GameState) returnToDeck(p *Player, card *cards.Card) {
	if card.IsLegend() {
		g.logger.Warn("legends never return to the deck", zap.String("card", card.Name))
		return
	}
	g.restoreStats(card)
	p.deck = append(p.deck, card.ID)
	g.arena.Relocate(card.ID, cards.ZoneDeck)
	Shuffle(g.rng, p.deck)
}

func (g *GameState) restoreStats(card *cards.Card) {
	tmpl, ok := g.templates[card.ID]
	if !ok {
		return
	}
	fresh := tmpl.Instantiate(card.ID, card.Owner)
	card.Cost = fresh.Cost
	card.Attack, card.Health = fresh.Attack, fresh.Health
	card.Speed, card.Range = fresh.Speed, fresh.Range
}

// destroy takes a card off the board. Legends go to the discard pile and
// clear the owner's legend; everything else is shuffled back into the deck.
func (g *GameState) destroy(card *cards.Card) {
	cell := g.board.CellOf(card)
	if cell == nil {
		return
	}
	g.board.Remove(cell)
	g.stack.RemoveBySource(card.ID)

	owner, ok := g.player(card.Owner)
	if !ok {
		g.logger.Error("destroyed card has no owner", zap.String("card", card.Name))
		return
	}
	if card.IsLegend() {
		if owner.legend == card.ID {
			owner.legend = ""
		}
		owner.discard = append(owner.discard, card.ID)
		g.arena.Relocate(card.ID, cards.ZoneDiscard)
	} else {
		g.returnToDeck(owner, card)
	}

	ev := rules.NewEvent(rules.EventCardDestroyed, card.Owner)
	ev.CardID, ev.CardName, ev.From, ev.Data = card.ID, card.Name, cell.Pos(), card.Kind.String()
	g.publish(ev)
	g.logger.Debug("card destroyed",
		zap.String("card", card.Name),
		zap.Int("owner", int(card.Owner)),
		zap.Int("x", cell.X),
		zap.Int("y", cell.Y),
	)
	g.checkLegendStatus()
}

// reapDead destroys every unit left on the board with no health.
func (g *GameState) reapDead() {
	var dead []*cards.Card
	for _, cell := range g.board.Cells() {
		if c := g.board.Occupant(cell); c != nil && c.IsUnit() && !c.Alive() {
			dead = append(dead, c)
		}
	}
	for _, c := range dead {
		g.destroy(c)
	}
	g.checkLegendStatus()
}

func (g *GameState) legendAlive(p *Player) bool {
	legend := g.legendOf(p)
	return legend != nil && legend.OnBoard && legend.Alive()
}

// checkLegendStatus moves the match to END once a legend is missing or dead.
func (g *GameState) checkLegendStatus() {
	if g.turns.Over() || !g.IsGameOver() {
		return
	}
	g.turns.Finish()
	winner := g.Winner()

	ev := rules.NewEvent(rules.EventGameOver, g.turns.Current())
	ev.Amount = int(winner)
	ev.Data = winner.String()
	g.publish(ev)
	g.logger.Info("match over",
		zap.String("winner", winner.String()),
		zap.Int("turn", g.turns.TurnNumber()),
	)
}

// IsGameOver reports whether any player lacks a living legend.
func (g *GameState) IsGameOver() bool {
	for _, p := range g.players {
		if !g.legendAlive(p) {
			return true
		}
	}
	return false
}

// Winner returns the team of the only player with a living legend. It
// returns TeamNone while the match runs and when it ended in a draw.
func (g *GameState) Winner() Team {
	if !g.IsGameOver() {
		return TeamNone
	}
	winner := TeamNone
	for _, p := range g.players {
		if g.legendAlive(p) {
			winner = p.Team
		}
	}
	return winner
}

// CurrentPlayer returns the seat to act.
func (g *GameState) CurrentPlayer() cards.PlayerID { return g.turns.Current() }

// PlayerCount returns the number of seats.
func (g *GameState) PlayerCount() int { return PlayerCount }

// ActionsRemaining returns the actions the player has left this turn.
func (g *GameState) ActionsRemaining(id cards.PlayerID) (int, bool) {
	p, ok := g.player(id)
	if !ok {
		return 0, false
	}
	return p.ActionsRemaining, true
}

// Turn returns the turn counter.
func (g *GameState) Turn() int { return g.turns.TurnNumber() }

// Phase returns the match phase.
func (g *GameState) Phase() rules.Phase { return g.turns.Phase() }

// Player returns a copy of a seat. Changing the copy does not affect the
// match.
func (g *GameState) Player(id cards.PlayerID) (Player, bool) {
	p, ok := g.player(id)
	if !ok {
		return Player{}, false
	}
	snapshot := *p
	snapshot.deck = p.Deck()
	snapshot.hand = p.Hand()
	snapshot.discard = p.Discard()
	return snapshot, true
}

// Board exposes the board for reads between actions.
func (g *GameState) Board() *board.Board { return g.board }

// Arena exposes card records for reads between actions.
func (g *GameState) Arena() *cards.Arena { return g.arena }

// Stack exposes the effect stack for inspection.
func (g *GameState) Stack() *rules.EffectStack { return g.stack }

// Events returns the match event bus.
func (g *GameState) Events() *rules.EventBus { return g.events }

// Settings returns the rules the match was created with.
func (g *GameState) Settings() Settings { return g.settings }

// Seed returns the effective PRNG seed.
func (g *GameState) Seed() uint32 { return g.rng.SeedValue() }
