package game

import (
	"github.com/magefree/hexduel-server-go/internal/game/board"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/hex"
	"github.com/magefree/hexduel-server-go/internal/game/rules"
)

// NoCoord marks a coordinate that is off the board.
const NoCoord = 255

// PlayerInfo is a read-only snapshot of one player.
type PlayerInfo struct {
	ID             cards.PlayerID `json:"id"`
	Team           Team           `json:"team"`
	Name           string         `json:"name"`
	IsAlive        bool           `json:"is_alive"`
	ActionsLeft    int            `json:"actions_left"`
	MaxActions     int            `json:"max_actions"`
	HandSize       int            `json:"hand_size"`
	DeckSize       int            `json:"deck_size"`
	DiscardSize    int            `json:"discard_size"`
	HandCardNames  []string       `json:"hand_card_names"`
	HasLegend      bool           `json:"has_legend"`
	LegendName     string         `json:"legend_name,omitempty"`
	LegendPosition hex.Position   `json:"legend_position"`
	Stats          PlayerStats    `json:"stats"`
}

// CellInfo is a read-only snapshot of one cell.
type CellInfo struct {
	X          int            `json:"x"`
	Y          int            `json:"y"`
	IsWalkable bool           `json:"is_walkable"`
	IsSpawn    bool           `json:"is_spawn"`
	HasCard    bool           `json:"has_card"`
	CardName   string         `json:"card_name,omitempty"`
	CardType   string         `json:"card_type,omitempty"`
	CardOwner  cards.PlayerID `json:"card_owner"`
	Attack     int            `json:"attack"`
	Health     int            `json:"health"`
	Speed      int            `json:"speed"`
	Range      int            `json:"range"`
	IsLegend   bool           `json:"is_legend"`
}

// GameInfo is a read-only snapshot of the whole match.
type GameInfo struct {
	Turn             int            `json:"turn"`
	Phase            string         `json:"phase"`
	CurrentTeam      Team           `json:"current_team"`
	CurrentPlayer    cards.PlayerID `json:"current_player"`
	IsGameOver       bool           `json:"is_game_over"`
	Winner           Team           `json:"winner"`
	Player0          PlayerInfo     `json:"player0"`
	Player1          PlayerInfo     `json:"player1"`
	MapCells         []CellInfo     `json:"map_cells"`
	MapVisualization string         `json:"map_visualization"`
}

// IsValidPlayPosition reports whether player could place a unit on (x, y).
func (g *GameState) IsValidPlayPosition(player cards.PlayerID, x, y int) bool {
	p, ok := g.player(player)
	if !ok {
		return false
	}
	return rules.CheckPlacement(g.board, g.board.At(x, y), g.legendOf(p)).Legal
}

func positionsWhere(b *board.Board, keep func(*board.Cell) bool) []hex.Position {
	var out []hex.Position
	for _, c := range b.Cells() {
		if keep(c) {
			out = append(out, c.Pos())
		}
	}
	return out
}

// ValidPlayPositions lists, in row-major order, the cells where player may
// place a unit.
func (g *GameState) ValidPlayPositions(player cards.PlayerID) []hex.Position {
	return positionsWhere(g.board, func(c *board.Cell) bool {
		return g.IsValidPlayPosition(player, c.X, c.Y)
	})
}

// ValidMovePositions lists the cells the unit at (x, y) may move to.
func (g *GameState) ValidMovePositions(x, y int) []hex.Position {
	from := g.board.At(x, y)
	card := g.board.Occupant(from)
	if card == nil || !card.IsUnit() {
		return nil
	}
	return positionsWhere(g.board, func(c *board.Cell) bool {
		return rules.CheckMove(g.board, card.Owner, from, c).Legal
	})
}

// ValidAttackPositions lists the cells the unit at (x, y) may attack.
func (g *GameState) ValidAttackPositions(x, y int) []hex.Position {
	from := g.board.At(x, y)
	card := g.board.Occupant(from)
	if card == nil || !card.IsUnit() {
		return nil
	}
	return positionsWhere(g.board, func(c *board.Cell) bool {
		return rules.CheckAttack(g.board, card.Owner, from, c).Legal
	})
}

// PlayerInfo snapshots a player.
func (g *GameState) PlayerInfo(player cards.PlayerID) (PlayerInfo, bool) {
	p, ok := g.player(player)
	if !ok {
		return PlayerInfo{}, false
	}
	info := PlayerInfo{
		ID:             p.ID,
		Team:           p.Team,
		Name:           p.Name,
		IsAlive:        g.legendAlive(p),
		ActionsLeft:    p.ActionsRemaining,
		MaxActions:     p.MaxActions,
		HandSize:       len(p.hand),
		DeckSize:       len(p.deck),
		DiscardSize:    len(p.discard),
		HandCardNames:  make([]string, 0, len(p.hand)),
		LegendPosition: hex.Position{X: NoCoord, Y: NoCoord},
		Stats:          g.Stats(player),
	}
	for _, id := range p.hand {
		name := "(unknown)"
		if c := g.card(id); c != nil {
			name = c.Name
		}
		info.HandCardNames = append(info.HandCardNames, name)
	}
	if legend := g.legendOf(p); legend != nil {
		info.HasLegend = true
		info.LegendName = legend.Name
		if legend.OnBoard {
			info.LegendPosition = legend.Pos
		}
	}
	return info, true
}

// CellInfo snapshots a cell. Cells off the board report false.
func (g *GameState) CellInfo(x, y int) (CellInfo, bool) {
	cell := g.board.At(x, y)
	if cell == nil {
		return CellInfo{X: x, Y: y, CardOwner: cards.NoPlayer}, false
	}
	info := CellInfo{
		X:          x,
		Y:          y,
		IsWalkable: cell.Walkable(),
		IsSpawn:    cell.IsSpawn(),
		CardOwner:  cards.NoPlayer,
	}
	if c := g.board.Occupant(cell); c != nil {
		info.HasCard = true
		info.CardName = c.Name
		info.CardType = c.Kind.String()
		info.CardOwner = c.Owner
		info.Attack, info.Health = c.Attack, c.Health
		info.Speed, info.Range = c.Speed, c.Range
		info.IsLegend = c.IsLegend()
	}
	return info, true
}

// GameInfo snapshots the match.
func (g *GameState) GameInfo() GameInfo {
	current := g.turns.Current()
	info := GameInfo{
		Turn:             g.turns.TurnNumber(),
		Phase:            g.turns.Phase().String(),
		CurrentTeam:      g.players[current].Team,
		CurrentPlayer:    current,
		IsGameOver:       g.IsGameOver(),
		Winner:           g.Winner(),
		MapVisualization: g.board.Render(),
	}
	info.Player0, _ = g.PlayerInfo(0)
	info.Player1, _ = g.PlayerInfo(1)
	for _, c := range g.board.Cells() {
		ci, _ := g.CellInfo(c.X, c.Y)
		info.MapCells = append(info.MapCells, ci)
	}
	return info
}

// RenderBoard draws the board as text.
func (g *GameState) RenderBoard() string {
	return g.board.Render()
}
