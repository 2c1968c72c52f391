package game

import (
	"github.com/magefree/hexduel-server-go/internal/game/board"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/rules"
	"go.uber.org/zap"
)

func removeAt(ids []cards.ID, i int) []cards.ID {
	return append(ids[:i:i], ids[i+1:]...)
}

func insertAt(ids []cards.ID, i int, id cards.ID) []cards.ID {
	out := make([]cards.ID, 0, len(ids)+1)
	out = append(out, ids[:i]...)
	out = append(out, id)
	return append(out, ids[i:]...)
}

// play takes the card at handIndex out of the hand and resolves it. Units
// are placed on cell next to the player's legend; spells resolve at once
// and go back into the deck. A unit that cannot be placed is put back at
// the same hand index.
func (g *GameState) play(p *Player, handIndex int, cell *board.Cell) rules.LegalityResult {
	if handIndex < 0 || handIndex >= len(p.hand) {
		return rules.Illegal(rules.ViolationNotInHand, "hand index %d out of range", handIndex)
	}
	id := p.hand[handIndex]
	card := g.card(id)
	if card == nil {
		return rules.Illegal(rules.ViolationNotInHand, "card %s is unknown", id)
	}
	if card.IsLegend() {
		return rules.Illegal(rules.ViolationCardKind, "legend %s cannot be played from hand", card.Name)
	}

	p.hand = removeAt(p.hand, handIndex)
	g.arena.Relocate(id, cards.ZoneNone)

	switch {
	case card.IsUnit():
		if res := rules.CheckPlacement(g.board, cell, g.legendOf(p)); !res.Legal {
			p.hand = insertAt(p.hand, handIndex, id)
			g.arena.Relocate(id, cards.ZoneHand)
			return res
		}
		g.board.Place(card, cell)
		g.resolveOnPlay(card, cell)
		g.stack.ProcessPositionEnter(g.board, cell)

		ev := rules.NewEvent(rules.EventUnitPlayed, p.ID)
		ev.CardID, ev.CardName, ev.To = card.ID, card.Name, cell.Pos()
		g.publish(ev)

	case card.IsSpell():
		g.registerAbilities(card)
		applied := g.stack.ProcessOnCast(g.board, nil)
		applied += g.stack.ProcessOnPlay(g.board, nil)
		g.stack.RemoveBySource(card.ID)
		g.returnToDeck(p, card)
		g.effectsResolved(card, rules.CategoryCastEffect, applied)

		ev := rules.NewEvent(rules.EventSpellCast, p.ID)
		ev.CardID, ev.CardName, ev.Amount = card.ID, card.Name, applied
		g.publish(ev)

	default:
		p.hand = insertAt(p.hand, handIndex, id)
		g.arena.Relocate(id, cards.ZoneHand)
		return rules.Illegal(rules.ViolationCardKind, "card %s has unknown kind", card.Name)
	}

	g.reapDead()
	return rules.Legal()
}

// move relocates one of the player's cards to an empty walkable cell and
// dispatches the position exit and enter passes.
func (g *GameState) move(p *Player, from, to *board.Cell) rules.LegalityResult {
	if res := rules.CheckMove(g.board, p.ID, from, to); !res.Legal {
		return res
	}
	card := g.board.Occupant(from)
	g.board.Move(from, to)
	g.stack.ProcessPositionExit(g.board, from)
	g.stack.ProcessPositionEnter(g.board, to)

	ev := rules.NewEvent(rules.EventUnitMoved, p.ID)
	ev.CardID, ev.CardName, ev.From, ev.To = card.ID, card.Name, from.Pos(), to.Pos()
	g.publish(ev)

	g.reapDead()
	return rules.Legal()
}

// attack destroys the target outright; stats do not take part in combat.
func (g *GameState) attack(p *Player, from, to *board.Cell) rules.LegalityResult {
	if res := rules.CheckAttack(g.board, p.ID, from, to); !res.Legal {
		return res
	}
	attacker := g.board.Occupant(from)
	target := g.board.Occupant(to)

	g.stack.Process(rules.CategoryOnAttack, g.board, from)

	ev := rules.NewEvent(rules.EventUnitAttacked, p.ID)
	ev.CardID, ev.CardName, ev.TargetID = attacker.ID, attacker.Name, target.ID
	ev.From, ev.To = from.Pos(), to.Pos()
	g.publish(ev)

	g.destroy(target)
	g.stack.Process(rules.CategoryOnCombat, g.board, to)
	g.reapDead()
	return rules.Legal()
}

// endTurn hands the turn to the next seat: the departing player's actions
// reset, end-of-turn effects run, then the new player draws one card and
// start-of-turn effects run.
func (g *GameState) endTurn() {
	departing := g.players[g.turns.Current()]
	departing.ActionsRemaining = departing.MaxActions

	ended := rules.NewEvent(rules.EventTurnEnded, departing.ID)
	g.publish(ended)

	next := g.players[g.turns.Advance()]
	g.stack.ProcessEndOfTurn(g.board)
	g.reapDead()
	if g.turns.Over() {
		return
	}

	g.draw(next, 1)
	next.ActionsRemaining = next.MaxActions
	g.stack.ProcessStartOfTurn(g.board)
	g.reapDead()

	g.publish(rules.NewEvent(rules.EventTurnStarted, next.ID))
	g.logger.Debug("turn started",
		zap.Int("player", int(next.ID)),
		zap.Int("turn", g.turns.TurnNumber()),
		zap.Int("hand", len(next.hand)),
	)
}

func (g *GameState) consumeAction(p *Player) {
	if p.ActionsRemaining > 0 {
		p.ActionsRemaining--
	}
}
