package effects

import (
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/rules"
	"github.com/magefree/hexduel-server-go/internal/game/targeting"
	"go.uber.org/zap"
)

// Factory turns typed ability specs into composed effects.
type Factory struct {
	logger *zap.Logger
}

// NewFactory creates an effect factory. Print effects log through logger.
func NewFactory(logger *zap.Logger) *Factory {
	return &Factory{logger: logger}
}

// CategoryFor maps a trigger kind to the stack category it is dispatched in.
func CategoryFor(kind cards.TriggerKind) rules.Category {
	switch kind {
	case cards.TriggerOnCast:
		return rules.CategoryCastEffect
	case cards.TriggerTurnStart, cards.TriggerOnStartTurn:
		return rules.CategoryOnStartOfTurn
	case cards.TriggerTurnEnd, cards.TriggerOnEndTurn:
		return rules.CategoryOnEndOfTurn
	case cards.TriggerOnAttack:
		return rules.CategoryOnAttack
	case cards.TriggerOnAttacked, cards.TriggerOnKill, cards.TriggerOnDeath:
		return rules.CategoryOnCombat
	case cards.TriggerOnEnemyEnter, cards.TriggerOnAllyEnter:
		return rules.CategoryOnPositionEnter
	case cards.TriggerOnEnemyExit:
		return rules.CategoryOnPositionExit
	default:
		return rules.CategoryOnPlay
	}
}

func triggerFor(spec cards.AbilitySpec, source cards.ID, owner cards.PlayerID) rules.Trigger {
	switch spec.Trigger {
	case cards.TriggerOnCast:
		return rules.NewOnCastTrigger(source, owner)
	case cards.TriggerTurnStart, cards.TriggerOnStartTurn:
		return rules.NewOnStartTurnTrigger(source, owner)
	case cards.TriggerTurnEnd, cards.TriggerOnEndTurn:
		return rules.NewOnEndTurnTrigger(source, owner)
	case cards.TriggerOnAttack, cards.TriggerOnAttacked, cards.TriggerOnKill, cards.TriggerOnDeath:
		return rules.NewEventTrigger(string(spec.Trigger), source, owner)
	case cards.TriggerOnEnemyEnter:
		return rules.NewOnEnemyEnterTrigger(source, owner, spec.Directions)
	case cards.TriggerOnEnemyExit:
		return rules.NewOnEnemyExitTrigger(source, owner, spec.Directions)
	case cards.TriggerOnAllyEnter:
		return rules.NewOnAllyEnterTrigger(source, owner, spec.Directions)
	default:
		return rules.NewOnPlayTrigger(source, owner)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (f *Factory) implFor(spec cards.AbilitySpec, base implBase, cardName string) (Impl, bool) {
	switch spec.Effect {
	case cards.EffectAttributeModifier:
		switch spec.Attribute {
		case cards.AttributeHealth:
			return &HealthModifier{implBase: base, Value: spec.Value}, true
		case cards.AttributeSpeed:
			return &SpeedModifier{implBase: base, Value: spec.Value}, true
		case cards.AttributeRange:
			return &RangeModifier{implBase: base, Value: spec.Value}, true
		default:
			return &AttackModifier{implBase: base, Value: spec.Value}, true
		}
	case cards.EffectDirectDamage, cards.EffectReflectDamage:
		return &Damage{implBase: base, Amount: abs(spec.Value)}, true
	case cards.EffectHeal:
		return &Heal{implBase: base, Amount: abs(spec.Value)}, true
	case cards.EffectDestroy:
		return &Destroy{implBase: base}, true
	case cards.EffectDrawCards:
		return &DrawCards{implBase: base, Count: abs(spec.Value)}, true
	case cards.EffectAddMana:
		return &AddMana{implBase: base, Amount: abs(spec.Value)}, true
	case cards.EffectCostModifier:
		return &CostModifier{implBase: base, Value: spec.Value}, true
	case cards.EffectReduceHandCost:
		return &ReduceHandCost{implBase: base, Amount: abs(spec.Value)}, true
	case cards.EffectPrint:
		return &Print{implBase: base, Message: cardName, logger: f.logger}, true
	}
	return nil, false
}

// Build creates the composed effect for the slot-th ability of card. It
// reports false for effect kinds it does not know.
func (f *Factory) Build(card *cards.Card, slot int) (*Composed, bool) {
	if card == nil || slot < 0 || slot >= len(card.Abilities) {
		return nil, false
	}
	spec := card.Abilities[slot]
	impl, ok := f.implFor(spec, implBase{Source: card.ID, Owner: card.Owner}, card.Name)
	if !ok {
		if f.logger != nil {
			f.logger.Warn("skipping unknown effect",
				zap.String("card", card.Name),
				zap.String("effect", string(spec.Effect)),
			)
		}
		return nil, false
	}

	selector := targeting.FromSpec(spec, card.ID, card.Owner)
	switch spec.Effect {
	case cards.EffectDrawCards, cards.EffectAddMana, cards.EffectReduceHandCost:
		selector = targeting.NewGameState(card.ID, card.Owner)
	}

	composed := NewComposed(impl, []rules.Trigger{triggerFor(spec, card.ID, card.Owner)}, selector, card.ID, card.Owner, slot)
	composed.category = CategoryFor(spec.Trigger)
	composed.duration = Duration(spec.Duration)
	return composed, true
}

// BuildAll creates the composed effects for every known ability of card, in
// ability order.
func (f *Factory) BuildAll(card *cards.Card) []*Composed {
	if card == nil {
		return nil
	}
	out := make([]*Composed, 0, len(card.Abilities))
	for slot := range card.Abilities {
		if c, ok := f.Build(card, slot); ok {
			out = append(out, c)
		}
	}
	return out
}
