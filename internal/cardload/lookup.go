package cardload

import (
	"strings"

	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/hex"
)

var effectKinds = map[string]cards.EffectKind{
	"attribute_modifier": cards.EffectAttributeModifier,
	"direct_damage":      cards.EffectDirectDamage,
	"heal":               cards.EffectHeal,
	"reflect_damage":     cards.EffectReflectDamage,
	"draw_cards":         cards.EffectDrawCards,
	"destroy":            cards.EffectDestroy,
	"add_mana":           cards.EffectAddMana,
	"cost_modifier":      cards.EffectCostModifier,
	"reduce_hand_cost":   cards.EffectReduceHandCost,
	"print":              cards.EffectPrint,
}

var attributes = map[string]cards.Attribute{
	"attack": cards.AttributeAttack,
	"health": cards.AttributeHealth,
	"speed":  cards.AttributeSpeed,
	"range":  cards.AttributeRange,
}

var targetKinds = map[string]cards.TargetKind{
	"self":              cards.TargetSelf,
	"adjacent":          cards.TargetAdjacent,
	"all_allies":        cards.TargetAllAllies,
	"all_enemies":       cards.TargetAllEnemies,
	"all_units":         cards.TargetAllUnits,
	"all_cards":         cards.TargetAllCards,
	"attack_target":     cards.TargetAttackTarget,
	"attacker":          cards.TargetAttacker,
	"specific_position": cards.TargetSpecificPosition,
	"directional":       cards.TargetDirectional,
	"game_state":        cards.TargetGameState,
}

var triggers = map[string]cards.TriggerKind{
	"on_play":        cards.TriggerOnPlay,
	"on_attack":      cards.TriggerOnAttack,
	"on_attacked":    cards.TriggerOnAttacked,
	"on_kill":        cards.TriggerOnKill,
	"on_death":       cards.TriggerOnDeath,
	"turn_start":     cards.TriggerTurnStart,
	"turn_end":       cards.TriggerTurnEnd,
	"on_cast":        cards.TriggerOnCast,
	"on_start_turn":  cards.TriggerOnStartTurn,
	"on_end_turn":    cards.TriggerOnEndTurn,
	"on_enemy_enter": cards.TriggerOnEnemyEnter,
	"on_enemy_exit":  cards.TriggerOnEnemyExit,
	"on_ally_enter":  cards.TriggerOnAllyEnter,
}

var filters = map[string]cards.TargetFilter{
	"any":          cards.FilterAny,
	"all":          cards.FilterAny,
	"allies_only":  cards.FilterAlliesOnly,
	"enemies_only": cards.FilterEnemiesOnly,
	"non_leaders":  cards.FilterNonLeaders,
}

var directions = map[string]hex.Direction{
	"up":           hex.Up,
	"down":         hex.Down,
	"top_left":     hex.TopLeft,
	"up_left":      hex.TopLeft,
	"top_right":    hex.TopRight,
	"up_right":     hex.TopRight,
	"bottom_left":  hex.BottomLeft,
	"down_left":    hex.BottomLeft,
	"bottom_right": hex.BottomRight,
	"down_right":   hex.BottomRight,
}

var kinds = map[string]cards.Kind{
	"unit":   cards.KindUnit,
	"legend": cards.KindLegend,
	"spell":  cards.KindSpell,
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseEffect maps an effect type to its kind. Legacy stat spellings such
// as "attack_buff" or "speed_debuff" become attribute modifiers on that
// stat; the returned attribute is empty otherwise.
func ParseEffect(s string) (cards.EffectKind, cards.Attribute, bool) {
	s = key(s)
	if k, ok := effectKinds[s]; ok {
		return k, "", true
	}
	for _, suffix := range []string{"_modifier", "_buff", "_debuff"} {
		stat, found := strings.CutSuffix(s, suffix)
		if !found {
			continue
		}
		if attr, ok := attributes[stat]; ok {
			return cards.EffectAttributeModifier, attr, true
		}
	}
	return "", "", false
}

// ParseTarget maps a target type name.
func ParseTarget(s string) (cards.TargetKind, bool) {
	k, ok := targetKinds[key(s)]
	return k, ok
}

// ParseTrigger maps a trigger name.
func ParseTrigger(s string) (cards.TriggerKind, bool) {
	k, ok := triggers[key(s)]
	return k, ok
}

// ParseFilter maps a target filter name.
func ParseFilter(s string) (cards.TargetFilter, bool) {
	k, ok := filters[key(s)]
	return k, ok
}

// ParseDirection maps a direction name.
func ParseDirection(s string) (hex.Direction, bool) {
	d, ok := directions[key(s)]
	return d, ok
}

// ParseAttribute maps an attribute name.
func ParseAttribute(s string) (cards.Attribute, bool) {
	a, ok := attributes[key(s)]
	return a, ok
}

// ParseKind maps a card type name.
func ParseKind(s string) (cards.Kind, bool) {
	k, ok := kinds[key(s)]
	return k, ok
}
