package cards

import "github.com/magefree/hexduel-server-go/internal/game/hex"

// EffectKind names what an ability does to its targets.
type EffectKind string

// Effect kinds understood by the effect factory.
const (
	EffectAttributeModifier EffectKind = "attribute_modifier"
	EffectDirectDamage      EffectKind = "direct_damage"
	EffectHeal              EffectKind = "heal"
	EffectReflectDamage     EffectKind = "reflect_damage"
	EffectDrawCards         EffectKind = "draw_cards"
	EffectDestroy           EffectKind = "destroy"
	EffectAddMana           EffectKind = "add_mana"
	EffectCostModifier      EffectKind = "cost_modifier"
	EffectReduceHandCost    EffectKind = "reduce_hand_cost"
	EffectPrint             EffectKind = "print"
)

// TargetKind names which cells an ability reaches.
type TargetKind string

// Target kinds understood by the selector factory.
const (
	TargetSelf             TargetKind = "self"
	TargetAdjacent         TargetKind = "adjacent"
	TargetAllAllies        TargetKind = "all_allies"
	TargetAllEnemies       TargetKind = "all_enemies"
	TargetAllUnits         TargetKind = "all_units"
	TargetAllCards         TargetKind = "all_cards"
	TargetAttackTarget     TargetKind = "attack_target"
	TargetAttacker         TargetKind = "attacker"
	TargetSpecificPosition TargetKind = "specific_position"
	TargetDirectional      TargetKind = "directional"
	TargetGameState        TargetKind = "game_state"
)

// TriggerKind names the event an ability waits for.
type TriggerKind string

// Trigger kinds. turn_start/turn_end are the config spellings of the start
// and end of turn triggers.
const (
	TriggerOnPlay       TriggerKind = "on_play"
	TriggerOnAttack     TriggerKind = "on_attack"
	TriggerOnAttacked   TriggerKind = "on_attacked"
	TriggerOnKill       TriggerKind = "on_kill"
	TriggerOnDeath      TriggerKind = "on_death"
	TriggerTurnStart    TriggerKind = "turn_start"
	TriggerTurnEnd      TriggerKind = "turn_end"
	TriggerOnCast       TriggerKind = "on_cast"
	TriggerOnStartTurn  TriggerKind = "on_start_turn"
	TriggerOnEndTurn    TriggerKind = "on_end_turn"
	TriggerOnEnemyEnter TriggerKind = "on_enemy_enter"
	TriggerOnEnemyExit  TriggerKind = "on_enemy_exit"
	TriggerOnAllyEnter  TriggerKind = "on_ally_enter"
)

// TargetFilter narrows adjacent and directional selections.
type TargetFilter string

// Target filters.
const (
	FilterAny         TargetFilter = "any"
	FilterAlliesOnly  TargetFilter = "allies_only"
	FilterEnemiesOnly TargetFilter = "enemies_only"
	FilterNonLeaders  TargetFilter = "non_leaders"
)

// Attribute selects the stat an attribute modifier touches.
type Attribute string

// Modifiable attributes.
const (
	AttributeAttack Attribute = "attack"
	AttributeHealth Attribute = "health"
	AttributeSpeed  Attribute = "speed"
	AttributeRange  Attribute = "range"
)

// AbilitySpec is the validated, typed description of one card ability.
// Duration is advisory: 0 instant, >0 turns, -1 persistent.
type AbilitySpec struct {
	Effect     EffectKind      `json:"effect"`
	Target     TargetKind      `json:"target"`
	Filter     TargetFilter    `json:"filter"`
	Trigger    TriggerKind     `json:"trigger"`
	Value      int             `json:"value"`
	Duration   int             `json:"duration"`
	Attribute  Attribute       `json:"attribute,omitempty"`
	Directions []hex.Direction `json:"directions,omitempty"`
	X          int             `json:"x"`
	Y          int             `json:"y"`
}
