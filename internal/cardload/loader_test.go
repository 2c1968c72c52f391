package cardload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/hex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const sampleDecks = `{
  "decks": [
    {
      "name": "Test",
      "cards": [
        {"id": 1, "name": "Hero", "type": "legend", "attack": 3, "health": 10},
        {"id": 2, "name": "Squire", "type": "Unit", "cost": 1, "attack": 1, "health": 2, "speed": 2},
        {"id": 3, "name": "Bolt", "type": "spell", "cost": 2, "attack": 9, "health": 9,
         "effects": [{"type": "direct_damage", "target_type": "all_enemies", "trigger": "on_cast", "value": 3}]},
        {"id": 4, "name": "Ghost", "type": "phantom"}
      ]
    }
  ]
}`

func TestParseDecksObject(t *testing.T) {
	l := NewLoader(zaptest.NewLogger(t))
	decks, err := l.Parse([]byte(sampleDecks))
	require.NoError(t, err)
	require.Len(t, decks, 1)

	d := decks[0]
	assert.Equal(t, "Test", d.Name)
	require.Len(t, d.Cards, 3, "unknown card type is skipped")
	assert.Equal(t, 1, d.Legends())

	hero := d.Cards[0]
	assert.Equal(t, cards.KindLegend, hero.Kind)
	assert.Equal(t, 1, hero.Speed)
	assert.Equal(t, 1, hero.Range)

	squire := d.Cards[1]
	assert.Equal(t, cards.KindUnit, squire.Kind)
	assert.Equal(t, 2, squire.Speed)

	bolt := d.Cards[2]
	assert.Equal(t, cards.KindSpell, bolt.Kind)
	assert.Zero(t, bolt.Attack)
	assert.Zero(t, bolt.Health)
	require.Len(t, bolt.Abilities, 1)
	assert.Equal(t, cards.EffectDirectDamage, bolt.Abilities[0].Effect)
	assert.Equal(t, cards.TargetAllEnemies, bolt.Abilities[0].Target)
	assert.Equal(t, cards.TriggerOnCast, bolt.Abilities[0].Trigger)
	assert.Equal(t, 3, bolt.Abilities[0].Value)
}

func TestParseBareArrays(t *testing.T) {
	l := NewLoader(zaptest.NewLogger(t))

	decks, err := l.Parse([]byte(`[{"name":"A","cards":[{"name":"L","type":"legend"}]},{"name":"B","cards":[]}]`))
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "A", decks[0].Name)
	assert.Empty(t, decks[1].Cards)

	decks, err = l.Parse([]byte(`[{"name":"L","type":"legend"},{"name":"U","type":"unit"}]`))
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, "default", decks[0].Name)
	assert.Len(t, decks[0].Cards, 2)
}

func TestParseRejectsMalformed(t *testing.T) {
	l := NewLoader(zaptest.NewLogger(t))
	for _, in := range []string{``, `"decks"`, `{"cards":[]}`, `{"decks": [`} {
		_, err := l.Parse([]byte(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestBuildAbilityFallbacks(t *testing.T) {
	l := NewLoader(zaptest.NewLogger(t))

	spec, ok := l.BuildAbility(EffectJSON{Type: "heal", TargetType: "nowhere", Filter: "odd", Trigger: "whenever", Value: 2})
	require.True(t, ok)
	assert.Equal(t, cards.TargetSelf, spec.Target)
	assert.Equal(t, cards.FilterAny, spec.Filter)
	assert.Equal(t, cards.TriggerOnPlay, spec.Trigger)

	_, ok = l.BuildAbility(EffectJSON{Type: "teleport"})
	assert.False(t, ok)
}

func TestBuildAbilityAttributes(t *testing.T) {
	l := NewLoader(zaptest.NewLogger(t))

	spec, ok := l.BuildAbility(EffectJSON{Type: "attribute_modifier", Value: 1})
	require.True(t, ok)
	assert.Equal(t, cards.AttributeAttack, spec.Attribute)

	spec, ok = l.BuildAbility(EffectJSON{Type: "speed_buff", Value: 1})
	require.True(t, ok)
	assert.Equal(t, cards.EffectAttributeModifier, spec.Effect)
	assert.Equal(t, cards.AttributeSpeed, spec.Attribute)

	spec, ok = l.BuildAbility(EffectJSON{Type: "health_modifier", Attribute: "range", Value: 1})
	require.True(t, ok)
	assert.Equal(t, cards.AttributeRange, spec.Attribute, "explicit attribute wins")
}

func TestBuildAbilityPositionAndDirections(t *testing.T) {
	l := NewLoader(zaptest.NewLogger(t))
	x, y := 2, 5
	spec, ok := l.BuildAbility(EffectJSON{
		Type:       "destroy",
		TargetType: "directional",
		Directions: []string{"up", "Bottom_Left", "sideways"},
		X:          &x,
		Y:          &y,
	})
	require.True(t, ok)
	assert.Equal(t, []hex.Direction{hex.Up, hex.BottomLeft}, spec.Directions)
	assert.Equal(t, 2, spec.X)
	assert.Equal(t, 5, spec.Y)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decks.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDecks), 0o644))

	decks, err := NewLoader(zaptest.NewLogger(t)).LoadFile(path)
	require.NoError(t, err)
	require.Len(t, decks, 1)

	_, err = NewLoader(nil).LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDefaultDecks(t *testing.T) {
	decks := DefaultDecks()
	require.Len(t, decks, 2)
	for _, d := range decks {
		assert.Len(t, d.Cards, 20, d.Name)
		assert.Equal(t, 1, d.Legends(), d.Name)
		assert.Equal(t, cards.KindLegend, d.Cards[0].Kind)
	}
	tmpls := Templates(decks)
	require.Len(t, tmpls, 2)
	assert.Len(t, tmpls[1], 20)
}

func TestParseLookups(t *testing.T) {
	_, ok := ParseFilter("ALL")
	assert.True(t, ok)
	k, ok := ParseKind(" Spell ")
	require.True(t, ok)
	assert.Equal(t, cards.KindSpell, k)
	_, _, ok = ParseEffect("luck_buff")
	assert.False(t, ok)
}
