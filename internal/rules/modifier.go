// Package rules implements the engine's attack-modifier hook from
// declarative rule data: heroes and cards carry "on_declare" tables whose
// entries add attack when a condition over the declaration context holds.
package rules

import (
	"fmt"
	"strings"

	lua "github.com/Shopify/go-lua"
	"go.uber.org/zap"

	"github.com/fabrules/fab-engine-go/internal/game"
)

// Modifier evaluates hero and card on_declare tables against the declaration
// context. It is stateless and reads the passed GameState only.
type Modifier struct {
	logger *zap.Logger
}

// NewModifier creates a modifier. A nil logger is replaced with a no-op.
func NewModifier(logger *zap.Logger) *Modifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Modifier{logger: logger}
}

var _ game.AttackModifier = (*Modifier)(nil)

// ModifyAttack applies hero rules, then the source card's own rules, to the
// base attack value. Conditions that fail to evaluate are skipped (logged),
// never fatal: a bad rule must not corrupt a game in progress.
func (m *Modifier) ModifyAttack(gs *game.GameState, baseAttack int, source *game.Card, isWeapon bool) int {
	ctx := conditionContext(gs, source, isWeapon)
	total := m.applyHeroRules(gs, baseAttack, ctx)
	total = m.applyCardRules(total, source, ctx)
	return max(0, total)
}

func (m *Modifier) applyHeroRules(gs *game.GameState, attackValue int, ctx map[string]any) int {
	you := gs.TurnPlayer()
	total := m.applyTable(attackValue, you.Hero.Modifiers, ctx)

	// Compatibility fallback for heroes shipped before declarative data:
	// Ira grants +1 to the second and later attacks of a turn.
	if total == attackValue && you.Hero.Name == "Ira, Crimson Haze" && you.AttacksThisTurn >= 1 {
		total++
	}
	return total
}

func (m *Modifier) applyCardRules(attackValue int, source *game.Card, ctx map[string]any) int {
	if source == nil {
		return attackValue
	}
	return m.applyTable(attackValue, source.Modifiers, ctx)
}

func (m *Modifier) applyTable(attackValue int, table game.ModifierTable, ctx map[string]any) int {
	total := attackValue
	for _, rule := range table["on_declare"] {
		if rule.AddAttack == 0 {
			continue
		}
		ok := true
		if cond := strings.TrimSpace(rule.When); cond != "" {
			var err error
			ok, err = EvalCondition(cond, ctx)
			if err != nil {
				m.logger.Warn("skipping modifier rule",
					zap.String("condition", cond),
					zap.Error(err),
				)
				continue
			}
		}
		if ok {
			total += rule.AddAttack
		}
	}
	return total
}

// conditionContext builds the fixed set of names a rule condition may
// reference at declaration time.
func conditionContext(gs *game.GameState, source *game.Card, isWeapon bool) map[string]any {
	you := gs.TurnPlayer()
	ctx := map[string]any{
		"attacks_this_turn":         you.AttacksThisTurn,
		"attack_number":             you.AttacksThisTurn + 1,
		"pitch_sum":                 gs.LastPitchSum,
		"is_weapon":                 isWeapon,
		"is_card":                   !isWeapon,
		"is_first_attack":           you.AttacksThisTurn == 0,
		"is_second_attack":          you.AttacksThisTurn == 1,
		"is_third_attack_or_higher": you.AttacksThisTurn >= 2,
		"hero":                      you.Hero.Name,
	}
	if source != nil {
		ctx["card_name"] = source.Name
	}
	return ctx
}

// EvalCondition evaluates a boolean rule condition in a sandboxed Lua state
// with the context names bound as globals. No libraries are opened, so the
// expression language is limited to comparisons, boolean operators and
// arithmetic over the bound names. "!=" is accepted as an alias for Lua's
// "~=".
func EvalCondition(expr string, ctx map[string]any) (bool, error) {
	l := lua.NewState()
	for name, value := range ctx {
		switch v := value.(type) {
		case bool:
			l.PushBoolean(v)
		case int:
			l.PushInteger(v)
		case string:
			l.PushString(v)
		default:
			return false, fmt.Errorf("unsupported context value %q: %T", name, value)
		}
		l.SetGlobal(name)
	}

	src := "return (" + strings.ReplaceAll(expr, "!=", "~=") + ")"
	if err := lua.DoString(l, src); err != nil {
		return false, fmt.Errorf("evaluate condition %q: %w", expr, err)
	}
	return l.ToBoolean(-1), nil
}
