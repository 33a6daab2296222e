package subscription

import (
	"errors"
	"strings"
)

// Plan — один из фиксированных тарифов.
type Plan string

const (
	PlanWeek    Plan = "week"
	PlanMonth   Plan = "month"
	PlanYear    Plan = "year"
	PlanForever Plan = "forever"
)

var ErrUnknownPlan = errors.New("unknown plan")

// Plans перечисляет все известные тарифы в порядке показа.
var Plans = []Plan{PlanWeek, PlanMonth, PlanYear, PlanForever}

// длительности в секундах; 0 = бессрочно
var planDurations = map[Plan]int64{
	PlanWeek:    7 * 24 * 3600,
	PlanMonth:   30 * 24 * 3600,
	PlanYear:    365 * 24 * 3600,
	PlanForever: 0,
}

var planAliases = map[string]Plan{
	"w": PlanWeek, "неделя": PlanWeek,
	"m": PlanMonth, "месяц": PlanMonth,
	"y": PlanYear, "год": PlanYear,
	"f": PlanForever, "навсегда": PlanForever,
}

var planTitles = map[Plan]string{
	PlanWeek:    "1 неделя",
	PlanMonth:   "1 месяц",
	PlanYear:    "1 год",
	PlanForever: "Навсегда",
}

// Valid сообщает, известен ли тариф.
func (p Plan) Valid() bool {
	_, ok := planDurations[p]
	return ok
}

// Human возвращает русское название тарифа для сообщений.
func (p Plan) Human() string {
	return planTitles[p]
}

// Duration возвращает срок тарифа в секундах; 0 для бессрочного.
func (p Plan) Duration() int64 {
	return planDurations[p]
}

// NormalizePlan принимает пользовательский ввод (week, w, неделя...)
// и возвращает каноничный тариф.
func NormalizePlan(s string) (Plan, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if p := Plan(s); p.Valid() {
		return p, true
	}
	if p, ok := planAliases[s]; ok {
		return p, true
	}
	return "", false
}

// Grant — одна строка журнала подписок. Журнал append-only: строки никогда
// не обновляются, «активность» вычисляется по expires_at на момент запроса.
type Grant struct {
	ID        int64
	UserID    int64
	Plan      Plan
	CreatedAt int64  // unix seconds
	ExpiresAt *int64 // nil = навсегда
	GiftedBy  *int64 // nil = куплена самостоятельно
}

// ActiveAt сообщает, действует ли грант в момент now.
func (g *Grant) ActiveAt(now int64) bool {
	return g.ExpiresAt == nil || *g.ExpiresAt > now
}

// Provisional сообщает, что это отложенный подарок: оплачен, но получатель
// ещё не известен боту, поэтому грант временно висит на дарителе.
// Маркёр — gifted_by, указывающий на самого владельца (подарить себе нельзя).
func (g *Grant) Provisional() bool {
	return g.GiftedBy != nil && *g.GiftedBy == g.UserID
}
