package trend

import (
	"strings"
	"unicode"

	"github.com/TheDucklet/FinancialTelegramBot/internal/currency"
)

// Unit единица измерения периода
type Unit int

const (
	UnitMinutes Unit = iota
	UnitHours
	UnitDays
	UnitMonths
	UnitYears
)

// String возвращает строковое представление единицы периода
func (u Unit) String() string {
	switch u {
	case UnitMinutes:
		return "minutes"
	case UnitHours:
		return "hours"
	case UnitDays:
		return "days"
	case UnitMonths:
		return "months"
	case UnitYears:
		return "years"
	default:
		return "days"
	}
}

// Window период истории, запрошенный пользователем
type Window struct {
	Magnitude int
	Unit      Unit
}

// ParseWindow разбирает период вида "24h", "30d", "1y".
// Цифры и буквы могут идти вперемешку, неизвестная единица трактуется
// как дни, отсутствие числа дает нулевую величину.
func ParseWindow(s string) Window {
	var digits, letters strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case unicode.IsLetter(r):
			letters.WriteRune(unicode.ToLower(r))
		}
	}

	magnitude := 0
	for _, r := range digits.String() {
		magnitude = magnitude*10 + int(r-'0')
	}

	var unit Unit
	switch letters.String() {
	case "m", "min":
		unit = UnitMinutes
	case "h":
		unit = UnitHours
	case "d":
		unit = UnitDays
	case "mo", "month", "months":
		unit = UnitMonths
	case "y", "year", "years":
		unit = UnitYears
	default:
		unit = UnitDays
	}

	return Window{Magnitude: magnitude, Unit: unit}
}

// DefaultWindow возвращает период по умолчанию для класса актива:
// сутки для криптовалют, месяц для фиатных валют
func DefaultWindow(class currency.Class) Window {
	if class == currency.ClassCrypto {
		return Window{Magnitude: 24, Unit: UnitHours}
	}
	return Window{Magnitude: 30, Unit: UnitDays}
}

// Days возвращает длину периода в календарных днях.
// Периоды короче суток округляются до одного дня.
func (w Window) Days() int {
	switch w.Unit {
	case UnitMinutes, UnitHours:
		return 1
	case UnitMonths:
		return w.Magnitude * 30
	case UnitYears:
		return w.Magnitude * 365
	default:
		return w.Magnitude
	}
}

// dailyBars возвращает число дневных баров для периода
func (w Window) dailyBars() int {
	switch w.Unit {
	case UnitMonths:
		return w.Magnitude * 30
	case UnitYears:
		return w.Magnitude * 365
	default:
		return w.Magnitude
	}
}
