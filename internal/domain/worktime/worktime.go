// Package worktime concentra la aritmética de tiempo trabajado: parseo de fechas
// textuales, horas de una jornada y tarifa estimada con tope de 8h por día.
package worktime

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Formatos textuales persistidos.
const (
	DateTimeLayout        = "2006-01-02 15:04"
	DateTimeSecondsLayout = "2006-01-02 15:04:05"
	DateLayout            = "2006-01-02"
	ClockLayout           = "15:04"
)

const (
	minutesPerDay       = 24 * 60
	billableMinutesCap  = 8 * 60
	staleTimerThreshold = 9 * time.Hour
)

var (
	ErrStartFormat = errors.New("Start time format is invalid.")
	ErrEndFormat   = errors.New("Finish time format is invalid.")
	ErrNotAfter    = errors.New("Finish time must be after start time.")
)

var sixty = decimal.NewFromInt(60)

// NormalizeDateTime recorta y sustituye la "T" de un datetime-local por un espacio.
func NormalizeDateTime(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "T", " ")
}

// ParseDateTime acepta "YYYY-MM-DD HH:MM" y "YYYY-MM-DD HH:MM:SS".
func ParseDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateTimeLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(DateTimeSecondsLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FormatDateTime formatea al layout persistido.
func FormatDateTime(t time.Time) string { return t.Format(DateTimeLayout) }

// ParseClock parsea "HH:MM".
func ParseClock(s string) (time.Time, bool) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	return t, err == nil
}

// SplitDateTime separa "YYYY-MM-DD HH:MM" en fecha y hora.
func SplitDateTime(s string) (date, clock string, ok bool) {
	date, clock, ok = strings.Cut(strings.TrimSpace(s), " ")
	return date, clock, ok && date != "" && clock != ""
}

// HoursFromMinutes minutos / 60 redondeado a 2 decimales.
func HoursFromMinutes(minutes int64) decimal.Decimal {
	return decimal.NewFromInt(minutes).Div(sixty).Round(2)
}

// ShiftHours calcula las horas de una jornada entre start y end ("HH:MM").
// El fin debe ser estrictamente posterior al inicio.
func ShiftHours(start, end string) (decimal.Decimal, error) {
	s, ok := ParseClock(start)
	if !ok {
		return decimal.Zero, ErrStartFormat
	}
	e, ok := ParseClock(end)
	if !ok {
		return decimal.Zero, ErrEndFormat
	}
	minutes := int64(e.Sub(s) / time.Minute)
	if minutes <= 0 {
		return decimal.Zero, ErrNotAfter
	}
	return HoursFromMinutes(minutes), nil
}

// BillableMinutes aplica el tope de 8h a cada día completo y al día parcial final.
func BillableMinutes(minutes int64) int64 {
	if minutes <= 0 {
		return 0
	}
	days := minutes / minutesPerDay
	extra := minutes - days*minutesPerDay
	if extra > billableMinutesCap {
		extra = billableMinutesCap
	}
	return days*billableMinutesCap + extra
}

// CalculatedFee tarifa estimada de todo el despliegue. Devuelve cero si las fechas
// no parsean, el rango es vacío o la tarifa no es positiva.
func CalculatedFee(startAt, endAt string, feePerHour decimal.Decimal) decimal.Decimal {
	if !feePerHour.IsPositive() {
		return decimal.Zero
	}
	start, ok := ParseDateTime(startAt)
	if !ok {
		return decimal.Zero
	}
	end, ok := ParseDateTime(endAt)
	if !ok {
		return decimal.Zero
	}
	billable := BillableMinutes(int64(end.Sub(start) / time.Minute))
	hours := decimal.NewFromInt(billable).Div(sixty)
	return hours.Mul(feePerHour).Round(2)
}

// Amount horas * tarifa redondeado a 2 decimales.
func Amount(hours, feePerHour decimal.Decimal) decimal.Decimal {
	return hours.Mul(feePerHour).Round(2)
}

// EnsureEndAfter devuelve end, o start + 1 minuto si end no es posterior a start.
func EnsureEndAfter(startAt, endAt string) string {
	start, ok := ParseDateTime(startAt)
	if !ok {
		return endAt
	}
	end, ok := ParseDateTime(endAt)
	if !ok {
		return endAt
	}
	if !end.After(start) {
		return FormatDateTime(start.Add(time.Minute))
	}
	return endAt
}

// StaleCutoff instante antes del cual un temporizador abierto se considera olvidado.
func StaleCutoff(now time.Time) string {
	return FormatDateTime(now.Add(-staleTimerThreshold))
}

// StaleEnd cierre forzado de un temporizador olvidado: inicio + 9h.
func StaleEnd(startAt string) (string, bool) {
	start, ok := ParseDateTime(startAt)
	if !ok {
		return "", false
	}
	return FormatDateTime(start.Add(staleTimerThreshold)), true
}
