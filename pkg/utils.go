package pkg

import (
	"fmt"
	"math"
	"time"
)

// FormatAmount форматирует денежную сумму для вывода.
// Мелкие значения показываются с большей точностью, чтобы цена
// дешевых монет не схлопывалась в ноль.
func FormatAmount(amount float64) string {
	if amount != 0 && math.Abs(amount) < 0.01 {
		return fmt.Sprintf("%.8f", amount)
	}
	return fmt.Sprintf("%.2f", amount)
}

// FormatDuration форматирует duration в удобочитаемый формат
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Milliseconds()))
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.2fm", d.Minutes())
	}
	return fmt.Sprintf("%.2fh", d.Hours())
}

// FormatRate форматирует скорость обработки
func FormatRate(messagesProcessed int64, duration time.Duration) string {
	if duration.Seconds() == 0 {
		return "0 msg/s"
	}
	rate := float64(messagesProcessed) / duration.Seconds()
	return fmt.Sprintf("%.2f msg/s", rate)
}
