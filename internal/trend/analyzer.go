package trend

import "fmt"

// TrendLine результат анализа ряда: линия тренда методом наименьших
// квадратов и процентное изменение от первой точки к последней
type TrendLine struct {
	Slope         float64 `json:"slope"`
	Intercept     float64 `json:"intercept"`
	PercentChange float64 `json:"percent_change"`
	ChangeDefined bool    `json:"change_defined"`
}

// Analyze строит линию тренда по индексам 0..n-1.
// Если первое значение ряда равно нулю, процентное изменение не определено
// и сообщается как отсутствующее, а не как деление на ноль.
func Analyze(s Series) (TrendLine, error) {
	n := len(s)
	if n < 2 {
		return TrendLine{}, fmt.Errorf("%w: series has %d points, need at least 2", ErrNoData, n)
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, p := range s {
		x := float64(i)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumXX += x * x
	}

	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn

	line := TrendLine{
		Slope:     slope,
		Intercept: intercept,
	}

	first := s[0].Value
	last := s[n-1].Value
	if first != 0 {
		line.PercentChange = (last - first) / first * 100
		line.ChangeDefined = true
	}

	return line, nil
}

// maxLabels максимальное число подписей на оси времени
const maxLabels = 12

// LabelIndices возвращает индексы точек, подписи которых стоит показать.
// Ряд длиннее 12 точек прореживается равномерно по индексу, сам ряд при
// этом сохраняет полное разрешение.
func LabelIndices(n int) []int {
	if n <= 0 {
		return nil
	}
	if n <= maxLabels {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	indices := make([]int, maxLabels)
	for i := 0; i < maxLabels; i++ {
		indices[i] = int(float64(i) * float64(n-1) / float64(maxLabels-1))
	}
	return indices
}
