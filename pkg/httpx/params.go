package httpx

import (
	"cmp"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Clamp — ограничение значения v в диапазоне [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParsePage — номер страницы (?page=N, с 1). Отсутствующее, нечисловое или < 1 значение → 1.
func ParsePage(c *gin.Context) int {
	v, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || v < 1 {
		return 1
	}
	return v
}

// ParseFloat — обязательный числовой query-параметр; ok=false, если его нет или он не число.
func ParseFloat(c *gin.Context, name string) (float64, bool) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseRadius — радиус поиска в метрах с дефолтом и ограничением сверху.
func ParseRadius(c *gin.Context, def, maxRadius float64) float64 {
	v, ok := ParseFloat(c, "radius")
	if !ok || v <= 0 {
		return def
	}
	return Clamp(v, 1, maxRadius)
}
