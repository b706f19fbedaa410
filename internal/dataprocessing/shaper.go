package dataprocessing

import (
	"math"
	"strconv"
	"strings"

	"chartapp/pkg/contracts/domain"
)

// ShapeChart turns records into a chart config. The first key of the first
// record is the category axis and each remaining key of that record becomes
// one series, in order. Later records are read through the first record's
// keys: a missing category is "" and a missing or non-numeric series value
// is 0.
func ShapeChart(records []Record) domain.ChartConfig {
	cfg := domain.EmptyChartConfig()
	if len(records) == 0 || records[0].Len() == 0 {
		return cfg
	}

	keys := records[0].Keys()
	categoryKey, seriesKeys := keys[0], keys[1:]

	cfg.Categories = make([]string, 0, len(records))
	for _, rec := range records {
		v, _ := rec.Get(categoryKey)
		cfg.Categories = append(cfg.Categories, v.String())
	}

	cfg.Series = make([]domain.Series, 0, len(seriesKeys))
	for _, key := range seriesKeys {
		data := make([]float64, 0, len(records))
		for _, rec := range records {
			v, _ := rec.Get(key)
			data = append(data, CoerceNumber(v))
		}
		cfg.Series = append(cfg.Series, domain.Series{Name: key, Data: data})
	}

	return cfg
}

// CoerceNumber reads v as a number: numbers pass through, text is parsed
// after trimming and everything else, including NaN and infinities, is 0.
func CoerceNumber(v Value) float64 {
	var f float64
	switch v.Kind() {
	case KindNumber:
		f, _ = v.Number()
	case KindString:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
