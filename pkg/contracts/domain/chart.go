package domain

// ChartConfig is the categories/series shape consumed by the charting frontend
type ChartConfig struct {
	Categories []string `json:"categories"`
	Series     []Series `json:"series"`
}

// Series is one named numeric column of a chart
type Series struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

// ChartDefinition is a saved chart. ConfigJSON is stored verbatim and never
// parsed by the server.
type ChartDefinition struct {
	ID         int64  `json:"id" db:"id"`
	Name       string `json:"name" db:"name" validate:"required"`
	ConfigJSON string `json:"configJson" db:"config_json" validate:"required"`
}

// EmptyChartConfig returns a config with empty, non-nil slices
func EmptyChartConfig() ChartConfig {
	return ChartConfig{Categories: []string{}, Series: []Series{}}
}
