package domain

// School is one row of the bundled schools dataset, projected for the map view.
// Numeric columns stay as the dataset's text.
type School struct {
	Rank                 string `json:"rank"`
	Name                 string `json:"name"`
	Type                 string `json:"type"`
	City                 string `json:"city"`
	Address              string `json:"address"`
	PupilsKS4            string `json:"pupilsKS4"`
	PupilsMeasured       string `json:"pupilsMeasured"`
	Progress8Score       string `json:"progress8Score"`
	Progress8Description string `json:"progress8Description"`
	EnteringEBacc        string `json:"enteringEBacc"`
	StayingInEducation   string `json:"stayingInEducation"`
	Grade5Plus           string `json:"grade5Plus"`
	Attainment8          string `json:"attainment8"`
	EBaccScore           string `json:"ebaccScore"`
	Lat                  string `json:"lat"`
	Lng                  string `json:"lng"`
}

// SchoolFilter selects schools. Type and City match "All" or a case-insensitive
// equal value, Name is a case-insensitive substring and the numeric bounds are
// inclusive.
type SchoolFilter struct {
	Type      string  `json:"type"`
	City      string  `json:"city"`
	Name      string  `json:"name"`
	PupilsMax int     `json:"pupilsMax"`
	Grade5Max float64 `json:"grade5Max"`
	RankMin   int     `json:"rankMin"`
	RankMax   int     `json:"rankMax"`
}

// Filter defaults
const (
	FilterAll        = "All"
	DefaultPupilsMax = 2000
	DefaultGrade5Max = 100
	DefaultRankMin   = 1
	DefaultRankMax   = 100
)

// DefaultSchoolFilter matches every school within the default bounds
func DefaultSchoolFilter() SchoolFilter {
	return SchoolFilter{
		Type:      FilterAll,
		City:      FilterAll,
		PupilsMax: DefaultPupilsMax,
		Grade5Max: DefaultGrade5Max,
		RankMin:   DefaultRankMin,
		RankMax:   DefaultRankMax,
	}
}
