package schools

import (
	"net/url"
	"strconv"
	"strings"

	"chartapp/internal/dataprocessing"
	"chartapp/pkg/contracts/domain"
)

// Dataset column names
const (
	ColRank                 = "Rank"
	ColName                 = "School Name"
	ColType                 = "Type"
	ColCity                 = "City"
	ColAddress              = "Address"
	ColPupilsKS4            = "Pupils KS4"
	ColPupilsMeasured       = "Pupils Measured"
	ColProgress8Score       = "Progress 8 Score"
	ColProgress8Description = "Progress 8 Description"
	ColEnteringEBacc        = "Entering EBacc"
	ColStayingInEducation   = "Staying in Education/Employment"
	ColGrade5Plus           = "Grade 5+ English & Maths (%)"
	ColAttainment8          = "Attainment 8"
	ColEBaccScore           = "EBacc Avg Point Score"
	ColLatitude             = "Latitude"
	ColLongitude            = "Longitude"
)

// ParseIntParam parses an integer query value. One trailing period is
// ignored ("50." is 50); anything unparsable yields def.
func ParseIntParam(s string, def int) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// param returns the first non-empty value among names
func param(q url.Values, names ...string) (string, bool) {
	for _, name := range names {
		if v := q.Get(name); v != "" {
			return v, true
		}
	}
	return "", false
}

// ParseFilter reads filter parameters from a query. Each numeric bound is
// also accepted under its legacy "...Str" name.
func ParseFilter(q url.Values) domain.SchoolFilter {
	f := domain.DefaultSchoolFilter()

	if v, ok := param(q, "type"); ok {
		f.Type = v
	}
	if v, ok := param(q, "city"); ok {
		f.City = v
	}
	if v, ok := param(q, "name"); ok {
		f.Name = v
	}
	if v, ok := param(q, "pupilsMax", "pupilsMaxStr"); ok {
		f.PupilsMax = ParseIntParam(v, domain.DefaultPupilsMax)
	}
	if v, ok := param(q, "grade5Max", "grade5MaxStr"); ok {
		f.Grade5Max = float64(ParseIntParam(v, domain.DefaultGrade5Max))
	}
	if v, ok := param(q, "rankMin", "rankMinStr"); ok {
		f.RankMin = ParseIntParam(v, domain.DefaultRankMin)
	}
	if v, ok := param(q, "rankMax", "rankMaxStr"); ok {
		f.RankMax = ParseIntParam(v, domain.DefaultRankMax)
	}

	return f
}

func field(row dataprocessing.Record, col string) string {
	v, _ := row.Get(col)
	return v.String()
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// Matches reports whether a dataset row passes the filter. Rows without a
// latitude or longitude never match.
func Matches(row dataprocessing.Record, f domain.SchoolFilter) bool {
	if field(row, ColLatitude) == "" || field(row, ColLongitude) == "" {
		return false
	}

	if f.Type != domain.FilterAll && !strings.EqualFold(field(row, ColType), f.Type) {
		return false
	}
	if f.City != domain.FilterAll && !strings.EqualFold(field(row, ColCity), f.City) {
		return false
	}
	if !strings.Contains(strings.ToLower(field(row, ColName)), strings.ToLower(f.Name)) {
		return false
	}

	pupils := parseInt(field(row, ColPupilsKS4))
	grade5 := parseFloat(field(row, ColGrade5Plus))
	rank := parseInt(field(row, ColRank))

	return pupils <= f.PupilsMax &&
		grade5 <= f.Grade5Max &&
		rank >= f.RankMin && rank <= f.RankMax
}

// Project maps a dataset row onto the response shape
func Project(row dataprocessing.Record) domain.School {
	return domain.School{
		Rank:                 field(row, ColRank),
		Name:                 field(row, ColName),
		Type:                 field(row, ColType),
		City:                 field(row, ColCity),
		Address:              field(row, ColAddress),
		PupilsKS4:            field(row, ColPupilsKS4),
		PupilsMeasured:       field(row, ColPupilsMeasured),
		Progress8Score:       field(row, ColProgress8Score),
		Progress8Description: field(row, ColProgress8Description),
		EnteringEBacc:        field(row, ColEnteringEBacc),
		StayingInEducation:   field(row, ColStayingInEducation),
		Grade5Plus:           field(row, ColGrade5Plus),
		Attainment8:          field(row, ColAttainment8),
		EBaccScore:           field(row, ColEBaccScore),
		Lat:                  field(row, ColLatitude),
		Lng:                  field(row, ColLongitude),
	}
}

// Filter returns the matching rows in dataset order
func Filter(rows []dataprocessing.Record, f domain.SchoolFilter) []domain.School {
	out := []domain.School{}
	for _, row := range rows {
		if Matches(row, f) {
			out = append(out, Project(row))
		}
	}
	return out
}
