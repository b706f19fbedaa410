package dataprocessing

import (
	"regexp"
	"strings"
)

// builtInNumFmt maps the ECMA-376 reserved number format ids to their codes
var builtInNumFmt = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "hh:mm",
	21: "hh:mm:ss",
	22: "m/d/yy hh:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00 ;(#,##0.00)",
	40: "#,##0.00 ;[Red](#,##0.00)",
	41: `_(* #,##0_);_(* \(#,##0\);_(* "-"_);_(@_)`,
	42: `_("$"* #,##0_);_("$"* \(#,##0\);_("$"* "-"_);_(@_)`,
	43: `_(* #,##0.00_);_(* \(#,##0.00\);_(* "-"??_);_(@_)`,
	44: `_("$"* #,##0.00_);_("$"* \(#,##0.00\);_("$"* "-"??_);_(@_)`,
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

// builtInDateFmt lists reserved ids that are dates even without a code
// (27-36 and 50-58 are locale specific date formats).
func builtInDateFmt(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 27 && id <= 36) || (id >= 45 && id <= 47) || (id >= 50 && id <= 58)
}

// BuiltInFormatCode returns the code of a reserved number format id
func BuiltInFormatCode(id int) (string, bool) {
	code, ok := builtInNumFmt[id]
	return code, ok
}

// IsPercentFormat reports whether a display format shows values as percent
func IsPercentFormat(code string) bool {
	return strings.Contains(code, "%")
}

var (
	quotedText   = regexp.MustCompile(`"[^"]*"`)
	escapedChar  = regexp.MustCompile(`\\.`)
	elapsedTime  = regexp.MustCompile(`\[(h+|m+|s+)\]`)
	bracketBlock = regexp.MustCompile(`\[[^\]]*\]`)
	fractionSecs = regexp.MustCompile(`\.0+`)
)

// IsDateFormat reports whether numbers shown with this format are dates.
// id is the number format id, code its format string (possibly empty).
func IsDateFormat(id int, code string) bool {
	if builtInDateFmt(id) {
		return true
	}
	if code == "" {
		return false
	}

	// only the positive section decides
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}

	code = quotedText.ReplaceAllString(code, "")
	code = escapedChar.ReplaceAllString(code, "")
	code = elapsedTime.ReplaceAllString(code, "$1")
	code = bracketBlock.ReplaceAllString(code, "")
	code = fractionSecs.ReplaceAllString(code, "")
	code = strings.ToLower(code)

	if strings.ContainsAny(code, "#?0@") {
		return false
	}
	return strings.ContainsAny(code, "ymdhs")
}
