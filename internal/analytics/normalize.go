package analytics

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	ColStore = "Store"
	ColDate  = "Date"

	dateLayoutISO = "2006-01-02"
	dateLayoutUS  = "01/02/2006"
)

// Category labels form a closed set; Categorize only ever returns one of
// these.
const (
	CategoryInHouse    = "In-House"
	CategoryFirstParty = "1P"
	CategoryDoorDash   = "DD"
	CategoryGrubHub    = "GH"
	CategoryUberEats   = "UB"
	CategoryCatering   = "Catering"
	CategoryOthers     = "Others"
)

var Categories = []string{
	CategoryInHouse,
	CategoryFirstParty,
	CategoryDoorDash,
	CategoryGrubHub,
	CategoryUberEats,
	CategoryCatering,
	CategoryOthers,
}

type DateFormatError struct {
	Value string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("unrecognized date %q: expected YYYY-MM-DD or MM/DD/YYYY", e.Value)
}

var storeCodePrefix = regexp.MustCompile(`^\d+:\s*`)

// CleanStoreName strips the "NNNN: " store-code prefix POS exports carry.
func CleanStoreName(name string) string {
	return storeCodePrefix.ReplaceAllString(strings.TrimSpace(name), "")
}

// ParseDate accepts time.Time values or strings in the two supported
// layouts; anything else is a DateFormatError.
func ParseDate(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		if d, err := time.Parse(dateLayoutISO, s); err == nil {
			return d, nil
		}
		if d, err := time.Parse(dateLayoutUS, s); err == nil {
			return d, nil
		}
		return time.Time{}, &DateFormatError{Value: s}
	default:
		return time.Time{}, &DateFormatError{Value: Str(v)}
	}
}

var moneyCleaner = strings.NewReplacer("$", "", ",", "", " ", "")

// ParseMoney coerces currency strings ("$1,234.50", "(45.00)") to float64.
// Unparseable values read as 0.
func ParseMoney(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case string:
		s := moneyCleaner.Replace(strings.TrimSpace(x))
		if s == "" {
			return 0
		}
		neg := false
		if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
			neg = true
			s = s[1 : len(s)-1]
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		if neg {
			return -f
		}
		return f
	default:
		return Float(v)
	}
}

// Normalize returns a cleaned copy of t: excluded (identifier) columns are
// coerced to strings with missing values filled as "", every other column
// is coerced to float64 with missing values filled as 0, store names lose
// their code prefix and the Date column is parsed into time.Time.
func Normalize(t Table, excluded []string) (Table, error) {
	out := t.Copy()
	ex := make(map[string]struct{}, len(excluded))
	for _, c := range excluded {
		ex[c] = struct{}{}
	}
	for _, r := range out.Rows {
		for _, c := range out.Columns {
			switch {
			case c == ColDate:
				d, err := ParseDate(r[c])
				if err != nil {
					return Table{}, err
				}
				r[c] = d
			case c == ColStore:
				r[c] = CleanStoreName(Str(r[c]))
			default:
				if _, skip := ex[c]; skip {
					r[c] = Str(r[c])
				} else {
					r[c] = Float(r[c])
				}
			}
		}
	}
	return out, nil
}

// WithDateParts derives Day, Week, Month, Quarter and Year columns from the
// named date column on a copy of t.
func WithDateParts(t Table, dateColumn string) (Table, error) {
	out := t.Copy()
	for _, c := range []string{"Day", "Week", "Month", "Quarter", "Year"} {
		if !out.HasColumn(c) {
			out.Columns = append(out.Columns, c)
		}
	}
	for _, r := range out.Rows {
		d, err := ParseDate(r[dateColumn])
		if err != nil {
			return Table{}, err
		}
		r[dateColumn] = d
		_, week := d.ISOWeek()
		r["Day"] = d.Weekday().String()
		r["Week"] = week
		r["Month"] = int(d.Month())
		r["Quarter"] = (int(d.Month())-1)/3 + 1
		r["Year"] = d.Year()
	}
	return out, nil
}

// Categorize maps a raw dining-option label onto the closed category set.
func Categorize(diningOption string) string {
	s := strings.ToLower(diningOption)
	switch {
	case strings.Contains(s, "cater"):
		return CategoryCatering
	case strings.Contains(s, "doordash"):
		return CategoryDoorDash
	case strings.Contains(s, "grubhub"):
		return CategoryGrubHub
	case strings.Contains(s, "uber"):
		return CategoryUberEats
	default:
		return CategoryInHouse
	}
}
