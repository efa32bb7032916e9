package timecalc

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// HoursMinutes is an hour-meter reading in hours.minutes notation: the integer
// part is whole hours and the two fractional digits are minutes, so 1.30 means
// one hour thirty minutes. It is stored as hundredths (1.30 is 130) so that no
// value ever passes through binary floating point.
type HoursMinutes int64

// ErrInvalidTimeFormat is returned when a value cannot be read as hours.minutes,
// most commonly because its minute digits exceed 59.
var ErrInvalidTimeFormat = errors.New("invalid hours.minutes value")

// MinutesExceededMessage is the user-facing message for minute digits above 59.
const MinutesExceededMessage = "Minutes cannot exceed 59 (use format: hours.minutes)"

// FormatError describes a rejected hours.minutes value. It unwraps to
// ErrInvalidTimeFormat.
type FormatError struct {
	Input string
	Msg   string
}

func (e *FormatError) Error() string {
	if e.Input == "" {
		return e.Msg
	}
	return fmt.Sprintf("%q: %s", e.Input, e.Msg)
}

func (e *FormatError) Unwrap() error { return ErrInvalidTimeFormat }

// New builds a value from its hour and minute digits without validating them.
func New(hours, minutes int) HoursMinutes {
	return HoursMinutes(int64(hours)*100 + int64(minutes))
}

// Hours returns the whole-hour part.
func (hm HoursMinutes) Hours() int64 { return int64(hm) / 100 }

// Minutes returns the two minute digits, which may exceed 59 for invalid values.
func (hm HoursMinutes) Minutes() int64 { return int64(hm) % 100 }

// String renders the canonical form, e.g. "1.30".
func (hm HoursMinutes) String() string {
	if hm < 0 {
		return "-" + (-hm).String()
	}
	return fmt.Sprintf("%d.%02d", hm.Hours(), hm.Minutes())
}

// Parse reads an hours.minutes value from text. The fractional digits are read
// left to right: a single digit is padded ("1.3" is 1h30m) and a third digit
// rounds the minute count half-up. The rounded minutes must not exceed 59.
func Parse(s string) (HoursMinutes, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return 0, &FormatError{Msg: "value is empty"}
	}
	if strings.HasPrefix(s, "-") {
		return 0, &FormatError{Input: s, Msg: "value must not be negative"}
	}

	intPart, frac, _ := strings.Cut(s, ".")
	if intPart == "" && frac == "" {
		return 0, &FormatError{Input: s, Msg: "not a number in hours.minutes format"}
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || !isDigits(frac) {
		return 0, &FormatError{Input: s, Msg: "not a number in hours.minutes format"}
	}

	hours, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || hours > math.MaxInt64/100-1 {
		return 0, &FormatError{Input: s, Msg: "hours out of range"}
	}

	minutes := minuteDigits(frac)
	if minutes > 59 {
		return 0, &FormatError{Input: s, Msg: MinutesExceededMessage}
	}
	return HoursMinutes(hours*100 + minutes), nil
}

// MustParse is Parse for constants and tests; it panics on invalid input.
func MustParse(s string) HoursMinutes {
	hm, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return hm
}

// FromFloat converts a float reading via its shortest decimal text, so 1.1 is
// read as the digits "1.1" (1h10m) rather than 1.100000000000000088.
func FromFloat(f float64) (HoursMinutes, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &FormatError{Msg: "value is not a finite number"}
	}
	return Parse(strconv.FormatFloat(f, 'f', -1, 64))
}

// minuteDigits extracts the first two fractional digits as a minute count.
func minuteDigits(frac string) int64 {
	two := (frac + "00")[:2]
	m := int64(two[0]-'0')*10 + int64(two[1]-'0')
	if len(frac) > 2 && frac[2] >= '5' {
		m++
	}
	return m
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// DecodeToMinutes converts a reading into a total number of minutes.
func DecodeToMinutes(hm HoursMinutes) (int, error) {
	if hm < 0 {
		return 0, &FormatError{Input: hm.String(), Msg: "value must not be negative"}
	}
	if hm.Minutes() > 59 {
		return 0, &FormatError{Input: hm.String(), Msg: MinutesExceededMessage}
	}
	return int(hm.Hours()*60 + hm.Minutes()), nil
}

// EncodeFromMinutes converts a minute count back to hours.minutes.
// 90 becomes 1.30.
func EncodeFromMinutes(totalMinutes int) HoursMinutes {
	if totalMinutes < 0 {
		return -EncodeFromMinutes(-totalMinutes)
	}
	return New(totalMinutes/60, totalMinutes%60)
}

// Sum adds readings through their minute counts. An empty input sums to 0.
func Sum(values ...HoursMinutes) (HoursMinutes, error) {
	total := 0
	for _, v := range values {
		m, err := DecodeToMinutes(v)
		if err != nil {
			return 0, err
		}
		total += m
	}
	return EncodeFromMinutes(total), nil
}

// Validate reports whether v is acceptable. A nil v means "not provided yet"
// and is valid.
func Validate(v *HoursMinutes) error {
	if v == nil {
		return nil
	}
	_, err := DecodeToMinutes(*v)
	return err
}

// ValidateInput is Validate for raw field text. Blank input is valid.
func ValidateInput(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := Parse(s)
	return err
}

// Message returns the human-readable part of a validation error, or "" for nil.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.Msg
	}
	return err.Error()
}

// MarshalJSON writes the value as a JSON number with two decimals.
func (hm HoursMinutes) MarshalJSON() ([]byte, error) {
	return []byte(hm.String()), nil
}

// UnmarshalJSON accepts a JSON number or string and reads its digits as text.
func (hm *HoursMinutes) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*hm = v
	return nil
}

// Value stores the canonical text form.
func (hm HoursMinutes) Value() (driver.Value, error) {
	return hm.String(), nil
}

// Scan reads a value written by Value, or a numeric column.
func (hm *HoursMinutes) Scan(src any) error {
	var (
		v   HoursMinutes
		err error
	)
	switch s := src.(type) {
	case string:
		v, err = Parse(s)
	case []byte:
		v, err = Parse(string(s))
	case int64:
		v, err = Parse(strconv.FormatInt(s, 10))
	case float64:
		v, err = FromFloat(s)
	case nil:
		v = 0
	default:
		return fmt.Errorf("cannot scan %T into HoursMinutes", src)
	}
	if err != nil {
		return err
	}
	*hm = v
	return nil
}
