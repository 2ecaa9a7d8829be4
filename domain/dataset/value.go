package dataset

import (
	"strconv"
	"time"
)

// Kind defines the storage type of a value or the inferred type of a column
type Kind int

const (
	KindMissing Kind = iota
	KindNumber
	KindText
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindTime:
		return "time"
	}
	return "invalid"
}

// MarshalText lets kinds appear by name in JSON payloads
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Value is a single typed cell
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Time time.Time
}

// Missing creates a missing value
func Missing() Value {
	return Value{Kind: KindMissing}
}

// Number creates a numeric value
func Number(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// Text creates a text value; empty text is missing
func Text(s string) Value {
	if s == "" {
		return Missing()
	}
	return Value{Kind: KindText, Str: s}
}

// Timestamp creates a time value
func Timestamp(t time.Time) Value {
	return Value{Kind: KindTime, Time: t}
}

// IsMissing reports whether the cell holds no value
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing
}

// Float returns the numeric content of the value. Text that parses as a number
// counts, so typed sources that hand back numeric strings still aggregate.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindText:
		if f, ok := ParseNumber(v.Str); ok {
			return f, true
		}
	}
	return 0, false
}

// AsTime returns the value as a timestamp, parsing text when needed
func (v Value) AsTime() (time.Time, bool) {
	switch v.Kind {
	case KindTime:
		return v.Time, true
	case KindText:
		return ParseTime(v.Str)
	}
	return time.Time{}, false
}

// Key is a kind-tagged canonical form; two values are equal iff keys are equal
func (v Value) Key() string {
	switch v.Kind {
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindText:
		return "s:" + v.Str
	case KindTime:
		return "t:" + v.Time.UTC().Format(time.RFC3339Nano)
	}
	return "m:"
}

// String returns the display form of the value
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return v.Str
	case KindTime:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 && v.Time.Nanosecond() == 0 {
			return v.Time.Format("2006-01-02")
		}
		return v.Time.Format("2006-01-02 15:04:05")
	}
	return ""
}

// Interface returns the value as a plain Go value for encoding
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindText, KindTime:
		return v.String()
	}
	return nil
}
