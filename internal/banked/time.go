package banked

import (
	"encoding/json"
	"time"
)

// timeFormat is the API's date format: day-month-year, 24-hour clock, literal
// "UTC" suffix. Values carry no offset and are treated as UTC wall-clock time.
const timeFormat = "02-01-2006 15:04:05 UTC"

// APITime wraps time.Time with the API's textual date format. A nil *APITime
// field is omitted from request payloads; a zero APITime after decoding means
// the API sent nothing usable.
type APITime struct {
	time.Time
}

// MarshalJSON renders the timestamp in the API's format.
func (t APITime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(timeFormat))
}

// UnmarshalJSON parses the API's date format. Null, non-string and malformed
// values are dropped rather than failing the surrounding decode, leaving the
// zero time. The API has been observed sending dates that do not match its own
// documented format, so lax decoding here is deliberate.
func (t *APITime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	parsed, err := time.Parse(timeFormat, s)
	if err != nil {
		return nil
	}
	t.Time = parsed
	return nil
}
