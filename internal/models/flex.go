package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexString is a string that can be unmarshaled from a JSON string, number,
// boolean or null. Legacy ad rows store price, age, weight and the
// vaccination/delivery flags in whichever shape the posting client sent them.
type FlexString string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FlexString(strconv.FormatBool(b))
		return nil
	}

	if string(data) == "null" {
		*f = ""
		return nil
	}

	return fmt.Errorf("FlexString: unexpected type, expected string, number, boolean or null")
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// String converts FlexString back to string.
func (f FlexString) String() string {
	return string(f)
}

// Bool reports whether the value reads as true ("true", "yes", "1").
func (f FlexString) Bool() bool {
	switch string(f) {
	case "true", "yes", "1":
		return true
	}
	return false
}
