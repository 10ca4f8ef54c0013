package api

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
)

// Float is a JSON number that also accepts a numeric string such as "0.5",
// which form-driven clients commonly send for sampling parameters.
type Float float64

func (f *Float) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(string(bytes.TrimSpace([]byte(s))), 64)
		if err != nil {
			return &json.UnmarshalTypeError{Value: "string", Type: reflect.TypeOf(float64(0))}
		}
		*f = Float(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Ptr converts an optional Float to the *float64 the gateway expects.
func (f *Float) Ptr() *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}
