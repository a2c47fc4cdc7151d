package sandbox

import (
	"encoding/json"
	"reflect"
)

// Equal compares two values by their JSON form. Object key order is ignored,
// types are not: 1 and "1" differ. Values that cannot be encoded are never equal.
func Equal(actual, expected any) bool {
	a, err := canonical(actual)
	if err != nil {
		return false
	}
	b, err := canonical(expected)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func canonical(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decodeJSON(string(raw))
}

func decodeJSON(s string) (any, error) {
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}
