package chatui

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexString accepts a JSON string, number or boolean and keeps its text form.
// Card ids and page labels arrive as either depending on the document loader.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(strings.Trim(string(b), `"`))
	return nil
}

func (f FlexString) String() string {
	return string(f)
}
