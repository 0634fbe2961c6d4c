package enrich

import (
	"encoding/json"
	"strings"
)

// flexList tolerates a field that models return as either a JSON array of
// strings or a single string.
type flexList []string

func (l *flexList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s != "" {
		*l = []string{s}
	}
	return nil
}

// String joins the entries the way the result columns expect.
func (l flexList) String() string {
	return strings.Join(l, ", ")
}

// flexTicket tolerates a ticket size returned as either a structured object
// or a bare string.
type flexTicket struct {
	Currency string `json:"Currency"`
	Range    string `json:"Range"`
	Typical  string `json:"Typical"`
	raw      string
}

func (t *flexTicket) UnmarshalJSON(data []byte) error {
	type ticketObj flexTicket
	var obj ticketObj
	if err := json.Unmarshal(data, &obj); err == nil {
		*t = flexTicket(obj)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t.raw = s
	return nil
}

// String renders "Range (Typical)" when both are present, otherwise
// whichever of them exists, otherwise the raw string form.
func (t flexTicket) String() string {
	if t.raw != "" {
		return t.raw
	}
	if t.Range != "" && t.Typical != "" {
		return t.Range + " (" + t.Typical + ")"
	}
	if t.Range != "" {
		return t.Range
	}
	return t.Typical
}
