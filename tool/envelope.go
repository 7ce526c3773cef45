package tool

import "time"

// Payload is the loosely typed input handed to a tool.
type Payload = map[string]any

// Meta carries envelope metadata. Time is always set; Error and Count are
// optional.
type Meta struct {
	Time  time.Time `json:"t"`
	Error string    `json:"error,omitempty"`
	Count *int      `json:"count,omitempty"`
}

// Envelope is the uniform result of every tool invocation.
type Envelope struct {
	Tool string `json:"tool"`
	OK   bool   `json:"ok"`
	Data any    `json:"data"`
	Meta Meta   `json:"meta"`
}

// Success builds a successful envelope carrying data.
func Success(data any) Envelope {
	return Envelope{OK: true, Data: data}
}

// Failure builds a failed envelope carrying data and an error description in
// meta.error. Pass an empty msg when the failure is described inside data.
func Failure(data any, msg string) Envelope {
	return Envelope{OK: false, Data: data, Meta: Meta{Error: msg}}
}

// WithCount returns a copy of e with meta.count set to n.
func (e Envelope) WithCount(n int) Envelope {
	e.Meta.Count = &n
	return e
}

// ErrorMessage returns the most specific failure description carried by the
// envelope: meta.error, else data.error when data is a map, else "".
func (e Envelope) ErrorMessage() string {
	if e.Meta.Error != "" {
		return e.Meta.Error
	}
	switch d := e.Data.(type) {
	case map[string]any:
		if s, ok := d["error"].(string); ok {
			return s
		}
	case map[string]string:
		return d["error"]
	}
	return ""
}

func stamp(e Envelope, name string, now time.Time) Envelope {
	e.Tool = name
	e.Meta.Time = now
	return e
}
