package model

import (
	"fmt"

	"github.com/valyala/fastjson"
)

var parsers fastjson.ParserPool

// ParseEvents decodes an ingestion request body holding either a single log
// object or an array of them. It returns the decoded events and whether the
// body was an array. No validation happens here; callers run Validate or
// ValidateBatch on the result.
func ParseEvents(body []byte) ([]LogEvent, bool, error) {
	p := parsers.Get()
	defer parsers.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return nil, false, fmt.Errorf("invalid JSON: %w", err)
	}

	if v.Type() == fastjson.TypeArray {
		arr, _ := v.Array()
		events := make([]LogEvent, 0, len(arr))
		for _, item := range arr {
			events = append(events, eventFromValue(item))
		}
		return events, true, nil
	}
	return []LogEvent{eventFromValue(v)}, false, nil
}

func eventFromValue(v *fastjson.Value) LogEvent {
	e := LogEvent{
		Level:      Level(v.GetStringBytes("level")),
		Message:    string(v.GetStringBytes("message")),
		Timestamp:  string(v.GetStringBytes("timestamp")),
		ResourceID: string(v.GetStringBytes("resourceId")),
		TraceID:    string(v.GetStringBytes("traceId")),
		SpanID:     string(v.GetStringBytes("spanId")),
		Commit:     string(v.GetStringBytes("commit")),
	}
	if meta := v.GetObject("metadata"); meta != nil {
		e.Metadata = map[string]interface{}{}
		meta.Visit(func(key []byte, val *fastjson.Value) {
			e.Metadata[string(key)] = anyFromValue(val)
		})
	}
	return e
}

func anyFromValue(v *fastjson.Value) interface{} {
	switch v.Type() {
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return string(b)
	case fastjson.TypeNumber:
		f, _ := v.Float64()
		return f
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeNull:
		return nil
	case fastjson.TypeArray:
		arr, _ := v.Array()
		out := make([]interface{}, 0, len(arr))
		for _, item := range arr {
			out = append(out, anyFromValue(item))
		}
		return out
	case fastjson.TypeObject:
		obj, _ := v.Object()
		out := map[string]interface{}{}
		obj.Visit(func(key []byte, val *fastjson.Value) {
			out[string(key)] = anyFromValue(val)
		})
		return out
	}
	return nil
}
