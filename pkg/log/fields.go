package log

// Field is a single structured key/value attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F constructs a Field from an arbitrary key/value pair.
func F(key string, value interface{}) Field { return Field{Key: key, Value: value} }

// Str constructs a string Field.
func Str(key, value string) Field { return Field{Key: key, Value: value} }

// Int constructs an int Field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Int64 constructs an int64 Field.
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Err constructs the conventional "error" Field. A nil error yields an empty value.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: ""}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Component tags log entries with the emitting component's name.
func Component(name string) Field { return Field{Key: "component", Value: name} }
