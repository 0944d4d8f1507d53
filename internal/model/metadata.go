package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Metadata is the open key-value map stored alongside posts and tasks.
// It is persisted as JSONB and serialized as a plain JSON object.
type Metadata map[string]any

// Value implements driver.Valuer.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan metadata: unsupported type %T", src)
	}

	out := Metadata{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	*m = out
	return nil
}

// Clone returns a shallow copy; nil becomes an empty map.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Has reports whether key is present, regardless of its value.
func (m Metadata) Has(key string) bool {
	_, ok := m[key]
	return ok
}

var errNotNumber = errors.New("not a number")

// number coerces the numeric shapes that can arrive from JSON decoding,
// database scans or Go callers.
func number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	}
	return 0, errNotNumber
}

// scalarString renders a string or number metadata value.
func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, s != ""
	case json.Number:
		return s.String(), true
	}
	if n, err := number(v); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	return "", false
}

// PostMetadata is the typed view of a post's metadata for its post type.
type PostMetadata interface {
	postType() PostType
}

type TextMetadata struct{}

type ImageMetadata struct {
	FileSize int64
}

type VideoMetadata struct {
	Duration float64
}

func (TextMetadata) postType() PostType  { return PostTypeText }
func (ImageMetadata) postType() PostType { return PostTypeImage }
func (VideoMetadata) postType() PostType { return PostTypeVideo }

// TypeOf returns the post type a metadata variant belongs to.
func TypeOf(m PostMetadata) PostType {
	return m.postType()
}

// ParsePostMetadata checks the type-specific keys and returns the typed
// variant. The caller is expected to have checked the type already; an
// unknown type yields an invalid_type error.
func ParsePostMetadata(t PostType, md Metadata) (PostMetadata, error) {
	switch t {
	case PostTypeText:
		return TextMetadata{}, nil
	case PostTypeImage:
		raw, ok := md["file_size"]
		if !ok {
			return nil, NewMissingMetadata("file_size", "Image posts require 'file_size' in metadata")
		}
		n, err := number(raw)
		if err != nil || n < 0 || n != math.Trunc(n) || n >= math.MaxInt64 {
			return nil, NewInvalidMetadata("file_size", "'file_size' must be a non-negative integer")
		}
		return ImageMetadata{FileSize: int64(n)}, nil
	case PostTypeVideo:
		raw, ok := md["duration"]
		if !ok {
			return nil, NewMissingMetadata("duration", "Video posts require 'duration' in metadata")
		}
		n, err := number(raw)
		if err != nil || n < 0 {
			return nil, NewInvalidMetadata("duration", "'duration' must be a non-negative number")
		}
		return VideoMetadata{Duration: n}, nil
	}
	return nil, NewInvalidType("post", PostTypeNames())
}

// ApplyPost writes the parsed values of details back into m, so the stored
// metadata carries them in one form (file_size as an integer, duration as
// a float). Other keys are left alone.
func (m Metadata) ApplyPost(details PostMetadata) {
	switch d := details.(type) {
	case ImageMetadata:
		m["file_size"] = d.FileSize
	case VideoMetadata:
		m["duration"] = d.Duration
	}
}

// ApplyTask is the task counterpart of ApplyPost. priority_level and
// frequency are stored as strings.
func (m Metadata) ApplyTask(details TaskMetadata) {
	switch d := details.(type) {
	case PriorityMetadata:
		m["priority_level"] = d.Level
	case RecurringMetadata:
		m["frequency"] = d.Frequency
	}
}

// TaskMetadata is the typed view of a task's metadata for its task type.
type TaskMetadata interface {
	taskType() TaskType
}

type RegularMetadata struct{}

type PriorityMetadata struct {
	Level string
}

type RecurringMetadata struct {
	Frequency string
}

func (RegularMetadata) taskType() TaskType   { return TaskTypeRegular }
func (PriorityMetadata) taskType() TaskType  { return TaskTypePriority }
func (RecurringMetadata) taskType() TaskType { return TaskTypeRecurring }

// TaskTypeOf returns the task type a metadata variant belongs to.
func TaskTypeOf(m TaskMetadata) TaskType {
	return m.taskType()
}

// ParseTaskMetadata is the task counterpart of ParsePostMetadata.
func ParseTaskMetadata(t TaskType, md Metadata) (TaskMetadata, error) {
	switch t {
	case TaskTypeRegular:
		return RegularMetadata{}, nil
	case TaskTypePriority:
		raw, ok := md["priority_level"]
		if !ok {
			return nil, NewMissingMetadata("priority_level", "Priority tasks require 'priority_level' in metadata")
		}
		level, ok := scalarString(raw)
		if !ok {
			return nil, NewInvalidMetadata("priority_level", "'priority_level' must be a string or number")
		}
		return PriorityMetadata{Level: level}, nil
	case TaskTypeRecurring:
		raw, ok := md["frequency"]
		if !ok {
			return nil, NewMissingMetadata("frequency", "Recurring tasks require 'frequency' in metadata")
		}
		freq, ok := scalarString(raw)
		if !ok {
			return nil, NewInvalidMetadata("frequency", "'frequency' must be a string or number")
		}
		return RecurringMetadata{Frequency: freq}, nil
	}
	return nil, NewInvalidType("task", TaskTypeNames())
}
