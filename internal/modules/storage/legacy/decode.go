// Package legacy imports a mongodump of the previous MongoDB deployment.
package legacy

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// decodeDocs splits a mongodump .bson file (concatenated documents) and
// decodes each document into T.
func decodeDocs[T any](payload []byte) ([]T, error) {
	out := make([]T, 0)
	cursor := 0
	for cursor < len(payload) {
		if cursor+4 > len(payload) {
			return nil, fmt.Errorf("invalid bson payload at offset %d", cursor)
		}
		docLen := int(int32(binary.LittleEndian.Uint32(payload[cursor : cursor+4])))
		if docLen <= 4 || cursor+docLen > len(payload) {
			return nil, fmt.Errorf("invalid bson document length %d at offset %d", docLen, cursor)
		}
		var doc T
		if err := bson.Unmarshal(payload[cursor:cursor+docLen], &doc); err != nil {
			return nil, fmt.Errorf("decode document at offset %d: %w", cursor, err)
		}
		out = append(out, doc)
		cursor += docLen
	}
	return out, nil
}

// normalizeBSONValue flattens driver types into plain Go values.
func normalizeBSONValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return nil
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(v.T), 0).UTC()
	case primitive.Decimal128:
		return v.String()
	case primitive.Binary:
		return string(v.Data)
	case primitive.A:
		out := make([]interface{}, 0, len(v))
		for _, item := range v {
			out = append(out, normalizeBSONValue(item))
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, item := range v {
			out = append(out, normalizeBSONValue(item))
		}
		return out
	case []byte:
		return string(v)
	default:
		return value
	}
}

// idString renders an ObjectID (or an id stored as a string) as hex.
func idString(value interface{}) string {
	switch v := normalizeBSONValue(value).(type) {
	case string:
		return strings.TrimSpace(v)
	default:
		return ""
	}
}

func idPtr(value interface{}) *string {
	if id := idString(value); id != "" {
		return &id
	}
	return nil
}

// stringList accepts an array or a single bare string; older article rows
// stored one category as a string.
func stringList(value interface{}) []string {
	switch v := normalizeBSONValue(value).(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return []string{}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}

// intValue reads the int32/int64/double a Number field may hold.
func intValue(value interface{}) int {
	switch v := value.(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
