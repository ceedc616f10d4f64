package bb2

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// The decoder turns each XML element into a JSON value. Repeated elements
// become arrays, a lone element becomes an object and an empty element
// becomes the empty string, so most collection fields need normalizing.

func isEmpty(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || string(data) == "null" || string(data) == `""`
}

// List is a field that may be encoded as a single value or as an array of
// values. A missing or empty field decodes to an empty list.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(data []byte) error {
	*l = nil
	if isEmpty(data) {
		return nil
	}
	data = bytes.TrimSpace(data)
	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	*l = List[T]{item}
	return nil
}

// Key names the wrapper element of a keyed list.
type Key interface {
	Key() string
}

// Keyed is a list nested one level below a named wrapper element, e.g.
// {"ListModifiers": {"DiceModifier": [...]}}. An empty wrapper decodes to an
// empty list.
type Keyed[K Key, T any] struct {
	Items []T
}

func (k *Keyed[K, T]) UnmarshalJSON(data []byte) error {
	k.Items = nil
	if isEmpty(data) {
		return nil
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	var key K
	raw, ok := wrapper[key.Key()]
	if !ok {
		return nil
	}
	var items List[T]
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("%s: %w", key.Key(), err)
	}
	k.Items = items
	return nil
}

func (k Keyed[K, T]) MarshalJSON() ([]byte, error) {
	var key K
	return json.Marshal(map[string][]T{key.Key(): k.Items})
}

type PlayerStateKey struct{}

func (PlayerStateKey) Key() string { return "PlayerState" }

type CellKey struct{}

func (CellKey) Key() string { return "Cell" }

type ResultKey struct{}

func (ResultKey) Key() string { return "BoardActionResult" }

type ModifierKey struct{}

func (ModifierKey) Key() string { return "DiceModifier" }

type SkillInfoKey struct{}

func (SkillInfoKey) Key() string { return "SkillInfo" }

type MessageKey struct{}

func (MessageKey) Key() string { return "StringMessage" }

type TeamStateKey struct{}

func (TeamStateKey) Key() string { return "TeamState" }

// Numbers is a parenthesized, comma separated list of integers such as
// "(1,4)". A bare number decodes to a single element list.
type Numbers []int

func (n *Numbers) UnmarshalJSON(data []byte) error {
	*n = nil
	if isEmpty(data) {
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*n = Numbers{int(v)}
		return nil
	case string:
		parsed, err := ParseNumbers(v)
		if err != nil {
			return err
		}
		*n = parsed
		return nil
	default:
		return fmt.Errorf("unexpected number list %s", string(data))
	}
}

// ParseNumbers parses a string of the form "(1,2,3)".
func ParseNumbers(s string) (Numbers, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make(Numbers, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("error parsing number list %q: %w", s, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Text is a string field that the decoder may have turned into a number,
// e.g. a team called "1312".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	*t = ""
	if isEmpty(data) {
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*t = Text(v)
	case float64:
		*t = Text(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		*t = Text(strconv.FormatBool(v))
	default:
		return fmt.Errorf("unexpected text %s", string(data))
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Field is an optional payload. Present reports whether the key appeared in
// the step at all; Value is nil when it appeared empty.
type Field[T any] struct {
	Present bool
	Value   *T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	f.Value = nil
	if isEmpty(data) {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		if f.Present {
			return []byte(`""`), nil
		}
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Set builds a present field, mostly for tests and synthetic steps.
func Set[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: &v}
}

var colourTag = regexp.MustCompile(`\[colour='[0-9a-fA-F]*'\]`)

// CleanName strips colour markup and decodes HTML entities in a display
// name.
func CleanName(s string) string {
	return strings.TrimSpace(html.UnescapeString(colourTag.ReplaceAllString(s, "")))
}
