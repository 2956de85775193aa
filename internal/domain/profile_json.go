package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SkillList decodes skills stored either as plain strings or as {id, name}
// objects written by the admin editor. Entries without a usable name are dropped.
type SkillList []string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	names, err := decodeNamedList(data)
	if err != nil {
		return err
	}
	*s = names
	return nil
}

// Education holds a free-text education summary. Documents may store it as a
// single string or as a list of strings / {name} objects, which are joined.
type Education string

func (e *Education) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*e = Education(strings.TrimSpace(value))
		return nil
	}

	names, err := decodeNamedList(trimmed)
	if err != nil {
		return err
	}
	*e = Education(strings.Join(names, ", "))
	return nil
}

func (e Education) String() string {
	return string(e)
}

type namedEntry struct {
	Name string `json:"name"`
}

func decodeNamedList(data []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw))
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err != nil {
			var entry namedEntry
			if err := json.Unmarshal(item, &entry); err != nil {
				continue
			}
			name = entry.Name
		}
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
