// Package models содержит клиентские представления ресурсов контент-API.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID — числовой идентификатор ресурса.
// API и формы отдают его то числом, то строкой ("7"); на границе репозиториев
// обе формы приводятся к ID.
type ID int64

// ParseID разбирает строковое представление идентификатора.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("models: invalid id %q: %w", s, err)
	}

	return ID(n), nil
}

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		if s == "" {
			*id = 0
			return nil
		}

		v, err := ParseID(s)
		if err != nil {
			return err
		}

		*id = v
		return nil
	}

	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("models: invalid id %s: %w", b, err)
	}

	*id = ID(n)
	return nil
}
