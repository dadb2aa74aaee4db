package model

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

var ErrInvalidCursor = errors.New("неверный формат курсора")

// Cursor : позиция в выдаче, упорядоченной по паре (время, uuid).
// Одного времени недостаточно: строки с одинаковым временем на границе страницы терялись бы.
type Cursor struct {
	At   time.Time
	UUID string
}

// Encode : непрозрачная строка для next_cursor
func (c Cursor) Encode() string {
	raw := c.At.UTC().Format(time.RFC3339Nano) + "|" + c.UUID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseCursor : пустая строка означает первую страницу (nil, nil)
func ParseCursor(encoded string) (*Cursor, error) {
	if encoded == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	at, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return nil, ErrInvalidCursor
	}
	parsed, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	return &Cursor{At: parsed, UUID: id}, nil
}

// Compare : -1, 0 или 1 в зависимости от положения (at, id) относительно курсора
func (c Cursor) Compare(at time.Time, id string) int {
	switch {
	case at.Before(c.At):
		return -1
	case at.After(c.At):
		return 1
	}
	return strings.Compare(id, c.UUID)
}
