package model_test

import (
	"sort"
	"testing"
	"time"

	"asset-vault/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_EncodeParse(t *testing.T) {
	at := time.Date(2025, 8, 23, 12, 0, 0, 123456789, time.FixedZone("MSK", 3*60*60))
	encoded := model.Cursor{At: at, UUID: "9b2f0c1e-0000-4000-8000-000000000001"}.Encode()

	assert.NotContains(t, encoded, "+")
	assert.NotContains(t, encoded, "|")

	cursor, err := model.ParseCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.True(t, at.Equal(cursor.At))
	assert.Equal(t, "9b2f0c1e-0000-4000-8000-000000000001", cursor.UUID)
}

func TestParseCursor_EmptyIsFirstPage(t *testing.T) {
	cursor, err := model.ParseCursor("")
	assert.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestParseCursor_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"не base64", "%%%"},
		{"без разделителя", model.Cursor{}.Encode()[:4]},
		{"старый формат времени", "2025-08-23T12:00:00Z"},
		{"пустой uuid", model.Cursor{At: time.Now()}.Encode()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.ParseCursor(tt.encoded)
			assert.ErrorIs(t, err, model.ErrInvalidCursor)
		})
	}
}

// Строки с одинаковым временем на границе страницы не теряются и не повторяются
func TestCursor_TiesAtPageBoundary(t *testing.T) {
	at := time.Date(2025, 8, 23, 12, 0, 0, 0, time.UTC)
	type row struct {
		at time.Time
		id string
	}
	rows := []row{
		{at, "a-1"}, {at, "a-2"}, {at, "a-3"},
		{at.Add(-time.Second), "a-0"}, {at.Add(time.Second), "a-4"},
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].at.Equal(rows[j].at) {
			return rows[i].at.After(rows[j].at)
		}
		return rows[i].id > rows[j].id
	})

	var seen []string
	var cursor *model.Cursor
	for {
		var page []row
		for _, r := range rows {
			if cursor != nil && cursor.Compare(r.at, r.id) >= 0 {
				continue
			}
			page = append(page, r)
			if len(page) == 2 {
				break
			}
		}
		if len(page) == 0 {
			break
		}
		for _, r := range page {
			seen = append(seen, r.id)
		}

		last := page[len(page)-1]
		next, err := model.ParseCursor(model.Cursor{At: last.at, UUID: last.id}.Encode())
		require.NoError(t, err)
		cursor = next
	}

	assert.Equal(t, []string{"a-4", "a-3", "a-2", "a-1", "a-0"}, seen)
}
