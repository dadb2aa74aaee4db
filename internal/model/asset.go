package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

type AssetType string

const (
	AssetImage    AssetType = "image"
	AssetVideo    AssetType = "video"
	AssetAudio    AssetType = "audio"
	AssetDocument AssetType = "document"
)

// ParseAssetType : допускает только закрытый набор типов
func ParseAssetType(s string) (AssetType, error) {
	switch t := AssetType(strings.ToLower(strings.TrimSpace(s))); t {
	case AssetImage, AssetVideo, AssetAudio, AssetDocument:
		return t, nil
	default:
		return "", fmt.Errorf("неизвестный тип ассета: %q", s)
	}
}

// AssetTypeFromMIME : тип по MIME, всё нераспознанное считается документом
func AssetTypeFromMIME(mime string) AssetType {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return AssetImage
	case strings.HasPrefix(mime, "video/"):
		return AssetVideo
	case strings.HasPrefix(mime, "audio/"):
		return AssetAudio
	default:
		return AssetDocument
	}
}

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityShared  Visibility = "shared"
	VisibilityPublic  Visibility = "public"
)

func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return VisibilityPrivate, nil
	case VisibilityPrivate, VisibilityShared, VisibilityPublic:
		return v, nil
	default:
		return "", fmt.Errorf("неизвестная видимость: %q", s)
	}
}

type Asset struct {
	UUID       string         `db:"uuid" json:"id"`
	OwnerUUID  string         `db:"owner_uuid" json:"owner_id"`
	Name       string         `db:"name" json:"name"`
	Type       AssetType      `db:"type" json:"type"`
	Size       string         `db:"size" json:"size"`
	SizeBytes  int64          `db:"size_bytes" json:"size_bytes"`
	MimeType   string         `db:"mime_type" json:"mime_type"`
	Tags       pq.StringArray `db:"tags" json:"tags"`
	StorageKey string         `db:"storage_key" json:"-"`
	Visibility Visibility     `db:"visibility" json:"visibility"`
	PinHash    *string        `db:"pin_hash" json:"-"`
	ShareToken *string        `db:"share_token" json:"share_token,omitempty"`
	Views      int64          `db:"views" json:"views"`
	Downloads  int64          `db:"downloads" json:"downloads"`
	UploadedAt time.Time      `db:"uploaded_at" json:"uploaded_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

func (a *Asset) HasPin() bool {
	return a.PinHash != nil && *a.PinHash != ""
}

func (a *Asset) HasShareToken() bool {
	return a.ShareToken != nil && *a.ShareToken != ""
}

// LinkAccessible : ассет можно открыть по ссылке (shared или public с выданным токеном)
func (a *Asset) LinkAccessible() bool {
	if !a.HasShareToken() {
		return false
	}
	return a.Visibility == VisibilityShared || a.Visibility == VisibilityPublic
}

// AssetFilter : параметры выборки ассетов владельца
type AssetFilter struct {
	Type   AssetType
	Tag    string
	Cursor string
	Limit  int
}

// AssetView : ассет вместе с вычисленной ссылкой на файл
type AssetView struct {
	Asset *Asset
	URL   string
}

// SharedView : то, что видит анонимный посетитель по ссылке
type SharedView struct {
	Asset       *Asset
	URL         string
	IsProtected bool
}
