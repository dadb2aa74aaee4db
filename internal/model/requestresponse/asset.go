package requestresponse

import (
	"time"

	"asset-vault/internal/model"
)

// AssetResponse : ассет для JSON-ответа владельцу; хэш PIN никогда не отдаётся, только hasPin
type AssetResponse struct {
	UUID       string   `json:"id" example:"1f0c3c52-6a4e-4b53-9f0a-8f1c2d3e4f50"`
	Name       string   `json:"name" example:"photo.jpg"`
	Type       string   `json:"type" example:"image"`
	Size       string   `json:"size" example:"1.2 MB"`
	SizeBytes  int64    `json:"sizeBytes" example:"1200000"`
	MimeType   string   `json:"mimeType" example:"image/jpeg"`
	UploadedAt string   `json:"uploadedAt" example:"2025-08-23T12:34:56Z"`
	Tags       []string `json:"tags" example:"travel,2025"`
	URL        string   `json:"url,omitempty"`
	Visibility string   `json:"visibility" example:"private"`
	HasPin     bool     `json:"hasPin" example:"true"`
	ShareToken string   `json:"shareToken,omitempty"`
	Views      int64    `json:"views" example:"0"`
	Downloads  int64    `json:"downloads" example:"0"`
}

// AssetResponseFromModel : конвертирует model.Asset в AssetResponse
func AssetResponseFromModel(asset *model.Asset, url string) AssetResponse {
	tags := []string(asset.Tags)
	if tags == nil {
		tags = []string{}
	}

	resp := AssetResponse{
		UUID:       asset.UUID,
		Name:       asset.Name,
		Type:       string(asset.Type),
		Size:       asset.Size,
		SizeBytes:  asset.SizeBytes,
		MimeType:   asset.MimeType,
		UploadedAt: asset.UploadedAt.Format(time.RFC3339),
		Tags:       tags,
		URL:        url,
		Visibility: string(asset.Visibility),
		HasPin:     asset.HasPin(),
		Views:      asset.Views,
		Downloads:  asset.Downloads,
	}
	if asset.HasShareToken() {
		resp.ShareToken = *asset.ShareToken
	}
	return resp
}

// GetAssetResponse : описывает ответ для одного ассета
type GetAssetResponse struct {
	Data AssetResponse `json:"data"`
}

// ListAssetsResponse : ответ API со списком ассетов
type ListAssetsResponse struct {
	Data struct {
		Assets []AssetResponse `json:"assets"`
	} `json:"data"`
	NextCursor string `json:"next_cursor,omitempty" example:"2025-08-23T12:34:56.123456Z"`
	Count      int    `json:"count" example:"10"`
}

// DeleteAssetResponse : результат удаления
type DeleteAssetResponse struct {
	Response map[string]bool `json:"response"`
}

// ShareResponse : токен ссылки для совместного доступа
type ShareResponse struct {
	ShareToken string `json:"shareToken" example:"9f86d081884c7d659a2feaa0c55ad015"`
}

// RevokeShareResponse : ответ на отзыв ссылки
type RevokeShareResponse struct {
	Revoked bool `json:"revoked" example:"true"`
}

// PinRequest : тело запроса с PIN (проверка или смена)
type PinRequest struct {
	Pin string `json:"pin" example:"1234"`
}

// VerifyPinResponse : результат предварительной проверки PIN
type VerifyPinResponse struct {
	Success bool `json:"success" example:"true"`
}

// ChangePinResponse : результат смены или сброса PIN
type ChangePinResponse struct {
	HasPin bool `json:"hasPin" example:"false"`
}

// DownloadResponse : ссылка на скачивание
type DownloadResponse struct {
	URL string `json:"url"`
}
