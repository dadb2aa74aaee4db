package requestresponse

import (
	"time"

	"asset-vault/internal/model"
)

// SharedAssetResponse : метаданные ассета по публичной ссылке; url есть только если isProtected=false
type SharedAssetResponse struct {
	Name        string   `json:"name" example:"photo.jpg"`
	Type        string   `json:"type" example:"image"`
	Size        string   `json:"size" example:"1.2 MB"`
	SizeBytes   int64    `json:"sizeBytes" example:"1200000"`
	MimeType    string   `json:"mimeType" example:"image/jpeg"`
	UploadedAt  string   `json:"uploadedAt" example:"2025-08-23T12:34:56Z"`
	Tags        []string `json:"tags"`
	Views       int64    `json:"views" example:"3"`
	Downloads   int64    `json:"downloads" example:"1"`
	IsProtected bool     `json:"isProtected" example:"false"`
	URL         string   `json:"url,omitempty"`
}

// SharedAssetResponseFromModel : owner и токены наружу не уходят
func SharedAssetResponseFromModel(view *model.SharedView) SharedAssetResponse {
	tags := []string(view.Asset.Tags)
	if tags == nil {
		tags = []string{}
	}

	return SharedAssetResponse{
		Name:        view.Asset.Name,
		Type:        string(view.Asset.Type),
		Size:        view.Asset.Size,
		SizeBytes:   view.Asset.SizeBytes,
		MimeType:    view.Asset.MimeType,
		UploadedAt:  view.Asset.UploadedAt.Format(time.RFC3339),
		Tags:        tags,
		Views:       view.Asset.Views,
		Downloads:   view.Asset.Downloads,
		IsProtected: view.IsProtected,
		URL:         view.URL,
	}
}

// ShareAccessRequest : доступ к защищённому ассету по ссылке
type ShareAccessRequest struct {
	Token string `json:"token" example:"9f86d081884c7d659a2feaa0c55ad015"`
	Pin   string `json:"pin" example:"5678"`
}

// ShareAccessResponse : ссылка на файл после успешной проверки PIN
type ShareAccessResponse struct {
	URL string `json:"url"`
}
