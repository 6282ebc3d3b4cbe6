package generation

import (
	"github.com/listify/listify-api/internal/domain/listing"
)

type GenerateRequest struct {
	ImageURL       string `json:"image_url" validate:"required,url"`
	Description    string `json:"description" validate:"required,min=20"`
	ProductType    string `json:"product_type" validate:"required,product_type"`
	TargetLanguage string `json:"target_language" validate:"required,target_language"`
}

type GenerateResponse struct {
	GenerationID string          `json:"generation_id"`
	Result       *listing.Result `json:"result"`
	Persisted    bool            `json:"persisted"`
}
