package dto

type UploadDTO struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
