package models

// StoredFile is a blob accepted by the storage service.
type StoredFile struct {
	Bucket   string `json:"bucket"`
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
}
