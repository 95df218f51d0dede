package utils

import (
	"fmt"

	"pilateshub/config"
	"pilateshub/services/storage"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.uber.org/zap"
)

// Cloudinary builds the Cloudinary-backed StorageService from AppConfig.
func Cloudinary(logger *zap.Logger) (storage.StorageService, error) {
	cloudName := config.AppConfig.CloudinaryCloudName
	apiKey := config.AppConfig.CloudinaryAPIKey
	apiSecret := config.AppConfig.CloudinaryAPISecret

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("utils.Cloudinary: failed to initialize Cloudinary: %w", err)
	}
	return storage.NewStorageService(&cld.Upload, logger), nil
}
