package services

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/rajat93105-cell/pbl-project/internal/models"
)

// DefaultUploadFolder is used when the client does not name a folder.
const DefaultUploadFolder = "muj_marketplace"

// UploadServiceProvider defines the interface for upload signing.
type UploadServiceProvider interface {
	SignUpload(folder string) (models.UploadSignature, error)
}

// UploadService signs direct client-to-Cloudinary uploads. It has no side
// effects beyond signing.
type UploadService struct {
	cloudName string
	apiKey    string
	apiSecret string
	now       func() time.Time
}

// NewUploadService creates a new UploadService.
func NewUploadService(cloudName, apiKey, apiSecret string) *UploadService {
	return &UploadService{cloudName: cloudName, apiKey: apiKey, apiSecret: apiSecret, now: time.Now}
}

// SignUpload returns a timestamped signature over folder and timestamp.
func (s *UploadService) SignUpload(folder string) (models.UploadSignature, error) {
	if folder == "" {
		folder = DefaultUploadFolder
	}
	ts := s.now().Unix()

	params := url.Values{}
	params.Set("folder", folder)
	params.Set("timestamp", strconv.FormatInt(ts, 10))

	signature, err := api.SignParameters(params, s.apiSecret)
	if err != nil {
		return models.UploadSignature{}, fmt.Errorf("failed to sign upload: %w", err)
	}

	return models.UploadSignature{
		Signature: signature,
		Timestamp: ts,
		CloudName: s.cloudName,
		APIKey:    s.apiKey,
		Folder:    folder,
	}, nil
}
