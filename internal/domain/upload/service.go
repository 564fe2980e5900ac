// internal/domain/upload/service.go
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
)

var (
	// CID v0: base58, 46 chars starting with Qm. CID v1: base32 starting
	// with b.
	cidV0Pattern = regexp.MustCompile(`^Qm[1-9A-HJ-NP-Za-km-z]{44}$`)
	cidV1Pattern = regexp.MustCompile(`^b[a-z2-7]{58,}$`)
)

// Service proxies product image uploads to the Pinata IPFS pinning API and
// records each pinned file.
type Service struct {
	db         *gorm.DB
	httpClient *http.Client
	config     *config.Config
	logger     *logrus.Logger
}

// NewService creates a new upload service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db: db,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		config: cfg,
		logger: logger,
	}
}

// ImageUploadRequest represents an image upload request
type ImageUploadRequest struct {
	File       multipart.File        `json:"-"`
	Header     *multipart.FileHeader `json:"-"`
	UploadedBy string                `json:"uploaded_by"`
}

// UploadResult is returned after a successful pin.
type UploadResult struct {
	CID        string `json:"cid"`
	GatewayURL string `json:"gateway_url"`
	PinSize    int64  `json:"pin_size"`
}

type pinataResponse struct {
	IpfsHash string `json:"IpfsHash"`
	PinSize  int64  `json:"PinSize"`
}

// UploadImage pins an image to IPFS via Pinata and stores the resulting
// file record.
func (s *Service) UploadImage(ctx context.Context, req *ImageUploadRequest) (*UploadResult, error) {
	if s.config.Pinata.APIKey == "" || s.config.Pinata.SecretKey == "" {
		return nil, fmt.Errorf("pinata credentials not configured")
	}
	if req.Header == nil {
		return nil, fmt.Errorf("file required")
	}
	if s.config.Pinata.MaxSize > 0 && req.Header.Size > s.config.Pinata.MaxSize {
		return nil, fmt.Errorf("file exceeds maximum size of %d bytes", s.config.Pinata.MaxSize)
	}

	mimeType := req.Header.Header.Get("Content-Type")
	probe := &UploadedFile{MimeType: mimeType}
	if !probe.IsImage() {
		return nil, fmt.Errorf("unsupported file type %q", mimeType)
	}

	resp, err := s.pinFile(ctx, req)
	if err != nil {
		return nil, err
	}

	if !ValidCID(resp.IpfsHash) {
		return nil, fmt.Errorf("pinning service returned invalid CID %q", resp.IpfsHash)
	}

	record := &UploadedFile{
		OriginalName: req.Header.Filename,
		CID:          resp.IpfsHash,
		GatewayURL:   s.GatewayURL(resp.IpfsHash),
		MimeType:     mimeType,
		Size:         req.Header.Size,
		PinSize:      resp.PinSize,
		UploadedBy:   req.UploadedBy,
	}
	if s.db != nil {
		if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
			// The pin already exists on IPFS; losing the record is not
			// worth failing the upload.
			s.logger.WithError(err).Warn("Failed to record uploaded file")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"cid":  resp.IpfsHash,
		"name": req.Header.Filename,
		"size": req.Header.Size,
	}).Info("Image pinned to IPFS")

	return &UploadResult{
		CID:        resp.IpfsHash,
		GatewayURL: record.GatewayURL,
		PinSize:    resp.PinSize,
	}, nil
}

// ListFiles returns recorded uploads, newest first.
func (s *Service) ListFiles(ctx context.Context, limit int) ([]UploadedFile, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var files []UploadedFile
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	return files, nil
}

// GatewayURL builds the public gateway URL for a CID.
func (s *Service) GatewayURL(cid string) string {
	return fmt.Sprintf("%s/ipfs/%s", strings.TrimSuffix(s.config.Pinata.GatewayURL, "/"), cid)
}

// ValidCID reports whether the string is a CID v0 or v1, with any leading
// ipfs:// scheme stripped.
func ValidCID(cid string) bool {
	cid = strings.TrimPrefix(cid, "ipfs://")
	if cid == "" {
		return false
	}
	return cidV0Pattern.MatchString(cid) || cidV1Pattern.MatchString(cid)
}

func (s *Service) pinFile(ctx context.Context, req *ImageUploadRequest) (*pinataResponse, error) {
	body := &strings.Builder{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", req.Header.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, req.File); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"name": fmt.Sprintf("product-image-%d", time.Now().UnixMilli()),
	})
	if err := writer.WriteField("pinataMetadata", string(metadata)); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	options, _ := json.Marshal(map[string]interface{}{"cidVersion": 1})
	if err := writer.WriteField("pinataOptions", string(options)); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Pinata.UploadURL, strings.NewReader(body.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to build pin request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("pinata_api_key", s.config.Pinata.APIKey)
	httpReq.Header.Set("pinata_secret_api_key", s.config.Pinata.SecretKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("pin request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read pin response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pinning service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var pinned pinataResponse
	if err := json.Unmarshal(respBody, &pinned); err != nil {
		return nil, fmt.Errorf("malformed pin response: %w", err)
	}
	if pinned.IpfsHash == "" {
		return nil, fmt.Errorf("pin response missing CID")
	}
	return &pinned, nil
}
