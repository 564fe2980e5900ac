package upload

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
)

const (
	testCIDv0 = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	testCIDv1 = "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"
)

type nopFile struct {
	*bytes.Reader
}

func (nopFile) Close() error { return nil }

func imageRequest(name, mimeType string, content []byte) *ImageUploadRequest {
	return &ImageUploadRequest{
		File: nopFile{bytes.NewReader(content)},
		Header: &multipart.FileHeader{
			Filename: name,
			Size:     int64(len(content)),
			Header:   textproto.MIMEHeader{"Content-Type": {mimeType}},
		},
		UploadedBy: "admin@example.com",
	}
}

func uploadConfig(uploadURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Pinata.APIKey = "key"
	cfg.Pinata.SecretKey = "secret"
	cfg.Pinata.GatewayURL = "https://gateway.pinata.cloud"
	cfg.Pinata.UploadURL = uploadURL
	cfg.Pinata.MaxSize = 1 << 20
	return cfg
}

func uploadService(uploadURL string) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewService(nil, uploadConfig(uploadURL), logger)
}

func TestValidCID(t *testing.T) {
	tests := []struct {
		cid  string
		want bool
	}{
		{testCIDv0, true},
		{testCIDv1, true},
		{"ipfs://" + testCIDv0, true},
		{"", false},
		{"Qmtooshort", false},
		{"notacid", false},
		{"bUPPERCASE", false},
	}

	for _, tt := range tests {
		if got := ValidCID(tt.cid); got != tt.want {
			t.Errorf("ValidCID(%q) = %v, want %v", tt.cid, got, tt.want)
		}
	}
}

func TestUploadImage(t *testing.T) {
	var gotAPIKey, gotSecret string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("pinata_api_key")
		gotSecret = r.Header.Get("pinata_secret_api_key")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		w.Write([]byte(`{"IpfsHash":"` + testCIDv0 + `","PinSize":1234}`))
	}))
	defer server.Close()

	result, err := uploadService(server.URL).UploadImage(context.Background(),
		imageRequest("shoe.png", "image/png", []byte("png-bytes")))
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}

	if result.CID != testCIDv0 {
		t.Errorf("cid = %q, want %q", result.CID, testCIDv0)
	}
	if want := "https://gateway.pinata.cloud/ipfs/" + testCIDv0; result.GatewayURL != want {
		t.Errorf("gateway url = %q, want %q", result.GatewayURL, want)
	}
	if result.PinSize != 1234 {
		t.Errorf("pin size = %d, want 1234", result.PinSize)
	}
	if gotAPIKey != "key" || gotSecret != "secret" {
		t.Errorf("credentials = %q/%q, want key/secret", gotAPIKey, gotSecret)
	}
}

func TestUploadImageRejections(t *testing.T) {
	t.Run("non-image type", func(t *testing.T) {
		_, err := uploadService("http://unused").UploadImage(context.Background(),
			imageRequest("doc.pdf", "application/pdf", []byte("pdf")))
		if err == nil {
			t.Error("expected error for non-image upload")
		}
	})

	t.Run("oversized file", func(t *testing.T) {
		service := uploadService("http://unused")
		service.config.Pinata.MaxSize = 4
		_, err := service.UploadImage(context.Background(),
			imageRequest("big.png", "image/png", []byte("way too big")))
		if err == nil {
			t.Error("expected error for oversized upload")
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		service := uploadService("http://unused")
		service.config.Pinata.APIKey = ""
		_, err := service.UploadImage(context.Background(),
			imageRequest("shoe.png", "image/png", []byte("png")))
		if err == nil {
			t.Error("expected error without credentials")
		}
	})

	t.Run("invalid returned CID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"IpfsHash":"garbage","PinSize":1}`))
		}))
		defer server.Close()

		_, err := uploadService(server.URL).UploadImage(context.Background(),
			imageRequest("shoe.png", "image/png", []byte("png")))
		if err == nil || !strings.Contains(err.Error(), "invalid CID") {
			t.Errorf("err = %v, want invalid CID error", err)
		}
	})

	t.Run("pinning service error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"bad keys"}`))
		}))
		defer server.Close()

		_, err := uploadService(server.URL).UploadImage(context.Background(),
			imageRequest("shoe.png", "image/png", []byte("png")))
		if err == nil {
			t.Error("expected error from pinning service failure")
		}
	})
}
