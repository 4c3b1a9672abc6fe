package qrcode

import (
	"net/url"
	"path"
	"strings"

	"marketplace/config"
	"marketplace/internal/domain/service"
	"marketplace/internal/errors"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const (
	defaultSize    = 256
	productsPath   = "products"
	defaultBaseURL = "marketplace://app"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	size := defaultSize
	levelName := ""
	baseURL := defaultBaseURL
	if cfg != nil && cfg.QRCode != nil {
		if cfg.QRCode.Size > 0 {
			size = cfg.QRCode.Size
		}
		levelName = cfg.QRCode.ErrorCorrectionLevel
		if cfg.QRCode.BaseURL != "" {
			baseURL = cfg.QRCode.BaseURL
		}
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: recoveryLevel(levelName),
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

func recoveryLevel(name string) qrcode.RecoveryLevel {
	switch strings.ToUpper(name) {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// ProductLink returns the storefront link encoded in a product's QR code.
func (s *qrcodeService) ProductLink(productID uuid.UUID) string {
	return s.baseURL + "/" + productsPath + "/" + productID.String()
}

// GenerateProductQR renders the product link as a PNG QR code
func (s *qrcodeService) GenerateProductQR(productID uuid.UUID) ([]byte, error) {
	qrCode, err := qrcode.New(s.ProductLink(productID), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseProductQR extracts the product id from a scanned product link
func (s *qrcodeService) ParseProductQR(qrData string) (uuid.UUID, error) {
	link, err := url.Parse(strings.TrimSpace(qrData))
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse QR code link")
	}

	linkPath := link.Path
	if link.Opaque != "" {
		linkPath = link.Opaque
	}
	if link.Host != "" && link.Scheme == "marketplace" {
		// marketplace://products/{id} puts the first segment in Host.
		linkPath = link.Host + "/" + strings.TrimPrefix(linkPath, "/")
	}

	dir, last := path.Split(strings.TrimRight(linkPath, "/"))
	if path.Base(strings.TrimRight(dir, "/")) != productsPath {
		return uuid.Nil, errors.Errorf("invalid QR code link: %s", qrData)
	}

	productID, err := uuid.Parse(last)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse product ID")
	}

	return productID, nil
}
