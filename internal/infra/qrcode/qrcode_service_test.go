package qrcode

import (
	"testing"

	"marketplace/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(baseURL string) *qrcodeService {
	svc := NewQRCodeService(&config.Config{QRCode: &config.QRCodeConfig{
		Size:                 256,
		ErrorCorrectionLevel: "M",
		BaseURL:              baseURL,
	}})

	return svc.(*qrcodeService)
}

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		cfg                  *config.Config
		expectedSize         int
		errorCorrectionLevel string
	}{
		{"nil config uses defaults", nil, defaultSize, ""},
		{"Low error correction", &config.Config{QRCode: &config.QRCodeConfig{Size: 128, ErrorCorrectionLevel: "L"}}, 128, "L"},
		{"Highest error correction", &config.Config{QRCode: &config.QRCodeConfig{Size: 512, ErrorCorrectionLevel: "h"}}, 512, "H"},
		{"Invalid level falls back", &config.Config{QRCode: &config.QRCodeConfig{ErrorCorrectionLevel: "invalid"}}, defaultSize, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewQRCodeService(tt.cfg).(*qrcodeService)
			assert.Equal(t, tt.expectedSize, svc.size)
			assert.Equal(t, recoveryLevel(tt.errorCorrectionLevel), svc.errorCorrectionLevel)
		})
	}
}

func TestQRCodeService_GenerateProductQR(t *testing.T) {
	svc := newTestService("https://shop.example.com/")

	qrBytes, err := svc.GenerateProductQR(uuid.New())
	require.NoError(t, err)
	require.Greater(t, len(qrBytes), 4)

	// PNG magic number
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, qrBytes[:4])
}

func TestQRCodeService_ProductLink(t *testing.T) {
	productID := uuid.New()

	assert.Equal(t, "https://shop.example.com/products/"+productID.String(),
		newTestService("https://shop.example.com/").ProductLink(productID))
	assert.Equal(t, "marketplace://app/products/"+productID.String(),
		newTestService("").ProductLink(productID))
}

func TestQRCodeService_ParseProductQR(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"https link", "https://shop.example.com/products/" + productID.String(), ""},
		{"link with trailing slash", "https://shop.example.com/products/" + productID.String() + "/", ""},
		{"custom scheme", "marketplace://products/" + productID.String(), ""},
		{"default base", "marketplace://app/products/" + productID.String(), ""},
		{"wrong resource", "https://shop.example.com/sellers/" + productID.String(), "invalid QR code link"},
		{"not a link", "invalid json", "invalid QR code link"},
		{"bad id", "https://shop.example.com/products/not-a-uuid", "failed to parse product ID"},
	}

	svc := newTestService("https://shop.example.com")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := svc.ParseProductQR(tt.data)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, productID, parsed)
		})
	}
}

func TestQRCodeService_RoundTrip(t *testing.T) {
	svc := newTestService("")
	productID := uuid.New()

	parsed, err := svc.ParseProductQR(svc.ProductLink(productID))
	require.NoError(t, err)
	assert.Equal(t, productID, parsed)
}
