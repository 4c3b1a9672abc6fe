package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateProductQR generates a PNG QR code that links to a product
	GenerateProductQR(productID uuid.UUID) ([]byte, error)

	// ParseProductQR parses QR code data and returns the product ID
	ParseProductQR(qrData string) (uuid.UUID, error)
}
