// Package qrcode renders the QR payload printed on employee ID cards.
package qrcode

import (
	"encoding/base64"
	"fmt"
	"strings"

	goqrcode "github.com/skip2/go-qrcode"
)

const (
	dataURLPrefix = "data:image/png;base64,"
	imageSize     = 256
)

// Generator turns an employee identifier into an image-encoded URL payload
type Generator interface {
	Generate(employeeID string) (string, error)
}

type pngGenerator struct {
	baseURL string
}

// NewGenerator returns a Generator whose codes point at {baseURL}/public-employee/{id}
func NewGenerator(baseURL string) Generator {
	return &pngGenerator{baseURL: strings.TrimRight(baseURL, "/")}
}

// PublicURL is the address encoded into the QR image for employeeID
func PublicURL(baseURL, employeeID string) string {
	return fmt.Sprintf("%s/public-employee/%s", strings.TrimRight(baseURL, "/"), employeeID)
}

func (g *pngGenerator) Generate(employeeID string) (string, error) {
	if employeeID == "" {
		return "", fmt.Errorf("employee id is required")
	}
	png, err := goqrcode.Encode(PublicURL(g.baseURL, employeeID), goqrcode.Medium, imageSize)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}
