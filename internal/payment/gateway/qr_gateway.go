package gateway

import (
	"fmt"
	"net/url"
	"os"
)

// QRGateway builds the bank-transfer QR image URL for an order. Nothing is
// sent to the provider; the URL resolves to a static QR image rendered by
// the bank's image service.
type QRGateway interface {
	BuildQRCodeURL(orderID string, amount float64) string
}

type VietQRGateway struct {
	baseURL     string
	bankCode    string
	accountNo   string
	accountName string
}

func NewVietQRGateway() *VietQRGateway {
	return &VietQRGateway{
		baseURL:     getEnvOrDefault("VIETQR_BASE_URL", "https://img.vietqr.io/image"),
		bankCode:    getEnvOrDefault("VIETQR_BANK_CODE", "970422"),
		accountNo:   getEnvOrDefault("VIETQR_ACCOUNT_NO", "0000000000"),
		accountName: getEnvOrDefault("VIETQR_ACCOUNT_NAME", "GreenVeggies"),
	}
}

func (g *VietQRGateway) BuildQRCodeURL(orderID string, amount float64) string {
	params := url.Values{}
	params.Set("amount", fmt.Sprintf("%.0f", amount))
	params.Set("addInfo", orderID)
	params.Set("accountName", g.accountName)

	return fmt.Sprintf("%s/%s-%s-compact2.png?%s",
		g.baseURL, g.bankCode, g.accountNo, params.Encode())
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
