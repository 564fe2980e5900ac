// internal/domain/purchase/receipt.go
package purchase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/starknet"
)

// ErrPurchaseNotFound is returned when no purchase exists for a token id.
var ErrPurchaseNotFound = errors.New("purchase not found")

// Receipt tier thresholds, in cents.
const (
	premiumThresholdCents  = 50000
	standardThresholdCents = 10000
)

// ReceiptMetadata is the ERC-721 metadata document for a minted receipt,
// served to NFT marketplaces.
type ReceiptMetadata struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	ExternalURL string              `json:"external_url"`
	Attributes  []MetadataAttribute `json:"attributes"`
}

// MetadataAttribute is one trait in the metadata attribute list.
type MetadataAttribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// ReceiptImage carries the purchase data rendered into the receipt artwork.
type ReceiptImage struct {
	TokenID     string
	ProductID   uint32
	Quantity    uint32
	AmountCents uint32
}

// ReceiptMetadata builds the metadata document for a receipt token from the
// on-chain purchase details. The image link points back at the receipt image
// endpoint so marketplaces render the artwork without pinning anything.
func (s *Service) ReceiptMetadata(ctx context.Context, tokenID string) (*ReceiptMetadata, error) {
	id, err := starknet.ParseFelt(tokenID)
	if err != nil {
		return nil, fmt.Errorf("invalid token id: %w", err)
	}

	detail := s.detailFor(ctx, id.Dec(), "")
	if detail.Placeholder {
		return nil, ErrPurchaseNotFound
	}

	base := strings.TrimSuffix(s.config.Server.PublicURL, "/")
	image := fmt.Sprintf("%s/api/v1/receipts/image?token_id=%s&product_id=%d&amount=%d&quantity=%d",
		base, id.Dec(), detail.ProductID, detail.TotalPriceCents, detail.Quantity)

	return &ReceiptMetadata{
		Name: fmt.Sprintf("Store Receipt #%s", id.Dec()),
		Description: fmt.Sprintf(
			"Purchase receipt NFT from Web3 E-commerce Store. Product ID: %d, Quantity: %d",
			detail.ProductID, detail.Quantity),
		Image:       image,
		ExternalURL: fmt.Sprintf("%s/receipt/%s", base, id.Dec()),
		Attributes: []MetadataAttribute{
			{TraitType: "Token ID", Value: id.Dec()},
			{TraitType: "Product ID", Value: detail.ProductID},
			{TraitType: "Quantity", Value: detail.Quantity},
			{TraitType: "Total Price (cents)", Value: detail.TotalPriceCents},
			{TraitType: "Purchase Date", Value: time.Unix(detail.Timestamp, 0).UTC().Format("2006-01-02")},
			{TraitType: "Buyer", Value: detail.Buyer},
			{TraitType: "Receipt Category", Value: ReceiptCategory(detail.TotalPriceCents)},
		},
	}, nil
}

// ReceiptCategory assigns the receipt tier by purchase amount.
func ReceiptCategory(totalPriceCents uint32) string {
	switch {
	case totalPriceCents >= premiumThresholdCents:
		return "Premium"
	case totalPriceCents >= standardThresholdCents:
		return "Standard"
	default:
		return "Basic"
	}
}

type receiptView struct {
	TokenID         string
	ProductID       uint32
	Quantity        uint32
	Category        string
	BackgroundColor string
	BorderColor     string
	Total           string
	UnitPrice       string
	Date            string
}

// RenderReceiptSVG renders the receipt artwork. The output is plain SVG so
// it needs no rasterizer and caches well.
func RenderReceiptSVG(img ReceiptImage) string {
	view := receiptView{
		TokenID:   img.TokenID,
		ProductID: img.ProductID,
		Quantity:  img.Quantity,
		Category:  strings.ToUpper(ReceiptCategory(img.AmountCents)),
		Total:     fmt.Sprintf("%.2f", float64(img.AmountCents)/100),
		Date:      time.Now().UTC().Format("2006-01-02"),
	}

	switch ReceiptCategory(img.AmountCents) {
	case "Premium":
		view.BackgroundColor, view.BorderColor = "#FFD700", "#B8860B"
	case "Standard":
		view.BackgroundColor, view.BorderColor = "#C0C0C0", "#808080"
	default:
		view.BackgroundColor, view.BorderColor = "#F5F5F5", "#CCCCCC"
	}

	quantity := img.Quantity
	if quantity == 0 {
		quantity = 1
	}
	view.UnitPrice = fmt.Sprintf("%.2f", float64(img.AmountCents)/float64(quantity)/100)

	var out strings.Builder
	// The template only receives values formatted above; it cannot fail.
	_ = receiptTemplate.Execute(&out, view)
	return out.String()
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<svg width="400" height="600" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="bgGradient" x1="0%" y1="0%" x2="0%" y2="100%">
      <stop offset="0%" style="stop-color:{{.BackgroundColor}};stop-opacity:1" />
      <stop offset="100%" style="stop-color:white;stop-opacity:1" />
    </linearGradient>
  </defs>
  <rect width="400" height="600" fill="url(#bgGradient)" stroke="{{.BorderColor}}" stroke-width="3" rx="15"/>
  <rect x="20" y="20" width="360" height="80" fill="{{.BorderColor}}" rx="10"/>
  <text x="200" y="45" text-anchor="middle" font-family="Arial, sans-serif" font-size="18" font-weight="bold" fill="white">WEB3 E-COMMERCE</text>
  <text x="200" y="70" text-anchor="middle" font-family="Arial, sans-serif" font-size="14" fill="white">PURCHASE RECEIPT NFT</text>
  <text x="200" y="90" text-anchor="middle" font-family="Arial, sans-serif" font-size="12" fill="white">{{.Category}} TIER</text>
  <text x="40" y="140" font-family="monospace" font-size="16" font-weight="bold" fill="#333">Receipt #{{.TokenID}}</text>
  <text x="40" y="170" font-family="Arial, sans-serif" font-size="14" fill="#666">Date: {{.Date}}</text>
  <line x1="40" y1="190" x2="360" y2="190" stroke="#DDD" stroke-width="1"/>
  <text x="40" y="220" font-family="Arial, sans-serif" font-size="14" fill="#333">Product ID: #{{.ProductID}}</text>
  <text x="40" y="250" font-family="Arial, sans-serif" font-size="14" fill="#333">Quantity: {{.Quantity}}</text>
  <text x="40" y="280" font-family="Arial, sans-serif" font-size="14" fill="#333">Unit Price: ${{.UnitPrice}}</text>
  <line x1="40" y1="300" x2="360" y2="300" stroke="#DDD" stroke-width="1"/>
  <text x="40" y="330" font-family="Arial, sans-serif" font-size="16" font-weight="bold" fill="#333">Total: ${{.Total}}</text>
  <line x1="40" y1="350" x2="360" y2="350" stroke="#333" stroke-width="2"/>
  <text x="40" y="380" font-family="Arial, sans-serif" font-size="12" fill="#666">This is an NFT receipt stored on Starknet</text>
  <text x="40" y="400" font-family="Arial, sans-serif" font-size="12" fill="#666">Token ID: {{.TokenID}}</text>
  <rect x="40" y="450" width="320" height="100" fill="#F8F8F8" stroke="#DDD" stroke-width="1" rx="5"/>
  <text x="200" y="475" text-anchor="middle" font-family="Arial, sans-serif" font-size="12" font-weight="bold" fill="#333">BLOCKCHAIN VERIFIED</text>
  <text x="200" y="495" text-anchor="middle" font-family="Arial, sans-serif" font-size="10" fill="#666">This receipt is permanently stored on</text>
  <text x="200" y="510" text-anchor="middle" font-family="Arial, sans-serif" font-size="10" fill="#666">the Starknet blockchain and cannot be</text>
  <text x="200" y="525" text-anchor="middle" font-family="Arial, sans-serif" font-size="10" fill="#666">altered or duplicated.</text>
</svg>
`))
