package qrcode

import (
	"fmt"

	portssvc "github.com/SscSPs/campus_coin_ledger/internal/core/ports/services"
	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the side, in pixels, of rendered coupon images.
const DefaultSize = 300

// Renderer encodes coupon codes as PNG QR codes.
type Renderer struct {
	Size int
}

var _ portssvc.CouponImageRenderer = (*Renderer)(nil)

func NewRenderer() *Renderer {
	return &Renderer{Size: DefaultSize}
}

func (r *Renderer) RenderCoupon(code string) ([]byte, error) {
	if code == "" {
		return nil, fmt.Errorf("empty coupon code")
	}
	png, err := goqrcode.Encode(code, goqrcode.Medium, r.Size)
	if err != nil {
		return nil, fmt.Errorf("encode qr for %s: %w", code, err)
	}
	return png, nil
}
