package ticket

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"eventinvites/internal/domain"
)

// tokenBytes is the raw entropy per ticket token. 16 bytes gives 128 bits,
// 22 chars base64url. Tokens are never derived from invite ids or timestamps
// so links cannot be enumerated.
const tokenBytes = 16

// qrSize is the pixel width/height of generated QR images.
const qrSize = 256

type minter struct {
	baseURL string
}

// NewMinter returns a TicketMinter that embeds tokens in the given base URL
// (links have the form {baseURL}/ticket/{token}).
func NewMinter(baseURL string) domain.TicketMinter {
	return &minter{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (m *minter) Mint() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate ticket token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	return fmt.Sprintf("%s/ticket/%s", m.baseURL, token), nil
}

// EncodeQR renders the ticket link as a PNG QR code with high error correction
// (survives minor print or display damage) and returns it as a data URL.
// Pure function of its input: the same link always yields the same payload.
func (m *minter) EncodeQR(ticketLink string) (string, error) {
	png, err := qrcode.Encode(ticketLink, qrcode.High, qrSize)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
