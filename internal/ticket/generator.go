package ticket

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	alphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength = 8
)

// Generator mints ticket codes of the form PREFIX-XXXXXXXX drawn from an
// uppercase alphanumeric alphabet. Uniqueness is backstopped by the partial
// unique index on bookings.ticket_code; callers retry on conflict.
type Generator struct {
	Prefix string
}

func NewGenerator(prefix string) *Generator {
	if prefix == "" {
		prefix = "UZR"
	}
	return &Generator{Prefix: prefix}
}

func (g *Generator) Generate() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("ticket code randomness: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return g.Prefix + "-" + string(buf), nil
}
