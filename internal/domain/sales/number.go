package sales

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const saleNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateSaleNumber builds SALE-<last 8 digits of unix ms>-<4 random chars>
func GenerateSaleNumber(at time.Time) string {
	ms := at.UnixMilli() % 100000000
	return fmt.Sprintf("SALE-%08d-%s", ms, randomSuffix(4))
}

func randomSuffix(n int) string {
	out := make([]byte, n)
	limit := big.NewInt(int64(len(saleNumberAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			out[i] = saleNumberAlphabet[i%len(saleNumberAlphabet)]
			continue
		}
		out[i] = saleNumberAlphabet[idx.Int64()]
	}
	return string(out)
}
