package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateCode returns the 6-digit code mailed out for email verification and
// password resets.
func GenerateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand failing means the process is in real trouble
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}
