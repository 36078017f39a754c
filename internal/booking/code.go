package booking

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Suffix alphabet avoids 0/O and 1/I so codes survive being read out loud
// over the phone.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeSuffixLen = 4

// newConfirmationCode builds a guest-facing code from the current timestamp
// and a short random suffix. Collisions are possible in principle but treated
// as negligible; codes are not checked for uniqueness against existing
// reservations.
func newConfirmationCode(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	suffix := make([]byte, codeSuffixLen)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken.
			panic(err)
		}
		suffix[i] = codeAlphabet[n.Int64()]
	}
	return ts + string(suffix)
}
