package qrcode

import (
	"fmt"
	"strings"

	goqr "github.com/skip2/go-qrcode"
)

// Level is the error correction level used for encoding.
type Level = goqr.RecoveryLevel

// ParseLevel maps a config string to a recovery level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return goqr.Low, nil
	case "medium", "m", "":
		return goqr.Medium, nil
	case "high", "q":
		return goqr.High, nil
	case "highest", "h":
		return goqr.Highest, nil
	}
	return goqr.Medium, fmt.Errorf("unknown recovery level %q", s)
}
