// Package share builds outbound links that post a payload to social platforms.
package share

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/browser"

	qrerrors "github.com/qrcraft/qrcraft/internal/errors"
)

// Platform identifies a share target.
type Platform string

const (
	Twitter   Platform = "twitter"
	Facebook  Platform = "facebook"
	LinkedIn  Platform = "linkedin"
	Instagram Platform = "instagram"
)

// Platforms lists every supported target in display order.
var Platforms = []Platform{Twitter, Facebook, LinkedIn, Instagram}

// Label returns the display name of p.
func (p Platform) Label() string {
	switch p {
	case Twitter:
		return "Twitter"
	case Facebook:
		return "Facebook"
	case LinkedIn:
		return "LinkedIn"
	case Instagram:
		return "Instagram"
	}
	return string(p)
}

// ParsePlatform validates a platform identifier.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Platforms {
		if p == known {
			return p, nil
		}
	}
	return "", qrerrors.NewInvalidPlatform(s)
}

// URL returns the outbound link that shares payload on p.
func URL(p Platform, payload string) (string, error) {
	switch p {
	case Twitter:
		text := "Check out this QR code I generated: " + payload
		return "https://twitter.com/intent/tweet?text=" + EscapeComponent(text), nil
	case Facebook:
		return "https://www.facebook.com/sharer/sharer.php?u=" + EscapeComponent(payload), nil
	case LinkedIn:
		return "https://www.linkedin.com/sharing/share-offsite/?url=" + EscapeComponent(payload), nil
	case Instagram:
		return "https://www.instagram.com/create/story/?media=" + EscapeComponent(payload), nil
	}
	return "", qrerrors.NewInvalidPlatform(string(p))
}

// EscapeComponent percent-encodes s the way browsers' encodeURIComponent
// does: everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ) is escaped as UTF-8
// bytes. url.QueryEscape differs (space becomes '+', '!' etc. escaped).
func EscapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// Opener navigates to a URL in a new browsing context.
type Opener interface {
	Open(url string) error
}

// BrowserOpener opens links in the system browser.
type BrowserOpener struct{}

// Open implements Opener.
func (BrowserOpener) Open(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

// LinkRecorder keeps the last opened URL instead of launching anything. It
// serves sessions with no local browser, such as SSH clients, where the link
// is shown to the user.
type LinkRecorder struct {
	mu   sync.Mutex
	last string
}

// Open implements Opener.
func (r *LinkRecorder) Open(url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = url
	return nil
}

// Last returns the most recently recorded URL.
func (r *LinkRecorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Sharer opens share links through an Opener.
type Sharer struct {
	opener Opener
}

// NewSharer creates a Sharer.
func NewSharer(opener Opener) *Sharer {
	return &Sharer{opener: opener}
}

// Share opens the link for payload on p and returns it. An unknown platform
// fails before anything is opened.
func (s *Sharer) Share(p Platform, payload string) (string, error) {
	u, err := URL(p, payload)
	if err != nil {
		return "", err
	}
	if err := s.opener.Open(u); err != nil {
		return u, err
	}
	return u, nil
}
