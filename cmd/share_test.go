package cmd

import (
	"bytes"
	"strings"
	"testing"

	qrerrors "github.com/qrcraft/qrcraft/internal/errors"
	"github.com/qrcraft/qrcraft/internal/share"
)

func TestRunSharePrintsLink(t *testing.T) {
	rec := &share.LinkRecorder{}
	var out bytes.Buffer

	if err := runShare("LinkedIn", "hi there", rec, &out); err != nil {
		t.Fatalf("runShare: %v", err)
	}
	want := "https://www.linkedin.com/sharing/share-offsite/?url=hi%20there"
	if got := strings.TrimSpace(out.String()); got != want {
		t.Fatalf("printed %q, want %q", got, want)
	}
	if rec.Last() != want {
		t.Fatalf("opened %q, want %q", rec.Last(), want)
	}
}

func TestRunShareUnknownPlatform(t *testing.T) {
	rec := &share.LinkRecorder{}
	err := runShare("myspace", "hi", rec, &bytes.Buffer{})
	if !qrerrors.Is(err, qrerrors.ErrInvalidPlatform) {
		t.Fatalf("err = %v, want INVALID_PLATFORM", err)
	}
	if rec.Last() != "" {
		t.Fatalf("opened %q for unknown platform", rec.Last())
	}
}

func TestShareCommandListsPlatforms(t *testing.T) {
	got := strings.Join(shareCmd.ValidArgs, ",")
	if got != "twitter,facebook,linkedin,instagram" {
		t.Fatalf("ValidArgs = %q", got)
	}
}
