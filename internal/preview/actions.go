package preview

import (
	"context"
	"time"

	qrerrors "github.com/qrcraft/qrcraft/internal/errors"
	"github.com/qrcraft/qrcraft/internal/qrcode"
	"github.com/qrcraft/qrcraft/internal/share"
)

// Encoder renders a spec. *qrcode.Encoder satisfies it.
type Encoder interface {
	Encode(ctx context.Context, spec qrcode.Spec) (*qrcode.Image, error)
}

// Exporter rasterizes a rendered code into file bytes.
type Exporter interface {
	Export(ctx context.Context, img *qrcode.Image) ([]byte, error)
}

// Saver stores file bytes under a filename and returns where they went.
type Saver interface {
	Save(data []byte, filename string) (string, error)
}

// Run executes req with enc. It is safe to call off the owning loop.
func Run(ctx context.Context, enc Encoder, req Request) Result {
	img, err := enc.Encode(ctx, req.Input.Spec())
	if err != nil {
		return Result{Seq: req.Seq, Err: qrerrors.NewEncodeFailure(err)}
	}
	return Result{Seq: req.Seq, Image: img}
}

// CopyFinished records the outcome of a clipboard write of the payload. A
// failure returns a ClipboardFailure for logging and no notification.
func (s *Session) CopyFinished(err error) (*Notification, error) {
	if err != nil {
		return nil, qrerrors.NewClipboardFailure(err)
	}
	s.copiedAt = s.now()
	n := Copied()
	return &n, nil
}

// CopyAcknowledged is true for the copy window after a successful copy.
func (s *Session) CopyAcknowledged() bool {
	return s.CopyAckRemaining() > 0
}

// CopyAckRemaining returns how long the copy acknowledgement stays visible.
func (s *Session) CopyAckRemaining() time.Duration {
	if s.copiedAt.IsZero() {
		return 0
	}
	left := s.copyWindow - s.now().Sub(s.copiedAt)
	if left < 0 {
		return 0
	}
	return left
}

// ExportJob captures what a download needs from the current state.
type ExportJob struct {
	Image    *qrcode.Image
	Filename string
}

// ExportJob returns a job for the rendered image. ok is false when nothing
// has been rendered, in which case a download does nothing.
func (s *Session) ExportJob() (ExportJob, bool) {
	if s.rendered == nil {
		return ExportJob{}, false
	}
	return ExportJob{Image: s.rendered, Filename: s.filename}, true
}

// Run rasterizes and saves the job. It is safe to call off the owning loop.
func (j ExportJob) Run(ctx context.Context, exp Exporter, saver Saver) (string, error) {
	data, err := exp.Export(ctx, j.Image)
	if err != nil {
		return "", qrerrors.NewExportFailure(err)
	}
	path, err := saver.Save(data, j.Filename)
	if err != nil {
		return "", qrerrors.NewExportFailure(err)
	}
	return path, nil
}

// DownloadFinished maps a job outcome to the notification to show.
func DownloadFinished(err error) Notification {
	if err != nil {
		return ExportFailed()
	}
	return Downloaded()
}

// ShareLink returns the outbound link for the current payload.
func (s *Session) ShareLink(p share.Platform) (string, error) {
	return share.URL(p, s.input.Payload)
}

// IsClipboardFailure reports whether err came from CopyFinished.
func IsClipboardFailure(err error) bool {
	return qrerrors.Is(err, qrerrors.ErrClipboardFailure)
}
