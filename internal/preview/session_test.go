package preview

import (
	"context"
	"errors"
	"testing"
	"time"

	qrerrors "github.com/qrcraft/qrcraft/internal/errors"
	"github.com/qrcraft/qrcraft/internal/qrcode"
	"github.com/qrcraft/qrcraft/internal/share"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testDefaults() Defaults {
	return Defaults{
		Payload:          "https://example.com",
		Size:             200,
		Foreground:       "#000000",
		Background:       "#ffffff",
		Limits:           Limits{Min: 100, Max: 400, Step: 10},
		CopyAckWindow:    2 * time.Second,
		EncodeStallAfter: 5 * time.Second,
		ExportFilename:   "qr-code.png",
	}
}

func newTestSession(t *testing.T) (*Session, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	return NewSession(testDefaults(), WithClock(clock.now)), clock
}

func fakeImage(payload string) *qrcode.Image {
	return &qrcode.Image{Spec: qrcode.Spec{Payload: payload}}
}

func TestNewSessionStartsEmpty(t *testing.T) {
	s, _ := newTestSession(t)
	if s.Rendered() != nil {
		t.Fatal("expected no rendered image before the first encode")
	}
	if s.Busy() {
		t.Fatal("expected idle session")
	}
	in := s.Input()
	if in.Payload != "https://example.com" || in.Size != 200 || in.Foreground != "#000000" || in.Background != "#ffffff" {
		t.Fatalf("unexpected initial input: %+v", in)
	}
}

func TestRefreshThenCompleteStoresImage(t *testing.T) {
	s, _ := newTestSession(t)
	req, ok := s.Refresh()
	if !ok {
		t.Fatal("expected request")
	}
	if !s.Busy() {
		t.Fatal("expected busy while encoding")
	}
	img := fakeImage(req.Input.Payload)
	outcome, n := s.Complete(Result{Seq: req.Seq, Image: img})
	if outcome != OutcomeApplied || n != nil {
		t.Fatalf("outcome = %v, notification = %v", outcome, n)
	}
	if s.Rendered() != img {
		t.Fatal("rendered image not stored")
	}
	if s.Busy() {
		t.Fatal("expected idle after completion")
	}
}

func TestLatestRequestWinsRegardlessOfResolutionOrder(t *testing.T) {
	s, _ := newTestSession(t)
	reqA, _ := s.SetPayload("a")
	reqB, _ := s.SetPayload("b")
	if reqB.Seq <= reqA.Seq {
		t.Fatalf("seq not increasing: %d then %d", reqA.Seq, reqB.Seq)
	}

	imgB := fakeImage("b")
	if outcome, _ := s.Complete(Result{Seq: reqB.Seq, Image: imgB}); outcome != OutcomeApplied {
		t.Fatalf("newest result outcome = %v", outcome)
	}
	if outcome, _ := s.Complete(Result{Seq: reqA.Seq, Image: fakeImage("a")}); outcome != OutcomeStale {
		t.Fatalf("superseded result outcome = %v", outcome)
	}
	if s.Rendered() != imgB {
		t.Fatal("stale result replaced the newest image")
	}
}

func TestStaleResultLeavesBusyUntouched(t *testing.T) {
	s, _ := newTestSession(t)
	reqA, _ := s.SetPayload("a")
	s.SetPayload("b")

	outcome, n := s.Complete(Result{Seq: reqA.Seq, Err: errors.New("boom")})
	if outcome != OutcomeStale || n != nil {
		t.Fatalf("outcome = %v, notification = %v", outcome, n)
	}
	if !s.Busy() {
		t.Fatal("stale result must not clear busy")
	}
}

func TestFailureKeepsPreviousImage(t *testing.T) {
	s, _ := newTestSession(t)
	req, _ := s.Refresh()
	prev := fakeImage("https://example.com")
	s.Complete(Result{Seq: req.Seq, Image: prev})

	req, ok := s.SetForeground("nope")
	if !ok {
		t.Fatal("expected request for changed foreground")
	}
	outcome, n := s.Complete(Result{Seq: req.Seq, Err: qrerrors.NewEncodeFailure(errors.New("bad color"))})
	if outcome != OutcomeFailed {
		t.Fatalf("outcome = %v", outcome)
	}
	if n == nil || n.Kind != KindEncodeFailure || n.Title != "Error" {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if n.Description != "Failed to generate QR code. Please try again." {
		t.Fatalf("description = %q", n.Description)
	}
	if s.Rendered() != prev {
		t.Fatal("failure must keep the previous image")
	}
	if s.Busy() {
		t.Fatal("expected idle after failure")
	}
}

func TestUnchangedValueIssuesNoRequest(t *testing.T) {
	s, _ := newTestSession(t)
	seq := s.Seq()
	if _, ok := s.SetPayload("https://example.com"); ok {
		t.Fatal("same payload issued a request")
	}
	if _, ok := s.SetSize(200); ok {
		t.Fatal("same size issued a request")
	}
	if _, ok := s.SetForeground("#000000"); ok {
		t.Fatal("same foreground issued a request")
	}
	if _, ok := s.SetBackground("#ffffff"); ok {
		t.Fatal("same background issued a request")
	}
	if s.Seq() != seq {
		t.Fatalf("seq moved from %d to %d", seq, s.Seq())
	}
}

func TestEmptyPayloadClearsImageAndCancels(t *testing.T) {
	s, _ := newTestSession(t)
	req, _ := s.Refresh()
	s.Complete(Result{Seq: req.Seq, Image: fakeImage("x")})

	inflight, _ := s.SetPayload("y")
	if _, ok := s.SetPayload("   "); ok {
		t.Fatal("blank payload must not request an encode")
	}
	if s.Busy() {
		t.Fatal("blank payload must clear busy")
	}
	if s.Rendered() != nil {
		t.Fatal("blank payload must clear the image")
	}
	if outcome, _ := s.Complete(Result{Seq: inflight.Seq, Image: fakeImage("y")}); outcome != OutcomeStale {
		t.Fatalf("in-flight result after blank payload outcome = %v", outcome)
	}
	if s.Rendered() != nil {
		t.Fatal("in-flight result resurrected an image")
	}
}

func TestLimitsNormalize(t *testing.T) {
	l := Limits{Min: 100, Max: 400, Step: 10}
	tests := []struct {
		in   int
		want int
	}{
		{in: 200, want: 200},
		{in: 205, want: 210},
		{in: 204, want: 200},
		{in: 99, want: 100},
		{in: 0, want: 100},
		{in: 401, want: 400},
		{in: 1000, want: 400},
	}
	for _, tt := range tests {
		if got := l.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLimitsNormalizeStaysInsideUnevenMax(t *testing.T) {
	l := Limits{Min: 100, Max: 405, Step: 10}
	if got := l.Normalize(405); got != 400 {
		t.Fatalf("Normalize(405) = %d, want 400", got)
	}
}

func TestStepSize(t *testing.T) {
	s, _ := newTestSession(t)
	req, ok := s.StepSize(1)
	if !ok || req.Input.Size != 210 {
		t.Fatalf("StepSize(1) = %+v, %v", req, ok)
	}
	s.SetSize(400)
	if _, ok := s.StepSize(1); ok {
		t.Fatal("stepping past max must not issue a request")
	}
	req, ok = s.StepSize(-2)
	if !ok || req.Input.Size != 380 {
		t.Fatalf("StepSize(-2) = %+v, %v", req, ok)
	}
}

func TestCopyAcknowledgedExpires(t *testing.T) {
	s, clock := newTestSession(t)
	if s.CopyAcknowledged() {
		t.Fatal("acknowledged before any copy")
	}
	n, err := s.CopyFinished(nil)
	if err != nil {
		t.Fatalf("CopyFinished: %v", err)
	}
	if n == nil || n.Title != "Copied" || n.Description != "Text copied to clipboard!" {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if !s.CopyAcknowledged() {
		t.Fatal("expected acknowledged right after copy")
	}
	clock.advance(2*time.Second - time.Nanosecond)
	if !s.CopyAcknowledged() {
		t.Fatal("expected acknowledged just inside the window")
	}
	clock.advance(time.Nanosecond)
	if s.CopyAcknowledged() {
		t.Fatal("expected acknowledgement to expire at the window")
	}
}

func TestCopyFailureIsQuiet(t *testing.T) {
	s, _ := newTestSession(t)
	n, err := s.CopyFinished(errors.New("no clipboard"))
	if n != nil {
		t.Fatalf("failure produced a notification: %+v", n)
	}
	if !IsClipboardFailure(err) {
		t.Fatalf("err = %v, want clipboard failure", err)
	}
	if s.CopyAcknowledged() {
		t.Fatal("failed copy must not be acknowledged")
	}
}

func TestStalled(t *testing.T) {
	s, clock := newTestSession(t)
	s.Refresh()
	if s.Stalled() {
		t.Fatal("stalled immediately")
	}
	clock.advance(5 * time.Second)
	if !s.Stalled() {
		t.Fatal("expected stalled after the bound")
	}
}

func TestExportJobNoopWithoutImage(t *testing.T) {
	s, _ := newTestSession(t)
	if _, ok := s.ExportJob(); ok {
		t.Fatal("expected no export job without an image")
	}
}

type fakeExporter struct {
	data []byte
	err  error
}

func (f fakeExporter) Export(context.Context, *qrcode.Image) ([]byte, error) {
	return f.data, f.err
}

type fakeSaver struct {
	saved    []byte
	filename string
	err      error
}

func (f *fakeSaver) Save(data []byte, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = data
	f.filename = filename
	return "/tmp/" + filename, nil
}

func TestExportJobRun(t *testing.T) {
	s, _ := newTestSession(t)
	req, _ := s.Refresh()
	s.Complete(Result{Seq: req.Seq, Image: fakeImage("x")})

	job, ok := s.ExportJob()
	if !ok {
		t.Fatal("expected export job")
	}
	saver := &fakeSaver{}
	path, err := job.Run(context.Background(), fakeExporter{data: []byte("png")}, saver)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if path != "/tmp/qr-code.png" || saver.filename != "qr-code.png" || string(saver.saved) != "png" {
		t.Fatalf("unexpected save: path=%q saver=%+v", path, saver)
	}
	n := DownloadFinished(err)
	if n.Title != "Success" || n.Description != "QR code downloaded successfully!" {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

func TestExportJobRunFailure(t *testing.T) {
	job := ExportJob{Image: fakeImage("x"), Filename: "qr-code.png"}
	_, err := job.Run(context.Background(), fakeExporter{err: errors.New("raster")}, &fakeSaver{})
	if !qrerrors.Is(err, qrerrors.ErrExportFailure) {
		t.Fatalf("err = %v, want export failure", err)
	}
	_, err = job.Run(context.Background(), fakeExporter{data: []byte("png")}, &fakeSaver{err: errors.New("disk full")})
	if !qrerrors.Is(err, qrerrors.ErrExportFailure) {
		t.Fatalf("err = %v, want export failure", err)
	}
	n := DownloadFinished(err)
	if n.Kind != KindExportFailure || n.Description != "Failed to download QR code. Please try again." {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

type fakeEncoder struct{ err error }

func (f fakeEncoder) Encode(_ context.Context, spec qrcode.Spec) (*qrcode.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &qrcode.Image{Spec: spec}, nil
}

func TestRunWrapsEncoderErrors(t *testing.T) {
	req := Request{Seq: 7, Input: Input{Payload: "x", Size: 200}}
	res := Run(context.Background(), fakeEncoder{}, req)
	if res.Seq != 7 || res.Err != nil || res.Image.Spec.Payload != "x" {
		t.Fatalf("unexpected result: %+v", res)
	}
	res = Run(context.Background(), fakeEncoder{err: qrcode.ErrEmptyPayload}, req)
	if !qrerrors.Is(res.Err, qrerrors.ErrEncodeFailure) {
		t.Fatalf("err = %v, want encode failure", res.Err)
	}
	if !errors.Is(res.Err, qrcode.ErrEmptyPayload) {
		t.Fatal("encode failure must wrap the adapter error")
	}
}

func TestShareLinkUsesPayload(t *testing.T) {
	s, _ := newTestSession(t)
	s.SetPayload("hello world")
	got, err := s.ShareLink(share.Twitter)
	if err != nil {
		t.Fatalf("ShareLink: %v", err)
	}
	want := "https://twitter.com/intent/tweet?text=Check%20out%20this%20QR%20code%20I%20generated%3A%20hello%20world"
	if got != want {
		t.Fatalf("ShareLink = %q, want %q", got, want)
	}
	if _, err := s.ShareLink(share.Platform("myspace")); !qrerrors.Is(err, qrerrors.ErrInvalidPlatform) {
		t.Fatalf("err = %v, want invalid platform", err)
	}
}
