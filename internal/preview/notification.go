package preview

// Kind classifies a notification.
type Kind string

const (
	KindSuccess       Kind = "success"
	KindEncodeFailure Kind = "encode_failure"
	KindExportFailure Kind = "export_failure"
)

// Notification is a transient, non-blocking message for the user.
type Notification struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Failure reports whether n describes an error.
func (n Notification) Failure() bool {
	return n.Kind != KindSuccess
}

func EncodeFailed() Notification {
	return Notification{
		Kind:        KindEncodeFailure,
		Title:       "Error",
		Description: "Failed to generate QR code. Please try again.",
	}
}

func ExportFailed() Notification {
	return Notification{
		Kind:        KindExportFailure,
		Title:       "Error",
		Description: "Failed to download QR code. Please try again.",
	}
}

func Downloaded() Notification {
	return Notification{
		Kind:        KindSuccess,
		Title:       "Success",
		Description: "QR code downloaded successfully!",
	}
}

func Copied() Notification {
	return Notification{
		Kind:        KindSuccess,
		Title:       "Copied",
		Description: "Text copied to clipboard!",
	}
}
