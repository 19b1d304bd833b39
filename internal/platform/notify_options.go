package platform

// AppName is reported to the notification service as the sender.
const AppName = "Inkpad"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath points to an image shown with the notification where the
	// platform supports it.
	IconPath string
	// Timeout in milliseconds; zero uses the platform default.
	Timeout int32
}
