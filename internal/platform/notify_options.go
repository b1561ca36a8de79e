package platform

// defaultAppName identifies the sender when Options.AppName is empty.
const defaultAppName = "roiview"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName is shown as the notification source where supported.
	AppName string
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
}

func (o Options) appName() string {
	if o.AppName == "" {
		return defaultAppName
	}
	return o.AppName
}
