package handler

const (
	// BaseLayout is the layout of signed in pages, with the sidebar.
	BaseLayout = "layouts/base"

	// PublicLayout is the layout of the auth and legal pages.
	PublicLayout = "layouts/public"

	// RootPath is the root path the route group.
	RootPath = "/"

	// ErrNilACDFatalLogMsg is used if app or the dependencies are nil.
	ErrNilACDFatalLogMsg = "app or dependencies are nil"
)
