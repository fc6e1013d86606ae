package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the root path inside a route group.
	RouterRootPath = ""

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// LocalPrincipal is the fiber local holding the *session.Principal of the request.
	LocalPrincipal = "principal"

	// LocalUserID is the fiber local holding the signed-in user id, read by the access log.
	LocalUserID = "uid"
)
