package server

// Route path constants
const (
	RouteAuth     = "/auth"
	RouteCallback = "/callback"
	RouteTweet    = "/tweet"
	RouteAPITweet = "/api/tweet" // path used by the local development server
	RouteHealth   = "/healthz"
)
