package server

// Method checks live in the handlers so a wrong method gets a JSON 405 rather than the mux's plain text.
func (s *Server) initRoutes() {
	s.RegisterRouteHandler(RouteAuth, ChainMiddleware(s.AuthHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler(RouteCallback, ChainMiddleware(s.CallbackHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler(RouteTweet, ChainMiddleware(s.TweetHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler(RouteAPITweet, ChainMiddleware(s.TweetHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))
}
