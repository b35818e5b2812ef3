package model

// Options configures the behaviour of the Builder. Options are constructed by
// the public adapter in pkg/model and passed into New.
type Options struct {
	Labeler func(string) string
	// EndpointPrefix is prepended to the form id when a definition omits
	// its endpoint.
	EndpointPrefix string
}

func defaultOptions() Options {
	return Options{
		Labeler:        DefaultLabeler,
		EndpointPrefix: "/",
	}
}
