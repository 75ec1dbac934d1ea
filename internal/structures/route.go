package structures

import "net/http"

type Route struct {
	Method  string
	Url     string
	Handler http.Handler
}

// Pattern renders the route as a net/http ServeMux pattern ("GET /path").
func (r Route) Pattern() string {
	return r.Method + " " + r.Url
}
