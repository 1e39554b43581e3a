package router

import (
	"path"

	"github.com/gin-gonic/gin"
)

// Mounter attaches a set of endpoints to the versioned API group
type Mounter interface {
	Mount(api *gin.RouterGroup)
}

// Router mounts API areas under /api/<version>
type Router struct {
	engine  *gin.Engine
	version string
	areas   []Mounter
}

// Option configures a Router
type Option func(*Router)

// WithAPIVersion overrides the default "v1" prefix
func WithAPIVersion(version string) Option {
	return func(r *Router) {
		r.version = version
	}
}

// NewRouter creates a Router for engine
func NewRouter(engine *gin.Engine, opts ...Option) *Router {
	r := &Router{engine: engine, version: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues an area for Setup
func (r *Router) Register(area Mounter) *Router {
	r.areas = append(r.areas, area)
	return r
}

// BasePath is the prefix every area is mounted under
func (r *Router) BasePath() string {
	return "/api/" + r.version
}

// Setup mounts every registered area
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath())
	for _, area := range r.areas {
		area.Mount(api)
	}
}

// Area is a read-only slice of the API sharing one prefix.
// Only GET endpoints can be declared; the reporting surface never mutates.
type Area struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	endpoints  []endpoint
}

type endpoint struct {
	path    string
	handler gin.HandlerFunc
}

// NewArea creates an empty area
func NewArea(name, prefix string) *Area {
	return &Area{name: name, prefix: prefix}
}

// With adds middleware that runs only for this area
func (a *Area) With(middleware ...gin.HandlerFunc) *Area {
	a.middleware = append(a.middleware, middleware...)
	return a
}

// Get declares a GET endpoint relative to the area prefix
func (a *Area) Get(relativePath string, handler gin.HandlerFunc) *Area {
	a.endpoints = append(a.endpoints, endpoint{path: relativePath, handler: handler})
	return a
}

// Mount implements Mounter
func (a *Area) Mount(api *gin.RouterGroup) {
	group := api.Group(a.prefix, a.middleware...)
	for _, ep := range a.endpoints {
		group.GET(ep.path, ep.handler)
	}
}

// Name returns the area name
func (a *Area) Name() string {
	return a.name
}

// Paths lists the declared endpoints joined with the area prefix
func (a *Area) Paths() []string {
	paths := make([]string, 0, len(a.endpoints))
	for _, ep := range a.endpoints {
		paths = append(paths, path.Join(a.prefix, ep.path))
	}
	return paths
}
