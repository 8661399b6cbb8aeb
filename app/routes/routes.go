package routes

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"

	"mdblog/app/controllers"
	"mdblog/app/logger"
	"mdblog/app/metrics"
	"mdblog/app/middleware"
)

// readMethods are the methods every route answers; anything else is not found.
var readMethods = []string{http.MethodGet, http.MethodHead}

// Dependencies are the collaborators the router is assembled from.
type Dependencies struct {
	Resolver controllers.ContentResolver
	Renderer controllers.MarkdownRenderer
	Options  controllers.Options
	Assets   fs.FS
	Logger   *logger.Logger
	// Metrics is optional.
	Metrics *metrics.Metrics
}

// SetupRoutes defines the blog routes and returns a router.
func SetupRoutes(deps Dependencies) *mux.Router {
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}

	// Match on the raw escaped path. Dot segments, doubled slashes and encoded
	// separators reach the not-found handler instead of a cleaning redirect.
	router := mux.NewRouter().SkipClean(true).UseEncodedPath()

	// Apply global middleware
	mws := []middleware.Middleware{middleware.Logger(log), middleware.Recoverer(log)}
	if deps.Metrics != nil {
		mws = append(mws, middleware.Instrument(deps.Metrics))
	}
	for _, mw := range mws {
		router.Use(mux.MiddlewareFunc(mw))
	}

	postController := controllers.NewPostController(deps.Resolver, deps.Renderer, deps.Options, log)

	// Router middleware only runs for matched routes, so the fallback gets its own chain.
	notFound := middleware.Chain(http.HandlerFunc(postController.NotFound), mws...)
	router.NotFoundHandler = notFound
	router.MethodNotAllowedHandler = notFound

	router.HandleFunc("/", postController.Root).Methods(readMethods...)
	router.HandleFunc(controllers.PostPathPrefix+"{post_id}", postController.Show).Methods(readMethods...)

	// Serve static files
	if deps.Assets != nil {
		assetController := controllers.NewAssetController(deps.Assets, http.HandlerFunc(postController.NotFound))
		router.PathPrefix("/scripts/").HandlerFunc(assetController.Serve).Methods(readMethods...)
		router.PathPrefix("/styles/").HandlerFunc(assetController.Serve).Methods(readMethods...)
	}

	return router
}
