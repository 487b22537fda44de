package http

import (
	"github.com/gin-gonic/gin"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Record access
	Books     BookStore
	Libraries LibraryStore
	Creators  CreatorStore

	// Health reporting
	Store Pinger
	Probe ProbeStatus

	// Origins allowed to call the API cross-site. Empty disables CORS
	// handling; "*" allows any origin.
	AllowedOrigins []string

	// Application info
	Version string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger())

	if len(cfg.AllowedOrigins) > 0 {
		corsMiddleware, err := CORSMiddleware(cfg.AllowedOrigins)
		if err != nil {
			return nil, err
		}
		router.Use(corsMiddleware)
	}

	health := NewHealthController(cfg.Store, cfg.Probe, cfg.Version)
	router.GET("/test", health.Test)
	router.GET("/health", health.Status)

	if cfg.Books != nil {
		books := NewBooksController(cfg.Books)
		router.GET("/books", books.ListBooks)
		router.POST("/books", books.CreateBook)
		router.PUT("/books/:id", books.UpdateBook)
		router.DELETE("/books/:id", books.DeleteBook)
	}

	if cfg.Libraries != nil {
		libraries := NewLibrariesController(cfg.Libraries)
		router.GET("/libraries", libraries.ListLibraries)
		router.POST("/libraries", libraries.CreateLibrary)
		router.PUT("/libraries/:id", libraries.UpdateLibrary)
		router.DELETE("/libraries/:id", libraries.DeleteLibrary)
	}

	if cfg.Creators != nil {
		creators := NewCreatorsController(cfg.Creators)
		router.GET("/creators", creators.ListCreators)
	}

	return router, nil
}
