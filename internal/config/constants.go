package config

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverMongo    = "mongo"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Default locations and names for the document store
const (
	// DefaultMongoURI is used when MONGODB_URI is not set
	DefaultMongoURI = "mongodb://localhost:27017"

	// DefaultSQLitePath is the default path for the embedded document file
	DefaultSQLitePath = "./catalog.db"

	// DefaultPostgresDSN is the default connection string for the postgres driver
	DefaultPostgresDSN = "postgres://localhost:5432/catalog?sslmode=disable"

	DefaultBookDatabase    = "bookDatabase"
	DefaultLibraryDatabase = "libraryDatabase"
	DefaultCreatorDatabase = "creatorDatabase"

	// DefaultAllowedOrigin is the deployed frontend origin
	DefaultAllowedOrigin = "https://ephemeral-biscotti-5b60bd.netlify.app"
)
