// Package constants defines string constants shared across layers.
package constants

// Pub/Sub provider names accepted by config.PubSubConfig.Provider.
const (
	PubSubProviderNone   = ""
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Database drivers accepted by config.DatabaseConfig.Driver.
const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverSQLite   = "sqlite"
)

// Event types published after a committed state change.
const (
	EventIdentityCreated  = "identity.created"
	EventProductCreated   = "product.created"
	EventProductPurchased = "product.purchased"
)

// Metadata keys read from the signup payload.
const (
	MetadataFullName = "full_name"
	MetadataRole     = "role"
)
