// internal/workers/directory/lookup-provider-profile/config.go
package lookupproviderprofile

// Config is empty; catalog lookups need no tuning.
type Config struct{}
