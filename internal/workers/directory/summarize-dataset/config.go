// internal/workers/directory/summarize-dataset/config.go
package summarizedataset

import "time"

type Config struct {
	DefaultTopN int
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultTopN: 10,
		Timeout:     10 * time.Second,
	}
}
