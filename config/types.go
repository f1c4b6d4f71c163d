package config

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0"`
}

// UpstreamConfig contains the alert feed API configuration
type UpstreamConfig struct {
	BaseURL   string   `yaml:"baseURL" validate:"omitempty,url"`
	APIKey    string   `yaml:"apiKey"`
	Feeds     []string `yaml:"feeds"`
	TimeoutMS int      `yaml:"timeoutMS" validate:"gte=0"`
}

// ScrapeConfig contains the status page scrape configuration
type ScrapeConfig struct {
	StatusURL string `yaml:"statusURL" validate:"omitempty,url"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server    ServerConfig   `yaml:"server"`
	Source    string         `yaml:"source" validate:"omitempty,oneof=feed scrape"`
	Upstream  UpstreamConfig `yaml:"upstream"`
	Scrape    ScrapeConfig   `yaml:"scrape"`
	Lines     []string       `yaml:"lines"`
	RefreshMS int            `yaml:"refreshMS" validate:"gte=0"`
}
