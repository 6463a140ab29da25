package configs

type ServiceConfig struct {
	HttpPort    string `yaml:"http_port"`
	ServiceName string `yaml:"service_name"`
	// BaseURL is the public URL of the Fiich frontend, used when building
	// invitation and share links sent to partners.
	BaseURL string `yaml:"base_url"`

	AllowedOrigins []string `yaml:"allowed_origins"`
}
