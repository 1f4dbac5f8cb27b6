package metrics

// Config represents the configuration of the metrics service
type Config struct {
	// Enabled switches the prometheus endpoint on or off
	Enabled bool `mapstructure:"Enabled"`

	// Port is the port the metrics HTTP server listens on
	Port string `mapstructure:"Port"`

	// Endpoint is the metrics endpoint for prometheus to query the metrics
	Endpoint string `mapstructure:"Endpoint"`
}
