package log

// Config for log
type Config struct {
	// Environment defining the log format ("production" or "development").
	Environment LogEnvironment `mapstructure:"Environment"`
	// Level of log. As lower value more logs are going to be generated
	Level string `mapstructure:"Level"`
	// Outputs are the outputs to write the logs, allowed values are "stdout", "stderr" and file paths
	Outputs []string `mapstructure:"Outputs"`
}
