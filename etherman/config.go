package etherman

// Config represents the configuration of the etherman
type Config struct {
	// L1URL is the JSON-RPC endpoint of the base chain node
	L1URL string `mapstructure:"L1URL"`
	// L2URL is the JSON-RPC endpoint of the rollup node
	L2URL string `mapstructure:"L2URL"`
}
