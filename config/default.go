package config

// DefaultValues is the default configuration
const DefaultValues = `
[Log]
Environment = "development"
Level = "info"
Outputs = ["stderr"]

[SyncDB]
Database = "postgres"
User = "test_user"
Password = "test_password"
Name = "test_db"
Host = "bridge-indexer-db"
Port = "5432"
MaxConns = 20

[Etherman]
L1URL = "http://localhost:8545"
L2URL = "http://localhost:3050"

[BridgeSync]
SyncInterval = "5s"
SyncChunkSize = 100
RetryInterval = "5s"
TokenRetryAttempts = 3
TokenRetryInterval = "1s"

	[BridgeSync.L1]
	Enabled = true

	[BridgeSync.L2]
	Enabled = true

[BatchTracker]
Enabled = true
SyncInterval = "10s"
ChunkSize = 100

[Metrics]
Enabled = false
Port = "9090"
Endpoint = "/metrics"
`
