package storage

import (
	configs "go_purl_tools/internal/infra/config"

	"github.com/google/wire"
)

// StorageSet is a Wire provider set that includes all storage-related providers
var StorageSet = wire.NewSet(
	configs.LoadPurlConfig,
	NewMySQLClient,
	NewMysqlReportStorage,
	NewRedisClient,
	NewRedisStateStorage,
)
