package repo

import (
	"go_purl_tools/internal/infra/storage"

	"github.com/google/wire"
)

var Reposet = wire.NewSet(
	NewReportRepoConfig,
	storage.StorageSet,
	NewReportRepoImpl,
)
