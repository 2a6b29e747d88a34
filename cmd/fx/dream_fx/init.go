package dream_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"oneira/internal/api/controllers"
	"oneira/internal/repositories"
	"oneira/internal/services"
	"oneira/pkg/memcache"
	"oneira/pkg/utils"
)

var Module = fx.Provide(
	provideDreamRepo,
	provideEmbeddingRepo,
	provideUndoStore,
	provideDreamService,
	provideDreamController)

func provideDreamRepo(db *gorm.DB) repositories.DreamRepository {
	return repositories.NewDreamRepository(db)
}

func provideEmbeddingRepo(db *gorm.DB) repositories.DreamEmbeddingRepository {
	return repositories.NewDreamEmbeddingRepository(db)
}

func provideUndoStore() memcache.DeletedDreamStore {
	return memcache.NewDeletedDreams()
}

func provideDreamService(
	dreamRepo repositories.DreamRepository,
	embedRepo repositories.DreamEmbeddingRepository,
	embedClient utils.EmbeddingClientInterface,
	undoStore memcache.DeletedDreamStore,
) services.DreamServiceInterface {
	return services.NewDreamService(dreamRepo, embedRepo, embedClient, undoStore)
}

func provideDreamController(dreamService services.DreamServiceInterface) *controllers.DreamController {
	return controllers.NewDreamController(dreamService)
}
