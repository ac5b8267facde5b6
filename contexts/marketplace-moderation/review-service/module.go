package reviewservice

import (
	"log/slog"
	"time"

	httpadapter "bazaar/contexts/marketplace-moderation/review-service/adapters/http"
	"bazaar/contexts/marketplace-moderation/review-service/adapters/memory"
	"bazaar/contexts/marketplace-moderation/review-service/application/commands"
	"bazaar/contexts/marketplace-moderation/review-service/application/queries"
	"bazaar/contexts/marketplace-moderation/review-service/domain/entities"
	"bazaar/contexts/marketplace-moderation/review-service/ports"
)

const defaultIdempotencyTTL = 24 * time.Hour

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	if deps.IdempotencyTTL <= 0 {
		deps.IdempotencyTTL = defaultIdempotencyTTL
	}

	reviewDecision := commands.ReviewDecisionUseCase{
		Repository: deps.Repository,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	combinedDecision := commands.CombinedDecisionUseCase{
		Review:         reviewDecision,
		Idempotency:    deps.Idempotency,
		Clock:          deps.Clock,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	bulkOperation := commands.BulkOperationUseCase{
		Repository:     deps.Repository,
		Review:         reviewDecision,
		Idempotency:    deps.Idempotency,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	resubmission := commands.ResubmissionUseCase{
		Repository: deps.Repository,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			ReviewDecision:   reviewDecision,
			CombinedDecision: combinedDecision,
			BulkOperation:    bulkOperation,
			Resubmission:     resubmission,
			Queries:          queryUseCase,
			Logger:           deps.Logger,
		},
	}
}

func NewInMemoryModule(
	seedStores []entities.StoreSubmission,
	seedProducts []entities.Product,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(seedStores, seedProducts)
	module := NewModule(Dependencies{
		Repository:  store,
		Idempotency: memory.NewIdempotencyCache(defaultIdempotencyTTL),
		Outbox:      store,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
