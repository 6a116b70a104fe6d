package app

import (
	"gorm.io/gorm"

	"github.com/palatelog/palatelog-backend/internal/data/repos"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

type Repos struct {
	Curator            repos.CuratorRepo
	Concept            repos.ConceptRepo
	Restaurant         repos.RestaurantRepo
	RestaurantConcept  repos.RestaurantConceptRepo
	RestaurantLocation repos.RestaurantLocationRepo
	SyncState          repos.SyncStateRepo
	SyncRun            repos.SyncRunRepo
	ConflictLog        repos.ConflictLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Curator:            repos.NewCuratorRepo(db, log),
		Concept:            repos.NewConceptRepo(db, log),
		Restaurant:         repos.NewRestaurantRepo(db, log),
		RestaurantConcept:  repos.NewRestaurantConceptRepo(db, log),
		RestaurantLocation: repos.NewRestaurantLocationRepo(db, log),
		SyncState:          repos.NewSyncStateRepo(db, log),
		SyncRun:            repos.NewSyncRunRepo(db, log),
		ConflictLog:        repos.NewConflictLogRepo(db, log),
	}
}
