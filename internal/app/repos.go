package app

import (
	"gorm.io/gorm"

	"github.com/lgdx/analytics-backend/internal/logger"
	"github.com/lgdx/analytics-backend/internal/repos"
)

type Repos struct {
	Reflection repos.ReflectionRepo
	Activity   repos.ActivityRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Reflection: repos.NewReflectionRepo(db, log),
		Activity:   repos.NewActivityRepo(db, log),
	}
}
