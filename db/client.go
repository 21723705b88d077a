package db

import (
	"fastcorr/config"
	"fastcorr/models"
)

type DBClient interface {
	Close() error
	StoreRun(run models.Run) error
	GetRun(id string) (models.Run, bool, error)
	RecentRuns(limit int) ([]models.Run, error)
	DeleteRun(id string) error
}

func NewDBClient(cfg config.DBConfig) (DBClient, error) {
	return NewPostgresClient(cfg.DSN())
}
