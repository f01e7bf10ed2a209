package config

import (
	"scadatag/pkg/generator"
	"scadatag/pkg/notify"
	"scadatag/pkg/storage"
)

type Config struct {
	Client    *storage.FsClient
	Generator *generator.Manager
	Notifier  notify.Notifier
	CertFile  string
	KeyFile   string
}
