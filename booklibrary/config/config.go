package config

import (
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/ddmtrv/booklibrary-service/pkg/kafka"
	"github.com/ddmtrv/booklibrary-service/pkg/logger"
	"github.com/ddmtrv/booklibrary-service/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration
}

// StatsWorker bounds the outbox fold loop.
type StatsWorker struct {
	BatchSize int           `yaml:"batchSize" envconfig:"STATS_BATCH_SIZE" default:"100"`
	Interval  time.Duration `yaml:"interval" envconfig:"STATS_INTERVAL" default:"3s"`
}

type Config struct {
	Server   HTTPServer   `yaml:"server"`
	Kafka    kafka.Config `yaml:"kafka"`
	Database postgres.DB  `yaml:"db"`
	Log      logger.Log   `yaml:"log"`
	Worker   StatsWorker  `yaml:"worker"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
	})

	return cfg
}
