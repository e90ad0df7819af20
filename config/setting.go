package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type serverConfig struct {
	Port        int    `koanf:"port" validate:"required"`
	Mode        string `koanf:"mode" validate:"required"`
	Concurrency int    `koanf:"concurrency" validate:"required"`
	BodyLimit   int    `koanf:"body_limit" validate:"required"`
	AppName     string `koanf:"app_name" validate:"required"`
}

type logLevel string

const (
	Debug logLevel = "debug"
	Info  logLevel = "info"
	Warn  logLevel = "warn"
	Error logLevel = "error"
	Fatal logLevel = "fatal"
	Panic logLevel = "panic"
)

// Module tags log lines and error payloads with the feature that produced them.
type Module string

const (
	ModuleServer    Module = "server"
	ModuleSetting   Module = "setting"
	ModuleDatabase  Module = "database"
	ModuleAuth      Module = "auth"
	ModuleContent   Module = "content"
	ModuleImage     Module = "image_processing"
	ModuleSearch    Module = "search"
	ModuleDashboard Module = "dashboard"
	ModuleS3        Module = "s3"
	ModuleOpenAI    Module = "openai"
	ModuleMilvus    Module = "milvus"
	ModuleWorkflow  Module = "workflow"
)

type databaseConfig struct {
	Host         string `koanf:"host" validate:"required"`
	Port         int    `koanf:"port" validate:"required"`
	User         string `koanf:"user" validate:"required"`
	Password     string `koanf:"password"`
	Name         string `koanf:"name" validate:"required"`
	ReplicaHost  string `koanf:"replica_host"`
	ReplicaPort  int    `koanf:"replica_port"`
	MaxIdleConns int    `koanf:"max_idle_conns" validate:"required"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"required"`
	MaxLifetime  int    `koanf:"max_lifetime" validate:"required"`
}

type authConfig struct {
	JWTSecret    string `koanf:"jwt_secret" validate:"required"`
	TokenTTLMins int    `koanf:"token_ttl_mins" validate:"required"`
	BcryptCost   int    `koanf:"bcrypt_cost"`
}

type openaiConfig struct {
	Key            string `koanf:"key"`
	VisionModel    string `koanf:"vision_model" validate:"required"`
	EmbeddingModel string `koanf:"embedding_model" validate:"required"`
}

type s3Config struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Region    string `koanf:"region" validate:"required"`
	Bucket    string `koanf:"bucket"`
}

type milvusConfig struct {
	Address    string `koanf:"address" validate:"required"`
	Collection string `koanf:"collection" validate:"required"`
	MetricType string `koanf:"metric_type" validate:"required"`
}

type imageConfig struct {
	TempDir          string `koanf:"temp_dir" validate:"required"`
	RetainMinutes    int    `koanf:"retain_minutes" validate:"required"`
	SweepMaxAgeHours int    `koanf:"sweep_max_age_hours" validate:"required"`
}

type config struct {
	Server   serverConfig   `koanf:"server"`
	Database databaseConfig `koanf:"database"`
	Auth     authConfig     `koanf:"auth"`
	OpenAI   openaiConfig   `koanf:"openai"`
	S3       s3Config       `koanf:"s3"`
	Milvus   milvusConfig   `koanf:"milvus"`
	Image    imageConfig    `koanf:"image"`
	LogLevel logLevel       `koanf:"log_level"`
	Dsn      string         `koanf:"dsn"`
}

func buildMySQLDSN(host string, port int, cfg databaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		host,
		port,
		cfg.Name,
	)
}

// DSN returns the primary database DSN.
func DSN() string {
	if Cfg.Dsn != "" {
		return Cfg.Dsn
	}
	return buildMySQLDSN(Cfg.Database.Host, Cfg.Database.Port, Cfg.Database)
}

// ReplicaDSN returns the read-replica DSN, or "" when no replica is configured.
func ReplicaDSN() string {
	if Cfg.Database.ReplicaHost == "" {
		return ""
	}
	port := Cfg.Database.ReplicaPort
	if port == 0 {
		port = Cfg.Database.Port
	}
	return buildMySQLDSN(Cfg.Database.ReplicaHost, port, Cfg.Database)
}

var defaultConfig = config{
	Server: serverConfig{
		Port:        8000,
		Mode:        "release",
		Concurrency: 256,
		BodyLimit:   16 << 20,
		AppName:     "lexio",
	},
	Database: databaseConfig{
		Host:         "127.0.0.1",
		Port:         3306,
		User:         "root",
		Password:     "",
		Name:         "lexio",
		MaxIdleConns: 4,
		MaxOpenConns: 32,
		MaxLifetime:  30,
	},
	Auth: authConfig{
		JWTSecret:    "lexio-dev-secret-change-me",
		TokenTTLMins: 30,
	},
	OpenAI: openaiConfig{
		Key:            "",
		VisionModel:    "gpt-4o",
		EmbeddingModel: "text-embedding-3-small",
	},
	S3: s3Config{
		Endpoint:  "http://localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Region:    "us-east-1",
		Bucket:    "",
	},
	Milvus: milvusConfig{
		Address:    "localhost:19530",
		Collection: "vocabulary",
		MetricType: "IP",
	},
	Image: imageConfig{
		TempDir:          "uploads/temp",
		RetainMinutes:    5,
		SweepMaxAgeHours: 24,
	},
	LogLevel: Info,
}

var (
	Cfg  = defaultConfig
	once sync.Once
)

func init() {
	path := "config.yaml"

	once.Do(func() {
		k := koanf.New(".")

		validate := validator.New()
		// defaults
		Cfg = defaultConfig

		// file
		if e := k.Load(file.Provider(path), yaml.Parser()); e != nil && !os.IsNotExist(e) {
			return
		}

		// env LEXIO_SERVER_PORT
		if e := k.Load(env.Provider("LEXIO_", ".", func(s string) string {
			return strings.ToLower(strings.TrimPrefix(s, "LEXIO_"))
		}), nil); e != nil {
			return
		}

		// bind
		if e := k.Unmarshal("", &Cfg); e != nil {
			log.Errorf("failed to unmarshal config: %v", e)
		}

		// validate config
		if err := validate.Struct(Cfg); err != nil {
			if errs, ok := err.(validator.ValidationErrors); ok {
				var sb strings.Builder
				sb.WriteString(fmt.Sprintf("%v Config validation failed:\n", ModuleSetting))

				for _, e := range errs {
					sb.WriteString(
						fmt.Sprintf("  - %s: failed '%s' (value: %v)\n", e.Field(), e.Tag(), e.Value()),
					)
				}

				log.Error(sb.String())
			} else {
				log.Errorf("config validation failed: %v", err)
			}
		}
	})
}
