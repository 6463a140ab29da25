package configs

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type configs struct {
	Service  ServiceConfig  `yaml:"service"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	S3       S3Config       `yaml:"s3"`
	Email    EmailConfig    `yaml:"email"`
	Logs     LogsConfig     `yaml:"logs"`
	Secrets  Secrets        `yaml:"secrets"`
}

var Configs configs

func Init(ConfigPath *string) {
	var configPath string
	if ConfigPath == nil || *ConfigPath == "" {
		_, b, _, _ := runtime.Caller(0)
		BasePath := filepath.Dir(b)
		configPath = BasePath + "/file/configs.yaml"
	} else {
		configPath = *ConfigPath
	}
	load(configPath)
	applyEnvOverrides()

	InitLogger()
}

func load(ConfigsPath string) {
	yamlFile, err := os.ReadFile(ConfigsPath)
	if err != nil {
		Logger.Error("Read config file", zap.Error(err))
	}
	err = yaml.Unmarshal(yamlFile, &Configs)
	if err != nil {
		Logger.Error("Unmarshal", zap.Error(err))
	}
}

// applyEnvOverrides lets credentials come from the environment (or a .env file)
// instead of the yaml file, so secrets never have to live in a checked-in config.
func applyEnvOverrides() {
	_ = godotenv.Load()

	overrides := map[string]*string{
		"FIICH_POSTGRES_PASSWORD": &Configs.Postgres.Password,
		"FIICH_REDIS_PASSWORD":    &Configs.Redis.Password,
		"FIICH_S3_ACCESS_KEY":     &Configs.S3.AccessKey,
		"FIICH_S3_SECRET_KEY":     &Configs.S3.SecretKey,
		"FIICH_SMTP_PASSWORD":     &Configs.Email.Password,
		"FIICH_JWT_SECRET":        &Configs.Secrets.JWTSecret,
	}
	for key, target := range overrides {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}
}
