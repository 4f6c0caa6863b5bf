package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coffeeassessoria/sparkboard-automation/pkg/config"
)

// AutomationConfig tunes the rule engine and its due-date poller.
type AutomationConfig struct {
	DueDateCheckInterval time.Duration `yaml:"due_date_check_interval"`
	SeedDefaultRules     bool          `yaml:"seed_default_rules"`
	DedupTTL             time.Duration `yaml:"dedup_ttl"`
	RetryTTL             time.Duration `yaml:"retry_ttl"`
}

type TaskServiceConfig struct {
	URL string `yaml:"url"`
}

type Config struct {
	DB          config.DBConfig     `yaml:"db"`
	MQ          config.MQConfig     `yaml:"mq"`
	Redis       config.RedisConfig  `yaml:"redis"`
	Server      config.ServerConfig `yaml:"server"`
	Automation  AutomationConfig    `yaml:"automation"`
	TaskService TaskServiceConfig   `yaml:"task_service"`
}

func Load() *Config {
	env := config.GetConfigEnv()
	configDir := config.GetEnv("CONFIG_DIR", "config")

	cfgMap, err := config.LoadConfig(env, configDir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var cfg Config
	cfgData, err := yaml.Marshal(cfgMap)
	if err != nil {
		log.Fatalf("failed to marshal config: %v", err)
	}
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		log.Fatalf("failed to unmarshal config: %v", err)
	}

	if services, ok := cfgMap["services"].(map[string]interface{}); ok {
		if url, ok := services["tasks"].(string); ok {
			cfg.TaskService.URL = url
		}
	}

	applyDefaults(&cfg)

	// Environment overrides win over yaml.
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideMQFromEnv(&cfg.MQ)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideServerFromEnv(&cfg.Server)
	if url := os.Getenv("TASK_SERVICE_URL"); url != "" {
		cfg.TaskService.URL = url
	}
	if interval := os.Getenv("DUE_DATE_CHECK_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.Automation.DueDateCheckInterval = d
		}
	}
	if seed := os.Getenv("SEED_DEFAULT_RULES"); seed != "" {
		if b, err := strconv.ParseBool(seed); err == nil {
			cfg.Automation.SeedDefaultRules = b
		}
	}

	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8086"
	}
	if cfg.Automation.DueDateCheckInterval <= 0 {
		cfg.Automation.DueDateCheckInterval = time.Minute
	}
	if cfg.Automation.DedupTTL <= 0 {
		cfg.Automation.DedupTTL = 24 * time.Hour
	}
	if cfg.Automation.RetryTTL <= 0 {
		cfg.Automation.RetryTTL = time.Hour
	}
}
