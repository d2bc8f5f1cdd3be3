package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	// 网页前端服务配置
	Server ServerConfig `yaml:"server"`

	// 搜索后端配置
	Backend BackendConfig `yaml:"backend"`

	// 代理配置
	Proxy ProxyConfig `yaml:"proxy"`

	// 日志配置
	Log LogConfig `yaml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int        `yaml:"port"`
	Host string     `yaml:"host"`
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Origin  string `yaml:"origin"`
}

// BackendConfig 搜索后端配置
type BackendConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// ProxyConfig 代理配置
type ProxyConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// Output 为 stderr、stdout 或文件路径
	Output string `yaml:"output"`
}

// ValidLogLevels 有效的日志级别
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats 有效的日志格式
var ValidLogFormats = []string{"text", "json"}

// DefaultConfig 默认配置
var DefaultConfig = &Config{
	Server: ServerConfig{
		Port: 3000,
		Host: "127.0.0.1",
		CORS: CORSConfig{
			Enabled: false,
			Origin:  "*",
		},
	},
	Backend: BackendConfig{
		Endpoint: "http://127.0.0.1:8000/search",
	},
	Proxy: ProxyConfig{
		Enabled: false,
		URL:     "http://127.0.0.1:7890",
	},
	Log: LogConfig{
		Level:  "info",
		Format: "text",
		Output: "stderr",
	},
}

// configSearchPaths 配置文件搜索路径
var configSearchPaths = []string{
	"config.yaml",
	"config.yml",
	"configs/config.yaml",
	"configs/config.yml",
}

// Load 从 YAML 配置文件加载配置
// 支持通过 CONFIG_FILE 环境变量指定配置文件路径
func Load() *Config {
	cfg := *DefaultConfig

	configPath := findConfigFile()
	if configPath == "" {
		log.Infof("⚠️ No config file found, using default configuration")
		cfg.validate()
		return &cfg
	}

	log.Infof("📄 Loading configuration from: %s", configPath)
	data, err := os.ReadFile(configPath)
	if err != nil {
		log.Warnf("⚠️ Failed to read config file: %v, using defaults", err)
		cfg.validate()
		return &cfg
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Warnf("⚠️ Failed to parse config file: %v, using defaults", err)
		cfg = *DefaultConfig
		cfg.validate()
		return &cfg
	}

	cfg.validate()
	return &cfg
}

// LoadFromFile 从指定路径加载配置
func LoadFromFile(path string) (*Config, error) {
	cfg := *DefaultConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file failed: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file failed: %w", err)
	}

	cfg.validate()
	return &cfg, nil
}

// findConfigFile 查找配置文件
func findConfigFile() string {
	if envPath := os.Getenv("CONFIG_FILE"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
		log.Warnf("⚠️ CONFIG_FILE=%s not found, searching default paths", envPath)
	}

	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	workDir, _ := os.Getwd()

	searchDirs := []string{workDir}
	if execDir != "" && execDir != workDir {
		searchDirs = append(searchDirs, execDir)
	}

	for _, dir := range searchDirs {
		for _, name := range configSearchPaths {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}

// validate 验证并修正配置
func (c *Config) validate() {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		log.Warnf("⚠️ Invalid port %d, using default %d", c.Server.Port, DefaultConfig.Server.Port)
		c.Server.Port = DefaultConfig.Server.Port
	}

	if c.Server.Host == "" {
		c.Server.Host = DefaultConfig.Server.Host
	}

	if c.Server.CORS.Origin == "" {
		c.Server.CORS.Origin = DefaultConfig.Server.CORS.Origin
	}

	// 后端地址不做格式校验，原样使用
	if c.Backend.Endpoint == "" {
		c.Backend.Endpoint = DefaultConfig.Backend.Endpoint
	}

	if c.Proxy.Enabled && c.Proxy.URL == "" {
		log.Warnf("⚠️ Proxy enabled but URL is empty, using default")
		c.Proxy.URL = DefaultConfig.Proxy.URL
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if !contains(ValidLogLevels, c.Log.Level) {
		if c.Log.Level == "warning" {
			c.Log.Level = "warn"
		} else {
			log.Warnf("⚠️ Invalid log level %q, using %s", c.Log.Level, DefaultConfig.Log.Level)
			c.Log.Level = DefaultConfig.Log.Level
		}
	}

	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if !contains(ValidLogFormats, c.Log.Format) {
		log.Warnf("⚠️ Invalid log format %q, using %s", c.Log.Format, DefaultConfig.Log.Format)
		c.Log.Format = DefaultConfig.Log.Format
	}

	if c.Log.Output == "" {
		c.Log.Output = DefaultConfig.Log.Output
	}
}

// Print 打印配置信息
func (c *Config) Print() {
	log.Infof("🔍 Search backend: %s", c.Backend.Endpoint)
	if c.Proxy.Enabled {
		log.Infof("🌐 Using proxy: %s", c.Proxy.URL)
	} else {
		log.Infof("🌐 No proxy configured")
	}
	if c.Server.CORS.Enabled {
		log.Infof("🔒 CORS enabled with origin: %s", c.Server.CORS.Origin)
	} else {
		log.Infof("🔒 CORS disabled")
	}
	log.Infof("📝 Log level=%s format=%s output=%s", c.Log.Level, c.Log.Format, c.Log.Output)
	log.Infof("🖥️ Server will listen on %s", c.Addr())
}

// Addr 监听地址
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetProxyURL 启用代理时返回代理地址，否则为空
func (c *Config) GetProxyURL() string {
	if !c.Proxy.Enabled {
		return ""
	}
	return c.Proxy.URL
}

// IsEnableCORS 是否启用 CORS
func (c *Config) IsEnableCORS() bool {
	return c.Server.CORS.Enabled
}

// GetCORSOrigin 获取 CORS Origin
func (c *Config) GetCORSOrigin() string {
	return c.Server.CORS.Origin
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
