package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig 应用基础信息
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// SerialConfig 串口连接配置
type SerialConfig struct {
	Path     string `mapstructure:"path"`
	BaudRate int    `mapstructure:"baudRate"`
}

// DriverConfig 驱动核心配置
type DriverConfig struct {
	// Mode 帧同步模式：api 或 transparent
	Mode           string        `mapstructure:"mode"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	AsyncRateLimit float64       `mapstructure:"asyncRateLimit"`
	AsyncRateBurst int           `mapstructure:"asyncRateBurst"`
	// HardwareTable 可接受硬件版本表的 YAML 路径，空用内置默认
	HardwareTable string `mapstructure:"hardwareTable"`
	// StartupCheck 连接后是否执行 AP/HV 握手
	StartupCheck bool `mapstructure:"startupCheck"`
	// LoadProperties 握手后是否批量拉取寻址属性
	LoadProperties bool `mapstructure:"loadProperties"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

// LumberjackConfig 日志滚动（lumberjack）配置
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig 日志级别与输出配置
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig Prometheus 指标暴露配置
type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

// Config 顶层配置结构
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Serial  SerialConfig  `mapstructure:"serial"`
	Driver  DriverConfig  `mapstructure:"driver"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// Load 从 YAML/TOML/JSON 文件与环境变量加载配置。
// 若 path 为空，则尝试从环境变量 XBEE_CONFIG 读取；否则回退到 configs/example.yaml。
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = v.GetString("XBEE_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("example")
		v.SetConfigType("yaml")
	}

	// 默认值
	setDefaults(v)

	// 环境变量覆盖：前缀 XBEE_，并将点号替换为下划线
	v.SetEnvPrefix("XBEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 首次运行允许缺少配置文件，依赖默认值与环境变量
		var notFound viper.ConfigFileNotFoundError
		if fmt.Sprintf("%T", err) != fmt.Sprintf("%T", notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "xbee-link")
	v.SetDefault("app.env", "dev")

	v.SetDefault("serial.path", "/dev/ttyUSB0")
	v.SetDefault("serial.baudRate", 9600)

	v.SetDefault("driver.mode", "api")
	v.SetDefault("driver.writeTimeout", "100ms")
	v.SetDefault("driver.readTimeout", "1s")
	v.SetDefault("driver.asyncRateLimit", 0)
	v.SetDefault("driver.asyncRateBurst", 1)
	v.SetDefault("driver.hardwareTable", "")
	v.SetDefault("driver.startupCheck", true)
	v.SetDefault("driver.loadProperties", true)

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.readTimeout", "5s")
	v.SetDefault("http.writeTimeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file.filename", "logs/xbee-link.log")
	v.SetDefault("logging.file.maxSize", 100)
	v.SetDefault("logging.file.maxBackups", 7)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", true)
	v.SetDefault("metrics.path", "/metrics")
}
