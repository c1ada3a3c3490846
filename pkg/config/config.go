package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"

	"github.com/xyhcode/go-blog-api/internal/pkg/utils"
)

// 定义所有已知的配置键
var allKeys = []string{
	KeyServerPort, KeyServerDebug, KeyJWTSecret, KeyUploadDir,
	KeyDBURL, KeyDBName,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
}

const (
	KeyServerPort    = "System.Port"
	KeyServerDebug   = "System.Debug"
	KeyJWTSecret     = "System.JwtSecret"
	KeyUploadDir     = "System.UploadDir"
	KeyDBURL         = "Database.URL"
	KeyDBName        = "Database.Name"
	KeyRedisAddr     = "Redis.Addr"
	KeyRedisPassword = "Redis.Password"
	KeyRedisDB       = "Redis.DB"
)

type Config struct {
	vp *viper.Viper
}

// NewConfig 手动加载配置：先读取 data/conf.ini 作为默认值，再用环境变量覆盖。
// 配置文件不存在时自动创建一份带随机 JWT 密钥的默认配置。
func NewConfig() (*Config, error) {
	vp := viper.New()
	filePath := "data/conf.ini"

	// --- 步骤 1: 使用 go-ini 从文件加载配置 (作为默认值) ---
	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("提示: 未找到 %s，将创建默认配置文件。", filePath)
			if err := createDefaultConfigFile(filePath); err != nil {
				log.Printf("警告: 创建默认配置文件失败: %v，将仅依赖环境变量或内部默认值。", err)
			} else {
				log.Printf("✅ 已创建默认配置文件: %s", filePath)
				iniCfg, err = ini.Load(filePath)
				if err != nil {
					log.Printf("警告: 重新加载配置文件失败: %v", err)
				}
			}
		} else {
			return nil, fmt.Errorf("错误: 解析配置文件 '%s' 失败: %w", filePath, err)
		}
	}

	// 如果文件成功加载，则将其中的值全部设置到 Viper 中
	if iniCfg != nil {
		for _, section := range iniCfg.Sections() {
			for _, key := range section.Keys() {
				// 构建 Viper 使用的 key，例如 "Database.URL"
				viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
				if section.Name() == "DEFAULT" {
					viperKey = key.Name()
				}
				vp.Set(viperKey, key.Value())
			}
		}
		log.Println("从 data/conf.ini 文件加载了默认配置。")
	}

	// --- 步骤 2: 手动检查并覆盖环境变量 ---
	envReplacer := strings.NewReplacer(".", "_")
	envPrefix := "BLOG"

	for _, key := range allKeys {
		// 构建环境变量名，例如 BLOG_DATABASE_URL
		envVarName := fmt.Sprintf("%s_%s", envPrefix, envReplacer.Replace(strings.ToUpper(key)))

		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			log.Printf("发现环境变量: %s, 已覆盖配置 '%s'。", envVarName, key)
		}
	}

	return &Config{vp: vp}, nil
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// createDefaultConfigFile 创建默认的配置文件
func createDefaultConfigFile(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	// 默认 JWT 密钥随机生成，避免多套部署共享同一个弱密钥
	jwtSecret, err := utils.GenerateRandomString(32)
	if err != nil {
		return fmt.Errorf("生成 JWT 密钥失败: %w", err)
	}

	cfg := ini.Empty()

	system, err := cfg.NewSection("System")
	if err != nil {
		return err
	}
	system.NewKey("Port", "8080")
	system.NewKey("Debug", "false")
	system.NewKey("JwtSecret", jwtSecret)
	system.NewKey("UploadDir", "data/uploads")

	database, err := cfg.NewSection("Database")
	if err != nil {
		return err
	}
	database.NewKey("URL", "mongodb://localhost:27017")
	database.NewKey("Name", "blog")

	redisSection, err := cfg.NewSection("Redis")
	if err != nil {
		return err
	}
	redisSection.NewKey("Addr", "")
	redisSection.NewKey("Password", "")
	redisSection.NewKey("DB", "0")

	return cfg.SaveTo(filePath)
}
