package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Mail     MailConfig
	Boards   BoardsConfig
	Postgres PostgresConfig
}

type ServerConfig struct {
	Port string
}

// StoreConfig - Alert ID 발급 상태를 저장하는 경로 설정
// Dir은 재배포 시 초기화되지 않는 경로여야 함 (초기화되면 ID 유일성 보장이 깨짐)
type StoreConfig struct {
	Dir    string
	Prefix string
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// BoardsConfig - Azure DevOps 조직/프로젝트 및 PAT 설정
type BoardsConfig struct {
	Organization string
	Project      string
	PAT          string
	WorkItemType string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port: getenv("PORT", "3000"),
		},
		Store: StoreConfig{
			Dir:    getenv("STORE_DIR", "/tmp"),
			Prefix: getenv("ALERT_ID_PREFIX", "ALR-SWF"),
		},
		Mail: MailConfig{
			Host:     getenv("SMTP_HOST", "localhost"),
			Port:     getenvInt("SMTP_PORT", 587),
			Username: os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
			From:     os.Getenv("EMAIL_FROM"),
			To:       recipients(),
		},
		Boards: BoardsConfig{
			Organization: os.Getenv("ADO_ORG"),
			Project:      os.Getenv("ADO_PROJECT"),
			PAT:          os.Getenv("ADO_PAT"),
			WorkItemType: getenv("ADO_WORKITEM_TYPE", "Bug"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
	}
}

// recipients - EMAIL_TO, EMAIL_TO_1, EMAIL_TO_2 중 비어있지 않은 값만 수집
func recipients() []string {
	var to []string
	for _, key := range []string{"EMAIL_TO", "EMAIL_TO_1", "EMAIL_TO_2"} {
		if addr := strings.TrimSpace(os.Getenv(key)); addr != "" {
			to = append(to, addr)
		}
	}
	return to
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
