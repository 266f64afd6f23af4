package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address         string
		ShutdownTimeout time.Duration
		SessionTTL      time.Duration
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine string // sqlite | postgres
		URL    string
	}

	AdminConfig struct {
		SeedUsername string
		SeedPassword string
	}

	MailConfig struct {
		DefaultFromEmail       string
		SendgridApiKey         string
		AnnouncementRecipients []string
	}

	Config struct {
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		AppName      string
		SecretKey    string
		RollbarToken string
		Server       ServerConfig
		Database     DatabaseConfig
		Admin        AdminConfig
		Mail         MailConfig
	}
)

// DefaultFromEmail parses the configured sender, falling back to a bare address.
func (c *Config) DefaultFromEmail() mail.Address {
	if addr, err := mail.ParseAddress(c.Mail.DefaultFromEmail); err == nil {
		return *addr
	}
	return mail.Address{Name: c.AppName, Address: c.Mail.DefaultFromEmail}
}

// NewConfig loads the configuration from defaults, an optional dotenv file and the environment.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "KJ Board Math Power")
	v.SetDefault("secretKey", "ind-kj-board-secret-key")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.sessionTTL", 24*time.Hour)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("database.engine", "sqlite")
	v.SetDefault("database.url", "./database.sqlite")
	v.SetDefault("admin.seedUsername", "admin")
	v.SetDefault("admin.seedPassword", "admin123")
	v.SetDefault("mail.defaultFromEmail", "noreply@localhost")
	v.SetDefault("mail.sendgridApiKey", "")
	v.SetDefault("mail.announcementRecipients", []string{})

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     env == "TEST",
		AppName:      v.GetString("appName"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			SessionTTL:      v.GetDuration("server.sessionTTL"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine: strings.ToLower(v.GetString("database.engine")),
			URL:    v.GetString("database.url"),
		},
		Admin: AdminConfig{
			SeedUsername: v.GetString("admin.seedUsername"),
			SeedPassword: v.GetString("admin.seedPassword"),
		},
		Mail: MailConfig{
			DefaultFromEmail:       v.GetString("mail.defaultFromEmail"),
			SendgridApiKey:         v.GetString("mail.sendgridApiKey"),
			AnnouncementRecipients: cleanList(v.GetStringSlice("mail.announcementRecipients")),
		},
	}
}

// cleanList drops blank entries; env values arrive as one comma separated string.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = CleanString(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
