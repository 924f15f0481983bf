package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var conf = viper.New()

func init() {
	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Shule")
	conf.SetDefault("build", "dev")
	conf.SetDefault("rollbarToken", "")

	conf.SetDefault("portal.classDuration", time.Hour)
	conf.SetDefault("portal.minAttendanceMinutes", 40)
	conf.SetDefault("portal.assignmentsPerCourse", 3)
	conf.SetDefault("portal.fanOutWidth", 5)
	conf.SetDefault("portal.fetchTimeout", 30*time.Second)

	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.name", "shule")
	conf.SetDefault("database.user", "")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.adminUser", "")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", "5432")
	conf.SetDefault("database.disableTLS", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case strings.ToUpper("TEST"):
		conf.SetDefault("testMode", true)
	}
	conf.SetDefault("env", env)
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()
}

type (
	Config struct {
		Debug        bool
		Env          string
		AppName      string
		Build        string
		TestMode     bool
		RollbarToken string
		Portal       PortalConfig
		Database     DatabaseConfig
	}

	PortalConfig struct {
		// ClassDuration is the fixed length of a scheduled class session.
		ClassDuration time.Duration
		// MinAttendanceMinutes is the duration threshold for a session to
		// count as attended.
		MinAttendanceMinutes int
		// AssignmentsPerCourse is the expected submission count per course,
		// used for dashboard progress denominators.
		AssignmentsPerCourse int
		// FanOutWidth caps the number of in-flight store fetches per batch.
		FanOutWidth int
		// FetchTimeout bounds one fan-out batch.
		FetchTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}
)

func NewConfig() *Config {
	return &Config{
		Debug:        conf.GetBool("debug"),
		Env:          conf.GetString("env"),
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		TestMode:     conf.GetBool("testMode"),
		RollbarToken: conf.GetString("rollbarToken"),
		Portal: PortalConfig{
			ClassDuration:        conf.GetDuration("portal.classDuration"),
			MinAttendanceMinutes: conf.GetInt("portal.minAttendanceMinutes"),
			AssignmentsPerCourse: conf.GetInt("portal.assignmentsPerCourse"),
			FanOutWidth:          conf.GetInt("portal.fanOutWidth"),
			FetchTimeout:         conf.GetDuration("portal.fetchTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Name:          conf.GetString("database.name"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetString("database.port"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
		},
	}
}

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}
