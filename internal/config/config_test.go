package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:                      "8080",
		DB:                        Database{Driver: DriverSQLite, SQLitePath: "./test.db"},
		JWTSecret:                 "0123456789abcdef0123",
		JWTExpiresIn:              24 * time.Hour,
		GoalReminderDays:          7,
		NotificationRetentionDays: 90,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid sqlite config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid mysql config",
			mutate: func(c *Config) {
				c.DB = Database{Driver: DriverMySQL, User: "root", Host: "localhost", Port: "3306", Name: "fintrack"}
			},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "cert without key",
			mutate:      func(c *Config) { c.CertFile = "cert.pem" },
			wantErr:     true,
			errorString: "CERT_FILE and KEY_FILE must be set together",
		},
		{
			name:        "unknown driver",
			mutate:      func(c *Config) { c.DB.Driver = "postgres" },
			wantErr:     true,
			errorString: "invalid DB_DRIVER 'postgres'",
		},
		{
			name:        "mysql without user",
			mutate:      func(c *Config) { c.DB = Database{Driver: DriverMySQL, Host: "localhost", Name: "fintrack"} },
			wantErr:     true,
			errorString: "DB_USER, DB_HOST and DB_NAME are required",
		},
		{
			name:        "sqlite without path",
			mutate:      func(c *Config) { c.DB.SQLitePath = "" },
			wantErr:     true,
			errorString: "SQLITE_DB_PATH cannot be empty",
		},
		{
			name:        "short jwt secret",
			mutate:      func(c *Config) { c.JWTSecret = "short" },
			wantErr:     true,
			errorString: "JWT_SECRET must be set",
		},
		{
			name:        "jwt expiry too short",
			mutate:      func(c *Config) { c.JWTExpiresIn = time.Second },
			wantErr:     true,
			errorString: "invalid JWT_EXPIRES_IN 1s",
		},
		{
			name:        "smtp without sender",
			mutate:      func(c *Config) { c.SMTP = SMTP{Host: "smtp.example.com", Port: 587} },
			wantErr:     true,
			errorString: "SMTP_EMAIL is required",
		},
		{
			name: "invalid AMQP URL scheme",
			mutate: func(c *Config) {
				c.AMQP = AMQP{URL: "http://localhost:5672/", Exchange: "x", Queue: "q"}
			},
			wantErr:     true,
			errorString: "invalid AMQP URL scheme 'http': must be 'amqp' or 'amqps'",
		},
		{
			name: "AMQP URL without queue",
			mutate: func(c *Config) {
				c.AMQP = AMQP{URL: "amqp://localhost:5672/", Exchange: "x"}
			},
			wantErr:     true,
			errorString: "AMQP exchange and queue names cannot be empty",
		},
		{
			name:        "negative reminder window",
			mutate:      func(c *Config) { c.GoalReminderDays = -1 },
			wantErr:     true,
			errorString: "invalid GOAL_REMINDER_DAYS -1",
		},
		{
			name:        "zero retention",
			mutate:      func(c *Config) { c.NotificationRetentionDays = 0 },
			wantErr:     true,
			errorString: "invalid NOTIFICATION_RETENTION_DAYS 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err, tt.errorString)
				}
				return
			}
			if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "DB_DRIVER", "SQLITE_DB_PATH", "JWT_EXPIRES_IN",
		"CORS_ALLOWED_ORIGINS", "CRON_ENABLED", "GOAL_REMINDER_DAYS",
	} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8080" {
			t.Errorf("Load() Port = %v, want 8080", cfg.Port)
		}
		if cfg.DB.Driver != DriverSQLite {
			t.Errorf("Load() DB.Driver = %v, want sqlite", cfg.DB.Driver)
		}
		if cfg.DB.SQLitePath != "./data/fintrack.db" {
			t.Errorf("Load() DB.SQLitePath = %v, want ./data/fintrack.db", cfg.DB.SQLitePath)
		}
		if cfg.JWTExpiresIn != 24*time.Hour {
			t.Errorf("Load() JWTExpiresIn = %v, want 24h", cfg.JWTExpiresIn)
		}
		if !cfg.CronEnabled {
			t.Error("Load() CronEnabled = false, want true")
		}
		if cfg.GoalReminderDays != 7 {
			t.Errorf("Load() GoalReminderDays = %v, want 7", cfg.GoalReminderDays)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("DB_DRIVER", "mysql")
		t.Setenv("JWT_EXPIRES_IN", "2h")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
		t.Setenv("CRON_ENABLED", "false")
		t.Setenv("GOAL_REMINDER_DAYS", "not-a-number")

		cfg := Load()

		if cfg.Addr() != ":9090" {
			t.Errorf("Load() Addr = %v, want :9090", cfg.Addr())
		}
		if cfg.DB.Driver != DriverMySQL {
			t.Errorf("Load() DB.Driver = %v, want mysql", cfg.DB.Driver)
		}
		if cfg.JWTExpiresIn != 2*time.Hour {
			t.Errorf("Load() JWTExpiresIn = %v, want 2h", cfg.JWTExpiresIn)
		}
		if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
			t.Errorf("Load() CORSOrigins = %v", cfg.CORSOrigins)
		}
		if cfg.CronEnabled {
			t.Error("Load() CronEnabled = true, want false")
		}
		if cfg.GoalReminderDays != 7 {
			t.Errorf("Load() GoalReminderDays = %v, want fallback 7", cfg.GoalReminderDays)
		}
	})
}
