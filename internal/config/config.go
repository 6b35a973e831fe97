package config

import (
	"log"
	"os"
	"strconv"

	"aurelia/internal/domain"
)

type Config struct {
	Port     string
	DBDSN    string
	MediaDir string
	LogFile  string
	Shipping domain.ShippingPolicy
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "aurelia.db"
	} // sqlite file in project root
	media := os.Getenv("MEDIA_DIR")
	if media == "" {
		media = "./web/media"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./aurelia.log"
	}

	ship := domain.DefaultShipping
	if v := os.Getenv("SHIP_THRESHOLD"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			ship.Threshold = domain.Money(n)
		}
	}
	if v := os.Getenv("SHIP_FEE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			ship.Fee = domain.Money(n)
		}
	}

	cfg := Config{Port: port, DBDSN: dsn, MediaDir: media, LogFile: logFile, Shipping: ship}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s SHIP=%d/%d",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, ship.Threshold, ship.Fee)
	return cfg
}
