package config

import (
	"log"
	"os"
	"time"
)

type Config struct {
	Port      string
	DBDSN     string
	ModelPath string
	LogFile   string
	ShopTZ    string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "thebaker.db"
	} // sqlite file in project root
	model := os.Getenv("MODEL_PATH")
	if model == "" {
		model = "./data/ml_model.json"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./thebaker.log"
	}
	tz := os.Getenv("SHOP_TZ")
	if tz == "" {
		tz = "Asia/Seoul" // shop local time for order timestamps
	}

	cfg := Config{Port: port, DBDSN: dsn, ModelPath: model, LogFile: logFile, ShopTZ: tz}
	log.Printf("[config] PORT=%s DB_DSN=%s MODEL_PATH=%s LOG_FILE=%s SHOP_TZ=%s",
		cfg.Port, cfg.DBDSN, cfg.ModelPath, cfg.LogFile, cfg.ShopTZ)
	return cfg
}

// Location resolves the shop time zone, falling back to UTC if the name is
// not in the tz database.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ShopTZ)
	if err != nil {
		log.Printf("[config] unknown time zone %q, using UTC", c.ShopTZ)
		return time.UTC
	}
	return loc
}
