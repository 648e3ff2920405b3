package config

import (
	"log"
	"os"
)

type Config struct {
	Port          string
	DBDSN         string
	LogFile       string
	OwnerEmail    string
	OwnerName     string
	OwnerPassword string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "goodsmgmt.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./goodsmgmt.log"
	}
	ownerEmail := os.Getenv("OWNER_EMAIL")
	if ownerEmail == "" {
		ownerEmail = "owner@goodsmgmt.test"
	}
	ownerName := os.Getenv("OWNER_NAME")
	if ownerName == "" {
		ownerName = "Owner"
	}
	ownerPass := os.Getenv("OWNER_PASSWORD")
	if ownerPass == "" {
		ownerPass = "Passw0rd!"
	}

	cfg := Config{
		Port:          port,
		DBDSN:         dsn,
		LogFile:       logFile,
		OwnerEmail:    ownerEmail,
		OwnerName:     ownerName,
		OwnerPassword: ownerPass,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s OWNER_EMAIL=%s", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.OwnerEmail)
	return cfg
}
