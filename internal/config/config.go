package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/zagu-ph/ordering-portal/internal/kintone"
)

type Config struct {
	Addr           string
	KintoneBaseURL string
	Apps           map[string]kintone.AppConfig
	CORSOrigins    []string
	PushEndpoint   string
	PushServerKey  string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() Config {
	_ = godotenv.Load() // load .env if it exists
	cfg := Config{
		Addr:           getenv("PORTAL_ADDR", ":3001"),
		KintoneBaseURL: getenv("KINTONE_BASE_URL", "https://example.cybozu.com"),
		Apps: map[string]kintone.AppConfig{
			kintone.AppProducts: {
				ID:    getenv("KINTONE_PRODUCTS_APP_ID", "1"),
				Token: os.Getenv("KINTONE_PRODUCTS_TOKEN"),
			},
			kintone.AppDealers: {
				ID:    getenv("KINTONE_DEALERS_APP_ID", "2"),
				Token: os.Getenv("KINTONE_DEALERS_TOKEN"),
			},
			kintone.AppOrders: {
				ID:    getenv("KINTONE_ORDERS_APP_ID", "3"),
				Token: os.Getenv("KINTONE_ORDERS_TOKEN"),
			},
		},
		CORSOrigins: strings.Split(
			getenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000,http://localhost:3001"), ","),
		PushEndpoint:  os.Getenv("PUSH_ENDPOINT"),
		PushServerKey: os.Getenv("PUSH_SERVER_KEY"),
	}
	log.Printf("[config] PORTAL_ADDR=%s", cfg.Addr)
	log.Printf("[config] KINTONE_BASE_URL=%s", cfg.KintoneBaseURL)
	log.Printf("[config] apps: products(#%s) dealers(#%s) orders(#%s)",
		cfg.Apps[kintone.AppProducts].ID, cfg.Apps[kintone.AppDealers].ID, cfg.Apps[kintone.AppOrders].ID)
	return cfg
}
