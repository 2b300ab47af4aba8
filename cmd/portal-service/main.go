package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/zagu-ph/ordering-portal/internal/config"
	"github.com/zagu-ph/ordering-portal/internal/dealer"
	"github.com/zagu-ph/ordering-portal/internal/httpx"
	"github.com/zagu-ph/ordering-portal/internal/kintone"
	"github.com/zagu-ph/ordering-portal/internal/notify"
	"github.com/zagu-ph/ordering-portal/internal/order"
)

func main() {
	cfg := config.Load()

	kc := kintone.New(cfg.KintoneBaseURL, cfg.Apps)
	orders := order.NewWorkflow(&order.KintoneStore{Client: kc})
	dealers := dealer.NewService(&dealer.KintoneStore{Client: kc})
	pusher := notify.New(cfg.PushEndpoint, cfg.PushServerKey)

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.CORS(cfg.CORSOrigins))

	api := r.Group("/api")
	api.GET("/health", healthHandler(cfg.KintoneBaseURL))

	api.POST("/auth/login", loginHandler(dealers))
	api.POST("/auth/register", registerHandler(dealers))
	api.PUT("/auth/change-password", changePasswordHandler(dealers))

	api.POST("/orders/submit-order", submitOrderHandler(orders, pusher))
	api.POST("/orders/status", statusHandler(kc, kintone.AppOrders))
	api.POST("/dealers/status", statusHandler(kc, kintone.AppDealers))

	api.GET("/:appKey/records", getRecordsHandler(kc))
	api.GET("/:appKey/record/:id", getRecordHandler(kc))
	api.POST("/:appKey/record", createRecordHandler(kc))
	api.PUT("/:appKey/record", updateRecordHandler(kc))

	log.Printf("portal-service listening on %s", cfg.Addr)
	log.Fatal(r.Run(cfg.Addr))
}
