// alert-bridge 서버 부트스트랩
//
// 기동 순서:
//  1. .env 및 환경변수에서 설정 로드
//  2. IdentityStore 로드 (파일이 없으면 기본값으로 시작)
//  3. Postgres 감사 로그 연결 (미설정/실패 시 감사 로그 없이 동작)
//  4. 메일/Boards 클라이언트 및 서비스 레이어 조립
//  5. gin 라우터 기동

package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/swfactory/alert-bridge/internal/client"
	"github.com/swfactory/alert-bridge/internal/config"
	"github.com/swfactory/alert-bridge/internal/db"
	"github.com/swfactory/alert-bridge/internal/handler"
	"github.com/swfactory/alert-bridge/internal/service"
	"github.com/swfactory/alert-bridge/internal/store"
)

func main() {
	// .env는 로컬 개발 편의용 (없어도 정상)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded, using environment variables")
	}

	cfg := config.Load()

	// Alert ID 저장소 로드
	// Store.Dir이 배포 시 초기화되는 경로면 재시작 후 ID 유일성이 깨지므로 주의
	identityStore := store.Open(cfg.Store.Dir, cfg.Store.Prefix)
	log.Printf("Identity store ready: counter=%d, mappings=%d", identityStore.Counter(), identityStore.Len())

	// Postgres 감사 로그 (옵션)
	var database *db.Postgres
	if db.IsConfigured() {
		pool, err := db.NewPostgresPool(context.Background())
		if err != nil {
			log.Printf("Failed to connect to postgres, running without audit log: %v", err)
		} else {
			database = db.NewPostgres(pool)
			if err := database.EnsureEventSchema(); err != nil {
				log.Printf("Failed to ensure event schema, running without audit log: %v", err)
				database = nil
			}
		}
	} else {
		log.Printf("Postgres not configured, running without audit log")
	}

	mailClient := client.NewMailClient(cfg.Mail)
	if !mailClient.IsConfigured() {
		log.Printf("Warning: mail sender/recipients not configured, firing alerts will fail")
	}

	boardsClient := client.NewBoardsClient(cfg.Boards)
	if !boardsClient.IsConfigured() {
		log.Printf("Warning: Azure DevOps org/project/PAT not configured, work item calls will fail")
	}

	// 서비스/핸들러 조립
	var alertService *service.AlertService
	var eventHandler *handler.EventHandler
	if database != nil {
		alertService = service.NewAlertService(identityStore, mailClient, boardsClient, database)
		eventHandler = handler.NewEventHandler(service.NewEventService(database))
	} else {
		alertService = service.NewAlertService(identityStore, mailClient, boardsClient, nil)
		eventHandler = handler.NewEventHandler(nil)
	}
	webhookHandler := handler.NewWebhookHandler(alertService)

	router := gin.Default()
	router.Use(handler.RequestIDMiddleware())
	router.Use(handler.RequestLogMiddleware())

	router.GET("/", handler.Root)
	router.GET("/ping", handler.Ping)
	router.GET("/webhook", webhookHandler.Probe)
	router.POST("/webhook", webhookHandler.Receive)
	router.GET("/api/v1/events", eventHandler.ListEvents)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
