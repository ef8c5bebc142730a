package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"interview-coach-backend/config"
	apiv1 "interview-coach-backend/controllers/v1"
	"interview-coach-backend/db"
	"interview-coach-backend/fiberlog"
	"interview-coach-backend/initializers"
	"interview-coach-backend/lib/ws"
	heartbeatworker "interview-coach-backend/lib/ws/hub/heartbeat-worker"
	"interview-coach-backend/middleware"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	services := initializers.InitAllServices(ctx)
	bodyLimit := config.Conf.App.BodyLimitMb * 1024 * 1024

	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	app.Use(fiberRecover.New())
	app.Use(requestid.New())

	if _, err := os.Stat(config.Conf.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			Path:     "/swagger",
			FilePath: config.Conf.App.SwaggerFile,
		}))
	} else {
		log.WithField("file", config.Conf.App.SwaggerFile).Warn("файл swagger не найден, документация отключена")
	}

	//api
	apiV1 := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	apiV1.Use(fiberlog.New(*services.LoggerConfig))
	apiV1.Use(middleware.ErrNotify(config.Conf.App.ErrNotify))
	apiV1.Use(middleware.WithBodyLimit(int64(bodyLimit)))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	apiv1.InitAuthApiRouters(apiV1, services.Auth, config.Conf.Auth.JWTSecret)

	//собеседование
	apiV1.Use("/interview", middleware.AuthorizationRequired(config.Conf.Auth.JWTSecret))
	apiv1.InitInterviewApiRouters(apiV1, services.Interview)

	//websocket, токен в query token
	wsGroup := app.Group("/ws", middleware.AuthorizationRequired(config.Conf.Auth.JWTSecret))
	ws.InitWs(wsGroup, services.VideoStream, services.Hub, services.FrameTimeout)
	if services.PingInterval > 0 {
		heartbeatworker.StartWorker(ctx, services.Hub, services.PingInterval)
	}

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-c:
		case <-ctx.Done():
			return
		}
		log.Info("Gracefully shutting down...")
		cancel()
		services.Hub.CloseAll()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Error(err)
		cancel()
	}

	wg.Wait()
	db.Close()
	log.Info("HTTP server successfully stopped")
}
