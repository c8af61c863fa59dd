package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/direcciones/card-services/configs"
	"github.com/direcciones/card-services/internal/cardsvc/broker"
	"github.com/direcciones/card-services/internal/cardsvc/graph"
	handlers "github.com/direcciones/card-services/internal/cardsvc/handlers"
	"github.com/direcciones/card-services/internal/cardsvc/service"
	"github.com/direcciones/card-services/internal/cardsvc/store"
	"github.com/direcciones/card-services/internal/comm"
	"github.com/direcciones/card-services/internal/db"
	nats "github.com/direcciones/card-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "card"

var instanceId string

func init() {
	instanceId = "001"
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {

	// mongo connection
	database, cancelDb, err := db.ConnectToDB()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer cancelDb()
	log.Printf("mongo connection established successfully")

	if err := db.EnsureCardIndexes(database); err != nil {
		log.Fatalf("Failed to ensure card indexes: %v", err)
	}

	cardStore := store.NewCardStore(database)
	userStore := store.NewUserStore(database)
	addressStore := store.NewAddressStore(database)

	// Connect to NATS
	n, err := nats.Connect()
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}

	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	// init broker and the notifier it carries snapshots for
	b := broker.NewBroker(n.Conn)
	notifier := service.NewNotifier(cardStore, addressStore, b)
	b.Notifier = notifier // broker answers refresh requests with a broadcast

	cardService := service.NewCardService(cardStore, userStore, notifier)

	// subscribe to refresh requests from the socket service
	sub, err := b.SubscribeRefresh(comm.TopicCardRefresh)
	if err != nil {
		log.Errorf("Error: unable to subscribe to queue %v", err)
		os.Exit(0)
	}

	schema, err := graph.NewSchema(cardService, notifier)
	if err != nil {
		log.Fatalf("Failed to build graphql schema: %v", err)
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(schema)
	h.InitAuth()
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("CARD_SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	sub.Unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
