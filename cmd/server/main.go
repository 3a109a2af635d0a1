package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cloudscale_back_end/internal/cache"
	"cloudscale_back_end/internal/config"
	"cloudscale_back_end/internal/database"
	"cloudscale_back_end/internal/handlers"
	"cloudscale_back_end/internal/metrics"
	"cloudscale_back_end/internal/middleware"
	"cloudscale_back_end/internal/realtime"
	"cloudscale_back_end/internal/routes"
	"cloudscale_back_end/internal/services"
	"cloudscale_back_end/internal/tracker"
	"cloudscale_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.OpenStore(cfg.StoreDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Ouverture du stockage: %v", err)
	}
	defer store.Close()

	if cfg.SeedDemoData {
		if err := database.Seed(ctx, store, utils.HashPassword); err != nil {
			log.Fatalf("❌ Seed: %v", err)
		}
	}

	kv := openCache(ctx, cfg)

	var archive metrics.Archive
	if scylla := openArchive(cfg); scylla != nil {
		defer scylla.Close()
		archive = scylla
	}

	// un *Mailer nil ne doit pas finir dans l'interface
	var notifier services.Notifier
	if m := utils.NewMailer(utils.MailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}); m != nil {
		notifier = m
		log.Printf("📧 E-mails activés via %s", cfg.SMTPHost)
	} else {
		log.Println("⚠️ SMTP_HOST absent: aucun e-mail ne sera envoyé")
	}

	catalog := services.NewCatalogService(store, cache.NewProductCache(kv, store))
	addresses := services.NewAddressService(store)

	sessionTracker := tracker.New(store)
	hub := realtime.NewHub(cfg.CORSOrigins...)

	broadcaster := metrics.NewBroadcaster(sessionTracker, hub, store, metrics.Options{
		Interval: cfg.MetricsInterval,
		Region:   cfg.MetricsRegion,
		Archive:  archive,
	})
	hub.OnConnect(broadcaster.Trigger)
	hub.OnDisconnect(broadcaster.Trigger)
	broadcaster.Start(ctx)

	h := handlers.New(handlers.Deps{
		Auth:      services.NewAuthService(store, notifier),
		Catalog:   catalog,
		Cart:      services.NewCartService(store, catalog),
		Addresses: addresses,
		Orders:    services.NewOrderService(store, catalog, addresses, notifier),
		Store:     store,
		Tracker:   sessionTracker,
		Hub:       hub,
		JWTSecret: cfg.JWTSecret,
	})

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	routes.RegisterRoutes(r, h, routes.Options{
		Sessions: middleware.NewSessionStore([]byte(cfg.SessionSecret), cfg.SecureCookies),
		Limiter:  middleware.NewRateLimiter(kv),
		Origins:  cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("🚀 Serveur CloudScale lancé sur le port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Serveur HTTP: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Arrêt demandé")

	broadcaster.Stop()
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Arrêt du serveur HTTP: %v", err)
	}
	log.Println("✅ Serveur arrêté")
}

// openCache utilise Redis quand REDIS_HOST est défini, sinon un cache en mémoire
func openCache(ctx context.Context, cfg config.Config) cache.Cache {
	if cfg.RedisHost == "" {
		log.Println("✅ Cache en mémoire initialisé")
		return cache.NewMemoryCache()
	}

	addr := cfg.RedisHost
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "6379")
	}
	client, err := database.ConnectRedis(ctx, addr, cfg.RedisPassword)
	if err != nil {
		log.Printf("⚠️ Redis indisponible, repli sur le cache mémoire: %v", err)
		return cache.NewMemoryCache()
	}
	return cache.NewRedisCache(client)
}

func scyllaConfig(cfg config.Config) database.ScyllaConfig {
	return database.ScyllaConfig{
		Hosts:      cfg.ScyllaHosts,
		Keyspace:   cfg.ScyllaKeyspace,
		Username:   cfg.ScyllaUsername,
		Password:   cfg.ScyllaPassword,
		CACertPath: cfg.ScyllaCACert,
	}
}

// openArchive renvoie nil quand SCYLLA_HOSTS n'est pas défini ou injoignable
func openArchive(cfg config.Config) *metrics.ScyllaArchive {
	if len(cfg.ScyllaHosts) == 0 {
		return nil
	}
	session, err := database.ConnectScylla(scyllaConfig(cfg))
	if err != nil {
		log.Printf("⚠️ ScyllaDB indisponible, archive désactivée: %v", err)
		return nil
	}
	archive, err := metrics.NewScyllaArchive(session)
	if err != nil {
		session.Close()
		log.Printf("⚠️ Création de la table d'archive: %v", err)
		return nil
	}
	log.Println("📡 Archive des métriques ScyllaDB activée")
	return archive
}
