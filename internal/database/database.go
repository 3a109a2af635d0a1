package database

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"
)

// --- Configuration ScyllaDB ---
type ScyllaConfig struct {
	Hosts       []string
	Keyspace    string
	Username    string
	Password    string
	CACertPath  string
	Timeout     time.Duration
	NumConns    int
	Consistency gocql.Consistency
}

// =============================================
// STORE
// =============================================

// OpenStore choisit le backend de stockage : "memory" (défaut) ou "postgres"
func OpenStore(driver, dsn string) (Store, error) {
	switch driver {
	case "", "memory":
		log.Println("✅ Stockage en mémoire initialisé")
		return NewMemoryStore(), nil
	case "postgres":
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_URL manquant pour le driver postgres")
		}
		store, err := OpenPostgres(dsn)
		if err != nil {
			return nil, err
		}
		log.Println("✅ Connecté à Postgres")
		return store, nil
	default:
		return nil, fmt.Errorf("driver de stockage inconnu: %q", driver)
	}
}

// =============================================
// REDIS
// =============================================

func ConnectRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connexion Redis %s: %w", addr, err)
	}
	log.Println("✅ Connecté à Redis")
	return client, nil
}

// =============================================
// SCYLLA DB
// =============================================

func createScyllaCluster(config ScyllaConfig) (*gocql.ClusterConfig, error) {
	cluster := gocql.NewCluster(config.Hosts...)
	cluster.Keyspace = config.Keyspace
	cluster.Consistency = config.Consistency
	cluster.Timeout = config.Timeout
	cluster.NumConns = config.NumConns
	cluster.ReconnectInterval = 1 * time.Second

	if config.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: config.Username,
			Password: config.Password,
		}
	}

	if config.CACertPath != "" {
		caCert, err := os.ReadFile(config.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("impossible de lire le certificat CA: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("impossible de parser le certificat CA")
		}
		cluster.SslOpts = &gocql.SslOptions{
			Config:                 &tls.Config{RootCAs: caCertPool},
			EnableHostVerification: true,
		}
	}

	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	return cluster, nil
}

// ConnectScylla ouvre une session sur le keyspace configuré
func ConnectScylla(config ScyllaConfig) (*gocql.Session, error) {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if config.NumConns == 0 {
		config.NumConns = 2
	}
	if config.Consistency == 0 {
		config.Consistency = gocql.Quorum
	}

	cluster, err := createScyllaCluster(config)
	if err != nil {
		return nil, fmt.Errorf("configuration cluster pour %s: %w", config.Keyspace, err)
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("création session pour %s: %w", config.Keyspace, err)
	}
	log.Printf("✅ Session ScyllaDB ouverte pour keyspace '%s'", config.Keyspace)
	return session, nil
}
