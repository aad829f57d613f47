package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"vitrine_back_end/internal/config"
)

// Clients regroupe les connexions aux bases de données. Pas de variable
// globale : l'objet est construit dans main puis injecté dans les stores.
type Clients struct {
	Scylla  *gocql.Session
	Redis   *redis.Client
	Elastic *elasticsearch.Client // nil si non configuré
	MinIO   *minio.Client         // nil si non configuré
}

// Connect initialise toutes les connexions. ScyllaDB et Redis sont
// obligatoires ; Elasticsearch et MinIO sont optionnels.
func Connect(cfg config.Config) (*Clients, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clients := &Clients{}

	// 1. ScyllaDB
	session, err := connectScylla(cfg)
	if err != nil {
		return nil, fmt.Errorf("échec initialisation ScyllaDB: %w", err)
	}
	clients.Scylla = session

	// 2. Redis
	rdb, err := connectRedis(ctx, cfg)
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("échec connexion Redis: %w", err)
	}
	clients.Redis = rdb

	// 3. Elasticsearch (optionnel)
	clients.Elastic = connectElastic(cfg)

	// 4. MinIO (optionnel)
	clients.MinIO = connectMinIO(ctx, cfg)

	log.Println("✅ Toutes les bases de données sont connectées")
	return clients, nil
}

// Close ferme proprement toutes les connexions
func (c *Clients) Close() {
	if c.Scylla != nil {
		c.Scylla.Close()
		log.Println("🔌 Session ScyllaDB fermée")
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("⚠️ Erreur fermeture Redis: %v", err)
		}
	}
}

func connectScylla(cfg config.Config) (*gocql.Session, error) {
	cluster := gocql.NewCluster(cfg.ScyllaHosts...)
	cluster.Keyspace = cfg.ScyllaKeyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = cfg.ScyllaTimeout
	cluster.NumConns = cfg.ScyllaNumConns
	cluster.ReconnectInterval = 1 * time.Second

	if cfg.ScyllaUser != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.ScyllaUser,
			Password: cfg.ScyllaPassword,
		}
	}

	// Politique de sélection d'hôtes optimisée
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Session ScyllaDB ouverte sur le keyspace '%s'", cfg.ScyllaKeyspace)
	return session, nil
}

func connectRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Println("✅ Connecté à Redis")
	return rdb, nil
}

func connectElastic(cfg config.Config) *elasticsearch.Client {
	if cfg.ElasticURL == "" {
		log.Println("⚠️ Elasticsearch non configuré — la recherche produit sera dégradée")
		return nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		log.Printf("⚠️ Erreur création client Elasticsearch: %v", err)
		return nil
	}

	res, err := client.Info()
	if err != nil {
		log.Printf("⚠️ Elasticsearch injoignable: %v", err)
		return nil
	}
	defer res.Body.Close()

	log.Println("✅ Connecté à Elasticsearch")
	return client
}

func connectMinIO(ctx context.Context, cfg config.Config) *minio.Client {
	if cfg.MinioEndpoint == "" {
		log.Println("⚠️ MinIO non configuré — upload d'images désactivé")
		return nil
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		log.Printf("⚠️ Erreur connexion MinIO: %v", err)
		return nil
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		log.Printf("⚠️ Erreur vérification bucket MinIO: %v", err)
		return nil
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			log.Printf("⚠️ Erreur création bucket MinIO: %v", err)
			return nil
		}
		log.Println("🪣 Bucket créé :", cfg.MinioBucket)
	} else {
		log.Println("🪣 Bucket MinIO déjà présent :", cfg.MinioBucket)
	}

	log.Println("✅ Connecté à MinIO :", cfg.MinioEndpoint)
	return client
}
