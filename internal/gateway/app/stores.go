package app

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	artifactcache "qrmenu/internal/cache/artifact"
	layoutcache "qrmenu/internal/cache/layout"
	"qrmenu/internal/gateway/config"
	artifactrepo "qrmenu/internal/gateway/repository/artifact"
	layoutrepo "qrmenu/internal/gateway/repository/layout"
	menurepo "qrmenu/internal/gateway/repository/menu"
)

const publishedLayoutCacheEntries = 512

type gatewayStores struct {
	db      *sql.DB
	layouts *layoutcache.CachedStore
	menus   menurepo.Store
	pages   *artifactcache.CachedStore
}

func initStores(cfg *config.Config) (*gatewayStores, error) {
	pages, err := chooseArtifactStore(cfg)
	if err != nil {
		return nil, err
	}

	var (
		db      *sql.DB
		layouts layoutrepo.Store
		menus   menurepo.Store
	)
	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %w", err)
		}
		layouts = layoutrepo.NewPostgresStore(db)
		menus = menurepo.NewPostgresStore(db)
		log.Printf("layout store: postgres")
	} else {
		layouts = layoutrepo.NewMemoryStore()
		menus = menurepo.NewMemoryStore()
		log.Printf("layout store: in-memory")
	}

	cached, err := layoutcache.NewCachedStore(layouts, publishedLayoutCacheEntries)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("failed to build layout cache: %w", err)
	}
	return &gatewayStores{
		db:      db,
		layouts: cached,
		menus:   menus,
		pages:   artifactcache.NewCachedStore(pages, artifactcache.DefaultCacheConfig()),
	}, nil
}

func chooseArtifactStore(cfg *config.Config) (artifactrepo.Store, error) {
	a := cfg.Artifact
	switch {
	case a.Enabled && a.AccessKey != "" && a.SecretKey != "":
		s3Cfg := artifactrepo.S3Config{
			Endpoint:  a.Endpoint,
			Region:    a.Region,
			AccessKey: a.AccessKey,
			SecretKey: a.SecretKey,
			Bucket:    a.Bucket,
			UseSSL:    a.UseSSL,
		}
		s3Store, err := artifactrepo.NewS3Store(s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize artifact s3 store: %w", err)
		}
		log.Printf("artifact store: s3 bucket=%s endpoint=%s", s3Cfg.Bucket, s3Cfg.Endpoint)
		return s3Store, nil
	case a.Dir != "":
		log.Printf("artifact store: disk dir=%s", a.Dir)
		return artifactrepo.NewDiskStore(a.Dir), nil
	}
	if a.Enabled {
		log.Printf("artifact store: using in-memory fallback (s3 config incomplete)")
	} else {
		log.Printf("artifact store: in-memory")
	}
	return artifactrepo.NewMemoryStore(), nil
}

func (s *gatewayStores) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
