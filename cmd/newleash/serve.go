package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"newleash/internal/adapters/auth/jwtauth"
	"newleash/internal/adapters/geocoding/google"
	"newleash/internal/adapters/imagehost/cloudinary"
	"newleash/internal/adapters/petfinder"
	"newleash/internal/domain/images"
	"newleash/internal/platform/config"
	"newleash/internal/platform/imaging"
	"newleash/internal/platform/logger"
	"newleash/internal/platform/metrics"
	"newleash/internal/router"

	"github.com/spf13/cobra"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg, true)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		log.Info("using postgres store", nil)
	} else {
		log.Warn("DB_DSN not set, using in-memory store", nil)
	}

	tokens, err := tokenManager(cfg, log)
	if err != nil {
		return err
	}

	m := metrics.New()
	opts := router.Options{
		AuthVerifier: tokens,
		TokenIssuer:  tokens,
		DB:           db,
		Logger:       log,
		Metrics:      m,
		MaxDepth:     cfg.GraphQLMaxDepth,
		Images: images.Options{
			Folder: cfg.Cloudinary.Folder,
			Imaging: imaging.Options{
				MaxBytes:     cfg.Images.MaxBytes,
				MaxDimension: cfg.Images.MaxDimension,
				MaxPixels:    cfg.Images.MaxPixels,
			},
		},
	}

	// Solo se asignan si están configurados: un *Client nil dentro de la
	// interfaz no sería nil para los servicios.
	if cfg.Petfinder.ClientID != "" && cfg.Petfinder.ClientSecret != "" {
		pf, err := petfinder.NewClient(petfinder.Config{
			BaseURL:      cfg.Petfinder.BaseURL,
			ClientID:     cfg.Petfinder.ClientID,
			ClientSecret: cfg.Petfinder.ClientSecret,
			Timeout:      cfg.Petfinder.Timeout,
			TokenBuffer:  cfg.Petfinder.TokenBuffer,
		})
		if err != nil {
			return err
		}
		pf.SetObserver(m)
		defer pf.CloseIdleConnections()
		opts.Listing = pf
	} else {
		log.Warn("petfinder not configured, search and shelters disabled", nil)
	}

	geoCfg := google.Config{BaseURL: cfg.Geocoding.BaseURL, APIKey: cfg.Geocoding.APIKey, Timeout: cfg.Geocoding.Timeout}
	if geoCfg.IsConfigured() {
		geo := google.NewClient(geoCfg)
		geo.SetObserver(m)
		opts.Geocoder = geo
	}

	cldCfg := cloudinary.Config{
		BaseURL:   cfg.Cloudinary.BaseURL,
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
		Folder:    cfg.Cloudinary.Folder,
		Timeout:   cfg.Cloudinary.Timeout,
	}
	if cldCfg.IsConfigured() {
		cld, err := cloudinary.NewClient(cldCfg)
		if err != nil {
			return err
		}
		cld.SetObserver(m)
		opts.ImageHost = cld
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.NewRouter(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", map[string]any{"timeout": cfg.ShutdownTimeout.String()})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// tokenManager usa JWT_SECRET; sin él (solo fuera de producción) genera un
// secreto efímero por proceso.
func tokenManager(cfg config.Config, log logger.Logger) (*jwtauth.Manager, error) {
	if cfg.JWTSecret != "" {
		return jwtauth.New(cfg.JWTSecret, cfg.JWTTTL)
	}
	log.Warn("JWT_SECRET not set, using an ephemeral secret", nil)
	return jwtauth.NewEphemeral(cfg.JWTTTL)
}
