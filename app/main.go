package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Guyuepp/knowledge-base/internal/auth"
	"github.com/Guyuepp/knowledge-base/internal/config"
	"github.com/Guyuepp/knowledge-base/internal/push"
	"github.com/Guyuepp/knowledge-base/internal/rest"
	"github.com/Guyuepp/knowledge-base/internal/rest/middleware"
	"github.com/Guyuepp/knowledge-base/internal/rest/request"
	"github.com/Guyuepp/knowledge-base/internal/storage"
	"github.com/Guyuepp/knowledge-base/internal/usecase/comment"
	"github.com/Guyuepp/knowledge-base/internal/usecase/commit"
	"github.com/Guyuepp/knowledge-base/internal/usecase/post"
	"github.com/Guyuepp/knowledge-base/internal/usecase/tag"
	"github.com/Guyuepp/knowledge-base/internal/usecase/user"
	"github.com/Guyuepp/knowledge-base/internal/usecase/vote"
	"github.com/Guyuepp/knowledge-base/internal/workers"
)

type options struct {
	storage     string
	departments []string
	autoMigrate bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "app",
		Short:         "Department knowledge base API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.storage, "storage", "", "override DATABASE_DRIVER (mysql, postgres or memory)")
	root.PersistentFlags().StringArrayVar(&opts.departments, "department", nil, "department to seed, repeatable")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}
	serveCmd.Flags().BoolVar(&opts.autoMigrate, "migrate", false, "apply schema migrations before serving")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and seed departments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate(cmd.Context(), opts)
		},
	}

	root.AddCommand(serveCmd, migrateCmd)
	return root
}

func loadConfig(opts *options) (config.Config, error) {
	cfg := config.Load()
	if opts.storage != "" {
		cfg.Database.Driver = opts.storage
	}
	cfg.ConfigureLogger()
	return cfg, cfg.Validate()
}

func migrate(ctx context.Context, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if cfg.Database.Driver == "memory" {
		logrus.Info("memory storage needs no migration")
		return nil
	}
	b, err := openBackends(ctx, cfg, opts.departments, true)
	if err != nil {
		logrus.Errorf("migration failed: %v", err)
		return err
	}
	defer b.Close()
	logrus.Infof("schema migrated on %s", cfg.Database.Driver)
	return nil
}

func serve(parent context.Context, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		logrus.Errorf("invalid configuration: %v", err)
		return err
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg, opts.departments, opts.autoMigrate)
	if err != nil {
		logrus.Errorf("failed to prepare storage: %v", err)
		return err
	}
	defer b.Close()

	request.RegisterValidators()

	// Start worker
	hub := push.NewHub()
	notifier := workers.NewNotifyWorker(hub, cfg.NotifyQueueSize)
	go notifier.Start(ctx)

	// Build service Layer
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer)
	attachments := storage.NewLocal(cfg.UploadDir, cfg.UploadURLPrefix, storage.AttachmentsDir)
	avatars := storage.NewLocal(cfg.UploadDir, cfg.UploadURLPrefix, storage.AvatarsDir)

	commitSvc := commit.NewService(b.commits, b.managers, notifier)
	tagSvc := tag.NewService(b.tags)
	voteSvc := vote.NewService(b.votes, b.posts, b.comments, b.cache)
	postSvc := post.NewService(post.Deps{
		Posts:       b.posts,
		Users:       b.users,
		Departments: b.departments,
		Tags:        b.tags,
		Attachments: b.attachments,
		Cache:       b.cache,
		Bloom:       b.bloom,
		Files:       attachments,
		TagService:  tagSvc,
		Commits:     commitSvc,
	})
	commentSvc := comment.NewService(b.comments, b.posts, b.users, b.bloom, b.cache, voteSvc, commitSvc)
	userSvc := user.NewService(user.Deps{
		Users:       b.users,
		Departments: b.departments,
		Managers:    b.managers,
		Posts:       b.posts,
		Cache:       b.cache,
		Avatars:     avatars,
		Tokens:      tokens,
	})

	// Prepare bloom filter
	if err := postSvc.InitBloomFilter(ctx); err != nil {
		logrus.Errorf("failed to init bloom filter: %v", err)
		return err
	}

	// prepare gin
	route := gin.Default()
	route.Use(middleware.CORS(splitOrigins(cfg.AllowedOriginsCORS)))
	route.Use(middleware.SetRequestContextWithTimeout(cfg.ContextTimeout))
	route.Static(cfg.UploadURLPrefix, cfg.UploadDir)

	rest.RegisterRoutes(route, rest.Handlers{
		Posts:    rest.NewPostHandler(postSvc),
		Comments: rest.NewCommentHandler(commentSvc),
		Votes:    rest.NewVoteHandler(voteSvc),
		Users:    rest.NewUserHandler(userSvc),
		Tags:     rest.NewTagHandler(tagSvc),
		Commits:  rest.NewCommitHandler(commitSvc),
		WS:       rest.NewWSHandler(hub),
	}, tokens)

	// Start Server
	srv := &http.Server{
		Addr:    cfg.Address,
		Handler: route,
	}
	serveErr := make(chan error, 1)
	go func() {
		logrus.Infof("Server is running on %s", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// shutdown
	select {
	case <-ctx.Done():
		logrus.Info("Shutdown signal received, stopping server...")
	case err := <-serveErr:
		logrus.Errorf("listen: %v", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logrus.Info("Waiting for worker to cleanup...")
	time.Sleep(2 * time.Second)

	logrus.Info("Server exiting")
	return nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
