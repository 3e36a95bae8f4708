package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fhuszti/talkcart-medias-go/internal/cache"
	"github.com/fhuszti/talkcart-medias-go/internal/config"
	"github.com/fhuszti/talkcart-medias-go/internal/db"
	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/normaliser"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
	mongoRepo "github.com/fhuszti/talkcart-medias-go/internal/repository/mongo"
	"github.com/fhuszti/talkcart-medias-go/internal/resolver"
	mediaSvc "github.com/fhuszti/talkcart-medias-go/internal/usecase/media"
)

func newRootCmd() *cobra.Command {
	var apply, yes bool

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Rewrite stored media references whose local file moved or vanished",
		Long: "Scans posts and messages for media stored under the upload prefix and\n" +
			"points each reference at the file that actually exists on disk.\n" +
			"Without --apply nothing is written.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			if cfg.MongoURI == "" {
				return fmt.Errorf("MONGO_URI must be set to repair references")
			}

			database, err := db.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
			if err != nil {
				return fmt.Errorf("connect to db: %w", err)
			}
			defer func() {
				if err := database.Close(ctx); err != nil {
					logger.Warnf(ctx, "DB close error: %v", err)
				}
			}()

			res, err := resolver.New(resolver.Config{
				Root:                cfg.UploadDir,
				Placeholders:        cfg.FallbackPlaceholders,
				MinPlaceholderBytes: cfg.FallbackMinBytes,
				KnownMissing:        cfg.KnownMissingFiles,
			})
			if err != nil {
				return err
			}
			norm := normaliser.New(normaliser.Config{
				BaseOrigin: cfg.PublicBaseURL,
				PathPrefix: cfg.PathPrefix,
				Namespace:  cfg.Namespace,
				DevHosts:   cfg.DevHosts,
			})

			var ca port.Cache = cache.NewNoop()
			if cfg.RedisAddr != "" {
				redisCache := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
				defer func() { _ = redisCache.Close() }()
				ca = redisCache
			}

			svc := mediaSvc.NewReferenceRepairer(mongoRepo.NewDocumentRepository(database.Database), res, norm, ca)
			in := port.RepairInput{Apply: apply}
			if apply {
				in.Confirm = confirmer(cmd.InOrStdin(), cmd.ErrOrStderr(), yes)
			}

			report, err := svc.RepairReferences(ctx, in)
			if err != nil {
				return err
			}
			if err := writeReport(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if report.Aborted {
				return errAborted
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d documents could not be updated", report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "write the corrections (default is a dry run)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	cmd.AddCommand(newExtensionsCmd())
	return cmd
}

func newExtensionsCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "extensions",
		Short: "Add a file extension to extensionless uploads based on their content",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			dir := filepath.Join(cfg.UploadDir, cfg.Namespace)
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("upload directory: %w", err)
			}

			report, err := mediaSvc.NewExtensionFixer(dir).FixExtensions(cmd.Context(), port.FixExtensionsInput{Apply: apply})
			if err != nil {
				return err
			}
			if err := writeReport(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d files could not be renamed", report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "rename the files (default is a dry run)")
	return cmd
}

func writeReport(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
