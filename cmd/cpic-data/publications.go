// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/cpic-data/internal/cpicapi"
	"github.com/pdiddy/cpic-data/internal/filestore"
	"github.com/pdiddy/cpic-data/internal/history"
	"github.com/pdiddy/cpic-data/internal/publications"
	"github.com/pdiddy/cpic-data/pkg/types"
)

const archiveDirPattern = "cpic_information_%s"

var publicationsCmd = &cobra.Command{
	Use:   "publications",
	Short: "Write the guideline publication list to publications.json",
	Long: `Publications fetches every CPIC guideline with its publications from the
API's /guideline collection, ordered by name, and writes the response as
indented JSON to publications.json in the output directory. The directory
must already exist.

With --archive the file goes into a dated cpic_information_YYYY-MM-DD
subdirectory instead. With --upload the written file is also pushed to
the configured object store.`,
	RunE: runPublications,
}

func init() {
	f := publicationsCmd.Flags()
	f.String("dir", "", "existing directory to write publications.json to (default .)")
	f.Bool("archive", false, "write into a dated cpic_information_YYYY-MM-DD subdirectory")
	f.Bool("upload", false, "upload the written file to the object store")
	f.String("transport-errors", "", "transport failure handling: report or ignore (default report)")
	f.Duration("timeout", 0, "HTTP request timeout (default none)")
	f.String("api-base-url", "", "CPIC API base URL")

	mustBind("publications.dir", f.Lookup("dir"))
	mustBind("publications.archive", f.Lookup("archive"))
	mustBind("publications.upload", f.Lookup("upload"))
	mustBind("publications.transport_errors", f.Lookup("transport-errors"))
	mustBind("http.timeout", f.Lookup("timeout"))
	mustBind("api.base_url", f.Lookup("api-base-url"))

	rootCmd.AddCommand(publicationsCmd)
}

func runPublications(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	return fetchPublications(cmd.Context(), cfg, logger, cmd.OutOrStdout())
}

// fetchPublications runs one fetch with cfg and reports the outcome on w.
func fetchPublications(ctx context.Context, cfg types.Config, log *zap.Logger, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	pc := cfg.Publications

	dir := pc.Dir
	if pc.Archive {
		var err error
		if dir, err = archiveDir(dir, time.Now(), log); err != nil {
			return err
		}
	}

	opts := []publications.Option{
		publications.WithHTTPClient(&http.Client{Timeout: pc.Timeout}),
		publications.WithLogger(log),
		publications.WithUserAgent(pc.UserAgent),
		publications.WithTransportErrors(pc.TransportErrors),
	}

	var ledger *history.Store
	if cfg.History.DBPath != "" {
		s, err := history.Open(cfg.History.DBPath)
		if err != nil {
			return err
		}
		defer s.Close()
		ledger = s
		opts = append(opts, publications.WithRecorder(ledger))
	}

	fetcher := publications.New(cpicapi.NewResolver(cfg.API.BaseURL), opts...)
	res, err := fetcher.Fetch(ctx, dir)
	if err != nil {
		return err
	}
	if res.Skipped {
		fmt.Fprintf(w, "skipped: %s (transport failure ignored)\n", res.URL)
		return nil
	}
	fmt.Fprintf(w, "wrote: %s (%d guidelines, %d publications)\n", res.Path, res.Guidelines, res.Publications)

	if !pc.Upload {
		return nil
	}

	storeOpts := []filestore.Option{filestore.WithLogger(log)}
	if ledger != nil {
		storeOpts = append(storeOpts, filestore.WithRecorder(ledger))
	}
	store, err := filestore.New(cfg.ObjectStore, storeOpts...)
	if err != nil {
		return err
	}
	up, err := store.PutArtifact(ctx, res.Path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "uploaded: %s\n", up.PublicURL)
	return nil
}

// archiveDir returns the dated archive directory under base, creating it
// if needed. base itself must already exist.
func archiveDir(base string, now time.Time, log *zap.Logger) (string, error) {
	info, err := os.Stat(base)
	if err != nil {
		return "", fmt.Errorf("archive base directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", base)
	}

	dir := filepath.Join(base, fmt.Sprintf(archiveDirPattern, now.Format("2006-01-02")))
	if _, err := os.Stat(dir); err == nil {
		log.Info("using existing directory", zap.String("dir", dir))
		return dir, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	log.Info("created new directory", zap.String("dir", dir))
	return dir, nil
}
