package main

import (
	"errors"
	"fmt"
	"io"

	"image-optimizer/internal/domain/entities"
	"image-optimizer/internal/infrastructure/archive"
	"image-optimizer/internal/infrastructure/processor"
	"image-optimizer/internal/infrastructure/queue"
	"image-optimizer/internal/infrastructure/storage"
	"image-optimizer/internal/pkg/config"
	"image-optimizer/internal/pkg/logger"
	"image-optimizer/internal/usecases"
	apperr "image-optimizer/pkg/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimizer",
		Short: "Resize images and convert them to WebP",
		Long: `optimizer runs the same batch pipeline as the HTTP server on local files.

One successful image is written as a .webp file, several are bundled into a zip archive.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	cmd.AddCommand(newRunCmd())
	return cmd
}

type runOptions struct {
	width   int
	height  int
	out     string
	workers int
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Optimize the given image files",
		Example: `  # Default policy: max 1024px wide, never upscale
  optimizer run photo.jpg

  # Explicit width for every file, bundle into a custom archive
  optimizer run --width 640 --out thumbs.zip a.png b.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.width, "width", 0, "Target width for every file (allows upscaling)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "Target height for every file (allows upscaling)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output path (default <name>.webp or the archive name)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Worker count (default from config)")

	return cmd
}

func runOptimize(cmd *cobra.Command, paths []string, opts runOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if opts.workers > 0 {
		cfg.Optimizer.Workers = opts.workers
	}

	log, err := logger.New(cfg.Log.Level, "console")
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	files := storage.NewLocalStorage("")

	items, directives, err := loadItems(files, paths, opts)
	if err != nil {
		return err
	}

	imageProcessor, err := processor.NewImageProcessor(cfg.Optimizer.Quality)
	if err != nil {
		return err
	}
	pool := queue.NewWorkerPool(cfg.Optimizer.Workers, cfg.Optimizer.QueueSize, imageProcessor, log)
	defer pool.Shutdown()

	service := usecases.NewOptimizeService(pool,
		usecases.NewDirectiveResolver(cfg.Optimizer.DefaultWidth),
		archive.NewZipPackager(), cfg.Optimizer.MaxFiles, log)

	outcome, err := service.Optimize(cmd.Context(), items, directives)
	if err != nil {
		printFailures(cmd.ErrOrStderr(), err)
		return err
	}

	return writeOutcome(cmd.OutOrStdout(), files, outcome, opts.out, cfg.Optimizer.ArchiveName)
}

func loadItems(files *storage.LocalStorage, paths []string, opts runOptions) ([]entities.UploadedItem, []entities.ResizeDirective, error) {
	items := make([]entities.UploadedItem, 0, len(paths))
	var directives []entities.ResizeDirective

	for i, path := range paths {
		data, name, err := files.Load(path)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, entities.UploadedItem{Identifier: name, Bytes: data, DeclaredName: name})

		if opts.width > 0 || opts.height > 0 {
			d := entities.ResizeDirective{ID: i, Name: name}
			if opts.width > 0 {
				d.TargetWidth = &opts.width
			}
			if opts.height > 0 {
				d.TargetHeight = &opts.height
			}
			directives = append(directives, d)
		}
	}
	return items, directives, nil
}

func writeOutcome(w io.Writer, files *storage.LocalStorage, outcome *entities.BatchOutcome, out, archiveName string) error {
	var (
		path string
		data []byte
	)
	if single, ok := outcome.Single(); ok {
		path, data = single.Filename, single.EncodedBytes
	} else {
		path, data = archiveName, outcome.Archive
	}
	if out != "" {
		path = out
	}

	path, err := files.Save(path, data)
	if err != nil {
		return err
	}

	for _, r := range outcome.Results {
		fmt.Fprintf(w, "%s\t%dx%d\t%d bytes\n", r.Filename, r.Width, r.Height, r.ByteSize)
	}
	for _, f := range outcome.Failures {
		fmt.Fprintf(w, "%s\tFAILED\t%s\n", f.Identifier, f.Reason)
	}
	fmt.Fprintf(w, "wrote %s (%d bytes)\n", path, len(data))
	return nil
}

func printFailures(w io.Writer, err error) {
	var ae *apperr.AppError
	if !errors.As(err, &ae) {
		return
	}
	for _, f := range ae.Failures {
		fmt.Fprintf(w, "%s\tFAILED\t%s\n", f.Name, f.Error)
	}
}
