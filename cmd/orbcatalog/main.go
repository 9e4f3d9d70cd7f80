// Command orbcatalog builds cache artifacts from a directory of template
// images. Every sub-directory of -src is a category and every image in it a
// template named after the file.
//
//	orbcatalog -src ./templates -out ./cache -compress zstd
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hupe1980/orbmatch"
	"github.com/hupe1980/orbmatch/artifact"
	"github.com/hupe1980/orbmatch/blobstore"
	"github.com/hupe1980/orbmatch/blobstore/sqlite"
	"github.com/hupe1980/orbmatch/codec"
	"github.com/hupe1980/orbmatch/descriptor"
	"github.com/hupe1980/orbmatch/internal/extract"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "orbcatalog:", err)
		os.Exit(1)
	}
}

func run() error {
	src := flag.String("src", "", "Directory of template images, one sub-directory per category")
	out := flag.String("out", "", "Output directory for artifacts")
	sqlitePath := flag.String("sqlite", "", "Write artifacts into this SQLite database instead of -out")
	compress := flag.String("compress", "none", "Artifact compression: none, zstd or lz4")
	codecName := flag.String("codec", codec.Default.Name(), "Artifact codec: "+strings.Join(codec.Names(), " or "))
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if *src == "" || (*out == "") == (*sqlitePath == "") {
		flag.Usage()
		return errors.New("-src and exactly one of -out or -sqlite are required")
	}

	comp, err := artifact.ParseCompression(*compress)
	if err != nil {
		return err
	}
	cd, ok := codec.ByName(*codecName)
	if !ok {
		return fmt.Errorf("unknown codec %q", *codecName)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := orbmatch.NewTextLogger(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store blobstore.WritableStore
	if *sqlitePath != "" {
		db, err := sqlite.Open(*sqlitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		store = db
	} else {
		store = blobstore.NewLocalStore(*out)
	}

	ext := extract.New()
	defer ext.Close()

	return build(ctx, *src, artifact.NewWriter(store, artifact.WithCodec(cd), artifact.WithCompression(comp)), ext, logger)
}

func build(ctx context.Context, root string, w *artifact.Writer, ext *extract.Extractor, logger *orbmatch.Logger) error {
	cats, err := extract.Scan(root)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		return fmt.Errorf("no categories found under %s", root)
	}

	for _, cat := range cats {
		log := logger.WithCategory(cat.Name)

		a := &artifact.Artifact{
			TemplateNames:   make([]string, 0, len(cat.Images)),
			DescriptorsList: make([]string, 0, len(cat.Images)),
		}
		for _, img := range cat.Images {
			if err := ctx.Err(); err != nil {
				return err
			}

			c, err := ext.File(img.Path)
			if err != nil {
				log.WithTemplate(img.Name).Warn("skipping template", "error", err)
				continue
			}
			if len(c) == 0 {
				log.WithTemplate(img.Name).Warn("skipping template without keypoints")
				continue
			}
			log.WithTemplate(img.Name).Debug("extracted", "descriptors", len(c))

			a.TemplateNames = append(a.TemplateNames, img.Name)
			a.DescriptorsList = append(a.DescriptorsList, descriptor.Encode(c))
		}

		if err := w.Write(ctx, cat.Name, a); err != nil {
			return fmt.Errorf("write %s: %w", cat.Name, err)
		}
		log.Info("artifact written", "templates", a.Len())
	}
	return nil
}
