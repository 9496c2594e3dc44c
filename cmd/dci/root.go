package main

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/dci/binfmt"
	"github.com/hupe1980/dci/blobstore"
	"github.com/hupe1980/dci/diag"
	"github.com/hupe1980/dci/resource"
	"github.com/hupe1980/dci/store"
)

type globalFlags struct {
	dir         string
	bolt        string
	logLevel    string
	workers     int
	compression string
	cacheBytes  int64
}

// app holds the store opened for one command.
type app struct {
	out   io.Writer
	store *store.Store
	close func() error
}

func (g *globalFlags) open(out io.Writer) (*app, error) {
	level, err := parseLevel(g.logLevel)
	if err != nil {
		return nil, err
	}
	compression, err := parseCompression(g.compression)
	if err != nil {
		return nil, err
	}

	var (
		bs      blobstore.BlobStore
		closeFn = func() error { return nil }
	)
	if g.bolt != "" {
		b, err := blobstore.OpenBoltStore(g.bolt)
		if err != nil {
			return nil, err
		}
		bs, closeFn = b, b.Close
	} else {
		bs = blobstore.NewLocalStore(g.dir)
	}

	rc := resource.NewController(resource.Config{MaxWorkers: int64(g.workers)})
	if g.cacheBytes > 0 {
		bs = blobstore.NewCachingStore(bs, g.cacheBytes, rc)
	}

	s := store.New(bs,
		store.WithLogger(diag.NewTextLogger(level)),
		store.WithController(rc),
		store.WithCompression(compression),
	)
	return &app{out: out, store: s, close: closeFn}, nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "dci",
		Short:         "Inspect and convert dci table stores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&g.dir, "dir", ".", "Directory of the table store")
	root.PersistentFlags().StringVar(&g.bolt, "bolt", "", "Use a bbolt database file instead of a directory")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "error", "Log level (debug, info, warn, error)")
	root.PersistentFlags().IntVar(&g.workers, "workers", runtime.NumCPU(), "Maximum concurrent table operations")
	root.PersistentFlags().StringVar(&g.compression, "compression", "none", "Compression of written tables (none, lz4, zstd)")
	root.PersistentFlags().Int64Var(&g.cacheBytes, "cache-bytes", 0, "Cache up to this many bytes of table data in memory (0 disables)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dci v%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "format version: 0x%08x\n", binfmt.Version)
		},
	})
	root.AddCommand(
		newListCmd(g),
		newInfoCmd(g),
		newDumpCmd(g),
		newImportCmd(g),
		newConvertCmd(g),
		newRemoveCmd(g),
	)
	return root
}

// withApp opens the store for the duration of fn.
func withApp(g *globalFlags, cmd *cobra.Command, fn func(*app) error) (err error) {
	a, err := g.open(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func parseCompression(s string) (binfmt.Compression, error) {
	for _, c := range []binfmt.Compression{binfmt.CompressionNone, binfmt.CompressionLZ4, binfmt.CompressionZSTD} {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown compression %q", s)
}
