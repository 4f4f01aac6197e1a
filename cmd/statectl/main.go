package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/persistate/persistate/storage"
	"github.com/persistate/persistate/storage/remote"
)

func main() {
	var (
		driver  = flag.String("store", "memory", "Store driver: memory, file, or sqlite")
		path    = flag.String("path", "", "File store root directory (file driver)")
		dsn     = flag.String("dsn", "", "Database path (sqlite driver)")
		url     = flag.String("url", "", "Remote store base URL (overrides -store)")
		addr    = flag.String("addr", ":8080", "Listen address for the serve command")
		verbose = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: statectl [flags] <keys|get|set|del|serve> [args]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  keys             List all stored keys")
		fmt.Fprintln(os.Stderr, "  get <key>        Print the value stored under key")
		fmt.Fprintln(os.Stderr, "  set <key> <val>  Store a value under key ('-' reads stdin)")
		fmt.Fprintln(os.Stderr, "  del <key>        Delete the value stored under key")
		fmt.Fprintln(os.Stderr, "  serve            Serve the store over HTTP at -addr")
		fmt.Fprintln(os.Stderr, "")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, *driver, *path, *dsn, *url, *addr, flag.Args()); err != nil {
		log.Fatalf("statectl: %v", err)
	}
}

func run(ctx context.Context, logger *slog.Logger, driver, path, dsn, url, addr string, args []string) error {
	store, closeStore, err := openStore(driver, path, dsn, url)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer closeStore()

	switch cmd := args[0]; cmd {
	case "keys":
		return listKeys(ctx, store)
	case "get":
		if len(args) != 2 {
			return errors.New("usage: statectl get <key>")
		}
		return getValue(ctx, store, args[1])
	case "set":
		if len(args) != 3 {
			return errors.New("usage: statectl set <key> <value>")
		}
		return setValue(ctx, store, args[1], args[2])
	case "del":
		if len(args) != 2 {
			return errors.New("usage: statectl del <key>")
		}
		return deleteValue(ctx, store, args[1])
	case "serve":
		return serve(ctx, logger, store, addr)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func openStore(driver, path, dsn, url string) (storage.Store, func(), error) {
	noop := func() {}

	if url != "" {
		return remote.NewClient(url), noop, nil
	}

	switch driver {
	case "memory":
		return storage.NewMemoryStore(), noop, nil
	case "file":
		if path == "" {
			return nil, noop, errors.New("file driver requires -path")
		}
		return storage.NewFileStore(path), noop, nil
	case "sqlite":
		if dsn == "" {
			return nil, noop, errors.New("sqlite driver requires -dsn")
		}
		store, err := storage.NewSQLiteStore(dsn)
		if err != nil {
			return nil, noop, err
		}
		return store, func() { store.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown driver: %s", driver)
	}
}

func listKeys(ctx context.Context, store storage.Store) error {
	keys, err := store.Keys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}

func getValue(ctx context.Context, store storage.Store, key string) error {
	data, ok, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("key not found: %s", key)
	}
	fmt.Printf("%s\n", data)
	return nil
}

func setValue(ctx context.Context, store storage.Store, key, value string) error {
	data := []byte(value)
	if value == "-" {
		stdin, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		data = stdin
	}

	if err := store.Set(ctx, key, data); err != nil {
		return err
	}
	fmt.Printf("stored %s (%d bytes)\n", key, len(data))
	return nil
}

func deleteValue(ctx context.Context, store storage.Store, key string) error {
	if err := store.Delete(ctx, key); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", key)
	return nil
}

func serve(ctx context.Context, logger *slog.Logger, store storage.Store, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(remote.NewHandler(store))

	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		server.Shutdown(context.Background())
	}()

	logger.Info("serving store", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
