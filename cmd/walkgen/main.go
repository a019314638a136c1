// Command walkgen generates random walks over a graph and writes them to
// compressed shards in a blob store or to a Redis stream.
//
//	walkgen -graph karate.txt.gz -epochs 10 -walk-length 80 -node2vec -p 0.5 -q 2 -output out
//
// Every flag can also be set through a WALKGEN_* environment variable or a
// .env file in the working directory; flags win.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hupe1980/walkgen"
	"github.com/hupe1980/walkgen/blobstore"
	minioblob "github.com/hupe1980/walkgen/blobstore/minio"
	s3blob "github.com/hupe1980/walkgen/blobstore/s3"
	"github.com/hupe1980/walkgen/graph"
	"github.com/hupe1980/walkgen/internal/compress"
	walkprom "github.com/hupe1980/walkgen/metrics/prometheus"
	"github.com/hupe1980/walkgen/sink"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "walkgen:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg := NewConfig()
	if err := cfg.LoadEnv(envFile()); err != nil {
		return err
	}

	flags := flag.NewFlagSet("walkgen", flag.ContinueOnError)
	cfg.BindFlags(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.Print(stdout)

	logger := walkgen.NewTextLogger(cfg.LogLevel)
	if cfg.LogJSON {
		logger = walkgen.NewJSONLogger(cfg.LogLevel)
	}
	logger = logger.WithGraph(cfg.Graph)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	g, err := loadGraph(ctx, cfg, store)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", cfg.Graph, err)
	}

	opts := []walkgen.Option{
		walkgen.WithWalkLength(cfg.WalkLength),
		walkgen.WithSeed(cfg.Seed),
		walkgen.WithCapacity(cfg.Capacity),
		walkgen.WithMemoryLimit(cfg.MemoryLimit),
		walkgen.WithRateLimit(cfg.RateLimit),
		walkgen.WithLogger(logger),
	}
	if cfg.Workers > 0 {
		opts = append(opts, walkgen.WithWorkers(cfg.Workers))
	}
	if cfg.Node2Vec {
		opts = append(opts, walkgen.WithNode2Vec(cfg.P, cfg.Q))
	}

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		mc, err := walkprom.NewCollector(reg, "walkgen")
		if err != nil {
			return err
		}
		opts = append(opts, walkgen.WithMetricsCollector(mc))

		srv := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	gen, err := walkgen.New(ctx, g, opts...)
	if err != nil {
		return err
	}
	defer gen.Close()

	sk, closeSink, err := openSink(ctx, cfg, store, gen.Labels(), logger)
	if err != nil {
		return err
	}
	defer closeSink()

	start := time.Now()
	runErr := gen.Run(ctx, cfg.Epochs, cfg.BatchSize, sk.Write)
	if err := sk.Close(ctx); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	s := gen.Stats()
	logger.InfoContext(ctx, "generation finished",
		"walks", s.Total,
		"epochs", s.Epoch,
		"duration", time.Since(start),
	)
	fmt.Fprintf(stdout, "Wrote %d walks (%d epochs over %d start nodes)\n", s.Total, s.Epoch, s.ValidNodes)
	return nil
}

func envFile() string {
	if f, ok := os.LookupEnv("WALKGEN_ENV_FILE"); ok {
		return f
	}
	return ".env"
}

// openStore returns the remote store for s3 and minio, or nil for local files.
func openStore(ctx context.Context, cfg *Config) (blobstore.BlobStore, error) {
	switch cfg.Store {
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return s3blob.NewStore(s3.NewFromConfig(awsCfg), cfg.S3Bucket, ""), nil
	case "minio":
		client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
			Secure: cfg.MinioSecure,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return minioblob.NewStore(client, cfg.S3Bucket, ""), nil
	default:
		return nil, nil
	}
}

func loadGraph(ctx context.Context, cfg *Config, store blobstore.BlobStore) (*graph.Graph, error) {
	opts := []graph.ReadOption{
		graph.WithDirected(cfg.Directed),
		graph.WithWeightAttr(cfg.EdgeWeightAttr()),
	}
	if store == nil {
		return graph.LoadFile(ctx, cfg.Graph, opts...)
	}
	return graph.Load(ctx, store, cfg.Graph, opts...)
}

// openSink returns the configured sink and a cleanup func for the resources
// behind it.
func openSink(ctx context.Context, cfg *Config, store blobstore.BlobStore, labels []string, logger *walkgen.Logger) (sink.Sink, func(), error) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}

		s, err := sink.NewRedisSink(client, cfg.RedisStream, func(o *sink.RedisOptions) {
			o.MaxLen = cfg.RedisMaxLen
			o.AsWords = cfg.AsWords
		})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return s, func() { _ = client.Close() }, nil
	}

	format, err := sink.ParseFormat(cfg.Format)
	if err != nil {
		return nil, nil, err
	}
	kind, err := compress.Parse(cfg.Compression)
	if err != nil {
		return nil, nil, err
	}

	prefix := cfg.Output
	if store == nil {
		store, prefix = blobstore.NewLocalStore(cfg.Output), ""
	}

	s, err := sink.NewBlobSink(store, prefix, func(o *sink.BlobOptions) {
		o.Format = format
		o.Compression = kind
		o.ShardRows = cfg.ShardRows
		o.AsWords = cfg.AsWords
		o.Workers = max(1, cfg.Workers)
	})
	if err != nil {
		return nil, nil, err
	}

	name, err := s.WriteVocabulary(ctx, labels)
	if err != nil {
		return nil, nil, err
	}
	logger.InfoContext(ctx, "vocabulary written", "blob", name, "labels", len(labels))

	return s, func() {}, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *walkgen.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	return srv
}
