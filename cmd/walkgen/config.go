package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hupe1980/walkgen"
	"github.com/hupe1980/walkgen/graph"
)

// Config holds the parameters of one generation run.
type Config struct {
	Graph      string // graph blob name, or local path for the local store
	Output     string // shard prefix, or local directory for the local store
	Store      string // local, s3 or minio
	WalkLength int
	Epochs     int64
	BatchSize  int
	Node2Vec   bool
	P, Q       float64
	Directed   bool
	Weighted   bool
	WeightAttr string
	Seed       uint64
	Workers    int
	Capacity   int

	MemoryLimit int64
	RateLimit   float64

	Format      string
	Compression string
	ShardRows   int
	AsWords     bool

	RedisAddr   string
	RedisStream string
	RedisMaxLen int64

	S3Bucket       string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioSecure    bool

	LogLevel    slog.Level
	LogJSON     bool
	MetricsAddr string
}

// NewConfig returns a config with default parameters.
func NewConfig() *Config {
	return &Config{
		Output:      "walks",
		Store:       "local",
		WalkLength:  walkgen.DefaultWalkLength,
		Epochs:      5,
		BatchSize:   128,
		P:           1,
		Q:           1,
		Capacity:    walkgen.DefaultCapacity,
		Format:      "text",
		Compression: "none",
		ShardRows:   1 << 20,
		RedisStream: "walks",
		LogLevel:    slog.LevelInfo,
	}
}

// LoadEnv reads the variables of envFile (if it exists) into the process
// environment and applies every WALKGEN_* variable to c.
func (c *Config) LoadEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}

	var err error
	for _, item := range os.Environ() {
		keyVal := strings.SplitN(item, "=", 2)
		key, val := keyVal[0], keyVal[1]

		switch key {
		case "WALKGEN_GRAPH":
			c.Graph = val
		case "WALKGEN_OUTPUT":
			c.Output = val
		case "WALKGEN_STORE":
			c.Store = val
		case "WALKGEN_WALK_LENGTH":
			c.WalkLength, err = strconv.Atoi(val)
		case "WALKGEN_EPOCHS":
			c.Epochs, err = strconv.ParseInt(val, 10, 64)
		case "WALKGEN_BATCH_SIZE":
			c.BatchSize, err = strconv.Atoi(val)
		case "WALKGEN_NODE2VEC":
			c.Node2Vec, err = strconv.ParseBool(val)
		case "WALKGEN_P":
			c.P, err = strconv.ParseFloat(val, 64)
		case "WALKGEN_Q":
			c.Q, err = strconv.ParseFloat(val, 64)
		case "WALKGEN_DIRECTED":
			c.Directed, err = strconv.ParseBool(val)
		case "WALKGEN_WEIGHTED":
			c.Weighted, err = strconv.ParseBool(val)
		case "WALKGEN_WEIGHT_ATTR":
			c.WeightAttr = val
		case "WALKGEN_SEED":
			c.Seed, err = strconv.ParseUint(val, 10, 64)
		case "WALKGEN_WORKERS":
			c.Workers, err = strconv.Atoi(val)
		case "WALKGEN_CAPACITY":
			c.Capacity, err = strconv.Atoi(val)
		case "WALKGEN_MEMORY_LIMIT":
			c.MemoryLimit, err = strconv.ParseInt(val, 10, 64)
		case "WALKGEN_RATE_LIMIT":
			c.RateLimit, err = strconv.ParseFloat(val, 64)
		case "WALKGEN_FORMAT":
			c.Format = val
		case "WALKGEN_COMPRESSION":
			c.Compression = val
		case "WALKGEN_SHARD_ROWS":
			c.ShardRows, err = strconv.Atoi(val)
		case "WALKGEN_AS_WORDS":
			c.AsWords, err = strconv.ParseBool(val)
		case "WALKGEN_REDIS_ADDR":
			c.RedisAddr = val
		case "WALKGEN_REDIS_STREAM":
			c.RedisStream = val
		case "WALKGEN_REDIS_MAXLEN":
			c.RedisMaxLen, err = strconv.ParseInt(val, 10, 64)
		case "WALKGEN_S3_BUCKET":
			c.S3Bucket = val
		case "WALKGEN_MINIO_ENDPOINT":
			c.MinioEndpoint = val
		case "WALKGEN_MINIO_ACCESS_KEY":
			c.MinioAccessKey = val
		case "WALKGEN_MINIO_SECRET_KEY":
			c.MinioSecretKey = val
		case "WALKGEN_MINIO_SECURE":
			c.MinioSecure, err = strconv.ParseBool(val)
		case "WALKGEN_LOG_LEVEL":
			err = c.LogLevel.UnmarshalText([]byte(val))
		case "WALKGEN_LOG_JSON":
			c.LogJSON, err = strconv.ParseBool(val)
		case "WALKGEN_METRICS_ADDR":
			c.MetricsAddr = val
		}

		if err != nil {
			return fmt.Errorf("error parsing %s: %w", key, err)
		}
	}
	return nil
}

// BindFlags registers one flag per field, defaulting to the current values,
// so that flags given on the command line win over the environment.
func (c *Config) BindFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.Graph, "graph", c.Graph, "graph file (edge list or .graphml, optionally .gz/.zst/.lz4)")
	flags.StringVar(&c.Output, "output", c.Output, "output directory or blob prefix")
	flags.StringVar(&c.Store, "store", c.Store, "blob store for graph and output: local, s3 or minio")
	flags.IntVar(&c.WalkLength, "walk-length", c.WalkLength, "nodes per walk")
	flags.Int64Var(&c.Epochs, "epochs", c.Epochs, "passes over the start nodes")
	flags.IntVar(&c.BatchSize, "batch-size", c.BatchSize, "walks per batch")
	flags.BoolVar(&c.Node2Vec, "node2vec", c.Node2Vec, "use node2vec biased walks")
	flags.Float64Var(&c.P, "p", c.P, "node2vec return parameter")
	flags.Float64Var(&c.Q, "q", c.Q, "node2vec in-out parameter")
	flags.BoolVar(&c.Directed, "directed", c.Directed, "treat edges as directed")
	flags.BoolVar(&c.Weighted, "weighted", c.Weighted, `read edge weights (shorthand for -weight-attr "weight")`)
	flags.StringVar(&c.WeightAttr, "weight-attr", c.WeightAttr, "edge attribute holding the weight; setting it enables weighted walks")
	flags.Uint64Var(&c.Seed, "seed", c.Seed, "random seed")
	flags.IntVar(&c.Workers, "workers", c.Workers, "refill workers (0 = GOMAXPROCS)")
	flags.IntVar(&c.Capacity, "capacity", c.Capacity, "precomputed walks held in memory")
	flags.Int64Var(&c.MemoryLimit, "memory-limit", c.MemoryLimit, "byte limit for node2vec tables (0 = unlimited)")
	flags.Float64Var(&c.RateLimit, "rate-limit", c.RateLimit, "max batches per second (0 = unlimited)")
	flags.StringVar(&c.Format, "format", c.Format, "shard format: text or json")
	flags.StringVar(&c.Compression, "compression", c.Compression, "shard compression: none, gzip, zstd or lz4")
	flags.IntVar(&c.ShardRows, "shard-rows", c.ShardRows, "walks per output shard")
	flags.BoolVar(&c.AsWords, "as-words", c.AsWords, "write node labels instead of ids")
	flags.StringVar(&c.RedisAddr, "redis-addr", c.RedisAddr, "send batches to this Redis server instead of shards")
	flags.StringVar(&c.RedisStream, "redis-stream", c.RedisStream, "Redis stream name")
	flags.Int64Var(&c.RedisMaxLen, "redis-maxlen", c.RedisMaxLen, "approximate Redis stream cap (0 = none)")
	flags.StringVar(&c.S3Bucket, "bucket", c.S3Bucket, "bucket for the s3 and minio stores")
	flags.StringVar(&c.MinioEndpoint, "minio-endpoint", c.MinioEndpoint, "MinIO endpoint host:port")
	flags.TextVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
	flags.BoolVar(&c.LogJSON, "log-json", c.LogJSON, "log as JSON")
	flags.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "serve Prometheus metrics on this address")
}

// EdgeWeightAttr returns the weight attribute the graph is read with, or ""
// for an unweighted graph. Weighted alone selects graph.DefaultWeightAttr.
func (c *Config) EdgeWeightAttr() string {
	if c.WeightAttr == "" && c.Weighted {
		return graph.DefaultWeightAttr
	}
	return c.WeightAttr
}

// Validate reports configuration errors that the libraries would only
// detect late.
func (c *Config) Validate() error {
	if c.Graph == "" {
		return errors.New("no graph given (-graph or WALKGEN_GRAPH)")
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	switch c.Store {
	case "local":
	case "s3", "minio":
		if c.S3Bucket == "" {
			return fmt.Errorf("store %s needs a bucket (-bucket or WALKGEN_S3_BUCKET)", c.Store)
		}
		if c.Store == "minio" && c.MinioEndpoint == "" {
			return errors.New("store minio needs an endpoint (-minio-endpoint or WALKGEN_MINIO_ENDPOINT)")
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	return nil
}

// Print writes the effective configuration, without secrets.
func (c *Config) Print(w io.Writer) {
	fmt.Fprintln(w, "Config:")
	fmt.Fprintf(w, "  Graph: %s (store %s)\n", c.Graph, c.Store)
	fmt.Fprintf(w, "  WalkLength: %d\n", c.WalkLength)
	fmt.Fprintf(w, "  Epochs: %d\n", c.Epochs)
	fmt.Fprintf(w, "  BatchSize: %d\n", c.BatchSize)
	if c.Node2Vec {
		fmt.Fprintf(w, "  Policy: node2vec (p=%g, q=%g)\n", c.P, c.Q)
	} else {
		fmt.Fprintln(w, "  Policy: uniform")
	}
	if attr := c.EdgeWeightAttr(); attr != "" {
		fmt.Fprintf(w, "  Directed: %t, Weighted: %s\n", c.Directed, attr)
	} else {
		fmt.Fprintf(w, "  Directed: %t, Weighted: false\n", c.Directed)
	}
	fmt.Fprintf(w, "  Seed: %d\n", c.Seed)
	if c.RedisAddr != "" {
		fmt.Fprintf(w, "  Output: redis %s stream %s\n", c.RedisAddr, c.RedisStream)
	} else {
		fmt.Fprintf(w, "  Output: %s (%s, %s)\n", c.Output, c.Format, c.Compression)
	}
}
