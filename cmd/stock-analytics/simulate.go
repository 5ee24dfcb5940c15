package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/analytics"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/config"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/infrastructure/kafka"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/infrastructure/redis"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/ingestor"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/logger"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/mockdata"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/pipeline"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/publisher"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/registry"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/interfaces"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
	"github.com/spf13/cobra"
)

const ingestWorkers = 4

type simulateFlags struct {
	registry string
	trades   int
	seed     int64
}

func simulateCmd() *cobra.Command {
	flags := &simulateFlags{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate synthetic trades and report analytics for every stock",
		Long: `simulate records a reproducible batch of synthetic trades spread over the
VWSP window, prints a per-stock report with the All Share Index and, when
Redis or Kafka are configured, publishes the snapshot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.registry, "registry", "", "stock registry YAML (defaults to REGISTRY_PATH, then the built-in GBCE sample)")
	cmd.Flags().IntVar(&flags.trades, "trades", 0, "number of trades to generate (defaults to SIM_TRADES)")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "random seed (defaults to SIM_SEED)")

	return cmd
}

func runSimulate(cmd *cobra.Command, flags *simulateFlags) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := logger.New()
	defer log.Sync()

	stopDebug := startDebugServer(debugAddr, log)
	defer stopDebug()

	cfg, err := config.LoadConfig(nil, log)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("registry") {
		cfg.RegistryPath = flags.registry
	}
	if cmd.Flags().Changed("trades") {
		cfg.SimTrades = flags.trades
	}
	if cmd.Flags().Changed("seed") {
		cfg.SimSeed = flags.seed
	}

	stocks, err := loadStocks(cfg, log)
	if err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	book := analytics.NewTradeBook(
		analytics.WithClock(clock),
		analytics.WithWindow(cfg.VWSPWindow),
		analytics.WithDiagnostics(log.Diagnostic),
	)

	genConfig := mockdata.DefaultConfig(stocks)
	genConfig.Trades = cfg.SimTrades
	genConfig.Seed = cfg.SimSeed
	genConfig.Window = cfg.VWSPWindow

	p := &pipeline.Pipeline{
		Book:      book,
		Stocks:    stocks,
		Generator: mockdata.NewGenerator(genConfig, clock, log),
		Ingestor:  ingestor.NewTradeIngestor(book, ingestWorkers, log),
		ChanBuff:  cfg.SnapshotChanBuff,
		Out:       cmd.OutOrStdout(),
		Logger:    log,
	}

	if cfg.PublishEnabled() {
		pub, prod, err := connectSinks(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := pub.Close(); err != nil {
				log.Error("error closing redis clients", logger.Error(err))
			}
		}()
		p.Publisher = pub
		p.Producer = prod
	}

	snapshot, err := p.Run(ctx)
	if err != nil {
		return err
	}

	log.Info("simulation finished",
		logger.String("snapshot_id", snapshot.ID),
		logger.Int("stocks", len(snapshot.Stocks)),
		logger.Bool("index_available", snapshot.AllShareIndex != nil))
	return nil
}

func loadStocks(cfg *config.Config, log *logger.Logger) ([]*marketdata.Stock, error) {
	reg := registry.GBCE()
	if cfg.RegistryPath != "" {
		loaded, err := registry.LoadFile(cfg.RegistryPath)
		if err != nil {
			log.Error("failed to load registry", logger.String("path", cfg.RegistryPath), logger.Error(err))
			return nil, err
		}
		reg = loaded
	}
	log.Info("registry loaded", logger.Strings("symbols", reg.Symbols()))

	if len(cfg.SimSymbols) == 0 {
		return reg.Stocks(), nil
	}

	stocks := make([]*marketdata.Stock, 0, len(cfg.SimSymbols))
	for _, symbol := range cfg.SimSymbols {
		stock, ok := reg.Get(symbol)
		if !ok {
			return nil, fmt.Errorf("symbol %s is not in the registry", symbol)
		}
		stocks = append(stocks, stock)
	}
	return stocks, nil
}

// connectSinks leaves a sink nil when it is not configured.
func connectSinks(ctx context.Context, cfg *config.Config, log *logger.Logger) (*publisher.SnapshotPublisher, interfaces.SnapshotProducer, error) {
	var (
		cache  interfaces.CacheClient
		pubsub interfaces.PubsubClient
		prod   interfaces.SnapshotProducer
	)

	if cfg.RedisCacheEnabled() {
		client, err := redis.NewRedisCacheClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		cache = client
	}

	if cfg.RedisPubsubEnabled() {
		client, err := redis.NewRedisPubsubClient(ctx, cfg)
		if err != nil {
			if cache != nil {
				cache.Close()
			}
			return nil, nil, err
		}
		pubsub = client
	}

	pub := publisher.NewSnapshotPublisher(cache, pubsub, log)

	if cfg.KafkaEnabled() {
		client, err := kafka.NewKafkaSyncProducer(cfg)
		if err != nil {
			pub.Close()
			return nil, nil, err
		}
		prod = client
	}

	return pub, prod, nil
}
