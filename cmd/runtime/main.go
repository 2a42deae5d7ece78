package main

import (
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/swap-optimizer/internal/aggregator"
	"github.com/hxuan190/swap-optimizer/internal/common"
	"github.com/hxuan190/swap-optimizer/internal/config"
	"github.com/hxuan190/swap-optimizer/internal/http"
)

// @title Swap Optimizer API
// @version 1.0
// @description Fill modeling and path optimization for swaps across AMM, order book and RFQ liquidity.
// @description
// @description ## - Features
// @description - **Source mixing**: Splits an order across DEX curves and native orders after gas penalties
// @description - **Two-hop routing**: Compares the best direct mix with routes through an intermediate token
// @description - **Fallback paths**: Appends DEX liquidity behind native orders that may fail on chain
// @description - **Quote reports**: Records every source considered and delivered per request
// @description
// @description ## - Usage Tips
// @description - Amounts are base units of the respective token
// @description - For a sell the input is the taker token; for a buy it is the maker token
// @description - Rate Limit: 10 requests/second (burst: 20)
// @BasePath /
// @schemes https http
// @tag.name optimize
// @tag.description Optimise a swap over a sampled liquidity snapshot
// @tag.name reports
// @tag.description Quote reports of past optimisations

type service interface {
	ID() string
	Configure() error
	Start() error
	Stop() error
}

func main() {
	// load env; a missing .env is fine, variables may come from the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Error().Err(err).Msg("failed to load env")
		return
	}

	generalConf := &config.GeneralConfig{}
	optimizerConf := &config.OptimizerConfig{}
	reportConf := &config.ReportConfig{}
	if err := config.LoadAll(generalConf, optimizerConf, reportConf); err != nil {
		log.Error().Err(err).Msg("failed to load config")
		return
	}

	level, _ := generalConf.Level()
	zerolog.SetGlobalLevel(level)

	common.InitRuntime()

	aggregatorSvc := aggregator.NewService(optimizerConf, reportConf)
	httpSvc := http.NewHTTPService(generalConf, aggregatorSvc)
	services := []service{aggregatorSvc, httpSvc}

	for _, svc := range services {
		if err := svc.Configure(); err != nil {
			log.Error().Err(err).Str("service", svc.ID()).Msg("failed to configure service")
			return
		}
	}

	if err := aggregatorSvc.Start(); err != nil {
		log.Error().Err(err).Msg("failed to start aggregator service")
		return
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSvc.Start()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("Shutting down services...")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	// Stop in reverse start order
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Stop(); err != nil {
			log.Error().Err(err).Str("service", services[i].ID()).Msg("error during shutdown")
		}
	}
	log.Info().Msg("Shutdown complete")
}
