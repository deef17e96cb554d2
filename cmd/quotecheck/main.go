// quotecheck is a one-shot CLI: it resolves a token price, fetches the fee
// schedule for a route and prints it with affordability annotations. Useful
// for poking the collaborating services without running the full server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bridge_quoter/internal/client"
	"bridge_quoter/internal/domain/entity"
	"bridge_quoter/internal/feemath"
	"bridge_quoter/internal/infrastructure/configloader"
	"bridge_quoter/internal/infrastructure/tokenloader"
	"bridge_quoter/internal/pkg/logger"
	"bridge_quoter/internal/pkg/utils"
)

func main() {
	var (
		configPath  = flag.String("config", utils.GetEnv("CONFIG_PATH", "config/config.yaml"), "path to config file")
		symbol      = flag.String("token", "", "token symbol (required)")
		family      = flag.String("family", "evm", "chain family: evm or cosmos")
		fromChain   = flag.String("from", "", "source chain identifier (required)")
		toChain     = flag.String("to", "", "destination chain identifier (required)")
		amount      = flag.String("amount", "0", "bridge amount in token units")
		balance     = flag.String("balance", "0", "wallet balance in token units")
		manualPrice = flag.String("price", "", "manual unit price, used when the feed has no data")
	)
	flag.Parse()

	if *symbol == "" || *fromChain == "" || *toChain == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := configloader.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.New("warn")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	tokens, err := tokenloader.Load(cfg.TokenCatalogPath, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to load token catalog", zap.Error(err))
	}
	token, found := tokenloader.FindToken(tokens, *symbol, entity.ChainFamily(*family))
	if !found {
		fmt.Fprintf(os.Stderr, "Unknown token %s on family %s\n", *symbol, *family)
		os.Exit(1)
	}

	priceFeedClient := client.NewPriceFeedClient(
		cfg.PriceFeed.BaseURL,
		cfg.PriceFeed.APIKey,
		cfg.PriceFeed.VsCurrency,
		time.Duration(cfg.PriceFeed.RequestTimeoutMillis)*time.Millisecond,
		time.Duration(cfg.PriceFeed.CacheTTLMinutes)*time.Minute,
		cfg.PriceFeed.RequestsPerSecond,
		cfg.PriceFeed.MaxConcurrentPrefetch,
		zapLogger,
	)
	relayerFeeClient := client.NewRelayerFeeClient(
		cfg.Relayer.BaseURL,
		time.Duration(cfg.Relayer.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	unitPrice, err := priceFeedClient.FetchPrice(ctx, token)
	switch {
	case err == nil:
		fmt.Printf("Unit price (%s): %s %s\n", token.TokenSymbol(), unitPrice.String(), cfg.PriceFeed.VsCurrency)
	case errors.Is(err, entity.ErrPriceUnavailable) && *manualPrice != "":
		unitPrice, err = decimal.NewFromString(*manualPrice)
		if err != nil || !unitPrice.IsPositive() {
			fmt.Fprintf(os.Stderr, "Manual price %q is not a positive decimal\n", *manualPrice)
			os.Exit(1)
		}
		fmt.Printf("Unit price (%s, manual): %s %s\n", token.TokenSymbol(), unitPrice.String(), cfg.PriceFeed.VsCurrency)
	case errors.Is(err, entity.ErrPriceUnavailable):
		fmt.Fprintln(os.Stderr, "Price feed has no data for this token; pass -price to enter one manually")
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Price resolution failed: %v\n", err)
		os.Exit(1)
	}

	feeSet, err := relayerFeeClient.GetFees(ctx, *fromChain, *toChain, token, unitPrice)
	if err != nil {
		fmt.Fprintln(os.Stderr, entity.ClassifyFeeQuoteError(err))
		os.Exit(1)
	}
	if len(feeSet) == 0 {
		fmt.Println("No fee options available for this route.")
		return
	}

	disabled := feemath.DisabledFlags(feeSet, *amount, *balance)

	fmt.Printf("Fee options for %s -> %s:\n", *fromChain, *toChain)
	for i, opt := range feeSet {
		marker := " "
		if disabled[i] {
			marker = "x"
		}
		fmt.Printf("  [%s] %-12s %s %s (%s %s)\n",
			marker, opt.Label, opt.Amount.String(), opt.Denom, opt.FiatAmount.String(), cfg.PriceFeed.VsCurrency)
	}

	if bal, perr := feemath.ParseDecimal("balance", *balance); perr == nil {
		maxAmount := feemath.MaxBridgeAmount(bal, feeSet[0].Amount, int32(token.TokenDecimals()))
		fmt.Printf("Max bridgeable with %q fee: %s %s\n", feeSet[0].Label, maxAmount.String(), token.TokenSymbol())
	}
}
