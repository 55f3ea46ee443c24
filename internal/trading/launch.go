package trading

import (
	"context"
	"fmt"

	"pump-launchpad/internal/curve"
	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/idhash"
	"pump-launchpad/internal/observability"
	"pump-launchpad/internal/solana"
)

// LaunchRequest describes a market to create.
type LaunchRequest struct {
	Mint    string
	Creator string
	Params  domain.CurveParameters
}

// CreateMarket validates the curve parameters and addresses, seeds the
// reserves with the initial supply and persists the new market.
func (e *Executor) CreateMarket(ctx context.Context, req LaunchRequest) (*domain.Market, error) {
	if err := solana.ValidateMint(req.Mint); err != nil {
		return nil, fmt.Errorf("mint: %w", err)
	}
	if err := solana.ValidateWallet(req.Creator); err != nil {
		return nil, fmt.Errorf("creator: %w", err)
	}
	if err := curve.ValidateParams(req.Params); err != nil {
		return nil, err
	}

	createdAt := e.now().UnixMilli()
	market := &domain.Market{
		MarketID: idhash.ComputeMarketID(req.Mint, req.Creator, createdAt),
		Mint:     req.Mint,
		Creator:  req.Creator,
		Params:   req.Params,
		Reserves: domain.ReserveState{
			TokenReserve: req.Params.InitialSupply,
			TotalSupply:  req.Params.InitialSupply,
		},
		CreatedAt: createdAt,
	}

	// Build the engine up front so a parameter set the factory rejects
	// never reaches storage.
	if _, err := e.engineFor(market); err != nil {
		return nil, err
	}

	if err := e.markets.Insert(ctx, market); err != nil {
		e.dropEngine(market.MarketID)
		return nil, fmt.Errorf("persist market: %w", err)
	}

	observability.RecordMarketCreated()
	return market, nil
}

// MarkGraduated flips a market terminal, used when the external
// migration finishes draining reserves out of band.
func (e *Executor) MarkGraduated(ctx context.Context, marketID string) error {
	lock := e.lockFor(marketID)
	lock.Lock()
	defer lock.Unlock()

	market, err := e.markets.GetByID(ctx, marketID)
	if err != nil {
		return fmt.Errorf("load market: %w", err)
	}
	if market.Graduated {
		return nil
	}

	market.Graduated = true
	market.GraduatedAt = e.now().UnixMilli()
	if err := e.markets.Update(ctx, market); err != nil {
		return fmt.Errorf("persist market: %w", err)
	}

	observability.RecordMarketGraduated()
	if e.notifier != nil {
		eng, err := e.engineFor(market)
		if err != nil {
			return nil
		}
		cap, err := eng.Capitalization(market.Reserves)
		if err != nil {
			return nil
		}
		progress, err := eng.GraduationProgress(market.Reserves)
		if err != nil {
			return nil
		}
		e.notifier.NotifyGraduation(domain.GraduationSignal{
			MarketID:       marketID,
			Eligible:       true,
			Capitalization: cap,
			ProgressScaled: progress,
		})
	}
	return nil
}

func (e *Executor) dropEngine(marketID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.engines, marketID)
}
