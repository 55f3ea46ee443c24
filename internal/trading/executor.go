package trading

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"pump-launchpad/internal/curve"
	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/engine"
	"pump-launchpad/internal/graduation"
	"pump-launchpad/internal/idhash"
	"pump-launchpad/internal/observability"
	"pump-launchpad/internal/storage"
)

// Recorder receives settled trade records. Recording is best-effort:
// a recorder failure never unwinds a settled trade.
type Recorder interface {
	RecordTrade(ctx context.Context, record *domain.TradeRecord) error
}

// GraduationNotifier receives the signal when a market graduates.
type GraduationNotifier interface {
	NotifyGraduation(signal domain.GraduationSignal)
}

// ExecutorOptions configures the optional executor collaborators.
type ExecutorOptions struct {
	// Gate screens trades before quoting. Defaults to AllowAll.
	Gate SecurityGate

	// Profiles tracks per-trader lifetime volume for the whale tax.
	// Optional; without it every trader has zero historical volume.
	Profiles storage.TraderProfileStore

	// Recorders receive settled trades, best-effort.
	Recorders []Recorder

	// Notifier receives graduation signals. Optional.
	Notifier GraduationNotifier

	// Policy defaults to domain.DefaultFeePolicy().
	Policy domain.FeePolicy

	// Now defaults to time.Now; injectable for tests.
	Now func() time.Time
}

// Executor settles trades against markets. All mutation of a market
// funnels through here, serialized per market: two trades on the same
// market never interleave, trades on different markets run freely in
// parallel.
type Executor struct {
	markets   storage.MarketStore
	profiles  storage.TraderProfileStore
	gate      SecurityGate
	recorders []Recorder
	notifier  GraduationNotifier
	policy    domain.FeePolicy
	monitor   *graduation.Monitor
	now       func() time.Time
	paused    atomic.Bool

	mu      sync.Mutex
	locks   map[string]*sync.Mutex    // per market
	engines map[string]*engine.Engine // per market, params are immutable
}

// NewExecutor builds an executor over the market store.
func NewExecutor(markets storage.MarketStore, opts ExecutorOptions) *Executor {
	if opts.Gate == nil {
		opts.Gate = AllowAll{}
	}
	if opts.Policy == (domain.FeePolicy{}) {
		opts.Policy = domain.DefaultFeePolicy()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Executor{
		markets:   markets,
		profiles:  opts.Profiles,
		gate:      opts.Gate,
		recorders: opts.Recorders,
		notifier:  opts.Notifier,
		policy:    opts.Policy,
		monitor:   graduation.NewMonitor(),
		now:       opts.Now,
	}
}

// Policy returns the fee policy the executor settles under.
func (e *Executor) Policy() domain.FeePolicy {
	return e.policy
}

// Pause halts all trade execution until Resume. Quotes and market
// creation stay available.
func (e *Executor) Pause() { e.paused.Store(true) }

// Resume lifts an emergency pause.
func (e *Executor) Resume() { e.paused.Store(false) }

// Paused reports whether trading is halted.
func (e *Executor) Paused() bool { return e.paused.Load() }

// Execute runs one trade through the full pipeline: validation, security
// gate, quoting, slippage checks, fee computation and settlement. On any
// error the market is left exactly as it was.
func (e *Executor) Execute(ctx context.Context, req domain.TradeRequest) (*domain.TradeRecord, error) {
	started := e.now()

	record, err := e.execute(ctx, req, started)
	if err != nil {
		observability.RecordTradeRejected(rejectionReason(err))
		return nil, err
	}

	observability.RecordTradeExecuted(
		string(record.Direction),
		baseSideOf(record),
		record.FeeAmount,
		record.TaxAmount,
		e.now().Sub(started).Seconds(),
	)
	return record, nil
}

func (e *Executor) execute(ctx context.Context, req domain.TradeRequest, started time.Time) (*domain.TradeRecord, error) {
	if e.paused.Load() {
		return nil, ErrTradingPaused
	}
	if err := e.validate(req); err != nil {
		return nil, err
	}

	lock := e.lockFor(req.MarketID)
	lock.Lock()
	defer lock.Unlock()

	market, err := e.markets.GetByID(ctx, req.MarketID)
	if err != nil {
		return nil, fmt.Errorf("load market: %w", err)
	}
	if market.Graduated {
		return nil, ErrMarketGraduated
	}

	if err := e.gate.CheckAndRecord(ctx, req.Trader, req.MarketID, started); err != nil {
		return nil, err
	}

	eng, err := e.engineFor(market)
	if err != nil {
		return nil, err
	}

	calc, err := eng.Quote(market.Reserves, req.Direction, req.AmountIn)
	if err != nil {
		return nil, err
	}
	if err := checkSlippage(req, calc); err != nil {
		return nil, err
	}

	fee, tax := ComputeCharges(e.policy, calc.BaseAmount, e.traderVolume(ctx, req.Trader))

	settled := *market
	if err := settle(&settled, req.Direction, calc, fee, tax); err != nil {
		return nil, err
	}

	nowMs := started.UnixMilli()
	settled.TotalVolumeBase = saturatingAdd(settled.TotalVolumeBase, calc.BaseAmount)
	settled.TradeCount++
	settled.LastTradeAt = nowMs
	if calc.PricePerToken > settled.AllTimeHighPrice {
		settled.AllTimeHighPrice = calc.PricePerToken
	}

	signal, err := e.monitor.Evaluate(settled.MarketID, eng, settled.Reserves, settled.Params.GraduationThreshold)
	if err != nil {
		return nil, fmt.Errorf("evaluate graduation: %w", err)
	}
	if signal.Eligible {
		settled.Graduated = true
		settled.GraduatedAt = nowMs
	}

	if err := e.markets.Update(ctx, &settled); err != nil {
		return nil, fmt.Errorf("persist market: %w", err)
	}

	record := &domain.TradeRecord{
		TradeID:           idhash.ComputeTradeID(req.MarketID, req.Trader, req.Direction, market.TradeCount),
		MarketID:          settled.MarketID,
		Mint:              settled.Mint,
		Trader:            req.Trader,
		Direction:         req.Direction,
		AmountIn:          req.AmountIn,
		AmountOut:         amountOut(req.Direction, calc, fee, tax),
		NewPrice:          calc.PricePerToken,
		NewSupply:         calc.NewSupply,
		NewCapitalization: signal.Capitalization,
		PriceImpactBps:    calc.PriceImpactBps,
		FeeAmount:         fee,
		TaxAmount:         tax,
		Timestamp:         nowMs,
	}

	e.updateProfile(ctx, record, calc)
	for _, recorder := range e.recorders {
		if err := recorder.RecordTrade(ctx, record); err != nil {
			observability.RecordRecorderFailure("recorder")
		}
	}
	if signal.Eligible {
		observability.RecordMarketGraduated()
		if e.notifier != nil {
			e.notifier.NotifyGraduation(signal)
		}
	}

	return record, nil
}

// Quote prices a trade read-only, without locks, gates or fees applied.
func (e *Executor) Quote(ctx context.Context, marketID string, direction domain.TradeDirection, amountIn uint64) (*curve.Calculation, error) {
	defer func(start time.Time) {
		observability.RecordQuote(e.now().Sub(start).Seconds())
	}(e.now())

	market, err := e.markets.GetByID(ctx, marketID)
	if err != nil {
		return nil, fmt.Errorf("load market: %w", err)
	}
	if market.Graduated {
		return nil, ErrMarketGraduated
	}
	eng, err := e.engineFor(market)
	if err != nil {
		return nil, err
	}
	return eng.Quote(market.Reserves, direction, amountIn)
}

func (e *Executor) validate(req domain.TradeRequest) error {
	if req.AmountIn == 0 {
		return curve.ErrInvalidAmount
	}
	if e.policy.MaxTradeSize > 0 && req.AmountIn > e.policy.MaxTradeSize {
		return fmt.Errorf("%w: %d above limit %d", ErrMaxTradeSizeExceeded, req.AmountIn, e.policy.MaxTradeSize)
	}
	if req.SlippageToleranceBps > e.policy.MaxSlippageBps {
		return fmt.Errorf("%w: %d above limit %d", ErrInvalidSlippageTolerance, req.SlippageToleranceBps, e.policy.MaxSlippageBps)
	}
	return nil
}

func (e *Executor) lockFor(marketID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.locks == nil {
		e.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := e.locks[marketID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[marketID] = lock
	}
	return lock
}

func (e *Executor) engineFor(market *domain.Market) (*engine.Engine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.engines == nil {
		e.engines = make(map[string]*engine.Engine)
	}
	if eng, ok := e.engines[market.MarketID]; ok {
		return eng, nil
	}
	eng, err := engine.New(market.Params)
	if err != nil {
		return nil, fmt.Errorf("market %s: %w", market.MarketID, err)
	}
	e.engines[market.MarketID] = eng
	return eng, nil
}

func (e *Executor) traderVolume(ctx context.Context, trader string) uint64 {
	if e.profiles == nil {
		return 0
	}
	profile, err := e.profiles.GetByAddress(ctx, trader)
	if err != nil {
		return 0
	}
	return profile.TotalVolumeBase
}

func (e *Executor) updateProfile(ctx context.Context, record *domain.TradeRecord, calc *curve.Calculation) {
	if e.profiles == nil {
		return
	}

	profile, err := e.profiles.GetByAddress(ctx, record.Trader)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			observability.RecordRecorderFailure("profiles")
			return
		}
		profile = &domain.TraderProfile{Trader: record.Trader}
	}

	profile.TotalVolumeBase = saturatingAdd(profile.TotalVolumeBase, baseSideOf(record))
	if record.Direction == domain.TradeBuy {
		profile.TotalTokensBought = saturatingAdd(profile.TotalTokensBought, calc.TokenAmount)
	} else {
		profile.TotalTokensSold = saturatingAdd(profile.TotalTokensSold, calc.TokenAmount)
	}
	profile.TradeCount++
	profile.LastTradeAt = record.Timestamp

	if err := e.profiles.Upsert(ctx, profile); err != nil {
		observability.RecordRecorderFailure("profiles")
	}
}

// settle applies the quoted trade and charges to the market's reserves.
func settle(m *domain.Market, direction domain.TradeDirection, calc *curve.Calculation, fee, tax uint64) error {
	switch direction {
	case domain.TradeBuy:
		charges := fee + tax
		if charges > calc.BaseAmount {
			return fmt.Errorf("%w: charges exceed trade amount", curve.ErrInvalidAmount)
		}
		if calc.TokenAmount > m.Reserves.TokenReserve {
			return curve.ErrInsufficientLiquidity
		}
		m.Reserves.BaseReserve = saturatingAdd(m.Reserves.BaseReserve, calc.BaseAmount-charges)
		m.Reserves.TokenReserve -= calc.TokenAmount
		m.Reserves.CirculatingSupply = calc.NewSupply
		return nil

	case domain.TradeSell:
		if calc.BaseAmount > m.Reserves.BaseReserve {
			return curve.ErrInsufficientLiquidity
		}
		m.Reserves.BaseReserve -= calc.BaseAmount
		m.Reserves.TokenReserve = saturatingAdd(m.Reserves.TokenReserve, calc.TokenAmount)
		m.Reserves.CirculatingSupply = calc.NewSupply
		return nil

	default:
		return fmt.Errorf("%w: direction %q", curve.ErrInvalidAmount, direction)
	}
}

// checkSlippage enforces the trader's own protection bounds.
func checkSlippage(req domain.TradeRequest, calc *curve.Calculation) error {
	out := calc.TokenAmount
	if req.Direction == domain.TradeSell {
		out = calc.BaseAmount
	}
	if req.MinOut > 0 && out < req.MinOut {
		return fmt.Errorf("%w: output %d below minimum %d", ErrSlippageExceeded, out, req.MinOut)
	}
	// Tolerance zero accepts no impact at all; only MinOut is opt-in.
	if calc.PriceImpactBps > req.SlippageToleranceBps {
		return fmt.Errorf("%w: impact %d bps above tolerance %d", ErrSlippageExceeded, calc.PriceImpactBps, req.SlippageToleranceBps)
	}
	return nil
}

// amountOut is what the trader receives: tokens for buys, the base
// payout net of charges for sells.
func amountOut(direction domain.TradeDirection, calc *curve.Calculation, fee, tax uint64) uint64 {
	if direction == domain.TradeBuy {
		return calc.TokenAmount
	}
	net := calc.BaseAmount
	if charges := fee + tax; charges < net {
		net -= charges
	} else {
		net = 0
	}
	return net
}

// baseSideOf is the lamport side of a settled record.
func baseSideOf(record *domain.TradeRecord) uint64 {
	if record.Direction == domain.TradeBuy {
		return record.AmountIn
	}
	return record.AmountOut + record.FeeAmount + record.TaxAmount
}

func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrSlippageExceeded):
		return "slippage"
	case errors.Is(err, ErrMaxTradeSizeExceeded):
		return "max_trade_size"
	case errors.Is(err, ErrInvalidSlippageTolerance):
		return "invalid_tolerance"
	case errors.Is(err, ErrMarketGraduated):
		return "graduated"
	case errors.Is(err, ErrTradeDenied):
		return "denied"
	case errors.Is(err, ErrTradingPaused):
		return "paused"
	case errors.Is(err, curve.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, curve.ErrInsufficientLiquidity):
		return "liquidity"
	case errors.Is(err, curve.ErrInsufficientBalance):
		return "balance"
	case errors.Is(err, storage.ErrNotFound):
		return "not_found"
	default:
		return "other"
	}
}
