// Package pipeline runs a guarded transfer: sender resolution, balance query,
// simulation and the policy-guarded send, strictly in that order.
package pipeline

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/chapool/wallet-agent/internal/util"
	"github.com/chapool/wallet-agent/internal/wallet/address"
	"github.com/chapool/wallet-agent/internal/wallet/balance"
	"github.com/chapool/wallet-agent/internal/wallet/chain"
	"github.com/chapool/wallet-agent/internal/wallet/errs"
	"github.com/chapool/wallet-agent/internal/wallet/policy"
	"github.com/chapool/wallet-agent/internal/wallet/secret"
	"github.com/chapool/wallet-agent/internal/wallet/send"
	"github.com/chapool/wallet-agent/internal/wallet/simulate"
)

// Runner sequences the stages of one transfer.
type Runner struct {
	balance   balance.Service
	simulator simulate.Service
	sender    send.Service
	recorder  Recorder
}

// NewRunner wires the stage services to client. recorder may be nil.
func NewRunner(client *chain.Client, recorder Recorder) *Runner {
	return New(
		balance.NewService(client.Reader()),
		simulate.NewService(client.Reader()),
		send.NewService(client),
		recorder,
	)
}

// New creates a runner from explicit stage services. recorder may be nil.
func New(balanceService balance.Service, simulator simulate.Service, sender send.Service, recorder Recorder) *Runner {
	if recorder == nil {
		recorder = noopRecorder{}
	}

	return &Runner{
		balance:   balanceService,
		simulator: simulator,
		sender:    sender,
		recorder:  recorder,
	}
}

// Run executes the pipeline. The returned report holds every stage that
// completed, also when an error is returned. Any failing stage halts the run
// and its error is returned unmodified. A failed simulation is returned as
// SimulationError.
//
// There is no check of the balance against the transfer value, an
// insufficient balance surfaces through the simulation.
func (r *Runner) Run(ctx context.Context, req *chain.TransferRequest, key secret.Signer, p *policy.Policy) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}

	logger := util.LogFromContext(ctx).With().Str("run_id", report.RunID).Logger()
	ctx = logger.WithContext(ctx)

	if req == nil {
		return report, errors.New("transfer request is required")
	}

	// 1. 解析发送方地址，不发起网络请求
	if err := r.observe(StageSender, report, func() error {
		sender, err := ResolveSender(req.From, key)
		if err != nil {
			return err
		}
		report.Sender = address.Checksum(sender)
		return nil
	}); err != nil {
		return report, err
	}

	logger.Info().
		Str("from", report.Sender).
		Str("to", req.To.Hex()).
		Str("value_wei", req.ValueWei.String()).
		Msg("Starting transfer pipeline")

	// 2. 查询余额
	if err := r.observe(StageBalance, report, func() error {
		bal, err := r.balance.GetBalance(ctx, report.Sender)
		if err != nil {
			return err
		}
		report.Balance = bal
		logger.Info().Str("address", bal.Address).Str("ether", bal.Ether).Msg("Sender balance")
		return nil
	}); err != nil {
		return report, err
	}

	// 3. 模拟转账，失败则终止
	if err := r.observe(StageSimulate, report, func() error {
		res := r.simulator.Simulate(ctx, req, key)
		report.Simulation = &res
		if !res.OK {
			logger.Warn().Str("error", res.Error).Msg("Simulation failed, aborting")
			return res.Err()
		}
		r.recorder.SetEstimatedGas(res.EstimatedGas.Uint64())
		logger.Info().Str("estimated_gas", res.EstimatedGas.String()).Msg("Simulation succeeded")
		return nil
	}); err != nil {
		return report, err
	}

	// 4. 策略检查后签名并广播
	if err := r.observe(StageSend, report, func() error {
		res, err := r.sender.Send(ctx, req, key, p)
		if err != nil {
			return err
		}
		report.Send = res
		valueWei, _ := new(big.Float).SetInt(res.ValueWei).Float64()
		r.recorder.SetTransferValue(valueWei)
		logger.Info().Str("tx_hash", res.TxHash).Msg("Transfer sent")
		return nil
	}); err != nil {
		return report, err
	}

	return report, nil
}

func (r *Runner) observe(stage string, report *Report, f func() error) error {
	start := time.Now()
	err := f()

	r.recorder.ObserveStage(stage, time.Since(start), err)
	if err != nil {
		report.FailedStage = stage
	}

	return err
}

// ResolveSender returns the address of key. A non-zero expected address must
// match it, otherwise a ConfigurationError on FROM_ADDRESS is returned. No
// network call is made.
func ResolveSender(expected common.Address, key secret.Signer) (common.Address, error) {
	if err := chain.CheckKey(key); err != nil {
		return common.Address{}, err
	}

	sender := key.Address()
	if (expected != common.Address{}) && expected != sender {
		return common.Address{}, errs.NewConfigurationError("FROM_ADDRESS",
			errors.Errorf("%s does not match the address of PRIVATE_KEY %s", expected.Hex(), sender.Hex()))
	}

	return sender, nil
}
