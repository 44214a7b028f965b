package pipeline

import (
	"time"

	"github.com/chapool/wallet-agent/internal/wallet/balance"
	"github.com/chapool/wallet-agent/internal/wallet/send"
	"github.com/chapool/wallet-agent/internal/wallet/simulate"
)

// Pipeline stages, in execution order.
const (
	StageSender   = "sender"
	StageBalance  = "balance"
	StageSimulate = "simulate"
	StageSend     = "send"
)

// Report collects the results of the stages that completed. Stages that did
// not run are nil.
type Report struct {
	RunID      string           `json:"runId"`
	Sender     string           `json:"sender,omitempty"`
	Balance    *balance.Balance `json:"balance,omitempty"`
	Simulation *simulate.Result `json:"simulation,omitempty"`
	Send       *send.Result     `json:"send,omitempty"`
	// FailedStage names the stage that aborted the run, empty on success.
	FailedStage string `json:"failedStage,omitempty"`
}

// Recorder receives per-stage measurements, *metrics.Recorder implements it.
type Recorder interface {
	ObserveStage(stage string, took time.Duration, err error)
	SetEstimatedGas(gas uint64)
	SetTransferValue(valueWei float64)
}

type noopRecorder struct{}

func (noopRecorder) ObserveStage(string, time.Duration, error) {}
func (noopRecorder) SetEstimatedGas(uint64)                    {}
func (noopRecorder) SetTransferValue(float64)                  {}
