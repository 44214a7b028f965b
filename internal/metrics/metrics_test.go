package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapool/wallet-agent/internal/metrics"
	"github.com/chapool/wallet-agent/internal/wallet/errs"
)

func TestObserveStage(t *testing.T) {
	r := metrics.NewRecorder()

	r.ObserveStage("balance", 20*time.Millisecond, nil)
	r.ObserveStage("send", time.Millisecond, errs.NewMissingConfigError("PRIVATE_KEY"))
	r.ObserveStage("send", time.Millisecond, errs.NewTransportError("eth_sendRawTransaction", errors.New("eof")))

	expected := `
# HELP wallet_agent_stage_total Total number of pipeline stages run, by stage and error kind
# TYPE wallet_agent_stage_total counter
wallet_agent_stage_total{result="configuration",stage="send"} 1
wallet_agent_stage_total{result="none",stage="balance"} 1
wallet_agent_stage_total{result="transport",stage="send"} 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "wallet_agent_stage_total"))

	families, err := r.Registry().Gather()
	require.NoError(t, err)

	var durations *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "wallet_agent_stage_duration_seconds" {
			durations = mf
		}
	}
	require.NotNil(t, durations)
	require.Len(t, durations.GetMetric(), 2)

	samples := map[string]uint64{}
	for _, m := range durations.GetMetric() {
		samples[m.GetLabel()[0].GetValue()] = m.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, map[string]uint64{"balance": 1, "send": 2}, samples)
}

func TestPush(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		body   string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)

		mu.Lock()
		method, path, body = req.Method, req.URL.Path, string(b)
		mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := metrics.NewRecorder()
	r.ObserveStage("simulate", time.Millisecond, nil)
	r.SetEstimatedGas(21000)

	require.NoError(t, r.Push(t.Context(), srv.URL, "", "host-1"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/"+metrics.DefaultJob+"/instance/host-1", path)
	assert.NotEmpty(t, body)
}

func TestPushFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := metrics.NewRecorder().Push(t.Context(), srv.URL, "job", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to push metrics")
}
