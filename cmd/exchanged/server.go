package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/crypto"
	"github.com/snailsfinance/snails-contracts/native/exchange"
	"github.com/snailsfinance/snails-contracts/native/fees"
	"github.com/snailsfinance/snails-contracts/native/pool"
	"github.com/snailsfinance/snails-contracts/observability"
)

// callerAddressHeader carries the caller's bech32 address, authenticated by
// the gateway layer out-of-band per spec.md §6. Admin handlers decode it and
// hand it straight to the owner-gated Exchange method, which performs the
// actual authorization check.
const callerAddressHeader = "X-Snails-Caller-Address"

// newRouter builds the HTTP surface over ex: a read-only view surface (pool
// snapshots, virtual price, amp factor, a liveness probe) and the
// owner-gated admin surface (pool creation, fee/amp changes, pause/resume),
// the latter guarded by callerAddressHeader.
func newRouter(ex *exchange.Exchange, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/pools/{id}", func(w http.ResponseWriter, r *http.Request) {
		p, ok := poolFromRequest(ex, w, r)
		if !ok {
			return
		}
		now := time.Now().Unix()
		writeJSON(w, log, poolSnapshot{
			ID:          p.ID,
			TokenIDs:    p.TokenIDs,
			Decimals:    p.Decimals,
			Reserves:    stringifyAll(p.Reserves),
			AdminFees:   stringifyAll(p.AdminFees),
			ShareSupply: p.ShareSupply.String(),
			Fees:        p.EffectiveFees(now),
			AmpFactor:   p.GetAmpFactor(now),
		})
	})

	r.Get("/pools/{id}/virtual-price", func(w http.ResponseWriter, r *http.Request) {
		p, ok := poolFromRequest(ex, w, r)
		if !ok {
			return
		}
		vp, err := p.GetVirtualPrice(time.Now().Unix())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		price, _ := new(big.Float).SetInt(vp.ToBig()).Float64()
		observability.ExchangeMetrics().SetVirtualPrice(strconv.FormatUint(p.ID, 10), price)
		writeJSON(w, log, map[string]string{"virtual_price": vp.String()})
	})

	r.Get("/pools/{id}/amp", func(w http.ResponseWriter, r *http.Request) {
		p, ok := poolFromRequest(ex, w, r)
		if !ok {
			return
		}
		writeJSON(w, log, map[string]uint64{"amp": p.GetAmpFactor(time.Now().Unix())})
	})

	r.Post("/admin/pools", func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		var req addPoolRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := req.Fees.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		id, err := ex.AddSimplePool(caller, req.TokenIDs, req.Decimals, req.InitialA, req.TargetA, req.RampStartTS, req.RampStopTS, req.Fees)
		if err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		writeJSON(w, log, map[string]uint64{"id": id})
	})

	r.Post("/admin/pools/{id}/fees", func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := poolIDFromRequest(w, r)
		if !ok {
			return
		}
		var req fees.Fees
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := ex.ChangeFeesSetting(caller, time.Now().Unix(), id, req); err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/admin/pools/{id}/amp", func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := poolIDFromRequest(w, r)
		if !ok {
			return
		}
		var req setAmpRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := ex.SetAmpParams(caller, time.Now().Unix(), id, req.TargetA, req.StopTS); err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/admin/state", func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		var req changeStateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		newState, err := req.toState()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := ex.ChangeState(caller, newState); err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

type addPoolRequest struct {
	TokenIDs    []string  `json:"token_ids"`
	Decimals    []uint8   `json:"decimals"`
	InitialA    uint64    `json:"initial_a"`
	TargetA     uint64    `json:"target_a"`
	RampStartTS int64     `json:"ramp_start_ts"`
	RampStopTS  int64     `json:"ramp_stop_ts"`
	Fees        fees.Fees `json:"fees"`
}

type setAmpRequest struct {
	TargetA uint64 `json:"target_a"`
	StopTS  int64  `json:"stop_ts"`
}

type changeStateRequest struct {
	State string `json:"state"`
}

func (r changeStateRequest) toState() (exchange.State, error) {
	switch r.State {
	case "running":
		return exchange.Running, nil
	case "paused":
		return exchange.Paused, nil
	default:
		return exchange.Running, fmt.Errorf("unknown state %q", r.State)
	}
}

func callerFromRequest(w http.ResponseWriter, r *http.Request) (crypto.Address, bool) {
	header := r.Header.Get(callerAddressHeader)
	if header == "" {
		http.Error(w, "missing "+callerAddressHeader+" header", http.StatusUnauthorized)
		return crypto.Address{}, false
	}
	addr, err := crypto.DecodeAddress(header)
	if err != nil {
		http.Error(w, "invalid caller address", http.StatusBadRequest)
		return crypto.Address{}, false
	}
	return addr, true
}

func poolIDFromRequest(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid pool id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

type poolSnapshot struct {
	ID          uint64    `json:"id"`
	TokenIDs    []string  `json:"token_ids"`
	Decimals    []uint8   `json:"decimals"`
	Reserves    []string  `json:"reserves"`
	AdminFees   []string  `json:"admin_fees"`
	ShareSupply string    `json:"share_supply"`
	Fees        fees.Fees `json:"fees"`
	AmpFactor   uint64    `json:"amp_factor"`
}

func poolFromRequest(ex *exchange.Exchange, w http.ResponseWriter, r *http.Request) (*pool.Pool, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid pool id", http.StatusBadRequest)
		return nil, false
	}
	p, err := ex.GetPool(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return p, true
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode view response", "err", err)
	}
}

func stringifyAll(vs []*uint256.Int) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}
