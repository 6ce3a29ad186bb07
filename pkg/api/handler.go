package api

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/conr2d/restaking/internal/metric"
	"github.com/conr2d/restaking/pkg/core"
	"github.com/conr2d/restaking/pkg/restaking"
	"github.com/conr2d/restaking/pkg/signer"
	"github.com/conr2d/restaking/pkg/store"
)

// OperationSubmitter executes operations against the trust graph.
type OperationSubmitter interface {
	Submit(ctx context.Context, op *restaking.Operation) error
	Program() core.Pubkey
	Store() store.AccountStore
}

// Handler handles HTTP requests
type Handler struct {
	runtime OperationSubmitter
}

// NewHandler creates a new handler
func NewHandler(rt OperationSubmitter) *Handler {
	return &Handler{runtime: rt}
}

// SubmitOperationParams is the wire form of an operation submission.
// Signatures are hex-encoded recoverable secp256k1 signatures over the
// operation digest; the signer flags on the account metas are derived
// from them server-side, never trusted from the client.
type SubmitOperationParams struct {
	Operation  restaking.Operation `json:"operation"`
	Signatures []string            `json:"signatures"`
}

type SubmitOperationResponse struct {
	Status  string   `json:"status"`
	Signers []string `json:"signers,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// SubmitOperation verifies the attached signatures and executes the
// operation.
func (h *Handler) SubmitOperation(w http.ResponseWriter, r *http.Request) {
	var params SubmitOperationParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(params.Operation.Accounts) == 0 {
		writeError(w, http.StatusBadRequest, "operation names no accounts")
		return
	}

	digest := params.Operation.Digest()
	signers := make(map[core.Pubkey]bool, len(params.Signatures))
	for _, sigHex := range params.Signatures {
		raw, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed signature encoding")
			return
		}
		identity, err := signer.RecoverIdentity(digest, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "signature does not verify")
			return
		}
		signers[identity] = true
	}

	// Signer flags come from the verified signatures only.
	for i := range params.Operation.Accounts {
		params.Operation.Accounts[i].Signer = signers[params.Operation.Accounts[i].Key]
	}

	if err := h.runtime.Submit(r.Context(), &params.Operation); err != nil {
		metric.RecordError("operation_rejected")
		writeError(w, statusForError(err), err.Error())
		return
	}

	resp := SubmitOperationResponse{Status: "committed"}
	for identity := range signers {
		resp.Signers = append(resp.Signers, identity.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

// ConfigResponse is the read model of the program config record.
type ConfigResponse struct {
	Address      string `json:"address"`
	Admin        string `json:"admin"`
	VaultProgram string `json:"vault_program"`
	NumVaults    uint64 `json:"num_vaults"`
}

// GetConfig returns the program config record.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.loadAccount(w, r, h.configAddress())
	if !ok {
		return
	}
	validated, err := core.SanitizeConfig(h.runtime.Program(), acct, false)
	if err != nil {
		writeError(w, http.StatusNotFound, "config is not initialized")
		return
	}
	cfg := validated.Record()
	writeJSON(w, http.StatusOK, ConfigResponse{
		Address:      acct.Key.String(),
		Admin:        cfg.Admin().String(),
		VaultProgram: cfg.VaultProgram().String(),
		NumVaults:    cfg.NumVaults(),
	})
}

// EntityResponse is the read model shared by AVS and operator records.
type EntityResponse struct {
	Address       string `json:"address"`
	Admin         string `json:"admin"`
	Base          string `json:"base"`
	Voter         string `json:"voter,omitempty"`
	VaultCount    uint64 `json:"vault_count"`
	OperatorCount uint64 `json:"operator_count,omitempty"`
	AvsCount      uint64 `json:"avs_count,omitempty"`
	SlasherCount  uint64 `json:"slasher_count,omitempty"`
}

// GetAvs returns one AVS record by address.
func (h *Handler) GetAvs(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.parseAddress(w, r)
	if !ok {
		return
	}
	acct, ok := h.loadAccount(w, r, addr)
	if !ok {
		return
	}
	validated, err := core.SanitizeAvs(h.runtime.Program(), acct, false)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no avs record at %s", addr))
		return
	}
	avs := validated.Record()
	writeJSON(w, http.StatusOK, EntityResponse{
		Address:       addr.String(),
		Admin:         avs.Admin().String(),
		Base:          avs.Base().String(),
		VaultCount:    avs.VaultCount(),
		OperatorCount: avs.OperatorCount(),
		SlasherCount:  avs.SlasherCount(),
	})
}

// GetOperator returns one operator record by address.
func (h *Handler) GetOperator(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.parseAddress(w, r)
	if !ok {
		return
	}
	acct, ok := h.loadAccount(w, r, addr)
	if !ok {
		return
	}
	validated, err := core.SanitizeOperator(h.runtime.Program(), acct, false)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no operator record at %s", addr))
		return
	}
	op := validated.Record()
	writeJSON(w, http.StatusOK, EntityResponse{
		Address:    addr.String(),
		Admin:      op.Admin().String(),
		Base:       op.Base().String(),
		Voter:      op.Voter().String(),
		VaultCount: op.VaultCount(),
		AvsCount:   op.AvsCount(),
	})
}

// TicketResponse is the read model shared by all relationship tickets.
type TicketResponse struct {
	Address        string `json:"address"`
	Type           string `json:"type"`
	Avs            string `json:"avs,omitempty"`
	Operator       string `json:"operator,omitempty"`
	Vault          string `json:"vault,omitempty"`
	Slasher        string `json:"slasher,omitempty"`
	MaxSlashAmount uint64 `json:"max_slash_amount,omitempty"`
	Index          uint64 `json:"index"`
	Active         bool   `json:"active"`
	SlotAdded      uint64 `json:"slot_added"`
	SlotRemoved    uint64 `json:"slot_removed"`
}

// GetTicket returns one relationship ticket by address. The record
// type is read from the stored tag.
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.parseAddress(w, r)
	if !ok {
		return
	}
	acct, ok := h.loadAccount(w, r, addr)
	if !ok {
		return
	}
	if acct.IsEmpty() {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no ticket record at %s", addr))
		return
	}

	program := h.runtime.Program()
	resp := TicketResponse{Address: addr.String(), Type: core.AccountType(acct.Data[0]).String()}
	var state core.SlotToggle
	var err error
	switch core.AccountType(acct.Data[0]) {
	case core.AccountTypeAvsVaultTicket:
		var v *core.Validated[core.AvsVaultTicket]
		if v, err = core.SanitizeAvsVaultTicket(program, acct, false); err == nil {
			t := v.Record()
			resp.Avs, resp.Vault, resp.Index = t.Avs().String(), t.Vault().String(), t.Index()
			state = *t.State()
		}
	case core.AccountTypeAvsOperatorTicket:
		var v *core.Validated[core.AvsOperatorTicket]
		if v, err = core.SanitizeAvsOperatorTicket(program, acct, false); err == nil {
			t := v.Record()
			resp.Avs, resp.Operator, resp.Index = t.Avs().String(), t.Operator().String(), t.Index()
			state = *t.State()
		}
	case core.AccountTypeAvsVaultSlasherTicket:
		var v *core.Validated[core.AvsVaultSlasherTicket]
		if v, err = core.SanitizeAvsVaultSlasherTicket(program, acct, false); err == nil {
			t := v.Record()
			resp.Avs, resp.Vault, resp.Slasher = t.Avs().String(), t.Vault().String(), t.Slasher().String()
			resp.MaxSlashAmount, resp.Index = t.MaxSlashAmount(), t.Index()
			state = *t.State()
		}
	case core.AccountTypeOperatorVaultTicket:
		var v *core.Validated[core.OperatorVaultTicket]
		if v, err = core.SanitizeOperatorVaultTicket(program, acct, false); err == nil {
			t := v.Record()
			resp.Operator, resp.Vault, resp.Index = t.Operator().String(), t.Vault().String(), t.Index()
			state = *t.State()
		}
	case core.AccountTypeOperatorAvsTicket:
		var v *core.Validated[core.OperatorAvsTicket]
		if v, err = core.SanitizeOperatorAvsTicket(program, acct, false); err == nil {
			t := v.Record()
			resp.Operator, resp.Avs, resp.Index = t.Operator().String(), t.Avs().String(), t.Index()
			state = *t.State()
		}
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("account %s is not a ticket", addr))
		return
	}
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no valid ticket record at %s", addr))
		return
	}

	resp.Active = state.IsActive()
	resp.SlotAdded = state.SlotAdded()
	resp.SlotRemoved = state.SlotRemoved()
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) configAddress() core.Pubkey {
	addr, _ := core.FindConfigAddress(h.runtime.Program())
	return addr
}

func (h *Handler) parseAddress(w http.ResponseWriter, r *http.Request) (core.Pubkey, bool) {
	addr, err := core.PubkeyFromBase58(chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid address")
		return core.Pubkey{}, false
	}
	return addr, true
}

// loadAccount reads an account snapshot for the query endpoints.
func (h *Handler) loadAccount(w http.ResponseWriter, r *http.Request, addr core.Pubkey) (*core.Account, bool) {
	entry, err := h.runtime.Store().Get(r.Context(), addr)
	if err != nil {
		log.Error().Err(err).Stringer("address", addr).Msg("account lookup failed")
		writeError(w, http.StatusInternalServerError, "account lookup failed")
		return nil, false
	}
	acct := &core.Account{Key: addr, Owner: core.ZeroPubkey}
	if entry != nil {
		acct.Owner = entry.Owner
		acct.Data = entry.Data
	}
	return acct, true
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrUninitializedRecord),
		errors.Is(err, core.ErrOwnershipMismatch),
		errors.Is(err, core.ErrTypeMismatch),
		errors.Is(err, core.ErrAddressMismatch),
		errors.Is(err, core.ErrMissingSignature),
		errors.Is(err, core.ErrNotWritable),
		errors.Is(err, core.ErrAlreadyExists),
		errors.Is(err, core.ErrInvalidStateTransition),
		errors.Is(err, core.ErrCorruptRecord):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrAuthorizationFailure):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
