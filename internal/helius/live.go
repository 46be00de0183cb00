package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/dcSpark/mcp-server-helius/internal/telemetry"
)

// LiveConfig configures the live client.
type LiveConfig struct {
	APIKey  string
	Network string
	// RPCURL overrides the endpoint derived from Network and APIKey.
	RPCURL     string
	Timeout    time.Duration
	JitoURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// EndpointURL returns the Helius RPC endpoint for a network.
func EndpointURL(network, apiKey string) string {
	host := "mainnet.helius-rpc.com"
	if network == "devnet" {
		host = "devnet.helius-rpc.com"
	}
	return "https://" + host + "/?api-key=" + apiKey
}

// Live talks JSON-RPC over HTTP to Helius and to the Jito block engine.
type Live struct {
	rpc        *rpc.Client
	raw        jsonrpc.RPCClient
	httpClient *http.Client
	jitoURL    string
	logger     *slog.Logger
	pickTip    func() solana.PublicKey
}

var _ Client = (*Live)(nil)

// NewLive builds the live client. It performs no network I/O.
func NewLive(cfg LiveConfig) (*Live, error) {
	endpoint := cfg.RPCURL
	if endpoint == "" {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("helius api key or rpc url is required")
		}
		endpoint = EndpointURL(cfg.Network, cfg.APIKey)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	jitoURL := cfg.JitoURL
	if jitoURL == "" {
		jitoURL = DefaultJitoURL
	}

	raw := jsonrpc.NewClientWithOpts(endpoint, &jsonrpc.RPCClientOpts{
		HTTPClient: httpClient,
		CustomHeaders: map[string]string{
			"User-Agent": "helius-mcp",
		},
	})
	return &Live{
		rpc:        rpc.NewWithCustomRPCClient(raw),
		raw:        raw,
		httpClient: httpClient,
		jitoURL:    jitoURL,
		logger:     logger,
		pickTip: func() solana.PublicKey {
			return JitoTipAccounts[rand.IntN(len(JitoTipAccounts))]
		},
	}, nil
}

// track counts and logs a failed call. JSON-RPC errors are flattened to
// their message and code.
func (l *Live) track(method string, err error) error {
	if err == nil {
		return nil
	}
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		err = fmt.Errorf("%s (code %d)", rpcErr.Message, rpcErr.Code)
	}
	telemetry.IncRPCError(method)
	l.logger.Debug("helius rpc call failed", "method", method, "err", err)
	return err
}

// call sends positional params.
func (l *Live) call(ctx context.Context, out any, method string, params ...any) error {
	return l.track(method, l.raw.CallForInto(ctx, out, method, params))
}

// callNamed sends a single params object, as the Digital Asset Standard
// methods expect.
func (l *Live) callNamed(ctx context.Context, out any, method string, params map[string]any) error {
	return l.track(method, l.raw.CallFor(ctx, out, method, params))
}

func commitmentConfig(c rpc.CommitmentType) map[string]any {
	cfg := map[string]any{}
	if c != "" {
		cfg["commitment"] = c
	}
	return cfg
}

// withConfig appends cfg to params when it carries anything.
func withConfig(params []any, cfg map[string]any) []any {
	if len(cfg) == 0 {
		return params
	}
	return append(params, cfg)
}

func keysToStrings(keys []solana.PublicKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (l *Live) GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (uint64, error) {
	out, err := l.rpc.GetBalance(ctx, account, commitment)
	if err := l.track("getBalance", err); err != nil {
		return 0, err
	}
	return out.Value, nil
}

func (l *Live) GetBlockHeight(ctx context.Context, commitment rpc.CommitmentType) (uint64, error) {
	out, err := l.rpc.GetBlockHeight(ctx, commitment)
	return out, l.track("getBlockHeight", err)
}

func (l *Live) GetTokenAccountsByOwner(ctx context.Context, owner, programID solana.PublicKey) (*TokenAccountsResult, error) {
	var out TokenAccountsResult
	err := l.call(ctx, &out, "getTokenAccountsByOwner",
		owner.String(),
		map[string]any{"programId": programID.String()},
		map[string]any{"encoding": "jsonParsed"},
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *Live) GetTokenSupply(ctx context.Context, mint solana.PublicKey) (*TokenAmount, error) {
	var out struct {
		Value TokenAmount `json:"value"`
	}
	if err := l.call(ctx, &out, "getTokenSupply", mint.String()); err != nil {
		return nil, err
	}
	return &out.Value, nil
}

func (l *Live) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*Blockhash, error) {
	out, err := l.rpc.GetLatestBlockhash(ctx, commitment)
	if err := l.track("getLatestBlockhash", err); err != nil {
		return nil, err
	}
	return &Blockhash{
		Blockhash:            out.Value.Blockhash.String(),
		LastValidBlockHeight: out.Value.LastValidBlockHeight,
	}, nil
}

func (l *Live) GetTokenAccountBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*TokenAmount, error) {
	var out struct {
		Value TokenAmount `json:"value"`
	}
	if err := l.call(ctx, &out, "getTokenAccountBalance", withConfig([]any{account.String()}, commitmentConfig(commitment))...); err != nil {
		return nil, err
	}
	return &out.Value, nil
}

func (l *Live) GetSlot(ctx context.Context, commitment rpc.CommitmentType) (uint64, error) {
	out, err := l.rpc.GetSlot(ctx, commitment)
	return out, l.track("getSlot", err)
}

func (l *Live) GetTransaction(ctx context.Context, signature string, commitment rpc.CommitmentType) (json.RawMessage, error) {
	cfg := commitmentConfig(commitment)
	cfg["encoding"] = "json"
	cfg["maxSupportedTransactionVersion"] = 0
	var out json.RawMessage
	if err := l.call(ctx, &out, "getTransaction", signature, cfg); err != nil {
		return nil, err
	}
	if isNull(out) {
		return nil, ErrNotFound
	}
	return out, nil
}

func (l *Live) GetAccountInfo(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*AccountInfoResult, error) {
	cfg := commitmentConfig(commitment)
	cfg["encoding"] = "base64"
	var out AccountInfoResult
	if err := l.call(ctx, &out, "getAccountInfo", account.String(), cfg); err != nil {
		return nil, err
	}
	if out.Value == nil {
		return nil, ErrNotFound
	}
	return &out, nil
}

func (l *Live) GetProgramAccounts(ctx context.Context, programID solana.PublicKey, commitment rpc.CommitmentType) ([]ProgramAccount, error) {
	cfg := commitmentConfig(commitment)
	cfg["encoding"] = "base64"
	var out []ProgramAccount
	if err := l.call(ctx, &out, "getProgramAccounts", programID.String(), cfg); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Live) GetSignaturesForAddress(ctx context.Context, address solana.PublicKey, opts SignaturesOptions) ([]SignatureInfo, error) {
	cfg := commitmentConfig(opts.Commitment)
	if opts.Limit > 0 {
		cfg["limit"] = opts.Limit
	}
	if opts.Before != "" {
		cfg["before"] = opts.Before
	}
	if opts.Until != "" {
		cfg["until"] = opts.Until
	}
	var out []SignatureInfo
	if err := l.call(ctx, &out, "getSignaturesForAddress", withConfig([]any{address.String()}, cfg)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Live) GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64, commitment rpc.CommitmentType) (uint64, error) {
	out, err := l.rpc.GetMinimumBalanceForRentExemption(ctx, dataSize, commitment)
	return out, l.track("getMinimumBalanceForRentExemption", err)
}

func (l *Live) GetMultipleAccounts(ctx context.Context, accounts []solana.PublicKey, commitment rpc.CommitmentType) (*MultipleAccountsResult, error) {
	cfg := commitmentConfig(commitment)
	cfg["encoding"] = "base64"
	var out MultipleAccountsResult
	if err := l.call(ctx, &out, "getMultipleAccounts", keysToStrings(accounts), cfg); err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *Live) GetFeeForMessage(ctx context.Context, message string, commitment rpc.CommitmentType) (*FeeForMessageResult, error) {
	var out FeeForMessageResult
	if err := l.call(ctx, &out, "getFeeForMessage", withConfig([]any{message}, commitmentConfig(commitment))...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *Live) GetInflationReward(ctx context.Context, addresses []solana.PublicKey, epoch *uint64, commitment rpc.CommitmentType) ([]*InflationReward, error) {
	cfg := commitmentConfig(commitment)
	if epoch != nil {
		cfg["epoch"] = *epoch
	}
	var out []*InflationReward
	if err := l.call(ctx, &out, "getInflationReward", withConfig([]any{keysToStrings(addresses)}, cfg)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Live) GetEpochInfo(ctx context.Context, commitment rpc.CommitmentType) (*EpochInfo, error) {
	var out EpochInfo
	if err := l.call(ctx, &out, "getEpochInfo", withConfig(nil, commitmentConfig(commitment))...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *Live) GetEpochSchedule(ctx context.Context) (*EpochSchedule, error) {
	var out EpochSchedule
	if err := l.call(ctx, &out, "getEpochSchedule"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *Live) GetLeaderSchedule(ctx context.Context, slot *uint64, identity *solana.PublicKey, commitment rpc.CommitmentType) (map[string][]uint64, error) {
	cfg := commitmentConfig(commitment)
	if identity != nil {
		cfg["identity"] = identity.String()
	}
	var params []any
	if slot != nil {
		params = append(params, *slot)
	} else if len(cfg) > 0 {
		params = append(params, nil)
	}
	var out map[string][]uint64
	if err := l.call(ctx, &out, "getLeaderSchedule", withConfig(params, cfg)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Live) GetRecentPerformanceSamples(ctx context.Context, limit int) ([]PerformanceSample, error) {
	var params []any
	if limit > 0 {
		params = append(params, limit)
	}
	var out []PerformanceSample
	if err := l.call(ctx, &out, "getRecentPerformanceSamples", params...); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Live) GetVersion(ctx context.Context) (*Version, error) {
	var out Version
	if err := l.call(ctx, &out, "getVersion"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *Live) GetHealth(ctx context.Context) (string, error) {
	out, err := l.rpc.GetHealth(ctx)
	return out, l.track("getHealth", err)
}

func (l *Live) GetBlockTime(ctx context.Context, slot uint64) (int64, error) {
	var out *int64
	if err := l.call(ctx, &out, "getBlockTime", slot); err != nil {
		return 0, err
	}
	if out == nil {
		return 0, ErrNotFound
	}
	return *out, nil
}

func (l *Live) GetBlockCommitment(ctx context.Context, block uint64) (*BlockCommitment, error) {
	var out BlockCommitment
	if err := l.call(ctx, &out, "getBlockCommitment", block); err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *Live) GetClusterNodes(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	err := l.call(ctx, &out, "getClusterNodes")
	return out, err
}

func (l *Live) GetIdentity(ctx context.Context) (string, error) {
	var out struct {
		Identity string `json:"identity"`
	}
	if err := l.call(ctx, &out, "getIdentity"); err != nil {
		return "", err
	}
	return out.Identity, nil
}

func (l *Live) GetSlotLeader(ctx context.Context, commitment rpc.CommitmentType) (string, error) {
	var out string
	err := l.call(ctx, &out, "getSlotLeader", withConfig(nil, commitmentConfig(commitment))...)
	return out, err
}

func (l *Live) GetGenesisHash(ctx context.Context) (string, error) {
	out, err := l.rpc.GetGenesisHash(ctx)
	if err := l.track("getGenesisHash", err); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (l *Live) GetStakeMinimumDelegation(ctx context.Context, commitment rpc.CommitmentType) (uint64, error) {
	var out struct {
		Value uint64 `json:"value"`
	}
	if err := l.call(ctx, &out, "getStakeMinimumDelegation", withConfig(nil, commitmentConfig(commitment))...); err != nil {
		return 0, err
	}
	return out.Value, nil
}

func (l *Live) GetVoteAccounts(ctx context.Context, votePubkey *solana.PublicKey, commitment rpc.CommitmentType) (json.RawMessage, error) {
	cfg := commitmentConfig(commitment)
	if votePubkey != nil {
		cfg["votePubkey"] = votePubkey.String()
	}
	var out json.RawMessage
	err := l.call(ctx, &out, "getVoteAccounts", withConfig(nil, cfg)...)
	return out, err
}

func (l *Live) GetInflationGovernor(ctx context.Context, commitment rpc.CommitmentType) (json.RawMessage, error) {
	var out json.RawMessage
	err := l.call(ctx, &out, "getInflationGovernor", withConfig(nil, commitmentConfig(commitment))...)
	return out, err
}

func (l *Live) MinimumLedgerSlot(ctx context.Context) (uint64, error) {
	out, err := l.rpc.MinimumLedgerSlot(ctx)
	return out, l.track("minimumLedgerSlot", err)
}

func (l *Live) RequestAirdrop(ctx context.Context, account solana.PublicKey, lamports uint64, commitment rpc.CommitmentType) (string, error) {
	var out string
	err := l.call(ctx, &out, "requestAirdrop", withConfig([]any{account.String(), lamports}, commitmentConfig(commitment))...)
	return out, err
}

func (l *Live) GetTokenAccountsByDelegate(ctx context.Context, delegate, programID solana.PublicKey, commitment rpc.CommitmentType) (json.RawMessage, error) {
	cfg := commitmentConfig(commitment)
	cfg["encoding"] = "jsonParsed"
	var out json.RawMessage
	err := l.call(ctx, &out, "getTokenAccountsByDelegate",
		delegate.String(),
		map[string]any{"programId": programID.String()},
		cfg,
	)
	return out, err
}

func (l *Live) GetBlocksWithLimit(ctx context.Context, startSlot, limit uint64, commitment rpc.CommitmentType) ([]uint64, error) {
	var out []uint64
	err := l.call(ctx, &out, "getBlocksWithLimit", withConfig([]any{startSlot, limit}, commitmentConfig(commitment))...)
	return out, err
}

func (l *Live) GetBlocks(ctx context.Context, startSlot uint64, endSlot *uint64, commitment rpc.CommitmentType) ([]uint64, error) {
	params := []any{startSlot}
	if endSlot != nil {
		params = append(params, *endSlot)
	}
	var out []uint64
	err := l.call(ctx, &out, "getBlocks", withConfig(params, commitmentConfig(commitment))...)
	return out, err
}

func (l *Live) GetFirstAvailableBlock(ctx context.Context) (uint64, error) {
	out, err := l.rpc.GetFirstAvailableBlock(ctx)
	return out, l.track("getFirstAvailableBlock", err)
}

func (l *Live) GetSlotLeaders(ctx context.Context, startSlot, limit uint64) ([]string, error) {
	var out []string
	err := l.call(ctx, &out, "getSlotLeaders", startSlot, limit)
	return out, err
}

func (l *Live) GetInflationRate(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	err := l.call(ctx, &out, "getInflationRate")
	return out, err
}

func (l *Live) GetSignatureStatuses(ctx context.Context, signatures []string, searchTransactionHistory bool) (json.RawMessage, error) {
	params := []any{signatures}
	if searchTransactionHistory {
		params = append(params, map[string]any{"searchTransactionHistory": true})
	}
	var out json.RawMessage
	err := l.call(ctx, &out, "getSignatureStatuses", params...)
	return out, err
}

func (l *Live) IsBlockhashValid(ctx context.Context, blockhash string, commitment rpc.CommitmentType) (bool, error) {
	var out struct {
		Value bool `json:"value"`
	}
	if err := l.call(ctx, &out, "isBlockhashValid", withConfig([]any{blockhash}, commitmentConfig(commitment))...); err != nil {
		return false, err
	}
	return out.Value, nil
}

func (l *Live) GetRecentPrioritizationFees(ctx context.Context, addresses []solana.PublicKey) (json.RawMessage, error) {
	var params []any
	if len(addresses) > 0 {
		params = append(params, keysToStrings(addresses))
	}
	var out json.RawMessage
	err := l.call(ctx, &out, "getRecentPrioritizationFees", params...)
	return out, err
}

func (l *Live) GetBlock(ctx context.Context, slot uint64, opts BlockOptions) (json.RawMessage, error) {
	cfg := commitmentConfig(opts.Commitment)
	cfg["encoding"] = "json"
	cfg["transactionDetails"] = "full"
	cfg["rewards"] = false
	if opts.MaxSupportedTransactionVersion != nil {
		cfg["maxSupportedTransactionVersion"] = *opts.MaxSupportedTransactionVersion
	}
	var out json.RawMessage
	if err := l.call(ctx, &out, "getBlock", slot, cfg); err != nil {
		return nil, err
	}
	if isNull(out) {
		return nil, ErrNotFound
	}
	return out, nil
}

func (l *Live) GetBlockProduction(ctx context.Context, opts BlockProductionOptions) (json.RawMessage, error) {
	cfg := commitmentConfig(opts.Commitment)
	if opts.Range != nil {
		cfg["range"] = opts.Range
	}
	if opts.Identity != nil {
		cfg["identity"] = opts.Identity.String()
	}
	var out json.RawMessage
	err := l.call(ctx, &out, "getBlockProduction", withConfig(nil, cfg)...)
	return out, err
}

func (l *Live) GetSupply(ctx context.Context, commitment rpc.CommitmentType) (json.RawMessage, error) {
	var out json.RawMessage
	err := l.call(ctx, &out, "getSupply", withConfig(nil, commitmentConfig(commitment))...)
	return out, err
}

func (l *Live) GetTransactionCount(ctx context.Context, commitment rpc.CommitmentType) (uint64, error) {
	out, err := l.rpc.GetTransactionCount(ctx, commitment)
	return out, l.track("getTransactionCount", err)
}

func (l *Live) GetHighestSnapshotSlot(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	err := l.call(ctx, &out, "getHighestSnapshotSlot")
	return out, err
}

func (l *Live) GetMaxRetransmitSlot(ctx context.Context) (uint64, error) {
	out, err := l.rpc.GetMaxRetransmitSlot(ctx)
	return out, l.track("getMaxRetransmitSlot", err)
}

func (l *Live) GetMaxShredInsertSlot(ctx context.Context) (uint64, error) {
	out, err := l.rpc.GetMaxShredInsertSlot(ctx)
	return out, l.track("getMaxShredInsertSlot", err)
}

func (l *Live) SimulateTransaction(ctx context.Context, transaction string, opts SimulateOptions) (json.RawMessage, error) {
	cfg := commitmentConfig(opts.Commitment)
	cfg["encoding"] = "base64"
	cfg["sigVerify"] = opts.SigVerify
	cfg["replaceRecentBlockhash"] = opts.ReplaceRecentBlockhash
	var out json.RawMessage
	err := l.call(ctx, &out, "simulateTransaction", transaction, cfg)
	return out, err
}

func pageParams(params map[string]any, page Page) map[string]any {
	if page.Page > 0 {
		params["page"] = page.Page
	} else {
		params["page"] = 1
	}
	if page.Limit > 0 {
		params["limit"] = page.Limit
	}
	return params
}

func (l *Live) GetAsset(ctx context.Context, id solana.PublicKey) (json.RawMessage, error) {
	var out json.RawMessage
	if err := l.callNamed(ctx, &out, "getAsset", map[string]any{"id": id.String()}); err != nil {
		return nil, err
	}
	if isNull(out) {
		return nil, ErrNotFound
	}
	return out, nil
}

func (l *Live) GetRWAAsset(ctx context.Context, id solana.PublicKey) (json.RawMessage, error) {
	var out json.RawMessage
	if err := l.callNamed(ctx, &out, "getRwaAsset", map[string]any{"id": id.String()}); err != nil {
		return nil, err
	}
	if isNull(out) {
		return nil, ErrNotFound
	}
	return out, nil
}

func (l *Live) GetAssetBatch(ctx context.Context, ids []solana.PublicKey) (json.RawMessage, error) {
	var out json.RawMessage
	err := l.callNamed(ctx, &out, "getAssetBatch", map[string]any{"ids": keysToStrings(ids)})
	return out, err
}

func (l *Live) GetAssetProof(ctx context.Context, id solana.PublicKey) (json.RawMessage, error) {
	var out json.RawMessage
	err := l.callNamed(ctx, &out, "getAssetProof", map[string]any{"id": id.String()})
	return out, err
}

func (l *Live) GetAssetsByGroup(ctx context.Context, groupKey, groupValue string, page Page) (json.RawMessage, error) {
	var out json.RawMessage
	err := l.callNamed(ctx, &out, "getAssetsByGroup", pageParams(map[string]any{
		"groupKey":   groupKey,
		"groupValue": groupValue,
	}, page))
	return out, err
}

func (l *Live) GetAssetsByOwner(ctx context.Context, owner solana.PublicKey, page Page) (json.RawMessage, error) {
	var out json.RawMessage
	err := l.callNamed(ctx, &out, "getAssetsByOwner", pageParams(map[string]any{"ownerAddress": owner.String()}, page))
	return out, err
}

func (l *Live) GetAssetsByCreator(ctx context.Context, creator solana.PublicKey, onlyVerified bool, page Page) (json.RawMessage, error) {
	var out json.RawMessage
	err := l.callNamed(ctx, &out, "getAssetsByCreator", pageParams(map[string]any{
		"creatorAddress": creator.String(),
		"onlyVerified":   onlyVerified,
	}, page))
	return out, err
}

func (l *Live) GetAssetsByAuthority(ctx context.Context, authority solana.PublicKey, page Page) (json.RawMessage, error) {
	var out json.RawMessage
	err := l.callNamed(ctx, &out, "getAssetsByAuthority", pageParams(map[string]any{"authorityAddress": authority.String()}, page))
	return out, err
}

func (l *Live) SearchAssets(ctx context.Context, req SearchAssetsRequest) (json.RawMessage, error) {
	params := make(map[string]any, len(req.Query)+3)
	for k, v := range req.Query {
		params[k] = v
	}
	if req.OwnerAddress != nil {
		params["ownerAddress"] = req.OwnerAddress.String()
	}
	var out json.RawMessage
	err := l.callNamed(ctx, &out, "searchAssets", pageParams(params, req.Page))
	return out, err
}

func (l *Live) GetSignaturesForAsset(ctx context.Context, id solana.PublicKey, page Page) (json.RawMessage, error) {
	var out json.RawMessage
	err := l.callNamed(ctx, &out, "getSignaturesForAsset", pageParams(map[string]any{"id": id.String()}, page))
	return out, err
}

func (l *Live) GetNFTEditions(ctx context.Context, masterEditionID solana.PublicKey, page Page) (json.RawMessage, error) {
	var out json.RawMessage
	err := l.callNamed(ctx, &out, "getNftEditions", pageParams(map[string]any{"mint": masterEditionID.String()}, page))
	return out, err
}

func (l *Live) GetTokenAccounts(ctx context.Context, req TokenAccountsRequest) (json.RawMessage, error) {
	params := map[string]any{}
	if req.Mint != nil {
		params["mint"] = req.Mint.String()
	}
	if req.Owner != nil {
		params["owner"] = req.Owner.String()
	}
	var out json.RawMessage
	err := l.callNamed(ctx, &out, "getTokenAccounts", pageParams(params, req.Page))
	return out, err
}

func (l *Live) GetPriorityFeeEstimate(ctx context.Context, req PriorityFeeRequest) (json.RawMessage, error) {
	params := map[string]any{}
	if len(req.AccountKeys) > 0 {
		params["accountKeys"] = keysToStrings(req.AccountKeys)
	}
	if req.Transaction != "" {
		params["transaction"] = req.Transaction
	}
	if req.Options != nil {
		options := map[string]any{}
		if req.Options.PriorityLevel != "" {
			options["priorityLevel"] = req.Options.PriorityLevel
		}
		if req.Options.IncludeAllPriorityFeeLevels {
			options["includeAllPriorityFeeLevels"] = true
		}
		if req.Options.Recommended {
			options["recommended"] = true
		}
		if req.Transaction != "" {
			options["transactionEncoding"] = "base64"
		}
		params["options"] = options
	}
	var out json.RawMessage
	err := l.call(ctx, &out, "getPriorityFeeEstimate", params)
	return out, err
}

func (l *Live) GetComputeUnits(ctx context.Context, instructions []Instruction, payer solana.PublicKey, _ []solana.PublicKey) (uint64, error) {
	// replaceRecentBlockhash makes any well-formed hash acceptable here.
	simIxs := append([]Instruction{SetComputeUnitLimit(MaxComputeUnits)}, instructions...)
	tx, err := BuildTransaction(simIxs, payer, solana.Hash{}.String())
	if err != nil {
		return 0, err
	}
	raw, err := l.SimulateTransaction(ctx, tx, SimulateOptions{ReplaceRecentBlockhash: true})
	if err != nil {
		return 0, err
	}
	var out struct {
		Value struct {
			Err           json.RawMessage `json:"err"`
			UnitsConsumed *uint64         `json:"unitsConsumed"`
		} `json:"value"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, fmt.Errorf("decode simulation result: %w", err)
	}
	if !isNull(out.Value.Err) {
		return 0, fmt.Errorf("simulation failed: %s", out.Value.Err)
	}
	if out.Value.UnitsConsumed == nil {
		return 0, fmt.Errorf("simulation did not report units consumed")
	}
	return *out.Value.UnitsConsumed, nil
}

func (l *Live) PollTransactionConfirmation(ctx context.Context, signature string, opts PollOptions) (string, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		status, err := l.signatureStatus(ctx, signature)
		if err != nil {
			if ctx.Err() != nil {
				return "", fmt.Errorf("transaction %s not confirmed within %s", signature, timeout)
			}
			return "", err
		}
		if status != "" {
			return status, nil
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("transaction %s not confirmed within %s", signature, timeout)
		case <-ticker.C:
		}
	}
}

// signatureStatus returns "confirmed" or "finalized" once reached, "" while
// still pending.
func (l *Live) signatureStatus(ctx context.Context, signature string) (string, error) {
	var out struct {
		Value []*struct {
			Err                json.RawMessage `json:"err"`
			ConfirmationStatus string          `json:"confirmationStatus"`
		} `json:"value"`
	}
	if err := l.call(ctx, &out, "getSignatureStatuses", []string{signature}); err != nil {
		return "", err
	}
	if len(out.Value) == 0 || out.Value[0] == nil {
		return "", nil
	}
	st := out.Value[0]
	if !isNull(st.Err) {
		return "", fmt.Errorf("transaction %s failed: %s", signature, st.Err)
	}
	switch st.ConfirmationStatus {
	case "confirmed", "finalized":
		return st.ConfirmationStatus, nil
	}
	return "", nil
}

func (l *Live) CreateSmartTransaction(ctx context.Context, instructions []Instruction, signers []solana.PublicKey) (*SmartTransaction, error) {
	return l.buildSmart(ctx, instructions, signers, nil, 0)
}

func (l *Live) CreateSmartTransactionWithTip(ctx context.Context, instructions []Instruction, signers []solana.PublicKey, tipAmount uint64) (*SmartTransaction, error) {
	if tipAmount == 0 {
		tipAmount = DefaultTipLamports
	}
	tip := l.pickTip()
	return l.buildSmart(ctx, instructions, signers, &tip, tipAmount)
}

// buildSmart simulates to size the compute limit, prices it from the
// priority fee estimate and assembles the final unsigned transaction.
func (l *Live) buildSmart(ctx context.Context, instructions []Instruction, signers []solana.PublicKey, tipAccount *solana.PublicKey, tipAmount uint64) (*SmartTransaction, error) {
	if len(signers) == 0 {
		return nil, fmt.Errorf("at least one signer is required")
	}
	payer := signers[0]
	ixs := instructions
	if tipAccount != nil {
		ixs = WithTip(instructions, payer, *tipAccount, tipAmount)
	}

	units, err := l.GetComputeUnits(ctx, ixs, payer, nil)
	if err != nil {
		return nil, err
	}
	limit := ComputeUnitLimit(units)

	blockhash, err := l.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, err
	}
	draft, err := BuildTransaction(ixs, payer, blockhash.Blockhash)
	if err != nil {
		return nil, err
	}
	price, err := l.recommendedPrice(ctx, draft)
	if err != nil {
		return nil, err
	}

	final := append([]Instruction{SetComputeUnitLimit(limit), SetComputeUnitPrice(price)}, ixs...)
	tx, err := BuildTransaction(final, payer, blockhash.Blockhash)
	if err != nil {
		return nil, err
	}
	out := &SmartTransaction{
		Transaction:          tx,
		Blockhash:            blockhash.Blockhash,
		LastValidBlockHeight: blockhash.LastValidBlockHeight,
		ComputeUnitLimit:     limit,
		ComputeUnitPrice:     price,
	}
	if tipAccount != nil {
		out.TipAccount = tipAccount.String()
		out.TipLamports = tipAmount
	}
	return out, nil
}

func (l *Live) recommendedPrice(ctx context.Context, transaction string) (uint64, error) {
	raw, err := l.GetPriorityFeeEstimate(ctx, PriorityFeeRequest{
		Transaction: transaction,
		Options:     &PriorityFeeOptions{Recommended: true},
	})
	if err != nil {
		return 0, err
	}
	var out struct {
		PriorityFeeEstimate float64 `json:"priorityFeeEstimate"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, fmt.Errorf("decode priority fee estimate: %w", err)
	}
	return uint64(math.Ceil(out.PriorityFeeEstimate)), nil
}

func (l *Live) SendSmartTransaction(context.Context, []Instruction, []solana.PublicKey, bool) (string, error) {
	return "", ErrSigningUnavailable
}

func (l *Live) AddTipInstruction(_ context.Context, instructions []Instruction, feePayer, tipAccount solana.PublicKey, tipAmount uint64) ([]Instruction, error) {
	return WithTip(instructions, feePayer, tipAccount, tipAmount), nil
}

func (l *Live) jito(url string) jsonrpc.RPCClient {
	if url == "" {
		url = l.jitoURL
	}
	return jsonrpc.NewClientWithOpts(url, &jsonrpc.RPCClientOpts{HTTPClient: l.httpClient})
}

func (l *Live) SendJitoBundle(ctx context.Context, serializedTransactions []string, jitoAPIURL string) (string, error) {
	var out string
	err := l.jito(jitoAPIURL).CallForInto(ctx, &out, "sendBundle", []any{
		serializedTransactions,
		map[string]any{"encoding": "base64"},
	})
	return out, l.track("sendBundle", err)
}

func (l *Live) GetBundleStatuses(ctx context.Context, bundleIDs []string, jitoAPIURL string) (json.RawMessage, error) {
	var out json.RawMessage
	err := l.jito(jitoAPIURL).CallForInto(ctx, &out, "getBundleStatuses", []any{bundleIDs})
	return out, l.track("getBundleStatuses", err)
}

func (l *Live) SendSmartTransactionWithTip(context.Context, []Instruction, []solana.PublicKey, uint64, string) (string, error) {
	return "", ErrSigningUnavailable
}

func (l *Live) SendTransaction(ctx context.Context, transaction string, opts SendOptions) (string, error) {
	cfg := map[string]any{"encoding": "base64", "skipPreflight": opts.SkipPreflight}
	if opts.MaxRetries != nil {
		cfg["maxRetries"] = *opts.MaxRetries
	}
	if opts.PreflightCommitment != "" {
		cfg["preflightCommitment"] = opts.PreflightCommitment
	}
	var out string
	err := l.call(ctx, &out, "sendTransaction", transaction, cfg)
	return out, err
}

func (l *Live) ExecuteJupiterSwap(context.Context, JupiterSwapRequest) (json.RawMessage, error) {
	return nil, ErrSigningUnavailable
}
