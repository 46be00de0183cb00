// Package helius is the remote side of the tool server: a Client interface
// with one method per tool, a live implementation talking JSON-RPC to the
// Helius endpoint, and a deterministic mock.
package helius

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var (
	// ErrNotFound is returned when the remote answered with an empty result
	// for a lookup that must resolve to something.
	ErrNotFound = errors.New("not found")
	// ErrSigningUnavailable is returned by operations that would need a
	// private key. The server never holds one.
	ErrSigningUnavailable = errors.New("transaction signing is not available: this server holds no private keys")
)

// Client is the remote collaborator. Every method performs one logical
// remote operation. Commitment values are forwarded unchanged; empty means
// the node default.
type Client interface {
	// Core RPC
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (uint64, error)
	GetBlockHeight(ctx context.Context, commitment rpc.CommitmentType) (uint64, error)
	GetTokenAccountsByOwner(ctx context.Context, owner, programID solana.PublicKey) (*TokenAccountsResult, error)
	GetTokenSupply(ctx context.Context, mint solana.PublicKey) (*TokenAmount, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*Blockhash, error)
	GetTokenAccountBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*TokenAmount, error)
	GetSlot(ctx context.Context, commitment rpc.CommitmentType) (uint64, error)
	GetTransaction(ctx context.Context, signature string, commitment rpc.CommitmentType) (json.RawMessage, error)
	GetAccountInfo(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*AccountInfoResult, error)
	GetProgramAccounts(ctx context.Context, programID solana.PublicKey, commitment rpc.CommitmentType) ([]ProgramAccount, error)
	GetSignaturesForAddress(ctx context.Context, address solana.PublicKey, opts SignaturesOptions) ([]SignatureInfo, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64, commitment rpc.CommitmentType) (uint64, error)
	GetMultipleAccounts(ctx context.Context, accounts []solana.PublicKey, commitment rpc.CommitmentType) (*MultipleAccountsResult, error)
	GetFeeForMessage(ctx context.Context, message string, commitment rpc.CommitmentType) (*FeeForMessageResult, error)
	GetInflationReward(ctx context.Context, addresses []solana.PublicKey, epoch *uint64, commitment rpc.CommitmentType) ([]*InflationReward, error)
	GetEpochInfo(ctx context.Context, commitment rpc.CommitmentType) (*EpochInfo, error)
	GetEpochSchedule(ctx context.Context) (*EpochSchedule, error)
	GetLeaderSchedule(ctx context.Context, slot *uint64, identity *solana.PublicKey, commitment rpc.CommitmentType) (map[string][]uint64, error)
	GetRecentPerformanceSamples(ctx context.Context, limit int) ([]PerformanceSample, error)
	GetVersion(ctx context.Context) (*Version, error)
	GetHealth(ctx context.Context) (string, error)

	// Additional RPC
	GetBlockTime(ctx context.Context, slot uint64) (int64, error)
	GetBlockCommitment(ctx context.Context, block uint64) (*BlockCommitment, error)
	GetClusterNodes(ctx context.Context) (json.RawMessage, error)
	GetIdentity(ctx context.Context) (string, error)
	GetSlotLeader(ctx context.Context, commitment rpc.CommitmentType) (string, error)
	GetGenesisHash(ctx context.Context) (string, error)
	GetStakeMinimumDelegation(ctx context.Context, commitment rpc.CommitmentType) (uint64, error)
	GetVoteAccounts(ctx context.Context, votePubkey *solana.PublicKey, commitment rpc.CommitmentType) (json.RawMessage, error)
	GetInflationGovernor(ctx context.Context, commitment rpc.CommitmentType) (json.RawMessage, error)
	MinimumLedgerSlot(ctx context.Context) (uint64, error)
	RequestAirdrop(ctx context.Context, account solana.PublicKey, lamports uint64, commitment rpc.CommitmentType) (string, error)
	GetTokenAccountsByDelegate(ctx context.Context, delegate, programID solana.PublicKey, commitment rpc.CommitmentType) (json.RawMessage, error)
	GetBlocksWithLimit(ctx context.Context, startSlot, limit uint64, commitment rpc.CommitmentType) ([]uint64, error)
	GetBlocks(ctx context.Context, startSlot uint64, endSlot *uint64, commitment rpc.CommitmentType) ([]uint64, error)
	GetFirstAvailableBlock(ctx context.Context) (uint64, error)
	GetSlotLeaders(ctx context.Context, startSlot, limit uint64) ([]string, error)
	GetInflationRate(ctx context.Context) (json.RawMessage, error)
	GetSignatureStatuses(ctx context.Context, signatures []string, searchTransactionHistory bool) (json.RawMessage, error)
	IsBlockhashValid(ctx context.Context, blockhash string, commitment rpc.CommitmentType) (bool, error)
	GetRecentPrioritizationFees(ctx context.Context, addresses []solana.PublicKey) (json.RawMessage, error)
	GetBlock(ctx context.Context, slot uint64, opts BlockOptions) (json.RawMessage, error)
	GetBlockProduction(ctx context.Context, opts BlockProductionOptions) (json.RawMessage, error)
	GetSupply(ctx context.Context, commitment rpc.CommitmentType) (json.RawMessage, error)
	GetTransactionCount(ctx context.Context, commitment rpc.CommitmentType) (uint64, error)
	GetHighestSnapshotSlot(ctx context.Context) (json.RawMessage, error)
	GetMaxRetransmitSlot(ctx context.Context) (uint64, error)
	GetMaxShredInsertSlot(ctx context.Context) (uint64, error)
	SimulateTransaction(ctx context.Context, transaction string, opts SimulateOptions) (json.RawMessage, error)

	// Digital Asset Standard
	GetAsset(ctx context.Context, id solana.PublicKey) (json.RawMessage, error)
	GetRWAAsset(ctx context.Context, id solana.PublicKey) (json.RawMessage, error)
	GetAssetBatch(ctx context.Context, ids []solana.PublicKey) (json.RawMessage, error)
	GetAssetProof(ctx context.Context, id solana.PublicKey) (json.RawMessage, error)
	GetAssetsByGroup(ctx context.Context, groupKey, groupValue string, page Page) (json.RawMessage, error)
	GetAssetsByOwner(ctx context.Context, owner solana.PublicKey, page Page) (json.RawMessage, error)
	GetAssetsByCreator(ctx context.Context, creator solana.PublicKey, onlyVerified bool, page Page) (json.RawMessage, error)
	GetAssetsByAuthority(ctx context.Context, authority solana.PublicKey, page Page) (json.RawMessage, error)
	SearchAssets(ctx context.Context, req SearchAssetsRequest) (json.RawMessage, error)
	GetSignaturesForAsset(ctx context.Context, id solana.PublicKey, page Page) (json.RawMessage, error)
	GetNFTEditions(ctx context.Context, masterEditionID solana.PublicKey, page Page) (json.RawMessage, error)
	GetTokenAccounts(ctx context.Context, req TokenAccountsRequest) (json.RawMessage, error)

	// Transactions, fees and bundles
	GetPriorityFeeEstimate(ctx context.Context, req PriorityFeeRequest) (json.RawMessage, error)
	GetComputeUnits(ctx context.Context, instructions []Instruction, payer solana.PublicKey, lookupTables []solana.PublicKey) (uint64, error)
	PollTransactionConfirmation(ctx context.Context, signature string, opts PollOptions) (string, error)
	CreateSmartTransaction(ctx context.Context, instructions []Instruction, signers []solana.PublicKey) (*SmartTransaction, error)
	SendSmartTransaction(ctx context.Context, instructions []Instruction, signers []solana.PublicKey, skipPreflight bool) (string, error)
	AddTipInstruction(ctx context.Context, instructions []Instruction, feePayer, tipAccount solana.PublicKey, tipAmount uint64) ([]Instruction, error)
	CreateSmartTransactionWithTip(ctx context.Context, instructions []Instruction, signers []solana.PublicKey, tipAmount uint64) (*SmartTransaction, error)
	SendJitoBundle(ctx context.Context, serializedTransactions []string, jitoAPIURL string) (string, error)
	GetBundleStatuses(ctx context.Context, bundleIDs []string, jitoAPIURL string) (json.RawMessage, error)
	SendSmartTransactionWithTip(ctx context.Context, instructions []Instruction, signers []solana.PublicKey, tipAmount uint64, region string) (string, error)
	SendTransaction(ctx context.Context, transaction string, opts SendOptions) (string, error)
	ExecuteJupiterSwap(ctx context.Context, req JupiterSwapRequest) (json.RawMessage, error)
}

type Context struct {
	Slot uint64 `json:"slot"`
}

type KeyedAccount struct {
	Pubkey  string          `json:"pubkey"`
	Account json.RawMessage `json:"account,omitempty"`
}

type TokenAccountsResult struct {
	Context Context        `json:"context"`
	Value   []KeyedAccount `json:"value"`
}

type TokenAmount struct {
	Amount         string   `json:"amount"`
	Decimals       uint8    `json:"decimals"`
	UIAmount       *float64 `json:"uiAmount"`
	UIAmountString string   `json:"uiAmountString"`
}

type Blockhash struct {
	Blockhash            string `json:"blockhash"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
}

type Account struct {
	Data       json.RawMessage `json:"data"`
	Executable bool            `json:"executable"`
	Lamports   uint64          `json:"lamports"`
	Owner      string          `json:"owner"`
	RentEpoch  uint64          `json:"rentEpoch"`
}

type AccountInfoResult struct {
	Context Context  `json:"context"`
	Value   *Account `json:"value"`
}

type ProgramAccount struct {
	Pubkey  string  `json:"pubkey"`
	Account Account `json:"account"`
}

type SignaturesOptions struct {
	Limit      int
	Before     string
	Until      string
	Commitment rpc.CommitmentType
}

type SignatureInfo struct {
	Signature          string  `json:"signature"`
	Slot               uint64  `json:"slot"`
	Err                any     `json:"err"`
	Memo               *string `json:"memo"`
	BlockTime          *int64  `json:"blockTime"`
	ConfirmationStatus string  `json:"confirmationStatus,omitempty"`
}

type MultipleAccountsResult struct {
	Context Context    `json:"context"`
	Value   []*Account `json:"value"`
}

type FeeForMessageResult struct {
	Context Context `json:"context"`
	Value   *uint64 `json:"value"`
}

type InflationReward struct {
	Epoch         uint64 `json:"epoch"`
	EffectiveSlot uint64 `json:"effectiveSlot"`
	Amount        uint64 `json:"amount"`
	PostBalance   uint64 `json:"postBalance"`
	Commission    *uint8 `json:"commission"`
}

type EpochInfo struct {
	Epoch            uint64  `json:"epoch"`
	SlotIndex        uint64  `json:"slotIndex"`
	SlotsInEpoch     uint64  `json:"slotsInEpoch"`
	AbsoluteSlot     uint64  `json:"absoluteSlot"`
	BlockHeight      uint64  `json:"blockHeight"`
	TransactionCount *uint64 `json:"transactionCount,omitempty"`
}

type EpochSchedule struct {
	SlotsPerEpoch            uint64 `json:"slotsPerEpoch"`
	LeaderScheduleSlotOffset uint64 `json:"leaderScheduleSlotOffset"`
	Warmup                   bool   `json:"warmup"`
	FirstNormalEpoch         uint64 `json:"firstNormalEpoch"`
	FirstNormalSlot          uint64 `json:"firstNormalSlot"`
}

type PerformanceSample struct {
	Slot             uint64 `json:"slot"`
	NumTransactions  uint64 `json:"numTransactions"`
	NumSlots         uint64 `json:"numSlots"`
	SamplePeriodSecs uint16 `json:"samplePeriodSecs"`
}

type Version struct {
	SolanaCore string `json:"solana-core"`
	FeatureSet uint32 `json:"feature-set"`
}

type BlockCommitment struct {
	Commitment []uint64 `json:"commitment"`
	TotalStake uint64   `json:"totalStake"`
}

type BlockOptions struct {
	MaxSupportedTransactionVersion *uint64
	Commitment                     rpc.CommitmentType
}

type SlotRange struct {
	FirstSlot uint64  `json:"firstSlot"`
	LastSlot  *uint64 `json:"lastSlot,omitempty"`
}

type BlockProductionOptions struct {
	Range      *SlotRange
	Identity   *solana.PublicKey
	Commitment rpc.CommitmentType
}

type SimulateOptions struct {
	SigVerify              bool
	ReplaceRecentBlockhash bool
	Commitment             rpc.CommitmentType
}

// Page is the Digital Asset Standard pagination pair. Zero means the
// server default.
type Page struct {
	Page  int
	Limit int
}

type SearchAssetsRequest struct {
	// Query holds free-form DAS search filters.
	Query        map[string]any
	OwnerAddress *solana.PublicKey
	Page         Page
}

type TokenAccountsRequest struct {
	Mint  *solana.PublicKey
	Owner *solana.PublicKey
	Page  Page
}

type PriorityFeeOptions struct {
	PriorityLevel               string `json:"priorityLevel,omitempty"`
	IncludeAllPriorityFeeLevels bool   `json:"includeAllPriorityFeeLevels,omitempty"`
	Recommended                 bool   `json:"recommended,omitempty"`
}

type PriorityFeeRequest struct {
	AccountKeys []solana.PublicKey
	Transaction string
	Options     *PriorityFeeOptions
}

type AccountMeta struct {
	Pubkey     solana.PublicKey `json:"pubkey"`
	IsSigner   bool             `json:"isSigner"`
	IsWritable bool             `json:"isWritable"`
}

// Instruction is a validated instruction. Data marshals as standard base64.
type Instruction struct {
	ProgramID solana.PublicKey `json:"programId"`
	Accounts  []AccountMeta    `json:"accounts"`
	Data      []byte           `json:"data"`
}

type PollOptions struct {
	Timeout  time.Duration
	Interval time.Duration
}

// SmartTransaction is an unsigned, base64 encoded legacy transaction with
// compute budget instructions prepended.
type SmartTransaction struct {
	Transaction          string `json:"transaction"`
	Blockhash            string `json:"blockhash"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
	ComputeUnitLimit     uint32 `json:"computeUnitLimit"`
	ComputeUnitPrice     uint64 `json:"computeUnitPrice"`
	TipAccount           string `json:"tipAccount,omitempty"`
	TipLamports          uint64 `json:"tipLamports,omitempty"`
}

type SendOptions struct {
	SkipPreflight       bool
	MaxRetries          *uint64
	PreflightCommitment rpc.CommitmentType
}

type JupiterSwapRequest struct {
	InputMint             solana.PublicKey
	OutputMint            solana.PublicKey
	Amount                uint64
	MaxDynamicSlippageBps *uint64
	Signer                solana.PublicKey
}

const (
	DefaultPollTimeout  = 15 * time.Second
	DefaultPollInterval = 5 * time.Second
	// DefaultTipLamports is the Jito tip used when a request leaves it unset.
	DefaultTipLamports uint64 = 1000
	DefaultJitoURL            = "https://mainnet.block-engine.jito.wtf/api/v1/bundles"
)
