package tools

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/dcSpark/mcp-server-helius/internal/helius"
)

var _ helius.Client = (*countingClient)(nil)

// countingClient records every client method invoked on the wrapped client.
type countingClient struct {
	helius.Client

	mu    sync.Mutex
	calls []string
}

func newCountingClient(c helius.Client) *countingClient {
	return &countingClient{Client: c}
}

func (c *countingClient) record(method string) {
	c.mu.Lock()
	c.calls = append(c.calls, method)
	c.mu.Unlock()
}

func (c *countingClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *countingClient) GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (uint64, error) {
	c.record("GetBalance")
	return c.Client.GetBalance(ctx, account, commitment)
}

func (c *countingClient) GetBlockHeight(ctx context.Context, commitment rpc.CommitmentType) (uint64, error) {
	c.record("GetBlockHeight")
	return c.Client.GetBlockHeight(ctx, commitment)
}

func (c *countingClient) GetTokenAccountsByOwner(ctx context.Context, owner, programID solana.PublicKey) (*helius.TokenAccountsResult, error) {
	c.record("GetTokenAccountsByOwner")
	return c.Client.GetTokenAccountsByOwner(ctx, owner, programID)
}

func (c *countingClient) GetTokenSupply(ctx context.Context, mint solana.PublicKey) (*helius.TokenAmount, error) {
	c.record("GetTokenSupply")
	return c.Client.GetTokenSupply(ctx, mint)
}

func (c *countingClient) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*helius.Blockhash, error) {
	c.record("GetLatestBlockhash")
	return c.Client.GetLatestBlockhash(ctx, commitment)
}

func (c *countingClient) GetTokenAccountBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*helius.TokenAmount, error) {
	c.record("GetTokenAccountBalance")
	return c.Client.GetTokenAccountBalance(ctx, account, commitment)
}

func (c *countingClient) GetSlot(ctx context.Context, commitment rpc.CommitmentType) (uint64, error) {
	c.record("GetSlot")
	return c.Client.GetSlot(ctx, commitment)
}

func (c *countingClient) GetTransaction(ctx context.Context, signature string, commitment rpc.CommitmentType) (json.RawMessage, error) {
	c.record("GetTransaction")
	return c.Client.GetTransaction(ctx, signature, commitment)
}

func (c *countingClient) GetAccountInfo(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*helius.AccountInfoResult, error) {
	c.record("GetAccountInfo")
	return c.Client.GetAccountInfo(ctx, account, commitment)
}

func (c *countingClient) GetProgramAccounts(ctx context.Context, programID solana.PublicKey, commitment rpc.CommitmentType) ([]helius.ProgramAccount, error) {
	c.record("GetProgramAccounts")
	return c.Client.GetProgramAccounts(ctx, programID, commitment)
}

func (c *countingClient) GetSignaturesForAddress(ctx context.Context, address solana.PublicKey, opts helius.SignaturesOptions) ([]helius.SignatureInfo, error) {
	c.record("GetSignaturesForAddress")
	return c.Client.GetSignaturesForAddress(ctx, address, opts)
}

func (c *countingClient) GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64, commitment rpc.CommitmentType) (uint64, error) {
	c.record("GetMinimumBalanceForRentExemption")
	return c.Client.GetMinimumBalanceForRentExemption(ctx, dataSize, commitment)
}

func (c *countingClient) GetMultipleAccounts(ctx context.Context, accounts []solana.PublicKey, commitment rpc.CommitmentType) (*helius.MultipleAccountsResult, error) {
	c.record("GetMultipleAccounts")
	return c.Client.GetMultipleAccounts(ctx, accounts, commitment)
}

func (c *countingClient) GetFeeForMessage(ctx context.Context, message string, commitment rpc.CommitmentType) (*helius.FeeForMessageResult, error) {
	c.record("GetFeeForMessage")
	return c.Client.GetFeeForMessage(ctx, message, commitment)
}

func (c *countingClient) GetInflationReward(ctx context.Context, addresses []solana.PublicKey, epoch *uint64, commitment rpc.CommitmentType) ([]*helius.InflationReward, error) {
	c.record("GetInflationReward")
	return c.Client.GetInflationReward(ctx, addresses, epoch, commitment)
}

func (c *countingClient) GetEpochInfo(ctx context.Context, commitment rpc.CommitmentType) (*helius.EpochInfo, error) {
	c.record("GetEpochInfo")
	return c.Client.GetEpochInfo(ctx, commitment)
}

func (c *countingClient) GetEpochSchedule(ctx context.Context) (*helius.EpochSchedule, error) {
	c.record("GetEpochSchedule")
	return c.Client.GetEpochSchedule(ctx)
}

func (c *countingClient) GetLeaderSchedule(ctx context.Context, slot *uint64, identity *solana.PublicKey, commitment rpc.CommitmentType) (map[string][]uint64, error) {
	c.record("GetLeaderSchedule")
	return c.Client.GetLeaderSchedule(ctx, slot, identity, commitment)
}

func (c *countingClient) GetRecentPerformanceSamples(ctx context.Context, limit int) ([]helius.PerformanceSample, error) {
	c.record("GetRecentPerformanceSamples")
	return c.Client.GetRecentPerformanceSamples(ctx, limit)
}

func (c *countingClient) GetVersion(ctx context.Context) (*helius.Version, error) {
	c.record("GetVersion")
	return c.Client.GetVersion(ctx)
}

func (c *countingClient) GetHealth(ctx context.Context) (string, error) {
	c.record("GetHealth")
	return c.Client.GetHealth(ctx)
}

func (c *countingClient) GetBlockTime(ctx context.Context, slot uint64) (int64, error) {
	c.record("GetBlockTime")
	return c.Client.GetBlockTime(ctx, slot)
}

func (c *countingClient) GetBlockCommitment(ctx context.Context, block uint64) (*helius.BlockCommitment, error) {
	c.record("GetBlockCommitment")
	return c.Client.GetBlockCommitment(ctx, block)
}

func (c *countingClient) GetClusterNodes(ctx context.Context) (json.RawMessage, error) {
	c.record("GetClusterNodes")
	return c.Client.GetClusterNodes(ctx)
}

func (c *countingClient) GetIdentity(ctx context.Context) (string, error) {
	c.record("GetIdentity")
	return c.Client.GetIdentity(ctx)
}

func (c *countingClient) GetSlotLeader(ctx context.Context, commitment rpc.CommitmentType) (string, error) {
	c.record("GetSlotLeader")
	return c.Client.GetSlotLeader(ctx, commitment)
}

func (c *countingClient) GetGenesisHash(ctx context.Context) (string, error) {
	c.record("GetGenesisHash")
	return c.Client.GetGenesisHash(ctx)
}

func (c *countingClient) GetStakeMinimumDelegation(ctx context.Context, commitment rpc.CommitmentType) (uint64, error) {
	c.record("GetStakeMinimumDelegation")
	return c.Client.GetStakeMinimumDelegation(ctx, commitment)
}

func (c *countingClient) GetVoteAccounts(ctx context.Context, votePubkey *solana.PublicKey, commitment rpc.CommitmentType) (json.RawMessage, error) {
	c.record("GetVoteAccounts")
	return c.Client.GetVoteAccounts(ctx, votePubkey, commitment)
}

func (c *countingClient) GetInflationGovernor(ctx context.Context, commitment rpc.CommitmentType) (json.RawMessage, error) {
	c.record("GetInflationGovernor")
	return c.Client.GetInflationGovernor(ctx, commitment)
}

func (c *countingClient) MinimumLedgerSlot(ctx context.Context) (uint64, error) {
	c.record("MinimumLedgerSlot")
	return c.Client.MinimumLedgerSlot(ctx)
}

func (c *countingClient) RequestAirdrop(ctx context.Context, account solana.PublicKey, lamports uint64, commitment rpc.CommitmentType) (string, error) {
	c.record("RequestAirdrop")
	return c.Client.RequestAirdrop(ctx, account, lamports, commitment)
}

func (c *countingClient) GetTokenAccountsByDelegate(ctx context.Context, delegate, programID solana.PublicKey, commitment rpc.CommitmentType) (json.RawMessage, error) {
	c.record("GetTokenAccountsByDelegate")
	return c.Client.GetTokenAccountsByDelegate(ctx, delegate, programID, commitment)
}

func (c *countingClient) GetBlocksWithLimit(ctx context.Context, startSlot, limit uint64, commitment rpc.CommitmentType) ([]uint64, error) {
	c.record("GetBlocksWithLimit")
	return c.Client.GetBlocksWithLimit(ctx, startSlot, limit, commitment)
}

func (c *countingClient) GetBlocks(ctx context.Context, startSlot uint64, endSlot *uint64, commitment rpc.CommitmentType) ([]uint64, error) {
	c.record("GetBlocks")
	return c.Client.GetBlocks(ctx, startSlot, endSlot, commitment)
}

func (c *countingClient) GetFirstAvailableBlock(ctx context.Context) (uint64, error) {
	c.record("GetFirstAvailableBlock")
	return c.Client.GetFirstAvailableBlock(ctx)
}

func (c *countingClient) GetSlotLeaders(ctx context.Context, startSlot, limit uint64) ([]string, error) {
	c.record("GetSlotLeaders")
	return c.Client.GetSlotLeaders(ctx, startSlot, limit)
}

func (c *countingClient) GetInflationRate(ctx context.Context) (json.RawMessage, error) {
	c.record("GetInflationRate")
	return c.Client.GetInflationRate(ctx)
}

func (c *countingClient) GetSignatureStatuses(ctx context.Context, signatures []string, searchTransactionHistory bool) (json.RawMessage, error) {
	c.record("GetSignatureStatuses")
	return c.Client.GetSignatureStatuses(ctx, signatures, searchTransactionHistory)
}

func (c *countingClient) IsBlockhashValid(ctx context.Context, blockhash string, commitment rpc.CommitmentType) (bool, error) {
	c.record("IsBlockhashValid")
	return c.Client.IsBlockhashValid(ctx, blockhash, commitment)
}

func (c *countingClient) GetRecentPrioritizationFees(ctx context.Context, addresses []solana.PublicKey) (json.RawMessage, error) {
	c.record("GetRecentPrioritizationFees")
	return c.Client.GetRecentPrioritizationFees(ctx, addresses)
}

func (c *countingClient) GetBlock(ctx context.Context, slot uint64, opts helius.BlockOptions) (json.RawMessage, error) {
	c.record("GetBlock")
	return c.Client.GetBlock(ctx, slot, opts)
}

func (c *countingClient) GetBlockProduction(ctx context.Context, opts helius.BlockProductionOptions) (json.RawMessage, error) {
	c.record("GetBlockProduction")
	return c.Client.GetBlockProduction(ctx, opts)
}

func (c *countingClient) GetSupply(ctx context.Context, commitment rpc.CommitmentType) (json.RawMessage, error) {
	c.record("GetSupply")
	return c.Client.GetSupply(ctx, commitment)
}

func (c *countingClient) GetTransactionCount(ctx context.Context, commitment rpc.CommitmentType) (uint64, error) {
	c.record("GetTransactionCount")
	return c.Client.GetTransactionCount(ctx, commitment)
}

func (c *countingClient) GetHighestSnapshotSlot(ctx context.Context) (json.RawMessage, error) {
	c.record("GetHighestSnapshotSlot")
	return c.Client.GetHighestSnapshotSlot(ctx)
}

func (c *countingClient) GetMaxRetransmitSlot(ctx context.Context) (uint64, error) {
	c.record("GetMaxRetransmitSlot")
	return c.Client.GetMaxRetransmitSlot(ctx)
}

func (c *countingClient) GetMaxShredInsertSlot(ctx context.Context) (uint64, error) {
	c.record("GetMaxShredInsertSlot")
	return c.Client.GetMaxShredInsertSlot(ctx)
}

func (c *countingClient) SimulateTransaction(ctx context.Context, transaction string, opts helius.SimulateOptions) (json.RawMessage, error) {
	c.record("SimulateTransaction")
	return c.Client.SimulateTransaction(ctx, transaction, opts)
}

func (c *countingClient) GetAsset(ctx context.Context, id solana.PublicKey) (json.RawMessage, error) {
	c.record("GetAsset")
	return c.Client.GetAsset(ctx, id)
}

func (c *countingClient) GetRWAAsset(ctx context.Context, id solana.PublicKey) (json.RawMessage, error) {
	c.record("GetRWAAsset")
	return c.Client.GetRWAAsset(ctx, id)
}

func (c *countingClient) GetAssetBatch(ctx context.Context, ids []solana.PublicKey) (json.RawMessage, error) {
	c.record("GetAssetBatch")
	return c.Client.GetAssetBatch(ctx, ids)
}

func (c *countingClient) GetAssetProof(ctx context.Context, id solana.PublicKey) (json.RawMessage, error) {
	c.record("GetAssetProof")
	return c.Client.GetAssetProof(ctx, id)
}

func (c *countingClient) GetAssetsByGroup(ctx context.Context, groupKey, groupValue string, page helius.Page) (json.RawMessage, error) {
	c.record("GetAssetsByGroup")
	return c.Client.GetAssetsByGroup(ctx, groupKey, groupValue, page)
}

func (c *countingClient) GetAssetsByOwner(ctx context.Context, owner solana.PublicKey, page helius.Page) (json.RawMessage, error) {
	c.record("GetAssetsByOwner")
	return c.Client.GetAssetsByOwner(ctx, owner, page)
}

func (c *countingClient) GetAssetsByCreator(ctx context.Context, creator solana.PublicKey, onlyVerified bool, page helius.Page) (json.RawMessage, error) {
	c.record("GetAssetsByCreator")
	return c.Client.GetAssetsByCreator(ctx, creator, onlyVerified, page)
}

func (c *countingClient) GetAssetsByAuthority(ctx context.Context, authority solana.PublicKey, page helius.Page) (json.RawMessage, error) {
	c.record("GetAssetsByAuthority")
	return c.Client.GetAssetsByAuthority(ctx, authority, page)
}

func (c *countingClient) SearchAssets(ctx context.Context, req helius.SearchAssetsRequest) (json.RawMessage, error) {
	c.record("SearchAssets")
	return c.Client.SearchAssets(ctx, req)
}

func (c *countingClient) GetSignaturesForAsset(ctx context.Context, id solana.PublicKey, page helius.Page) (json.RawMessage, error) {
	c.record("GetSignaturesForAsset")
	return c.Client.GetSignaturesForAsset(ctx, id, page)
}

func (c *countingClient) GetNFTEditions(ctx context.Context, masterEditionID solana.PublicKey, page helius.Page) (json.RawMessage, error) {
	c.record("GetNFTEditions")
	return c.Client.GetNFTEditions(ctx, masterEditionID, page)
}

func (c *countingClient) GetTokenAccounts(ctx context.Context, req helius.TokenAccountsRequest) (json.RawMessage, error) {
	c.record("GetTokenAccounts")
	return c.Client.GetTokenAccounts(ctx, req)
}

func (c *countingClient) GetPriorityFeeEstimate(ctx context.Context, req helius.PriorityFeeRequest) (json.RawMessage, error) {
	c.record("GetPriorityFeeEstimate")
	return c.Client.GetPriorityFeeEstimate(ctx, req)
}

func (c *countingClient) GetComputeUnits(ctx context.Context, instructions []helius.Instruction, payer solana.PublicKey, lookupTables []solana.PublicKey) (uint64, error) {
	c.record("GetComputeUnits")
	return c.Client.GetComputeUnits(ctx, instructions, payer, lookupTables)
}

func (c *countingClient) PollTransactionConfirmation(ctx context.Context, signature string, opts helius.PollOptions) (string, error) {
	c.record("PollTransactionConfirmation")
	return c.Client.PollTransactionConfirmation(ctx, signature, opts)
}

func (c *countingClient) CreateSmartTransaction(ctx context.Context, instructions []helius.Instruction, signers []solana.PublicKey) (*helius.SmartTransaction, error) {
	c.record("CreateSmartTransaction")
	return c.Client.CreateSmartTransaction(ctx, instructions, signers)
}

func (c *countingClient) SendSmartTransaction(ctx context.Context, instructions []helius.Instruction, signers []solana.PublicKey, skipPreflight bool) (string, error) {
	c.record("SendSmartTransaction")
	return c.Client.SendSmartTransaction(ctx, instructions, signers, skipPreflight)
}

func (c *countingClient) AddTipInstruction(ctx context.Context, instructions []helius.Instruction, feePayer, tipAccount solana.PublicKey, tipAmount uint64) ([]helius.Instruction, error) {
	c.record("AddTipInstruction")
	return c.Client.AddTipInstruction(ctx, instructions, feePayer, tipAccount, tipAmount)
}

func (c *countingClient) CreateSmartTransactionWithTip(ctx context.Context, instructions []helius.Instruction, signers []solana.PublicKey, tipAmount uint64) (*helius.SmartTransaction, error) {
	c.record("CreateSmartTransactionWithTip")
	return c.Client.CreateSmartTransactionWithTip(ctx, instructions, signers, tipAmount)
}

func (c *countingClient) SendJitoBundle(ctx context.Context, serializedTransactions []string, jitoAPIURL string) (string, error) {
	c.record("SendJitoBundle")
	return c.Client.SendJitoBundle(ctx, serializedTransactions, jitoAPIURL)
}

func (c *countingClient) GetBundleStatuses(ctx context.Context, bundleIDs []string, jitoAPIURL string) (json.RawMessage, error) {
	c.record("GetBundleStatuses")
	return c.Client.GetBundleStatuses(ctx, bundleIDs, jitoAPIURL)
}

func (c *countingClient) SendSmartTransactionWithTip(ctx context.Context, instructions []helius.Instruction, signers []solana.PublicKey, tipAmount uint64, region string) (string, error) {
	c.record("SendSmartTransactionWithTip")
	return c.Client.SendSmartTransactionWithTip(ctx, instructions, signers, tipAmount, region)
}

func (c *countingClient) SendTransaction(ctx context.Context, transaction string, opts helius.SendOptions) (string, error) {
	c.record("SendTransaction")
	return c.Client.SendTransaction(ctx, transaction, opts)
}

func (c *countingClient) ExecuteJupiterSwap(ctx context.Context, req helius.JupiterSwapRequest) (json.RawMessage, error) {
	c.record("ExecuteJupiterSwap")
	return c.Client.ExecuteJupiterSwap(ctx, req)
}
