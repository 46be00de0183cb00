package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dcSpark/mcp-server-helius/internal/core"
	"github.com/dcSpark/mcp-server-helius/internal/helius"
)

type slotInput struct {
	Slot uint64 `json:"slot" jsonschema:"description=Slot number"`
}

type blockCommitmentInput struct {
	Block uint64 `json:"block" jsonschema:"description=Block slot"`
}

type voteAccountsInput struct {
	VotePubkey string `json:"votePubkey,omitempty" jsonschema:"description=Only return this vote account"`
	withCommitment
}

type airdropInput struct {
	PublicKey string `json:"publicKey" jsonschema:"description=Recipient address"`
	Lamports  uint64 `json:"lamports" jsonschema:"minimum=1,description=Lamports to airdrop"`
	withCommitment
}

type tokenAccountsByDelegateInput struct {
	DelegateAddress string `json:"delegateAddress" jsonschema:"description=Delegate address"`
	ProgramID       string `json:"programId" jsonschema:"description=Token program address"`
	withCommitment
}

type blocksWithLimitInput struct {
	StartSlot uint64 `json:"startSlot" jsonschema:"description=First slot"`
	Limit     uint64 `json:"limit" jsonschema:"minimum=1,maximum=500000,description=Maximum number of blocks"`
	withCommitment
}

type blocksInput struct {
	StartSlot uint64  `json:"startSlot" jsonschema:"description=First slot"`
	EndSlot   *uint64 `json:"endSlot,omitempty" jsonschema:"description=Last slot (inclusive)"`
	withCommitment
}

type slotLeadersInput struct {
	StartSlot uint64 `json:"startSlot" jsonschema:"description=First slot"`
	Limit     uint64 `json:"limit" jsonschema:"minimum=1,maximum=5000,description=Number of leaders to return"`
}

type signatureStatusesInput struct {
	Signatures               []string `json:"signatures" jsonschema:"minItems=1,maxItems=256,description=Transaction signatures"`
	SearchTransactionHistory bool     `json:"searchTransactionHistory,omitempty" jsonschema:"description=Search beyond the recent status cache"`
}

type blockhashInput struct {
	Blockhash string `json:"blockhash" jsonschema:"description=Base58 encoded blockhash"`
	withCommitment
}

type addressesInput struct {
	Addresses []string `json:"addresses,omitempty" jsonschema:"maxItems=128,description=Account addresses to filter by"`
}

type blockInput struct {
	Slot                           uint64  `json:"slot" jsonschema:"description=Slot number"`
	MaxSupportedTransactionVersion *uint64 `json:"maxSupportedTransactionVersion,omitempty" jsonschema:"description=Highest transaction version to return"`
	withCommitment
}

type slotRangeInput struct {
	FirstSlot uint64  `json:"firstSlot" jsonschema:"description=First slot"`
	LastSlot  *uint64 `json:"lastSlot,omitempty" jsonschema:"description=Last slot"`
}

type blockProductionInput struct {
	Range    *slotRangeInput `json:"range,omitempty"`
	Identity string          `json:"identity,omitempty" jsonschema:"description=Only return this validator identity"`
	withCommitment
}

type simulateInput struct {
	Transaction            string `json:"transaction" jsonschema:"description=Base64 encoded transaction"`
	SigVerify              bool   `json:"sigVerify,omitempty"`
	ReplaceRecentBlockhash bool   `json:"replaceRecentBlockhash,omitempty"`
	withCommitment
}

func additionalRPCTools() []*Tool {
	return []*Tool{
		define("get_block_time", "Get the estimated production time of a block", "getting block time",
			func(ctx context.Context, c helius.Client, in slotInput) (int64, error) {
				t, err := c.GetBlockTime(ctx, in.Slot)
				if errors.Is(err, helius.ErrNotFound) {
					return 0, core.NotFoundError("Block time not available for slot: %d", in.Slot)
				}
				return t, err
			},
			scalar[slotInput, int64]("Block time"),
		),

		define("get_block_commitment", "Get the commitment for a block", "getting block commitment",
			func(ctx context.Context, c helius.Client, in blockCommitmentInput) (*helius.BlockCommitment, error) {
				return c.GetBlockCommitment(ctx, in.Block)
			},
			labelled[blockCommitmentInput, *helius.BlockCommitment]("Block commitment"),
		),

		define("get_cluster_nodes", "Get information about all nodes in the cluster", "getting cluster nodes",
			func(ctx context.Context, c helius.Client, _ noInput) (json.RawMessage, error) {
				return c.GetClusterNodes(ctx)
			},
			labelled[noInput, json.RawMessage]("Cluster nodes"),
		),

		define("get_identity", "Get the identity public key of the node", "getting identity",
			func(ctx context.Context, c helius.Client, _ noInput) (string, error) {
				return c.GetIdentity(ctx)
			},
			scalar[noInput, string]("Identity"),
		),

		define("get_slot_leader", "Get the current slot leader", "getting slot leader",
			func(ctx context.Context, c helius.Client, in withCommitment) (string, error) {
				return c.GetSlotLeader(ctx, in.Commitment)
			},
			scalar[withCommitment, string]("Slot leader"),
		),

		define("get_genesis_hash", "Get the genesis hash of the cluster", "getting genesis hash",
			func(ctx context.Context, c helius.Client, _ noInput) (string, error) {
				return c.GetGenesisHash(ctx)
			},
			scalar[noInput, string]("Genesis hash"),
		),

		define("get_stake_minimum_delegation", "Get the minimum stake delegation in lamports", "getting stake minimum delegation",
			func(ctx context.Context, c helius.Client, in withCommitment) (uint64, error) {
				return c.GetStakeMinimumDelegation(ctx, in.Commitment)
			},
			scalar[withCommitment, uint64]("Minimum stake delegation"),
		),

		define("get_vote_accounts", "Get current and delinquent vote accounts", "getting vote accounts",
			func(ctx context.Context, c helius.Client, in voteAccountsInput) (json.RawMessage, error) {
				var a addrs
				vote := a.optional(in.VotePubkey)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetVoteAccounts(ctx, vote, in.Commitment)
			},
			labelled[voteAccountsInput, json.RawMessage]("Vote accounts"),
		),

		define("get_inflation_governor", "Get the current inflation governor", "getting inflation governor",
			func(ctx context.Context, c helius.Client, in withCommitment) (json.RawMessage, error) {
				return c.GetInflationGovernor(ctx, in.Commitment)
			},
			labelled[withCommitment, json.RawMessage]("Inflation governor"),
		),

		define("minimum_ledger_slot", "Get the lowest slot the node has in its ledger", "getting minimum ledger slot",
			func(ctx context.Context, c helius.Client, _ noInput) (uint64, error) {
				return c.MinimumLedgerSlot(ctx)
			},
			scalar[noInput, uint64]("Minimum ledger slot"),
		),

		define("request_airdrop", "Request an airdrop of lamports (devnet only)", "requesting airdrop",
			func(ctx context.Context, c helius.Client, in airdropInput) (string, error) {
				var a addrs
				key := a.key(in.PublicKey)
				if err := a.check(); err != nil {
					return "", err
				}
				return c.RequestAirdrop(ctx, key, in.Lamports, in.Commitment)
			},
			scalar[airdropInput, string]("Airdrop requested"),
		),

		define("get_token_accounts_by_delegate", "Get token accounts approved for a delegate", "getting token accounts by delegate",
			func(ctx context.Context, c helius.Client, in tokenAccountsByDelegateInput) (json.RawMessage, error) {
				var a addrs
				delegate := a.key(in.DelegateAddress)
				program := a.key(in.ProgramID)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetTokenAccountsByDelegate(ctx, delegate, program, in.Commitment)
			},
			labelled[tokenAccountsByDelegateInput, json.RawMessage]("Token accounts by delegate"),
		),

		define("get_blocks_with_limit", "Get confirmed blocks starting at a slot", "getting blocks with limit",
			func(ctx context.Context, c helius.Client, in blocksWithLimitInput) ([]uint64, error) {
				return c.GetBlocksWithLimit(ctx, in.StartSlot, in.Limit, in.Commitment)
			},
			labelled[blocksWithLimitInput, []uint64]("Blocks"),
		),

		define("get_blocks", "Get confirmed blocks between two slots", "getting blocks",
			func(ctx context.Context, c helius.Client, in blocksInput) ([]uint64, error) {
				if in.EndSlot != nil && *in.EndSlot < in.StartSlot {
					return nil, core.ValidationError("endSlot %d is before startSlot %d", *in.EndSlot, in.StartSlot)
				}
				return c.GetBlocks(ctx, in.StartSlot, in.EndSlot, in.Commitment)
			},
			labelled[blocksInput, []uint64]("Blocks"),
		),

		define("get_first_available_block", "Get the lowest confirmed block not purged from the ledger", "getting first available block",
			func(ctx context.Context, c helius.Client, _ noInput) (uint64, error) {
				return c.GetFirstAvailableBlock(ctx)
			},
			scalar[noInput, uint64]("First available block"),
		),

		define("get_slot_leaders", "Get the slot leaders for a slot range", "getting slot leaders",
			func(ctx context.Context, c helius.Client, in slotLeadersInput) ([]string, error) {
				return c.GetSlotLeaders(ctx, in.StartSlot, in.Limit)
			},
			labelled[slotLeadersInput, []string]("Slot leaders"),
		),

		define("get_inflation_rate", "Get the inflation rate for the current epoch", "getting inflation rate",
			func(ctx context.Context, c helius.Client, _ noInput) (json.RawMessage, error) {
				return c.GetInflationRate(ctx)
			},
			labelled[noInput, json.RawMessage]("Inflation rate"),
		),

		define("get_signature_statuses", "Get the statuses of a list of signatures", "getting signature statuses",
			func(ctx context.Context, c helius.Client, in signatureStatusesInput) (json.RawMessage, error) {
				return c.GetSignatureStatuses(ctx, in.Signatures, in.SearchTransactionHistory)
			},
			labelled[signatureStatusesInput, json.RawMessage]("Signature statuses"),
		),

		define("is_blockhash_valid", "Check whether a blockhash is still valid", "checking blockhash validity",
			func(ctx context.Context, c helius.Client, in blockhashInput) (bool, error) {
				return c.IsBlockhashValid(ctx, in.Blockhash, in.Commitment)
			},
			scalar[blockhashInput, bool]("Blockhash validity"),
		),

		define("get_recent_prioritization_fees", "Get recent prioritization fees", "getting recent prioritization fees",
			func(ctx context.Context, c helius.Client, in addressesInput) (json.RawMessage, error) {
				var a addrs
				keys := a.keys(in.Addresses)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetRecentPrioritizationFees(ctx, keys)
			},
			labelled[addressesInput, json.RawMessage]("Recent prioritization fees"),
		),

		define("get_block", "Get a confirmed block by slot", "getting block",
			func(ctx context.Context, c helius.Client, in blockInput) (json.RawMessage, error) {
				block, err := c.GetBlock(ctx, in.Slot, helius.BlockOptions{
					MaxSupportedTransactionVersion: in.MaxSupportedTransactionVersion,
					Commitment:                     in.Commitment,
				})
				if errors.Is(err, helius.ErrNotFound) {
					return nil, core.NotFoundError("Block not found for slot: %d", in.Slot)
				}
				return block, err
			},
			labelled[blockInput, json.RawMessage]("Block details"),
		),

		define("get_block_production", "Get recent block production information", "getting block production",
			func(ctx context.Context, c helius.Client, in blockProductionInput) (json.RawMessage, error) {
				var a addrs
				identity := a.optional(in.Identity)
				if err := a.check(); err != nil {
					return nil, err
				}
				opts := helius.BlockProductionOptions{Identity: identity, Commitment: in.Commitment}
				if in.Range != nil {
					opts.Range = &helius.SlotRange{FirstSlot: in.Range.FirstSlot, LastSlot: in.Range.LastSlot}
				}
				return c.GetBlockProduction(ctx, opts)
			},
			labelled[blockProductionInput, json.RawMessage]("Block production"),
		),

		define("get_supply", "Get information about the current token supply", "getting supply",
			func(ctx context.Context, c helius.Client, in withCommitment) (json.RawMessage, error) {
				return c.GetSupply(ctx, in.Commitment)
			},
			labelled[withCommitment, json.RawMessage]("Supply info"),
		),

		define("get_transaction_count", "Get the current transaction count", "getting transaction count",
			func(ctx context.Context, c helius.Client, in withCommitment) (uint64, error) {
				return c.GetTransactionCount(ctx, in.Commitment)
			},
			scalar[withCommitment, uint64]("Transaction count"),
		),

		define("get_highest_snapshot_slot", "Get the highest slot with a snapshot", "getting highest snapshot slot",
			func(ctx context.Context, c helius.Client, _ noInput) (json.RawMessage, error) {
				return c.GetHighestSnapshotSlot(ctx)
			},
			labelled[noInput, json.RawMessage]("Highest snapshot slot"),
		),

		define("get_max_retransmit_slot", "Get the max slot seen from the retransmit stage", "getting max retransmit slot",
			func(ctx context.Context, c helius.Client, _ noInput) (uint64, error) {
				return c.GetMaxRetransmitSlot(ctx)
			},
			scalar[noInput, uint64]("Maximum retransmit slot"),
		),

		define("get_max_shred_insert_slot", "Get the max slot seen after shred insert", "getting max shred insert slot",
			func(ctx context.Context, c helius.Client, _ noInput) (uint64, error) {
				return c.GetMaxShredInsertSlot(ctx)
			},
			scalar[noInput, uint64]("Maximum shred insert slot"),
		),

		define("simulate_transaction", "Simulate sending a transaction", "simulating transaction",
			func(ctx context.Context, c helius.Client, in simulateInput) (json.RawMessage, error) {
				return c.SimulateTransaction(ctx, in.Transaction, helius.SimulateOptions{
					SigVerify:              in.SigVerify,
					ReplaceRecentBlockhash: in.ReplaceRecentBlockhash,
					Commitment:             in.Commitment,
				})
			},
			labelled[simulateInput, json.RawMessage]("Transaction simulation result"),
		),
	}
}
