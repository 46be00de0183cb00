package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/dcSpark/mcp-server-helius/internal/core"
	"github.com/dcSpark/mcp-server-helius/internal/helius"
)

// withCommitment is embedded by inputs that accept a commitment level.
type withCommitment struct {
	Commitment rpc.CommitmentType `json:"commitment,omitempty" jsonschema:"enum=processed,enum=confirmed,enum=finalized,description=Commitment level"`
}

type noInput struct{}

type publicKeyInput struct {
	PublicKey string `json:"publicKey" jsonschema:"description=Base58 encoded public key"`
	withCommitment
}

type tokenAccountsByOwnerInput struct {
	PublicKey string `json:"publicKey" jsonschema:"description=Owner address"`
	ProgramID string `json:"programId" jsonschema:"description=Token program address"`
}

type tokenAddressInput struct {
	TokenAddress string `json:"tokenAddress" jsonschema:"description=Token mint or token account address"`
	withCommitment
}

type signatureInput struct {
	Signature string `json:"signature" jsonschema:"description=Transaction signature"`
	withCommitment
}

type programAccountsInput struct {
	ProgramID string `json:"programId" jsonschema:"description=Program address"`
	withCommitment
}

type signaturesForAddressInput struct {
	Address string `json:"address" jsonschema:"description=Account address"`
	Limit   int    `json:"limit,omitempty" jsonschema:"minimum=1,maximum=1000,description=Maximum number of signatures"`
	Before  string `json:"before,omitempty" jsonschema:"description=Start searching backwards from this signature"`
	Until   string `json:"until,omitempty" jsonschema:"description=Search until this signature"`
	withCommitment
}

type rentExemptionInput struct {
	DataSize uint64 `json:"dataSize" jsonschema:"description=Account data length in bytes"`
	withCommitment
}

type multipleAccountsInput struct {
	PublicKeys []string `json:"publicKeys" jsonschema:"minItems=1,maxItems=100,description=Account addresses"`
	withCommitment
}

type feeForMessageInput struct {
	Message string `json:"message" jsonschema:"description=Base64 encoded message"`
	withCommitment
}

type inflationRewardInput struct {
	Addresses []string `json:"addresses" jsonschema:"minItems=1,description=Account addresses"`
	Epoch     *uint64  `json:"epoch,omitempty" jsonschema:"description=Epoch to query (default previous epoch)"`
	withCommitment
}

type leaderScheduleInput struct {
	Slot     *uint64 `json:"slot,omitempty" jsonschema:"description=Slot within the epoch to query"`
	Identity string  `json:"identity,omitempty" jsonschema:"description=Validator identity address"`
	withCommitment
}

type limitInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"minimum=1,maximum=720,description=Number of samples to return"`
}

func coreRPCTools() []*Tool {
	return []*Tool{
		define("get_balance", "Get the balance of a Solana address", "getting balance",
			func(ctx context.Context, c helius.Client, in publicKeyInput) (uint64, error) {
				var a addrs
				key := a.key(in.PublicKey)
				if err := a.check(); err != nil {
					return 0, err
				}
				return c.GetBalance(ctx, key, in.Commitment)
			},
			scalar[publicKeyInput, uint64]("Balance"),
		),

		define("get_block_height", "Get the current block height of the Solana blockchain", "getting block height",
			func(ctx context.Context, c helius.Client, in withCommitment) (uint64, error) {
				return c.GetBlockHeight(ctx, in.Commitment)
			},
			scalar[withCommitment, uint64]("Block height"),
		),

		define("get_token_accounts_by_owner", "Get token accounts owned by a Solana address", "getting token accounts",
			func(ctx context.Context, c helius.Client, in tokenAccountsByOwnerInput) (*helius.TokenAccountsResult, error) {
				var a addrs
				owner := a.key(in.PublicKey)
				program := a.key(in.ProgramID)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetTokenAccountsByOwner(ctx, owner, program)
			},
			func(_ tokenAccountsByOwnerInput, out *helius.TokenAccountsResult) (string, error) {
				keys := make([]string, len(out.Value))
				for i, acc := range out.Value {
					keys[i] = acc.Pubkey
				}
				return fmt.Sprintf("Context: %d\nToken accounts: %s", out.Context.Slot, strings.Join(keys, "\n")), nil
			},
		),

		define("get_token_supply", "Get the total supply of an SPL token mint", "getting token supply",
			func(ctx context.Context, c helius.Client, in tokenAddressInput) (*helius.TokenAmount, error) {
				var a addrs
				mint := a.key(in.TokenAddress)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetTokenSupply(ctx, mint)
			},
			func(_ tokenAddressInput, out *helius.TokenAmount) (string, error) {
				return "Token supply: " + out.Amount, nil
			},
		),

		define("get_latest_blockhash", "Get the latest blockhash", "getting latest blockhash",
			func(ctx context.Context, c helius.Client, in withCommitment) (*helius.Blockhash, error) {
				return c.GetLatestBlockhash(ctx, in.Commitment)
			},
			func(_ withCommitment, out *helius.Blockhash) (string, error) {
				return fmt.Sprintf("Latest blockhash: %s, Last valid block height: %d", out.Blockhash, out.LastValidBlockHeight), nil
			},
		),

		define("get_token_account_balance", "Get the balance of an SPL token account", "getting token account balance",
			func(ctx context.Context, c helius.Client, in tokenAddressInput) (*helius.TokenAmount, error) {
				var a addrs
				account := a.key(in.TokenAddress)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetTokenAccountBalance(ctx, account, in.Commitment)
			},
			func(_ tokenAddressInput, out *helius.TokenAmount) (string, error) {
				return compact("Token balance", out)
			},
		),

		define("get_slot", "Get the current slot", "getting slot",
			func(ctx context.Context, c helius.Client, in withCommitment) (uint64, error) {
				return c.GetSlot(ctx, in.Commitment)
			},
			scalar[withCommitment, uint64]("Current slot"),
		),

		define("get_transaction", "Get details of a transaction by signature", "getting transaction",
			func(ctx context.Context, c helius.Client, in signatureInput) (json.RawMessage, error) {
				tx, err := c.GetTransaction(ctx, in.Signature, in.Commitment)
				if errors.Is(err, helius.ErrNotFound) {
					return nil, core.NotFoundError("Transaction not found for signature: %s", in.Signature)
				}
				return tx, err
			},
			labelled[signatureInput, json.RawMessage]("Transaction details"),
		),

		define("get_account_info", "Get account information for a Solana address", "getting account info",
			func(ctx context.Context, c helius.Client, in publicKeyInput) (*helius.AccountInfoResult, error) {
				var a addrs
				key := a.key(in.PublicKey)
				if err := a.check(); err != nil {
					return nil, err
				}
				info, err := c.GetAccountInfo(ctx, key, in.Commitment)
				if errors.Is(err, helius.ErrNotFound) {
					return nil, core.NotFoundError("Account not found: %s", in.PublicKey)
				}
				return info, err
			},
			labelled[publicKeyInput, *helius.AccountInfoResult]("Account info"),
		),

		define("get_program_accounts", "Get all accounts owned by a program", "getting program accounts",
			func(ctx context.Context, c helius.Client, in programAccountsInput) ([]helius.ProgramAccount, error) {
				var a addrs
				program := a.key(in.ProgramID)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetProgramAccounts(ctx, program, in.Commitment)
			},
			labelled[programAccountsInput, []helius.ProgramAccount]("Program accounts"),
		),

		define("get_signatures_for_address", "Get transaction signatures involving an address", "getting signatures",
			func(ctx context.Context, c helius.Client, in signaturesForAddressInput) ([]helius.SignatureInfo, error) {
				var a addrs
				address := a.key(in.Address)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetSignaturesForAddress(ctx, address, helius.SignaturesOptions{
					Limit:      in.Limit,
					Before:     in.Before,
					Until:      in.Until,
					Commitment: in.Commitment,
				})
			},
			labelled[signaturesForAddressInput, []helius.SignatureInfo]("Signatures"),
		),

		define("get_minimum_balance_for_rent_exemption", "Get the minimum balance for an account to be rent exempt", "getting minimum balance",
			func(ctx context.Context, c helius.Client, in rentExemptionInput) (uint64, error) {
				return c.GetMinimumBalanceForRentExemption(ctx, in.DataSize, in.Commitment)
			},
			scalar[rentExemptionInput, uint64]("Minimum balance for rent exemption"),
		),

		define("get_multiple_accounts", "Get information for multiple accounts", "getting multiple accounts",
			func(ctx context.Context, c helius.Client, in multipleAccountsInput) (*helius.MultipleAccountsResult, error) {
				var a addrs
				keys := a.keys(in.PublicKeys)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetMultipleAccounts(ctx, keys, in.Commitment)
			},
			labelled[multipleAccountsInput, *helius.MultipleAccountsResult]("Multiple accounts"),
		),

		define("get_fee_for_message", "Get the fee the network will charge for a message", "getting fee for message",
			func(ctx context.Context, c helius.Client, in feeForMessageInput) (*helius.FeeForMessageResult, error) {
				return c.GetFeeForMessage(ctx, in.Message, in.Commitment)
			},
			labelled[feeForMessageInput, *helius.FeeForMessageResult]("Fee for message"),
		),

		define("get_inflation_reward", "Get inflation rewards for a list of addresses", "getting inflation rewards",
			func(ctx context.Context, c helius.Client, in inflationRewardInput) ([]*helius.InflationReward, error) {
				var a addrs
				keys := a.keys(in.Addresses)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetInflationReward(ctx, keys, in.Epoch, in.Commitment)
			},
			labelled[inflationRewardInput, []*helius.InflationReward]("Inflation rewards"),
		),

		define("get_epoch_info", "Get information about the current epoch", "getting epoch info",
			func(ctx context.Context, c helius.Client, in withCommitment) (*helius.EpochInfo, error) {
				return c.GetEpochInfo(ctx, in.Commitment)
			},
			labelled[withCommitment, *helius.EpochInfo]("Epoch info"),
		),

		define("get_epoch_schedule", "Get the epoch schedule", "getting epoch schedule",
			func(ctx context.Context, c helius.Client, _ noInput) (*helius.EpochSchedule, error) {
				return c.GetEpochSchedule(ctx)
			},
			labelled[noInput, *helius.EpochSchedule]("Epoch schedule"),
		),

		define("get_leader_schedule", "Get the leader schedule for an epoch", "getting leader schedule",
			func(ctx context.Context, c helius.Client, in leaderScheduleInput) (map[string][]uint64, error) {
				var a addrs
				identity := a.optional(in.Identity)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetLeaderSchedule(ctx, in.Slot, identity, in.Commitment)
			},
			labelled[leaderScheduleInput, map[string][]uint64]("Leader schedule"),
		),

		define("get_recent_performance_samples", "Get recent performance samples", "getting performance samples",
			func(ctx context.Context, c helius.Client, in limitInput) ([]helius.PerformanceSample, error) {
				return c.GetRecentPerformanceSamples(ctx, in.Limit)
			},
			labelled[limitInput, []helius.PerformanceSample]("Recent performance samples"),
		),

		define("get_version", "Get the Solana version running on the node", "getting version",
			func(ctx context.Context, c helius.Client, _ noInput) (*helius.Version, error) {
				return c.GetVersion(ctx)
			},
			labelled[noInput, *helius.Version]("Version"),
		),

		define("get_health", "Get the health status of the node", "getting health",
			func(ctx context.Context, c helius.Client, _ noInput) (string, error) {
				return c.GetHealth(ctx)
			},
			scalar[noInput, string]("Health"),
		),
	}
}
