package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/dcSpark/mcp-server-helius/internal/helius"
)

type priorityFeeOptionsInput struct {
	PriorityLevel               string `json:"priorityLevel,omitempty" jsonschema:"enum=Min,enum=Low,enum=Medium,enum=High,enum=VeryHigh,enum=UnsafeMax"`
	IncludeAllPriorityFeeLevels bool   `json:"includeAllPriorityFeeLevels,omitempty"`
	Recommended                 bool   `json:"recommended,omitempty"`
}

type priorityFeeInput struct {
	AccountKeys []string                 `json:"accountKeys,omitempty" jsonschema:"description=Accounts the transaction writes to"`
	Transaction string                   `json:"transaction,omitempty" jsonschema:"description=Base64 encoded transaction"`
	Options     *priorityFeeOptionsInput `json:"options,omitempty"`
}

type computeUnitsInput struct {
	Instructions []instructionInput `json:"instructions" jsonschema:"minItems=1"`
	Payer        string             `json:"payer" jsonschema:"description=Fee payer address"`
	LookupTables []string           `json:"lookupTables,omitempty" jsonschema:"description=Address lookup table addresses"`
}

type pollInput struct {
	Signature string `json:"signature" jsonschema:"description=Transaction signature"`
	Timeout   int    `json:"timeout,omitempty" jsonschema:"minimum=1,description=Timeout in milliseconds (default 15000)"`
	Interval  int    `json:"interval,omitempty" jsonschema:"minimum=1,description=Polling interval in milliseconds (default 5000)"`
}

type smartTransactionInput struct {
	Instructions []instructionInput `json:"instructions" jsonschema:"minItems=1"`
	Signers      []string           `json:"signers" jsonschema:"minItems=1,description=Signer addresses; the first pays fees"`
}

type sendSmartTransactionInput struct {
	Instructions  []instructionInput `json:"instructions" jsonschema:"minItems=1"`
	Signers       []string           `json:"signers" jsonschema:"minItems=1,description=Signer addresses; the first pays fees"`
	SkipPreflight bool               `json:"skipPreflight,omitempty"`
}

type addTipInput struct {
	Instructions []instructionInput `json:"instructions"`
	FeePayer     string             `json:"feePayer" jsonschema:"description=Address paying the tip"`
	TipAccount   string             `json:"tipAccount" jsonschema:"description=Jito tip account"`
	TipAmount    uint64             `json:"tipAmount" jsonschema:"minimum=1,description=Tip in lamports"`
}

type smartTransactionWithTipInput struct {
	Instructions []instructionInput `json:"instructions" jsonschema:"minItems=1"`
	Signers      []string           `json:"signers" jsonschema:"minItems=1,description=Signer addresses; the first pays fees"`
	TipAmount    uint64             `json:"tipAmount,omitempty" jsonschema:"description=Tip in lamports (default 1000)"`
}

type sendSmartTransactionWithTipInput struct {
	Instructions []instructionInput `json:"instructions" jsonschema:"minItems=1"`
	Signers      []string           `json:"signers" jsonschema:"minItems=1,description=Signer addresses; the first pays fees"`
	TipAmount    uint64             `json:"tipAmount,omitempty" jsonschema:"description=Tip in lamports (default 1000)"`
	Region       string             `json:"region,omitempty" jsonschema:"enum=Default,enum=NY,enum=Amsterdam,enum=Frankfurt,enum=Tokyo"`
}

type jitoBundleInput struct {
	SerializedTransactions []string `json:"serializedTransactions" jsonschema:"minItems=1,maxItems=5,description=Base64 encoded signed transactions"`
	JitoAPIURL             string   `json:"jitoApiUrl,omitempty" jsonschema:"description=Block engine URL"`
}

type bundleStatusesInput struct {
	BundleIDs  []string `json:"bundleIds" jsonschema:"minItems=1,maxItems=5"`
	JitoAPIURL string   `json:"jitoApiUrl,omitempty" jsonschema:"description=Block engine URL"`
}

type sendOptionsInput struct {
	SkipPreflight       bool               `json:"skipPreflight,omitempty"`
	MaxRetries          *uint64            `json:"maxRetries,omitempty"`
	PreflightCommitment rpc.CommitmentType `json:"preflightCommitment,omitempty" jsonschema:"enum=processed,enum=confirmed,enum=finalized"`
}

type sendTransactionInput struct {
	Transaction string            `json:"transaction" jsonschema:"description=Base64 encoded signed transaction"`
	Options     *sendOptionsInput `json:"options,omitempty"`
}

type jupiterSwapInput struct {
	InputMint             string  `json:"inputMint" jsonschema:"description=Mint to sell"`
	OutputMint            string  `json:"outputMint" jsonschema:"description=Mint to buy"`
	Amount                uint64  `json:"amount" jsonschema:"minimum=1,description=Input amount in base units"`
	MaxDynamicSlippageBps *uint64 `json:"maxDynamicSlippageBps,omitempty"`
	Signer                string  `json:"signer" jsonschema:"description=Wallet address"`
}

func transactionTools() []*Tool {
	return []*Tool{
		define("get_priority_fee_estimate", "Estimate priority fees for accounts or a transaction", "getting priority fee estimate",
			func(ctx context.Context, c helius.Client, in priorityFeeInput) (json.RawMessage, error) {
				var a addrs
				keys := a.keys(in.AccountKeys)
				if err := a.check(); err != nil {
					return nil, err
				}
				req := helius.PriorityFeeRequest{AccountKeys: keys, Transaction: in.Transaction}
				if in.Options != nil {
					req.Options = &helius.PriorityFeeOptions{
						PriorityLevel:               in.Options.PriorityLevel,
						IncludeAllPriorityFeeLevels: in.Options.IncludeAllPriorityFeeLevels,
						Recommended:                 in.Options.Recommended,
					}
				}
				return c.GetPriorityFeeEstimate(ctx, req)
			},
			labelled[priorityFeeInput, json.RawMessage]("Priority fee estimate"),
		),

		define("get_compute_units", "Simulate instructions and report compute units consumed", "getting compute units",
			func(ctx context.Context, c helius.Client, in computeUnitsInput) (uint64, error) {
				var a addrs
				ixs := a.instructions(in.Instructions)
				payer := a.key(in.Payer)
				tables := a.keys(in.LookupTables)
				if err := a.check(); err != nil {
					return 0, err
				}
				return c.GetComputeUnits(ctx, ixs, payer, tables)
			},
			scalar[computeUnitsInput, uint64]("Compute units"),
		),

		define("poll_transaction_confirmation", "Wait for a transaction to be confirmed", "polling transaction confirmation",
			func(ctx context.Context, c helius.Client, in pollInput) (string, error) {
				return c.PollTransactionConfirmation(ctx, in.Signature, helius.PollOptions{
					Timeout:  time.Duration(in.Timeout) * time.Millisecond,
					Interval: time.Duration(in.Interval) * time.Millisecond,
				})
			},
			scalar[pollInput, string]("Transaction status"),
		),

		define("create_smart_transaction", "Build an unsigned transaction with compute budget instructions", "creating smart transaction",
			func(ctx context.Context, c helius.Client, in smartTransactionInput) (*helius.SmartTransaction, error) {
				var a addrs
				ixs := a.instructions(in.Instructions)
				signers := a.keys(in.Signers)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.CreateSmartTransaction(ctx, ixs, signers)
			},
			labelled[smartTransactionInput, *helius.SmartTransaction]("Smart transaction created"),
		),

		define("send_smart_transaction", "Build, sign and send a smart transaction", "sending smart transaction",
			func(ctx context.Context, c helius.Client, in sendSmartTransactionInput) (string, error) {
				var a addrs
				ixs := a.instructions(in.Instructions)
				signers := a.keys(in.Signers)
				if err := a.check(); err != nil {
					return "", err
				}
				return c.SendSmartTransaction(ctx, ixs, signers, in.SkipPreflight)
			},
			scalar[sendSmartTransactionInput, string]("Smart transaction sent"),
		),

		define("add_tip_instruction", "Append a Jito tip transfer to a list of instructions", "adding tip instruction",
			func(ctx context.Context, c helius.Client, in addTipInput) ([]helius.Instruction, error) {
				var a addrs
				ixs := a.instructions(in.Instructions)
				payer := a.key(in.FeePayer)
				tip := a.key(in.TipAccount)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.AddTipInstruction(ctx, ixs, payer, tip, in.TipAmount)
			},
			labelled[addTipInput, []helius.Instruction]("Tip instruction added successfully"),
		),

		define("create_smart_transaction_with_tip", "Build an unsigned smart transaction that tips a Jito validator", "creating smart transaction with tip",
			func(ctx context.Context, c helius.Client, in smartTransactionWithTipInput) (*helius.SmartTransaction, error) {
				var a addrs
				ixs := a.instructions(in.Instructions)
				signers := a.keys(in.Signers)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.CreateSmartTransactionWithTip(ctx, ixs, signers, in.TipAmount)
			},
			labelled[smartTransactionWithTipInput, *helius.SmartTransaction]("Smart transaction with tip created"),
		),

		define("send_jito_bundle", "Send a bundle of signed transactions to the Jito block engine", "sending Jito bundle",
			func(ctx context.Context, c helius.Client, in jitoBundleInput) (string, error) {
				return c.SendJitoBundle(ctx, in.SerializedTransactions, in.JitoAPIURL)
			},
			scalar[jitoBundleInput, string]("Jito bundle sent"),
		),

		define("get_bundle_statuses", "Get the statuses of Jito bundles", "getting bundle statuses",
			func(ctx context.Context, c helius.Client, in bundleStatusesInput) (json.RawMessage, error) {
				return c.GetBundleStatuses(ctx, in.BundleIDs, in.JitoAPIURL)
			},
			labelled[bundleStatusesInput, json.RawMessage]("Bundle statuses"),
		),

		define("send_smart_transaction_with_tip", "Build, sign and send a smart transaction with a Jito tip", "sending smart transaction with tip",
			func(ctx context.Context, c helius.Client, in sendSmartTransactionWithTipInput) (string, error) {
				var a addrs
				ixs := a.instructions(in.Instructions)
				signers := a.keys(in.Signers)
				if err := a.check(); err != nil {
					return "", err
				}
				return c.SendSmartTransactionWithTip(ctx, ixs, signers, in.TipAmount, in.Region)
			},
			scalar[sendSmartTransactionWithTipInput, string]("Smart transaction with tip sent"),
		),

		define("send_transaction", "Submit a signed transaction", "sending transaction",
			func(ctx context.Context, c helius.Client, in sendTransactionInput) (string, error) {
				var opts helius.SendOptions
				if in.Options != nil {
					opts = helius.SendOptions{
						SkipPreflight:       in.Options.SkipPreflight,
						MaxRetries:          in.Options.MaxRetries,
						PreflightCommitment: in.Options.PreflightCommitment,
					}
				}
				return c.SendTransaction(ctx, in.Transaction, opts)
			},
			scalar[sendTransactionInput, string]("Transaction sent"),
		),

		define("execute_jupiter_swap", "Swap tokens through Jupiter", "executing Jupiter swap",
			func(ctx context.Context, c helius.Client, in jupiterSwapInput) (json.RawMessage, error) {
				var a addrs
				inputMint := a.key(in.InputMint)
				outputMint := a.key(in.OutputMint)
				signer := a.key(in.Signer)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.ExecuteJupiterSwap(ctx, helius.JupiterSwapRequest{
					InputMint:             inputMint,
					OutputMint:            outputMint,
					Amount:                in.Amount,
					MaxDynamicSlippageBps: in.MaxDynamicSlippageBps,
					Signer:                signer,
				})
			},
			labelled[jupiterSwapInput, json.RawMessage]("Jupiter swap executed"),
		),
	}
}
