package helius

import (
	"encoding/base64"
	"fmt"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/programs/system"
)

var (
	ComputeBudgetProgramID = computebudget.ProgramID

	// JitoTipAccounts are the mainnet block engine tip accounts.
	JitoTipAccounts = []solana.PublicKey{
		solana.MustPublicKeyFromBase58("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5"),
		solana.MustPublicKeyFromBase58("HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe"),
		solana.MustPublicKeyFromBase58("Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY"),
		solana.MustPublicKeyFromBase58("ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49"),
		solana.MustPublicKeyFromBase58("DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh"),
		solana.MustPublicKeyFromBase58("ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt"),
		solana.MustPublicKeyFromBase58("DttWaMuVvTiduZRnguLF7jNxTgiMBZ1hyAumKUiL2KRL"),
		solana.MustPublicKeyFromBase58("3AVi9Tg9Uo68tJfuvoKvqKNWKkC5wPdSSdeBnizKZ6jT"),
	}
)

const (
	// MaxComputeUnits is the per-transaction ceiling used while simulating.
	MaxComputeUnits uint32 = 1_400_000
	// MinComputeUnits is the floor applied to the simulated limit.
	MinComputeUnits uint32 = 1_000
)

// SetComputeUnitLimit builds a ComputeBudget SetComputeUnitLimit instruction.
func SetComputeUnitLimit(units uint32) Instruction {
	return mustInstruction(computebudget.NewSetComputeUnitLimitInstruction(units).Build())
}

// SetComputeUnitPrice builds a ComputeBudget SetComputeUnitPrice instruction.
// The price is in micro-lamports per compute unit.
func SetComputeUnitPrice(microLamports uint64) Instruction {
	return mustInstruction(computebudget.NewSetComputeUnitPriceInstruction(microLamports).Build())
}

// TipInstruction is a System Program transfer of lamports from payer to a
// tip account.
func TipInstruction(payer, tipAccount solana.PublicKey, lamports uint64) Instruction {
	return mustInstruction(system.NewTransferInstruction(lamports, payer, tipAccount).Build())
}

// mustInstruction converts a program builder's instruction into the
// client's wire form. Builders here carry only fixed-width fields, so
// encoding cannot fail.
func mustInstruction(ix solana.Instruction) Instruction {
	data, err := ix.Data()
	if err != nil {
		panic(fmt.Sprintf("encode %s instruction: %v", ix.ProgramID(), err))
	}
	metas := ix.Accounts()
	accounts := make([]AccountMeta, 0, len(metas))
	for _, m := range metas {
		accounts = append(accounts, AccountMeta{Pubkey: m.PublicKey, IsSigner: m.IsSigner, IsWritable: m.IsWritable})
	}
	return Instruction{ProgramID: ix.ProgramID(), Accounts: accounts, Data: data}
}

// WithTip returns a copy of instructions with a tip transfer appended.
func WithTip(instructions []Instruction, payer, tipAccount solana.PublicKey, lamports uint64) []Instruction {
	out := make([]Instruction, 0, len(instructions)+1)
	out = append(out, instructions...)
	return append(out, TipInstruction(payer, tipAccount, lamports))
}

// ComputeUnitLimit applies a 10% margin to simulated units and clamps the
// result to [MinComputeUnits, MaxComputeUnits].
func ComputeUnitLimit(simulated uint64) uint32 {
	limit := simulated + simulated/10
	if limit < uint64(MinComputeUnits) {
		return MinComputeUnits
	}
	if limit > uint64(MaxComputeUnits) {
		return MaxComputeUnits
	}
	return uint32(limit)
}

// BuildTransaction assembles an unsigned legacy transaction and returns it
// base64 encoded. Signature slots are zero-filled so the result can be
// simulated with sigVerify disabled or handed to a wallet for signing.
func BuildTransaction(instructions []Instruction, payer solana.PublicKey, blockhash string) (string, error) {
	hash, err := solana.HashFromBase58(blockhash)
	if err != nil {
		return "", fmt.Errorf("invalid blockhash %q: %w", blockhash, err)
	}

	ixs := make([]solana.Instruction, 0, len(instructions))
	for _, ix := range instructions {
		metas := make(solana.AccountMetaSlice, 0, len(ix.Accounts))
		for _, a := range ix.Accounts {
			metas = append(metas, &solana.AccountMeta{PublicKey: a.Pubkey, IsSigner: a.IsSigner, IsWritable: a.IsWritable})
		}
		ixs = append(ixs, solana.NewInstruction(ix.ProgramID, metas, ix.Data))
	}

	tx, err := solana.NewTransaction(ixs, hash, solana.TransactionPayer(payer))
	if err != nil {
		return "", fmt.Errorf("assemble transaction: %w", err)
	}
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)

	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
