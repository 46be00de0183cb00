package helius

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Sentinels recognised by the mock.
const (
	MockMissingSignature = "non-existent-signature"
	MockMissingAccount   = "11111111111111111111111111111112"
	// MockMissingSlot is reported as skipped by GetBlock and GetBlockTime.
	MockMissingSlot uint64 = 0
)

// Fixture values.
const (
	MockSlot             uint64 = 123456789
	MockBlockhash               = "TestBlockhash123"
	MockBlockTime        int64  = 1700000000
	MockComputeUnits     uint64 = 185000
	MockComputeUnitPrice uint64 = 10000
	// mockSmartBlockhash is a well-formed hash used for assembled
	// transactions, since MockBlockhash is not valid base58.
	mockSmartBlockhash = "J7rBdM6AecPDEZp8aPq5iPSNKVkU5Q76F3oAV4eW5wsW"
	mockIdentity       = "GsbwXfJraMomNxBcjK7xK2xQx5MQgQx8Kb71Wkgwq1Bi"
	mockGenesisHash    = "5eykt4UsFv8P8NJdTREpY1vzqKqZKvdpKuc147dw2N9d"
	systemProgram      = "11111111111111111111111111111111"
)

// Mock is a deterministic Client. Results depend only on inputs.
type Mock struct{}

var _ Client = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{}
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("mock fixture does not marshal: %v", err))
	}
	return b
}

func ptr[T any](v T) *T {
	return &v
}

func mockAccount(lamports uint64, owner string) Account {
	return Account{
		Data:      json.RawMessage(`["base64data","base64"]`),
		Lamports:  lamports,
		Owner:     owner,
		RentEpoch: 123,
	}
}

func (m *Mock) GetBalance(context.Context, solana.PublicKey, rpc.CommitmentType) (uint64, error) {
	return 1000000000, nil
}

func (m *Mock) GetBlockHeight(context.Context, rpc.CommitmentType) (uint64, error) {
	return MockSlot, nil
}

func (m *Mock) GetTokenAccountsByOwner(context.Context, solana.PublicKey, solana.PublicKey) (*TokenAccountsResult, error) {
	return &TokenAccountsResult{
		Context: Context{Slot: MockSlot},
		Value:   []KeyedAccount{{Pubkey: "TokenAccount1"}, {Pubkey: "TokenAccount2"}},
	}, nil
}

func (m *Mock) GetTokenSupply(context.Context, solana.PublicKey) (*TokenAmount, error) {
	return &TokenAmount{Amount: "1000000000", Decimals: 6, UIAmount: ptr(1000.0), UIAmountString: "1000"}, nil
}

func (m *Mock) GetLatestBlockhash(context.Context, rpc.CommitmentType) (*Blockhash, error) {
	return &Blockhash{Blockhash: MockBlockhash, LastValidBlockHeight: MockSlot}, nil
}

func (m *Mock) GetTokenAccountBalance(context.Context, solana.PublicKey, rpc.CommitmentType) (*TokenAmount, error) {
	return &TokenAmount{Amount: "1000000000", Decimals: 6, UIAmount: ptr(1000.0), UIAmountString: "1000"}, nil
}

func (m *Mock) GetSlot(context.Context, rpc.CommitmentType) (uint64, error) {
	return MockSlot, nil
}

func (m *Mock) GetTransaction(_ context.Context, signature string, _ rpc.CommitmentType) (json.RawMessage, error) {
	if signature == MockMissingSignature {
		return nil, ErrNotFound
	}
	return mustJSON(map[string]any{
		"slot":        MockSlot,
		"meta":        map[string]any{"fee": 5000},
		"transaction": map[string]any{"signatures": []string{signature}},
	}), nil
}

func (m *Mock) GetAccountInfo(_ context.Context, account solana.PublicKey, _ rpc.CommitmentType) (*AccountInfoResult, error) {
	if account.String() == MockMissingAccount {
		return nil, ErrNotFound
	}
	acc := mockAccount(1000000000, systemProgram)
	return &AccountInfoResult{Context: Context{Slot: MockSlot}, Value: &acc}, nil
}

func (m *Mock) GetProgramAccounts(_ context.Context, programID solana.PublicKey, _ rpc.CommitmentType) ([]ProgramAccount, error) {
	return []ProgramAccount{
		{Pubkey: "ProgramAccount1", Account: mockAccount(1000000000, programID.String())},
		{Pubkey: "ProgramAccount2", Account: mockAccount(2000000000, programID.String())},
	}, nil
}

func (m *Mock) GetSignaturesForAddress(_ context.Context, _ solana.PublicKey, opts SignaturesOptions) ([]SignatureInfo, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	out := make([]SignatureInfo, limit)
	for i := range out {
		out[i] = SignatureInfo{
			Signature: fmt.Sprintf("MockSignature%d", i),
			Slot:      MockSlot + uint64(i),
			BlockTime: ptr(MockBlockTime),
		}
	}
	return out, nil
}

func (m *Mock) GetMinimumBalanceForRentExemption(_ context.Context, dataSize uint64, _ rpc.CommitmentType) (uint64, error) {
	return dataSize * 1000, nil
}

func (m *Mock) GetMultipleAccounts(_ context.Context, accounts []solana.PublicKey, _ rpc.CommitmentType) (*MultipleAccountsResult, error) {
	value := make([]*Account, len(accounts))
	for i := range accounts {
		acc := mockAccount(1000000000+uint64(i), systemProgram)
		value[i] = &acc
	}
	return &MultipleAccountsResult{Context: Context{Slot: MockSlot}, Value: value}, nil
}

func (m *Mock) GetFeeForMessage(context.Context, string, rpc.CommitmentType) (*FeeForMessageResult, error) {
	return &FeeForMessageResult{Context: Context{Slot: MockSlot}, Value: ptr(uint64(5000))}, nil
}

func (m *Mock) GetInflationReward(_ context.Context, addresses []solana.PublicKey, epoch *uint64, _ rpc.CommitmentType) ([]*InflationReward, error) {
	e := uint64(123)
	if epoch != nil && *epoch != 0 {
		e = *epoch
	}
	out := make([]*InflationReward, len(addresses))
	for i := range addresses {
		out[i] = &InflationReward{
			Epoch:         e,
			EffectiveSlot: MockSlot,
			Amount:        1000000 + uint64(i),
			PostBalance:   10000000000 + uint64(i),
		}
	}
	return out, nil
}

func (m *Mock) GetEpochInfo(context.Context, rpc.CommitmentType) (*EpochInfo, error) {
	return &EpochInfo{Epoch: 123, SlotIndex: 456, SlotsInEpoch: 432000, AbsoluteSlot: MockSlot, BlockHeight: 123456000}, nil
}

func (m *Mock) GetEpochSchedule(context.Context) (*EpochSchedule, error) {
	return &EpochSchedule{SlotsPerEpoch: 432000, LeaderScheduleSlotOffset: 432000}, nil
}

func (m *Mock) GetLeaderSchedule(context.Context, *uint64, *solana.PublicKey, rpc.CommitmentType) (map[string][]uint64, error) {
	return map[string][]uint64{
		"ValidatorPubkey1": {0, 1, 2, 3},
		"ValidatorPubkey2": {4, 5, 6, 7},
	}, nil
}

func (m *Mock) GetRecentPerformanceSamples(_ context.Context, limit int) ([]PerformanceSample, error) {
	if limit <= 0 {
		limit = 10
	}
	out := make([]PerformanceSample, limit)
	for i := range out {
		out[i] = PerformanceSample{
			Slot:             MockSlot - uint64(i)*100,
			NumTransactions:  1000 + uint64(i),
			NumSlots:         1,
			SamplePeriodSecs: 60,
		}
	}
	return out, nil
}

func (m *Mock) GetVersion(context.Context) (*Version, error) {
	return &Version{SolanaCore: "1.14.0", FeatureSet: 123456789}, nil
}

func (m *Mock) GetHealth(context.Context) (string, error) {
	return "ok", nil
}

func (m *Mock) GetBlockTime(_ context.Context, slot uint64) (int64, error) {
	if slot == MockMissingSlot {
		return 0, ErrNotFound
	}
	return MockBlockTime, nil
}

func (m *Mock) GetBlockCommitment(context.Context, uint64) (*BlockCommitment, error) {
	commitment := make([]uint64, 32)
	commitment[31] = 42
	return &BlockCommitment{Commitment: commitment, TotalStake: 1000000000000}, nil
}

func (m *Mock) GetClusterNodes(context.Context) (json.RawMessage, error) {
	return mustJSON([]map[string]any{{
		"pubkey":       mockIdentity,
		"gossip":       "10.0.0.1:8001",
		"tpu":          "10.0.0.1:8004",
		"rpc":          "10.0.0.1:8899",
		"version":      "1.14.0",
		"featureSet":   123456789,
		"shredVersion": 1,
	}}), nil
}

func (m *Mock) GetIdentity(context.Context) (string, error) {
	return mockIdentity, nil
}

func (m *Mock) GetSlotLeader(context.Context, rpc.CommitmentType) (string, error) {
	return mockIdentity, nil
}

func (m *Mock) GetGenesisHash(context.Context) (string, error) {
	return mockGenesisHash, nil
}

func (m *Mock) GetStakeMinimumDelegation(context.Context, rpc.CommitmentType) (uint64, error) {
	return 1000000000, nil
}

func (m *Mock) GetVoteAccounts(_ context.Context, votePubkey *solana.PublicKey, _ rpc.CommitmentType) (json.RawMessage, error) {
	vote := mockIdentity
	if votePubkey != nil {
		vote = votePubkey.String()
	}
	return mustJSON(map[string]any{
		"current": []map[string]any{{
			"votePubkey":       vote,
			"nodePubkey":       mockIdentity,
			"activatedStake":   1000000000000,
			"epochVoteAccount": true,
			"commission":       5,
			"lastVote":         MockSlot,
			"rootSlot":         MockSlot - 32,
		}},
		"delinquent": []any{},
	}), nil
}

func (m *Mock) GetInflationGovernor(context.Context, rpc.CommitmentType) (json.RawMessage, error) {
	return mustJSON(map[string]any{
		"initial":        0.08,
		"terminal":       0.015,
		"taper":          0.15,
		"foundation":     0.05,
		"foundationTerm": 7,
	}), nil
}

func (m *Mock) MinimumLedgerSlot(context.Context) (uint64, error) {
	return MockSlot - 1000, nil
}

func (m *Mock) RequestAirdrop(context.Context, solana.PublicKey, uint64, rpc.CommitmentType) (string, error) {
	return "MockAirdropSignature", nil
}

func (m *Mock) GetTokenAccountsByDelegate(_ context.Context, delegate, programID solana.PublicKey, _ rpc.CommitmentType) (json.RawMessage, error) {
	return mustJSON(map[string]any{
		"context": Context{Slot: MockSlot},
		"value": []map[string]any{{
			"pubkey": "DelegatedTokenAccount1",
			"account": map[string]any{
				"lamports": 2039280,
				"owner":    programID.String(),
				"data": map[string]any{
					"parsed": map[string]any{"info": map[string]any{"delegate": delegate.String(), "delegatedAmount": "1000"}},
				},
			},
		}},
	}), nil
}

func (m *Mock) GetBlocksWithLimit(_ context.Context, startSlot, limit uint64, _ rpc.CommitmentType) ([]uint64, error) {
	out := make([]uint64, 0, limit)
	for i := uint64(0); i < limit; i++ {
		out = append(out, startSlot+i)
	}
	return out, nil
}

func (m *Mock) GetBlocks(_ context.Context, startSlot uint64, endSlot *uint64, _ rpc.CommitmentType) ([]uint64, error) {
	end := startSlot + 9
	if endSlot != nil {
		end = *endSlot
	}
	out := []uint64{}
	for s := startSlot; s <= end && len(out) < 500000; s++ {
		out = append(out, s)
	}
	return out, nil
}

func (m *Mock) GetFirstAvailableBlock(context.Context) (uint64, error) {
	return MockSlot - 1000, nil
}

func (m *Mock) GetSlotLeaders(_ context.Context, _, limit uint64) ([]string, error) {
	out := make([]string, limit)
	for i := range out {
		out[i] = mockIdentity
	}
	return out, nil
}

func (m *Mock) GetInflationRate(context.Context) (json.RawMessage, error) {
	return mustJSON(map[string]any{"epoch": 123, "foundation": 0.0, "total": 0.05, "validator": 0.05}), nil
}

func (m *Mock) GetSignatureStatuses(_ context.Context, signatures []string, _ bool) (json.RawMessage, error) {
	value := make([]any, len(signatures))
	for i, sig := range signatures {
		if sig == MockMissingSignature {
			continue
		}
		value[i] = map[string]any{
			"slot":               MockSlot,
			"confirmations":      nil,
			"err":                nil,
			"confirmationStatus": "finalized",
		}
	}
	return mustJSON(map[string]any{"context": Context{Slot: MockSlot}, "value": value}), nil
}

func (m *Mock) IsBlockhashValid(_ context.Context, blockhash string, _ rpc.CommitmentType) (bool, error) {
	return blockhash != "", nil
}

func (m *Mock) GetRecentPrioritizationFees(_ context.Context, _ []solana.PublicKey) (json.RawMessage, error) {
	return mustJSON([]map[string]any{
		{"slot": MockSlot, "prioritizationFee": 0},
		{"slot": MockSlot + 1, "prioritizationFee": 1000},
	}), nil
}

func (m *Mock) GetBlock(_ context.Context, slot uint64, _ BlockOptions) (json.RawMessage, error) {
	if slot == MockMissingSlot {
		return nil, ErrNotFound
	}
	return mustJSON(map[string]any{
		"blockhash":         mockSmartBlockhash,
		"previousBlockhash": mockGenesisHash,
		"parentSlot":        slot - 1,
		"blockHeight":       123456000,
		"blockTime":         MockBlockTime,
		"transactions":      []any{},
	}), nil
}

func (m *Mock) GetBlockProduction(_ context.Context, opts BlockProductionOptions) (json.RawMessage, error) {
	first, last := MockSlot-100, MockSlot
	if opts.Range != nil {
		first = opts.Range.FirstSlot
		if opts.Range.LastSlot != nil {
			last = *opts.Range.LastSlot
		}
	}
	identity := mockIdentity
	if opts.Identity != nil {
		identity = opts.Identity.String()
	}
	return mustJSON(map[string]any{
		"context": Context{Slot: MockSlot},
		"value": map[string]any{
			"byIdentity": map[string][]uint64{identity: {4, 4}},
			"range":      map[string]uint64{"firstSlot": first, "lastSlot": last},
		},
	}), nil
}

func (m *Mock) GetSupply(context.Context, rpc.CommitmentType) (json.RawMessage, error) {
	return mustJSON(map[string]any{
		"context": Context{Slot: MockSlot},
		"value": map[string]any{
			"total":                  500000000000000000,
			"circulating":            400000000000000000,
			"nonCirculating":         100000000000000000,
			"nonCirculatingAccounts": []string{},
		},
	}), nil
}

func (m *Mock) GetTransactionCount(context.Context, rpc.CommitmentType) (uint64, error) {
	return 987654321, nil
}

func (m *Mock) GetHighestSnapshotSlot(context.Context) (json.RawMessage, error) {
	return mustJSON(map[string]uint64{"full": MockSlot - 1000, "incremental": MockSlot - 100}), nil
}

func (m *Mock) GetMaxRetransmitSlot(context.Context) (uint64, error) {
	return MockSlot, nil
}

func (m *Mock) GetMaxShredInsertSlot(context.Context) (uint64, error) {
	return MockSlot, nil
}

func (m *Mock) SimulateTransaction(context.Context, string, SimulateOptions) (json.RawMessage, error) {
	return mustJSON(map[string]any{
		"context": Context{Slot: MockSlot},
		"value": map[string]any{
			"err":           nil,
			"logs":          []string{"Program 11111111111111111111111111111111 invoke [1]", "Program 11111111111111111111111111111111 success"},
			"accounts":      nil,
			"unitsConsumed": MockComputeUnits,
		},
	}), nil
}

func mockAsset(id string) map[string]any {
	return map[string]any{
		"interface": "V1_NFT",
		"id":        id,
		"content": map[string]any{
			"json_uri": "https://example.com/" + id + ".json",
			"metadata": map[string]any{"name": "Mock Asset", "symbol": "MOCK"},
		},
		"ownership": map[string]any{"owner": mockIdentity, "frozen": false, "delegated": false},
		"compression": map[string]any{"compressed": false},
		"mutable":     true,
		"burnt":       false,
	}
}

func mockAssetPage(page Page, items ...map[string]any) json.RawMessage {
	p := page.Page
	if p <= 0 {
		p = 1
	}
	limit := page.Limit
	if limit <= 0 {
		limit = 1000
	}
	return mustJSON(map[string]any{"total": len(items), "limit": limit, "page": p, "items": items})
}

func (m *Mock) GetAsset(_ context.Context, id solana.PublicKey) (json.RawMessage, error) {
	if id.String() == MockMissingAccount {
		return nil, ErrNotFound
	}
	return mustJSON(mockAsset(id.String())), nil
}

func (m *Mock) GetRWAAsset(_ context.Context, id solana.PublicKey) (json.RawMessage, error) {
	if id.String() == MockMissingAccount {
		return nil, ErrNotFound
	}
	return mustJSON(map[string]any{
		"items": map[string]any{
			"asset_id":         id.String(),
			"asset_controller": map[string]any{"authority": mockIdentity},
			"data_registry":    map[string]any{"delegate": mockIdentity},
		},
	}), nil
}

func (m *Mock) GetAssetBatch(_ context.Context, ids []solana.PublicKey) (json.RawMessage, error) {
	items := make([]map[string]any, len(ids))
	for i, id := range ids {
		items[i] = mockAsset(id.String())
	}
	return mustJSON(items), nil
}

func (m *Mock) GetAssetProof(_ context.Context, id solana.PublicKey) (json.RawMessage, error) {
	return mustJSON(map[string]any{
		"root":       mockSmartBlockhash,
		"proof":      []string{mockGenesisHash},
		"node_index": 16384,
		"leaf":       id.String(),
		"tree_id":    mockIdentity,
	}), nil
}

func (m *Mock) GetAssetsByGroup(_ context.Context, groupKey, groupValue string, page Page) (json.RawMessage, error) {
	asset := mockAsset("MockGroupAsset1")
	asset["grouping"] = []map[string]string{{"group_key": groupKey, "group_value": groupValue}}
	return mockAssetPage(page, asset), nil
}

func (m *Mock) GetAssetsByOwner(_ context.Context, owner solana.PublicKey, page Page) (json.RawMessage, error) {
	asset := mockAsset("MockOwnedAsset1")
	asset["ownership"] = map[string]any{"owner": owner.String(), "frozen": false, "delegated": false}
	return mockAssetPage(page, asset), nil
}

func (m *Mock) GetAssetsByCreator(_ context.Context, creator solana.PublicKey, onlyVerified bool, page Page) (json.RawMessage, error) {
	asset := mockAsset("MockCreatedAsset1")
	asset["creators"] = []map[string]any{{"address": creator.String(), "share": 100, "verified": true}}
	return mockAssetPage(page, asset), nil
}

func (m *Mock) GetAssetsByAuthority(_ context.Context, authority solana.PublicKey, page Page) (json.RawMessage, error) {
	asset := mockAsset("MockAuthorityAsset1")
	asset["authorities"] = []map[string]any{{"address": authority.String(), "scopes": []string{"full"}}}
	return mockAssetPage(page, asset), nil
}

func (m *Mock) SearchAssets(_ context.Context, req SearchAssetsRequest) (json.RawMessage, error) {
	asset := mockAsset("MockSearchAsset1")
	if req.OwnerAddress != nil {
		asset["ownership"] = map[string]any{"owner": req.OwnerAddress.String(), "frozen": false, "delegated": false}
	}
	return mockAssetPage(req.Page, asset), nil
}

func (m *Mock) GetSignaturesForAsset(_ context.Context, _ solana.PublicKey, page Page) (json.RawMessage, error) {
	p := page.Page
	if p <= 0 {
		p = 1
	}
	return mustJSON(map[string]any{
		"total": 2,
		"page":  p,
		"items": [][]string{{"MockSignature0", "Transfer"}, {"MockSignature1", "MintToCollectionV1"}},
	}), nil
}

func (m *Mock) GetNFTEditions(_ context.Context, masterEditionID solana.PublicKey, page Page) (json.RawMessage, error) {
	p := page.Page
	if p <= 0 {
		p = 1
	}
	return mustJSON(map[string]any{
		"total":                  1,
		"page":                   p,
		"master_edition_address": masterEditionID.String(),
		"supply":                 1,
		"max_supply":             100,
		"editions":               []map[string]any{{"mint": mockIdentity, "edition_address": mockGenesisHash, "edition": 1}},
	}), nil
}

func (m *Mock) GetTokenAccounts(_ context.Context, req TokenAccountsRequest) (json.RawMessage, error) {
	p := req.Page.Page
	if p <= 0 {
		p = 1
	}
	account := map[string]any{"address": "TokenAccount1", "amount": 1000000000, "delegated_amount": 0, "frozen": false}
	if req.Mint != nil {
		account["mint"] = req.Mint.String()
	}
	if req.Owner != nil {
		account["owner"] = req.Owner.String()
	}
	return mustJSON(map[string]any{"total": 1, "page": p, "token_accounts": []any{account}}), nil
}

func (m *Mock) GetPriorityFeeEstimate(_ context.Context, req PriorityFeeRequest) (json.RawMessage, error) {
	if req.Options != nil && req.Options.IncludeAllPriorityFeeLevels {
		return mustJSON(map[string]any{"priorityFeeLevels": map[string]uint64{
			"min": 0, "low": 1000, "medium": 5000, "high": 10000, "veryHigh": 50000, "unsafeMax": 1000000,
		}}), nil
	}
	return mustJSON(map[string]uint64{"priorityFeeEstimate": MockComputeUnitPrice}), nil
}

func (m *Mock) GetComputeUnits(context.Context, []Instruction, solana.PublicKey, []solana.PublicKey) (uint64, error) {
	return MockComputeUnits, nil
}

func (m *Mock) PollTransactionConfirmation(_ context.Context, signature string, opts PollOptions) (string, error) {
	if signature == MockMissingSignature {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultPollTimeout
		}
		return "", fmt.Errorf("transaction %s not confirmed within %s", signature, timeout)
	}
	return "confirmed", nil
}

func (m *Mock) smart(instructions []Instruction, signers []solana.PublicKey, tipAccount *solana.PublicKey, tipAmount uint64) (*SmartTransaction, error) {
	if len(signers) == 0 {
		return nil, fmt.Errorf("at least one signer is required")
	}
	payer := signers[0]
	ixs := instructions
	if tipAccount != nil {
		ixs = WithTip(instructions, payer, *tipAccount, tipAmount)
	}
	limit := ComputeUnitLimit(MockComputeUnits)
	final := append([]Instruction{SetComputeUnitLimit(limit), SetComputeUnitPrice(MockComputeUnitPrice)}, ixs...)
	tx, err := BuildTransaction(final, payer, mockSmartBlockhash)
	if err != nil {
		return nil, err
	}
	out := &SmartTransaction{
		Transaction:          tx,
		Blockhash:            mockSmartBlockhash,
		LastValidBlockHeight: MockSlot,
		ComputeUnitLimit:     limit,
		ComputeUnitPrice:     MockComputeUnitPrice,
	}
	if tipAccount != nil {
		out.TipAccount = tipAccount.String()
		out.TipLamports = tipAmount
	}
	return out, nil
}

func (m *Mock) CreateSmartTransaction(_ context.Context, instructions []Instruction, signers []solana.PublicKey) (*SmartTransaction, error) {
	return m.smart(instructions, signers, nil, 0)
}

func (m *Mock) SendSmartTransaction(_ context.Context, instructions []Instruction, signers []solana.PublicKey, _ bool) (string, error) {
	if _, err := m.smart(instructions, signers, nil, 0); err != nil {
		return "", err
	}
	return "MockSmartTransactionSignature", nil
}

func (m *Mock) AddTipInstruction(_ context.Context, instructions []Instruction, feePayer, tipAccount solana.PublicKey, tipAmount uint64) ([]Instruction, error) {
	return WithTip(instructions, feePayer, tipAccount, tipAmount), nil
}

func (m *Mock) CreateSmartTransactionWithTip(_ context.Context, instructions []Instruction, signers []solana.PublicKey, tipAmount uint64) (*SmartTransaction, error) {
	if tipAmount == 0 {
		tipAmount = DefaultTipLamports
	}
	return m.smart(instructions, signers, &JitoTipAccounts[0], tipAmount)
}

func (m *Mock) SendJitoBundle(_ context.Context, serializedTransactions []string, _ string) (string, error) {
	if len(serializedTransactions) == 0 {
		return "", fmt.Errorf("bundle must contain at least one transaction")
	}
	return "MockBundleId", nil
}

func (m *Mock) GetBundleStatuses(_ context.Context, bundleIDs []string, _ string) (json.RawMessage, error) {
	value := make([]map[string]any, len(bundleIDs))
	for i, id := range bundleIDs {
		value[i] = map[string]any{
			"bundle_id":           id,
			"transactions":        []string{"MockSignature0"},
			"slot":                MockSlot,
			"confirmation_status": "finalized",
			"err":                 map[string]any{"Ok": nil},
		}
	}
	return mustJSON(map[string]any{"context": Context{Slot: MockSlot}, "value": value}), nil
}

func (m *Mock) SendSmartTransactionWithTip(_ context.Context, instructions []Instruction, signers []solana.PublicKey, tipAmount uint64, _ string) (string, error) {
	if tipAmount == 0 {
		tipAmount = DefaultTipLamports
	}
	if _, err := m.smart(instructions, signers, &JitoTipAccounts[0], tipAmount); err != nil {
		return "", err
	}
	return "MockBundleId", nil
}

func (m *Mock) SendTransaction(context.Context, string, SendOptions) (string, error) {
	return "MockTransactionSignature", nil
}

func (m *Mock) ExecuteJupiterSwap(_ context.Context, req JupiterSwapRequest) (json.RawMessage, error) {
	return mustJSON(map[string]any{
		"signature":    "MockJupiterSwapSignature",
		"inputMint":    req.InputMint.String(),
		"outputMint":   req.OutputMint.String(),
		"inputAmount":  req.Amount,
		"outputAmount": req.Amount / 2,
		"confirmed":    true,
	}), nil
}
