package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dcSpark/mcp-server-helius/internal/core"
	"github.com/dcSpark/mcp-server-helius/internal/helius"
)

const (
	keyA  = "GsbwXfJraMomNxBcjK7xK2xQx5MQgQx8Kb71Wkgwq1Bi"
	keyB  = "J7rBdM6AecPDEZp8aPq5iPSNKVkU5Q76F3oAV4eW5wsW"
	token = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	ix    = `{"programId":"11111111111111111111111111111111","accounts":[{"pubkey":"` + keyA + `","isSigner":true,"isWritable":true},{"pubkey":"` + keyB + `","isWritable":true}],"data":"AgAAAOgDAAAAAAAA"}`
)

type toolCase struct {
	args  string
	label string
}

// catalogue holds valid arguments and the success label of every tool.
var catalogue = map[string]toolCase{
	"get_balance":                            {`{"publicKey":"` + keyA + `"}`, "Balance"},
	"get_block_height":                       {`{"commitment":"finalized"}`, "Block height"},
	"get_token_accounts_by_owner":            {`{"publicKey":"` + keyA + `","programId":"` + token + `"}`, "Context"},
	"get_token_supply":                       {`{"tokenAddress":"` + keyA + `"}`, "Token supply"},
	"get_latest_blockhash":                   {`{}`, "Latest blockhash"},
	"get_token_account_balance":              {`{"tokenAddress":"` + keyA + `"}`, "Token balance"},
	"get_slot":                               {`{}`, "Current slot"},
	"get_transaction":                        {`{"signature":"5j7s6NiJS3JAkvgkoc18WVAsiSaci2pxB2A6ueCJP4tprA2TFg9wSyTLeYouxPBJEMzJinENTkpA52YStRW5Dia7"}`, "Transaction details"},
	"get_account_info":                       {`{"publicKey":"` + keyA + `"}`, "Account info"},
	"get_program_accounts":                   {`{"programId":"` + token + `"}`, "Program accounts"},
	"get_signatures_for_address":             {`{"address":"` + keyA + `","limit":2}`, "Signatures"},
	"get_minimum_balance_for_rent_exemption": {`{"dataSize":165}`, "Minimum balance for rent exemption"},
	"get_multiple_accounts":                  {`{"publicKeys":["` + keyA + `","` + keyB + `"]}`, "Multiple accounts"},
	"get_fee_for_message":                    {`{"message":"AQID"}`, "Fee for message"},
	"get_inflation_reward":                   {`{"addresses":["` + keyA + `"],"epoch":200}`, "Inflation rewards"},
	"get_epoch_info":                         {`{}`, "Epoch info"},
	"get_epoch_schedule":                     {`{}`, "Epoch schedule"},
	"get_leader_schedule":                    {`{"identity":"` + keyA + `"}`, "Leader schedule"},
	"get_recent_performance_samples":         {`{"limit":3}`, "Recent performance samples"},
	"get_version":                            {`{}`, "Version"},
	"get_health":                             {`{}`, "Health"},

	"get_block_time":                 {`{"slot":100}`, "Block time"},
	"get_block_commitment":           {`{"block":100}`, "Block commitment"},
	"get_cluster_nodes":              {`{}`, "Cluster nodes"},
	"get_identity":                   {`{}`, "Identity"},
	"get_slot_leader":                {`{}`, "Slot leader"},
	"get_genesis_hash":               {`{}`, "Genesis hash"},
	"get_stake_minimum_delegation":   {`{}`, "Minimum stake delegation"},
	"get_vote_accounts":              {`{"votePubkey":"` + keyA + `"}`, "Vote accounts"},
	"get_inflation_governor":         {`{}`, "Inflation governor"},
	"minimum_ledger_slot":            {`{}`, "Minimum ledger slot"},
	"request_airdrop":                {`{"publicKey":"` + keyA + `","lamports":1000000000}`, "Airdrop requested"},
	"get_token_accounts_by_delegate": {`{"delegateAddress":"` + keyA + `","programId":"` + token + `"}`, "Token accounts by delegate"},
	"get_blocks_with_limit":          {`{"startSlot":100,"limit":5}`, "Blocks"},
	"get_blocks":                     {`{"startSlot":100,"endSlot":105}`, "Blocks"},
	"get_first_available_block":      {`{}`, "First available block"},
	"get_slot_leaders":               {`{"startSlot":100,"limit":2}`, "Slot leaders"},
	"get_inflation_rate":             {`{}`, "Inflation rate"},
	"get_signature_statuses":         {`{"signatures":["5j7s"],"searchTransactionHistory":true}`, "Signature statuses"},
	"is_blockhash_valid":             {`{"blockhash":"` + keyB + `"}`, "Blockhash validity"},
	"get_recent_prioritization_fees": {`{"addresses":["` + keyA + `"]}`, "Recent prioritization fees"},
	"get_block":                      {`{"slot":100,"maxSupportedTransactionVersion":0}`, "Block details"},
	"get_block_production":           {`{"range":{"firstSlot":100,"lastSlot":200},"identity":"` + keyA + `"}`, "Block production"},
	"get_supply":                     {`{}`, "Supply info"},
	"get_transaction_count":          {`{}`, "Transaction count"},
	"get_highest_snapshot_slot":      {`{}`, "Highest snapshot slot"},
	"get_max_retransmit_slot":        {`{}`, "Maximum retransmit slot"},
	"get_max_shred_insert_slot":      {`{}`, "Maximum shred insert slot"},
	"simulate_transaction":           {`{"transaction":"AQID","sigVerify":false,"replaceRecentBlockhash":true}`, "Transaction simulation result"},

	"get_asset":                {`{"id":"` + keyA + `"}`, "Asset details"},
	"get_rwa_asset":            {`{"id":"` + keyA + `"}`, "RWA Asset details"},
	"get_asset_batch":          {`{"ids":["` + keyA + `","` + keyB + `"]}`, "Asset batch details"},
	"get_asset_proof":          {`{"id":"` + keyA + `"}`, "Asset proof"},
	"get_assets_by_group":      {`{"groupKey":"collection","groupValue":"` + keyB + `","page":1,"limit":10}`, "Assets by group"},
	"get_assets_by_owner":      {`{"owner":"` + keyA + `"}`, "Assets by owner"},
	"get_assets_by_creator":    {`{"creator":"` + keyA + `","onlyVerified":true}`, "Assets by creator"},
	"get_assets_by_authority":  {`{"authority":"` + keyA + `"}`, "Assets by authority"},
	"search_assets":            {`{"query":"Mad Lads","ownerAddress":"` + keyA + `"}`, "Search results"},
	"get_signatures_for_asset": {`{"id":"` + keyA + `"}`, "Signatures for asset"},
	"get_nft_editions":         {`{"masterEditionId":"` + keyA + `"}`, "NFT editions"},
	"get_token_accounts":       {`{"owner":"` + keyA + `"}`, "Token accounts"},

	"get_priority_fee_estimate":         {`{"accountKeys":["` + keyA + `"],"options":{"includeAllPriorityFeeLevels":true}}`, "Priority fee estimate"},
	"get_compute_units":                 {`{"instructions":[` + ix + `],"payer":"` + keyA + `"}`, "Compute units"},
	"poll_transaction_confirmation":     {`{"signature":"5j7s","timeout":1000,"interval":10}`, "Transaction status"},
	"create_smart_transaction":          {`{"instructions":[` + ix + `],"signers":["` + keyA + `"]}`, "Smart transaction created"},
	"send_smart_transaction":            {`{"instructions":[` + ix + `],"signers":["` + keyA + `"],"skipPreflight":true}`, "Smart transaction sent"},
	"add_tip_instruction":               {`{"instructions":[` + ix + `],"feePayer":"` + keyA + `","tipAccount":"96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5","tipAmount":5000}`, "Tip instruction added successfully"},
	"create_smart_transaction_with_tip": {`{"instructions":[` + ix + `],"signers":["` + keyA + `"],"tipAmount":2000}`, "Smart transaction with tip created"},
	"send_jito_bundle":                  {`{"serializedTransactions":["AQID"]}`, "Jito bundle sent"},
	"get_bundle_statuses":               {`{"bundleIds":["bundle-1"]}`, "Bundle statuses"},
	"send_smart_transaction_with_tip":   {`{"instructions":[` + ix + `],"signers":["` + keyA + `"],"region":"NY"}`, "Smart transaction with tip sent"},
	"send_transaction":                  {`{"transaction":"AQID","options":{"skipPreflight":true,"maxRetries":3}}`, "Transaction sent"},
	"execute_jupiter_swap":              {`{"inputMint":"` + keyA + `","outputMint":"` + keyB + `","amount":1000000,"signer":"` + keyA + `"}`, "Jupiter swap executed"},
}

// failingRPC answers every JSON-RPC request with an error and counts them.
type failingRPC struct {
	calls atomic.Int32
}

func (f *failingRPC) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	body, _ := io.ReadAll(r.Body)
	var req struct {
		ID     json.RawMessage `json:"id"`
		Method string          `json:"method"`
	}
	_ = json.Unmarshal(body, &req)
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"jsonrpc":"2.0","id":`+string(req.ID)+`,"error":{"code":-32000,"message":"node unavailable for `+req.Method+`"}}`)
}

func newFailingClient(t *testing.T) (*helius.Live, *failingRPC) {
	t.Helper()
	f := &failingRPC{}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	live, err := helius.NewLive(helius.LiveConfig{RPCURL: srv.URL, JitoURL: srv.URL})
	if err != nil {
		t.Fatalf("NewLive: %v", err)
	}
	return live, f
}

func mustTool(t *testing.T, name string) *Tool {
	t.Helper()
	for _, tool := range All() {
		if tool.Name == NamePrefix+name {
			return tool
		}
	}
	t.Fatalf("tool %s not defined", name)
	return nil
}

func TestCatalogueCoversEveryTool(t *testing.T) {
	tools := All()
	if len(tools) != len(catalogue) {
		t.Fatalf("defined %d tools, catalogue has %d", len(tools), len(catalogue))
	}
	seen := map[string]bool{}
	for _, tool := range tools {
		if seen[tool.Name] {
			t.Fatalf("duplicate tool %s", tool.Name)
		}
		seen[tool.Name] = true
		if _, ok := catalogue[strings.TrimPrefix(tool.Name, NamePrefix)]; !ok {
			t.Fatalf("tool %s missing from catalogue", tool.Name)
		}
	}
}

func TestEveryToolSucceedsAgainstMock(t *testing.T) {
	mock := helius.NewMock()
	for name, tc := range catalogue {
		t.Run(name, func(t *testing.T) {
			res := mustTool(t, name).handle(context.Background(), mock, json.RawMessage(tc.args))
			if res.IsError {
				t.Fatalf("unexpected failure: %s", res.Text())
			}
			if len(res.Content) != 1 || res.Content[0].Type != core.ContentTypeText {
				t.Fatalf("content = %+v", res.Content)
			}
			if !strings.HasPrefix(res.Text(), tc.label+": ") {
				t.Fatalf("text = %q, want prefix %q", res.Text(), tc.label+": ")
			}
		})
	}
}

func TestEveryToolReportsRemoteFailures(t *testing.T) {
	live, _ := newFailingClient(t)
	for name, tc := range catalogue {
		if name == "add_tip_instruction" {
			// Built locally; there is no remote call to fail.
			continue
		}
		t.Run(name, func(t *testing.T) {
			tool := mustTool(t, name)
			res := tool.handle(context.Background(), live, json.RawMessage(tc.args))
			if !res.IsError || res.Kind != core.ErrorKindRemote {
				t.Fatalf("result = %+v, want remote failure", res)
			}
			want := "Error " + tool.Action + ": "
			if !strings.HasPrefix(res.Text(), want) {
				t.Fatalf("text = %q, want prefix %q", res.Text(), want)
			}
		})
	}
}

func TestMockCallsAreIdempotent(t *testing.T) {
	for name, tc := range catalogue {
		t.Run(name, func(t *testing.T) {
			tool := mustTool(t, name)
			first, _ := json.Marshal(tool.handle(context.Background(), helius.NewMock(), json.RawMessage(tc.args)))
			second, _ := json.Marshal(tool.handle(context.Background(), helius.NewMock(), json.RawMessage(tc.args)))
			if string(first) != string(second) {
				t.Fatalf("envelopes differ:\n%s\n%s", first, second)
			}
		})
	}
}

func TestBalanceEnvelope(t *testing.T) {
	res := mustTool(t, "get_balance").handle(context.Background(), helius.NewMock(), json.RawMessage(`{"publicKey":"`+keyA+`"}`))
	got, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"isError":false,"content":[{"type":"text","text":"Balance: 1000000000"}]}`
	if string(got) != want {
		t.Fatalf("envelope = %s, want %s", got, want)
	}
}

func TestInvalidAddressesNeverReachTheRemote(t *testing.T) {
	live, rpc := newFailingClient(t)
	tests := []struct {
		name string
		tool string
		args string
		want string
	}{
		{"malformed", "get_balance", `{"publicKey":"invalid-public-key"}`, "Invalid public key"},
		{"empty", "get_balance", `{"publicKey":""}`, "Invalid public key"},
		{"wrong length", "get_account_info", `{"publicKey":"1111"}`, "Invalid public key"},
		{"bad element", "get_multiple_accounts", `{"publicKeys":["` + keyA + `","0OIl"]}`, "0OIl"},
		{"bad instruction account", "get_compute_units", `{"instructions":[{"programId":"11111111111111111111111111111111","accounts":[{"pubkey":"nope"}]}],"payer":"` + keyA + `"}`, "nope"},
		{"bad instruction data", "get_compute_units", `{"instructions":[{"programId":"11111111111111111111111111111111","accounts":[],"data":"***"}],"payer":"` + keyA + `"}`, "Invalid instruction data at index 0"},
		{"bad optional", "search_assets", `{"ownerAddress":"xyz"}`, "xyz"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := mustTool(t, tc.tool).handle(context.Background(), live, json.RawMessage(tc.args))
			if !res.IsError || res.Kind != core.ErrorKindValidation {
				t.Fatalf("result = %+v, want validation failure", res)
			}
			if !strings.Contains(res.Text(), tc.want) {
				t.Fatalf("text = %q, want %q", res.Text(), tc.want)
			}
		})
	}
	if n := rpc.calls.Load(); n != 0 {
		t.Fatalf("remote calls = %d, want 0", n)
	}
}

func TestValidArgumentsMakeExactlyOneRemoteCall(t *testing.T) {
	for name, tc := range catalogue {
		t.Run(name, func(t *testing.T) {
			client := newCountingClient(helius.NewMock())
			res := mustTool(t, name).handle(context.Background(), client, json.RawMessage(tc.args))
			if res.IsError {
				t.Fatalf("unexpected failure: %s", res.Text())
			}
			if calls := client.Calls(); len(calls) != 1 {
				t.Fatalf("client calls = %v, want exactly one", calls)
			}
		})
	}
}

func TestInvalidArgumentsMakeNoClientCall(t *testing.T) {
	tests := []struct {
		tool string
		args string
	}{
		{"get_balance", `{"publicKey":"invalid-public-key"}`},
		{"get_multiple_accounts", `{"publicKeys":["` + keyA + `","0OIl"]}`},
		{"get_token_accounts_by_owner", `{"publicKey":"` + keyA + `","programId":"bad"}`},
		{"search_assets", `{"ownerAddress":"xyz"}`},
	}
	for _, tc := range tests {
		t.Run(tc.tool, func(t *testing.T) {
			client := newCountingClient(helius.NewMock())
			res := mustTool(t, tc.tool).handle(context.Background(), client, json.RawMessage(tc.args))
			if !res.IsError || res.Kind != core.ErrorKindValidation {
				t.Fatalf("result = %+v, want validation failure", res)
			}
			if calls := client.Calls(); len(calls) != 0 {
				t.Fatalf("client calls = %v, want none", calls)
			}
		})
	}
}

func TestFirstInvalidFieldWins(t *testing.T) {
	res := mustTool(t, "get_token_accounts_by_owner").handle(context.Background(), helius.NewMock(),
		json.RawMessage(`{"publicKey":"first-bad","programId":"second-bad"}`))
	if !strings.Contains(res.Text(), "first-bad") || strings.Contains(res.Text(), "second-bad") {
		t.Fatalf("text = %q", res.Text())
	}

	res = mustTool(t, "execute_jupiter_swap").handle(context.Background(), helius.NewMock(),
		json.RawMessage(`{"inputMint":"`+keyA+`","outputMint":"out-bad","amount":1,"signer":"signer-bad"}`))
	if !strings.Contains(res.Text(), "out-bad") || strings.Contains(res.Text(), "signer-bad") {
		t.Fatalf("text = %q", res.Text())
	}
}

func TestNotFoundResults(t *testing.T) {
	tests := []struct {
		tool string
		args string
		want string
	}{
		{"get_transaction", `{"signature":"non-existent-signature"}`, "Transaction not found for signature: non-existent-signature"},
		{"get_account_info", `{"publicKey":"11111111111111111111111111111112"}`, "Account not found: 11111111111111111111111111111112"},
		{"get_block", `{"slot":0}`, "Block not found for slot: 0"},
		{"get_block_time", `{"slot":0}`, "Block time not available for slot: 0"},
		{"get_asset", `{"id":"11111111111111111111111111111112"}`, "Asset not found: 11111111111111111111111111111112"},
		{"get_rwa_asset", `{"id":"11111111111111111111111111111112"}`, "RWA asset not found: 11111111111111111111111111111112"},
	}
	for _, tc := range tests {
		t.Run(tc.tool, func(t *testing.T) {
			res := mustTool(t, tc.tool).handle(context.Background(), helius.NewMock(), json.RawMessage(tc.args))
			if !res.IsError || res.Kind != core.ErrorKindNotFound {
				t.Fatalf("result = %+v, want not found", res)
			}
			if res.Text() != tc.want {
				t.Fatalf("text = %q, want %q", res.Text(), tc.want)
			}
		})
	}
}

func TestEpochScheduleMentionsSlotsPerEpoch(t *testing.T) {
	res := mustTool(t, "get_epoch_schedule").handle(context.Background(), helius.NewMock(), nil)
	if res.IsError {
		t.Fatalf("unexpected failure: %s", res.Text())
	}
	for _, want := range []string{"slotsPerEpoch", "432000"} {
		if !strings.Contains(res.Text(), want) {
			t.Fatalf("text = %q, missing %q", res.Text(), want)
		}
	}
}

func TestTokenAccountsNeedsMintOrOwner(t *testing.T) {
	res := mustTool(t, "get_token_accounts").handle(context.Background(), helius.NewMock(), json.RawMessage(`{"page":1}`))
	if !res.IsError || res.Kind != core.ErrorKindValidation {
		t.Fatalf("result = %+v", res)
	}
	if res.Text() != "Either mint or owner must be provided" {
		t.Fatalf("text = %q", res.Text())
	}
}

func TestSchemaRejectsBadArguments(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args string
		want string
	}{
		{"missing required", "get_balance", `{}`, "publicKey"},
		{"unknown property", "get_slot", `{"slots":1}`, "slots"},
		{"bad commitment", "get_slot", `{"commitment":"eventually"}`, "commitment"},
		{"wrong type", "get_block", `{"slot":"100"}`, "slot"},
		{"not an object", "get_slot", `[1,2]`, "Invalid arguments"},
		{"empty list", "get_multiple_accounts", `{"publicKeys":[]}`, "publicKeys"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := mustTool(t, tc.tool).handle(context.Background(), helius.NewMock(), json.RawMessage(tc.args))
			if !res.IsError || res.Kind != core.ErrorKindValidation {
				t.Fatalf("result = %+v, want validation failure", res)
			}
			if !strings.HasPrefix(res.Text(), "Invalid arguments: ") || !strings.Contains(res.Text(), tc.want) {
				t.Fatalf("text = %q, want %q", res.Text(), tc.want)
			}
		})
	}
}

func TestSearchQueryAcceptsStringOrObject(t *testing.T) {
	var q searchQuery
	if err := json.Unmarshal([]byte(`"Mad Lads"`), &q); err != nil || q["name"] != "Mad Lads" {
		t.Fatalf("string query = %v, %v", q, err)
	}
	if err := json.Unmarshal([]byte(`{"burnt":false}`), &q); err != nil || q["burnt"] != false {
		t.Fatalf("object query = %v, %v", q, err)
	}
	if err := json.Unmarshal([]byte(`12`), &q); err == nil {
		t.Fatal("expected error for numeric query")
	}

	tool := mustTool(t, "search_assets")
	res := tool.handle(context.Background(), helius.NewMock(), json.RawMessage(`{"query":{"grouping":["collection","x"]}}`))
	if res.IsError {
		t.Fatalf("object query failed: %s", res.Text())
	}
	res = tool.handle(context.Background(), helius.NewMock(), json.RawMessage(`{"query":12}`))
	if !res.IsError {
		t.Fatal("numeric query accepted")
	}
}

func TestSchemasAreClosedObjects(t *testing.T) {
	for _, tool := range All() {
		var schema struct {
			Type                 string   `json:"type"`
			AdditionalProperties *bool    `json:"additionalProperties"`
			Required             []string `json:"required"`
			ID                   string   `json:"$id"`
		}
		if err := json.Unmarshal(tool.Schema, &schema); err != nil {
			t.Fatalf("%s: %v", tool.Name, err)
		}
		if schema.Type != "object" {
			t.Fatalf("%s: type = %q", tool.Name, schema.Type)
		}
		if schema.AdditionalProperties == nil || *schema.AdditionalProperties {
			t.Fatalf("%s: additional properties allowed", tool.Name)
		}
		if schema.ID != "" {
			t.Fatalf("%s: unexpected $id %q", tool.Name, schema.ID)
		}
	}

	var balance struct {
		Required []string `json:"required"`
	}
	_ = json.Unmarshal(mustTool(t, "get_balance").Schema, &balance)
	if len(balance.Required) != 1 || balance.Required[0] != "publicKey" {
		t.Fatalf("get_balance required = %v", balance.Required)
	}
}
