package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	invopop "github.com/invopop/jsonschema"

	"github.com/dcSpark/mcp-server-helius/internal/core"
	"github.com/dcSpark/mcp-server-helius/internal/helius"
)

// paging is embedded by Digital Asset Standard inputs.
type paging struct {
	Page  int `json:"page,omitempty" jsonschema:"minimum=1,description=Page number starting at 1"`
	Limit int `json:"limit,omitempty" jsonschema:"minimum=1,maximum=1000,description=Items per page"`
}

func (p paging) page() helius.Page {
	return helius.Page{Page: p.Page, Limit: p.Limit}
}

type assetIDInput struct {
	ID string `json:"id" jsonschema:"description=Asset address"`
}

type assetBatchInput struct {
	IDs []string `json:"ids" jsonschema:"minItems=1,maxItems=1000,description=Asset addresses"`
}

type assetsByGroupInput struct {
	GroupKey   string `json:"groupKey" jsonschema:"description=Group key such as collection"`
	GroupValue string `json:"groupValue" jsonschema:"description=Group value"`
	paging
}

type assetsByOwnerInput struct {
	Owner string `json:"owner" jsonschema:"description=Owner address"`
	paging
}

type assetsByCreatorInput struct {
	Creator      string `json:"creator" jsonschema:"description=Creator address"`
	OnlyVerified bool   `json:"onlyVerified,omitempty" jsonschema:"description=Only return assets with a verified creator"`
	paging
}

type assetsByAuthorityInput struct {
	Authority string `json:"authority" jsonschema:"description=Update authority address"`
	paging
}

type searchAssetsInput struct {
	Query        searchQuery `json:"query,omitempty" jsonschema:"description=Search filters or a name to match"`
	OwnerAddress string      `json:"ownerAddress,omitempty" jsonschema:"description=Owner address"`
	paging
}

type signaturesForAssetInput struct {
	ID string `json:"id" jsonschema:"description=Asset address"`
	paging
}

type nftEditionsInput struct {
	MasterEditionID string `json:"masterEditionId" jsonschema:"description=Master edition address"`
	paging
}

type tokenAccountsInput struct {
	Mint  string `json:"mint,omitempty" jsonschema:"description=Mint address"`
	Owner string `json:"owner,omitempty" jsonschema:"description=Owner address"`
	paging
}

// searchQuery is either a filter object or a bare string matched
// against asset names.
type searchQuery map[string]any

func (searchQuery) JSONSchema() *invopop.Schema {
	return &invopop.Schema{
		OneOf: []*invopop.Schema{
			{Type: "object"},
			{Type: "string"},
		},
	}
}

func (q *searchQuery) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*q = searchQuery{"name": name}
		return nil
	}
	var filters map[string]any
	if err := json.Unmarshal(b, &filters); err != nil {
		return fmt.Errorf("query must be an object or a string: %w", err)
	}
	*q = filters
	return nil
}

func dasTools() []*Tool {
	return []*Tool{
		define("get_asset", "Get a digital asset by its ID", "getting asset",
			func(ctx context.Context, c helius.Client, in assetIDInput) (json.RawMessage, error) {
				var a addrs
				id := a.key(in.ID)
				if err := a.check(); err != nil {
					return nil, err
				}
				asset, err := c.GetAsset(ctx, id)
				if errors.Is(err, helius.ErrNotFound) {
					return nil, core.NotFoundError("Asset not found: %s", in.ID)
				}
				return asset, err
			},
			labelled[assetIDInput, json.RawMessage]("Asset details"),
		),

		define("get_rwa_asset", "Get a real world asset by its ID", "getting RWA asset",
			func(ctx context.Context, c helius.Client, in assetIDInput) (json.RawMessage, error) {
				var a addrs
				id := a.key(in.ID)
				if err := a.check(); err != nil {
					return nil, err
				}
				asset, err := c.GetRWAAsset(ctx, id)
				if errors.Is(err, helius.ErrNotFound) {
					return nil, core.NotFoundError("RWA asset not found: %s", in.ID)
				}
				return asset, err
			},
			labelled[assetIDInput, json.RawMessage]("RWA Asset details"),
		),

		define("get_asset_batch", "Get multiple digital assets by ID", "getting asset batch",
			func(ctx context.Context, c helius.Client, in assetBatchInput) (json.RawMessage, error) {
				var a addrs
				ids := a.keys(in.IDs)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetAssetBatch(ctx, ids)
			},
			labelled[assetBatchInput, json.RawMessage]("Asset batch details"),
		),

		define("get_asset_proof", "Get the merkle proof of a compressed asset", "getting asset proof",
			func(ctx context.Context, c helius.Client, in assetIDInput) (json.RawMessage, error) {
				var a addrs
				id := a.key(in.ID)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetAssetProof(ctx, id)
			},
			labelled[assetIDInput, json.RawMessage]("Asset proof"),
		),

		define("get_assets_by_group", "Get assets by group key and value", "getting assets by group",
			func(ctx context.Context, c helius.Client, in assetsByGroupInput) (json.RawMessage, error) {
				return c.GetAssetsByGroup(ctx, in.GroupKey, in.GroupValue, in.page())
			},
			labelled[assetsByGroupInput, json.RawMessage]("Assets by group"),
		),

		define("get_assets_by_owner", "Get assets owned by an address", "getting assets by owner",
			func(ctx context.Context, c helius.Client, in assetsByOwnerInput) (json.RawMessage, error) {
				var a addrs
				owner := a.key(in.Owner)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetAssetsByOwner(ctx, owner, in.page())
			},
			labelled[assetsByOwnerInput, json.RawMessage]("Assets by owner"),
		),

		define("get_assets_by_creator", "Get assets created by an address", "getting assets by creator",
			func(ctx context.Context, c helius.Client, in assetsByCreatorInput) (json.RawMessage, error) {
				var a addrs
				creator := a.key(in.Creator)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetAssetsByCreator(ctx, creator, in.OnlyVerified, in.page())
			},
			labelled[assetsByCreatorInput, json.RawMessage]("Assets by creator"),
		),

		define("get_assets_by_authority", "Get assets by update authority", "getting assets by authority",
			func(ctx context.Context, c helius.Client, in assetsByAuthorityInput) (json.RawMessage, error) {
				var a addrs
				authority := a.key(in.Authority)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetAssetsByAuthority(ctx, authority, in.page())
			},
			labelled[assetsByAuthorityInput, json.RawMessage]("Assets by authority"),
		),

		define("search_assets", "Search digital assets by filters", "searching assets",
			func(ctx context.Context, c helius.Client, in searchAssetsInput) (json.RawMessage, error) {
				var a addrs
				owner := a.optional(in.OwnerAddress)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.SearchAssets(ctx, helius.SearchAssetsRequest{
					Query:        in.Query,
					OwnerAddress: owner,
					Page:         in.page(),
				})
			},
			labelled[searchAssetsInput, json.RawMessage]("Search results"),
		),

		define("get_signatures_for_asset", "Get transaction signatures for a compressed asset", "getting signatures for asset",
			func(ctx context.Context, c helius.Client, in signaturesForAssetInput) (json.RawMessage, error) {
				var a addrs
				id := a.key(in.ID)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetSignaturesForAsset(ctx, id, in.page())
			},
			labelled[signaturesForAssetInput, json.RawMessage]("Signatures for asset"),
		),

		define("get_nft_editions", "Get the editions of a master edition NFT", "getting NFT editions",
			func(ctx context.Context, c helius.Client, in nftEditionsInput) (json.RawMessage, error) {
				var a addrs
				master := a.key(in.MasterEditionID)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetNFTEditions(ctx, master, in.page())
			},
			labelled[nftEditionsInput, json.RawMessage]("NFT editions"),
		),

		define("get_token_accounts", "Get token accounts by mint or owner", "getting token accounts",
			func(ctx context.Context, c helius.Client, in tokenAccountsInput) (json.RawMessage, error) {
				if in.Mint == "" && in.Owner == "" {
					return nil, core.ValidationError("Either mint or owner must be provided")
				}
				var a addrs
				mint := a.optional(in.Mint)
				owner := a.optional(in.Owner)
				if err := a.check(); err != nil {
					return nil, err
				}
				return c.GetTokenAccounts(ctx, helius.TokenAccountsRequest{Mint: mint, Owner: owner, Page: in.page()})
			},
			labelled[tokenAccountsInput, json.RawMessage]("Token accounts"),
		),
	}
}
