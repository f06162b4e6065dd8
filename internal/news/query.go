package news

import "asset-insight/internal/types"

// BuildQuery maps an asset onto its news search phrase. A straight lookup by
// asset class, not inferred: commodities get a fixed generic phrase, funds
// search by fund house, equities by company name.
func BuildQuery(assetName string, assetType types.AssetType) string {
	switch assetType {
	case types.AssetGold:
		return "Gold Price India"
	case types.AssetMutualFund:
		return assetName + " Mutual Fund"
	default:
		return assetName + " share news"
	}
}
