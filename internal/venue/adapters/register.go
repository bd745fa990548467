package adapters

import (
	"fmt"

	"github.com/skinarb/skinarb/internal/profit"
	"github.com/skinarb/skinarb/internal/venue"
)

// RegisterAll wires every venue adapter into reg with its group memberships
// (spec §4.5's "fast"/"api"/"essential" presets) and registers each
// non-Steam venue's item-page URL template with engine so profit.Scan never
// needs venue-specific knowledge. steamItemNames seeds SteamMarket's
// nameid_batch plan; an empty slice is valid (SteamListing alone still
// covers the reference table).
func RegisterAll(reg *venue.Registry, engine *profit.Engine, steamItemNames []string) error {
	type entry struct {
		adapter venue.Adapter
		groups  []venue.Group
		tmpl    profit.URLTemplate
	}

	entries := []entry{
		{Waxpeer{}, []venue.Group{venue.GroupFast, venue.GroupAPI, venue.GroupEssential},
			func(n string) string { return "https://waxpeer.com/item/" + n }},
		{Skinport{}, []venue.Group{venue.GroupFast, venue.GroupEssential},
			func(n string) string { return "https://skinport.com/item/730-" + n }},
		{Bitskins{}, []venue.Group{venue.GroupAPI, venue.GroupEssential},
			func(n string) string { return "https://bitskins.com/market/cs2?search=" + n }},
		{NewSteamMarket(steamItemNames), []venue.Group{venue.GroupEssential}, nil},
		{SteamListing{}, []venue.Group{venue.GroupEssential}, nil},
		{Empire{}, []venue.Group{venue.GroupAPI},
			func(n string) string { return "https://csgoempire.com/market?search=" + n }},
		{Shadowpay{}, []venue.Group{venue.GroupAPI},
			func(n string) string { return "https://shadowpay.com/csgo-items?search=" + n }},
		{CSDeals{}, []venue.Group{venue.GroupFast},
			func(n string) string { return "https://cs.deals/market/730/?name=" + n }},
		{CSTrade{}, []venue.Group{venue.GroupFast},
			func(n string) string { return "https://cs.trade/market?search=" + n }},
		{Lisskins{}, []venue.Group{venue.GroupFast},
			func(n string) string { return "https://lis-skins.com/market/csgo/?query=" + n }},
		{MarketCSGO{}, []venue.Group{venue.GroupAPI},
			func(n string) string { return "https://market.csgo.com/en/?search=" + n }},
		{MannCoStore{}, nil, nil},
		{TradeIt{}, []venue.Group{venue.GroupAPI},
			func(n string) string { return "https://tradeit.gg/csgo/trade?search=" + n }},
		{RapidSkins{}, nil, nil},
		{Skindeck{}, []venue.Group{venue.GroupAPI},
			func(n string) string { return "https://skindeck.com/market?search=" + n }},
		{Skinout{}, []venue.Group{venue.GroupFast},
			func(n string) string { return "https://skinout.gg/market?search=" + n }},
		{White{}, []venue.Group{venue.GroupAPI},
			func(n string) string { return "https://white.market/market/730?search=" + n }},
		{SteamID{}, nil, nil},
	}

	for _, e := range entries {
		if err := reg.Register(e.adapter, e.groups...); err != nil {
			return fmt.Errorf("registering %s: %w", e.adapter.Identifier(), err)
		}
		if e.tmpl != nil && engine != nil {
			engine.RegisterURLTemplate(e.adapter.Identifier(), e.tmpl)
		}
	}
	return nil
}
